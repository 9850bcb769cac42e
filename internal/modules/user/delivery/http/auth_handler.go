package http

import (
	"net/http"

	"anoa.com/pagebuilder/internal/modules/user/dto"
	"anoa.com/pagebuilder/internal/modules/user/service"
	"anoa.com/pagebuilder/pkg/apperror"
	"anoa.com/pagebuilder/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const oauthStateCookie = "oauth_state"

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input dto.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, apperror.New(http.StatusUnprocessableEntity, "Invalid registration data, please check your input", err))
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, apperror.New(http.StatusUnprocessableEntity, "Invalid login data, please check your input", err))
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state := uuid.NewString()
	c.SetCookie(oauthStateCookie, state, 300, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.authService.GoogleLoginURL(state))
}

func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if !h.validState(c) {
		response.Error(c, apperror.New(http.StatusUnauthorized, "Invalid login state, please try again", nil))
		return
	}

	resp, err := h.authService.GoogleCallback(c.Request.Context(), c.Query("code"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) FacebookLogin(c *gin.Context) {
	state := uuid.NewString()
	c.SetCookie(oauthStateCookie, state, 300, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.authService.FacebookLoginURL(state))
}

func (h *AuthHandler) FacebookCallback(c *gin.Context) {
	if !h.validState(c) {
		response.Error(c, apperror.New(http.StatusUnauthorized, "Invalid login state, please try again", nil))
		return
	}

	resp, err := h.authService.FacebookCallback(c.Request.Context(), c.Query("code"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var input dto.RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, apperror.New(http.StatusUnprocessableEntity, "refresh_token is required", err))
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), input.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": pair})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var input dto.RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, apperror.New(http.StatusUnprocessableEntity, "refresh_token is required", err))
		return
	}

	if err := h.authService.Logout(c.Request.Context(), input.RefreshToken); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Logged out")
}

func (h *AuthHandler) validState(c *gin.Context) bool {
	expected, err := c.Cookie(oauthStateCookie)
	if err != nil || expected == "" {
		return false
	}
	return c.Query("state") == expected
}
