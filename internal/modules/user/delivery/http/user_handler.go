package http

import (
	"mime/multipart"
	"net/http"

	"anoa.com/pagebuilder/internal/modules/user/service"
	"anoa.com/pagebuilder/pkg/response"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	profileService service.ProfileService
}

func NewUserHandler(profileService service.ProfileService) *UserHandler {
	return &UserHandler{profileService: profileService}
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.profileService.Get(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	form, picture := multipartForm(c, "picture")

	user, err := h.profileService.Update(c.Request.Context(), userID, form, picture, c.Request.Host)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *UserHandler) DeleteMe(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.profileService.Delete(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "User Deleted")
}

// multipartForm extracts the text fields plus the first file under each of
// the given keys. A non-multipart body yields empty values, which downstream
// validation rejects.
func multipartForm(c *gin.Context, fileKey string) (map[string][]string, *multipart.FileHeader) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		_ = c.Request.ParseForm()
		return c.Request.PostForm, nil
	}

	var file *multipart.FileHeader
	if headers := form.File[fileKey]; len(headers) > 0 {
		file = headers[0]
	}
	return form.Value, file
}
