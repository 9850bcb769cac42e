package http

import (
	"mime/multipart"
	"net/http"

	"anoa.com/pagebuilder/internal/modules/page/service"
	"anoa.com/pagebuilder/pkg/apperror"
	"anoa.com/pagebuilder/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PageHandler struct {
	pageService service.PageService
}

func NewPageHandler(pageService service.PageService) *PageHandler {
	return &PageHandler{pageService: pageService}
}

func (h *PageHandler) Create(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	form, customLogo, footerLogo := multipartFormPair(c, "custom_logo", "footer_logo")

	page, err := h.pageService.Create(c.Request.Context(), userID, form, customLogo, footerLogo, c.Request.Host)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "page": page})
}

func (h *PageHandler) GetAll(c *gin.Context) {
	pages, err := h.pageService.GetAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "pages": pages})
}

func (h *PageHandler) GetAllMin(c *gin.Context) {
	pages, err := h.pageService.GetAllMin(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "pages": pages})
}

func (h *PageHandler) GetByUser(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	pages, err := h.pageService.GetByUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "pages": pages})
}

func (h *PageHandler) GetByTemplate(c *gin.Context) {
	templateID, err := uuid.Parse(c.Param("templateId"))
	if err != nil {
		response.Error(c, apperror.New(http.StatusUnprocessableEntity, "Wrong template id, please try again", nil))
		return
	}

	pages, err := h.pageService.GetByTemplate(c.Request.Context(), templateID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "pages": pages})
}

func (h *PageHandler) GetByTemplateMin(c *gin.Context) {
	templateID, err := uuid.Parse(c.Param("templateId"))
	if err != nil {
		response.Error(c, apperror.New(http.StatusUnprocessableEntity, "Wrong template id, please try again", nil))
		return
	}

	pages, err := h.pageService.GetByTemplateMin(c.Request.Context(), templateID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "pages": pages})
}

func (h *PageHandler) GetOne(c *gin.Context) {
	id, ok := pageID(c)
	if !ok {
		return
	}

	page, err := h.pageService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "page": page})
}

func (h *PageHandler) GetContents(c *gin.Context) {
	id, ok := pageID(c)
	if !ok {
		return
	}

	contents, err := h.pageService.GetContents(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "page": contents})
}

func (h *PageHandler) AddContents(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, ok := pageID(c)
	if !ok {
		return
	}

	form, _, _ := multipartFormPair(c, "", "")

	if err := h.pageService.AddContents(c.Request.Context(), userID, id, form); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Contents added to the page")
}

func (h *PageHandler) ReplaceContents(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, ok := pageID(c)
	if !ok {
		return
	}

	form, _, _ := multipartFormPair(c, "", "")

	if err := h.pageService.ReplaceContents(c.Request.Context(), userID, id, form); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Page contents updated")
}

func (h *PageHandler) Update(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, ok := pageID(c)
	if !ok {
		return
	}

	form, customLogo, footerLogo := multipartFormPair(c, "custom_logo", "footer_logo")

	if err := h.pageService.Update(c.Request.Context(), userID, id, form, customLogo, footerLogo, c.Request.Host); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Page Updated")
}

func (h *PageHandler) Delete(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, ok := pageID(c)
	if !ok {
		return
	}

	if err := h.pageService.Delete(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Page Deleted")
}

func (h *PageHandler) DeleteByUser(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.pageService.DeleteByUser(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Pages Deleted")
}

func pageID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("pageId"))
	if err != nil {
		response.Error(c, apperror.New(http.StatusUnprocessableEntity, "Wrong page id, please try again", nil))
		return uuid.Nil, false
	}
	return id, true
}

func multipartFormPair(c *gin.Context, firstKey, secondKey string) (map[string][]string, *multipart.FileHeader, *multipart.FileHeader) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		_ = c.Request.ParseForm()
		return c.Request.PostForm, nil, nil
	}

	var first, second *multipart.FileHeader
	if firstKey != "" {
		if headers := form.File[firstKey]; len(headers) > 0 {
			first = headers[0]
		}
	}
	if secondKey != "" {
		if headers := form.File[secondKey]; len(headers) > 0 {
			second = headers[0]
		}
	}
	return form.Value, first, second
}
