package http

import (
	"mime/multipart"
	"net/http"

	"anoa.com/pagebuilder/internal/modules/template/service"
	"anoa.com/pagebuilder/pkg/apperror"
	"anoa.com/pagebuilder/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TemplateHandler struct {
	templateService service.TemplateService
}

func NewTemplateHandler(templateService service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

func (h *TemplateHandler) Create(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	form, logo := multipartForm(c, "custom_logo")

	template, err := h.templateService.Create(c.Request.Context(), userID, form, logo, c.Request.Host)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "template": template})
}

func (h *TemplateHandler) GetAll(c *gin.Context) {
	templates, err := h.templateService.GetAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "templates": templates})
}

func (h *TemplateHandler) GetAllMin(c *gin.Context) {
	templates, err := h.templateService.GetAllMin(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "templates": templates})
}

func (h *TemplateHandler) GetByUser(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	templates, err := h.templateService.GetByUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "templates": templates})
}

func (h *TemplateHandler) GetOne(c *gin.Context) {
	id, ok := templateID(c)
	if !ok {
		return
	}

	template, err := h.templateService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "template": template})
}

func (h *TemplateHandler) Update(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, ok := templateID(c)
	if !ok {
		return
	}

	form, logo := multipartForm(c, "custom_logo")

	if err := h.templateService.Update(c.Request.Context(), userID, id, form, logo, c.Request.Host); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Template Updated")
}

func (h *TemplateHandler) Delete(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, ok := templateID(c)
	if !ok {
		return
	}

	if err := h.templateService.Delete(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Template Deleted")
}

func (h *TemplateHandler) DeleteByUser(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.templateService.DeleteByUser(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Templates Deleted")
}

func templateID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("templateId"))
	if err != nil {
		response.Error(c, apperror.New(http.StatusUnprocessableEntity, "Wrong template id, please try again", nil))
		return uuid.Nil, false
	}
	return id, true
}

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
