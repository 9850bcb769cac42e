package http

import (
	"net/http"

	"anoa.com/pagebuilder/internal/modules/group/service"
	"anoa.com/pagebuilder/pkg/apperror"
	"anoa.com/pagebuilder/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GroupHandler struct {
	groupService service.GroupService
}

func NewGroupHandler(groupService service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

func (h *GroupHandler) CreateEmpty(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	group, err := h.groupService.CreateEmpty(c.Request.Context(), userID, formValues(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "group": group})
}

func (h *GroupHandler) Create(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	group, err := h.groupService.Create(c.Request.Context(), userID, formValues(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "group": group})
}

func (h *GroupHandler) GetByUser(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	groups, err := h.groupService.GetByUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "groups": groups})
}

func (h *GroupHandler) GetOne(c *gin.Context) {
	id, ok := groupID(c)
	if !ok {
		return
	}

	group, err := h.groupService.GetFull(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "group": group})
}

func (h *GroupHandler) GetOneMin(c *gin.Context) {
	id, ok := groupID(c)
	if !ok {
		return
	}

	group, err := h.groupService.GetMin(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "group": group})
}

func (h *GroupHandler) Rename(c *gin.Context) {
	userID, id, ok := userAndGroupID(c)
	if !ok {
		return
	}

	if err := h.groupService.Rename(c.Request.Context(), userID, id, formValues(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Group Updated")
}

func (h *GroupHandler) AddPages(c *gin.Context) {
	userID, id, ok := userAndGroupID(c)
	if !ok {
		return
	}

	if err := h.groupService.AddPages(c.Request.Context(), userID, id, formValues(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Pages added to the group")
}

func (h *GroupHandler) RemovePages(c *gin.Context) {
	userID, id, ok := userAndGroupID(c)
	if !ok {
		return
	}

	if err := h.groupService.RemovePages(c.Request.Context(), userID, id, formValues(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Pages removed from the group")
}

func (h *GroupHandler) Delete(c *gin.Context) {
	userID, id, ok := userAndGroupID(c)
	if !ok {
		return
	}

	if err := h.groupService.Delete(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Group Deleted")
}

func groupID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("groupId"))
	if err != nil {
		response.Error(c, apperror.New(http.StatusUnprocessableEntity, "Wrong group id, please try again", nil))
		return uuid.Nil, false
	}
	return id, true
}

func userAndGroupID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return uuid.Nil, uuid.Nil, false
	}
	id, ok := groupID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}

// formValues accepts multipart or urlencoded bodies uniformly.
func formValues(c *gin.Context) map[string][]string {
	if form, err := c.MultipartForm(); err == nil && form != nil {
		return form.Value
	}
	_ = c.Request.ParseForm()
	return c.Request.PostForm
}
