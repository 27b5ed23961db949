package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NWU-Kano/library-service/internal/services"
	"github.com/NWU-Kano/library-service/internal/utils"
)

// GroupHandler serves the admin group CRUD endpoints.
type GroupHandler struct {
	BaseHandler
	groupService services.GroupService
}

func NewGroupHandler(groupService services.GroupService, logger utils.Logger) *GroupHandler {
	return &GroupHandler{
		BaseHandler:  NewBaseHandler(logger),
		groupService: groupService,
	}
}

func (h *GroupHandler) ListGroups(c *gin.Context) {
	groups, err := h.groupService.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

func (h *GroupHandler) GetGroup(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	group, err := h.groupService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (h *GroupHandler) CreateGroup(c *gin.Context) {
	h.LogRequest(c, "Creating group")

	var req services.GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	group, err := h.groupService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Updating group", "group_id", id)

	var req services.GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	group, err := h.groupService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting group", "group_id", id)

	if err := h.groupService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PermissionHandler serves the admin permission CRUD endpoints.
type PermissionHandler struct {
	BaseHandler
	permissionService services.PermissionService
}

func NewPermissionHandler(permissionService services.PermissionService, logger utils.Logger) *PermissionHandler {
	return &PermissionHandler{
		BaseHandler:       NewBaseHandler(logger),
		permissionService: permissionService,
	}
}

func (h *PermissionHandler) ListPermissions(c *gin.Context) {
	perms, err := h.permissionService.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, perms)
}

func (h *PermissionHandler) GetPermission(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	perm, err := h.permissionService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, perm)
}

func (h *PermissionHandler) CreatePermission(c *gin.Context) {
	h.LogRequest(c, "Creating permission")

	var req services.PermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	perm, err := h.permissionService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, perm)
}

func (h *PermissionHandler) UpdatePermission(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.PermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	perm, err := h.permissionService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, perm)
}

func (h *PermissionHandler) DeletePermission(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.permissionService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
