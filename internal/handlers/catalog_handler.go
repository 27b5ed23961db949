package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NWU-Kano/library-service/internal/models"
	"github.com/NWU-Kano/library-service/internal/services"
	"github.com/NWU-Kano/library-service/internal/utils"
)

// CatalogHandler is the single HTTP surface for all four approval-gated
// content types, instantiated once per type.
type CatalogHandler[T models.CatalogItem] struct {
	BaseHandler
	service  services.CatalogService[T]
	resource string
}

func NewCatalogHandler[T models.CatalogItem](service services.CatalogService[T], resource string, logger utils.Logger) *CatalogHandler[T] {
	return &CatalogHandler[T]{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		resource:    resource,
	}
}

// List returns items visible to the requester, newest first.
func (h *CatalogHandler[T]) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), CurrentUser(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"results": items,
		"count":   len(items),
	})
}

// Get returns one item; unapproved items are hidden from non-staff.
func (h *CatalogHandler[T]) Get(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	item, err := h.service.Get(c.Request.Context(), CurrentUser(c), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// Create stores a new, unapproved item.
func (h *CatalogHandler[T]) Create(c *gin.Context) {
	h.LogRequest(c, "Creating catalog item", "resource", h.resource)

	var item T
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	created, err := h.service.Create(c.Request.Context(), CurrentUser(c), &item)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// Update replaces an item's fields; approval state is untouched.
func (h *CatalogHandler[T]) Update(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Updating catalog item", "resource", h.resource, "id", id)

	var item T
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	updated, err := h.service.Update(c.Request.Context(), CurrentUser(c), id, &item)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *CatalogHandler[T]) Delete(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting catalog item", "resource", h.resource, "id", id)

	if err := h.service.Delete(c.Request.Context(), CurrentUser(c), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Approve publishes an item. Approving twice is a no-op.
func (h *CatalogHandler[T]) Approve(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Approving catalog item", "resource", h.resource, "id", id)

	if err := h.service.Approve(c.Request.Context(), CurrentUser(c), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "approved"})
}

// ===== LOOKUP HANDLER =====

// LookupHandler serves the subject and category tables.
type LookupHandler[T any] struct {
	BaseHandler
	service services.LookupService[T]
}

func NewLookupHandler[T any](service services.LookupService[T], logger utils.Logger) *LookupHandler[T] {
	return &LookupHandler[T]{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

func (h *LookupHandler[T]) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *LookupHandler[T]) Get(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	item, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *LookupHandler[T]) Create(c *gin.Context) {
	var item T
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	created, err := h.service.Create(c.Request.Context(), &item)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *LookupHandler[T]) Update(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var item T
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, &item)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *LookupHandler[T]) Delete(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
