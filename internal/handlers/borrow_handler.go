package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NWU-Kano/library-service/internal/services"
	"github.com/NWU-Kano/library-service/internal/utils"
)

type BorrowHandler struct {
	BaseHandler
	borrowService services.BorrowService
}

func NewBorrowHandler(borrowService services.BorrowService, logger utils.Logger) *BorrowHandler {
	return &BorrowHandler{
		BaseHandler:   NewBaseHandler(logger),
		borrowService: borrowService,
	}
}

// ListBorrows lists borrow records in the requester's scope
// @Summary List borrow records
// @Description Staff see every record; everyone else only their own
// @Tags borrows
// @Produce json
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} services.BorrowListResponse
// @Failure 401 {object} ErrorResponse
// @Router /borrows [get]
func (h *BorrowHandler) ListBorrows(c *gin.Context) {
	limit, offset, page := h.parsePagination(c)

	records, total, err := h.borrowService.List(c.Request.Context(), CurrentUser(c), limit, offset)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.BorrowListResponse{
		Records: records,
		Total:   total,
		Page:    page,
		Size:    limit,
	})
}

// GetBorrow retrieves one borrow record
// @Summary Get borrow record
// @Tags borrows
// @Produce json
// @Param id path uint true "Borrow ID"
// @Success 200 {object} models.BorrowBook
// @Failure 404 {object} ErrorResponse
// @Router /borrows/{id} [get]
func (h *BorrowHandler) GetBorrow(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	record, err := h.borrowService.Get(c.Request.Context(), CurrentUser(c), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// CreateBorrow records a borrow
// @Summary Record a borrow
// @Tags borrows
// @Accept json
// @Produce json
// @Param borrow body services.CreateBorrowRequest true "Borrow data"
// @Success 201 {object} models.BorrowBook
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /borrows [post]
func (h *BorrowHandler) CreateBorrow(c *gin.Context) {
	h.LogRequest(c, "Recording borrow")

	var req services.CreateBorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	record, err := h.borrowService.Create(c.Request.Context(), CurrentUser(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// UpdateBorrow updates a borrow record, typically to set the return date
// @Summary Update borrow record
// @Tags borrows
// @Accept json
// @Produce json
// @Param id path uint true "Borrow ID"
// @Param borrow body services.UpdateBorrowRequest true "Fields to update"
// @Success 200 {object} models.BorrowBook
// @Failure 404 {object} ErrorResponse
// @Router /borrows/{id} [put]
func (h *BorrowHandler) UpdateBorrow(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Updating borrow", "borrow_id", id)

	var req services.UpdateBorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	record, err := h.borrowService.Update(c.Request.Context(), CurrentUser(c), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// DeleteBorrow removes a borrow record
// @Summary Delete borrow record
// @Tags borrows
// @Param id path uint true "Borrow ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /borrows/{id} [delete]
func (h *BorrowHandler) DeleteBorrow(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting borrow", "borrow_id", id)

	if err := h.borrowService.Delete(c.Request.Context(), CurrentUser(c), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
