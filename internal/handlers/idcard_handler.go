package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NWU-Kano/library-service/internal/services"
	"github.com/NWU-Kano/library-service/internal/utils"
)

type IDCardHandler struct {
	BaseHandler
	idCardService services.IDCardService
}

func NewIDCardHandler(idCardService services.IDCardService, logger utils.Logger) *IDCardHandler {
	return &IDCardHandler{
		BaseHandler:   NewBaseHandler(logger),
		idCardService: idCardService,
	}
}

// ListCards lists id cards in the requester's scope
// @Summary List ID cards
// @Description Staff see every card; everyone else only their own
// @Tags idcards
// @Produce json
// @Success 200 {array} models.IDCard
// @Failure 401 {object} ErrorResponse
// @Router /idcards [get]
func (h *IDCardHandler) ListCards(c *gin.Context) {
	cards, err := h.idCardService.List(c.Request.Context(), CurrentUser(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, cards)
}

// GetCard retrieves one id card
// @Summary Get ID card
// @Tags idcards
// @Produce json
// @Param id path uint true "Card ID"
// @Success 200 {object} models.IDCard
// @Failure 404 {object} ErrorResponse
// @Router /idcards/{id} [get]
func (h *IDCardHandler) GetCard(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	card, err := h.idCardService.Get(c.Request.Context(), CurrentUser(c), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, card)
}

// GetOwnCard retrieves the requester's own card with display details
// @Summary Get own ID card
// @Tags idcards
// @Produce json
// @Success 200 {object} models.CardDetails
// @Failure 404 {object} ErrorResponse
// @Router /idcards/me [get]
func (h *IDCardHandler) GetOwnCard(c *gin.Context) {
	card, err := h.idCardService.GetOwn(c.Request.Context(), CurrentUser(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, card.Details())
}

// DeleteCard removes a card (staff only; cards reissue on the next user save)
// @Summary Delete ID card
// @Tags idcards
// @Param id path uint true "Card ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /idcards/{id} [delete]
func (h *IDCardHandler) DeleteCard(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting id card", "card_id", id)

	if err := h.idCardService.Delete(c.Request.Context(), CurrentUser(c), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
