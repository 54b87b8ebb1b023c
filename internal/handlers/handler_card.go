package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/gagyebu-app/gagyebu/internal/core/ports/services"
	"github.com/gagyebu-app/gagyebu/internal/dto"
	"github.com/gagyebu-app/gagyebu/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// cardHandler handles HTTP requests related to credit cards.
type cardHandler struct {
	cardService        portssvc.CardSvcFacade
	transactionService portssvc.TransactionSvcFacade
	snapshotService    portssvc.SnapshotSvcFacade
	billingService     portssvc.BillingSvcFacade
}

func newCardHandler(cs portssvc.CardSvcFacade, ts portssvc.TransactionSvcFacade, ss portssvc.SnapshotSvcFacade, bs portssvc.BillingSvcFacade) *cardHandler {
	return &cardHandler{
		cardService:        cs,
		transactionService: ts,
		snapshotService:    ss,
		billingService:     bs,
	}
}

// registerCardRoutes registers routes related to cards and card payments.
func registerCardRoutes(rg *gin.RouterGroup, cs portssvc.CardSvcFacade, ts portssvc.TransactionSvcFacade, ss portssvc.SnapshotSvcFacade, bs portssvc.BillingSvcFacade) {
	h := newCardHandler(cs, ts, ss, bs)

	cards := rg.Group("/cards")
	{
		cards.POST("", h.createCard)
		cards.GET("", h.listCards)
		cards.GET("/:cardID", h.getCard)
		cards.GET("/:cardID/billing", h.getCardBilling)
		cards.PUT("/:cardID", h.updateCard)
		cards.DELETE("/:cardID", h.deleteCard)
		cards.POST("/:cardID/payments", h.confirmPayment)
	}
}

// CardBillingResponse reports the currently open usage window of a card and
// the unpaid amount accumulated inside it.
type CardBillingResponse struct {
	Card        dto.CardResponse `json:"card"`
	WindowStart time.Time        `json:"windowStart"`
	WindowEnd   time.Time        `json:"windowEnd"`
	DueAmount   decimal.Decimal  `json:"dueAmount"`
}

// createCard godoc
// @Summary Create a new card
// @Description Creates a credit card linked to a KRW settlement account
// @Tags cards
// @Accept  json
// @Produce  json
// @Param   card body dto.CreateCardRequest true "Card details"
// @Success 201 {object} dto.CardResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 404 {object} ErrorResponse "Settlement account not found"
// @Security BearerAuth
// @Router /cards [post]
func (h *cardHandler) createCard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createCard", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	card, err := h.cardService.CreateCard(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create card")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCardResponse(card))
}

// getCard godoc
// @Summary Get a card
// @Tags cards
// @Produce  json
// @Param   cardID path string true "Card ID"
// @Success 200 {object} dto.CardResponse
// @Failure 404 {object} ErrorResponse "Card not found"
// @Security BearerAuth
// @Router /cards/{cardID} [get]
func (h *cardHandler) getCard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	card, err := h.cardService.GetCardByID(c.Request.Context(), userID, c.Param("cardID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve card")
		return
	}
	c.JSON(http.StatusOK, dto.ToCardResponse(card))
}

// getCardBilling godoc
// @Summary Get the open billing window of a card
// @Description Computes the card's current usage window from its payment day and usage bounds, plus the unpaid due amount inside it
// @Tags cards
// @Produce  json
// @Param   cardID path string true "Card ID"
// @Success 200 {object} CardBillingResponse
// @Failure 404 {object} ErrorResponse "Card not found"
// @Security BearerAuth
// @Router /cards/{cardID}/billing [get]
func (h *cardHandler) getCardBilling(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	card, err := h.cardService.GetCardByID(c.Request.Context(), userID, c.Param("cardID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve card")
		return
	}

	snap, err := h.snapshotService.Load(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to load snapshot", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to compute billing window"})
		return
	}

	now := time.Now()
	start, end := h.billingService.OpenWindow(*card, now)
	c.JSON(http.StatusOK, CardBillingResponse{
		Card:        dto.ToCardResponse(card),
		WindowStart: start,
		WindowEnd:   end,
		DueAmount:   h.billingService.DueAmount(snap, *card, now),
	})
}

// listCards godoc
// @Summary List cards
// @Tags cards
// @Produce  json
// @Success 200 {object} dto.ListCardsResponse
// @Security BearerAuth
// @Router /cards [get]
func (h *cardHandler) listCards(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	cards, err := h.cardService.ListCards(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list cards")
		return
	}

	resp := dto.ListCardsResponse{Cards: make([]dto.CardResponse, 0, len(cards))}
	for i := range cards {
		resp.Cards = append(resp.Cards, dto.ToCardResponse(&cards[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// updateCard godoc
// @Summary Update a card
// @Tags cards
// @Accept  json
// @Produce  json
// @Param   cardID path string true "Card ID"
// @Param   card body dto.UpdateCardRequest true "Fields to update"
// @Success 200 {object} dto.CardResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 404 {object} ErrorResponse "Card not found"
// @Security BearerAuth
// @Router /cards/{cardID} [put]
func (h *cardHandler) updateCard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	card, err := h.cardService.UpdateCard(c.Request.Context(), userID, c.Param("cardID"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update card")
		return
	}
	c.JSON(http.StatusOK, dto.ToCardResponse(card))
}

// deleteCard godoc
// @Summary Delete a card
// @Description Removes a card. Historical card-expenses keep their reference and stay visible.
// @Tags cards
// @Produce  json
// @Param   cardID path string true "Card ID"
// @Success 204 "Deleted"
// @Failure 404 {object} ErrorResponse "Card not found"
// @Security BearerAuth
// @Router /cards/{cardID} [delete]
func (h *cardHandler) deleteCard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.cardService.DeleteCard(c.Request.Context(), userID, c.Param("cardID")); err != nil {
		respondServiceError(c, logger, err, "Failed to delete card")
		return
	}
	c.Status(http.StatusNoContent)
}

// confirmPayment godoc
// @Summary Confirm a card payment
// @Description Settles the listed unpaid charges of the card with one payment transaction debiting the settlement account. The payment and the charge flips commit atomically.
// @Tags cards
// @Accept  json
// @Produce  json
// @Param   cardID path string true "Card ID"
// @Param   payment body dto.ConfirmPaymentRequest true "Charges to settle"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse "A charge is missing, already paid or on another card"
// @Failure 404 {object} ErrorResponse "Card not found"
// @Security BearerAuth
// @Router /cards/{cardID}/payments [post]
func (h *cardHandler) confirmPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	payment, err := h.transactionService.ConfirmCardPayment(c.Request.Context(), userID, c.Param("cardID"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to confirm payment")
		return
	}

	logger.Info("Card payment confirmed",
		slog.String("payment_id", payment.TransactionID),
		slog.Int("settled_charges", len(payment.PaidCardTransactionIDs)))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(payment))
}
