package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/gagyebu-app/gagyebu/internal/core/ports/services"
	"github.com/gagyebu-app/gagyebu/internal/dto"
	"github.com/gagyebu-app/gagyebu/internal/middleware"
	"github.com/gin-gonic/gin"
)

// currencyHandler handles HTTP requests related to the per-user currency table.
type currencyHandler struct {
	currencyService portssvc.CurrencySvcFacade
}

func newCurrencyHandler(cs portssvc.CurrencySvcFacade) *currencyHandler {
	return &currencyHandler{currencyService: cs}
}

// registerCurrencyRoutes registers routes related to currencies.
func registerCurrencyRoutes(rg *gin.RouterGroup, cs portssvc.CurrencySvcFacade) {
	h := newCurrencyHandler(cs)

	currencies := rg.Group("/currencies")
	{
		currencies.POST("", h.createCurrency)
		currencies.GET("", h.listCurrencies)
		currencies.GET("/:symbol", h.getCurrencyBySymbol)
		currencies.PUT("/:symbol", h.updateCurrency)
		currencies.DELETE("/:symbol", h.deleteCurrency)
	}
}

// createCurrency godoc
// @Summary Add a currency
// @Description Adds a non-base currency with its KRW conversion rate
// @Tags currencies
// @Accept  json
// @Produce  json
// @Param   currency body dto.CreateCurrencyRequest true "Currency details"
// @Success 201 {object} dto.CurrencyResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 409 {object} ErrorResponse "Symbol already exists"
// @Security BearerAuth
// @Router /currencies [post]
func (h *currencyHandler) createCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createCurrency", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	currency, err := h.currencyService.CreateCurrency(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create currency")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCurrencyResponse(currency))
}

// getCurrencyBySymbol godoc
// @Summary Get a currency
// @Tags currencies
// @Produce  json
// @Param   symbol path string true "Currency symbol"
// @Success 200 {object} dto.CurrencyResponse
// @Failure 404 {object} ErrorResponse "Currency not found"
// @Security BearerAuth
// @Router /currencies/{symbol} [get]
func (h *currencyHandler) getCurrencyBySymbol(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	currency, err := h.currencyService.GetCurrencyBySymbol(c.Request.Context(), userID, c.Param("symbol"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve currency")
		return
	}
	c.JSON(http.StatusOK, dto.ToCurrencyResponse(currency))
}

// listCurrencies godoc
// @Summary List currencies
// @Description Retrieves the user's currency table, base row first
// @Tags currencies
// @Produce  json
// @Success 200 {object} dto.ListCurrenciesResponse
// @Security BearerAuth
// @Router /currencies [get]
func (h *currencyHandler) listCurrencies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	currencies, err := h.currencyService.ListCurrencies(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list currencies")
		return
	}

	resp := dto.ListCurrenciesResponse{Currencies: make([]dto.CurrencyResponse, 0, len(currencies))}
	for i := range currencies {
		resp.Currencies = append(resp.Currencies, dto.ToCurrencyResponse(&currencies[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// updateCurrency godoc
// @Summary Update a currency
// @Description Updates the name or rate of a non-base currency. The KRW base row is immutable.
// @Tags currencies
// @Accept  json
// @Produce  json
// @Param   symbol path string true "Currency symbol"
// @Param   currency body dto.UpdateCurrencyRequest true "Fields to update"
// @Success 200 {object} dto.CurrencyResponse
// @Failure 400 {object} ErrorResponse "Base currency is immutable"
// @Failure 404 {object} ErrorResponse "Currency not found"
// @Security BearerAuth
// @Router /currencies/{symbol} [put]
func (h *currencyHandler) updateCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	currency, err := h.currencyService.UpdateCurrency(c.Request.Context(), userID, c.Param("symbol"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update currency")
		return
	}
	c.JSON(http.StatusOK, dto.ToCurrencyResponse(currency))
}

// deleteCurrency godoc
// @Summary Delete a currency
// @Description Removes a non-base currency. The KRW base row cannot be deleted.
// @Tags currencies
// @Produce  json
// @Param   symbol path string true "Currency symbol"
// @Success 204 "Deleted"
// @Failure 400 {object} ErrorResponse "Base currency cannot be deleted"
// @Failure 404 {object} ErrorResponse "Currency not found"
// @Security BearerAuth
// @Router /currencies/{symbol} [delete]
func (h *currencyHandler) deleteCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.currencyService.DeleteCurrency(c.Request.Context(), userID, c.Param("symbol")); err != nil {
		respondServiceError(c, logger, err, "Failed to delete currency")
		return
	}
	c.Status(http.StatusNoContent)
}
