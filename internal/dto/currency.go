package dto

import (
	"time"

	"github.com/gagyebu-app/gagyebu/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCurrencyRequest defines the payload for adding a currency.
type CreateCurrencyRequest struct {
	Symbol string          `json:"symbol" binding:"required,uppercase,min=3,max=5"`
	Name   string          `json:"name" binding:"required"`
	Rate   decimal.Decimal `json:"rate" binding:"required"` // KRW per 1 unit
}

// UpdateCurrencyRequest defines the payload for updating a currency's rate or name.
type UpdateCurrencyRequest struct {
	Name *string          `json:"name,omitempty"`
	Rate *decimal.Decimal `json:"rate,omitempty"`
}

// CurrencyResponse is the API representation of a currency.
type CurrencyResponse struct {
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Rate          decimal.Decimal `json:"rate"`
	IsBase        bool            `json:"isBase"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// ToCurrencyResponse maps a domain currency to its response DTO.
func ToCurrencyResponse(c *domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		Symbol:        c.Symbol,
		Name:          c.Name,
		Rate:          c.Rate,
		IsBase:        c.IsBase,
		CreatedAt:     c.CreatedAt,
		LastUpdatedAt: c.LastUpdatedAt,
	}
}

// ListCurrenciesResponse wraps a list of currencies.
type ListCurrenciesResponse struct {
	Currencies []CurrencyResponse `json:"currencies"`
}
