package dto

import (
	"time"

	"github.com/gagyebu-app/gagyebu/internal/core/domain"
)

// CreateCardRequest defines the payload for creating a card.
type CreateCardRequest struct {
	Name                string `json:"name" binding:"required"`
	PaymentDay          int    `json:"paymentDay" binding:"required,min=1,max=31"`
	UsageStartDay       int    `json:"usageStartDay" binding:"required,min=1,max=31"`
	UsageEndDay         int    `json:"usageEndDay" binding:"required,min=1,max=31"`
	SettlementAccountID string `json:"settlementAccountID" binding:"required"`
}

// UpdateCardRequest defines the payload for updating a card.
type UpdateCardRequest struct {
	Name                *string `json:"name,omitempty"`
	PaymentDay          *int    `json:"paymentDay,omitempty" binding:"omitempty,min=1,max=31"`
	UsageStartDay       *int    `json:"usageStartDay,omitempty" binding:"omitempty,min=1,max=31"`
	UsageEndDay         *int    `json:"usageEndDay,omitempty" binding:"omitempty,min=1,max=31"`
	SettlementAccountID *string `json:"settlementAccountID,omitempty"`
}

// CardResponse is the API representation of a card.
type CardResponse struct {
	CardID              string    `json:"cardID"`
	Name                string    `json:"name"`
	PaymentDay          int       `json:"paymentDay"`
	UsageStartDay       int       `json:"usageStartDay"`
	UsageEndDay         int       `json:"usageEndDay"`
	SettlementAccountID string    `json:"settlementAccountID"`
	CreatedAt           time.Time `json:"createdAt"`
	LastUpdatedAt       time.Time `json:"lastUpdatedAt"`
}

// ToCardResponse maps a domain card to its response DTO.
func ToCardResponse(c *domain.Card) CardResponse {
	return CardResponse{
		CardID:              c.CardID,
		Name:                c.Name,
		PaymentDay:          c.PaymentDay,
		UsageStartDay:       c.UsageStartDay,
		UsageEndDay:         c.UsageEndDay,
		SettlementAccountID: c.SettlementAccountID,
		CreatedAt:           c.CreatedAt,
		LastUpdatedAt:       c.LastUpdatedAt,
	}
}

// ListCardsResponse wraps a list of cards.
type ListCardsResponse struct {
	Cards []CardResponse `json:"cards"`
}
