package dto

import (
	"time"

	"github.com/gagyebu-app/gagyebu/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the payload for creating an account.
type CreateAccountRequest struct {
	Name           string                 `json:"name" binding:"required"`
	Category       domain.AccountCategory `json:"category" binding:"required,accountcategory"`
	CurrencySymbol string                 `json:"currencySymbol" binding:"required,uppercase,min=3,max=5"`
	InitialBalance decimal.Decimal        `json:"initialBalance"`
}

// UpdateAccountRequest defines the payload for updating an account.
// Nil fields are left unchanged.
type UpdateAccountRequest struct {
	Name           *string                 `json:"name,omitempty"`
	Category       *domain.AccountCategory `json:"category,omitempty" binding:"omitempty,accountcategory"`
	InitialBalance *decimal.Decimal        `json:"initialBalance,omitempty"`
}

// AccountResponse is the API representation of an account.
type AccountResponse struct {
	AccountID      string                 `json:"accountID"`
	Name           string                 `json:"name"`
	Category       domain.AccountCategory `json:"category"`
	CurrencySymbol string                 `json:"currencySymbol"`
	InitialBalance decimal.Decimal        `json:"initialBalance"`
	CreatedAt      time.Time              `json:"createdAt"`
	LastUpdatedAt  time.Time              `json:"lastUpdatedAt"`
}

// ToAccountResponse maps a domain account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      a.AccountID,
		Name:           a.Name,
		Category:       a.Category,
		CurrencySymbol: a.CurrencySymbol,
		InitialBalance: a.InitialBalance,
		CreatedAt:      a.CreatedAt,
		LastUpdatedAt:  a.LastUpdatedAt,
	}
}

// AccountBalanceResponse pairs an account with its derived balances.
type AccountBalanceResponse struct {
	Account    AccountResponse            `json:"account"`
	Balances   map[string]decimal.Decimal `json:"balances"` // currency symbol -> native balance
	TotalInKRW decimal.Decimal            `json:"totalInKRW"`
}

// ListAccountsResponse wraps a list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}
