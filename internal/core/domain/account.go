package domain

import (
	"github.com/shopspring/decimal"
)

// AccountCategory classifies where an account is held.
type AccountCategory string

const (
	CategoryBank      AccountCategory = "bank"
	CategoryBrokerage AccountCategory = "brokerage"
	CategoryCrypto    AccountCategory = "crypto"
	CategoryCash      AccountCategory = "cash"
	CategoryOther     AccountCategory = "other"
)

// ValidAccountCategory reports whether c is one of the known categories.
func ValidAccountCategory(c AccountCategory) bool {
	switch c {
	case CategoryBank, CategoryBrokerage, CategoryCrypto, CategoryCash, CategoryOther:
		return true
	}
	return false
}

// Account represents a financial account within the core domain.
// Its live balance is always derived by replaying transactions on top of
// InitialBalance; there is no stored mutable balance.
type Account struct {
	AccountID      string          `json:"accountID"` // Primary Key (e.g., UUID)
	UserID         string          `json:"userID"`    // Owning user (NON-NULL)
	Name           string          `json:"name"`      // User-defined name
	Category       AccountCategory `json:"category"`
	CurrencySymbol string          `json:"currencySymbol"` // FK -> currencies.symbol (NON-NULL)
	InitialBalance decimal.Decimal `json:"initialBalance"` // Starting balance in the native currency
	AuditFields                    // Embed CreatedAt, CreatedBy, etc.
}
