package domain

import (
	"github.com/shopspring/decimal"
)

// BaseCurrencySymbol is the fixed base currency every rate is expressed
// against. The base row has Rate 1 and can be neither edited nor deleted.
const BaseCurrencySymbol = "KRW"

// Currency represents a supported currency in the domain, keyed by symbol.
// Rate is the number of KRW one unit of this currency is worth, so every
// conversion to the base is amount * rate.
type Currency struct {
	Symbol string          `json:"symbol"` // Primary Key (e.g., "USD")
	Name   string          `json:"name"`   // e.g., "US Dollar"
	Rate   decimal.Decimal `json:"rate"`   // KRW per 1 unit
	IsBase bool            `json:"isBase"` // True only for KRW
	UserID string          `json:"userID"` // Owning user (NON-NULL)
	AuditFields
}

// BaseCurrency returns the fixed KRW base row for a user.
func BaseCurrency(userID string) Currency {
	return Currency{
		Symbol: BaseCurrencySymbol,
		Name:   "Korean Won",
		Rate:   decimal.NewFromInt(1),
		IsBase: true,
		UserID: userID,
	}
}
