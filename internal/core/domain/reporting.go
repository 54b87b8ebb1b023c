package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyBalance is one row of a per-currency holdings report.
type CurrencyBalance struct {
	Symbol  string          `json:"symbol"`
	Balance decimal.Decimal `json:"balance"`      // Native currency units
	InKRW   decimal.Decimal `json:"balanceInKRW"` // Converted at the current rate
}

// CardDue is the open unpaid obligation of one card.
type CardDue struct {
	CardID      string          `json:"cardID"`
	CardName    string          `json:"cardName"`
	DueAmount   decimal.Decimal `json:"dueAmount"`
	WindowStart time.Time       `json:"windowStart"`
	WindowEnd   time.Time       `json:"windowEnd"`
	PaymentDay  int             `json:"paymentDay"`
}

// AssetSummary is the dashboard aggregate over one snapshot.
type AssetSummary struct {
	TotalCashAssetInKRW decimal.Decimal   `json:"totalCashAssetInKRW"`
	TotalAssetInKRW     decimal.Decimal   `json:"totalAssetInKRW"` // Cash minus upcoming card payments
	UpcomingPayments    []CardDue         `json:"upcomingPayments"`
	AssetsByCurrency    []CurrencyBalance `json:"assetsByCurrency"`
}
