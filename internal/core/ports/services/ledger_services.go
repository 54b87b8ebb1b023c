package services

import (
	"time"

	"github.com/gagyebu-app/gagyebu/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerSvcFacade reconstructs account balances by replaying transactions.
// All methods are pure functions of the snapshot: replay order never matters
// and missing references degrade to zero contribution instead of erroring.
type LedgerSvcFacade interface {
	// BalancesForAccount derives the per-currency balance map of one account.
	BalancesForAccount(snap *domain.Snapshot, accountID string) map[string]decimal.Decimal

	// TotalInKRW converts a per-currency balance map to KRW using the
	// snapshot's currency table; unknown symbols convert at rate 1.
	TotalInKRW(snap *domain.Snapshot, balances map[string]decimal.Decimal) decimal.Decimal
}

// BillingSvcFacade computes card billing-cycle windows and due amounts.
type BillingSvcFacade interface {
	// OpenWindow returns the currently-open usage window of the card,
	// evaluated at now. The window is recomputed fresh on every call.
	OpenWindow(card domain.Card, now time.Time) (start, end time.Time)

	// DueAmount sums the unpaid card-expense charges of the card whose
	// timestamps fall inside the open window at now.
	DueAmount(snap *domain.Snapshot, card domain.Card, now time.Time) decimal.Decimal
}

// AssetSvcFacade composes the currency table, the ledger and the billing
// engine into dashboard aggregates.
type AssetSvcFacade interface {
	// Summary computes the asset aggregate for the snapshot. Results are
	// memoized on the snapshot revision; calling it repeatedly with the same
	// snapshot is cheap.
	Summary(snap *domain.Snapshot, now time.Time) domain.AssetSummary
}
