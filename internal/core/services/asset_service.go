package services

import (
	"sort"
	"sync"
	"time"

	"github.com/gagyebu-app/gagyebu/internal/core/domain"
	portssvc "github.com/gagyebu-app/gagyebu/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// assetService composes the currency table, the ledger and the billing
// engine into the dashboard aggregates. Summaries are pure functions of
// (snapshot, date), so the last result is memoized on the snapshot revision
// plus the evaluation day: repeated renders over an unchanged snapshot reuse
// it instead of replaying the ledger.
type assetService struct {
	ledger  portssvc.LedgerSvcFacade
	billing portssvc.BillingSvcFacade

	mu       sync.Mutex
	cacheKey string
	cached   domain.AssetSummary
}

// NewAssetService creates a new AssetService.
func NewAssetService(ledger portssvc.LedgerSvcFacade, billing portssvc.BillingSvcFacade) portssvc.AssetSvcFacade {
	return &assetService{
		ledger:  ledger,
		billing: billing,
	}
}

var _ portssvc.AssetSvcFacade = (*assetService)(nil)

// Summary computes the asset aggregate for the snapshot at now.
func (s *assetService) Summary(snap *domain.Snapshot, now time.Time) domain.AssetSummary {
	key := snap.Revision + "|" + now.Format("2006-01-02")

	s.mu.Lock()
	if s.cacheKey == key {
		cached := s.cached
		s.mu.Unlock()
		return cached
	}
	s.mu.Unlock()

	summary := s.compute(snap, now)

	s.mu.Lock()
	s.cacheKey = key
	s.cached = summary
	s.mu.Unlock()
	return summary
}

func (s *assetService) compute(snap *domain.Snapshot, now time.Time) domain.AssetSummary {
	byCurrency := make(map[string]decimal.Decimal)
	totalCash := decimal.Zero

	for accountID := range snap.Accounts {
		balances := s.ledger.BalancesForAccount(snap, accountID)
		totalCash = totalCash.Add(s.ledger.TotalInKRW(snap, balances))
		for symbol, amount := range balances {
			byCurrency[symbol] = byCurrency[symbol].Add(amount)
		}
	}

	upcoming := make([]domain.CardDue, 0)
	totalDue := decimal.Zero
	for _, card := range snap.Cards {
		due := s.billing.DueAmount(snap, card, now)
		if due.LessThanOrEqual(decimal.Zero) {
			continue
		}
		start, end := s.billing.OpenWindow(card, now)
		upcoming = append(upcoming, domain.CardDue{
			CardID:      card.CardID,
			CardName:    card.Name,
			DueAmount:   due,
			WindowStart: start,
			WindowEnd:   end,
			PaymentDay:  card.PaymentDay,
		})
		totalDue = totalDue.Add(due)
	}
	sort.Slice(upcoming, func(i, j int) bool { return upcoming[i].CardName < upcoming[j].CardName })

	assetsByCurrency := make([]domain.CurrencyBalance, 0, len(byCurrency))
	for symbol, amount := range byCurrency {
		assetsByCurrency = append(assetsByCurrency, domain.CurrencyBalance{
			Symbol:  symbol,
			Balance: amount,
			InKRW:   amount.Mul(rateFor(snap, symbol)),
		})
	}
	sort.Slice(assetsByCurrency, func(i, j int) bool { return assetsByCurrency[i].Symbol < assetsByCurrency[j].Symbol })

	return domain.AssetSummary{
		TotalCashAssetInKRW: totalCash,
		TotalAssetInKRW:     totalCash.Sub(totalDue),
		UpcomingPayments:    upcoming,
		AssetsByCurrency:    assetsByCurrency,
	}
}
