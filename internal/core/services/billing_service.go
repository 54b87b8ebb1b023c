package services

import (
	"time"

	"github.com/gagyebu-app/gagyebu/internal/core/domain"
	portssvc "github.com/gagyebu-app/gagyebu/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// billingService computes the rolling billing-cycle window of a card and the
// unpaid amount accumulated inside it. The window is never persisted; it is
// recomputed from the card's configured days and the caller's "now" on every
// evaluation.
type billingService struct{}

// NewBillingService creates a new BillingService.
func NewBillingService() portssvc.BillingSvcFacade {
	return &billingService{}
}

var _ portssvc.BillingSvcFacade = (*billingService)(nil)

// OpenWindow returns the currently-open usage window of the card.
//
// Evaluated before the card's payment day, the open window is anchored on
// the previous calendar month; on or after it, on the current month. The end
// day lands one calendar month after the start month's anchor, at 23:59:59.
// A configured day past the end of its target month (day 31 in February) is
// clamped to the month's last day, never allowed to spill into the wrong
// window via native date rollover.
func (s *billingService) OpenWindow(card domain.Card, now time.Time) (time.Time, time.Time) {
	anchorYear, anchorMonth, _ := now.Date()
	startMonth := time.Date(anchorYear, anchorMonth, 1, 0, 0, 0, 0, now.Location())
	if now.Day() < card.PaymentDay {
		startMonth = startMonth.AddDate(0, -1, 0)
	}
	endMonth := startMonth.AddDate(0, 1, 0)

	start := dayInMonth(startMonth, card.UsageStartDay, 0, 0, 0)
	end := dayInMonth(endMonth, card.UsageEndDay, 23, 59, 59)
	return start, end
}

// dayInMonth builds a timestamp on the given day of month's month, clamping
// day to the month's actual length.
func dayInMonth(month time.Time, day, hour, min, sec int) time.Time {
	last := daysIn(month)
	if day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return time.Date(month.Year(), month.Month(), day, hour, min, sec, 0, month.Location())
}

// daysIn returns the number of days in the month containing t.
func daysIn(t time.Time) int {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1).Day()
}

// DueAmount sums the unpaid card-expense charges of the card whose
// timestamps fall inside the open window at now.
func (s *billingService) DueAmount(snap *domain.Snapshot, card domain.Card, now time.Time) decimal.Decimal {
	start, end := s.OpenWindow(card, now)

	due := decimal.Zero
	for _, txn := range snap.Transactions {
		if txn.Kind != domain.KindCardExpense || txn.CardID != card.CardID || txn.IsPaid {
			continue
		}
		if txn.Timestamp.Before(start) || txn.Timestamp.After(end) {
			continue
		}
		due = due.Add(txn.Amount)
	}
	return due
}
