package services_test

import (
	"testing"
	"time"

	"github.com/gagyebu-app/gagyebu/internal/core/domain"
	portssvc "github.com/gagyebu-app/gagyebu/internal/core/ports/services"
	"github.com/gagyebu-app/gagyebu/internal/core/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type BillingServiceTestSuite struct {
	suite.Suite
	service portssvc.BillingSvcFacade
	card    domain.Card
}

func (suite *BillingServiceTestSuite) SetupTest() {
	suite.service = services.NewBillingService()
	suite.card = domain.Card{
		CardID:        uuid.NewString(),
		Name:          "Shinhan",
		PaymentDay:    15,
		UsageStartDay: 1,
		UsageEndDay:   31,
	}
}

func (suite *BillingServiceTestSuite) TestOpenWindow_BeforePaymentDayAnchorsPreviousMonth() {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	start, end := suite.service.OpenWindow(suite.card, now)

	suite.Equal(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), start)
	suite.Equal(time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC), end)
}

func (suite *BillingServiceTestSuite) TestOpenWindow_OnPaymentDayRollsToCurrentMonth() {
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	start, end := suite.service.OpenWindow(suite.card, now)

	suite.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), start)
	suite.Equal(time.Date(2025, 4, 30, 23, 59, 59, 0, time.UTC), end)
}

func (suite *BillingServiceTestSuite) TestOpenWindow_ClampsDayToFebruary() {
	// Day 31 must land on the last day of February, not roll into March.
	card := suite.card
	card.UsageStartDay = 30
	now := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)

	start, end := suite.service.OpenWindow(card, now)

	suite.Equal(time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC), start)
	suite.Equal(time.Date(2025, 4, 30, 23, 59, 59, 0, time.UTC), end)

	now = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	start, end = suite.service.OpenWindow(card, now)

	suite.Equal(time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), start, "February clamps day 30 to its last day")
	suite.Equal(time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC), end)
}

func (suite *BillingServiceTestSuite) TestOpenWindow_LeapYearFebruary() {
	card := suite.card
	card.UsageEndDay = 31
	now := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)

	_, end := suite.service.OpenWindow(card, now)

	suite.Equal(time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC), end)
}

func (suite *BillingServiceTestSuite) charge(amount string, ts time.Time, mutate ...func(*domain.Transaction)) domain.Transaction {
	t := domain.Transaction{
		TransactionID: uuid.NewString(),
		Kind:          domain.KindCardExpense,
		Timestamp:     ts,
		Amount:        d(amount),
		CardID:        suite.card.CardID,
	}
	for _, m := range mutate {
		m(&t)
	}
	return t
}

func (suite *BillingServiceTestSuite) TestDueAmount_SumsUnpaidChargesInWindow() {
	now := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC) // window: Mar 1 .. Apr 30
	snap := &domain.Snapshot{
		Revision: uuid.NewString(),
		Cards:    map[string]domain.Card{suite.card.CardID: suite.card},
		Transactions: []domain.Transaction{
			suite.charge("100", time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)),
			suite.charge("250", time.Date(2025, 4, 30, 23, 0, 0, 0, time.UTC)),
			suite.charge("999", time.Date(2025, 2, 20, 9, 0, 0, 0, time.UTC)), // before window
			suite.charge("40", time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC), func(t *domain.Transaction) {
				t.IsPaid = true
			}),
			suite.charge("60", time.Date(2025, 3, 8, 9, 0, 0, 0, time.UTC), func(t *domain.Transaction) {
				t.CardID = uuid.NewString() // different card
			}),
		},
	}

	due := suite.service.DueAmount(snap, suite.card, now)

	suite.True(due.Equal(d("350")), "got %s", due)
}

func (suite *BillingServiceTestSuite) TestDueAmount_EmptyWindowIsZero() {
	now := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	snap := &domain.Snapshot{Revision: uuid.NewString()}

	due := suite.service.DueAmount(snap, suite.card, now)

	suite.True(due.IsZero())
}

func TestBillingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BillingServiceTestSuite))
}
