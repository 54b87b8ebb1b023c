package services_test

import (
	"testing"
	"time"

	"github.com/gagyebu-app/gagyebu/internal/core/domain"
	portssvc "github.com/gagyebu-app/gagyebu/internal/core/ports/services"
	"github.com/gagyebu-app/gagyebu/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// countingLedger wraps the real ledger and counts derivations so memoization
// can be observed.
type countingLedger struct {
	inner portssvc.LedgerSvcFacade
	calls int
}

func (c *countingLedger) BalancesForAccount(snap *domain.Snapshot, accountID string) map[string]decimal.Decimal {
	c.calls++
	return c.inner.BalancesForAccount(snap, accountID)
}

func (c *countingLedger) TotalInKRW(snap *domain.Snapshot, balances map[string]decimal.Decimal) decimal.Decimal {
	return c.inner.TotalInKRW(snap, balances)
}

type AssetServiceTestSuite struct {
	suite.Suite
	ledger  *countingLedger
	service portssvc.AssetSvcFacade

	accountID string
	cardID    string
	now       time.Time
}

func (suite *AssetServiceTestSuite) SetupTest() {
	suite.ledger = &countingLedger{inner: services.NewLedgerService()}
	suite.service = services.NewAssetService(suite.ledger, services.NewBillingService())
	suite.accountID = uuid.NewString()
	suite.cardID = uuid.NewString()
	suite.now = time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
}

func (suite *AssetServiceTestSuite) newSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		Revision: uuid.NewString(),
		Accounts: map[string]domain.Account{
			suite.accountID: {
				AccountID:      suite.accountID,
				Name:           "Main",
				Category:       domain.CategoryBank,
				CurrencySymbol: domain.BaseCurrencySymbol,
				InitialBalance: d("100000"),
			},
		},
		Cards: map[string]domain.Card{
			suite.cardID: {
				CardID:              suite.cardID,
				Name:                "Shinhan",
				PaymentDay:          15,
				UsageStartDay:       1,
				UsageEndDay:         31,
				SettlementAccountID: suite.accountID,
			},
		},
		Currencies: map[string]domain.Currency{
			domain.BaseCurrencySymbol: {Symbol: domain.BaseCurrencySymbol, Rate: d("1"), IsBase: true},
			"USD":                     {Symbol: "USD", Rate: d("1300")},
		},
		Transactions: []domain.Transaction{
			{
				TransactionID: uuid.NewString(),
				Kind:          domain.KindCardExpense,
				Timestamp:     time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
				Amount:        d("30000"),
				CardID:        suite.cardID,
			},
		},
	}
}

func (suite *AssetServiceTestSuite) TestSummary_TotalAssetIsCashMinusDue() {
	summary := suite.service.Summary(suite.newSnapshot(), suite.now)

	suite.True(summary.TotalCashAssetInKRW.Equal(d("100000")))
	suite.True(summary.TotalAssetInKRW.Equal(d("70000")))
	suite.Require().Len(summary.UpcomingPayments, 1)
	suite.Equal("Shinhan", summary.UpcomingPayments[0].CardName)
	suite.True(summary.UpcomingPayments[0].DueAmount.Equal(d("30000")))
}

func (suite *AssetServiceTestSuite) TestSummary_CurrencyRowsConverted() {
	snap := suite.newSnapshot()
	usd := d("100")
	snap.Transactions = append(snap.Transactions, domain.Transaction{
		TransactionID:    uuid.NewString(),
		Kind:             domain.KindIncome,
		Timestamp:        time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC),
		Amount:           d("130000"),
		AccountID:        suite.accountID,
		OriginalAmount:   &usd,
		OriginalCurrency: "USD",
	})

	summary := suite.service.Summary(snap, suite.now)

	suite.Require().Len(summary.AssetsByCurrency, 2)
	suite.Equal(domain.BaseCurrencySymbol, summary.AssetsByCurrency[0].Symbol)
	suite.Equal("USD", summary.AssetsByCurrency[1].Symbol)
	suite.True(summary.AssetsByCurrency[1].Balance.Equal(d("100")))
	suite.True(summary.AssetsByCurrency[1].InKRW.Equal(d("130000")))
	suite.True(summary.TotalCashAssetInKRW.Equal(d("230000")))
}

func (suite *AssetServiceTestSuite) TestSummary_MemoizedOnRevisionAndDay() {
	snap := suite.newSnapshot()

	first := suite.service.Summary(snap, suite.now)
	callsAfterFirst := suite.ledger.calls
	second := suite.service.Summary(snap, suite.now.Add(2*time.Hour))

	suite.Equal(first, second)
	suite.Equal(callsAfterFirst, suite.ledger.calls, "same revision and day must not recompute")
}

func (suite *AssetServiceTestSuite) TestSummary_RecomputesOnNewRevision() {
	snap := suite.newSnapshot()
	suite.service.Summary(snap, suite.now)
	callsAfterFirst := suite.ledger.calls

	changed := suite.newSnapshot() // fresh revision
	suite.service.Summary(changed, suite.now)

	suite.Greater(suite.ledger.calls, callsAfterFirst)
}

func (suite *AssetServiceTestSuite) TestSummary_PaidChargesDropOut() {
	snap := suite.newSnapshot()
	snap.Transactions[0].IsPaid = true

	summary := suite.service.Summary(snap, suite.now)

	suite.Empty(summary.UpcomingPayments)
	suite.True(summary.TotalAssetInKRW.Equal(summary.TotalCashAssetInKRW))
}

func TestAssetServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AssetServiceTestSuite))
}
