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

func d(v string) decimal.Decimal {
	dec, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return dec
}

type LedgerServiceTestSuite struct {
	suite.Suite
	service portssvc.LedgerSvcFacade

	accountID string
	otherID   string
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.service = services.NewLedgerService()
	suite.accountID = uuid.NewString()
	suite.otherID = uuid.NewString()
}

func (suite *LedgerServiceTestSuite) newSnapshot(txns ...domain.Transaction) *domain.Snapshot {
	return &domain.Snapshot{
		Revision: uuid.NewString(),
		Accounts: map[string]domain.Account{
			suite.accountID: {
				AccountID:      suite.accountID,
				Name:           "Main",
				Category:       domain.CategoryBank,
				CurrencySymbol: domain.BaseCurrencySymbol,
				InitialBalance: d("1000"),
			},
			suite.otherID: {
				AccountID:      suite.otherID,
				Name:           "Savings",
				Category:       domain.CategoryBank,
				CurrencySymbol: domain.BaseCurrencySymbol,
				InitialBalance: d("0"),
			},
		},
		Cards: map[string]domain.Card{},
		Currencies: map[string]domain.Currency{
			domain.BaseCurrencySymbol: {Symbol: domain.BaseCurrencySymbol, Rate: d("1"), IsBase: true},
			"USD":                     {Symbol: "USD", Rate: d("1300")},
		},
		Transactions: txns,
	}
}

func (suite *LedgerServiceTestSuite) txn(kind domain.TransactionKind, amount string, mutate ...func(*domain.Transaction)) domain.Transaction {
	t := domain.Transaction{
		TransactionID: uuid.NewString(),
		Kind:          kind,
		Timestamp:     time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
		Amount:        d(amount),
		AccountID:     suite.accountID,
	}
	for _, m := range mutate {
		m(&t)
	}
	return t
}

func (suite *LedgerServiceTestSuite) TestBalance_IncomeAndExpense() {
	snap := suite.newSnapshot(
		suite.txn(domain.KindIncome, "500"),
		suite.txn(domain.KindExpense, "200"),
	)

	balances := suite.service.BalancesForAccount(snap, suite.accountID)

	suite.Require().Len(balances, 1)
	suite.True(balances[domain.BaseCurrencySymbol].Equal(d("1300")))
}

func (suite *LedgerServiceTestSuite) TestBalance_OrderIndependent() {
	txns := []domain.Transaction{
		suite.txn(domain.KindIncome, "500"),
		suite.txn(domain.KindExpense, "120"),
		suite.txn(domain.KindTransfer, "300", func(t *domain.Transaction) { t.ToAccountID = suite.otherID }),
		suite.txn(domain.KindIncome, "42"),
	}
	reversed := make([]domain.Transaction, len(txns))
	for i, t := range txns {
		reversed[len(txns)-1-i] = t
	}

	forward := suite.service.BalancesForAccount(suite.newSnapshot(txns...), suite.accountID)
	backward := suite.service.BalancesForAccount(suite.newSnapshot(reversed...), suite.accountID)

	suite.Equal(len(forward), len(backward))
	for symbol, amount := range forward {
		suite.True(amount.Equal(backward[symbol]), "balance for %s differs between replay orders", symbol)
	}
}

func (suite *LedgerServiceTestSuite) TestBalance_TransferMovesBetweenAccounts() {
	snap := suite.newSnapshot(
		suite.txn(domain.KindTransfer, "400", func(t *domain.Transaction) { t.ToAccountID = suite.otherID }),
	)

	source := suite.service.BalancesForAccount(snap, suite.accountID)
	dest := suite.service.BalancesForAccount(snap, suite.otherID)

	suite.True(source[domain.BaseCurrencySymbol].Equal(d("600")))
	suite.True(dest[domain.BaseCurrencySymbol].Equal(d("400")))
}

func (suite *LedgerServiceTestSuite) TestBalance_MissingAccountYieldsEmpty() {
	snap := suite.newSnapshot(suite.txn(domain.KindIncome, "500"))

	balances := suite.service.BalancesForAccount(snap, uuid.NewString())

	suite.Empty(balances)
}

func (suite *LedgerServiceTestSuite) TestBalance_OrphanedTransactionTolerated() {
	// The destination account was deleted; the source side still applies.
	deletedID := uuid.NewString()
	snap := suite.newSnapshot(
		suite.txn(domain.KindTransfer, "250", func(t *domain.Transaction) { t.ToAccountID = deletedID }),
	)

	source := suite.service.BalancesForAccount(snap, suite.accountID)

	suite.True(source[domain.BaseCurrencySymbol].Equal(d("750")))
	suite.Empty(suite.service.BalancesForAccount(snap, deletedID))
}

func (suite *LedgerServiceTestSuite) TestBalance_OriginalCurrencyBucketsSeparately() {
	usd := d("100")
	snap := suite.newSnapshot(
		suite.txn(domain.KindIncome, "130000", func(t *domain.Transaction) {
			t.OriginalAmount = &usd
			t.OriginalCurrency = "USD"
		}),
	)

	balances := suite.service.BalancesForAccount(snap, suite.accountID)

	suite.True(balances["USD"].Equal(d("100")))
	suite.True(balances[domain.BaseCurrencySymbol].Equal(d("1000")), "KRW bucket keeps only the initial balance")
}

func (suite *LedgerServiceTestSuite) TestBalance_CardExpenseHasNoEffectUntilPaid() {
	cardID := uuid.NewString()
	charge := suite.txn(domain.KindCardExpense, "90", func(t *domain.Transaction) {
		t.AccountID = ""
		t.CardID = cardID
	})
	snap := suite.newSnapshot(charge)

	balances := suite.service.BalancesForAccount(snap, suite.accountID)

	suite.True(balances[domain.BaseCurrencySymbol].Equal(d("1000")))

	// A payment debits the settlement account like an expense.
	payment := suite.txn(domain.KindPayment, "90", func(t *domain.Transaction) {
		t.CardID = cardID
		t.PaidCardTransactionIDs = []string{charge.TransactionID}
	})
	snap = suite.newSnapshot(charge, payment)

	balances = suite.service.BalancesForAccount(snap, suite.accountID)

	suite.True(balances[domain.BaseCurrencySymbol].Equal(d("910")))
}

func (suite *LedgerServiceTestSuite) TestBalance_ZeroBalancesDropped() {
	snap := suite.newSnapshot(
		suite.txn(domain.KindExpense, "1000"),
	)

	balances := suite.service.BalancesForAccount(snap, suite.accountID)

	suite.Empty(balances)
}

func (suite *LedgerServiceTestSuite) TestBalance_DeletionReversesEffect() {
	income := suite.txn(domain.KindIncome, "500")
	withIncome := suite.service.BalancesForAccount(suite.newSnapshot(income), suite.accountID)
	withoutIncome := suite.service.BalancesForAccount(suite.newSnapshot(), suite.accountID)

	suite.True(withIncome[domain.BaseCurrencySymbol].Equal(d("1500")))
	suite.True(withoutIncome[domain.BaseCurrencySymbol].Equal(d("1000")))
}

func (suite *LedgerServiceTestSuite) TestTotalInKRW_ConvertsAtTableRate() {
	snap := suite.newSnapshot()
	balances := map[string]decimal.Decimal{
		domain.BaseCurrencySymbol: d("5000"),
		"USD":                     d("100"),
	}

	total := suite.service.TotalInKRW(snap, balances)

	suite.True(total.Equal(d("135000")), "got %s", total)
}

func (suite *LedgerServiceTestSuite) TestTotalInKRW_UnknownSymbolPassesThrough() {
	snap := suite.newSnapshot()
	balances := map[string]decimal.Decimal{"XYZ": d("77")}

	total := suite.service.TotalInKRW(snap, balances)

	suite.True(total.Equal(d("77")))
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
