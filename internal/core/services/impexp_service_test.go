package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/gagyebu-app/gagyebu/internal/apperrors"
	"github.com/gagyebu-app/gagyebu/internal/core/domain"
	portsrepo "github.com/gagyebu-app/gagyebu/internal/core/ports/repositories"
	portssvc "github.com/gagyebu-app/gagyebu/internal/core/ports/services"
	"github.com/gagyebu-app/gagyebu/internal/core/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ImpexpServiceTestSuite struct {
	suite.Suite
	mockAccountRepo  *MockAccountRepository
	mockCardRepo     *MockCardRepository
	mockTxnRepo      *MockTransactionRepository
	mockScheduleRepo *MockScheduleRepository
	mockCurrencyRepo *MockCurrencyRepository
	mockCategoryRepo *MockCategoryRepository
	mockMemoRepo     *MockMemoRepository
	service          portssvc.ImpexpSvcFacade

	userID    string
	accountID string
	cardID    string
}

func (suite *ImpexpServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockCardRepo = new(MockCardRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockScheduleRepo = new(MockScheduleRepository)
	suite.mockCurrencyRepo = new(MockCurrencyRepository)
	suite.mockCategoryRepo = new(MockCategoryRepository)
	suite.mockMemoRepo = new(MockMemoRepository)
	repos := portsrepo.RepositoryProvider{
		AccountRepo:     suite.mockAccountRepo,
		CardRepo:        suite.mockCardRepo,
		TransactionRepo: suite.mockTxnRepo,
		ScheduleRepo:    suite.mockScheduleRepo,
		CurrencyRepo:    suite.mockCurrencyRepo,
		CategoryRepo:    suite.mockCategoryRepo,
		MemoRepo:        suite.mockMemoRepo,
	}
	suite.service = services.NewImpexpService(repos, nil, fixedClock{now: time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)})
	suite.userID = uuid.NewString()
	suite.accountID = uuid.NewString()
	suite.cardID = uuid.NewString()
}

func (suite *ImpexpServiceTestSuite) seedCollections(txns []domain.Transaction) {
	accounts := []domain.Account{{
		AccountID:      suite.accountID,
		UserID:         suite.userID,
		Name:           "Main",
		Category:       domain.CategoryBank,
		CurrencySymbol: domain.BaseCurrencySymbol,
		InitialBalance: d("1000"),
	}}
	cards := []domain.Card{{
		CardID:              suite.cardID,
		UserID:              suite.userID,
		Name:                "Shinhan",
		PaymentDay:          15,
		UsageStartDay:       1,
		UsageEndDay:         31,
		SettlementAccountID: suite.accountID,
	}}
	currencies := []domain.Currency{
		domain.BaseCurrency(suite.userID),
		{Symbol: "USD", Name: "US Dollar", Rate: d("1300"), UserID: suite.userID},
	}

	suite.mockAccountRepo.On("ListAccountsByUser", mock.Anything, suite.userID).Return(accounts, nil)
	suite.mockCardRepo.On("ListCardsByUser", mock.Anything, suite.userID).Return(cards, nil)
	suite.mockTxnRepo.On("ListTransactionsByUser", mock.Anything, suite.userID).Return(txns, nil)
	suite.mockScheduleRepo.On("ListSchedulesByUser", mock.Anything, suite.userID).Return([]domain.Schedule{}, nil)
	suite.mockCurrencyRepo.On("ListCurrenciesByUser", mock.Anything, suite.userID).Return(currencies, nil)
	suite.mockCategoryRepo.On("ListCategoriesByUser", mock.Anything, suite.userID).Return([]domain.Category{{CategoryID: uuid.NewString(), UserID: suite.userID, Name: "Food"}}, nil)
	suite.mockMemoRepo.On("ListMemosByUser", mock.Anything, suite.userID).Return([]domain.Memo{}, nil)
}

func (suite *ImpexpServiceTestSuite) TestExportJSON_DropsIdsAndIndexesPayments() {
	ts := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	charge := domain.NewCardExpense(suite.userID, suite.cardID, d("30000"), ts, "groceries")
	charge.TransactionID = uuid.NewString()
	charge.IsPaid = true
	payment := domain.NewPayment(suite.userID, suite.cardID, suite.accountID, d("30000"), ts.AddDate(0, 0, 5), []string{charge.TransactionID})
	payment.TransactionID = uuid.NewString()
	suite.seedCollections([]domain.Transaction{charge, payment})

	payload, err := suite.service.ExportJSON(context.Background(), suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(payload.Accounts, 1)
	suite.Equal("Main", payload.Accounts[0].Name)
	suite.Require().Len(payload.Cards, 1)
	suite.Equal("Main", payload.Cards[0].SettlementAccountName)
	suite.Require().Len(payload.Transactions, 2)
	suite.Equal("Shinhan", payload.Transactions[0].CardName)
	suite.Equal([]int{0}, payload.Transactions[1].PaidCardTransactionRefs, "payment must reference the charge by index")
	suite.Equal("Main", payload.Transactions[1].AccountName)
}

func (suite *ImpexpServiceTestSuite) TestImportJSON_RemapsReferencesOntoFreshIDs() {
	ts := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	charge := domain.NewCardExpense(suite.userID, suite.cardID, d("30000"), ts, "groceries")
	charge.TransactionID = uuid.NewString()
	charge.IsPaid = true
	payment := domain.NewPayment(suite.userID, suite.cardID, suite.accountID, d("30000"), ts.AddDate(0, 0, 5), []string{charge.TransactionID})
	payment.TransactionID = uuid.NewString()
	suite.seedCollections([]domain.Transaction{charge, payment})

	payload, err := suite.service.ExportJSON(context.Background(), suite.userID)
	suite.Require().NoError(err)

	var importedAccounts []domain.Account
	var importedCards []domain.Card
	var importedTxns []domain.Transaction
	suite.mockCurrencyRepo.On("ReplaceAllForUser", mock.Anything, suite.userID, mock.Anything).Return(nil).Once()
	suite.mockAccountRepo.On("ReplaceAllForUser", mock.Anything, suite.userID, mock.Anything).Run(func(args mock.Arguments) {
		importedAccounts = args.Get(2).([]domain.Account)
	}).Return(nil).Once()
	suite.mockCardRepo.On("ReplaceAllForUser", mock.Anything, suite.userID, mock.Anything).Run(func(args mock.Arguments) {
		importedCards = args.Get(2).([]domain.Card)
	}).Return(nil).Once()
	suite.mockTxnRepo.On("ReplaceAllForUser", mock.Anything, suite.userID, mock.Anything).Run(func(args mock.Arguments) {
		importedTxns = args.Get(2).([]domain.Transaction)
	}).Return(nil).Once()
	suite.mockScheduleRepo.On("ReplaceAllForUser", mock.Anything, suite.userID, mock.Anything).Return(nil).Once()
	suite.mockCategoryRepo.On("ReplaceAllForUser", mock.Anything, suite.userID, mock.Anything).Return(nil).Once()
	suite.mockMemoRepo.On("ReplaceAllForUser", mock.Anything, suite.userID, mock.Anything).Return(nil).Once()

	result, err := suite.service.ImportJSON(context.Background(), suite.userID, *payload)

	suite.Require().NoError(err)
	suite.Equal(1, result.Accounts)
	suite.Equal(2, result.Transactions)

	suite.Require().Len(importedAccounts, 1)
	suite.NotEqual(suite.accountID, importedAccounts[0].AccountID, "import must mint fresh ids")
	suite.Require().Len(importedCards, 1)
	suite.Equal(importedAccounts[0].AccountID, importedCards[0].SettlementAccountID)

	suite.Require().Len(importedTxns, 2)
	newCharge, newPayment := importedTxns[0], importedTxns[1]
	suite.Equal(domain.KindCardExpense, newCharge.Kind)
	suite.True(newCharge.IsPaid)
	suite.Equal(importedCards[0].CardID, newCharge.CardID)
	suite.Equal(domain.KindPayment, newPayment.Kind)
	suite.Equal([]string{newCharge.TransactionID}, newPayment.PaidCardTransactionIDs)
	suite.Equal(importedAccounts[0].AccountID, newPayment.AccountID)
}

func (suite *ImpexpServiceTestSuite) TestImportJSON_SeedsBaseCurrencyWhenAbsent() {
	suite.seedCollections(nil)
	payload, err := suite.service.ExportJSON(context.Background(), suite.userID)
	suite.Require().NoError(err)
	payload.Currencies = payload.Currencies[1:] // drop the KRW row

	var importedCurrencies []domain.Currency
	suite.mockCurrencyRepo.On("ReplaceAllForUser", mock.Anything, suite.userID, mock.Anything).Run(func(args mock.Arguments) {
		importedCurrencies = args.Get(2).([]domain.Currency)
	}).Return(nil).Once()
	suite.mockAccountRepo.On("ReplaceAllForUser", mock.Anything, suite.userID, mock.Anything).Return(nil).Once()
	suite.mockCardRepo.On("ReplaceAllForUser", mock.Anything, suite.userID, mock.Anything).Return(nil).Once()
	suite.mockTxnRepo.On("ReplaceAllForUser", mock.Anything, suite.userID, mock.Anything).Return(nil).Once()
	suite.mockScheduleRepo.On("ReplaceAllForUser", mock.Anything, suite.userID, mock.Anything).Return(nil).Once()
	suite.mockCategoryRepo.On("ReplaceAllForUser", mock.Anything, suite.userID, mock.Anything).Return(nil).Once()
	suite.mockMemoRepo.On("ReplaceAllForUser", mock.Anything, suite.userID, mock.Anything).Return(nil).Once()

	_, err = suite.service.ImportJSON(context.Background(), suite.userID, *payload)

	suite.Require().NoError(err)
	found := false
	for _, c := range importedCurrencies {
		if c.Symbol == domain.BaseCurrencySymbol {
			found = true
			suite.True(c.IsBase)
			suite.True(c.Rate.Equal(d("1")))
		}
	}
	suite.True(found, "base currency must be restored")
}

func (suite *ImpexpServiceTestSuite) TestJSONRoundTrip_PreservesOrphanedReferences() {
	ts := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	deletedAccountID := uuid.NewString()
	expense := domain.NewExpense(suite.userID, deletedAccountID, d("5000"), ts, "rent from closed account")
	expense.TransactionID = uuid.NewString()
	schedule := domain.Schedule{
		ScheduleID:  uuid.NewString(),
		UserID:      suite.userID,
		Description: "old salary",
		Amount:      d("100000"),
		DueDate:     ts.AddDate(0, 1, 0),
		AccountID:   deletedAccountID,
	}

	suite.mockAccountRepo.On("ListAccountsByUser", mock.Anything, suite.userID).Return([]domain.Account{{
		AccountID:      suite.accountID,
		UserID:         suite.userID,
		Name:           "Main",
		Category:       domain.CategoryBank,
		CurrencySymbol: domain.BaseCurrencySymbol,
		InitialBalance: d("1000"),
	}}, nil)
	suite.mockCardRepo.On("ListCardsByUser", mock.Anything, suite.userID).Return([]domain.Card{}, nil)
	suite.mockTxnRepo.On("ListTransactionsByUser", mock.Anything, suite.userID).Return([]domain.Transaction{expense}, nil)
	suite.mockScheduleRepo.On("ListSchedulesByUser", mock.Anything, suite.userID).Return([]domain.Schedule{schedule}, nil)
	suite.mockCurrencyRepo.On("ListCurrenciesByUser", mock.Anything, suite.userID).Return([]domain.Currency{domain.BaseCurrency(suite.userID)}, nil)
	suite.mockCategoryRepo.On("ListCategoriesByUser", mock.Anything, suite.userID).Return([]domain.Category{}, nil)
	suite.mockMemoRepo.On("ListMemosByUser", mock.Anything, suite.userID).Return([]domain.Memo{}, nil)

	payload, err := suite.service.ExportJSON(context.Background(), suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(payload.Transactions, 1)
	suite.True(payload.Transactions[0].AccountOrphaned, "reference to a deleted account must be flagged")
	suite.Equal(deletedAccountID, payload.Transactions[0].AccountName, "old id travels as the opaque name")
	suite.Require().Len(payload.Schedules, 1)
	suite.True(payload.Schedules[0].AccountOrphaned)
	suite.Equal(deletedAccountID, payload.Schedules[0].AccountName)

	var importedAccounts []domain.Account
	var importedTxns []domain.Transaction
	var importedSchedules []domain.Schedule
	suite.mockCurrencyRepo.On("ReplaceAllForUser", mock.Anything, suite.userID, mock.Anything).Return(nil).Once()
	suite.mockAccountRepo.On("ReplaceAllForUser", mock.Anything, suite.userID, mock.Anything).Run(func(args mock.Arguments) {
		importedAccounts = args.Get(2).([]domain.Account)
	}).Return(nil).Once()
	suite.mockCardRepo.On("ReplaceAllForUser", mock.Anything, suite.userID, mock.Anything).Return(nil).Once()
	suite.mockTxnRepo.On("ReplaceAllForUser", mock.Anything, suite.userID, mock.Anything).Run(func(args mock.Arguments) {
		importedTxns = args.Get(2).([]domain.Transaction)
	}).Return(nil).Once()
	suite.mockScheduleRepo.On("ReplaceAllForUser", mock.Anything, suite.userID, mock.Anything).Run(func(args mock.Arguments) {
		importedSchedules = args.Get(2).([]domain.Schedule)
	}).Return(nil).Once()
	suite.mockCategoryRepo.On("ReplaceAllForUser", mock.Anything, suite.userID, mock.Anything).Return(nil).Once()
	suite.mockMemoRepo.On("ReplaceAllForUser", mock.Anything, suite.userID, mock.Anything).Return(nil).Once()

	result, err := suite.service.ImportJSON(context.Background(), suite.userID, *payload)

	suite.Require().NoError(err, "a backup containing orphaned references must import cleanly")
	suite.Equal(1, result.Transactions)
	suite.Require().Len(importedTxns, 1)
	suite.NotEmpty(importedTxns[0].AccountID)
	suite.NotEqual(deletedAccountID, importedTxns[0].AccountID, "import mints a fresh dangling id")
	suite.Require().Len(importedAccounts, 1)
	suite.NotEqual(importedAccounts[0].AccountID, importedTxns[0].AccountID, "dangling id must not collide with a live account")
	suite.Require().Len(importedSchedules, 1)
	suite.Equal(importedTxns[0].AccountID, importedSchedules[0].AccountID, "references to the same deleted account share one id")
}

func (suite *ImpexpServiceTestSuite) TestImportJSON_RejectsUnknownReference() {
	suite.seedCollections(nil)
	payload, err := suite.service.ExportJSON(context.Background(), suite.userID)
	suite.Require().NoError(err)
	payload.Cards[0].SettlementAccountName = "No such account"

	_, err = suite.service.ImportJSON(context.Background(), suite.userID, *payload)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "ReplaceAllForUser", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ImpexpServiceTestSuite) TestCSVRoundTrip() {
	ts := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	expense := domain.NewExpense(suite.userID, suite.accountID, d("9000"), ts, "lunch, with coffee")
	expense.TransactionID = uuid.NewString()
	expense.Category = "Food"
	suite.seedCollections([]domain.Transaction{expense})

	data, err := suite.service.ExportCSV(context.Background(), suite.userID)
	suite.Require().NoError(err)

	var appended []domain.Transaction
	suite.mockTxnRepo.On("AppendTransactions", mock.Anything, suite.userID, mock.Anything).Run(func(args mock.Arguments) {
		appended = args.Get(2).([]domain.Transaction)
	}).Return(nil).Once()

	count, err := suite.service.ImportCSV(context.Background(), suite.userID, data)

	suite.Require().NoError(err)
	suite.Equal(1, count)
	suite.Require().Len(appended, 1)
	suite.Equal(domain.KindExpense, appended[0].Kind)
	suite.Equal("lunch, with coffee", appended[0].Description)
	suite.True(appended[0].Amount.Equal(d("9000")))
	suite.Equal(suite.accountID, appended[0].AccountID)
	suite.Equal("Food", appended[0].Category)
}

func (suite *ImpexpServiceTestSuite) TestExportCSV_OmitsPayments() {
	ts := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	charge := domain.NewCardExpense(suite.userID, suite.cardID, d("30000"), ts, "groceries")
	charge.TransactionID = uuid.NewString()
	payment := domain.NewPayment(suite.userID, suite.cardID, suite.accountID, d("30000"), ts, []string{charge.TransactionID})
	payment.TransactionID = uuid.NewString()
	suite.seedCollections([]domain.Transaction{charge, payment})

	data, err := suite.service.ExportCSV(context.Background(), suite.userID)

	suite.Require().NoError(err)
	suite.NotContains(string(data), string(domain.KindPayment))
}

func TestImpexpServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ImpexpServiceTestSuite))
}
