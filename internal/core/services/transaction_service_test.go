package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/gagyebu-app/gagyebu/internal/apperrors"
	"github.com/gagyebu-app/gagyebu/internal/core/domain"
	portssvc "github.com/gagyebu-app/gagyebu/internal/core/ports/services"
	"github.com/gagyebu-app/gagyebu/internal/core/services"
	"github.com/gagyebu-app/gagyebu/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type TransactionServiceTestSuite struct {
	suite.Suite
	mockTxnRepo     *MockTransactionRepository
	mockAccountRepo *MockAccountRepository
	mockCardRepo    *MockCardRepository
	notifier        *recordingNotifier
	service         portssvc.TransactionSvcFacade

	userID    string
	accountID string
	cardID    string
	now       time.Time
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockCardRepo = new(MockCardRepository)
	suite.notifier = new(recordingNotifier)
	suite.now = time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	suite.service = services.NewTransactionService(
		suite.mockTxnRepo,
		suite.mockAccountRepo,
		suite.mockCardRepo,
		suite.notifier,
		fixedClock{now: suite.now},
	)
	suite.userID = uuid.NewString()
	suite.accountID = uuid.NewString()
	suite.cardID = uuid.NewString()
}

func (suite *TransactionServiceTestSuite) account(symbol string) *domain.Account {
	return &domain.Account{
		AccountID:      suite.accountID,
		UserID:         suite.userID,
		Name:           "Main",
		Category:       domain.CategoryBank,
		CurrencySymbol: symbol,
	}
}

func (suite *TransactionServiceTestSuite) card() *domain.Card {
	return &domain.Card{
		CardID:              suite.cardID,
		UserID:              suite.userID,
		Name:                "Shinhan",
		PaymentDay:          15,
		UsageStartDay:       1,
		UsageEndDay:         31,
		SettlementAccountID: suite.accountID,
	}
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_Income() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		Kind:        domain.KindIncome,
		Timestamp:   suite.now,
		Description: "Salary",
		Amount:      d("3000000"),
		AccountID:   suite.accountID,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.userID, suite.accountID).Return(suite.account("KRW"), nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.Kind == domain.KindIncome && t.Amount.Equal(d("3000000")) && t.AccountID == suite.accountID && t.UserID == suite.userID
	})).Return(nil).Once()

	txn, err := suite.service.CreateTransaction(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.NotEmpty(txn.TransactionID)
	suite.Equal(suite.now, txn.CreatedAt)
	suite.Contains(suite.notifier.events, portssvc.CollectionTransactions)
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_RejectsPaymentKind() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		Kind:      domain.KindPayment,
		Timestamp: suite.now,
		Amount:    d("100"),
	}

	txn, err := suite.service.CreateTransaction(ctx, suite.userID, req)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_RejectsNonPositiveAmount() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		Kind:      domain.KindExpense,
		Timestamp: suite.now,
		Amount:    d("0"),
		AccountID: suite.accountID,
	}

	_, err := suite.service.CreateTransaction(ctx, suite.userID, req)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_RejectsUnknownAccount() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		Kind:      domain.KindExpense,
		Timestamp: suite.now,
		Amount:    d("100"),
		AccountID: suite.accountID,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.userID, suite.accountID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateTransaction(ctx, suite.userID, req)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_RejectsTransferCurrencyMismatch() {
	ctx := context.Background()
	destID := uuid.NewString()
	req := dto.CreateTransactionRequest{
		Kind:        domain.KindTransfer,
		Timestamp:   suite.now,
		Amount:      d("100"),
		AccountID:   suite.accountID,
		ToAccountID: destID,
	}

	dest := &domain.Account{AccountID: destID, UserID: suite.userID, Name: "USD pocket", CurrencySymbol: "USD"}
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.userID, suite.accountID).Return(suite.account("KRW"), nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.userID, destID).Return(dest, nil).Once()

	_, err := suite.service.CreateTransaction(ctx, suite.userID, req)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorContains(err, "different currencies")
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_RejectsSelfTransfer() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		Kind:        domain.KindTransfer,
		Timestamp:   suite.now,
		Amount:      d("100"),
		AccountID:   suite.accountID,
		ToAccountID: suite.accountID,
	}

	_, err := suite.service.CreateTransaction(ctx, suite.userID, req)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestUpdateTransaction_ReplacesEditableFields() {
	ctx := context.Background()
	txnID := uuid.NewString()
	stored := &domain.Transaction{
		TransactionID: txnID,
		UserID:        suite.userID,
		Kind:          domain.KindExpense,
		Timestamp:     suite.now.AddDate(0, 0, -1),
		Description:   "Lunch",
		Amount:        d("9000"),
		AccountID:     suite.accountID,
	}
	newAmount := d("12000")
	req := dto.UpdateTransactionRequest{Amount: &newAmount}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, suite.userID, txnID).Return(stored, nil).Once()
	suite.mockTxnRepo.On("UpdateTransaction", ctx, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.TransactionID == txnID && t.Amount.Equal(newAmount) && t.Description == "Lunch"
	})).Return(nil).Once()

	updated, err := suite.service.UpdateTransaction(ctx, suite.userID, txnID, req)

	suite.Require().NoError(err)
	suite.True(updated.Amount.Equal(newAmount))
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_RoutesPaymentToDeletePayment() {
	ctx := context.Background()
	paymentID := uuid.NewString()
	stored := &domain.Transaction{
		TransactionID:          paymentID,
		UserID:                 suite.userID,
		Kind:                   domain.KindPayment,
		Amount:                 d("100"),
		AccountID:              suite.accountID,
		CardID:                 suite.cardID,
		PaidCardTransactionIDs: []string{uuid.NewString()},
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, suite.userID, paymentID).Return(stored, nil).Once()
	suite.mockTxnRepo.On("DeletePayment", ctx, suite.userID, paymentID).Return(nil).Once()

	err := suite.service.DeleteTransaction(ctx, suite.userID, paymentID)

	suite.Require().NoError(err)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "DeleteTransaction", mock.Anything, mock.Anything, mock.Anything)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_RejectsSettledCharge() {
	ctx := context.Background()
	chargeID := uuid.NewString()
	stored := &domain.Transaction{
		TransactionID: chargeID,
		UserID:        suite.userID,
		Kind:          domain.KindCardExpense,
		Amount:        d("100"),
		CardID:        suite.cardID,
		IsPaid:        true,
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, suite.userID, chargeID).Return(stored, nil).Once()

	err := suite.service.DeleteTransaction(ctx, suite.userID, chargeID)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "DeleteTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestConfirmCardPayment_BuildsPaymentFromCharges() {
	ctx := context.Background()
	chargeA := &domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        suite.userID,
		Kind:          domain.KindCardExpense,
		Amount:        d("30000"),
		CardID:        suite.cardID,
	}
	chargeB := &domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        suite.userID,
		Kind:          domain.KindCardExpense,
		Amount:        d("12000"),
		CardID:        suite.cardID,
	}
	req := dto.ConfirmPaymentRequest{TransactionIDs: []string{chargeA.TransactionID, chargeB.TransactionID}}

	suite.mockCardRepo.On("FindCardByID", ctx, suite.userID, suite.cardID).Return(suite.card(), nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.userID, suite.accountID).Return(suite.account("KRW"), nil).Once()
	suite.mockTxnRepo.On("FindTransactionByID", ctx, suite.userID, chargeA.TransactionID).Return(chargeA, nil).Once()
	suite.mockTxnRepo.On("FindTransactionByID", ctx, suite.userID, chargeB.TransactionID).Return(chargeB, nil).Once()
	suite.mockTxnRepo.On("ConfirmCardPayment", ctx, mock.MatchedBy(func(p domain.Transaction) bool {
		return p.Kind == domain.KindPayment &&
			p.Amount.Equal(d("42000")) &&
			p.AccountID == suite.accountID &&
			p.CardID == suite.cardID &&
			len(p.PaidCardTransactionIDs) == 2
	})).Return(nil).Once()

	payment, err := suite.service.ConfirmCardPayment(ctx, suite.userID, suite.cardID, req)

	suite.Require().NoError(err)
	suite.True(payment.Amount.Equal(d("42000")))
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestConfirmCardPayment_RejectsAlreadyPaidCharge() {
	ctx := context.Background()
	charge := &domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        suite.userID,
		Kind:          domain.KindCardExpense,
		Amount:        d("30000"),
		CardID:        suite.cardID,
		IsPaid:        true,
	}
	req := dto.ConfirmPaymentRequest{TransactionIDs: []string{charge.TransactionID}}

	suite.mockCardRepo.On("FindCardByID", ctx, suite.userID, suite.cardID).Return(suite.card(), nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.userID, suite.accountID).Return(suite.account("KRW"), nil).Once()
	suite.mockTxnRepo.On("FindTransactionByID", ctx, suite.userID, charge.TransactionID).Return(charge, nil).Once()

	_, err := suite.service.ConfirmCardPayment(ctx, suite.userID, suite.cardID, req)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorContains(err, "already paid")
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "ConfirmCardPayment", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestConfirmCardPayment_RejectsChargeOfOtherCard() {
	ctx := context.Background()
	charge := &domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        suite.userID,
		Kind:          domain.KindCardExpense,
		Amount:        d("30000"),
		CardID:        uuid.NewString(),
	}
	req := dto.ConfirmPaymentRequest{TransactionIDs: []string{charge.TransactionID}}

	suite.mockCardRepo.On("FindCardByID", ctx, suite.userID, suite.cardID).Return(suite.card(), nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.userID, suite.accountID).Return(suite.account("KRW"), nil).Once()
	suite.mockTxnRepo.On("FindTransactionByID", ctx, suite.userID, charge.TransactionID).Return(charge, nil).Once()

	_, err := suite.service.ConfirmCardPayment(ctx, suite.userID, suite.cardID, req)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorContains(err, "different card")
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
