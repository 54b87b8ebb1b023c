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

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo  *MockAccountRepository
	mockCurrencyRepo *MockCurrencyRepository
	service          portssvc.AccountSvcFacade

	userID string
	now    time.Time
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockCurrencyRepo = new(MockCurrencyRepository)
	suite.now = time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	suite.service = services.NewAccountService(suite.mockAccountRepo, suite.mockCurrencyRepo, nil, fixedClock{now: suite.now})
	suite.userID = uuid.NewString()
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	base := domain.BaseCurrency(suite.userID)
	req := dto.CreateAccountRequest{
		Name:           "Main",
		Category:       domain.CategoryBank,
		CurrencySymbol: domain.BaseCurrencySymbol,
		InitialBalance: d("1000"),
	}

	suite.mockCurrencyRepo.On("FindCurrencyBySymbol", ctx, suite.userID, domain.BaseCurrencySymbol).Return(&base, nil).Once()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Name == "Main" && a.UserID == suite.userID && a.InitialBalance.Equal(d("1000"))
	})).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Equal("Main", account.Name)
	suite.Equal(suite.now, account.CreatedAt, "audit timestamps come from the injected clock")
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_RejectsUnknownCurrency() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Name:           "Travel fund",
		Category:       domain.CategoryBank,
		CurrencySymbol: "XYZ",
		InitialBalance: d("0"),
	}

	suite.mockCurrencyRepo.On("FindCurrencyBySymbol", ctx, suite.userID, "XYZ").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateAccount(ctx, suite.userID, req)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorIs(err, services.ErrUnknownCurrency)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_StampsInjectedClock() {
	ctx := context.Background()
	accountID := uuid.NewString()
	existing := &domain.Account{
		AccountID:      accountID,
		UserID:         suite.userID,
		Name:           "Main",
		Category:       domain.CategoryBank,
		CurrencySymbol: domain.BaseCurrencySymbol,
	}
	newName := "Main checking"
	req := dto.UpdateAccountRequest{Name: &newName}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.userID, accountID).Return(existing, nil).Once()
	suite.mockAccountRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Name == "Main checking" && a.LastUpdatedAt.Equal(suite.now)
	})).Return(nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, suite.userID, accountID, req)

	suite.Require().NoError(err)
	suite.Equal(suite.now, updated.LastUpdatedAt)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
