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

type CurrencyServiceTestSuite struct {
	suite.Suite
	mockRepo *MockCurrencyRepository
	service  portssvc.CurrencySvcFacade
	userID   string
	now      time.Time
}

func (suite *CurrencyServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockCurrencyRepository)
	suite.now = time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	suite.service = services.NewCurrencyService(suite.mockRepo, nil, fixedClock{now: suite.now})
	suite.userID = uuid.NewString()
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_Success() {
	ctx := context.Background()
	req := dto.CreateCurrencyRequest{Symbol: "USD", Name: "US Dollar", Rate: d("1300")}

	suite.mockRepo.On("FindCurrencyBySymbol", ctx, suite.userID, "USD").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveCurrency", ctx, mock.MatchedBy(func(c domain.Currency) bool {
		return c.Symbol == "USD" && c.Rate.Equal(d("1300")) && !c.IsBase && c.UserID == suite.userID
	})).Return(nil).Once()

	currency, err := suite.service.CreateCurrency(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Equal("USD", currency.Symbol)
	suite.False(currency.IsBase)
	suite.Equal(suite.now, currency.CreatedAt, "audit timestamps come from the injected clock")
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_RejectsBaseSymbol() {
	ctx := context.Background()
	req := dto.CreateCurrencyRequest{Symbol: domain.BaseCurrencySymbol, Name: "Korean Won", Rate: d("1")}

	currency, err := suite.service.CreateCurrency(ctx, suite.userID, req)

	suite.Require().Error(err)
	suite.Nil(currency)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveCurrency", mock.Anything, mock.Anything)
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_RejectsNonPositiveRate() {
	ctx := context.Background()
	req := dto.CreateCurrencyRequest{Symbol: "USD", Name: "US Dollar", Rate: d("-1")}

	_, err := suite.service.CreateCurrency(ctx, suite.userID, req)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorIs(err, services.ErrRateNotPositive)
}

func (suite *CurrencyServiceTestSuite) TestUpdateCurrency_RejectsBaseRow() {
	ctx := context.Background()
	base := domain.BaseCurrency(suite.userID)
	newRate := d("2")
	req := dto.UpdateCurrencyRequest{Rate: &newRate}

	suite.mockRepo.On("FindCurrencyBySymbol", ctx, suite.userID, domain.BaseCurrencySymbol).Return(&base, nil).Once()

	_, err := suite.service.UpdateCurrency(ctx, suite.userID, domain.BaseCurrencySymbol, req)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorIs(err, services.ErrBaseCurrencyImmutable)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateCurrency", mock.Anything, mock.Anything)
}

func (suite *CurrencyServiceTestSuite) TestUpdateCurrency_ChangesRate() {
	ctx := context.Background()
	usd := &domain.Currency{Symbol: "USD", Name: "US Dollar", Rate: d("1300"), UserID: suite.userID}
	newRate := d("1350.5")
	req := dto.UpdateCurrencyRequest{Rate: &newRate}

	suite.mockRepo.On("FindCurrencyBySymbol", ctx, suite.userID, "USD").Return(usd, nil).Once()
	suite.mockRepo.On("UpdateCurrency", ctx, mock.MatchedBy(func(c domain.Currency) bool {
		return c.Symbol == "USD" && c.Rate.Equal(newRate)
	})).Return(nil).Once()

	updated, err := suite.service.UpdateCurrency(ctx, suite.userID, "USD", req)

	suite.Require().NoError(err)
	suite.True(updated.Rate.Equal(newRate))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestDeleteCurrency_RejectsBaseRow() {
	ctx := context.Background()
	base := domain.BaseCurrency(suite.userID)

	suite.mockRepo.On("FindCurrencyBySymbol", ctx, suite.userID, domain.BaseCurrencySymbol).Return(&base, nil).Once()

	err := suite.service.DeleteCurrency(ctx, suite.userID, domain.BaseCurrencySymbol)

	suite.ErrorIs(err, services.ErrBaseCurrencyImmutable)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteCurrency", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CurrencyServiceTestSuite) TestEnsureBaseCurrency_SeedsWhenMissing() {
	ctx := context.Background()

	suite.mockRepo.On("FindCurrencyBySymbol", ctx, suite.userID, domain.BaseCurrencySymbol).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveCurrency", ctx, mock.MatchedBy(func(c domain.Currency) bool {
		return c.Symbol == domain.BaseCurrencySymbol && c.IsBase && c.Rate.Equal(d("1")) && c.UserID == suite.userID
	})).Return(nil).Once()

	suite.Require().NoError(suite.service.EnsureBaseCurrency(ctx, suite.userID))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestEnsureBaseCurrency_NoopWhenPresent() {
	ctx := context.Background()
	base := domain.BaseCurrency(suite.userID)

	suite.mockRepo.On("FindCurrencyBySymbol", ctx, suite.userID, domain.BaseCurrencySymbol).Return(&base, nil).Once()

	suite.Require().NoError(suite.service.EnsureBaseCurrency(ctx, suite.userID))
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveCurrency", mock.Anything, mock.Anything)
}

func TestCurrencyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CurrencyServiceTestSuite))
}
