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

type ScheduleServiceTestSuite struct {
	suite.Suite
	mockRepo        *MockScheduleRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.ScheduleSvcFacade

	userID    string
	accountID string
	now       time.Time
}

func (suite *ScheduleServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockScheduleRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.now = time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	suite.service = services.NewScheduleService(suite.mockRepo, suite.mockAccountRepo, nil, fixedClock{now: suite.now})
	suite.userID = uuid.NewString()
	suite.accountID = uuid.NewString()
}

func (suite *ScheduleServiceTestSuite) account() *domain.Account {
	return &domain.Account{
		AccountID:      suite.accountID,
		UserID:         suite.userID,
		Name:           "Main",
		CurrencySymbol: domain.BaseCurrencySymbol,
	}
}

func (suite *ScheduleServiceTestSuite) pending() *domain.Schedule {
	return &domain.Schedule{
		ScheduleID:  uuid.NewString(),
		UserID:      suite.userID,
		Description: "March salary",
		Amount:      d("3000000"),
		DueDate:     time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC),
		AccountID:   suite.accountID,
	}
}

func (suite *ScheduleServiceTestSuite) TestCreateSchedule_Success() {
	ctx := context.Background()
	req := dto.CreateScheduleRequest{
		Description: "March salary",
		Amount:      d("3000000"),
		DueDate:     time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC),
		AccountID:   suite.accountID,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.userID, suite.accountID).Return(suite.account(), nil).Once()
	suite.mockRepo.On("SaveSchedule", ctx, mock.MatchedBy(func(s domain.Schedule) bool {
		return s.Description == "March salary" && !s.IsCompleted && s.AccountID == suite.accountID
	})).Return(nil).Once()

	schedule, err := suite.service.CreateSchedule(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.False(schedule.IsCompleted)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ScheduleServiceTestSuite) TestCompleteSchedule_BuildsMatchingIncome() {
	ctx := context.Background()
	pending := suite.pending()

	suite.mockRepo.On("FindScheduleByID", ctx, suite.userID, pending.ScheduleID).Return(pending, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.userID, suite.accountID).Return(suite.account(), nil).Once()
	suite.mockRepo.On("CompleteSchedule", ctx, suite.userID, pending.ScheduleID, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.Kind == domain.KindIncome &&
			t.Amount.Equal(pending.Amount) &&
			t.AccountID == pending.AccountID &&
			t.Description == pending.Description
	})).Return(nil).Once()

	income, err := suite.service.CompleteSchedule(ctx, suite.userID, pending.ScheduleID)

	suite.Require().NoError(err)
	suite.Equal(domain.KindIncome, income.Kind)
	suite.True(income.Amount.Equal(pending.Amount))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ScheduleServiceTestSuite) TestCompleteSchedule_RejectsCompleted() {
	ctx := context.Background()
	done := suite.pending()
	done.IsCompleted = true

	suite.mockRepo.On("FindScheduleByID", ctx, suite.userID, done.ScheduleID).Return(done, nil).Once()

	_, err := suite.service.CompleteSchedule(ctx, suite.userID, done.ScheduleID)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorIs(err, services.ErrScheduleCompleted)
	suite.mockRepo.AssertNotCalled(suite.T(), "CompleteSchedule", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ScheduleServiceTestSuite) TestUpdateSchedule_RejectsCompleted() {
	ctx := context.Background()
	done := suite.pending()
	done.IsCompleted = true
	desc := "changed"

	suite.mockRepo.On("FindScheduleByID", ctx, suite.userID, done.ScheduleID).Return(done, nil).Once()

	_, err := suite.service.UpdateSchedule(ctx, suite.userID, done.ScheduleID, dto.UpdateScheduleRequest{Description: &desc})

	suite.ErrorIs(err, services.ErrScheduleCompleted)
}

func (suite *ScheduleServiceTestSuite) TestDeleteSchedule_LeavesRealizedIncomeAlone() {
	ctx := context.Background()
	done := suite.pending()
	done.IsCompleted = true

	suite.mockRepo.On("FindScheduleByID", ctx, suite.userID, done.ScheduleID).Return(done, nil).Once()
	suite.mockRepo.On("DeleteSchedule", ctx, suite.userID, done.ScheduleID).Return(nil).Once()

	suite.Require().NoError(suite.service.DeleteSchedule(ctx, suite.userID, done.ScheduleID))
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestScheduleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ScheduleServiceTestSuite))
}
