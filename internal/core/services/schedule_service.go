package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gagyebu-app/gagyebu/internal/apperrors"
	"github.com/gagyebu-app/gagyebu/internal/core/domain"
	portsrepo "github.com/gagyebu-app/gagyebu/internal/core/ports/repositories"
	portssvc "github.com/gagyebu-app/gagyebu/internal/core/ports/services"
	"github.com/gagyebu-app/gagyebu/internal/dto"
	"github.com/gagyebu-app/gagyebu/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrScheduleCompleted = errors.New("schedule is already completed")
)

// scheduleService manages pending scheduled incomes. A schedule never touches
// the ledger until it is completed; completion inserts exactly one income
// transaction and flips IsCompleted in the same atomic mutation.
type scheduleService struct {
	scheduleRepo portsrepo.ScheduleRepositoryFacade
	accountRepo  portsrepo.AccountReader
	notifier     portssvc.ChangeNotifier
	clock        portssvc.Clock
}

// NewScheduleService creates a new ScheduleService.
func NewScheduleService(
	scheduleRepo portsrepo.ScheduleRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	notifier portssvc.ChangeNotifier,
	clock portssvc.Clock,
) portssvc.ScheduleSvcFacade {
	return &scheduleService{
		scheduleRepo: scheduleRepo,
		accountRepo:  accountRepo,
		notifier:     notifier,
		clock:        clock,
	}
}

var _ portssvc.ScheduleSvcFacade = (*scheduleService)(nil)

// CreateSchedule records a new pending scheduled income.
func (s *scheduleService) CreateSchedule(ctx context.Context, userID string, req dto.CreateScheduleRequest) (*domain.Schedule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if _, err := s.accountRepo.FindAccountByID(ctx, userID, req.AccountID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %s not found", apperrors.ErrValidation, req.AccountID)
		}
		return nil, fmt.Errorf("failed to fetch account %s: %w", req.AccountID, err)
	}

	now := s.clock.Now().UTC()
	schedule := domain.Schedule{
		ScheduleID:  uuid.NewString(),
		UserID:      userID,
		Description: req.Description,
		Amount:      req.Amount,
		DueDate:     req.DueDate,
		AccountID:   req.AccountID,
		IsCompleted: false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.scheduleRepo.SaveSchedule(ctx, schedule); err != nil {
		logger.Error("Failed to save schedule", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save schedule: %w", err)
	}

	logger.Info("Schedule created", slog.String("schedule_id", schedule.ScheduleID))
	s.notifyChanged(ctx, userID)
	return &schedule, nil
}

// ListSchedules retrieves all schedules owned by userID.
func (s *scheduleService) ListSchedules(ctx context.Context, userID string) ([]domain.Schedule, error) {
	schedules, err := s.scheduleRepo.ListSchedulesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	if schedules == nil {
		schedules = []domain.Schedule{}
	}
	return schedules, nil
}

// UpdateSchedule edits a pending schedule. Completed schedules are immutable.
func (s *scheduleService) UpdateSchedule(ctx context.Context, userID, scheduleID string, req dto.UpdateScheduleRequest) (*domain.Schedule, error) {
	schedule, err := s.scheduleRepo.FindScheduleByID(ctx, userID, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to find schedule %s: %w", scheduleID, err)
	}
	if schedule.IsCompleted {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrScheduleCompleted)
	}

	if req.Description != nil {
		schedule.Description = *req.Description
	}
	if req.Amount != nil {
		if req.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
		}
		schedule.Amount = *req.Amount
	}
	if req.DueDate != nil {
		schedule.DueDate = *req.DueDate
	}
	if req.AccountID != nil {
		if _, err := s.accountRepo.FindAccountByID(ctx, userID, *req.AccountID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: account %s not found", apperrors.ErrValidation, *req.AccountID)
			}
			return nil, fmt.Errorf("failed to fetch account %s: %w", *req.AccountID, err)
		}
		schedule.AccountID = *req.AccountID
	}
	schedule.LastUpdatedAt = s.clock.Now().UTC()
	schedule.LastUpdatedBy = userID

	if err := s.scheduleRepo.UpdateSchedule(ctx, *schedule); err != nil {
		return nil, fmt.Errorf("failed to update schedule %s: %w", scheduleID, err)
	}

	s.notifyChanged(ctx, userID)
	return schedule, nil
}

// DeleteSchedule removes a schedule. Deleting a completed schedule does not
// touch the income transaction it produced.
func (s *scheduleService) DeleteSchedule(ctx context.Context, userID, scheduleID string) error {
	if _, err := s.scheduleRepo.FindScheduleByID(ctx, userID, scheduleID); err != nil {
		return fmt.Errorf("failed to find schedule %s: %w", scheduleID, err)
	}
	if err := s.scheduleRepo.DeleteSchedule(ctx, userID, scheduleID); err != nil {
		return fmt.Errorf("failed to delete schedule %s: %w", scheduleID, err)
	}
	s.notifyChanged(ctx, userID)
	return nil
}

// CompleteSchedule realizes the schedule as an income transaction for its
// account and amount, and marks it completed. Both writes land in one atomic
// mutation; completing an already-completed schedule is rejected, so a
// schedule funds the ledger at most once.
func (s *scheduleService) CompleteSchedule(ctx context.Context, userID, scheduleID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	schedule, err := s.scheduleRepo.FindScheduleByID(ctx, userID, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to find schedule %s: %w", scheduleID, err)
	}
	if schedule.IsCompleted {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrScheduleCompleted)
	}
	if _, err := s.accountRepo.FindAccountByID(ctx, userID, schedule.AccountID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %s not found", apperrors.ErrValidation, schedule.AccountID)
		}
		return nil, fmt.Errorf("failed to fetch account %s: %w", schedule.AccountID, err)
	}

	now := s.clock.Now().UTC()
	income := domain.NewIncome(userID, schedule.AccountID, schedule.Amount, now, schedule.Description)
	income.TransactionID = uuid.NewString()
	income.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	if err := s.scheduleRepo.CompleteSchedule(ctx, userID, scheduleID, income); err != nil {
		logger.Error("Failed to complete schedule", slog.String("schedule_id", scheduleID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to complete schedule %s: %w", scheduleID, err)
	}

	logger.Info("Schedule completed",
		slog.String("schedule_id", scheduleID),
		slog.String("income_id", income.TransactionID),
	)
	s.notifyChanged(ctx, userID)
	return &income, nil
}

func (s *scheduleService) notifyChanged(ctx context.Context, userID string) {
	if s.notifier != nil {
		s.notifier.CollectionChanged(ctx, userID, portssvc.CollectionSchedules)
	}
}
