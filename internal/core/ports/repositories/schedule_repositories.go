package repositories

import (
	"context"

	"github.com/gagyebu-app/gagyebu/internal/core/domain"
)

// ScheduleReader defines read operations for schedule data
type ScheduleReader interface {
	FindScheduleByID(ctx context.Context, userID, scheduleID string) (*domain.Schedule, error)
	ListSchedulesByUser(ctx context.Context, userID string) ([]domain.Schedule, error)
}

// ScheduleWriter defines write operations for schedule data
type ScheduleWriter interface {
	SaveSchedule(ctx context.Context, schedule domain.Schedule) error
	UpdateSchedule(ctx context.Context, schedule domain.Schedule) error
	DeleteSchedule(ctx context.Context, userID, scheduleID string) error

	// CompleteSchedule marks the schedule completed and inserts the realizing
	// income transaction in one atomic mutation. Completing an
	// already-completed schedule aborts without effect.
	CompleteSchedule(ctx context.Context, userID, scheduleID string, income domain.Transaction) error

	ReplaceAllForUser(ctx context.Context, userID string, schedules []domain.Schedule) error
}

// ScheduleRepositoryFacade combines all schedule repository interfaces.
type ScheduleRepositoryFacade interface {
	ScheduleReader
	ScheduleWriter
}
