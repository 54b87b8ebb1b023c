package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagyebu-app/gagyebu/internal/apperrors"
	"github.com/gagyebu-app/gagyebu/internal/core/domain"
	portsrepo "github.com/gagyebu-app/gagyebu/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxScheduleRepository struct {
	BaseRepository
}

// newPgxScheduleRepository creates a new repository for scheduled incomes.
func newPgxScheduleRepository(pool *pgxpool.Pool) portsrepo.ScheduleRepositoryFacade {
	return &PgxScheduleRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.ScheduleRepositoryFacade = (*PgxScheduleRepository)(nil)

const scheduleColumns = `schedule_id, user_id, description, amount, due_date, account_id, is_completed, created_at, created_by, last_updated_at, last_updated_by`

const insertScheduleQuery = `
	INSERT INTO schedules (` + scheduleColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
`

func scheduleInsertArgs(s domain.Schedule) []any {
	return []any{
		s.ScheduleID,
		s.UserID,
		s.Description,
		s.Amount,
		s.DueDate,
		s.AccountID,
		s.IsCompleted,
		s.CreatedAt,
		s.CreatedBy,
		s.LastUpdatedAt,
		s.LastUpdatedBy,
	}
}

func scanSchedule(row pgx.Row) (domain.Schedule, error) {
	var s domain.Schedule
	err := row.Scan(
		&s.ScheduleID,
		&s.UserID,
		&s.Description,
		&s.Amount,
		&s.DueDate,
		&s.AccountID,
		&s.IsCompleted,
		&s.CreatedAt,
		&s.CreatedBy,
		&s.LastUpdatedAt,
		&s.LastUpdatedBy,
	)
	return s, err
}

// SaveSchedule inserts a new schedule.
func (r *PgxScheduleRepository) SaveSchedule(ctx context.Context, schedule domain.Schedule) error {
	_, err := r.Pool.Exec(ctx, insertScheduleQuery, scheduleInsertArgs(schedule)...)
	if err != nil {
		return fmt.Errorf("failed to save schedule %s: %w", schedule.ScheduleID, err)
	}
	return nil
}

// FindScheduleByID retrieves a schedule by its ID, scoped to the owning user.
func (r *PgxScheduleRepository) FindScheduleByID(ctx context.Context, userID, scheduleID string) (*domain.Schedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules
		WHERE user_id = $1 AND schedule_id = $2;
	`
	s, err := scanSchedule(r.Pool.QueryRow(ctx, query, userID, scheduleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find schedule by ID %s: %w", scheduleID, err)
	}
	return &s, nil
}

// ListSchedulesByUser retrieves all schedules owned by the user, soonest due
// first.
func (r *PgxScheduleRepository) ListSchedulesByUser(ctx context.Context, userID string) ([]domain.Schedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules
		WHERE user_id = $1
		ORDER BY due_date, schedule_id;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()

	schedules, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Schedule, error) {
		return scanSchedule(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan schedules: %w", err)
	}
	return schedules, nil
}

// UpdateSchedule replaces the stored schedule document.
func (r *PgxScheduleRepository) UpdateSchedule(ctx context.Context, schedule domain.Schedule) error {
	query := `
		UPDATE schedules
		SET description = $3, amount = $4, due_date = $5, account_id = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE user_id = $1 AND schedule_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		schedule.UserID,
		schedule.ScheduleID,
		schedule.Description,
		schedule.Amount,
		schedule.DueDate,
		schedule.AccountID,
		schedule.LastUpdatedAt,
		schedule.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update schedule %s: %w", schedule.ScheduleID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteSchedule removes the schedule row. An income already created by a
// completed schedule is untouched.
func (r *PgxScheduleRepository) DeleteSchedule(ctx context.Context, userID, scheduleID string) error {
	query := `DELETE FROM schedules WHERE user_id = $1 AND schedule_id = $2;`
	tag, err := r.Pool.Exec(ctx, query, userID, scheduleID)
	if err != nil {
		return fmt.Errorf("failed to delete schedule %s: %w", scheduleID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CompleteSchedule flips is_completed and inserts the realizing income in one
// DB transaction. The schedule row is locked first so two concurrent
// completions cannot both insert an income.
func (r *PgxScheduleRepository) CompleteSchedule(ctx context.Context, userID, scheduleID string, income domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	lockQuery := `
		SELECT is_completed
		FROM schedules
		WHERE user_id = $1 AND schedule_id = $2
		FOR UPDATE;
	`
	var isCompleted bool
	err = tx.QueryRow(ctx, lockQuery, userID, scheduleID).Scan(&isCompleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to lock schedule %s: %w", scheduleID, err)
	}
	if isCompleted {
		return fmt.Errorf("%w: schedule %s is already completed", apperrors.ErrValidation, scheduleID)
	}

	completeQuery := `
		UPDATE schedules
		SET is_completed = TRUE, last_updated_at = $3, last_updated_by = $4
		WHERE user_id = $1 AND schedule_id = $2;
	`
	if _, err := tx.Exec(ctx, completeQuery, userID, scheduleID, income.CreatedAt, income.CreatedBy); err != nil {
		return fmt.Errorf("failed to complete schedule %s: %w", scheduleID, err)
	}

	if _, err := tx.Exec(ctx, insertTransactionQuery, transactionInsertArgs(income)...); err != nil {
		return fmt.Errorf("failed to insert income for schedule %s: %w", scheduleID, err)
	}

	return r.Commit(ctx, tx)
}

// ReplaceAllForUser swaps the user's full schedule set in one transaction.
func (r *PgxScheduleRepository) ReplaceAllForUser(ctx context.Context, userID string, schedules []domain.Schedule) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM schedules WHERE user_id = $1;`, userID); err != nil {
		return fmt.Errorf("failed to clear schedules for user %s: %w", userID, err)
	}

	batch := &pgx.Batch{}
	for _, s := range schedules {
		batch.Queue(insertScheduleQuery, scheduleInsertArgs(s)...)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert schedules for user %s: %w", userID, err)
	}

	return r.Commit(ctx, tx)
}
