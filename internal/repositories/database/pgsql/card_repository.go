package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagyebu-app/gagyebu/internal/apperrors"
	"github.com/gagyebu-app/gagyebu/internal/core/domain"
	portsrepo "github.com/gagyebu-app/gagyebu/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCardRepository struct {
	BaseRepository
}

// newPgxCardRepository creates a new repository for credit card data.
func newPgxCardRepository(pool *pgxpool.Pool) portsrepo.CardRepositoryFacade {
	return &PgxCardRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.CardRepositoryFacade = (*PgxCardRepository)(nil)

const cardColumns = `card_id, user_id, name, payment_day, usage_start_day, usage_end_day, settlement_account_id, created_at, created_by, last_updated_at, last_updated_by`

func scanCard(row pgx.Row) (domain.Card, error) {
	var card domain.Card
	err := row.Scan(
		&card.CardID,
		&card.UserID,
		&card.Name,
		&card.PaymentDay,
		&card.UsageStartDay,
		&card.UsageEndDay,
		&card.SettlementAccountID,
		&card.CreatedAt,
		&card.CreatedBy,
		&card.LastUpdatedAt,
		&card.LastUpdatedBy,
	)
	return card, err
}

// SaveCard inserts a new card.
func (r *PgxCardRepository) SaveCard(ctx context.Context, card domain.Card) error {
	query := `
		INSERT INTO cards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		card.CardID,
		card.UserID,
		card.Name,
		card.PaymentDay,
		card.UsageStartDay,
		card.UsageEndDay,
		card.SettlementAccountID,
		card.CreatedAt,
		card.CreatedBy,
		card.LastUpdatedAt,
		card.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: card %q already exists", apperrors.ErrDuplicate, card.Name)
		}
		return fmt.Errorf("failed to save card %s: %w", card.CardID, err)
	}
	return nil
}

// FindCardByID retrieves a card by its ID, scoped to the owning user.
func (r *PgxCardRepository) FindCardByID(ctx context.Context, userID, cardID string) (*domain.Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE user_id = $1 AND card_id = $2;
	`
	card, err := scanCard(r.Pool.QueryRow(ctx, query, userID, cardID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find card by ID %s: %w", cardID, err)
	}
	return &card, nil
}

// ListCardsByUser retrieves all cards owned by the user.
func (r *PgxCardRepository) ListCardsByUser(ctx context.Context, userID string) ([]domain.Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE user_id = $1
		ORDER BY created_at, card_id;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	cards, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Card, error) {
		return scanCard(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan cards: %w", err)
	}
	return cards, nil
}

// UpdateCard replaces the stored card document.
func (r *PgxCardRepository) UpdateCard(ctx context.Context, card domain.Card) error {
	query := `
		UPDATE cards
		SET name = $3, payment_day = $4, usage_start_day = $5, usage_end_day = $6,
		    settlement_account_id = $7, last_updated_at = $8, last_updated_by = $9
		WHERE user_id = $1 AND card_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		card.UserID,
		card.CardID,
		card.Name,
		card.PaymentDay,
		card.UsageStartDay,
		card.UsageEndDay,
		card.SettlementAccountID,
		card.LastUpdatedAt,
		card.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: card %q already exists", apperrors.ErrDuplicate, card.Name)
		}
		return fmt.Errorf("failed to update card %s: %w", card.CardID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteCard removes the card row. Historical card-expenses keep their
// card reference.
func (r *PgxCardRepository) DeleteCard(ctx context.Context, userID, cardID string) error {
	query := `DELETE FROM cards WHERE user_id = $1 AND card_id = $2;`
	tag, err := r.Pool.Exec(ctx, query, userID, cardID)
	if err != nil {
		return fmt.Errorf("failed to delete card %s: %w", cardID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ReplaceAllForUser swaps the user's full card set in one transaction.
func (r *PgxCardRepository) ReplaceAllForUser(ctx context.Context, userID string, cards []domain.Card) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM cards WHERE user_id = $1;`, userID); err != nil {
		return fmt.Errorf("failed to clear cards for user %s: %w", userID, err)
	}

	batch := &pgx.Batch{}
	insertQuery := `
		INSERT INTO cards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	for _, card := range cards {
		batch.Queue(insertQuery,
			card.CardID,
			card.UserID,
			card.Name,
			card.PaymentDay,
			card.UsageStartDay,
			card.UsageEndDay,
			card.SettlementAccountID,
			card.CreatedAt,
			card.CreatedBy,
			card.LastUpdatedAt,
			card.LastUpdatedBy,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert cards for user %s: %w", userID, err)
	}

	return r.Commit(ctx, tx)
}
