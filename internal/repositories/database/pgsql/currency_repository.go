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

type PgxCurrencyRepository struct {
	BaseRepository
}

// newPgxCurrencyRepository creates a new repository for per-user currency
// tables. Rows are keyed (user_id, symbol).
func newPgxCurrencyRepository(pool *pgxpool.Pool) portsrepo.CurrencyRepositoryFacade {
	return &PgxCurrencyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.CurrencyRepositoryFacade = (*PgxCurrencyRepository)(nil)

const currencyColumns = `symbol, user_id, name, rate, is_base, created_at, created_by, last_updated_at, last_updated_by`

func scanCurrency(row pgx.Row) (domain.Currency, error) {
	var c domain.Currency
	err := row.Scan(
		&c.Symbol,
		&c.UserID,
		&c.Name,
		&c.Rate,
		&c.IsBase,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
	return c, err
}

// SaveCurrency inserts a new currency row.
func (r *PgxCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	query := `
		INSERT INTO currencies (` + currencyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		currency.Symbol,
		currency.UserID,
		currency.Name,
		currency.Rate,
		currency.IsBase,
		currency.CreatedAt,
		currency.CreatedBy,
		currency.LastUpdatedAt,
		currency.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: currency %s already exists", apperrors.ErrDuplicate, currency.Symbol)
		}
		return fmt.Errorf("failed to save currency %s: %w", currency.Symbol, err)
	}
	return nil
}

// FindCurrencyBySymbol retrieves a currency row by its symbol.
func (r *PgxCurrencyRepository) FindCurrencyBySymbol(ctx context.Context, userID, symbol string) (*domain.Currency, error) {
	query := `
		SELECT ` + currencyColumns + `
		FROM currencies
		WHERE user_id = $1 AND symbol = $2;
	`
	c, err := scanCurrency(r.Pool.QueryRow(ctx, query, userID, symbol))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find currency %s: %w", symbol, err)
	}
	return &c, nil
}

// ListCurrenciesByUser retrieves the user's full currency table, base row
// first.
func (r *PgxCurrencyRepository) ListCurrenciesByUser(ctx context.Context, userID string) ([]domain.Currency, error) {
	query := `
		SELECT ` + currencyColumns + `
		FROM currencies
		WHERE user_id = $1
		ORDER BY is_base DESC, symbol;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	currencies, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Currency, error) {
		return scanCurrency(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan currencies: %w", err)
	}
	return currencies, nil
}

// UpdateCurrency replaces the stored currency row.
func (r *PgxCurrencyRepository) UpdateCurrency(ctx context.Context, currency domain.Currency) error {
	query := `
		UPDATE currencies
		SET name = $3, rate = $4, last_updated_at = $5, last_updated_by = $6
		WHERE user_id = $1 AND symbol = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		currency.UserID,
		currency.Symbol,
		currency.Name,
		currency.Rate,
		currency.LastUpdatedAt,
		currency.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update currency %s: %w", currency.Symbol, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteCurrency removes a currency row by symbol.
func (r *PgxCurrencyRepository) DeleteCurrency(ctx context.Context, userID, symbol string) error {
	query := `DELETE FROM currencies WHERE user_id = $1 AND symbol = $2;`
	tag, err := r.Pool.Exec(ctx, query, userID, symbol)
	if err != nil {
		return fmt.Errorf("failed to delete currency %s: %w", symbol, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ReplaceAllForUser swaps the user's full currency table in one transaction.
func (r *PgxCurrencyRepository) ReplaceAllForUser(ctx context.Context, userID string, currencies []domain.Currency) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM currencies WHERE user_id = $1;`, userID); err != nil {
		return fmt.Errorf("failed to clear currencies for user %s: %w", userID, err)
	}

	batch := &pgx.Batch{}
	insertQuery := `
		INSERT INTO currencies (` + currencyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	for _, c := range currencies {
		batch.Queue(insertQuery,
			c.Symbol,
			c.UserID,
			c.Name,
			c.Rate,
			c.IsBase,
			c.CreatedAt,
			c.CreatedBy,
			c.LastUpdatedAt,
			c.LastUpdatedBy,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert currencies for user %s: %w", userID, err)
	}

	return r.Commit(ctx, tx)
}
