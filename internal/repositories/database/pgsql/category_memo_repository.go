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

type PgxCategoryRepository struct {
	BaseRepository
}

func newPgxCategoryRepository(pool *pgxpool.Pool) portsrepo.CategoryRepositoryFacade {
	return &PgxCategoryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

const categoryColumns = `category_id, user_id, name, created_at, created_by, last_updated_at, last_updated_by`

// ListCategoriesByUser retrieves all category labels owned by the user.
func (r *PgxCategoryRepository) ListCategoriesByUser(ctx context.Context, userID string) ([]domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE user_id = $1
		ORDER BY name;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Category, error) {
		var c domain.Category
		err := row.Scan(&c.CategoryID, &c.UserID, &c.Name, &c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan categories: %w", err)
	}
	return categories, nil
}

// SaveCategory inserts a new category label.
func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	query := `
		INSERT INTO categories (` + categoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		category.CategoryID,
		category.UserID,
		category.Name,
		category.CreatedAt,
		category.CreatedBy,
		category.LastUpdatedAt,
		category.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: category %q already exists", apperrors.ErrDuplicate, category.Name)
		}
		return fmt.Errorf("failed to save category %s: %w", category.CategoryID, err)
	}
	return nil
}

// DeleteCategory removes a category label. Transactions already labelled
// with it keep the label string.
func (r *PgxCategoryRepository) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	query := `DELETE FROM categories WHERE user_id = $1 AND category_id = $2;`
	tag, err := r.Pool.Exec(ctx, query, userID, categoryID)
	if err != nil {
		return fmt.Errorf("failed to delete category %s: %w", categoryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ReplaceAllForUser swaps the user's full category set in one transaction.
func (r *PgxCategoryRepository) ReplaceAllForUser(ctx context.Context, userID string, categories []domain.Category) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM categories WHERE user_id = $1;`, userID); err != nil {
		return fmt.Errorf("failed to clear categories for user %s: %w", userID, err)
	}

	batch := &pgx.Batch{}
	insertQuery := `
		INSERT INTO categories (` + categoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for _, c := range categories {
		batch.Queue(insertQuery, c.CategoryID, c.UserID, c.Name, c.CreatedAt, c.CreatedBy, c.LastUpdatedAt, c.LastUpdatedBy)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert categories for user %s: %w", userID, err)
	}

	return r.Commit(ctx, tx)
}

type PgxMemoRepository struct {
	BaseRepository
}

func newPgxMemoRepository(pool *pgxpool.Pool) portsrepo.MemoRepositoryFacade {
	return &PgxMemoRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.MemoRepositoryFacade = (*PgxMemoRepository)(nil)

const memoColumns = `memo_id, user_id, title, content, created_at, created_by, last_updated_at, last_updated_by`

func scanMemo(row pgx.Row) (domain.Memo, error) {
	var m domain.Memo
	err := row.Scan(&m.MemoID, &m.UserID, &m.Title, &m.Content, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	return m, err
}

// FindMemoByID retrieves a memo by its ID, scoped to the owning user.
func (r *PgxMemoRepository) FindMemoByID(ctx context.Context, userID, memoID string) (*domain.Memo, error) {
	query := `
		SELECT ` + memoColumns + `
		FROM memos
		WHERE user_id = $1 AND memo_id = $2;
	`
	m, err := scanMemo(r.Pool.QueryRow(ctx, query, userID, memoID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find memo by ID %s: %w", memoID, err)
	}
	return &m, nil
}

// ListMemosByUser retrieves all memos owned by the user, newest first.
func (r *PgxMemoRepository) ListMemosByUser(ctx context.Context, userID string) ([]domain.Memo, error) {
	query := `
		SELECT ` + memoColumns + `
		FROM memos
		WHERE user_id = $1
		ORDER BY created_at DESC, memo_id;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query memos: %w", err)
	}
	defer rows.Close()

	memos, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Memo, error) {
		return scanMemo(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan memos: %w", err)
	}
	return memos, nil
}

// SaveMemo inserts a new memo.
func (r *PgxMemoRepository) SaveMemo(ctx context.Context, memo domain.Memo) error {
	query := `
		INSERT INTO memos (` + memoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		memo.MemoID,
		memo.UserID,
		memo.Title,
		memo.Content,
		memo.CreatedAt,
		memo.CreatedBy,
		memo.LastUpdatedAt,
		memo.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save memo %s: %w", memo.MemoID, err)
	}
	return nil
}

// UpdateMemo replaces the stored memo document.
func (r *PgxMemoRepository) UpdateMemo(ctx context.Context, memo domain.Memo) error {
	query := `
		UPDATE memos
		SET title = $3, content = $4, last_updated_at = $5, last_updated_by = $6
		WHERE user_id = $1 AND memo_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		memo.UserID,
		memo.MemoID,
		memo.Title,
		memo.Content,
		memo.LastUpdatedAt,
		memo.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update memo %s: %w", memo.MemoID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteMemo removes the memo row.
func (r *PgxMemoRepository) DeleteMemo(ctx context.Context, userID, memoID string) error {
	query := `DELETE FROM memos WHERE user_id = $1 AND memo_id = $2;`
	tag, err := r.Pool.Exec(ctx, query, userID, memoID)
	if err != nil {
		return fmt.Errorf("failed to delete memo %s: %w", memoID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ReplaceAllForUser swaps the user's full memo set in one transaction.
func (r *PgxMemoRepository) ReplaceAllForUser(ctx context.Context, userID string, memos []domain.Memo) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM memos WHERE user_id = $1;`, userID); err != nil {
		return fmt.Errorf("failed to clear memos for user %s: %w", userID, err)
	}

	batch := &pgx.Batch{}
	insertQuery := `
		INSERT INTO memos (` + memoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, m := range memos {
		batch.Queue(insertQuery, m.MemoID, m.UserID, m.Title, m.Content, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert memos for user %s: %w", userID, err)
	}

	return r.Commit(ctx, tx)
}
