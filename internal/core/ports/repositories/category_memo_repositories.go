package repositories

import (
	"context"

	"github.com/gagyebu-app/gagyebu/internal/core/domain"
)

// CategoryRepositoryFacade covers the small CRUD surface of categories.
type CategoryRepositoryFacade interface {
	ListCategoriesByUser(ctx context.Context, userID string) ([]domain.Category, error)
	SaveCategory(ctx context.Context, category domain.Category) error
	DeleteCategory(ctx context.Context, userID, categoryID string) error
	ReplaceAllForUser(ctx context.Context, userID string, categories []domain.Category) error
}

// MemoRepositoryFacade covers the small CRUD surface of memos.
type MemoRepositoryFacade interface {
	FindMemoByID(ctx context.Context, userID, memoID string) (*domain.Memo, error)
	ListMemosByUser(ctx context.Context, userID string) ([]domain.Memo, error)
	SaveMemo(ctx context.Context, memo domain.Memo) error
	UpdateMemo(ctx context.Context, memo domain.Memo) error
	DeleteMemo(ctx context.Context, userID, memoID string) error
	ReplaceAllForUser(ctx context.Context, userID string, memos []domain.Memo) error
}
