package repositories

import (
	"context"

	"github.com/gagyebu-app/gagyebu/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account owned by userID.
	FindAccountByID(ctx context.Context, userID, accountID string) (*domain.Account, error)

	// ListAccountsByUser retrieves all accounts owned by userID.
	ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount replaces a stored account document.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount removes an account. Historical transactions referencing
	// it are left in place (no cascade).
	DeleteAccount(ctx context.Context, userID, accountID string) error

	// ReplaceAllForUser atomically deletes every account owned by userID and
	// inserts the given set. Used by destructive import.
	ReplaceAllForUser(ctx context.Context, userID string, accounts []domain.Account) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
