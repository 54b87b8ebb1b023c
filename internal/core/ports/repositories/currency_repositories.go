package repositories

import (
	"context"

	"github.com/gagyebu-app/gagyebu/internal/core/domain"
)

// CurrencyReader defines read operations for currency data
type CurrencyReader interface {
	// FindCurrencyBySymbol retrieves a specific currency by its symbol.
	FindCurrencyBySymbol(ctx context.Context, userID, symbol string) (*domain.Currency, error)

	// ListCurrenciesByUser retrieves all currencies of a user's table.
	ListCurrenciesByUser(ctx context.Context, userID string) ([]domain.Currency, error)
}

// CurrencyWriter defines write operations for currency data
type CurrencyWriter interface {
	// SaveCurrency persists a new currency.
	SaveCurrency(ctx context.Context, currency domain.Currency) error

	// UpdateCurrency replaces a stored currency document.
	UpdateCurrency(ctx context.Context, currency domain.Currency) error

	// DeleteCurrency removes a currency by symbol.
	DeleteCurrency(ctx context.Context, userID, symbol string) error

	ReplaceAllForUser(ctx context.Context, userID string, currencies []domain.Currency) error
}

// CurrencyRepositoryFacade combines all currency-related repository interfaces.
type CurrencyRepositoryFacade interface {
	CurrencyReader
	CurrencyWriter
}
