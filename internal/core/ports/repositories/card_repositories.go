package repositories

import (
	"context"

	"github.com/gagyebu-app/gagyebu/internal/core/domain"
)

// CardReader defines read operations for card data
type CardReader interface {
	FindCardByID(ctx context.Context, userID, cardID string) (*domain.Card, error)
	ListCardsByUser(ctx context.Context, userID string) ([]domain.Card, error)
}

// CardWriter defines write operations for card data
type CardWriter interface {
	SaveCard(ctx context.Context, card domain.Card) error
	UpdateCard(ctx context.Context, card domain.Card) error
	DeleteCard(ctx context.Context, userID, cardID string) error
	ReplaceAllForUser(ctx context.Context, userID string, cards []domain.Card) error
}

// CardRepositoryFacade combines all card-related repository interfaces.
type CardRepositoryFacade interface {
	CardReader
	CardWriter
}
