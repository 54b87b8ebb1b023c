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
)

var ErrSettlementNotKRW = errors.New("settlement account must be a KRW account")

// cardService provides card CRUD. A card always settles against a KRW
// account owned by the same user.
type cardService struct {
	cardRepo    portsrepo.CardRepositoryFacade
	accountRepo portsrepo.AccountReader
	notifier    portssvc.ChangeNotifier
	clock       portssvc.Clock
}

// NewCardService creates a new CardService.
func NewCardService(cardRepo portsrepo.CardRepositoryFacade, accountRepo portsrepo.AccountReader, notifier portssvc.ChangeNotifier, clock portssvc.Clock) portssvc.CardSvcFacade {
	return &cardService{
		cardRepo:    cardRepo,
		accountRepo: accountRepo,
		notifier:    notifier,
		clock:       clock,
	}
}

var _ portssvc.CardSvcFacade = (*cardService)(nil)

func (s *cardService) validateSettlementAccount(ctx context.Context, userID, accountID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, userID, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: settlement account %s not found", apperrors.ErrValidation, accountID)
		}
		return fmt.Errorf("failed to validate settlement account %s: %w", accountID, err)
	}
	if account.CurrencySymbol != domain.BaseCurrencySymbol {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrSettlementNotKRW)
	}
	return nil
}

// CreateCard creates a new card.
func (s *cardService) CreateCard(ctx context.Context, userID string, req dto.CreateCardRequest) (*domain.Card, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.validateSettlementAccount(ctx, userID, req.SettlementAccountID); err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	card := domain.Card{
		CardID:              uuid.NewString(),
		UserID:              userID,
		Name:                req.Name,
		PaymentDay:          req.PaymentDay,
		UsageStartDay:       req.UsageStartDay,
		UsageEndDay:         req.UsageEndDay,
		SettlementAccountID: req.SettlementAccountID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.cardRepo.SaveCard(ctx, card); err != nil {
		logger.Error("Failed to save card", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	logger.Info("Card created", slog.String("card_id", card.CardID))
	s.notifyChanged(ctx, userID)
	return &card, nil
}

// GetCardByID retrieves one card owned by userID.
func (s *cardService) GetCardByID(ctx context.Context, userID, cardID string) (*domain.Card, error) {
	card, err := s.cardRepo.FindCardByID(ctx, userID, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to find card %s: %w", cardID, err)
	}
	return card, nil
}

// ListCards retrieves all cards owned by userID.
func (s *cardService) ListCards(ctx context.Context, userID string) ([]domain.Card, error) {
	cards, err := s.cardRepo.ListCardsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	if cards == nil {
		cards = []domain.Card{}
	}
	return cards, nil
}

// UpdateCard applies the non-nil fields of req to the card.
func (s *cardService) UpdateCard(ctx context.Context, userID, cardID string, req dto.UpdateCardRequest) (*domain.Card, error) {
	card, err := s.cardRepo.FindCardByID(ctx, userID, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to find card %s: %w", cardID, err)
	}

	if req.Name != nil {
		card.Name = *req.Name
	}
	if req.PaymentDay != nil {
		card.PaymentDay = *req.PaymentDay
	}
	if req.UsageStartDay != nil {
		card.UsageStartDay = *req.UsageStartDay
	}
	if req.UsageEndDay != nil {
		card.UsageEndDay = *req.UsageEndDay
	}
	if req.SettlementAccountID != nil {
		if err := s.validateSettlementAccount(ctx, userID, *req.SettlementAccountID); err != nil {
			return nil, err
		}
		card.SettlementAccountID = *req.SettlementAccountID
	}
	card.LastUpdatedAt = s.clock.Now().UTC()
	card.LastUpdatedBy = userID

	if err := s.cardRepo.UpdateCard(ctx, *card); err != nil {
		return nil, fmt.Errorf("failed to update card %s: %w", cardID, err)
	}

	s.notifyChanged(ctx, userID)
	return card, nil
}

// DeleteCard removes the card document; its card-expense history stays in
// the ledger as tolerated orphans.
func (s *cardService) DeleteCard(ctx context.Context, userID, cardID string) error {
	if err := s.cardRepo.DeleteCard(ctx, userID, cardID); err != nil {
		return fmt.Errorf("failed to delete card %s: %w", cardID, err)
	}
	s.notifyChanged(ctx, userID)
	return nil
}

func (s *cardService) notifyChanged(ctx context.Context, userID string) {
	if s.notifier != nil {
		s.notifier.CollectionChanged(ctx, userID, portssvc.CollectionCards)
	}
}
