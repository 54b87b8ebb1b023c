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
	"github.com/shopspring/decimal"
)

var (
	ErrBaseCurrencyImmutable = errors.New("the base currency cannot be modified or deleted")
	ErrRateNotPositive       = errors.New("exchange rate must be positive")
)

// currencyService manages the per-user currency table. The KRW base row is
// special: exactly one row is the base, its rate is fixed at 1, and it can
// be neither edited nor deleted.
type currencyService struct {
	currencyRepo portsrepo.CurrencyRepositoryFacade
	notifier     portssvc.ChangeNotifier
	clock        portssvc.Clock
}

// NewCurrencyService creates a new CurrencyService.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade, notifier portssvc.ChangeNotifier, clock portssvc.Clock) portssvc.CurrencySvcFacade {
	return &currencyService{currencyRepo: currencyRepo, notifier: notifier, clock: clock}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

// CreateCurrency adds a non-base currency to the user's table.
func (s *currencyService) CreateCurrency(ctx context.Context, userID string, req dto.CreateCurrencyRequest) (*domain.Currency, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrRateNotPositive)
	}
	if req.Symbol == domain.BaseCurrencySymbol {
		return nil, fmt.Errorf("%w: %s already exists as the base currency", apperrors.ErrDuplicate, req.Symbol)
	}

	existing, err := s.currencyRepo.FindCurrencyBySymbol(ctx, userID, req.Symbol)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check currency %s: %w", req.Symbol, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: currency %s", apperrors.ErrDuplicate, req.Symbol)
	}

	now := s.clock.Now().UTC()
	currency := domain.Currency{
		Symbol: req.Symbol,
		Name:   req.Name,
		Rate:   req.Rate,
		IsBase: false,
		UserID: userID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		logger.Error("Failed to save currency", slog.String("symbol", req.Symbol), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create currency: %w", err)
	}

	s.notifyChanged(ctx, userID)
	return &currency, nil
}

// GetCurrencyBySymbol retrieves one currency by symbol.
func (s *currencyService) GetCurrencyBySymbol(ctx context.Context, userID, symbol string) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyBySymbol(ctx, userID, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to get currency %s: %w", symbol, err)
	}
	return currency, nil
}

// ListCurrencies retrieves the user's currency table.
func (s *currencyService) ListCurrencies(ctx context.Context, userID string) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrenciesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	if currencies == nil {
		currencies = []domain.Currency{}
	}
	return currencies, nil
}

// UpdateCurrency changes the name or rate of a non-base currency.
func (s *currencyService) UpdateCurrency(ctx context.Context, userID, symbol string, req dto.UpdateCurrencyRequest) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyBySymbol(ctx, userID, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to find currency %s: %w", symbol, err)
	}
	if currency.IsBase {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrBaseCurrencyImmutable)
	}

	if req.Name != nil {
		currency.Name = *req.Name
	}
	if req.Rate != nil {
		if req.Rate.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrRateNotPositive)
		}
		currency.Rate = *req.Rate
	}
	currency.LastUpdatedAt = s.clock.Now().UTC()
	currency.LastUpdatedBy = userID

	if err := s.currencyRepo.UpdateCurrency(ctx, *currency); err != nil {
		return nil, fmt.Errorf("failed to update currency %s: %w", symbol, err)
	}

	s.notifyChanged(ctx, userID)
	return currency, nil
}

// DeleteCurrency removes a non-base currency.
func (s *currencyService) DeleteCurrency(ctx context.Context, userID, symbol string) error {
	currency, err := s.currencyRepo.FindCurrencyBySymbol(ctx, userID, symbol)
	if err != nil {
		return fmt.Errorf("failed to find currency %s: %w", symbol, err)
	}
	if currency.IsBase {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrBaseCurrencyImmutable)
	}

	if err := s.currencyRepo.DeleteCurrency(ctx, userID, symbol); err != nil {
		return fmt.Errorf("failed to delete currency %s: %w", symbol, err)
	}

	s.notifyChanged(ctx, userID)
	return nil
}

// EnsureBaseCurrency seeds the fixed KRW base row if the user does not have
// one yet. Called on registration and first sign-in.
func (s *currencyService) EnsureBaseCurrency(ctx context.Context, userID string) error {
	_, err := s.currencyRepo.FindCurrencyBySymbol(ctx, userID, domain.BaseCurrencySymbol)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to check base currency: %w", err)
	}

	base := domain.BaseCurrency(userID)
	now := s.clock.Now().UTC()
	base.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
	if err := s.currencyRepo.SaveCurrency(ctx, base); err != nil {
		return fmt.Errorf("failed to seed base currency: %w", err)
	}
	return nil
}

func (s *currencyService) notifyChanged(ctx context.Context, userID string) {
	if s.notifier != nil {
		s.notifier.CollectionChanged(ctx, userID, portssvc.CollectionCurrencies)
	}
}
