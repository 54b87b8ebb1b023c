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

var ErrUnknownCurrency = errors.New("currency is not in the currency table")

// accountService provides account CRUD. Deleting an account never
// cascade-deletes its historical transactions: the ledger tolerates orphaned
// references by contributing zero for them.
type accountService struct {
	accountRepo  portsrepo.AccountRepositoryFacade
	currencyRepo portsrepo.CurrencyReader
	notifier     portssvc.ChangeNotifier
	clock        portssvc.Clock
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, currencyRepo portsrepo.CurrencyReader, notifier portssvc.ChangeNotifier, clock portssvc.Clock) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo:  accountRepo,
		currencyRepo: currencyRepo,
		notifier:     notifier,
		clock:        clock,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount creates a new account after validating its currency exists.
func (s *accountService) CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !domain.ValidAccountCategory(req.Category) {
		return nil, fmt.Errorf("%w: unknown account category %q", apperrors.ErrValidation, req.Category)
	}

	if _, err := s.currencyRepo.FindCurrencyBySymbol(ctx, userID, req.CurrencySymbol); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrUnknownCurrency)
		}
		return nil, fmt.Errorf("failed to validate currency %s: %w", req.CurrencySymbol, err)
	}

	now := s.clock.Now().UTC()
	account := domain.Account{
		AccountID:      uuid.NewString(),
		UserID:         userID,
		Name:           req.Name,
		Category:       req.Category,
		CurrencySymbol: req.CurrencySymbol,
		InitialBalance: req.InitialBalance,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID))
	s.notifyChanged(ctx, userID)
	return &account, nil
}

// GetAccountByID retrieves one account owned by userID.
func (s *accountService) GetAccountByID(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, userID, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return account, nil
}

// ListAccounts retrieves all accounts owned by userID.
func (s *accountService) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccountsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	return accounts, nil
}

// UpdateAccount applies the non-nil fields of req to the account.
func (s *accountService) UpdateAccount(ctx context.Context, userID, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, userID, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Category != nil {
		if !domain.ValidAccountCategory(*req.Category) {
			return nil, fmt.Errorf("%w: unknown account category %q", apperrors.ErrValidation, *req.Category)
		}
		account.Category = *req.Category
	}
	if req.InitialBalance != nil {
		account.InitialBalance = *req.InitialBalance
	}
	account.LastUpdatedAt = s.clock.Now().UTC()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		return nil, fmt.Errorf("failed to update account %s: %w", accountID, err)
	}

	s.notifyChanged(ctx, userID)
	return account, nil
}

// DeleteAccount removes the account document only; historical transactions
// referencing it stay in the ledger as tolerated orphans.
func (s *accountService) DeleteAccount(ctx context.Context, userID, accountID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.accountRepo.DeleteAccount(ctx, userID, accountID); err != nil {
		return fmt.Errorf("failed to delete account %s: %w", accountID, err)
	}

	logger.Info("Account deleted", slog.String("account_id", accountID))
	s.notifyChanged(ctx, userID)
	return nil
}

func (s *accountService) notifyChanged(ctx context.Context, userID string) {
	if s.notifier != nil {
		s.notifier.CollectionChanged(ctx, userID, portssvc.CollectionAccounts)
	}
}
