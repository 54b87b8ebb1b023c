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
	"github.com/shopspring/decimal"
)

var (
	ErrTransferCurrencyMismatch = errors.New("transfer accounts use different currencies")
	ErrPaymentKindDirect        = errors.New("payment transactions are created through card payment confirmation only")
	ErrChargeAlreadyPaid        = errors.New("card charge is already paid")
	ErrChargeNotOnCard          = errors.New("card charge belongs to a different card")
	ErrPaidChargeDelete         = errors.New("a settled card charge can only be removed by deleting its payment first")
)

// transactionService validates and issues ledger mutations. All derived
// balances are reconstructed from history, so create/edit/delete only touch
// transaction documents; the payment protocol is the one place a mutation
// spans documents, and it runs through the repository's atomic primitive so
// a crash mid-settlement leaves every document untouched.
type transactionService struct {
	transactionRepo portsrepo.TransactionRepositoryFacade
	accountRepo     portsrepo.AccountReader
	cardRepo        portsrepo.CardReader
	notifier        portssvc.ChangeNotifier
	clock           portssvc.Clock
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(
	transactionRepo portsrepo.TransactionRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	cardRepo portsrepo.CardReader,
	notifier portssvc.ChangeNotifier,
	clock portssvc.Clock,
) portssvc.TransactionSvcFacade {
	return &transactionService{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		cardRepo:        cardRepo,
		notifier:        notifier,
		clock:           clock,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) requireAccount(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, userID, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %s not found", apperrors.ErrValidation, accountID)
		}
		return nil, fmt.Errorf("failed to fetch account %s: %w", accountID, err)
	}
	return account, nil
}

// CreateTransaction records a new income, expense, card-expense or transfer.
// Payment transactions are only created by ConfirmCardPayment.
func (s *transactionService) CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Kind == domain.KindPayment {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrPaymentKindDirect)
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	txn := domain.Transaction{
		TransactionID:    uuid.NewString(),
		UserID:           userID,
		Kind:             req.Kind,
		Timestamp:        req.Timestamp,
		Description:      req.Description,
		Memo:             req.Memo,
		Category:         req.Category,
		Amount:           req.Amount,
		AccountID:        req.AccountID,
		ToAccountID:      req.ToAccountID,
		CardID:           req.CardID,
		OriginalAmount:   req.OriginalAmount,
		OriginalCurrency: req.OriginalCurrency,
	}
	if err := txn.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}

	// Referential checks, rejected before anything is written.
	switch txn.Kind {
	case domain.KindIncome, domain.KindExpense:
		if _, err := s.requireAccount(ctx, userID, txn.AccountID); err != nil {
			return nil, err
		}
	case domain.KindTransfer:
		src, err := s.requireAccount(ctx, userID, txn.AccountID)
		if err != nil {
			return nil, err
		}
		dst, err := s.requireAccount(ctx, userID, txn.ToAccountID)
		if err != nil {
			return nil, err
		}
		if txn.OriginalCurrency == "" && src.CurrencySymbol != dst.CurrencySymbol {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrTransferCurrencyMismatch)
		}
	case domain.KindCardExpense:
		if _, err := s.cardRepo.FindCardByID(ctx, userID, txn.CardID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: card %s not found", apperrors.ErrValidation, txn.CardID)
			}
			return nil, fmt.Errorf("failed to fetch card %s: %w", txn.CardID, err)
		}
	}

	now := s.clock.Now().UTC()
	txn.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	if err := s.transactionRepo.SaveTransaction(ctx, txn); err != nil {
		logger.Error("Failed to save transaction", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	logger.Info("Transaction created", slog.String("transaction_id", txn.TransactionID), slog.String("kind", string(txn.Kind)))
	s.notifyChanged(ctx, userID)
	return &txn, nil
}

// GetTransactionByID retrieves one transaction owned by userID.
func (s *transactionService) GetTransactionByID(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	return txn, nil
}

// ListTransactions retrieves all transactions owned by userID.
func (s *transactionService) ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	txns, err := s.transactionRepo.ListTransactionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}
	return txns, nil
}

// UpdateTransaction edits the editable fields of a transaction. The stored
// document is replaced in one write, so the old balance effect disappears
// and the new one applies together: there is no state in which both or
// neither are visible.
func (s *transactionService) UpdateTransaction(ctx context.Context, userID, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	if txn.Kind == domain.KindPayment {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrPaymentKindDirect)
	}

	if req.Timestamp != nil {
		txn.Timestamp = *req.Timestamp
	}
	if req.Description != nil {
		txn.Description = *req.Description
	}
	if req.Memo != nil {
		txn.Memo = *req.Memo
	}
	if req.Category != nil {
		txn.Category = *req.Category
	}
	if req.Amount != nil {
		txn.Amount = *req.Amount
	}
	if err := txn.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}
	txn.LastUpdatedAt = s.clock.Now().UTC()
	txn.LastUpdatedBy = userID

	if err := s.transactionRepo.UpdateTransaction(ctx, *txn); err != nil {
		return nil, fmt.Errorf("failed to update transaction %s: %w", transactionID, err)
	}

	s.notifyChanged(ctx, userID)
	return txn, nil
}

// DeleteTransaction removes a transaction, symmetrically reversing its
// balance effects. Deleting a payment also resets IsPaid on every charge it
// settled; a settled card charge cannot be deleted while its payment exists.
func (s *transactionService) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.transactionRepo.FindTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	switch {
	case txn.Kind == domain.KindPayment:
		if err := s.transactionRepo.DeletePayment(ctx, userID, transactionID); err != nil {
			return fmt.Errorf("failed to delete payment %s: %w", transactionID, err)
		}
	case txn.Kind == domain.KindCardExpense && txn.IsPaid:
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrPaidChargeDelete)
	default:
		if err := s.transactionRepo.DeleteTransaction(ctx, userID, transactionID); err != nil {
			return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
		}
	}

	logger.Info("Transaction deleted", slog.String("transaction_id", transactionID), slog.String("kind", string(txn.Kind)))
	s.notifyChanged(ctx, userID)
	return nil
}

// ConfirmCardPayment settles the listed unpaid card charges: one payment
// transaction debits the card's settlement account for their total and every
// charge flips to paid, atomically. Each card-expense is settled by exactly
// one payment, exactly once.
func (s *transactionService) ConfirmCardPayment(ctx context.Context, userID, cardID string, req dto.ConfirmPaymentRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	card, err := s.cardRepo.FindCardByID(ctx, userID, cardID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: card %s not found", apperrors.ErrValidation, cardID)
		}
		return nil, fmt.Errorf("failed to fetch card %s: %w", cardID, err)
	}
	if _, err := s.requireAccount(ctx, userID, card.SettlementAccountID); err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, id := range req.TransactionIDs {
		charge, err := s.transactionRepo.FindTransactionByID(ctx, userID, id)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: card charge %s not found", apperrors.ErrValidation, id)
			}
			return nil, fmt.Errorf("failed to fetch card charge %s: %w", id, err)
		}
		if charge.Kind != domain.KindCardExpense {
			return nil, fmt.Errorf("%w: transaction %s is not a card charge", apperrors.ErrValidation, id)
		}
		if charge.CardID != cardID {
			return nil, fmt.Errorf("%w: %s (%s)", apperrors.ErrValidation, ErrChargeNotOnCard, id)
		}
		if charge.IsPaid {
			return nil, fmt.Errorf("%w: %s (%s)", apperrors.ErrValidation, ErrChargeAlreadyPaid, id)
		}
		total = total.Add(charge.Amount)
	}

	now := s.clock.Now().UTC()
	payment := domain.NewPayment(userID, cardID, card.SettlementAccountID, total, now, req.TransactionIDs)
	payment.TransactionID = uuid.NewString()
	payment.Description = fmt.Sprintf("%s payment", card.Name)
	payment.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
	if err := payment.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}

	if err := s.transactionRepo.ConfirmCardPayment(ctx, payment); err != nil {
		logger.Error("Failed to confirm card payment", slog.String("card_id", cardID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to confirm card payment: %w", err)
	}

	logger.Info("Card payment confirmed",
		slog.String("card_id", cardID),
		slog.String("payment_id", payment.TransactionID),
		slog.Int("settled_charges", len(req.TransactionIDs)),
	)
	s.notifyChanged(ctx, userID)
	return &payment, nil
}

func (s *transactionService) notifyChanged(ctx context.Context, userID string) {
	if s.notifier != nil {
		s.notifier.CollectionChanged(ctx, userID, portssvc.CollectionTransactions)
	}
}
