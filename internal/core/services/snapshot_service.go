package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gagyebu-app/gagyebu/internal/core/domain"
	portsrepo "github.com/gagyebu-app/gagyebu/internal/core/ports/repositories"
	portssvc "github.com/gagyebu-app/gagyebu/internal/core/ports/services"
	"github.com/gagyebu-app/gagyebu/internal/middleware"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// snapshotService assembles a fresh immutable snapshot of one user's
// collections. Collections are fetched concurrently; each Load stamps a new
// Revision so downstream memoization can key on it.
type snapshotService struct {
	accountRepo     portsrepo.AccountReader
	cardRepo        portsrepo.CardReader
	transactionRepo portsrepo.TransactionReader
	scheduleRepo    portsrepo.ScheduleReader
	currencyRepo    portsrepo.CurrencyReader
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(
	accountRepo portsrepo.AccountReader,
	cardRepo portsrepo.CardReader,
	transactionRepo portsrepo.TransactionReader,
	scheduleRepo portsrepo.ScheduleReader,
	currencyRepo portsrepo.CurrencyReader,
) portssvc.SnapshotSvcFacade {
	return &snapshotService{
		accountRepo:     accountRepo,
		cardRepo:        cardRepo,
		transactionRepo: transactionRepo,
		scheduleRepo:    scheduleRepo,
		currencyRepo:    currencyRepo,
	}
}

var _ portssvc.SnapshotSvcFacade = (*snapshotService)(nil)

// Load fetches every collection of the user and freezes them into a snapshot.
func (s *snapshotService) Load(ctx context.Context, userID string) (*domain.Snapshot, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var (
		accounts     []domain.Account
		cards        []domain.Card
		transactions []domain.Transaction
		schedules    []domain.Schedule
		currencies   []domain.Currency
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = s.accountRepo.ListAccountsByUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		cards, err = s.cardRepo.ListCardsByUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = s.transactionRepo.ListTransactionsByUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		schedules, err = s.scheduleRepo.ListSchedulesByUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		currencies, err = s.currencyRepo.ListCurrenciesByUser(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Error("Failed to load snapshot collections", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	snap := &domain.Snapshot{
		Revision:     uuid.NewString(),
		UserID:       userID,
		Accounts:     make(map[string]domain.Account, len(accounts)),
		Cards:        make(map[string]domain.Card, len(cards)),
		Transactions: transactions,
		Schedules:    schedules,
		Currencies:   make(map[string]domain.Currency, len(currencies)),
	}
	for _, acc := range accounts {
		snap.Accounts[acc.AccountID] = acc
	}
	for _, card := range cards {
		snap.Cards[card.CardID] = card
	}
	for _, cur := range currencies {
		snap.Currencies[cur.Symbol] = cur
	}

	logger.Debug("Snapshot loaded",
		slog.String("revision", snap.Revision),
		slog.Int("accounts", len(accounts)),
		slog.Int("transactions", len(transactions)),
	)
	return snap, nil
}
