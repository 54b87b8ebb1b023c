package services

import (
	portsrepo "github.com/gagyebu-app/gagyebu/internal/core/ports/repositories"
	portssvc "github.com/gagyebu-app/gagyebu/internal/core/ports/services"
	"github.com/gagyebu-app/gagyebu/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, notifier portssvc.ChangeNotifier, clock portssvc.Clock) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The pure computation layer has no repository dependencies.
	container.Ledger = NewLedgerService()
	container.Billing = NewBillingService()
	container.Asset = NewAssetService(container.Ledger, container.Billing)

	container.Snapshot = NewSnapshotService(
		repos.AccountRepo,
		repos.CardRepo,
		repos.TransactionRepo,
		repos.ScheduleRepo,
		repos.CurrencyRepo,
	)

	container.Currency = NewCurrencyService(repos.CurrencyRepo, notifier, clock)
	container.Account = NewAccountService(repos.AccountRepo, repos.CurrencyRepo, notifier, clock)
	container.Card = NewCardService(repos.CardRepo, repos.AccountRepo, notifier, clock)
	container.Transaction = NewTransactionService(repos.TransactionRepo, repos.AccountRepo, repos.CardRepo, notifier, clock)
	container.Schedule = NewScheduleService(repos.ScheduleRepo, repos.AccountRepo, notifier, clock)
	container.Category = NewCategoryService(repos.CategoryRepo, notifier, clock)
	container.Memo = NewMemoService(repos.MemoRepo, notifier, clock)
	container.Impexp = NewImpexpService(repos, notifier, clock)

	container.User = NewUserService(repos.UserRepo, container.Currency, clock)
	container.TokenService = NewTokenService(cfg, container.User, clock)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}
