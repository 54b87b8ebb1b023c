package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	AccountRepo     AccountRepositoryFacade
	CardRepo        CardRepositoryFacade
	TransactionRepo TransactionRepositoryFacade
	ScheduleRepo    ScheduleRepositoryFacade
	CurrencyRepo    CurrencyRepositoryFacade
	CategoryRepo    CategoryRepositoryFacade
	MemoRepo        MemoRepositoryFacade
	UserRepo        UserRepositoryFacade
}
