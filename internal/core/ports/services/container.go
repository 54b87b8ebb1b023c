package services

// ServiceContainer holds all service facades for dependency injection into
// the handler layer.
type ServiceContainer struct {
	Snapshot    SnapshotSvcFacade
	Ledger      LedgerSvcFacade
	Billing     BillingSvcFacade
	Asset       AssetSvcFacade
	Account     AccountSvcFacade
	Card        CardSvcFacade
	Transaction TransactionSvcFacade
	Schedule    ScheduleSvcFacade
	Currency    CurrencySvcFacade
	Category    CategorySvcFacade
	Memo        MemoSvcFacade
	Impexp      ImpexpSvcFacade

	User               UserSvcFacade
	TokenService       TokenSvcFacade
	GoogleOAuthHandler GoogleOAuthHandlerSvcFacade
}
