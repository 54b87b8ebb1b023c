package services

import (
	"context"

	"github.com/gagyebu-app/gagyebu/internal/core/domain"
	"github.com/gagyebu-app/gagyebu/internal/dto"
)

// SnapshotSvcFacade assembles a fresh immutable snapshot of a user's
// collections from the store.
type SnapshotSvcFacade interface {
	Load(ctx context.Context, userID string) (*domain.Snapshot, error)
}

// AccountSvcFacade provides account CRUD with ownership and currency checks.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error)
	GetAccountByID(ctx context.Context, userID, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, userID string) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, userID, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)
	DeleteAccount(ctx context.Context, userID, accountID string) error
}

// CardSvcFacade provides card CRUD with settlement-account checks.
type CardSvcFacade interface {
	CreateCard(ctx context.Context, userID string, req dto.CreateCardRequest) (*domain.Card, error)
	GetCardByID(ctx context.Context, userID, cardID string) (*domain.Card, error)
	ListCards(ctx context.Context, userID string) ([]domain.Card, error)
	UpdateCard(ctx context.Context, userID, cardID string, req dto.UpdateCardRequest) (*domain.Card, error)
	DeleteCard(ctx context.Context, userID, cardID string) error
}

// TransactionSvcFacade provides transaction mutations and reads. Every
// mutation that touches more than one document goes through the store's
// atomic transaction primitive.
type TransactionSvcFacade interface {
	CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error)
	GetTransactionByID(ctx context.Context, userID, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, transactionID string) error

	// ConfirmCardPayment settles the listed unpaid card-expense charges with
	// one payment transaction debiting the card's settlement account.
	ConfirmCardPayment(ctx context.Context, userID, cardID string, req dto.ConfirmPaymentRequest) (*domain.Transaction, error)
}

// ScheduleSvcFacade provides schedule CRUD and completion.
type ScheduleSvcFacade interface {
	CreateSchedule(ctx context.Context, userID string, req dto.CreateScheduleRequest) (*domain.Schedule, error)
	ListSchedules(ctx context.Context, userID string) ([]domain.Schedule, error)
	UpdateSchedule(ctx context.Context, userID, scheduleID string, req dto.UpdateScheduleRequest) (*domain.Schedule, error)
	DeleteSchedule(ctx context.Context, userID, scheduleID string) error

	// CompleteSchedule realizes the schedule as an income transaction and
	// marks it completed, atomically. Completion is monotonic.
	CompleteSchedule(ctx context.Context, userID, scheduleID string) (*domain.Transaction, error)
}

// CurrencySvcFacade provides the per-user currency table with its base-row
// invariants (exactly one KRW base, rate 1, non-editable, non-deletable).
type CurrencySvcFacade interface {
	CreateCurrency(ctx context.Context, userID string, req dto.CreateCurrencyRequest) (*domain.Currency, error)
	GetCurrencyBySymbol(ctx context.Context, userID, symbol string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context, userID string) ([]domain.Currency, error)
	UpdateCurrency(ctx context.Context, userID, symbol string, req dto.UpdateCurrencyRequest) (*domain.Currency, error)
	DeleteCurrency(ctx context.Context, userID, symbol string) error

	// EnsureBaseCurrency seeds the fixed KRW base row if it is missing.
	EnsureBaseCurrency(ctx context.Context, userID string) error
}

// CategorySvcFacade provides category CRUD.
type CategorySvcFacade interface {
	CreateCategory(ctx context.Context, userID string, req dto.CreateCategoryRequest) (*domain.Category, error)
	ListCategories(ctx context.Context, userID string) ([]domain.Category, error)
	DeleteCategory(ctx context.Context, userID, categoryID string) error
}

// MemoSvcFacade provides memo CRUD.
type MemoSvcFacade interface {
	CreateMemo(ctx context.Context, userID string, req dto.CreateMemoRequest) (*domain.Memo, error)
	ListMemos(ctx context.Context, userID string) ([]domain.Memo, error)
	UpdateMemo(ctx context.Context, userID, memoID string, req dto.UpdateMemoRequest) (*domain.Memo, error)
	DeleteMemo(ctx context.Context, userID, memoID string) error
}

// ImpexpSvcFacade serializes the data set to JSON/CSV and restores it.
type ImpexpSvcFacade interface {
	// ExportJSON serializes every collection to a single document.
	ExportJSON(ctx context.Context, userID string) (*dto.ExportPayload, error)

	// ImportJSON destructively replaces the data set with the payload.
	ImportJSON(ctx context.Context, userID string, payload dto.ExportPayload) (*dto.ImportResult, error)

	// ExportCSV writes the flattened transaction list as CSV rows.
	ExportCSV(ctx context.Context, userID string) ([]byte, error)

	// ImportCSV additively appends transactions parsed from CSV rows.
	ImportCSV(ctx context.Context, userID string, data []byte) (int, error)
}
