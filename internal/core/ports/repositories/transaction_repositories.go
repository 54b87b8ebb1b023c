package repositories

import (
	"context"

	"github.com/gagyebu-app/gagyebu/internal/core/domain"
)

// TransactionReader defines read operations for ledger transactions.
type TransactionReader interface {
	FindTransactionByID(ctx context.Context, userID, transactionID string) (*domain.Transaction, error)
	ListTransactionsByUser(ctx context.Context, userID string) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for ledger transactions.
//
// ConfirmCardPayment and DeletePayment are the multi-document mutations of
// the payment protocol: each must be applied atomically so a crash or a
// concurrent writer can never observe a payment recorded without its IsPaid
// flips (or vice versa).
type TransactionWriter interface {
	SaveTransaction(ctx context.Context, txn domain.Transaction) error
	UpdateTransaction(ctx context.Context, txn domain.Transaction) error
	DeleteTransaction(ctx context.Context, userID, transactionID string) error

	// ConfirmCardPayment inserts the payment transaction and flips IsPaid on
	// every referenced card-expense, all-or-nothing. A referenced charge that
	// is missing or already paid aborts the whole mutation.
	ConfirmCardPayment(ctx context.Context, payment domain.Transaction) error

	// DeletePayment removes a payment transaction and resets IsPaid on every
	// card-expense it settled, all-or-nothing.
	DeletePayment(ctx context.Context, userID, paymentID string) error

	// AppendTransactions bulk-inserts transactions (additive CSV import).
	AppendTransactions(ctx context.Context, userID string, txns []domain.Transaction) error

	ReplaceAllForUser(ctx context.Context, userID string, txns []domain.Transaction) error
}

// TransactionRepositoryFacade combines all transaction repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
