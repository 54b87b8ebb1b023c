package dto

import (
	"time"

	"github.com/gagyebu-app/gagyebu/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the payload for recording a transaction.
// Which reference fields are required depends on Kind; the service validates
// the shape against the kind before anything is written.
type CreateTransactionRequest struct {
	Kind        domain.TransactionKind `json:"kind" binding:"required,transactionkind"`
	Timestamp   time.Time              `json:"timestamp" binding:"required"`
	Description string                 `json:"description" binding:"required"`
	Memo        string                 `json:"memo,omitempty"`
	Category    string                 `json:"category,omitempty"`
	Amount      decimal.Decimal        `json:"amount" binding:"required"`

	AccountID   string `json:"accountID,omitempty"`
	ToAccountID string `json:"toAccountID,omitempty"`
	CardID      string `json:"cardID,omitempty"`

	OriginalAmount   *decimal.Decimal `json:"originalAmount,omitempty"`
	OriginalCurrency string           `json:"originalCurrency,omitempty"`
}

// UpdateTransactionRequest defines the payload for editing a transaction.
// The stored document is replaced wholesale inside one atomic mutation, so
// the old balance effect is reversed and the new one applied together.
type UpdateTransactionRequest struct {
	Timestamp   *time.Time       `json:"timestamp,omitempty"`
	Description *string          `json:"description,omitempty"`
	Memo        *string          `json:"memo,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
}

// ConfirmPaymentRequest asks for the listed unpaid card-expense charges to be
// settled by a single payment transaction.
type ConfirmPaymentRequest struct {
	TransactionIDs []string `json:"transactionIDs" binding:"required,min=1"`
}

// TransactionResponse is the API representation of a transaction.
type TransactionResponse struct {
	TransactionID string                 `json:"transactionID"`
	Kind          domain.TransactionKind `json:"kind"`
	Timestamp     time.Time              `json:"timestamp"`
	Description   string                 `json:"description"`
	Memo          string                 `json:"memo,omitempty"`
	Category      string                 `json:"category,omitempty"`
	Amount        decimal.Decimal        `json:"amount"`

	AccountID   string `json:"accountID,omitempty"`
	ToAccountID string `json:"toAccountID,omitempty"`
	CardID      string `json:"cardID,omitempty"`
	IsPaid      bool   `json:"isPaid,omitempty"`

	OriginalAmount   *decimal.Decimal `json:"originalAmount,omitempty"`
	OriginalCurrency string           `json:"originalCurrency,omitempty"`

	PaidCardTransactionIDs []string `json:"paidCardTransactionIDs,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// ToTransactionResponse maps a domain transaction to its response DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:          t.TransactionID,
		Kind:                   t.Kind,
		Timestamp:              t.Timestamp,
		Description:            t.Description,
		Memo:                   t.Memo,
		Category:               t.Category,
		Amount:                 t.Amount,
		AccountID:              t.AccountID,
		ToAccountID:            t.ToAccountID,
		CardID:                 t.CardID,
		IsPaid:                 t.IsPaid,
		OriginalAmount:         t.OriginalAmount,
		OriginalCurrency:       t.OriginalCurrency,
		PaidCardTransactionIDs: t.PaidCardTransactionIDs,
		CreatedAt:              t.CreatedAt,
	}
}

// ListTransactionsResponse wraps a list of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}
