package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind discriminates the five transaction shapes in the ledger.
type TransactionKind string

const (
	KindIncome      TransactionKind = "income"
	KindExpense     TransactionKind = "expense"
	KindCardExpense TransactionKind = "card-expense"
	KindTransfer    TransactionKind = "transfer"
	KindPayment     TransactionKind = "payment"
)

var ErrInvalidTransactionShape = errors.New("transaction fields do not match its kind")

// Transaction is a single ledger record. Which fields are meaningful depends
// on Kind; the per-kind constructors below plus Validate enforce the shape so
// an "optional field whose meaning depends on a sibling field" can never be
// persisted.
//
//   - income:       AccountID credited with Amount.
//   - expense:      AccountID debited with Amount.
//   - card-expense: CardID charged; IsPaid tracks settlement. No account effect
//     until the card is paid.
//   - transfer:     AccountID debited, ToAccountID credited.
//   - payment:      AccountID (the card's settlement account) debited;
//     PaidCardTransactionIDs back-reference the card-expenses it settles.
//
// OriginalAmount/OriginalCurrency record the entry as typed when it was made
// in a non-native currency; the ledger prefers them over Amount + the
// account's currency when deriving balances.
type Transaction struct {
	TransactionID string          `json:"transactionID"` // Primary Key (e.g., UUID)
	UserID        string          `json:"userID"`        // Owning user (NON-NULL)
	Kind          TransactionKind `json:"kind"`
	Timestamp     time.Time       `json:"timestamp"`
	Description   string          `json:"description"`
	Memo          string          `json:"memo,omitempty"`
	Category      string          `json:"category,omitempty"`
	Amount        decimal.Decimal `json:"amount"` // Positive value

	AccountID   string `json:"accountID,omitempty"`   // Source account
	ToAccountID string `json:"toAccountID,omitempty"` // Transfer destination
	CardID      string `json:"cardID,omitempty"`      // Card-expense / payment card
	IsPaid      bool   `json:"isPaid,omitempty"`      // Card-expense only

	OriginalAmount   *decimal.Decimal `json:"originalAmount,omitempty"`
	OriginalCurrency string           `json:"originalCurrency,omitempty"`

	PaidCardTransactionIDs []string `json:"paidCardTransactionIDs,omitempty"` // Payment only

	AuditFields
}

// NewIncome builds an income transaction crediting accountID.
func NewIncome(userID, accountID string, amount decimal.Decimal, ts time.Time, description string) Transaction {
	return Transaction{
		UserID:      userID,
		Kind:        KindIncome,
		Timestamp:   ts,
		Description: description,
		Amount:      amount,
		AccountID:   accountID,
	}
}

// NewExpense builds an expense transaction debiting accountID.
func NewExpense(userID, accountID string, amount decimal.Decimal, ts time.Time, description string) Transaction {
	return Transaction{
		UserID:      userID,
		Kind:        KindExpense,
		Timestamp:   ts,
		Description: description,
		Amount:      amount,
		AccountID:   accountID,
	}
}

// NewCardExpense builds an unpaid card-expense charge against cardID.
func NewCardExpense(userID, cardID string, amount decimal.Decimal, ts time.Time, description string) Transaction {
	return Transaction{
		UserID:      userID,
		Kind:        KindCardExpense,
		Timestamp:   ts,
		Description: description,
		Amount:      amount,
		CardID:      cardID,
		IsPaid:      false,
	}
}

// NewTransfer builds a transfer debiting fromAccountID and crediting toAccountID.
func NewTransfer(userID, fromAccountID, toAccountID string, amount decimal.Decimal, ts time.Time, description string) Transaction {
	return Transaction{
		UserID:      userID,
		Kind:        KindTransfer,
		Timestamp:   ts,
		Description: description,
		Amount:      amount,
		AccountID:   fromAccountID,
		ToAccountID: toAccountID,
	}
}

// NewPayment builds a card payment debiting the settlement account and
// back-referencing the card-expense entries it settles.
func NewPayment(userID, cardID, settlementAccountID string, amount decimal.Decimal, ts time.Time, settledIDs []string) Transaction {
	return Transaction{
		UserID:                 userID,
		Kind:                   KindPayment,
		Timestamp:              ts,
		Description:            "card payment",
		Amount:                 amount,
		AccountID:              settlementAccountID,
		CardID:                 cardID,
		PaidCardTransactionIDs: settledIDs,
	}
}

// Validate checks that the populated fields match the transaction kind.
func (t Transaction) Validate() error {
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidTransactionShape)
	}
	if (t.OriginalAmount == nil) != (t.OriginalCurrency == "") {
		return fmt.Errorf("%w: originalAmount and originalCurrency must be set together", ErrInvalidTransactionShape)
	}
	switch t.Kind {
	case KindIncome, KindExpense:
		if t.AccountID == "" || t.ToAccountID != "" || t.CardID != "" || len(t.PaidCardTransactionIDs) > 0 {
			return fmt.Errorf("%w: %s must reference exactly one account", ErrInvalidTransactionShape, t.Kind)
		}
	case KindCardExpense:
		if t.CardID == "" || t.AccountID != "" || t.ToAccountID != "" || len(t.PaidCardTransactionIDs) > 0 {
			return fmt.Errorf("%w: card-expense must reference exactly one card", ErrInvalidTransactionShape)
		}
	case KindTransfer:
		if t.AccountID == "" || t.ToAccountID == "" || t.CardID != "" || len(t.PaidCardTransactionIDs) > 0 {
			return fmt.Errorf("%w: transfer must reference a source and a destination account", ErrInvalidTransactionShape)
		}
		if t.AccountID == t.ToAccountID {
			return fmt.Errorf("%w: transfer source and destination must differ", ErrInvalidTransactionShape)
		}
	case KindPayment:
		if t.AccountID == "" || t.CardID == "" || len(t.PaidCardTransactionIDs) == 0 || t.ToAccountID != "" {
			return fmt.Errorf("%w: payment must reference a settlement account, a card and settled charges", ErrInvalidTransactionShape)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidTransactionShape, t.Kind)
	}
	return nil
}

// EffectiveCurrencyAmount resolves the currency and amount a transaction
// contributes to a balance: the explicit original pair when the entry was
// typed in a foreign currency, otherwise the stored amount in fallback
// (the referenced account's currency).
func (t Transaction) EffectiveCurrencyAmount(fallbackCurrency string) (string, decimal.Decimal) {
	if t.OriginalAmount != nil && t.OriginalCurrency != "" {
		return t.OriginalCurrency, *t.OriginalAmount
	}
	return fallbackCurrency, t.Amount
}
