package dto

import (
	"github.com/gagyebu-app/gagyebu/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExportPayload is the single JSON document produced by a full export.
// Internal document ids are dropped: accounts and cards travel under their
// display names, currencies under their symbol, and payment back-references
// become zero-based indices into the exported transaction list. Dates are
// ISO-8601 strings. Import regenerates fresh ids and remaps the references.
type ExportPayload struct {
	ExportedAt   string              `json:"exportedAt"`
	Accounts     []ExportAccount     `json:"accounts"`
	Cards        []ExportCard        `json:"cards"`
	Transactions []ExportTransaction `json:"transactions"`
	Schedules    []ExportSchedule    `json:"schedules"`
	Currencies   []ExportCurrency    `json:"currencies"`
	Categories   []string            `json:"categories,omitempty"`
	Memos        []ExportMemo        `json:"memos,omitempty"`
}

// ExportAccount is an account stripped of its internal id.
type ExportAccount struct {
	Name           string                 `json:"name"`
	Category       domain.AccountCategory `json:"category"`
	CurrencySymbol string                 `json:"currencySymbol"`
	InitialBalance decimal.Decimal        `json:"initialBalance"`
}

// ExportCard is a card stripped of its internal id; the settlement account is
// referenced by name.
type ExportCard struct {
	Name                  string `json:"name"`
	PaymentDay            int    `json:"paymentDay"`
	UsageStartDay         int    `json:"usageStartDay"`
	UsageEndDay           int    `json:"usageEndDay"`
	SettlementAccountName string `json:"settlementAccountName"`

	// True when the settlement account was deleted after the card was
	// created; the name then carries the old opaque id instead.
	SettlementAccountOrphaned bool `json:"settlementAccountOrphaned,omitempty"`
}

// ExportTransaction is a transaction with name-based references.
type ExportTransaction struct {
	Kind        domain.TransactionKind `json:"kind"`
	Timestamp   string                 `json:"timestamp"` // ISO-8601
	Description string                 `json:"description"`
	Memo        string                 `json:"memo,omitempty"`
	Category    string                 `json:"category,omitempty"`
	Amount      decimal.Decimal        `json:"amount"`

	AccountName   string `json:"accountName,omitempty"`
	ToAccountName string `json:"toAccountName,omitempty"`
	CardName      string `json:"cardName,omitempty"`
	IsPaid        bool   `json:"isPaid,omitempty"`

	// Deleting an account or card keeps the transactions that reference it;
	// the ledger counts such orphans as zero. An orphaned flag marks a name
	// field that carries the old opaque id of a deleted document, so import
	// can rebuild an equivalent dangling reference instead of rejecting the
	// payload.
	AccountOrphaned   bool `json:"accountOrphaned,omitempty"`
	ToAccountOrphaned bool `json:"toAccountOrphaned,omitempty"`
	CardOrphaned      bool `json:"cardOrphaned,omitempty"`

	OriginalAmount   *decimal.Decimal `json:"originalAmount,omitempty"`
	OriginalCurrency string           `json:"originalCurrency,omitempty"`

	// Indices into the exported Transactions slice, payment kind only.
	PaidCardTransactionRefs []int `json:"paidCardTransactionRefs,omitempty"`
}

// ExportSchedule is a schedule with a name-based account reference.
type ExportSchedule struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     string          `json:"dueDate"` // ISO-8601
	AccountName string          `json:"accountName"`
	IsCompleted bool            `json:"isCompleted"`

	// See ExportTransaction.AccountOrphaned.
	AccountOrphaned bool `json:"accountOrphaned,omitempty"`
}

// ExportCurrency is a currency keyed by its symbol.
type ExportCurrency struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Rate   decimal.Decimal `json:"rate"`
	IsBase bool            `json:"isBase"`
}

// ExportMemo is a memo stripped of its internal id.
type ExportMemo struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ImportResult summarizes what a destructive JSON import wrote.
type ImportResult struct {
	Accounts     int `json:"accounts"`
	Cards        int `json:"cards"`
	Transactions int `json:"transactions"`
	Schedules    int `json:"schedules"`
	Currencies   int `json:"currencies"`
	Categories   int `json:"categories"`
	Memos        int `json:"memos"`
}
