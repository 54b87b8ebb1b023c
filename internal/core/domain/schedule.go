package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Schedule is a pending future-dated income entry. It stays independent of
// the ledger until it is completed, at which point exactly one income
// transaction is created for the same account and amount. IsCompleted is
// monotonic: once true it never reverts.
type Schedule struct {
	ScheduleID  string          `json:"scheduleID"` // Primary Key (e.g., UUID)
	UserID      string          `json:"userID"`     // Owning user (NON-NULL)
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     time.Time       `json:"dueDate"`
	AccountID   string          `json:"accountID"` // Target account
	IsCompleted bool            `json:"isCompleted"`
	AuditFields
}
