package domain

// Memo is a free-form note kept alongside the financial data set.
type Memo struct {
	MemoID  string `json:"memoID"` // Primary Key (e.g., UUID)
	UserID  string `json:"userID"`
	Title   string `json:"title"`
	Content string `json:"content"`
	AuditFields
}
