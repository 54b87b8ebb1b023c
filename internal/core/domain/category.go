package domain

// Category is a user-defined label for classifying transactions.
type Category struct {
	CategoryID string `json:"categoryID"` // Primary Key (e.g., UUID)
	UserID     string `json:"userID"`
	Name       string `json:"name"`
	AuditFields
}
