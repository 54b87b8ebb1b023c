package domain

// Card represents a credit card whose charges accumulate over a rolling
// monthly usage window and are settled against a linked KRW account.
//
// PaymentDay decides which month's window is currently open: evaluated on a
// day before PaymentDay, the open window is anchored on the previous calendar
// month, otherwise on the current one. UsageStartDay/UsageEndDay are
// days-of-month bounding that window; days past the end of a month are
// clamped to the month's last day.
type Card struct {
	CardID              string `json:"cardID"` // Primary Key (e.g., UUID)
	UserID              string `json:"userID"` // Owning user (NON-NULL)
	Name                string `json:"name"`
	PaymentDay          int    `json:"paymentDay"`    // 1-31
	UsageStartDay       int    `json:"usageStartDay"` // 1-31
	UsageEndDay         int    `json:"usageEndDay"`   // 1-31
	SettlementAccountID string `json:"settlementAccountID"` // FK -> accounts.account_id (KRW account)
	AuditFields
}
