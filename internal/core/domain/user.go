package domain

import "time"

// AuthProvider indicates how a user authenticates.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "LOCAL"
	ProviderGoogle AuthProvider = "GOOGLE"
)

// User represents an authenticated owner of a household data set.
type User struct {
	UserID       string       `json:"userID"` // Primary Key (e.g., UUID)
	Username     string       `json:"username"`
	Name         string       `json:"name"`
	PasswordHash string       `json:"-"` // Empty for external-provider users
	AuthProvider AuthProvider `json:"authProvider"`
	ProviderID   string       `json:"-"` // Opaque subject from the external provider

	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`

	AuditFields
}

// GoogleUserInfo holds the profile fields returned by Google's userinfo
// endpoint after an OAuth exchange.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
