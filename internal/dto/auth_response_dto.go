package dto

import "time"

// AuthResponse is returned after a successful login, registration or token refresh.
type AuthResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"accessToken"`
	ExpiresAt   time.Time    `json:"expiresAt"`
}
