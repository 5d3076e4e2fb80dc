package dto

import "time"

// SessionResponse is returned after a completed login.
type SessionResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"tokenType"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// MeResponse describes the authenticated caller.
type MeResponse struct {
	User UserResponse `json:"user"`
}
