package models

import "time"

// PasswordReset is a one-time ticket authorizing a single password change.
// UsedAt is nil until the ticket is consumed; a consumed ticket is never
// accepted again.
type PasswordReset struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Token     string     `json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
