package models

import "time"

// Account kinds.
const (
	KindPersonal     = "personal"
	KindProfessional = "professional"
)

// User represents a registered account. Accounts are never hard-deleted;
// DeletedAt marks them inactive.
type User struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Password      string     `json:"-"` // bcrypt hash, never exposed in JSON
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Kind          string     `json:"kind"`
	EmailVerified bool       `json:"email_verified"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"-"`
}

// ValidKind reports whether kind is one of the supported account kinds.
func ValidKind(kind string) bool {
	return kind == KindPersonal || kind == KindProfessional
}
