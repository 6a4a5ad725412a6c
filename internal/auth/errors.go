package auth

import "errors"

// Business-rule failures. Route handlers translate these into the
// client-visible error envelope; anything else is an internal error.
var (
	ErrEmailTaken             = errors.New("email already taken")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrInvalidTokenType       = errors.New("invalid token type")
	ErrAccountInactive        = errors.New("account inactive")
	ErrInvalidOrExpiredToken  = errors.New("invalid or expired token")
	ErrInvalidEmail           = errors.New("invalid email format")
	ErrWeakPassword           = errors.New("password does not meet requirements")
	ErrInvalidKind            = errors.New("invalid account kind")
)
