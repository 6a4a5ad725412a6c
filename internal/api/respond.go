package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/OliveCh12/assetsync-backend/internal/auth"
)

// Client-visible error kinds. Statuses map 1:1 to the kinds.
const (
	kindConflict        = "conflict"
	kindInvalidCreds    = "invalid_credentials"
	kindAuthRequired    = "authentication_required"
	kindInvalidTokType  = "invalid_token_type"
	kindAccountInactive = "account_inactive"
	kindInvalidToken    = "invalid_or_expired_token"
	kindValidation      = "validation_failed"
	kindNotFound        = "not_found"
	kindInternal        = "internal"
	kindNotImplemented  = "not_implemented"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			log.Printf("Failed to encode response: %v", err)
		}
	}
}

func respondError(w http.ResponseWriter, status int, kind, message string) {
	respondJSON(w, status, errorResponse{Success: false, Error: kind, Message: message})
}

// respondAuthError translates a business-rule error from the auth package
// into the client envelope. Unexpected errors are logged server-side and
// surfaced as a generic internal error.
func respondAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		respondError(w, http.StatusConflict, kindConflict, "email already registered")
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, kindInvalidCreds, "invalid email or password")
	case errors.Is(err, auth.ErrAuthenticationRequired):
		respondError(w, http.StatusUnauthorized, kindAuthRequired, "authentication required")
	case errors.Is(err, auth.ErrInvalidTokenType):
		respondError(w, http.StatusUnauthorized, kindInvalidTokType, "wrong token type for this operation")
	case errors.Is(err, auth.ErrAccountInactive):
		respondError(w, http.StatusForbidden, kindAccountInactive, "account is inactive")
	case errors.Is(err, auth.ErrInvalidOrExpiredToken):
		respondError(w, http.StatusUnauthorized, kindInvalidToken, "invalid or expired token")
	case errors.Is(err, auth.ErrInvalidEmail):
		respondError(w, http.StatusBadRequest, kindValidation, "invalid email format")
	case errors.Is(err, auth.ErrWeakPassword):
		respondError(w, http.StatusBadRequest, kindValidation, "password does not meet requirements")
	case errors.Is(err, auth.ErrInvalidKind):
		respondError(w, http.StatusBadRequest, kindValidation, "account kind must be personal or professional")
	default:
		log.Printf("Internal error: %v", err)
		respondError(w, http.StatusInternalServerError, kindInternal, "internal server error")
	}
}
