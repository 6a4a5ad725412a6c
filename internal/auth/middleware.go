package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/OliveCh12/assetsync-backend/internal/database"
)

type contextKey string

const identityContextKey contextKey = "identity"

// Identity is the verified caller injected into request context by the
// auth gate.
type Identity struct {
	UserID string
	Email  string
	Kind   string
	Token  string
}

// IdentityFromContext retrieves the verified identity, if any.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(*Identity)
	return identity, ok
}

// BearerToken extracts the bearer token from an Authorization header.
// Returns "" when the header is missing or malformed.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}

// authenticate runs the gate pipeline: extract, verify, purpose check,
// session liveness, account liveness. A signed token with no live session
// row is rejected: logout and password reset must take effect immediately.
func authenticate(r *http.Request, tm *TokenManager, db *database.DB) (*Identity, error) {
	token := BearerToken(r)
	if token == "" {
		return nil, ErrAuthenticationRequired
	}

	claims, err := tm.ValidateToken(token)
	if err != nil {
		// Failure kind is deliberately not leaked to the caller.
		return nil, ErrAuthenticationRequired
	}

	if claims.Purpose != PurposeAccess {
		return nil, ErrInvalidTokenType
	}

	if _, err := db.FindActiveSession(token); err != nil {
		return nil, ErrAuthenticationRequired
	}

	user, err := db.GetUserByID(claims.UserID)
	if err != nil {
		return nil, ErrAccountInactive
	}

	return &Identity{
		UserID: user.ID,
		Email:  user.Email,
		Kind:   user.Kind,
		Token:  token,
	}, nil
}

// RequireAuth is the strict gate: any pipeline failure aborts the request
// with an unauthorized response.
func RequireAuth(tm *TokenManager, db *database.DB, reject func(w http.ResponseWriter, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := authenticate(r, tm, db)
			if err != nil {
				reject(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth is the soft variant: failures fall through with no identity
// attached, for routes that behave differently when authenticated without
// requiring it.
func OptionalAuth(tm *TokenManager, db *database.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if identity, err := authenticate(r, tm, db); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), identityContextKey, identity))
			}
			next.ServeHTTP(w, r)
		})
	}
}
