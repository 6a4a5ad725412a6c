package auth

import (
	"errors"
	"time"

	"github.com/OliveCh12/assetsync-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// Token purposes. Access and refresh tokens share a signing secret but are
// mutually exclusive by the purpose claim.
const (
	PurposeAccess  = "access"
	PurposeRefresh = "refresh"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// TokenClaims is the claim set carried by both token purposes.
type TokenClaims struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Kind    string `json:"kind"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies the JWT pair.
type TokenManager struct {
	secretKey  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenManager creates a TokenManager. TTLs of zero fall back to the
// 15-minute / 7-day defaults.
func NewTokenManager(secretKey string, accessTTL, refreshTTL time.Duration) *TokenManager {
	if accessTTL == 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL == 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenManager{
		secretKey:  []byte(secretKey),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// AccessTTL returns the configured access-token lifetime.
func (tm *TokenManager) AccessTTL() time.Duration {
	return tm.accessTTL
}

func (tm *TokenManager) generate(user *models.User, purpose string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := TokenClaims{
		UserID:  user.ID,
		Email:   user.Email,
		Kind:    user.Kind,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// GenerateAccessToken issues a short-lived access token.
func (tm *TokenManager) GenerateAccessToken(user *models.User) (string, time.Time, error) {
	return tm.generate(user, PurposeAccess, tm.accessTTL)
}

// GenerateRefreshToken issues a long-lived refresh token.
func (tm *TokenManager) GenerateRefreshToken(user *models.User) (string, time.Time, error) {
	return tm.generate(user, PurposeRefresh, tm.refreshTTL)
}

// GeneratePair issues an access/refresh token pair for a user.
func (tm *TokenManager) GeneratePair(user *models.User) (*models.TokenPair, error) {
	access, accessExp, err := tm.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := tm.GenerateRefreshToken(user)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// ValidateToken verifies the signature and timing of a token and returns
// its claims. Tokens signed with anything but HMAC are rejected outright,
// which closes the algorithm-confusion hole.
func (tm *TokenManager) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return tm.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ValidatePurpose verifies a token and additionally requires the given
// purpose claim. A valid token with the wrong purpose fails with
// ErrInvalidTokenType.
func (tm *TokenManager) ValidatePurpose(tokenString, purpose string) (*TokenClaims, error) {
	claims, err := tm.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != purpose {
		return nil, ErrInvalidTokenType
	}
	return claims, nil
}
