package auth

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"github.com/OliveCh12/assetsync-backend/internal/database"
	"github.com/OliveCh12/assetsync-backend/internal/models"
)

// Service orchestrates the account lifecycle: registration, login, logout,
// token refresh and password reset. All dependencies are injected by the
// composition root.
type Service struct {
	db       *database.DB
	tokens   *TokenManager
	hasher   *Hasher
	mailer   Mailer
	resetTTL time.Duration
}

// NewService wires a Service. A nil mailer falls back to the log mailer.
func NewService(db *database.DB, tokens *TokenManager, hasher *Hasher, mailer Mailer, resetTTL time.Duration) *Service {
	if mailer == nil {
		mailer = LogMailer{}
	}
	if resetTTL == 0 {
		resetTTL = time.Hour
	}
	return &Service{
		db:       db,
		tokens:   tokens,
		hasher:   hasher,
		mailer:   mailer,
		resetTTL: resetTTL,
	}
}

// Tokens exposes the token manager for middleware wiring.
func (s *Service) Tokens() *TokenManager {
	return s.tokens
}

// issueSession generates a token pair and persists a session row for the
// access token only. The refresh token lives purely in its signature.
func (s *Service) issueSession(user *models.User, userAgent string) (*models.TokenPair, error) {
	pair, err := s.tokens.GeneratePair(user)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.CreateSession(user.ID, pair.AccessToken, userAgent, pair.AccessExpiresAt); err != nil {
		return nil, err
	}
	return pair, nil
}

// Register creates a new account and logs it in.
func (s *Service) Register(email, password, firstName, lastName, kind, userAgent string) (*models.User, *models.TokenPair, error) {
	if !ValidateEmail(email) {
		return nil, nil, ErrInvalidEmail
	}
	if !ValidatePassword(password) {
		return nil, nil, ErrWeakPassword
	}
	if kind == "" {
		kind = models.KindPersonal
	}
	if !models.ValidKind(kind) {
		return nil, nil, ErrInvalidKind
	}

	taken, err := s.db.EmailExists(email)
	if err != nil {
		return nil, nil, err
	}
	if taken {
		return nil, nil, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, nil, err
	}

	user := &models.User{
		Email:     email,
		Password:  hash,
		FirstName: firstName,
		LastName:  lastName,
		Kind:      kind,
	}
	if err := s.db.CreateUser(user); err != nil {
		return nil, nil, err
	}

	pair, err := s.issueSession(user, userAgent)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Login validates credentials and issues a fresh token pair. A missing
// account and a wrong password collapse into the same error so callers
// cannot probe for registered emails.
func (s *Service) Login(email, password, userAgent string) (*models.User, *models.TokenPair, error) {
	user, err := s.db.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !s.hasher.Compare(password, user.Password) {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueSession(user, userAgent)
	if err != nil {
		return nil, nil, err
	}

	if err := s.db.TouchLastLogin(user.ID); err != nil {
		log.Printf("Failed to update last login for %s: %v", user.ID, err)
	}
	now := time.Now().UTC()
	user.LastLoginAt = &now

	return user, pair, nil
}

// Logout deletes the session for the presented access token. It never
// fails externally: a missing or already-deleted session is fine.
func (s *Service) Logout(accessToken string) {
	if accessToken == "" {
		return
	}
	if err := s.db.DeleteSessionByToken(accessToken); err != nil {
		log.Printf("Logout: failed to delete session: %v", err)
	}
}

// Refresh exchanges a valid refresh token for a new pair plus a new session
// record. The session tied to the previous access token is left alone:
// overlap during rotation is allowed and bounded by the access TTL.
func (s *Service) Refresh(refreshToken, userAgent string) (*models.TokenPair, error) {
	claims, err := s.tokens.ValidatePurpose(refreshToken, PurposeRefresh)
	if err != nil {
		if errors.Is(err, ErrInvalidTokenType) {
			return nil, ErrInvalidTokenType
		}
		return nil, ErrInvalidOrExpiredToken
	}

	user, err := s.db.GetUserByID(claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountInactive
		}
		return nil, err
	}

	return s.issueSession(user, userAgent)
}

// RequestPasswordReset creates a one-time reset ticket and hands it to the
// mailer. The caller always gets the same answer whether or not the email
// is registered.
func (s *Service) RequestPasswordReset(email string) error {
	user, err := s.db.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}

	token, err := generateResetToken()
	if err != nil {
		return err
	}

	if _, err := s.db.CreatePasswordReset(user.ID, token, time.Now().UTC().Add(s.resetTTL)); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(user.Email, token); err != nil {
		log.Printf("Failed to deliver reset ticket for %s: %v", user.Email, err)
	}
	return nil
}

// ResetPassword consumes a reset ticket, replaces the account password and
// invalidates every session for the account. The ticket consume is a
// conditional update, so two racing resets with the same ticket cannot
// both succeed.
func (s *Service) ResetPassword(token, newPassword string) error {
	if !ValidatePassword(newPassword) {
		return ErrWeakPassword
	}

	userID, err := s.db.ConsumePasswordReset(token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInvalidOrExpiredToken
		}
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.db.UpdateUserPassword(userID, hash); err != nil {
		return err
	}

	return s.db.DeleteSessionsForUser(userID)
}

// UpdateProfile mutates the profile fields and returns the fresh account.
func (s *Service) UpdateProfile(userID, firstName, lastName, kind string) (*models.User, error) {
	if !models.ValidKind(kind) {
		return nil, ErrInvalidKind
	}
	if err := s.db.UpdateUserProfile(userID, firstName, lastName, kind); err != nil {
		return nil, err
	}
	user, err := s.db.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountInactive
		}
		return nil, err
	}
	return user, nil
}

// DeactivateAccount soft-deletes the account and revokes all its sessions.
func (s *Service) DeactivateAccount(userID string) error {
	if err := s.db.SoftDeleteUser(userID); err != nil {
		return err
	}
	return s.db.DeleteSessionsForUser(userID)
}

// generateResetToken returns a random ticket token.
func generateResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
