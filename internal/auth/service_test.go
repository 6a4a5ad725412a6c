package auth

import (
	"database/sql"
	"testing"
	"time"

	"github.com/OliveCh12/assetsync-backend/internal/config"
	"github.com/OliveCh12/assetsync-backend/internal/database"
	"github.com/OliveCh12/assetsync-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// recordingMailer captures the last reset ticket instead of sending it.
type recordingMailer struct {
	email string
	token string
	sent  int
}

func (m *recordingMailer) SendPasswordReset(email, token string) error {
	m.email = email
	m.token = token
	m.sent++
	return nil
}

func newTestService(t *testing.T) (*Service, *database.DB, *recordingMailer) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Database.Type = "sqlite"
	cfg.Database.Path = ":memory:"

	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mailer := &recordingMailer{}
	tokens := NewTokenManager("test-secret", 15*time.Minute, 7*24*time.Hour)
	service := NewService(db, tokens, NewHasher(bcrypt.MinCost), mailer, time.Hour)
	return service, db, mailer
}

func register(t *testing.T, service *Service, email string) (*models.User, *models.TokenPair) {
	t.Helper()
	user, pair, err := service.Register(email, "Sup3r$ecret!", "Alice", "Martin", models.KindPersonal, "test-agent")
	require.NoError(t, err)
	return user, pair
}

func TestRegisterAndLogin(t *testing.T) {
	service, db, _ := newTestService(t)

	user, pair := register(t, service, "alice@example.com")
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, models.KindPersonal, user.Kind)
	assert.NotEqual(t, "Sup3r$ecret!", user.Password)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	// Registration opens a session for the access token.
	session, err := db.FindActiveSession(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.UserID)

	loggedIn, loginPair, err := service.Login("alice@example.com", "Sup3r$ecret!", "test-agent")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotNil(t, loggedIn.LastLoginAt)
	assert.NotEqual(t, pair.AccessToken, loginPair.AccessToken)
}

func TestRegisterValidation(t *testing.T) {
	service, _, _ := newTestService(t)

	_, _, err := service.Register("not-an-email", "Sup3r$ecret!", "", "", "", "")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, _, err = service.Register("weak@example.com", "short", "", "", "", "")
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, _, err = service.Register("kind@example.com", "Sup3r$ecret!", "", "", "corporate", "")
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service, _, _ := newTestService(t)
	register(t, service, "dup@example.com")

	_, _, err := service.Register("dup@example.com", "Sup3r$ecret!", "", "", "", "")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterEmailTakenBySoftDeletedAccount(t *testing.T) {
	service, _, _ := newTestService(t)
	user, _ := register(t, service, "ghost@example.com")
	require.NoError(t, service.DeactivateAccount(user.ID))

	_, _, err := service.Register("ghost@example.com", "Sup3r$ecret!", "", "", "", "")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginIndistinguishableFailures(t *testing.T) {
	service, _, _ := newTestService(t)
	register(t, service, "alice@example.com")

	// Wrong password and unknown email fail with the exact same error.
	_, _, wrongPass := service.Login("alice@example.com", "WrongPass1!", "")
	_, _, unknown := service.Login("nobody@example.com", "Sup3r$ecret!", "")
	assert.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, ErrInvalidCredentials)
	assert.Equal(t, wrongPass, unknown)
}

func TestLogoutRevokesSession(t *testing.T) {
	service, db, _ := newTestService(t)
	_, pair := register(t, service, "alice@example.com")

	service.Logout(pair.AccessToken)

	_, err := db.FindActiveSession(pair.AccessToken)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	// Logout of an already-revoked token is a no-op.
	service.Logout(pair.AccessToken)
	service.Logout("")
}

func TestRefresh(t *testing.T) {
	service, db, _ := newTestService(t)
	_, pair := register(t, service, "alice@example.com")

	fresh, err := service.Refresh(pair.RefreshToken, "test-agent")
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, fresh.AccessToken)

	// The new access token has its own session row. The old one is still
	// live: overlap is bounded by the access TTL, not revoked eagerly.
	_, err = db.FindActiveSession(fresh.AccessToken)
	assert.NoError(t, err)
	_, err = db.FindActiveSession(pair.AccessToken)
	assert.NoError(t, err)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	service, _, _ := newTestService(t)
	_, pair := register(t, service, "alice@example.com")

	_, err := service.Refresh(pair.AccessToken, "")
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.Refresh("not-a-token", "")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestRefreshRejectsDeactivatedAccount(t *testing.T) {
	service, _, _ := newTestService(t)
	user, pair := register(t, service, "alice@example.com")
	require.NoError(t, service.DeactivateAccount(user.ID))

	_, err := service.Refresh(pair.RefreshToken, "")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestRequestPasswordResetIsEnumerationSafe(t *testing.T) {
	service, _, mailer := newTestService(t)
	register(t, service, "alice@example.com")

	assert.NoError(t, service.RequestPasswordReset("alice@example.com"))
	assert.Equal(t, 1, mailer.sent)
	assert.Equal(t, "alice@example.com", mailer.email)
	assert.NotEmpty(t, mailer.token)

	// Unknown email: same nil result, nothing sent.
	assert.NoError(t, service.RequestPasswordReset("nobody@example.com"))
	assert.Equal(t, 1, mailer.sent)
}

func TestResetPasswordFlow(t *testing.T) {
	service, db, mailer := newTestService(t)
	_, pair := register(t, service, "alice@example.com")
	require.NoError(t, service.RequestPasswordReset("alice@example.com"))

	require.NoError(t, service.ResetPassword(mailer.token, "N3w$ecret!"))

	// Old password no longer works, new one does.
	_, _, err := service.Login("alice@example.com", "Sup3r$ecret!", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = service.Login("alice@example.com", "N3w$ecret!", "")
	assert.NoError(t, err)

	// Every pre-reset session is revoked.
	_, err = db.FindActiveSession(pair.AccessToken)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestResetPasswordTicketSingleUse(t *testing.T) {
	service, _, mailer := newTestService(t)
	register(t, service, "alice@example.com")
	require.NoError(t, service.RequestPasswordReset("alice@example.com"))

	require.NoError(t, service.ResetPassword(mailer.token, "N3w$ecret!"))

	err := service.ResetPassword(mailer.token, "An0ther$ecret!")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestResetPasswordRejectsWeakPasswordWithoutConsuming(t *testing.T) {
	service, _, mailer := newTestService(t)
	register(t, service, "alice@example.com")
	require.NoError(t, service.RequestPasswordReset("alice@example.com"))

	assert.ErrorIs(t, service.ResetPassword(mailer.token, "weak"), ErrWeakPassword)

	// The ticket survives a rejected password and still works.
	assert.NoError(t, service.ResetPassword(mailer.token, "N3w$ecret!"))
}

func TestResetPasswordUnknownTicket(t *testing.T) {
	service, _, _ := newTestService(t)
	err := service.ResetPassword("never-issued", "N3w$ecret!")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestUpdateProfile(t *testing.T) {
	service, _, _ := newTestService(t)
	user, _ := register(t, service, "alice@example.com")

	updated, err := service.UpdateProfile(user.ID, "Alicia", "Durand", models.KindProfessional)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.FirstName)
	assert.Equal(t, "Durand", updated.LastName)
	assert.Equal(t, models.KindProfessional, updated.Kind)

	_, err = service.UpdateProfile(user.ID, "A", "B", "corporate")
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestDeactivateAccount(t *testing.T) {
	service, db, _ := newTestService(t)
	user, pair := register(t, service, "alice@example.com")

	require.NoError(t, service.DeactivateAccount(user.ID))

	_, err := db.GetUserByID(user.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	_, err = db.FindActiveSession(pair.AccessToken)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	_, _, err = service.Login("alice@example.com", "Sup3r$ecret!", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
