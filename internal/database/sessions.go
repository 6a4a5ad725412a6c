package database

import (
	"time"

	"github.com/OliveCh12/assetsync-backend/internal/models"
)

// CreateSession persists a session row for an issued access token.
// Concurrent sessions for one account are allowed. The expiry is normalized
// to UTC here: SQLite compares the bound timestamps as text, so a zoned
// expiry would order wrongly against the UTC probe in FindActiveSession.
func (db *DB) CreateSession(userID, token, userAgent string, expiresAt time.Time) (*models.Session, error) {
	session := &models.Session{
		ID:        GenerateID(),
		UserID:    userID,
		Token:     token,
		UserAgent: userAgent,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: expiresAt.UTC(),
	}

	var query string
	if db.dialect == "postgres" {
		query = `INSERT INTO sessions (id, user_id, token, user_agent, created_at, expires_at) VALUES ($1, $2, $3, $4, $5, $6)`
	} else {
		query = `INSERT INTO sessions (id, user_id, token, user_agent, created_at, expires_at) VALUES (?, ?, ?, ?, ?, ?)`
	}

	_, err := db.conn.Exec(query,
		session.ID, session.UserID, session.Token, session.UserAgent,
		session.CreatedAt, session.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// FindActiveSession returns the session row for a token if its expiry is in
// the future. Expired rows are filtered at read time, not purged here; the
// periodic sweep takes care of stale rows.
func (db *DB) FindActiveSession(token string) (*models.Session, error) {
	var query string
	if db.dialect == "postgres" {
		query = `SELECT id, user_id, token, user_agent, created_at, expires_at FROM sessions WHERE token = $1 AND expires_at > $2`
	} else {
		query = `SELECT id, user_id, token, user_agent, created_at, expires_at FROM sessions WHERE token = ? AND expires_at > ?`
	}

	session := &models.Session{}
	err := db.conn.QueryRow(query, token, time.Now().UTC()).Scan(
		&session.ID, &session.UserID, &session.Token, &session.UserAgent,
		&session.CreatedAt, &session.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteSessionByToken removes the session for a token. Deleting a token
// with no matching row is not an error (logout is idempotent).
func (db *DB) DeleteSessionByToken(token string) error {
	var query string
	if db.dialect == "postgres" {
		query = "DELETE FROM sessions WHERE token = $1"
	} else {
		query = "DELETE FROM sessions WHERE token = ?"
	}
	_, err := db.conn.Exec(query, token)
	return err
}

// DeleteSessionsForUser removes every session for an account. Used on
// password reset and account deletion to force re-login everywhere.
func (db *DB) DeleteSessionsForUser(userID string) error {
	var query string
	if db.dialect == "postgres" {
		query = "DELETE FROM sessions WHERE user_id = $1"
	} else {
		query = "DELETE FROM sessions WHERE user_id = ?"
	}
	_, err := db.conn.Exec(query, userID)
	return err
}

// CleanupExpiredSessions removes sessions that have passed their expiry.
func (db *DB) CleanupExpiredSessions() error {
	var query string
	if db.dialect == "postgres" {
		query = "DELETE FROM sessions WHERE expires_at < $1"
	} else {
		query = "DELETE FROM sessions WHERE expires_at < ?"
	}
	_, err := db.conn.Exec(query, time.Now().UTC())
	return err
}
