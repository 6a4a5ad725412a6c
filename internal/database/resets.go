package database

import (
	"database/sql"
	"time"

	"github.com/OliveCh12/assetsync-backend/internal/models"
)

// CreatePasswordReset stores a one-time reset ticket. The expiry is
// normalized to UTC so the text comparison in ConsumePasswordReset holds
// regardless of the caller's zone.
func (db *DB) CreatePasswordReset(userID, token string, expiresAt time.Time) (*models.PasswordReset, error) {
	reset := &models.PasswordReset{
		ID:        GenerateID(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: time.Now().UTC(),
	}

	var query string
	if db.dialect == "postgres" {
		query = `INSERT INTO password_resets (id, user_id, token, expires_at, created_at) VALUES ($1, $2, $3, $4, $5)`
	} else {
		query = `INSERT INTO password_resets (id, user_id, token, expires_at, created_at) VALUES (?, ?, ?, ?, ?)`
	}

	_, err := db.conn.Exec(query, reset.ID, reset.UserID, reset.Token, reset.ExpiresAt, reset.CreatedAt)
	if err != nil {
		return nil, err
	}
	return reset, nil
}

// ConsumePasswordReset atomically marks an unused, unexpired ticket as used
// and returns the owning user ID. The conditional UPDATE on used_at IS NULL
// is what guarantees one-time use when two resets race: exactly one wins,
// the other sees sql.ErrNoRows.
func (db *DB) ConsumePasswordReset(token string) (string, error) {
	now := time.Now().UTC()

	var query string
	if db.dialect == "postgres" {
		query = `UPDATE password_resets SET used_at = $1 WHERE token = $2 AND used_at IS NULL AND expires_at > $3`
	} else {
		query = `UPDATE password_resets SET used_at = ? WHERE token = ? AND used_at IS NULL AND expires_at > ?`
	}

	result, err := db.conn.Exec(query, now, token, now)
	if err != nil {
		return "", err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return "", err
	}
	if affected == 0 {
		return "", sql.ErrNoRows
	}

	if db.dialect == "postgres" {
		query = "SELECT user_id FROM password_resets WHERE token = $1"
	} else {
		query = "SELECT user_id FROM password_resets WHERE token = ?"
	}
	var userID string
	if err := db.conn.QueryRow(query, token).Scan(&userID); err != nil {
		return "", err
	}
	return userID, nil
}

// GetPasswordReset retrieves a ticket by token regardless of state.
func (db *DB) GetPasswordReset(token string) (*models.PasswordReset, error) {
	var query string
	if db.dialect == "postgres" {
		query = `SELECT id, user_id, token, expires_at, used_at, created_at FROM password_resets WHERE token = $1`
	} else {
		query = `SELECT id, user_id, token, expires_at, used_at, created_at FROM password_resets WHERE token = ?`
	}

	reset := &models.PasswordReset{}
	err := db.conn.QueryRow(query, token).Scan(
		&reset.ID, &reset.UserID, &reset.Token, &reset.ExpiresAt, &reset.UsedAt, &reset.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return reset, nil
}
