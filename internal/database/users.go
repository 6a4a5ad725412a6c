package database

import (
	"time"

	"github.com/OliveCh12/assetsync-backend/internal/models"
)

// CreateUser inserts a new account row. The password must already be hashed.
func (db *DB) CreateUser(user *models.User) error {
	now := time.Now().UTC()
	user.ID = GenerateID()
	user.CreatedAt = now
	user.UpdatedAt = now

	var query string
	if db.dialect == "postgres" {
		query = `INSERT INTO users (id, email, password, first_name, last_name, kind, email_verified, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	} else {
		query = `INSERT INTO users (id, email, password, first_name, last_name, kind, email_verified, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	}

	_, err := db.conn.Exec(query,
		user.ID, user.Email, user.Password, user.FirstName, user.LastName,
		user.Kind, user.EmailVerified, user.CreatedAt, user.UpdatedAt,
	)
	return err
}

const userColumns = "id, email, password, first_name, last_name, kind, email_verified, last_login_at, created_at, updated_at, deleted_at"

func (db *DB) scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.Password, &user.FirstName, &user.LastName,
		&user.Kind, &user.EmailVerified, &user.LastLoginAt,
		&user.CreatedAt, &user.UpdatedAt, &user.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByEmail retrieves an active (not soft-deleted) user by email.
// Returns sql.ErrNoRows when there is no such account.
func (db *DB) GetUserByEmail(email string) (*models.User, error) {
	var query string
	if db.dialect == "postgres" {
		query = "SELECT " + userColumns + " FROM users WHERE email = $1 AND deleted_at IS NULL"
	} else {
		query = "SELECT " + userColumns + " FROM users WHERE email = ? AND deleted_at IS NULL"
	}
	return db.scanUser(db.conn.QueryRow(query, email))
}

// GetUserByID retrieves an active user by ID. Soft-deleted accounts are not
// returned; the auth gate relies on that for its liveness check.
func (db *DB) GetUserByID(id string) (*models.User, error) {
	var query string
	if db.dialect == "postgres" {
		query = "SELECT " + userColumns + " FROM users WHERE id = $1 AND deleted_at IS NULL"
	} else {
		query = "SELECT " + userColumns + " FROM users WHERE id = ? AND deleted_at IS NULL"
	}
	return db.scanUser(db.conn.QueryRow(query, id))
}

// EmailExists reports whether any account (including soft-deleted ones)
// holds this email. Registration treats soft-deleted rows as taken because
// the unique constraint still applies.
func (db *DB) EmailExists(email string) (bool, error) {
	var query string
	if db.dialect == "postgres" {
		query = "SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)"
	} else {
		query = "SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)"
	}
	var exists bool
	err := db.conn.QueryRow(query, email).Scan(&exists)
	return exists, err
}

// UpdateUserProfile updates the mutable profile fields.
func (db *DB) UpdateUserProfile(id, firstName, lastName, kind string) error {
	var query string
	if db.dialect == "postgres" {
		query = "UPDATE users SET first_name = $1, last_name = $2, kind = $3, updated_at = $4 WHERE id = $5 AND deleted_at IS NULL"
	} else {
		query = "UPDATE users SET first_name = ?, last_name = ?, kind = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL"
	}
	_, err := db.conn.Exec(query, firstName, lastName, kind, time.Now().UTC(), id)
	return err
}

// UpdateUserPassword replaces the stored password hash.
func (db *DB) UpdateUserPassword(id, passwordHash string) error {
	var query string
	if db.dialect == "postgres" {
		query = "UPDATE users SET password = $1, updated_at = $2 WHERE id = $3"
	} else {
		query = "UPDATE users SET password = ?, updated_at = ? WHERE id = ?"
	}
	_, err := db.conn.Exec(query, passwordHash, time.Now().UTC(), id)
	return err
}

// TouchLastLogin records a successful login.
func (db *DB) TouchLastLogin(id string) error {
	var query string
	if db.dialect == "postgres" {
		query = "UPDATE users SET last_login_at = $1 WHERE id = $2"
	} else {
		query = "UPDATE users SET last_login_at = ? WHERE id = ?"
	}
	_, err := db.conn.Exec(query, time.Now().UTC(), id)
	return err
}

// SoftDeleteUser marks the account deleted. The row is never removed.
func (db *DB) SoftDeleteUser(id string) error {
	var query string
	if db.dialect == "postgres" {
		query = "UPDATE users SET deleted_at = $1, updated_at = $1 WHERE id = $2 AND deleted_at IS NULL"
	} else {
		query = "UPDATE users SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL"
	}
	now := time.Now().UTC()
	if db.dialect == "postgres" {
		_, err := db.conn.Exec(query, now, id)
		return err
	}
	_, err := db.conn.Exec(query, now, now, id)
	return err
}
