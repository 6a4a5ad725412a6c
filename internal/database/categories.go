package database

import (
	"time"

	"github.com/OliveCh12/assetsync-backend/internal/models"
)

const categoryColumns = "id, user_id, name, description, created_at, updated_at, deleted_at"

// CreateCategory inserts a category owned by a user.
func (db *DB) CreateCategory(category *models.Category) error {
	now := time.Now().UTC()
	category.ID = GenerateID()
	category.CreatedAt = now
	category.UpdatedAt = now

	var query string
	if db.dialect == "postgres" {
		query = `INSERT INTO categories (id, user_id, name, description, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`
	} else {
		query = `INSERT INTO categories (id, user_id, name, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`
	}

	_, err := db.conn.Exec(query,
		category.ID, category.UserID, category.Name, category.Description,
		category.CreatedAt, category.UpdatedAt,
	)
	return err
}

// GetCategory retrieves an active category owned by userID.
func (db *DB) GetCategory(userID, id string) (*models.Category, error) {
	var query string
	if db.dialect == "postgres" {
		query = "SELECT " + categoryColumns + " FROM categories WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL"
	} else {
		query = "SELECT " + categoryColumns + " FROM categories WHERE id = ? AND user_id = ? AND deleted_at IS NULL"
	}

	category := &models.Category{}
	err := db.conn.QueryRow(query, id, userID).Scan(
		&category.ID, &category.UserID, &category.Name, &category.Description,
		&category.CreatedAt, &category.UpdatedAt, &category.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories returns all active categories for a user.
func (db *DB) ListCategories(userID string) ([]*models.Category, error) {
	var query string
	if db.dialect == "postgres" {
		query = "SELECT " + categoryColumns + " FROM categories WHERE user_id = $1 AND deleted_at IS NULL ORDER BY name"
	} else {
		query = "SELECT " + categoryColumns + " FROM categories WHERE user_id = ? AND deleted_at IS NULL ORDER BY name"
	}

	rows, err := db.conn.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category := &models.Category{}
		err := rows.Scan(
			&category.ID, &category.UserID, &category.Name, &category.Description,
			&category.CreatedAt, &category.UpdatedAt, &category.DeletedAt,
		)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// UpdateCategory updates name and description of an owned category.
func (db *DB) UpdateCategory(userID, id, name, description string) error {
	var query string
	if db.dialect == "postgres" {
		query = "UPDATE categories SET name = $1, description = $2, updated_at = $3 WHERE id = $4 AND user_id = $5 AND deleted_at IS NULL"
	} else {
		query = "UPDATE categories SET name = ?, description = ?, updated_at = ? WHERE id = ? AND user_id = ? AND deleted_at IS NULL"
	}
	_, err := db.conn.Exec(query, name, description, time.Now().UTC(), id, userID)
	return err
}

// SoftDeleteCategory marks a category deleted.
func (db *DB) SoftDeleteCategory(userID, id string) error {
	var query string
	if db.dialect == "postgres" {
		query = "UPDATE categories SET deleted_at = $1 WHERE id = $2 AND user_id = $3 AND deleted_at IS NULL"
	} else {
		query = "UPDATE categories SET deleted_at = ? WHERE id = ? AND user_id = ? AND deleted_at IS NULL"
	}
	_, err := db.conn.Exec(query, time.Now().UTC(), id, userID)
	return err
}
