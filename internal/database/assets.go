package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/OliveCh12/assetsync-backend/internal/models"
)

const assetColumns = `id, user_id, category_id, name, description, serial_number,
	purchase_date, purchase_price, currency, condition, status,
	listed_price, listed_at, value_pessimistic, value_realistic, value_optimistic,
	created_at, updated_at, deleted_at`

func (db *DB) scanAsset(row interface{ Scan(...any) error }) (*models.Asset, error) {
	asset := &models.Asset{}
	err := row.Scan(
		&asset.ID, &asset.UserID, &asset.CategoryID, &asset.Name, &asset.Description,
		&asset.SerialNumber, &asset.PurchaseDate, &asset.PurchasePrice, &asset.Currency,
		&asset.Condition, &asset.Status, &asset.ListedPrice, &asset.ListedAt,
		&asset.ValuePessimistic, &asset.ValueRealistic, &asset.ValueOptimistic,
		&asset.CreatedAt, &asset.UpdatedAt, &asset.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return asset, nil
}

// placeholder returns the dialect's positional parameter marker. n is
// 1-based and only meaningful for postgres.
func (db *DB) placeholder(n int) string {
	if db.dialect == "postgres" {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// CreateAsset inserts a new asset row.
func (db *DB) CreateAsset(asset *models.Asset) error {
	now := time.Now().UTC()
	asset.ID = GenerateID()
	asset.CreatedAt = now
	asset.UpdatedAt = now
	if asset.Status == "" {
		asset.Status = models.AssetStatusOwned
	}

	cols := `id, user_id, category_id, name, description, serial_number,
		purchase_date, purchase_price, currency, condition, status,
		listed_price, listed_at, created_at, updated_at`
	marks := make([]string, 15)
	for i := range marks {
		marks[i] = db.placeholder(i + 1)
	}

	query := fmt.Sprintf("INSERT INTO assets (%s) VALUES (%s)", cols, strings.Join(marks, ", "))
	_, err := db.conn.Exec(query,
		asset.ID, asset.UserID, asset.CategoryID, asset.Name, asset.Description,
		asset.SerialNumber, asset.PurchaseDate, asset.PurchasePrice, asset.Currency,
		asset.Condition, asset.Status, asset.ListedPrice, asset.ListedAt,
		asset.CreatedAt, asset.UpdatedAt,
	)
	return err
}

// GetAsset retrieves an active asset owned by userID.
func (db *DB) GetAsset(userID, id string) (*models.Asset, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM assets WHERE id = %s AND user_id = %s AND deleted_at IS NULL",
		assetColumns, db.placeholder(1), db.placeholder(2),
	)
	return db.scanAsset(db.conn.QueryRow(query, id, userID))
}

// SearchAssets runs the parameterized search with pagination. The LIKE match
// covers name, description and serial number.
func (db *DB) SearchAssets(userID string, filter models.AssetFilter) (*models.AssetPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 || filter.PerPage > 100 {
		filter.PerPage = 20
	}

	where := []string{fmt.Sprintf("user_id = %s", db.placeholder(1)), "deleted_at IS NULL"}
	args := []any{userID}

	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		p1 := db.placeholder(len(args) + 1)
		p2 := db.placeholder(len(args) + 2)
		p3 := db.placeholder(len(args) + 3)
		where = append(where, fmt.Sprintf("(name LIKE %s OR description LIKE %s OR serial_number LIKE %s)", p1, p2, p3))
		args = append(args, pattern, pattern, pattern)
	}
	if filter.CategoryID != "" {
		where = append(where, fmt.Sprintf("category_id = %s", db.placeholder(len(args)+1)))
		args = append(args, filter.CategoryID)
	}
	if filter.Status != "" {
		where = append(where, fmt.Sprintf("status = %s", db.placeholder(len(args)+1)))
		args = append(args, filter.Status)
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM assets WHERE " + whereClause
	if err := db.conn.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, err
	}

	limitArgs := append(args, filter.PerPage, (filter.Page-1)*filter.PerPage)
	query := fmt.Sprintf(
		"SELECT %s FROM assets WHERE %s ORDER BY created_at DESC LIMIT %s OFFSET %s",
		assetColumns, whereClause, db.placeholder(len(args)+1), db.placeholder(len(args)+2),
	)

	rows, err := db.conn.Query(query, limitArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assets := []*models.Asset{}
	for rows.Next() {
		asset, err := db.scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &models.AssetPage{
		Assets:  assets,
		Total:   total,
		Page:    filter.Page,
		PerPage: filter.PerPage,
	}, nil
}

// UpdateAsset persists the mutable fields of an owned asset.
func (db *DB) UpdateAsset(asset *models.Asset) error {
	asset.UpdatedAt = time.Now().UTC()

	sets := []string{}
	fields := []string{
		"category_id", "name", "description", "serial_number", "purchase_date",
		"purchase_price", "currency", "condition", "status", "listed_price",
		"listed_at", "updated_at",
	}
	for i, f := range fields {
		sets = append(sets, fmt.Sprintf("%s = %s", f, db.placeholder(i+1)))
	}

	query := fmt.Sprintf(
		"UPDATE assets SET %s WHERE id = %s AND user_id = %s AND deleted_at IS NULL",
		strings.Join(sets, ", "), db.placeholder(len(fields)+1), db.placeholder(len(fields)+2),
	)

	_, err := db.conn.Exec(query,
		asset.CategoryID, asset.Name, asset.Description, asset.SerialNumber,
		asset.PurchaseDate, asset.PurchasePrice, asset.Currency, asset.Condition,
		asset.Status, asset.ListedPrice, asset.ListedAt, asset.UpdatedAt,
		asset.ID, asset.UserID,
	)
	return err
}

// SoftDeleteAsset marks an asset deleted.
func (db *DB) SoftDeleteAsset(userID, id string) error {
	query := fmt.Sprintf(
		"UPDATE assets SET deleted_at = %s WHERE id = %s AND user_id = %s AND deleted_at IS NULL",
		db.placeholder(1), db.placeholder(2), db.placeholder(3),
	)
	_, err := db.conn.Exec(query, time.Now().UTC(), id, userID)
	return err
}

// AddAssetPhoto records an uploaded photo for an asset.
func (db *DB) AddAssetPhoto(photo *models.AssetPhoto) error {
	photo.ID = GenerateID()
	photo.CreatedAt = time.Now().UTC()

	var query string
	if db.dialect == "postgres" {
		query = `INSERT INTO asset_photos (id, asset_id, key, content_type, size, created_at) VALUES ($1, $2, $3, $4, $5, $6)`
	} else {
		query = `INSERT INTO asset_photos (id, asset_id, key, content_type, size, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	}
	_, err := db.conn.Exec(query,
		photo.ID, photo.AssetID, photo.Key, photo.ContentType, photo.Size, photo.CreatedAt,
	)
	return err
}

// ListAssetPhotos returns the photos recorded for an asset.
func (db *DB) ListAssetPhotos(assetID string) ([]*models.AssetPhoto, error) {
	var query string
	if db.dialect == "postgres" {
		query = `SELECT id, asset_id, key, content_type, size, created_at FROM asset_photos WHERE asset_id = $1 ORDER BY created_at`
	} else {
		query = `SELECT id, asset_id, key, content_type, size, created_at FROM asset_photos WHERE asset_id = ? ORDER BY created_at`
	}

	rows, err := db.conn.Query(query, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []*models.AssetPhoto
	for rows.Next() {
		photo := &models.AssetPhoto{}
		err := rows.Scan(&photo.ID, &photo.AssetID, &photo.Key, &photo.ContentType, &photo.Size, &photo.CreatedAt)
		if err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}
	return photos, rows.Err()
}
