package models

import "time"

// Asset statuses.
const (
	AssetStatusOwned  = "owned"
	AssetStatusListed = "listed"
	AssetStatusSold   = "sold"
)

// Asset is an owned item tracked by a user. The three value projection
// columns are populated by an external valuation service; this backend only
// stores them.
type Asset struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	CategoryID    *string    `json:"category_id,omitempty"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	SerialNumber  string     `json:"serial_number,omitempty"`
	PurchaseDate  *time.Time `json:"purchase_date,omitempty"`
	PurchasePrice *float64   `json:"purchase_price,omitempty"`
	Currency      string     `json:"currency,omitempty"`
	Condition     string     `json:"condition,omitempty"`
	Status        string     `json:"status"`
	ListedPrice   *float64   `json:"listed_price,omitempty"`
	ListedAt      *time.Time `json:"listed_at,omitempty"`

	ValuePessimistic *float64 `json:"value_pessimistic,omitempty"`
	ValueRealistic   *float64 `json:"value_realistic,omitempty"`
	ValueOptimistic  *float64 `json:"value_optimistic,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

// ValidAssetStatus reports whether status is one of the supported values.
func ValidAssetStatus(status string) bool {
	switch status {
	case AssetStatusOwned, AssetStatusListed, AssetStatusSold:
		return true
	}
	return false
}

// AssetPhoto is an uploaded photo attached to an asset. Key is the object
// storage key; URL is filled with a presigned link when listed.
type AssetPhoto struct {
	ID          string    `json:"id"`
	AssetID     string    `json:"asset_id"`
	Key         string    `json:"-"`
	URL         string    `json:"url,omitempty"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// AssetFilter describes the parameterized search over a user's assets.
type AssetFilter struct {
	Query      string
	CategoryID string
	Status     string
	Page       int
	PerPage    int
}

// AssetPage is one page of search results with the total match count.
type AssetPage struct {
	Assets  []*Asset `json:"assets"`
	Total   int      `json:"total"`
	Page    int      `json:"page"`
	PerPage int      `json:"per_page"`
}
