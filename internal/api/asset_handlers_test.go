package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createAsset(t *testing.T, api *Api, token string, body map[string]any) map[string]any {
	t.Helper()
	w := doRequest(t, api, http.MethodPost, "/assets", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody(t, w)
}

func TestAssetCRUD(t *testing.T) {
	api := setupTestAPI(t)
	access, _ := registerAlice(t, api)

	asset := createAsset(t, api, access, map[string]any{
		"name":          "MacBook Pro",
		"description":   "14 inch, 2023",
		"serialNumber":  "C02XL0GZJGH5",
		"purchasePrice": 1999.0,
		"currency":      "EUR",
		"condition":     "good",
	})
	id := asset["id"].(string)
	assert.Equal(t, "owned", asset["status"])

	w := doRequest(t, api, http.MethodGet, "/assets/"+id, access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MacBook Pro", decodeBody(t, w)["name"])

	w = doRequest(t, api, http.MethodPut, "/assets/"+id, access, map[string]any{
		"name":        "MacBook Pro 14",
		"status":      "listed",
		"listedPrice": 1500.0,
	})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeBody(t, w)
	assert.Equal(t, "MacBook Pro 14", updated["name"])
	assert.Equal(t, "listed", updated["status"])
	assert.Equal(t, 1500.0, updated["listed_price"])

	w = doRequest(t, api, http.MethodDelete, "/assets/"+id, access, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, api, http.MethodGet, "/assets/"+id, access, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssetValidation(t *testing.T) {
	api := setupTestAPI(t)
	access, _ := registerAlice(t, api)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"description": "nameless"}},
		{"bad status", map[string]any{"name": "Bike", "status": "borrowed"}},
		{"unknown category", map[string]any{"name": "Bike", "categoryId": "no-such-category"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, api, http.MethodPost, "/assets", access, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "validation_failed", decodeBody(t, w)["error"])
		})
	}
}

func TestAssetWithCategory(t *testing.T) {
	api := setupTestAPI(t)
	access, _ := registerAlice(t, api)

	categoryID := createCategory(t, api, access, "Computers")
	asset := createAsset(t, api, access, map[string]any{
		"name":       "ThinkPad X1",
		"categoryId": categoryID,
	})
	assert.Equal(t, categoryID, asset["category_id"])
}

func TestSearchAssets(t *testing.T) {
	api := setupTestAPI(t)
	access, _ := registerAlice(t, api)

	categoryID := createCategory(t, api, access, "Computers")
	createAsset(t, api, access, map[string]any{"name": "MacBook Pro", "categoryId": categoryID})
	createAsset(t, api, access, map[string]any{"name": "MacBook Air", "categoryId": categoryID})
	createAsset(t, api, access, map[string]any{"name": "Camera", "status": "listed"})

	w := doRequest(t, api, http.MethodGet, "/assets?q=macbook", access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, 2.0, body["total"])
	assert.Len(t, body["assets"], 2)

	w = doRequest(t, api, http.MethodGet, "/assets?category_id="+categoryID, access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2.0, decodeBody(t, w)["total"])

	w = doRequest(t, api, http.MethodGet, "/assets?status=listed", access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, decodeBody(t, w)["total"])

	w = doRequest(t, api, http.MethodGet, "/assets?status=borrowed", access, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchAssetsPagination(t *testing.T) {
	api := setupTestAPI(t)
	access, _ := registerAlice(t, api)

	for i := 0; i < 5; i++ {
		createAsset(t, api, access, map[string]any{"name": fmt.Sprintf("Watch %d", i)})
	}

	w := doRequest(t, api, http.MethodGet, "/assets?page=2&per_page=2", access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, 5.0, body["total"])
	assert.Equal(t, 2.0, body["page"])
	assert.Equal(t, 2.0, body["per_page"])
	assert.Len(t, body["assets"], 2)
}

func TestAssetIsolationBetweenUsers(t *testing.T) {
	api := setupTestAPI(t)
	aliceToken, _ := registerAlice(t, api)

	w := doRequest(t, api, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "bob@example.com", "password": "Sup3r$ecret!",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	bobToken := decodeBody(t, w)["tokens"].(map[string]any)["access_token"].(string)

	asset := createAsset(t, api, aliceToken, map[string]any{"name": "Bike"})
	id := asset["id"].(string)

	w = doRequest(t, api, http.MethodGet, "/assets/"+id, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, api, http.MethodGet, "/assets", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0.0, decodeBody(t, w)["total"])
}

func TestValuationNotImplemented(t *testing.T) {
	api := setupTestAPI(t)
	access, _ := registerAlice(t, api)

	asset := createAsset(t, api, access, map[string]any{"name": "Camera"})
	id := asset["id"].(string)

	w := doRequest(t, api, http.MethodGet, "/assets/"+id+"/valuation", access, nil)
	assert.Equal(t, http.StatusNotImplemented, w.Code)
	assert.Equal(t, "not_implemented", decodeBody(t, w)["error"])

	// Unknown asset stays a 404, not a 501.
	w = doRequest(t, api, http.MethodGet, "/assets/no-such-id/valuation", access, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPhotoUploadWithoutStorage(t *testing.T) {
	api := setupTestAPI(t)
	access, _ := registerAlice(t, api)

	asset := createAsset(t, api, access, map[string]any{"name": "Watch"})
	id := asset["id"].(string)

	// Storage is not configured in tests.
	w := doRequest(t, api, http.MethodPost, "/assets/"+id+"/photos", access, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	// Listing still works, it just has no URLs to sign.
	w = doRequest(t, api, http.MethodGet, "/assets/"+id+"/photos", access, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
