package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/OliveCh12/assetsync-backend/internal/auth"
	"github.com/OliveCh12/assetsync-backend/internal/models"
	"github.com/go-chi/chi/v5"
)

type assetRequest struct {
	CategoryID    *string    `json:"categoryId"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	SerialNumber  string     `json:"serialNumber"`
	PurchaseDate  *time.Time `json:"purchaseDate"`
	PurchasePrice *float64   `json:"purchasePrice"`
	Currency      string     `json:"currency"`
	Condition     string     `json:"condition"`
	Status        string     `json:"status"`
	ListedPrice   *float64   `json:"listedPrice"`
	ListedAt      *time.Time `json:"listedAt"`
}

func (api *Api) assetFromRequest(userID string, req *assetRequest) *models.Asset {
	return &models.Asset{
		UserID:        userID,
		CategoryID:    req.CategoryID,
		Name:          req.Name,
		Description:   req.Description,
		SerialNumber:  req.SerialNumber,
		PurchaseDate:  req.PurchaseDate,
		PurchasePrice: req.PurchasePrice,
		Currency:      req.Currency,
		Condition:     req.Condition,
		Status:        req.Status,
		ListedPrice:   req.ListedPrice,
		ListedAt:      req.ListedAt,
	}
}

func (api *Api) validateAssetRequest(userID string, req *assetRequest) (string, bool) {
	if req.Name == "" {
		return "name is required", false
	}
	if req.Status != "" && !models.ValidAssetStatus(req.Status) {
		return "status must be owned, listed or sold", false
	}
	if req.CategoryID != nil && *req.CategoryID != "" {
		if _, err := api.db.GetCategory(userID, *req.CategoryID); err != nil {
			return "category not found", false
		}
	}
	return "", true
}

// CreateAssetHandler registers a new asset for the authenticated user.
func (api *Api) CreateAssetHandler(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var req assetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, kindValidation, "invalid request body")
		return
	}
	if msg, ok := api.validateAssetRequest(identity.UserID, &req); !ok {
		respondError(w, http.StatusBadRequest, kindValidation, msg)
		return
	}

	asset := api.assetFromRequest(identity.UserID, &req)
	if err := api.db.CreateAsset(asset); err != nil {
		respondAuthError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, asset)
}

// SearchAssetsHandler runs the parameterized search with pagination.
func (api *Api) SearchAssetsHandler(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))

	filter := models.AssetFilter{
		Query:      q.Get("q"),
		CategoryID: q.Get("category_id"),
		Status:     q.Get("status"),
		Page:       page,
		PerPage:    perPage,
	}
	if filter.Status != "" && !models.ValidAssetStatus(filter.Status) {
		respondError(w, http.StatusBadRequest, kindValidation, "status must be owned, listed or sold")
		return
	}

	result, err := api.db.SearchAssets(identity.UserID, filter)
	if err != nil {
		respondAuthError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetAssetHandler returns one owned asset.
func (api *Api) GetAssetHandler(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	assetID := chi.URLParam(r, "assetID")

	asset, err := api.db.GetAsset(identity.UserID, assetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, kindNotFound, "asset not found")
			return
		}
		respondAuthError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, asset)
}

// UpdateAssetHandler replaces the mutable fields of an owned asset.
func (api *Api) UpdateAssetHandler(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	assetID := chi.URLParam(r, "assetID")

	asset, err := api.db.GetAsset(identity.UserID, assetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, kindNotFound, "asset not found")
			return
		}
		respondAuthError(w, err)
		return
	}

	var req assetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, kindValidation, "invalid request body")
		return
	}
	if msg, ok := api.validateAssetRequest(identity.UserID, &req); !ok {
		respondError(w, http.StatusBadRequest, kindValidation, msg)
		return
	}

	updated := api.assetFromRequest(identity.UserID, &req)
	updated.ID = asset.ID
	if updated.Status == "" {
		updated.Status = asset.Status
	}
	if err := api.db.UpdateAsset(updated); err != nil {
		respondAuthError(w, err)
		return
	}

	asset, err = api.db.GetAsset(identity.UserID, assetID)
	if err != nil {
		respondAuthError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, asset)
}

// DeleteAssetHandler soft-deletes an owned asset.
func (api *Api) DeleteAssetHandler(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	assetID := chi.URLParam(r, "assetID")

	if _, err := api.db.GetAsset(identity.UserID, assetID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, kindNotFound, "asset not found")
			return
		}
		respondAuthError(w, err)
		return
	}

	if err := api.db.SoftDeleteAsset(identity.UserID, assetID); err != nil {
		respondAuthError(w, err)
		return
	}

	// Stored photos are unreachable once the asset is deleted; reclaim the
	// objects best-effort.
	if api.storage != nil {
		if err := api.storage.DeleteAssetPhotos(r.Context(), identity.UserID, assetID); err != nil {
			log.Printf("Failed to delete photos for asset %s: %v", assetID, err)
		}
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ValuationHandler is a stub. The multi-scenario valuation engine is an
// external collaborator; only its data shape exists in the schema.
func (api *Api) ValuationHandler(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	assetID := chi.URLParam(r, "assetID")

	if _, err := api.db.GetAsset(identity.UserID, assetID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, kindNotFound, "asset not found")
			return
		}
		respondAuthError(w, err)
		return
	}

	respondError(w, http.StatusNotImplemented, kindNotImplemented, "valuation projections are not available yet")
}

const maxPhotoSize = 10 << 20 // 10 MiB

// UploadAssetPhotoHandler stores a photo in object storage and records it.
// Answers 503 when storage is not configured.
func (api *Api) UploadAssetPhotoHandler(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	assetID := chi.URLParam(r, "assetID")

	if api.storage == nil {
		respondError(w, http.StatusServiceUnavailable, kindInternal, "photo storage is not configured")
		return
	}

	if _, err := api.db.GetAsset(identity.UserID, assetID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, kindNotFound, "asset not found")
			return
		}
		respondAuthError(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		respondError(w, http.StatusBadRequest, kindValidation, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		respondError(w, http.StatusBadRequest, kindValidation, "photo file is required")
		return
	}
	defer file.Close()

	result, err := api.storage.UploadAssetPhoto(r.Context(), identity.UserID, assetID, header.Filename, file, header.Header.Get("Content-Type"))
	if err != nil {
		respondAuthError(w, err)
		return
	}

	photo := &models.AssetPhoto{
		AssetID:     assetID,
		Key:         result.Key,
		ContentType: header.Header.Get("Content-Type"),
		Size:        result.Size,
	}
	if err := api.db.AddAssetPhoto(photo); err != nil {
		respondAuthError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, photo)
}

// ListAssetPhotosHandler lists recorded photos with presigned URLs.
func (api *Api) ListAssetPhotosHandler(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	assetID := chi.URLParam(r, "assetID")

	if _, err := api.db.GetAsset(identity.UserID, assetID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, kindNotFound, "asset not found")
			return
		}
		respondAuthError(w, err)
		return
	}

	photos, err := api.db.ListAssetPhotos(assetID)
	if err != nil {
		respondAuthError(w, err)
		return
	}
	if photos == nil {
		photos = []*models.AssetPhoto{}
	}

	if api.storage != nil {
		for _, photo := range photos {
			url, err := api.storage.PresignURL(r.Context(), photo.Key, 15*time.Minute)
			if err == nil {
				photo.URL = url
			}
		}
	}

	respondJSON(w, http.StatusOK, photos)
}
