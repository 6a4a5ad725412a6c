package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/OliveCh12/assetsync-backend/internal/auth"
	"github.com/OliveCh12/assetsync-backend/internal/models"
	"github.com/go-chi/chi/v5"
)

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateCategoryHandler creates a category for the authenticated user.
func (api *Api) CreateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, kindValidation, "invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, kindValidation, "name is required")
		return
	}

	category := &models.Category{
		UserID:      identity.UserID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := api.db.CreateCategory(category); err != nil {
		respondAuthError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, category)
}

// ListCategoriesHandler returns the user's active categories.
func (api *Api) ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	categories, err := api.db.ListCategories(identity.UserID)
	if err != nil {
		respondAuthError(w, err)
		return
	}
	if categories == nil {
		categories = []*models.Category{}
	}

	respondJSON(w, http.StatusOK, categories)
}

// GetCategoryHandler returns one owned category.
func (api *Api) GetCategoryHandler(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	categoryID := chi.URLParam(r, "categoryID")

	category, err := api.db.GetCategory(identity.UserID, categoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, kindNotFound, "category not found")
			return
		}
		respondAuthError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, category)
}

// UpdateCategoryHandler updates name and description.
func (api *Api) UpdateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	categoryID := chi.URLParam(r, "categoryID")

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, kindValidation, "invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, kindValidation, "name is required")
		return
	}

	if _, err := api.db.GetCategory(identity.UserID, categoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, kindNotFound, "category not found")
			return
		}
		respondAuthError(w, err)
		return
	}

	if err := api.db.UpdateCategory(identity.UserID, categoryID, req.Name, req.Description); err != nil {
		respondAuthError(w, err)
		return
	}

	category, err := api.db.GetCategory(identity.UserID, categoryID)
	if err != nil {
		respondAuthError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, category)
}

// DeleteCategoryHandler soft-deletes an owned category.
func (api *Api) DeleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	categoryID := chi.URLParam(r, "categoryID")

	if _, err := api.db.GetCategory(identity.UserID, categoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, kindNotFound, "category not found")
			return
		}
		respondAuthError(w, err)
		return
	}

	if err := api.db.SoftDeleteCategory(identity.UserID, categoryID); err != nil {
		respondAuthError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
