package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/OliveCh12/assetsync-backend/internal/auth"
	"github.com/OliveCh12/assetsync-backend/internal/models"
)

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Kind      string `json:"kind"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type resetRequestRequest struct {
	Email string `json:"email"`
}

type resetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type accountResponse struct {
	Success bool              `json:"success"`
	Account *models.User      `json:"account"`
	Tokens  *models.TokenPair `json:"tokens,omitempty"`
}

// RegisterHandler creates an account and returns it with a token pair.
func (api *Api) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, kindValidation, "invalid request body")
		return
	}

	user, pair, err := api.auth.Register(req.Email, req.Password, req.FirstName, req.LastName, req.Kind, r.UserAgent())
	if err != nil {
		respondAuthError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, accountResponse{Success: true, Account: user, Tokens: pair})
}

// LoginHandler validates credentials and returns a fresh token pair.
func (api *Api) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, kindValidation, "invalid request body")
		return
	}

	user, pair, err := api.auth.Login(req.Email, req.Password, r.UserAgent())
	if err != nil {
		respondAuthError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, accountResponse{Success: true, Account: user, Tokens: pair})
}

// LogoutHandler revokes the session for the presented token. It always
// answers 200, whether or not a matching session existed.
func (api *Api) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	api.auth.Logout(auth.BearerToken(r))
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// RefreshHandler exchanges a refresh token for a new pair.
func (api *Api) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, kindValidation, "invalid request body")
		return
	}

	pair, err := api.auth.Refresh(req.RefreshToken, r.UserAgent())
	if err != nil {
		respondAuthError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true, "tokens": pair})
}

// PasswordResetRequestHandler creates a reset ticket. The response never
// reveals whether the email is registered.
func (api *Api) PasswordResetRequestHandler(w http.ResponseWriter, r *http.Request) {
	var req resetRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, kindValidation, "invalid request body")
		return
	}

	if err := api.auth.RequestPasswordReset(req.Email); err != nil {
		respondAuthError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "if the email is registered, a reset link has been sent",
	})
}

// PasswordResetHandler consumes a reset ticket and replaces the password.
func (api *Api) PasswordResetHandler(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, kindValidation, "invalid request body")
		return
	}

	if err := api.auth.ResetPassword(req.Token, req.NewPassword); err != nil {
		if errors.Is(err, auth.ErrInvalidOrExpiredToken) {
			respondError(w, http.StatusBadRequest, kindInvalidToken, "invalid or expired token")
			return
		}
		respondAuthError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// MeHandler returns the authenticated account.
func (api *Api) MeHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, kindAuthRequired, "authentication required")
		return
	}

	user, err := api.db.GetUserByID(identity.UserID)
	if err != nil {
		respondError(w, http.StatusForbidden, kindAccountInactive, "account is inactive")
		return
	}

	respondJSON(w, http.StatusOK, accountResponse{Success: true, Account: user})
}

type updateProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Kind      string `json:"kind"`
}

// UpdateMeHandler mutates the profile fields of the authenticated account.
func (api *Api) UpdateMeHandler(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, kindValidation, "invalid request body")
		return
	}
	if req.Kind == "" {
		req.Kind = identity.Kind
	}

	user, err := api.auth.UpdateProfile(identity.UserID, req.FirstName, req.LastName, req.Kind)
	if err != nil {
		respondAuthError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, accountResponse{Success: true, Account: user})
}

// DeactivateMeHandler soft-deletes the authenticated account and revokes
// all of its sessions.
func (api *Api) DeactivateMeHandler(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	if err := api.auth.DeactivateAccount(identity.UserID); err != nil {
		respondAuthError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
