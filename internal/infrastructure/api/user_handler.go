package api

import (
	"encoding/json"
	"net/http"

	"github.com/clivewatts/stock-tracker/internal/domain"
	"github.com/clivewatts/stock-tracker/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// UserHandler serves staff account management. All endpoints are admin-only.
type UserHandler struct {
	users  ports.UserRepository
	logger zerolog.Logger
}

// NewUserHandler creates the user endpoints.
func NewUserHandler(users ports.UserRepository, logger zerolog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// List returns all staff accounts.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list users")
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Create registers a staff account and issues its API token. The token is
// only ever returned in this response.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Name  string `json:"name"`
		Role  string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}
	if req.Role != domain.RoleAdmin {
		req.Role = domain.RoleUser
	}

	user := &domain.User{
		Email: req.Email,
		Name:  req.Name,
		Role:  req.Role,
		Token: uuid.NewString(),
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		if isDuplicate(err) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		h.logger.Error().Err(err).Msg("Failed to create user")
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"user":  user,
		"token": user.Token,
	})
}

// Update changes a staff account's name or role.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to get user")
		writeError(w, http.StatusInternalServerError, "failed to get user")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	var req struct {
		Name *string `json:"name"`
		Role *string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		if *req.Role != domain.RoleAdmin && *req.Role != domain.RoleUser {
			writeError(w, http.StatusBadRequest, "invalid role")
			return
		}
		user.Role = *req.Role
	}

	if err := h.users.Update(r.Context(), user); err != nil {
		h.logger.Error().Err(err).Msg("Failed to update user")
		writeError(w, http.StatusInternalServerError, "failed to update user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Delete removes a staff account.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.logger.Error().Err(err).Msg("Failed to delete user")
		writeError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
