package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clivewatts/stock-tracker/internal/application"
	"github.com/clivewatts/stock-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// SettingsHandler serves the admin-only Shopify integration endpoints:
// settings read/write, connection test, bulk sync and bulk import.
type SettingsHandler struct {
	settings *application.SettingsService
	sync     *application.SyncService
	logger   zerolog.Logger
}

// NewSettingsHandler creates the integration admin endpoints.
func NewSettingsHandler(settings *application.SettingsService, sync *application.SyncService, logger zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, sync: sync, logger: logger}
}

type settingsRequest struct {
	IsEnabled bool                   `json:"is_enabled"`
	Settings  domain.ShopifySettings `json:"settings"`
}

// Get returns the current integration settings with secrets redacted.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to read settings")
		writeError(w, http.StatusInternalServerError, "failed to read settings")
		return
	}
	if settings == nil {
		writeJSON(w, http.StatusOK, &domain.IntegrationSettings{Type: domain.IntegrationShopify})
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// Put replaces the integration settings.
func (h *SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.settings.Upsert(r.Context(), req.IsEnabled, req.Settings); err != nil {
		h.logger.Error().Err(err).Msg("Failed to save settings")
		writeError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// Test checks the submitted credentials against the live shop without saving
// anything.
func (h *SettingsHandler) Test(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.settings.TestConnection(r.Context(), req.Settings); err != nil {
		if errors.Is(err, application.ErrNotConfigured) {
			writeError(w, http.StatusBadRequest, "shop name and access token are required")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// SyncAll pushes the whole local catalog to Shopify.
func (h *SettingsHandler) SyncAll(w http.ResponseWriter, r *http.Request) {
	report, err := h.sync.SyncAll(r.Context())
	if err != nil {
		if errors.Is(err, application.ErrNotConfigured) {
			writeError(w, http.StatusBadRequest, "shopify integration is not configured")
			return
		}
		h.logger.Error().Err(err).Msg("Bulk sync failed")
		writeError(w, http.StatusInternalServerError, "bulk sync failed")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ImportAll pulls the Shopify catalog into the local store.
func (h *SettingsHandler) ImportAll(w http.ResponseWriter, r *http.Request) {
	report, err := h.sync.ImportAll(r.Context())
	if err != nil {
		if errors.Is(err, application.ErrNotConfigured) {
			writeError(w, http.StatusBadRequest, "shopify integration is not configured")
			return
		}
		h.logger.Error().Err(err).Msg("Bulk import failed")
		writeError(w, http.StatusInternalServerError, "bulk import failed")
		return
	}
	writeJSON(w, http.StatusOK, report)
}
