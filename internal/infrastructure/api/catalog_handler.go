package api

import (
	"encoding/json"
	"net/http"

	"github.com/clivewatts/stock-tracker/internal/domain"
	"github.com/clivewatts/stock-tracker/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ProductTypeHandler serves the product type endpoints.
type ProductTypeHandler struct {
	types  ports.ProductTypeRepository
	logger zerolog.Logger
}

// NewProductTypeHandler creates the product type endpoints.
func NewProductTypeHandler(types ports.ProductTypeRepository, logger zerolog.Logger) *ProductTypeHandler {
	return &ProductTypeHandler{types: types, logger: logger}
}

// List returns all product types.
func (h *ProductTypeHandler) List(w http.ResponseWriter, r *http.Request) {
	types, err := h.types.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list product types")
		writeError(w, http.StatusInternalServerError, "failed to list product types")
		return
	}
	writeJSON(w, http.StatusOK, types)
}

// Create stores a new product type.
func (h *ProductTypeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	productType := &domain.ProductType{Name: req.Name}
	if err := h.types.Create(r.Context(), productType); err != nil {
		if isDuplicate(err) {
			writeError(w, http.StatusConflict, "product type already exists")
			return
		}
		h.logger.Error().Err(err).Msg("Failed to create product type")
		writeError(w, http.StatusInternalServerError, "failed to create product type")
		return
	}
	writeJSON(w, http.StatusCreated, productType)
}

// Update renames a product type.
func (h *ProductTypeHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	productType := &domain.ProductType{ID: chi.URLParam(r, "id"), Name: req.Name}
	if err := h.types.Update(r.Context(), productType); err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "product type not found")
			return
		}
		h.logger.Error().Err(err).Msg("Failed to update product type")
		writeError(w, http.StatusInternalServerError, "failed to update product type")
		return
	}
	writeJSON(w, http.StatusOK, productType)
}

// Delete removes a product type.
func (h *ProductTypeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.types.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.logger.Error().Err(err).Msg("Failed to delete product type")
		writeError(w, http.StatusInternalServerError, "failed to delete product type")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// SKUHandler serves the SKU endpoints.
type SKUHandler struct {
	skus   ports.SKURepository
	logger zerolog.Logger
}

// NewSKUHandler creates the SKU endpoints.
func NewSKUHandler(skus ports.SKURepository, logger zerolog.Logger) *SKUHandler {
	return &SKUHandler{skus: skus, logger: logger}
}

// List returns all SKUs.
func (h *SKUHandler) List(w http.ResponseWriter, r *http.Request) {
	skus, err := h.skus.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list SKUs")
		writeError(w, http.StatusInternalServerError, "failed to list skus")
		return
	}
	writeJSON(w, http.StatusOK, skus)
}

// Create stores a new SKU.
func (h *SKUHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}

	sku := &domain.SKU{Code: req.Code}
	if err := h.skus.Create(r.Context(), sku); err != nil {
		if isDuplicate(err) {
			writeError(w, http.StatusConflict, "sku code already exists")
			return
		}
		h.logger.Error().Err(err).Msg("Failed to create SKU")
		writeError(w, http.StatusInternalServerError, "failed to create sku")
		return
	}
	writeJSON(w, http.StatusCreated, sku)
}

// Delete removes a SKU.
func (h *SKUHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.skus.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.logger.Error().Err(err).Msg("Failed to delete SKU")
		writeError(w, http.StatusInternalServerError, "failed to delete sku")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
