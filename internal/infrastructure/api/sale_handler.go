package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clivewatts/stock-tracker/internal/application"
	"github.com/clivewatts/stock-tracker/internal/domain"
	"github.com/clivewatts/stock-tracker/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// SaleHandler serves the point-of-sale endpoints.
type SaleHandler struct {
	sales   ports.SaleRepository
	catalog *application.CatalogService
	logger  zerolog.Logger
}

// NewSaleHandler creates the sale endpoints.
func NewSaleHandler(sales ports.SaleRepository, catalog *application.CatalogService, logger zerolog.Logger) *SaleHandler {
	return &SaleHandler{sales: sales, catalog: catalog, logger: logger}
}

// List returns recorded sales, optionally filtered by product.
func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		sales []*domain.Sale
		err   error
	)
	if productID := r.URL.Query().Get("product_id"); productID != "" {
		sales, err = h.sales.ListByProduct(r.Context(), productID)
	} else {
		sales, err = h.sales.List(r.Context())
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list sales")
		writeError(w, http.StatusInternalServerError, "failed to list sales")
		return
	}
	writeJSON(w, http.StatusOK, sales)
}

// Create records a sale and decrements stock.
func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "product_id is required")
		return
	}

	soldBy := ""
	if user := domain.UserFromContext(r.Context()); user != nil {
		soldBy = user.ID
	}

	sale, err := h.catalog.RecordSale(r.Context(), req.ProductID, req.Quantity, soldBy)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrInsufficientStock):
			writeError(w, http.StatusConflict, err.Error())
		case isNotFound(err):
			writeError(w, http.StatusNotFound, "product not found")
		case req.Quantity <= 0:
			writeError(w, http.StatusBadRequest, "quantity must be positive")
		default:
			h.logger.Error().Err(err).Msg("Failed to record sale")
			writeError(w, http.StatusInternalServerError, "failed to record sale")
		}
		return
	}
	writeJSON(w, http.StatusCreated, sale)
}

// ListByProduct returns sales for one product.
func (h *SaleHandler) ListByProduct(w http.ResponseWriter, r *http.Request) {
	sales, err := h.sales.ListByProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list product sales")
		writeError(w, http.StatusInternalServerError, "failed to list sales")
		return
	}
	writeJSON(w, http.StatusOK, sales)
}
