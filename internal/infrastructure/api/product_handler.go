package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/clivewatts/stock-tracker/internal/application"
	"github.com/clivewatts/stock-tracker/internal/domain"
	"github.com/clivewatts/stock-tracker/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ProductHandler serves the product CRUD endpoints. Mutations go through the
// catalog service so Shopify sync is triggered as a side effect.
type ProductHandler struct {
	products ports.ProductRepository
	catalog  *application.CatalogService
	logger   zerolog.Logger
}

// NewProductHandler creates the product endpoints.
func NewProductHandler(products ports.ProductRepository, catalog *application.CatalogService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{products: products, catalog: catalog, logger: logger}
}

type productRequest struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Barcode       string          `json:"barcode"`
	Price         decimal.Decimal `json:"price"`
	Stock         int             `json:"stock"`
	ImageURL      string          `json:"image_url"`
	ProductTypeID string          `json:"product_type_id"`
	SKUID         string          `json:"sku_id"`
}

// List returns all products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list products")
		writeError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// Get returns one product by id.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to get product")
		writeError(w, http.StatusInternalServerError, "failed to get product")
		return
	}
	if product == nil {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Create stores a new product.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Barcode == "" {
		writeError(w, http.StatusBadRequest, "name and barcode are required")
		return
	}

	product := &domain.Product{
		Name:          req.Name,
		Description:   req.Description,
		Barcode:       req.Barcode,
		Price:         req.Price,
		Stock:         req.Stock,
		ImageURL:      req.ImageURL,
		ProductTypeID: req.ProductTypeID,
		SKUID:         req.SKUID,
	}
	if err := h.catalog.CreateProduct(r.Context(), product); err != nil {
		if isDuplicate(err) {
			writeError(w, http.StatusConflict, "barcode already in use")
			return
		}
		h.logger.Error().Err(err).Msg("Failed to create product")
		writeError(w, http.StatusInternalServerError, "failed to create product")
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// Update applies a partial product update.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name          *string          `json:"name"`
		Description   *string          `json:"description"`
		Barcode       *string          `json:"barcode"`
		Price         *decimal.Decimal `json:"price"`
		Stock         *int             `json:"stock"`
		ImageURL      *string          `json:"image_url"`
		ProductTypeID *string          `json:"product_type_id"`
		SKUID         *string          `json:"sku_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	update := &domain.ProductUpdate{
		Name:          req.Name,
		Description:   req.Description,
		Barcode:       req.Barcode,
		Price:         req.Price,
		Stock:         req.Stock,
		ImageURL:      req.ImageURL,
		ProductTypeID: req.ProductTypeID,
		SKUID:         req.SKUID,
	}
	if err := h.catalog.UpdateProduct(r.Context(), chi.URLParam(r, "id"), update); err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		if isDuplicate(err) {
			writeError(w, http.StatusConflict, "barcode already in use")
			return
		}
		h.logger.Error().Err(err).Msg("Failed to update product")
		writeError(w, http.StatusInternalServerError, "failed to update product")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// Delete removes a product locally and remotely.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error().Err(err).Msg("Failed to delete product")
		writeError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func isNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "not found")
}

func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key")
}
