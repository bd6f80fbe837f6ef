package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clivewatts/stock-tracker/internal/domain"
	"github.com/clivewatts/stock-tracker/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ErrInsufficientStock is returned when a sale would drive stock negative.
var ErrInsufficientStock = errors.New("insufficient stock")

// CatalogService owns local catalog mutations and triggers the corresponding
// sync operations. Sync failures never fail the local mutation: the local
// store is the source of truth and Shopify follows eventually.
type CatalogService struct {
	products ports.ProductRepository
	sales    ports.SaleRepository
	sync     *SyncService
	logger   zerolog.Logger
}

// NewCatalogService creates a catalog service wired to the sync engine.
func NewCatalogService(products ports.ProductRepository, sales ports.SaleRepository, sync *SyncService, logger zerolog.Logger) *CatalogService {
	return &CatalogService{products: products, sales: sales, sync: sync, logger: logger}
}

// CreateProduct stores a new product and pushes it to Shopify.
func (s *CatalogService) CreateProduct(ctx context.Context, product *domain.Product) error {
	if err := s.products.Create(ctx, product); err != nil {
		return err
	}
	s.triggerSync(ctx, product.ID)
	return nil
}

// UpdateProduct applies a partial update and pushes the result to Shopify.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, update *domain.ProductUpdate) error {
	if err := s.products.Update(ctx, id, update); err != nil {
		return err
	}
	s.triggerSync(ctx, id)
	return nil
}

// DeleteProduct removes a product locally and propagates the deletion to
// Shopify. The local delete proceeds regardless of the remote outcome.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("product not found: %s", id)
	}

	if err := s.sync.DeleteRemote(ctx, product); err != nil {
		s.logSyncFailure(err, id, "Remote delete failed, deleting locally anyway")
	}

	return s.products.Delete(ctx, id)
}

// RecordSale records a sale, decrements stock and pushes the new stock count
// to Shopify.
func (s *CatalogService) RecordSale(ctx context.Context, productID string, quantity int, soldBy string) (*domain.Sale, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("sale quantity must be positive, got %d", quantity)
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("product not found: %s", productID)
	}
	if product.Stock < quantity {
		return nil, fmt.Errorf("%w: have %d, want %d", ErrInsufficientStock, product.Stock, quantity)
	}

	sale := &domain.Sale{
		ID:        uuid.NewString(),
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: product.Price,
		Total:     product.Price.Mul(decimal.NewFromInt(int64(quantity))),
		SoldBy:    soldBy,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sales.Create(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to record sale: %w", err)
	}

	newStock := product.Stock - quantity
	if err := s.products.Update(ctx, productID, &domain.ProductUpdate{Stock: &newStock}); err != nil {
		return nil, fmt.Errorf("sale recorded but stock not updated: %w", err)
	}

	s.triggerInventorySync(ctx, productID, newStock)
	return sale, nil
}

// triggerSync pushes a product to Shopify, swallowing failures. An
// unconfigured integration is expected and logged at debug only.
func (s *CatalogService) triggerSync(ctx context.Context, productID string) {
	if err := s.sync.SyncProduct(ctx, productID); err != nil {
		s.logSyncFailure(err, productID, "Product sync failed")
	}
}

func (s *CatalogService) triggerInventorySync(ctx context.Context, productID string, quantity int) {
	if err := s.sync.SyncInventory(ctx, productID, quantity); err != nil {
		s.logSyncFailure(err, productID, "Inventory sync failed")
	}
}

func (s *CatalogService) logSyncFailure(err error, productID string, msg string) {
	if errors.Is(err, ErrNotConfigured) || errors.Is(err, ErrNotLinked) {
		s.logger.Debug().Err(err).Str("productId", productID).Msg(msg)
		return
	}
	s.logger.Warn().Err(err).Str("productId", productID).Msg(msg)
}
