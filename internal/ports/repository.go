package ports

import (
	"context"

	"github.com/clivewatts/stock-tracker/internal/domain"
)

// ProductRepository defines the local catalog store contract consumed by the
// sync engine and the catalog handlers. Lookups return (nil, nil) when no
// record matches.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)

	// GetByExternalID finds the product whose ExternalIDs entry for the given
	// remote system matches the remote identifier. This is the import/webhook
	// idempotence mechanism.
	GetByExternalID(ctx context.Context, system string, remoteID string) (*domain.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*domain.Product, error)
	GetByInventoryItemID(ctx context.Context, inventoryItemID uint64) (*domain.Product, error)

	Create(ctx context.Context, product *domain.Product) error

	// Update applies a partial update; unset fields are left untouched.
	Update(ctx context.Context, id string, update *domain.ProductUpdate) error
	Delete(ctx context.Context, id string) error
}

// ProductTypeRepository persists product types. Names are unique.
type ProductTypeRepository interface {
	GetByID(ctx context.Context, id string) (*domain.ProductType, error)
	GetByName(ctx context.Context, name string) (*domain.ProductType, error)
	List(ctx context.Context) ([]*domain.ProductType, error)
	Create(ctx context.Context, productType *domain.ProductType) error
	Update(ctx context.Context, productType *domain.ProductType) error
	Delete(ctx context.Context, id string) error
}

// SKURepository persists SKU codes.
type SKURepository interface {
	GetByID(ctx context.Context, id string) (*domain.SKU, error)
	GetByCode(ctx context.Context, code string) (*domain.SKU, error)
	List(ctx context.Context) ([]*domain.SKU, error)
	Create(ctx context.Context, sku *domain.SKU) error
	Delete(ctx context.Context, id string) error
}

// SaleRepository persists sale records.
type SaleRepository interface {
	Create(ctx context.Context, sale *domain.Sale) error
	List(ctx context.Context) ([]*domain.Sale, error)
	ListByProduct(ctx context.Context, productID string) ([]*domain.Sale, error)
}

// UserRepository persists staff accounts. GetByToken backs the authorization
// predicate middleware.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByToken(ctx context.Context, token string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
}

// SettingsRepository is the settings store: one record per integration type.
// Get returns (nil, nil) when the integration has never been configured.
type SettingsRepository interface {
	Get(ctx context.Context, integrationType string) (*domain.IntegrationSettings, error)
	Upsert(ctx context.Context, settings *domain.IntegrationSettings) error
}
