package ports

import (
	"context"

	shopify "github.com/bold-commerce/go-shopify/v4"
)

// ShopifyClient defines the capability set the sync engine needs from the
// remote platform. Implementations are bound to a shop domain, access token
// and API version at construction time.
type ShopifyClient interface {
	// Shop API (used as a connectivity probe)
	GetShop(ctx context.Context) (*shopify.Shop, error)

	// Product API
	ListProducts(ctx context.Context, options interface{}) ([]shopify.Product, error)
	GetProduct(ctx context.Context, productID uint64) (*shopify.Product, error)
	CreateProduct(ctx context.Context, product *shopify.Product) (*shopify.Product, error)
	UpdateProduct(ctx context.Context, product *shopify.Product) (*shopify.Product, error)
	DeleteProduct(ctx context.Context, productID uint64) error

	// Inventory API
	ListInventoryLevels(ctx context.Context, options interface{}) ([]shopify.InventoryLevel, error)
	SetInventoryLevel(ctx context.Context, level shopify.InventoryLevel) (*shopify.InventoryLevel, error)
}
