package shopify

import (
	"context"
	"fmt"

	"github.com/clivewatts/stock-tracker/internal/domain"
	"github.com/clivewatts/stock-tracker/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

type client struct {
	sc          *goshopify.Client
	retryConfig RetryConfig
	logger      zerolog.Logger
}

// NewClient creates a Shopify client adapter bound to the shop, access token
// and API version carried in the settings.
func NewClient(settings domain.ShopifySettings, logger zerolog.Logger) (ports.ShopifyClient, error) {
	return NewClientWithOptions(settings, DefaultRetryConfig(), logger)
}

// NewClientWithOptions creates a client with an explicit retry configuration.
func NewClientWithOptions(settings domain.ShopifySettings, retryConfig RetryConfig, logger zerolog.Logger) (ports.ShopifyClient, error) {
	app := goshopify.App{
		ApiKey:    settings.APIKey,
		ApiSecret: settings.APISecret,
	}

	var opts []goshopify.Option
	if settings.APIVersion != "" {
		opts = append(opts, goshopify.WithVersion(settings.APIVersion))
	}

	sc, err := goshopify.NewClient(app, settings.ShopName, settings.AccessToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &client{
		sc:          sc,
		retryConfig: retryConfig,
		logger:      logger,
	}, nil
}

// Shop API

func (c *client) GetShop(ctx context.Context) (*goshopify.Shop, error) {
	var shop *goshopify.Shop
	err := c.do(ctx, "get_shop", func() error {
		var err error
		shop, err = c.sc.Shop.Get(ctx, nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}
	return shop, nil
}

// Product API

// ListProducts walks every page of the remote catalog. A transient failure on
// any page retries the whole walk so the result is never a partial catalog.
func (c *client) ListProducts(ctx context.Context, options interface{}) ([]goshopify.Product, error) {
	var products []goshopify.Product
	err := c.do(ctx, "list_products", func() error {
		var err error
		products, err = c.sc.Product.ListAll(ctx, options)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (c *client) GetProduct(ctx context.Context, productID uint64) (*goshopify.Product, error) {
	var product *goshopify.Product
	err := c.do(ctx, "get_product", func() error {
		var err error
		product, err = c.sc.Product.Get(ctx, productID, nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

func (c *client) CreateProduct(ctx context.Context, product *goshopify.Product) (*goshopify.Product, error) {
	var created *goshopify.Product
	err := c.do(ctx, "create_product", func() error {
		var err error
		created, err = c.sc.Product.Create(ctx, *product)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return created, nil
}

func (c *client) UpdateProduct(ctx context.Context, product *goshopify.Product) (*goshopify.Product, error) {
	var updated *goshopify.Product
	err := c.do(ctx, "update_product", func() error {
		var err error
		updated, err = c.sc.Product.Update(ctx, *product)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return updated, nil
}

func (c *client) DeleteProduct(ctx context.Context, productID uint64) error {
	err := c.do(ctx, "delete_product", func() error {
		return c.sc.Product.Delete(ctx, productID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// Inventory API

func (c *client) ListInventoryLevels(ctx context.Context, options interface{}) ([]goshopify.InventoryLevel, error) {
	var levels []goshopify.InventoryLevel
	err := c.do(ctx, "list_inventory_levels", func() error {
		var err error
		levels, err = c.sc.InventoryLevel.List(ctx, options)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory levels: %w", err)
	}
	return levels, nil
}

func (c *client) SetInventoryLevel(ctx context.Context, level goshopify.InventoryLevel) (*goshopify.InventoryLevel, error) {
	var updated *goshopify.InventoryLevel
	err := c.do(ctx, "set_inventory_level", func() error {
		var err error
		updated, err = c.sc.InventoryLevel.Set(ctx, level)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set inventory level: %w", err)
	}
	return updated, nil
}
