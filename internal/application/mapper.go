package application

import (
	"github.com/clivewatts/stock-tracker/internal/domain"

	goshopify "github.com/bold-commerce/go-shopify/v4"
)

const (
	// DefaultVendor is stamped on every product pushed to Shopify.
	DefaultVendor = "Stock Tracker"

	// defaultRemoteTypeName is used outbound when a product has no local type.
	defaultRemoteTypeName = "Default"

	// defaultImportTypeName is used inbound when a remote product carries no
	// type name.
	defaultImportTypeName = "General"
)

// mapProductToRemote builds the Shopify representation of a local product: a
// single-variant product carrying the price, SKU code and stock count.
func mapProductToRemote(product *domain.Product, typeName string, skuCode string) *goshopify.Product {
	if typeName == "" {
		typeName = defaultRemoteTypeName
	}

	price := product.Price
	variant := goshopify.Variant{
		Price:               &price,
		Sku:                 skuCode,
		Barcode:             product.Barcode,
		InventoryQuantity:   product.Stock,
		InventoryManagement: "shopify",
	}

	remote := &goshopify.Product{
		Title:       product.Name,
		BodyHTML:    product.Description,
		Vendor:      DefaultVendor,
		ProductType: typeName,
		Variants:    []goshopify.Variant{variant},
	}
	if product.ImageURL != "" {
		remote.Images = []goshopify.Image{{Src: product.ImageURL}}
	}
	return remote
}

// firstVariant returns the remote product's first variant, or nil.
func firstVariant(product *goshopify.Product) *goshopify.Variant {
	if product == nil || len(product.Variants) == 0 {
		return nil
	}
	return &product.Variants[0]
}

// remoteImageURL returns the remote product's primary image source, if any.
func remoteImageURL(product *goshopify.Product) string {
	if product.Image.Src != "" {
		return product.Image.Src
	}
	if len(product.Images) > 0 {
		return product.Images[0].Src
	}
	return ""
}
