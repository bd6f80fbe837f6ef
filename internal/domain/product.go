package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// IntegrationShopify is the remote-system name used as the key into a
// product's ExternalIDs map.
const IntegrationShopify = "shopify"

// Product is the local catalog record. ExternalIDs maps a remote-system name
// to the identifier of this product's counterpart on that system; absence of
// an entry means the product is not linked.
type Product struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Barcode       string            `json:"barcode"`
	Price         decimal.Decimal   `json:"price"`
	Stock         int               `json:"stock"`
	ImageURL      string            `json:"image_url,omitempty"`
	ProductTypeID string            `json:"product_type_id"`
	SKUID         string            `json:"sku_id,omitempty"`
	ExternalIDs   map[string]string `json:"external_ids,omitempty"`
	// InventoryItemID is the Shopify inventory item backing this product's
	// variant, recorded at sync/import time so inbound inventory webhooks can
	// be mapped back without a remote lookup.
	InventoryItemID uint64    `json:"inventory_item_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// RemoteID returns the remote identifier for the given system, if linked.
func (p *Product) RemoteID(system string) (string, bool) {
	if p.ExternalIDs == nil {
		return "", false
	}
	id, ok := p.ExternalIDs[system]
	return id, ok && id != ""
}

// ProductUpdate is a partial update; nil fields are left untouched.
// ExternalIDs and InventoryItemID are independently updatable so the sync
// engine can record linkage without disturbing descriptive fields.
type ProductUpdate struct {
	Name            *string
	Description     *string
	Barcode         *string
	Price           *decimal.Decimal
	Stock           *int
	ImageURL        *string
	ProductTypeID   *string
	SKUID           *string
	ExternalIDs     map[string]string
	InventoryItemID *uint64
}

// ProductType categorizes products. Names are unique.
type ProductType struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SKU is a stock-keeping-unit code that products may reference.
type SKU struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
