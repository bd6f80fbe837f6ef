package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/clivewatts/stock-tracker/internal/domain"
	"github.com/clivewatts/stock-tracker/internal/ports"

	"github.com/rs/zerolog"
)

// inventoryPayload is the subset of inventory_levels/update this system reads.
type inventoryPayload struct {
	InventoryItemID uint64 `json:"inventory_item_id"`
	Available       int    `json:"available"`
}

// InventoryWebhookHandler applies inbound stock changes from Shopify to the
// local catalog via the persisted inventory item mapping.
type InventoryWebhookHandler struct {
	products ports.ProductRepository
	logger   zerolog.Logger
}

// NewInventoryWebhookHandler creates the handler for inventory topics.
func NewInventoryWebhookHandler(products ports.ProductRepository, logger zerolog.Logger) *InventoryWebhookHandler {
	return &InventoryWebhookHandler{products: products, logger: logger}
}

// CanHandle claims the inventory level topic.
func (h *InventoryWebhookHandler) CanHandle(topic string) bool {
	return topic == domain.TopicInventoryLevel
}

// Handle updates the local stock count of the product backed by the payload's
// inventory item. Unknown items are acknowledged and ignored.
func (h *InventoryWebhookHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	var payload inventoryPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("failed to decode inventory payload: %w", err)
	}
	if payload.InventoryItemID == 0 {
		return fmt.Errorf("inventory payload has no inventory_item_id")
	}

	product, err := h.products.GetByInventoryItemID(ctx, payload.InventoryItemID)
	if err != nil {
		return fmt.Errorf("failed to look up product by inventory item: %w", err)
	}
	if product == nil {
		h.logger.Debug().Uint64("inventoryItemId", payload.InventoryItemID).Msg("Inventory webhook for unknown item, ignoring")
		return nil
	}

	stock := payload.Available
	if err := h.products.Update(ctx, product.ID, &domain.ProductUpdate{Stock: &stock}); err != nil {
		return fmt.Errorf("failed to apply inventory update: %w", err)
	}

	h.logger.Info().
		Str("productId", product.ID).
		Int("stock", stock).
		Msg("Applied inventory level from Shopify")
	return nil
}
