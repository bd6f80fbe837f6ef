package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/clivewatts/stock-tracker/internal/domain"
	"github.com/clivewatts/stock-tracker/internal/ports"

	"github.com/rs/zerolog"
)

// productPayload is the subset of the products/update and products/delete
// payloads this system reads.
type productPayload struct {
	ID       uint64 `json:"id"`
	Title    string `json:"title"`
	BodyHTML string `json:"body_html"`
}

// ProductWebhookHandler applies inbound product changes from Shopify to the
// local catalog. Only the name and description follow the remote: price,
// stock and barcode stay under local control.
type ProductWebhookHandler struct {
	products ports.ProductRepository
	logger   zerolog.Logger
}

// NewProductWebhookHandler creates the handler for product topics.
func NewProductWebhookHandler(products ports.ProductRepository, logger zerolog.Logger) *ProductWebhookHandler {
	return &ProductWebhookHandler{products: products, logger: logger}
}

// CanHandle claims the product update and delete topics.
func (h *ProductWebhookHandler) CanHandle(topic string) bool {
	return topic == domain.TopicProductUpdate || topic == domain.TopicProductDelete
}

// Handle processes a product webhook. Events for products this system never
// linked are acknowledged and ignored.
func (h *ProductWebhookHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	var payload productPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("failed to decode product payload: %w", err)
	}
	if payload.ID == 0 {
		return fmt.Errorf("product payload has no id")
	}

	remoteID := strconv.FormatUint(payload.ID, 10)
	product, err := h.products.GetByExternalID(ctx, domain.IntegrationShopify, remoteID)
	if err != nil {
		return fmt.Errorf("failed to look up linked product: %w", err)
	}
	if product == nil {
		h.logger.Debug().Str("remoteId", remoteID).Str("topic", event.Topic).Msg("Webhook for unlinked product, ignoring")
		return nil
	}

	switch event.Topic {
	case domain.TopicProductUpdate:
		return h.applyUpdate(ctx, product, &payload)
	case domain.TopicProductDelete:
		return h.unlink(ctx, product)
	}
	return nil
}

func (h *ProductWebhookHandler) applyUpdate(ctx context.Context, product *domain.Product, payload *productPayload) error {
	update := &domain.ProductUpdate{
		Name:        &payload.Title,
		Description: &payload.BodyHTML,
	}
	if err := h.products.Update(ctx, product.ID, update); err != nil {
		return fmt.Errorf("failed to apply product update: %w", err)
	}

	h.logger.Info().Str("productId", product.ID).Msg("Applied product update from Shopify")
	return nil
}

// unlink clears the remote mapping. The local record survives: a remote
// delete never destroys local data.
func (h *ProductWebhookHandler) unlink(ctx context.Context, product *domain.Product) error {
	externalIDs := map[string]string{}
	for system, id := range product.ExternalIDs {
		if system != domain.IntegrationShopify {
			externalIDs[system] = id
		}
	}

	var noItem uint64
	update := &domain.ProductUpdate{
		ExternalIDs:     externalIDs,
		InventoryItemID: &noItem,
	}
	if err := h.products.Update(ctx, product.ID, update); err != nil {
		return fmt.Errorf("failed to unlink product: %w", err)
	}

	h.logger.Info().Str("productId", product.ID).Msg("Unlinked product after remote delete")
	return nil
}
