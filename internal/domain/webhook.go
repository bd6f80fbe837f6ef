package domain

// Webhook topics this system reacts to.
const (
	TopicProductUpdate  = "products/update"
	TopicProductDelete  = "products/delete"
	TopicInventoryLevel = "inventory_levels/update"
)

// WebhookEvent is a verified inbound notification from Shopify.
type WebhookEvent struct {
	ID       string `json:"id"`
	Topic    string `json:"topic"`
	Shop     string `json:"shop"`
	Payload  []byte `json:"payload"`
	Verified bool   `json:"verified"`
}
