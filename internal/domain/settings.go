package domain

import "time"

// ShopifySettings holds the connection credentials for the Shopify
// integration. ShopName and AccessToken are required for the client factory
// to produce a usable client.
type ShopifySettings struct {
	ShopName      string `json:"shop_name"`
	APIKey        string `json:"api_key"`
	APISecret     string `json:"api_secret"`
	AccessToken   string `json:"access_token"`
	APIVersion    string `json:"api_version"`
	WebhookSecret string `json:"webhook_secret"`
}

// IntegrationSettings is the single mutable record per integration type.
// When absent or disabled, every automatic sync path is a silent no-op.
type IntegrationSettings struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	IsEnabled bool            `json:"is_enabled"`
	Settings  ShopifySettings `json:"settings"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
