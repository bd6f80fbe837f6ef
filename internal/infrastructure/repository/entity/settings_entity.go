package entity

import (
	"time"

	"github.com/clivewatts/stock-tracker/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoShopifySettingsDoc is the opaque connection blob stored inside an
// integration settings record.
type MongoShopifySettingsDoc struct {
	ShopName      string `bson:"shop_name,omitempty"`
	APIKey        string `bson:"api_key,omitempty"`
	APISecret     string `bson:"api_secret,omitempty"`
	AccessToken   string `bson:"access_token,omitempty"`
	APIVersion    string `bson:"api_version,omitempty"`
	WebhookSecret string `bson:"webhook_secret,omitempty"`
}

// MongoIntegrationSettingsDoc represents integration settings in MongoDB.
// The type field is unique: at most one record per integration.
type MongoIntegrationSettingsDoc struct {
	ID        primitive.ObjectID      `bson:"_id,omitempty"`
	Type      string                  `bson:"type"`
	IsEnabled bool                    `bson:"is_enabled"`
	Settings  MongoShopifySettingsDoc `bson:"settings"`
	CreatedAt time.Time               `bson:"created_at"`
	UpdatedAt time.Time               `bson:"updated_at"`
}

func (d *MongoIntegrationSettingsDoc) ToDomain() *domain.IntegrationSettings {
	return &domain.IntegrationSettings{
		ID:        d.ID.Hex(),
		Type:      d.Type,
		IsEnabled: d.IsEnabled,
		Settings: domain.ShopifySettings{
			ShopName:      d.Settings.ShopName,
			APIKey:        d.Settings.APIKey,
			APISecret:     d.Settings.APISecret,
			AccessToken:   d.Settings.AccessToken,
			APIVersion:    d.Settings.APIVersion,
			WebhookSecret: d.Settings.WebhookSecret,
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func MongoIntegrationSettingsDocFromDomain(settings *domain.IntegrationSettings) *MongoIntegrationSettingsDoc {
	doc := &MongoIntegrationSettingsDoc{
		Type:      settings.Type,
		IsEnabled: settings.IsEnabled,
		Settings: MongoShopifySettingsDoc{
			ShopName:      settings.Settings.ShopName,
			APIKey:        settings.Settings.APIKey,
			APISecret:     settings.Settings.APISecret,
			AccessToken:   settings.Settings.AccessToken,
			APIVersion:    settings.Settings.APIVersion,
			WebhookSecret: settings.Settings.WebhookSecret,
		},
		CreatedAt: settings.CreatedAt,
		UpdatedAt: settings.UpdatedAt,
	}
	if settings.ID != "" {
		if objID, err := primitive.ObjectIDFromHex(settings.ID); err == nil {
			doc.ID = objID
		}
	}
	return doc
}
