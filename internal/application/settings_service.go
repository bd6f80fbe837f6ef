package application

import (
	"context"
	"time"

	"github.com/clivewatts/stock-tracker/internal/domain"
	"github.com/clivewatts/stock-tracker/internal/ports"

	"github.com/rs/zerolog"
)

// SettingsService manages integration settings. Reads redact credential
// material so secrets never travel back out over the API.
type SettingsService struct {
	settings ports.SettingsRepository
	sync     *SyncService
	logger   zerolog.Logger
}

// NewSettingsService creates a settings service.
func NewSettingsService(settings ports.SettingsRepository, sync *SyncService, logger zerolog.Logger) *SettingsService {
	return &SettingsService{settings: settings, sync: sync, logger: logger}
}

// Get returns the Shopify integration settings with secrets redacted, or
// (nil, nil) when the integration has never been configured.
func (s *SettingsService) Get(ctx context.Context) (*domain.IntegrationSettings, error) {
	settings, err := s.settings.Get(ctx, domain.IntegrationShopify)
	if err != nil || settings == nil {
		return nil, err
	}

	redacted := *settings
	redacted.Settings.APISecret = redactSecret(redacted.Settings.APISecret)
	redacted.Settings.AccessToken = redactSecret(redacted.Settings.AccessToken)
	redacted.Settings.WebhookSecret = redactSecret(redacted.Settings.WebhookSecret)
	return &redacted, nil
}

// Upsert replaces the Shopify integration settings. Redacted secret values
// submitted unchanged are resolved back to the stored originals so a
// read-modify-write from the admin UI does not wipe credentials.
func (s *SettingsService) Upsert(ctx context.Context, enabled bool, candidate domain.ShopifySettings) error {
	current, err := s.settings.Get(ctx, domain.IntegrationShopify)
	if err != nil {
		return err
	}
	if current != nil {
		candidate.APISecret = resolveSecret(candidate.APISecret, current.Settings.APISecret)
		candidate.AccessToken = resolveSecret(candidate.AccessToken, current.Settings.AccessToken)
		candidate.WebhookSecret = resolveSecret(candidate.WebhookSecret, current.Settings.WebhookSecret)
	}

	settings := &domain.IntegrationSettings{
		Type:      domain.IntegrationShopify,
		IsEnabled: enabled,
		Settings:  candidate,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.settings.Upsert(ctx, settings); err != nil {
		return err
	}

	s.logger.Info().Bool("enabled", enabled).Str("shop", candidate.ShopName).Msg("Shopify settings updated")
	return nil
}

// TestConnection checks candidate credentials against the live shop, resolving
// redacted fields from the stored settings first.
func (s *SettingsService) TestConnection(ctx context.Context, candidate domain.ShopifySettings) error {
	current, err := s.settings.Get(ctx, domain.IntegrationShopify)
	if err != nil {
		return err
	}
	if current != nil {
		candidate.APISecret = resolveSecret(candidate.APISecret, current.Settings.APISecret)
		candidate.AccessToken = resolveSecret(candidate.AccessToken, current.Settings.AccessToken)
	}
	return s.sync.TestConnection(ctx, candidate)
}

const secretPlaceholder = "********"

func redactSecret(value string) string {
	if value == "" {
		return ""
	}
	return secretPlaceholder
}

func resolveSecret(submitted, stored string) string {
	if submitted == secretPlaceholder {
		return stored
	}
	return submitted
}
