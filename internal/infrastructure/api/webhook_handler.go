package api

import (
	"io"
	"net/http"

	"github.com/clivewatts/stock-tracker/internal/application"
	"github.com/clivewatts/stock-tracker/internal/domain"
	"github.com/clivewatts/stock-tracker/internal/infrastructure/metrics"
	shopifyinfra "github.com/clivewatts/stock-tracker/internal/infrastructure/shopify"
	"github.com/clivewatts/stock-tracker/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxWebhookBody caps the payload size read from an inbound delivery.
const maxWebhookBody = 1 << 20

// WebhookHandler receives inbound Shopify webhook deliveries. Status codes
// drive Shopify's redelivery behavior: 200 acknowledges (even for topics this
// system ignores), 401 rejects unverifiable requests, 400 rejects deliveries
// while the integration is disabled, and 500 asks Shopify to retry.
type WebhookHandler struct {
	settings   ports.SettingsRepository
	guard      ports.ReplayGuard
	dispatcher *application.WebhookDispatcher
	logger     zerolog.Logger
}

// NewWebhookHandler creates the webhook endpoint.
func NewWebhookHandler(settings ports.SettingsRepository, guard ports.ReplayGuard, dispatcher *application.WebhookDispatcher, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{settings: settings, guard: guard, dispatcher: dispatcher, logger: logger}
}

// Handle processes POST /webhooks/shopify.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	settings, err := h.settings.Get(ctx, domain.IntegrationShopify)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to read settings for webhook")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if settings == nil || !settings.IsEnabled || settings.Settings.WebhookSecret == "" {
		writeError(w, http.StatusBadRequest, "shopify integration is disabled")
		return
	}

	topic := r.Header.Get("X-Shopify-Topic")
	signature := r.Header.Get("X-Shopify-Hmac-SHA256")
	if topic == "" || signature == "" {
		metrics.WebhookEvents.WithLabelValues(topic, metrics.OutcomeRejected).Inc()
		writeError(w, http.StatusUnauthorized, "missing webhook headers")
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	defer r.Body.Close()

	verifier := shopifyinfra.NewWebhookVerifier(settings.Settings.WebhookSecret)
	if err := verifier.Verify(payload, signature); err != nil {
		metrics.WebhookEvents.WithLabelValues(topic, metrics.OutcomeRejected).Inc()
		h.logger.Warn().Str("topic", topic).Msg("Webhook signature verification failed")
		writeError(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	// Deduplicate on the delivery id so Shopify redeliveries are no-ops.
	deliveryID := r.Header.Get("X-Shopify-Webhook-Id")
	first, err := h.guard.FirstDelivery(ctx, deliveryID)
	if err == nil && !first {
		metrics.WebhookEvents.WithLabelValues(topic, metrics.OutcomeReplayed).Inc()
		h.logger.Debug().Str("topic", topic).Str("deliveryId", deliveryID).Msg("Duplicate webhook delivery, acknowledging")
		writeJSON(w, http.StatusOK, map[string]string{"received": "true"})
		return
	}

	event := &domain.WebhookEvent{
		ID:       eventID(deliveryID),
		Topic:    topic,
		Shop:     r.Header.Get("X-Shopify-Shop-Domain"),
		Payload:  payload,
		Verified: true,
	}

	if err := h.dispatcher.Dispatch(ctx, event); err != nil {
		h.logger.Error().Err(err).Str("topic", topic).Msg("Failed to process webhook event")
		writeError(w, http.StatusInternalServerError, "failed to process webhook event")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"received": "true"})
}

func eventID(deliveryID string) string {
	if deliveryID != "" {
		return deliveryID
	}
	return uuid.NewString()
}
