package application

import (
	"context"
	"fmt"

	"github.com/clivewatts/stock-tracker/internal/domain"
	"github.com/clivewatts/stock-tracker/internal/infrastructure/metrics"

	"github.com/rs/zerolog"
)

// WebhookHandler processes one family of webhook topics.
type WebhookHandler interface {
	CanHandle(topic string) bool
	Handle(ctx context.Context, event *domain.WebhookEvent) error
}

// WebhookDispatcher routes verified webhook events to their handler. Events
// with no handler are acknowledged and dropped: Shopify must not redeliver a
// topic this system simply does not act on.
type WebhookDispatcher struct {
	handlers []WebhookHandler
	logger   zerolog.Logger
}

// NewWebhookDispatcher creates an empty dispatcher.
func NewWebhookDispatcher(logger zerolog.Logger) *WebhookDispatcher {
	return &WebhookDispatcher{logger: logger}
}

// RegisterHandler appends a handler. First matching handler wins.
func (d *WebhookDispatcher) RegisterHandler(handler WebhookHandler) {
	d.handlers = append(d.handlers, handler)
}

// Dispatch routes the event to the first handler claiming its topic.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, event *domain.WebhookEvent) error {
	for _, handler := range d.handlers {
		if !handler.CanHandle(event.Topic) {
			continue
		}
		if err := handler.Handle(ctx, event); err != nil {
			metrics.WebhookEvents.WithLabelValues(event.Topic, metrics.OutcomeFailure).Inc()
			return fmt.Errorf("failed to handle %s webhook: %w", event.Topic, err)
		}
		metrics.WebhookEvents.WithLabelValues(event.Topic, metrics.OutcomeSuccess).Inc()
		return nil
	}

	metrics.WebhookEvents.WithLabelValues(event.Topic, metrics.OutcomeSkipped).Inc()
	d.logger.Debug().Str("topic", event.Topic).Str("eventId", event.ID).Msg("No handler for webhook topic")
	return nil
}
