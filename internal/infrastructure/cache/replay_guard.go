package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/clivewatts/stock-tracker/internal/ports"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	// Dedup key per webhook delivery: dedup:webhook:{delivery_id}
	keyWebhookDedup = "dedup:webhook:%s"
)

// Shopify redelivers webhooks it considers unacknowledged for up to 48 hours.
var ttlWebhookDedup = 48 * time.Hour

// RedisReplayGuard deduplicates webhook deliveries with a SETNX key per
// delivery id. Redis being unreachable fails open: the delivery is treated as
// first, since the handlers are idempotent anyway.
type RedisReplayGuard struct {
	rdb    *redis.Client
	logger zerolog.Logger
}

// NewRedisReplayGuard creates a replay guard backed by the given client.
func NewRedisReplayGuard(rdb *redis.Client, logger zerolog.Logger) ports.ReplayGuard {
	return &RedisReplayGuard{rdb: rdb, logger: logger}
}

// FirstDelivery returns true the first time a delivery id is seen within the
// retention window.
func (g *RedisReplayGuard) FirstDelivery(ctx context.Context, deliveryID string) (bool, error) {
	if deliveryID == "" {
		return true, nil
	}

	key := fmt.Sprintf(keyWebhookDedup, deliveryID)
	first, err := g.rdb.SetNX(ctx, key, 1, ttlWebhookDedup).Result()
	if err != nil {
		g.logger.Warn().Err(err).Str("deliveryId", deliveryID).Msg("Replay guard unavailable, processing delivery")
		return true, nil
	}
	return first, nil
}
