package shopify

import (
	"context"
	"errors"
	"time"

	goshopify "github.com/bold-commerce/go-shopify/v4"
)

// RetryConfig bounds how often a failed Shopify call is retried. Only
// rate-limit and server-side errors are retried; everything else surfaces
// immediately.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryConfig returns the retry policy used in production: three
// attempts with exponential backoff starting at 500ms.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
	}
}

// do runs fn under the retry policy, honoring context cancellation between
// attempts.
func (c *client) do(ctx context.Context, operation string, fn func() error) error {
	delay := c.retryConfig.BaseDelay
	var err error
	for attempt := 1; ; attempt++ {
		err = fn()
		if err == nil || attempt >= c.retryConfig.MaxAttempts || !isRetryable(err) {
			return err
		}

		c.logger.Warn().
			Err(err).
			Str("operation", operation).
			Int("attempt", attempt).
			Dur("backoff", delay).
			Msg("Retrying Shopify API call")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}

// isRetryable reports whether the error is transient: a rate-limit response
// or a 5xx from Shopify.
func isRetryable(err error) bool {
	var rateLimitErr goshopify.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return true
	}
	var respErr goshopify.ResponseError
	if errors.As(err, &respErr) {
		return respErr.Status >= 500
	}
	return false
}
