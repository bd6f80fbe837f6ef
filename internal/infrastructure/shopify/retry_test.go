package shopify

import (
	"context"
	"errors"
	"testing"
	"time"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

func testClient() *client {
	return &client{
		retryConfig: RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond},
		logger:      zerolog.Nop(),
	}
}

func TestDoRetriesServerErrors(t *testing.T) {
	c := testClient()

	calls := 0
	err := c.do(context.Background(), "op", func() error {
		calls++
		if calls < 3 {
			return goshopify.ResponseError{Status: 503}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestDoGivesUpAfterMaxAttempts(t *testing.T) {
	c := testClient()

	calls := 0
	err := c.do(context.Background(), "op", func() error {
		calls++
		return goshopify.RateLimitError{}
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestDoDoesNotRetryClientErrors(t *testing.T) {
	c := testClient()

	calls := 0
	err := c.do(context.Background(), "op", func() error {
		calls++
		return goshopify.ResponseError{Status: 404}
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected single attempt for 404, got %d", calls)
	}
}

func TestDoHonorsContextCancellation(t *testing.T) {
	c := testClient()
	c.retryConfig.BaseDelay = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.do(ctx, "op", func() error {
		return goshopify.ResponseError{Status: 500}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
