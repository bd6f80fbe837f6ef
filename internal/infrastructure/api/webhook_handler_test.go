package api

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clivewatts/stock-tracker/internal/application"
	"github.com/clivewatts/stock-tracker/internal/application/webhook_handlers"
	"github.com/clivewatts/stock-tracker/internal/domain"

	"github.com/rs/zerolog"
)

const testWebhookSecret = "whsecret"

type stubSettings struct {
	record *domain.IntegrationSettings
}

func (s *stubSettings) Get(_ context.Context, integrationType string) (*domain.IntegrationSettings, error) {
	if s.record == nil || s.record.Type != integrationType {
		return nil, nil
	}
	return s.record, nil
}

func (s *stubSettings) Upsert(_ context.Context, settings *domain.IntegrationSettings) error {
	s.record = settings
	return nil
}

type stubGuard struct {
	seen map[string]bool
}

func (g *stubGuard) FirstDelivery(_ context.Context, deliveryID string) (bool, error) {
	if deliveryID == "" {
		return true, nil
	}
	if g.seen == nil {
		g.seen = map[string]bool{}
	}
	if g.seen[deliveryID] {
		return false, nil
	}
	g.seen[deliveryID] = true
	return true, nil
}

type stubProducts struct {
	items     map[string]*domain.Product
	updates   int
	updateErr error
}

func (s *stubProducts) GetByID(_ context.Context, id string) (*domain.Product, error) {
	return s.items[id], nil
}

func (s *stubProducts) List(_ context.Context) ([]*domain.Product, error) { return nil, nil }

func (s *stubProducts) GetByExternalID(_ context.Context, system, remoteID string) (*domain.Product, error) {
	for _, p := range s.items {
		if p.ExternalIDs[system] == remoteID {
			return p, nil
		}
	}
	return nil, nil
}

func (s *stubProducts) GetByBarcode(_ context.Context, barcode string) (*domain.Product, error) {
	return nil, nil
}

func (s *stubProducts) GetByInventoryItemID(_ context.Context, itemID uint64) (*domain.Product, error) {
	for _, p := range s.items {
		if p.InventoryItemID == itemID {
			return p, nil
		}
	}
	return nil, nil
}

func (s *stubProducts) Create(_ context.Context, p *domain.Product) error {
	s.items[p.ID] = p
	return nil
}

func (s *stubProducts) Update(_ context.Context, id string, update *domain.ProductUpdate) error {
	p, ok := s.items[id]
	if !ok {
		return fmt.Errorf("product not found: %s", id)
	}
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updates++
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	if update.Stock != nil {
		p.Stock = *update.Stock
	}
	if update.ExternalIDs != nil {
		p.ExternalIDs = update.ExternalIDs
	}
	if update.InventoryItemID != nil {
		p.InventoryItemID = *update.InventoryItemID
	}
	return nil
}

func (s *stubProducts) Delete(_ context.Context, id string) error {
	delete(s.items, id)
	return nil
}

func enabledWebhookSettings() *domain.IntegrationSettings {
	return &domain.IntegrationSettings{
		Type:      domain.IntegrationShopify,
		IsEnabled: true,
		Settings: domain.ShopifySettings{
			ShopName:      "shop",
			AccessToken:   "token",
			WebhookSecret: testWebhookSecret,
		},
	}
}

func newWebhookServer(settings *domain.IntegrationSettings, products *stubProducts) *WebhookHandler {
	logger := zerolog.Nop()
	dispatcher := application.NewWebhookDispatcher(logger)
	dispatcher.RegisterHandler(webhook_handlers.NewProductWebhookHandler(products, logger))
	dispatcher.RegisterHandler(webhook_handlers.NewInventoryWebhookHandler(products, logger))
	return NewWebhookHandler(&stubSettings{record: settings}, &stubGuard{}, dispatcher, logger)
}

func signBody(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func deliver(h *WebhookHandler, topic string, body []byte, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/shopify", bytes.NewReader(body))
	req.Header.Set("X-Shopify-Topic", topic)
	req.Header.Set("X-Shopify-Hmac-SHA256", signBody(body))
	req.Header.Set("X-Shopify-Shop-Domain", "shop.myshopify.com")
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func linkedStub() *stubProducts {
	return &stubProducts{items: map[string]*domain.Product{
		"p1": {
			ID:              "p1",
			Name:            "Local Name",
			Stock:           5,
			ExternalIDs:     map[string]string{domain.IntegrationShopify: "9001"},
			InventoryItemID: 5001,
		},
	}}
}

func TestWebhookDisabledIntegration(t *testing.T) {
	for name, settings := range map[string]*domain.IntegrationSettings{
		"absent":    nil,
		"disabled":  {Type: domain.IntegrationShopify, IsEnabled: false, Settings: domain.ShopifySettings{WebhookSecret: testWebhookSecret}},
		"no secret": {Type: domain.IntegrationShopify, IsEnabled: true},
	} {
		t.Run(name, func(t *testing.T) {
			h := newWebhookServer(settings, linkedStub())
			rec := deliver(h, domain.TopicProductUpdate, []byte(`{"id":9001}`), nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestWebhookMissingHeaders(t *testing.T) {
	h := newWebhookServer(enabledWebhookSettings(), linkedStub())

	rec := deliver(h, domain.TopicProductUpdate, []byte(`{}`), func(r *http.Request) {
		r.Header.Del("X-Shopify-Topic")
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for missing topic, got %d", rec.Code)
	}

	rec = deliver(h, domain.TopicProductUpdate, []byte(`{}`), func(r *http.Request) {
		r.Header.Del("X-Shopify-Hmac-SHA256")
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for missing signature, got %d", rec.Code)
	}
}

func TestWebhookBadSignature(t *testing.T) {
	products := linkedStub()
	h := newWebhookServer(enabledWebhookSettings(), products)

	rec := deliver(h, domain.TopicProductUpdate, []byte(`{"id":9001,"title":"Hacked"}`), func(r *http.Request) {
		r.Header.Set("X-Shopify-Hmac-SHA256", signBody([]byte("something else")))
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if products.updates != 0 {
		t.Fatal("unverified webhook mutated data")
	}
	if products.items["p1"].Name != "Local Name" {
		t.Fatal("unverified webhook changed product")
	}
}

func TestWebhookProductUpdateApplied(t *testing.T) {
	products := linkedStub()
	h := newWebhookServer(enabledWebhookSettings(), products)

	rec := deliver(h, domain.TopicProductUpdate, []byte(`{"id":9001,"title":"Remote Name","body_html":"desc"}`), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if products.items["p1"].Name != "Remote Name" {
		t.Fatalf("update not applied: %+v", products.items["p1"])
	}
}

func TestWebhookUnknownTopicAcknowledged(t *testing.T) {
	h := newWebhookServer(enabledWebhookSettings(), linkedStub())

	rec := deliver(h, "orders/create", []byte(`{"id":1}`), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for unhandled topic, got %d", rec.Code)
	}
}

func TestWebhookDuplicateDeliveryIsNoOp(t *testing.T) {
	products := linkedStub()
	h := newWebhookServer(enabledWebhookSettings(), products)
	body := []byte(`{"id":9001,"title":"Remote Name"}`)

	withID := func(r *http.Request) { r.Header.Set("X-Shopify-Webhook-Id", "delivery-1") }

	if rec := deliver(h, domain.TopicProductUpdate, body, withID); rec.Code != http.StatusOK {
		t.Fatalf("first delivery: expected 200, got %d", rec.Code)
	}
	if rec := deliver(h, domain.TopicProductUpdate, body, withID); rec.Code != http.StatusOK {
		t.Fatalf("redelivery: expected 200, got %d", rec.Code)
	}
	if products.updates != 1 {
		t.Fatalf("expected exactly 1 mutation across redeliveries, got %d", products.updates)
	}
}

func TestWebhookHandlerFailureReturns500(t *testing.T) {
	h := newWebhookServer(enabledWebhookSettings(), linkedStub())

	// Claimed topic with a malformed payload makes the handler fail.
	rec := deliver(h, domain.TopicProductUpdate, []byte(`{`), nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestWebhookProductDeleteUnlinks(t *testing.T) {
	products := linkedStub()
	h := newWebhookServer(enabledWebhookSettings(), products)

	rec := deliver(h, domain.TopicProductDelete, []byte(`{"id":9001}`), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	p, ok := products.items["p1"]
	if !ok {
		t.Fatal("local record deleted by remote delete webhook")
	}
	if _, linked := p.RemoteID(domain.IntegrationShopify); linked {
		t.Fatal("product still linked after remote delete")
	}
}

func TestWebhookInventoryLevelApplied(t *testing.T) {
	products := linkedStub()
	h := newWebhookServer(enabledWebhookSettings(), products)

	rec := deliver(h, domain.TopicInventoryLevel, []byte(`{"inventory_item_id":5001,"available":42}`), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if products.items["p1"].Stock != 42 {
		t.Fatalf("stock not applied: %d", products.items["p1"].Stock)
	}
}
