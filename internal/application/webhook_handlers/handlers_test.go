package webhook_handlers

import (
	"context"
	"fmt"
	"testing"

	"github.com/clivewatts/stock-tracker/internal/domain"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type stubProducts struct {
	items map[string]*domain.Product
}

func newStubProducts(products ...*domain.Product) *stubProducts {
	s := &stubProducts{items: map[string]*domain.Product{}}
	for _, p := range products {
		s.items[p.ID] = p
	}
	return s
}

func (s *stubProducts) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return p, nil
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
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	if update.Barcode != nil {
		p.Barcode = *update.Barcode
	}
	if update.Price != nil {
		p.Price = *update.Price
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

func linkedProduct() *domain.Product {
	return &domain.Product{
		ID:              "p1",
		Name:            "Local Name",
		Description:     "Local description",
		Barcode:         "111",
		Price:           decimal.RequireFromString("19.99"),
		Stock:           5,
		ExternalIDs:     map[string]string{domain.IntegrationShopify: "9001"},
		InventoryItemID: 5001,
	}
}

func TestProductUpdateWebhookOverwritesNameAndDescriptionOnly(t *testing.T) {
	products := newStubProducts(linkedProduct())
	handler := NewProductWebhookHandler(products, zerolog.Nop())

	event := &domain.WebhookEvent{
		Topic:    domain.TopicProductUpdate,
		Payload:  []byte(`{"id":9001,"title":"Remote Name","body_html":"Remote description","vendor":"x"}`),
		Verified: true,
	}
	if err := handler.Handle(context.Background(), event); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	p := products.items["p1"]
	if p.Name != "Remote Name" || p.Description != "Remote description" {
		t.Fatalf("descriptive fields not applied: %+v", p)
	}
	if p.Barcode != "111" || p.Stock != 5 || !p.Price.Equal(decimal.RequireFromString("19.99")) {
		t.Fatalf("locally owned fields mutated: %+v", p)
	}
}

func TestProductUpdateWebhookUnlinkedProductIgnored(t *testing.T) {
	products := newStubProducts()
	handler := NewProductWebhookHandler(products, zerolog.Nop())

	event := &domain.WebhookEvent{
		Topic:   domain.TopicProductUpdate,
		Payload: []byte(`{"id":9001,"title":"Remote Name"}`),
	}
	if err := handler.Handle(context.Background(), event); err != nil {
		t.Fatalf("expected no error for unlinked product, got %v", err)
	}
	if len(products.items) != 0 {
		t.Fatal("product created from webhook")
	}
}

func TestProductDeleteWebhookUnlinksButKeepsRecord(t *testing.T) {
	products := newStubProducts(linkedProduct())
	handler := NewProductWebhookHandler(products, zerolog.Nop())

	event := &domain.WebhookEvent{
		Topic:   domain.TopicProductDelete,
		Payload: []byte(`{"id":9001}`),
	}
	if err := handler.Handle(context.Background(), event); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	p, ok := products.items["p1"]
	if !ok {
		t.Fatal("local record deleted by remote delete webhook")
	}
	if _, linked := p.RemoteID(domain.IntegrationShopify); linked {
		t.Fatal("product still linked after remote delete")
	}
	if p.InventoryItemID != 0 {
		t.Fatalf("inventory item mapping not cleared: %d", p.InventoryItemID)
	}
	if p.Name != "Local Name" || p.Stock != 5 {
		t.Fatalf("local data mutated: %+v", p)
	}
}

func TestProductWebhookRejectsMalformedPayload(t *testing.T) {
	handler := NewProductWebhookHandler(newStubProducts(), zerolog.Nop())
	event := &domain.WebhookEvent{Topic: domain.TopicProductUpdate, Payload: []byte(`{`)}
	if err := handler.Handle(context.Background(), event); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestInventoryWebhookUpdatesStock(t *testing.T) {
	products := newStubProducts(linkedProduct())
	handler := NewInventoryWebhookHandler(products, zerolog.Nop())

	if !handler.CanHandle(domain.TopicInventoryLevel) {
		t.Fatal("handler does not claim its topic")
	}
	if handler.CanHandle(domain.TopicProductUpdate) {
		t.Fatal("handler claims foreign topic")
	}

	event := &domain.WebhookEvent{
		Topic:   domain.TopicInventoryLevel,
		Payload: []byte(`{"inventory_item_id":5001,"available":42,"location_id":77}`),
	}
	if err := handler.Handle(context.Background(), event); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if products.items["p1"].Stock != 42 {
		t.Fatalf("stock not updated: %d", products.items["p1"].Stock)
	}
}

func TestInventoryWebhookUnknownItemIgnored(t *testing.T) {
	products := newStubProducts(linkedProduct())
	handler := NewInventoryWebhookHandler(products, zerolog.Nop())

	event := &domain.WebhookEvent{
		Topic:   domain.TopicInventoryLevel,
		Payload: []byte(`{"inventory_item_id":9999,"available":42}`),
	}
	if err := handler.Handle(context.Background(), event); err != nil {
		t.Fatalf("expected no error for unknown item, got %v", err)
	}
	if products.items["p1"].Stock != 5 {
		t.Fatalf("stock mutated: %d", products.items["p1"].Stock)
	}
}
