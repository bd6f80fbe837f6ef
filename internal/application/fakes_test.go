package application

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/clivewatts/stock-tracker/internal/domain"
	"github.com/clivewatts/stock-tracker/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

// In-memory repository fakes. They apply the same partial-update semantics as
// the Mongo implementations so multi-step scenarios behave realistically.

type memProducts struct {
	seq   int
	items map[string]*domain.Product
}

func newMemProducts() *memProducts {
	return &memProducts{items: map[string]*domain.Product{}}
}

func (m *memProducts) add(p *domain.Product) *domain.Product {
	if p.ID == "" {
		m.seq++
		p.ID = fmt.Sprintf("p%d", m.seq)
	}
	m.items[p.ID] = p
	return p
}

func (m *memProducts) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (m *memProducts) List(_ context.Context) ([]*domain.Product, error) {
	var out []*domain.Product
	for i := 1; i <= m.seq; i++ {
		if p, ok := m.items[fmt.Sprintf("p%d", i)]; ok {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *memProducts) GetByExternalID(_ context.Context, system, remoteID string) (*domain.Product, error) {
	for _, p := range m.items {
		if p.ExternalIDs[system] == remoteID {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memProducts) GetByBarcode(_ context.Context, barcode string) (*domain.Product, error) {
	for _, p := range m.items {
		if p.Barcode == barcode {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memProducts) GetByInventoryItemID(_ context.Context, itemID uint64) (*domain.Product, error) {
	for _, p := range m.items {
		if p.InventoryItemID == itemID {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memProducts) Create(_ context.Context, p *domain.Product) error {
	for _, existing := range m.items {
		if existing.Barcode == p.Barcode {
			return fmt.Errorf("duplicate key: barcode %q", p.Barcode)
		}
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.add(p)
	return nil
}

func (m *memProducts) Update(_ context.Context, id string, update *domain.ProductUpdate) error {
	p, ok := m.items[id]
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
	if update.ImageURL != nil {
		p.ImageURL = *update.ImageURL
	}
	if update.ProductTypeID != nil {
		p.ProductTypeID = *update.ProductTypeID
	}
	if update.SKUID != nil {
		p.SKUID = *update.SKUID
	}
	if update.ExternalIDs != nil {
		p.ExternalIDs = update.ExternalIDs
	}
	if update.InventoryItemID != nil {
		p.InventoryItemID = *update.InventoryItemID
	}
	p.UpdatedAt = time.Now()
	return nil
}

func (m *memProducts) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

type memTypes struct {
	seq   int
	items map[string]*domain.ProductType
}

func newMemTypes() *memTypes {
	return &memTypes{items: map[string]*domain.ProductType{}}
}

func (m *memTypes) GetByID(_ context.Context, id string) (*domain.ProductType, error) {
	t, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	clone := *t
	return &clone, nil
}

func (m *memTypes) GetByName(_ context.Context, name string) (*domain.ProductType, error) {
	for _, t := range m.items {
		if t.Name == name {
			clone := *t
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memTypes) List(_ context.Context) ([]*domain.ProductType, error) {
	var out []*domain.ProductType
	for _, t := range m.items {
		clone := *t
		out = append(out, &clone)
	}
	return out, nil
}

func (m *memTypes) Create(_ context.Context, t *domain.ProductType) error {
	m.seq++
	if t.ID == "" {
		t.ID = fmt.Sprintf("t%d", m.seq)
	}
	m.items[t.ID] = t
	return nil
}

func (m *memTypes) Update(_ context.Context, t *domain.ProductType) error {
	m.items[t.ID] = t
	return nil
}

func (m *memTypes) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

type memSKUs struct {
	items map[string]*domain.SKU
}

func newMemSKUs() *memSKUs {
	return &memSKUs{items: map[string]*domain.SKU{}}
}

func (m *memSKUs) GetByID(_ context.Context, id string) (*domain.SKU, error) {
	s, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	clone := *s
	return &clone, nil
}

func (m *memSKUs) GetByCode(_ context.Context, code string) (*domain.SKU, error) {
	for _, s := range m.items {
		if s.Code == code {
			clone := *s
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memSKUs) List(_ context.Context) ([]*domain.SKU, error) { return nil, nil }

func (m *memSKUs) Create(_ context.Context, s *domain.SKU) error {
	if s.ID == "" {
		s.ID = "s" + s.Code
	}
	m.items[s.ID] = s
	return nil
}

func (m *memSKUs) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

type memSales struct {
	items []*domain.Sale
}

func (m *memSales) Create(_ context.Context, s *domain.Sale) error {
	m.items = append(m.items, s)
	return nil
}

func (m *memSales) List(_ context.Context) ([]*domain.Sale, error) { return m.items, nil }

func (m *memSales) ListByProduct(_ context.Context, productID string) ([]*domain.Sale, error) {
	var out []*domain.Sale
	for _, s := range m.items {
		if s.ProductID == productID {
			out = append(out, s)
		}
	}
	return out, nil
}

type memSettings struct {
	record *domain.IntegrationSettings
}

func (m *memSettings) Get(_ context.Context, integrationType string) (*domain.IntegrationSettings, error) {
	if m.record == nil || m.record.Type != integrationType {
		return nil, nil
	}
	clone := *m.record
	return &clone, nil
}

func (m *memSettings) Upsert(_ context.Context, settings *domain.IntegrationSettings) error {
	m.record = settings
	return nil
}

func enabledSettings() *domain.IntegrationSettings {
	return &domain.IntegrationSettings{
		ID:        "is1",
		Type:      domain.IntegrationShopify,
		IsEnabled: true,
		Settings: domain.ShopifySettings{
			ShopName:    "test-shop",
			AccessToken: "shpat_test",
			APIVersion:  "2024-07",
		},
	}
}

// fakeShopify is a stateful in-memory stand-in for the remote platform.
type fakeShopify struct {
	nextProductID uint64
	nextItemID    uint64

	products map[uint64]*goshopify.Product
	levels   map[uint64]goshopify.InventoryLevel

	createCalls int
	updateCalls int
	deleteCalls []uint64
	setCalls    []goshopify.InventoryLevel
	shopCalls   int

	listResult []goshopify.Product

	createErr error
	updateErr map[uint64]error
}

func newFakeShopify() *fakeShopify {
	return &fakeShopify{
		nextProductID: 1000,
		nextItemID:    5000,
		products:      map[uint64]*goshopify.Product{},
		levels:        map[uint64]goshopify.InventoryLevel{},
		updateErr:     map[uint64]error{},
	}
}

func (f *fakeShopify) GetShop(_ context.Context) (*goshopify.Shop, error) {
	f.shopCalls++
	return &goshopify.Shop{Name: "Test Shop"}, nil
}

func (f *fakeShopify) ListProducts(_ context.Context, _ interface{}) ([]goshopify.Product, error) {
	return f.listResult, nil
}

func (f *fakeShopify) GetProduct(_ context.Context, productID uint64) (*goshopify.Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return nil, fmt.Errorf("remote product %d not found", productID)
	}
	clone := *p
	return &clone, nil
}

func (f *fakeShopify) CreateProduct(_ context.Context, product *goshopify.Product) (*goshopify.Product, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}

	f.nextProductID++
	created := *product
	created.Id = f.nextProductID
	for i := range created.Variants {
		f.nextItemID++
		created.Variants[i].InventoryItemId = f.nextItemID
		f.levels[f.nextItemID] = goshopify.InventoryLevel{
			InventoryItemId: f.nextItemID,
			LocationId:      77,
			Available:       created.Variants[i].InventoryQuantity,
		}
	}
	f.products[created.Id] = &created
	return &created, nil
}

func (f *fakeShopify) UpdateProduct(_ context.Context, product *goshopify.Product) (*goshopify.Product, error) {
	f.updateCalls++
	if err := f.updateErr[product.Id]; err != nil {
		return nil, err
	}

	existing, ok := f.products[product.Id]
	if !ok {
		return nil, fmt.Errorf("remote product %d not found", product.Id)
	}
	updated := *product
	// Variants keep their inventory item ids across updates.
	for i := range updated.Variants {
		if i < len(existing.Variants) {
			updated.Variants[i].InventoryItemId = existing.Variants[i].InventoryItemId
		}
	}
	f.products[updated.Id] = &updated
	return &updated, nil
}

func (f *fakeShopify) DeleteProduct(_ context.Context, productID uint64) error {
	f.deleteCalls = append(f.deleteCalls, productID)
	delete(f.products, productID)
	return nil
}

func (f *fakeShopify) ListInventoryLevels(_ context.Context, options interface{}) ([]goshopify.InventoryLevel, error) {
	opts, ok := options.(goshopify.InventoryLevelListOptions)
	if !ok {
		return nil, fmt.Errorf("unexpected options type %T", options)
	}
	var out []goshopify.InventoryLevel
	for _, id := range opts.InventoryItemIds {
		if level, ok := f.levels[id]; ok {
			out = append(out, level)
		}
	}
	return out, nil
}

func (f *fakeShopify) SetInventoryLevel(_ context.Context, level goshopify.InventoryLevel) (*goshopify.InventoryLevel, error) {
	f.setCalls = append(f.setCalls, level)
	f.levels[level.InventoryItemId] = level
	return &level, nil
}

// testHarness wires a sync engine over in-memory fakes.
type testHarness struct {
	products     *memProducts
	types        *memTypes
	skus         *memSKUs
	settings     *memSettings
	remote       *fakeShopify
	factoryCalls int
	sync         *SyncService
}

func newHarness(settings *domain.IntegrationSettings) *testHarness {
	h := &testHarness{
		products: newMemProducts(),
		types:    newMemTypes(),
		skus:     newMemSKUs(),
		settings: &memSettings{record: settings},
		remote:   newFakeShopify(),
	}
	factory := func(domain.ShopifySettings) (ports.ShopifyClient, error) {
		h.factoryCalls++
		return h.remote, nil
	}
	h.sync = NewSyncService(h.products, h.types, h.skus, h.settings, factory, zerolog.Nop())
	return h
}

func remoteIDOf(p *domain.Product) uint64 {
	id, _ := strconv.ParseUint(p.ExternalIDs[domain.IntegrationShopify], 10, 64)
	return id
}
