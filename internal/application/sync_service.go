package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/clivewatts/stock-tracker/internal/domain"
	"github.com/clivewatts/stock-tracker/internal/infrastructure/metrics"
	"github.com/clivewatts/stock-tracker/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

// ErrNotConfigured is returned by manual sync operations when the Shopify
// integration is absent, disabled, or missing required credentials. Automatic
// paths treat it as a quiescent no-op, not a failure.
var ErrNotConfigured = errors.New("shopify integration is not configured")

// ErrNotLinked is returned when an operation requires a product to already
// have a Shopify counterpart and it does not.
var ErrNotLinked = errors.New("product is not linked to a shopify product")

// defaultRemoteCallTimeout bounds each remote call so a hung request cannot
// block a catalog mutation indefinitely.
const defaultRemoteCallTimeout = 15 * time.Second

// ClientFactory produces a Shopify client bound to the given settings.
type ClientFactory func(settings domain.ShopifySettings) (ports.ShopifyClient, error)

// SyncService is the reconciliation engine between the local catalog and the
// Shopify catalog. Settings are re-read from the store on every operation so
// credential rotation takes effect immediately.
type SyncService struct {
	products     ports.ProductRepository
	productTypes ports.ProductTypeRepository
	skus         ports.SKURepository
	settings     ports.SettingsRepository
	newClient    ClientFactory
	logger       zerolog.Logger
	callTimeout  time.Duration
}

// NewSyncService creates a new sync engine.
func NewSyncService(
	products ports.ProductRepository,
	productTypes ports.ProductTypeRepository,
	skus ports.SKURepository,
	settings ports.SettingsRepository,
	newClient ClientFactory,
	logger zerolog.Logger,
) *SyncService {
	return &SyncService{
		products:     products,
		productTypes: productTypes,
		skus:         skus,
		settings:     settings,
		newClient:    newClient,
		logger:       logger,
		callTimeout:  defaultRemoteCallTimeout,
	}
}

// clientFor resolves a client from the current settings. Returns (nil, nil)
// when the integration is unconfigured, disabled, or missing the shop name or
// access token; callers must treat that as a legitimate no-op condition.
func (s *SyncService) clientFor(ctx context.Context) (ports.ShopifyClient, error) {
	settings, err := s.settings.Get(ctx, domain.IntegrationShopify)
	if err != nil {
		return nil, fmt.Errorf("failed to read integration settings: %w", err)
	}
	if settings == nil || !settings.IsEnabled {
		return nil, nil
	}
	if settings.Settings.ShopName == "" || settings.Settings.AccessToken == "" {
		return nil, nil
	}

	client, err := s.newClient(settings.Settings)
	if err != nil {
		// Credential or client initialization failure means "unavailable",
		// never an error escaping to the caller.
		s.logger.Warn().Err(err).Msg("Failed to initialize Shopify client")
		return nil, nil
	}
	return client, nil
}

// remoteCtx bounds a single remote call.
func (s *SyncService) remoteCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.callTimeout)
}

// TestConnection verifies that candidate (not yet saved) credentials can
// reach the shop. It mutates nothing.
func (s *SyncService) TestConnection(ctx context.Context, candidate domain.ShopifySettings) error {
	if candidate.ShopName == "" || candidate.AccessToken == "" {
		return ErrNotConfigured
	}

	client, err := s.newClient(candidate)
	if err != nil {
		return fmt.Errorf("failed to initialize client: %w", err)
	}

	cctx, cancel := s.remoteCtx(ctx)
	defer cancel()

	if _, err := client.GetShop(cctx); err != nil {
		return fmt.Errorf("failed to reach shop: %w", err)
	}
	return nil
}

// SyncProduct pushes one product's current state to Shopify, creating and
// linking the remote counterpart when the product is unlinked. The external
// id mapping is the single source of truth for the create-vs-update branch,
// so a second call after a successful first always takes the update path.
func (s *SyncService) SyncProduct(ctx context.Context, productID string) error {
	client, err := s.clientFor(ctx)
	if err != nil {
		return err
	}
	if client == nil {
		return ErrNotConfigured
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return fmt.Errorf("product not found: %s", productID)
	}

	remote := mapProductToRemote(product, s.typeName(ctx, product), s.skuCode(ctx, product))

	if remoteID, linked := product.RemoteID(domain.IntegrationShopify); linked {
		err := s.updateRemote(ctx, client, product, remote, remoteID)
		metrics.ObserveSync("product_update", err)
		return err
	}

	err = s.createAndLink(ctx, client, product, remote)
	metrics.ObserveSync("product_create", err)
	return err
}

func (s *SyncService) updateRemote(ctx context.Context, client ports.ShopifyClient, product *domain.Product, remote *goshopify.Product, remoteID string) error {
	id, err := strconv.ParseUint(remoteID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid remote id %q for product %s", remoteID, product.ID)
	}
	remote.Id = id

	cctx, cancel := s.remoteCtx(ctx)
	defer cancel()

	updated, err := client.UpdateProduct(cctx, remote)
	if err != nil {
		return fmt.Errorf("failed to update remote product: %w", err)
	}

	s.recordInventoryItem(ctx, product, updated)

	s.logger.Info().
		Str("productId", product.ID).
		Str("remoteId", remoteID).
		Msg("Synced product to Shopify")
	return nil
}

func (s *SyncService) createAndLink(ctx context.Context, client ports.ShopifyClient, product *domain.Product, remote *goshopify.Product) error {
	cctx, cancel := s.remoteCtx(ctx)
	defer cancel()

	created, err := client.CreateProduct(cctx, remote)
	if err != nil {
		return fmt.Errorf("failed to create remote product: %w", err)
	}

	// Persisting the remote id is the only point that establishes linkage.
	externalIDs := map[string]string{}
	for k, v := range product.ExternalIDs {
		externalIDs[k] = v
	}
	externalIDs[domain.IntegrationShopify] = strconv.FormatUint(created.Id, 10)

	update := &domain.ProductUpdate{ExternalIDs: externalIDs}
	if variant := firstVariant(created); variant != nil && variant.InventoryItemId != 0 {
		itemID := variant.InventoryItemId
		update.InventoryItemID = &itemID
	}

	if err := s.products.Update(ctx, product.ID, update); err != nil {
		return fmt.Errorf("remote product %d created but linkage not persisted: %w", created.Id, err)
	}

	s.logger.Info().
		Str("productId", product.ID).
		Uint64("remoteId", created.Id).
		Msg("Created and linked Shopify product")
	return nil
}

// SyncInventory propagates a stock-count change without re-sending full
// product data. Shopify models inventory per (item, location), so the current
// location has to be resolved before the level can be written.
func (s *SyncService) SyncInventory(ctx context.Context, productID string, quantity int) error {
	client, err := s.clientFor(ctx)
	if err != nil {
		return err
	}
	if client == nil {
		return ErrNotConfigured
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return fmt.Errorf("product not found: %s", productID)
	}

	remoteID, linked := product.RemoteID(domain.IntegrationShopify)
	if !linked {
		metrics.ObserveSync("inventory_set", ErrNotLinked)
		return ErrNotLinked
	}

	err = s.syncInventoryLinked(ctx, client, product, remoteID, quantity)
	metrics.ObserveSync("inventory_set", err)
	return err
}

func (s *SyncService) syncInventoryLinked(ctx context.Context, client ports.ShopifyClient, product *domain.Product, remoteID string, quantity int) error {
	id, err := strconv.ParseUint(remoteID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid remote id %q for product %s", remoteID, product.ID)
	}

	cctx, cancel := s.remoteCtx(ctx)
	remote, err := client.GetProduct(cctx, id)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to fetch remote product: %w", err)
	}

	variant := firstVariant(remote)
	if variant == nil || variant.InventoryItemId == 0 {
		return fmt.Errorf("remote product %s has no inventory-tracked variant", remoteID)
	}

	s.recordInventoryItem(ctx, product, remote)

	cctx, cancel = s.remoteCtx(ctx)
	levels, err := client.ListInventoryLevels(cctx, goshopify.InventoryLevelListOptions{
		InventoryItemIds: []uint64{variant.InventoryItemId},
	})
	cancel()
	if err != nil {
		return fmt.Errorf("failed to list inventory levels: %w", err)
	}
	if len(levels) == 0 {
		return fmt.Errorf("no inventory level found for item %d", variant.InventoryItemId)
	}

	cctx, cancel = s.remoteCtx(ctx)
	defer cancel()
	_, err = client.SetInventoryLevel(cctx, goshopify.InventoryLevel{
		InventoryItemId: variant.InventoryItemId,
		LocationId:      levels[0].LocationId,
		Available:       quantity,
	})
	if err != nil {
		return fmt.Errorf("failed to set inventory level: %w", err)
	}

	s.logger.Info().
		Str("productId", product.ID).
		Str("remoteId", remoteID).
		Int("quantity", quantity).
		Msg("Synced inventory level to Shopify")
	return nil
}

// DeleteRemote removes the Shopify counterpart of a deleted local product.
// Unlinked products are trivially successful with zero remote calls.
func (s *SyncService) DeleteRemote(ctx context.Context, product *domain.Product) error {
	remoteID, linked := product.RemoteID(domain.IntegrationShopify)
	if !linked {
		return nil
	}

	client, err := s.clientFor(ctx)
	if err != nil {
		return err
	}
	if client == nil {
		return ErrNotConfigured
	}

	id, err := strconv.ParseUint(remoteID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid remote id %q for product %s", remoteID, product.ID)
	}

	cctx, cancel := s.remoteCtx(ctx)
	defer cancel()

	err = client.DeleteProduct(cctx, id)
	metrics.ObserveSync("product_delete", err)
	if err != nil {
		return fmt.Errorf("failed to delete remote product: %w", err)
	}

	s.logger.Info().
		Str("productId", product.ID).
		Str("remoteId", remoteID).
		Msg("Deleted Shopify product")
	return nil
}

// SyncAll pushes every local product through SyncProduct, sequentially. There
// is no rollback: partial completion is an accepted terminal state.
func (s *SyncService) SyncAll(ctx context.Context) (*domain.SyncReport, error) {
	client, err := s.clientFor(ctx)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrNotConfigured
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	report := &domain.SyncReport{Total: len(products)}
	for _, product := range products {
		if err := s.SyncProduct(ctx, product.ID); err != nil {
			report.Failed++
			s.logger.Warn().Err(err).Str("productId", product.ID).Msg("Product sync failed")
			continue
		}
		report.Synced++
	}
	report.Success = report.Synced > 0

	s.logger.Info().
		Int("total", report.Total).
		Int("synced", report.Synced).
		Int("failed", report.Failed).
		Msg("Bulk sync completed")
	return report, nil
}

// ImportAll pulls the Shopify catalog and reconciles it into the local store.
// Re-running import never creates duplicates: products already linked via the
// external id mapping are updated in place.
func (s *SyncService) ImportAll(ctx context.Context) (*domain.ImportReport, error) {
	client, err := s.clientFor(ctx)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrNotConfigured
	}

	cctx, cancel := s.remoteCtx(ctx)
	remoteProducts, err := client.ListProducts(cctx, nil)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to list remote products: %w", err)
	}

	report := &domain.ImportReport{Total: len(remoteProducts)}
	for i := range remoteProducts {
		remote := &remoteProducts[i]
		outcome, err := s.importOne(ctx, client, remote)
		metrics.ObserveSync("product_import", err)
		if err != nil {
			report.Failed++
			s.logger.Warn().Err(err).Uint64("remoteId", remote.Id).Msg("Product import failed")
			continue
		}
		switch outcome {
		case importOutcomeImported:
			report.Imported++
		case importOutcomeUpdated:
			report.Updated++
		}
	}
	report.Success = report.Failed == 0

	s.logger.Info().
		Int("total", report.Total).
		Int("imported", report.Imported).
		Int("updated", report.Updated).
		Int("failed", report.Failed).
		Msg("Bulk import completed")
	return report, nil
}

type importOutcome int

const (
	importOutcomeImported importOutcome = iota
	importOutcomeUpdated
)

func (s *SyncService) importOne(ctx context.Context, client ports.ShopifyClient, remote *goshopify.Product) (importOutcome, error) {
	remoteID := strconv.FormatUint(remote.Id, 10)

	existing, err := s.products.GetByExternalID(ctx, domain.IntegrationShopify, remoteID)
	if err != nil {
		return 0, fmt.Errorf("failed to look up existing product: %w", err)
	}

	productType, err := s.resolveProductType(ctx, remote.ProductType)
	if err != nil {
		return 0, err
	}

	stock := s.remoteStock(ctx, client, remote)
	variant := firstVariant(remote)

	if existing != nil {
		if err := s.updateImported(ctx, existing, remote, variant, productType, stock, remoteID); err != nil {
			return 0, err
		}
		return importOutcomeUpdated, nil
	}

	if err := s.createImported(ctx, remote, variant, productType, stock, remoteID); err != nil {
		return 0, err
	}
	return importOutcomeImported, nil
}

// resolveProductType finds or creates the local product type matching the
// remote type name.
func (s *SyncService) resolveProductType(ctx context.Context, name string) (*domain.ProductType, error) {
	if name == "" {
		name = defaultImportTypeName
	}

	productType, err := s.productTypes.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up product type: %w", err)
	}
	if productType != nil {
		return productType, nil
	}

	productType = &domain.ProductType{Name: name}
	if err := s.productTypes.Create(ctx, productType); err != nil {
		return nil, fmt.Errorf("failed to create product type %q: %w", name, err)
	}
	return productType, nil
}

// remoteStock resolves the current inventory level of the remote product's
// first variant, defaulting to 0 on any lookup failure.
func (s *SyncService) remoteStock(ctx context.Context, client ports.ShopifyClient, remote *goshopify.Product) int {
	variant := firstVariant(remote)
	if variant == nil || variant.InventoryItemId == 0 {
		return 0
	}

	cctx, cancel := s.remoteCtx(ctx)
	defer cancel()

	levels, err := client.ListInventoryLevels(cctx, goshopify.InventoryLevelListOptions{
		InventoryItemIds: []uint64{variant.InventoryItemId},
	})
	if err != nil || len(levels) == 0 {
		return 0
	}
	return levels[0].Available
}

func (s *SyncService) updateImported(ctx context.Context, existing *domain.Product, remote *goshopify.Product, variant *goshopify.Variant, productType *domain.ProductType, stock int, remoteID string) error {
	update := &domain.ProductUpdate{
		Name:          &remote.Title,
		Description:   &remote.BodyHTML,
		Stock:         &stock,
		ProductTypeID: &productType.ID,
	}
	if variant != nil {
		if variant.Price != nil {
			price := *variant.Price
			update.Price = &price
		}
		if variant.Barcode != "" && variant.Barcode != existing.Barcode {
			if taken, err := s.barcodeTakenByOther(ctx, variant.Barcode, existing.ID); err == nil && !taken {
				barcode := variant.Barcode
				update.Barcode = &barcode
			}
		}
		if variant.InventoryItemId != 0 && variant.InventoryItemId != existing.InventoryItemID {
			itemID := variant.InventoryItemId
			update.InventoryItemID = &itemID
		}
	}

	// Re-assert linkage in case the mapping was cleared out of band.
	if _, linked := existing.RemoteID(domain.IntegrationShopify); !linked {
		externalIDs := map[string]string{}
		for k, v := range existing.ExternalIDs {
			externalIDs[k] = v
		}
		externalIDs[domain.IntegrationShopify] = remoteID
		update.ExternalIDs = externalIDs
	}

	if err := s.products.Update(ctx, existing.ID, update); err != nil {
		return fmt.Errorf("failed to update imported product: %w", err)
	}
	return nil
}

func (s *SyncService) createImported(ctx context.Context, remote *goshopify.Product, variant *goshopify.Variant, productType *domain.ProductType, stock int, remoteID string) error {
	barcode, err := s.resolveImportBarcode(ctx, variant, remoteID)
	if err != nil {
		return err
	}

	product := &domain.Product{
		Name:          remote.Title,
		Description:   remote.BodyHTML,
		Barcode:       barcode,
		Stock:         stock,
		ImageURL:      remoteImageURL(remote),
		ProductTypeID: productType.ID,
		ExternalIDs:   map[string]string{domain.IntegrationShopify: remoteID},
	}
	if variant != nil {
		if variant.Price != nil {
			product.Price = *variant.Price
		}
		product.InventoryItemID = variant.InventoryItemId
	}

	if err := s.products.Create(ctx, product); err != nil {
		return fmt.Errorf("failed to create imported product: %w", err)
	}
	return nil
}

// resolveImportBarcode picks a barcode that satisfies the local uniqueness
// constraint: the remote barcode verbatim when free, suffixed with the remote
// id on collision, or synthesized from the remote id when the remote supplied
// none.
func (s *SyncService) resolveImportBarcode(ctx context.Context, variant *goshopify.Variant, remoteID string) (string, error) {
	if variant == nil || variant.Barcode == "" {
		return "SHOPIFY-" + remoteID, nil
	}

	existing, err := s.products.GetByBarcode(ctx, variant.Barcode)
	if err != nil {
		return "", fmt.Errorf("failed to check barcode uniqueness: %w", err)
	}
	if existing == nil {
		return variant.Barcode, nil
	}
	return variant.Barcode + "-" + remoteID, nil
}

func (s *SyncService) barcodeTakenByOther(ctx context.Context, barcode string, productID string) (bool, error) {
	existing, err := s.products.GetByBarcode(ctx, barcode)
	if err != nil {
		return false, err
	}
	return existing != nil && existing.ID != productID, nil
}

// recordInventoryItem persists the remote variant's inventory item id so
// inbound inventory webhooks can be mapped back to this product.
func (s *SyncService) recordInventoryItem(ctx context.Context, product *domain.Product, remote *goshopify.Product) {
	variant := firstVariant(remote)
	if variant == nil || variant.InventoryItemId == 0 || variant.InventoryItemId == product.InventoryItemID {
		return
	}
	itemID := variant.InventoryItemId
	update := &domain.ProductUpdate{InventoryItemID: &itemID}
	if err := s.products.Update(ctx, product.ID, update); err != nil {
		s.logger.Warn().Err(err).Str("productId", product.ID).Msg("Failed to record inventory item id")
	}
}

// typeName resolves the product's local type name, empty when unset.
func (s *SyncService) typeName(ctx context.Context, product *domain.Product) string {
	if product.ProductTypeID == "" {
		return ""
	}
	productType, err := s.productTypes.GetByID(ctx, product.ProductTypeID)
	if err != nil || productType == nil {
		return ""
	}
	return productType.Name
}

// skuCode resolves the product's SKU code, empty when unset.
func (s *SyncService) skuCode(ctx context.Context, product *domain.Product) string {
	if product.SKUID == "" {
		return ""
	}
	sku, err := s.skus.GetByID(ctx, product.SKUID)
	if err != nil || sku == nil {
		return ""
	}
	return sku.Code
}
