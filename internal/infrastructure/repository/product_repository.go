package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/clivewatts/stock-tracker/internal/domain"
	"github.com/clivewatts/stock-tracker/internal/infrastructure/repository/entity"
	"github.com/clivewatts/stock-tracker/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoProductRepository implements ProductRepository using MongoDB.
type MongoProductRepository struct {
	collection *mongo.Collection
}

// NewMongoProductRepository creates a new MongoDB product repository and
// ensures its indexes, so index failures surface once at startup.
func NewMongoProductRepository(db *mongo.Database) (ports.ProductRepository, error) {
	collection := db.Collection("products")

	// Unique sparse index so that products without a barcode don't collide.
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "barcode", Value: 1}},
		Options: options.Index().SetUnique(true).SetSparse(true),
	}
	if _, err := collection.Indexes().CreateOne(context.Background(), indexModel); err != nil {
		return nil, fmt.Errorf("failed to create product indexes: %w", err)
	}

	return &MongoProductRepository{collection: collection}, nil
}

// GetByID retrieves a product by its local id.
func (r *MongoProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": objID})
}

// List retrieves every product in the catalog.
func (r *MongoProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []*domain.Product
	for cursor.Next(ctx) {
		var doc entity.MongoProductDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode product: %w", err)
		}
		products = append(products, doc.ToDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return products, nil
}

// GetByExternalID finds the product linked to the given remote identifier.
// Queries the external_ids map directly instead of scanning the catalog.
func (r *MongoProductRepository) GetByExternalID(ctx context.Context, system string, remoteID string) (*domain.Product, error) {
	return r.findOne(ctx, bson.M{"external_ids." + system: remoteID})
}

// GetByBarcode retrieves a product by its barcode.
func (r *MongoProductRepository) GetByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	return r.findOne(ctx, bson.M{"barcode": barcode})
}

// GetByInventoryItemID retrieves the product whose variant is backed by the
// given Shopify inventory item.
func (r *MongoProductRepository) GetByInventoryItemID(ctx context.Context, inventoryItemID uint64) (*domain.Product, error) {
	return r.findOne(ctx, bson.M{"inventory_item_id": int64(inventoryItemID)})
}

// Create inserts a new product and assigns its generated id back.
func (r *MongoProductRepository) Create(ctx context.Context, product *domain.Product) error {
	doc := entity.MongoProductDocFromDomain(product)
	now := time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	product.ID = doc.ID.Hex()
	product.CreatedAt = doc.CreatedAt
	product.UpdatedAt = doc.UpdatedAt
	return nil
}

// Update applies a partial update; nil fields are left untouched. A non-nil
// ExternalIDs map replaces the stored mapping wholesale, which is how the
// sync engine records and clears remote linkage.
func (r *MongoProductRepository) Update(ctx context.Context, id string, update *domain.ProductUpdate) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid product id %q", id)
	}

	set := bson.M{"updated_at": time.Now()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Barcode != nil {
		set["barcode"] = *update.Barcode
	}
	if update.Price != nil {
		set["price"] = update.Price.String()
	}
	if update.Stock != nil {
		set["stock"] = *update.Stock
	}
	if update.ImageURL != nil {
		set["image_url"] = *update.ImageURL
	}
	if update.ProductTypeID != nil {
		set["product_type_id"] = *update.ProductTypeID
	}
	if update.SKUID != nil {
		set["sku_id"] = *update.SKUID
	}
	if update.ExternalIDs != nil {
		set["external_ids"] = update.ExternalIDs
	}
	if update.InventoryItemID != nil {
		set["inventory_item_id"] = int64(*update.InventoryItemID)
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("product not found: %s", id)
	}
	return nil
}

// Delete removes a product.
func (r *MongoProductRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid product id %q", id)
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("product not found: %s", id)
	}
	return nil
}

func (r *MongoProductRepository) findOne(ctx context.Context, filter bson.M) (*domain.Product, error) {
	var doc entity.MongoProductDoc
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return doc.ToDomain(), nil
}
