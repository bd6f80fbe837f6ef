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

// MongoProductTypeRepository implements ProductTypeRepository using MongoDB.
type MongoProductTypeRepository struct {
	collection *mongo.Collection
}

// NewMongoProductTypeRepository creates a new MongoDB product type repository
// and ensures the unique name index.
func NewMongoProductTypeRepository(db *mongo.Database) (ports.ProductTypeRepository, error) {
	collection := db.Collection("product_types")

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(context.Background(), indexModel); err != nil {
		return nil, fmt.Errorf("failed to create product type indexes: %w", err)
	}

	return &MongoProductTypeRepository{collection: collection}, nil
}

func (r *MongoProductTypeRepository) GetByID(ctx context.Context, id string) (*domain.ProductType, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": objID})
}

func (r *MongoProductTypeRepository) GetByName(ctx context.Context, name string) (*domain.ProductType, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *MongoProductTypeRepository) List(ctx context.Context) ([]*domain.ProductType, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list product types: %w", err)
	}
	defer cursor.Close(ctx)

	var types []*domain.ProductType
	for cursor.Next(ctx) {
		var doc entity.MongoProductTypeDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode product type: %w", err)
		}
		types = append(types, doc.ToDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate product types: %w", err)
	}
	return types, nil
}

func (r *MongoProductTypeRepository) Create(ctx context.Context, productType *domain.ProductType) error {
	doc := entity.MongoProductTypeDocFromDomain(productType)
	now := time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create product type: %w", err)
	}

	productType.ID = doc.ID.Hex()
	productType.CreatedAt = doc.CreatedAt
	productType.UpdatedAt = doc.UpdatedAt
	return nil
}

func (r *MongoProductTypeRepository) Update(ctx context.Context, productType *domain.ProductType) error {
	objID, err := primitive.ObjectIDFromHex(productType.ID)
	if err != nil {
		return fmt.Errorf("invalid product type id %q", productType.ID)
	}
	update := bson.M{"$set": bson.M{
		"name":       productType.Name,
		"updated_at": time.Now(),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("failed to update product type: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("product type not found: %s", productType.ID)
	}
	return nil
}

func (r *MongoProductTypeRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid product type id %q", id)
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete product type: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("product type not found: %s", id)
	}
	return nil
}

func (r *MongoProductTypeRepository) findOne(ctx context.Context, filter bson.M) (*domain.ProductType, error) {
	var doc entity.MongoProductTypeDoc
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product type: %w", err)
	}
	return doc.ToDomain(), nil
}
