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

// MongoSKURepository implements SKURepository using MongoDB.
type MongoSKURepository struct {
	collection *mongo.Collection
}

// NewMongoSKURepository creates a new MongoDB SKU repository and ensures the
// unique code index.
func NewMongoSKURepository(db *mongo.Database) (ports.SKURepository, error) {
	collection := db.Collection("skus")

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(context.Background(), indexModel); err != nil {
		return nil, fmt.Errorf("failed to create sku indexes: %w", err)
	}

	return &MongoSKURepository{collection: collection}, nil
}

func (r *MongoSKURepository) GetByID(ctx context.Context, id string) (*domain.SKU, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": objID})
}

func (r *MongoSKURepository) GetByCode(ctx context.Context, code string) (*domain.SKU, error) {
	return r.findOne(ctx, bson.M{"code": code})
}

func (r *MongoSKURepository) List(ctx context.Context) ([]*domain.SKU, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list skus: %w", err)
	}
	defer cursor.Close(ctx)

	var skus []*domain.SKU
	for cursor.Next(ctx) {
		var doc entity.MongoSKUDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode sku: %w", err)
		}
		skus = append(skus, doc.ToDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate skus: %w", err)
	}
	return skus, nil
}

func (r *MongoSKURepository) Create(ctx context.Context, sku *domain.SKU) error {
	doc := entity.MongoSKUDocFromDomain(sku)
	now := time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create sku: %w", err)
	}

	sku.ID = doc.ID.Hex()
	sku.CreatedAt = doc.CreatedAt
	sku.UpdatedAt = doc.UpdatedAt
	return nil
}

func (r *MongoSKURepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid sku id %q", id)
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete sku: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("sku not found: %s", id)
	}
	return nil
}

func (r *MongoSKURepository) findOne(ctx context.Context, filter bson.M) (*domain.SKU, error) {
	var doc entity.MongoSKUDoc
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sku: %w", err)
	}
	return doc.ToDomain(), nil
}
