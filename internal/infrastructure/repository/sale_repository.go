package repository

import (
	"context"
	"fmt"

	"github.com/clivewatts/stock-tracker/internal/domain"
	"github.com/clivewatts/stock-tracker/internal/infrastructure/repository/entity"
	"github.com/clivewatts/stock-tracker/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSaleRepository implements SaleRepository using MongoDB.
type MongoSaleRepository struct {
	collection *mongo.Collection
}

// NewMongoSaleRepository creates a new MongoDB sale repository.
func NewMongoSaleRepository(db *mongo.Database) ports.SaleRepository {
	return &MongoSaleRepository{
		collection: db.Collection("sales"),
	}
}

func (r *MongoSaleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	doc := entity.MongoSaleDocFromDomain(sale)
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create sale: %w", err)
	}
	return nil
}

func (r *MongoSaleRepository) List(ctx context.Context) ([]*domain.Sale, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoSaleRepository) ListByProduct(ctx context.Context, productID string) ([]*domain.Sale, error) {
	return r.find(ctx, bson.M{"product_id": productID})
}

func (r *MongoSaleRepository) find(ctx context.Context, filter bson.M) ([]*domain.Sale, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer cursor.Close(ctx)

	var sales []*domain.Sale
	for cursor.Next(ctx) {
		var doc entity.MongoSaleDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode sale: %w", err)
		}
		sales = append(sales, doc.ToDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sales: %w", err)
	}
	return sales, nil
}
