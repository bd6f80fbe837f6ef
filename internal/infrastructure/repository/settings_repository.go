package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/clivewatts/stock-tracker/internal/domain"
	"github.com/clivewatts/stock-tracker/internal/infrastructure/repository/entity"
	"github.com/clivewatts/stock-tracker/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSettingsRepository implements SettingsRepository using MongoDB. The
// integration type is the upsert key, so at most one record exists per
// integration.
type MongoSettingsRepository struct {
	collection *mongo.Collection
}

// NewMongoSettingsRepository creates a new MongoDB settings repository and
// ensures the unique type index.
func NewMongoSettingsRepository(db *mongo.Database) (ports.SettingsRepository, error) {
	collection := db.Collection("integration_settings")

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "type", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(context.Background(), indexModel); err != nil {
		return nil, fmt.Errorf("failed to create settings indexes: %w", err)
	}

	return &MongoSettingsRepository{collection: collection}, nil
}

// Get retrieves settings for an integration type. Returns (nil, nil) when the
// integration has never been configured; callers treat that as a quiescent
// state, not an error.
func (r *MongoSettingsRepository) Get(ctx context.Context, integrationType string) (*domain.IntegrationSettings, error) {
	var doc entity.MongoIntegrationSettingsDoc
	err := r.collection.FindOne(ctx, bson.M{"type": integrationType}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get integration settings: %w", err)
	}
	return doc.ToDomain(), nil
}

// Upsert creates or replaces the settings record for an integration type.
func (r *MongoSettingsRepository) Upsert(ctx context.Context, settings *domain.IntegrationSettings) error {
	doc := entity.MongoIntegrationSettingsDocFromDomain(settings)
	now := time.Now()

	update := bson.M{
		"$set": bson.M{
			"is_enabled": doc.IsEnabled,
			"settings":   doc.Settings,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"type":       doc.Type,
			"created_at": now,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, bson.M{"type": doc.Type}, update, opts); err != nil {
		return fmt.Errorf("failed to upsert integration settings: %w", err)
	}
	return nil
}
