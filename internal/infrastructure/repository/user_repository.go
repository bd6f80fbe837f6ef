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

// MongoUserRepository implements UserRepository using MongoDB.
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoDB user repository and ensures
// the unique email and token indexes.
func NewMongoUserRepository(db *mongo.Database) (ports.UserRepository, error) {
	collection := db.Collection("users")

	for _, keys := range []bson.D{
		{{Key: "email", Value: 1}},
		{{Key: "token", Value: 1}},
	} {
		indexModel := mongo.IndexModel{
			Keys:    keys,
			Options: options.Index().SetUnique(true),
		}
		if _, err := collection.Indexes().CreateOne(context.Background(), indexModel); err != nil {
			return nil, fmt.Errorf("failed to create user indexes: %w", err)
		}
	}

	return &MongoUserRepository{collection: collection}, nil
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": objID})
}

func (r *MongoUserRepository) GetByToken(ctx context.Context, token string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"token": token})
}

func (r *MongoUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*domain.User
	for cursor.Next(ctx) {
		var doc entity.MongoUserDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode user: %w", err)
		}
		users = append(users, doc.ToDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) error {
	doc := entity.MongoUserDocFromDomain(user)
	now := time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.ID = doc.ID.Hex()
	user.CreatedAt = doc.CreatedAt
	user.UpdatedAt = doc.UpdatedAt
	return nil
}

func (r *MongoUserRepository) Update(ctx context.Context, user *domain.User) error {
	objID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return fmt.Errorf("invalid user id %q", user.ID)
	}
	update := bson.M{"$set": bson.M{
		"email":      user.Email,
		"name":       user.Name,
		"role":       user.Role,
		"token":      user.Token,
		"updated_at": time.Now(),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user not found: %s", user.ID)
	}
	return nil
}

func (r *MongoUserRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid user id %q", id)
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("user not found: %s", id)
	}
	return nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc entity.MongoUserDoc
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return doc.ToDomain(), nil
}
