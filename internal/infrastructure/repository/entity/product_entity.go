package entity

import (
	"time"

	"github.com/clivewatts/stock-tracker/internal/domain"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoProductDoc represents a product in MongoDB. Prices are stored as
// strings to keep decimal precision across the driver boundary.
type MongoProductDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Name            string             `bson:"name"`
	Description     string             `bson:"description,omitempty"`
	Barcode         string             `bson:"barcode,omitempty"`
	Price           string             `bson:"price"`
	Stock           int                `bson:"stock"`
	ImageURL        string             `bson:"image_url,omitempty"`
	ProductTypeID   string             `bson:"product_type_id,omitempty"`
	SKUID           string             `bson:"sku_id,omitempty"`
	ExternalIDs     map[string]string  `bson:"external_ids,omitempty"`
	InventoryItemID int64              `bson:"inventory_item_id,omitempty"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

// ToDomain converts the MongoDB document to a domain entity.
func (d *MongoProductDoc) ToDomain() *domain.Product {
	price, err := decimal.NewFromString(d.Price)
	if err != nil {
		price = decimal.Zero
	}
	return &domain.Product{
		ID:              d.ID.Hex(),
		Name:            d.Name,
		Description:     d.Description,
		Barcode:         d.Barcode,
		Price:           price,
		Stock:           d.Stock,
		ImageURL:        d.ImageURL,
		ProductTypeID:   d.ProductTypeID,
		SKUID:           d.SKUID,
		ExternalIDs:     d.ExternalIDs,
		InventoryItemID: uint64(d.InventoryItemID),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// MongoProductDocFromDomain converts a domain entity to a MongoDB document.
func MongoProductDocFromDomain(product *domain.Product) *MongoProductDoc {
	doc := &MongoProductDoc{
		Name:            product.Name,
		Description:     product.Description,
		Barcode:         product.Barcode,
		Price:           product.Price.String(),
		Stock:           product.Stock,
		ImageURL:        product.ImageURL,
		ProductTypeID:   product.ProductTypeID,
		SKUID:           product.SKUID,
		ExternalIDs:     product.ExternalIDs,
		InventoryItemID: int64(product.InventoryItemID),
		CreatedAt:       product.CreatedAt,
		UpdatedAt:       product.UpdatedAt,
	}
	if product.ID != "" {
		if objID, err := primitive.ObjectIDFromHex(product.ID); err == nil {
			doc.ID = objID
		}
	}
	return doc
}
