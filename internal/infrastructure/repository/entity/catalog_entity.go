package entity

import (
	"time"

	"github.com/clivewatts/stock-tracker/internal/domain"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoProductTypeDoc represents a product type in MongoDB.
type MongoProductTypeDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d *MongoProductTypeDoc) ToDomain() *domain.ProductType {
	return &domain.ProductType{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func MongoProductTypeDocFromDomain(productType *domain.ProductType) *MongoProductTypeDoc {
	doc := &MongoProductTypeDoc{
		Name:      productType.Name,
		CreatedAt: productType.CreatedAt,
		UpdatedAt: productType.UpdatedAt,
	}
	if productType.ID != "" {
		if objID, err := primitive.ObjectIDFromHex(productType.ID); err == nil {
			doc.ID = objID
		}
	}
	return doc
}

// MongoSKUDoc represents a SKU in MongoDB.
type MongoSKUDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Code      string             `bson:"code"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d *MongoSKUDoc) ToDomain() *domain.SKU {
	return &domain.SKU{
		ID:        d.ID.Hex(),
		Code:      d.Code,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func MongoSKUDocFromDomain(sku *domain.SKU) *MongoSKUDoc {
	doc := &MongoSKUDoc{
		Code:      sku.Code,
		CreatedAt: sku.CreatedAt,
		UpdatedAt: sku.UpdatedAt,
	}
	if sku.ID != "" {
		if objID, err := primitive.ObjectIDFromHex(sku.ID); err == nil {
			doc.ID = objID
		}
	}
	return doc
}

// MongoSaleDoc represents a sale in MongoDB. Sale ids are UUIDs generated at
// the application layer, so _id is a plain string.
type MongoSaleDoc struct {
	ID        string    `bson:"_id"`
	ProductID string    `bson:"product_id"`
	Quantity  int       `bson:"quantity"`
	UnitPrice string    `bson:"unit_price"`
	Total     string    `bson:"total"`
	SoldBy    string    `bson:"sold_by,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d *MongoSaleDoc) ToDomain() *domain.Sale {
	unitPrice, err := decimal.NewFromString(d.UnitPrice)
	if err != nil {
		unitPrice = decimal.Zero
	}
	total, err := decimal.NewFromString(d.Total)
	if err != nil {
		total = decimal.Zero
	}
	return &domain.Sale{
		ID:        d.ID,
		ProductID: d.ProductID,
		Quantity:  d.Quantity,
		UnitPrice: unitPrice,
		Total:     total,
		SoldBy:    d.SoldBy,
		CreatedAt: d.CreatedAt,
	}
}

func MongoSaleDocFromDomain(sale *domain.Sale) *MongoSaleDoc {
	return &MongoSaleDoc{
		ID:        sale.ID,
		ProductID: sale.ProductID,
		Quantity:  sale.Quantity,
		UnitPrice: sale.UnitPrice.String(),
		Total:     sale.Total.String(),
		SoldBy:    sale.SoldBy,
		CreatedAt: sale.CreatedAt,
	}
}

// MongoUserDoc represents a staff account in MongoDB.
type MongoUserDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Name      string             `bson:"name,omitempty"`
	Role      string             `bson:"role"`
	Token     string             `bson:"token"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d *MongoUserDoc) ToDomain() *domain.User {
	return &domain.User{
		ID:        d.ID.Hex(),
		Email:     d.Email,
		Name:      d.Name,
		Role:      d.Role,
		Token:     d.Token,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func MongoUserDocFromDomain(user *domain.User) *MongoUserDoc {
	doc := &MongoUserDoc{
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		Token:     user.Token,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if user.ID != "" {
		if objID, err := primitive.ObjectIDFromHex(user.ID); err == nil {
			doc.ID = objID
		}
	}
	return doc
}
