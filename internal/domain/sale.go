package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale records a quantity of a product sold at its price at the time of sale.
type Sale struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
	SoldBy    string          `json:"sold_by"`
	CreatedAt time.Time       `json:"created_at"`
}
