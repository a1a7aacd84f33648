package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultProductStatus is applied when a product is created without a status.
const DefaultProductStatus = "Active"

// Product is a stocked item. Price is exact to the cent and serialized as a JSON string.
type Product struct {
	ID          int64           `json:"product_id"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Price       decimal.Decimal `json:"price" swaggertype:"string" example:"12.5"`
	Quantity    int             `json:"quantity"`
	SupplierID  *int64          `json:"supplier_id"`
	Status      string          `json:"status"`
	Description *string         `json:"description"`
	ImageKey    *string         `json:"image_key,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductRef is the short form of a product nested under its supplier.
type ProductRef struct {
	ID   int64  `json:"product_id"`
	Name string `json:"name"`
}
