package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"inventoryapi/internal/model"
)

// ProductRepository defines data access for products using SQL queries only.
type ProductRepository interface {
	// Create inserts a product and returns its generated id.
	Create(ctx context.Context, p *model.Product) (int64, error)

	// FindByID returns a product by id.
	FindByID(ctx context.Context, id int64) (*model.Product, error)

	// List returns products matching the filter ordered by id.
	List(ctx context.Context, f ProductFilter) ([]model.Product, error)

	// Update sets only the fields present in u.
	Update(ctx context.Context, id int64, u ProductUpdate) error

	// AdjustQuantity adds delta to the stock and returns the new quantity.
	// ErrInsufficientStock is returned when the result would be negative.
	AdjustQuantity(ctx context.Context, id int64, delta int) (int, error)

	// SetImage stores or clears (nil) the object key of the product image.
	SetImage(ctx context.Context, id int64, key *string) error

	// Delete removes a product by id.
	Delete(ctx context.Context, id int64) error

	// ListRefsBySupplierIDs returns the products of each given supplier.
	// Suppliers without products are absent from the map.
	ListRefsBySupplierIDs(ctx context.Context, supplierIDs []int64) (map[int64][]model.ProductRef, error)
}

// ProductFilter narrows a product listing. Zero values do not filter.
type ProductFilter struct {
	Status     string
	SupplierID *int64
	PageQuery
}

// ProductUpdate is a partial product update; nil fields are left untouched.
// ClearSupplier sets supplier_id to NULL when SupplierID is nil.
type ProductUpdate struct {
	Name          *string
	SKU           *string
	Price         *decimal.Decimal
	Quantity      *int
	SupplierID    *int64
	ClearSupplier bool
	Status        *string
	Description   *string
}

// Assignments lists the set fields in column order.
func (u ProductUpdate) Assignments() []Assignment {
	var out []Assignment
	if u.Name != nil {
		out = append(out, Assignment{"name", *u.Name})
	}
	if u.SKU != nil {
		out = append(out, Assignment{"sku", *u.SKU})
	}
	if u.Price != nil {
		out = append(out, Assignment{"price", *u.Price})
	}
	if u.Quantity != nil {
		out = append(out, Assignment{"quantity", *u.Quantity})
	}
	switch {
	case u.SupplierID != nil:
		out = append(out, Assignment{"supplier_id", *u.SupplierID})
	case u.ClearSupplier:
		out = append(out, Assignment{"supplier_id", nil})
	}
	if u.Status != nil {
		out = append(out, Assignment{"status", *u.Status})
	}
	if u.Description != nil {
		out = append(out, Assignment{"description", *u.Description})
	}
	return out
}

// IsEmpty reports whether no field is set.
func (u ProductUpdate) IsEmpty() bool {
	return len(u.Assignments()) == 0
}

// StatusOnly reports whether status is the only field set.
func (u ProductUpdate) StatusOnly() bool {
	as := u.Assignments()
	return len(as) == 1 && as[0].Column == "status"
}
