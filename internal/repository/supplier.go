package repository

import (
	"context"

	"inventoryapi/internal/model"
)

// SupplierRepository defines data access for suppliers using SQL queries only.
// The nested product refs are loaded through ProductRepository.
type SupplierRepository interface {
	Create(ctx context.Context, s *model.Supplier) (int64, error)
	FindByID(ctx context.Context, id int64) (*model.Supplier, error)
	List(ctx context.Context, pq PageQuery) ([]model.Supplier, error)
	Update(ctx context.Context, id int64, u SupplierUpdate) error
	Delete(ctx context.Context, id int64) error
}

// SupplierUpdate is a partial supplier update; nil fields are left untouched.
type SupplierUpdate struct {
	Name          *string
	ContactPerson *string
	Phone         *string
	Email         *string
	Address       *string
}

// Assignments lists the set fields in column order.
func (u SupplierUpdate) Assignments() []Assignment {
	var out []Assignment
	for _, f := range []struct {
		col string
		val *string
	}{
		{"name", u.Name},
		{"contact_person", u.ContactPerson},
		{"phone", u.Phone},
		{"email", u.Email},
		{"address", u.Address},
	} {
		if f.val != nil {
			out = append(out, Assignment{f.col, *f.val})
		}
	}
	return out
}

// IsEmpty reports whether no field is set.
func (u SupplierUpdate) IsEmpty() bool {
	return len(u.Assignments()) == 0
}
