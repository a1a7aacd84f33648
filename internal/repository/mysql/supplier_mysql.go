package mysql

import (
	"context"
	"database/sql"

	"inventoryapi/internal/model"
	"inventoryapi/internal/repository"
)

const supplierColumns = `supplier_id, name, contact_person, phone, email, address, created_at, updated_at`

// SupplierMySQL is a MySQL implementation of repository.SupplierRepository.
type SupplierMySQL struct {
	db *sql.DB
}

func NewSupplierMySQL(db *sql.DB) *SupplierMySQL {
	return &SupplierMySQL{db: db}
}

var _ repository.SupplierRepository = (*SupplierMySQL)(nil)

func scanSupplier(row rowScanner) (*model.Supplier, error) {
	var s model.Supplier
	err := row.Scan(&s.ID, &s.Name, &s.ContactPerson, &s.Phone, &s.Email, &s.Address, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SupplierMySQL) Create(ctx context.Context, s *model.Supplier) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO suppliers (name, contact_person, phone, email, address)
		VALUES (?, ?, ?, ?, ?)`,
		s.Name, s.ContactPerson, s.Phone, s.Email, s.Address,
	)
	if err != nil {
		return 0, mapError(err)
	}
	return res.LastInsertId()
}

func (r *SupplierMySQL) FindByID(ctx context.Context, id int64) (*model.Supplier, error) {
	return scanSupplier(r.db.QueryRowContext(ctx,
		`SELECT `+supplierColumns+` FROM suppliers WHERE supplier_id = ?`, id))
}

func (r *SupplierMySQL) List(ctx context.Context, pq repository.PageQuery) ([]model.Supplier, error) {
	page, args := pageClause(pq, nil)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+supplierColumns+` FROM suppliers ORDER BY supplier_id`+page, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Supplier, 0)
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	return items, rows.Err()
}

func (r *SupplierMySQL) Update(ctx context.Context, id int64, u repository.SupplierUpdate) error {
	as := u.Assignments()
	if len(as) == 0 {
		return repository.ErrEmptyUpdate
	}
	set, args := setClause(as)
	res, err := r.db.ExecContext(ctx, `UPDATE suppliers SET `+set+` WHERE supplier_id = ?`, append(args, id)...)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(res)
}

func (r *SupplierMySQL) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM suppliers WHERE supplier_id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
