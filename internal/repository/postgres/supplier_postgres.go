package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"inventoryapi/internal/model"
	"inventoryapi/internal/repository"
)

const supplierColumns = `supplier_id, name, contact_person, phone, email, address, created_at, updated_at`

// SupplierPostgres is a PostgreSQL implementation of repository.SupplierRepository.
type SupplierPostgres struct {
	db *sql.DB
}

// NewSupplierPostgres creates a new SupplierPostgres repository.
func NewSupplierPostgres(db *sql.DB) *SupplierPostgres {
	return &SupplierPostgres{db: db}
}

var _ repository.SupplierRepository = (*SupplierPostgres)(nil)

func scanSupplier(row rowScanner) (*model.Supplier, error) {
	var s model.Supplier
	if err := row.Scan(
		&s.ID,
		&s.Name,
		&s.ContactPerson,
		&s.Phone,
		&s.Email,
		&s.Address,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a supplier row and returns the generated id.
func (r *SupplierPostgres) Create(ctx context.Context, s *model.Supplier) (int64, error) {
	const q = `
		INSERT INTO suppliers (name, contact_person, phone, email, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING supplier_id
	`
	var id int64
	if err := r.db.QueryRowContext(ctx, q, s.Name, s.ContactPerson, s.Phone, s.Email, s.Address).Scan(&id); err != nil {
		return 0, mapError(err)
	}
	return id, nil
}

// FindByID fetches a single supplier without its products.
func (r *SupplierPostgres) FindByID(ctx context.Context, id int64) (*model.Supplier, error) {
	const q = `SELECT ` + supplierColumns + ` FROM suppliers WHERE supplier_id = $1`
	return scanSupplier(r.db.QueryRowContext(ctx, q, id))
}

// List returns suppliers ordered by id.
func (r *SupplierPostgres) List(ctx context.Context, pq repository.PageQuery) ([]model.Supplier, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT ` + supplierColumns + ` FROM suppliers ORDER BY supplier_id`)
	if pq.Limit > 0 {
		args = append(args, pq.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if pq.Offset > 0 {
		args = append(args, pq.Offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
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
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update applies a partial update. sql.ErrNoRows is returned when no row matched.
func (r *SupplierPostgres) Update(ctx context.Context, id int64, u repository.SupplierUpdate) error {
	as := u.Assignments()
	if len(as) == 0 {
		return repository.ErrEmptyUpdate
	}
	set, args := setClause(as)
	args = append(args, id)
	q := fmt.Sprintf(`UPDATE suppliers SET %s, updated_at = now() WHERE supplier_id = $%d`, set, len(args))

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(res)
}

// Delete removes a supplier. Its products keep their rows with supplier_id set to NULL.
func (r *SupplierPostgres) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM suppliers WHERE supplier_id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
