package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"inventoryapi/internal/model"
	"inventoryapi/internal/repository"
)

const productColumns = `product_id, name, sku, price, quantity, supplier_id, status, description, image_key, created_at, updated_at`

// ProductPostgres is a PostgreSQL implementation of repository.ProductRepository.
type ProductPostgres struct {
	db *sql.DB
}

// NewProductPostgres creates a new ProductPostgres repository.
func NewProductPostgres(db *sql.DB) *ProductPostgres {
	return &ProductPostgres{db: db}
}

var _ repository.ProductRepository = (*ProductPostgres)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*model.Product, error) {
	var p model.Product
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.SKU,
		&p.Price,
		&p.Quantity,
		&p.SupplierID,
		&p.Status,
		&p.Description,
		&p.ImageKey,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a product row and returns the generated id.
func (r *ProductPostgres) Create(ctx context.Context, p *model.Product) (int64, error) {
	const q = `
		INSERT INTO products (name, sku, price, quantity, supplier_id, status, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING product_id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, q,
		p.Name,
		p.SKU,
		p.Price,
		p.Quantity,
		p.SupplierID,
		p.Status,
		p.Description,
	).Scan(&id)
	if err != nil {
		return 0, mapError(err)
	}
	return id, nil
}

// FindByID fetches a single product.
func (r *ProductPostgres) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE product_id = $1`
	return scanProduct(r.db.QueryRowContext(ctx, q, id))
}

// List returns products filtered by status and supplier, ordered by id.
func (r *ProductPostgres) List(ctx context.Context, f repository.ProductFilter) ([]model.Product, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.SupplierID != nil {
		args = append(args, *f.SupplierID)
		where = append(where, fmt.Sprintf("supplier_id = $%d", len(args)))
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + productColumns + ` FROM products`)
	if len(where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY product_id")
	if f.Limit > 0 {
		args = append(args, f.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update applies a partial update. sql.ErrNoRows is returned when no row matched.
func (r *ProductPostgres) Update(ctx context.Context, id int64, u repository.ProductUpdate) error {
	as := u.Assignments()
	if len(as) == 0 {
		return repository.ErrEmptyUpdate
	}
	set, args := setClause(as)
	args = append(args, id)
	q := fmt.Sprintf(`UPDATE products SET %s, updated_at = now() WHERE product_id = $%d`, set, len(args))

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(res)
}

// AdjustQuantity changes the stock in one guarded statement.
func (r *ProductPostgres) AdjustQuantity(ctx context.Context, id int64, delta int) (int, error) {
	const q = `
		UPDATE products
		SET quantity = quantity + $1, updated_at = now()
		WHERE product_id = $2 AND quantity + $1 >= 0
		RETURNING quantity
	`
	var qty int
	err := r.db.QueryRowContext(ctx, q, delta, id).Scan(&qty)
	if err == nil {
		return qty, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, mapError(err)
	}

	// The guard or the id did not match; tell them apart.
	const qExists = `SELECT EXISTS (SELECT 1 FROM products WHERE product_id = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, qExists, id).Scan(&exists); err != nil {
		return 0, err
	}
	if exists {
		return 0, repository.ErrInsufficientStock
	}
	return 0, sql.ErrNoRows
}

// SetImage stores the image object key, or clears it when key is nil.
func (r *ProductPostgres) SetImage(ctx context.Context, id int64, key *string) error {
	const q = `UPDATE products SET image_key = $1, updated_at = now() WHERE product_id = $2`
	res, err := r.db.ExecContext(ctx, q, key, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Delete removes a product by id.
func (r *ProductPostgres) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM products WHERE product_id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// ListRefsBySupplierIDs loads the products of several suppliers in one query.
// The ids travel as a single int8[] parameter.
func (r *ProductPostgres) ListRefsBySupplierIDs(ctx context.Context, supplierIDs []int64) (map[int64][]model.ProductRef, error) {
	out := make(map[int64][]model.ProductRef, len(supplierIDs))
	if len(supplierIDs) == 0 {
		return out, nil
	}

	const q = `SELECT product_id, name, supplier_id FROM products WHERE supplier_id = ANY($1) ORDER BY product_id`
	rows, err := r.db.QueryContext(ctx, q, supplierIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ref        model.ProductRef
			supplierID int64
		)
		if err := rows.Scan(&ref.ID, &ref.Name, &supplierID); err != nil {
			return nil, err
		}
		out[supplierID] = append(out[supplierID], ref)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
