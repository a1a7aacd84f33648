package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"inventoryapi/internal/model"
	"inventoryapi/internal/repository"
)

const productColumns = `product_id, name, sku, price, quantity, supplier_id, status, description, image_key, created_at, updated_at`

// ProductMySQL is a MySQL implementation of repository.ProductRepository.
// The DSN must enable clientFoundRows so unchanged rows still count as matched.
type ProductMySQL struct {
	db *sql.DB
}

func NewProductMySQL(db *sql.DB) *ProductMySQL {
	return &ProductMySQL{db: db}
}

var _ repository.ProductRepository = (*ProductMySQL)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Price, &p.Quantity, &p.SupplierID,
		&p.Status, &p.Description, &p.ImageKey, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductMySQL) Create(ctx context.Context, p *model.Product) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO products (name, sku, price, quantity, supplier_id, status, description)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.SKU, p.Price, p.Quantity, p.SupplierID, p.Status, p.Description,
	)
	if err != nil {
		return 0, mapError(err)
	}
	return res.LastInsertId()
}

func (r *ProductMySQL) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	return scanProduct(r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE product_id = ?`, id))
}

func (r *ProductMySQL) List(ctx context.Context, f repository.ProductFilter) ([]model.Product, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if f.SupplierID != nil {
		where = append(where, "supplier_id = ?")
		args = append(args, *f.SupplierID)
	}

	q := `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY product_id"
	page, args := pageClause(f.PageQuery, args)
	q += page

	rows, err := r.db.QueryContext(ctx, q, args...)
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
	return items, rows.Err()
}

func (r *ProductMySQL) Update(ctx context.Context, id int64, u repository.ProductUpdate) error {
	as := u.Assignments()
	if len(as) == 0 {
		return repository.ErrEmptyUpdate
	}
	set, args := setClause(as)
	res, err := r.db.ExecContext(ctx, `UPDATE products SET `+set+` WHERE product_id = ?`, append(args, id)...)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(res)
}

// AdjustQuantity runs the guarded update and reads the result back inside one
// transaction, since MySQL has no UPDATE ... RETURNING.
func (r *ProductMySQL) AdjustQuantity(ctx context.Context, id int64, delta int) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE products
		SET quantity = quantity + ?
		WHERE product_id = ? AND quantity + ? >= 0`,
		delta, id, delta,
	)
	if err != nil {
		return 0, mapError(err)
	}

	var qty int
	err = tx.QueryRowContext(ctx, `SELECT quantity FROM products WHERE product_id = ?`, id).Scan(&qty)
	if err != nil {
		return 0, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, repository.ErrInsufficientStock
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return qty, nil
}

func (r *ProductMySQL) SetImage(ctx context.Context, id int64, key *string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE products SET image_key = ? WHERE product_id = ?`, key, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *ProductMySQL) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE product_id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// refsBatchSize caps the ids bound in one IN list, keeping each statement
// well under the prepared statement placeholder limit.
var refsBatchSize = 1000

// ListRefsBySupplierIDs loads the products of the given suppliers, one query
// per batch of ids.
func (r *ProductMySQL) ListRefsBySupplierIDs(ctx context.Context, supplierIDs []int64) (map[int64][]model.ProductRef, error) {
	out := make(map[int64][]model.ProductRef, len(supplierIDs))
	for start := 0; start < len(supplierIDs); start += refsBatchSize {
		end := min(start+refsBatchSize, len(supplierIDs))
		if err := r.loadRefs(ctx, supplierIDs[start:end], out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *ProductMySQL) loadRefs(ctx context.Context, supplierIDs []int64, out map[int64][]model.ProductRef) error {
	args := make([]any, len(supplierIDs))
	for i, id := range supplierIDs {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT product_id, name, supplier_id FROM products WHERE supplier_id IN (`+placeholders(len(args))+`) ORDER BY product_id`,
		args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ref        model.ProductRef
			supplierID int64
		)
		if err := rows.Scan(&ref.ID, &ref.Name, &supplierID); err != nil {
			return err
		}
		out[supplierID] = append(out[supplierID], ref)
	}
	return rows.Err()
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
