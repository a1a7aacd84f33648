package mysql

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	driver "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventoryapi/internal/model"
	"inventoryapi/internal/repository"
)

func strPtr(v string) *string { return &v }

func TestProductMySQL_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProductMySQL(db)
	ctx := context.Background()
	price := decimal.RequireFromString("3.20")

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO products").
			WithArgs("Bolt", "B-1", price, 100, nil, "Active", "zinc").
			WillReturnResult(sqlmock.NewResult(12, 1))

		id, err := repo.Create(ctx, &model.Product{Name: "Bolt", SKU: "B-1", Price: price, Quantity: 100, Status: "Active", Description: strPtr("zinc")})
		assert.NoError(t, err)
		assert.Equal(t, int64(12), id)
	})

	t.Run("duplicate sku", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO products").
			WillReturnError(&driver.MySQLError{Number: 1062, Message: "Duplicate entry 'B-1' for key 'sku'"})

		_, err := repo.Create(ctx, &model.Product{Name: "Bolt", SKU: "B-1", Price: price, Status: "Active"})
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})

	t.Run("unknown supplier", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO products").
			WillReturnError(&driver.MySQLError{Number: 1452, Message: "Cannot add or update a child row"})

		_, err := repo.Create(ctx, &model.Product{Name: "Bolt", SKU: "B-2", Price: price, Status: "Active"})
		assert.ErrorIs(t, err, repository.ErrInvalidReference)
	})

	t.Run("value out of range", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO products").
			WillReturnError(&driver.MySQLError{Number: 1264, Message: "Out of range value for column 'quantity' at row 1"})

		_, err := repo.Create(ctx, &model.Product{Name: "Bolt", SKU: "B-3", Price: price, Quantity: 2147483647, Status: "Active"})
		assert.ErrorIs(t, err, repository.ErrOutOfRange)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductMySQL_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProductMySQL(db)
	now := time.Now()
	cols := []string{"product_id", "name", "sku", "price", "quantity", "supplier_id", "status", "description", "image_key", "created_at", "updated_at"}

	mock.ExpectQuery(regexp.QuoteMeta("FROM products WHERE status = ? ORDER BY product_id LIMIT 18446744073709551615 OFFSET ?")).
		WithArgs("Active", 5).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(6, "Bolt", "B-1", []byte("3.20"), 100, int64(1), "Active", nil, nil, now, now))

	items, err := repo.List(context.Background(), repository.ProductFilter{
		Status:    "Active",
		PageQuery: repository.PageQuery{Offset: 5},
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "3.2", items[0].Price.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductMySQL_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProductMySQL(db)
	price := decimal.RequireFromString("9.99")

	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET sku = ?, price = ? WHERE product_id = ?")).
		WithArgs("B-9", price, int64(6)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Update(context.Background(), 6, repository.ProductUpdate{SKU: strPtr("B-9"), Price: &price})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductMySQL_AdjustQuantity(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		id      int64
		delta   int
		setup   func(mock sqlmock.Sqlmock)
		wantQty int
		wantErr error
	}{
		{
			name:  "success",
			id:    1,
			delta: 5,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("UPDATE products SET quantity = quantity \\+ \\?").
					WithArgs(5, int64(1), 5).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery("SELECT quantity FROM products").
					WithArgs(int64(1)).
					WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(15))
				mock.ExpectCommit()
			},
			wantQty: 15,
		},
		{
			name:  "insufficient stock",
			id:    1,
			delta: -50,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("UPDATE products SET quantity").
					WithArgs(-50, int64(1), -50).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery("SELECT quantity FROM products").
					WithArgs(int64(1)).
					WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(10))
				mock.ExpectRollback()
			},
			wantErr: repository.ErrInsufficientStock,
		},
		{
			name:  "missing product",
			id:    404,
			delta: 1,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("UPDATE products SET quantity").
					WithArgs(1, int64(404), 1).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery("SELECT quantity FROM products").
					WithArgs(int64(404)).
					WillReturnRows(sqlmock.NewRows([]string{"quantity"}))
				mock.ExpectRollback()
			},
			wantErr: sql.ErrNoRows,
		},
		{
			name:  "begin fails",
			id:    1,
			delta: 5,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errors.New("conn refused"))
			},
			wantErr: errors.New("begin tx: conn refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.setup(mock)

			qty, err := NewProductMySQL(db).AdjustQuantity(ctx, tt.id, tt.delta)
			switch {
			case tt.wantErr == nil:
				assert.NoError(t, err)
				assert.Equal(t, tt.wantQty, qty)
			case errors.Is(tt.wantErr, repository.ErrInsufficientStock), errors.Is(tt.wantErr, sql.ErrNoRows):
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				assert.EqualError(t, err, tt.wantErr.Error())
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestProductMySQL_ListRefsBySupplierIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE supplier_id IN (?, ?) ORDER BY product_id")).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "name", "supplier_id"}).
			AddRow(3, "Bolt", 2))

	refs, err := NewProductMySQL(db).ListRefsBySupplierIDs(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []model.ProductRef{{ID: 3, Name: "Bolt"}}, refs[2])
	assert.NotContains(t, refs, int64(1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductMySQL_ListRefsBySupplierIDs_Batches(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	prev := refsBatchSize
	refsBatchSize = 2
	defer func() { refsBatchSize = prev }()

	cols := []string{"product_id", "name", "supplier_id"}
	mock.ExpectQuery(regexp.QuoteMeta("WHERE supplier_id IN (?, ?) ORDER BY product_id")).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(4, "Nut", 1).AddRow(7, "Gear", 1))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE supplier_id IN (?) ORDER BY product_id")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(5, "Bolt", 3))

	refs, err := NewProductMySQL(db).ListRefsBySupplierIDs(context.Background(), []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []model.ProductRef{{ID: 4, Name: "Nut"}, {ID: 7, Name: "Gear"}}, refs[1])
	assert.Equal(t, []model.ProductRef{{ID: 5, Name: "Bolt"}}, refs[3])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductMySQL_ListRefsBySupplierIDs_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	refs, err := NewProductMySQL(db).ListRefsBySupplierIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, refs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSupplierMySQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSupplierMySQL(db)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectExec("INSERT INTO suppliers").
		WithArgs("Acme", "Ali", "012", nil, nil).
		WillReturnResult(sqlmock.NewResult(8, 1))
	id, err := repo.Create(ctx, &model.Supplier{Name: "Acme", ContactPerson: strPtr("Ali"), Phone: strPtr("012")})
	require.NoError(t, err)
	assert.Equal(t, int64(8), id)

	mock.ExpectQuery(regexp.QuoteMeta("FROM suppliers ORDER BY supplier_id LIMIT ?")).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"supplier_id", "name", "contact_person", "phone", "email", "address", "created_at", "updated_at"}).
			AddRow(8, "Acme", "Ali", "012", nil, nil, now, now))
	items, err := repo.List(ctx, repository.PageQuery{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, items, 1)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE suppliers SET address = ? WHERE supplier_id = ?")).
		WithArgs("Shah Alam", int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Update(ctx, 8, repository.SupplierUpdate{Address: strPtr("Shah Alam")}))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM suppliers WHERE supplier_id = ?")).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(ctx, 9), sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}
