package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guizaa22/2M-market/internal/apperr"
)

var cols = []string{"id", "barcode", "name", "category", "unit", "cost_price", "sale_price",
	"stock_quantity", "alert_threshold", "created_at", "updated_at"}

func newMock(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestFindByBarcodeScansProduct(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()
	mock.ExpectQuery("FROM products WHERE barcode").
		WithArgs("6111000000017").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(3, "6111000000017", "Lait", "Crèmerie", "unité", "6.20", "7.00", 4, 6, now, now))

	p, err := repo.FindByBarcode(context.Background(), "6111000000017")

	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, int64(3), p.ID)
	assert.True(t, p.SalePrice.Equal(decimal.RequireFromString("7")))
	assert.True(t, p.IsLowStock())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDNoRowsIsNil(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("FROM products WHERE id").WillReturnRows(sqlmock.NewRows(cols))

	p, err := repo.FindByID(context.Background(), 8)

	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestCreateUniqueViolationIsConflict(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("INSERT INTO products").WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &Product{Barcode: "1", Name: "x"})

	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestCreateAssignsID(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()
	mock.ExpectQuery("INSERT INTO products").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(11, now, now))

	p := &Product{Barcode: "1", Name: "x", Unit: DefaultUnit}
	require.NoError(t, repo.Create(context.Background(), p))

	assert.Equal(t, int64(11), p.ID)
}

func TestDeleteReferencedProductIsConflict(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec("DELETE FROM products").WillReturnError(&pq.Error{Code: "23503"})

	err := repo.Delete(context.Background(), 4)

	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestUpdateLeavesStockToTheDatabase(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()
	p := &Product{ID: 3, Barcode: "6111000000017", Name: "Lait", Unit: DefaultUnit,
		CostPrice: decimal.RequireFromString("6.20"), SalePrice: decimal.RequireFromString("7.00"),
		StockQuantity: 99, AlertThreshold: 6}
	mock.ExpectQuery(`UPDATE products\s+SET barcode=\$1, name=\$2, category=\$3, unit=\$4, cost_price=\$5, sale_price=\$6,\s+alert_threshold=\$7, updated_at=NOW\(\)\s+WHERE id=\$8\s+RETURNING stock_quantity, updated_at`).
		WithArgs(p.Barcode, p.Name, p.Category, p.Unit, p.CostPrice, p.SalePrice, 6, int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity", "updated_at"}).AddRow(12, now))

	require.NoError(t, repo.Update(context.Background(), p))

	assert.Equal(t, 12, p.StockQuantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustStockMissingRow(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec("UPDATE products SET stock_quantity").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.AdjustStock(context.Background(), 4, 10)

	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestQueryFailureIsPersistenceError(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("stock_quantity <= alert_threshold").WillReturnError(assert.AnError)

	_, err := repo.FindLowStock(context.Background())

	assert.ErrorIs(t, err, apperr.ErrPersistence)
}

func TestBarcodeExists(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("6111", int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.BarcodeExists(context.Background(), "6111", 2)

	require.NoError(t, err)
	assert.True(t, exists)
}
