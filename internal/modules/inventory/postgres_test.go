package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guizaa22/2M-market/internal/apperr"
)

func newMock(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func setTo(n int) func(int) (int, error) {
	return func(int) (int, error) { return n, nil }
}

func TestApplyLocksUpdatesAndJournals(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT stock_quantity FROM products WHERE id=\\$1 FOR UPDATE").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}).AddRow(4))
	mock.ExpectExec("UPDATE products SET stock_quantity").
		WithArgs(10, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO stock_adjustments").
		WithArgs(int64(3), int64(1), 4, 10, "livraison").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(8, now))
	mock.ExpectCommit()

	a, err := repo.Apply(context.Background(), 3, 1, "livraison", setTo(10))

	require.NoError(t, err)
	assert.Equal(t, int64(8), a.ID)
	assert.Equal(t, 6, a.Delta())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyMissingProduct(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}))
	mock.ExpectRollback()

	_, err := repo.Apply(context.Background(), 3, 1, "", setTo(10))

	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyRejectedQuantityRollsBack(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}).AddRow(2))
	mock.ExpectRollback()

	_, err := repo.Apply(context.Background(), 3, 1, "", func(old int) (int, error) {
		return 0, apperr.Invalid("only %d in stock", old)
	})

	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyStockWriteFailureRollsBack(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}).AddRow(2))
	mock.ExpectExec("UPDATE products SET stock_quantity").
		WithArgs(5, int64(3)).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := repo.Apply(context.Background(), 3, 1, "", setTo(5))

	assert.ErrorIs(t, err, apperr.ErrPersistence)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyJournalFailureRollsBack(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}).AddRow(2))
	mock.ExpectExec("UPDATE products").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO stock_adjustments").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := repo.Apply(context.Background(), 3, 1, "", setTo(5))

	assert.ErrorIs(t, err, apperr.ErrPersistence)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAdjustments(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()
	mock.ExpectQuery("FROM stock_adjustments").
		WithArgs(int64(3), 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "account_id", "old_quantity", "new_quantity", "reason", "created_at"}).
			AddRow(2, 3, 1, 10, 7, "casse", now).
			AddRow(1, 3, 0, 4, 10, "", now.Add(-time.Hour)))

	list, err := repo.ListAdjustments(context.Background(), 3, 20)

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, -3, list[0].Delta())
	assert.Zero(t, list[1].AccountID)
}
