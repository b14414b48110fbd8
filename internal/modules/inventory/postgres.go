package inventory

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Guizaa22/2M-market/internal/apperr"
	"github.com/Guizaa22/2M-market/internal/database"
	"github.com/Guizaa22/2M-market/internal/modules/catalog"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Apply(ctx context.Context, productID, accountID int64, reason string, next func(old int) (int, error)) (*Adjustment, error) {
	a := &Adjustment{ProductID: productID, AccountID: accountID, Reason: reason}
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`SELECT stock_quantity FROM products WHERE id=$1 FOR UPDATE`, productID).
			Scan(&a.OldQuantity)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("product", productID)
		}
		if err != nil {
			return apperr.Persistence("lock product", err)
		}

		if a.NewQuantity, err = next(a.OldQuantity); err != nil {
			return err
		}

		if err := catalog.NewPostgresRepository(tx).AdjustStock(ctx, productID, a.NewQuantity); err != nil {
			return err
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO stock_adjustments (product_id, account_id, old_quantity, new_quantity, reason)
			VALUES ($1, NULLIF($2, 0), $3, $4, $5)
			RETURNING id, created_at`,
			productID, accountID, a.OldQuantity, a.NewQuantity, reason).
			Scan(&a.ID, &a.CreatedAt)
		return apperr.Persistence("insert stock adjustment", err)
	})
	if err != nil {
		if errors.Is(err, apperr.ErrPersistence) || errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrValidation) {
			return nil, err
		}
		return nil, apperr.Persistence("adjust stock", err)
	}
	return a, nil
}

func (r *postgresRepo) ListAdjustments(ctx context.Context, productID int64, limit int) ([]*Adjustment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, COALESCE(account_id, 0), old_quantity, new_quantity, reason, created_at
		FROM stock_adjustments
		WHERE product_id=$1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, productID, limit)
	if err != nil {
		return nil, apperr.Persistence("list stock adjustments", err)
	}
	defer rows.Close()

	var out []*Adjustment
	for rows.Next() {
		a := &Adjustment{}
		if err := rows.Scan(&a.ID, &a.ProductID, &a.AccountID, &a.OldQuantity, &a.NewQuantity,
			&a.Reason, &a.CreatedAt); err != nil {
			return nil, apperr.Persistence("scan stock adjustment", err)
		}
		out = append(out, a)
	}
	return out, apperr.Persistence("list stock adjustments", rows.Err())
}
