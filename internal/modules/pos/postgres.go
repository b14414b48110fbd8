package pos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Guizaa22/2M-market/internal/apperr"
	"github.com/Guizaa22/2M-market/internal/database"
	"github.com/Guizaa22/2M-market/internal/modules/cart"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) CreateSale(ctx context.Context, s *Sale) error {
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO sales (total, account_id)
			VALUES ($1,$2)
			RETURNING id, created_at`,
			s.Total, s.AccountID).
			Scan(&s.ID, &s.CreatedAt)
		if err != nil {
			return apperr.Persistence("insert sale", err)
		}

		for _, li := range s.Items {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO sale_details
				  (sale_id, product_id, product_name, barcode, quantity, unit_sale_price, unit_cost_price)
				VALUES ($1,$2,$3,$4,$5,$6,$7)`,
				s.ID, li.ProductID, li.Name, li.Barcode, li.Quantity, li.UnitSalePrice, li.UnitCostPrice); err != nil {
				return apperr.Persistence("insert sale detail", err)
			}

			res, err := tx.ExecContext(ctx, `
				UPDATE products SET stock_quantity = stock_quantity - $1, updated_at = NOW()
				WHERE id = $2`,
				li.Quantity, li.ProductID)
			if err != nil {
				return apperr.Persistence("decrement stock", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return apperr.Persistence("decrement stock", err)
			}
			if n == 0 {
				return apperr.Persistence("decrement stock", fmt.Errorf("product %d no longer exists", li.ProductID))
			}
		}
		return nil
	})
	if err != nil {
		s.ID = 0
		s.CreatedAt = time.Time{}
		if errors.Is(err, apperr.ErrPersistence) {
			return err
		}
		return apperr.Persistence("create sale", err)
	}
	return nil
}

func (r *postgresRepo) FindByID(ctx context.Context, id int64) (*Sale, error) {
	s := &Sale{}
	err := r.db.QueryRowContext(ctx, `
		SELECT s.id, s.created_at, s.total, s.account_id, COALESCE(a.username, '')
		FROM sales s LEFT JOIN accounts a ON a.id = s.account_id
		WHERE s.id=$1`, id).
		Scan(&s.ID, &s.CreatedAt, &s.Total, &s.AccountID, &s.Cashier)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Persistence("find sale", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, barcode, product_name, quantity, unit_sale_price, unit_cost_price
		FROM sale_details WHERE sale_id=$1 ORDER BY id`, id)
	if err != nil {
		return nil, apperr.Persistence("find sale details", err)
	}
	defer rows.Close()
	for rows.Next() {
		var li cart.LineItem
		if err := rows.Scan(&li.ProductID, &li.Barcode, &li.Name, &li.Quantity,
			&li.UnitSalePrice, &li.UnitCostPrice); err != nil {
			return nil, apperr.Persistence("scan sale detail", err)
		}
		s.Items = append(s.Items, li)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("find sale details", err)
	}
	return s, nil
}

func (r *postgresRepo) List(ctx context.Context, from, to time.Time) ([]*Sale, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.created_at, s.total, s.account_id, COALESCE(a.username, '')
		FROM sales s LEFT JOIN accounts a ON a.id = s.account_id
		WHERE s.created_at >= $1 AND s.created_at < $2
		ORDER BY s.created_at DESC, s.id DESC`, from, to)
	if err != nil {
		return nil, apperr.Persistence("list sales", err)
	}
	defer rows.Close()
	var sales []*Sale
	for rows.Next() {
		s := &Sale{}
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.Total, &s.AccountID, &s.Cashier); err != nil {
			return nil, apperr.Persistence("scan sale", err)
		}
		sales = append(sales, s)
	}
	return sales, apperr.Persistence("list sales", rows.Err())
}
