package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Guizaa22/2M-market/internal/apperr"
	"github.com/Guizaa22/2M-market/internal/database"
)

type postgresRepo struct{ db database.DBTX }

// NewPostgresRepository accepts the pool or an open transaction.
func NewPostgresRepository(db database.DBTX) Repository { return &postgresRepo{db: db} }

const productColumns = `id,barcode,name,category,unit,cost_price,sale_price,stock_quantity,alert_threshold,created_at,updated_at`

func (r *postgresRepo) Create(ctx context.Context, p *Product) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products
		  (barcode, name, category, unit, cost_price, sale_price, stock_quantity, alert_threshold)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at, updated_at`,
		p.Barcode, p.Name, p.Category, p.Unit, p.CostPrice, p.SalePrice,
		p.StockQuantity, p.AlertThreshold).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if database.IsUniqueViolation(err) {
		return apperr.Conflict("barcode %q already used", p.Barcode)
	}
	return apperr.Persistence("insert product", err)
}

func (r *postgresRepo) Update(ctx context.Context, p *Product) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE products
		SET barcode=$1, name=$2, category=$3, unit=$4, cost_price=$5, sale_price=$6,
		    alert_threshold=$7, updated_at=NOW()
		WHERE id=$8
		RETURNING stock_quantity, updated_at`,
		p.Barcode, p.Name, p.Category, p.Unit, p.CostPrice, p.SalePrice,
		p.AlertThreshold, p.ID).
		Scan(&p.StockQuantity, &p.UpdatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return apperr.NotFound("product", p.ID)
	case database.IsUniqueViolation(err):
		return apperr.Conflict("barcode %q already used", p.Barcode)
	}
	return apperr.Persistence("update product", err)
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=$1`, id)
	if database.IsForeignKeyViolation(err) {
		return apperr.Conflict("product %d appears in recorded sales", id)
	}
	if err != nil {
		return apperr.Persistence("delete product", err)
	}
	return requireRow(res, id)
}

func (r *postgresRepo) FindByID(ctx context.Context, id int64) (*Product, error) {
	return r.findOne(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id)
}

func (r *postgresRepo) FindByBarcode(ctx context.Context, barcode string) (*Product, error) {
	return r.findOne(ctx, `SELECT `+productColumns+` FROM products WHERE barcode=$1`, barcode)
}

func (r *postgresRepo) FindByExactName(ctx context.Context, name string) (*Product, error) {
	return r.findOne(ctx, `SELECT `+productColumns+` FROM products WHERE name=$1 ORDER BY id LIMIT 1`, name)
}

func (r *postgresRepo) FindByCategory(ctx context.Context, category string) ([]*Product, error) {
	return r.query(ctx, `SELECT `+productColumns+` FROM products WHERE category=$1 ORDER BY name`, category)
}

func (r *postgresRepo) FindLowStock(ctx context.Context) ([]*Product, error) {
	return r.query(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE stock_quantity <= alert_threshold
		ORDER BY stock_quantity ASC, name`)
}

func (r *postgresRepo) List(ctx context.Context, search string) ([]*Product, error) {
	if search == "" {
		return r.query(ctx, `SELECT `+productColumns+` FROM products ORDER BY name`)
	}
	return r.query(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE name ILIKE '%' || $1 || '%' OR barcode = $1
		ORDER BY name`, search)
}

func (r *postgresRepo) Categories(ctx context.Context) ([]CategoryCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category, COUNT(*) FROM products
		WHERE category <> ''
		GROUP BY category ORDER BY category`)
	if err != nil {
		return nil, apperr.Persistence("list categories", err)
	}
	defer rows.Close()
	var out []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Name, &c.Products); err != nil {
			return nil, apperr.Persistence("scan category", err)
		}
		out = append(out, c)
	}
	return out, apperr.Persistence("list categories", rows.Err())
}

func (r *postgresRepo) AdjustStock(ctx context.Context, id int64, quantity int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET stock_quantity=$1, updated_at=NOW() WHERE id=$2`, quantity, id)
	if err != nil {
		return apperr.Persistence("adjust stock", err)
	}
	return requireRow(res, id)
}

func (r *postgresRepo) BarcodeExists(ctx context.Context, barcode string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE barcode=$1 AND id<>$2)`, barcode, excludeID).
		Scan(&exists)
	if err != nil {
		return false, apperr.Persistence("check barcode", err)
	}
	return exists, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func scanProduct(scan func(...any) error) (*Product, error) {
	p := &Product{}
	err := scan(&p.ID, &p.Barcode, &p.Name, &p.Category, &p.Unit,
		&p.CostPrice, &p.SalePrice, &p.StockQuantity, &p.AlertThreshold,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) findOne(ctx context.Context, query string, arg any) (*Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, arg).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Persistence("find product", err)
	}
	return p, nil
}

func (r *postgresRepo) query(ctx context.Context, query string, args ...any) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Persistence("query products", err)
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, apperr.Persistence("scan product", err)
		}
		products = append(products, p)
	}
	return products, apperr.Persistence("query products", rows.Err())
}

func requireRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Persistence("rows affected", err)
	}
	if n == 0 {
		return apperr.NotFound("product", id)
	}
	return nil
}
