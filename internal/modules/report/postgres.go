package report

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Guizaa22/2M-market/internal/apperr"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const lineRevenue = `d.unit_sale_price * d.quantity`
const lineProfit = `(d.unit_sale_price - d.unit_cost_price) * d.quantity`

func (r *postgresRepo) Revenue(ctx context.Context, p Period) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(total), 0) FROM sales
		WHERE created_at >= $1 AND created_at < $2`, p.From, p.To).Scan(&total)
	if err != nil {
		return decimal.Zero, apperr.Persistence("revenue", err)
	}
	return total, nil
}

func (r *postgresRepo) SalesCount(ctx context.Context, p Period) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sales
		WHERE created_at >= $1 AND created_at < $2`, p.From, p.To).Scan(&n)
	if err != nil {
		return 0, apperr.Persistence("count sales", err)
	}
	return n, nil
}

func (r *postgresRepo) Profit(ctx context.Context, p Period) (decimal.Decimal, error) {
	var profit decimal.Decimal
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(`+lineProfit+`), 0)
		FROM sale_details d JOIN sales s ON s.id = d.sale_id
		WHERE s.created_at >= $1 AND s.created_at < $2`, p.From, p.To).Scan(&profit)
	if err != nil {
		return decimal.Zero, apperr.Persistence("profit", err)
	}
	return profit, nil
}

func (r *postgresRepo) TopProductsByQuantity(ctx context.Context, p Period, n int) ([]ProductStat, error) {
	return r.topProducts(ctx, p, n, `quantity DESC, revenue DESC`)
}

func (r *postgresRepo) TopProductsByProfit(ctx context.Context, p Period, n int) ([]ProductStat, error) {
	return r.topProducts(ctx, p, n, `profit DESC, quantity DESC`)
}

func (r *postgresRepo) topProducts(ctx context.Context, p Period, n int, orderBy string) ([]ProductStat, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT d.product_id, MAX(d.product_name) AS name, SUM(d.quantity) AS quantity,
		       SUM(`+lineRevenue+`) AS revenue, SUM(`+lineProfit+`) AS profit
		FROM sale_details d JOIN sales s ON s.id = d.sale_id
		WHERE s.created_at >= $1 AND s.created_at < $2
		GROUP BY d.product_id
		ORDER BY `+orderBy+`, d.product_id
		LIMIT $3`, p.From, p.To, n)
	if err != nil {
		return nil, apperr.Persistence("top products", err)
	}
	defer rows.Close()

	var out []ProductStat
	for rows.Next() {
		var s ProductStat
		if err := rows.Scan(&s.ProductID, &s.Name, &s.Quantity, &s.Revenue, &s.Profit); err != nil {
			return nil, apperr.Persistence("scan top product", err)
		}
		out = append(out, s)
	}
	return out, apperr.Persistence("top products", rows.Err())
}

func (r *postgresRepo) RevenueByCategory(ctx context.Context, p Period) ([]CategoryRevenue, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT COALESCE(pr.category, '') AS category, SUM(`+lineRevenue+`) AS revenue
		FROM sale_details d
		JOIN sales s ON s.id = d.sale_id
		LEFT JOIN products pr ON pr.id = d.product_id
		WHERE s.created_at >= $1 AND s.created_at < $2
		GROUP BY 1
		ORDER BY revenue DESC, category`, p.From, p.To)
	if err != nil {
		return nil, apperr.Persistence("revenue by category", err)
	}
	defer rows.Close()

	var out []CategoryRevenue
	for rows.Next() {
		var c CategoryRevenue
		if err := rows.Scan(&c.Category, &c.Revenue); err != nil {
			return nil, apperr.Persistence("scan category revenue", err)
		}
		out = append(out, c)
	}
	return out, apperr.Persistence("revenue by category", rows.Err())
}

// DailyRevenue buckets sales by calendar day in the zone of p.From, the zone
// the period edges were computed in. The database session zone plays no part.
func (r *postgresRepo) DailyRevenue(ctx context.Context, p Period) ([]DailyRevenue, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT created_at, total
		FROM sales
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at`, p.From, p.To)
	if err != nil {
		return nil, apperr.Persistence("daily revenue", err)
	}
	defer rows.Close()

	loc := p.From.Location()
	var out []DailyRevenue
	for rows.Next() {
		var (
			at    time.Time
			total decimal.Decimal
		)
		if err := rows.Scan(&at, &total); err != nil {
			return nil, apperr.Persistence("scan daily revenue", err)
		}
		day := startOfDay(at.In(loc))
		if n := len(out); n == 0 || !out[n-1].Day.Equal(day) {
			out = append(out, DailyRevenue{Day: day, Revenue: decimal.Zero})
		}
		last := &out[len(out)-1]
		last.Revenue = last.Revenue.Add(total)
		last.Sales++
	}
	return out, apperr.Persistence("daily revenue", rows.Err())
}
