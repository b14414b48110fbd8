package report

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository answers read-only aggregates over committed sales.
type Repository interface {
	Revenue(ctx context.Context, p Period) (decimal.Decimal, error)
	SalesCount(ctx context.Context, p Period) (int, error)
	Profit(ctx context.Context, p Period) (decimal.Decimal, error)
	TopProductsByQuantity(ctx context.Context, p Period, n int) ([]ProductStat, error)
	TopProductsByProfit(ctx context.Context, p Period, n int) ([]ProductStat, error)
	RevenueByCategory(ctx context.Context, p Period) ([]CategoryRevenue, error)
	DailyRevenue(ctx context.Context, p Period) ([]DailyRevenue, error)
}
