package report

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Guizaa22/2M-market/internal/apperr"
	"github.com/Guizaa22/2M-market/internal/modules/catalog"
)

const defaultTopN = 5

// LowStockLister is the part of catalog.Service the dashboard reads.
type LowStockLister interface {
	ListLowStock(ctx context.Context) ([]*catalog.Product, error)
}

// Service defines the reporting queries. Every figure reflects committed sales only.
type Service interface {
	Revenue(ctx context.Context, p Period) (decimal.Decimal, error)
	SalesCount(ctx context.Context, p Period) (int, error)
	Profit(ctx context.Context, p Period) (decimal.Decimal, error)
	TopProductsByQuantity(ctx context.Context, p Period, n int) ([]ProductStat, error)
	TopProductsByProfit(ctx context.Context, p Period, n int) ([]ProductStat, error)
	RevenueByCategory(ctx context.Context, p Period) ([]CategoryRevenue, error)
	DailyRevenue(ctx context.Context, p Period) ([]DailyRevenue, error)
	Dashboard(ctx context.Context, p Period) (*Dashboard, error)
}

type service struct {
	repo          Repository
	products      LowStockLister
	lowStockLimit int
}

// NewService creates the reporting service. The dashboard lists at most
// lowStockLimit low-stock products.
func NewService(repo Repository, products LowStockLister, lowStockLimit int) Service {
	return &service{repo: repo, products: products, lowStockLimit: lowStockLimit}
}

func (s *service) Revenue(ctx context.Context, p Period) (decimal.Decimal, error) {
	if err := p.Validate(); err != nil {
		return decimal.Zero, err
	}
	return s.repo.Revenue(ctx, p)
}

func (s *service) SalesCount(ctx context.Context, p Period) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	return s.repo.SalesCount(ctx, p)
}

func (s *service) Profit(ctx context.Context, p Period) (decimal.Decimal, error) {
	if err := p.Validate(); err != nil {
		return decimal.Zero, err
	}
	return s.repo.Profit(ctx, p)
}

func (s *service) TopProductsByQuantity(ctx context.Context, p Period, n int) ([]ProductStat, error) {
	n, err := checkTop(p, n)
	if err != nil {
		return nil, err
	}
	return s.repo.TopProductsByQuantity(ctx, p, n)
}

func (s *service) TopProductsByProfit(ctx context.Context, p Period, n int) ([]ProductStat, error) {
	n, err := checkTop(p, n)
	if err != nil {
		return nil, err
	}
	return s.repo.TopProductsByProfit(ctx, p, n)
}

func (s *service) RevenueByCategory(ctx context.Context, p Period) ([]CategoryRevenue, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return s.repo.RevenueByCategory(ctx, p)
}

func (s *service) DailyRevenue(ctx context.Context, p Period) ([]DailyRevenue, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return s.repo.DailyRevenue(ctx, p)
}

func (s *service) Dashboard(ctx context.Context, p Period) (*Dashboard, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	d := &Dashboard{Period: p}
	var err error

	if d.Revenue, err = s.repo.Revenue(ctx, p); err != nil {
		return nil, err
	}
	if d.Profit, err = s.repo.Profit(ctx, p); err != nil {
		return nil, err
	}
	if d.SalesCount, err = s.repo.SalesCount(ctx, p); err != nil {
		return nil, err
	}
	if d.SalesCount > 0 {
		d.AverageBasket = d.Revenue.Div(decimal.NewFromInt(int64(d.SalesCount))).Round(2)
	}
	if d.TopByQuantity, err = s.repo.TopProductsByQuantity(ctx, p, defaultTopN); err != nil {
		return nil, err
	}
	if d.TopByProfit, err = s.repo.TopProductsByProfit(ctx, p, defaultTopN); err != nil {
		return nil, err
	}
	if d.ByCategory, err = s.repo.RevenueByCategory(ctx, p); err != nil {
		return nil, err
	}
	if d.Daily, err = s.repo.DailyRevenue(ctx, p); err != nil {
		return nil, err
	}

	low, err := s.products.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	d.LowStockCount = len(low)
	if s.lowStockLimit > 0 && len(low) > s.lowStockLimit {
		low = low[:s.lowStockLimit]
	}
	d.LowStock = low
	return d, nil
}

func checkTop(p Period, n int) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, apperr.Invalid("n cannot be negative")
	}
	if n == 0 {
		n = defaultTopN
	}
	return n, nil
}
