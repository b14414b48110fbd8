package inventory

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Guizaa22/2M-market/internal/apperr"
	"github.com/Guizaa22/2M-market/internal/modules/catalog"
)

const defaultHistoryLimit = 50

// ProductReader is the part of catalog.Service inventory reads from.
type ProductReader interface {
	GetProduct(ctx context.Context, id int64) (*catalog.Product, error)
	ListLowStock(ctx context.Context) ([]*catalog.Product, error)
}

// Service defines stock maintenance outside of sales.
type Service interface {
	// SetStock replaces the quantity on hand, e.g. after a count.
	SetStock(ctx context.Context, productID, accountID int64, req SetStockRequest) (*Result, error)
	// Restock adds delivered units. A negative delta writes off damaged goods.
	Restock(ctx context.Context, productID, accountID int64, req RestockRequest) (*Result, error)
	History(ctx context.Context, productID int64, limit int) ([]*Adjustment, error)
	LowStock(ctx context.Context) ([]*catalog.Product, error)
}

type service struct {
	repo     Repository
	products ProductReader
}

// NewService creates a new inventory service.
func NewService(repo Repository, products ProductReader) Service {
	return &service{repo: repo, products: products}
}

func (s *service) SetStock(ctx context.Context, productID, accountID int64, req SetStockRequest) (*Result, error) {
	if req.Quantity < 0 {
		return nil, apperr.Invalid("quantity cannot be negative")
	}
	return s.apply(ctx, productID, accountID, req.Reason, func(int) (int, error) {
		return req.Quantity, nil
	})
}

func (s *service) Restock(ctx context.Context, productID, accountID int64, req RestockRequest) (*Result, error) {
	if req.Delta == 0 {
		return nil, apperr.Invalid("delta must not be zero")
	}
	return s.apply(ctx, productID, accountID, req.Reason, func(old int) (int, error) {
		if old+req.Delta < 0 {
			return 0, apperr.Invalid("only %d in stock, cannot remove %d", old, -req.Delta)
		}
		return old + req.Delta, nil
	})
}

func (s *service) History(ctx context.Context, productID int64, limit int) ([]*Adjustment, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.repo.ListAdjustments(ctx, productID, limit)
}

func (s *service) LowStock(ctx context.Context) ([]*catalog.Product, error) {
	return s.products.ListLowStock(ctx)
}

func (s *service) apply(ctx context.Context, productID, accountID int64, reason string, next func(int) (int, error)) (*Result, error) {
	adj, err := s.repo.Apply(ctx, productID, accountID, strings.TrimSpace(reason), next)
	if err != nil {
		return nil, err
	}
	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "stock adjusted",
		slog.Int64("product_id", productID),
		slog.Int("old", adj.OldQuantity),
		slog.Int("new", adj.NewQuantity),
		slog.Int64("account_id", accountID))
	if p != nil && p.IsLowStock() {
		slog.WarnContext(ctx, "product at or below alert threshold",
			slog.Int64("product_id", p.ID),
			slog.String("name", p.Name),
			slog.Int("stock", p.StockQuantity),
			slog.Int("threshold", p.AlertThreshold))
	}
	return &Result{Adjustment: adj, Product: p}, nil
}
