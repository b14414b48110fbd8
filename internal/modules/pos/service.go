package pos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Guizaa22/2M-market/internal/apperr"
	"github.com/Guizaa22/2M-market/internal/metrics"
	"github.com/Guizaa22/2M-market/internal/modules/cart"
	"github.com/Guizaa22/2M-market/internal/modules/catalog"
)

// ErrEmptyCart rejects a checkout with no items.
var ErrEmptyCart = fmt.Errorf("%w: cart is empty", apperr.ErrValidation)

// ProductFinder reads current product state. catalog.Service satisfies it.
type ProductFinder interface {
	GetProduct(ctx context.Context, id int64) (*catalog.Product, error)
}

// Service defines checkout and sale history.
type Service interface {
	// Commit stores items as a sale and decrements stock atomically.
	Commit(ctx context.Context, items []cart.LineItem, accountID int64) (*Sale, error)
	// Checkout commits the cart and clears it when the sale is stored. The
	// payment is checked against the same snapshot of the cart that is committed.
	Checkout(ctx context.Context, c *cart.Cart, accountID int64, req CheckoutRequest) (*Sale, error)
	// GetSale returns nil when no sale has that id.
	GetSale(ctx context.Context, id int64) (*Sale, error)
	ListSales(ctx context.Context, from, to time.Time) ([]*Sale, error)
}

type service struct {
	// Stock is read then written without row locks, so commits run one at a time.
	mu       sync.Mutex
	repo     Repository
	products ProductFinder
	metrics  *metrics.Sales
}

// NewService creates the checkout service. m may be nil.
func NewService(repo Repository, products ProductFinder, m *metrics.Sales) Service {
	return &service{repo: repo, products: products, metrics: m}
}

func (s *service) Commit(ctx context.Context, items []cart.LineItem, accountID int64) (*Sale, error) {
	if len(items) == 0 {
		s.metrics.Failed("empty_cart")
		return nil, ErrEmptyCart
	}
	if accountID <= 0 {
		s.metrics.Failed("invalid")
		return nil, apperr.Invalid("account id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkStock(ctx, items); err != nil {
		s.metrics.Failed(failureReason(err))
		return nil, err
	}

	sale := &Sale{
		Total:     cart.Total(items),
		AccountID: accountID,
		Items:     append([]cart.LineItem(nil), items...),
	}
	if err := s.repo.CreateSale(ctx, sale); err != nil {
		s.metrics.Failed(failureReason(err))
		slog.ErrorContext(ctx, "sale commit rolled back",
			slog.Int64("account_id", accountID),
			slog.Int("lines", len(items)),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.metrics.Committed(sale.Total, sale.Units())
	slog.InfoContext(ctx, "sale committed",
		slog.Int64("sale_id", sale.ID),
		slog.Int64("account_id", accountID),
		slog.String("total", sale.Total.StringFixed(2)))
	return sale, nil
}

func (s *service) Checkout(ctx context.Context, c *cart.Cart, accountID int64, req CheckoutRequest) (*Sale, error) {
	items := c.Snapshot()
	payment, err := NewPayment(req, cart.Total(items))
	if err != nil {
		s.metrics.Failed("invalid")
		return nil, err
	}
	sale, err := s.Commit(ctx, items, accountID)
	if err != nil {
		return nil, err
	}
	sale.Payment = payment
	c.Clear()
	return sale, nil
}

func (s *service) GetSale(ctx context.Context, id int64) (*Sale, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListSales(ctx context.Context, from, to time.Time) ([]*Sale, error) {
	if !from.Before(to) {
		return nil, apperr.Invalid("period start must be before its end")
	}
	return s.repo.List(ctx, from, to)
}

// checkStock re-reads every product so that a stale cart cannot oversell.
func (s *service) checkStock(ctx context.Context, items []cart.LineItem) error {
	wanted := make(map[int64]int, len(items))
	order := make([]int64, 0, len(items))
	for _, li := range items {
		if li.Quantity <= 0 {
			return apperr.Invalid("quantity for product %d must be positive", li.ProductID)
		}
		if _, seen := wanted[li.ProductID]; !seen {
			order = append(order, li.ProductID)
		}
		wanted[li.ProductID] += li.Quantity
	}

	for _, id := range order {
		p, err := s.products.GetProduct(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return &cart.InsufficientStockError{ProductID: id, Available: 0}
		}
		if wanted[id] > p.StockQuantity {
			return &cart.InsufficientStockError{ProductID: id, Available: p.StockQuantity}
		}
	}
	return nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, cart.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, apperr.ErrValidation):
		return "invalid"
	case errors.Is(err, apperr.ErrPersistence):
		return "persistence"
	default:
		return "other"
	}
}
