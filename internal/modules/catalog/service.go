package catalog

import (
	"context"
	"strings"

	"github.com/Guizaa22/2M-market/internal/apperr"
)

// Service defines catalog business logic.
type Service interface {
	CreateProduct(ctx context.Context, req ProductRequest) (*Product, error)
	UpdateProduct(ctx context.Context, id int64, req ProductRequest) (*Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	// Lookups return a nil product when nothing matches.
	GetProduct(ctx context.Context, id int64) (*Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*Product, error)
	FindByExactName(ctx context.Context, name string) (*Product, error)
	ListProducts(ctx context.Context, category, search string) ([]*Product, error)
	ListLowStock(ctx context.Context) ([]*Product, error)
	ListCategories(ctx context.Context) ([]CategoryCount, error)

	BarcodeExists(ctx context.Context, barcode string, excludeID int64) (bool, error)
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateProduct(ctx context.Context, req ProductRequest) (*Product, error) {
	if req.StockQuantity < 0 {
		return nil, apperr.Invalid("stock quantity cannot be negative")
	}
	p := &Product{StockQuantity: req.StockQuantity}
	if err := apply(p, req); err != nil {
		return nil, err
	}
	if err := s.ensureBarcodeFree(ctx, p.Barcode, 0); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) UpdateProduct(ctx context.Context, id int64, req ProductRequest) (*Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("product", id)
	}
	if err := apply(p, req); err != nil {
		return nil, err
	}
	if err := s.ensureBarcodeFree(ctx, p.Barcode, id); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) DeleteProduct(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) GetProduct(ctx context.Context, id int64) (*Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) FindByBarcode(ctx context.Context, barcode string) (*Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, nil
	}
	return s.repo.FindByBarcode(ctx, barcode)
}

func (s *service) FindByExactName(ctx context.Context, name string) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	return s.repo.FindByExactName(ctx, name)
}

func (s *service) ListProducts(ctx context.Context, category, search string) ([]*Product, error) {
	if category = strings.TrimSpace(category); category != "" {
		return s.repo.FindByCategory(ctx, category)
	}
	return s.repo.List(ctx, strings.TrimSpace(search))
}

func (s *service) ListLowStock(ctx context.Context) ([]*Product, error) {
	return s.repo.FindLowStock(ctx)
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryCount, error) {
	return s.repo.Categories(ctx)
}

func (s *service) BarcodeExists(ctx context.Context, barcode string, excludeID int64) (bool, error) {
	return s.repo.BarcodeExists(ctx, strings.TrimSpace(barcode), excludeID)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (s *service) ensureBarcodeFree(ctx context.Context, barcode string, excludeID int64) error {
	taken, err := s.repo.BarcodeExists(ctx, barcode, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict("barcode %q already used", barcode)
	}
	return nil
}

// apply copies the descriptive fields of req onto p. Stock is left alone.
func apply(p *Product, req ProductRequest) error {
	barcode := strings.TrimSpace(req.Barcode)
	name := strings.TrimSpace(req.Name)
	if barcode == "" {
		return apperr.Invalid("barcode is required")
	}
	if name == "" {
		return apperr.Invalid("name is required")
	}
	if req.CostPrice.IsNegative() || req.SalePrice.IsNegative() {
		return apperr.Invalid("prices cannot be negative")
	}
	if req.AlertThreshold < 0 {
		return apperr.Invalid("alert threshold cannot be negative")
	}
	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = DefaultUnit
	}

	p.Barcode = barcode
	p.Name = name
	p.Category = strings.TrimSpace(req.Category)
	p.Unit = unit
	p.CostPrice = req.CostPrice.Round(2)
	p.SalePrice = req.SalePrice.Round(2)
	p.AlertThreshold = req.AlertThreshold
	return nil
}
