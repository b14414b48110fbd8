package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultUnit is the unit of measure applied when none is given.
const DefaultUnit = "unité"

// Product is an item sold in the shop.
type Product struct {
	ID             int64           `json:"id"`
	Barcode        string          `json:"barcode"`
	Name           string          `json:"name"`
	Category       string          `json:"category,omitempty"`
	Unit           string          `json:"unit"`
	CostPrice      decimal.Decimal `json:"cost_price"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	StockQuantity  int             `json:"stock_quantity"`
	AlertThreshold int             `json:"alert_threshold"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// IsLowStock reports whether the stock reached the alert threshold.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.AlertThreshold
}

// Margin is the unit profit at the current prices.
func (p *Product) Margin() decimal.Decimal {
	return p.SalePrice.Sub(p.CostPrice)
}

// CategoryCount summarises one category of the catalog.
type CategoryCount struct {
	Name     string `json:"name"`
	Products int    `json:"products"`
}

// ProductRequest holds the editable fields of a product. StockQuantity is the
// opening stock and is ignored by updates.
type ProductRequest struct {
	Barcode        string          `json:"barcode"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Unit           string          `json:"unit"`
	CostPrice      decimal.Decimal `json:"cost_price"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	StockQuantity  int             `json:"stock_quantity"`
	AlertThreshold int             `json:"alert_threshold"`
}
