// Package cart holds the pending sale of one till session.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Guizaa22/2M-market/internal/apperr"
	"github.com/Guizaa22/2M-market/internal/modules/catalog"
)

// LineItem is one product in a cart or a committed sale. Prices are captured
// when the product is first added and never re-read afterwards.
type LineItem struct {
	ProductID     int64           `json:"product_id"`
	Barcode       string          `json:"barcode"`
	Name          string          `json:"name"`
	Quantity      int             `json:"quantity"`
	UnitSalePrice decimal.Decimal `json:"unit_sale_price"`
	UnitCostPrice decimal.Decimal `json:"unit_cost_price"`
}

func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitSalePrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

func (li LineItem) Profit() decimal.Decimal {
	return li.UnitSalePrice.Sub(li.UnitCostPrice).Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Total sums the subtotals of items.
func Total(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, li := range items {
		total = total.Add(li.Subtotal())
	}
	return total
}

// Cart is an ordered set of line items with at most one item per product.
// Every quantity is bounded by the product stock seen at mutation time, and a
// failed mutation leaves the cart untouched.
type Cart struct {
	mu    sync.RWMutex
	items []LineItem
}

func New() *Cart { return &Cart{} }

// AddOrIncrement adds qty units of p, merging with an existing line.
func (c *Cart) AddOrIncrement(p *catalog.Product, qty int) error {
	if p == nil {
		return apperr.Invalid("product is required")
	}
	if qty <= 0 {
		return apperr.Invalid("quantity must be positive, got %d", qty)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(p.ID); i >= 0 {
		newQty := c.items[i].Quantity + qty
		if newQty > p.StockQuantity {
			return &InsufficientStockError{ProductID: p.ID, Available: p.StockQuantity}
		}
		c.items[i].Quantity = newQty
		return nil
	}
	if qty > p.StockQuantity {
		return &InsufficientStockError{ProductID: p.ID, Available: p.StockQuantity}
	}
	c.items = append(c.items, LineItem{
		ProductID:     p.ID,
		Barcode:       p.Barcode,
		Name:          p.Name,
		Quantity:      qty,
		UnitSalePrice: p.SalePrice,
		UnitCostPrice: p.CostPrice,
	})
	return nil
}

// SetQuantity replaces the quantity of p's line. A quantity of zero or less
// removes the line.
func (c *Cart) SetQuantity(p *catalog.Product, qty int) error {
	if p == nil {
		return apperr.Invalid("product is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(p.ID)
	if qty <= 0 {
		if i >= 0 {
			c.removeAt(i)
		}
		return nil
	}
	if i < 0 {
		return apperr.NotFound("cart item", p.ID)
	}
	if qty > p.StockQuantity {
		return &InsufficientStockError{ProductID: p.ID, Available: p.StockQuantity}
	}
	c.items[i].Quantity = qty
	return nil
}

func (c *Cart) Remove(productID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(productID); i >= 0 {
		c.removeAt(i)
	}
}

func (c *Cart) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}

func (c *Cart) Total() decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Total(c.items)
}

// Snapshot returns a copy of the lines in insertion order.
func (c *Cart) Snapshot() []LineItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Item returns the line for productID.
func (c *Cart) Item(productID int64) (LineItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOf(productID); i >= 0 {
		return c.items[i], true
	}
	return LineItem{}, false
}

func (c *Cart) indexOf(productID int64) int {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.items = append(c.items[:i], c.items[i+1:]...)
}
