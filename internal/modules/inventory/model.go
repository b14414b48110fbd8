package inventory

import (
	"time"

	"github.com/Guizaa22/2M-market/internal/modules/catalog"
)

// Adjustment records a manual change of a product's stock.
type Adjustment struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"product_id"`
	AccountID   int64     `json:"account_id,omitempty"`
	OldQuantity int       `json:"old_quantity"`
	NewQuantity int       `json:"new_quantity"`
	Reason      string    `json:"reason,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Delta is the signed change applied to the stock.
func (a *Adjustment) Delta() int { return a.NewQuantity - a.OldQuantity }

// SetStockRequest replaces the counted quantity, e.g. after a stocktake.
type SetStockRequest struct {
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason"`
}

// RestockRequest adds received units to the stock.
type RestockRequest struct {
	Delta  int    `json:"delta"`
	Reason string `json:"reason"`
}

// Result is the adjustment together with the refreshed product.
type Result struct {
	Adjustment *Adjustment      `json:"adjustment"`
	Product    *catalog.Product `json:"product"`
}
