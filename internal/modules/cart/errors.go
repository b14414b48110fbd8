package cart

import (
	"errors"
	"fmt"

	"github.com/Guizaa22/2M-market/internal/apperr"
)

// ErrInsufficientStock matches every InsufficientStockError.
var ErrInsufficientStock = errors.New("insufficient stock")

// InsufficientStockError reports a requested quantity above the product's stock.
// It also matches apperr.ErrConflict so HTTP callers answer 409.
type InsufficientStockError struct {
	ProductID int64
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: %d available", e.ProductID, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock || target == apperr.ErrConflict
}
