package inventory

import "context"

// Repository persists stock changes and their history.
type Repository interface {
	// Apply locks the product row, computes the new quantity with next and
	// stores it with an Adjustment in one transaction.
	Apply(ctx context.Context, productID, accountID int64, reason string, next func(old int) (int, error)) (*Adjustment, error)
	ListAdjustments(ctx context.Context, productID int64, limit int) ([]*Adjustment, error)
}
