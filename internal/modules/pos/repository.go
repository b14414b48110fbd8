package pos

import (
	"context"
	"time"
)

// Repository defines data access for sales.
type Repository interface {
	// CreateSale stores the header, its details and the stock decrements in
	// one transaction and fills in ID and CreatedAt.
	CreateSale(ctx context.Context, s *Sale) error
	// FindByID returns the sale with its items, or nil.
	FindByID(ctx context.Context, id int64) (*Sale, error)
	// List returns sale headers created in [from, to), newest first.
	List(ctx context.Context, from, to time.Time) ([]*Sale, error)
}
