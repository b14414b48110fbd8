package account

import "context"

// Repository defines account data storage.
// Finders return a nil account and a nil error when nothing matches.
type Repository interface {
	Create(ctx context.Context, a *Account) error
	Update(ctx context.Context, a *Account) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Account, error)
	FindByUsername(ctx context.Context, username string) (*Account, error)
	FindAll(ctx context.Context) ([]*Account, error)
	UsernameExists(ctx context.Context, username string, excludeID int64) (bool, error)
	CountByRole(ctx context.Context, role Role) (int, error)
}
