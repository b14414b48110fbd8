package catalog

import "context"

// Repository defines product data storage.
// Finders return a nil product and a nil error when nothing matches.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	// Update writes the descriptive fields and refreshes p.StockQuantity from
	// the stored row. Stock itself only moves through AdjustStock and sales.
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*Product, error)
	FindByExactName(ctx context.Context, name string) (*Product, error)
	FindByCategory(ctx context.Context, category string) ([]*Product, error)
	FindLowStock(ctx context.Context) ([]*Product, error)
	List(ctx context.Context, search string) ([]*Product, error)
	Categories(ctx context.Context) ([]CategoryCount, error)
	// AdjustStock sets the stock of a product to quantity.
	AdjustStock(ctx context.Context, id int64, quantity int) error
	BarcodeExists(ctx context.Context, barcode string, excludeID int64) (bool, error)
}
