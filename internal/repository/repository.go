package repository

import (
	"context"
	"errors"

	"github.com/tindahan/pos-backend/internal/entity"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrStockConflict is returned by DecrementStock when the product's live
// stock is below the requested quantity, i.e. the conditional decrement
// matched nothing.
var ErrStockConflict = errors.New("stock below requested quantity")

// ProductRepository handles persistence for Products.
type ProductRepository interface {
	// FindAll returns the catalog, optionally filtered by category.
	FindAll(ctx context.Context, categoryID string) ([]entity.Product, error)
	// FindByID returns one product or ErrNotFound.
	FindByID(ctx context.Context, id string) (*entity.Product, error)
	// UpdateStock overwrites the stock figure. Inventory-management use only.
	UpdateStock(ctx context.Context, id string, newStock int) error
	// DecrementStock atomically subtracts quantity from stock if at least
	// that much is available, returning the remaining stock. Returns
	// ErrStockConflict when stock < quantity and ErrNotFound when the
	// product does not exist.
	DecrementStock(ctx context.Context, id string, quantity int) (int, error)
	// Seed inserts initial products if none exist.
	Seed(ctx context.Context, products []entity.Product) error
}

// CategoryRepository handles persistence for Categories.
type CategoryRepository interface {
	FindAll(ctx context.Context) ([]entity.Category, error)
	// Seed inserts initial categories if none exist.
	Seed(ctx context.Context, categories []entity.Category) error
}

// OrderRepository handles persistence for Orders. Orders are append-only:
// there is deliberately no update or delete.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	FindRecent(ctx context.Context, limit int) ([]entity.Order, error)
}
