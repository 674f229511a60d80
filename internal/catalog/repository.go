package catalog

import (
	"context"
	"errors"

	"github.com/noventicred/constrular/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// Repository is the catalog read API the storefront and the cart build
// on. Consumers define this interface, not the SQLite implementation.
type Repository interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, categoryID string) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	Close() error
}
