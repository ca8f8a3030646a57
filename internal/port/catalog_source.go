package port

import (
	"context"

	"github.com/rl1809/storefront/internal/core/domain"
)

// CatalogSource is the read side of a product catalog.
type CatalogSource interface {
	// ListProducts returns every product in catalog order
	ListProducts(ctx context.Context) ([]domain.Product, error)

	// GetProduct returns domain.ErrProductNotFound for unknown ids
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
}

// CatalogWriter is implemented by sources that can be seeded.
type CatalogWriter interface {
	UpsertProduct(ctx context.Context, product domain.Product) error
}
