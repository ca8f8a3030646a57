package port

import (
	"context"
	"errors"

	"github.com/rl1809/storefront/internal/core/domain"
)

var ErrCacheMiss = errors.New("cache miss")

type CacheRepository interface {
	// GetProduct returns a cached product, or ErrCacheMiss
	GetProduct(ctx context.Context, productID string) (domain.Product, error)

	// SetProduct caches a product until its TTL expires
	SetProduct(ctx context.Context, product domain.Product) error

	// SetIdempotency sets a key for idempotency check, returns false if already exists
	SetIdempotency(ctx context.Context, key string) (bool, error)
}
