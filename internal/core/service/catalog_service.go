package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

var ErrCatalogUnavailable = errors.New("catalog unavailable")

// CatalogService reads products from a catalog source through an optional
// read-through cache.
type CatalogService struct {
	source      port.CatalogSource
	cache       port.CacheRepository
	logger      *zap.Logger
	concurrency int
}

// NewCatalogService builds the service. cache may be nil.
func NewCatalogService(source port.CatalogSource, cache port.CacheRepository, logger *zap.Logger, concurrency int) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if concurrency <= 0 {
		concurrency = 8
	}
	return &CatalogService{
		source:      source,
		cache:       cache,
		logger:      logger,
		concurrency: concurrency,
	}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.source.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list products: %v", ErrCatalogUnavailable, err)
	}
	return products, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return domain.Product{}, fmt.Errorf("%w: product id is required", domain.ErrInvalidInput)
	}

	if s.cache != nil {
		product, err := s.cache.GetProduct(ctx, productID)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, port.ErrCacheMiss) {
			s.logger.Warn("product cache read failed", zap.String("product_id", productID), zap.Error(err))
		}
	}

	product, err := s.source.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return domain.Product{}, err
		}
		return domain.Product{}, fmt.Errorf("%w: get product %s: %v", ErrCatalogUnavailable, productID, err)
	}

	s.store(ctx, product)
	return product, nil
}

// Warm loads the whole catalog into the cache and returns how many products
// were cached.
func (s *CatalogService) Warm(ctx context.Context) (int, error) {
	if s.cache == nil {
		return 0, nil
	}

	products, err := s.ListProducts(ctx)
	if err != nil {
		return 0, err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for idx := range products {
		p := products[idx]
		g.Go(func() error {
			if err := s.cache.SetProduct(ctx, p); err != nil {
				return fmt.Errorf("cache product %s: %w", p.ID, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(products), nil
}

func (s *CatalogService) store(ctx context.Context, product domain.Product) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetProduct(ctx, product); err != nil {
		s.logger.Warn("product cache write failed", zap.String("product_id", product.ID), zap.Error(err))
	}
}
