package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

const (
	productKeyPrefix     = "catalog:product:"
	idempotencyKeyPrefix = "idempotency:"

	DefaultProductTTL     = 5 * time.Minute
	DefaultIdempotencyTTL = 24 * time.Hour
)

type cachedProduct struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	PriceAmount int64  `json:"price_amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Category    string `json:"category"`
}

type RedisAdapter struct {
	client         *redis.Client
	productTTL     time.Duration
	idempotencyTTL time.Duration
}

func NewRedisAdapter(client *redis.Client, productTTL, idempotencyTTL time.Duration) *RedisAdapter {
	if productTTL <= 0 {
		productTTL = DefaultProductTTL
	}
	if idempotencyTTL <= 0 {
		idempotencyTTL = DefaultIdempotencyTTL
	}
	return &RedisAdapter{
		client:         client,
		productTTL:     productTTL,
		idempotencyTTL: idempotencyTTL,
	}
}

func (r *RedisAdapter) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	raw, err := r.client.Get(ctx, productKeyPrefix+productID).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Product{}, port.ErrCacheMiss
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}

	var cp cachedProduct
	if err := json.Unmarshal(raw, &cp); err != nil {
		// unreadable entries are treated as absent and overwritten on the next fill
		return domain.Product{}, port.ErrCacheMiss
	}

	return domain.Product{
		ID:          cp.ID,
		Title:       cp.Title,
		Price:       domain.NewMoney(cp.PriceAmount, cp.Currency),
		Description: cp.Description,
		Image:       cp.Image,
		Category:    cp.Category,
	}, nil
}

func (r *RedisAdapter) SetProduct(ctx context.Context, p domain.Product) error {
	raw, err := json.Marshal(cachedProduct{
		ID:          p.ID,
		Title:       p.Title,
		PriceAmount: p.Price.Amount,
		Currency:    p.Price.Currency,
		Description: p.Description,
		Image:       p.Image,
		Category:    p.Category,
	})
	if err != nil {
		return fmt.Errorf("encode product: %w", err)
	}
	return r.client.Set(ctx, productKeyPrefix+p.ID, raw, r.productTTL).Err()
}

func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, idempotencyKeyPrefix+key, 1, r.idempotencyTTL).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}
