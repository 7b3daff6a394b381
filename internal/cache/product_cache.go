// Package cache provides an optional Redis-backed read cache for
// product records keyed by UPC.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/pantrio/pantrio/internal/models"
)

const keyPrefix = "pantrio:product:upc:"

// Config selects the Redis endpoint and entry lifetime.
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// ProductCache caches looked-up products by UPC. A nil *ProductCache is
// valid and behaves as a permanent miss, so callers need no branching
// when caching is not configured.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewProductCache connects to Redis and verifies the connection with a
// ping before returning.
func NewProductCache(cfg Config, log *zap.Logger) (*ProductCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Addr, err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	log.Info("product cache connected", zap.String("addr", cfg.Addr), zap.Duration("ttl", ttl))
	return &ProductCache{client: client, ttl: ttl, log: log}, nil
}

// GetByUPC returns the cached product for a UPC, or (nil, nil) on a miss.
// Corrupt entries are dropped and reported as misses.
func (c *ProductCache) GetByUPC(ctx context.Context, upc string) (*models.Product, error) {
	if c == nil || upc == "" {
		return nil, nil
	}

	payload, err := c.client.Get(ctx, keyPrefix+upc).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cached product %s: %w", upc, err)
	}

	var product models.Product
	if err := json.Unmarshal(payload, &product); err != nil {
		c.log.Warn("dropping corrupt cache entry", zap.String("upc", upc), zap.Error(err))
		_ = c.client.Del(ctx, keyPrefix+upc).Err()
		return nil, nil
	}
	return &product, nil
}

// Put stores a product under its UPC. Products without a UPC are skipped.
func (c *ProductCache) Put(ctx context.Context, product *models.Product) error {
	if c == nil || product == nil || product.UPC == nil || *product.UPC == "" {
		return nil
	}

	payload, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("encode product %s for cache: %w", product.ID, err)
	}
	if err := c.client.Set(ctx, keyPrefix+*product.UPC, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache product %s: %w", *product.UPC, err)
	}
	return nil
}

// Invalidate removes the cached entry for a UPC.
func (c *ProductCache) Invalidate(ctx context.Context, upc string) error {
	if c == nil || upc == "" {
		return nil
	}
	if err := c.client.Del(ctx, keyPrefix+upc).Err(); err != nil {
		return fmt.Errorf("invalidate cached product %s: %w", upc, err)
	}
	return nil
}

// Healthy reports whether the Redis connection answers a ping.
func (c *ProductCache) Healthy(ctx context.Context) bool {
	if c == nil {
		return false
	}
	return c.client.Ping(ctx).Err() == nil
}

// Close releases the Redis connection.
func (c *ProductCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
