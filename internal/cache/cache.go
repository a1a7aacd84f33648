// Package cache keeps read-through copies of products in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"inventoryapi/internal/config"
	"inventoryapi/internal/model"
)

const productKeyPrefix = "product:"

// Invalidate leaves a tombstone under the key for InvalidationHold. Fills
// only write absent keys, so a read that raced a write cannot put the old
// row back while the tombstone lives.
const (
	tombstone        = "-"
	InvalidationHold = 5 * time.Second
)

// ErrMiss is returned by Get when the product is not cached.
var ErrMiss = errors.New("cache miss")

// ProductCache stores products by id. Implementations must be safe for concurrent use.
type ProductCache interface {
	Get(ctx context.Context, id int64) (*model.Product, error)
	Set(ctx context.Context, p *model.Product) error
	Invalidate(ctx context.Context, ids ...int64) error
}

// ProductKey returns the Redis key of a product.
func ProductKey(id int64) string {
	return productKeyPrefix + strconv.FormatInt(id, 10)
}

// RedisProductCache stores products as JSON with a fixed expiry.
type RedisProductCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisProductCache(client redis.Cmdable, ttl time.Duration) *RedisProductCache {
	return &RedisProductCache{client: client, ttl: ttl}
}

var _ ProductCache = (*RedisProductCache)(nil)

func (c *RedisProductCache) Get(ctx context.Context, id int64) (*model.Product, error) {
	b, err := c.client.Get(ctx, ProductKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	if string(b) == tombstone {
		return nil, ErrMiss
	}
	var p model.Product
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("decode cached product %d: %w", id, err)
	}
	return &p, nil
}

func (c *RedisProductCache) Set(ctx context.Context, p *model.Product) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.client.SetNX(ctx, ProductKey(p.ID), b, c.ttl).Err()
}

func (c *RedisProductCache) Invalidate(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range ids {
			pipe.Set(ctx, ProductKey(id), tombstone, InvalidationHold)
		}
		return nil
	})
	return err
}

// Noop never caches anything. It is used when Redis is not configured.
type Noop struct{}

func (Noop) Get(context.Context, int64) (*model.Product, error) { return nil, ErrMiss }
func (Noop) Set(context.Context, *model.Product) error          { return nil }
func (Noop) Invalidate(context.Context, ...int64) error         { return nil }

// Connect opens a Redis client and verifies it with a ping.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
