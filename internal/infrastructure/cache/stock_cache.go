package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/inventory"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const defaultStockKeyPrefix = "stock:current:"

// RedisStockCache caches current-stock totals in Redis, suitable for
// deployments where multiple instances serve stock reads. Values are
// decimal strings; the ledger invalidates keys on every committed write.
type RedisStockCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisStockCache creates a Redis-backed stock cache and verifies
// the connection.
func NewRedisStockCache(cfg RedisConfig, ttl time.Duration) (*RedisStockCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStockCacheWithClient(client, ttl), nil
}

// NewRedisStockCacheWithClient creates a cache over an existing client.
// Useful for testing or when sharing a client across components.
func NewRedisStockCacheWithClient(client *redis.Client, ttl time.Duration) *RedisStockCache {
	return &RedisStockCache{
		client:    client,
		keyPrefix: defaultStockKeyPrefix,
		ttl:       ttl,
	}
}

func (c *RedisStockCache) key(itemID uuid.UUID, location inventory.Location) string {
	locationID := "-"
	if location.ID != nil {
		locationID = location.ID.String()
	}
	return fmt.Sprintf("%s%s:%s:%s", c.keyPrefix, itemID, location.Type, locationID)
}

// Get returns the cached total for the item at the location. The second
// return value reports whether the key was present.
func (c *RedisStockCache) Get(ctx context.Context, itemID uuid.UUID, location inventory.Location) (decimal.Decimal, bool, error) {
	val, err := c.client.Get(ctx, c.key(itemID, location)).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to read stock cache: %w", err)
	}

	total, err := decimal.NewFromString(val)
	if err != nil {
		// a corrupt value is treated as a miss; it will be overwritten
		return decimal.Zero, false, nil
	}
	return total, true, nil
}

// Set stores the total with the configured TTL
func (c *RedisStockCache) Set(ctx context.Context, itemID uuid.UUID, location inventory.Location, total decimal.Decimal) error {
	if err := c.client.Set(ctx, c.key(itemID, location), total.String(), c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write stock cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached total
func (c *RedisStockCache) Invalidate(ctx context.Context, itemID uuid.UUID, location inventory.Location) error {
	if err := c.client.Del(ctx, c.key(itemID, location)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate stock cache: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client
func (c *RedisStockCache) Close() error {
	return c.client.Close()
}
