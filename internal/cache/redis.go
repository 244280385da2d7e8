package cache

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keys. Feed and directory caches are short-lived; the staff directory
// lives longer because it only changes on admin edits and is invalidated
// explicitly.
const (
	ShippedFeedKey    = "shipped:feed:p1"
	StaffDirectoryKey = "staff:directory"
	SkuStockKey       = "sku_stock:all"
)

var client *redis.Client

// Init connects to Redis. Failure is not fatal: every accessor checks for a
// nil client and the app serves straight from Postgres.
func Init() error {
	host := os.Getenv("REDIS_SERVICE_HOST")
	if host == "" {
		host = "redis"
	}
	port := os.Getenv("REDIS_SERVICE_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client, nil when Redis is unavailable.
func GetClient() *redis.Client {
	return client
}

// GetCached returns cached data for a key.
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL.
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// InvalidatePattern removes all keys matching a glob pattern.
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	keys, err := client.Keys(ctx, pattern).Result()
	if err == nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateKeys removes specific cache keys.
func InvalidateKeys(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// InvalidateOrderCaches clears order and feed caches. Called on order create,
// assignment, status change and delete; the shipped feed joins orders so it
// goes stale at the same time.
func InvalidateOrderCaches(ctx context.Context) {
	InvalidatePattern(ctx, "orders:*")
	InvalidatePattern(ctx, "shipped:*")
}

// InvalidateScanCaches clears caches affected by a station scan (pack or test
// events change the reconciled feed, and SKU scans change stock).
func InvalidateScanCaches(ctx context.Context) {
	InvalidatePattern(ctx, "shipped:*")
	InvalidateKeys(ctx, SkuStockKey)
}

// InvalidateExceptionCaches clears exception and feed caches. Called on
// exception open, resolve and sweep.
func InvalidateExceptionCaches(ctx context.Context) {
	InvalidatePattern(ctx, "exceptions:*")
	InvalidatePattern(ctx, "shipped:*")
}

// InvalidateStaffCache clears the staff directory. Called on staff create,
// update and deactivate; resolved names on feed rows change with it.
func InvalidateStaffCache(ctx context.Context) {
	InvalidateKeys(ctx, StaffDirectoryKey)
	InvalidatePattern(ctx, "shipped:*")
}

// InvalidateRepairCaches clears repair ticket caches.
func InvalidateRepairCaches(ctx context.Context) {
	InvalidatePattern(ctx, "rs:*")
}

// InvalidateChecklistCaches clears checklist caches for one day.
func InvalidateChecklistCaches(ctx context.Context) {
	InvalidatePattern(ctx, "checklist:*")
}

// IsHealthy returns true if the Redis connection is working.
func IsHealthy() bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}
