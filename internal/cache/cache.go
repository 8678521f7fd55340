package cache

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/itm-platform/itm-data-api/internal/logger"
)

// Cache is a nil-safe, short-TTL JSON cache over Redis. The API works
// without Redis: when REDIS_ADDR is unset or the ping fails every Get is
// a miss and every Set is a no-op, so callers never branch on presence.
type Cache struct {
	log *logger.Logger
	rdb *goredis.Client
}

func New(log *logger.Logger) *Cache {
	c := &Cache{log: log.With("service", "Cache")}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		c.log.Info("REDIS_ADDR not set, running without cache")
		return c
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		c.log.Warn("Redis unreachable, running without cache", "addr", addr, "error", err)
		_ = rdb.Close()
		return c
	}
	c.rdb = rdb
	c.log.Info("Redis cache connected", "addr", addr)
	return c
}

func (c *Cache) GetJSON(ctx context.Context, key string, dest any) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.Warn("Dropping undecodable cache entry", "key", key, "error", err)
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.log.Debug("Cache set failed", "key", key, "error", err)
	}
}

func (c *Cache) Close() {
	if c != nil && c.rdb != nil {
		_ = c.rdb.Close()
	}
}
