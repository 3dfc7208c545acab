package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"park-locator-service/internal/domain"
	"park-locator-service/internal/platform/logger"
	"park-locator-service/internal/platform/metrics"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "parklocator:position:"

// RedisPositionCache stores position records as JSON strings with a TTL.
// The cached_at stamp is checked on read as well, so a key whose expiry was
// extended by hand still cannot serve a stale position.
type RedisPositionCache struct {
	Client *redis.Client
	TTL    time.Duration

	now func() time.Time
}

func NewRedisPositionCache(client *redis.Client, ttl time.Duration) *RedisPositionCache {
	return &RedisPositionCache{Client: client, TTL: ttl, now: time.Now}
}

// NewRedisClient builds a client from address, password and database index.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func redisKey(vehicleID int64) string {
	return redisKeyPrefix + strconv.FormatInt(vehicleID, 10)
}

func (c *RedisPositionCache) Get(ctx context.Context, vehicleID int64) (domain.CachedPosition, bool) {
	if c.Client == nil {
		return domain.CachedPosition{}, false
	}

	s, err := c.Client.Get(ctx, redisKey(vehicleID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.L().Warn("cache_read_failed", "backend", "redis", "vehicle_id", vehicleID, "err", err)
		}
		metrics.CacheLookupsTotal.WithLabelValues("redis", "miss").Inc()
		return domain.CachedPosition{}, false
	}

	var rec positionRecord
	if err := json.Unmarshal([]byte(s), &rec); err != nil {
		logger.L().Warn("cache_record_corrupt", "backend", "redis", "vehicle_id", vehicleID, "err", err)
		metrics.CacheLookupsTotal.WithLabelValues("redis", "corrupt").Inc()
		return domain.CachedPosition{}, false
	}

	pos := rec.position()
	pos.VehicleID = vehicleID
	if expired(pos.CachedAt, c.now(), c.TTL) {
		metrics.CacheLookupsTotal.WithLabelValues("redis", "expired").Inc()
		return domain.CachedPosition{}, false
	}

	metrics.CacheLookupsTotal.WithLabelValues("redis", "hit").Inc()
	return pos, true
}

// Put replaces the record in a single SET, which makes concurrent writers last-write-wins.
func (c *RedisPositionCache) Put(ctx context.Context, pos domain.CachedPosition) error {
	if c.Client == nil {
		return errors.New("position cache: redis client is nil")
	}

	pos.CachedAt = c.now()
	b, err := json.Marshal(toRecord(pos))
	if err != nil {
		return fmt.Errorf("put position cache vehicle_id=%d: marshal: %w", pos.VehicleID, err)
	}

	if err := c.Client.Set(ctx, redisKey(pos.VehicleID), b, c.TTL).Err(); err != nil {
		return fmt.Errorf("put position cache vehicle_id=%d: redis set: %w", pos.VehicleID, err)
	}
	return nil
}
