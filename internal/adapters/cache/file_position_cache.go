package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"park-locator-service/internal/domain"
	"park-locator-service/internal/platform/fsutil"
	"park-locator-service/internal/platform/logger"
	"park-locator-service/internal/platform/metrics"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

const lockStripes = 64

// FilePositionCache keeps one JSON file per vehicle id in Dir.
//
// Writes go through a temp file and rename. Operations on the same vehicle
// id are serialized by a striped lock, so batch workers never interleave
// on one file.
type FilePositionCache struct {
	Dir string
	TTL time.Duration

	now   func() time.Time
	locks [lockStripes]sync.Mutex
}

func NewFilePositionCache(dir string, ttl time.Duration) *FilePositionCache {
	return &FilePositionCache{Dir: dir, TTL: ttl, now: time.Now}
}

func (c *FilePositionCache) path(vehicleID int64) string {
	return filepath.Join(c.Dir, "online_"+strconv.FormatInt(vehicleID, 10)+".json")
}

func (c *FilePositionCache) lock(vehicleID int64) *sync.Mutex {
	i := vehicleID % lockStripes
	if i < 0 {
		i = -i
	}
	return &c.locks[i]
}

// Get returns the cached position unless it is missing, unreadable or older than TTL.
func (c *FilePositionCache) Get(ctx context.Context, vehicleID int64) (domain.CachedPosition, bool) {
	mu := c.lock(vehicleID)
	mu.Lock()
	b, err := os.ReadFile(c.path(vehicleID))
	mu.Unlock()

	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.L().Warn("cache_read_failed", "backend", "file", "vehicle_id", vehicleID, "err", err)
		}
		metrics.CacheLookupsTotal.WithLabelValues("file", "miss").Inc()
		return domain.CachedPosition{}, false
	}

	var rec positionRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		logger.L().Warn("cache_record_corrupt", "backend", "file", "vehicle_id", vehicleID, "err", err)
		metrics.CacheLookupsTotal.WithLabelValues("file", "corrupt").Inc()
		return domain.CachedPosition{}, false
	}

	pos := rec.position()
	pos.VehicleID = vehicleID
	if expired(pos.CachedAt, c.now(), c.TTL) {
		metrics.CacheLookupsTotal.WithLabelValues("file", "expired").Inc()
		return domain.CachedPosition{}, false
	}

	metrics.CacheLookupsTotal.WithLabelValues("file", "hit").Inc()
	return pos, true
}

// Put overwrites the record for pos.VehicleID, stamped with the current time.
func (c *FilePositionCache) Put(ctx context.Context, pos domain.CachedPosition) error {
	pos.CachedAt = c.now()

	b, err := json.Marshal(toRecord(pos))
	if err != nil {
		return fmt.Errorf("put position cache vehicle_id=%d: marshal: %w", pos.VehicleID, err)
	}

	mu := c.lock(pos.VehicleID)
	mu.Lock()
	defer mu.Unlock()

	if err := fsutil.WriteFileAtomic(c.path(pos.VehicleID), b, 0o644); err != nil {
		return fmt.Errorf("put position cache vehicle_id=%d: %w", pos.VehicleID, err)
	}
	return nil
}
