package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"park-locator-service/internal/domain"
	"park-locator-service/internal/platform/db"
	"park-locator-service/internal/platform/logger"
	"park-locator-service/internal/platform/metrics"
	"park-locator-service/internal/platform/obs"
	"time"
)

// SQLPositionCache keeps positions in the position_cache table on Postgres
// or SQLite. Driver selects the placeholder style.
type SQLPositionCache struct {
	DB     *sql.DB
	Driver string
	TTL    time.Duration

	now func() time.Time
}

func NewSQLPositionCache(conn *sql.DB, driver string, ttl time.Duration) *SQLPositionCache {
	return &SQLPositionCache{DB: conn, Driver: driver, TTL: ttl, now: time.Now}
}

func (s *SQLPositionCache) Get(ctx context.Context, vehicleID int64) (domain.CachedPosition, bool) {
	if s.DB == nil {
		return domain.CachedPosition{}, false
	}

	q := db.Rebind(s.Driver, `
	SELECT lat, lon, in_park, park_name, observed_at, cached_at_ms
	FROM position_cache
	WHERE vehicle_id = ?;
	`)

	var (
		pos        = domain.CachedPosition{VehicleID: vehicleID}
		parkName   sql.NullString
		observedAt sql.NullString
		cachedAtMs int64
	)
	err := s.DB.QueryRowContext(ctx, q, vehicleID).Scan(
		&pos.Lat, &pos.Lon, &pos.InPark, &parkName, &observedAt, &cachedAtMs,
	)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logger.L().Warn("cache_read_failed", "backend", "sql", "vehicle_id", vehicleID, "err", err)
		}
		metrics.CacheLookupsTotal.WithLabelValues("sql", "miss").Inc()
		return domain.CachedPosition{}, false
	}

	pos.ParkName = parkName.String
	if observedAt.Valid && json.Valid([]byte(observedAt.String)) {
		pos.ObservedAt = json.RawMessage(observedAt.String)
	}
	pos.CachedAt = time.UnixMilli(cachedAtMs)

	if expired(pos.CachedAt, s.now(), s.TTL) {
		metrics.CacheLookupsTotal.WithLabelValues("sql", "expired").Inc()
		return domain.CachedPosition{}, false
	}

	metrics.CacheLookupsTotal.WithLabelValues("sql", "hit").Inc()
	return pos, true
}

func (s *SQLPositionCache) Put(ctx context.Context, pos domain.CachedPosition) (err error) {
	defer obs.Time(ctx, "position.cache.Put")(&err)

	if s.DB == nil {
		return errors.New("position cache: db is nil")
	}

	q := db.Rebind(s.Driver, `
	INSERT INTO position_cache (vehicle_id, lat, lon, in_park, park_name, observed_at, cached_at_ms)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (vehicle_id) DO UPDATE
	SET lat = EXCLUDED.lat,
		lon = EXCLUDED.lon,
		in_park = EXCLUDED.in_park,
		park_name = EXCLUDED.park_name,
		observed_at = EXCLUDED.observed_at,
		cached_at_ms = EXCLUDED.cached_at_ms;
	`)

	var parkName, observedAt sql.NullString
	if pos.ParkName != "" {
		parkName = sql.NullString{String: pos.ParkName, Valid: true}
	}
	if len(pos.ObservedAt) > 0 {
		observedAt = sql.NullString{String: string(pos.ObservedAt), Valid: true}
	}

	_, err = s.DB.ExecContext(ctx, q,
		pos.VehicleID, pos.Lat, pos.Lon, pos.InPark, parkName, observedAt, s.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put position cache vehicle_id=%d: %w", pos.VehicleID, err)
	}
	return nil
}
