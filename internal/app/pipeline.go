// Package app assembles the position pipeline from Settings. It is shared by
// the HTTP server and the command line tools.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"park-locator-service/internal/adapters/cache"
	"park-locator-service/internal/adapters/repositories"
	"park-locator-service/internal/adapters/ump"
	"park-locator-service/internal/config"
	"park-locator-service/internal/platform/db"
	"park-locator-service/internal/platform/logger"
	"park-locator-service/internal/ports"
	"park-locator-service/internal/services"
)

// Pipeline holds the wired resolver and the resources it owns.
type Pipeline struct {
	Resolver *services.Resolver
	Batch    *services.BatchResolver
	Parks    ports.ParkRepository

	closers []func() error
}

// Close releases database and redis connections.
func (p *Pipeline) Close() error {
	var errs []error
	for i := len(p.closers) - 1; i >= 0; i-- {
		errs = append(errs, p.closers[i]())
	}
	return errors.Join(errs...)
}

// Build wires the pipeline. A nil auth selects the token file provider,
// which logs in with UMP_USER/UMP_PASS when needed.
func Build(ctx context.Context, cfg config.Settings, auth ports.AuthProvider) (*Pipeline, error) {
	p := &Pipeline{}

	if auth == nil {
		auth = ump.NewTokenFileAuth(cfg.BaseURL, cfg.TokenFile, cfg.User, cfg.Password, cfg.RequestTimeout)
	}

	client, err := ump.NewClient(ump.ClientConfig{
		BaseURL:        cfg.BaseURL,
		Timeout:        cfg.RequestTimeout,
		TimezoneOffset: cfg.TimezoneOffset,
	}, auth)
	if err != nil {
		return nil, fmt.Errorf("build pipeline: %w", err)
	}

	conns := map[string]*sql.DB{}
	openConn := func(driver, dsn string) (*sql.DB, error) {
		key := driver + "|" + dsn
		if c, ok := conns[key]; ok {
			return c, nil
		}
		c, err := db.OpenDriver(driver, dsn)
		if err != nil {
			return nil, err
		}
		if err := repositories.InitSchema(ctx, c); err != nil {
			c.Close()
			return nil, err
		}
		conns[key] = c
		p.closers = append(p.closers, c.Close)
		return c, nil
	}

	parks, err := buildParks(cfg, openConn)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("build pipeline: %w", err)
	}
	p.Parks = parks

	positions, err := p.buildCache(ctx, cfg, openConn)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("build pipeline: %w", err)
	}

	p.Resolver = services.NewResolver(client, client, positions, parks, cfg.AntiFlapGraceMeters)
	p.Batch = services.NewBatchResolver(p.Resolver, cfg.BatchConcurrency)

	logger.L().Info("pipeline_ready",
		"base_url", cfg.BaseURL,
		"cache_backend", cfg.CacheBackend,
		"parks_source", cfg.ParksSource,
		"batch_concurrency", cfg.BatchConcurrency,
	)
	return p, nil
}

type connOpener func(driver, dsn string) (*sql.DB, error)

func buildParks(cfg config.Settings, open connOpener) (ports.ParkRepository, error) {
	switch cfg.ParksSource {
	case "", "file":
		return repositories.NewFileParkRepository(cfg.ParksFile), nil
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, errors.New("PARKS_SOURCE=postgres requires DATABASE_URL")
		}
		c, err := open(db.DriverPostgres, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return repositories.NewSQLParkRepository(c), nil
	case "sqlite":
		c, err := open(db.DriverSQLite, cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return repositories.NewSQLParkRepository(c), nil
	default:
		return nil, fmt.Errorf("unknown PARKS_SOURCE %q", cfg.ParksSource)
	}
}

func (p *Pipeline) buildCache(ctx context.Context, cfg config.Settings, open connOpener) (ports.PositionCache, error) {
	switch cfg.CacheBackend {
	case "", "file":
		return cache.NewFilePositionCache(cfg.CacheDir, cfg.CacheTTL), nil
	case "redis":
		rc := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		p.closers = append(p.closers, rc.Close)
		// The cache degrades to misses while redis is down; startup only warns.
		if err := rc.Ping(ctx).Err(); err != nil {
			logger.L().Warn("redis_unreachable", "addr", cfg.RedisAddr, "err", err)
		}
		return cache.NewRedisPositionCache(rc, cfg.CacheTTL), nil
	case "sql":
		driver, dsn := db.DriverSQLite, cfg.DBPath
		if cfg.DatabaseURL != "" {
			driver, dsn = db.DriverPostgres, cfg.DatabaseURL
		}
		c, err := open(driver, dsn)
		if err != nil {
			return nil, err
		}
		return cache.NewSQLPositionCache(c, driver, cfg.CacheTTL), nil
	default:
		return nil, fmt.Errorf("unknown CACHE_BACKEND %q", cfg.CacheBackend)
	}
}
