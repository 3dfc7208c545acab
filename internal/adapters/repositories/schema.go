package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"park-locator-service/internal/domain"
	"park-locator-service/internal/platform/db"
)

// InitSchema creates the parks and position_cache tables.
// The DDL is accepted by both Postgres and SQLite.
func InitSchema(ctx context.Context, conn *sql.DB) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createParksQuery := `
	CREATE TABLE IF NOT EXISTS parks (
		name TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		polygon TEXT NOT NULL,
		tolerance_m DOUBLE PRECISION NOT NULL DEFAULT 0
	);
	`

	createPositionCacheQuery := `
	CREATE TABLE IF NOT EXISTS position_cache (
		vehicle_id BIGINT PRIMARY KEY,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		in_park BOOLEAN NOT NULL,
		park_name TEXT,
		observed_at TEXT,
		cached_at_ms BIGINT NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_parks_position
	ON parks(position);
	`

	statements := []string{
		createParksQuery,
		createPositionCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// SeedParks replaces the contents of the parks table, keeping slice order.
func SeedParks(ctx context.Context, conn *sql.DB, driver string, parks []domain.Park) error {
	if conn == nil {
		return errors.New("seed parks: DB is nil")
	}
	if err := domain.ValidateParks(parks); err != nil {
		return fmt.Errorf("seed parks: %w", err)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed parks: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM parks;`); err != nil {
		return fmt.Errorf("seed parks: clear table: %w", err)
	}

	query := db.Rebind(driver, `
	INSERT INTO parks (
		name,
		position,
		polygon,
		tolerance_m
	)
	VALUES (?, ?, ?, ?);
	`)
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed parks: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range parks {
		ring, err := json.Marshal(p.Ring())
		if err != nil {
			return fmt.Errorf("seed parks: encode polygon of %q: %w", p.Name, err)
		}
		if _, err := stmt.ExecContext(ctx, p.Name, i, string(ring), p.ToleranceMeters); err != nil {
			return fmt.Errorf("seed parks: insert park %q: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed parks: commit tx: %w", err)
	}

	return nil
}
