// dbtool creates the park-locator tables and seeds the parks table from a
// park file.
//
//	dbtool --driver pgx --dsn postgres://... --seed data/parks.json
//	dbtool --driver sqlite --dsn data/app.db --seed data/parks.yaml
package main

import (
	"context"
	"fmt"
	"os"
	"park-locator-service/internal/adapters/repositories"
	"park-locator-service/internal/config"
	"park-locator-service/internal/platform/db"
	"park-locator-service/internal/platform/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	log := logger.Setup()

	var driver, dsn, seedPath string

	flagSet := pflag.NewFlagSet("dbtool", pflag.ContinueOnError)
	flagSet.StringVar(&driver, "driver", "", "database driver: pgx or sqlite (default: pgx when DATABASE_URL is set)")
	flagSet.StringVar(&dsn, "dsn", "", "connection string or sqlite path (default: DATABASE_URL or DB_PATH)")
	flagSet.StringVar(&seedPath, "seed", "", "park file (.json, .yaml) to load into the parks table")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	cfg := config.Load()
	if driver == "" {
		driver = db.DriverSQLite
		if cfg.DatabaseURL != "" {
			driver = db.DriverPostgres
		}
	}
	if dsn == "" {
		dsn = cfg.DBPath
		if driver != db.DriverSQLite {
			dsn = cfg.DatabaseURL
		}
	}
	if dsn == "" {
		return fmt.Errorf("no dsn: pass --dsn or set DATABASE_URL")
	}

	conn, err := db.OpenDriver(driver, dsn)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx := context.Background()

	log.Info("schema_init_begin", "driver", driver)
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Info("schema_ready")

	if seedPath == "" {
		return nil
	}

	parks, err := repositories.LoadParksFile(seedPath)
	if err != nil {
		return err
	}
	if err := repositories.SeedParks(ctx, conn, driver, parks); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Info("seed_done", "parks", len(parks), "source", seedPath)

	return nil
}
