package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"park-locator-service/internal/domain"
	"park-locator-service/internal/platform/obs"
)

// SQL-backed implementation of the ParkRepository port (Postgres or SQLite).
type SQLParkRepository struct{ DB *sql.DB }

func NewSQLParkRepository(conn *sql.DB) *SQLParkRepository {
	return &SQLParkRepository{DB: conn}
}

// Return all parks in seeding order.
func (s *SQLParkRepository) ListParks(ctx context.Context) (_ []domain.Park, err error) {
	defer obs.Time(ctx, "parks.sql.ListParks")(&err)

	if s.DB == nil {
		return nil, errors.New("sql park repository: DB is nil")
	}

	query := `
	SELECT
		name,
		polygon,
		tolerance_m
	FROM parks
	ORDER BY position;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list parks: query parks table: %w", err)
	}
	defer rows.Close()

	parks := make([]domain.Park, 0, 16)
	for rows.Next() {
		var (
			name    string
			polygon string
			tol     float64
		)
		if err := rows.Scan(&name, &polygon, &tol); err != nil {
			return nil, fmt.Errorf("list parks: scan row: %w", err)
		}

		var ring [][]float64
		if err := json.Unmarshal([]byte(polygon), &ring); err != nil {
			return nil, fmt.Errorf("list parks: decode polygon of %q: %w", name, err)
		}

		p, err := domain.NewPark(name, ring, tol)
		if err != nil {
			return nil, fmt.Errorf("list parks: %w", err)
		}
		parks = append(parks, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list parks: row iteration: %w", err)
	}

	return parks, nil
}
