package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier abstracts the subset of pgxpool.Pool used by Repository.
// This allows injection of a mock in tests.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// SavedCity is one entry of a user's city list.
type SavedCity struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
}

// SearchRecord is one logged weather lookup.
type SearchRecord struct {
	ID           int       `json:"id"`
	City         string    `json:"city"`
	ComfortScore int       `json:"comfort_score"`
	SearchedAt   time.Time `json:"searched_at"`
}

// Repository provides database access for saved cities and search history.
type Repository struct {
	q Querier
}

// NewRepository constructs a Repository backed by the given pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{q: pool}
}

// NewRepositoryWithQuerier constructs a Repository with a custom Querier (for tests).
func NewRepositoryWithQuerier(q Querier) *Repository {
	return &Repository{q: q}
}

// ListCities returns all saved cities, most recently added first.
func (r *Repository) ListCities(ctx context.Context) ([]SavedCity, error) {
	const q = `
		SELECT id, name, label, created_at
		FROM saved_cities
		ORDER BY created_at DESC
	`

	rows, err := r.q.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying saved cities: %w", err)
	}
	defer rows.Close()

	var cities []SavedCity
	for rows.Next() {
		var c SavedCity
		if err := rows.Scan(&c.ID, &c.Name, &c.Label, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning saved city row: %w", err)
		}
		cities = append(cities, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating saved city rows: %w", err)
	}

	return cities, nil
}

// SaveCity inserts or updates a saved city. The name is the unique key; a
// conflicting insert only refreshes the label.
func (r *Repository) SaveCity(ctx context.Context, name, label string) error {
	const q = `
		INSERT INTO saved_cities (name, label)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE
		SET label = EXCLUDED.label
	`

	if _, err := r.q.Exec(ctx, q, name, label); err != nil {
		return fmt.Errorf("saving city %s: %w", name, err)
	}
	return nil
}

// DeleteCity removes a saved city. Returns false when no row matched.
func (r *Repository) DeleteCity(ctx context.Context, name string) (bool, error) {
	const q = `DELETE FROM saved_cities WHERE name = $1`

	tag, err := r.q.Exec(ctx, q, name)
	if err != nil {
		return false, fmt.Errorf("deleting city %s: %w", name, err)
	}
	return tag.RowsAffected() > 0, nil
}

// RecordSearch logs one weather lookup with its computed comfort score.
func (r *Repository) RecordSearch(ctx context.Context, city string, comfortScore int) error {
	const q = `
		INSERT INTO search_history (city, comfort_score)
		VALUES ($1, $2)
	`

	if _, err := r.q.Exec(ctx, q, city, comfortScore); err != nil {
		return fmt.Errorf("recording search for city %s: %w", city, err)
	}
	return nil
}

// RecentSearches returns the latest lookups, newest first.
func (r *Repository) RecentSearches(ctx context.Context, limit int) ([]SearchRecord, error) {
	const q = `
		SELECT id, city, comfort_score, searched_at
		FROM search_history
		ORDER BY searched_at DESC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("querying search history: %w", err)
	}
	defer rows.Close()

	var records []SearchRecord
	for rows.Next() {
		var rec SearchRecord
		if err := rows.Scan(&rec.ID, &rec.City, &rec.ComfortScore, &rec.SearchedAt); err != nil {
			return nil, fmt.Errorf("scanning search history row: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search history rows: %w", err)
	}

	return records, nil
}

// LastSearch returns the most recent lookup for a city, or nil, nil when
// the city was never searched.
func (r *Repository) LastSearch(ctx context.Context, city string) (*SearchRecord, error) {
	const q = `
		SELECT id, city, comfort_score, searched_at
		FROM search_history
		WHERE city = $1
		ORDER BY searched_at DESC
		LIMIT 1
	`

	var rec SearchRecord
	err := r.q.QueryRow(ctx, q, city).Scan(&rec.ID, &rec.City, &rec.ComfortScore, &rec.SearchedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying last search for city %s: %w", city, err)
	}
	return &rec, nil
}
