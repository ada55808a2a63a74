package api

import (
	"context"

	"github.com/skycastapp/skycast/internal/insight"
	"github.com/skycastapp/skycast/internal/storage"
	"github.com/skycastapp/skycast/internal/weather"
)

// CityRepo defines the storage operations needed by handlers.
type CityRepo interface {
	ListCities(ctx context.Context) ([]storage.SavedCity, error)
	SaveCity(ctx context.Context, name, label string) error
	DeleteCity(ctx context.Context, name string) (bool, error)
	RecordSearch(ctx context.Context, city string, comfortScore int) error
}

// SnapshotCache defines the cache operations needed by handlers.
type SnapshotCache interface {
	Get(ctx context.Context, city string) (*insight.Snapshot, error)
	Set(ctx context.Context, city string, snap *insight.Snapshot) error
	Delete(ctx context.Context, city string) error
}

// WeatherFetcher defines the provider aggregation needed by handlers.
type WeatherFetcher interface {
	Snapshot(ctx context.Context, city string) (*weather.Snapshot, error)
}
