package openweather

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/skycastapp/skycast/internal/weather"
)

// currentSource is the interface satisfied by Client for current conditions.
type currentSource interface {
	Current(ctx context.Context, city string) (*weather.CanonicalReading, error)
}

// forecastSource is the interface satisfied by Client for forecasts.
type forecastSource interface {
	Forecast(ctx context.Context, city string) ([]weather.ForecastDay, error)
}

// Fetcher assembles a full city snapshot, fetching current conditions and
// the forecast in parallel.
type Fetcher struct {
	current  currentSource
	forecast forecastSource
	log      *slog.Logger
}

// NewFetcher constructs a Fetcher backed by a production Client.
func NewFetcher(apiKey string, log *slog.Logger) *Fetcher {
	c := NewClient(apiKey, log)
	return &Fetcher{current: c, forecast: c, log: log}
}

// NewFetcherWithSources constructs a Fetcher with injectable sources (used
// in tests).
func NewFetcherWithSources(cur currentSource, fc forecastSource, log *slog.Logger) *Fetcher {
	return &Fetcher{current: cur, forecast: fc, log: log}
}

// Snapshot fetches current conditions and the forecast concurrently. A
// failed current fetch fails the snapshot; a failed forecast is non-fatal
// and yields a snapshot without forecast data.
func (f *Fetcher) Snapshot(ctx context.Context, city string) (*weather.Snapshot, error) {
	g, gCtx := errgroup.WithContext(ctx)

	var reading *weather.CanonicalReading
	var forecast []weather.ForecastDay

	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				f.log.Error("current fetch panicked", "recover", r)
				err = fmt.Errorf("current fetch panicked: %v", r)
			}
		}()
		cur, fetchErr := f.current.Current(gCtx, city)
		if fetchErr != nil {
			return fetchErr
		}
		reading = cur
		return nil
	})

	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				f.log.Error("forecast fetch panicked", "recover", r)
				err = fmt.Errorf("forecast fetch panicked: %v", r)
			}
		}()
		days, fetchErr := f.forecast.Forecast(gCtx, city)
		if fetchErr != nil {
			f.log.Warn("forecast fetch failed", "city", city, "err", fetchErr)
			return nil
		}
		forecast = days
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetching weather for %s: %w", city, err)
	}

	return &weather.Snapshot{Reading: reading, Forecast: forecast}, nil
}
