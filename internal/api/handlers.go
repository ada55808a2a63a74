package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/skycastapp/skycast/internal/assistant"
	"github.com/skycastapp/skycast/internal/insight"
	"github.com/skycastapp/skycast/internal/storage"
	"github.com/skycastapp/skycast/internal/trend"
)

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	repo     CityRepo
	cache    SnapshotCache
	fetcher  WeatherFetcher
	insights insight.Provider
	log      *slog.Logger
}

// NewHandlers constructs Handlers with all required dependencies.
func NewHandlers(repo CityRepo, cache SnapshotCache, fetcher WeatherFetcher, insights insight.Provider, log *slog.Logger) *Handlers {
	return &Handlers{
		repo:     repo,
		cache:    cache,
		fetcher:  fetcher,
		insights: insights,
		log:      log,
	}
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// snapshot returns the city snapshot, serving from cache when possible and
// otherwise fetching, scoring, analyzing, caching, and logging the search.
func (h *Handlers) snapshot(ctx context.Context, city string) (*insight.Snapshot, error) {
	cached, err := h.cache.Get(ctx, city)
	if err != nil {
		h.log.Error("cache get failed", "city", city, "err", err)
	}
	if cached != nil {
		return cached, nil
	}

	raw, err := h.fetcher.Snapshot(ctx, city)
	if err != nil {
		return nil, err
	}

	ins, err := h.insights.Insights(ctx, raw.Reading, raw.Forecast)
	if err != nil {
		return nil, err
	}

	snap := &insight.Snapshot{
		Reading:  raw.Reading,
		Forecast: raw.Forecast,
		Insights: ins,
		Trends:   trend.Analyze(raw.Forecast, raw.Reading),
	}

	if err := h.cache.Set(ctx, city, snap); err != nil {
		h.log.Warn("cache set failed", "city", city, "err", err)
	}
	if err := h.repo.RecordSearch(ctx, city, ins.Score); err != nil {
		h.log.Warn("recording search failed", "city", city, "err", err)
	}

	return snap, nil
}

// GetWeather handles GET /api/v1/weather/{city}.
func (h *Handlers) GetWeather(w http.ResponseWriter, r *http.Request) {
	city := chi.URLParam(r, "city")

	snap, err := h.snapshot(r.Context(), city)
	if err != nil {
		h.log.Error("snapshot failed", "city", city, "err", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "failed to fetch weather data"})
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

type askRequest struct {
	City     string `json:"city"`
	Question string `json:"question"`
}

type askResponse struct {
	City     string `json:"city"`
	Question string `json:"question"`
	Intent   string `json:"intent"`
	Answer   string `json:"answer"`
}

// Ask handles POST /api/v1/assistant/ask. A missing or unfetchable snapshot
// is not an error: the assistant answers with its instructional message.
func (h *Handlers) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
		return
	}

	resp := askResponse{
		City:     req.City,
		Question: req.Question,
		Intent:   string(assistant.Classify(req.Question)),
	}

	if strings.TrimSpace(req.City) == "" {
		resp.Answer = assistant.MissingDataAnswer
		writeJSON(w, http.StatusOK, resp)
		return
	}

	snap, err := h.snapshot(r.Context(), req.City)
	if err != nil {
		h.log.Warn("snapshot unavailable for assistant", "city", req.City, "err", err)
		resp.Answer = assistant.MissingDataAnswer
		writeJSON(w, http.StatusOK, resp)
		return
	}

	resp.Answer = assistant.Answer(req.Question, snap.Insights, &snap.Trends, snap.Reading, snap.Forecast)
	writeJSON(w, http.StatusOK, resp)
}

// ListCities handles GET /api/v1/cities.
func (h *Handlers) ListCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.repo.ListCities(r.Context())
	if err != nil {
		h.log.Error("listing cities failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if cities == nil {
		cities = []storage.SavedCity{} // empty list, not null
	}
	writeJSON(w, http.StatusOK, cities)
}

type saveCityRequest struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// SaveCity handles POST /api/v1/cities.
func (h *Handlers) SaveCity(w http.ResponseWriter, r *http.Request) {
	var req saveCityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	if err := h.repo.SaveCity(r.Context(), req.Name, req.Label); err != nil {
		h.log.Error("saving city failed", "city", req.Name, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "saved"})
}

// DeleteCity handles DELETE /api/v1/cities/{name}.
func (h *Handlers) DeleteCity(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	deleted, err := h.repo.DeleteCity(r.Context(), name)
	if err != nil {
		h.log.Error("deleting city failed", "city", name, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "city not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// HealthCheck pings the backing stores.
type dbPinger interface {
	Ping(ctx context.Context) error
}

type redisPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlerFunc returns an http.HandlerFunc that checks db and redis connectivity.
func HealthHandlerFunc(db dbPinger, redis redisPinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		dbStatus := "ok"
		redisStatus := "ok"

		if err := db.Ping(ctx); err != nil {
			log.Error("health check: db ping failed", "err", err)
			dbStatus = "error"
			status = http.StatusServiceUnavailable
		}

		if err := redis.Ping(ctx); err != nil {
			log.Error("health check: redis ping failed", "err", err)
			redisStatus = "error"
			status = http.StatusServiceUnavailable
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}

		writeJSON(w, status, map[string]string{
			"status": overall,
			"db":     dbStatus,
			"redis":  redisStatus,
		})
	}
}
