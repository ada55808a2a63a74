package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/skycastapp/skycast/internal/advice"
	"github.com/skycastapp/skycast/internal/comfort"
	"github.com/skycastapp/skycast/internal/weather"
)

const remoteTimeout = 5 * time.Second

// RemoteProvider asks an external predictive service for comfort and rain
// predictions, then translates them into the same explainable shape the
// rule engine produces. Any failure falls back silently to the rule engine;
// callers never see a transport error.
type RemoteProvider struct {
	url      string
	client   *http.Client
	fallback *RuleProvider
	log      *slog.Logger
}

// NewRemoteProvider constructs a RemoteProvider posting to url.
func NewRemoteProvider(url string, log *slog.Logger) *RemoteProvider {
	return &RemoteProvider{
		url:      url,
		client:   &http.Client{Timeout: remoteTimeout},
		fallback: NewRuleProvider(),
		log:      log,
	}
}

// predictRequest is the fixed 7-feature vector the service expects.
type predictRequest struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Visibility  float64 `json:"visibility"`
	Clouds      float64 `json:"clouds"`
	Pressure    float64 `json:"pressure"`
	Rain1h      float64 `json:"rain_1h"`
}

type predictResponse struct {
	WillRain             bool               `json:"will_rain"`
	RainProbability      float64            `json:"rain_probability"`
	ComfortLevel         string             `json:"comfort_level"`
	ComfortProbabilities map[string]float64 `json:"comfort_probabilities"`
	Explanation          string             `json:"explanation"`
	ModelVersion         string             `json:"model_version"`
}

// comfortLevelScores maps the model's coarse comfort level onto the 0-100
// scale used by the rule engine.
var comfortLevelScores = map[string]int{
	"High":   85,
	"Medium": 60,
	"Low":    35,
}

// Insights calls the predictive service and converts its output. On any
// error the rule engine's result is returned instead.
func (p *RemoteProvider) Insights(ctx context.Context, r *weather.CanonicalReading, forecast []weather.ForecastDay) (*Insights, error) {
	resp, err := p.predict(ctx, r)
	if err != nil {
		p.log.Warn("predictive service unavailable, using rule engine", "err", err)
		return p.fallback.Insights(ctx, r, forecast)
	}

	score, ok := comfortLevelScores[resp.ComfortLevel]
	if !ok {
		p.log.Warn("predictive service returned unknown comfort level, using rule engine",
			"level", resp.ComfortLevel)
		return p.fallback.Insights(ctx, r, forecast)
	}

	var today *weather.ForecastDay
	if len(forecast) > 0 {
		today = &forecast[0]
	}

	// Reuse the rule engine's per-factor reasons and ideal-range labels,
	// overriding the numbers so contributions sum to the model's score.
	ruled := comfort.Score(r, today)
	breakdown := make([]comfort.Entry, len(ruled.Breakdown))
	for i, e := range ruled.Breakdown {
		e.Score = float64(score)
		e.Contribution = math.Round(float64(score)*e.Weight*100) / 100
		breakdown[i] = e
	}
	dominant := breakdown[0]
	for _, e := range breakdown[1:] {
		if e.Score*e.Weight < dominant.Score*dominant.Weight {
			dominant = e
		}
	}

	pop := int(math.Round(resp.RainProbability * 100))

	var uv *float64
	if today != nil {
		uv = today.UVIndex
	}

	return &Insights{
		Score:     score,
		Breakdown: breakdown,
		Dominant:  dominant,
		Advice:    advice.Generate(score, r, pop, uv),
		Source:    "model",
	}, nil
}

func (p *RemoteProvider) predict(ctx context.Context, r *weather.CanonicalReading) (*predictResponse, error) {
	body, err := json.Marshal(predictRequest{
		Temperature: r.Temperature,
		Humidity:    float64(r.Humidity),
		WindSpeed:   r.WindSpeed,
		Visibility:  r.VisibilityKm,
		Clouds:      float64(r.CloudCover),
		Pressure:    r.PressureHPa,
		Rain1h:      r.RainMm,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", p.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("POST %s returned status %d", p.url, resp.StatusCode)
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding predict response: %w", err)
	}
	return &out, nil
}
