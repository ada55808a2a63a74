// Package insight assembles the consumer-facing result of an analysis run
// and hides which engine produced it: the local rule engine or a remote
// predictive service.
package insight

import (
	"context"

	"github.com/skycastapp/skycast/internal/advice"
	"github.com/skycastapp/skycast/internal/comfort"
	"github.com/skycastapp/skycast/internal/trend"
	"github.com/skycastapp/skycast/internal/weather"
)

// Insights is the full explainable result for one reading: score, breakdown,
// dominant factor, and the advice set. Consumers never see which provider
// produced it beyond the Source label.
type Insights struct {
	Score     int             `json:"score"`
	Breakdown []comfort.Entry `json:"breakdown"`
	Dominant  comfort.Entry   `json:"dominant"`
	Advice    advice.Set      `json:"advice"`
	Source    string          `json:"source"` // "rules" or "model"
}

// Snapshot is everything the service knows about a city at one point in
// time. It is what gets cached and returned to API consumers.
type Snapshot struct {
	Reading  *weather.CanonicalReading `json:"reading"`
	Forecast []weather.ForecastDay     `json:"forecast"`
	Insights *Insights                 `json:"insights"`
	Trends   trend.Report              `json:"trends"`
}

// Provider computes Insights for a reading. Implementations must be safe
// for concurrent use and must never return both nil Insights and nil error.
type Provider interface {
	Insights(ctx context.Context, r *weather.CanonicalReading, forecast []weather.ForecastDay) (*Insights, error)
}

// RuleProvider is the deterministic rule-based engine.
type RuleProvider struct{}

// NewRuleProvider constructs the rule-based provider.
func NewRuleProvider() *RuleProvider {
	return &RuleProvider{}
}

// Insights scores the reading with the comfort engine and derives the
// advice set. It never fails.
func (p *RuleProvider) Insights(_ context.Context, r *weather.CanonicalReading, forecast []weather.ForecastDay) (*Insights, error) {
	var today *weather.ForecastDay
	if len(forecast) > 0 {
		today = &forecast[0]
	}

	result := comfort.Score(r, today)

	var uv *float64
	if today != nil {
		uv = today.UVIndex
	}

	return &Insights{
		Score:     result.Score,
		Breakdown: result.Breakdown,
		Dominant:  result.Dominant,
		Advice:    advice.Generate(result.Score, r, comfort.Pop(r, today), uv),
		Source:    "rules",
	}, nil
}
