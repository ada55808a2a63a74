// Package comfort turns a weather reading into a 0-100 comfort score with a
// per-factor explainable breakdown. All functions are pure and deterministic.
package comfort

import (
	"math"
	"strings"

	"github.com/skycastapp/skycast/internal/weather"
)

// Factor names, in the fixed evaluation order.
const (
	FactorTemperature = "temperature"
	FactorHumidity    = "humidity"
	FactorWind        = "wind"
	FactorRain        = "rain"
	FactorVisibility  = "visibility"
)

// Fixed factor weights. They sum to exactly 1.0.
const (
	WeightTemperature = 0.35
	WeightHumidity    = 0.25
	WeightWind        = 0.20
	WeightRain        = 0.12
	WeightVisibility  = 0.08
)

// Entry is one factor's contribution to the overall comfort score.
type Entry struct {
	Factor       string  `json:"factor"`
	Score        float64 `json:"score"`  // raw 0-100
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"` // score × weight, 2 decimals
	IdealRange   string  `json:"ideal_range"`
	Reason       string  `json:"reason"`
}

// Result is a scored reading: the integer comfort score, the five-entry
// breakdown in fixed order, and the dominant factor (the one most
// responsible for suppressing the score).
type Result struct {
	Score     int     `json:"score"`
	Breakdown []Entry `json:"breakdown"`
	Dominant  Entry   `json:"dominant"`
}

// band is a six-point piecewise-linear scoring curve: 100 on the ideal
// plateau, 0 at or beyond the bad extremes, linear 0→40 between bad and ok
// and 40→100 between ok and ideal on each side.
type band struct {
	badLow, okLow, idealLow, idealHigh, okHigh, badHigh float64
}

func (b band) score(v float64) float64 {
	switch {
	case v >= b.idealLow && v <= b.idealHigh:
		return 100
	case v <= b.badLow || v >= b.badHigh:
		return 0
	case v < b.idealLow:
		if v < b.okLow {
			return lerp(v, b.badLow, b.okLow, 0, 40)
		}
		return lerp(v, b.okLow, b.idealLow, 40, 100)
	default:
		if v > b.okHigh {
			return lerp(v, b.badHigh, b.okHigh, 0, 40)
		}
		return lerp(v, b.okHigh, b.idealHigh, 40, 100)
	}
}

func lerp(v, from, to, scoreFrom, scoreTo float64) float64 {
	if from == to {
		return scoreTo
	}
	t := (v - from) / (to - from)
	return scoreFrom + t*(scoreTo-scoreFrom)
}

var (
	tempBand     = band{badLow: -10, okLow: 8, idealLow: 18, idealHigh: 26, okHigh: 32, badHigh: 45}
	humidityBand = band{badLow: 0, okLow: 20, idealLow: 30, idealHigh: 50, okHigh: 70, badHigh: 95}
	// Wind has no meaningful low side; calm air is ideal.
	windBand = band{badLow: -2, okLow: -1, idealLow: 0, idealHigh: 1, okHigh: 4, badHigh: 12}
)

// EstimatePop maps condition text and cloud cover to a precipitation
// probability when the forecast has none. Checked top to bottom, first
// match wins.
func EstimatePop(condition string, cloudCover int, precipitationMm float64) int {
	c := strings.ToLower(condition)
	switch {
	case strings.Contains(c, "thunderstorm"):
		return 90
	case strings.Contains(c, "heavy rain"):
		return 85
	case strings.Contains(c, "rain"):
		return 70
	case strings.Contains(c, "drizzle"):
		return 55
	case precipitationMm > 0:
		return 60
	case cloudCover > 80:
		return 30
	case cloudCover > 50:
		return 15
	default:
		return 5
	}
}

// Pop resolves the rain-probability input for a reading: the forecast day's
// value when one is present, otherwise an estimate from condition text and
// cloud cover.
func Pop(r *weather.CanonicalReading, today *weather.ForecastDay) int {
	if today != nil {
		return today.Pop
	}
	return EstimatePop(r.Condition, r.CloudCover, r.RainMm)
}

// Score computes the comfort result for a reading. today may be nil when no
// forecast is available; the rain factor then uses an estimated probability.
func Score(r *weather.CanonicalReading, today *weather.ForecastDay) Result {
	pop := Pop(r, today)

	rainScore := math.Max(0, 100-float64(pop))
	visScore := math.Min(100, r.VisibilityKm/10*100)

	entries := []Entry{
		newEntry(FactorTemperature, tempBand.score(r.Temperature), WeightTemperature,
			"18–26°C", temperatureReason(r.Temperature)),
		newEntry(FactorHumidity, humidityBand.score(float64(r.Humidity)), WeightHumidity,
			"30–50%", humidityReason(r.Humidity)),
		newEntry(FactorWind, windBand.score(r.WindSpeed), WeightWind,
			"0–1 m/s", windReason(r.WindSpeed)),
		newEntry(FactorRain, rainScore, WeightRain,
			"0% chance", rainReason(pop)),
		newEntry(FactorVisibility, visScore, WeightVisibility,
			"10+ km", visibilityReason(r.VisibilityKm)),
	}

	total := 0.0
	dominant := 0
	for i, e := range entries {
		total += e.Contribution
		if e.Score*e.Weight < entries[dominant].Score*entries[dominant].Weight {
			dominant = i
		}
	}

	return Result{
		Score:     int(math.Round(total)),
		Breakdown: entries,
		Dominant:  entries[dominant],
	}
}

func newEntry(factor string, score, weight float64, ideal, reason string) Entry {
	return Entry{
		Factor:       factor,
		Score:        score,
		Weight:       weight,
		Contribution: round2(score * weight),
		IdealRange:   ideal,
		Reason:       reason,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func temperatureReason(c float64) string {
	switch {
	case c < 0:
		return "Freezing conditions outside"
	case c < 10:
		return "Quite cold, bundle up"
	case c < 18:
		return "A bit cool but manageable"
	case c <= 26:
		return "Ideal temperature range"
	case c <= 32:
		return "Getting warm out there"
	default:
		return "Very hot, stay hydrated"
	}
}

func humidityReason(h int) string {
	switch {
	case h < 20:
		return "Very dry air"
	case h < 30:
		return "Slightly dry"
	case h <= 50:
		return "Comfortable humidity"
	case h <= 70:
		return "Somewhat humid"
	default:
		return "Oppressively humid"
	}
}

func windReason(ms float64) string {
	switch {
	case ms <= 1:
		return "Calm air"
	case ms <= 4:
		return "Light breeze"
	case ms <= 9:
		return "Noticeable wind"
	case ms <= 14:
		return "Strong wind, hold onto your hat"
	default:
		return "Very strong wind"
	}
}

func rainReason(pop int) string {
	switch {
	case pop < 20:
		return "Little chance of rain"
	case pop < 40:
		return "Some chance of rain"
	case pop < 70:
		return "Rain is fairly likely"
	default:
		return "Rain very likely"
	}
}

func visibilityReason(km float64) string {
	switch {
	case km >= 10:
		return "Excellent visibility"
	case km >= 5:
		return "Good visibility"
	case km >= 2:
		return "Reduced visibility"
	default:
		return "Poor visibility"
	}
}
