// Package trend detects multi-day patterns, alerts, and outlooks in a
// forecast, plus activity suggestions from the current reading.
package trend

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/skycastapp/skycast/internal/advice"
	"github.com/skycastapp/skycast/internal/weather"
)

// Insight types.
const (
	TypeTrend          = "trend"
	TypePattern        = "pattern"
	TypeRecommendation = "recommendation"
	TypeOutlook        = "outlook"
	TypeAlert          = "alert"
)

// Insight is a single detected pattern or alert.
type Insight struct {
	ID         string            `json:"id"`
	Emoji      string            `json:"emoji"`
	Title      string            `json:"title"`
	Detail     string            `json:"detail"`
	Type       string            `json:"type"`
	Confidence advice.Confidence `json:"confidence"`
}

// Summary condenses the forecast into a few headline numbers. Its trend
// label compares the last day against the first day only, which is a
// different window than the half-average temperature-trend insight; the two
// can disagree on borderline forecasts and that duplication is deliberate.
type Summary struct {
	AvgTemp   int    `json:"avg_temp"`
	RainyDays int    `json:"rainy_days"`
	Trend     string `json:"trend"` // warming | cooling | steady
}

// Report is the output of one analysis run. Available is false when the
// forecast is too short to analyze; that is a valid empty state, not an
// error.
type Report struct {
	Available bool      `json:"available"`
	Insights  []Insight `json:"insights"`
	Summary   *Summary  `json:"summary,omitempty"`
}

// Analyze inspects a forecast of at least two days. current may be nil, in
// which case the activity recommendation is skipped.
func Analyze(days []weather.ForecastDay, current *weather.CanonicalReading) Report {
	if len(days) < 2 {
		return Report{Available: false, Insights: []Insight{}}
	}

	insights := []Insight{
		temperatureTrend(days),
		rainPattern(days),
		bestOutdoorDay(days),
	}
	if w := weekendOutlook(days); w != nil {
		insights = append(insights, *w)
	}
	insights = append(insights, alerts(days)...)
	if current != nil {
		insights = append(insights, activityRecommendation(days, current)...)
	}

	s := summarize(days)
	return Report{Available: true, Insights: insights, Summary: &s}
}

// temperatureTrend compares the average day temperature of the second half
// of the forecast against the first half. The second half starts at
// ceil(n/2).
func temperatureTrend(days []weather.ForecastDay) Insight {
	split := (len(days) + 1) / 2
	first := avgMaxTemp(days[:split])
	second := avgMaxTemp(days[split:])
	diff := second - first

	switch {
	case diff > 4:
		conf := advice.ConfidenceMedium
		if diff > 7 {
			conf = advice.ConfidenceHigh
		}
		return Insight{
			ID: "temp-trend", Emoji: "📈", Title: "Warming up",
			Detail:     fmt.Sprintf("Temperatures climb about %.0f°C over the coming days.", diff),
			Type:       TypeTrend,
			Confidence: conf,
		}
	case diff < -4:
		conf := advice.ConfidenceMedium
		if diff < -7 {
			conf = advice.ConfidenceHigh
		}
		return Insight{
			ID: "temp-trend", Emoji: "📉", Title: "Cooling down",
			Detail:     fmt.Sprintf("Temperatures drop about %.0f°C over the coming days.", -diff),
			Type:       TypeTrend,
			Confidence: conf,
		}
	default:
		conf := advice.ConfidenceHigh
		if tempRange(days) > 6 {
			conf = advice.ConfidenceMedium
		}
		return Insight{
			ID: "temp-trend", Emoji: "🌡️", Title: "Stable temperatures",
			Detail:     "No big temperature swings expected.",
			Type:       TypeTrend,
			Confidence: conf,
		}
	}
}

// rainPattern classifies the forecast window by how many days carry a rain
// probability of 50% or more.
func rainPattern(days []weather.ForecastDay) Insight {
	rainy := 0
	for _, d := range days {
		if d.Pop >= 50 {
			rainy++
		}
	}
	share := float64(rainy) / float64(len(days))

	switch {
	case rainy == 0:
		return Insight{
			ID: "rain-pattern", Emoji: "🌵", Title: "Dry spell ahead",
			Detail:     "No significant rain expected in the forecast window.",
			Type:       TypePattern,
			Confidence: advice.ConfidenceHigh,
		}
	case share >= 0.6:
		conf := advice.ConfidenceMedium
		if share >= 0.8 {
			conf = advice.ConfidenceHigh
		}
		return Insight{
			ID: "rain-pattern", Emoji: "🌧️", Title: "Rainy period",
			Detail:     fmt.Sprintf("%d of %d days look rainy — keep rain gear handy.", rainy, len(days)),
			Type:       TypePattern,
			Confidence: conf,
		}
	default:
		return Insight{
			ID: "rain-pattern", Emoji: "🌦️", Title: "Mixed conditions",
			Detail:     fmt.Sprintf("Rain on %d of %d days, dry otherwise.", rainy, len(days)),
			Type:       TypePattern,
			Confidence: advice.ConfidenceMedium,
		}
	}
}

// dayScore rates one forecast day for outdoor plans: temperature 40%,
// rain 40%, wind 20%.
func dayScore(d weather.ForecastDay) float64 {
	tempScore := 20.0
	switch {
	case d.TempMax >= 18 && d.TempMax <= 28:
		tempScore = 100
	case d.TempMax >= 10 && d.TempMax <= 35:
		tempScore = 60
	}

	rainScore := float64(100 - d.Pop)

	windScore := 20.0
	switch {
	case d.WindSpeed < 5:
		windScore = 100
	case d.WindSpeed < 10:
		windScore = 60
	}

	return 0.4*tempScore + 0.4*rainScore + 0.2*windScore
}

func bestOutdoorDay(days []weather.ForecastDay) Insight {
	best := 0
	bestScore := dayScore(days[0])
	for i := 1; i < len(days); i++ {
		if s := dayScore(days[i]); s > bestScore {
			best, bestScore = i, s
		}
	}

	conf := advice.ConfidenceLow
	switch {
	case bestScore > 80:
		conf = advice.ConfidenceHigh
	case bestScore > 60:
		conf = advice.ConfidenceMedium
	}

	return Insight{
		ID: "best-day", Emoji: "🏞️", Title: "Best day to be outside",
		Detail: fmt.Sprintf("%s looks like the pick of the window (%.0f°C, %d%% rain chance).",
			days[best].Date.Format("Monday"), days[best].TempMax, days[best].Pop),
		Type:       TypeRecommendation,
		Confidence: conf,
	}
}

// weekendOutlook summarizes any Saturday/Sunday entries in the forecast.
// Returns nil when the window contains no weekend day.
func weekendOutlook(days []weather.ForecastDay) *Insight {
	var weekend []weather.ForecastDay
	for _, d := range days {
		if wd := d.Date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekend = append(weekend, d)
		}
	}
	if len(weekend) == 0 {
		return nil
	}

	avg := avgMaxTemp(weekend)
	maxPop := 0
	for _, d := range weekend {
		if d.Pop > maxPop {
			maxPop = d.Pop
		}
	}

	conf := advice.ConfidenceLow
	if len(weekend) >= 2 {
		conf = advice.ConfidenceMedium
	}

	if maxPop > 40 {
		return &Insight{
			ID: "weekend", Emoji: "🌂", Title: "Weekend outlook",
			Detail: fmt.Sprintf("Around %.0f°C with rain possible (up to %d%% chance) — have a plan B.",
				avg, maxPop),
			Type:       TypeOutlook,
			Confidence: conf,
		}
	}
	return &Insight{
		ID: "weekend", Emoji: "🎉", Title: "Weekend outlook",
		Detail:     fmt.Sprintf("Looking good: around %.0f°C and mostly dry.", avg),
		Type:       TypeOutlook,
		Confidence: conf,
	}
}

// alerts runs the independent severe-condition checks. Each alert is
// reported once, at its first qualifying occurrence.
func alerts(days []weather.ForecastDay) []Insight {
	var out []Insight

	// Heat wave: three or more consecutive days at or above 35°C.
	run := 0
	for i, d := range days {
		if d.TempMax >= 35 {
			run++
		} else {
			run = 0
		}
		if run == 3 {
			out = append(out, Insight{
				ID: "heat-wave", Emoji: "🥵", Title: "Heat wave alert",
				Detail: fmt.Sprintf("At least three consecutive days at 35°C or above, starting %s.",
					days[i-2].Date.Format("Monday")),
				Type:       TypeAlert,
				Confidence: advice.ConfidenceHigh,
			})
			break
		}
	}

	// Cold snap: an adjacent-day drop of 10°C or more.
	for i := 1; i < len(days); i++ {
		if days[i-1].TempMax-days[i].TempMax >= 10 {
			out = append(out, Insight{
				ID: "cold-snap", Emoji: "🥶", Title: "Cold snap alert",
				Detail: fmt.Sprintf("Temperature drops %.0f°C from %s to %s.",
					days[i-1].TempMax-days[i].TempMax,
					days[i-1].Date.Format("Monday"), days[i].Date.Format("Monday")),
				Type:       TypeAlert,
				Confidence: advice.ConfidenceHigh,
			})
			break
		}
	}

	// Storm watch: a day with high rain probability and strong wind.
	for _, d := range days {
		if d.Pop >= 70 && d.WindSpeed > 8 {
			out = append(out, Insight{
				ID: "storm-watch", Emoji: "⛈️", Title: "Storm watch",
				Detail: fmt.Sprintf("%s combines a %d%% rain chance with strong wind.",
					d.Date.Format("Monday"), d.Pop),
				Type:       TypeAlert,
				Confidence: advice.ConfidenceMedium,
			})
			break
		}
	}

	return out
}

// activity is one row of the fixed eligibility table, evaluated against the
// current reading only.
type activity struct {
	name     string
	eligible func(r *weather.CanonicalReading) bool
}

var activities = []activity{
	{"jogging", func(r *weather.CanonicalReading) bool {
		return r.Temperature >= 15 && r.Temperature <= 30 && r.RainMm == 0
	}},
	{"cycling", func(r *weather.CanonicalReading) bool {
		return r.Temperature >= 20 && r.Temperature <= 35 && r.RainMm == 0
	}},
	{"hiking", func(r *weather.CanonicalReading) bool {
		return r.Temperature >= 5 && r.Temperature <= 25
	}},
	{"a picnic", func(r *weather.CanonicalReading) bool {
		return r.WindSpeed < 5 && r.Temperature >= 15
	}},
	{"skiing", func(r *weather.CanonicalReading) bool {
		return r.Temperature < 0 && r.SnowMm > 0
	}},
}

func activityRecommendation(days []weather.ForecastDay, r *weather.CanonicalReading) []Insight {
	var names []string
	for _, a := range activities {
		if a.eligible(r) {
			names = append(names, a.name)
		}
	}

	var out []Insight
	if len(names) == 0 {
		out = append(out, Insight{
			ID: "activities", Emoji: "🏋️", Title: "Activity suggestion",
			Detail:     "Conditions favor indoor workouts today.",
			Type:       TypeRecommendation,
			Confidence: advice.ConfidenceMedium,
		})
	} else {
		out = append(out, Insight{
			ID: "activities", Emoji: "🤸", Title: "Activity suggestion",
			Detail:     fmt.Sprintf("Current conditions suit %s.", strings.Join(names, ", ")),
			Type:       TypeRecommendation,
			Confidence: advice.ConfidenceMedium,
		})
	}

	// First forecast day with runnable weather, if any.
	for _, d := range days {
		if d.TempMax >= 10 && d.TempMax <= 25 && d.Pop < 30 && d.WindSpeed < 8 {
			out = append(out, Insight{
				ID: "best-run", Emoji: "🏃", Title: "Best running day",
				Detail: fmt.Sprintf("%s: %.0f°C, %d%% rain chance, light wind.",
					d.Date.Format("Monday"), d.TempMax, d.Pop),
				Type:       TypeRecommendation,
				Confidence: advice.ConfidenceMedium,
			})
			break
		}
	}

	return out
}

func summarize(days []weather.ForecastDay) Summary {
	rainy := 0
	for _, d := range days {
		if d.Pop >= 50 {
			rainy++
		}
	}

	diff := days[len(days)-1].TempMax - days[0].TempMax
	trend := "steady"
	switch {
	case diff > 3:
		trend = "warming"
	case diff < -3:
		trend = "cooling"
	}

	return Summary{
		AvgTemp:   int(math.Round(avgMaxTemp(days))),
		RainyDays: rainy,
		Trend:     trend,
	}
}

func avgMaxTemp(days []weather.ForecastDay) float64 {
	if len(days) == 0 {
		return 0
	}
	sum := 0.0
	for _, d := range days {
		sum += d.TempMax
	}
	return sum / float64(len(days))
}

func tempRange(days []weather.ForecastDay) float64 {
	min, max := days[0].TempMax, days[0].TempMax
	for _, d := range days[1:] {
		if d.TempMax < min {
			min = d.TempMax
		}
		if d.TempMax > max {
			max = d.TempMax
		}
	}
	return max - min
}
