// Package assistant answers free-text weather questions by classifying the
// question against an ordered pattern table and rendering a short templated
// response from the already-computed insights. Stateless per call.
package assistant

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/skycastapp/skycast/internal/insight"
	"github.com/skycastapp/skycast/internal/trend"
	"github.com/skycastapp/skycast/internal/weather"
)

// Intent is the classified purpose of a question.
type Intent string

const (
	IntentGoOutside Intent = "goOutside"
	IntentUmbrella  Intent = "umbrella"
	IntentTravel    Intent = "travel"
	IntentOutfit    Intent = "outfit"
	IntentComfort   Intent = "comfort"
	IntentWeekend   Intent = "weekend"
	IntentTomorrow  Intent = "tomorrow"
	IntentUVSun     Intent = "uvSun"
	IntentGeneral   Intent = "general"
)

// MissingDataAnswer is returned when no city has been looked up yet. It is
// the router's only failure mode.
const MissingDataAnswer = "I don't have weather data yet — search for a city first and ask me again."

// pattern pairs an intent with the expression that detects it.
type pattern struct {
	intent Intent
	re     *regexp.Regexp
}

// intentPatterns is the declared priority order: the first matching entry
// wins, so e.g. "what should I wear tomorrow" is an outfit question, not a
// tomorrow question.
var intentPatterns = []pattern{
	{IntentGoOutside, regexp.MustCompile(`go (out|outside)|going out|outside today|outdoors|step out|head out`)},
	{IntentUmbrella, regexp.MustCompile(`umbrella|raincoat|will it rain|rain today|rain later|chance of rain`)},
	{IntentTravel, regexp.MustCompile(`travel|road trip|driv(e|ing)|commute|trip`)},
	{IntentOutfit, regexp.MustCompile(`wear|outfit|dress|clothes|clothing`)},
	{IntentComfort, regexp.MustCompile(`comfort|pleasant|nice out|how (good|bad)|score`)},
	{IntentWeekend, regexp.MustCompile(`weekend|saturday|sunday`)},
	{IntentTomorrow, regexp.MustCompile(`tomorrow|next day`)},
	{IntentUVSun, regexp.MustCompile(`\buv\b|sunscreen|sunburn|sun protection|too sunny`)},
}

// Classify maps a free-text question to an intent. Unmatched questions are
// general.
func Classify(question string) Intent {
	q := strings.ToLower(strings.TrimSpace(question))
	if q == "" {
		return IntentGeneral
	}
	for _, p := range intentPatterns {
		if p.re.MatchString(q) {
			return p.intent
		}
	}
	return IntentGeneral
}

// Answer renders a short natural-language response for the question. ins
// and reading must both be present; otherwise the instructional
// MissingDataAnswer is returned.
func Answer(question string, ins *insight.Insights, rep *trend.Report, reading *weather.CanonicalReading, days []weather.ForecastDay) string {
	if ins == nil || reading == nil {
		return MissingDataAnswer
	}

	switch Classify(question) {
	case IntentGoOutside:
		return answerGoOutside(ins)
	case IntentUmbrella:
		return answerUmbrella(ins)
	case IntentTravel:
		return answerTravel(ins)
	case IntentOutfit:
		return answerOutfit(ins)
	case IntentComfort:
		return answerComfort(ins)
	case IntentWeekend:
		return answerWeekend(rep)
	case IntentTomorrow:
		return answerTomorrow(days)
	case IntentUVSun:
		return answerUV(ins)
	default:
		return answerGeneral(ins, reading)
	}
}

func answerGoOutside(ins *insight.Insights) string {
	a := ins.Advice.GoOutside
	s := fmt.Sprintf("%s %s", a.Emoji, a.Text)
	if len(a.Reasoning) > 0 {
		s += " " + a.Reasoning[0] + "."
	}
	return s
}

func answerUmbrella(ins *insight.Insights) string {
	a := ins.Advice.Umbrella
	return fmt.Sprintf("%s %s", a.Emoji, a.Text)
}

func answerTravel(ins *insight.Insights) string {
	a := ins.Advice.Travel
	s := fmt.Sprintf("%s %s", a.Emoji, a.Text)
	if !a.Suitable && len(a.Reasoning) > 0 {
		s += " Main concern: " + a.Reasoning[0] + "."
	}
	return s
}

func answerOutfit(ins *insight.Insights) string {
	items := ins.Advice.Outfit
	if len(items) == 0 {
		return "Anything goes today — no special clothing needed."
	}
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = strings.ToLower(it.Item[:1]) + it.Item[1:]
	}
	return "I'd suggest: " + strings.Join(names, ", ") + "."
}

func answerComfort(ins *insight.Insights) string {
	return fmt.Sprintf("Comfort score is %d out of 100. Biggest drag on it: %s (%s).",
		ins.Score, ins.Dominant.Factor, strings.ToLower(ins.Dominant.Reason[:1])+ins.Dominant.Reason[1:])
}

func answerWeekend(rep *trend.Report) string {
	if rep == nil || !rep.Available {
		return "I don't have enough forecast data to talk about the weekend yet."
	}
	for _, i := range rep.Insights {
		if i.ID == "weekend" {
			return fmt.Sprintf("%s %s", i.Emoji, i.Detail)
		}
	}
	return "The current forecast window doesn't reach the weekend."
}

func answerTomorrow(days []weather.ForecastDay) string {
	if len(days) < 2 {
		return "I only have today's forecast so far — try again later for tomorrow's outlook."
	}
	d := days[1]
	return fmt.Sprintf("Tomorrow: %s, %.0f°C to %.0f°C, %d%% chance of rain.",
		d.Condition, d.TempMin, d.TempMax, d.Pop)
}

func answerUV(ins *insight.Insights) string {
	if ins.Advice.UV == nil {
		return "No UV data is available for this location right now."
	}
	a := ins.Advice.UV
	return fmt.Sprintf("%s UV level is %s. %s", a.Emoji, a.Level, a.Text)
}

func answerGeneral(ins *insight.Insights, r *weather.CanonicalReading) string {
	return fmt.Sprintf("Right now in %s: %s at %s, comfort score %d/100. Ask me about going outside, umbrellas, outfits, travel, or the weekend.",
		r.City, r.Condition, weather.FormatTemp(r.Temperature), ins.Score)
}
