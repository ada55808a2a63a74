// Package advice derives categorical recommendations from a comfort score
// and the raw reading. Every generator is a pure function: identical inputs
// always produce identical advice.
package advice

import (
	"fmt"
	"strings"

	"github.com/skycastapp/skycast/internal/weather"
)

// Generate produces the full advice set for one reading. pop is the
// resolved precipitation probability (0-100) and uvIndex may be nil when
// the provider has no UV data.
func Generate(comfortScore int, r *weather.CanonicalReading, pop int, uvIndex *float64) Set {
	return Set{
		GoOutside: ForGoingOutside(comfortScore, r),
		Umbrella:  ForUmbrella(r, pop),
		Travel:    ForTravel(comfortScore, r),
		Outfit:    ForOutfit(r, pop),
		UV:        ForUV(uvIndex),
	}
}

// ForGoingOutside decides whether stepping out is advisable. Hard overrides
// are checked in a fixed priority order before comfort-score tiers apply.
func ForGoingOutside(comfortScore int, r *weather.CanonicalReading) GoOutside {
	cond := strings.ToLower(r.Condition)
	reasoning := goOutsideReasoning(comfortScore, r)

	no := func(text string) GoOutside {
		return GoOutside{
			Level: "no",
			Basis: Basis{Emoji: "🏠", Text: text, Confidence: ConfidenceHigh, Reasoning: reasoning},
		}
	}

	switch {
	case r.SnowMm > 2 || strings.Contains(cond, "blizzard"):
		return no("Heavy snow out there — better to stay in.")
	case r.RainMm > 5 || strings.Contains(cond, "heavy rain") || strings.Contains(cond, "thunderstorm"):
		return no("Heavy rain or storms — not a day for going out.")
	case r.WindSpeed > 15:
		return no("Dangerously strong wind — stay indoors.")
	case r.Temperature > 42:
		return no("Extreme heat — avoid going outside.")
	case r.Temperature < -15:
		return no("Extreme cold — avoid going outside.")
	}

	switch {
	case comfortScore >= 70:
		return GoOutside{
			Level: "yes",
			Basis: Basis{Emoji: "🌞", Text: "Great conditions — go enjoy the outdoors!",
				Confidence: ConfidenceHigh, Reasoning: reasoning},
		}
	case comfortScore >= 45:
		return GoOutside{
			Level: "maybe",
			Basis: Basis{Emoji: "🤔", Text: "Decent enough, but check the details first.",
				Confidence: ConfidenceMedium, Reasoning: reasoning},
		}
	default:
		return GoOutside{
			Level: "maybe",
			Basis: Basis{Emoji: "😕", Text: "Not the best day out — your call.",
				Confidence: ConfidenceLow, Reasoning: reasoning},
		}
	}
}

// goOutsideReasoning builds the informational annotations in a fixed append
// order: comfort tier, temperature, precipitation presence, wind strength.
func goOutsideReasoning(comfortScore int, r *weather.CanonicalReading) []string {
	var reasons []string

	switch {
	case comfortScore >= 70:
		reasons = append(reasons, fmt.Sprintf("Comfort score of %d is high", comfortScore))
	case comfortScore >= 45:
		reasons = append(reasons, fmt.Sprintf("Comfort score of %d is moderate", comfortScore))
	default:
		reasons = append(reasons, fmt.Sprintf("Comfort score of %d is low", comfortScore))
	}

	switch {
	case r.Temperature < 0:
		reasons = append(reasons, fmt.Sprintf("It is below freezing at %s", weather.FormatTemp(r.Temperature)))
	case r.Temperature > 30:
		reasons = append(reasons, fmt.Sprintf("It is hot at %s", weather.FormatTemp(r.Temperature)))
	default:
		reasons = append(reasons, fmt.Sprintf("Temperature is %s", weather.FormatTemp(r.Temperature)))
	}

	if r.RainMm > 0 || r.SnowMm > 0 {
		reasons = append(reasons, "There is active precipitation")
	}

	if r.WindSpeed > 8 {
		reasons = append(reasons, fmt.Sprintf("Wind is strong at %.1f m/s", r.WindSpeed))
	}

	return reasons
}

// ForUmbrella decides whether to carry an umbrella based on thunderstorm
// text, precipitation probability, and active rain.
func ForUmbrella(r *weather.CanonicalReading, pop int) Umbrella {
	cond := strings.ToLower(r.Condition)

	switch {
	case strings.Contains(cond, "thunderstorm"):
		return Umbrella{
			Needed: true,
			Basis: Basis{Emoji: "⛈️", Text: "Definitely take an umbrella — thunderstorms around.",
				Confidence: ConfidenceHigh,
				Reasoning:  []string{"Thunderstorms reported in current conditions"}},
		}
	case pop >= 70 || r.RainMm > 2:
		return Umbrella{
			Needed: true,
			Basis: Basis{Emoji: "☔", Text: "Take an umbrella, rain is very likely.",
				Confidence: ConfidenceHigh,
				Reasoning:  []string{fmt.Sprintf("Rain probability is %d%%", pop)}},
		}
	case pop >= 40:
		return Umbrella{
			Needed: true,
			Basis: Basis{Emoji: "🌦️", Text: "An umbrella is a good idea today.",
				Confidence: ConfidenceMedium,
				Reasoning:  []string{fmt.Sprintf("Rain probability is %d%%", pop)}},
		}
	case pop >= 20:
		return Umbrella{
			Needed: false,
			Basis: Basis{Emoji: "🌤️", Text: "Probably fine without one, though it wouldn't hurt.",
				Confidence: ConfidenceLow,
				Reasoning:  []string{fmt.Sprintf("Rain probability is only %d%%", pop)}},
		}
	default:
		return Umbrella{
			Needed: false,
			Basis: Basis{Emoji: "☀️", Text: "No umbrella needed.",
				Confidence: ConfidenceHigh,
				Reasoning:  []string{fmt.Sprintf("Rain probability is only %d%%", pop)}},
		}
	}
}

// ForTravel collects hazard flags and decides trip suitability from the
// hazard count and the comfort score.
func ForTravel(comfortScore int, r *weather.CanonicalReading) Travel {
	cond := strings.ToLower(r.Condition)

	var hazards []string
	if r.VisibilityKm < 2 {
		hazards = append(hazards, fmt.Sprintf("Low visibility (%.1f km)", r.VisibilityKm))
	}
	if r.WindSpeed > 12 {
		hazards = append(hazards, fmt.Sprintf("High wind (%.1f m/s)", r.WindSpeed))
	}
	if r.RainMm > 4 {
		hazards = append(hazards, fmt.Sprintf("Heavy rain (%.1f mm)", r.RainMm))
	}
	if r.SnowMm > 1 {
		hazards = append(hazards, fmt.Sprintf("Snowfall (%.1f mm)", r.SnowMm))
	}
	if strings.Contains(cond, "fog") {
		hazards = append(hazards, "Fog reported")
	}

	switch {
	case len(hazards) >= 2:
		return Travel{
			Suitable: false,
			Basis: Basis{Emoji: "🚫", Text: "Travel is not advisable right now.",
				Confidence: ConfidenceHigh, Reasoning: hazards},
		}
	case len(hazards) == 1:
		return Travel{
			Suitable: false,
			Basis: Basis{Emoji: "⚠️", Text: "Travel is possible, but be careful.",
				Confidence: ConfidenceMedium, Reasoning: hazards},
		}
	case comfortScore >= 65:
		return Travel{
			Suitable: true,
			Basis: Basis{Emoji: "🚗", Text: "Great conditions for a trip.",
				Confidence: ConfidenceHigh,
				Reasoning:  []string{"No weather hazards detected", fmt.Sprintf("Comfort score of %d", comfortScore)}},
		}
	default:
		return Travel{
			Suitable: true,
			Basis: Basis{Emoji: "🚙", Text: "Travel is fine, conditions are acceptable.",
				Confidence: ConfidenceMedium,
				Reasoning:  []string{"No weather hazards detected"}},
		}
	}
}

// ForOutfit assembles clothing suggestions. Rule blocks run unconditionally
// in a fixed sequence; each appends zero or more items with the condition
// that triggered them.
func ForOutfit(r *weather.CanonicalReading, pop int) []OutfitItem {
	cond := strings.ToLower(r.Condition)
	feels := r.FeelsLike
	var items []OutfitItem

	// Base layer, 5 tiers on feels-like temperature.
	switch {
	case feels >= 28:
		items = append(items, OutfitItem{Item: "Light breathable t-shirt", Reason: "It feels hot outside"})
	case feels >= 20:
		items = append(items, OutfitItem{Item: "T-shirt or light top", Reason: "Warm and pleasant"})
	case feels >= 12:
		items = append(items, OutfitItem{Item: "Long sleeves with a light jacket", Reason: "Mild but cool"})
	case feels >= 5:
		items = append(items, OutfitItem{Item: "Sweater and a warm jacket", Reason: "It is cold out"})
	default:
		items = append(items, OutfitItem{Item: "Heavy winter coat with layers", Reason: "It is very cold out"})
	}

	// Legwear, 3 tiers.
	switch {
	case feels >= 20:
		items = append(items, OutfitItem{Item: "Shorts or light trousers", Reason: "Warm enough for light legwear"})
	case feels >= 10:
		items = append(items, OutfitItem{Item: "Jeans or long trousers", Reason: "Cool enough for full-length legwear"})
	default:
		items = append(items, OutfitItem{Item: "Warm or thermal trousers", Reason: "Cold legs make for a bad day"})
	}

	if pop >= 50 || r.RainMm > 0 || strings.Contains(cond, "rain") {
		items = append(items, OutfitItem{Item: "Raincoat or waterproof jacket", Reason: "Rain is likely"})
	}

	snowy := r.SnowMm > 0 || strings.Contains(cond, "snow")
	if snowy {
		items = append(items, OutfitItem{Item: "Waterproof boots", Reason: "Snow on the ground"})
		items = append(items, OutfitItem{Item: "Gloves", Reason: "Snow on the ground"})
	}

	if r.WindSpeed > 8 {
		items = append(items, OutfitItem{Item: "Windbreaker", Reason: "Strong wind today"})
	}

	if feels > 25 && !strings.Contains(cond, "rain") && !strings.Contains(cond, "cloud") {
		items = append(items, OutfitItem{Item: "Sunglasses and sunscreen", Reason: "Strong sun exposure likely"})
	}

	if feels <= 5 {
		items = append(items, OutfitItem{Item: "Warm hat and scarf", Reason: "Protect against the cold"})
		if !snowy { // gloves may already be on the list from the snow block
			items = append(items, OutfitItem{Item: "Gloves", Reason: "Protect against the cold"})
		}
	}

	return items
}

// uvTier is one row of the fixed UV threshold table.
type uvTier struct {
	min        float64
	level      string
	emoji      string
	text       string
	confidence Confidence
}

var uvTiers = []uvTier{
	{11, "extreme", "🔥", "Extreme UV — avoid the sun around midday.", ConfidenceHigh},
	{8, "very-high", "🥵", "Very high UV — sunscreen and shade are a must.", ConfidenceHigh},
	{6, "high", "😎", "High UV — wear sunscreen and sunglasses.", ConfidenceHigh},
	{3, "moderate", "🌤️", "Moderate UV — sunscreen recommended for long exposure.", ConfidenceMedium},
	{0, "low", "🌥️", "Low UV — no special protection needed.", ConfidenceHigh},
}

// ForUV returns sun-protection advice, or nil when no UV index is known.
func ForUV(uvIndex *float64) *UV {
	if uvIndex == nil {
		return nil
	}
	for _, t := range uvTiers {
		if *uvIndex >= t.min {
			return &UV{
				Level: t.level,
				Basis: Basis{Emoji: t.emoji, Text: t.text, Confidence: t.confidence,
					Reasoning: []string{fmt.Sprintf("UV index is %.1f", *uvIndex)}},
			}
		}
	}
	// Negative index still reads as low.
	last := uvTiers[len(uvTiers)-1]
	return &UV{
		Level: last.level,
		Basis: Basis{Emoji: last.emoji, Text: last.text, Confidence: last.confidence,
			Reasoning: []string{fmt.Sprintf("UV index is %.1f", *uvIndex)}},
	}
}
