package weather

// MaxForecastDays caps how many aggregated days a forecast carries.
const MaxForecastDays = 7

// ClampPercent bounds a percentage value to [0,100].
func ClampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ClampNonNegative floors negative measurements at zero. Providers
// occasionally report tiny negative precipitation or visibility values.
func ClampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// Normalize clamps a reading's fields to physical ranges in place and
// returns it. The scoring engine assumes inputs passed through here.
func Normalize(r *CanonicalReading) *CanonicalReading {
	if r == nil {
		return nil
	}
	r.Humidity = ClampPercent(r.Humidity)
	r.CloudCover = ClampPercent(r.CloudCover)
	r.WindSpeed = ClampNonNegative(r.WindSpeed)
	r.VisibilityKm = ClampNonNegative(r.VisibilityKm)
	r.RainMm = ClampNonNegative(r.RainMm)
	r.SnowMm = ClampNonNegative(r.SnowMm)
	return r
}

// NormalizeForecast clamps every day's fields and truncates the slice to
// MaxForecastDays entries.
func NormalizeForecast(days []ForecastDay) []ForecastDay {
	if len(days) > MaxForecastDays {
		days = days[:MaxForecastDays]
	}
	for i := range days {
		days[i].Pop = ClampPercent(days[i].Pop)
		days[i].WindSpeed = ClampNonNegative(days[i].WindSpeed)
		days[i].PrecipitationMm = ClampNonNegative(days[i].PrecipitationMm)
	}
	return days
}
