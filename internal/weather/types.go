package weather

import "time"

// CanonicalReading holds the current conditions for a city, normalized to
// metric units. Produced once per lookup and never mutated afterwards.
type CanonicalReading struct {
	City            string    `json:"city"`
	Temperature     float64   `json:"temperature"`       // °C
	FeelsLike       float64   `json:"feels_like"`        // °C
	Humidity        int       `json:"humidity"`          // %
	WindSpeed       float64   `json:"wind_speed"`        // m/s
	WindDeg         int       `json:"wind_deg"`          // degrees, 0 = north
	VisibilityKm    float64   `json:"visibility_km"`
	CloudCover      int       `json:"cloud_cover"`       // %
	RainMm          float64   `json:"rain_mm"`           // last hour
	SnowMm          float64   `json:"snow_mm"`           // last hour
	PressureHPa     float64   `json:"pressure_hpa"`
	Condition       string    `json:"condition"`         // lowercase description
	Sunrise         time.Time `json:"sunrise"`
	Sunset          time.Time `json:"sunset"`
	TimezoneOffset  int       `json:"timezone_offset"`   // seconds east of UTC
	Lat             float64   `json:"lat"`
	Lon             float64   `json:"lon"`
	ObservedAt      time.Time `json:"observed_at"`
}

// ForecastDay is one aggregated day of forecast. Index 0 in a forecast slice
// is the soonest day; a slice holds between 1 and 7 entries.
type ForecastDay struct {
	Date            time.Time `json:"date"`
	TempMax         float64   `json:"temp_max"` // °C
	TempMin         float64   `json:"temp_min"` // °C
	Pop             int       `json:"pop"`      // precipitation probability, 0-100
	WindSpeed       float64   `json:"wind_speed"`
	Condition       string    `json:"condition"`
	PrecipitationMm float64   `json:"precipitation_mm"`
	UVIndex         *float64  `json:"uv_index,omitempty"` // nil when the provider has no UV data
}

// Snapshot pairs a current reading with its forecast. The forecast may be
// empty when the forecast endpoint failed; that is not an error state.
type Snapshot struct {
	Reading  *CanonicalReading `json:"reading"`
	Forecast []ForecastDay     `json:"forecast"`
}
