package weather

import (
	"fmt"
	"time"
)

var compassPoints = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CompassDirection converts wind degrees into a 16-point compass label.
// Degrees outside [0,360) are wrapped.
func CompassDirection(deg int) string {
	d := deg % 360
	if d < 0 {
		d += 360
	}
	// Each sector is 22.5° wide, centered on its point.
	idx := int((float64(d)+11.25)/22.5) % 16
	return compassPoints[idx]
}

// MsToKmh converts meters per second to kilometers per hour.
func MsToKmh(ms float64) float64 {
	return ms * 3.6
}

// KmFromMeters converts a visibility reading in meters to kilometers.
func KmFromMeters(m float64) float64 {
	return m / 1000
}

// LocalClock renders t as HH:MM in the location's timezone, given the
// offset in seconds east of UTC.
func LocalClock(t time.Time, offsetSeconds int) string {
	loc := time.FixedZone("local", offsetSeconds)
	return t.In(loc).Format("15:04")
}

// FormatTemp renders a temperature with one decimal and the degree sign.
func FormatTemp(c float64) string {
	return fmt.Sprintf("%.1f°C", c)
}
