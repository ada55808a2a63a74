package weather_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycastapp/skycast/internal/weather"
)

func TestCompassDirection(t *testing.T) {
	tests := []struct {
		deg  int
		want string
	}{
		{0, "N"},
		{360, "N"},
		{90, "E"},
		{180, "S"},
		{270, "W"},
		{45, "NE"},
		{22, "NNE"},
		{-90, "W"},
		{349, "N"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, weather.CompassDirection(tc.deg), "deg=%d", tc.deg)
	}
}

func TestUnitConversions(t *testing.T) {
	assert.InDelta(t, 12.6, weather.MsToKmh(3.5), 1e-9)
	assert.Equal(t, 10.0, weather.KmFromMeters(10000))
}

func TestLocalClock(t *testing.T) {
	utc := time.Date(2026, 8, 30, 6, 30, 0, 0, time.UTC)
	assert.Equal(t, "08:30", weather.LocalClock(utc, 2*3600))
	assert.Equal(t, "03:30", weather.LocalClock(utc, -3*3600))
}

func TestNormalizeClampsToPhysicalRanges(t *testing.T) {
	r := &weather.CanonicalReading{
		Humidity:     140,
		CloudCover:   -5,
		WindSpeed:    -1,
		VisibilityKm: -0.3,
		RainMm:       -2,
	}

	weather.Normalize(r)
	assert.Equal(t, 100, r.Humidity)
	assert.Equal(t, 0, r.CloudCover)
	assert.Equal(t, 0.0, r.WindSpeed)
	assert.Equal(t, 0.0, r.VisibilityKm)
	assert.Equal(t, 0.0, r.RainMm)
}

func TestNormalizeForecastCapsAtSevenDays(t *testing.T) {
	days := make([]weather.ForecastDay, 10)
	got := weather.NormalizeForecast(days)
	assert.Len(t, got, 7)
}

func points(start time.Time, temps ...float64) []weather.SeriesPoint {
	out := make([]weather.SeriesPoint, len(temps))
	for i, temp := range temps {
		out[i] = weather.SeriesPoint{
			Time:      start.Add(time.Duration(i) * 3 * time.Hour),
			Temp:      temp,
			Condition: "few clouds",
		}
	}
	return out
}

func TestAggregateDaily_GroupsByCalendarDay(t *testing.T) {
	start := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	// 8 points at 3-hour steps cover exactly one UTC day.
	pts := points(start, 12, 11, 10, 14, 18, 20, 17, 14)

	days := weather.AggregateDaily(pts, 0)
	require.Len(t, days, 1)
	assert.Equal(t, 20.0, days[0].TempMax)
	assert.Equal(t, 10.0, days[0].TempMin)
	assert.Equal(t, "few clouds", days[0].Condition)
}

func TestAggregateDaily_TimezoneShiftsDayBoundary(t *testing.T) {
	// 22:00 and 01:00 UTC are the same day at UTC+3.
	start := time.Date(2026, 8, 30, 22, 0, 0, 0, time.UTC)
	pts := points(start, 15, 16)

	days := weather.AggregateDaily(pts, 3*3600)
	assert.Len(t, days, 1)

	days = weather.AggregateDaily(pts, 0)
	assert.Len(t, days, 2, "at UTC the points straddle midnight")
}

func TestAggregateDaily_Reductions(t *testing.T) {
	start := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	pts := []weather.SeriesPoint{
		{Time: start, Temp: 20, WindSpeed: 2, Pop: 0.2, PrecipitationMm: 0.5, Condition: "light rain"},
		{Time: start.Add(3 * time.Hour), Temp: 24, WindSpeed: 4, Pop: 0.7, PrecipitationMm: 1.5, Condition: "light rain"},
		{Time: start.Add(6 * time.Hour), Temp: 22, WindSpeed: 6, Pop: 0.4, PrecipitationMm: 0, Condition: "overcast"},
	}

	days := weather.AggregateDaily(pts, 0)
	require.Len(t, days, 1)
	d := days[0]

	assert.Equal(t, 24.0, d.TempMax)
	assert.Equal(t, 20.0, d.TempMin)
	assert.Equal(t, 70, d.Pop, "max pop across the day")
	assert.InDelta(t, 4.0, d.WindSpeed, 1e-9, "wind is averaged")
	assert.InDelta(t, 2.0, d.PrecipitationMm, 1e-9, "precipitation is summed")
	assert.Equal(t, "light rain", d.Condition, "most frequent condition wins")
	assert.Nil(t, d.UVIndex)
}

func TestAggregateDaily_ConditionTieBreaksOnFirstSeen(t *testing.T) {
	start := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	pts := []weather.SeriesPoint{
		{Time: start, Temp: 20, Condition: "overcast"},
		{Time: start.Add(3 * time.Hour), Temp: 21, Condition: "light rain"},
	}

	days := weather.AggregateDaily(pts, 0)
	require.Len(t, days, 1)
	assert.Equal(t, "overcast", days[0].Condition)
}

func TestAggregateDaily_Empty(t *testing.T) {
	assert.Nil(t, weather.AggregateDaily(nil, 0))
}
