package weather

import (
	"math"
	"time"
)

// SeriesPoint is one entry of a finer-grained forecast series, e.g. a
// 3-hour step from a provider's free tier.
type SeriesPoint struct {
	Time            time.Time
	Temp            float64
	Humidity        int
	WindSpeed       float64
	Pop             float64 // 0..1 as providers report it
	PrecipitationMm float64
	Condition       string
}

// AggregateDaily groups a forecast series by calendar day in the location's
// timezone and reduces each group to a single ForecastDay: max/min
// temperature, averaged wind, max precipitation probability, summed
// precipitation, and the most frequent condition text. The result is ordered
// soonest-first and capped at MaxForecastDays. Points carry no UV data, so
// UVIndex stays nil.
func AggregateDaily(points []SeriesPoint, tzOffsetSeconds int) []ForecastDay {
	if len(points) == 0 {
		return nil
	}
	loc := time.FixedZone("local", tzOffsetSeconds)

	type group struct {
		date       time.Time
		tempMax    float64
		tempMin    float64
		windSum    float64
		maxPop     float64
		precipSum  float64
		count      int
		conditions map[string]int
		firstSeen  map[string]int // insertion order breaks frequency ties
	}

	var order []string
	groups := make(map[string]*group)

	for _, p := range points {
		local := p.Time.In(loc)
		key := local.Format("2006-01-02")
		g, ok := groups[key]
		if !ok {
			g = &group{
				date:       time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc),
				tempMax:    p.Temp,
				tempMin:    p.Temp,
				conditions: make(map[string]int),
				firstSeen:  make(map[string]int),
			}
			groups[key] = g
			order = append(order, key)
		}
		if p.Temp > g.tempMax {
			g.tempMax = p.Temp
		}
		if p.Temp < g.tempMin {
			g.tempMin = p.Temp
		}
		g.windSum += p.WindSpeed
		if p.Pop > g.maxPop {
			g.maxPop = p.Pop
		}
		g.precipSum += p.PrecipitationMm
		if _, seen := g.firstSeen[p.Condition]; !seen {
			g.firstSeen[p.Condition] = len(g.firstSeen)
		}
		g.conditions[p.Condition]++
		g.count++
	}

	days := make([]ForecastDay, 0, len(order))
	for _, key := range order {
		g := groups[key]
		days = append(days, ForecastDay{
			Date:            g.date,
			TempMax:         g.tempMax,
			TempMin:         g.tempMin,
			Pop:             int(math.Round(g.maxPop * 100)),
			WindSpeed:       g.windSum / float64(g.count),
			Condition:       dominantCondition(g.conditions, g.firstSeen),
			PrecipitationMm: g.precipSum,
		})
	}
	return NormalizeForecast(days)
}

func dominantCondition(counts, firstSeen map[string]int) string {
	best := ""
	bestCount := -1
	for cond, n := range counts {
		switch {
		case n > bestCount:
			best, bestCount = cond, n
		case n == bestCount && firstSeen[cond] < firstSeen[best]:
			best = cond
		}
	}
	return best
}
