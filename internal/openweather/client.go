// Package openweather fetches current conditions and forecasts from
// OpenWeatherMap and normalizes them into the canonical weather model.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/skycastapp/skycast/internal/weather"
)

const httpTimeout = 10 * time.Second

// Free-tier allowance is 60 calls/minute; one per second with a small burst
// stays comfortably inside it.
const (
	requestsPerSecond = 1.0
	requestBurst      = 5
)

const (
	currentDefaultURL = "https://api.openweathermap.org/data/2.5/weather"
	dailyDefaultURL   = "https://api.openweathermap.org/data/2.5/forecast/daily"
	seriesDefaultURL  = "https://api.openweathermap.org/data/2.5/forecast"
)

// Client talks to the OpenWeatherMap API. All requests share one rate
// limiter.
type Client struct {
	apiKey     string
	currentURL string
	dailyURL   string
	seriesURL  string
	client     *http.Client
	limiter    *rate.Limiter
	log        *slog.Logger
}

// NewClient constructs a Client with production URLs.
func NewClient(apiKey string, log *slog.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		currentURL: currentDefaultURL,
		dailyURL:   dailyDefaultURL,
		seriesURL:  seriesDefaultURL,
		client:     &http.Client{Timeout: httpTimeout},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
		log:        log,
	}
}

// NewClientWithURLs constructs a Client pointing at custom endpoints (for
// tests). The rate limiter is effectively disabled.
func NewClientWithURLs(currentURL, dailyURL, seriesURL, apiKey string, log *slog.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		currentURL: currentURL,
		dailyURL:   dailyURL,
		seriesURL:  seriesURL,
		client:     &http.Client{Timeout: httpTimeout},
		limiter:    rate.NewLimiter(rate.Inf, 1),
		log:        log,
	}
}

// doGet waits for rate-limiter permission, performs a GET, and decodes the
// JSON response into dst.
func (c *Client) doGet(ctx context.Context, rawURL string, dst any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request for %s: %w", rawURL, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s returned status %d", rawURL, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding response from %s: %w", rawURL, err)
	}

	return nil
}

type currentResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  float64 `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   int     `json:"deg"`
	} `json:"wind"`
	Clouds struct {
		All int `json:"all"`
	} `json:"clouds"`
	Visibility float64 `json:"visibility"` // meters
	Rain       struct {
		OneH float64 `json:"1h"`
	} `json:"rain"`
	Snow struct {
		OneH float64 `json:"1h"`
	} `json:"snow"`
	Sys struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Timezone int   `json:"timezone"`
	Dt       int64 `json:"dt"`
}

// Current fetches and normalizes current conditions for a city.
func (c *Client) Current(ctx context.Context, city string) (*weather.CanonicalReading, error) {
	endpoint := c.currentURL + "?q=" + url.QueryEscape(city) + "&appid=" + c.apiKey + "&units=metric"

	var raw currentResponse
	if err := c.doGet(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("openweathermap current for %s: %w", city, err)
	}

	condition := ""
	if len(raw.Weather) > 0 {
		condition = strings.ToLower(raw.Weather[0].Description)
	}

	name := raw.Name
	if name == "" {
		name = city
	}

	r := &weather.CanonicalReading{
		City:           name,
		Temperature:    raw.Main.Temp,
		FeelsLike:      raw.Main.FeelsLike,
		Humidity:       raw.Main.Humidity,
		WindSpeed:      raw.Wind.Speed,
		WindDeg:        raw.Wind.Deg,
		VisibilityKm:   weather.KmFromMeters(raw.Visibility),
		CloudCover:     raw.Clouds.All,
		RainMm:         raw.Rain.OneH,
		SnowMm:         raw.Snow.OneH,
		PressureHPa:    raw.Main.Pressure,
		Condition:      condition,
		Sunrise:        time.Unix(raw.Sys.Sunrise, 0).UTC(),
		Sunset:         time.Unix(raw.Sys.Sunset, 0).UTC(),
		TimezoneOffset: raw.Timezone,
		Lat:            raw.Coord.Lat,
		Lon:            raw.Coord.Lon,
		ObservedAt:     time.Unix(raw.Dt, 0).UTC(),
	}
	return weather.Normalize(r), nil
}

type dailyResponse struct {
	City struct {
		Timezone int `json:"timezone"`
	} `json:"city"`
	List []struct {
		Dt   int64 `json:"dt"`
		Temp struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		} `json:"temp"`
		Humidity int     `json:"humidity"`
		Speed    float64 `json:"speed"`
		Pop      float64 `json:"pop"` // 0..1
		Rain     float64 `json:"rain"`
		Snow     float64 `json:"snow"`
		Weather  []struct {
			Description string `json:"description"`
		} `json:"weather"`
		UVI *float64 `json:"uvi"` // absent on the free tier
	} `json:"list"`
}

type seriesResponse struct {
	City struct {
		Timezone int `json:"timezone"`
	} `json:"city"`
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Pop  float64 `json:"pop"` // 0..1
		Rain struct {
			ThreeH float64 `json:"3h"`
		} `json:"rain"`
	} `json:"list"`
}

// Forecast fetches the daily forecast for a city, preferring the daily
// endpoint and falling back transparently to the 3-hour series when it
// fails. The fallback aggregates the series into calendar days.
func (c *Client) Forecast(ctx context.Context, city string) ([]weather.ForecastDay, error) {
	days, err := c.forecastDaily(ctx, city)
	if err == nil {
		return days, nil
	}
	c.log.Warn("daily forecast unavailable, falling back to 3-hour series", "city", city, "err", err)

	days, serr := c.forecastFromSeries(ctx, city)
	if serr != nil {
		return nil, fmt.Errorf("openweathermap forecast for %s: %w", city, serr)
	}
	return days, nil
}

func (c *Client) forecastDaily(ctx context.Context, city string) ([]weather.ForecastDay, error) {
	endpoint := c.dailyURL + "?q=" + url.QueryEscape(city) +
		fmt.Sprintf("&cnt=%d", weather.MaxForecastDays) + "&appid=" + c.apiKey + "&units=metric"

	var raw dailyResponse
	if err := c.doGet(ctx, endpoint, &raw); err != nil {
		return nil, err
	}
	if len(raw.List) == 0 {
		return nil, fmt.Errorf("daily forecast for %s returned no entries", city)
	}

	loc := time.FixedZone("local", raw.City.Timezone)
	days := make([]weather.ForecastDay, 0, len(raw.List))
	for _, e := range raw.List {
		condition := ""
		if len(e.Weather) > 0 {
			condition = strings.ToLower(e.Weather[0].Description)
		}
		t := time.Unix(e.Dt, 0).In(loc)
		days = append(days, weather.ForecastDay{
			Date:            time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc),
			TempMax:         e.Temp.Max,
			TempMin:         e.Temp.Min,
			Pop:             int(math.Round(e.Pop * 100)),
			WindSpeed:       e.Speed,
			Condition:       condition,
			PrecipitationMm: e.Rain + e.Snow,
			UVIndex:         e.UVI,
		})
	}
	return weather.NormalizeForecast(days), nil
}

func (c *Client) forecastFromSeries(ctx context.Context, city string) ([]weather.ForecastDay, error) {
	endpoint := c.seriesURL + "?q=" + url.QueryEscape(city) + "&appid=" + c.apiKey + "&units=metric"

	var raw seriesResponse
	if err := c.doGet(ctx, endpoint, &raw); err != nil {
		return nil, err
	}
	if len(raw.List) == 0 {
		return nil, fmt.Errorf("series forecast for %s returned no entries", city)
	}

	points := make([]weather.SeriesPoint, 0, len(raw.List))
	for _, e := range raw.List {
		condition := ""
		if len(e.Weather) > 0 {
			condition = strings.ToLower(e.Weather[0].Description)
		}
		points = append(points, weather.SeriesPoint{
			Time:            time.Unix(e.Dt, 0).UTC(),
			Temp:            e.Main.Temp,
			Humidity:        e.Main.Humidity,
			WindSpeed:       e.Wind.Speed,
			Pop:             e.Pop,
			PrecipitationMm: e.Rain.ThreeH,
			Condition:       condition,
		})
	}
	return weather.AggregateDaily(points, raw.City.Timezone), nil
}
