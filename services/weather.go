package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	ristretto_store "github.com/eko/gocache/store/ristretto/v4"
	"github.com/getsentry/sentry-go"

	"aistheticapi/wardrobe"
)

// Forecasts barely move within a day; cache them so back-to-back trip
// replans do not hammer the API.
const forecastCacheTTL = 6 * time.Hour

type WeatherServiceProvider interface {
	DailyWeather(ctx context.Context, latitude, longitude float64, start, end time.Time) ([]wardrobe.WeatherType, error)
}

// OpenMeteoService resolves daily weather types from the Open-Meteo
// forecast API, with an in-memory cache and a climate-based fallback when
// the API is unreachable.
type OpenMeteoService struct {
	cache   *cache.LoadableCache[[]wardrobe.WeatherType]
	baseURL string
}

type openMeteoRequest struct {
	latitude  float64
	longitude float64
	start     time.Time
	end       time.Time
}

type openMeteoResponse struct {
	Daily struct {
		Time             []string  `json:"time"`
		TemperatureMax   []float64 `json:"temperature_2m_max"`
		PrecipitationSum []float64 `json:"precipitation_sum"`
	} `json:"daily"`
}

func NewOpenMeteoService() (*OpenMeteoService, error) {
	ristrettoCache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     1 << 24,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ristretto cache: %w", err)
	}

	s := &OpenMeteoService{
		baseURL: GetEnv("OPEN_METEO_URL", "https://api.open-meteo.com/v1/forecast"),
	}

	loadFunction := func(ctx context.Context, key any) ([]wardrobe.WeatherType, []store.Option, error) {
		req, ok := key.(openMeteoRequest)
		if !ok {
			return nil, nil, fmt.Errorf("invalid key type provided to weather cache: %T", key)
		}
		log.Printf("CACHE MISS for forecast %v,%v %s..%s", req.latitude, req.longitude,
			req.start.Format("2006-01-02"), req.end.Format("2006-01-02"))
		types, err := s.fetchForecast(ctx, req)
		return types, []store.Option{store.WithExpiration(forecastCacheTTL)}, err
	}

	s.cache = cache.NewLoadable[[]wardrobe.WeatherType](
		loadFunction,
		cache.New[[]wardrobe.WeatherType](ristretto_store.NewRistretto(ristrettoCache)),
	)
	return s, nil
}

func (s *OpenMeteoService) DailyWeather(ctx context.Context, latitude, longitude float64, start, end time.Time) ([]wardrobe.WeatherType, error) {
	types, err := s.cache.Get(ctx, openMeteoRequest{
		latitude:  latitude,
		longitude: longitude,
		start:     start.Truncate(24 * time.Hour),
		end:       end.Truncate(24 * time.Hour),
	})
	if err != nil {
		sentry.CaptureException(fmt.Errorf("open-meteo forecast failed, using climate fallback: %w", err))
		fmt.Println("Forecast unavailable, falling back to climate estimate:", err)
		return climateFallback(latitude, start, end), nil
	}
	return types, nil
}

func (s *OpenMeteoService) fetchForecast(ctx context.Context, req openMeteoRequest) ([]wardrobe.WeatherType, error) {
	url := fmt.Sprintf(
		"%s?latitude=%.4f&longitude=%.4f&daily=temperature_2m_max,precipitation_sum&start_date=%s&end_date=%s&timezone=UTC",
		s.baseURL, req.latitude, req.longitude,
		req.start.Format("2006-01-02"), req.end.Format("2006-01-02"),
	)
	httpReq, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forecast request failed with status %d", resp.StatusCode)
	}

	var payload openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode forecast: %w", err)
	}
	if len(payload.Daily.Time) == 0 {
		return nil, fmt.Errorf("forecast returned no days")
	}

	types := make([]wardrobe.WeatherType, len(payload.Daily.Time))
	for i := range payload.Daily.Time {
		var maxTemp, rain float64
		if i < len(payload.Daily.TemperatureMax) {
			maxTemp = payload.Daily.TemperatureMax[i]
		}
		if i < len(payload.Daily.PrecipitationSum) {
			rain = payload.Daily.PrecipitationSum[i]
		}
		types[i] = ClassifyWeather(maxTemp, rain)
	}
	return types, nil
}

// ClassifyWeather buckets a daily max temperature (Celsius) and
// precipitation total (mm) into the closed weather-type set.
func ClassifyWeather(maxTempC, precipitationMm float64) wardrobe.WeatherType {
	if precipitationMm >= 5 && maxTempC > 5 {
		return wardrobe.WeatherRainy
	}
	switch {
	case maxTempC >= 27:
		return wardrobe.WeatherHot
	case maxTempC >= 21:
		return wardrobe.WeatherWarm
	case maxTempC >= 14:
		return wardrobe.WeatherMild
	case maxTempC >= 7:
		return wardrobe.WeatherChilly
	case maxTempC >= 0:
		return wardrobe.WeatherCold
	default:
		return wardrobe.WeatherReallyCold
	}
}

// climateFallback estimates one weather type per day from the calendar
// month alone, flipping seasons for the southern hemisphere. Coarse, but
// it keeps trip planning usable when the forecast API is down.
func climateFallback(latitude float64, start, end time.Time) []wardrobe.WeatherType {
	var types []wardrobe.WeatherType
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		month := d.Month()
		if latitude < 0 {
			month = ((month + 5) % 12) + 1
		}
		switch {
		case month >= time.June && month <= time.August:
			types = append(types, wardrobe.WeatherWarm)
		case month >= time.September && month <= time.November:
			types = append(types, wardrobe.WeatherChilly)
		case month == time.December || month <= time.February:
			types = append(types, wardrobe.WeatherCold)
		default:
			types = append(types, wardrobe.WeatherMild)
		}
	}
	return types
}
