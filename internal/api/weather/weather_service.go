package weather

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/weatherflick/weather-travel-api/app/observability/metrics"
	"github.com/weatherflick/weather-travel-api/internal/api"
	"github.com/weatherflick/weather-travel-api/internal/types"
)

const (
	currentCacheTTL  = 10 * time.Minute
	forecastCacheTTL = 30 * time.Minute
)

var _ WeatherService = (*WeatherServiceImpl)(nil)

// CurrentProvider is the WeatherAPI-shaped current/forecast source.
type CurrentProvider interface {
	Current(ctx context.Context, q LocationQuery, lang string) (*types.CurrentWeather, error)
	Forecast(ctx context.Context, q LocationQuery, days int, lang string) (*types.Forecast, error)
}

// KMAProvider is the Korean public portal source.
type KMAProvider interface {
	Nowcast(ctx context.Context, nx, ny int) (*types.KMAObservation, error)
	ShortForecast(ctx context.Context, nx, ny int) (*types.KMAShortForecast, error)
	MidForecast(ctx context.Context, regionID string) (*types.KMAMidForecast, error)
	Warnings(ctx context.Context, area string) (*types.KMAWarningReport, error)
}

// WeatherService defines the business logic contract for weather lookups.
type WeatherService interface {
	GetCurrentWeather(ctx context.Context, q LocationQuery, lang string) (*types.CurrentWeather, error)
	GetForecast(ctx context.Context, q LocationQuery, days int, lang string) (*types.Forecast, error)

	GetKMACurrent(ctx context.Context, city string) (*types.KMAObservation, error)
	GetKMACurrentByGrid(ctx context.Context, nx, ny int) (*types.KMAObservation, error)
	GetKMAShortForecast(ctx context.Context, city string) (*types.KMAShortForecast, error)
	GetKMAMidForecast(ctx context.Context, city string) (*types.KMAMidForecast, error)
	GetKMAWarnings(ctx context.Context, area string) (*types.KMAWarningReport, error)
}

type WeatherServiceImpl struct {
	logger  *slog.Logger
	current CurrentProvider
	kma     KMAProvider
	cache   *gocache.Cache
}

func NewWeatherService(current CurrentProvider, kma KMAProvider, logger *slog.Logger) *WeatherServiceImpl {
	return &WeatherServiceImpl{
		logger:  logger,
		current: current,
		kma:     kma,
		cache:   gocache.New(currentCacheTTL, 5*time.Minute),
	}
}

func recordProviderCall(ctx context.Context, provider, operation string, start time.Time, err error) {
	m := metrics.Get()
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("operation", operation),
		attribute.Bool("error", err != nil),
	)
	m.ProviderRequestsTotal.Add(ctx, 1, attrs)
	m.ProviderDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
}

func (s *WeatherServiceImpl) GetCurrentWeather(ctx context.Context, q LocationQuery, lang string) (*types.CurrentWeather, error) {
	ctx, span := otel.Tracer("WeatherService").Start(ctx, "GetCurrentWeather", trace.WithAttributes(
		attribute.String("weather.city", q.City),
	))
	defer span.End()

	locKey, err := q.queryString()
	if err != nil {
		return nil, err
	}
	cacheKey := "weather:current:" + locKey + ":" + lang
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.(*types.CurrentWeather), nil
	}

	start := time.Now()
	current, err := s.current.Current(ctx, q, lang)
	recordProviderCall(ctx, "weatherapi", "current", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch current weather")
		return nil, fmt.Errorf("fetch current weather: %w", err)
	}

	s.cache.Set(cacheKey, current, currentCacheTTL)
	span.SetStatus(codes.Ok, "Current weather fetched")
	return current, nil
}

func (s *WeatherServiceImpl) GetForecast(ctx context.Context, q LocationQuery, days int, lang string) (*types.Forecast, error) {
	ctx, span := otel.Tracer("WeatherService").Start(ctx, "GetForecast", trace.WithAttributes(
		attribute.String("weather.city", q.City),
		attribute.Int("weather.days", days),
	))
	defer span.End()

	if days <= 0 {
		days = 3
	}

	locKey, err := q.queryString()
	if err != nil {
		return nil, err
	}
	cacheKey := fmt.Sprintf("weather:forecast:%s:%d:%s", locKey, days, lang)
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.(*types.Forecast), nil
	}

	start := time.Now()
	forecast, err := s.current.Forecast(ctx, q, days, lang)
	recordProviderCall(ctx, "weatherapi", "forecast", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch forecast")
		return nil, fmt.Errorf("fetch forecast: %w", err)
	}

	s.cache.Set(cacheKey, forecast, forecastCacheTTL)
	span.SetStatus(codes.Ok, "Forecast fetched")
	return forecast, nil
}

func (s *WeatherServiceImpl) GetKMACurrent(ctx context.Context, city string) (*types.KMAObservation, error) {
	grid, ok := CityGrid(city)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported city %q", api.ErrBadLocation, city)
	}
	return s.GetKMACurrentByGrid(ctx, grid.NX, grid.NY)
}

func (s *WeatherServiceImpl) GetKMACurrentByGrid(ctx context.Context, nx, ny int) (*types.KMAObservation, error) {
	ctx, span := otel.Tracer("WeatherService").Start(ctx, "GetKMACurrentByGrid", trace.WithAttributes(
		attribute.Int("kma.nx", nx),
		attribute.Int("kma.ny", ny),
	))
	defer span.End()

	if !ValidGrid(nx, ny) {
		return nil, fmt.Errorf("%w: grid (%d,%d) outside Korea", api.ErrBadLocation, nx, ny)
	}

	cacheKey := fmt.Sprintf("kma:nowcast:%d:%d", nx, ny)
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.(*types.KMAObservation), nil
	}

	start := time.Now()
	obs, err := s.kma.Nowcast(ctx, nx, ny)
	recordProviderCall(ctx, "kma", "nowcast", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch KMA nowcast")
		return nil, fmt.Errorf("fetch kma nowcast: %w", err)
	}

	s.cache.Set(cacheKey, obs, currentCacheTTL)
	return obs, nil
}

func (s *WeatherServiceImpl) GetKMAShortForecast(ctx context.Context, city string) (*types.KMAShortForecast, error) {
	ctx, span := otel.Tracer("WeatherService").Start(ctx, "GetKMAShortForecast", trace.WithAttributes(
		attribute.String("kma.city", city),
	))
	defer span.End()

	grid, ok := CityGrid(city)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported city %q", api.ErrBadLocation, city)
	}

	cacheKey := fmt.Sprintf("kma:short:%d:%d", grid.NX, grid.NY)
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.(*types.KMAShortForecast), nil
	}

	start := time.Now()
	forecast, err := s.kma.ShortForecast(ctx, grid.NX, grid.NY)
	recordProviderCall(ctx, "kma", "short_forecast", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch KMA short forecast")
		return nil, fmt.Errorf("fetch kma short forecast: %w", err)
	}

	s.cache.Set(cacheKey, forecast, forecastCacheTTL)
	return forecast, nil
}

func (s *WeatherServiceImpl) GetKMAMidForecast(ctx context.Context, city string) (*types.KMAMidForecast, error) {
	ctx, span := otel.Tracer("WeatherService").Start(ctx, "GetKMAMidForecast", trace.WithAttributes(
		attribute.String("kma.city", city),
	))
	defer span.End()

	regionID, ok := RegionCode(city)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported city %q", api.ErrBadLocation, city)
	}

	cacheKey := "kma:mid:" + regionID
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.(*types.KMAMidForecast), nil
	}

	start := time.Now()
	forecast, err := s.kma.MidForecast(ctx, regionID)
	recordProviderCall(ctx, "kma", "mid_forecast", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch KMA mid forecast")
		return nil, fmt.Errorf("fetch kma mid forecast: %w", err)
	}

	s.cache.Set(cacheKey, forecast, forecastCacheTTL)
	return forecast, nil
}

func (s *WeatherServiceImpl) GetKMAWarnings(ctx context.Context, area string) (*types.KMAWarningReport, error) {
	ctx, span := otel.Tracer("WeatherService").Start(ctx, "GetKMAWarnings", trace.WithAttributes(
		attribute.String("kma.area", area),
	))
	defer span.End()

	start := time.Now()
	report, err := s.kma.Warnings(ctx, area)
	recordProviderCall(ctx, "kma", "warnings", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch KMA warnings")
		return nil, fmt.Errorf("fetch kma warnings: %w", err)
	}
	return report, nil
}
