package airquality

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

const airQualityCacheTTL = 10 * time.Minute

var _ AirQualityService = (*AirQualityServiceImpl)(nil)

// CurrentProvider serves real time readings for a city.
type CurrentProvider interface {
	Name() string
	Enabled() bool
	Current(ctx context.Context, city string) (*types.AirQuality, error)
}

// ForecastProvider serves dust forecasts for a city.
type ForecastProvider interface {
	Name() string
	Enabled() bool
	Forecast(ctx context.Context, city string) (*types.AirQualityForecast, error)
}

// StationProvider lists monitoring stations near a coordinate.
type StationProvider interface {
	Name() string
	Enabled() bool
	NearbyStations(ctx context.Context, lat, lon float64) ([]types.AirQualityStation, error)
}

// AirQualityService defines the business logic contract for air quality lookups.
type AirQualityService interface {
	GetCurrent(ctx context.Context, city string) (*types.AirQuality, error)
	GetForecast(ctx context.Context, city string) (*types.AirQualityForecast, error)
	GetNearbyStations(ctx context.Context, lat, lon float64) ([]types.AirQualityStation, error)
}

// AirQualityServiceImpl walks its provider chains in order. The first
// provider to answer wins; disabled or failing providers fall through.
type AirQualityServiceImpl struct {
	logger            *slog.Logger
	currentProviders  []CurrentProvider
	forecastProviders []ForecastProvider
	stationProviders  []StationProvider
	cache             *gocache.Cache
}

func NewAirQualityService(
	currentProviders []CurrentProvider,
	forecastProviders []ForecastProvider,
	stationProviders []StationProvider,
	logger *slog.Logger,
) *AirQualityServiceImpl {
	return &AirQualityServiceImpl{
		logger:            logger,
		currentProviders:  currentProviders,
		forecastProviders: forecastProviders,
		stationProviders:  stationProviders,
		cache:             gocache.New(airQualityCacheTTL, 5*time.Minute),
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

func recordFallback(ctx context.Context, provider, operation string) {
	m := metrics.Get()
	if m == nil {
		return
	}
	m.ProviderFallbacksTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("operation", operation),
	))
}

func (s *AirQualityServiceImpl) GetCurrent(ctx context.Context, city string) (*types.AirQuality, error) {
	ctx, span := otel.Tracer("AirQualityService").Start(ctx, "GetCurrent", trace.WithAttributes(
		attribute.String("airquality.city", city),
	))
	defer span.End()

	if city == "" {
		return nil, fmt.Errorf("%w: city is required", api.ErrBadRequest)
	}

	cacheKey := "airquality:current:" + city
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.(*types.AirQuality), nil
	}

	l := s.logger.With(slog.String("city", city))
	for _, p := range s.currentProviders {
		if !p.Enabled() {
			continue
		}
		start := time.Now()
		result, err := p.Current(ctx, city)
		recordProviderCall(ctx, p.Name(), "current", start, err)
		if err != nil {
			l.WarnContext(ctx, "air quality provider failed, trying next",
				slog.String("provider", p.Name()), slog.Any("error", err))
			recordFallback(ctx, p.Name(), "current")
			continue
		}
		s.cache.Set(cacheKey, result, airQualityCacheTTL)
		span.SetStatus(codes.Ok, "Air quality fetched")
		span.SetAttributes(attribute.String("airquality.source", p.Name()))
		return result, nil
	}

	err := fmt.Errorf("no air quality provider answered for %q: %w", city, api.ErrProviderUnavailable)
	span.RecordError(err)
	span.SetStatus(codes.Error, "All air quality providers failed")
	return nil, err
}

func (s *AirQualityServiceImpl) GetForecast(ctx context.Context, city string) (*types.AirQualityForecast, error) {
	ctx, span := otel.Tracer("AirQualityService").Start(ctx, "GetForecast", trace.WithAttributes(
		attribute.String("airquality.city", city),
	))
	defer span.End()

	if city == "" {
		return nil, fmt.Errorf("%w: city is required", api.ErrBadRequest)
	}

	cacheKey := "airquality:forecast:" + city
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.(*types.AirQualityForecast), nil
	}

	l := s.logger.With(slog.String("city", city))
	for _, p := range s.forecastProviders {
		if !p.Enabled() {
			continue
		}
		start := time.Now()
		result, err := p.Forecast(ctx, city)
		recordProviderCall(ctx, p.Name(), "forecast", start, err)
		if err != nil {
			l.WarnContext(ctx, "air quality forecast provider failed, trying next",
				slog.String("provider", p.Name()), slog.Any("error", err))
			recordFallback(ctx, p.Name(), "forecast")
			continue
		}
		s.cache.Set(cacheKey, result, airQualityCacheTTL)
		span.SetStatus(codes.Ok, "Air quality forecast fetched")
		return result, nil
	}

	err := fmt.Errorf("no air quality forecast provider answered for %q: %w", city, api.ErrProviderUnavailable)
	span.RecordError(err)
	span.SetStatus(codes.Error, "All air quality forecast providers failed")
	return nil, err
}

func (s *AirQualityServiceImpl) GetNearbyStations(ctx context.Context, lat, lon float64) ([]types.AirQualityStation, error) {
	ctx, span := otel.Tracer("AirQualityService").Start(ctx, "GetNearbyStations", trace.WithAttributes(
		attribute.Float64("airquality.lat", lat),
		attribute.Float64("airquality.lon", lon),
	))
	defer span.End()

	for _, p := range s.stationProviders {
		if !p.Enabled() {
			continue
		}
		start := time.Now()
		stations, err := p.NearbyStations(ctx, lat, lon)
		recordProviderCall(ctx, p.Name(), "stations", start, err)
		if err != nil {
			s.logger.WarnContext(ctx, "station provider failed, trying next",
				slog.String("provider", p.Name()), slog.Any("error", err))
			recordFallback(ctx, p.Name(), "stations")
			continue
		}
		span.SetStatus(codes.Ok, "Stations fetched")
		return stations, nil
	}

	err := fmt.Errorf("no station provider answered: %w", api.ErrProviderUnavailable)
	span.RecordError(err)
	span.SetStatus(codes.Error, "All station providers failed")
	return nil, err
}
