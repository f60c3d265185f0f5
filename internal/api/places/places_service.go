package places

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/weatherflick/weather-travel-api/internal/types"
)

const searchCacheTTL = 10 * time.Minute

// cityCoordinates covers the cities the frontend offers as search anchors.
var cityCoordinates = map[string]types.CityCoordinates{
	"서울": {Latitude: 37.5665, Longitude: 126.9780},
	"부산": {Latitude: 35.1796, Longitude: 129.0756},
	"대구": {Latitude: 35.8714, Longitude: 128.6014},
	"인천": {Latitude: 37.4563, Longitude: 126.7052},
	"광주": {Latitude: 35.1595, Longitude: 126.8526},
	"대전": {Latitude: 36.3504, Longitude: 127.3845},
	"울산": {Latitude: 35.5384, Longitude: 129.3114},
	"세종": {Latitude: 36.4800, Longitude: 127.2890},
	"수원": {Latitude: 37.2636, Longitude: 127.0286},
	"고양": {Latitude: 37.6584, Longitude: 126.8320},
	"용인": {Latitude: 37.2411, Longitude: 127.1776},
	"창원": {Latitude: 35.2278, Longitude: 128.6817},
	"포항": {Latitude: 36.0320, Longitude: 129.3650},
	"제주": {Latitude: 33.4996, Longitude: 126.5312},
}

var _ PlacesService = (*PlacesServiceImpl)(nil)

// LocalSearchProvider is the Naver-shaped place search source.
type LocalSearchProvider interface {
	SearchLocal(ctx context.Context, query, location string, limit int) ([]types.Place, error)
}

// PlacesService defines the business logic contract for place lookups.
type PlacesService interface {
	SearchPlaces(ctx context.Context, query, location string, limit int) ([]types.Place, error)
	GetNearbyPlaces(ctx context.Context, lat, lon float64, category string) ([]types.Place, error)
	GetNearbyRestaurants(ctx context.Context, lat, lon float64) ([]types.Place, error)
	GetNearbyHotels(ctx context.Context, lat, lon float64) ([]types.Place, error)
	GetNearbyTransit(ctx context.Context, lat, lon float64) ([]types.Place, error)
	GetRouteGuidance(start, goal, mode string) types.RouteGuidance
	GetCityCoordinates(city string) (types.CityCoordinates, bool)
	GetEmbedMapURL(lat, lon float64, zoom, width, height int) string
	GetStaticMapURL(lat, lon float64, zoom, width, height int) string
}

type PlacesServiceImpl struct {
	logger *slog.Logger
	search LocalSearchProvider
	cache  *gocache.Cache
}

func NewPlacesService(search LocalSearchProvider, logger *slog.Logger) *PlacesServiceImpl {
	return &PlacesServiceImpl{
		logger: logger,
		search: search,
		cache:  gocache.New(searchCacheTTL, 5*time.Minute),
	}
}

func (s *PlacesServiceImpl) SearchPlaces(ctx context.Context, query, location string, limit int) ([]types.Place, error) {
	ctx, span := otel.Tracer("PlacesService").Start(ctx, "SearchPlaces", trace.WithAttributes(
		attribute.String("places.query", query),
	))
	defer span.End()

	cacheKey := fmt.Sprintf("places:search:%s:%s:%d", query, location, limit)
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.([]types.Place), nil
	}

	results, err := s.search.SearchLocal(ctx, query, location, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Place search failed")
		return nil, fmt.Errorf("search places: %w", err)
	}

	s.cache.Set(cacheKey, results, searchCacheTTL)
	span.SetStatus(codes.Ok, "Places found")
	span.SetAttributes(attribute.Int("places.count", len(results)))
	return results, nil
}

func (s *PlacesServiceImpl) GetNearbyPlaces(ctx context.Context, lat, lon float64, category string) ([]types.Place, error) {
	query := "주변"
	if category != "" {
		query += " " + category
	}
	location := fmt.Sprintf("%g,%g", lat, lon)
	return s.SearchPlaces(ctx, query, location, 20)
}

func (s *PlacesServiceImpl) GetNearbyRestaurants(ctx context.Context, lat, lon float64) ([]types.Place, error) {
	return s.GetNearbyPlaces(ctx, lat, lon, "맛집")
}

func (s *PlacesServiceImpl) GetNearbyHotels(ctx context.Context, lat, lon float64) ([]types.Place, error) {
	return s.GetNearbyPlaces(ctx, lat, lon, "호텔")
}

func (s *PlacesServiceImpl) GetNearbyTransit(ctx context.Context, lat, lon float64) ([]types.Place, error) {
	return s.GetNearbyPlaces(ctx, lat, lon, "지하철역")
}

// GetRouteGuidance returns a deep link into Naver maps. Turn by turn
// routing is not part of the local search API.
func (s *PlacesServiceImpl) GetRouteGuidance(start, goal, mode string) types.RouteGuidance {
	if mode == "" {
		mode = "driving"
	}
	return types.RouteGuidance{
		Start:   start,
		Goal:    goal,
		Mode:    mode,
		MapURL:  fmt.Sprintf("https://map.naver.com/v5/directions/%s/%s", start, goal),
		Message: "네이버 지도에서 경로를 확인하세요.",
	}
}

func (s *PlacesServiceImpl) GetCityCoordinates(city string) (types.CityCoordinates, bool) {
	coords, ok := cityCoordinates[city]
	return coords, ok
}

func (s *PlacesServiceImpl) GetEmbedMapURL(lat, lon float64, zoom, width, height int) string {
	return fmt.Sprintf("https://map.naver.com/v5/embed/place/%g,%g?zoom=%d&width=%d&height=%d", lat, lon, zoom, width, height)
}

func (s *PlacesServiceImpl) GetStaticMapURL(lat, lon float64, zoom, width, height int) string {
	return fmt.Sprintf("https://map.naver.com/v5/staticmap?lat=%g&lng=%g&zoom=%d&size=%dx%d", lat, lon, zoom, width, height)
}
