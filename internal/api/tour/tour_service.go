package tour

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/weatherflick/weather-travel-api/internal/api"
	"github.com/weatherflick/weather-travel-api/internal/types"
)

const festivalCacheTTL = 30 * time.Minute

var _ TourService = (*TourServiceImpl)(nil)

// FestivalProvider is the TourAPI-shaped festival source.
type FestivalProvider interface {
	SearchFestivals(ctx context.Context, areaCode, eventStartDate string, limit int) ([]types.Festival, error)
}

// TourService defines the business logic contract for tourism lookups.
type TourService interface {
	GetFestivalsByCity(ctx context.Context, city string, eventStartDate string, limit int) ([]types.Festival, error)
	SearchAttractions(ctx context.Context, query string, limit int) ([]types.AttractionSuggestion, error)
	GetAttractionsByCity(ctx context.Context, city string, limit int) ([]types.Attraction, error)
	GetAttraction(ctx context.Context, contentID string) (*types.Attraction, error)
}

type TourServiceImpl struct {
	logger    *slog.Logger
	festivals FestivalProvider
	repo      AttractionsRepo
	cache     *gocache.Cache
	now       func() time.Time
}

func NewTourService(festivals FestivalProvider, repo AttractionsRepo, logger *slog.Logger) *TourServiceImpl {
	return &TourServiceImpl{
		logger:    logger,
		festivals: festivals,
		repo:      repo,
		cache:     gocache.New(festivalCacheTTL, 5*time.Minute),
		now:       time.Now,
	}
}

func (s *TourServiceImpl) GetFestivalsByCity(ctx context.Context, city, eventStartDate string, limit int) ([]types.Festival, error) {
	ctx, span := otel.Tracer("TourService").Start(ctx, "GetFestivalsByCity", trace.WithAttributes(
		attribute.String("tour.city", city),
	))
	defer span.End()

	areaCode, ok := AreaCodeForCity(city)
	if !ok {
		return nil, fmt.Errorf("%w: no area code for city %q", api.ErrBadLocation, city)
	}
	if eventStartDate == "" {
		eventStartDate = s.now().Format("20060102")
	}

	cacheKey := fmt.Sprintf("tour:festivals:%s:%s:%d", areaCode, eventStartDate, limit)
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.([]types.Festival), nil
	}

	festivals, err := s.festivals.SearchFestivals(ctx, areaCode, eventStartDate, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Festival search failed")
		return nil, fmt.Errorf("search festivals: %w", err)
	}

	s.cache.Set(cacheKey, festivals, festivalCacheTTL)
	span.SetStatus(codes.Ok, "Festivals found")
	span.SetAttributes(attribute.Int("tour.count", len(festivals)))
	return festivals, nil
}

// SearchAttractions serves the frontend autocomplete. Queries shorter than
// two characters return an empty list without hitting the database.
func (s *TourServiceImpl) SearchAttractions(ctx context.Context, query string, limit int) ([]types.AttractionSuggestion, error) {
	ctx, span := otel.Tracer("TourService").Start(ctx, "SearchAttractions", trace.WithAttributes(
		attribute.String("tour.query", query),
	))
	defer span.End()

	query = strings.TrimSpace(query)
	if len([]rune(query)) < 2 {
		return []types.AttractionSuggestion{}, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	attractions, err := s.repo.SearchAttractions(ctx, query, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Attraction search failed")
		return nil, err
	}

	suggestions := make([]types.AttractionSuggestion, 0, len(attractions))
	for _, a := range attractions {
		suggestions = append(suggestions, types.AttractionSuggestion{
			Description: a.Name,
			PlaceID:     a.ContentID,
			StructuredFormatting: types.StructuredFormatting{
				MainText:      a.Name,
				SecondaryText: a.Address,
			},
		})
	}
	return suggestions, nil
}

func (s *TourServiceImpl) GetAttractionsByCity(ctx context.Context, city string, limit int) ([]types.Attraction, error) {
	ctx, span := otel.Tracer("TourService").Start(ctx, "GetAttractionsByCity", trace.WithAttributes(
		attribute.String("tour.city", city),
	))
	defer span.End()

	areaCode, ok := AreaCodeForCity(city)
	if !ok {
		return nil, fmt.Errorf("%w: no area code for city %q", api.ErrBadLocation, city)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	return s.repo.GetAttractionsByArea(ctx, areaCode, limit)
}

func (s *TourServiceImpl) GetAttraction(ctx context.Context, contentID string) (*types.Attraction, error) {
	if contentID == "" {
		return nil, fmt.Errorf("%w: content id is required", api.ErrBadRequest)
	}
	return s.repo.GetAttractionByContentID(ctx, contentID)
}
