package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/weatherflick/weather-travel-api/internal/api"
	"github.com/weatherflick/weather-travel-api/internal/api/weather"
	"github.com/weatherflick/weather-travel-api/internal/types"
)

const (
	defaultLimit = 10
	maxLimit     = 50

	// Conditions fall back to clear sky when the weather lookup fails.
	defaultCondition = "맑음"
	baseRating       = 3.0
)

var _ RecommendService = (*RecommendServiceImpl)(nil)

// WeatherSource is the slice of the weather service the recommender needs.
type WeatherSource interface {
	GetCurrentWeather(ctx context.Context, q weather.LocationQuery, lang string) (*types.CurrentWeather, error)
}

// AirQualitySource supplies current air quality for context in responses.
type AirQualitySource interface {
	GetCurrent(ctx context.Context, city string) (*types.AirQuality, error)
}

// UserReader loads the caller's saved preferences for personalization.
type UserReader interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (*types.UserAuth, error)
}

type RecommendService interface {
	GetRecommendations(ctx context.Context, userID *uuid.UUID, city string, limit int) (*types.RecommendationResponse, error)
}

type RecommendServiceImpl struct {
	logger     *slog.Logger
	repo       DestinationsRepo
	weather    WeatherSource
	airQuality AirQualitySource
	users      UserReader
}

func NewRecommendService(repo DestinationsRepo, weatherSource WeatherSource, airQuality AirQualitySource, users UserReader, logger *slog.Logger) *RecommendServiceImpl {
	return &RecommendServiceImpl{
		logger:     logger,
		repo:       repo,
		weather:    weatherSource,
		airQuality: airQuality,
		users:      users,
	}
}

// GetRecommendations scores destinations in the city's province against the
// current weather and the caller's saved preferences. An unsupported city
// yields an empty list rather than an error.
func (s *RecommendServiceImpl) GetRecommendations(ctx context.Context, userID *uuid.UUID, city string, limit int) (*types.RecommendationResponse, error) {
	ctx, span := otel.Tracer("RecommendService").Start(ctx, "GetRecommendations", trace.WithAttributes(
		attribute.String("recommend.city", city),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "GetRecommendations"), slog.String("city", city))

	if city == "" {
		return nil, fmt.Errorf("city is required: %w", api.ErrBadRequest)
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	province, ok := weather.ProvinceForCity(city)
	if !ok {
		l.InfoContext(ctx, "City not in destination coverage")
		return &types.RecommendationResponse{
			City:            city,
			WeatherTags:     []string{},
			Recommendations: []types.ScoredDestination{},
		}, nil
	}

	// Weather and air quality are independent lookups; neither failing
	// blocks the recommendation itself.
	var currentWeather *types.CurrentWeather
	var airQuality *types.AirQuality
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		w, err := s.weather.GetCurrentWeather(gctx, weather.LocationQuery{City: city}, "ko")
		if err != nil {
			l.WarnContext(gctx, "Weather lookup failed for recommendations", slog.Any("error", err))
			return nil
		}
		currentWeather = w
		return nil
	})
	g.Go(func() error {
		aq, err := s.airQuality.GetCurrent(gctx, city)
		if err != nil {
			l.WarnContext(gctx, "Air quality lookup failed for recommendations", slog.Any("error", err))
			return nil
		}
		airQuality = aq
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	condition := defaultCondition
	if currentWeather != nil && currentWeather.Current.Condition != "" {
		condition = currentWeather.Current.Condition
	}
	tags := tagsForCondition(condition)

	var destinations []types.Destination
	var err error
	if len(tags) == 0 {
		destinations, err = s.repo.ListByProvince(ctx, province)
	} else {
		destinations, err = s.repo.ListByProvinceAndTags(ctx, province, tags)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Destination lookup failed")
		return nil, err
	}

	preferences := s.preferencesFor(ctx, userID)
	scored := scoreDestinations(destinations, preferences)
	if len(scored) > limit {
		scored = scored[:limit]
	}

	if tags == nil {
		tags = []string{}
	}
	span.SetAttributes(attribute.Int("recommend.count", len(scored)))
	return &types.RecommendationResponse{
		City:            city,
		WeatherSummary:  currentWeather,
		AirQuality:      airQuality,
		WeatherTags:     tags,
		Recommendations: scored,
	}, nil
}

func (s *RecommendServiceImpl) preferencesFor(ctx context.Context, userID *uuid.UUID) []string {
	if userID == nil {
		return nil
	}
	user, err := s.users.GetUserByID(ctx, *userID)
	if err != nil {
		s.logger.WarnContext(ctx, "Preference lookup failed", slog.Any("error", err))
		return nil
	}
	return user.Preferences
}

// scoreDestinations ranks destinations by rating plus one point per tag the
// user's preferences share with the destination.
func scoreDestinations(destinations []types.Destination, preferences []string) []types.ScoredDestination {
	prefSet := make(map[string]struct{}, len(preferences))
	for _, p := range preferences {
		prefSet[p] = struct{}{}
	}

	scored := make([]types.ScoredDestination, 0, len(destinations))
	for _, d := range destinations {
		rating := baseRating
		if d.Rating != nil {
			rating = *d.Rating
		}

		matched := []string{}
		for _, tag := range d.Tags {
			if _, ok := prefSet[tag]; ok {
				matched = append(matched, tag)
			}
		}

		scored = append(scored, types.ScoredDestination{
			Destination: d,
			Score:       rating + float64(len(matched)),
			MatchedTags: matched,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}
