package places

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/weatherflick/weather-travel-api/internal/api"
	"github.com/weatherflick/weather-travel-api/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	SearchPlaces(w http.ResponseWriter, r *http.Request)
	GetNearbyPlaces(w http.ResponseWriter, r *http.Request)
	GetNearbyRestaurants(w http.ResponseWriter, r *http.Request)
	GetNearbyHotels(w http.ResponseWriter, r *http.Request)
	GetNearbyTransit(w http.ResponseWriter, r *http.Request)
	GetRouteGuidance(w http.ResponseWriter, r *http.Request)
	GetCityCoordinates(w http.ResponseWriter, r *http.Request)
	GetSupportedCities(w http.ResponseWriter, r *http.Request)
	GetMapURLs(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	placesService PlacesService
	logger        *slog.Logger
}

func NewHandlerImpl(placesService PlacesService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		placesService: placesService,
		logger:        logger,
	}
}

func writeSearchError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, api.ErrBadRequest):
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		api.ErrorResponse(w, r, http.StatusRequestTimeout, "Upstream provider timed out")
	case errors.Is(err, api.ErrProviderUnavailable):
		api.ErrorResponse(w, r, http.StatusServiceUnavailable, "Place search unavailable")
	default:
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Place search failed")
	}
}

func coordsFromQuery(w http.ResponseWriter, r *http.Request) (float64, float64, bool) {
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "lat and lon query parameters are required")
		return 0, 0, false
	}
	return lat, lon, true
}

func (h *HandlerImpl) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "SearchPlaces"))

	query := r.URL.Query().Get("query")
	if query == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "query parameter is required")
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			api.ErrorResponse(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	results, err := h.placesService.SearchPlaces(ctx, query, r.URL.Query().Get("location"), limit)
	if err != nil {
		l.WarnContext(ctx, "Place search failed", slog.String("query", query), slog.Any("error", err))
		writeSearchError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"query":  query,
		"places": results,
	})
}

func (h *HandlerImpl) GetNearbyPlaces(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetNearbyPlaces"))

	lat, lon, ok := coordsFromQuery(w, r)
	if !ok {
		return
	}

	results, err := h.placesService.GetNearbyPlaces(ctx, lat, lon, r.URL.Query().Get("category"))
	if err != nil {
		l.WarnContext(ctx, "Nearby place search failed", slog.Any("error", err))
		writeSearchError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"places": results,
	})
}

func (h *HandlerImpl) GetNearbyRestaurants(w http.ResponseWriter, r *http.Request) {
	h.nearbyByCategory(w, r, "GetNearbyRestaurants", h.placesService.GetNearbyRestaurants)
}

func (h *HandlerImpl) GetNearbyHotels(w http.ResponseWriter, r *http.Request) {
	h.nearbyByCategory(w, r, "GetNearbyHotels", h.placesService.GetNearbyHotels)
}

func (h *HandlerImpl) GetNearbyTransit(w http.ResponseWriter, r *http.Request) {
	h.nearbyByCategory(w, r, "GetNearbyTransit", h.placesService.GetNearbyTransit)
}

func (h *HandlerImpl) nearbyByCategory(
	w http.ResponseWriter,
	r *http.Request,
	name string,
	lookup func(ctx context.Context, lat, lon float64) ([]types.Place, error),
) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", name))

	lat, lon, ok := coordsFromQuery(w, r)
	if !ok {
		return
	}

	results, err := lookup(ctx, lat, lon)
	if err != nil {
		l.WarnContext(ctx, "Nearby place search failed", slog.Any("error", err))
		writeSearchError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"places": results,
	})
}

func (h *HandlerImpl) GetRouteGuidance(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	goal := r.URL.Query().Get("goal")
	if start == "" || goal == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "start and goal query parameters are required")
		return
	}

	guidance := h.placesService.GetRouteGuidance(start, goal, r.URL.Query().Get("mode"))
	api.WriteJSONResponse(w, r, http.StatusOK, guidance)
}

func (h *HandlerImpl) GetCityCoordinates(w http.ResponseWriter, r *http.Request) {
	city := chi.URLParam(r, "city")
	coords, ok := h.placesService.GetCityCoordinates(city)
	if !ok {
		api.ErrorResponse(w, r, http.StatusNotFound, "Unknown city")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"city":        city,
		"coordinates": coords,
	})
}

func (h *HandlerImpl) GetSupportedCities(w http.ResponseWriter, r *http.Request) {
	cities := make([]string, 0, len(cityCoordinates))
	for city := range cityCoordinates {
		cities = append(cities, city)
	}
	sort.Strings(cities)

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"cities": cities,
	})
}

func (h *HandlerImpl) GetMapURLs(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := coordsFromQuery(w, r)
	if !ok {
		return
	}

	zoom := intQueryParam(r, "zoom", 15)
	width := intQueryParam(r, "width", 600)
	height := intQueryParam(r, "height", 400)

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"embed_url":  h.placesService.GetEmbedMapURL(lat, lon, zoom, width, height),
		"static_url": h.placesService.GetStaticMapURL(lat, lon, zoom, width, height),
	})
}

func intQueryParam(r *http.Request, name string, fallback int) int {
	if raw := r.URL.Query().Get(name); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}
