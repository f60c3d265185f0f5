package airquality

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/weatherflick/weather-travel-api/internal/api"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetCurrent(w http.ResponseWriter, r *http.Request)
	GetForecast(w http.ResponseWriter, r *http.Request)
	GetNearbyStations(w http.ResponseWriter, r *http.Request)
	GetSupportedCities(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	airQualityService AirQualityService
	logger            *slog.Logger
}

func NewHandlerImpl(airQualityService AirQualityService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		airQualityService: airQualityService,
		logger:            logger,
	}
}

func writeProviderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, api.ErrBadRequest):
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		api.ErrorResponse(w, r, http.StatusRequestTimeout, "Upstream provider timed out")
	case errors.Is(err, api.ErrProviderUnavailable):
		api.ErrorResponse(w, r, http.StatusServiceUnavailable, "Air quality providers unavailable")
	default:
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Air quality lookup failed")
	}
}

func (h *HandlerImpl) GetCurrent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetCurrent"))

	city := chi.URLParam(r, "city")
	result, err := h.airQualityService.GetCurrent(ctx, city)
	if err != nil {
		l.WarnContext(ctx, "Air quality lookup failed", slog.String("city", city), slog.Any("error", err))
		writeProviderError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, result)
}

func (h *HandlerImpl) GetForecast(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetForecast"))

	city := chi.URLParam(r, "city")
	result, err := h.airQualityService.GetForecast(ctx, city)
	if err != nil {
		l.WarnContext(ctx, "Air quality forecast lookup failed", slog.String("city", city), slog.Any("error", err))
		writeProviderError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, result)
}

func (h *HandlerImpl) GetNearbyStations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetNearbyStations"))

	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "lat and lon query parameters are required")
		return
	}

	radius := 10.0
	if radiusStr := r.URL.Query().Get("radius"); radiusStr != "" {
		parsed, err := strconv.ParseFloat(radiusStr, 64)
		if err != nil || parsed <= 0 {
			api.ErrorResponse(w, r, http.StatusBadRequest, "radius must be a positive number")
			return
		}
		radius = parsed
	}

	stations, err := h.airQualityService.GetNearbyStations(ctx, lat, lon)
	if err != nil {
		l.WarnContext(ctx, "Station lookup failed", slog.Any("error", err))
		writeProviderError(w, r, err)
		return
	}

	filtered := stations[:0:0]
	for _, s := range stations {
		if s.Distance <= radius {
			filtered = append(filtered, s)
		}
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Distance < filtered[j].Distance })

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"latitude":  lat,
		"longitude": lon,
		"radius":    radius,
		"stations":  filtered,
	})
}

func (h *HandlerImpl) GetSupportedCities(w http.ResponseWriter, r *http.Request) {
	cities := make([]string, 0, len(stationCodes))
	for city := range stationCodes {
		cities = append(cities, city)
	}
	sort.Strings(cities)

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"cities": cities,
	})
}
