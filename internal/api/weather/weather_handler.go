package weather

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/weatherflick/weather-travel-api/internal/api"
	"github.com/weatherflick/weather-travel-api/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetCurrent(w http.ResponseWriter, r *http.Request)
	GetCurrentByCity(w http.ResponseWriter, r *http.Request)
	GetForecastByCity(w http.ResponseWriter, r *http.Request)
	GetSupportedCities(w http.ResponseWriter, r *http.Request)

	GetKMAProvinces(w http.ResponseWriter, r *http.Request)
	GetKMACurrent(w http.ResponseWriter, r *http.Request)
	GetKMACurrentByProvince(w http.ResponseWriter, r *http.Request)
	GetKMAShortForecast(w http.ResponseWriter, r *http.Request)
	GetKMAMidForecast(w http.ResponseWriter, r *http.Request)
	GetKMAWarnings(w http.ResponseWriter, r *http.Request)
	GetKMACoordinates(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	weatherService WeatherService
	logger         *slog.Logger
}

func NewHandlerImpl(weatherService WeatherService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		weatherService: weatherService,
		logger:         logger,
	}
}

func writeProviderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, api.ErrBadLocation):
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid or unsupported location")
	case errors.Is(err, context.DeadlineExceeded):
		api.ErrorResponse(w, r, http.StatusRequestTimeout, "Upstream provider timed out")
	case errors.Is(err, api.ErrProviderUnavailable):
		api.ErrorResponse(w, r, http.StatusServiceUnavailable, "Upstream provider unavailable")
	default:
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Weather lookup failed")
	}
}

func locationFromQuery(r *http.Request) LocationQuery {
	q := LocationQuery{
		City:    r.URL.Query().Get("city"),
		Country: r.URL.Query().Get("country"),
	}
	if latStr := r.URL.Query().Get("lat"); latStr != "" {
		if lat, err := strconv.ParseFloat(latStr, 64); err == nil {
			q.Lat = &lat
		}
	}
	if lonStr := r.URL.Query().Get("lon"); lonStr != "" {
		if lon, err := strconv.ParseFloat(lonStr, 64); err == nil {
			q.Lon = &lon
		}
	}
	return q
}

func langFromQuery(r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return lang
	}
	return "ko"
}

func (h *HandlerImpl) GetCurrent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetCurrent"))

	current, err := h.weatherService.GetCurrentWeather(ctx, locationFromQuery(r), langFromQuery(r))
	if err != nil {
		l.WarnContext(ctx, "Current weather lookup failed", slog.Any("error", err))
		writeProviderError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, current)
}

func (h *HandlerImpl) GetCurrentByCity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetCurrentByCity"))

	q := LocationQuery{
		City:    chi.URLParam(r, "city"),
		Country: r.URL.Query().Get("country"),
	}
	current, err := h.weatherService.GetCurrentWeather(ctx, q, langFromQuery(r))
	if err != nil {
		l.WarnContext(ctx, "Current weather lookup failed", slog.String("city", q.City), slog.Any("error", err))
		writeProviderError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, current)
}

func (h *HandlerImpl) GetForecastByCity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetForecastByCity"))

	q := LocationQuery{
		City:    chi.URLParam(r, "city"),
		Country: r.URL.Query().Get("country"),
	}
	days := 3
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed < 1 {
			api.ErrorResponse(w, r, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = parsed
	}

	forecast, err := h.weatherService.GetForecast(ctx, q, days, langFromQuery(r))
	if err != nil {
		l.WarnContext(ctx, "Forecast lookup failed", slog.String("city", q.City), slog.Any("error", err))
		writeProviderError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, forecast)
}

func (h *HandlerImpl) GetSupportedCities(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"cities": SupportedCities(),
	})
}

func (h *HandlerImpl) GetKMAProvinces(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"provinces": SupportedProvinces(),
	})
}

func (h *HandlerImpl) GetKMACurrent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetKMACurrent"))

	city := chi.URLParam(r, "city")
	obs, err := h.weatherService.GetKMACurrent(ctx, city)
	if err != nil {
		l.WarnContext(ctx, "KMA nowcast lookup failed", slog.String("city", city), slog.Any("error", err))
		writeProviderError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, obs)
}

func (h *HandlerImpl) GetKMACurrentByProvince(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetKMACurrentByProvince"))

	province := chi.URLParam(r, "province")
	cities, ok := CitiesInProvince(province)
	if !ok {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Unsupported province")
		return
	}

	results := make(map[string]*types.KMAObservation, len(cities))
	for _, city := range cities {
		obs, err := h.weatherService.GetKMACurrent(ctx, city)
		if err != nil {
			l.WarnContext(ctx, "KMA nowcast lookup failed for province city",
				slog.String("city", city), slog.Any("error", err))
			continue
		}
		results[city] = obs
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"province": province,
		"cities":   results,
	})
}

func (h *HandlerImpl) GetKMAShortForecast(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetKMAShortForecast"))

	city := chi.URLParam(r, "city")
	forecast, err := h.weatherService.GetKMAShortForecast(ctx, city)
	if err != nil {
		l.WarnContext(ctx, "KMA short forecast lookup failed", slog.String("city", city), slog.Any("error", err))
		writeProviderError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, forecast)
}

func (h *HandlerImpl) GetKMAMidForecast(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetKMAMidForecast"))

	city := chi.URLParam(r, "city")
	forecast, err := h.weatherService.GetKMAMidForecast(ctx, city)
	if err != nil {
		l.WarnContext(ctx, "KMA mid forecast lookup failed", slog.String("city", city), slog.Any("error", err))
		writeProviderError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, forecast)
}

func (h *HandlerImpl) GetKMAWarnings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetKMAWarnings"))

	area := chi.URLParam(r, "area")
	report, err := h.weatherService.GetKMAWarnings(ctx, area)
	if err != nil {
		l.WarnContext(ctx, "KMA warning lookup failed", slog.String("area", area), slog.Any("error", err))
		writeProviderError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, report)
}

func (h *HandlerImpl) GetKMACoordinates(w http.ResponseWriter, r *http.Request) {
	city := chi.URLParam(r, "city")
	grid, ok := CityGrid(city)
	if !ok {
		api.ErrorResponse(w, r, http.StatusNotFound, "Unsupported city")
		return
	}

	regionID, _ := RegionCode(city)
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"city":        city,
		"coordinates": grid,
		"region_code": regionID,
	})
}
