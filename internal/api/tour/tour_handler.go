package tour

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/weatherflick/weather-travel-api/internal/api"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetFestivalsByCity(w http.ResponseWriter, r *http.Request)
	SearchAttractions(w http.ResponseWriter, r *http.Request)
	GetAttractionsByCity(w http.ResponseWriter, r *http.Request)
	GetAttraction(w http.ResponseWriter, r *http.Request)
	GetSupportedAreas(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	tourService TourService
	logger      *slog.Logger
}

func NewHandlerImpl(tourService TourService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		tourService: tourService,
		logger:      logger,
	}
}

func writeTourError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, api.ErrBadRequest), errors.Is(err, api.ErrBadLocation):
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, api.ErrNotFound):
		api.ErrorResponse(w, r, http.StatusNotFound, "Attraction not found")
	case errors.Is(err, api.ErrProviderUnavailable):
		api.ErrorResponse(w, r, http.StatusServiceUnavailable, "Tour data unavailable")
	default:
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Tour lookup failed")
	}
}

func limitFromQuery(r *http.Request, fallback int) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func (h *HandlerImpl) GetFestivalsByCity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetFestivalsByCity"))

	city := chi.URLParam(r, "city")
	festivals, err := h.tourService.GetFestivalsByCity(ctx, city, r.URL.Query().Get("event_start_date"), limitFromQuery(r, 20))
	if err != nil {
		l.WarnContext(ctx, "Festival lookup failed", slog.String("city", city), slog.Any("error", err))
		writeTourError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"city":      city,
		"festivals": festivals,
	})
}

func (h *HandlerImpl) SearchAttractions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "SearchAttractions"))

	query := r.URL.Query().Get("query")
	suggestions, err := h.tourService.SearchAttractions(ctx, query, limitFromQuery(r, 10))
	if err != nil {
		l.WarnContext(ctx, "Attraction search failed", slog.String("query", query), slog.Any("error", err))
		writeTourError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
	})
}

func (h *HandlerImpl) GetAttractionsByCity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetAttractionsByCity"))

	city := chi.URLParam(r, "city")
	attractions, err := h.tourService.GetAttractionsByCity(ctx, city, limitFromQuery(r, 20))
	if err != nil {
		l.WarnContext(ctx, "Attraction listing failed", slog.String("city", city), slog.Any("error", err))
		writeTourError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"city":        city,
		"attractions": attractions,
	})
}

func (h *HandlerImpl) GetAttraction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetAttraction"))

	contentID := chi.URLParam(r, "contentID")
	attraction, err := h.tourService.GetAttraction(ctx, contentID)
	if err != nil {
		l.WarnContext(ctx, "Attraction lookup failed", slog.String("content_id", contentID), slog.Any("error", err))
		writeTourError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, attraction)
}

func (h *HandlerImpl) GetSupportedAreas(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"areas": SupportedAreas(),
	})
}
