package recommend

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/weatherflick/weather-travel-api/internal/api"
	"github.com/weatherflick/weather-travel-api/internal/api/auth"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetRecommendations(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	logger           *slog.Logger
	recommendService RecommendService
}

func NewHandlerImpl(recommendService RecommendService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		logger:           logger,
		recommendService: recommendService,
	}
}

// GetRecommendations serves weather-aware destination suggestions. Runs
// behind optional authentication; a logged in caller gets personalized
// scores from their saved preferences.
func (h *HandlerImpl) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetRecommendations"))

	city := r.URL.Query().Get("city")
	if city == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Query parameter 'city' is required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	var userID *uuid.UUID
	if raw, ok := auth.GetUserIDFromContext(ctx); ok {
		if parsed, err := uuid.Parse(raw); err == nil {
			userID = &parsed
		}
	}

	response, err := h.recommendService.GetRecommendations(ctx, userID, city, limit)
	if err != nil {
		l.WarnContext(ctx, "Recommendation lookup failed", slog.Any("error", err))
		switch {
		case errors.Is(err, api.ErrBadRequest):
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		default:
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Recommendation request failed")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, response)
}
