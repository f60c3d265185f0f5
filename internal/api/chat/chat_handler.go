package chat

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/weatherflick/weather-travel-api/internal/api"
	"github.com/weatherflick/weather-travel-api/internal/api/auth"
	"github.com/weatherflick/weather-travel-api/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	SendMessage(w http.ResponseWriter, r *http.Request)
	GetHistory(w http.ResponseWriter, r *http.Request)
	ClearHistory(w http.ResponseWriter, r *http.Request)
	GetInitialMessage(w http.ResponseWriter, r *http.Request)
	GetConfig(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	chatService ChatService
	logger      *slog.Logger
}

func NewHandlerImpl(chatService ChatService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		chatService: chatService,
		logger:      logger,
	}
}

// identityFromRequest reads the optional authenticated user plus the
// anonymous session header used by the widget before login.
func identityFromRequest(r *http.Request) (*uuid.UUID, string) {
	var userID *uuid.UUID
	if raw, ok := auth.GetUserIDFromContext(r.Context()); ok {
		if parsed, err := uuid.Parse(raw); err == nil {
			userID = &parsed
		}
	}
	return userID, r.Header.Get("X-Chat-Session")
}

func writeChatError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, api.ErrBadRequest):
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
	default:
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Chat request failed")
	}
}

func (h *HandlerImpl) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "SendMessage"))

	var req types.ChatMessageRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	userID, sessionID := identityFromRequest(r)
	response, err := h.chatService.SendMessage(ctx, userID, sessionID, req)
	if err != nil {
		l.WarnContext(ctx, "Chat message failed", slog.Any("error", err))
		writeChatError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, response)
}

func (h *HandlerImpl) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetHistory"))

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	userID, sessionID := identityFromRequest(r)
	history, err := h.chatService.GetHistory(ctx, userID, sessionID, limit)
	if err != nil {
		l.WarnContext(ctx, "Chat history lookup failed", slog.Any("error", err))
		writeChatError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"messages": history,
	})
}

func (h *HandlerImpl) ClearHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ClearHistory"))

	raw, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	if err := h.chatService.ClearHistory(ctx, userID); err != nil {
		l.ErrorContext(ctx, "Chat history delete failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to clear chat history")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *HandlerImpl) GetInitialMessage(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, h.chatService.GetInitialMessage())
}

func (h *HandlerImpl) GetConfig(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, h.chatService.GetConfig())
}
