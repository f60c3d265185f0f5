package plan

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/weatherflick/weather-travel-api/internal/api"
	"github.com/weatherflick/weather-travel-api/internal/api/auth"
	"github.com/weatherflick/weather-travel-api/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	CreatePlan(w http.ResponseWriter, r *http.Request)
	GetPlan(w http.ResponseWriter, r *http.Request)
	ListPlans(w http.ResponseWriter, r *http.Request)
	UpdatePlan(w http.ResponseWriter, r *http.Request)
	DeletePlan(w http.ResponseWriter, r *http.Request)
	CreateShareLink(w http.ResponseWriter, r *http.Request)
	ListShareLinks(w http.ResponseWriter, r *http.Request)
	UpdateShareLink(w http.ResponseWriter, r *http.Request)
	RevokeShareLink(w http.ResponseWriter, r *http.Request)
	GetSharedPlan(w http.ResponseWriter, r *http.Request)
	CreateVersion(w http.ResponseWriter, r *http.Request)
	ListVersions(w http.ResponseWriter, r *http.Request)
	RestoreVersion(w http.ResponseWriter, r *http.Request)
	AddComment(w http.ResponseWriter, r *http.Request)
	ListComments(w http.ResponseWriter, r *http.Request)
	DeleteComment(w http.ResponseWriter, r *http.Request)
	InviteCollaborator(w http.ResponseWriter, r *http.Request)
	ListCollaborators(w http.ResponseWriter, r *http.Request)
	RemoveCollaborator(w http.ResponseWriter, r *http.Request)
	ToggleBookmark(w http.ResponseWriter, r *http.Request)
	ListBookmarks(w http.ResponseWriter, r *http.Request)
	UpsertRoute(w http.ResponseWriter, r *http.Request)
	ListRoutes(w http.ResponseWriter, r *http.Request)
	DeleteRoute(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	logger      *slog.Logger
	planService PlanService
}

func NewHandlerImpl(planService PlanService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		logger:      logger,
		planService: planService,
	}
}

func writePlanError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, api.ErrBadRequest):
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, api.ErrNotFound):
		api.ErrorResponse(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, api.ErrForbidden):
		api.ErrorResponse(w, r, http.StatusForbidden, err.Error())
	case errors.Is(err, api.ErrConflict):
		api.ErrorResponse(w, r, http.StatusConflict, err.Error())
	default:
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Travel plan request failed")
	}
}

// userIDFromContext expects the authenticate middleware to have run.
func userIDFromContext(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid user identity")
		return uuid.Nil, false
	}
	return userID, true
}

func planIDFromURL(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	planID, err := uuid.Parse(chi.URLParam(r, "planID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid plan ID")
		return uuid.Nil, false
	}
	return planID, true
}

func (h *HandlerImpl) CreatePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "CreatePlan"))

	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	var req types.CreateTravelPlanRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.planService.CreatePlan(ctx, userID, req)
	if err != nil {
		l.WarnContext(ctx, "Plan creation failed", slog.Any("error", err))
		writePlanError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, plan)
}

func (h *HandlerImpl) GetPlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}
	planID, ok := planIDFromURL(w, r)
	if !ok {
		return
	}

	plan, err := h.planService.GetPlan(ctx, userID, planID)
	if err != nil {
		writePlanError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, plan)
}

func (h *HandlerImpl) ListPlans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("page_size"))

	plans, err := h.planService.ListPlans(ctx, userID, query.Get("status"), page, pageSize)
	if err != nil {
		writePlanError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, plans)
}

func (h *HandlerImpl) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpdatePlan"))

	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}
	planID, ok := planIDFromURL(w, r)
	if !ok {
		return
	}

	var req types.UpdateTravelPlanRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.planService.UpdatePlan(ctx, userID, planID, req)
	if err != nil {
		l.WarnContext(ctx, "Plan update failed", slog.Any("error", err))
		writePlanError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, plan)
}

func (h *HandlerImpl) DeletePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}
	planID, ok := planIDFromURL(w, r)
	if !ok {
		return
	}

	if err := h.planService.DeletePlan(ctx, userID, planID); err != nil {
		writePlanError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *HandlerImpl) CreateShareLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "CreateShareLink"))

	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}
	planID, ok := planIDFromURL(w, r)
	if !ok {
		return
	}

	var req types.CreateShareRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	share, err := h.planService.CreateShareLink(ctx, userID, planID, req)
	if err != nil {
		l.WarnContext(ctx, "Share link creation failed", slog.Any("error", err))
		writePlanError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, share)
}

func (h *HandlerImpl) ListShareLinks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}
	planID, ok := planIDFromURL(w, r)
	if !ok {
		return
	}

	shares, err := h.planService.ListShareLinks(ctx, userID, planID)
	if err != nil {
		writePlanError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"shares": shares,
	})
}

func (h *HandlerImpl) UpdateShareLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}
	planID, ok := planIDFromURL(w, r)
	if !ok {
		return
	}
	shareID, err := uuid.Parse(chi.URLParam(r, "shareID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid share ID")
		return
	}

	var req types.UpdateShareRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	share, err := h.planService.UpdateShareLink(ctx, userID, planID, shareID, req)
	if err != nil {
		writePlanError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, share)
}

func (h *HandlerImpl) RevokeShareLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}
	planID, ok := planIDFromURL(w, r)
	if !ok {
		return
	}
	shareID, err := uuid.Parse(chi.URLParam(r, "shareID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid share ID")
		return
	}

	if err := h.planService.RevokeShareLink(ctx, userID, planID, shareID); err != nil {
		writePlanError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetSharedPlan serves share links. Authentication is optional here; a
// logged in owner gets edit rights regardless of the link permission.
func (h *HandlerImpl) GetSharedPlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetSharedPlan"))

	var viewerID *uuid.UUID
	if raw, ok := auth.GetUserIDFromContext(ctx); ok {
		if parsed, err := uuid.Parse(raw); err == nil {
			viewerID = &parsed
		}
	}

	shared, err := h.planService.GetSharedPlan(ctx, viewerID, chi.URLParam(r, "token"))
	if err != nil {
		l.WarnContext(ctx, "Shared plan lookup failed", slog.Any("error", err))
		writePlanError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, shared)
}

func (h *HandlerImpl) CreateVersion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}
	planID, ok := planIDFromURL(w, r)
	if !ok {
		return
	}

	var req types.CreateVersionRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	version, err := h.planService.CreateVersion(ctx, userID, planID, req)
	if err != nil {
		writePlanError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, version)
}

func (h *HandlerImpl) ListVersions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}
	planID, ok := planIDFromURL(w, r)
	if !ok {
		return
	}

	versions, err := h.planService.ListVersions(ctx, userID, planID)
	if err != nil {
		writePlanError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"versions": versions,
	})
}

func (h *HandlerImpl) RestoreVersion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "RestoreVersion"))

	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}
	planID, ok := planIDFromURL(w, r)
	if !ok {
		return
	}
	versionNumber, err := strconv.Atoi(chi.URLParam(r, "versionNumber"))
	if err != nil || versionNumber < 1 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid version number")
		return
	}

	plan, err := h.planService.RestoreVersion(ctx, userID, planID, versionNumber)
	if err != nil {
		l.WarnContext(ctx, "Version restore failed", slog.Any("error", err))
		writePlanError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, plan)
}

func (h *HandlerImpl) AddComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}
	planID, ok := planIDFromURL(w, r)
	if !ok {
		return
	}

	var req types.CreateCommentRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	comment, err := h.planService.AddComment(ctx, userID, planID, req)
	if err != nil {
		writePlanError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, comment)
}

func (h *HandlerImpl) ListComments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}
	planID, ok := planIDFromURL(w, r)
	if !ok {
		return
	}

	comments, err := h.planService.ListComments(ctx, userID, planID)
	if err != nil {
		writePlanError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"comments": comments,
	})
}

func (h *HandlerImpl) DeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}
	planID, ok := planIDFromURL(w, r)
	if !ok {
		return
	}
	commentID, err := uuid.Parse(chi.URLParam(r, "commentID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid comment ID")
		return
	}

	if err := h.planService.DeleteComment(ctx, userID, planID, commentID); err != nil {
		writePlanError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *HandlerImpl) InviteCollaborator(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "InviteCollaborator"))

	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}
	planID, ok := planIDFromURL(w, r)
	if !ok {
		return
	}

	var req types.InviteCollaboratorRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	collab, err := h.planService.InviteCollaborator(ctx, userID, planID, req)
	if err != nil {
		l.WarnContext(ctx, "Collaborator invite failed", slog.Any("error", err))
		writePlanError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, collab)
}

func (h *HandlerImpl) ListCollaborators(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}
	planID, ok := planIDFromURL(w, r)
	if !ok {
		return
	}

	collaborators, err := h.planService.ListCollaborators(ctx, userID, planID)
	if err != nil {
		writePlanError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"collaborators": collaborators,
	})
}

func (h *HandlerImpl) RemoveCollaborator(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}
	planID, ok := planIDFromURL(w, r)
	if !ok {
		return
	}
	collaboratorID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid collaborator ID")
		return
	}

	if err := h.planService.RemoveCollaborator(ctx, userID, planID, collaboratorID); err != nil {
		writePlanError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *HandlerImpl) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}
	planID, ok := planIDFromURL(w, r)
	if !ok {
		return
	}

	result, err := h.planService.ToggleBookmark(ctx, userID, planID)
	if err != nil {
		writePlanError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, result)
}

func (h *HandlerImpl) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	plans, err := h.planService.ListBookmarks(ctx, userID)
	if err != nil {
		writePlanError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"bookmarks": plans,
	})
}

func (h *HandlerImpl) UpsertRoute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}
	planID, ok := planIDFromURL(w, r)
	if !ok {
		return
	}

	var req types.UpsertRouteRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	route, err := h.planService.UpsertRoute(ctx, userID, planID, req)
	if err != nil {
		writePlanError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, route)
}

func (h *HandlerImpl) ListRoutes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}
	planID, ok := planIDFromURL(w, r)
	if !ok {
		return
	}

	routes, err := h.planService.ListRoutes(ctx, userID, planID)
	if err != nil {
		writePlanError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"routes": routes,
	})
}

func (h *HandlerImpl) DeleteRoute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}
	planID, ok := planIDFromURL(w, r)
	if !ok {
		return
	}
	routeOrder, err := strconv.Atoi(chi.URLParam(r, "routeOrder"))
	if err != nil || routeOrder < 1 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid route order")
		return
	}

	if err := h.planService.DeleteRoute(ctx, userID, planID, routeOrder); err != nil {
		writePlanError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
