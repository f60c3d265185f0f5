package plan

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/weatherflick/weather-travel-api/internal/api"
	"github.com/weatherflick/weather-travel-api/internal/types"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Access roles a user can hold on a plan, from weakest to strongest.
type planRole int

const (
	roleNone planRole = iota
	roleViewer
	roleEditor
	roleOwner
)

var _ PlanService = (*PlanServiceImpl)(nil)

type PlanService interface {
	CreatePlan(ctx context.Context, userID uuid.UUID, req types.CreateTravelPlanRequest) (*types.TravelPlan, error)
	GetPlan(ctx context.Context, userID, planID uuid.UUID) (*types.TravelPlan, error)
	ListPlans(ctx context.Context, userID uuid.UUID, status string, page, pageSize int) (*types.PaginatedTravelPlans, error)
	UpdatePlan(ctx context.Context, userID, planID uuid.UUID, req types.UpdateTravelPlanRequest) (*types.TravelPlan, error)
	DeletePlan(ctx context.Context, userID, planID uuid.UUID) error

	CreateShareLink(ctx context.Context, userID, planID uuid.UUID, req types.CreateShareRequest) (*types.PlanShare, error)
	ListShareLinks(ctx context.Context, userID, planID uuid.UUID) ([]types.PlanShare, error)
	UpdateShareLink(ctx context.Context, userID, planID, shareID uuid.UUID, req types.UpdateShareRequest) (*types.PlanShare, error)
	RevokeShareLink(ctx context.Context, userID, planID, shareID uuid.UUID) error
	GetSharedPlan(ctx context.Context, viewerID *uuid.UUID, token string) (*types.SharedPlan, error)

	CreateVersion(ctx context.Context, userID, planID uuid.UUID, req types.CreateVersionRequest) (*types.PlanVersion, error)
	ListVersions(ctx context.Context, userID, planID uuid.UUID) ([]types.PlanVersion, error)
	RestoreVersion(ctx context.Context, userID, planID uuid.UUID, versionNumber int) (*types.TravelPlan, error)

	AddComment(ctx context.Context, userID, planID uuid.UUID, req types.CreateCommentRequest) (*types.PlanComment, error)
	ListComments(ctx context.Context, userID, planID uuid.UUID) ([]types.PlanComment, error)
	DeleteComment(ctx context.Context, userID, planID, commentID uuid.UUID) error

	InviteCollaborator(ctx context.Context, userID, planID uuid.UUID, req types.InviteCollaboratorRequest) (*types.Collaborator, error)
	ListCollaborators(ctx context.Context, userID, planID uuid.UUID) ([]types.Collaborator, error)
	RemoveCollaborator(ctx context.Context, userID, planID, collaboratorID uuid.UUID) error

	ToggleBookmark(ctx context.Context, userID, planID uuid.UUID) (*types.BookmarkResult, error)
	ListBookmarks(ctx context.Context, userID uuid.UUID) ([]types.TravelPlan, error)

	UpsertRoute(ctx context.Context, userID, planID uuid.UUID, req types.UpsertRouteRequest) (*types.TravelRoute, error)
	ListRoutes(ctx context.Context, userID, planID uuid.UUID) ([]types.TravelRoute, error)
	DeleteRoute(ctx context.Context, userID, planID uuid.UUID, routeOrder int) error
}

type PlanServiceImpl struct {
	logger       *slog.Logger
	repo         PlanRepo
	shareBaseURL string
	now          func() time.Time
}

func NewPlanService(repo PlanRepo, shareBaseURL string, logger *slog.Logger) *PlanServiceImpl {
	return &PlanServiceImpl{
		logger:       logger,
		repo:         repo,
		shareBaseURL: strings.TrimRight(shareBaseURL, "/"),
		now:          time.Now,
	}
}

// generateShareToken creates an opaque URL safe token for share links.
func generateShareToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate share token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// roleOn resolves the caller's strongest role on the plan.
func (s *PlanServiceImpl) roleOn(ctx context.Context, userID uuid.UUID, plan *types.TravelPlan) planRole {
	if plan.UserID == userID {
		return roleOwner
	}
	collab, err := s.repo.GetCollaborator(ctx, plan.ID, userID)
	if err != nil {
		return roleNone
	}
	if collab.Permission == types.PermissionEdit {
		return roleEditor
	}
	return roleViewer
}

// planWithRole loads a plan and enforces the minimum role the operation needs.
func (s *PlanServiceImpl) planWithRole(ctx context.Context, userID, planID uuid.UUID, need planRole) (*types.TravelPlan, planRole, error) {
	plan, err := s.repo.GetPlanByID(ctx, planID)
	if err != nil {
		return nil, roleNone, err
	}
	role := s.roleOn(ctx, userID, plan)
	if role < need {
		if role == roleNone {
			return nil, roleNone, fmt.Errorf("plan %s: %w", planID, api.ErrNotFound)
		}
		return nil, role, fmt.Errorf("insufficient plan permission: %w", api.ErrForbidden)
	}
	return plan, role, nil
}

func (s *PlanServiceImpl) CreatePlan(ctx context.Context, userID uuid.UUID, req types.CreateTravelPlanRequest) (*types.TravelPlan, error) {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "CreatePlan", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "CreatePlan"), slog.String("userID", userID.String()))

	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("title is required: %w", api.ErrBadRequest)
	}
	if req.Status != "" && !types.ValidPlanStatus(req.Status) {
		return nil, fmt.Errorf("invalid status %q: %w", req.Status, api.ErrBadRequest)
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("end date precedes start date: %w", api.ErrBadRequest)
	}

	plan, err := s.repo.CreatePlan(ctx, userID, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create travel plan", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Plan creation failed")
		return nil, err
	}

	l.InfoContext(ctx, "Travel plan created", slog.String("planID", plan.ID.String()))
	span.SetStatus(codes.Ok, "Plan created")
	return plan, nil
}

func (s *PlanServiceImpl) GetPlan(ctx context.Context, userID, planID uuid.UUID) (*types.TravelPlan, error) {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "GetPlan")
	defer span.End()

	plan, role, err := s.planWithRole(ctx, userID, planID, roleViewer)
	if err != nil {
		return nil, err
	}
	if role == roleViewer || role == roleEditor {
		if err := s.repo.TouchCollaboratorViewed(ctx, planID, userID); err != nil {
			s.logger.WarnContext(ctx, "Failed to record collaborator view", slog.Any("error", err))
		}
	}
	return plan, nil
}

func (s *PlanServiceImpl) ListPlans(ctx context.Context, userID uuid.UUID, status string, page, pageSize int) (*types.PaginatedTravelPlans, error) {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "ListPlans", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	if status != "" && !types.ValidPlanStatus(status) {
		return nil, fmt.Errorf("invalid status %q: %w", status, api.ErrBadRequest)
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return s.repo.ListPlansByUser(ctx, userID, status, page, pageSize)
}

func (s *PlanServiceImpl) UpdatePlan(ctx context.Context, userID, planID uuid.UUID, req types.UpdateTravelPlanRequest) (*types.TravelPlan, error) {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "UpdatePlan")
	defer span.End()
	l := s.logger.With(slog.String("method", "UpdatePlan"), slog.String("planID", planID.String()))

	if req.Status != nil && !types.ValidPlanStatus(*req.Status) {
		return nil, fmt.Errorf("invalid status %q: %w", *req.Status, api.ErrBadRequest)
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, fmt.Errorf("title cannot be empty: %w", api.ErrBadRequest)
	}

	if _, _, err := s.planWithRole(ctx, userID, planID, roleEditor); err != nil {
		return nil, err
	}

	plan, err := s.repo.UpdatePlan(ctx, planID, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to update travel plan", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Plan update failed")
		return nil, err
	}
	return plan, nil
}

func (s *PlanServiceImpl) DeletePlan(ctx context.Context, userID, planID uuid.UUID) error {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "DeletePlan")
	defer span.End()

	if _, _, err := s.planWithRole(ctx, userID, planID, roleOwner); err != nil {
		return err
	}
	if err := s.repo.DeletePlan(ctx, planID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Plan delete failed")
		return err
	}
	s.logger.InfoContext(ctx, "Travel plan deleted",
		slog.String("planID", planID.String()), slog.String("userID", userID.String()))
	return nil
}

func (s *PlanServiceImpl) shareLink(token string) string {
	return s.shareBaseURL + "/" + token
}

// CreateShareLink issues a fresh share token for a plan. Only one link is
// active at a time, so any previous active link is deactivated first.
func (s *PlanServiceImpl) CreateShareLink(ctx context.Context, userID, planID uuid.UUID, req types.CreateShareRequest) (*types.PlanShare, error) {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "CreateShareLink")
	defer span.End()
	l := s.logger.With(slog.String("method", "CreateShareLink"), slog.String("planID", planID.String()))

	permission := req.Permission
	if permission == "" {
		permission = types.PermissionView
	}
	if permission != types.PermissionView && permission != types.PermissionEdit {
		return nil, fmt.Errorf("invalid permission %q: %w", permission, api.ErrBadRequest)
	}
	if req.ExpiresAt != nil && req.ExpiresAt.Before(s.now()) {
		return nil, fmt.Errorf("expiry is in the past: %w", api.ErrBadRequest)
	}
	if req.MaxUses != nil && *req.MaxUses < 1 {
		return nil, fmt.Errorf("max uses must be positive: %w", api.ErrBadRequest)
	}

	if _, _, err := s.planWithRole(ctx, userID, planID, roleOwner); err != nil {
		return nil, err
	}

	token, err := generateShareToken()
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeactivateShares(ctx, planID); err != nil {
		l.ErrorContext(ctx, "Failed to deactivate previous share links", slog.Any("error", err))
		span.RecordError(err)
		return nil, err
	}

	share, err := s.repo.CreateShare(ctx, planID, userID, token, permission, req.ExpiresAt, req.MaxUses)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create share link", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Share creation failed")
		return nil, err
	}
	share.ShareLink = s.shareLink(share.ShareToken)

	l.InfoContext(ctx, "Share link created", slog.String("permission", permission))
	return share, nil
}

func (s *PlanServiceImpl) ListShareLinks(ctx context.Context, userID, planID uuid.UUID) ([]types.PlanShare, error) {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "ListShareLinks")
	defer span.End()

	if _, _, err := s.planWithRole(ctx, userID, planID, roleOwner); err != nil {
		return nil, err
	}
	shares, err := s.repo.ListShares(ctx, planID)
	if err != nil {
		return nil, err
	}
	for i := range shares {
		shares[i].ShareLink = s.shareLink(shares[i].ShareToken)
	}
	return shares, nil
}

// UpdateShareLink flips an existing link between active and inactive.
func (s *PlanServiceImpl) UpdateShareLink(ctx context.Context, userID, planID, shareID uuid.UUID, req types.UpdateShareRequest) (*types.PlanShare, error) {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "UpdateShareLink")
	defer span.End()

	if req.IsActive == nil {
		return nil, fmt.Errorf("is_active is required: %w", api.ErrBadRequest)
	}
	if _, _, err := s.planWithRole(ctx, userID, planID, roleOwner); err != nil {
		return nil, err
	}

	share, err := s.repo.SetShareActive(ctx, planID, shareID, *req.IsActive)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	share.ShareLink = s.shareLink(share.ShareToken)
	return share, nil
}

func (s *PlanServiceImpl) RevokeShareLink(ctx context.Context, userID, planID, shareID uuid.UUID) error {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "RevokeShareLink")
	defer span.End()

	if _, _, err := s.planWithRole(ctx, userID, planID, roleOwner); err != nil {
		return err
	}
	return s.repo.DeactivateShare(ctx, planID, shareID)
}

// GetSharedPlan resolves a share token to its plan, enforcing expiry and
// use caps. Each successful resolution counts as one use.
func (s *PlanServiceImpl) GetSharedPlan(ctx context.Context, viewerID *uuid.UUID, token string) (*types.SharedPlan, error) {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "GetSharedPlan")
	defer span.End()
	l := s.logger.With(slog.String("method", "GetSharedPlan"))

	if token == "" {
		return nil, fmt.Errorf("share token is required: %w", api.ErrBadRequest)
	}

	share, err := s.repo.GetShareByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !share.IsActive {
		return nil, fmt.Errorf("share link revoked: %w", api.ErrNotFound)
	}
	if share.ExpiresAt != nil && share.ExpiresAt.Before(s.now()) {
		if derr := s.repo.DeactivateShare(ctx, share.PlanID, share.ID); derr != nil {
			l.WarnContext(ctx, "Failed to deactivate expired share link", slog.Any("error", derr))
		}
		return nil, fmt.Errorf("share link expired: %w", api.ErrNotFound)
	}
	if share.MaxUses != nil && share.UseCount >= *share.MaxUses {
		if derr := s.repo.DeactivateShare(ctx, share.PlanID, share.ID); derr != nil {
			l.WarnContext(ctx, "Failed to deactivate exhausted share link", slog.Any("error", derr))
		}
		return nil, fmt.Errorf("share link exhausted: %w", api.ErrNotFound)
	}

	plan, err := s.repo.GetPlanByID(ctx, share.PlanID)
	if err != nil {
		return nil, err
	}
	comments, err := s.repo.ListComments(ctx, plan.ID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.IncrementShareUse(ctx, share.ID); err != nil {
		l.WarnContext(ctx, "Failed to count share use", slog.Any("error", err))
	}

	// Anonymous viewers never get edit rights, whatever the link grants.
	canEdit := false
	if viewerID != nil && (*viewerID == plan.UserID || share.Permission == types.PermissionEdit) {
		canEdit = true
	}

	return &types.SharedPlan{
		TravelPlan:      *plan,
		CanEdit:         canEdit,
		SharePermission: share.Permission,
		Comments:        comments,
	}, nil
}

func (s *PlanServiceImpl) CreateVersion(ctx context.Context, userID, planID uuid.UUID, req types.CreateVersionRequest) (*types.PlanVersion, error) {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "CreateVersion")
	defer span.End()

	if _, _, err := s.planWithRole(ctx, userID, planID, roleEditor); err != nil {
		return nil, err
	}
	version, err := s.repo.CreateVersion(ctx, planID, userID, req.ChangeDescription)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Version creation failed")
		return nil, err
	}
	s.logger.InfoContext(ctx, "Plan version created",
		slog.String("planID", planID.String()), slog.Int("version", version.VersionNumber))
	return version, nil
}

func (s *PlanServiceImpl) ListVersions(ctx context.Context, userID, planID uuid.UUID) ([]types.PlanVersion, error) {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "ListVersions")
	defer span.End()

	if _, _, err := s.planWithRole(ctx, userID, planID, roleViewer); err != nil {
		return nil, err
	}
	return s.repo.ListVersions(ctx, planID)
}

// RestoreVersion rolls the plan's content back to a snapshot. The restore
// itself is recorded as a new version so history stays linear.
func (s *PlanServiceImpl) RestoreVersion(ctx context.Context, userID, planID uuid.UUID, versionNumber int) (*types.TravelPlan, error) {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "RestoreVersion", trace.WithAttributes(
		attribute.Int("plan.version", versionNumber),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "RestoreVersion"), slog.String("planID", planID.String()))

	if _, _, err := s.planWithRole(ctx, userID, planID, roleEditor); err != nil {
		return nil, err
	}

	version, err := s.repo.GetVersion(ctx, planID, versionNumber)
	if err != nil {
		return nil, err
	}

	update := types.UpdateTravelPlanRequest{
		Title:       version.Title,
		Description: version.Description,
		Itinerary:   version.Itinerary,
	}
	plan, err := s.repo.UpdatePlan(ctx, planID, update)
	if err != nil {
		l.ErrorContext(ctx, "Failed to apply version snapshot", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Version restore failed")
		return nil, err
	}

	note := fmt.Sprintf("버전 %d 복원", versionNumber)
	if _, err := s.repo.CreateVersion(ctx, planID, userID, &note); err != nil {
		l.WarnContext(ctx, "Failed to record restore version", slog.Any("error", err))
	}

	l.InfoContext(ctx, "Plan version restored", slog.Int("version", versionNumber))
	return plan, nil
}

func (s *PlanServiceImpl) AddComment(ctx context.Context, userID, planID uuid.UUID, req types.CreateCommentRequest) (*types.PlanComment, error) {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "AddComment")
	defer span.End()

	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("comment content is required: %w", api.ErrBadRequest)
	}

	if _, _, err := s.planWithRole(ctx, userID, planID, roleViewer); err != nil {
		return nil, err
	}

	if req.ParentCommentID != nil {
		parent, err := s.repo.GetComment(ctx, *req.ParentCommentID)
		if err != nil {
			return nil, fmt.Errorf("parent comment: %w", api.ErrBadRequest)
		}
		if parent.PlanID != planID {
			return nil, fmt.Errorf("parent comment belongs to another plan: %w", api.ErrBadRequest)
		}
	}

	comment, err := s.repo.CreateComment(ctx, planID, userID, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Comment creation failed")
		return nil, err
	}
	return comment, nil
}

func (s *PlanServiceImpl) ListComments(ctx context.Context, userID, planID uuid.UUID) ([]types.PlanComment, error) {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "ListComments")
	defer span.End()

	if _, _, err := s.planWithRole(ctx, userID, planID, roleViewer); err != nil {
		return nil, err
	}
	return s.repo.ListComments(ctx, planID)
}

// DeleteComment soft deletes a comment. The author or the plan owner may
// delete it.
func (s *PlanServiceImpl) DeleteComment(ctx context.Context, userID, planID, commentID uuid.UUID) error {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "DeleteComment")
	defer span.End()

	plan, _, err := s.planWithRole(ctx, userID, planID, roleViewer)
	if err != nil {
		return err
	}

	comment, err := s.repo.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.PlanID != planID {
		return fmt.Errorf("comment %s: %w", commentID, api.ErrNotFound)
	}
	if comment.UserID != userID && plan.UserID != userID {
		return fmt.Errorf("not the comment author: %w", api.ErrForbidden)
	}

	return s.repo.SoftDeleteComment(ctx, commentID)
}

func (s *PlanServiceImpl) InviteCollaborator(ctx context.Context, userID, planID uuid.UUID, req types.InviteCollaboratorRequest) (*types.Collaborator, error) {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "InviteCollaborator")
	defer span.End()
	l := s.logger.With(slog.String("method", "InviteCollaborator"), slog.String("planID", planID.String()))

	if strings.TrimSpace(req.Email) == "" {
		return nil, fmt.Errorf("email is required: %w", api.ErrBadRequest)
	}
	permission := req.Permission
	if permission == "" {
		permission = types.PermissionEdit
	}
	if permission != types.PermissionView && permission != types.PermissionEdit {
		return nil, fmt.Errorf("invalid permission %q: %w", permission, api.ErrBadRequest)
	}

	plan, _, err := s.planWithRole(ctx, userID, planID, roleOwner)
	if err != nil {
		return nil, err
	}

	inviteeID, _, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, err
	}
	if inviteeID == plan.UserID {
		return nil, fmt.Errorf("owner cannot be invited: %w", api.ErrBadRequest)
	}

	if err := s.repo.AddCollaborator(ctx, planID, inviteeID, userID, permission); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Collaborator invite failed")
		return nil, err
	}

	collab, err := s.repo.GetCollaborator(ctx, planID, inviteeID)
	if err != nil {
		return nil, err
	}
	l.InfoContext(ctx, "Collaborator invited", slog.String("collaboratorID", inviteeID.String()))
	return collab, nil
}

func (s *PlanServiceImpl) ListCollaborators(ctx context.Context, userID, planID uuid.UUID) ([]types.Collaborator, error) {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "ListCollaborators")
	defer span.End()

	if _, _, err := s.planWithRole(ctx, userID, planID, roleViewer); err != nil {
		return nil, err
	}
	return s.repo.ListCollaborators(ctx, planID)
}

// RemoveCollaborator drops a collaborator. The owner can remove anyone;
// collaborators can remove themselves.
func (s *PlanServiceImpl) RemoveCollaborator(ctx context.Context, userID, planID, collaboratorID uuid.UUID) error {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "RemoveCollaborator")
	defer span.End()

	plan, _, err := s.planWithRole(ctx, userID, planID, roleViewer)
	if err != nil {
		return err
	}
	if plan.UserID != userID && collaboratorID != userID {
		return fmt.Errorf("only the owner removes others: %w", api.ErrForbidden)
	}

	return s.repo.RemoveCollaborator(ctx, planID, collaboratorID)
}

func (s *PlanServiceImpl) ToggleBookmark(ctx context.Context, userID, planID uuid.UUID) (*types.BookmarkResult, error) {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "ToggleBookmark")
	defer span.End()

	if _, err := s.repo.GetPlanByID(ctx, planID); err != nil {
		return nil, err
	}

	bookmarked, err := s.repo.ToggleBookmark(ctx, userID, planID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bookmark toggle failed")
		return nil, err
	}

	message := "북마크가 해제되었습니다"
	if bookmarked {
		message = "북마크에 추가되었습니다"
	}
	return &types.BookmarkResult{Bookmarked: bookmarked, Message: message}, nil
}

func (s *PlanServiceImpl) ListBookmarks(ctx context.Context, userID uuid.UUID) ([]types.TravelPlan, error) {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "ListBookmarks")
	defer span.End()

	return s.repo.ListBookmarkedPlans(ctx, userID)
}

func (s *PlanServiceImpl) UpsertRoute(ctx context.Context, userID, planID uuid.UUID, req types.UpsertRouteRequest) (*types.TravelRoute, error) {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "UpsertRoute")
	defer span.End()

	if req.RouteOrder < 1 {
		return nil, fmt.Errorf("route order must be positive: %w", api.ErrBadRequest)
	}

	if _, _, err := s.planWithRole(ctx, userID, planID, roleEditor); err != nil {
		return nil, err
	}

	route, err := s.repo.UpsertRoute(ctx, planID, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Route upsert failed")
		return nil, err
	}
	return route, nil
}

func (s *PlanServiceImpl) ListRoutes(ctx context.Context, userID, planID uuid.UUID) ([]types.TravelRoute, error) {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "ListRoutes")
	defer span.End()

	if _, _, err := s.planWithRole(ctx, userID, planID, roleViewer); err != nil {
		return nil, err
	}
	return s.repo.ListRoutes(ctx, planID)
}

func (s *PlanServiceImpl) DeleteRoute(ctx context.Context, userID, planID uuid.UUID, routeOrder int) error {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "DeleteRoute")
	defer span.End()

	if _, _, err := s.planWithRole(ctx, userID, planID, roleEditor); err != nil {
		return err
	}
	return s.repo.DeleteRoute(ctx, planID, routeOrder)
}
