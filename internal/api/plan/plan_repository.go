package plan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/weatherflick/weather-travel-api/internal/api"
	"github.com/weatherflick/weather-travel-api/internal/types"
)

// DB is the subset of pgxpool.Pool the repository relies on.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ PlanRepo = (*PostgresPlanRepo)(nil)

// PlanRepo is the storage contract for travel plans and their satellites.
type PlanRepo interface {
	CreatePlan(ctx context.Context, userID uuid.UUID, req types.CreateTravelPlanRequest) (*types.TravelPlan, error)
	GetPlanByID(ctx context.Context, planID uuid.UUID) (*types.TravelPlan, error)
	ListPlansByUser(ctx context.Context, userID uuid.UUID, status string, page, pageSize int) (*types.PaginatedTravelPlans, error)
	UpdatePlan(ctx context.Context, planID uuid.UUID, req types.UpdateTravelPlanRequest) (*types.TravelPlan, error)
	DeletePlan(ctx context.Context, planID uuid.UUID) error

	DeactivateShares(ctx context.Context, planID uuid.UUID) error
	CreateShare(ctx context.Context, planID, createdBy uuid.UUID, token, permission string, expiresAt *time.Time, maxUses *int) (*types.PlanShare, error)
	GetShareByToken(ctx context.Context, token string) (*types.PlanShare, error)
	ListShares(ctx context.Context, planID uuid.UUID) ([]types.PlanShare, error)
	IncrementShareUse(ctx context.Context, shareID uuid.UUID) error
	DeactivateShare(ctx context.Context, planID, shareID uuid.UUID) error
	SetShareActive(ctx context.Context, planID, shareID uuid.UUID, active bool) (*types.PlanShare, error)

	CreateVersion(ctx context.Context, planID, createdBy uuid.UUID, changeDescription *string) (*types.PlanVersion, error)
	ListVersions(ctx context.Context, planID uuid.UUID) ([]types.PlanVersion, error)
	GetVersion(ctx context.Context, planID uuid.UUID, versionNumber int) (*types.PlanVersion, error)

	CreateComment(ctx context.Context, planID, userID uuid.UUID, req types.CreateCommentRequest) (*types.PlanComment, error)
	ListComments(ctx context.Context, planID uuid.UUID) ([]types.PlanComment, error)
	GetComment(ctx context.Context, commentID uuid.UUID) (*types.PlanComment, error)
	SoftDeleteComment(ctx context.Context, commentID uuid.UUID) error

	GetUserByEmail(ctx context.Context, email string) (uuid.UUID, string, error)
	AddCollaborator(ctx context.Context, planID, userID, invitedBy uuid.UUID, permission string) error
	ListCollaborators(ctx context.Context, planID uuid.UUID) ([]types.Collaborator, error)
	GetCollaborator(ctx context.Context, planID, userID uuid.UUID) (*types.Collaborator, error)
	RemoveCollaborator(ctx context.Context, planID, userID uuid.UUID) error
	TouchCollaboratorViewed(ctx context.Context, planID, userID uuid.UUID) error

	ToggleBookmark(ctx context.Context, userID, planID uuid.UUID) (bool, error)
	ListBookmarkedPlans(ctx context.Context, userID uuid.UUID) ([]types.TravelPlan, error)

	UpsertRoute(ctx context.Context, planID uuid.UUID, req types.UpsertRouteRequest) (*types.TravelRoute, error)
	ListRoutes(ctx context.Context, planID uuid.UUID) ([]types.TravelRoute, error)
	DeleteRoute(ctx context.Context, planID uuid.UUID, routeOrder int) error
}

type PostgresPlanRepo struct {
	logger *slog.Logger
	db     DB
}

func NewPostgresPlanRepo(db DB, logger *slog.Logger) *PostgresPlanRepo {
	return &PostgresPlanRepo{
		logger: logger,
		db:     db,
	}
}

const planColumns = `id, user_id, title, description, start_date, end_date, budget, status,
        itinerary, participants, transportation, start_location, weather_info, plan_type,
        created_at, updated_at`

func scanPlan(row pgx.Row) (*types.TravelPlan, error) {
	var p types.TravelPlan
	err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Description, &p.StartDate, &p.EndDate,
		&p.Budget, &p.Status, &p.Itinerary, &p.Participants, &p.Transportation,
		&p.StartLocation, &p.WeatherInfo, &p.PlanType, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresPlanRepo) CreatePlan(ctx context.Context, userID uuid.UUID, req types.CreateTravelPlanRequest) (*types.TravelPlan, error) {
	ctx, span := otel.Tracer("PlanRepo").Start(ctx, "CreatePlan", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	status := req.Status
	if status == "" {
		status = types.PlanStatusPlanning
	}
	planType := req.PlanType
	if planType == "" {
		planType = "manual"
	}

	sql := `
        INSERT INTO travel_plans (user_id, title, description, start_date, end_date, budget,
                                  status, itinerary, participants, transportation,
                                  start_location, weather_info, plan_type)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING ` + planColumns

	plan, err := scanPlan(r.db.QueryRow(ctx, sql, userID, req.Title, req.Description,
		req.StartDate, req.EndDate, req.Budget, status, req.Itinerary, req.Participants,
		req.Transportation, req.StartLocation, req.WeatherInfo, planType))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to insert travel plan")
		return nil, fmt.Errorf("create travel plan: %w", err)
	}

	span.SetStatus(codes.Ok, "Travel plan created")
	return plan, nil
}

func (r *PostgresPlanRepo) GetPlanByID(ctx context.Context, planID uuid.UUID) (*types.TravelPlan, error) {
	ctx, span := otel.Tracer("PlanRepo").Start(ctx, "GetPlanByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	sql := `SELECT ` + planColumns + ` FROM travel_plans WHERE id = $1`

	plan, err := scanPlan(r.db.QueryRow(ctx, sql, planID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("travel plan %s: %w", planID, api.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Travel plan lookup failed")
		return nil, fmt.Errorf("get travel plan: %w", err)
	}
	return plan, nil
}

func (r *PostgresPlanRepo) ListPlansByUser(ctx context.Context, userID uuid.UUID, status string, page, pageSize int) (*types.PaginatedTravelPlans, error) {
	ctx, span := otel.Tracer("PlanRepo").Start(ctx, "ListPlansByUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.Int("plan.page", page),
	))
	defer span.End()

	where := "WHERE user_id = $1"
	args := []any{userID}
	if status != "" {
		where += " AND status = $2"
		args = append(args, status)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM travel_plans `+where, args...).Scan(&total); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Travel plan count failed")
		return nil, fmt.Errorf("count travel plans: %w", err)
	}

	offset := (page - 1) * pageSize
	listSQL := fmt.Sprintf(`SELECT %s FROM travel_plans %s ORDER BY updated_at DESC LIMIT $%d OFFSET $%d`,
		planColumns, where, len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.db.Query(ctx, listSQL, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Travel plan list failed")
		return nil, fmt.Errorf("list travel plans: %w", err)
	}
	defer rows.Close()

	plans := make([]types.TravelPlan, 0, pageSize)
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan travel plan row: %w", err)
		}
		plans = append(plans, *plan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &types.PaginatedTravelPlans{
		Plans:    plans,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}

func (r *PostgresPlanRepo) UpdatePlan(ctx context.Context, planID uuid.UUID, req types.UpdateTravelPlanRequest) (*types.TravelPlan, error) {
	ctx, span := otel.Tracer("PlanRepo").Start(ctx, "UpdatePlan", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	var sets []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.Title != nil {
		add("title", *req.Title)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.StartDate != nil {
		add("start_date", *req.StartDate)
	}
	if req.EndDate != nil {
		add("end_date", *req.EndDate)
	}
	if req.Budget != nil {
		add("budget", *req.Budget)
	}
	if req.Status != nil {
		add("status", *req.Status)
	}
	if req.Itinerary != nil {
		add("itinerary", req.Itinerary)
	}
	if req.Participants != nil {
		add("participants", *req.Participants)
	}
	if req.Transportation != nil {
		add("transportation", *req.Transportation)
	}
	if req.StartLocation != nil {
		add("start_location", *req.StartLocation)
	}
	if req.WeatherInfo != nil {
		add("weather_info", req.WeatherInfo)
	}

	if len(sets) == 0 {
		return r.GetPlanByID(ctx, planID)
	}
	sets = append(sets, "updated_at = now()")

	args = append(args, planID)
	sql := fmt.Sprintf(`UPDATE travel_plans SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), planColumns)

	plan, err := scanPlan(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("travel plan %s: %w", planID, api.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Travel plan update failed")
		return nil, fmt.Errorf("update travel plan: %w", err)
	}

	span.SetStatus(codes.Ok, "Travel plan updated")
	return plan, nil
}

func (r *PostgresPlanRepo) DeletePlan(ctx context.Context, planID uuid.UUID) error {
	ctx, span := otel.Tracer("PlanRepo").Start(ctx, "DeletePlan", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	tag, err := r.db.Exec(ctx, `DELETE FROM travel_plans WHERE id = $1`, planID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Travel plan delete failed")
		return fmt.Errorf("delete travel plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("travel plan %s: %w", planID, api.ErrNotFound)
	}
	return nil
}

const shareColumns = `id, plan_id, share_token, permission, expires_at, max_uses, use_count, is_active, created_by, created_at`

func scanShare(row pgx.Row) (*types.PlanShare, error) {
	var s types.PlanShare
	err := row.Scan(&s.ID, &s.PlanID, &s.ShareToken, &s.Permission, &s.ExpiresAt,
		&s.MaxUses, &s.UseCount, &s.IsActive, &s.CreatedBy, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PostgresPlanRepo) DeactivateShares(ctx context.Context, planID uuid.UUID) error {
	ctx, span := otel.Tracer("PlanRepo").Start(ctx, "DeactivateShares", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	_, err := r.db.Exec(ctx,
		`UPDATE travel_plan_shares SET is_active = FALSE, updated_at = now() WHERE plan_id = $1 AND is_active`, planID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Share deactivation failed")
		return fmt.Errorf("deactivate shares: %w", err)
	}
	return nil
}

func (r *PostgresPlanRepo) CreateShare(ctx context.Context, planID, createdBy uuid.UUID, token, permission string, expiresAt *time.Time, maxUses *int) (*types.PlanShare, error) {
	ctx, span := otel.Tracer("PlanRepo").Start(ctx, "CreateShare", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	sql := `
        INSERT INTO travel_plan_shares (plan_id, share_token, permission, expires_at, max_uses, created_by)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + shareColumns

	share, err := scanShare(r.db.QueryRow(ctx, sql, planID, token, permission, expiresAt, maxUses, createdBy))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Share insert failed")
		return nil, fmt.Errorf("create share: %w", err)
	}
	return share, nil
}

func (r *PostgresPlanRepo) GetShareByToken(ctx context.Context, token string) (*types.PlanShare, error) {
	ctx, span := otel.Tracer("PlanRepo").Start(ctx, "GetShareByToken", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	sql := `SELECT ` + shareColumns + ` FROM travel_plan_shares WHERE share_token = $1`

	share, err := scanShare(r.db.QueryRow(ctx, sql, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("share link: %w", api.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Share lookup failed")
		return nil, fmt.Errorf("get share: %w", err)
	}
	return share, nil
}

func (r *PostgresPlanRepo) ListShares(ctx context.Context, planID uuid.UUID) ([]types.PlanShare, error) {
	ctx, span := otel.Tracer("PlanRepo").Start(ctx, "ListShares", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	sql := `SELECT ` + shareColumns + ` FROM travel_plan_shares WHERE plan_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, sql, planID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Share list failed")
		return nil, fmt.Errorf("list shares: %w", err)
	}
	defer rows.Close()

	var shares []types.PlanShare
	for rows.Next() {
		share, err := scanShare(rows)
		if err != nil {
			return nil, fmt.Errorf("scan share row: %w", err)
		}
		shares = append(shares, *share)
	}
	return shares, rows.Err()
}

func (r *PostgresPlanRepo) IncrementShareUse(ctx context.Context, shareID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE travel_plan_shares SET use_count = use_count + 1, updated_at = now() WHERE id = $1`, shareID)
	if err != nil {
		return fmt.Errorf("increment share use: %w", err)
	}
	return nil
}

func (r *PostgresPlanRepo) DeactivateShare(ctx context.Context, planID, shareID uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE travel_plan_shares SET is_active = FALSE, updated_at = now() WHERE id = $1 AND plan_id = $2`,
		shareID, planID)
	if err != nil {
		return fmt.Errorf("deactivate share: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("share %s: %w", shareID, api.ErrNotFound)
	}
	return nil
}

func (r *PostgresPlanRepo) SetShareActive(ctx context.Context, planID, shareID uuid.UUID, active bool) (*types.PlanShare, error) {
	ctx, span := otel.Tracer("PlanRepo").Start(ctx, "SetShareActive", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	sql := `
        UPDATE travel_plan_shares SET is_active = $3, updated_at = now()
        WHERE id = $1 AND plan_id = $2
        RETURNING ` + shareColumns

	share, err := scanShare(r.db.QueryRow(ctx, sql, shareID, planID, active))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("share %s: %w", shareID, api.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Share update failed")
		return nil, fmt.Errorf("set share active: %w", err)
	}
	return share, nil
}

const versionColumns = `id, plan_id, version_number, title, description, itinerary, change_description, created_by, created_at`

func scanVersion(row pgx.Row) (*types.PlanVersion, error) {
	var v types.PlanVersion
	err := row.Scan(&v.ID, &v.PlanID, &v.VersionNumber, &v.Title, &v.Description,
		&v.Itinerary, &v.ChangeDescription, &v.CreatedBy, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// CreateVersion snapshots the plan's current title, description and
// itinerary under the next version number.
func (r *PostgresPlanRepo) CreateVersion(ctx context.Context, planID, createdBy uuid.UUID, changeDescription *string) (*types.PlanVersion, error) {
	ctx, span := otel.Tracer("PlanRepo").Start(ctx, "CreateVersion", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	sql := `
        INSERT INTO travel_plan_versions (plan_id, version_number, title, description, itinerary, change_description, created_by)
        SELECT p.id,
               COALESCE((SELECT MAX(v.version_number) FROM travel_plan_versions v WHERE v.plan_id = p.id), 0) + 1,
               p.title, p.description, p.itinerary, $2, $3
        FROM travel_plans p
        WHERE p.id = $1
        RETURNING ` + versionColumns

	version, err := scanVersion(r.db.QueryRow(ctx, sql, planID, changeDescription, createdBy))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("travel plan %s: %w", planID, api.ErrNotFound)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("concurrent version creation: %w", api.ErrConflict)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Version insert failed")
		return nil, fmt.Errorf("create version: %w", err)
	}
	return version, nil
}

func (r *PostgresPlanRepo) ListVersions(ctx context.Context, planID uuid.UUID) ([]types.PlanVersion, error) {
	ctx, span := otel.Tracer("PlanRepo").Start(ctx, "ListVersions", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	sql := `SELECT ` + versionColumns + ` FROM travel_plan_versions WHERE plan_id = $1 ORDER BY version_number DESC`

	rows, err := r.db.Query(ctx, sql, planID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Version list failed")
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var versions []types.PlanVersion
	for rows.Next() {
		version, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan version row: %w", err)
		}
		versions = append(versions, *version)
	}
	return versions, rows.Err()
}

func (r *PostgresPlanRepo) GetVersion(ctx context.Context, planID uuid.UUID, versionNumber int) (*types.PlanVersion, error) {
	ctx, span := otel.Tracer("PlanRepo").Start(ctx, "GetVersion", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	sql := `SELECT ` + versionColumns + ` FROM travel_plan_versions WHERE plan_id = $1 AND version_number = $2`

	version, err := scanVersion(r.db.QueryRow(ctx, sql, planID, versionNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("version %d of plan %s: %w", versionNumber, planID, api.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Version lookup failed")
		return nil, fmt.Errorf("get version: %w", err)
	}
	return version, nil
}
