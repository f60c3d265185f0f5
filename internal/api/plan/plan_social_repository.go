package plan

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/weatherflick/weather-travel-api/internal/api"
	"github.com/weatherflick/weather-travel-api/internal/types"
)

const deletedCommentPlaceholder = "삭제된 댓글입니다"

func (r *PostgresPlanRepo) CreateComment(ctx context.Context, planID, userID uuid.UUID, req types.CreateCommentRequest) (*types.PlanComment, error) {
	ctx, span := otel.Tracer("PlanRepo").Start(ctx, "CreateComment", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	sql := `
        INSERT INTO travel_plan_comments (plan_id, user_id, parent_comment_id, content, day_number, place_index)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, plan_id, user_id,
                  (SELECT nickname FROM users WHERE users.id = $2),
                  parent_comment_id, content, day_number, place_index, created_at, updated_at`

	var c types.PlanComment
	err := r.db.QueryRow(ctx, sql, planID, userID, req.ParentCommentID, req.Content,
		req.DayNumber, req.PlaceIndex).
		Scan(&c.ID, &c.PlanID, &c.UserID, &c.UserNickname, &c.ParentCommentID,
			&c.Content, &c.DayNumber, &c.PlaceIndex, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, fmt.Errorf("parent comment missing: %w", api.ErrBadRequest)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Comment insert failed")
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return &c, nil
}

// ListComments returns every comment on a plan, oldest first. Deleted
// comments keep their row so replies stay attached, with the content
// masked.
func (r *PostgresPlanRepo) ListComments(ctx context.Context, planID uuid.UUID) ([]types.PlanComment, error) {
	ctx, span := otel.Tracer("PlanRepo").Start(ctx, "ListComments", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	sql := `
        SELECT c.id, c.plan_id, c.user_id, u.nickname,
               c.parent_comment_id,
               CASE WHEN c.is_deleted THEN $2 ELSE c.content END,
               c.day_number, c.place_index, c.created_at, c.updated_at
        FROM travel_plan_comments c
        JOIN users u ON u.id = c.user_id
        WHERE c.plan_id = $1
        ORDER BY c.created_at ASC`

	rows, err := r.db.Query(ctx, sql, planID, deletedCommentPlaceholder)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Comment list failed")
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []types.PlanComment
	for rows.Next() {
		var c types.PlanComment
		if err := rows.Scan(&c.ID, &c.PlanID, &c.UserID, &c.UserNickname, &c.ParentCommentID,
			&c.Content, &c.DayNumber, &c.PlaceIndex, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan comment row: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *PostgresPlanRepo) GetComment(ctx context.Context, commentID uuid.UUID) (*types.PlanComment, error) {
	sql := `
        SELECT c.id, c.plan_id, c.user_id, u.nickname,
               c.parent_comment_id, c.content, c.day_number, c.place_index,
               c.created_at, c.updated_at
        FROM travel_plan_comments c
        JOIN users u ON u.id = c.user_id
        WHERE c.id = $1 AND NOT c.is_deleted`

	var c types.PlanComment
	err := r.db.QueryRow(ctx, sql, commentID).
		Scan(&c.ID, &c.PlanID, &c.UserID, &c.UserNickname, &c.ParentCommentID,
			&c.Content, &c.DayNumber, &c.PlaceIndex, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("comment %s: %w", commentID, api.ErrNotFound)
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &c, nil
}

func (r *PostgresPlanRepo) SoftDeleteComment(ctx context.Context, commentID uuid.UUID) error {
	ctx, span := otel.Tracer("PlanRepo").Start(ctx, "SoftDeleteComment", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	tag, err := r.db.Exec(ctx,
		`UPDATE travel_plan_comments SET is_deleted = TRUE, updated_at = now() WHERE id = $1 AND NOT is_deleted`,
		commentID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Comment delete failed")
		return fmt.Errorf("delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("comment %s: %w", commentID, api.ErrNotFound)
	}
	return nil
}

func (r *PostgresPlanRepo) GetUserByEmail(ctx context.Context, email string) (uuid.UUID, string, error) {
	var id uuid.UUID
	var nickname string
	err := r.db.QueryRow(ctx,
		`SELECT id, nickname FROM users WHERE email = $1`, email).
		Scan(&id, &nickname)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, "", fmt.Errorf("user %s: %w", email, api.ErrNotFound)
		}
		return uuid.Nil, "", fmt.Errorf("lookup user by email: %w", err)
	}
	return id, nickname, nil
}

func (r *PostgresPlanRepo) AddCollaborator(ctx context.Context, planID, userID, invitedBy uuid.UUID, permission string) error {
	ctx, span := otel.Tracer("PlanRepo").Start(ctx, "AddCollaborator", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	_, err := r.db.Exec(ctx,
		`INSERT INTO travel_plan_collaborators (plan_id, user_id, permission, invited_by) VALUES ($1, $2, $3, $4)`,
		planID, userID, permission, invitedBy)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("already a collaborator: %w", api.ErrConflict)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Collaborator insert failed")
		return fmt.Errorf("add collaborator: %w", err)
	}
	return nil
}

func (r *PostgresPlanRepo) ListCollaborators(ctx context.Context, planID uuid.UUID) ([]types.Collaborator, error) {
	ctx, span := otel.Tracer("PlanRepo").Start(ctx, "ListCollaborators", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	sql := `
        SELECT c.id, c.plan_id, c.user_id, u.nickname, u.email,
               c.permission, c.invited_by, c.joined_at, c.last_viewed_at
        FROM travel_plan_collaborators c
        JOIN users u ON u.id = c.user_id
        WHERE c.plan_id = $1
        ORDER BY c.joined_at ASC`

	rows, err := r.db.Query(ctx, sql, planID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Collaborator list failed")
		return nil, fmt.Errorf("list collaborators: %w", err)
	}
	defer rows.Close()

	var collaborators []types.Collaborator
	for rows.Next() {
		var c types.Collaborator
		if err := rows.Scan(&c.ID, &c.PlanID, &c.UserID, &c.UserNickname, &c.UserEmail,
			&c.Permission, &c.InvitedBy, &c.JoinedAt, &c.LastViewedAt); err != nil {
			return nil, fmt.Errorf("scan collaborator row: %w", err)
		}
		collaborators = append(collaborators, c)
	}
	return collaborators, rows.Err()
}

func (r *PostgresPlanRepo) GetCollaborator(ctx context.Context, planID, userID uuid.UUID) (*types.Collaborator, error) {
	sql := `
        SELECT c.id, c.plan_id, c.user_id, u.nickname, u.email,
               c.permission, c.invited_by, c.joined_at, c.last_viewed_at
        FROM travel_plan_collaborators c
        JOIN users u ON u.id = c.user_id
        WHERE c.plan_id = $1 AND c.user_id = $2`

	var c types.Collaborator
	err := r.db.QueryRow(ctx, sql, planID, userID).
		Scan(&c.ID, &c.PlanID, &c.UserID, &c.UserNickname, &c.UserEmail,
			&c.Permission, &c.InvitedBy, &c.JoinedAt, &c.LastViewedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("collaborator: %w", api.ErrNotFound)
		}
		return nil, fmt.Errorf("get collaborator: %w", err)
	}
	return &c, nil
}

func (r *PostgresPlanRepo) RemoveCollaborator(ctx context.Context, planID, userID uuid.UUID) error {
	ctx, span := otel.Tracer("PlanRepo").Start(ctx, "RemoveCollaborator", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	tag, err := r.db.Exec(ctx,
		`DELETE FROM travel_plan_collaborators WHERE plan_id = $1 AND user_id = $2`, planID, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Collaborator delete failed")
		return fmt.Errorf("remove collaborator: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("collaborator: %w", api.ErrNotFound)
	}
	return nil
}

func (r *PostgresPlanRepo) TouchCollaboratorViewed(ctx context.Context, planID, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE travel_plan_collaborators SET last_viewed_at = now() WHERE plan_id = $1 AND user_id = $2`,
		planID, userID)
	if err != nil {
		return fmt.Errorf("touch collaborator viewed: %w", err)
	}
	return nil
}

// ToggleBookmark flips a user's bookmark on a plan and reports the new state.
func (r *PostgresPlanRepo) ToggleBookmark(ctx context.Context, userID, planID uuid.UUID) (bool, error) {
	ctx, span := otel.Tracer("PlanRepo").Start(ctx, "ToggleBookmark", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	tag, err := r.db.Exec(ctx,
		`DELETE FROM travel_plan_bookmarks WHERE user_id = $1 AND plan_id = $2`, userID, planID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bookmark toggle failed")
		return false, fmt.Errorf("remove bookmark: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO travel_plan_bookmarks (user_id, plan_id) VALUES ($1, $2)`, userID, planID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return false, fmt.Errorf("travel plan %s: %w", planID, api.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bookmark insert failed")
		return false, fmt.Errorf("add bookmark: %w", err)
	}
	return true, nil
}

func (r *PostgresPlanRepo) ListBookmarkedPlans(ctx context.Context, userID uuid.UUID) ([]types.TravelPlan, error) {
	ctx, span := otel.Tracer("PlanRepo").Start(ctx, "ListBookmarkedPlans", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	sql := `
        SELECT p.id, p.user_id, p.title, p.description, p.start_date, p.end_date, p.budget,
               p.status, p.itinerary, p.participants, p.transportation, p.start_location,
               p.weather_info, p.plan_type, p.created_at, p.updated_at
        FROM travel_plan_bookmarks b
        JOIN travel_plans p ON p.id = b.plan_id
        WHERE b.user_id = $1
        ORDER BY b.created_at DESC`

	rows, err := r.db.Query(ctx, sql, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bookmark list failed")
		return nil, fmt.Errorf("list bookmarked plans: %w", err)
	}
	defer rows.Close()

	var plans []types.TravelPlan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bookmarked plan row: %w", err)
		}
		plans = append(plans, *plan)
	}
	return plans, rows.Err()
}

const routeColumns = `id, plan_id, origin_place_id, destination_place_id, route_order,
        transport_mode, duration_minutes, distance_km, route_data, created_at, updated_at`

func scanRoute(row pgx.Row) (*types.TravelRoute, error) {
	var rt types.TravelRoute
	err := row.Scan(&rt.ID, &rt.PlanID, &rt.OriginPlaceID, &rt.DestinationPlaceID,
		&rt.RouteOrder, &rt.TransportMode, &rt.DurationMinutes, &rt.DistanceKm,
		&rt.RouteData, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *PostgresPlanRepo) UpsertRoute(ctx context.Context, planID uuid.UUID, req types.UpsertRouteRequest) (*types.TravelRoute, error) {
	ctx, span := otel.Tracer("PlanRepo").Start(ctx, "UpsertRoute", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	sql := `
        INSERT INTO travel_routes (plan_id, origin_place_id, destination_place_id, route_order,
                                   transport_mode, duration_minutes, distance_km, route_data)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (plan_id, route_order) DO UPDATE SET
            origin_place_id = EXCLUDED.origin_place_id,
            destination_place_id = EXCLUDED.destination_place_id,
            transport_mode = EXCLUDED.transport_mode,
            duration_minutes = EXCLUDED.duration_minutes,
            distance_km = EXCLUDED.distance_km,
            route_data = EXCLUDED.route_data,
            updated_at = now()
        RETURNING ` + routeColumns

	route, err := scanRoute(r.db.QueryRow(ctx, sql, planID, req.OriginPlaceID,
		req.DestinationPlaceID, req.RouteOrder, req.TransportMode, req.DurationMinutes,
		req.DistanceKm, req.RouteData))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, fmt.Errorf("travel plan %s: %w", planID, api.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Route upsert failed")
		return nil, fmt.Errorf("upsert route: %w", err)
	}
	return route, nil
}

func (r *PostgresPlanRepo) ListRoutes(ctx context.Context, planID uuid.UUID) ([]types.TravelRoute, error) {
	ctx, span := otel.Tracer("PlanRepo").Start(ctx, "ListRoutes", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	sql := `SELECT ` + routeColumns + ` FROM travel_routes WHERE plan_id = $1 ORDER BY route_order ASC`

	rows, err := r.db.Query(ctx, sql, planID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Route list failed")
		return nil, fmt.Errorf("list routes: %w", err)
	}
	defer rows.Close()

	var routes []types.TravelRoute
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, fmt.Errorf("scan route row: %w", err)
		}
		routes = append(routes, *route)
	}
	return routes, rows.Err()
}

func (r *PostgresPlanRepo) DeleteRoute(ctx context.Context, planID uuid.UUID, routeOrder int) error {
	ctx, span := otel.Tracer("PlanRepo").Start(ctx, "DeleteRoute", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	tag, err := r.db.Exec(ctx,
		`DELETE FROM travel_routes WHERE plan_id = $1 AND route_order = $2`, planID, routeOrder)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Route delete failed")
		return fmt.Errorf("delete route: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("route %d of plan %s: %w", routeOrder, planID, api.ErrNotFound)
	}
	return nil
}
