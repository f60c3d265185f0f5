package plan

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weatherflick/weather-travel-api/internal/api"
	"github.com/weatherflick/weather-travel-api/internal/types"
)

func newMockRepo(t *testing.T) (*PostgresPlanRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	repo := NewPostgresPlanRepo(mock, slog.Default())
	return repo, mock
}

func planRow(mock pgxmock.PgxPoolIface, planID, userID uuid.UUID, title string) *pgxmock.Rows {
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	return mock.NewRows([]string{
		"id", "user_id", "title", "description", "start_date", "end_date", "budget",
		"status", "itinerary", "participants", "transportation", "start_location",
		"weather_info", "plan_type", "created_at", "updated_at",
	}).AddRow(planID, userID, title, (*string)(nil), (*time.Time)(nil), (*time.Time)(nil),
		(*float64)(nil), types.PlanStatusPlanning, []byte(nil), (*int)(nil), (*string)(nil),
		(*string)(nil), []byte(nil), "manual", now, now)
}

func TestPostgresPlanRepo_CreatePlan(t *testing.T) {
	repo, mock := newMockRepo(t)
	userID := uuid.New()
	planID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO travel_plans")).
		WithArgs(userID, "서울 여행", (*string)(nil), (*time.Time)(nil), (*time.Time)(nil),
			(*float64)(nil), types.PlanStatusPlanning, json.RawMessage(nil), (*int)(nil), (*string)(nil),
			(*string)(nil), json.RawMessage(nil), "manual").
		WillReturnRows(planRow(mock, planID, userID, "서울 여행"))

	plan, err := repo.CreatePlan(context.Background(), userID, types.CreateTravelPlanRequest{Title: "서울 여행"})
	require.NoError(t, err)
	assert.Equal(t, planID, plan.ID)
	assert.Equal(t, types.PlanStatusPlanning, plan.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPlanRepo_GetPlanByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	planID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM travel_plans WHERE id = $1")).
		WithArgs(planID).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetPlanByID(context.Background(), planID)
	assert.ErrorIs(t, err, api.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPlanRepo_ListPlansByUser(t *testing.T) {
	repo, mock := newMockRepo(t)
	userID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM travel_plans WHERE user_id = $1 AND status = $2")).
		WithArgs(userID, types.PlanStatusConfirmed).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY updated_at DESC LIMIT $3 OFFSET $4")).
		WithArgs(userID, types.PlanStatusConfirmed, 20, 0).
		WillReturnRows(planRow(mock, uuid.New(), userID, "부산 여행"))

	result, err := repo.ListPlansByUser(context.Background(), userID, types.PlanStatusConfirmed, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Len(t, result.Plans, 1)
	assert.Equal(t, "부산 여행", result.Plans[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPlanRepo_DeletePlan_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	planID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM travel_plans WHERE id = $1")).
		WithArgs(planID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.DeletePlan(context.Background(), planID)
	assert.ErrorIs(t, err, api.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPlanRepo_CreateShare(t *testing.T) {
	repo, mock := newMockRepo(t)
	planID := uuid.New()
	createdBy := uuid.New()
	shareID := uuid.New()
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO travel_plan_shares")).
		WithArgs(planID, "tok123", types.PermissionView, (*time.Time)(nil), (*int)(nil), createdBy).
		WillReturnRows(mock.NewRows([]string{
			"id", "plan_id", "share_token", "permission", "expires_at", "max_uses",
			"use_count", "is_active", "created_by", "created_at",
		}).AddRow(shareID, planID, "tok123", types.PermissionView, (*time.Time)(nil),
			(*int)(nil), 0, true, createdBy, now))

	share, err := repo.CreateShare(context.Background(), planID, createdBy, "tok123", types.PermissionView, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "tok123", share.ShareToken)
	assert.True(t, share.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPlanRepo_SetShareActive(t *testing.T) {
	repo, mock := newMockRepo(t)
	planID := uuid.New()
	createdBy := uuid.New()
	shareID := uuid.New()
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Deactivates", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE travel_plan_shares SET is_active = $3")).
			WithArgs(shareID, planID, false).
			WillReturnRows(mock.NewRows([]string{
				"id", "plan_id", "share_token", "permission", "expires_at", "max_uses",
				"use_count", "is_active", "created_by", "created_at",
			}).AddRow(shareID, planID, "tok123", types.PermissionView, (*time.Time)(nil),
				(*int)(nil), 2, false, createdBy, now))

		share, err := repo.SetShareActive(context.Background(), planID, shareID, false)
		require.NoError(t, err)
		assert.False(t, share.IsActive)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnknownShare", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE travel_plan_shares SET is_active = $3")).
			WithArgs(shareID, planID, true).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.SetShareActive(context.Background(), planID, shareID, true)
		assert.ErrorIs(t, err, api.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresPlanRepo_AddCollaborator_Duplicate(t *testing.T) {
	repo, mock := newMockRepo(t)
	planID := uuid.New()
	userID := uuid.New()
	inviter := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO travel_plan_collaborators")).
		WithArgs(planID, userID, types.PermissionEdit, inviter).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.AddCollaborator(context.Background(), planID, userID, inviter, types.PermissionEdit)
	assert.ErrorIs(t, err, api.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPlanRepo_ToggleBookmark(t *testing.T) {
	userID := uuid.New()
	planID := uuid.New()

	t.Run("adds when absent", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM travel_plan_bookmarks")).
			WithArgs(userID, planID).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO travel_plan_bookmarks")).
			WithArgs(userID, planID).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		bookmarked, err := repo.ToggleBookmark(context.Background(), userID, planID)
		require.NoError(t, err)
		assert.True(t, bookmarked)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("removes when present", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM travel_plan_bookmarks")).
			WithArgs(userID, planID).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		bookmarked, err := repo.ToggleBookmark(context.Background(), userID, planID)
		require.NoError(t, err)
		assert.False(t, bookmarked)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresPlanRepo_SoftDeleteComment_AlreadyDeleted(t *testing.T) {
	repo, mock := newMockRepo(t)
	commentID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("SET is_deleted = TRUE")).
		WithArgs(commentID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.SoftDeleteComment(context.Background(), commentID)
	assert.ErrorIs(t, err, api.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPlanRepo_UpdatePlan_NoFieldsFallsBackToGet(t *testing.T) {
	repo, mock := newMockRepo(t)
	planID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM travel_plans WHERE id = $1")).
		WithArgs(planID).
		WillReturnRows(planRow(mock, planID, userID, "제주 여행"))

	plan, err := repo.UpdatePlan(context.Background(), planID, types.UpdateTravelPlanRequest{})
	require.NoError(t, err)
	assert.Equal(t, "제주 여행", plan.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPlanRepo_CreateVersion_MissingPlan(t *testing.T) {
	repo, mock := newMockRepo(t)
	planID := uuid.New()
	createdBy := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO travel_plan_versions")).
		WithArgs(planID, (*string)(nil), createdBy).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.CreateVersion(context.Background(), planID, createdBy, nil)
	assert.ErrorIs(t, err, api.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPlanRepo_UpsertRoute_MissingPlan(t *testing.T) {
	repo, mock := newMockRepo(t)
	planID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO travel_routes")).
		WithArgs(planID, (*string)(nil), (*string)(nil), 1, (*string)(nil), (*int)(nil),
			(*float64)(nil), json.RawMessage(nil)).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err := repo.UpsertRoute(context.Background(), planID, types.UpsertRouteRequest{RouteOrder: 1})
	assert.ErrorIs(t, err, api.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPlanRepo_GetUserByEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	userID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, nickname FROM users WHERE email = $1")).
		WithArgs("friend@example.com").
		WillReturnRows(mock.NewRows([]string{"id", "nickname"}).AddRow(userID, "친구"))

	id, nickname, err := repo.GetUserByEmail(context.Background(), "friend@example.com")
	require.NoError(t, err)
	assert.Equal(t, userID, id)
	assert.Equal(t, "친구", nickname)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var errBoom = errors.New("boom")

func TestPostgresPlanRepo_ListComments_QueryError(t *testing.T) {
	repo, mock := newMockRepo(t)
	planID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM travel_plan_comments c")).
		WithArgs(planID, deletedCommentPlaceholder).
		WillReturnError(errBoom)

	_, err := repo.ListComments(context.Background(), planID)
	assert.ErrorIs(t, err, errBoom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
