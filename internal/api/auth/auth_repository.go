package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/weatherflick/weather-travel-api/internal/api"
	"github.com/weatherflick/weather-travel-api/internal/types"
)

var _ AuthRepo = (*PostgresAuthRepo)(nil)

// AuthRepo defines the contract for user and refresh token persistence.
type AuthRepo interface {
	CreateUser(ctx context.Context, email, nickname, passwordHash string) (*types.UserAuth, error)
	GetUserByEmail(ctx context.Context, email string) (*types.UserAuth, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*types.UserAuth, error)
	UpsertGoogleUser(ctx context.Context, googleID, email, nickname string, profileImage *string) (*types.UserAuth, error)
	UpdatePasswordHash(ctx context.Context, userID uuid.UUID, newHash string) error
	UpdateLastLogin(ctx context.Context, userID uuid.UUID) error

	ListUsers(ctx context.Context, page, pageSize int) ([]types.UserAuth, int, error)
	SetUserActive(ctx context.Context, userID uuid.UUID, active bool) error

	StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, token string) (uuid.UUID, time.Time, *time.Time, error)
	RevokeRefreshToken(ctx context.Context, token string) error
	RevokeAllUserRefreshTokens(ctx context.Context, userID uuid.UUID) error
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresAuthRepo(pgpool *pgxpool.Pool, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

const userColumns = `id, email, nickname, password_hash, profile_image, preferences,
       preferred_region, role, auth_provider, is_active, last_login, created_at, updated_at`

func scanUser(row pgx.Row) (*types.UserAuth, error) {
	var u types.UserAuth
	var passwordHash *string
	err := row.Scan(&u.ID, &u.Email, &u.Nickname, &passwordHash, &u.ProfileImage,
		&u.Preferences, &u.PreferredRegion, &u.Role, &u.AuthProvider, &u.IsActive,
		&u.LastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if passwordHash != nil {
		u.PasswordHash = *passwordHash
	}
	return &u, nil
}

func (r *PostgresAuthRepo) CreateUser(ctx context.Context, email, nickname, passwordHash string) (*types.UserAuth, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "CreateUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	query := `
		INSERT INTO users (email, nickname, password_hash, auth_provider)
		VALUES ($1, $2, $3, 'local')
		RETURNING ` + userColumns
	user, err := scanUser(r.pgpool.QueryRow(ctx, query, email, nickname, passwordHash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return nil, fmt.Errorf("email already registered: %w", api.ErrConflict)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

func (r *PostgresAuthRepo) GetUserByEmail(ctx context.Context, email string) (*types.UserAuth, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND is_active = TRUE`
	user, err := scanUser(r.pgpool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, api.ErrNotFound
		}
		return nil, fmt.Errorf("get user by email: query failed: %w", err)
	}
	return user, nil
}

func (r *PostgresAuthRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.UserAuth, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND is_active = TRUE`
	user, err := scanUser(r.pgpool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, api.ErrNotFound
		}
		return nil, fmt.Errorf("get user by id: query failed: %w", err)
	}
	return user, nil
}

// UpsertGoogleUser links a Google account to an existing row by email, or
// creates a fresh row on first sign-in.
func (r *PostgresAuthRepo) UpsertGoogleUser(ctx context.Context, googleID, email, nickname string, profileImage *string) (*types.UserAuth, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "UpsertGoogleUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	query := `
		INSERT INTO users (email, nickname, profile_image, auth_provider, google_id)
		VALUES ($1, $2, $3, 'google', $4)
		ON CONFLICT (email) DO UPDATE
		SET google_id = EXCLUDED.google_id,
		    profile_image = COALESCE(users.profile_image, EXCLUDED.profile_image),
		    updated_at = now()
		RETURNING ` + userColumns
	user, err := scanUser(r.pgpool.QueryRow(ctx, query, email, nickname, profileImage, googleID))
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("upsert google user: %w", err)
	}
	return user, nil
}

func (r *PostgresAuthRepo) UpdatePasswordHash(ctx context.Context, userID uuid.UUID, newHash string) error {
	tag, err := r.pgpool.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`,
		newHash, userID)
	if err != nil {
		return fmt.Errorf("update password: db update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return api.ErrNotFound
	}
	return nil
}

func (r *PostgresAuthRepo) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pgpool.Exec(ctx,
		`UPDATE users SET last_login = now() WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// ListUsers returns every account, newest first, with a total for paging.
// Admin surface; includes deactivated rows.
func (r *PostgresAuthRepo) ListUsers(ctx context.Context, page, pageSize int) ([]types.UserAuth, int, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "ListUsers", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	var total int
	if err := r.pgpool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	rows, err := r.pgpool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		pageSize, (page-1)*pageSize)
	if err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("list users: query failed: %w", err)
	}
	defer rows.Close()

	var users []types.UserAuth
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, *user)
	}
	return users, total, rows.Err()
}

func (r *PostgresAuthRepo) SetUserActive(ctx context.Context, userID uuid.UUID, active bool) error {
	tag, err := r.pgpool.Exec(ctx,
		`UPDATE users SET is_active = $1, updated_at = now() WHERE id = $2`,
		active, userID)
	if err != nil {
		return fmt.Errorf("set user active: db update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return api.ErrNotFound
	}
	return nil
}

func (r *PostgresAuthRepo) StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	_, err := r.pgpool.Exec(ctx,
		`INSERT INTO refresh_tokens (user_id, token, expires_at)
         VALUES ($1, $2, $3)`,
		userID, token, expiresAt)
	if err != nil {
		return fmt.Errorf("store refresh token: db insert failed: %w", err)
	}
	return nil
}

func (r *PostgresAuthRepo) GetRefreshToken(ctx context.Context, token string) (uuid.UUID, time.Time, *time.Time, error) {
	var userID uuid.UUID
	var expiresAt time.Time
	var revokedAt *time.Time

	err := r.pgpool.QueryRow(ctx,
		`SELECT user_id, expires_at, revoked_at
         FROM refresh_tokens
         WHERE token = $1`, token).Scan(&userID, &expiresAt, &revokedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, time.Time{}, nil, api.ErrUnauthenticated
		}
		return uuid.Nil, time.Time{}, nil, fmt.Errorf("get refresh token: query failed: %w", err)
	}
	return userID, expiresAt, revokedAt, nil
}

func (r *PostgresAuthRepo) RevokeRefreshToken(ctx context.Context, token string) error {
	tag, err := r.pgpool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked_at = now()
         WHERE token = $1 AND revoked_at IS NULL`, token)
	if err != nil {
		return fmt.Errorf("revoke refresh token: db update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn("no active refresh token to revoke")
	}
	return nil
}

func (r *PostgresAuthRepo) RevokeAllUserRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pgpool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked_at = now()
		 WHERE user_id = $1 AND revoked_at IS NULL`, userID)
	if err != nil {
		return fmt.Errorf("revoke all tokens: db update failed: %w", err)
	}
	return nil
}
