package tour

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/weatherflick/weather-travel-api/internal/api"
	"github.com/weatherflick/weather-travel-api/internal/types"
)

var _ AttractionsRepo = (*PostgresAttractionsRepo)(nil)

// AttractionsRepo is the storage contract for locally cached attractions.
type AttractionsRepo interface {
	SearchAttractions(ctx context.Context, query string, limit int) ([]types.Attraction, error)
	GetAttractionsByArea(ctx context.Context, areaCode string, limit int) ([]types.Attraction, error)
	GetAttractionByContentID(ctx context.Context, contentID string) (*types.Attraction, error)
}

type PostgresAttractionsRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresAttractionsRepo(pgpool *pgxpool.Pool, logger *slog.Logger) *PostgresAttractionsRepo {
	return &PostgresAttractionsRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

// Text columns are nullable in the schema but flat strings in the API shape.
const attractionColumns = `content_id, name, COALESCE(address, ''), COALESCE(area_code, ''),
        COALESCE(category_code, ''), latitude, longitude, COALESCE(image_url, ''), COALESCE(tel, '')`

func scanAttractions(rows pgx.Rows) ([]types.Attraction, error) {
	var attractions []types.Attraction
	for rows.Next() {
		var a types.Attraction
		err := rows.Scan(&a.ContentID, &a.Name, &a.Address, &a.AreaCode, &a.CategoryCode,
			&a.Latitude, &a.Longitude, &a.ImageURL, &a.Tel)
		if err != nil {
			return nil, fmt.Errorf("scan attraction row: %w", err)
		}
		attractions = append(attractions, a)
	}
	return attractions, rows.Err()
}

func (r *PostgresAttractionsRepo) SearchAttractions(ctx context.Context, query string, limit int) ([]types.Attraction, error) {
	ctx, span := otel.Tracer("AttractionsRepo").Start(ctx, "SearchAttractions", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.query", query),
	))
	defer span.End()

	sql := `
        SELECT ` + attractionColumns + `
        FROM attractions
        WHERE name ILIKE $1 OR address ILIKE $1
        ORDER BY name
        LIMIT $2`

	rows, err := r.pgpool.Query(ctx, sql, "%"+query+"%", limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Attraction search query failed")
		return nil, fmt.Errorf("search attractions: %w", err)
	}
	defer rows.Close()

	attractions, err := scanAttractions(rows)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetStatus(codes.Ok, "Attractions searched")
	return attractions, nil
}

func (r *PostgresAttractionsRepo) GetAttractionsByArea(ctx context.Context, areaCode string, limit int) ([]types.Attraction, error) {
	ctx, span := otel.Tracer("AttractionsRepo").Start(ctx, "GetAttractionsByArea", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("tour.area_code", areaCode),
	))
	defer span.End()

	sql := `
        SELECT ` + attractionColumns + `
        FROM attractions
        WHERE area_code = $1
        ORDER BY name
        LIMIT $2`

	rows, err := r.pgpool.Query(ctx, sql, areaCode, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Attractions by area query failed")
		return nil, fmt.Errorf("get attractions by area: %w", err)
	}
	defer rows.Close()

	return scanAttractions(rows)
}

func (r *PostgresAttractionsRepo) GetAttractionByContentID(ctx context.Context, contentID string) (*types.Attraction, error) {
	ctx, span := otel.Tracer("AttractionsRepo").Start(ctx, "GetAttractionByContentID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	sql := `
        SELECT ` + attractionColumns + `
        FROM attractions
        WHERE content_id = $1`

	var a types.Attraction
	err := r.pgpool.QueryRow(ctx, sql, contentID).Scan(&a.ContentID, &a.Name, &a.Address,
		&a.AreaCode, &a.CategoryCode, &a.Latitude, &a.Longitude, &a.ImageURL, &a.Tel)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("attraction %s: %w", contentID, api.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Attraction lookup failed")
		return nil, fmt.Errorf("get attraction: %w", err)
	}
	return &a, nil
}
