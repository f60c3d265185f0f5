package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/weatherflick/weather-travel-api/internal/types"
)

var _ DestinationsRepo = (*PostgresDestinationsRepo)(nil)

// DestinationsRepo reads the curated destination catalogue.
type DestinationsRepo interface {
	ListByProvince(ctx context.Context, province string) ([]types.Destination, error)
	ListByProvinceAndTags(ctx context.Context, province string, tags []string) ([]types.Destination, error)
}

type PostgresDestinationsRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresDestinationsRepo(pgxpool *pgxpool.Pool, logger *slog.Logger) *PostgresDestinationsRepo {
	return &PostgresDestinationsRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

const destinationColumns = `id, name, province, region, category, is_indoor, tags,
        latitude, longitude, image_url, rating, recommendation_weight`

func scanDestinations(rows pgx.Rows) ([]types.Destination, error) {
	var destinations []types.Destination
	for rows.Next() {
		var d types.Destination
		var rawTags []byte
		if err := rows.Scan(&d.ID, &d.Name, &d.Province, &d.Region, &d.Category,
			&d.IsIndoor, &rawTags, &d.Latitude, &d.Longitude, &d.ImageURL,
			&d.Rating, &d.RecommendationWeight); err != nil {
			return nil, fmt.Errorf("scan destination row: %w", err)
		}
		if len(rawTags) > 0 {
			if err := json.Unmarshal(rawTags, &d.Tags); err != nil {
				return nil, fmt.Errorf("decode destination tags: %w", err)
			}
		}
		destinations = append(destinations, d)
	}
	return destinations, rows.Err()
}

func (r *PostgresDestinationsRepo) ListByProvince(ctx context.Context, province string) ([]types.Destination, error) {
	ctx, span := otel.Tracer("DestinationsRepo").Start(ctx, "ListByProvince", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("destination.province", province),
	))
	defer span.End()

	sql := `SELECT ` + destinationColumns + ` FROM destinations WHERE province = $1`

	rows, err := r.pgpool.Query(ctx, sql, province)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Destination query failed")
		return nil, fmt.Errorf("list destinations: %w", err)
	}
	defer rows.Close()

	return scanDestinations(rows)
}

// ListByProvinceAndTags returns destinations in the province carrying at
// least one of the given tags. Tags live in a JSONB array, matched with
// the ?| any-key operator.
func (r *PostgresDestinationsRepo) ListByProvinceAndTags(ctx context.Context, province string, tags []string) ([]types.Destination, error) {
	ctx, span := otel.Tracer("DestinationsRepo").Start(ctx, "ListByProvinceAndTags", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("destination.province", province),
		attribute.Int("destination.tag_count", len(tags)),
	))
	defer span.End()

	sql := `SELECT ` + destinationColumns + ` FROM destinations WHERE province = $1 AND tags ?| $2`

	rows, err := r.pgpool.Query(ctx, sql, province, tags)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Destination tag query failed")
		return nil, fmt.Errorf("list destinations by tags: %w", err)
	}
	defer rows.Close()

	return scanDestinations(rows)
}
