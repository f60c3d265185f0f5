package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/weatherflick/weather-travel-api/internal/types"
)

var _ ChatRepo = (*PostgresChatRepo)(nil)

// ChatRepo stores and retrieves chat transcripts. Entries belong to either
// an authenticated user or an anonymous session.
type ChatRepo interface {
	SaveMessage(ctx context.Context, entry types.ChatHistoryEntry) error
	GetHistoryByUser(ctx context.Context, userID uuid.UUID, limit int) ([]types.ChatHistoryEntry, error)
	GetHistoryBySession(ctx context.Context, sessionID string, limit int) ([]types.ChatHistoryEntry, error)
	DeleteHistoryByUser(ctx context.Context, userID uuid.UUID) error
}

type PostgresChatRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresChatRepo(pgpool *pgxpool.Pool, logger *slog.Logger) *PostgresChatRepo {
	return &PostgresChatRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresChatRepo) SaveMessage(ctx context.Context, entry types.ChatHistoryEntry) error {
	ctx, span := otel.Tracer("ChatRepo").Start(ctx, "SaveMessage", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	var suggestions []byte
	if entry.Suggestions != nil {
		var err error
		suggestions, err = json.Marshal(entry.Suggestions)
		if err != nil {
			return fmt.Errorf("marshal suggestions: %w", err)
		}
	}

	sql := `
        INSERT INTO chat_messages (user_id, session_id, message, sender, intent, suggestions, context)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pgpool.Exec(ctx, sql,
		entry.UserID, entry.SessionID, entry.Message, entry.Sender,
		entry.Intent, suggestions, entry.Context)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to insert chat message")
		return fmt.Errorf("save chat message: %w", err)
	}
	return nil
}

const chatColumns = `id, user_id, session_id, message, sender, intent, suggestions, context, created_at`

func scanChatHistory(rows pgx.Rows) ([]types.ChatHistoryEntry, error) {
	var entries []types.ChatHistoryEntry
	for rows.Next() {
		var entry types.ChatHistoryEntry
		var suggestions []byte
		err := rows.Scan(&entry.ID, &entry.UserID, &entry.SessionID, &entry.Message,
			&entry.Sender, &entry.Intent, &suggestions, &entry.Context, &entry.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan chat message row: %w", err)
		}
		if len(suggestions) > 0 {
			if err := json.Unmarshal(suggestions, &entry.Suggestions); err != nil {
				return nil, fmt.Errorf("unmarshal suggestions: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// stored newest first, returned oldest first
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

func (r *PostgresChatRepo) GetHistoryByUser(ctx context.Context, userID uuid.UUID, limit int) ([]types.ChatHistoryEntry, error) {
	ctx, span := otel.Tracer("ChatRepo").Start(ctx, "GetHistoryByUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	sql := `
        SELECT ` + chatColumns + `
        FROM chat_messages
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2`

	rows, err := r.pgpool.Query(ctx, sql, userID, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Chat history query failed")
		return nil, fmt.Errorf("get chat history: %w", err)
	}
	defer rows.Close()

	return scanChatHistory(rows)
}

func (r *PostgresChatRepo) GetHistoryBySession(ctx context.Context, sessionID string, limit int) ([]types.ChatHistoryEntry, error) {
	ctx, span := otel.Tracer("ChatRepo").Start(ctx, "GetHistoryBySession", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	sql := `
        SELECT ` + chatColumns + `
        FROM chat_messages
        WHERE session_id = $1
        ORDER BY created_at DESC
        LIMIT $2`

	rows, err := r.pgpool.Query(ctx, sql, sessionID, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Chat history query failed")
		return nil, fmt.Errorf("get chat history: %w", err)
	}
	defer rows.Close()

	return scanChatHistory(rows)
}

func (r *PostgresChatRepo) DeleteHistoryByUser(ctx context.Context, userID uuid.UUID) error {
	ctx, span := otel.Tracer("ChatRepo").Start(ctx, "DeleteHistoryByUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
	))
	defer span.End()

	_, err := r.pgpool.Exec(ctx, `DELETE FROM chat_messages WHERE user_id = $1`, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Chat history delete failed")
		return fmt.Errorf("delete chat history: %w", err)
	}
	return nil
}
