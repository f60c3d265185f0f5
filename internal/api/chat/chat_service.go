package chat

import (
	"context"
	"fmt"
	"log/slog"
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
	maxMessageLength  = 1000
	defaultHistoryCap = 50
	aiPromptTemplate  = "당신은 한국 여행과 날씨를 안내하는 Weather Flick 챗봇입니다. " +
		"친절하고 간결하게 한국어로 답변하세요. 사용자 메시지: %s"
)

var _ ChatService = (*ChatServiceImpl)(nil)

// TextGenerator produces a free-form reply for messages the keyword
// classifier cannot answer.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// ChatService defines the business logic contract for the chatbot.
type ChatService interface {
	SendMessage(ctx context.Context, userID *uuid.UUID, sessionID string, req types.ChatMessageRequest) (*types.ChatMessageResponse, error)
	GetHistory(ctx context.Context, userID *uuid.UUID, sessionID string, limit int) ([]types.ChatHistoryEntry, error)
	ClearHistory(ctx context.Context, userID uuid.UUID) error
	GetInitialMessage() types.InitialChatMessage
	GetConfig() types.ChatbotConfig
}

type ChatServiceImpl struct {
	logger    *slog.Logger
	repo      ChatRepo
	generator TextGenerator
	now       func() time.Time
}

// NewChatService accepts a nil generator; general-intent messages then get
// the canned fallback reply.
func NewChatService(repo ChatRepo, generator TextGenerator, logger *slog.Logger) *ChatServiceImpl {
	return &ChatServiceImpl{
		logger:    logger,
		repo:      repo,
		generator: generator,
		now:       time.Now,
	}
}

func (s *ChatServiceImpl) SendMessage(ctx context.Context, userID *uuid.UUID, sessionID string, req types.ChatMessageRequest) (*types.ChatMessageResponse, error) {
	ctx, span := otel.Tracer("ChatService").Start(ctx, "SendMessage")
	defer span.End()

	if req.Message == "" {
		return nil, fmt.Errorf("%w: message is required", api.ErrBadRequest)
	}
	if len([]rune(req.Message)) > maxMessageLength {
		return nil, fmt.Errorf("%w: message exceeds %d characters", api.ErrBadRequest, maxMessageLength)
	}
	if userID == nil && sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required for anonymous chat", api.ErrBadRequest)
	}

	processed := preprocessMessage(req.Message)
	intent := classifyIntent(processed)
	span.SetAttributes(attribute.String("chat.intent", intent))

	response := s.respond(ctx, intent, req.Message)
	suggestions := suggestionsForIntent(intent)

	s.persistExchange(ctx, userID, sessionID, intent, req, response, suggestions)

	span.SetStatus(codes.Ok, "Chat response generated")
	return &types.ChatMessageResponse{
		Response:    response,
		Intent:      intent,
		Suggestions: suggestions,
		Timestamp:   s.now(),
	}, nil
}

// respond answers known intents from the canned table and delegates general
// questions to the AI generator when one is configured.
func (s *ChatServiceImpl) respond(ctx context.Context, intent, message string) string {
	if intent != types.IntentGeneral || s.generator == nil {
		return responseForIntent(intent)
	}

	generated, err := s.generator.GenerateContent(ctx, fmt.Sprintf(aiPromptTemplate, message))
	if err != nil {
		s.logger.WarnContext(ctx, "AI generation failed, using canned reply", slog.Any("error", err))
		return responseForIntent(types.IntentGeneral)
	}
	return generated
}

// persistExchange stores both sides of the exchange. Persistence failures
// are logged, not surfaced; losing history must not break the conversation.
func (s *ChatServiceImpl) persistExchange(ctx context.Context, userID *uuid.UUID, sessionID, intent string, req types.ChatMessageRequest, response string, suggestions []string) {
	if s.repo == nil {
		return
	}

	var sessionPtr *string
	if sessionID != "" {
		sessionPtr = &sessionID
	}

	userEntry := types.ChatHistoryEntry{
		UserID:    userID,
		SessionID: sessionPtr,
		Sender:    "user",
		Message:   req.Message,
		Context:   req.Context,
	}
	if err := s.repo.SaveMessage(ctx, userEntry); err != nil {
		s.logger.WarnContext(ctx, "Failed to persist user chat message", slog.Any("error", err))
		return
	}

	botEntry := types.ChatHistoryEntry{
		UserID:      userID,
		SessionID:   sessionPtr,
		Sender:      "bot",
		Message:     response,
		Intent:      &intent,
		Suggestions: suggestions,
	}
	if err := s.repo.SaveMessage(ctx, botEntry); err != nil {
		s.logger.WarnContext(ctx, "Failed to persist bot chat message", slog.Any("error", err))
	}
}

func (s *ChatServiceImpl) GetHistory(ctx context.Context, userID *uuid.UUID, sessionID string, limit int) ([]types.ChatHistoryEntry, error) {
	ctx, span := otel.Tracer("ChatService").Start(ctx, "GetHistory", trace.WithAttributes(
		attribute.Bool("chat.authenticated", userID != nil),
	))
	defer span.End()

	if limit <= 0 || limit > 200 {
		limit = defaultHistoryCap
	}

	if userID != nil {
		return s.repo.GetHistoryByUser(ctx, *userID, limit)
	}
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required for anonymous chat", api.ErrBadRequest)
	}
	return s.repo.GetHistoryBySession(ctx, sessionID, limit)
}

func (s *ChatServiceImpl) ClearHistory(ctx context.Context, userID uuid.UUID) error {
	return s.repo.DeleteHistoryByUser(ctx, userID)
}

func (s *ChatServiceImpl) GetInitialMessage() types.InitialChatMessage {
	return types.InitialChatMessage{
		WelcomeMessage: responseForIntent(types.IntentGreeting),
		Suggestions:    suggestionsForIntent(types.IntentGreeting),
	}
}

func (s *ChatServiceImpl) GetConfig() types.ChatbotConfig {
	return types.ChatbotConfig{
		WelcomeDelayMs:   1000,
		TypingDelayMs:    500,
		MaxContextLength: 10,
		MaxSuggestions:   3,
		MaxMessageLength: maxMessageLength,
		AIEnabled:        s.generator != nil,
	}
}
