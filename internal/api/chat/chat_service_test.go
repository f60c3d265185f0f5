package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/weatherflick/weather-travel-api/internal/api"
	"github.com/weatherflick/weather-travel-api/internal/types"
)

type MockChatRepo struct {
	mock.Mock
}

func (m *MockChatRepo) SaveMessage(ctx context.Context, entry types.ChatHistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockChatRepo) GetHistoryByUser(ctx context.Context, userID uuid.UUID, limit int) ([]types.ChatHistoryEntry, error) {
	args := m.Called(ctx, userID, limit)
	if entries, ok := args.Get(0).([]types.ChatHistoryEntry); ok {
		return entries, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockChatRepo) GetHistoryBySession(ctx context.Context, sessionID string, limit int) ([]types.ChatHistoryEntry, error) {
	args := m.Called(ctx, sessionID, limit)
	if entries, ok := args.Get(0).([]types.ChatHistoryEntry); ok {
		return entries, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockChatRepo) DeleteHistoryByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func TestSendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("WeatherIntentUsesCannedReply", func(t *testing.T) {
		repo := new(MockChatRepo)
		repo.On("SaveMessage", mock.Anything, mock.Anything).Return(nil).Twice()
		generator := new(MockTextGenerator)

		svc := NewChatService(repo, generator, slog.Default())
		userID := uuid.New()
		response, err := svc.SendMessage(ctx, &userID, "", types.ChatMessageRequest{Message: "서울 날씨 어때요?"})

		assert.NoError(t, err)
		assert.Equal(t, types.IntentWeather, response.Intent)
		assert.Contains(t, response.Response, "날씨 정보")
		assert.Len(t, response.Suggestions, 3)
		generator.AssertNotCalled(t, "GenerateContent", mock.Anything, mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("GeneralIntentDelegatesToAI", func(t *testing.T) {
		repo := new(MockChatRepo)
		repo.On("SaveMessage", mock.Anything, mock.Anything).Return(nil).Twice()
		generator := new(MockTextGenerator)
		generator.On("GenerateContent", mock.Anything, mock.MatchedBy(func(prompt string) bool {
			return strings.Contains(prompt, "점심 메뉴 골라줘")
		})).Return("비 오는 날엔 따뜻한 국물 요리를 추천해요.", nil).Once()

		svc := NewChatService(repo, generator, slog.Default())
		response, err := svc.SendMessage(ctx, nil, "session-1", types.ChatMessageRequest{Message: "점심 메뉴 골라줘"})

		assert.NoError(t, err)
		assert.Equal(t, types.IntentGeneral, response.Intent)
		assert.Equal(t, "비 오는 날엔 따뜻한 국물 요리를 추천해요.", response.Response)
		generator.AssertExpectations(t)
	})

	t.Run("AIFailureFallsBackToCannedReply", func(t *testing.T) {
		repo := new(MockChatRepo)
		repo.On("SaveMessage", mock.Anything, mock.Anything).Return(nil).Twice()
		generator := new(MockTextGenerator)
		generator.On("GenerateContent", mock.Anything, mock.Anything).
			Return("", errors.New("quota exceeded")).Once()

		svc := NewChatService(repo, generator, slog.Default())
		response, err := svc.SendMessage(ctx, nil, "session-1", types.ChatMessageRequest{Message: "점심 메뉴 골라줘"})

		assert.NoError(t, err)
		assert.Contains(t, response.Response, "죄송합니다")
	})

	t.Run("NilGeneratorUsesCannedReply", func(t *testing.T) {
		repo := new(MockChatRepo)
		repo.On("SaveMessage", mock.Anything, mock.Anything).Return(nil).Twice()

		svc := NewChatService(repo, nil, slog.Default())
		response, err := svc.SendMessage(ctx, nil, "session-1", types.ChatMessageRequest{Message: "점심 메뉴 골라줘"})

		assert.NoError(t, err)
		assert.Contains(t, response.Response, "죄송합니다")
	})

	t.Run("EmptyMessageRejected", func(t *testing.T) {
		svc := NewChatService(new(MockChatRepo), nil, slog.Default())
		_, err := svc.SendMessage(ctx, nil, "session-1", types.ChatMessageRequest{Message: ""})

		assert.ErrorIs(t, err, api.ErrBadRequest)
	})

	t.Run("OversizedMessageRejected", func(t *testing.T) {
		svc := NewChatService(new(MockChatRepo), nil, slog.Default())
		_, err := svc.SendMessage(ctx, nil, "session-1", types.ChatMessageRequest{
			Message: strings.Repeat("가", maxMessageLength+1),
		})

		assert.ErrorIs(t, err, api.ErrBadRequest)
	})

	t.Run("AnonymousWithoutSessionRejected", func(t *testing.T) {
		svc := NewChatService(new(MockChatRepo), nil, slog.Default())
		_, err := svc.SendMessage(ctx, nil, "", types.ChatMessageRequest{Message: "안녕"})

		assert.ErrorIs(t, err, api.ErrBadRequest)
	})

	t.Run("PersistenceFailureDoesNotBreakReply", func(t *testing.T) {
		repo := new(MockChatRepo)
		repo.On("SaveMessage", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

		svc := NewChatService(repo, nil, slog.Default())
		response, err := svc.SendMessage(ctx, nil, "session-1", types.ChatMessageRequest{Message: "안녕하세요"})

		assert.NoError(t, err)
		assert.Equal(t, types.IntentGreeting, response.Intent)
	})
}

func TestGetHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("AuthenticatedUsesUserHistory", func(t *testing.T) {
		repo := new(MockChatRepo)
		userID := uuid.New()
		repo.On("GetHistoryByUser", mock.Anything, userID, 50).
			Return([]types.ChatHistoryEntry{{Sender: "user", Message: "안녕"}}, nil).Once()

		svc := NewChatService(repo, nil, slog.Default())
		history, err := svc.GetHistory(ctx, &userID, "ignored-session", 0)

		assert.NoError(t, err)
		assert.Len(t, history, 1)
		repo.AssertExpectations(t)
	})

	t.Run("AnonymousUsesSessionHistory", func(t *testing.T) {
		repo := new(MockChatRepo)
		repo.On("GetHistoryBySession", mock.Anything, "session-1", 20).
			Return([]types.ChatHistoryEntry{}, nil).Once()

		svc := NewChatService(repo, nil, slog.Default())
		_, err := svc.GetHistory(ctx, nil, "session-1", 20)

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("AnonymousWithoutSessionRejected", func(t *testing.T) {
		svc := NewChatService(new(MockChatRepo), nil, slog.Default())
		_, err := svc.GetHistory(ctx, nil, "", 20)

		assert.ErrorIs(t, err, api.ErrBadRequest)
	})
}

func TestChatbotConfig(t *testing.T) {
	t.Run("AIEnabledWithGenerator", func(t *testing.T) {
		svc := NewChatService(new(MockChatRepo), new(MockTextGenerator), slog.Default())
		cfg := svc.GetConfig()

		assert.True(t, cfg.AIEnabled)
		assert.Equal(t, maxMessageLength, cfg.MaxMessageLength)
		assert.Equal(t, 3, cfg.MaxSuggestions)
	})

	t.Run("AIDisabledWithoutGenerator", func(t *testing.T) {
		svc := NewChatService(new(MockChatRepo), nil, slog.Default())
		assert.False(t, svc.GetConfig().AIEnabled)
	})
}

func TestInitialMessage(t *testing.T) {
	svc := NewChatService(new(MockChatRepo), nil, slog.Default())
	initial := svc.GetInitialMessage()

	assert.Contains(t, initial.WelcomeMessage, "Weather Flick")
	assert.Len(t, initial.Suggestions, 3)
}
