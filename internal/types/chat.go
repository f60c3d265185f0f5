package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Chatbot intents recognized by the keyword classifier.
const (
	IntentWeather  = "weather"
	IntentTravel   = "travel"
	IntentGreeting = "greeting"
	IntentHelp     = "help"
	IntentGeneral  = "general"
)

type ChatMessageRequest struct {
	Message string          `json:"message"`
	Context json.RawMessage `json:"context,omitempty"`
}

type ChatMessageResponse struct {
	Response    string    `json:"response"`
	Intent      string    `json:"intent"`
	Suggestions []string  `json:"suggestions"`
	Timestamp   time.Time `json:"timestamp"`
}

type ChatHistoryEntry struct {
	ID          uuid.UUID       `json:"id"`
	UserID      *uuid.UUID      `json:"user_id,omitempty"`
	SessionID   *string         `json:"session_id,omitempty"`
	Sender      string          `json:"sender"`
	Message     string          `json:"message"`
	Intent      *string         `json:"intent,omitempty"`
	Suggestions []string        `json:"suggestions,omitempty"`
	Context     json.RawMessage `json:"context,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type InitialChatMessage struct {
	WelcomeMessage string   `json:"welcome_message"`
	Suggestions    []string `json:"suggestions"`
}

type ChatbotConfig struct {
	WelcomeDelayMs   int  `json:"welcome_delay"`
	TypingDelayMs    int  `json:"typing_delay"`
	MaxContextLength int  `json:"max_context_length"`
	MaxSuggestions   int  `json:"max_suggestions"`
	MaxMessageLength int  `json:"max_message_length"`
	AIEnabled        bool `json:"ai_enabled"`
}
