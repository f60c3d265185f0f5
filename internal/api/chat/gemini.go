package chat

import (
	"context"

	"google.golang.org/genai"

	generativeAI "github.com/weatherflick/weather-travel-api/internal/api/generative_ai"
)

var _ TextGenerator = (*GeminiGenerator)(nil)

// GeminiGenerator adapts the Gemini client to the chat generator contract.
type GeminiGenerator struct {
	client      *generativeAI.AIClient
	temperature float32
}

func NewGeminiGenerator(client *generativeAI.AIClient) *GeminiGenerator {
	return &GeminiGenerator{
		client:      client,
		temperature: 0.7,
	}
}

func (g *GeminiGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return g.client.GenerateContent(ctx, prompt, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](g.temperature),
	})
}
