package generation

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiClient generates text with Google's Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
	tracer trace.Tracer
	logger *zap.Logger
}

// NewGeminiClient creates a Gemini-backed generator.
func NewGeminiClient(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required (set GEMINI_API_KEY)")
	}
	if model == "" {
		model = defaultGeminiModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  model,
		tracer: otel.Tracer("gemini-generator"),
		logger: logger,
	}, nil
}

// Generate asks the model for a completion of prompt.
func (g *GeminiClient) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	ctx, span := g.tracer.Start(ctx, "gemini.generate")
	defer span.End()

	span.SetAttributes(
		attribute.String("model", g.model),
		attribute.Int("max_tokens", maxTokens),
	)

	result, err := g.client.Models.GenerateContent(ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			MaxOutputTokens: int32(maxTokens),
		},
	)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("GenAI returned no text")
	}
	span.SetAttributes(attribute.Int("response_len", len(text)))
	return text, nil
}
