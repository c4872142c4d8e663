package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com/v1"
	defaultAnthropicModel   = "claude-3-5-sonnet-20240620"
	anthropicVersion        = "2023-06-01"
)

// AnthropicConfig configures AnthropicClient.
type AnthropicConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// AnthropicClient calls the Anthropic Messages API.
type AnthropicClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	tracer     trace.Tracer
	breaker    *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewAnthropicClient creates a new Anthropic client
func NewAnthropicClient(cfg AnthropicConfig, logger *zap.Logger) *AnthropicClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultAnthropicBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultAnthropicModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	// Initialize circuit breaker
	settings := gobreaker.Settings{
		Name:        "anthropic-generator",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker changed state",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &AnthropicClient{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		tracer:  otel.Tracer("anthropic-generator"),
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

// Generate sends a single-message prompt and returns the concatenated text blocks.
func (c *AnthropicClient) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	ctx, span := c.tracer.Start(ctx, "anthropic.generate")
	defer span.End()

	span.SetAttributes(
		attribute.String("model", c.model),
		attribute.Int("max_tokens", maxTokens),
		attribute.Int("prompt_len", len(prompt)),
	)

	if c.apiKey == "" {
		return "", fmt.Errorf("anthropic API key not configured (set ANTHROPIC_API_KEY)")
	}

	// Execute with circuit breaker
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.generateInternal(ctx, prompt, maxTokens)
	})
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to call anthropic: %w", err)
	}

	text := result.(string)
	span.SetAttributes(attribute.Int("response_len", len(text)))
	return text, nil
}

// generateInternal performs the actual HTTP request
func (c *AnthropicClient) generateInternal(ctx context.Context, prompt string, maxTokens int) (string, error) {
	jsonData, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("anthropic returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return "", fmt.Errorf("anthropic returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var msgResp messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&msgResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if msgResp.Error != nil {
		return "", fmt.Errorf("anthropic error: %s", msgResp.Error.Message)
	}

	var sb strings.Builder
	for _, block := range msgResp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("anthropic returned no text content")
	}
	return text, nil
}
