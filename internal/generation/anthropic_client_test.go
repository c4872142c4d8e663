package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnthropicClient(serverURL string) *AnthropicClient {
	return NewAnthropicClient(AnthropicConfig{
		APIKey:  "test-key",
		BaseURL: serverURL,
		Model:   "test-model",
		Timeout: 5 * time.Second,
	}, nil)
}

func TestNewAnthropicClient_Defaults(t *testing.T) {
	client := NewAnthropicClient(AnthropicConfig{APIKey: "k"}, nil)

	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.tracer)
	assert.NotNil(t, client.breaker)
	assert.Equal(t, defaultAnthropicBaseURL, client.baseURL)
	assert.Equal(t, defaultAnthropicModel, client.model)
}

func TestAnthropicClient_Generate(t *testing.T) {
	tests := []struct {
		name           string
		serverResponse func(w http.ResponseWriter, r *http.Request)
		expectedError  string
		expectedResult string
	}{
		{
			name: "successful_generation",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "POST", r.Method)
				assert.Equal(t, "/messages", r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
				assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

				var req messagesRequest
				err := json.NewDecoder(r.Body).Decode(&req)
				assert.NoError(t, err)
				assert.Equal(t, "test-model", req.Model)
				assert.Equal(t, QuestionMaxTokens, req.MaxTokens)
				if assert.Len(t, req.Messages, 1) {
					assert.Equal(t, "user", req.Messages[0].Role)
				}

				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"content":[{"type":"text","text":"  Qual o impacto esperado?  "}]}`))
			},
			expectedResult: "Qual o impacto esperado?",
		},
		{
			name: "multiple_text_blocks",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"content":[{"type":"text","text":"Parte 1. "},{"type":"tool_use"},{"type":"text","text":"Parte 2."}]}`))
			},
			expectedResult: "Parte 1. Parte 2.",
		},
		{
			name: "server_error",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Internal server error"))
			},
			expectedError: "anthropic returned status 500",
		},
		{
			name: "invalid_json_response",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("invalid json"))
			},
			expectedError: "failed to decode response",
		},
		{
			name: "api_error_body",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"content":[],"error":{"type":"overloaded_error","message":"Overloaded"}}`))
			},
			expectedError: "anthropic error: Overloaded",
		},
		{
			name: "empty_content",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"content":[]}`))
			},
			expectedError: "no text content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResponse))
			defer server.Close()

			client := newTestAnthropicClient(server.URL)
			result, err := client.Generate(context.Background(), "prompt", QuestionMaxTokens)

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedResult, result)
			}
		})
	}
}

func TestAnthropicClient_MissingAPIKey(t *testing.T) {
	client := NewAnthropicClient(AnthropicConfig{}, nil)

	_, err := client.Generate(context.Background(), "prompt", QuestionMaxTokens)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
}

func TestAnthropicClient_CircuitBreaker(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Service unavailable"))
	}))
	defer server.Close()

	client := newTestAnthropicClient(server.URL)

	opened := false
	for i := 0; i < 10; i++ {
		_, err := client.Generate(context.Background(), "prompt", QuestionMaxTokens)
		require.Error(t, err)
		if strings.Contains(err.Error(), "circuit breaker is open") {
			opened = true
			break
		}
	}

	assert.True(t, opened, "breaker should open after consecutive failures")
	assert.Equal(t, 6, calls, "open breaker must fail fast without reaching the server")
}

func TestAnthropicClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.Write([]byte(`{"content":[{"type":"text","text":"late"}]}`))
	}))
	defer server.Close()

	client := newTestAnthropicClient(server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Generate(ctx, "prompt", QuestionMaxTokens)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "context deadline exceeded")
}
