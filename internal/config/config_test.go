package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bizmatters/agent-builder/spec-elicitor/internal/generation"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoad_Defaults(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	cfg, err := Load(env(nil), zap.New(core))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.DatabaseURL)
	assert.False(t, cfg.AuthEnabled())
	assert.Equal(t, generation.DefaultOrgName, cfg.OrgName)
	assert.Equal(t, ProviderAnthropic, cfg.Generator.Provider)
	assert.Equal(t, generation.DefaultTimeout, cfg.Generator.Timeout)

	assert.Equal(t, 1, logs.FilterMessage("JWT_SECRET not set, API authentication is disabled").Len())
	assert.Equal(t, 1, logs.FilterMessage("ANTHROPIC_API_KEY not set, every generator call will fail").Len())
}

func TestLoad_FromEnvironment(t *testing.T) {
	cfg, err := Load(env(map[string]string{
		"PORT":               "9090",
		"DATABASE_URL":       "sqlite:/tmp/specs.db",
		"JWT_SECRET":         "s3cret",
		"ORG_NAME":           "Banco Exemplo",
		"LOG_LEVEL":          "debug",
		"GENERATOR_PROVIDER": " Gemini ",
		"GEMINI_API_KEY":     "gm-key",
		"GEMINI_MODEL":       "gemini-2.5-pro",
		"GENERATOR_TIMEOUT":  "90s",
	}), nil)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "sqlite:/tmp/specs.db", cfg.DatabaseURL)
	assert.True(t, cfg.AuthEnabled())
	assert.Equal(t, "Banco Exemplo", cfg.OrgName)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, GeneratorConfig{
		Provider:     ProviderGemini,
		GeminiAPIKey: "gm-key",
		GeminiModel:  "gemini-2.5-pro",
		Timeout:      90 * time.Second,
	}, cfg.Generator)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"bad timeout", map[string]string{"GENERATOR_TIMEOUT": "soon"}, "invalid GENERATOR_TIMEOUT"},
		{"negative timeout", map[string]string{"GENERATOR_TIMEOUT": "-5s"}, "must be positive"},
		{"unknown provider", map[string]string{"GENERATOR_PROVIDER": "openai"}, "unknown GENERATOR_PROVIDER"},
		{"gemini without key", map[string]string{"GENERATOR_PROVIDER": "gemini"}, "GEMINI_API_KEY is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(env(tt.env), nil)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
