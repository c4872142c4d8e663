// Package config reads the service configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bizmatters/agent-builder/spec-elicitor/internal/generation"
)

// Generator providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Config holds everything the service reads from its environment.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	OrgName     string
	LogLevel    string
	Generator   GeneratorConfig
}

// GeneratorConfig selects and configures the text generator backend.
type GeneratorConfig struct {
	Provider         string
	AnthropicAPIKey  string
	AnthropicBaseURL string
	AnthropicModel   string
	GeminiAPIKey     string
	GeminiModel      string
	Timeout          time.Duration
}

// AuthEnabled reports whether API routes require a JWT.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// Load reads the configuration through getenv (os.Getenv in production).
// Defaults that weaken the deployment are logged at warn.
func Load(getenv func(string) string, logger *zap.Logger) (*Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }

	cfg := &Config{
		Port:        get("PORT"),
		DatabaseURL: get("DATABASE_URL"),
		JWTSecret:   get("JWT_SECRET"),
		OrgName:     get("ORG_NAME"),
		LogLevel:    get("LOG_LEVEL"),
		Generator: GeneratorConfig{
			Provider:         strings.ToLower(get("GENERATOR_PROVIDER")),
			AnthropicAPIKey:  get("ANTHROPIC_API_KEY"),
			AnthropicBaseURL: get("ANTHROPIC_BASE_URL"),
			AnthropicModel:   get("ANTHROPIC_MODEL"),
			GeminiAPIKey:     get("GEMINI_API_KEY"),
			GeminiModel:      get("GEMINI_MODEL"),
			Timeout:          generation.DefaultTimeout,
		},
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.OrgName == "" {
		cfg.OrgName = generation.DefaultOrgName
	}
	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, API authentication is disabled")
	}

	if raw := get("GENERATOR_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid GENERATOR_TIMEOUT %q: %w", raw, err)
		}
		if timeout <= 0 {
			return nil, fmt.Errorf("invalid GENERATOR_TIMEOUT %q: must be positive", raw)
		}
		cfg.Generator.Timeout = timeout
	}

	switch cfg.Generator.Provider {
	case "":
		cfg.Generator.Provider = ProviderAnthropic
		fallthrough
	case ProviderAnthropic:
		if cfg.Generator.AnthropicAPIKey == "" {
			logger.Warn("ANTHROPIC_API_KEY not set, every generator call will fail")
		}
	case ProviderGemini:
		if cfg.Generator.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required when GENERATOR_PROVIDER=gemini")
		}
	default:
		return nil, fmt.Errorf("unknown GENERATOR_PROVIDER %q", cfg.Generator.Provider)
	}

	return cfg, nil
}
