package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bizmatters/agent-builder/spec-elicitor/internal/archive"
	"github.com/bizmatters/agent-builder/spec-elicitor/internal/config"
	"github.com/bizmatters/agent-builder/spec-elicitor/internal/dialogue"
	"github.com/bizmatters/agent-builder/spec-elicitor/internal/finalization"
	"github.com/bizmatters/agent-builder/spec-elicitor/internal/generation"
	"github.com/bizmatters/agent-builder/spec-elicitor/internal/logging"
	"github.com/bizmatters/agent-builder/spec-elicitor/internal/metrics"
	"github.com/bizmatters/agent-builder/spec-elicitor/internal/orchestration"
)

// env carries what every subcommand shares: how to read the environment and
// the --log-level override.
type env struct {
	getenv   func(string) string
	logLevel string
}

func newRootCmd(getenv func(string) string) *cobra.Command {
	e := &env{getenv: getenv}

	root := &cobra.Command{
		Use:   "spec-elicitor",
		Short: "Turn feature ideas into specifications through a guided dialogue",
		Long: `spec-elicitor runs a short question-and-answer dialogue about a feature idea,
then identifies the stakeholders who must validate it and writes the final
specification document.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&e.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")

	root.AddCommand(
		newServeCmd(e),
		newTurnCmd(e),
		newTokenCmd(e),
	)
	return root
}

// load builds the logger and reads the configuration.
func (e *env) load() (*config.Config, *zap.Logger, error) {
	level := e.logLevel
	if level == "" {
		level = e.getenv("LOG_LEVEL")
	}
	logger, err := logging.New(level)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(e.getenv, logger)
	if err != nil {
		logger.Sync()
		return nil, nil, err
	}
	return cfg, logger, nil
}

// newGenerator builds the configured backend behind a per-call timeout.
func newGenerator(ctx context.Context, cfg config.GeneratorConfig, logger *zap.Logger) (generation.Generator, error) {
	var inner generation.Generator
	switch cfg.Provider {
	case config.ProviderGemini:
		client, err := generation.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
		if err != nil {
			return nil, err
		}
		inner = client
	case config.ProviderAnthropic:
		inner = generation.NewAnthropicClient(generation.AnthropicConfig{
			APIKey:  cfg.AnthropicAPIKey,
			BaseURL: cfg.AnthropicBaseURL,
			Model:   cfg.AnthropicModel,
			Timeout: cfg.Timeout,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown generator provider %q", cfg.Provider)
	}

	logger.Info("Text generator configured", zap.String("provider", cfg.Provider))
	return generation.NewBounded(inner, cfg.Timeout, logger), nil
}

// newService wires the dialogue stack on top of the configured generator and
// archive. The caller closes the returned archive.
func newService(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*orchestration.Service, archive.Archive, error) {
	generator, err := newGenerator(ctx, cfg.Generator, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to configure generator: %w", err)
	}

	store, err := archive.Open(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, nil, err
	}

	dialogueMetrics, err := metrics.NewDialogueMetrics()
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	prompts := generation.NewPrompts(cfg.OrgName)
	controller := dialogue.NewController(generator, prompts, finalization.NewAssembler(generator, prompts), logger)
	return orchestration.NewService(controller, store, dialogueMetrics, logger), store, nil
}
