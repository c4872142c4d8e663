// Package generation talks to the external text generator used to phrase
// questions, pick stakeholders and write the final specification document.
package generation

import (
	"context"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/timeout"
	"go.uber.org/zap"
)

// Token budgets for the three prompt shapes.
const (
	QuestionMaxTokens    = 200
	StakeholderMaxTokens = 800
	DocumentMaxTokens    = 2000
)

// CompletionSentinel is what the generator answers instead of a question
// when it judges the specification complete.
const CompletionSentinel = "ESPECIFICACAO_COMPLETA"

// IsCompletionSignal reports whether a generated question is the sentinel.
func IsCompletionSignal(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), CompletionSentinel)
}

// Generator produces free text for a prompt. Implementations never retry:
// any failure is returned to the caller as-is.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// DefaultTimeout bounds a single generator call.
const DefaultTimeout = 60 * time.Second

// Bounded caps every call of the wrapped generator with a timeout.
type Bounded struct {
	inner  Generator
	limit  time.Duration
	logger *zap.Logger
}

// NewBounded wraps inner. A non-positive limit falls back to DefaultTimeout.
func NewBounded(inner Generator, limit time.Duration, logger *zap.Logger) *Bounded {
	if limit <= 0 {
		limit = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bounded{inner: inner, limit: limit, logger: logger}
}

// Generate runs the wrapped generator under the timeout.
func (b *Bounded) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	t := timeout.New[string](timeout.Config{
		DefaultTimeout: b.limit,
	})

	start := time.Now()
	text, err := t.Execute(ctx, b.limit, func(ctx context.Context) (string, error) {
		return b.inner.Generate(ctx, prompt, maxTokens)
	})
	if err != nil {
		b.logger.Warn("Generator call failed",
			zap.Int("max_tokens", maxTokens),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", err
	}

	b.logger.Debug("Generator call completed",
		zap.Int("max_tokens", maxTokens),
		zap.Int("response_len", len(text)),
		zap.Duration("elapsed", time.Since(start)))
	return text, nil
}
