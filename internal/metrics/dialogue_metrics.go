package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("dialogue-metrics")

// DialogueMetrics provides metrics collection for elicitation dialogues
type DialogueMetrics struct {
	dialoguesStartedCounter   metric.Int64Counter
	dialoguesCompletedCounter metric.Int64Counter
	turnsCounter              metric.Int64Counter
	turnsFailedCounter        metric.Int64Counter
	fallbacksCounter          metric.Int64Counter
	turnDurationHistogram     metric.Float64Histogram
}

// NewDialogueMetrics creates a new dialogue metrics collector
func NewDialogueMetrics() (*DialogueMetrics, error) {
	dialoguesStartedCounter, err := meter.Int64Counter(
		"spec_elicitor.dialogues.started",
		metric.WithDescription("Total number of dialogues started"),
		metric.WithUnit("{dialogue}"),
	)
	if err != nil {
		return nil, err
	}

	dialoguesCompletedCounter, err := meter.Int64Counter(
		"spec_elicitor.dialogues.completed",
		metric.WithDescription("Total number of dialogues completed, by completion reason"),
		metric.WithUnit("{dialogue}"),
	)
	if err != nil {
		return nil, err
	}

	turnsCounter, err := meter.Int64Counter(
		"spec_elicitor.turns.processed",
		metric.WithDescription("Total number of dialogue turns processed successfully"),
		metric.WithUnit("{turn}"),
	)
	if err != nil {
		return nil, err
	}

	turnsFailedCounter, err := meter.Int64Counter(
		"spec_elicitor.turns.failed",
		metric.WithDescription("Total number of dialogue turns that failed"),
		metric.WithUnit("{turn}"),
	)
	if err != nil {
		return nil, err
	}

	fallbacksCounter, err := meter.Int64Counter(
		"spec_elicitor.finalization.fallbacks",
		metric.WithDescription("Total number of finalization steps served by a local fallback"),
		metric.WithUnit("{fallback}"),
	)
	if err != nil {
		return nil, err
	}

	turnDurationHistogram, err := meter.Float64Histogram(
		"spec_elicitor.turn.duration",
		metric.WithDescription("Duration of dialogue turn processing in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &DialogueMetrics{
		dialoguesStartedCounter:   dialoguesStartedCounter,
		dialoguesCompletedCounter: dialoguesCompletedCounter,
		turnsCounter:              turnsCounter,
		turnsFailedCounter:        turnsFailedCounter,
		fallbacksCounter:          fallbacksCounter,
		turnDurationHistogram:     turnDurationHistogram,
	}, nil
}

// RecordDialogueStarted records a new dialogue
func (dm *DialogueMetrics) RecordDialogueStarted(ctx context.Context, createdBy string) {
	dm.dialoguesStartedCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("dialogue.created_by", createdBy),
		),
	)
}

// RecordTurn records a successfully processed turn
func (dm *DialogueMetrics) RecordTurn(ctx context.Context, status string, duration time.Duration) {
	dm.turnsCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("status", status),
		),
	)
	dm.turnDurationHistogram.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("status", status),
		),
	)
}

// RecordTurnFailed records a turn that ended with an error
func (dm *DialogueMetrics) RecordTurnFailed(ctx context.Context, errorType string, duration time.Duration) {
	dm.turnsFailedCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("status", "failed"),
			attribute.String("error.type", errorType),
		),
	)
	dm.turnDurationHistogram.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("status", "failed"),
		),
	)
}

// RecordDialogueCompleted records a completed dialogue and the fallbacks it needed
func (dm *DialogueMetrics) RecordDialogueCompleted(ctx context.Context, reason string, questions int, stakeholdersInferred, documentFallback bool) {
	dm.dialoguesCompletedCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("completion.reason", reason),
			attribute.Int("dialogue.questions", questions),
		),
	)
	if stakeholdersInferred {
		dm.fallbacksCounter.Add(ctx, 1,
			metric.WithAttributes(attribute.String("fallback.stage", "stakeholders")),
		)
	}
	if documentFallback {
		dm.fallbacksCounter.Add(ctx, 1,
			metric.WithAttributes(attribute.String("fallback.stage", "document")),
		)
	}
}
