package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/bizmatters/agent-builder/spec-elicitor/internal/finalization"
	"github.com/bizmatters/agent-builder/spec-elicitor/internal/generation"
	"github.com/bizmatters/agent-builder/spec-elicitor/internal/models"
)

const (
	minAnswerLength = 5
	minIdeaLength   = 10

	defaultTitle   = "Nova Feature"
	defaultCreator = "unknown"

	// openingQuestion replaces a first question the generator failed to phrase.
	openingQuestion = "Como esta feature beneficia nossos clientes?"
)

// complaintPhrases mark an answer in which the user says the question was
// already asked.
var complaintPhrases = []string{
	"já fez essa pergunta",
	"vc já fez",
	"você já perguntou",
	"pergunta repetida",
}

func isComplaint(answer string) bool {
	lower := strings.ToLower(answer)
	for _, phrase := range complaintPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

var errEmptyQuestion = errors.New("generator returned an empty question")

// CompletionReason records why a dialogue ended.
type CompletionReason string

const (
	ReasonQuestionLimit          CompletionReason = "question_limit"
	ReasonGeneratorSignalled     CompletionReason = "generator_signalled"
	ReasonRepetitionDetected     CompletionReason = "repetition_detected"
	ReasonUserReportedRepetition CompletionReason = "user_reported_repetition"
)

// State is the dialogue state owned by the caller between turns.
type State struct {
	SpecID      string
	Title       string
	InitialIdea string
	History     models.History
}

// TurnCount is the number of answered questions.
func (s State) TurnCount() int { return s.History.Len() }

// Opening is the result of starting a dialogue.
type Opening struct {
	State         State
	CreatedBy     string
	FirstQuestion string
	CreatedAt     time.Time
}

// Completion is the terminal artifact of a dialogue.
type Completion struct {
	Record models.SpecificationRecord
	Reason CompletionReason
	finalization.Result
}

// Outcome is the result of one turn: either the next question or a
// completion, never both.
type Outcome struct {
	State          State
	Status         string
	NextQuestion   string
	QuestionNumber int
	Progress       models.Progress
	Completion     *Completion
}

// Completed reports whether the turn ended the dialogue.
func (o Outcome) Completed() bool { return o.Completion != nil }

// Finalizer turns a completed record into stakeholders and a document.
type Finalizer interface {
	Finalize(ctx context.Context, logger *zap.Logger, record models.SpecificationRecord) (finalization.Result, error)
}

// Controller runs dialogue turns. It holds collaborators only; every call
// receives the full dialogue state and returns a new one.
type Controller struct {
	generator generation.Generator
	prompts   generation.Prompts
	finalizer Finalizer
	logger    *zap.Logger
	tracer    trace.Tracer

	now   func() time.Time
	newID func() string
}

// NewController creates a controller.
func NewController(generator generation.Generator, prompts generation.Prompts, finalizer Finalizer, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		generator: generator,
		prompts:   prompts,
		finalizer: finalizer,
		logger:    logger,
		tracer:    otel.Tracer("spec-elicitor/dialogue"),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     func() string { return uuid.New().String() },
	}
}

// Start opens a dialogue for idea and asks the first, business-focused question.
func (c *Controller) Start(ctx context.Context, idea, title, createdBy string) (Opening, error) {
	idea = strings.TrimSpace(idea)
	if utf8.RuneCountInString(idea) < minIdeaLength {
		return Opening{}, &ValidationError{
			Field:   "idea",
			Message: fmt.Sprintf("must be at least %d characters", minIdeaLength),
		}
	}
	if title = strings.TrimSpace(title); title == "" {
		title = defaultTitle
	}
	if createdBy = strings.TrimSpace(createdBy); createdBy == "" {
		createdBy = defaultCreator
	}

	state := State{SpecID: c.newID(), Title: title, InitialIdea: idea}
	logger := c.logger.With(zap.String("spec_id", state.SpecID))

	ctx, span := c.tracer.Start(ctx, "dialogue.start", trace.WithAttributes(
		attribute.String("spec.id", state.SpecID),
	))
	defer span.End()

	decision := Plan(NewCategorySet(), 0)
	text, err := c.generator.Generate(ctx, c.prompts.Question(idea, decision.Hint, state.History), generation.QuestionMaxTokens)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error("Failed to generate first question", zap.Error(err))
		return Opening{}, &GenerationError{Stage: "first_question", Err: err}
	}

	question := strings.TrimSpace(text)
	if question == "" || generation.IsCompletionSignal(question) {
		logger.Warn("Generator gave no usable first question, using default opener",
			zap.String("response", question))
		question = openingQuestion
	}

	logger.Info("Dialogue started",
		zap.String("title", title),
		zap.String("created_by", createdBy))

	return Opening{
		State:         state,
		CreatedBy:     createdBy,
		FirstQuestion: question,
		CreatedAt:     c.now(),
	}, nil
}

func validateTurn(req models.AnswerRequest) error {
	if strings.TrimSpace(req.SpecID) == "" {
		return &ValidationError{Field: "spec_id", Message: "is required"}
	}
	if strings.TrimSpace(req.CurrentQuestion) == "" {
		return &ValidationError{Field: "current_question", Message: "is required"}
	}
	if utf8.RuneCountInString(strings.TrimSpace(req.Answer)) < minAnswerLength {
		return &ValidationError{
			Field:   "answer",
			Message: fmt.Sprintf("must be at least %d characters", minAnswerLength),
		}
	}
	return nil
}

// ProcessTurn records the answer to the current question and decides what
// happens next. On error the caller's state is untouched and the turn can be
// retried as-is.
func (c *Controller) ProcessTurn(ctx context.Context, req models.AnswerRequest) (Outcome, error) {
	if err := validateTurn(req); err != nil {
		return Outcome{}, err
	}

	state := State{
		SpecID:      strings.TrimSpace(req.SpecID),
		Title:       strings.TrimSpace(req.Title),
		InitialIdea: strings.TrimSpace(req.InitialIdea),
		History:     req.PreviousAnswers.Clone(),
	}
	if state.Title == "" {
		state.Title = defaultTitle
	}
	question := strings.TrimSpace(req.CurrentQuestion)
	answer := strings.TrimSpace(req.Answer)

	logger := c.logger.With(zap.String("spec_id", state.SpecID))
	ctx, span := c.tracer.Start(ctx, "dialogue.process_turn", trace.WithAttributes(
		attribute.String("spec.id", state.SpecID),
		attribute.Int("dialogue.previous_turns", state.TurnCount()),
	))
	defer span.End()

	outcome, err := c.processTurn(ctx, logger, state, question, answer)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Outcome{}, err
	}
	span.SetAttributes(attribute.String("dialogue.status", outcome.Status))
	return outcome, nil
}

func (c *Controller) processTurn(ctx context.Context, logger *zap.Logger, state State, question, answer string) (Outcome, error) {
	history := state.History.Upsert(question, answer)

	machine, err := newTurnMachine(state.TurnCount(), history.Len())
	if err != nil {
		return Outcome{}, err
	}

	if isComplaint(answer) {
		logger.Info("User reported a repeated question, completing dialogue")
		return c.complete(ctx, logger, machine, state, ReasonUserReportedRepetition)
	}

	if err := machine.Fire(EventAnswer); err != nil {
		return Outcome{}, err
	}
	state.History = history

	coverage := Coverage(history)
	decision := Plan(coverage, history.Len())
	logger.Debug("Planned next turn",
		zap.Int("turn_count", history.Len()),
		zap.Bool("complete", decision.Complete),
		zap.String("focus", string(decision.Focus)),
		zap.Any("coverage", coverage.Sorted()))

	if decision.Complete {
		return c.complete(ctx, logger, machine, state, ReasonQuestionLimit)
	}

	text, err := c.generator.Generate(ctx, c.prompts.Question(state.InitialIdea, decision.Hint, history), generation.QuestionMaxTokens)
	if err != nil {
		logger.Error("Failed to generate next question", zap.Error(err))
		return Outcome{}, &GenerationError{Stage: "next_question", Err: err}
	}

	next := strings.TrimSpace(text)
	switch {
	case generation.IsCompletionSignal(next):
		logger.Info("Generator signalled the specification is complete")
		return c.complete(ctx, logger, machine, state, ReasonGeneratorSignalled)
	case next == "":
		logger.Error("Generator returned an empty question")
		return Outcome{}, &GenerationError{Stage: "next_question", Err: errEmptyQuestion}
	case IsRepetitive(next, history.Questions()):
		logger.Warn("Generated question repeats an earlier one, completing dialogue",
			zap.String("question", next))
		return c.complete(ctx, logger, machine, state, ReasonRepetitionDetected)
	}

	if err := machine.Fire(EventAsk); err != nil {
		return Outcome{}, err
	}

	n := history.Len()
	return Outcome{
		State:          state,
		Status:         machine.Current(),
		NextQuestion:   next,
		QuestionNumber: n + 1,
		Progress:       progressAt(n),
	}, nil
}

func (c *Controller) complete(ctx context.Context, logger *zap.Logger, machine *turnMachine, state State, reason CompletionReason) (Outcome, error) {
	if err := machine.Fire(EventComplete); err != nil {
		return Outcome{}, err
	}

	record := models.NewSpecificationRecord(state.SpecID, state.Title, state.InitialIdea, state.History, c.now())
	result, err := c.finalizer.Finalize(ctx, logger, record)
	if err != nil {
		logger.Error("Finalization failed", zap.Error(err))
		return Outcome{}, &GenerationError{Stage: "finalization", Err: err}
	}

	logger.Info("Dialogue completed",
		zap.String("reason", string(reason)),
		zap.Int("total_questions", record.History.Len()),
		zap.Int("stakeholders", len(result.Stakeholders)),
		zap.Bool("stakeholders_inferred", result.StakeholdersInferred),
		zap.Bool("document_fallback", result.DocumentFallback))

	return Outcome{
		State:          state,
		Status:         machine.Current(),
		QuestionNumber: record.History.Len(),
		Completion: &Completion{
			Record: record,
			Reason: reason,
			Result: result,
		},
	}, nil
}

// progressAt estimates progress after n answers. It stays below 100 until
// the dialogue actually completes.
func progressAt(n int) models.Progress {
	total := max(MaxQuestions, n+1)
	return models.Progress{
		Current:        n,
		EstimatedTotal: total,
		Percentage:     min(100*n/total, 95),
	}
}
