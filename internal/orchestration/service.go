package orchestration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bizmatters/agent-builder/spec-elicitor/internal/archive"
	"github.com/bizmatters/agent-builder/spec-elicitor/internal/dialogue"
	"github.com/bizmatters/agent-builder/spec-elicitor/internal/metrics"
	"github.com/bizmatters/agent-builder/spec-elicitor/internal/models"
)

// ErrInvalidCredentials is returned when a login does not match a user.
var ErrInvalidCredentials = errors.New("invalid email or password")

// TurnResult is the response to one answered question. Exactly one of
// InProgress and Completed is set.
type TurnResult struct {
	InProgress *models.InProgressResponse
	Completed  *models.CompletedResponse
}

// Status returns the dialogue status after the turn.
func (r TurnResult) Status() string {
	if r.Completed != nil {
		return models.StatusCompleted
	}
	return models.StatusInProgress
}

// Body returns the response envelope to send to the caller.
func (r TurnResult) Body() interface{} {
	if r.Completed != nil {
		return r.Completed
	}
	return r.InProgress
}

// Service handles the specification use cases on top of the dialogue controller
type Service struct {
	controller *dialogue.Controller
	archive    archive.Archive
	metrics    *metrics.DialogueMetrics
	logger     *zap.Logger
}

// NewService creates a new orchestration service. A nil archive disables
// archiving; nil metrics disables metrics.
func NewService(controller *dialogue.Controller, store archive.Archive, dialogueMetrics *metrics.DialogueMetrics, logger *zap.Logger) *Service {
	if store == nil {
		store = archive.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		controller: controller,
		archive:    store,
		metrics:    dialogueMetrics,
		logger:     logger,
	}
}

// StartSpecification opens a dialogue and returns its first question.
func (s *Service) StartSpecification(ctx context.Context, req models.StartRequest) (*models.StartResponse, error) {
	start := time.Now()

	opening, err := s.controller.Start(ctx, req.Idea, req.Title, req.CreatedBy)
	if err != nil {
		s.recordFailure(ctx, err, time.Since(start))
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordDialogueStarted(ctx, opening.CreatedBy)
		s.metrics.RecordTurn(ctx, models.StatusStarted, time.Since(start))
	}

	return &models.StartResponse{
		SpecID:         opening.State.SpecID,
		Title:          opening.State.Title,
		FirstQuestion:  opening.FirstQuestion,
		QuestionNumber: 1,
		Status:         models.StatusStarted,
		CreatedAt:      opening.CreatedAt.Format(time.RFC3339),
	}, nil
}

// ProcessAnswer runs one dialogue turn. Completed dialogues are archived;
// an archive failure is logged and does not fail the turn.
func (s *Service) ProcessAnswer(ctx context.Context, req models.AnswerRequest, userID string) (TurnResult, error) {
	start := time.Now()

	outcome, err := s.controller.ProcessTurn(ctx, req)
	if err != nil {
		s.recordFailure(ctx, err, time.Since(start))
		return TurnResult{}, err
	}

	if !outcome.Completed() {
		if s.metrics != nil {
			s.metrics.RecordTurn(ctx, outcome.Status, time.Since(start))
		}
		return TurnResult{InProgress: &models.InProgressResponse{
			SpecID:          outcome.State.SpecID,
			Status:          outcome.Status,
			NextQuestion:    outcome.NextQuestion,
			QuestionNumber:  outcome.QuestionNumber,
			PreviousAnswers: outcome.State.History,
			Progress:        outcome.Progress,
		}}, nil
	}

	completion := outcome.Completion
	record := completion.Record
	stakeholders := completion.Stakeholders
	if stakeholders == nil {
		stakeholders = []models.Stakeholder{}
	}

	archived := models.ArchivedSpecification{
		SpecificationRecord: record,
		Stakeholders:        stakeholders,
		FinalDocument:       completion.Document,
		CompletionReason:    string(completion.Reason),
		CreatedBy:           userID,
	}
	if err := s.archive.SaveSpecification(ctx, archived); err != nil {
		s.logger.Error("Failed to archive completed specification",
			zap.String("spec_id", record.SpecID),
			zap.Error(err))
	}

	if s.metrics != nil {
		s.metrics.RecordTurn(ctx, outcome.Status, time.Since(start))
		s.metrics.RecordDialogueCompleted(ctx, string(completion.Reason), record.History.Len(),
			completion.StakeholdersInferred, completion.DocumentFallback)
	}

	return TurnResult{Completed: &models.CompletedResponse{
		SpecID:           record.SpecID,
		Status:           outcome.Status,
		Stakeholders:     stakeholders,
		FinalDocument:    completion.Document,
		TotalQuestions:   record.History.Len(),
		AllAnswers:       record.History,
		CompletedAt:      record.CompletedAt.Format(time.RFC3339),
		CompletionReason: string(completion.Reason),
		Summary: models.Summary{
			Title:            record.Title,
			Idea:             record.InitialIdea,
			StakeholderCount: len(stakeholders),
			QuestionsCount:   record.History.Len(),
		},
	}}, nil
}

// GetSpecification returns an archived specification.
func (s *Service) GetSpecification(ctx context.Context, specID string) (*models.ArchivedSpecification, error) {
	spec, err := s.archive.GetSpecification(ctx, specID)
	if err != nil {
		return nil, fmt.Errorf("failed to get specification %s: %w", specID, err)
	}
	return spec, nil
}

// Authenticate checks a password against the archived user.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.archive.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, archive.ErrUserNotFound) {
			s.logger.Warn("User not found", zap.String("email", email))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		s.logger.Warn("Invalid password", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Ready reports whether the archive is reachable.
func (s *Service) Ready(ctx context.Context) error {
	return s.archive.Ping(ctx)
}

func (s *Service) recordFailure(ctx context.Context, err error, elapsed time.Duration) {
	if s.metrics != nil {
		s.metrics.RecordTurnFailed(ctx, ErrorType(err), elapsed)
	}
}

// ErrorType classifies err for metrics and logs.
func ErrorType(err error) string {
	var validationErr *dialogue.ValidationError
	var generationErr *dialogue.GenerationError
	switch {
	case errors.As(err, &validationErr):
		return "validation"
	case errors.As(err, &generationErr):
		return "generation"
	default:
		return "internal"
	}
}
