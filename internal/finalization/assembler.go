// Package finalization turns a completed dialogue into its deliverables: the
// stakeholders that must approve it and the specification document. Generator
// trouble is absorbed here with deterministic fallbacks.
package finalization

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bizmatters/agent-builder/spec-elicitor/internal/generation"
	"github.com/bizmatters/agent-builder/spec-elicitor/internal/models"
)

// Result is the outcome of finalizing a specification.
type Result struct {
	Stakeholders []models.Stakeholder
	Document     string

	// StakeholdersInferred is set when the rule-based fallback produced the list.
	StakeholdersInferred bool
	// DocumentFallback is set when the document was rendered locally.
	DocumentFallback bool
}

// Assembler orchestrates stakeholder identification and document generation.
type Assembler struct {
	generator generation.Generator
	prompts   generation.Prompts
}

// NewAssembler creates an assembler backed by generator.
func NewAssembler(generator generation.Generator, prompts generation.Prompts) *Assembler {
	return &Assembler{generator: generator, prompts: prompts}
}

// Finalize identifies stakeholders, then writes the document. Generator
// failures and unparseable output fall back to local rules; only a cancelled
// or expired ctx is returned as an error.
func (a *Assembler) Finalize(ctx context.Context, logger *zap.Logger, record models.SpecificationRecord) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	stakeholders, inferred, err := a.identifyStakeholders(ctx, logger, record)
	if err != nil {
		return Result{}, err
	}

	document, fallback, err := a.generateDocument(ctx, logger, record, stakeholders)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Stakeholders:         stakeholders,
		Document:             document,
		StakeholdersInferred: inferred,
		DocumentFallback:     fallback,
	}, nil
}

func (a *Assembler) identifyStakeholders(ctx context.Context, logger *zap.Logger, record models.SpecificationRecord) ([]models.Stakeholder, bool, error) {
	logger.Info("Identifying stakeholders")

	text, err := a.generator.Generate(ctx, a.prompts.Stakeholders(record), generation.StakeholderMaxTokens)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, false, fmt.Errorf("stakeholder identification aborted: %w", ctxErr)
		}
		logger.Warn("Stakeholder generation failed, inferring from answers", zap.Error(err))
		return FallbackStakeholders(record), true, nil
	}

	kept, rejected, err := parseStakeholders(text)
	if err != nil {
		logger.Warn("Stakeholder response unparseable, inferring from answers", zap.Error(err))
		return FallbackStakeholders(record), true, nil
	}
	for _, r := range rejected {
		logger.Warn("Dropped invalid stakeholder entry",
			zap.String("entry", r.Raw),
			zap.String("reason", r.Reason))
	}
	if len(kept) == 0 {
		logger.Warn("No valid stakeholders in response, inferring from answers",
			zap.Int("rejected", len(rejected)))
		return FallbackStakeholders(record), true, nil
	}

	areas := make([]string, len(kept))
	for i, s := range kept {
		areas[i] = string(s.Area)
	}
	logger.Info("Stakeholders identified", zap.Strings("areas", areas))
	return kept, false, nil
}

func (a *Assembler) generateDocument(ctx context.Context, logger *zap.Logger, record models.SpecificationRecord, stakeholders []models.Stakeholder) (string, bool, error) {
	logger.Info("Generating final document")

	text, err := a.generator.Generate(ctx, a.prompts.Document(record), generation.DocumentMaxTokens)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", false, fmt.Errorf("document generation aborted: %w", ctxErr)
		}
		logger.Warn("Document generation failed, rendering locally", zap.Error(err))
		return FallbackDocument(record, stakeholders), true, nil
	}

	document := strings.TrimSpace(text)
	if document == "" {
		logger.Warn("Document generation returned nothing, rendering locally")
		return FallbackDocument(record, stakeholders), true, nil
	}
	return document, false, nil
}
