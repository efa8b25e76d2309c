// Package planner speaks the generation protocol: it builds the requests for
// full generation and single-block regeneration, sends them to the LLM and
// accepts only answers that satisfy the plan contract.
package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PabloGalante/mandalart-agent/internal/domain"
	"github.com/PabloGalante/mandalart-agent/internal/observability"
)

type Service struct {
	llm domain.LLMClient
}

func NewService(llm domain.LLMClient) *Service {
	return &Service{llm: llm}
}

// Generate asks for a complete new plan for mainGoal.
func (s *Service) Generate(ctx context.Context, mainGoal string, focus domain.FocusArea) (*domain.PlanDocument, error) {
	if strings.TrimSpace(mainGoal) == "" {
		return nil, fmt.Errorf("%w: mainGoal is required", domain.ErrInvalidInput)
	}
	if !focus.Valid() {
		return nil, fmt.Errorf("%w: unknown focus area %q", domain.ErrInvalidInput, focus)
	}

	log := observability.LoggerFromContext(ctx).With("focus_area", focus)
	log.Info("generating plan")
	start := time.Now()

	text, err := s.call(ctx, "generate", BuildGeneratePrompt(mainGoal, focus))
	if err != nil {
		log.Error("generation request failed", "error", err)
		return nil, err
	}

	doc, err := DecodePlan(text)
	if err != nil {
		log.Error("generation response rejected", "error", err)
		return nil, err
	}

	// the user's wording of the main goal is kept verbatim
	if doc.MainGoal != mainGoal {
		log.Warn("model rewrote main goal, restoring input", "model_main_goal", doc.MainGoal)
		doc.MainGoal = mainGoal
	}

	log.Info("plan generated", "elapsed_ms", time.Since(start).Milliseconds())
	return doc, nil
}

// RegenerateOne rewrites the title and actions of the sub-goal targetID and
// returns the full new document. The input document is not modified.
func (s *Service) RegenerateOne(
	ctx context.Context,
	doc *domain.PlanDocument,
	focus domain.FocusArea,
	targetID string,
	feedback string,
) (*domain.PlanDocument, error) {
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if !focus.Valid() {
		return nil, fmt.Errorf("%w: unknown focus area %q", domain.ErrInvalidInput, focus)
	}
	if doc.SubGoalIndex(targetID) < 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrSubGoalNotFound, targetID)
	}

	log := observability.LoggerFromContext(ctx).With(
		"focus_area", focus,
		"target_id", targetID,
	)
	log.Info("regenerating sub-goal")
	start := time.Now()

	prompt, err := BuildRegeneratePrompt(doc, focus, targetID, feedback)
	if err != nil {
		return nil, err
	}

	text, err := s.call(ctx, "regenerate", prompt)
	if err != nil {
		log.Error("regeneration request failed", "error", err)
		return nil, err
	}

	next, err := DecodePlan(text)
	if err != nil {
		log.Error("regeneration response rejected", "error", err)
		return nil, err
	}

	if err := VerifyRegeneration(doc, next, targetID); err != nil {
		log.Error("regeneration integrity check failed", "error", err)
		return nil, err
	}

	log.Info("sub-goal regenerated", "elapsed_ms", time.Since(start).Milliseconds())
	return next, nil
}

func (s *Service) call(ctx context.Context, op string, prompt domain.Prompt) (string, error) {
	text, err := s.llm.GenerateJSON(ctx, prompt)
	if err != nil {
		var reqErr *domain.RequestError
		if errors.As(err, &reqErr) {
			return "", err
		}
		return "", &domain.RequestError{Op: op, Err: err}
	}
	return text, nil
}
