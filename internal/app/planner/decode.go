package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PabloGalante/mandalart-agent/internal/domain"
)

// DecodePlan parses the collaborator's answer and checks every structural
// invariant. Any failure is a *domain.MalformedResponseError.
func DecodePlan(text string) (*domain.PlanDocument, error) {
	body := stripCodeFence(text)
	if body == "" {
		return nil, &domain.MalformedResponseError{Reason: "empty response"}
	}

	var raw struct {
		MainGoal *string `json:"mainGoal"`
		SubGoals []struct {
			ID      *string  `json:"id"`
			Title   *string  `json:"title"`
			Actions []string `json:"actions"`
		} `json:"subGoals"`
	}
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, &domain.MalformedResponseError{Reason: "not a JSON object", Err: err}
	}

	var missing []string
	if raw.MainGoal == nil {
		missing = append(missing, "mainGoal")
	}
	if raw.SubGoals == nil {
		missing = append(missing, "subGoals")
	}

	doc := &domain.PlanDocument{SubGoals: make([]domain.SubGoal, 0, len(raw.SubGoals))}
	if raw.MainGoal != nil {
		doc.MainGoal = *raw.MainGoal
	}
	for i, sg := range raw.SubGoals {
		if sg.ID == nil {
			missing = append(missing, fmt.Sprintf("subGoals[%d].id", i))
		}
		if sg.Title == nil {
			missing = append(missing, fmt.Sprintf("subGoals[%d].title", i))
		}
		if sg.Actions == nil {
			missing = append(missing, fmt.Sprintf("subGoals[%d].actions", i))
		}
		out := domain.SubGoal{Actions: sg.Actions}
		if sg.ID != nil {
			out.ID = *sg.ID
		}
		if sg.Title != nil {
			out.Title = *sg.Title
		}
		doc.SubGoals = append(doc.SubGoals, out)
	}
	if len(missing) > 0 {
		return nil, &domain.MalformedResponseError{
			Reason: "missing required fields: " + strings.Join(missing, ", "),
		}
	}

	if err := doc.Validate(); err != nil {
		return nil, &domain.MalformedResponseError{Reason: "document violates the plan contract", Err: err}
	}
	return doc, nil
}

// stripCodeFence removes a ```json fence some models add despite the
// instructions.
func stripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = ""
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// VerifyRegeneration checks that after differs from before only in the
// title and actions of the target sub-goal. Both documents must already be
// structurally valid.
func VerifyRegeneration(before, after *domain.PlanDocument, targetID string) error {
	idx := before.SubGoalIndex(targetID)
	if idx < 0 {
		return fmt.Errorf("%w: %q", domain.ErrSubGoalNotFound, targetID)
	}

	var violations []string
	if after.MainGoal != before.MainGoal {
		violations = append(violations, "mainGoal changed")
	}
	if len(after.SubGoals) != len(before.SubGoals) {
		violations = append(violations, fmt.Sprintf("sub-goal count changed from %d to %d", len(before.SubGoals), len(after.SubGoals)))
		return &domain.IntegrityError{TargetID: targetID, Violations: violations}
	}

	for i := range before.SubGoals {
		b, a := before.SubGoals[i], after.SubGoals[i]
		if i == idx {
			if a.ID != b.ID {
				violations = append(violations, fmt.Sprintf("target id changed to %q", a.ID))
			}
			if a.SameContent(b) {
				violations = append(violations, "target sub-goal was not changed")
			}
			continue
		}
		if !a.Equal(b) {
			violations = append(violations, fmt.Sprintf("subGoals[%d] (%s) changed", i, b.ID))
		}
	}

	if len(violations) > 0 {
		return &domain.IntegrityError{TargetID: targetID, Violations: violations}
	}
	return nil
}
