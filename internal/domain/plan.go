package domain

import (
	"fmt"
	"strings"
)

const (
	// SubGoalCount is the number of sub-goals around the main goal.
	SubGoalCount = 8
	// ActionCount is the number of actions under each sub-goal.
	ActionCount = 8
)

// PlanDocument is a full mandalart: one main goal, 8 sub-goals, 64 actions.
// Order of SubGoals maps to fixed grid positions and is never changed.
type PlanDocument struct {
	MainGoal string    `json:"mainGoal"`
	SubGoals []SubGoal `json:"subGoals"`
}

// SubGoal is one intermediate goal and its 8 actions.
type SubGoal struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Actions []string `json:"actions"`
}

// Validate checks the structural invariants of the document.
// It reports every violation it finds, not just the first one.
func (d *PlanDocument) Validate() error {
	if d == nil {
		return &ValidationError{Problems: []string{"document is missing"}}
	}

	var problems []string
	if strings.TrimSpace(d.MainGoal) == "" {
		problems = append(problems, "mainGoal is required")
	}
	if len(d.SubGoals) != SubGoalCount {
		problems = append(problems, fmt.Sprintf("subGoals must have %d entries, got %d", SubGoalCount, len(d.SubGoals)))
	}

	seen := make(map[string]int, len(d.SubGoals))
	for i, sg := range d.SubGoals {
		if strings.TrimSpace(sg.ID) == "" {
			problems = append(problems, fmt.Sprintf("subGoals[%d].id is required", i))
		} else if prev, dup := seen[sg.ID]; dup {
			problems = append(problems, fmt.Sprintf("subGoals[%d].id %q duplicates subGoals[%d]", i, sg.ID, prev))
		} else {
			seen[sg.ID] = i
		}
		if strings.TrimSpace(sg.Title) == "" {
			problems = append(problems, fmt.Sprintf("subGoals[%d].title is required", i))
		}
		if len(sg.Actions) != ActionCount {
			problems = append(problems, fmt.Sprintf("subGoals[%d].actions must have %d entries, got %d", i, ActionCount, len(sg.Actions)))
		}
		for j, a := range sg.Actions {
			if strings.TrimSpace(a) == "" {
				problems = append(problems, fmt.Sprintf("subGoals[%d].actions[%d] is empty", i, j))
			}
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Clone returns a deep copy, so callers can hand out snapshots safely.
func (d *PlanDocument) Clone() *PlanDocument {
	if d == nil {
		return nil
	}
	out := &PlanDocument{
		MainGoal: d.MainGoal,
		SubGoals: make([]SubGoal, len(d.SubGoals)),
	}
	for i, sg := range d.SubGoals {
		out.SubGoals[i] = sg.Clone()
	}
	return out
}

// SubGoalIndex returns the position of the sub-goal with the given id, or -1.
func (d *PlanDocument) SubGoalIndex(id string) int {
	if d == nil {
		return -1
	}
	for i, sg := range d.SubGoals {
		if sg.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the sub-goal.
func (s SubGoal) Clone() SubGoal {
	actions := make([]string, len(s.Actions))
	copy(actions, s.Actions)
	return SubGoal{ID: s.ID, Title: s.Title, Actions: actions}
}

// Equal reports whether two sub-goals are identical in id, title and actions.
func (s SubGoal) Equal(other SubGoal) bool {
	return s.ID == other.ID && s.SameContent(other)
}

// SameContent compares title and actions only.
func (s SubGoal) SameContent(other SubGoal) bool {
	if s.Title != other.Title || len(s.Actions) != len(other.Actions) {
		return false
	}
	for i := range s.Actions {
		if s.Actions[i] != other.Actions[i] {
			return false
		}
	}
	return true
}
