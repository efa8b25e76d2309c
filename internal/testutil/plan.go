// Package testutil provides fixtures and fakes shared by the package tests.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/PabloGalante/mandalart-agent/internal/domain"
)

// SampleDocument returns a valid 8x8 document with ids sg-1..sg-8.
// Titles and actions embed their indices so layout tests can check placement.
func SampleDocument(mainGoal string) *domain.PlanDocument {
	doc := &domain.PlanDocument{MainGoal: mainGoal}
	for i := 0; i < domain.SubGoalCount; i++ {
		sg := domain.SubGoal{
			ID:    fmt.Sprintf("sg-%d", i+1),
			Title: fmt.Sprintf("중간목표 %d", i),
		}
		for j := 0; j < domain.ActionCount; j++ {
			sg.Actions = append(sg.Actions, fmt.Sprintf("목표%d 행동%d", i, j))
		}
		doc.SubGoals = append(doc.SubGoals, sg)
	}
	return doc
}

// MustJSON marshals v or fails the test.
func MustJSON(t testing.TB, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

// Reply is one scripted answer of a ScriptedLLM.
type Reply struct {
	Text string
	Err  error
}

// ScriptedLLM is a domain.LLMClient that answers from a queue and records
// every prompt it receives. Block, when set, is waited on before answering.
type ScriptedLLM struct {
	mu      sync.Mutex
	replies []Reply
	prompts []domain.Prompt

	Block chan struct{}
	// Started receives a value each time a call begins, if non-nil.
	Started chan struct{}
}

// NewScriptedLLM queues the given replies in order.
func NewScriptedLLM(replies ...Reply) *ScriptedLLM {
	return &ScriptedLLM{replies: replies}
}

// Push appends another reply to the queue.
func (s *ScriptedLLM) Push(r Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, r)
}

func (s *ScriptedLLM) GenerateJSON(ctx context.Context, prompt domain.Prompt) (string, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()

	if s.Started != nil {
		s.Started <- struct{}{}
	}
	if s.Block != nil {
		select {
		case <-s.Block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.replies) == 0 {
		return "", fmt.Errorf("scripted llm: no reply queued")
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r.Text, r.Err
}

// Prompts returns a copy of the prompts received so far.
func (s *ScriptedLLM) Prompts() []domain.Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Prompt, len(s.prompts))
	copy(out, s.prompts)
	return out
}
