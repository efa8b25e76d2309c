package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PabloGalante/mandalart-agent/internal/domain"
)

// MockLLM answers offline with deterministic, contract-valid documents.
// It reads the inputs back out of the prompt text, so it follows the same
// protocol as a real model: full documents for generation, and for
// regeneration the existing document with only the target rewritten.
type MockLLM struct {
	// Fail, when set, is returned as a request failure by every call.
	Fail error
}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

var (
	mockThemes = []string{
		"기초 체력", "시간 관리", "핵심 역량", "환경 정리",
		"관계와 협업", "기록과 회고", "자원 확보", "동기 유지",
	}
	mockActions = []string{
		"매일 07:00 책상에서 %s 준비물 5분 세팅하기",
		"월/수/금 20:00 거실에서 %s 20분 실천하기",
		"만약 점심 식사 후면→%s 체크리스트 1줄 적기(2분)",
		"만약 20:00 알람이 울리면→%s 타이머 10분 켜기",
		"매주 화 21:00 노트에 %s 진행 상황 10분 정리하기",
		"매주 토 10:00 카페에서 %s 다음 주 계획 15분 세우기",
		"만약 일정이 밀리면→%s 최소 버전 5분만 하기",
		"매일 22:30 침대 옆에서 %s O/X 체크하기(1분)",
	}
	revisionSuffix = regexp.MustCompile(` \(v(\d+)\)$`)
)

func (m *MockLLM) GenerateJSON(ctx context.Context, prompt domain.Prompt) (string, error) {
	if m.Fail != nil {
		return "", &domain.RequestError{Op: "mock generate", Err: m.Fail}
	}
	if err := ctx.Err(); err != nil {
		return "", &domain.RequestError{Op: "mock generate", Err: err}
	}

	fields, existing := parsePrompt(prompt.User)

	var doc *domain.PlanDocument
	if existing != "" {
		var err error
		doc, err = m.regenerate(existing, fields["targetSubGoalId"])
		if err != nil {
			return "", &domain.RequestError{Op: "mock regenerate", Err: err}
		}
	} else {
		mainGoal := fields["mainGoal"]
		if mainGoal == "" {
			return "", &domain.RequestError{Op: "mock generate", Err: errors.New("prompt has no mainGoal")}
		}
		doc = m.generate(mainGoal)
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (m *MockLLM) generate(mainGoal string) *domain.PlanDocument {
	doc := &domain.PlanDocument{MainGoal: mainGoal}
	for i, theme := range mockThemes {
		doc.SubGoals = append(doc.SubGoals, domain.SubGoal{
			ID:      fmt.Sprintf("sg-%d", i+1),
			Title:   theme + " 다지기",
			Actions: mockActionsFor(theme),
		})
	}
	return doc
}

func (m *MockLLM) regenerate(existing, targetID string) (*domain.PlanDocument, error) {
	var doc domain.PlanDocument
	if err := json.Unmarshal([]byte(existing), &doc); err != nil {
		return nil, fmt.Errorf("decoding existing document: %w", err)
	}
	idx := doc.SubGoalIndex(targetID)
	if idx < 0 {
		return nil, fmt.Errorf("target %q not in document", targetID)
	}

	sg := &doc.SubGoals[idx]
	base, rev := splitRevision(sg.Title)
	sg.Title = fmt.Sprintf("%s (v%d)", base, rev+1)
	sg.Actions = mockActionsFor(sg.Title)
	return &doc, nil
}

func mockActionsFor(topic string) []string {
	out := make([]string, 0, len(mockActions))
	for _, tmpl := range mockActions {
		out = append(out, fmt.Sprintf(tmpl, topic))
	}
	return out
}

func splitRevision(title string) (string, int) {
	m := revisionSuffix.FindStringSubmatch(title)
	if m == nil {
		return title, 1
	}
	n, _ := strconv.Atoi(m[1])
	return strings.TrimSuffix(title, m[0]), n
}

// parsePrompt extracts "- key: value" lines and the embedded JSON document.
func parsePrompt(user string) (map[string]string, string) {
	fields := map[string]string{}
	existing := ""
	for _, line := range strings.Split(user, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "{") && existing == "":
			existing = trimmed
		case strings.HasPrefix(trimmed, "- "):
			key, value, ok := strings.Cut(strings.TrimPrefix(trimmed, "- "), ":")
			if ok {
				fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
			}
		}
	}
	return fields, existing
}
