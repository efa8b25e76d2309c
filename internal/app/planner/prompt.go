package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PabloGalante/mandalart-agent/internal/domain"
)

// NoFeedback is sent when the user gave no feedback for a regeneration.
const NoFeedback = "없음"

const systemInstruction = `
너는 "AI 만다라트 플래너"의 실행계획 설계 코치다.
사용자의 목표를 만다라트(9x9) 구조로 펼치고, 모든 실행계획을
"캘린더에 바로 넣을 수 있는 한 문장" 수준으로 구체화한다.

[실행계획(action) 작성 규칙]
- 동사로 시작하는 한 문장으로 쓴다. 명사형/추상형 표현은 쓰지 않는다.
  - 나쁜 예: "꾸준히 하기", "브랜딩 강화", "건강 관리"
  - 좋은 예: "월/수/금 20:30 집 앞에서 15분 걷기"
- 가능하면 다음을 모두 담는다:
  1) 빈도/요일 또는 트리거(알람, 상황)
  2) 시간 또는 시간대
  3) 장소 또는 시작 지점
  4) 행동
  5) 소요시간(5~30분)
- 타이머를 켜고 5~10분 안에 시작할 수 있는 크기로 쪼갠다.
- 각 중간목표의 actions 8개 안에 아래를 섞어 넣는다(별도 필드 금지):
  - 환경 세팅 행동 1개 이상
  - If-Then 실행의도 2개 이상 (상황 → 자동 반응)
  - 계획이 깨졌을 때의 최소 버전(Plan B) 1개 이상

[문장 형식]
- 그리드 셀에 들어가도록 짧고 구체적으로 쓴다.
- 예: "만약 20:00 알람→운동복 갈아입기(2분)", "만약 비 오면→실내 제자리걷기 5분"
- 한국어로만 쓰고, 이모지와 특수문자를 남발하지 않는다.
- 줄바꿈 없이 한 문장으로 쓴다.

[구조]
- 중간목표(subGoals) 정확히 8개.
- 중간목표마다 actions 정확히 8개. 전체 64개.

[출력]
- JSON Schema를 그대로 따르는 JSON 객체 하나만 출력한다.
- 마크다운 코드펜스, 설명, 주석을 넣지 않는다.
- id는 "sg-1" ~ "sg-8"처럼 짧게 만들고 중복되지 않게 한다.
`

// SystemInstruction returns the fixed instruction document sent with every
// request.
func SystemInstruction() string {
	return strings.TrimSpace(systemInstruction)
}

// BuildGeneratePrompt builds the request for a full plan.
func BuildGeneratePrompt(mainGoal string, focus domain.FocusArea) domain.Prompt {
	var b strings.Builder
	b.WriteString("[입력]\n")
	fmt.Fprintf(&b, "- mainGoal: %s\n", promptValue(mainGoal))
	fmt.Fprintf(&b, "- focusArea: %s\n\n", focus)
	b.WriteString("[생성 지시]\n")
	b.WriteString("1) mainGoal 문구는 그대로 유지하고, 12주 실행을 기준으로 현실적인 빈도와 시간을 잡는다.\n")
	b.WriteString("2) subGoals 8개를 만든다. title은 12~18자 정도로 쓴다.\n")
	b.WriteString("3) subGoal마다 actions 8개를 만든다. 환경 세팅 1개, If-Then 2개, Plan B 1개를 반드시 포함한다.\n")
	b.WriteString("4) JSON Schema에 맞는 JSON만 출력한다.\n")

	return domain.Prompt{
		System: SystemInstruction(),
		User:   b.String(),
		Schema: domain.PlanSchema(),
	}
}

// BuildRegeneratePrompt builds the request that rewrites one sub-goal.
// The whole current document is embedded verbatim.
func BuildRegeneratePrompt(doc *domain.PlanDocument, focus domain.FocusArea, targetID, feedback string) (domain.Prompt, error) {
	existing, err := json.Marshal(doc)
	if err != nil {
		return domain.Prompt{}, fmt.Errorf("encoding existing document: %w", err)
	}

	feedback = promptValue(feedback)
	if feedback == "" {
		feedback = NoFeedback
	}

	var b strings.Builder
	b.WriteString("[입력 데이터(existing JSON)]\n")
	b.Write(existing)
	b.WriteString("\n\n[재생성 대상]\n")
	fmt.Fprintf(&b, "- targetSubGoalId: %s\n", promptValue(targetID))
	fmt.Fprintf(&b, "- focusArea: %s\n", focus)
	fmt.Fprintf(&b, "- userFeedback: %s\n\n", feedback)
	b.WriteString("[재생성 규칙]\n")
	b.WriteString("1) existing의 전체 구조와 순서를 유지한다.\n")
	b.WriteString("2) targetSubGoalId에 해당하는 subGoal 1개의 title과 actions만 새로 만든다.\n")
	b.WriteString("   - 그 subGoal의 id는 바꾸지 않는다.\n")
	b.WriteString("   - 나머지 subGoals는 id, title, actions, 순서까지 글자 하나 바꾸지 않는다.\n")
	b.WriteString("3) 새 actions는 기존보다 더 구체적으로, 캘린더에 바로 넣을 문장으로 쓴다.\n")
	b.WriteString("4) 전체 문서 JSON 하나를 출력한다.\n")

	return domain.Prompt{
		System: SystemInstruction(),
		User:   b.String(),
		Schema: domain.PlanSchema(),
	}, nil
}

// promptValue folds user text onto a single trimmed line so it cannot start
// a new "- key:" line or an embedded document.
func promptValue(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
