package board

import (
	"errors"

	"github.com/PabloGalante/mandalart-agent/internal/domain"
)

// Op names the user action an error message is for.
type Op string

const (
	OpGenerate   Op = "generate"
	OpRegenerate Op = "regenerate"
)

const (
	msgGenerateFailed   = "만다라트를 생성하는 중 오류가 발생했습니다. 다시 시도해 주세요."
	msgRegenerateFailed = "블록을 재생성하는 데 실패했습니다."
	msgBusy             = "이미 생성 중입니다. 잠시 후 다시 시도해 주세요."
	msgInvalidInput     = "입력값을 확인해 주세요."
	msgNoDocument       = "먼저 만다라트를 생성해 주세요."
	msgSubGoalNotFound  = "재생성할 중간목표를 찾을 수 없습니다."
)

// UserMessage turns an error into the message shown to the user.
// Request failures, malformed responses and integrity violations all read
// the same, per operation.
func UserMessage(op Op, err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrBusy):
		return msgBusy
	case errors.Is(err, domain.ErrNoDocument):
		return msgNoDocument
	case errors.Is(err, domain.ErrSubGoalNotFound):
		return msgSubGoalNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return msgInvalidInput
	case op == OpRegenerate:
		return msgRegenerateFailed
	default:
		return msgGenerateFailed
	}
}
