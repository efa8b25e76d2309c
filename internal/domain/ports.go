package domain

import "context"

// Prompt is everything a generation request carries: the fixed instruction
// document, the per-call content and the schema the answer must follow.
type Prompt struct {
	System string
	User   string
	Schema *Schema
}

// LLMClient defines how the core application talks to the generation model.
// It returns the raw JSON text of the answer; decoding happens in the core.
type LLMClient interface {
	GenerateJSON(ctx context.Context, prompt Prompt) (string, error)
}

// BoardStore persists board state between requests.
type BoardStore interface {
	SaveBoard(ctx context.Context, board *BoardRecord) error
	GetBoard(ctx context.Context, id BoardID) (*BoardRecord, error)
	ListBoards(ctx context.Context, limit int) ([]*BoardRecord, error)
	DeleteBoard(ctx context.Context, id BoardID) error
}
