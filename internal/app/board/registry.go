package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/mandalart-agent/internal/domain"
	"github.com/PabloGalante/mandalart-agent/internal/observability"
)

// Registry keeps one Controller per board and rehydrates boards from the
// store on first access.
type Registry struct {
	planner Planner
	store   domain.BoardStore
	now     func() time.Time

	mu     sync.Mutex
	boards map[domain.BoardID]*Controller
}

func NewRegistry(planner Planner, store domain.BoardStore) *Registry {
	return &Registry{
		planner: planner,
		store:   store,
		now:     time.Now,
		boards:  make(map[domain.BoardID]*Controller),
	}
}

// Create starts a new empty board.
func (r *Registry) Create(ctx context.Context) (*Controller, error) {
	id := domain.BoardID(uuid.NewString())
	c := NewController(id, r.planner, r.store)
	c.now = r.now

	state := c.Snapshot()
	rec := &domain.BoardRecord{
		ID:          id,
		FocusArea:   state.FocusArea,
		CreatedAt:   state.CreatedAt,
		LastUpdated: state.LastUpdated,
	}
	if err := r.store.SaveBoard(ctx, rec); err != nil {
		return nil, fmt.Errorf("saving new board: %w", err)
	}

	r.mu.Lock()
	r.boards[id] = c
	r.mu.Unlock()

	observability.LoggerFromContext(ctx).Info("board created", "board_id", id)
	return c, nil
}

// Get returns the controller for id, loading it from the store if needed.
// A stored document that violates the plan contract is not loaded.
func (r *Registry) Get(ctx context.Context, id domain.BoardID) (*Controller, error) {
	r.mu.Lock()
	c, ok := r.boards[id]
	r.mu.Unlock()
	if ok {
		return c, nil
	}

	rec, err := r.store.GetBoard(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Document != nil {
		if err := rec.Document.Validate(); err != nil {
			observability.LoggerFromContext(ctx).Error("stored board is invalid", "board_id", id, "error", err)
			return nil, fmt.Errorf("loading board %s: %w", id, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// another caller may have loaded it meanwhile
	if c, ok := r.boards[id]; ok {
		return c, nil
	}
	c = restoreController(rec, r.planner, r.store, r.now)
	r.boards[id] = c
	return c, nil
}

// List returns snapshots of the most recently updated boards.
func (r *Registry) List(ctx context.Context, limit int) ([]State, error) {
	recs, err := r.store.ListBoards(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]State, 0, len(recs))
	for _, rec := range recs {
		r.mu.Lock()
		c, ok := r.boards[rec.ID]
		r.mu.Unlock()
		if ok {
			out = append(out, c.Snapshot())
			continue
		}
		out = append(out, State{
			BoardID:     rec.ID,
			Document:    rec.Document,
			FocusArea:   rec.FocusArea,
			CreatedAt:   rec.CreatedAt,
			LastUpdated: rec.LastUpdated,
		})
	}
	return out, nil
}

// Delete forgets a board. In-flight requests on it finish but are not saved
// back under a new record.
func (r *Registry) Delete(ctx context.Context, id domain.BoardID) error {
	r.mu.Lock()
	c, cached := r.boards[id]
	delete(r.boards, id)
	r.mu.Unlock()

	if cached {
		c.detach()
	}

	err := r.store.DeleteBoard(ctx, id)
	if err != nil && !(cached && errors.Is(err, domain.ErrBoardNotFound)) {
		return err
	}
	observability.LoggerFromContext(ctx).Info("board deleted", "board_id", id)
	return nil
}
