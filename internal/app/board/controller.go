// Package board owns the application state: the current plan document of a
// board, its loading and error flags, and the rules for replacing it.
package board

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/PabloGalante/mandalart-agent/internal/domain"
	"github.com/PabloGalante/mandalart-agent/internal/grid"
	"github.com/PabloGalante/mandalart-agent/internal/observability"
)

// ErrDiscarded is returned when the board was reset while a request was in
// flight; the late result is dropped instead of applied.
var ErrDiscarded = errors.New("result discarded: board was reset during the request")

// Planner is the generation protocol the controller drives.
type Planner interface {
	Generate(ctx context.Context, mainGoal string, focus domain.FocusArea) (*domain.PlanDocument, error)
	RegenerateOne(ctx context.Context, doc *domain.PlanDocument, focus domain.FocusArea, targetID, feedback string) (*domain.PlanDocument, error)
}

// State is a snapshot of one board.
type State struct {
	BoardID      domain.BoardID
	Document     *domain.PlanDocument
	FocusArea    domain.FocusArea
	Loading      bool
	Regenerating bool
	Error        string
	CreatedAt    time.Time
	LastUpdated  time.Time
}

// Controller serialises generation requests for one board and replaces the
// document only with fully validated results.
type Controller struct {
	planner Planner
	store   domain.BoardStore
	now     func() time.Time

	// one request at a time; a second one gets domain.ErrBusy
	inflight *semaphore.Weighted

	mu    sync.RWMutex
	state State
	epoch uint64
}

// NewController creates a controller for an empty board. store may be nil.
func NewController(id domain.BoardID, planner Planner, store domain.BoardStore) *Controller {
	c := newController(planner, store, time.Now)
	now := c.now()
	c.state = State{
		BoardID:     id,
		FocusArea:   domain.FocusBalanced,
		CreatedAt:   now,
		LastUpdated: now,
	}
	return c
}

// restoreController rebuilds a controller from a persisted record.
func restoreController(rec *domain.BoardRecord, planner Planner, store domain.BoardStore, now func() time.Time) *Controller {
	c := newController(planner, store, now)
	focus := rec.FocusArea
	if !focus.Valid() {
		focus = domain.FocusBalanced
	}
	c.state = State{
		BoardID:     rec.ID,
		Document:    rec.Document.Clone(),
		FocusArea:   focus,
		CreatedAt:   rec.CreatedAt,
		LastUpdated: rec.LastUpdated,
	}
	return c
}

func newController(planner Planner, store domain.BoardStore, now func() time.Time) *Controller {
	return &Controller{
		planner:  planner,
		store:    store,
		now:      now,
		inflight: semaphore.NewWeighted(1),
	}
}

// ID returns the board id.
func (c *Controller) ID() domain.BoardID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.BoardID
}

// Snapshot returns a deep copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.state
	s.Document = c.state.Document.Clone()
	return s
}

// Grid lays out the current document.
func (c *Controller) Grid() (grid.CellGrid, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state.Document == nil {
		return grid.CellGrid{}, domain.ErrNoDocument
	}
	return grid.Layout(c.state.Document), nil
}

// Generate replaces the board's document with a freshly generated plan.
// On failure the previous document is kept and the error message recorded.
func (c *Controller) Generate(ctx context.Context, mainGoal string, focus domain.FocusArea) (*domain.PlanDocument, error) {
	if !c.inflight.TryAcquire(1) {
		return nil, domain.ErrBusy
	}
	defer c.inflight.Release(1)

	ctx = observability.WithBoardID(ctx, string(c.ID()))
	log := observability.LoggerFromContext(ctx)

	c.mu.Lock()
	epoch := c.epoch
	c.state.Loading = true
	c.state.Error = ""
	c.mu.Unlock()

	doc, err := c.planner.Generate(ctx, mainGoal, focus)

	c.mu.Lock()
	c.state.Loading = false
	if c.epoch != epoch {
		c.mu.Unlock()
		log.Warn("dropping generation result after reset")
		return nil, ErrDiscarded
	}
	if err != nil {
		c.state.Error = UserMessage(OpGenerate, err)
		c.mu.Unlock()
		return nil, err
	}
	c.state.Document = doc
	c.state.FocusArea = focus
	c.state.LastUpdated = c.now()
	rec, store := c.recordLocked(), c.store
	c.mu.Unlock()

	persist(ctx, store, rec)
	log.Info("board document generated")
	return doc.Clone(), nil
}

// RegenerateBlock rewrites the sub-goal targetID using the focus area the
// current document was generated with.
func (c *Controller) RegenerateBlock(ctx context.Context, targetID, feedback string) (*domain.PlanDocument, error) {
	if !c.inflight.TryAcquire(1) {
		return nil, domain.ErrBusy
	}
	defer c.inflight.Release(1)

	ctx = observability.WithBoardID(ctx, string(c.ID()))
	log := observability.LoggerFromContext(ctx)

	c.mu.Lock()
	if c.state.Document == nil {
		c.mu.Unlock()
		return nil, domain.ErrNoDocument
	}
	current := c.state.Document.Clone()
	focus := c.state.FocusArea
	epoch := c.epoch
	c.state.Regenerating = true
	c.state.Error = ""
	c.mu.Unlock()

	next, err := c.planner.RegenerateOne(ctx, current, focus, targetID, feedback)

	c.mu.Lock()
	c.state.Regenerating = false
	if c.epoch != epoch {
		c.mu.Unlock()
		log.Warn("dropping regeneration result after reset", "target_id", targetID)
		return nil, ErrDiscarded
	}
	if err != nil {
		c.state.Error = UserMessage(OpRegenerate, err)
		c.mu.Unlock()
		return nil, err
	}
	c.state.Document = next
	c.state.LastUpdated = c.now()
	rec, store := c.recordLocked(), c.store
	c.mu.Unlock()

	persist(ctx, store, rec)
	log.Info("board block regenerated", "target_id", targetID)
	return next.Clone(), nil
}

// Reset clears the document. Requests still in flight are not aborted,
// but their results will be discarded.
func (c *Controller) Reset(ctx context.Context) {
	c.mu.Lock()
	c.epoch++
	c.state.Document = nil
	c.state.FocusArea = domain.FocusBalanced
	c.state.Error = ""
	c.state.LastUpdated = c.now()
	rec, store := c.recordLocked(), c.store
	c.mu.Unlock()

	ctx = observability.WithBoardID(ctx, string(rec.ID))
	persist(ctx, store, rec)
	observability.LoggerFromContext(ctx).Info("board reset")
}

func (c *Controller) recordLocked() *domain.BoardRecord {
	return &domain.BoardRecord{
		ID:          c.state.BoardID,
		Document:    c.state.Document.Clone(),
		FocusArea:   c.state.FocusArea,
		CreatedAt:   c.state.CreatedAt,
		LastUpdated: c.state.LastUpdated,
	}
}

// detach stops the controller from saving and drops any in-flight result.
func (c *Controller) detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.store = nil
}

// persist saves the record; the in-memory state stays authoritative if the
// store fails.
func persist(ctx context.Context, store domain.BoardStore, rec *domain.BoardRecord) {
	if store == nil {
		return
	}
	if err := store.SaveBoard(ctx, rec); err != nil {
		observability.LoggerFromContext(ctx).Error("failed to save board", "error", err)
	}
}
