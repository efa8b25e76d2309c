package board_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/mandalart-agent/internal/adapters/llm"
	"github.com/PabloGalante/mandalart-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/mandalart-agent/internal/app/board"
	"github.com/PabloGalante/mandalart-agent/internal/app/planner"
	"github.com/PabloGalante/mandalart-agent/internal/domain"
	"github.com/PabloGalante/mandalart-agent/internal/testutil"
)

func newRegistry(t *testing.T) (*board.Registry, *memory.BoardStore) {
	t.Helper()
	store := memory.NewBoardStore()
	return board.NewRegistry(planner.NewService(llm.NewMockLLM()), store), store
}

func TestRegistryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	reg, store := newRegistry(t)

	c, err := reg.Create(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, c.ID())

	rec, err := store.GetBoard(ctx, c.ID())
	require.NoError(t, err)
	assert.Nil(t, rec.Document)
	assert.Equal(t, domain.FocusBalanced, rec.FocusArea)

	got, err := reg.Get(ctx, c.ID())
	require.NoError(t, err)
	assert.Same(t, c, got)
}

func TestRegistryGetUnknown(t *testing.T) {
	reg, _ := newRegistry(t)

	_, err := reg.Get(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrBoardNotFound)
}

func TestRegistryRestoresFromStore(t *testing.T) {
	ctx := context.Background()
	store := memory.NewBoardStore()
	doc := testutil.SampleDocument("목표")
	require.NoError(t, store.SaveBoard(ctx, &domain.BoardRecord{
		ID:          "saved",
		Document:    doc,
		FocusArea:   domain.FocusHealth,
		CreatedAt:   time.Unix(10, 0),
		LastUpdated: time.Unix(20, 0),
	}))

	reg := board.NewRegistry(planner.NewService(llm.NewMockLLM()), store)
	c, err := reg.Get(ctx, "saved")
	require.NoError(t, err)

	state := c.Snapshot()
	assert.Equal(t, doc, state.Document)
	assert.Equal(t, domain.FocusHealth, state.FocusArea)

	// a restored board can be regenerated straight away
	next, err := c.RegenerateBlock(ctx, "sg-2", "더 구체적으로")
	require.NoError(t, err)
	assert.NotEqual(t, doc.SubGoals[1].Title, next.SubGoals[1].Title)
}

func TestRegistryRejectsInvalidStoredDocument(t *testing.T) {
	ctx := context.Background()
	store := memory.NewBoardStore()
	doc := testutil.SampleDocument("목표")
	doc.SubGoals = doc.SubGoals[:7]
	require.NoError(t, store.SaveBoard(ctx, &domain.BoardRecord{
		ID:        "broken",
		Document:  doc,
		FocusArea: domain.FocusBalanced,
	}))

	reg := board.NewRegistry(planner.NewService(llm.NewMockLLM()), store)
	c, err := reg.Get(ctx, "broken")
	require.Error(t, err)
	assert.Nil(t, c)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Error(), "subGoals must have 8 entries")

	// nothing was cached, the next lookup checks the store again
	_, err = reg.Get(ctx, "broken")
	require.ErrorAs(t, err, &ve)
}

// blockingStore holds GetBoard until release is closed.
type blockingStore struct {
	*memory.BoardStore
	entered chan struct{}
	release chan struct{}
}

func (s *blockingStore) GetBoard(ctx context.Context, id domain.BoardID) (*domain.BoardRecord, error) {
	close(s.entered)
	<-s.release
	return s.BoardStore.GetBoard(ctx, id)
}

func TestRegistryGetDoesNotBlockOnSlowLoad(t *testing.T) {
	ctx := context.Background()
	store := &blockingStore{
		BoardStore: memory.NewBoardStore(),
		entered:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	require.NoError(t, store.SaveBoard(ctx, &domain.BoardRecord{ID: "slow", FocusArea: domain.FocusBalanced}))

	reg := board.NewRegistry(planner.NewService(llm.NewMockLLM()), store)
	cached, err := reg.Create(ctx)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := reg.Get(ctx, "slow")
		done <- err
	}()
	<-store.entered

	// the cached board is served while the other load is in flight
	got, err := reg.Get(ctx, cached.ID())
	require.NoError(t, err)
	assert.Same(t, cached, got)

	close(store.release)
	require.NoError(t, <-done)
}

func TestRegistryList(t *testing.T) {
	ctx := context.Background()
	reg, _ := newRegistry(t)

	first, err := reg.Create(ctx)
	require.NoError(t, err)
	second, err := reg.Create(ctx)
	require.NoError(t, err)

	_, err = first.Generate(ctx, "목표", domain.FocusBusiness)
	require.NoError(t, err)

	states, err := reg.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, states, 2)

	ids := []domain.BoardID{states[0].BoardID, states[1].BoardID}
	assert.ElementsMatch(t, []domain.BoardID{first.ID(), second.ID()}, ids)
	for _, s := range states {
		if s.BoardID == first.ID() {
			require.NotNil(t, s.Document)
			assert.Equal(t, domain.FocusBusiness, s.FocusArea)
		}
	}
}

func TestRegistryDelete(t *testing.T) {
	ctx := context.Background()
	reg, store := newRegistry(t)

	c, err := reg.Create(ctx)
	require.NoError(t, err)
	id := c.ID()

	require.NoError(t, reg.Delete(ctx, id))

	_, err = store.GetBoard(ctx, id)
	require.ErrorIs(t, err, domain.ErrBoardNotFound)
	_, err = reg.Get(ctx, id)
	require.ErrorIs(t, err, domain.ErrBoardNotFound)

	// the detached controller no longer writes back
	_, err = c.Generate(ctx, "목표", domain.FocusBalanced)
	require.NoError(t, err)
	_, err = store.GetBoard(ctx, id)
	require.ErrorIs(t, err, domain.ErrBoardNotFound)

	require.ErrorIs(t, reg.Delete(ctx, id), domain.ErrBoardNotFound)
}
