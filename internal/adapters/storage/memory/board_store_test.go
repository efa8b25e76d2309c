package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/mandalart-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/mandalart-agent/internal/domain"
	"github.com/PabloGalante/mandalart-agent/internal/testutil"
)

func TestBoardStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewBoardStore()

	rec := &domain.BoardRecord{
		ID:          "b1",
		Document:    testutil.SampleDocument("목표"),
		FocusArea:   domain.FocusHealth,
		CreatedAt:   time.Unix(100, 0),
		LastUpdated: time.Unix(200, 0),
	}
	require.NoError(t, store.SaveBoard(ctx, rec))

	// the store keeps its own copy
	rec.Document.SubGoals[0].Title = "changed"

	got, err := store.GetBoard(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "중간목표 0", got.Document.SubGoals[0].Title)
	assert.Equal(t, domain.FocusHealth, got.FocusArea)
}

func TestBoardStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store := memory.NewBoardStore()

	_, err := store.GetBoard(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrBoardNotFound)
	require.ErrorIs(t, store.DeleteBoard(ctx, "missing"), domain.ErrBoardNotFound)
}

func TestBoardStoreListOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	store := memory.NewBoardStore()

	for i, id := range []domain.BoardID{"old", "newest", "middle"} {
		updated := map[domain.BoardID]int64{"old": 1, "middle": 2, "newest": 3}[id]
		require.NoError(t, store.SaveBoard(ctx, &domain.BoardRecord{
			ID:          id,
			CreatedAt:   time.Unix(int64(i), 0),
			LastUpdated: time.Unix(updated, 0),
		}))
	}

	all, err := store.ListBoards(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, domain.BoardID("newest"), all[0].ID)
	assert.Equal(t, domain.BoardID("middle"), all[1].ID)
	assert.Equal(t, domain.BoardID("old"), all[2].ID)

	two, err := store.ListBoards(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}

func TestBoardStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := memory.NewBoardStore()

	require.NoError(t, store.SaveBoard(ctx, &domain.BoardRecord{ID: "b1"}))
	require.NoError(t, store.DeleteBoard(ctx, "b1"))

	_, err := store.GetBoard(ctx, "b1")
	require.ErrorIs(t, err, domain.ErrBoardNotFound)
}
