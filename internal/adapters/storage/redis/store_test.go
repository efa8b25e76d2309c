package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/mandalart-agent/internal/adapters/storage/redis"
	"github.com/PabloGalante/mandalart-agent/internal/domain"
	"github.com/PabloGalante/mandalart-agent/internal/testutil"
)

func newStore(t *testing.T) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := redis.NewStore(&goredis.Options{Addr: mr.Addr()}, "test")
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr := newStore(t)
	require.NoError(t, store.Ping(ctx))

	rec := &domain.BoardRecord{
		ID:          "b1",
		Document:    testutil.SampleDocument("학습 포트폴리오 완성"),
		FocusArea:   domain.FocusLearning,
		CreatedAt:   time.Unix(100, 0).UTC(),
		LastUpdated: time.Unix(200, 0).UTC(),
	}
	require.NoError(t, store.SaveBoard(ctx, rec))

	assert.True(t, mr.Exists("test:board:b1"))

	got, err := store.GetBoard(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, rec.Document, got.Document)
	assert.Equal(t, rec.FocusArea, got.FocusArea)
	assert.True(t, rec.LastUpdated.Equal(got.LastUpdated))
}

func TestStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	_, err := store.GetBoard(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrBoardNotFound)
	require.ErrorIs(t, store.DeleteBoard(ctx, "missing"), domain.ErrBoardNotFound)
}

func TestStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	for id, sec := range map[domain.BoardID]int64{"a": 10, "b": 30, "c": 20} {
		require.NoError(t, store.SaveBoard(ctx, &domain.BoardRecord{ID: id, LastUpdated: time.Unix(sec, 0)}))
	}

	all, err := store.ListBoards(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []domain.BoardID{"b", "c", "a"}, []domain.BoardID{all[0].ID, all[1].ID, all[2].ID})

	top, err := store.ListBoards(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, domain.BoardID("b"), top[0].ID)

	// saving again moves the board to the front
	require.NoError(t, store.SaveBoard(ctx, &domain.BoardRecord{ID: "a", LastUpdated: time.Unix(40, 0)}))
	top, err = store.ListBoards(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.BoardID("a"), top[0].ID)
}

func TestStoreListEmpty(t *testing.T) {
	store, _ := newStore(t)

	all, err := store.ListBoards(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	store, mr := newStore(t)

	require.NoError(t, store.SaveBoard(ctx, &domain.BoardRecord{ID: "b1", LastUpdated: time.Unix(1, 0)}))
	require.NoError(t, store.DeleteBoard(ctx, "b1"))

	assert.False(t, mr.Exists("test:board:b1"))
	all, err := store.ListBoards(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, all)
}
