// Package redis stores boards in Redis: one JSON value per board plus a
// sorted set indexing boards by last update.
//
// Keys are namespaced so several deployments can share one server:
//
//	{namespace}:board:{id}   JSON-encoded domain.BoardRecord
//	{namespace}:boards       sorted set, member = board id, score = update time (ms)
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/PabloGalante/mandalart-agent/internal/domain"
)

const defaultNamespace = "mandalart"

type Store struct {
	rdb       *redis.Client
	namespace string
}

// NewStore creates a Redis-backed board store. An empty namespace means
// "mandalart".
func NewStore(opts *redis.Options, namespace string) *Store {
	if namespace == "" {
		namespace = defaultNamespace
	}
	return &Store{
		rdb:       redis.NewClient(opts),
		namespace: namespace,
	}
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.rdb.Close()
}

// Ping verifies Redis connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) boardKey(id domain.BoardID) string {
	return fmt.Sprintf("%s:board:%s", s.namespace, id)
}

func (s *Store) indexKey() string {
	return s.namespace + ":boards"
}

func (s *Store) SaveBoard(ctx context.Context, board *domain.BoardRecord) error {
	if board == nil {
		return nil
	}

	data, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("redis SaveBoard encode: %w", err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.boardKey(board.ID), data, 0)
		pipe.ZAdd(ctx, s.indexKey(), redis.Z{
			Score:  float64(board.LastUpdated.UnixMilli()),
			Member: string(board.ID),
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis SaveBoard: %w", err)
	}
	return nil
}

func (s *Store) GetBoard(ctx context.Context, id domain.BoardID) (*domain.BoardRecord, error) {
	data, err := s.rdb.Get(ctx, s.boardKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrBoardNotFound
		}
		return nil, fmt.Errorf("redis GetBoard: %w", err)
	}

	var rec domain.BoardRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("redis GetBoard decode: %w", err)
	}
	return &rec, nil
}

// ListBoards returns the most recently updated boards first.
// If limit <= 0, returns all.
func (s *Store) ListBoards(ctx context.Context, limit int) ([]*domain.BoardRecord, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	ids, err := s.rdb.ZRevRange(ctx, s.indexKey(), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("redis ListBoards index: %w", err)
	}
	if len(ids) == 0 {
		return []*domain.BoardRecord{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.boardKey(domain.BoardID(id))
	}

	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis ListBoards: %w", err)
	}

	out := make([]*domain.BoardRecord, 0, len(values))
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			// index entry without a value; skip it
			continue
		}
		var rec domain.BoardRecord
		if err := json.Unmarshal([]byte(str), &rec); err != nil {
			return nil, fmt.Errorf("redis ListBoards decode %s: %w", ids[i], err)
		}
		out = append(out, &rec)
	}
	return out, nil
}

func (s *Store) DeleteBoard(ctx context.Context, id domain.BoardID) error {
	var del *redis.IntCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, s.boardKey(id))
		pipe.ZRem(ctx, s.indexKey(), string(id))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis DeleteBoard: %w", err)
	}
	if del.Val() == 0 {
		return domain.ErrBoardNotFound
	}
	return nil
}
