package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/PabloGalante/mandalart-agent/internal/domain"
)

// BoardStore is an in-memory implementation of domain.BoardStore.
// It is NOT persistent; boards live as long as the process.
type BoardStore struct {
	mu     sync.RWMutex
	boards map[domain.BoardID]*domain.BoardRecord
}

func NewBoardStore() *BoardStore {
	return &BoardStore{
		boards: make(map[domain.BoardID]*domain.BoardRecord),
	}
}

func (s *BoardStore) SaveBoard(_ context.Context, board *domain.BoardRecord) error {
	if board == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.boards[board.ID] = cloneRecord(board)
	return nil
}

func (s *BoardStore) GetBoard(_ context.Context, id domain.BoardID) (*domain.BoardRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.boards[id]
	if !ok {
		return nil, domain.ErrBoardNotFound
	}
	return cloneRecord(rec), nil
}

// ListBoards returns the most recently updated boards first.
// If limit <= 0, returns all.
func (s *BoardStore) ListBoards(_ context.Context, limit int) ([]*domain.BoardRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.BoardRecord, 0, len(s.boards))
	for _, rec := range s.boards {
		out = append(out, cloneRecord(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastUpdated.Equal(out[j].LastUpdated) {
			return out[i].ID < out[j].ID
		}
		return out[i].LastUpdated.After(out[j].LastUpdated)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *BoardStore) DeleteBoard(_ context.Context, id domain.BoardID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.boards[id]; !ok {
		return domain.ErrBoardNotFound
	}
	delete(s.boards, id)
	return nil
}

func cloneRecord(r *domain.BoardRecord) *domain.BoardRecord {
	cp := *r
	cp.Document = r.Document.Clone()
	return &cp
}
