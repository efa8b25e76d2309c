package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/mandalart-agent/internal/domain"
)

type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore store.
// Uses the project passed (MANDALART_GCP_PROJECT).
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) boardsCol() *firestore.CollectionRef {
	return s.client.Collection("boards")
}

func (s *Store) boardDoc(id domain.BoardID) *firestore.DocumentRef {
	return s.boardsCol().Doc(string(id))
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type boardDoc struct {
	FocusArea   string    `firestore:"focus_area"`
	Document    *planDoc  `firestore:"document"`
	CreatedAt   time.Time `firestore:"created_at"`
	LastUpdated time.Time `firestore:"last_updated"`
}

type planDoc struct {
	MainGoal string       `firestore:"main_goal"`
	SubGoals []subGoalDoc `firestore:"sub_goals"`
}

type subGoalDoc struct {
	ID      string   `firestore:"id"`
	Title   string   `firestore:"title"`
	Actions []string `firestore:"actions"`
}

func toBoardDoc(rec *domain.BoardRecord) boardDoc {
	doc := boardDoc{
		FocusArea:   string(rec.FocusArea),
		CreatedAt:   rec.CreatedAt,
		LastUpdated: rec.LastUpdated,
	}
	if rec.Document != nil {
		p := &planDoc{MainGoal: rec.Document.MainGoal}
		for _, sg := range rec.Document.SubGoals {
			p.SubGoals = append(p.SubGoals, subGoalDoc{ID: sg.ID, Title: sg.Title, Actions: sg.Actions})
		}
		doc.Document = p
	}
	return doc
}

func fromBoardDoc(id domain.BoardID, doc boardDoc) *domain.BoardRecord {
	rec := &domain.BoardRecord{
		ID:          id,
		FocusArea:   domain.FocusArea(doc.FocusArea),
		CreatedAt:   doc.CreatedAt,
		LastUpdated: doc.LastUpdated,
	}
	if doc.Document != nil {
		p := &domain.PlanDocument{MainGoal: doc.Document.MainGoal}
		for _, sg := range doc.Document.SubGoals {
			p.SubGoals = append(p.SubGoals, domain.SubGoal{ID: sg.ID, Title: sg.Title, Actions: sg.Actions})
		}
		rec.Document = p
	}
	return rec
}

// ─────────────────────────────────────────
// BoardStore implementation
// ─────────────────────────────────────────

func (s *Store) SaveBoard(ctx context.Context, board *domain.BoardRecord) error {
	if board == nil {
		return nil
	}

	// the document is replaced wholesale, never merged field by field
	_, err := s.boardDoc(board.ID).Set(ctx, toBoardDoc(board))
	if err != nil {
		return fmt.Errorf("firestore SaveBoard: %w", err)
	}
	return nil
}

func (s *Store) GetBoard(ctx context.Context, id domain.BoardID) (*domain.BoardRecord, error) {
	snap, err := s.boardDoc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrBoardNotFound
		}
		return nil, fmt.Errorf("firestore GetBoard: %w", err)
	}

	var doc boardDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetBoard decode: %w", err)
	}
	return fromBoardDoc(id, doc), nil
}

func (s *Store) ListBoards(ctx context.Context, limit int) ([]*domain.BoardRecord, error) {
	q := s.boardsCol().OrderBy("last_updated", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.BoardRecord
	for {
		snap, err := iter.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) {
				break
			}
			return nil, fmt.Errorf("firestore ListBoards: %w", err)
		}

		var doc boardDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode boardDoc: %w", err)
		}
		out = append(out, fromBoardDoc(domain.BoardID(snap.Ref.ID), doc))
	}
	return out, nil
}

func (s *Store) DeleteBoard(ctx context.Context, id domain.BoardID) error {
	ref := s.boardDoc(id)
	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.ErrBoardNotFound
		}
		return fmt.Errorf("firestore DeleteBoard: %w", err)
	}
	if _, err := ref.Delete(ctx); err != nil {
		return fmt.Errorf("firestore DeleteBoard: %w", err)
	}
	return nil
}
