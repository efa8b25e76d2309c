package firestore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/mandalart-agent/internal/domain"
	"github.com/PabloGalante/mandalart-agent/internal/testutil"
)

func TestBoardDocMapping(t *testing.T) {
	rec := &domain.BoardRecord{
		ID:          "b1",
		Document:    testutil.SampleDocument("목표"),
		FocusArea:   domain.FocusNetworking,
		CreatedAt:   time.Unix(100, 0),
		LastUpdated: time.Unix(200, 0),
	}

	got := fromBoardDoc("b1", toBoardDoc(rec))
	assert.Equal(t, rec, got)
}

func TestBoardDocMappingWithoutDocument(t *testing.T) {
	rec := &domain.BoardRecord{ID: "b2", FocusArea: domain.FocusBalanced}

	doc := toBoardDoc(rec)
	assert.Nil(t, doc.Document)
	assert.Nil(t, fromBoardDoc("b2", doc).Document)
}

func TestNewStoreRequiresProject(t *testing.T) {
	_, err := NewStore(context.Background(), "")
	require.Error(t, err)
}
