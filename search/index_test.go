package search

import (
	"context"
	"dm-lab/contract"
	"log/slog"
	"testing"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newIndex(t *testing.T) *Index {
	t.Helper()
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })
	return NewIndex(writer, slog.Default())
}

func TestIndex_Search_Restricted_To_Participant(t *testing.T) {
	req := require.New(t)
	index := newIndex(t)

	// Given two conversations mentioning the same word
	withBob := uuid.New()
	withCharlie := uuid.New()
	req.NoError(index.Index(contract.SearchDocument{ID: withBob, Content: "lunch tomorrow?", Participants: []string{"alice", "bob"}}))
	req.NoError(index.Index(contract.SearchDocument{ID: withCharlie, Content: "no lunch for me", Participants: []string{"bob", "charlie"}}))

	// When alice searches
	ids, total, err := index.Search(context.Background(), "alice", "lunch", 10)
	req.NoError(err)

	// Then she only sees her own message
	req.Equal([]uuid.UUID{withBob}, ids)
	req.Equal(uint64(1), total)

	// And bob sees both
	ids, total, err = index.Search(context.Background(), "bob", "lunch", 10)
	req.NoError(err)
	req.Len(ids, 2)
	req.Equal(uint64(2), total)
}

func TestIndex_Search_Limit_Keeps_Total(t *testing.T) {
	req := require.New(t)
	index := newIndex(t)

	for i := 0; i < 5; i++ {
		req.NoError(index.Index(contract.SearchDocument{ID: uuid.New(), Content: "ping", Participants: []string{"alice", "bob"}}))
	}

	ids, total, err := index.Search(context.Background(), "alice", "ping", 2)
	req.NoError(err)
	req.Len(ids, 2)
	req.Equal(uint64(5), total)
}

func TestIndex_Reindex_Same_Message(t *testing.T) {
	req := require.New(t)
	index := newIndex(t)
	id := uuid.New()
	doc := contract.SearchDocument{ID: id, Content: "hello there", Participants: []string{"alice", "bob"}}

	req.NoError(index.Index(doc))
	req.NoError(index.Index(doc))

	ids, total, err := index.Search(context.Background(), "bob", "hello", 10)
	req.NoError(err)
	req.Equal([]uuid.UUID{id}, ids)
	req.Equal(uint64(1), total)
}
