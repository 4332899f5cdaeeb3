// Package search maintains a full-text index over message contents.
// The index is fed by a fan-out sink and therefore lags slightly behind the store.
package search

import (
	"context"
	"dm-lab/contract"
	"fmt"
	"log/slog"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
)

const (
	fieldContent     = "content"
	fieldParticipant = "participant"
	idField          = "_id"
)

type Index struct {
	writer *bluge.Writer
	log    *slog.Logger
}

var _ contract.MessageSearcher = (*Index)(nil)

func NewIndex(writer *bluge.Writer, log *slog.Logger) *Index {
	return &Index{writer: writer, log: log}
}

// Index upserts the document, indexing the same message twice is harmless.
func (i *Index) Index(doc contract.SearchDocument) error {
	document := bluge.NewDocument(doc.ID.String()).
		AddField(bluge.NewTextField(fieldContent, doc.Content))
	for _, participant := range doc.Participants {
		document.AddField(bluge.NewKeywordField(fieldParticipant, participant))
	}
	if err := i.writer.Update(document.ID(), document); err != nil {
		return fmt.Errorf("unable to index message %s: %w", doc.ID, err)
	}
	return nil
}

// Search returns the ids of the best matching messages username takes part in,
// and the total number of hits.
func (i *Index) Search(ctx context.Context, username, query string, limit int) ([]uuid.UUID, uint64, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil {
			i.log.Warn("Unable to close search reader", "error", closeErr)
		}
	}()

	q := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(query).SetField(fieldContent)).
		AddMust(bluge.NewTermQuery(username).SetField(fieldParticipant))
	request := bluge.NewTopNSearch(limit, q).WithStandardAggregations()

	matches, err := reader.Search(ctx, request)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, 0, limit)
	match, err := matches.Next()
	for err == nil && match != nil {
		var visitErr error
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field != idField {
				return true
			}
			id, parseErr := uuid.ParseBytes(value)
			if parseErr != nil {
				visitErr = parseErr
				return false
			}
			ids = append(ids, id)
			return false
		})
		if err == nil {
			err = visitErr
		}
		if err == nil {
			match, err = matches.Next()
		}
	}
	if err != nil {
		return nil, 0, err
	}
	return ids, matches.Aggregations().Count(), nil
}
