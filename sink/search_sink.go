package sink

import (
	"context"
	"dm-lab/contract"
	"dm-lab/domain/event"
	"dm-lab/dto"
	"dm-lab/errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// SearchSink feeds the full-text index with every new message.
type SearchSink struct {
	searcher contract.MessageSearcher
	log      *slog.Logger
}

func NewSearchSink(searcher contract.MessageSearcher, log *slog.Logger) SearchSink {
	return SearchSink{searcher: searcher, log: log}
}

func (s SearchSink) Name() string { return "search" }

func (s SearchSink) Consume(_ context.Context, e event.GroupEvent) error {
	if e.Name != event.NewMessage {
		return nil
	}
	message, ok := e.Payload.(dto.MessageDto)
	if !ok {
		return fmt.Errorf("%w: %T for %s", errors.ErrInvalidPayload, e.Payload, e.Name)
	}
	id, err := uuid.Parse(message.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}
	if err = s.searcher.Index(contract.SearchDocument{
		ID:           id,
		Content:      message.Content,
		Participants: message.Participants(),
	}); err != nil {
		s.log.Warn("Message not indexed", "message_id", message.ID, "error", err)
		return err
	}
	return nil
}
