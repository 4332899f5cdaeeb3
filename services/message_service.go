//go:generate go run go.uber.org/mock/mockgen -source=message_service.go -destination=../mocks/mock_message_service.go -package=mocks
package services

import (
	"context"
	"dm-lab/contract"
	"dm-lab/domain"
	"dm-lab/domain/event"
	"dm-lab/dto"
	"dm-lab/errors"
	"dm-lab/repositories"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	goerrors "errors"
)

type IMessageService interface {
	SendMessage(ctx context.Context, senderUsername, recipientUsername, content string) (domain.Message, error)
	GetMessagesForUser(ctx context.Context, params domain.MessageParams) (domain.PagedList[domain.Message], error)
	GetMessageThread(ctx context.Context, userA, userB string) ([]domain.Message, error)
	MarkThreadRead(ctx context.Context, reader, other string) (int, error)
	SearchMessages(ctx context.Context, username, query string, limit int) ([]domain.Message, uint64, error)
}

// MessageService creates, persists and announces direct messages.
// It owns no lock: concurrency is handled by the store, the presence tracker and the hub.
type MessageService struct {
	log              *slog.Logger
	users            repositories.IUserRepository
	messages         repositories.IMessageRepository
	presence         contract.PresenceTracker
	publisher        contract.Publisher
	searcher         contract.MessageSearcher
	filter           contract.ContentFilter
	maxContentLength int
	now              func() time.Time
}

// NewMessageService accepts a nil searcher (search disabled) and a nil filter (no moderation).
// A maxContentLength of zero or less disables the length check.
func NewMessageService(log *slog.Logger, users repositories.IUserRepository,
	messages repositories.IMessageRepository, presence contract.PresenceTracker,
	publisher contract.Publisher, searcher contract.MessageSearcher,
	filter contract.ContentFilter, maxContentLength int) *MessageService {
	return &MessageService{
		log:              log,
		users:            users,
		messages:         messages,
		presence:         presence,
		publisher:        publisher,
		searcher:         searcher,
		filter:           filter,
		maxContentLength: maxContentLength,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *MessageService) WithClock(now func() time.Time) *MessageService {
	s.now = now
	return s
}

// SendMessage delivers content from sender to recipient.
// The message is read at creation when the recipient is online at that instant.
// Once persisted, the NewMessage event is published to the conversation group;
// a publication failure is logged and never fails the call.
func (s *MessageService) SendMessage(ctx context.Context, senderUsername, recipientUsername, content string) (domain.Message, error) {
	senderUsername = domain.NormalizeUsername(senderUsername)
	recipientUsername = domain.NormalizeUsername(recipientUsername)

	if senderUsername == recipientUsername {
		return domain.Message{}, errors.ErrSelfMessage
	}
	if strings.TrimSpace(content) == "" {
		return domain.Message{}, errors.ErrEmptyContent
	}
	if s.maxContentLength > 0 && utf8.RuneCountInString(content) > s.maxContentLength {
		return domain.Message{}, fmt.Errorf("%w: %d characters max", errors.ErrContentTooLong, s.maxContentLength)
	}

	sender, err := s.users.GetUserByUsername(senderUsername)
	if err != nil {
		if goerrors.Is(err, errors.ErrUserNotFound) {
			s.log.Error("Authenticated sender has no account", "username", senderUsername)
			return domain.Message{}, fmt.Errorf("%w: %s", errors.ErrSenderNotFound, senderUsername)
		}
		return domain.Message{}, err
	}
	recipient, err := s.users.GetUserByUsername(recipientUsername)
	if err != nil {
		if goerrors.Is(err, errors.ErrUserNotFound) {
			return domain.Message{}, fmt.Errorf("%w: %s", errors.ErrRecipientNotFound, recipientUsername)
		}
		return domain.Message{}, err
	}

	if s.filter != nil {
		censored, words := s.filter.Censor(content)
		if len(words) > 0 {
			s.log.Info("Message content censored", "sender", sender.Username, "words", len(words))
		}
		content = censored
	}

	message := domain.NewMessage(sender, recipient, content, s.now())
	if s.isOnline(ctx, recipient.Username) {
		message.MarkRead(message.CreatedAt)
	}

	if err = s.messages.Save(message); err != nil {
		s.log.Error("Message not persisted",
			"message_id", message.ID,
			"group", message.Group(),
			"error", err)
		return domain.Message{}, fmt.Errorf("%w: %w", errors.ErrPersistenceFailed, err)
	}

	s.publish(ctx, message.Group(), event.NewMessage, dto.FromMessage(message))
	return message, nil
}

// GetMessagesForUser returns one page of the user mailbox, newest first.
func (s *MessageService) GetMessagesForUser(_ context.Context, params domain.MessageParams) (domain.PagedList[domain.Message], error) {
	params.Username = domain.NormalizeUsername(params.Username)
	return s.messages.GetMessagesForUser(params.Normalize())
}

// GetMessageThread returns the conversation between userA and userB, oldest first.
func (s *MessageService) GetMessageThread(_ context.Context, userA, userB string) ([]domain.Message, error) {
	return s.messages.GetMessageThread(domain.NormalizeUsername(userA), domain.NormalizeUsername(userB))
}

// MarkThreadRead acknowledges every unread message other sent to reader.
// The other side is told through a MessagesRead event when something changed.
func (s *MessageService) MarkThreadRead(ctx context.Context, reader, other string) (int, error) {
	reader = domain.NormalizeUsername(reader)
	other = domain.NormalizeUsername(other)

	count, err := s.messages.MarkThreadRead(reader, other, s.now())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.publish(ctx, domain.GroupName(reader, other), event.MessagesRead,
			event.MessagesReadPayload{Username: reader, Count: count})
	}
	return count, nil
}

// SearchMessages runs a full-text query over the messages username takes part in.
// The total counts every hit, beyond limit.
func (s *MessageService) SearchMessages(ctx context.Context, username, query string, limit int) ([]domain.Message, uint64, error) {
	if s.searcher == nil {
		return nil, 0, errors.ErrSearchUnavailable
	}
	if strings.TrimSpace(query) == "" {
		return nil, 0, fmt.Errorf("%w: empty query", errors.ErrInvalidRequest)
	}
	switch {
	case limit < 1:
		limit = domain.DefaultPageSize
	case limit > domain.MaxPageSize:
		limit = domain.MaxPageSize
	}

	username = domain.NormalizeUsername(username)
	ids, total, err := s.searcher.Search(ctx, username, query, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", errors.ErrSearchUnavailable, err)
	}

	messages := make([]domain.Message, 0, len(ids))
	for _, id := range ids {
		message, err := s.messages.GetByID(id)
		if goerrors.Is(err, errors.ErrMessageNotFound) {
			s.log.Warn("Indexed message missing from store", "message_id", id)
			continue
		}
		if err != nil {
			return nil, 0, err
		}
		if message.Involves(username) {
			messages = append(messages, message)
		}
	}
	return messages, total, nil
}

// isOnline counts a presence failure as offline.
func (s *MessageService) isOnline(ctx context.Context, username string) bool {
	online, err := s.presence.IsOnline(ctx, username)
	if err != nil {
		s.log.Warn("Presence lookup failed, recipient considered offline", "username", username, "error", err)
		return false
	}
	return online
}

// publish is best effort and ignores the cancellation of ctx.
func (s *MessageService) publish(ctx context.Context, group string, name event.Name, payload any) {
	if err := s.publisher.PublishToGroup(context.WithoutCancel(ctx), group, name, payload); err != nil {
		s.log.Warn("Event not published", "event", name, "group", group, "error", err)
	}
}
