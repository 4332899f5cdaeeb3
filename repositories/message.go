//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"dm-lab/domain"
	apperrors "dm-lab/errors"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IMessageRepository interface {
	Save(message domain.Message) error
	GetByID(id uuid.UUID) (domain.Message, error)
	GetMessagesForUser(params domain.MessageParams) (domain.PagedList[domain.Message], error)
	GetMessageThread(userA, userB string) ([]domain.Message, error)
	MarkThreadRead(reader, other string, at time.Time) (int, error)
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

// Save persists a message and its two secondary indexes in a single transaction.
// Keys:
//   - "msg:{uuid}" holds the record itself.
//   - "mailbox:{username}:{timestamp_padded}:{uuid}" once for the sender and once for
//     the recipient, so a reverse prefix scan lists a user's messages newest first.
//   - "thread:{group}:{timestamp_padded}:{uuid}" lists a conversation in chronological order.
//
// The 19-digit zero padding keeps lexicographical and chronological order aligned,
// the uuid suffix separates two messages created in the same nanosecond.
// The transaction is committed before Save returns.
func (m MessageRepository) Save(message domain.Message) error {
	record := marshalMessage(message)
	id := []byte(message.ID.String())
	return m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(messageKey(message.ID), record); err != nil {
			return err
		}
		indexes := [][]byte{
			timeKey("mailbox", message.SenderUsername, message.CreatedAt, message.ID),
			timeKey("mailbox", message.RecipientUsername, message.CreatedAt, message.ID),
			timeKey("thread", message.Group(), message.CreatedAt, message.ID),
		}
		for _, key := range indexes {
			if err := txn.Set(key, id); err != nil {
				return err
			}
		}
		return nil
	})
}

func (m MessageRepository) GetByID(id uuid.UUID) (domain.Message, error) {
	var message domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		var err error
		message, err = getMessage(txn, id.String())
		return err
	})
	return message, err
}

// GetMessagesForUser walks the user's mailbox from the newest entry and keeps the
// requested page. Every entry matching the container is counted, so TotalCount
// covers all pages.
func (m MessageRepository) GetMessagesForUser(params domain.MessageParams) (domain.PagedList[domain.Message], error) {
	params = params.Normalize()
	prefix := []byte(fmt.Sprintf("mailbox:%s:", params.Username))
	skip := params.Skip()
	items := make([]domain.Message, 0, params.PageSize)
	total := 0

	err := m.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(lastKeyOf(prefix)); it.ValidForPrefix(prefix); it.Next() {
			id, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			message, err := getMessage(txn, string(id))
			if err != nil {
				return err
			}
			if !params.Container.Matches(params.Username, message) {
				continue
			}
			if total >= skip && len(items) < params.PageSize {
				items = append(items, message)
			}
			total++
		}
		return nil
	})
	if err != nil {
		return domain.PagedList[domain.Message]{}, err
	}

	m.log.Debug("Mailbox page loaded",
		"username", params.Username,
		"page", params.PageNumber,
		"items", len(items),
		"total", total)
	return domain.NewPagedList(items, total, params.PageNumber, params.PageSize), nil
}

// GetMessageThread returns the whole conversation between userA and userB,
// oldest first. An empty conversation yields an empty slice.
func (m MessageRepository) GetMessageThread(userA, userB string) ([]domain.Message, error) {
	var thread []domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		var err error
		thread, err = collectThread(txn, userA, userB)
		return err
	})
	if err != nil {
		return nil, err
	}
	return thread, nil
}

// MarkThreadRead sets the read timestamp of every unread message other sent to reader.
// Messages already read keep their timestamp.
func (m MessageRepository) MarkThreadRead(reader, other string, at time.Time) (int, error) {
	marked := 0
	err := m.db.Update(func(txn *badger.Txn) error {
		thread, err := collectThread(txn, reader, other)
		if err != nil {
			return err
		}
		for _, message := range thread {
			if message.RecipientUsername != reader || message.SenderUsername != other {
				continue
			}
			if !message.MarkRead(at) {
				continue
			}
			if err = txn.Set(messageKey(message.ID), marshalMessage(message)); err != nil {
				return err
			}
			marked++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return marked, nil
}

// collectThread closes its iterator before returning, so callers holding a
// read-write transaction may write afterwards.
func collectThread(txn *badger.Txn, userA, userB string) ([]domain.Message, error) {
	prefix := []byte(fmt.Sprintf("thread:%s:", domain.GroupName(userA, userB)))
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	thread := make([]domain.Message, 0)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		id, err := it.Item().ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		message, err := getMessage(txn, string(id))
		if err != nil {
			return nil, err
		}
		if isBetween(message, userA, userB) {
			thread = append(thread, message)
		}
	}
	return thread, nil
}

func getMessage(txn *badger.Txn, id string) (domain.Message, error) {
	item, err := txn.Get([]byte(MessagePrefix + id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Message{}, fmt.Errorf("%w: %s", apperrors.ErrMessageNotFound, id)
	}
	if err != nil {
		return domain.Message{}, err
	}

	var message domain.Message
	err = item.Value(func(val []byte) error {
		var decodeErr error
		message, decodeErr = unmarshalMessage(val)
		return decodeErr
	})
	return message, err
}

func isBetween(message domain.Message, userA, userB string) bool {
	return (message.SenderUsername == userA && message.RecipientUsername == userB) ||
		(message.SenderUsername == userB && message.RecipientUsername == userA)
}

func messageKey(id uuid.UUID) []byte {
	return []byte(MessagePrefix + id.String())
}

func timeKey(namespace, owner string, at time.Time, id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("%s:%s:%019d:%s", namespace, owner, at.UnixNano(), id))
}

// lastKeyOf returns a key sorting after every key sharing prefix,
// the starting point of a reverse scan.
func lastKeyOf(prefix []byte) []byte {
	seek := make([]byte, 0, len(prefix)+1)
	seek = append(seek, prefix...)
	return append(seek, 0xFF)
}
