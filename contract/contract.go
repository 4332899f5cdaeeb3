//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"dm-lab/domain/event"
	"reflect"

	"github.com/google/uuid"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink receives fan-out events, either for one live connection
// or permanently for every group (search index, event stream).
type EventSink interface {
	Consume(ctx context.Context, e event.GroupEvent) error
}

// IRegistry tracks which live connections listen to which conversation group.
type IRegistry interface {
	GetSinksForGroup(group string) []EventSink
	Subscribe(connectionID, group string, sink EventSink)
	Unsubscribe(connectionID, group string)
}

// Publisher is the fan-out channel seen by the delivery service.
// Implementations must not block the caller.
type Publisher interface {
	PublishToGroup(ctx context.Context, group string, name event.Name, payload any) error
}

// GroupHub is the fan-out channel seen by live transports.
type GroupHub interface {
	Publisher
	JoinGroup(connectionID, group string, sink EventSink)
	LeaveGroup(connectionID, group string)
}

// PresenceTracker maps usernames to their live connections.
// Implementations must support concurrent calls.
type PresenceTracker interface {
	// UserConnected returns true when this is the first connection of the user.
	UserConnected(ctx context.Context, username, connectionID string) (bool, error)
	// UserDisconnected returns true when the user has no connection left.
	UserDisconnected(ctx context.Context, username, connectionID string) (bool, error)
	// Refresh keeps connectionID alive for backends expiring idle entries.
	Refresh(ctx context.Context, username, connectionID string) error
	IsOnline(ctx context.Context, username string) (bool, error)
	OnlineUsers(ctx context.Context) ([]string, error)
}

// SearchDocument is the searchable projection of a message.
type SearchDocument struct {
	ID           uuid.UUID
	Content      string
	Participants []string
}

type MessageSearcher interface {
	Index(doc SearchDocument) error
	Search(ctx context.Context, username, query string, limit int) ([]uuid.UUID, uint64, error)
}

// ContentFilter rewrites message content before it is persisted.
// It returns the rewritten content and the words it masked.
type ContentFilter interface {
	Censor(content string) (string, []string)
}
