// Package presence keeps track of which users hold at least one live connection.
// A user is online while one or more connection ids are registered for them.
package presence

import (
	"context"
	"dm-lab/contract"
	"sort"
	"sync"
)

type set map[string]struct{}

// MemoryTracker is the single-instance tracker, lost on restart.
type MemoryTracker struct {
	mu          sync.RWMutex
	connections map[string]set // map username -> connection ids
}

var _ contract.PresenceTracker = (*MemoryTracker)(nil)

func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{connections: make(map[string]set)}
}

func (t *MemoryTracker) UserConnected(_ context.Context, username, connectionID string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids, ok := t.connections[username]
	if !ok {
		ids = make(set)
		t.connections[username] = ids
	}
	ids[connectionID] = struct{}{}
	return !ok, nil
}

// UserDisconnected removes the user entry once its last connection is gone.
// Unknown users or connections are ignored.
func (t *MemoryTracker) UserDisconnected(_ context.Context, username, connectionID string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids, ok := t.connections[username]
	if !ok {
		return false, nil
	}
	delete(ids, connectionID)
	if len(ids) == 0 {
		delete(t.connections, username)
		return true, nil
	}
	return false, nil
}

// Refresh is a no-op, memory entries live until UserDisconnected.
func (t *MemoryTracker) Refresh(context.Context, string, string) error {
	return nil
}

func (t *MemoryTracker) IsOnline(_ context.Context, username string) (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.connections[username]
	return ok, nil
}

// OnlineUsers returns the usernames sorted alphabetically.
func (t *MemoryTracker) OnlineUsers(_ context.Context) ([]string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	users := make([]string, 0, len(t.connections))
	for username := range t.connections {
		users = append(users, username)
	}
	sort.Strings(users)
	return users, nil
}
