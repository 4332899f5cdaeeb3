package runtime

import (
	"dm-lab/contract"
	"sync"
)

type Set map[string]struct{}

// Registry maps conversation groups to the live connections listening to them.
// A connection is keyed by its own id, so a user with two browser tabs
// on the same conversation receives every event on both.
type Registry struct {
	mu           sync.RWMutex
	sessions     map[string]contract.EventSink // map connection -> Sink
	groupMembers map[string]Set                // map group -> connections
}

var _ contract.IRegistry = (*Registry)(nil)

func NewRegistry() *Registry {
	return &Registry{
		sessions:     make(map[string]contract.EventSink),
		groupMembers: make(map[string]Set),
	}
}

// GetSinksForGroup resolves the connections of a group into their sinks.
// Returns nil if nobody listens to the group.
func (r *Registry) GetSinksForGroup(group string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.groupMembers[group]
	if !ok {
		return nil
	}
	activeSinks := make([]contract.EventSink, 0, len(members))
	for connectionID := range members {
		if sink, exists := r.sessions[connectionID]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

// Subscribe registers a connection sink and attaches it to group.
// The group entry is created on the fly.
func (r *Registry) Subscribe(connectionID, group string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[connectionID] = sink
	if _, ok := r.groupMembers[group]; !ok {
		r.groupMembers[group] = make(Set)
	}
	r.groupMembers[group][connectionID] = struct{}{}
}

// Unsubscribe removes the connection and drops the group once empty.
func (r *Registry) Unsubscribe(connectionID, group string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, connectionID)
	if members, ok := r.groupMembers[group]; ok {
		delete(members, connectionID)
		if len(members) == 0 {
			delete(r.groupMembers, group)
		}
	}
}
