// Package runtime wires the supervised workers, the realtime registry, and
// the orchestrator together. It contains no turn or policy logic.
package runtime

import (
	"sync"

	"parley/contract"
)

type Set map[string]struct{}

// Registry tracks connected participants and their event sinks.
type Registry struct {
	mu sync.RWMutex
	// Sessions maps participant id to their active connection sink.
	Sessions map[string]contract.EventSink
	// Members maps conversation id to the set of connected participant ids.
	Members map[string]Set
}

func NewRegistry() *Registry {
	return &Registry{
		Sessions: make(map[string]contract.EventSink),
		Members:  make(map[string]Set),
	}
}

// SinksFor retrieves all active connection sinks of one conversation.
// It performs a two-step lookup:
// 1. Identifies participant ids connected to the conversation via Members.
// 2. Resolves those ids into actual EventSinks using the Sessions map.
//
// This decoupled approach ensures that even if a user is in multiple
// conversations, their connection (Sink) is managed in a single place.
// Returns nil if the conversation has no connected members.
func (r *Registry) SinksFor(conversationID string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.Members[conversationID]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for participantID := range members {
		if sink, exists := r.Sessions[participantID]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

// Subscribe registers a participant's active connection and binds it to a
// conversation. The conversation entry is initialized on the fly.
func (r *Registry) Subscribe(participantID, conversationID string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Sessions[participantID] = sink

	if _, ok := r.Members[conversationID]; !ok {
		r.Members[conversationID] = make(Set)
	}
	r.Members[conversationID][participantID] = struct{}{}
}

// Unsubscribe removes a participant's connection. Empty member sets are
// removed to keep the map from growing with dead conversations.
func (r *Registry) Unsubscribe(participantID, conversationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.Sessions, participantID)

	if members, ok := r.Members[conversationID]; ok {
		delete(members, participantID)

		if len(members) == 0 {
			delete(r.Members, conversationID)
		}
	}
}
