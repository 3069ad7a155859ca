// Package session composes the per-conversation read model: turn state,
// recent messages, typing presence and completion status in one consistent
// snapshot. The aggregator is a pure read layer with a short-lived cache; it
// never writes to the underlying sources.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"parley/bus"
	"parley/contract"
	"parley/domain"
	"parley/domain/event"
)

// DefaultTTL bounds how stale a cached snapshot may get before GetState
// recomposes it.
const DefaultTTL = 2 * time.Second

// Snapshot is a composed, point-in-time view for client consumption.
// Degraded lists the facets that were omitted because their source failed.
type Snapshot struct {
	ConversationID string
	Messages       []domain.Message
	TurnState      *domain.TurnState
	TypingUsers    []string
	Completion     domain.CompletionStatus
	ComposedAt     time.Time
	Degraded       []string
}

type cached struct {
	snapshot Snapshot
	at       time.Time
}

type Aggregator struct {
	log           *slog.Logger
	turns         contract.TurnStateRepository
	messages      contract.MessageRepository
	typing        contract.TypingStore
	conversations contract.ConversationRepository
	limit         int
	ttl           time.Duration

	mu    sync.RWMutex
	cache map[string]cached
}

func NewAggregator(
	log *slog.Logger,
	turns contract.TurnStateRepository,
	messages contract.MessageRepository,
	typing contract.TypingStore,
	conversations contract.ConversationRepository,
	limit int,
	ttl time.Duration,
) *Aggregator {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Aggregator{
		log:           log,
		turns:         turns,
		messages:      messages,
		typing:        typing,
		conversations: conversations,
		limit:         limit,
		ttl:           ttl,
		cache:         make(map[string]cached),
	}
}

// GetState returns a cached snapshot unless forceFresh is set or the cache
// entry is older than the TTL. On partially available sources it degrades
// gracefully: the failing facet is omitted, never the whole snapshot.
func (a *Aggregator) GetState(ctx context.Context, conversationID string, forceFresh bool) (Snapshot, error) {
	if !forceFresh {
		a.mu.RLock()
		entry, ok := a.cache[conversationID]
		a.mu.RUnlock()
		if ok && time.Since(entry.at) < a.ttl {
			return entry.snapshot, nil
		}
	}

	snapshot := a.compose(ctx, conversationID)

	a.mu.Lock()
	a.cache[conversationID] = cached{snapshot: snapshot, at: time.Now()}
	a.mu.Unlock()
	return snapshot, nil
}

func (a *Aggregator) compose(ctx context.Context, conversationID string) Snapshot {
	snapshot := Snapshot{
		ConversationID: conversationID,
		Completion:     domain.ConversationActive,
		ComposedAt:     time.Now().UTC(),
	}

	if state, err := a.turns.Load(ctx, conversationID); err != nil {
		a.degrade(&snapshot, "turn_state", err)
	} else {
		snapshot.TurnState = state
	}

	if messages, err := a.messages.Recent(ctx, conversationID, a.limit); err != nil {
		a.degrade(&snapshot, "messages", err)
	} else {
		snapshot.Messages = messages
	}

	if users, err := a.typing.TypingUsers(ctx, conversationID); err != nil {
		a.degrade(&snapshot, "typing", err)
	} else {
		snapshot.TypingUsers = users
	}

	if conv, err := a.conversations.Load(ctx, conversationID); err != nil {
		a.degrade(&snapshot, "completion", err)
	} else if conv != nil {
		snapshot.Completion = conv.Status
	}

	return snapshot
}

func (a *Aggregator) degrade(s *Snapshot, facet string, err error) {
	a.log.Warn("session facet unavailable, omitting it",
		"conversation_id", s.ConversationID, "facet", facet, "error", err)
	s.Degraded = append(s.Degraded, facet)
}

// Invalidate drops the cached snapshot of one conversation.
func (a *Aggregator) Invalidate(conversationID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.cache, conversationID)
}

// Forget releases all cached state of a conversation; called when the
// conversation is torn down to keep the cache bounded.
func (a *Aggregator) Forget(conversationID string) {
	a.Invalidate(conversationID)
}

// RegisterInvalidation subscribes the aggregator to the events that make its
// cache stale.
func (a *Aggregator) RegisterInvalidation(b *bus.Bus) {
	invalidate := func(ctx context.Context, evt event.Event) error {
		a.Invalidate(evt.ConversationID)
		return nil
	}
	for _, t := range []event.Type{
		event.MessageCreated, event.TurnChanged, event.TurnReset,
		event.TypingChanged, event.ConversationCompleted, event.SettingsUpdated,
	} {
		b.Subscribe(t, "session-invalidation", invalidate, bus.Options{Priority: 50})
	}
}
