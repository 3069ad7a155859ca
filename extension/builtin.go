package extension

import (
	"context"
	"sync"

	"parley/domain/event"
)

// Analytics counts observed events per conversation. Purely observational;
// it never emits anything back.
type Analytics struct {
	mu     sync.Mutex
	counts map[string]map[event.Type]uint64
}

func NewAnalytics() *Analytics {
	return &Analytics{counts: make(map[string]map[event.Type]uint64)}
}

func (*Analytics) Name() string { return "analytics" }

func (*Analytics) EventTypes() []event.Type {
	return []event.Type{
		event.MessageCreated, event.TurnChanged,
		event.AIResponseCompleted, event.ConversationCompleted,
	}
}

func (*Analytics) Initialize(context.Context, string, map[string]any) error { return nil }
func (*Analytics) Activate(context.Context, string) error                   { return nil }

func (a *Analytics) Deactivate(_ context.Context, conversationID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.counts, conversationID)
	return nil
}

func (a *Analytics) HandleEvent(_ context.Context, evt event.Event) Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.counts[evt.ConversationID] == nil {
		a.counts[evt.ConversationID] = make(map[event.Type]uint64)
	}
	a.counts[evt.ConversationID][evt.Type]++
	return Result{Success: true}
}

// Counts returns a copy of the per-type counters of one conversation.
func (a *Analytics) Counts(conversationID string) map[event.Type]uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	res := make(map[event.Type]uint64, len(a.counts[conversationID]))
	for t, n := range a.counts[conversationID] {
		res[t] = n
	}
	return res
}

// CompletionWatcher closes a conversation when a participant sends the
// configured closing phrase (default "/done"), by returning a
// conversation.completed event for the manager to re-emit.
type CompletionWatcher struct {
	mu      sync.Mutex
	phrases map[string]string
}

func NewCompletionWatcher() *CompletionWatcher {
	return &CompletionWatcher{phrases: make(map[string]string)}
}

func (*CompletionWatcher) Name() string { return "completion-watcher" }

func (*CompletionWatcher) EventTypes() []event.Type {
	return []event.Type{event.MessageCreated}
}

func (w *CompletionWatcher) Initialize(_ context.Context, conversationID string, config map[string]any) error {
	phrase := "/done"
	if p, ok := config["phrase"].(string); ok && p != "" {
		phrase = p
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.phrases[conversationID] = phrase
	return nil
}

func (*CompletionWatcher) Activate(context.Context, string) error { return nil }

func (w *CompletionWatcher) Deactivate(_ context.Context, conversationID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.phrases, conversationID)
	return nil
}

func (w *CompletionWatcher) HandleEvent(_ context.Context, evt event.Event) Result {
	w.mu.Lock()
	phrase := w.phrases[evt.ConversationID]
	w.mu.Unlock()

	content, _ := evt.Data["content"].(string)
	if phrase == "" || content != phrase {
		return Result{Success: true}
	}
	return Result{
		Success: true,
		AdditionalEvents: []event.Event{
			event.NewConversationCompleted(evt.ConversationID, evt.ActorID),
		},
	}
}
