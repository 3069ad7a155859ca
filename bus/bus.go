// Package bus provides the in-process publish/subscribe dispatcher of the
// turn core.
//
// Delivery is at-most-once and best-effort: no persistence, no replay, no
// retry. Synchronous handlers run in ascending priority order on the caller's
// goroutine; async handlers are dispatched fire-and-forget and their failures
// are converted into internal system.error_occurred events, never propagated
// to the emitter.
package bus

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"parley/domain/event"
)

// HandlerFunc processes one event. A returned error is recorded and contained;
// it never fails the emit or sibling handlers.
type HandlerFunc func(ctx context.Context, evt event.Event) error

// Options tunes one subscription.
type Options struct {
	// Priority orders synchronous execution; lower runs earlier. Zero is fine.
	Priority int
	// Filter drops events before the handler sees them. Nil accepts all.
	Filter func(evt event.Event) bool
	// Async dispatches the handler without the emitter waiting.
	Async bool
}

type subscription struct {
	name string
	fn   HandlerFunc
	opts Options
}

// Stats is a point-in-time view of bus activity.
type Stats struct {
	Emitted  uint64
	Handled  uint64
	Errors   uint64
	Handlers int
}

// Bus dispatches events to registered handlers. Safe for concurrent use.
// The subscription table is mutated at wiring/activation time only, not on
// the hot path.
type Bus struct {
	log       *slog.Logger
	source    string
	threshold float64

	mu   sync.RWMutex
	subs map[event.Type][]subscription

	emitted atomic.Uint64
	handled atomic.Uint64
	failed  atomic.Uint64
}

// defaultErrorRateThreshold is the error/handled ratio above which
// IsHealthy reports false. Operators use it for coarse circuit-breaking;
// the bus itself never stops dispatching.
const defaultErrorRateThreshold = 0.10

func New(log *slog.Logger) *Bus {
	return &Bus{
		log:       log,
		source:    "bus",
		threshold: defaultErrorRateThreshold,
		subs:      make(map[event.Type][]subscription),
	}
}

// Subscribe registers a named handler for one event type. Registering the
// same name twice for a type is a no-op with a warning, not an error.
func (b *Bus) Subscribe(t event.Type, name string, fn HandlerFunc, opts Options) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs[t] {
		if sub.name == name {
			b.log.Warn("duplicate subscription ignored", "handler", name, "type", string(t))
			return
		}
	}
	b.subs[t] = append(b.subs[t], subscription{name: name, fn: fn, opts: opts})
}

// SubscribeAll registers the handler for every type in the catalog.
func (b *Bus) SubscribeAll(name string, fn HandlerFunc, opts Options) {
	for _, t := range event.Types() {
		b.Subscribe(t, name, fn, opts)
	}
}

// Unsubscribe removes the named handler from one event type.
func (b *Bus) Unsubscribe(t event.Type, name string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[t]
	for i, sub := range subs {
		if sub.name == name {
			b.subs[t] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Emit normalizes the envelope and dispatches it. Emitting with zero
// registered handlers returns nil. The only error Emit can return is an
// invalid envelope; handler failures are contained.
func (b *Bus) Emit(ctx context.Context, evt event.Event) error {
	evt = evt.Normalized(b.source)
	if err := evt.Validate(); err != nil {
		return err
	}
	b.emitted.Add(1)

	b.mu.RLock()
	matching := make([]subscription, len(b.subs[evt.Type]))
	copy(matching, b.subs[evt.Type])
	b.mu.RUnlock()

	sort.SliceStable(matching, func(i, j int) bool {
		return matching[i].opts.Priority < matching[j].opts.Priority
	})

	for _, sub := range matching {
		if sub.opts.Filter != nil && !sub.opts.Filter(evt) {
			continue
		}
		if sub.opts.Async {
			go b.invoke(ctx, sub, evt)
			continue
		}
		b.invoke(ctx, sub, evt)
	}
	return nil
}

// invoke runs one handler, recovering panics so a failing handler never
// blocks or fails its siblings.
func (b *Bus) invoke(ctx context.Context, sub subscription, evt event.Event) {
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("handler %s panicked: %v", sub.name, r)
			}
		}()
		return sub.fn(ctx, evt)
	}()

	b.handled.Add(1)
	if err == nil {
		return
	}
	b.failed.Add(1)
	b.log.Error("event handler failed",
		"handler", sub.name, "type", string(evt.Type),
		"conversation_id", evt.ConversationID, "error", err)

	// Surface the contained failure as an observability event. Failures of
	// error-event handlers themselves stop here or emission would recurse.
	if evt.Type == event.ErrorOccurred {
		return
	}
	errEvt := event.NewErrorOccurred(evt.ConversationID, sub.name, err).
		WithCorrelation(evt.CorrelationID)
	if emitErr := b.Emit(ctx, errEvt); emitErr != nil {
		b.log.Error("failed to emit error event", "error", emitErr)
	}
}

// Stats returns emitted/handled/error counters and the handler count.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	handlers := 0
	for _, subs := range b.subs {
		handlers += len(subs)
	}
	b.mu.RUnlock()

	return Stats{
		Emitted:  b.emitted.Load(),
		Handled:  b.handled.Load(),
		Errors:   b.failed.Load(),
		Handlers: handlers,
	}
}

// IsHealthy reports whether the handler error rate is below the threshold.
// A bus that has handled nothing yet is healthy.
func (b *Bus) IsHealthy() bool {
	handled := b.handled.Load()
	if handled == 0 {
		return true
	}
	rate := float64(b.failed.Load()) / float64(handled)
	return rate < b.threshold
}
