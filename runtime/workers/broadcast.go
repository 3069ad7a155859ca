package workers

import (
	"context"
	"log/slog"
	"time"

	"parley/contract"
	"parley/domain/event"
)

// SinkDirectory resolves the connected sinks of one conversation.
type SinkDirectory interface {
	SinksFor(conversationID string) []contract.EventSink
}

// BroadcastWorker delivers committed events to connected client sinks.
//
// It provides best-effort fan-out with no guarantees regarding delivery,
// ordering, durability, or retries. It is not a message broker. A slow or
// broken sink is skipped, never waited on beyond the sink timeout.
type BroadcastWorker struct {
	log         *slog.Logger
	registry    SinkDirectory
	queue       chan event.Event
	sinkTimeout time.Duration
}

func NewBroadcastWorker(log *slog.Logger, registry SinkDirectory, bufferSize int, sinkTimeout time.Duration) *BroadcastWorker {
	return &BroadcastWorker{
		log:         log,
		registry:    registry,
		queue:       make(chan event.Event, bufferSize),
		sinkTimeout: sinkTimeout,
	}
}

// Forward enqueues one event for delivery. Never blocks the emitter: when
// the queue is full the event is dropped with a log line.
func (w *BroadcastWorker) Forward(evt event.Event) error {
	select {
	case w.queue <- evt:
	default:
		w.log.Warn("broadcast queue full, dropping event",
			"type", string(evt.Type), "conversation_id", evt.ConversationID)
	}
	return nil
}

// Publish implements contract.Broadcaster for callers outside the bus.
func (w *BroadcastWorker) Publish(_ context.Context, conversationID, eventName string, payload map[string]any) error {
	return w.Forward(event.Event{
		Type:           event.Type(eventName),
		ConversationID: conversationID,
		Timestamp:      time.Now().UTC(),
		Data:           payload,
	})
}

func (w *BroadcastWorker) Run(ctx context.Context) error {
	for {
		select {
		case evt := <-w.queue:
			w.fanout(ctx, evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping broadcast delivery")
			return nil
		}
	}
}

func (w *BroadcastWorker) fanout(ctx context.Context, evt event.Event) {
	sinks := w.registry.SinksFor(evt.ConversationID)
	for _, sink := range sinks {
		sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
		if err := sink.Consume(sinkCtx, evt); err != nil {
			w.log.Debug("sink dropped event",
				"type", string(evt.Type), "conversation_id", evt.ConversationID, "error", err)
		}
		cancel()
	}
}
