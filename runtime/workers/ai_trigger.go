package workers

import (
	"context"
	"log/slog"
	"time"

	"parley/bus"
	"parley/contract"
	"parley/domain"
	"parley/domain/event"
)

// TurnResetter recovers the turn state after a failed assistant reply so the
// conversation never stays stuck on the assistant.
type TurnResetter interface {
	ResetAfterAIFailure(ctx context.Context, conversationID string) error
}

type replyRequest struct {
	conversationID string
	correlationID  string
}

// AITriggerWorker watches committed turn transitions and requests an
// assistant reply whenever the turn lands on the assistant. The request is
// processed off the emitter's goroutine; its outcome is reported back as
// ai.response_* events.
type AITriggerWorker struct {
	log      *slog.Logger
	bus      *bus.Bus
	trigger  contract.AITrigger
	turns    TurnResetter
	requests chan replyRequest
	timeout  time.Duration
}

func NewAITriggerWorker(log *slog.Logger, b *bus.Bus, trigger contract.AITrigger,
	turns TurnResetter, bufferSize int, timeout time.Duration) *AITriggerWorker {
	w := &AITriggerWorker{
		log:      log,
		bus:      b,
		trigger:  trigger,
		turns:    turns,
		requests: make(chan replyRequest, bufferSize),
		timeout:  timeout,
	}
	b.Subscribe(event.TurnChanged, "ai-trigger", w.onTurnChanged, bus.Options{
		Filter: func(evt event.Event) bool {
			next, _ := evt.Data["next_actor_id"].(string)
			return domain.IsAssistant(next)
		},
	})
	return w
}

func (w *AITriggerWorker) onTurnChanged(_ context.Context, evt event.Event) error {
	select {
	case w.requests <- replyRequest{conversationID: evt.ConversationID, correlationID: evt.CorrelationID}:
	default:
		w.log.Warn("ai trigger queue full, dropping request", "conversation_id", evt.ConversationID)
	}
	return nil
}

func (w *AITriggerWorker) Run(ctx context.Context) error {
	for {
		select {
		case req := <-w.requests:
			w.process(ctx, req)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping ai trigger")
			return nil
		}
	}
}

func (w *AITriggerWorker) process(ctx context.Context, req replyRequest) {
	w.emit(ctx, event.NewAIResponseStarted(req.conversationID).WithCorrelation(req.correlationID))

	requestCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	if err := w.trigger.RequestReply(requestCtx, req.conversationID, req.correlationID); err != nil {
		w.log.Error("assistant reply request failed",
			"conversation_id", req.conversationID, "error", err)
		w.emit(ctx, event.NewAIResponseFailed(req.conversationID, err).WithCorrelation(req.correlationID))

		// Hand the turn back to a human so the conversation can continue.
		if resetErr := w.turns.ResetAfterAIFailure(ctx, req.conversationID); resetErr != nil {
			w.log.Error("failed to reset turn after assistant failure",
				"conversation_id", req.conversationID, "error", resetErr)
		}
		return
	}

	w.emit(ctx, event.NewAIResponseCompleted(req.conversationID).WithCorrelation(req.correlationID))
}

func (w *AITriggerWorker) emit(ctx context.Context, evt event.Event) {
	evt.Source = "ai-trigger"
	if err := w.bus.Emit(ctx, evt); err != nil {
		w.log.Error("failed to emit assistant event", "type", string(evt.Type), "error", err)
	}
}
