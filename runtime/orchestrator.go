package runtime

import (
	"context"
	"log/slog"
	"sync"

	"parley/bus"
	"parley/contract"
	"parley/domain/event"
	"parley/runtime/workers"
)

// broadcastPriority forwards events to clients after every core handler has
// observed the commit.
const broadcastPriority = 80

// Orchestrator owns the realtime side of the mediator: the registry of
// connected participants, the broadcast bridge from the bus to client sinks,
// and the supervised worker pool. It contains no turn or policy decisions.
type Orchestrator struct {
	mu         sync.Mutex
	log        *slog.Logger
	bus        *bus.Bus
	supervisor contract.ISupervisor
	registry   *Registry
	broadcast  *workers.BroadcastWorker
	workers    []contract.Worker
}

func NewOrchestrator(log *slog.Logger, b *bus.Bus, supervisor contract.ISupervisor,
	registry *Registry, broadcast *workers.BroadcastWorker) *Orchestrator {
	return &Orchestrator{
		log:        log,
		bus:        b,
		supervisor: supervisor,
		registry:   registry,
		broadcast:  broadcast,
	}
}

// AddWorkers registers extra workers to supervise alongside the broadcaster.
func (o *Orchestrator) AddWorkers(extra ...contract.Worker) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.workers = append(o.workers, extra...)
}

// RegisterParticipant connects a participant's sink to a conversation.
func (o *Orchestrator) RegisterParticipant(participantID, conversationID string, sink contract.EventSink) {
	o.registry.Subscribe(participantID, conversationID, sink)
}

// UnregisterParticipant disconnects a participant.
func (o *Orchestrator) UnregisterParticipant(participantID, conversationID string) {
	o.registry.Unsubscribe(participantID, conversationID)
}

// Start bridges the bus to the broadcaster and runs all supervised workers.
// It blocks until Stop is called or the context is cancelled.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.bus.SubscribeAll("broadcast-bridge", func(_ context.Context, evt event.Event) error {
		return o.broadcast.Forward(evt)
	}, bus.Options{Priority: broadcastPriority})

	o.mu.Lock()
	o.supervisor.Add(o.broadcast)
	for _, w := range o.workers {
		o.supervisor.Add(w)
	}
	o.mu.Unlock()

	o.log.Info("Starting orchestrator and all supervised workers")
	o.supervisor.Run(ctx)
	return nil
}

// Stop initiates a graceful shutdown: the supervision context is cancelled
// and Start returns once every worker has drained.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.supervisor.Stop()
}
