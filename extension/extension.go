// Package extension lets auxiliary behaviors observe and augment the event
// pipeline without being load-bearing: extension failures are logged and
// never block message or turn processing.
package extension

import (
	"context"

	"parley/domain/event"
)

// Result is what an extension reports after handling one event.
// AdditionalEvents are re-emitted through the bus by the manager.
type Result struct {
	Success          bool
	Err              error
	AdditionalEvents []event.Event
}

// Extension is an auxiliary behavior activated per conversation.
// Lifecycle: Initialize once per activation with its configuration, Activate
// when it starts observing, Deactivate when it stops.
type Extension interface {
	Name() string
	// EventTypes declares the catalog entries the extension wants to observe.
	EventTypes() []event.Type
	Initialize(ctx context.Context, conversationID string, config map[string]any) error
	Activate(ctx context.Context, conversationID string) error
	Deactivate(ctx context.Context, conversationID string) error
	HandleEvent(ctx context.Context, evt event.Event) Result
}
