// Package event defines the typed envelope broadcast internally for decoupled
// reactions, plus the catalog of event types and builder helpers.
package event

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is an immutable fact about something that happened in a conversation.
// CorrelationID threads through every event caused by one logical operation.
type Event struct {
	Type           Type
	ConversationID string
	ActorID        string // optional
	Timestamp      time.Time
	CorrelationID  string
	Source         string // origin component name
	Data           map[string]any
}

// Validate enforces the envelope invariant: a non-empty type and conversation
// id. System-wide events use the "system" conversation id.
func (e Event) Validate() error {
	if e.Type == "" {
		return fmt.Errorf("event has no type")
	}
	if e.ConversationID == "" {
		return fmt.Errorf("event %s has no conversation id", e.Type)
	}
	return nil
}

// Normalized returns a copy with missing timestamp, correlation id and source
// filled in. The original is never mutated.
func (e Event) Normalized(source string) Event {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	if e.CorrelationID == "" {
		e.CorrelationID = uuid.NewString()
	}
	if e.Source == "" {
		e.Source = source
	}
	return e
}

// WithCorrelation returns a copy carrying the given correlation id, used to
// thread causality across events of one operation.
func (e Event) WithCorrelation(correlationID string) Event {
	e.CorrelationID = correlationID
	return e
}
