package domain

import "time"

// TurnState is the authoritative per-conversation record of who may send the
// next message. Exactly one component (the turn manager) mutates it; every
// other component treats it as read-only.
type TurnState struct {
	ConversationID string
	// NextActorID is a user id, ActorAssistant, or nil meaning anyone may send.
	NextActorID *string
	// NextRole is set by role-based policies instead of a concrete actor id.
	NextRole string
	// TurnQueue is an ordered list of actor ids or roles for round-style cycling.
	TurnQueue []string
	// CurrentIndex counts accepted human messages since the assistant last
	// spoke, or since initialization. Round policies read it to decide when a
	// full pass has accumulated.
	CurrentIndex int
	UpdatedAt    time.Time
}

// AnyoneMaySend reports whether the state enforces no next speaker.
func (s *TurnState) AnyoneMaySend() bool {
	return s == nil || (s.NextActorID == nil && s.NextRole == "")
}

// NextActor returns the enforced next actor id, or "" when anyone may send.
func (s *TurnState) NextActor() string {
	if s == nil || s.NextActorID == nil {
		return ""
	}
	return *s.NextActorID
}

// NextIs reports whether the turn is currently held by the given actor id.
func (s *TurnState) NextIs(actorID string) bool {
	return s != nil && s.NextActorID != nil && *s.NextActorID == actorID
}
