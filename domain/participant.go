// Package domain contains core concepts of the mediated conversation system.
// This file defines Participant entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

// ActorAssistant is the sentinel actor id of the AI mediator. The assistant
// is never listed among conversation participants but may hold the turn.
const ActorAssistant = "assistant"

type Role string

const (
	RoleCreator     Role = "creator"
	RoleParticipant Role = "participant"
	RoleGuest       Role = "guest"
)

// Participant is a member of a conversation. Membership is owned by an
// external collaborator; the turn core only ever reads participants.
type Participant struct {
	ID          string
	Role        Role
	DisplayName string
}

// IsAssistant reports whether an actor id refers to the AI mediator.
func IsAssistant(actorID string) bool {
	return actorID == ActorAssistant
}
