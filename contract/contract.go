//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"

	"parley/domain"
)

// TurnStateRepository persists the authoritative turn record. Load returns
// (nil, nil) when no state exists yet; absence is a recoverable condition.
// Implementations must provide at least read-committed isolation.
type TurnStateRepository interface {
	Load(ctx context.Context, conversationID string) (*domain.TurnState, error)
	Save(ctx context.Context, state domain.TurnState) error
}

type MessageRepository interface {
	Store(ctx context.Context, message domain.Message) error
	// Recent returns up to limit messages, oldest first.
	Recent(ctx context.Context, conversationID string, limit int) ([]domain.Message, error)
	// List paginates backwards from the cursor, newest first.
	List(ctx context.Context, conversationID string, cursor *string) ([]domain.Message, *string, error)
}

// ParticipantRepository exposes conversation membership, ordered by join
// order. Membership is owned elsewhere; the turn core only reads it.
type ParticipantRepository interface {
	List(ctx context.Context, conversationID string) ([]domain.Participant, error)
	Add(ctx context.Context, conversationID string, participant domain.Participant) error
}

type ConversationRepository interface {
	Load(ctx context.Context, conversationID string) (*domain.Conversation, error)
	Save(ctx context.Context, conversation domain.Conversation) error
}

// TypingStore tracks ephemeral typing presence with a short implicit TTL.
// Used only for composing session snapshots, never for turn decisions.
type TypingStore interface {
	SetTyping(ctx context.Context, conversationID, userID string, typing bool) error
	TypingUsers(ctx context.Context, conversationID string) ([]string, error)
}

// Broadcaster fans committed state changes out to connected clients.
// Best-effort: failures must never roll back the committed change.
type Broadcaster interface {
	Publish(ctx context.Context, conversationID, eventName string, payload map[string]any) error
}

// AITrigger requests an assistant reply after the policy hands the turn to
// the assistant. Invoked asynchronously; its outcome is observed through
// ai.response_* events, never awaited.
type AITrigger interface {
	RequestReply(ctx context.Context, conversationID, correlationID string) error
}
