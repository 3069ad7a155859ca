package runtime

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"parley/domain/event"
)

type Sink struct {
}

func (s Sink) Consume(ctx context.Context, e event.Event) error {
	return nil
}

func TestRegistry_Subscribe_One_Conversation_One_Participant(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	participantID := uuid.NewString()
	conversationID := "conv-1"
	sink := Sink{}

	// Given no user is connected
	// And no conversation exists
	req.Empty(registry.Sessions)
	req.Empty(registry.Members)

	// When a participant subscribes a conversation
	registry.Subscribe(participantID, conversationID, sink)

	// Then
	req.Len(registry.Sessions, 1)
	req.Equal(sink, registry.Sessions[participantID])

	req.Len(registry.Members, 1)
	req.Contains(registry.Members[conversationID], participantID)

	req.Len(registry.SinksFor(conversationID), 1)
	req.Contains(registry.SinksFor(conversationID), sink)
}

func TestRegistry_Subscribe_One_Conversation_Multiple_Participants(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	participantID1 := uuid.NewString()
	participantID2 := uuid.NewString()
	conversationID := "conv-1"
	sink1 := Sink{}
	sink2 := Sink{}

	// When participants subscribe a conversation
	registry.Subscribe(participantID1, conversationID, sink1)
	registry.Subscribe(participantID2, conversationID, sink2)

	// Then
	req.Len(registry.Sessions, 2)
	req.Len(registry.Members[conversationID], 2)

	req.Len(registry.SinksFor(conversationID), 2)
	req.Contains(registry.SinksFor(conversationID), sink1)
}

func TestRegistry_UnSubscribe_One_Conversation_One_Participant(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	participantID := uuid.NewString()
	conversationID := "conv-1"
	sink := Sink{}

	// Given a participant subscribes a conversation
	registry.Subscribe(participantID, conversationID, sink)

	// When a participant unsubscribes a conversation
	registry.Unsubscribe(participantID, conversationID)

	// Then no participant left
	// And the conversation doesn't exist anymore
	req.Empty(registry.Sessions)
	req.Empty(registry.Members)

	// And no participant connected left in the conversation
	req.Nil(registry.SinksFor(conversationID))
}

func TestRegistry_UnSubscribe_One_Conversation_Multiple_Participants(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	participantID1 := uuid.NewString()
	participantID2 := uuid.NewString()
	conversationID := "conv-1"
	sink1 := Sink{}
	sink2 := Sink{}

	// When participants subscribe a conversation
	registry.Subscribe(participantID1, conversationID, sink1)
	registry.Subscribe(participantID2, conversationID, sink2)

	// When a participant unsubscribes a conversation
	registry.Unsubscribe(participantID1, conversationID)

	// Then only one participant left
	req.Len(registry.Sessions, 1)
	req.Len(registry.Members[conversationID], 1)

	req.Len(registry.SinksFor(conversationID), 1)
	req.Contains(registry.SinksFor(conversationID), sink2)
}
