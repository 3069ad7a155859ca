package services

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"parley/bus"
	"parley/domain"
	"parley/domain/event"
	"parley/errors"
	"parley/moderation"
	"parley/repositories"
	"parley/search"
	"parley/session"
	"parley/turn"
)

type fixture struct {
	service       *ChatService
	bus           *bus.Bus
	conversations repositories.ConversationRepository
	participants  repositories.ParticipantRepository
	turnStates    repositories.TurnStateRepository
	turns         *turn.Manager

	mu       sync.Mutex
	captured []event.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	req := require.New(t)
	log := slog.Default()

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	writer, err := bluge.OpenWriter(bluge.InMemoryOnlyConfig())
	req.NoError(err)
	t.Cleanup(func() { _ = writer.Close() })

	moderator, err := moderation.NewModerator([]string{"badword"}, '*')
	req.NoError(err)

	b := bus.New(log)
	turnStates := repositories.NewTurnStateRepository(db)
	messages := repositories.NewMessageRepository(db, log, 50)
	participants := repositories.NewParticipantRepository(db)
	conversations := repositories.NewConversationRepository(db)
	typing := repositories.NewTypingStore(db)

	turns := turn.NewManager(log, b, turnStates, messages, participants, conversations, 20, time.Minute)
	sessions := session.NewAggregator(log, turnStates, messages, typing, conversations, 50, time.Second)
	index := search.NewIndex(writer, log)

	f := &fixture{
		bus:           b,
		conversations: conversations,
		participants:  participants,
		turnStates:    turnStates,
		turns:         turns,
	}
	f.service = NewChatService(log, b, moderator, index, turns, sessions,
		messages, participants, conversations, typing)

	for _, eventType := range []event.Type{event.MessageCreated, event.MessageFlagged, event.SettingsUpdated, event.TypingChanged} {
		b.Subscribe(eventType, "test-capture", func(_ context.Context, evt event.Event) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.captured = append(f.captured, evt)
			return nil
		}, bus.Options{})
	}
	return f
}

func (f *fixture) setup(t *testing.T, conversationID string, policy domain.PolicyName, members ...string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.conversations.Save(ctx, domain.Conversation{
		ID:        conversationID,
		Status:    domain.ConversationActive,
		Settings:  domain.Settings{Policy: policy},
		CreatedAt: time.Now().UTC(),
	}))
	for i, member := range members {
		role := domain.RoleParticipant
		if i == 0 {
			role = domain.RoleCreator
		}
		require.NoError(t, f.participants.Add(ctx, conversationID, domain.Participant{ID: member, Role: role}))
	}
}

func (f *fixture) eventsOf(eventType event.Type) []event.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []event.Event
	for _, evt := range f.captured {
		if evt.Type == eventType {
			res = append(res, evt)
		}
	}
	return res
}

func send(conversationID, actor, content string) domain.SendMessageCommand {
	return domain.SendMessageCommand{ConversationID: conversationID, ActorID: actor, Content: content}
}

func TestChatService_SendMessage_StoresAndEmits(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.setup(t, "conv-1", domain.PolicyFlexible, "Alice", "Bob")
	ctx := context.Background()

	msg, err := f.service.SendMessage(ctx, send("conv-1", "Alice", "hello there"))

	req.NoError(err)
	req.Equal("hello there", msg.Content)

	listed, _, err := f.service.GetMessages(ctx, domain.GetMessagesCommand{ConversationID: "conv-1"})
	req.NoError(err)
	req.Len(listed, 1)
	req.Equal(msg.ID, listed[0].ID)

	created := f.eventsOf(event.MessageCreated)
	req.Len(created, 1)
	req.Equal("Alice", created[0].ActorID)
	req.NotEmpty(created[0].CorrelationID)
}

func TestChatService_SendMessage_EnforcesStrictAlternation(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.setup(t, "conv-1", domain.PolicyStrict, "Alice", "Bob")
	ctx := context.Background()

	_, err := f.turns.InitializeTurn(ctx, "conv-1", "Alice", false)
	req.NoError(err)

	// When Bob tries to speak out of turn
	_, err = f.service.SendMessage(ctx, send("conv-1", "Bob", "me first"))
	req.ErrorIs(err, errors.ErrNotYourTurn)

	// Then Alice speaks and the turn passes to Bob
	_, err = f.service.SendMessage(ctx, send("conv-1", "Alice", "my turn"))
	req.NoError(err)

	_, err = f.service.SendMessage(ctx, send("conv-1", "Bob", "now mine"))
	req.NoError(err)
}

func TestChatService_SendMessage_MasksAndFlagsCensoredContent(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.setup(t, "conv-1", domain.PolicyFlexible, "Alice")
	ctx := context.Background()

	msg, err := f.service.SendMessage(ctx, send("conv-1", "Alice", "what a badword here"))

	req.NoError(err)
	req.Equal("what a ******* here", msg.Content)

	flagged := f.eventsOf(event.MessageFlagged)
	req.Len(flagged, 1)
	req.Equal([]string{"badword"}, flagged[0].Data["words"])
}

func TestChatService_SendMessage_RejectsWhileAssistantReplyInFlight(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.setup(t, "conv-1", domain.PolicyRounds, "Alice", "Bob")
	ctx := context.Background()

	// Given a full human pass just handed the turn to the assistant
	_, err := f.service.SendMessage(ctx, send("conv-1", "Alice", "opening thoughts"))
	req.NoError(err)
	_, err = f.service.SendMessage(ctx, send("conv-1", "Bob", "my take"))
	req.NoError(err)

	state, err := f.turnStates.Load(ctx, "conv-1")
	req.NoError(err)
	req.True(state.NextIs(domain.ActorAssistant))

	// When Alice sends again before the assistant has answered
	_, err = f.service.SendMessage(ctx, send("conv-1", "Alice", "jumping back in"))

	// Then the turn stays with the assistant and the send is rejected
	req.ErrorIs(err, errors.ErrNotYourTurn)

	after, err := f.turnStates.Load(ctx, "conv-1")
	req.NoError(err)
	req.True(after.NextIs(domain.ActorAssistant))

	// And the assistant's reply still goes through
	_, err = f.service.SendMessage(ctx, send("conv-1", domain.ActorAssistant, "let me summarize"))
	req.NoError(err)
}

func TestChatService_SendMessage_RepairsDepartedNextActor(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.setup(t, "conv-1", domain.PolicyStrict, "Alice", "Bob")
	ctx := context.Background()

	// Given a turn state pinned to someone who is no longer a participant
	ghost := "Ghost"
	req.NoError(f.turnStates.Save(ctx, domain.TurnState{
		ConversationID: "conv-1",
		NextActorID:    &ghost,
		UpdatedAt:      time.Now().UTC(),
	}))

	// When the creator sends, the state is re-synthesized and the send accepted
	_, err := f.service.SendMessage(ctx, send("conv-1", "Alice", "is anyone there"))
	req.NoError(err)

	state, err := f.turnStates.Load(ctx, "conv-1")
	req.NoError(err)
	req.Equal("Bob", state.NextActor())
}

func TestChatService_SendMessage_RejectsNonParticipant(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.setup(t, "conv-1", domain.PolicyFlexible, "Alice")

	_, err := f.service.SendMessage(context.Background(), send("conv-1", "Mallory", "let me in"))

	req.ErrorIs(err, errors.ErrNotParticipant)
}

func TestChatService_SendMessage_RejectsEmptyContent(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.setup(t, "conv-1", domain.PolicyFlexible, "Alice")

	_, err := f.service.SendMessage(context.Background(), send("conv-1", "Alice", "   "))

	req.ErrorIs(err, errors.ErrEmptyContent)
}

func TestChatService_ChangePolicy(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.setup(t, "conv-1", domain.PolicyFlexible, "Alice", "Bob")
	ctx := context.Background()

	// Unknown policies are rejected before touching anything
	err := f.service.ChangePolicy(ctx, "conv-1", domain.Settings{Policy: "anarchy"}, "Alice")
	req.ErrorIs(err, errors.ErrUnknownPolicy)

	// A valid change persists the settings and re-initializes the turn
	err = f.service.ChangePolicy(ctx, "conv-1", domain.Settings{Policy: domain.PolicyStrict}, "Alice")
	req.NoError(err)

	conv, err := f.conversations.Load(ctx, "conv-1")
	req.NoError(err)
	req.Equal(domain.PolicyStrict, conv.Settings.Policy)

	req.Len(f.eventsOf(event.SettingsUpdated), 1)

	// Strict alternation is now enforced with Alice as first speaker
	_, err = f.service.SendMessage(ctx, send("conv-1", "Bob", "too early"))
	req.ErrorIs(err, errors.ErrNotYourTurn)
}

func TestChatService_SetTyping_EmitsAndComposes(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.setup(t, "conv-1", domain.PolicyFlexible, "Alice")
	ctx := context.Background()

	err := f.service.SetTyping(ctx, domain.SetTypingCommand{ConversationID: "conv-1", ActorID: "Alice", Typing: true})
	req.NoError(err)

	req.Len(f.eventsOf(event.TypingChanged), 1)

	snapshot, err := f.service.GetSessionState(ctx, "conv-1", true)
	req.NoError(err)
	req.Contains(snapshot.TypingUsers, "Alice")
}

func TestChatService_Search_FindsAcceptedMessages(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.setup(t, "conv-1", domain.PolicyFlexible, "Alice", "Bob")
	ctx := context.Background()

	_, err := f.service.SendMessage(ctx, send("conv-1", "Alice", "the deadline moved to friday"))
	req.NoError(err)
	_, err = f.service.SendMessage(ctx, send("conv-1", "Bob", "noted"))
	req.NoError(err)

	hits, err := f.service.Search(ctx, "conv-1", "/find deadline")

	req.NoError(err)
	req.Len(hits, 1)
	req.Equal("Alice", hits[0].SenderID)
}

func TestChatService_Search_RejectsEmptyTerms(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	_, err := f.service.Search(context.Background(), "conv-1", "/find")

	req.ErrorIs(err, errors.ErrInvalidPayload)
}

func TestToStatusError_Mapping(t *testing.T) {
	req := require.New(t)

	req.Nil(ToStatusError(nil))
	req.Equal(codes.PermissionDenied, status.Code(ToStatusError(errors.ErrNotParticipant)))
	req.Equal(codes.FailedPrecondition, status.Code(ToStatusError(errors.ErrNotYourTurn)))
	req.Equal(codes.InvalidArgument, status.Code(ToStatusError(errors.ErrEmptyContent)))
	req.Equal(codes.InvalidArgument, status.Code(ToStatusError(errors.ErrUnknownPolicy)))
	req.Equal(codes.Internal, status.Code(ToStatusError(errors.ErrTurnStateCorrupted)))
}
