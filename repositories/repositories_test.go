package repositories

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"parley/domain"
)

func openDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func storedMessage(conversationID, sender, content string, at time.Time) domain.Message {
	return domain.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       sender,
		Content:        content,
		CreatedAt:      at,
	}
}

func Test_Store_And_Read_Recent_Messages(t *testing.T) {
	req := require.New(t)
	db := openDB(t)
	repository := NewMessageRepository(db, slog.Default(), 50)
	ctx := context.Background()
	at := time.Now().UTC()

	messages := []domain.Message{
		storedMessage("conv-1", "Alice", "first", at),
		storedMessage("conv-1", "Bob", "second", at.Add(1*time.Minute)),
		storedMessage("conv-1", "Clara", "third", at.Add(2*time.Minute)),
	}
	for _, msg := range messages {
		req.NoError(repository.Store(ctx, msg))
	}

	fetched, err := repository.Recent(ctx, "conv-1", 10)

	req.NoError(err)
	req.Equal(messages, fetched)
}

func Test_Recent_Returns_Newest_Window_Oldest_First(t *testing.T) {
	req := require.New(t)
	db := openDB(t)
	repository := NewMessageRepository(db, slog.Default(), 50)
	ctx := context.Background()
	at := time.Now().UTC()

	for i, sender := range []string{"Alice", "Bob", "Clara", "Dan"} {
		req.NoError(repository.Store(ctx, storedMessage("conv-1", sender, "msg", at.Add(time.Duration(i)*time.Minute))))
	}

	fetched, err := repository.Recent(ctx, "conv-1", 2)

	req.NoError(err)
	req.Len(fetched, 2)
	req.Equal("Clara", fetched[0].SenderID)
	req.Equal("Dan", fetched[1].SenderID)
}

func Test_List_Paginates_Backwards_With_Cursor(t *testing.T) {
	req := require.New(t)
	db := openDB(t)
	repository := NewMessageRepository(db, slog.Default(), 2)
	ctx := context.Background()
	at := time.Now().UTC()

	for i, sender := range []string{"Alice", "Bob", "Clara"} {
		req.NoError(repository.Store(ctx, storedMessage("conv-1", sender, "msg", at.Add(time.Duration(i)*time.Minute))))
	}

	first, cursor, err := repository.List(ctx, "conv-1", nil)
	req.NoError(err)
	req.Len(first, 2)
	req.Equal("Clara", first[0].SenderID)
	req.Equal("Bob", first[1].SenderID)

	second, _, err := repository.List(ctx, "conv-1", cursor)
	req.NoError(err)
	req.Len(second, 1)
	req.Equal("Alice", second[0].SenderID)
}

func Test_Messages_Are_Isolated_Per_Conversation(t *testing.T) {
	req := require.New(t)
	db := openDB(t)
	repository := NewMessageRepository(db, slog.Default(), 50)
	ctx := context.Background()
	at := time.Now().UTC()

	req.NoError(repository.Store(ctx, storedMessage("conv-1", "Alice", "here", at)))
	req.NoError(repository.Store(ctx, storedMessage("conv-2", "Bob", "elsewhere", at)))

	fetched, err := repository.Recent(ctx, "conv-1", 10)

	req.NoError(err)
	req.Len(fetched, 1)
	req.Equal("Alice", fetched[0].SenderID)
}

func Test_TurnState_RoundTrip(t *testing.T) {
	req := require.New(t)
	db := openDB(t)
	repository := NewTurnStateRepository(db)
	ctx := context.Background()

	next := "Bob"
	state := domain.TurnState{
		ConversationID: "conv-1",
		NextActorID:    &next,
		NextRole:       "user_b",
		TurnQueue:      []string{"Alice", "Bob"},
		CurrentIndex:   2,
		UpdatedAt:      time.Now().UTC(),
	}
	req.NoError(repository.Save(ctx, state))

	loaded, err := repository.Load(ctx, "conv-1")

	req.NoError(err)
	req.NotNil(loaded)
	req.Equal(state, *loaded)
}

func Test_TurnState_Absent_Is_Nil_Without_Error(t *testing.T) {
	req := require.New(t)
	db := openDB(t)
	repository := NewTurnStateRepository(db)

	loaded, err := repository.Load(context.Background(), "ghost")

	req.NoError(err)
	req.Nil(loaded)
}

func Test_TurnState_Open_Turn_Keeps_Nil_Next_Actor(t *testing.T) {
	req := require.New(t)
	db := openDB(t)
	repository := NewTurnStateRepository(db)
	ctx := context.Background()

	state := domain.TurnState{ConversationID: "conv-1", UpdatedAt: time.Now().UTC()}
	req.NoError(repository.Save(ctx, state))

	loaded, err := repository.Load(ctx, "conv-1")

	req.NoError(err)
	req.Nil(loaded.NextActorID)
	req.True(loaded.AnyoneMaySend())
}

func Test_Participants_Keep_Join_Order(t *testing.T) {
	req := require.New(t)
	db := openDB(t)
	repository := NewParticipantRepository(db)
	ctx := context.Background()

	participants := []domain.Participant{
		{ID: "zoe", Role: domain.RoleCreator, DisplayName: "Zoe"},
		{ID: "adam", Role: domain.RoleParticipant, DisplayName: "Adam"},
		{ID: "mia", Role: domain.RoleGuest, DisplayName: "Mia"},
	}
	for _, p := range participants {
		req.NoError(repository.Add(ctx, "conv-1", p))
	}

	listed, err := repository.List(ctx, "conv-1")

	req.NoError(err)
	req.Equal(participants, listed)
}

func Test_Conversation_RoundTrip(t *testing.T) {
	req := require.New(t)
	db := openDB(t)
	repository := NewConversationRepository(db)
	ctx := context.Background()

	conversation := domain.Conversation{
		ID:     "conv-1",
		Status: domain.ConversationActive,
		Settings: domain.Settings{
			Policy:           domain.PolicyDemoRoles,
			MaxConsecutive:   3,
			RoundsPerAIReply: 2,
			RoleMapping:      map[string]string{"user_a": "u1", "user_b": "u2"},
			RoleOrder:        []string{"user_a", "user_b"},
		},
		CreatedAt: time.Now().UTC(),
	}
	req.NoError(repository.Save(ctx, conversation))

	loaded, err := repository.Load(ctx, "conv-1")

	req.NoError(err)
	req.NotNil(loaded)
	req.Equal(conversation, *loaded)
}

func Test_Conversation_Absent_Is_Nil_Without_Error(t *testing.T) {
	req := require.New(t)
	db := openDB(t)
	repository := NewConversationRepository(db)

	loaded, err := repository.Load(context.Background(), "ghost")

	req.NoError(err)
	req.Nil(loaded)
}

func Test_Typing_Set_And_Clear(t *testing.T) {
	req := require.New(t)
	db := openDB(t)
	store := NewTypingStore(db)
	ctx := context.Background()

	req.NoError(store.SetTyping(ctx, "conv-1", "Alice", true))
	req.NoError(store.SetTyping(ctx, "conv-1", "Bob", true))

	users, err := store.TypingUsers(ctx, "conv-1")
	req.NoError(err)
	req.ElementsMatch([]string{"Alice", "Bob"}, users)

	req.NoError(store.SetTyping(ctx, "conv-1", "Alice", false))

	users, err = store.TypingUsers(ctx, "conv-1")
	req.NoError(err)
	req.Equal([]string{"Bob"}, users)
}
