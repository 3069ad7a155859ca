package search

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"parley/domain"
)

func openIndex(t *testing.T) *Index {
	t.Helper()
	writer, err := bluge.OpenWriter(bluge.InMemoryOnlyConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })
	return NewIndex(writer, slog.Default())
}

func message(conversationID, sender, content string) domain.Message {
	return domain.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       sender,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}
}

func Test_Search_Finds_Matching_Content(t *testing.T) {
	req := require.New(t)
	index := openIndex(t)

	req.NoError(index.IndexMessage(message("conv-1", "Alice", "the invoice is due friday")))
	req.NoError(index.IndexMessage(message("conv-1", "Bob", "lunch at noon")))

	hits, err := index.Search(context.Background(), &Query{Terms: "invoice", ConversationID: "conv-1", Limit: 10})

	req.NoError(err)
	req.Len(hits, 1)
	req.Equal("Alice", hits[0].SenderID)
	req.Equal("the invoice is due friday", hits[0].Content)
	req.NotEmpty(hits[0].MessageID)
}

func Test_Search_Is_Scoped_To_Conversation(t *testing.T) {
	req := require.New(t)
	index := openIndex(t)

	req.NoError(index.IndexMessage(message("conv-1", "Alice", "budget review tomorrow")))
	req.NoError(index.IndexMessage(message("conv-2", "Bob", "budget review next week")))

	hits, err := index.Search(context.Background(), &Query{Terms: "budget", ConversationID: "conv-2", Limit: 10})

	req.NoError(err)
	req.Len(hits, 1)
	req.Equal("Bob", hits[0].SenderID)
}

func Test_Search_Respects_Limit(t *testing.T) {
	req := require.New(t)
	index := openIndex(t)

	for _, sender := range []string{"Alice", "Bob", "Clara"} {
		req.NoError(index.IndexMessage(message("conv-1", sender, "status update")))
	}

	hits, err := index.Search(context.Background(), &Query{Terms: "status", ConversationID: "conv-1", Limit: 2})

	req.NoError(err)
	req.Len(hits, 2)
}

func Test_ParseQuery(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Query
	}{
		{
			name:  "plain terms",
			input: "/find invoice deadline",
			expected: Query{
				Terms: "invoice deadline",
				Limit: defaultLimit,
			},
		},
		{
			name:  "with conversation and limit flags",
			input: "/find budget --conversation conv-7 --limit 5",
			expected: Query{
				Terms:          "budget",
				ConversationID: "conv-7",
				Limit:          5,
			},
		},
		{
			name:  "invalid limit falls back to default",
			input: "/find budget --limit zero",
			expected: Query{
				Terms: "budget",
				Limit: defaultLimit,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := ParseQuery(tt.input)
			tt.expected.RawInput = tt.input
			require.Equal(t, tt.expected, *query)
		})
	}
}
