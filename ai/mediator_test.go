package ai

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"parley/domain"
	"parley/mocks"
)

type capturingSender struct {
	sent []domain.SendMessageCommand
}

func (s *capturingSender) SendMessage(_ context.Context, cmd domain.SendMessageCommand) (domain.Message, error) {
	s.sent = append(s.sent, cmd)
	return domain.Message{ID: uuid.New(), ConversationID: cmd.ConversationID, SenderID: cmd.ActorID, Content: cmd.Content}, nil
}

func humanMessage(sender, content string, at time.Time) domain.Message {
	return domain.Message{ID: uuid.New(), ConversationID: "conv-1", SenderID: sender, Content: content, CreatedAt: at}
}

func TestLocalMediator_ReplyAddressesTheOtherParty(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	messages := mocks.NewMockMessageRepository(ctrl)
	at := time.Now().UTC()
	messages.EXPECT().
		Recent(gomock.Any(), "conv-1", 20).
		Return([]domain.Message{
			humanMessage("Alice", "I feel unheard", at),
			humanMessage("Bob", "that is unfair", at.Add(time.Minute)),
		}, nil)

	sender := &capturingSender{}
	mediator := NewLocalMediator(slog.Default(), messages, sender, 20)

	err := mediator.RequestReply(context.Background(), "conv-1", "corr-1")

	req.NoError(err)
	req.Len(sender.sent, 1)
	req.Equal(domain.ActorAssistant, sender.sent[0].ActorID)
	req.Contains(sender.sent[0].Content, "Bob")
	req.Contains(sender.sent[0].Content, "Alice")
}

func TestLocalMediator_EmptyWindowStillReplies(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	messages := mocks.NewMockMessageRepository(ctrl)
	messages.EXPECT().
		Recent(gomock.Any(), "conv-1", 20).
		Return(nil, nil)

	sender := &capturingSender{}
	mediator := NewLocalMediator(slog.Default(), messages, sender, 20)

	err := mediator.RequestReply(context.Background(), "conv-1", "corr-1")

	req.NoError(err)
	req.Len(sender.sent, 1)
	req.NotEmpty(sender.sent[0].Content)
}
