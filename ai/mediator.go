// Package ai provides the in-process assistant used when no external model
// endpoint is configured. It composes short mediation replies from the
// recent conversation window.
package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"parley/contract"
	"parley/domain"
)

// MessageSender posts a message through the full acceptance flow, so
// assistant replies obey the same pipeline as human ones.
type MessageSender interface {
	SendMessage(ctx context.Context, cmd domain.SendMessageCommand) (domain.Message, error)
}

// LocalMediator implements contract.AITrigger without any external service.
// Replies are template-based; the value is in exercising the full turn loop,
// not in the prose.
type LocalMediator struct {
	log      *slog.Logger
	messages contract.MessageRepository
	sender   MessageSender
	window   int
}

var _ contract.AITrigger = (*LocalMediator)(nil)

func NewLocalMediator(log *slog.Logger, messages contract.MessageRepository, sender MessageSender, window int) *LocalMediator {
	return &LocalMediator{log: log, messages: messages, sender: sender, window: window}
}

// RequestReply composes and posts one assistant message. The reply goes
// through SendMessage so moderation, persistence and turn succession apply.
func (m *LocalMediator) RequestReply(ctx context.Context, conversationID, correlationID string) error {
	recent, err := m.messages.Recent(ctx, conversationID, m.window)
	if err != nil {
		return fmt.Errorf("loading conversation window: %w", err)
	}

	reply := m.compose(recent)
	_, err = m.sender.SendMessage(ctx, domain.SendMessageCommand{
		ConversationID: conversationID,
		ActorID:        domain.ActorAssistant,
		Content:        reply,
	})
	if err != nil {
		return fmt.Errorf("posting assistant reply: %w", err)
	}
	m.log.Debug("assistant reply posted",
		"conversation_id", conversationID, "correlation_id", correlationID)
	return nil
}

func (m *LocalMediator) compose(recent []domain.Message) string {
	humans := lo.Filter(recent, func(msg domain.Message, _ int) bool {
		return !domain.IsAssistant(msg.SenderID)
	})
	if len(humans) == 0 {
		return "I'm here whenever you want to continue the conversation."
	}

	senders := lo.Uniq(lo.Map(humans, func(msg domain.Message, _ int) string {
		return msg.SenderID
	}))
	last := humans[len(humans)-1]

	switch len(senders) {
	case 1:
		return fmt.Sprintf("Thanks %s. Before we continue, could you say a bit more about what matters most to you here?", last.SenderID)
	default:
		others := lo.Filter(senders, func(id string, _ int) bool { return id != last.SenderID })
		return fmt.Sprintf("Thank you %s. %s, how do you see what was just said?",
			last.SenderID, strings.Join(others, " and "))
	}
}
