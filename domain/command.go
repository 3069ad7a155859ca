package domain

import "time"

type Command interface {
	Conversation() string
}

// SendMessageCommand is the caller-facing request to post a message.
// Validation tags are enforced at the service boundary.
type SendMessageCommand struct {
	ConversationID string `validate:"required"`
	ActorID        string `validate:"required"`
	Content        string `validate:"required"`
	CreatedAt      time.Time
}

func (c SendMessageCommand) Conversation() string {
	return c.ConversationID
}

type GetMessagesCommand struct {
	ConversationID string `validate:"required"`
	Cursor         *string
}

func (c GetMessagesCommand) Conversation() string {
	return c.ConversationID
}

type SetTypingCommand struct {
	ConversationID string `validate:"required"`
	ActorID        string `validate:"required"`
	Typing         bool
}

func (c SetTypingCommand) Conversation() string {
	return c.ConversationID
}
