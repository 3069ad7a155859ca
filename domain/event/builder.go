package event

import (
	"parley/domain"
	"time"
)

// Builders construct well-formed envelopes for each catalog entry so that
// payload shapes stay consistent across emitters.

func NewMessageCreated(msg domain.Message) Event {
	return Event{
		Type:           MessageCreated,
		ConversationID: msg.ConversationID,
		ActorID:        msg.SenderID,
		Data: map[string]any{
			"message_id": msg.ID.String(),
			"content":    msg.Content,
			"created_at": msg.CreatedAt.Format(time.RFC3339Nano),
		},
	}
}

func NewMessageFlagged(msg domain.Message, words []string, language string) Event {
	return Event{
		Type:           MessageFlagged,
		ConversationID: msg.ConversationID,
		ActorID:        msg.SenderID,
		Data: map[string]any{
			"message_id": msg.ID.String(),
			"words":      words,
			"language":   language,
		},
	}
}

// NewTurnChanged records a committed turn transition. previousActorID may be
// empty when the turn was unassigned before.
func NewTurnChanged(conversationID, nextActorID string, policy domain.PolicyName, previousActorID, nextRole string, turnIndex int) Event {
	return Event{
		Type:           TurnChanged,
		ConversationID: conversationID,
		Data: map[string]any{
			"next_actor_id":     nextActorID,
			"policy":            string(policy),
			"previous_actor_id": previousActorID,
			"next_role":         nextRole,
			"turn_index":        turnIndex,
		},
	}
}

func NewTurnReset(conversationID, nextActorID, reason string) Event {
	return Event{
		Type:           TurnReset,
		ConversationID: conversationID,
		Data: map[string]any{
			"next_actor_id": nextActorID,
			"reason":        reason,
		},
	}
}

func NewAIResponseStarted(conversationID string) Event {
	return Event{
		Type:           AIResponseStarted,
		ConversationID: conversationID,
		ActorID:        domain.ActorAssistant,
	}
}

func NewAIResponseCompleted(conversationID string) Event {
	return Event{
		Type:           AIResponseCompleted,
		ConversationID: conversationID,
		ActorID:        domain.ActorAssistant,
	}
}

func NewAIResponseFailed(conversationID string, cause error) Event {
	data := map[string]any{}
	if cause != nil {
		data["error"] = cause.Error()
	}
	return Event{
		Type:           AIResponseFailed,
		ConversationID: conversationID,
		ActorID:        domain.ActorAssistant,
		Data:           data,
	}
}

func NewConversationCompleted(conversationID, actorID string) Event {
	return Event{
		Type:           ConversationCompleted,
		ConversationID: conversationID,
		ActorID:        actorID,
	}
}

func NewSettingsUpdated(conversationID string, policy domain.PolicyName) Event {
	return Event{
		Type:           SettingsUpdated,
		ConversationID: conversationID,
		Data:           map[string]any{"policy": string(policy)},
	}
}

func NewTypingChanged(conversationID, actorID string, typing bool) Event {
	return Event{
		Type:           TypingChanged,
		ConversationID: conversationID,
		ActorID:        actorID,
		Data:           map[string]any{"typing": typing},
	}
}

func NewExtensionActivated(conversationID, extension string) Event {
	return Event{
		Type:           ExtensionActivated,
		ConversationID: conversationID,
		Data:           map[string]any{"extension": extension},
	}
}

func NewExtensionDeactivated(conversationID, extension string) Event {
	return Event{
		Type:           ExtensionDeactivated,
		ConversationID: conversationID,
		Data:           map[string]any{"extension": extension},
	}
}

// NewErrorOccurred wraps a contained failure for observability. component
// names the place the failure was caught, never the caller.
func NewErrorOccurred(conversationID, component string, cause error) Event {
	data := map[string]any{"component": component}
	if cause != nil {
		data["error"] = cause.Error()
	}
	return Event{
		Type:           ErrorOccurred,
		ConversationID: conversationID,
		Data:           data,
	}
}

func NewSystemTelemetry(cpuPercent float64, rssBytes uint64) Event {
	return Event{
		Type:           SystemTelemetry,
		ConversationID: "system",
		Data: map[string]any{
			"cpu_percent": cpuPercent,
			"rss_bytes":   rssBytes,
		},
	}
}
