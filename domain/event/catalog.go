package event

// Type identifies a kind of domain event. The catalog below is the complete
// set the core emits; the bus refuses nothing else, but subscribing through
// Types() keeps consumers exhaustive.
type Type string

const (
	// Message lifecycle
	MessageCreated Type = "message.created"
	MessageFlagged Type = "message.flagged"

	// Turn lifecycle
	TurnChanged Type = "turn.changed"
	TurnReset   Type = "turn.reset"

	// AI lifecycle
	AIResponseStarted   Type = "ai.response_started"
	AIResponseCompleted Type = "ai.response_completed"
	AIResponseFailed    Type = "ai.response_failed"

	// Completion and settings
	ConversationCompleted Type = "conversation.completed"
	SettingsUpdated       Type = "settings.updated"

	// Presence
	TypingChanged Type = "typing.changed"

	// Extension lifecycle
	ExtensionActivated   Type = "extension.activated"
	ExtensionDeactivated Type = "extension.deactivated"

	// System
	ErrorOccurred   Type = "system.error_occurred"
	SystemTelemetry Type = "system.telemetry"
)

// Types returns the full event catalog.
func Types() []Type {
	return []Type{
		MessageCreated, MessageFlagged,
		TurnChanged, TurnReset,
		AIResponseStarted, AIResponseCompleted, AIResponseFailed,
		ConversationCompleted, SettingsUpdated,
		TypingChanged,
		ExtensionActivated, ExtensionDeactivated,
		ErrorOccurred, SystemTelemetry,
	}
}
