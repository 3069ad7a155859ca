package errors

import "fmt"

var (
	ErrNotParticipant     = fmt.Errorf("caller is not a participant of the conversation")
	ErrNotYourTurn        = fmt.Errorf("it is not the caller's turn to send a message")
	ErrUnknownPolicy      = fmt.Errorf("unknown turn policy")
	ErrNoParticipants     = fmt.Errorf("conversation has no participants")
	ErrInvalidPayload     = fmt.Errorf("event payload has an unexpected shape")
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrUnknownExtension   = fmt.Errorf("unknown extension")
	ErrEmptyContent       = fmt.Errorf("message content is empty")
	ErrEmptyWords         = fmt.Errorf("no censored words loaded")
	ErrTurnStateCorrupted = fmt.Errorf("turn state does not resolve to a known participant")
)
