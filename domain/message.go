// Package domain contains core concepts of the mediated conversation system.
// This file defines Message values and related rules.
// Messages are immutable and validated by the domain.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable conversation event.
type Message struct {
	ID             uuid.UUID // unique identifier
	ConversationID string
	SenderID       string
	Content        string
	CreatedAt      time.Time
}
