package model

import (
	"time"

	"github.com/bizmate-ai/bizmate/pkg/domain/types"
)

// Message is a single conversation message. Messages are immutable once
// created and are always inserted in user/assistant pairs per turn.
type Message struct {
	ID        types.MessageID
	ThreadID  types.ThreadID
	Role      types.Role
	Content   string
	Embedding []float32 // optional, nil when embedding generation failed
	CreatedAt time.Time
}

// NewMessage creates a message for the given thread
func NewMessage(threadID types.ThreadID, role types.Role, content string, at time.Time) *Message {
	return &Message{
		ID:        types.NewMessageID(),
		ThreadID:  threadID,
		Role:      role.Sanitize(),
		Content:   content,
		CreatedAt: at,
	}
}
