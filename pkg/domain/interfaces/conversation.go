package interfaces

import (
	"context"

	"github.com/bizmate-ai/bizmate/pkg/domain/model"
	"github.com/bizmate-ai/bizmate/pkg/domain/types"
)

// ThreadRepository defines the interface for conversation thread persistence
type ThreadRepository interface {
	// Create creates a new thread
	Create(ctx context.Context, thread *model.Thread) (*model.Thread, error)

	// Get retrieves a thread by ID
	Get(ctx context.Context, threadID types.ThreadID) (*model.Thread, error)

	// Update replaces a stored thread
	Update(ctx context.Context, thread *model.Thread) error
}

// MessageRepository defines the interface for message persistence
type MessageRepository interface {
	// Insert stores one or more messages. Messages are immutable once
	// inserted.
	Insert(ctx context.Context, messages ...*model.Message) error

	// ListRecent returns up to limit messages of a thread, newest first
	ListRecent(ctx context.Context, threadID types.ThreadID, limit int) ([]*model.Message, error)
}
