package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/bizmate-ai/bizmate/pkg/domain/model"
	"github.com/bizmate-ai/bizmate/pkg/domain/types"
)

type messageRepository struct {
	mu       sync.RWMutex
	messages map[types.ThreadID][]*model.Message
}

func newMessageRepository() *messageRepository {
	return &messageRepository{
		messages: make(map[types.ThreadID][]*model.Message),
	}
}

func copyMessage(m *model.Message) *model.Message {
	copied := *m
	if m.Embedding != nil {
		copied.Embedding = make([]float32, len(m.Embedding))
		copy(copied.Embedding, m.Embedding)
	}
	return &copied
}

func (r *messageRepository) Insert(ctx context.Context, messages ...*model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range messages {
		stored := copyMessage(m)
		if stored.ID == "" {
			stored.ID = types.NewMessageID()
		}
		r.messages[stored.ThreadID] = append(r.messages[stored.ThreadID], stored)
	}

	return nil
}

func (r *messageRepository) ListRecent(ctx context.Context, threadID types.ThreadID, limit int) ([]*model.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.messages[threadID]
	result := make([]*model.Message, 0, len(stored))
	for _, m := range stored {
		result = append(result, copyMessage(m))
	}

	// Newest first; insertion order breaks ties within a paired turn
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}
