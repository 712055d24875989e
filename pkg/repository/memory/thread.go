package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/bizmate-ai/bizmate/pkg/domain/model"
	"github.com/bizmate-ai/bizmate/pkg/domain/types"
)

type threadRepository struct {
	mu      sync.RWMutex
	threads map[types.ThreadID]*model.Thread
}

func newThreadRepository() *threadRepository {
	return &threadRepository{
		threads: make(map[types.ThreadID]*model.Thread),
	}
}

func copyThread(t *model.Thread) *model.Thread {
	copied := *t
	return &copied
}

func (r *threadRepository) Create(ctx context.Context, thread *model.Thread) (*model.Thread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyThread(thread)
	if created.ID == "" {
		created.ID = types.NewThreadID()
	}
	created.CreatedAt = time.Now().UTC()

	r.threads[created.ID] = created
	return copyThread(created), nil
}

func (r *threadRepository) Get(ctx context.Context, threadID types.ThreadID) (*model.Thread, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	thread, exists := r.threads[threadID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "thread not found", goerr.V("threadID", threadID))
	}

	return copyThread(thread), nil
}

func (r *threadRepository) Update(ctx context.Context, thread *model.Thread) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.threads[thread.ID]; !exists {
		return goerr.Wrap(ErrNotFound, "thread not found", goerr.V("threadID", thread.ID))
	}

	r.threads[thread.ID] = copyThread(thread)
	return nil
}
