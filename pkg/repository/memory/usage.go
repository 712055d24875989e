package memory

import (
	"context"
	"sync"
	"time"

	"github.com/bizmate-ai/bizmate/pkg/domain/model"
	"github.com/bizmate-ai/bizmate/pkg/domain/types"
)

type usageKey struct {
	userID types.UserID
	month  types.MonthKey
}

type usageRepository struct {
	mu       sync.RWMutex
	counters map[usageKey]*model.UsageCounter
}

func newUsageRepository() *usageRepository {
	return &usageRepository{
		counters: make(map[usageKey]*model.UsageCounter),
	}
}

func (r *usageRepository) Get(ctx context.Context, userID types.UserID, month types.MonthKey) (*model.UsageCounter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counter, exists := r.counters[usageKey{userID: userID, month: month}]
	if !exists {
		return model.NewUsageCounter(userID, month), nil
	}

	copied := *counter
	return &copied, nil
}

func (r *usageRepository) Put(ctx context.Context, counter *model.UsageCounter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *counter
	copied.UpdatedAt = time.Now().UTC()
	r.counters[usageKey{userID: counter.UserID, month: counter.Month}] = &copied
	return nil
}
