package interfaces

import (
	"context"

	"github.com/bizmate-ai/bizmate/pkg/domain/model"
	"github.com/bizmate-ai/bizmate/pkg/domain/types"
)

// MemorySearchOption holds parameters for a similarity search
type MemorySearchOption struct {
	// MinScore is the cosine similarity floor; hits below it are dropped
	MinScore float64
	// Limit is the maximum number of hits to return
	Limit int
	// Tags filters hits to records carrying at least one of the tags.
	// Empty means no tag filter.
	Tags []string
}

// MemoryRepository defines the interface for memory record persistence
// and vector similarity search.
type MemoryRepository interface {
	// Create stores a new memory record
	Create(ctx context.Context, record *model.MemoryRecord) (*model.MemoryRecord, error)

	// Search performs vector similarity search over the user's records,
	// returning hits ordered by similarity, most relevant first.
	Search(ctx context.Context, userID types.UserID, embedding []float32, opt MemorySearchOption) ([]*model.MemoryHit, error)

	// ListRecent returns up to limit records of the user, newest first.
	// Used by the degraded keyword-overlap fallback when vector search is
	// unavailable.
	ListRecent(ctx context.Context, userID types.UserID, limit int) ([]*model.MemoryRecord, error)
}
