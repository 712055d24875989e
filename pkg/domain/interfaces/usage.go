package interfaces

import (
	"context"

	"github.com/bizmate-ai/bizmate/pkg/domain/model"
	"github.com/bizmate-ai/bizmate/pkg/domain/types"
)

// UsageRepository defines the interface for monthly usage counters.
//
// The interface deliberately exposes Get/Put rather than an atomic
// increment: counters are a soft cap and concurrent read-then-write from
// the same user may lose an increment. Callers must not rely on the caps
// being exact.
type UsageRepository interface {
	// Get retrieves the counter for (user, month). A missing row yields a
	// zero counter, not an error.
	Get(ctx context.Context, userID types.UserID, month types.MonthKey) (*model.UsageCounter, error)

	// Put upserts the counter row, creating it lazily on first write
	Put(ctx context.Context, counter *model.UsageCounter) error
}
