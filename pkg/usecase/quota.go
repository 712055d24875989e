package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/bizmate-ai/bizmate/pkg/domain/model"
	"github.com/bizmate-ai/bizmate/pkg/domain/types"
	"github.com/bizmate-ai/bizmate/pkg/utils/logging"
)

// checkAndCountQuery loads the current month's counter, rejects the turn
// when the query cap is already reached, and otherwise records the query.
// The returned counter reflects the increment and is reused for the web
// lookup gate later in the same turn.
func (uc *UseCases) checkAndCountQuery(ctx context.Context, userID types.UserID, now time.Time) (*model.UsageCounter, error) {
	month := types.MonthOf(now)

	counter, err := uc.repo.Usage().Get(ctx, userID, month)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load usage counter",
			goerr.V("user_id", userID), goerr.V("month", month))
	}

	if counter.Queries >= uc.quota.MonthlyQueries {
		return nil, goerr.Wrap(ErrQuotaExceeded, "query cap reached",
			goerr.V("user_id", userID),
			goerr.V("queries", counter.Queries),
			goerr.V("cap", uc.quota.MonthlyQueries))
	}

	counter.Queries++
	counter.UpdatedAt = now
	if err := uc.repo.Usage().Put(ctx, counter); err != nil {
		return nil, goerr.Wrap(err, "failed to record query usage",
			goerr.V("user_id", userID), goerr.V("month", month))
	}

	return counter, nil
}

// webLookupAllowed reports whether a live web lookup may still run this
// month. The counter is only incremented once a lookup actually yields
// results, via recordWebLookup.
func (uc *UseCases) webLookupAllowed(counter *model.UsageCounter) bool {
	return counter.WebLookups < uc.quota.MonthlyWebLookups
}

// recordWebLookup counts a successful lookup. A persistence failure on
// the write is logged; the turn already has its web context.
func (uc *UseCases) recordWebLookup(ctx context.Context, counter *model.UsageCounter, now time.Time) {
	counter.WebLookups++
	counter.UpdatedAt = now
	if err := uc.repo.Usage().Put(ctx, counter); err != nil {
		logging.From(ctx).Warn("failed to record web lookup usage",
			"error", err, "user_id", counter.UserID)
	}
}
