package model

import (
	"time"

	"github.com/bizmate-ai/bizmate/pkg/domain/types"
)

// UsageCounter tracks per-user-per-month consumption. Counters are
// created lazily on first use in a month and only ever increase.
//
// Updates go through read-then-upsert without any transaction, so under
// concurrent turns from the same user the caps are approximate. This is
// an intentional soft cap, not a security boundary.
type UsageCounter struct {
	UserID     types.UserID
	Month      types.MonthKey
	Queries    int
	WebLookups int
	UpdatedAt  time.Time
}

// NewUsageCounter returns a zero counter for the given user and month
func NewUsageCounter(userID types.UserID, month types.MonthKey) *UsageCounter {
	return &UsageCounter{UserID: userID, Month: month}
}
