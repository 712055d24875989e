package model

import (
	"time"

	"github.com/bizmate-ai/bizmate/pkg/domain/types"
)

// BusinessProfile describes a tenant business
type BusinessProfile struct {
	ID                  types.BusinessID
	OwnerID             types.UserID
	Name                string
	Industry            string
	Description         string
	Demo                bool // sandbox/demo business
	AccountingConnected bool // accounting integration flag
	OnboardingComplete  bool
	CreatedAt           time.Time
}

// KPISnapshot is a point-in-time set of business KPIs
type KPISnapshot struct {
	BusinessID types.BusinessID
	Period     string // e.g. "2026-08"
	Revenue    float64
	Expenses   float64
	Profit     float64
	JobsBooked int
	TakenAt    time.Time
}

// Digest returns the compact form stored with memory records
func (k *KPISnapshot) Digest() *KPIDigest {
	return &KPIDigest{
		Period:   k.Period,
		Revenue:  k.Revenue,
		Expenses: k.Expenses,
		Profit:   k.Profit,
	}
}

// KPIDelta is the period-over-period change between the two most recent
// KPI snapshots.
type KPIDelta struct {
	RevenueChange  float64
	ExpensesChange float64
	ProfitChange   float64
	FromPeriod     string
	ToPeriod       string
}

// DeltaOf computes the delta from the previous snapshot to the current
// one. Returns nil unless both are present.
func DeltaOf(current, previous *KPISnapshot) *KPIDelta {
	if current == nil || previous == nil {
		return nil
	}
	return &KPIDelta{
		RevenueChange:  current.Revenue - previous.Revenue,
		ExpensesChange: current.Expenses - previous.Expenses,
		ProfitChange:   current.Profit - previous.Profit,
		FromPeriod:     previous.Period,
		ToPeriod:       current.Period,
	}
}

// ForecastPoint is a single forward forecast data point
type ForecastPoint struct {
	BusinessID types.BusinessID
	Period     string
	Revenue    float64
	Confidence float64
}

// SuggestedMove is a standing suggested action for a business
type SuggestedMove struct {
	BusinessID types.BusinessID
	Title      string
	Rationale  string
	Priority   int
	CreatedAt  time.Time
}
