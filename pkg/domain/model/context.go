package model

import "github.com/bizmate-ai/bizmate/pkg/domain/types"

// ChatEntry is one entry of the recent-chat window included in a prompt
type ChatEntry struct {
	Role    types.Role
	Content string
}

// ContextBundle is the ephemeral per-turn aggregate of business and
// conversational data assembled before prompting the model. It is never
// persisted. Fields supplied by the caller are authoritative and suppress
// the corresponding fetch during assembly.
type ContextBundle struct {
	Business       *BusinessProfile
	KPIs           []*KPISnapshot
	KPIDelta       *KPIDelta
	Forecast       []*ForecastPoint
	Moves          []*SuggestedMove
	RecentChat     []ChatEntry
	ChatSummary    string // compressed summary of older messages
	MemorySynopsis []string
	WebContext     string
	DemoNarrative  string // read-only demo snapshot, never overrides live data
	Onboarding     bool   // true when the user still needs setup guidance
	Entities       map[string]string
}

// HasBusinessData reports whether any live business context was resolved
func (b *ContextBundle) HasBusinessData() bool {
	return b.Business != nil || len(b.KPIs) > 0 || len(b.Forecast) > 0 || len(b.Moves) > 0
}
