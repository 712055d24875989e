package types

import "github.com/m-mizutani/goerr/v2"

// Intent classifies what kind of request a user turn represents
type Intent string

const (
	IntentAffordability Intent = "affordability"
	IntentScheduling    Intent = "scheduling"
	IntentCashflow      Intent = "cashflow"
	IntentPricing       Intent = "pricing"
	IntentGeneral       Intent = "general"
)

// allIntents is the closed set of intents the router can resolve to
var allIntents = map[Intent]struct{}{
	IntentAffordability: {},
	IntentScheduling:    {},
	IntentCashflow:      {},
	IntentPricing:       {},
	IntentGeneral:       {},
}

// Validate checks if the Intent is a known value
func (i Intent) Validate() error {
	if _, ok := allIntents[i]; !ok {
		return goerr.New("unknown intent", goerr.V("intent", string(i)))
	}
	return nil
}

// IsKnown reports whether the intent is one of the defined values
func (i Intent) IsKnown() bool {
	_, ok := allIntents[i]
	return ok
}

func (i Intent) String() string { return string(i) }
