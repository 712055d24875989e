package intent_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/bizmate-ai/bizmate/pkg/domain/types"
	"github.com/bizmate-ai/bizmate/pkg/service/intent"
)

func TestClassify(t *testing.T) {
	router := intent.New()

	cases := []struct {
		name    string
		message string
		want    types.Intent
	}{
		{
			name:    "affordability question",
			message: "Can I afford to hire a part-time helper?",
			want:    types.IntentAffordability,
		},
		{
			name:    "affordability purchase",
			message: "can we afford to lease a second van this year",
			want:    types.IntentAffordability,
		},
		{
			name:    "scheduling booking",
			message: "Schedule an estimate visit with the Hendersons",
			want:    types.IntentScheduling,
		},
		{
			name:    "scheduling reschedule",
			message: "Can you reschedule tomorrow's appointment to Friday?",
			want:    types.IntentScheduling,
		},
		{
			name:    "cashflow",
			message: "What does my cash flow look like for September?",
			want:    types.IntentCashflow,
		},
		{
			name:    "runway",
			message: "how much runway do we have left",
			want:    types.IntentCashflow,
		},
		{
			name:    "pricing",
			message: "What should I charge for a full repaint?",
			want:    types.IntentPricing,
		},
		{
			name:    "pricing rates",
			message: "Is it time to raise my rates?",
			want:    types.IntentPricing,
		},
		{
			name:    "general fallthrough",
			message: "Tell me something interesting about my industry",
			want:    types.IntentGeneral,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := router.Classify(tc.message, "")
			gt.Value(t, result.Intent).Equal(tc.want)
		})
	}
}

func TestClassify_ExplicitIntent(t *testing.T) {
	router := intent.New()

	// A known explicit intent wins over heuristics
	result := router.Classify("Can I afford a new excavator?", types.IntentScheduling)
	gt.Value(t, result.Intent).Equal(types.IntentScheduling)

	// An unknown explicit intent falls back to heuristics
	result = router.Classify("Can I afford a new excavator?", types.Intent("bogus"))
	gt.Value(t, result.Intent).Equal(types.IntentAffordability)
}

func TestClassify_Entities(t *testing.T) {
	router := intent.New()

	t.Run("affordability amount and cadence", func(t *testing.T) {
		result := router.Classify("Can I afford to hire someone for $2,500 per month?", "")
		gt.Value(t, result.Intent).Equal(types.IntentAffordability)
		gt.Value(t, result.Entities["amount"]).Equal("2500")
		gt.Value(t, result.Entities["cadence"]).Equal("monthly")
	})

	t.Run("affordability k suffix", func(t *testing.T) {
		result := router.Classify("Can we afford a $12k trailer?", "")
		gt.Value(t, result.Intent).Equal(types.IntentAffordability)
		gt.Value(t, result.Entities["amount"]).Equal("12000")
	})

	t.Run("scheduling date phrase", func(t *testing.T) {
		result := router.Classify("Book me an estimate for tomorrow", "")
		gt.Value(t, result.Intent).Equal(types.IntentScheduling)
		gt.Value(t, result.Entities["when"]).Equal("tomorrow")
	})
}
