package websearch_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/bizmate-ai/bizmate/pkg/service/websearch"
)

func TestWantsLiveData(t *testing.T) {
	cases := []struct {
		name    string
		message string
		want    bool
	}{
		{
			name:    "sports score",
			message: "who won the game last night?",
			want:    true,
		},
		{
			name:    "weather",
			message: "what's the weather for tomorrow?",
			want:    true,
		},
		{
			name:    "material prices",
			message: "what's the price of lumber right now",
			want:    true,
		},
		{
			name:    "breaking news",
			message: "any breaking news I should know about?",
			want:    true,
		},
		{
			name:    "internal financials never trigger",
			message: "what's my revenue looking like right now",
			want:    false,
		},
		{
			name:    "internal vocabulary wins over time-sensitive wording",
			message: "what's happening with my cash flow today",
			want:    false,
		},
		{
			name:    "plain business question",
			message: "should I hire another crew member",
			want:    false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gt.Value(t, websearch.WantsLiveData(tc.message)).Equal(tc.want)
		})
	}
}
