// Package intent classifies incoming user messages with ordered pattern
// heuristics. Classification is a pure function of the message text; it
// never fails, falling through to the general intent.
package intent

import (
	"regexp"
	"strings"

	"github.com/bizmate-ai/bizmate/pkg/domain/types"
)

// Result is the outcome of a classification
type Result struct {
	Intent   types.Intent
	Entities map[string]string
}

// rule is one ordered heuristic. Rules are evaluated top to bottom; the
// first match wins.
type rule struct {
	intent   types.Intent
	patterns []*regexp.Regexp
	extract  func(msg string) map[string]string
}

var (
	reDollarAmount = regexp.MustCompile(`\$\s?([\d,]+(?:\.\d+)?)\s*(k)?`)
	rePerMonth     = regexp.MustCompile(`(?i)(?:/|\bper\s+|\ba\s+)month`)
	reDateish      = regexp.MustCompile(`(?i)\b(today|tomorrow|monday|tuesday|wednesday|thursday|friday|saturday|sunday|next week|\d{1,2}(?::\d{2})?\s*(?:am|pm))\b`)
)

var rules = []rule{
	{
		intent: types.IntentAffordability,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bcan\s+(?:i|we)\s+afford\b`),
			regexp.MustCompile(`(?i)\bafford\s+to\s+(?:hire|buy|lease|take on)\b`),
			regexp.MustCompile(`(?i)\b(?:should|can)\s+(?:i|we)\s+(?:hire|bring on)\b.*\$`),
		},
		extract: extractAffordability,
	},
	{
		intent: types.IntentScheduling,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:schedule|book|reschedule)\b.*\b(?:appointment|job|meeting|visit|estimate)\b`),
			regexp.MustCompile(`(?i)\b(?:book|schedule)\s+(?:me|us|a|an|the)\b`),
			regexp.MustCompile(`(?i)\bset\s+up\s+(?:a|an)\s+(?:appointment|meeting|call)\b`),
		},
		extract: extractScheduling,
	},
	{
		intent: types.IntentCashflow,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bcash\s?flow\b`),
			regexp.MustCompile(`(?i)\brunway\b`),
			regexp.MustCompile(`(?i)\bhow\s+much\s+(?:cash|money)\s+(?:do|will)\s+(?:i|we)\s+have\b`),
		},
	},
	{
		intent: types.IntentPricing,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bwhat\s+should\s+(?:i|we)\s+charge\b`),
			regexp.MustCompile(`(?i)\b(?:raise|lower|set)\s+(?:my|our)\s+(?:prices?|rates?)\b`),
			regexp.MustCompile(`(?i)\bpric(?:e|ing)\s+(?:a|an|this|the)\s+job\b`),
		},
	},
}

// Router resolves the intent of a message
type Router struct{}

func New() *Router {
	return &Router{}
}

// Classify resolves the message to an intent. When explicit is a known
// intent it is honored as-is and no heuristics run.
func (r *Router) Classify(message string, explicit types.Intent) Result {
	if explicit.IsKnown() {
		return Result{Intent: explicit, Entities: map[string]string{}}
	}

	for _, rule := range rules {
		for _, p := range rule.patterns {
			if p.MatchString(message) {
				entities := map[string]string{}
				if rule.extract != nil {
					entities = rule.extract(message)
				}
				return Result{Intent: rule.intent, Entities: entities}
			}
		}
	}

	return Result{Intent: types.IntentGeneral, Entities: map[string]string{}}
}

func extractAffordability(msg string) map[string]string {
	entities := map[string]string{}
	if m := reDollarAmount.FindStringSubmatch(msg); m != nil {
		amount := strings.ReplaceAll(m[1], ",", "")
		if m[2] != "" {
			amount += "000"
		}
		entities["amount"] = amount
	}
	if rePerMonth.MatchString(msg) {
		entities["cadence"] = "monthly"
	}
	return entities
}

func extractScheduling(msg string) map[string]string {
	entities := map[string]string{}
	if m := reDateish.FindString(msg); m != "" {
		entities["when"] = strings.ToLower(m)
	}
	return entities
}
