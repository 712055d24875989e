package websearch

import "regexp"

// Trigger decision for a message. Two heuristic layers: a business-domain
// vocabulary guard suppresses lookups for clearly internal queries, and
// time-sensitive vocabulary patterns trigger them.

var internalVocab = regexp.MustCompile(`(?i)\b(?:invoice|invoicing|payroll|cash\s?flow|revenue|expenses?|profit|margin|quote|estimate|booking|my\s+(?:business|customers?|jobs?|books)|p&l|balance\s+sheet|tax(?:es)?)\b`)

var timeSensitive = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:score|game|match|playoffs?|final)\b.*\b(?:tonight|today|yesterday|last night|now)\b`),
	regexp.MustCompile(`(?i)\bwho\s+won\b`),
	regexp.MustCompile(`(?i)\b(?:breaking|latest)\s+news\b`),
	regexp.MustCompile(`(?i)\bnews\s+(?:today|right now|this week)\b`),
	regexp.MustCompile(`(?i)\bweather\b`),
	regexp.MustCompile(`(?i)\b(?:stock|share)\s+price\b`),
	regexp.MustCompile(`(?i)\bprice\s+of\s+(?:gas|fuel|lumber|materials|bitcoin|gold)\b`),
	regexp.MustCompile(`(?i)\b(?:current|today'?s)\s+(?:rates?|prices?)\b`),
	regexp.MustCompile(`(?i)\bwhat(?:'s| is)\s+happening\b`),
}

// WantsLiveData reports whether the message appears to need live
// grounding. Internal/financial queries never trigger a lookup even when
// they contain time-sensitive wording.
func WantsLiveData(message string) bool {
	if internalVocab.MatchString(message) {
		return false
	}
	for _, p := range timeSensitive {
		if p.MatchString(message) {
			return true
		}
	}
	return false
}
