package interfaces

import "context"

// Embedder converts text to fixed-length vectors
type Embedder interface {
	// Embed returns the embedding vector for the given text
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Reply is the normalized result of one model invocation. Provider
// response shapes vary by call mode; adapters collapse them into this
// single type.
type Reply struct {
	Text  string
	Model string
	Stub  bool // true when the text is a fallback, not model output
}

// ResponseGenerator produces the final natural-language reply from an
// ordered instruction sequence, a recent-chat window and the new user
// message. Implementations must invoke the underlying provider exactly
// once per call.
type ResponseGenerator interface {
	Generate(ctx context.Context, systemPrompt string, userMessage string) (*Reply, error)
}

// WebResult is a normalized web search result set
type WebResult struct {
	// Text is the bounded, prompt-ready rendering of the results
	Text string
	// Event is true when the provider returned a structured event/score
	// result shape
	Event bool
}

// WebSearcher performs a single live lookup for time-sensitive grounding
type WebSearcher interface {
	// Search runs the query. An empty result set yields (nil, nil).
	Search(ctx context.Context, query string) (*WebResult, error)
}
