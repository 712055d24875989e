package config

import (
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/bizmate-ai/bizmate/pkg/service/websearch"
)

// Search holds configuration for the live web lookup provider
type Search struct {
	apiKey string
}

// Flags returns CLI flags for web search configuration
func (s *Search) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "serpapi-key",
			Usage:       "SerpAPI key for live web lookups (optional)",
			Sources:     cli.EnvVars("BIZMATE_SERPAPI_KEY"),
			Destination: &s.apiKey,
		},
	}
}

// LogValue redacts the key from log output
func (s *Search) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("configured", s.apiKey != ""),
	)
}

// Configure creates the web search client. Returns nil when no key is
// configured; turns then run without live web context.
func (s *Search) Configure() *websearch.Client {
	if s.apiKey == "" {
		return nil
	}
	return websearch.New(s.apiKey)
}
