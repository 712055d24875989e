package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/bizmate-ai/bizmate/pkg/domain/model"
	"github.com/bizmate-ai/bizmate/pkg/usecase"
)

// AppConfig represents the application configuration
type AppConfig struct {
	Quota   QuotaSection   `toml:"quota"`
	Persona PersonaSection `toml:"persona"`
	Demo    DemoSection    `toml:"demo"`

	path string
}

// QuotaSection configures the monthly per-user caps
type QuotaSection struct {
	MonthlyQueries    int `toml:"monthly_queries"`
	MonthlyWebLookups int `toml:"monthly_web_lookups"`
}

// Validate checks if the QuotaSection is valid
func (q *QuotaSection) Validate() error {
	if q.MonthlyQueries < 0 {
		return goerr.New("monthly_queries must not be negative", goerr.V("value", q.MonthlyQueries))
	}
	if q.MonthlyWebLookups < 0 {
		return goerr.New("monthly_web_lookups must not be negative", goerr.V("value", q.MonthlyWebLookups))
	}
	return nil
}

// PersonaSection configures response rendering defaults
type PersonaSection struct {
	DefaultDepth string `toml:"default_depth"`
	DefaultStyle string `toml:"default_style"`
}

// Validate checks if the PersonaSection is valid
func (p *PersonaSection) Validate() error {
	switch model.Depth(p.DefaultDepth) {
	case "", model.DepthBrief, model.DepthStandard, model.DepthComprehensive:
	default:
		return goerr.New("invalid default_depth", goerr.V("value", p.DefaultDepth))
	}
	switch model.RenderStyle(p.DefaultStyle) {
	case "", model.StyleFreeFlow, model.StyleScaffolded:
	default:
		return goerr.New("invalid default_style", goerr.V("value", p.DefaultStyle))
	}
	return nil
}

// DemoSection configures the canned demo-account walkthrough
type DemoSection struct {
	Narrative string `toml:"narrative"`
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	if err := a.Quota.Validate(); err != nil {
		return goerr.Wrap(err, "invalid quota section")
	}
	if err := a.Persona.Validate(); err != nil {
		return goerr.Wrap(err, "invalid persona section")
	}
	return nil
}

// Flags returns CLI flags for application configuration
func (a *AppConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to application config TOML file",
			Sources:     cli.EnvVars("BIZMATE_CONFIG"),
			Destination: &a.path,
		},
	}
}

// Configure loads the TOML file when a path was given; otherwise the
// zero config stands and the usecase layer applies its defaults.
func (a *AppConfig) Configure() error {
	if a.path == "" {
		return nil
	}

	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(a.path)
	if err != nil {
		return goerr.Wrap(err, "failed to read config file", goerr.V("path", a.path))
	}

	if err := toml.Unmarshal(data, a); err != nil {
		return goerr.Wrap(err, "failed to parse TOML config", goerr.V("path", a.path))
	}

	if err := a.Validate(); err != nil {
		return goerr.Wrap(err, "config validation failed", goerr.V("path", a.path))
	}

	return nil
}

// UseCaseOptions converts the config into usecase options
func (a *AppConfig) UseCaseOptions() []usecase.Option {
	opts := []usecase.Option{
		usecase.WithQuota(usecase.QuotaConfig{
			MonthlyQueries:    a.Quota.MonthlyQueries,
			MonthlyWebLookups: a.Quota.MonthlyWebLookups,
		}),
	}
	if a.Persona.DefaultDepth != "" || a.Persona.DefaultStyle != "" {
		opts = append(opts, usecase.WithPersonaDefaults(
			model.Depth(a.Persona.DefaultDepth),
			model.RenderStyle(a.Persona.DefaultStyle),
		))
	}
	if a.Demo.Narrative != "" {
		opts = append(opts, usecase.WithDemoNarrative(a.Demo.Narrative))
	}
	return opts
}
