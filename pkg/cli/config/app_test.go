package config_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/pelletier/go-toml/v2"

	"github.com/bizmate-ai/bizmate/pkg/cli/config"
)

func TestAppConfig_Validate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		var cfg config.AppConfig
		doc := `
[quota]
monthly_queries = 300
monthly_web_lookups = 20

[persona]
default_depth = "standard"
default_style = "free_flow"

[demo]
narrative = "The demo company doubled bookings after raising rates."
`
		gt.NoError(t, toml.Unmarshal([]byte(doc), &cfg)).Required()
		gt.NoError(t, cfg.Validate())
		gt.Value(t, cfg.Quota.MonthlyQueries).Equal(300)
		gt.Value(t, cfg.Quota.MonthlyWebLookups).Equal(20)
		gt.Value(t, cfg.Persona.DefaultDepth).Equal("standard")
		gt.String(t, cfg.Demo.Narrative).NotEqual("")
	})

	t.Run("negative quota is rejected", func(t *testing.T) {
		var cfg config.AppConfig
		doc := `
[quota]
monthly_queries = -1
`
		gt.NoError(t, toml.Unmarshal([]byte(doc), &cfg)).Required()
		gt.Error(t, cfg.Validate())
	})

	t.Run("unknown depth is rejected", func(t *testing.T) {
		var cfg config.AppConfig
		doc := `
[persona]
default_depth = "ultra"
`
		gt.NoError(t, toml.Unmarshal([]byte(doc), &cfg)).Required()
		gt.Error(t, cfg.Validate())
	})

	t.Run("unknown style is rejected", func(t *testing.T) {
		var cfg config.AppConfig
		doc := `
[persona]
default_style = "bulleted"
`
		gt.NoError(t, toml.Unmarshal([]byte(doc), &cfg)).Required()
		gt.Error(t, cfg.Validate())
	})

	t.Run("empty config is valid", func(t *testing.T) {
		var cfg config.AppConfig
		gt.NoError(t, cfg.Validate())
	})
}
