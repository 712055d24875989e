package persona_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/bizmate-ai/bizmate/pkg/domain/model"
	"github.com/bizmate-ai/bizmate/pkg/domain/types"
	"github.com/bizmate-ai/bizmate/pkg/service/persona"
)

func TestCompose_Dials(t *testing.T) {
	composer := persona.New()

	t.Run("defaults are neutral", func(t *testing.T) {
		spec := composer.Compose(persona.Request{
			Intent:  types.IntentGeneral,
			Message: "tell me about my week",
		})
		gt.Value(t, spec.Dials).Equal(model.DefaultToneDials())
	})

	t.Run("bad news zeroes humor and caps optimism", func(t *testing.T) {
		spec := composer.Compose(persona.Request{
			Intent:  types.IntentGeneral,
			Flags:   model.TurnFlags{BadNews: true},
			Message: "we lost the contract",
		})
		gt.Value(t, spec.Dials.Humor).Equal(float64(0))
		gt.Value(t, spec.Dials.Optimism).Equal(0.2)
	})

	t.Run("celebration maxes energy and optimism", func(t *testing.T) {
		spec := composer.Compose(persona.Request{
			Intent:  types.IntentGeneral,
			Flags:   model.TurnFlags{Celebration: true},
			Message: "we hit a record month",
		})
		gt.Value(t, spec.Dials.Energy).Equal(1.0)
		gt.Value(t, spec.Dials.Optimism).Equal(1.0)
	})

	t.Run("bad news wins over celebration", func(t *testing.T) {
		spec := composer.Compose(persona.Request{
			Intent:  types.IntentGeneral,
			Flags:   model.TurnFlags{Celebration: true, BadNews: true},
			Message: "mixed month",
		})
		gt.Value(t, spec.Dials.Humor).Equal(float64(0))
		gt.Value(t, spec.Dials.Optimism).Equal(0.2)
		gt.Value(t, spec.Dials.Energy).Equal(1.0)
	})

	t.Run("composition is deterministic", func(t *testing.T) {
		req := persona.Request{
			Intent:  types.IntentAffordability,
			Flags:   model.TurnFlags{Quick: true},
			Message: "can I afford a new compressor",
		}
		gt.Value(t, composer.Compose(req)).Equal(composer.Compose(req))
	})
}

func TestCompose_DepthAndStyle(t *testing.T) {
	composer := persona.New()

	t.Run("caller values are authoritative", func(t *testing.T) {
		spec := composer.Compose(persona.Request{
			Intent:  types.IntentGeneral,
			Message: "give me everything in detail",
			Depth:   model.DepthBrief,
			Style:   model.StyleFreeFlow,
		})
		gt.Value(t, spec.Depth).Equal(model.DepthBrief)
		gt.Value(t, spec.Style).Equal(model.StyleFreeFlow)
	})

	t.Run("brief wording selects brief depth", func(t *testing.T) {
		spec := composer.Compose(persona.Request{
			Intent:  types.IntentGeneral,
			Message: "briefly, how did August go?",
		})
		gt.Value(t, spec.Depth).Equal(model.DepthBrief)
	})

	t.Run("comparison wording selects scaffolded style", func(t *testing.T) {
		spec := composer.Compose(persona.Request{
			Intent:  types.IntentGeneral,
			Message: "compare hiring versus subcontracting for me",
		})
		gt.Value(t, spec.Style).Equal(model.StyleScaffolded)
	})

	t.Run("affordability defaults to scaffolded", func(t *testing.T) {
		spec := composer.Compose(persona.Request{
			Intent:  types.IntentAffordability,
			Message: "can I afford it",
		})
		gt.Value(t, spec.Style).Equal(model.StyleScaffolded)
	})
}

func TestInstructions_Order(t *testing.T) {
	composer := persona.New()

	spec := composer.Compose(persona.Request{
		Intent:  types.IntentGeneral,
		Flags:   model.TurnFlags{BadNews: true},
		Message: "what happened to my margins",
	})

	blocks := composer.Instructions(spec)
	gt.Array(t, blocks).Length(3)

	// The rendering-style block is always last
	gt.Value(t, blocks[len(blocks)-1].Name).Equal("style")
	gt.Bool(t, strings.Contains(blocks[0].Text, "Do not use humor")).True()
}
