// Package persona derives per-turn tone and structure instructions for
// the model. Composition is deterministic: the same intent, flags and
// message always yield the same PersonaSpec and instruction sequence.
package persona

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bizmate-ai/bizmate/pkg/domain/model"
	"github.com/bizmate-ai/bizmate/pkg/domain/types"
)

// Composer builds PersonaSpecs and their instruction blocks
type Composer struct{}

func New() *Composer {
	return &Composer{}
}

// Request carries the inputs of a composition
type Request struct {
	Intent  types.Intent
	Flags   model.TurnFlags
	Message string
	// Depth and Style, when set by the caller, are authoritative and
	// suppress the shape heuristics.
	Depth model.Depth
	Style model.RenderStyle
}

// Compose resolves the persona for a turn
func (c *Composer) Compose(req Request) model.PersonaSpec {
	spec := model.PersonaSpec{
		Dials: c.dials(req.Intent, req.Flags),
		Depth: req.Depth,
		Style: req.Style,
	}

	shape := detectShape(req.Message)

	if spec.Depth == "" {
		spec.Depth = shape.depth
	}
	if spec.Style == "" {
		spec.Style = model.StyleFreeFlow
		if shape.structural || req.Flags.DeepDive || req.Intent == types.IntentAffordability {
			spec.Style = model.StyleScaffolded
		}
	}

	return spec
}

// dials derives the four tone dials from intent and situational flags.
// Flags win over intent defaults; bad news always zeroes humor.
func (c *Composer) dials(intent types.Intent, flags model.TurnFlags) model.ToneDials {
	dials := model.DefaultToneDials()

	switch intent {
	case types.IntentAffordability, types.IntentCashflow:
		dials.Humor = 0.2
		dials.Optimism = 0.4
	case types.IntentScheduling:
		dials.Brevity = 0.7
	}

	if flags.Celebration {
		dials.Energy = 1.0
		dials.Optimism = 1.0
	}
	if flags.Quick {
		dials.Brevity = 0.9
	}
	if flags.DeepDive {
		dials.Brevity = 0.2
	}
	if flags.BadNews {
		dials.Humor = 0
		dials.Optimism = 0.2
	}

	return dials
}

// Instructions renders the ordered instruction blocks for a composed
// persona. The rendering-style block is always last so it takes precedence
// over earlier, more general guidance.
func (c *Composer) Instructions(spec model.PersonaSpec) []model.Instruction {
	blocks := []model.Instruction{
		{Name: "tone", Text: toneText(spec.Dials)},
		{Name: "depth", Text: depthText(spec.Depth)},
		{Name: "style", Text: styleText(spec.Style)},
	}
	return blocks
}

func toneText(d model.ToneDials) string {
	var parts []string
	switch {
	case d.Humor == 0:
		parts = append(parts, "Do not use humor; keep a serious, supportive tone.")
	case d.Humor >= 0.7:
		parts = append(parts, "Light humor is welcome.")
	default:
		parts = append(parts, "Keep humor minimal.")
	}

	if d.Energy >= 0.8 {
		parts = append(parts, "Be upbeat and energetic; this is good news worth celebrating.")
	}

	switch {
	case d.Optimism <= 0.25:
		parts = append(parts, "Be honest and measured; do not sugarcoat the situation.")
	case d.Optimism >= 0.8:
		parts = append(parts, "Emphasize the positives.")
	}

	switch {
	case d.Brevity >= 0.8:
		parts = append(parts, "Answer in a few sentences at most.")
	case d.Brevity <= 0.3:
		parts = append(parts, "Take the space needed to be thorough.")
	}

	return strings.Join(parts, " ")
}

func depthText(depth model.Depth) string {
	switch depth {
	case model.DepthBrief:
		return "Keep the answer brief: the single most important point, then stop."
	case model.DepthComprehensive:
		return "Give a comprehensive answer covering the relevant angles and trade-offs."
	default:
		return "Give a focused answer with the key reasoning, without exhaustive detail."
	}
}

func styleText(style model.RenderStyle) string {
	if style == model.StyleScaffolded {
		return fmt.Sprintf("Structure the reply with these sections in order: %s. Use short markdown headers for each.",
			"Bottom line, What the numbers say, What I'd do, Watch out for")
	}
	return "Reply conversationally in flowing prose. No section headers unless the user asked for structure."
}

// shape is the inferred answer shape from the literal prompt text
type shape struct {
	depth      model.Depth
	structural bool
}

var (
	reSteps    = regexp.MustCompile(`(?i)\b(?:step[-\s]by[-\s]step|walk me through|how do i|instructions)\b`)
	reVersus   = regexp.MustCompile(`(?i)\b(?:vs\.?|versus|compare|comparison|which is better)\b`)
	reTable    = regexp.MustCompile(`(?i)\b(?:table|breakdown|side[-\s]by[-\s]side)\b`)
	reBrief    = regexp.MustCompile(`(?i)\b(?:briefly|in short|tl;?dr|quick answer|one line)\b`)
	reThorough = regexp.MustCompile(`(?i)\b(?:in detail|detailed|deep dive|everything i should know|thorough)\b`)
)

func detectShape(message string) shape {
	s := shape{depth: model.DepthStandard}

	switch {
	case reBrief.MatchString(message):
		s.depth = model.DepthBrief
	case reThorough.MatchString(message):
		s.depth = model.DepthComprehensive
		s.structural = true
	}

	if reSteps.MatchString(message) || reVersus.MatchString(message) || reTable.MatchString(message) {
		s.structural = true
	}

	return s
}
