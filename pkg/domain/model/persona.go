package model

// RenderStyle selects how the reply is structured
type RenderStyle string

const (
	// StyleFreeFlow is the default conversational rendering
	StyleFreeFlow RenderStyle = "free_flow"
	// StyleScaffolded renders with explicit structural sections
	StyleScaffolded RenderStyle = "scaffolded"
)

// Depth controls how thorough the reply should be
type Depth string

const (
	DepthBrief         Depth = "brief"
	DepthStandard      Depth = "standard"
	DepthComprehensive Depth = "comprehensive"
)

// ToneDials are numeric tone parameters in [0, 1]
type ToneDials struct {
	Humor    float64
	Energy   float64
	Brevity  float64
	Optimism float64
}

// DefaultToneDials returns the neutral midpoint dials
func DefaultToneDials() ToneDials {
	return ToneDials{Humor: 0.5, Energy: 0.5, Brevity: 0.5, Optimism: 0.5}
}

// TurnFlags are explicit situational flags supplied with a turn
type TurnFlags struct {
	BadNews     bool
	Celebration bool
	Quick       bool
	DeepDive    bool
}

// PersonaSpec is the ephemeral per-turn persona resolution
type PersonaSpec struct {
	Dials ToneDials
	Style RenderStyle
	Depth Depth
}

// Instruction is one ordered instruction block for the model. Blocks are
// sent in order; later blocks take precedence when guidance conflicts.
type Instruction struct {
	Name string
	Text string
}
