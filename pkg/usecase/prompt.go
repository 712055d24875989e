package usecase

import (
	"bytes"
	_ "embed"
	"text/template"

	"github.com/m-mizutani/goerr/v2"

	"github.com/bizmate-ai/bizmate/pkg/domain/model"
)

//go:embed prompt/system.md
var systemPromptTmpl string

var systemPrompt = template.Must(template.New("system").Parse(systemPromptTmpl))

// promptData is the rendering input for the system prompt. Sections are
// ordered data first, persona instructions next (style last within them)
// and the recent chat window at the end, just before the user message.
type promptData struct {
	Onboarding     bool
	HasBusiness    bool
	Business       *model.BusinessProfile
	KPIs           []*model.KPISnapshot
	KPIDelta       *model.KPIDelta
	Forecast       []*model.ForecastPoint
	Moves          []*model.SuggestedMove
	DemoNarrative  string
	MemorySynopsis []string
	WebContext     string
	WebUnavailable bool
	Entities       map[string]string
	Instructions   []model.Instruction
	ChatSummary    string
	RecentChat     []model.ChatEntry
}

func renderSystemPrompt(bundle *model.ContextBundle, instructions []model.Instruction, webUnavailable bool) (string, error) {
	data := promptData{
		Onboarding:     bundle.Onboarding,
		HasBusiness:    bundle.Business != nil,
		Business:       bundle.Business,
		KPIs:           bundle.KPIs,
		KPIDelta:       bundle.KPIDelta,
		Forecast:       bundle.Forecast,
		Moves:          bundle.Moves,
		DemoNarrative:  bundle.DemoNarrative,
		MemorySynopsis: bundle.MemorySynopsis,
		WebContext:     bundle.WebContext,
		WebUnavailable: webUnavailable,
		Entities:       bundle.Entities,
		Instructions:   instructions,
		ChatSummary:    bundle.ChatSummary,
		RecentChat:     bundle.RecentChat,
	}

	var buf bytes.Buffer
	if err := systemPrompt.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to render system prompt")
	}
	return buf.String(), nil
}
