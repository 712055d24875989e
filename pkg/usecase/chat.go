package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"

	"github.com/bizmate-ai/bizmate/pkg/domain/interfaces"
	"github.com/bizmate-ai/bizmate/pkg/domain/model"
	"github.com/bizmate-ai/bizmate/pkg/domain/types"
	"github.com/bizmate-ai/bizmate/pkg/service/persona"
	"github.com/bizmate-ai/bizmate/pkg/service/websearch"
	"github.com/bizmate-ai/bizmate/pkg/utils/logging"
)

// turnStage tracks how far a turn progressed. Recorded on the turn log
// line and useful when a turn dies mid-pipeline.
type turnStage string

const (
	stageReceived  turnStage = "received"
	stageRouted    turnStage = "routed"
	stageMetered   turnStage = "metered"
	stageAssembled turnStage = "assembled"
	stageComposed  turnStage = "composed"
	stageInvoked   turnStage = "invoked"
	stagePersisted turnStage = "persisted"
	stageResponded turnStage = "responded"
)

// ChatInput is one conversational turn request
type ChatInput struct {
	UserID     types.UserID
	Message    string
	Intent     types.Intent // optional explicit intent from the caller
	ThreadID   types.ThreadID
	BusinessID types.BusinessID
	Flags      model.TurnFlags
	Depth      model.Depth
	Style      model.RenderStyle
	// Bundle carries caller-supplied context fields, which suppress the
	// corresponding fetch during assembly.
	Bundle *model.ContextBundle
}

// WebMeta reports what happened to the web lookup during a turn
type WebMeta struct {
	Used          bool
	LimitReached  bool
	NotConfigured bool
}

// TurnMeta is diagnostic metadata returned with every response
type TurnMeta struct {
	Intent   types.Intent
	ThreadID types.ThreadID
	Elapsed  time.Duration
	Model    string
	Stub     bool
	Web      WebMeta
	Error    string // error tag, empty on a clean turn
}

// ChatOutput is the complete result of one turn
type ChatOutput struct {
	ResponseText     string
	SuggestedActions []string
	FollowUpPrompt   string
	Meta             TurnMeta
}

const stubResponse = "I'm having trouble reaching my reasoning service right now. " +
	"Your message came through; please try again in a moment."

// Chat runs one conversational turn end to end: classify, meter, assemble
// context, compose the prompt, invoke the model once, persist the
// exchange and shape the response. It never returns an error to the
// caller; failures are folded into the response body and meta.
func (uc *UseCases) Chat(ctx context.Context, input *ChatInput) (output *ChatOutput) {
	started := time.Now()
	stage := stageReceived
	logger := logging.From(ctx)

	defer func() {
		if r := recover(); r != nil {
			err := goerr.New(fmt.Sprintf("panic in chat turn: %v", r), goerr.V("stage", stage))
			logger.Error("chat turn panicked", "error", err, "user_id", input.UserID)
			if sentry.CurrentHub().Client() != nil {
				sentry.CaptureException(err)
			}
			output = uc.failureOutput(input, started, errTagInternal,
				"Something went wrong on my side. Please try that again.")
		}
	}()

	// Validation failures answer in-band, never as a thrown error
	if err := uc.validate(input); err != nil {
		return uc.failureOutput(input, started, errTagValidation,
			fmt.Sprintf("I can't process that request: %s.", err))
	}

	routed := uc.router.Classify(input.Message, input.Intent)
	stage = stageRouted

	counter, err := uc.checkAndCountQuery(ctx, input.UserID, started)
	if err != nil {
		if errors.Is(err, ErrQuotaExceeded) {
			return uc.failureOutput(input, started, errTagQuota,
				fmt.Sprintf("You've reached your plan's monthly limit of %d questions. "+
					"The counter resets at the start of next month.", uc.quota.MonthlyQueries))
		}
		logger.Error("usage check failed", "error", err, "user_id", input.UserID)
		return uc.failureOutput(input, started, errTagInternal,
			"I couldn't verify your account usage. Please try again shortly.")
	}
	stage = stageMetered

	bundle := uc.assembleContext(ctx, input, input.Message)
	if len(routed.Entities) > 0 {
		if bundle.Entities == nil {
			bundle.Entities = routed.Entities
		} else {
			for k, v := range routed.Entities {
				bundle.Entities[k] = v
			}
		}
	}
	stage = stageAssembled

	web := uc.maybeWebLookup(ctx, input.Message, bundle, counter, started)

	depth := input.Depth
	if depth == "" {
		depth = uc.defaultDepth
	}
	style := input.Style
	if style == "" {
		style = uc.defaultStyle
	}
	spec := uc.personas.Compose(persona.Request{
		Intent:  routed.Intent,
		Flags:   input.Flags,
		Message: input.Message,
		Depth:   depth,
		Style:   style,
	})
	prompt, err := renderSystemPrompt(bundle, uc.personas.Instructions(spec), web.NotConfigured || web.LimitReached)
	if err != nil {
		logger.Error("prompt composition failed", "error", err)
		return uc.failureOutput(input, started, errTagInternal,
			"I couldn't put together an answer this time. Please try again.")
	}
	stage = stageComposed

	reply := uc.invoke(ctx, prompt, input.Message)
	stage = stageInvoked

	threadID := uc.persistTurn(ctx, input, routed.Intent, bundle, reply)
	stage = stagePersisted

	output = &ChatOutput{
		ResponseText:     reply.Text,
		SuggestedActions: suggestedActions(bundle),
		FollowUpPrompt:   followUpPrompt(routed.Intent, bundle),
		Meta: TurnMeta{
			Intent:   routed.Intent,
			ThreadID: threadID,
			Elapsed:  time.Since(started),
			Model:    reply.Model,
			Stub:     reply.Stub,
			Web:      web,
		},
	}
	stage = stageResponded

	logger.Info("chat turn completed",
		"user_id", input.UserID,
		"intent", routed.Intent,
		"thread_id", threadID,
		"stage", stage,
		"elapsed_ms", output.Meta.Elapsed.Milliseconds(),
		"stub", reply.Stub,
		"web_used", web.Used,
	)

	return output
}

func (uc *UseCases) validate(input *ChatInput) error {
	if err := input.UserID.Validate(); err != nil {
		return ErrMissingUserID
	}
	if strings.TrimSpace(input.Message) == "" {
		return ErrMissingMessage
	}
	return nil
}

// invoke calls the model exactly once. Any provider failure degrades to
// the canned stub reply so the turn still completes.
func (uc *UseCases) invoke(ctx context.Context, prompt, message string) *interfaces.Reply {
	if uc.generator == nil {
		return &interfaces.Reply{Text: stubResponse, Stub: true}
	}

	reply, err := uc.generator.Generate(ctx, prompt, message)
	if err != nil {
		logging.From(ctx).Error("model invocation failed", "error", err)
		if sentry.CurrentHub().Client() != nil {
			sentry.CaptureException(err)
		}
		return &interfaces.Reply{Text: stubResponse, Stub: true}
	}
	return reply
}

// maybeWebLookup runs the live lookup when the message calls for one and
// the gate allows it. Provider failures degrade silently; the turn
// proceeds without web context.
func (uc *UseCases) maybeWebLookup(ctx context.Context, message string, bundle *model.ContextBundle, counter *model.UsageCounter, now time.Time) WebMeta {
	var web WebMeta
	if bundle.WebContext != "" || !websearch.WantsLiveData(message) {
		return web
	}

	if uc.searcher == nil {
		web.NotConfigured = true
		return web
	}
	if !uc.webLookupAllowed(counter) {
		web.LimitReached = true
		return web
	}

	result, err := uc.searcher.Search(ctx, message)
	if err != nil {
		logging.From(ctx).Warn("web lookup failed", "error", err)
		return web
	}
	if result == nil {
		return web
	}

	uc.recordWebLookup(ctx, counter, now)
	bundle.WebContext = result.Text
	web.Used = true
	return web
}

func (uc *UseCases) failureOutput(input *ChatInput, started time.Time, tag, text string) *ChatOutput {
	return &ChatOutput{
		ResponseText: text,
		Meta: TurnMeta{
			Intent:   input.Intent,
			ThreadID: input.ThreadID,
			Elapsed:  time.Since(started),
			Error:    tag,
		},
	}
}

// suggestedActions surfaces the standing moves as response chips
func suggestedActions(bundle *model.ContextBundle) []string {
	if len(bundle.Moves) == 0 {
		return nil
	}
	actions := make([]string, 0, len(bundle.Moves))
	for _, move := range bundle.Moves {
		actions = append(actions, move.Title)
	}
	return actions
}

func followUpPrompt(intent types.Intent, bundle *model.ContextBundle) string {
	if bundle.Onboarding {
		return "Want help finishing your account setup?"
	}
	switch intent {
	case types.IntentAffordability:
		return "Want me to walk through how this changes your monthly cash flow?"
	case types.IntentScheduling:
		return "Should I look at the rest of this week's schedule too?"
	case types.IntentCashflow:
		return "Want a month-over-month breakdown of what changed?"
	case types.IntentPricing:
		return "Want me to compare this against your current margins?"
	default:
		return "Anything else about the business I can dig into?"
	}
}
