package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/bizmate-ai/bizmate/pkg/domain/model"
	"github.com/bizmate-ai/bizmate/pkg/domain/types"
	"github.com/bizmate-ai/bizmate/pkg/utils/logging"
)

const (
	kpiFetchLimit      = 3
	forecastFetchLimit = 6
	movesFetchLimit    = 3

	chatFetchLimit  = 20
	chatWindowSize  = 6
	chatSummaryMax  = 600
	summaryLineMax  = 80
	businessDataTTL = 30 * time.Second
)

// businessReport is the cacheable slice of business context shared by all
// turns of the same tenant.
type businessReport struct {
	KPIs     []*model.KPISnapshot
	Forecast []*model.ForecastPoint
	Moves    []*model.SuggestedMove
}

// assembleContext fills the bundle for one turn. Caller-supplied fields
// are kept as-is; everything else is fetched concurrently. Individual
// fetch failures degrade that section to empty rather than failing the
// turn.
func (uc *UseCases) assembleContext(ctx context.Context, input *ChatInput, query string) *model.ContextBundle {
	bundle := &model.ContextBundle{}
	if input.Bundle != nil {
		copied := *input.Bundle
		bundle = &copied
	}

	// A caller-supplied window has not been through NewMessage, so its
	// roles are not yet guaranteed to be in the known set.
	if len(bundle.RecentChat) > 0 {
		entries := make([]model.ChatEntry, len(bundle.RecentChat))
		for i, entry := range bundle.RecentChat {
			entries[i] = model.ChatEntry{Role: entry.Role.Sanitize(), Content: entry.Content}
		}
		bundle.RecentChat = entries
	}

	uc.resolveBusiness(ctx, input, bundle)
	uc.fetchBusinessData(ctx, bundle)
	bundle.KPIDelta = kpiDelta(bundle.KPIs)

	eg, egCtx := errgroup.WithContext(ctx)

	if len(bundle.RecentChat) == 0 && bundle.ChatSummary == "" && input.ThreadID != "" {
		eg.Go(func() error {
			window, summary := uc.loadChatWindow(egCtx, input.ThreadID)
			bundle.RecentChat = window
			bundle.ChatSummary = summary
			return nil
		})
	}

	if len(bundle.MemorySynopsis) == 0 {
		eg.Go(func() error {
			lines, err := uc.memories.Recall(egCtx, input.UserID, query, nil)
			if err != nil {
				logging.From(egCtx).Warn("memory recall failed", "error", err)
				return nil
			}
			bundle.MemorySynopsis = lines
			return nil
		})
	}

	_ = eg.Wait()

	if bundle.Business != nil && bundle.Business.Demo {
		bundle.DemoNarrative = uc.demoNarrative
	}
	bundle.Onboarding = bundle.Business == nil ||
		!bundle.Business.AccountingConnected || !bundle.Business.OnboardingComplete

	return bundle
}

// resolveBusiness locates the tenant profile by explicit business ID or by
// owner. A lookup miss leaves the bundle without a business, which routes
// the turn into onboarding guidance.
func (uc *UseCases) resolveBusiness(ctx context.Context, input *ChatInput, bundle *model.ContextBundle) {
	if bundle.Business != nil {
		return
	}

	var (
		profile *model.BusinessProfile
		err     error
	)
	if input.BusinessID != "" {
		profile, err = uc.repo.Business().GetProfile(ctx, input.BusinessID)
	} else {
		profile, err = uc.repo.Business().GetProfileByUser(ctx, input.UserID)
	}
	if err != nil {
		logging.From(ctx).Debug("no business profile resolved",
			"user_id", input.UserID, "business_id", input.BusinessID, "error", err)
		return
	}
	bundle.Business = profile
}

// fetchBusinessData loads KPIs, forecast and suggested moves for the
// resolved business, going through the short-lived cache and collapsing
// concurrent fetches of the same tenant into one.
func (uc *UseCases) fetchBusinessData(ctx context.Context, bundle *model.ContextBundle) {
	if bundle.Business == nil {
		return
	}
	// Any caller-supplied section makes the combined report unusable,
	// so fall through to direct fetches of the missing parts only.
	if len(bundle.KPIs) > 0 || len(bundle.Forecast) > 0 || len(bundle.Moves) > 0 {
		uc.fetchMissingSections(ctx, bundle)
		return
	}

	businessID := bundle.Business.ID
	key := "bizdata:" + string(businessID)

	if cached, ok := uc.cache.Get(key); ok {
		if report, ok := cached.(*businessReport); ok {
			bundle.KPIs = report.KPIs
			bundle.Forecast = report.Forecast
			bundle.Moves = report.Moves
			return
		}
	}

	v, err, _ := uc.group.Do(key, func() (any, error) {
		report := &businessReport{}
		eg, egCtx := errgroup.WithContext(ctx)
		eg.Go(func() error {
			report.KPIs = uc.listKPIs(egCtx, businessID)
			return nil
		})
		eg.Go(func() error {
			report.Forecast = uc.listForecast(egCtx, businessID)
			return nil
		})
		eg.Go(func() error {
			report.Moves = uc.listMoves(egCtx, businessID)
			return nil
		})
		_ = eg.Wait()
		return report, nil
	})
	if err != nil {
		return
	}

	report := v.(*businessReport)
	uc.cache.Set(key, report, businessDataTTL)
	bundle.KPIs = report.KPIs
	bundle.Forecast = report.Forecast
	bundle.Moves = report.Moves
}

func (uc *UseCases) fetchMissingSections(ctx context.Context, bundle *model.ContextBundle) {
	businessID := bundle.Business.ID
	eg, egCtx := errgroup.WithContext(ctx)
	if len(bundle.KPIs) == 0 {
		eg.Go(func() error {
			bundle.KPIs = uc.listKPIs(egCtx, businessID)
			return nil
		})
	}
	if len(bundle.Forecast) == 0 {
		eg.Go(func() error {
			bundle.Forecast = uc.listForecast(egCtx, businessID)
			return nil
		})
	}
	if len(bundle.Moves) == 0 {
		eg.Go(func() error {
			bundle.Moves = uc.listMoves(egCtx, businessID)
			return nil
		})
	}
	_ = eg.Wait()
}

func (uc *UseCases) listKPIs(ctx context.Context, businessID types.BusinessID) []*model.KPISnapshot {
	kpis, err := uc.repo.Business().ListKPISnapshots(ctx, businessID, kpiFetchLimit)
	if err != nil {
		logging.From(ctx).Warn("failed to list KPI snapshots", "error", err, "business_id", businessID)
		return nil
	}
	return kpis
}

func (uc *UseCases) listForecast(ctx context.Context, businessID types.BusinessID) []*model.ForecastPoint {
	points, err := uc.repo.Business().ListForecast(ctx, businessID, forecastFetchLimit)
	if err != nil {
		logging.From(ctx).Warn("failed to list forecast", "error", err, "business_id", businessID)
		return nil
	}
	return points
}

func (uc *UseCases) listMoves(ctx context.Context, businessID types.BusinessID) []*model.SuggestedMove {
	moves, err := uc.repo.Business().ListSuggestedMoves(ctx, businessID, movesFetchLimit)
	if err != nil {
		logging.From(ctx).Warn("failed to list suggested moves", "error", err, "business_id", businessID)
		return nil
	}
	return moves
}

// kpiDelta derives the period-over-period change from the newest-first
// snapshot list.
func kpiDelta(kpis []*model.KPISnapshot) *model.KPIDelta {
	if len(kpis) < 2 {
		return nil
	}
	return model.DeltaOf(kpis[0], kpis[1])
}

// loadChatWindow returns the verbatim recent-chat window (oldest first)
// plus a bounded summary of older messages when the thread exceeds the
// window size.
func (uc *UseCases) loadChatWindow(ctx context.Context, threadID types.ThreadID) ([]model.ChatEntry, string) {
	messages, err := uc.repo.Message().ListRecent(ctx, threadID, chatFetchLimit)
	if err != nil {
		logging.From(ctx).Warn("failed to list recent messages", "error", err, "thread_id", threadID)
		return nil, ""
	}
	if len(messages) == 0 {
		return nil, ""
	}

	// ListRecent is newest-first; prompts want oldest-first
	window := messages
	var older []*model.Message
	if len(messages) > chatWindowSize {
		window = messages[:chatWindowSize]
		older = messages[chatWindowSize:]
	}

	entries := make([]model.ChatEntry, 0, len(window))
	for i := len(window) - 1; i >= 0; i-- {
		entries = append(entries, model.ChatEntry{
			Role:    window[i].Role,
			Content: window[i].Content,
		})
	}

	return entries, summarizeMessages(older)
}

// summarizeMessages compresses older messages (newest-first input) into a
// single bounded digest, oldest line first.
func summarizeMessages(older []*model.Message) string {
	if len(older) == 0 {
		return ""
	}

	lines := make([]string, 0, len(older))
	for i := len(older) - 1; i >= 0; i-- {
		m := older[i]
		lines = append(lines, fmt.Sprintf("%s: %s", m.Role, model.TruncateRunes(m.Content, summaryLineMax)))
	}

	summary := strings.Join(lines, "\n")
	if utf8.RuneCountInString(summary) > chatSummaryMax {
		summary = model.TruncateRunes(summary, chatSummaryMax)
	}
	return summary
}
