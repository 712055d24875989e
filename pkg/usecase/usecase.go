package usecase

import (
	"github.com/bizmate-ai/bizmate/pkg/domain/interfaces"
	"github.com/bizmate-ai/bizmate/pkg/domain/model"
	"github.com/bizmate-ai/bizmate/pkg/service/cache"
	"github.com/bizmate-ai/bizmate/pkg/service/intent"
	"github.com/bizmate-ai/bizmate/pkg/service/memorybank"
	"github.com/bizmate-ai/bizmate/pkg/service/persona"
	"golang.org/x/sync/singleflight"
)

// QuotaConfig holds the per-user monthly caps. Zero values fall back to
// the defaults below.
type QuotaConfig struct {
	MonthlyQueries    int
	MonthlyWebLookups int
}

const (
	defaultMonthlyQueries    = 300
	defaultMonthlyWebLookups = 20
)

type UseCases struct {
	repo      interfaces.Repository
	generator interfaces.ResponseGenerator
	embedder  interfaces.Embedder
	searcher  interfaces.WebSearcher

	memories *memorybank.Service
	router   *intent.Router
	personas *persona.Composer

	cache cache.Cache
	group singleflight.Group

	quota         QuotaConfig
	demoNarrative string
	deferWrites   bool
	defaultDepth  model.Depth
	defaultStyle  model.RenderStyle
}

type Option func(*UseCases)

func WithGenerator(gen interfaces.ResponseGenerator) Option {
	return func(uc *UseCases) {
		uc.generator = gen
	}
}

func WithEmbedder(emb interfaces.Embedder) Option {
	return func(uc *UseCases) {
		uc.embedder = emb
	}
}

func WithWebSearcher(s interfaces.WebSearcher) Option {
	return func(uc *UseCases) {
		uc.searcher = s
	}
}

func WithQuota(q QuotaConfig) Option {
	return func(uc *UseCases) {
		uc.quota = q
	}
}

func WithCache(c cache.Cache) Option {
	return func(uc *UseCases) {
		uc.cache = c
	}
}

// WithPersonaDefaults pins depth and style for turns that don't specify
// them, overriding the per-message shape heuristics.
func WithPersonaDefaults(depth model.Depth, style model.RenderStyle) Option {
	return func(uc *UseCases) {
		uc.defaultDepth = depth
		uc.defaultStyle = style
	}
}

// WithDemoNarrative sets the canned walkthrough text blended into the
// context for demo accounts.
func WithDemoNarrative(text string) Option {
	return func(uc *UseCases) {
		uc.demoNarrative = text
	}
}

// WithDeferredWrites moves post-response persistence onto a background
// goroutine. Scheduling turns always persist synchronously.
func WithDeferredWrites(enabled bool) Option {
	return func(uc *UseCases) {
		uc.deferWrites = enabled
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:     repo,
		router:   intent.New(),
		personas: persona.New(),
		cache:    cache.Null{},
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.quota.MonthlyQueries <= 0 {
		uc.quota.MonthlyQueries = defaultMonthlyQueries
	}
	if uc.quota.MonthlyWebLookups <= 0 {
		uc.quota.MonthlyWebLookups = defaultMonthlyWebLookups
	}

	uc.memories = memorybank.New(repo.Memory(), uc.embedder, memorybank.DefaultConfig())

	return uc
}
