// Package memorybank implements long-term conversational memory: storing
// qualifying exchanges with embeddings and recalling them by similarity
// for prompt grounding.
package memorybank

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"

	"github.com/bizmate-ai/bizmate/pkg/domain/interfaces"
	"github.com/bizmate-ai/bizmate/pkg/domain/model"
	"github.com/bizmate-ai/bizmate/pkg/domain/types"
	"github.com/bizmate-ai/bizmate/pkg/utils/logging"
)

// Config tunes storage and recall behavior
type Config struct {
	// MinStoreLen is the triviality threshold: exchanges whose combined
	// input+response length is below it are not stored.
	MinStoreLen int
	// DedupThreshold is the similarity floor above which an existing
	// record suppresses a new insert.
	DedupThreshold float64
	// RecallThreshold is the similarity floor for recall
	RecallThreshold float64
	// RecallLimit is the top-K for recall
	RecallLimit int
	// FallbackScan is how many recent records the keyword fallback scans
	FallbackScan int
}

// DefaultConfig returns the standard thresholds
func DefaultConfig() Config {
	return Config{
		MinStoreLen:     20,
		DedupThreshold:  0.96,
		RecallThreshold: 0.75,
		RecallLimit:     5,
		FallbackScan:    50,
	}
}

// Service is the memory subsystem
type Service struct {
	repo     interfaces.MemoryRepository
	embedder interfaces.Embedder
	config   Config
}

func New(repo interfaces.MemoryRepository, embedder interfaces.Embedder, config Config) *Service {
	if config.RecallLimit <= 0 {
		config = DefaultConfig()
	}
	return &Service{
		repo:     repo,
		embedder: embedder,
		config:   config,
	}
}

// Store persists one exchange as a memory record. Trivial exchanges and
// near-duplicates of existing records are skipped. Returns the stored
// record, or nil when storage was skipped.
func (s *Service) Store(ctx context.Context, userID types.UserID, input, response string, tags []string, kpi *model.KPIDigest) (*model.MemoryRecord, error) {
	if utf8.RuneCountInString(input)+utf8.RuneCountInString(response) < s.config.MinStoreLen {
		return nil, nil
	}
	if s.embedder == nil {
		return nil, nil
	}

	embedding, err := s.embedder.Embed(ctx, representative(input, response))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed exchange", goerr.V("userID", userID))
	}

	// Dedup: a sufficiently similar existing record suppresses the insert
	hits, err := s.repo.Search(ctx, userID, embedding, interfaces.MemorySearchOption{
		MinScore: s.config.DedupThreshold,
		Limit:    1,
	})
	if err != nil {
		logging.From(ctx).Warn("memory dedup search failed, storing anyway", "error", err.Error())
	} else if len(hits) > 0 {
		logging.From(ctx).Debug("skipping near-duplicate memory",
			"userID", userID,
			"similarTo", hits[0].Record.ID,
			"score", hits[0].Score,
		)
		return nil, nil
	}

	record := &model.MemoryRecord{
		UserID:    userID,
		Embedding: embedding,
		Input:     input,
		Response:  response,
		Tags:      tags,
		KPI:       kpi,
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create memory record", goerr.V("userID", userID))
	}

	return created, nil
}

// Recall returns one-line synopses of the user's most relevant memories
// for the query, most relevant first. When vector search is unavailable
// it degrades to keyword-overlap scoring over recent records.
func (s *Service) Recall(ctx context.Context, userID types.UserID, query string, tags []string) ([]string, error) {
	if s.embedder == nil {
		return s.recallByKeywords(ctx, userID, query)
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		logging.From(ctx).Warn("query embedding failed, using keyword fallback", "error", err.Error())
		return s.recallByKeywords(ctx, userID, query)
	}

	hits, err := s.repo.Search(ctx, userID, embedding, interfaces.MemorySearchOption{
		MinScore: s.config.RecallThreshold,
		Limit:    s.config.RecallLimit,
		Tags:     tags,
	})
	if err != nil {
		logging.From(ctx).Warn("vector search failed, using keyword fallback", "error", err.Error())
		return s.recallByKeywords(ctx, userID, query)
	}

	synopses := make([]string, 0, len(hits))
	for _, hit := range hits {
		synopses = append(synopses, synopsis(hit.Record))
	}

	return synopses, nil
}

// representative picks the text to embed: the non-empty side of the
// exchange, or the concatenation when both are present.
func representative(input, response string) string {
	switch {
	case input == "":
		return response
	case response == "":
		return input
	default:
		return input + "\n" + response
	}
}

// synopsis renders a record as a one-line natural-language summary for
// prompt inclusion.
func synopsis(rec *model.MemoryRecord) string {
	return fmt.Sprintf("From a previous discussion: %q → reply: %q",
		model.TruncateRunes(rec.Input, 140),
		model.TruncateRunes(rec.Response, 140),
	)
}

var wordSplit = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// recallByKeywords is the availability fallback: scan recent records and
// score by raw keyword-overlap count against the query terms. Relevance
// ordering is strictly worse than vector search.
func (s *Service) recallByKeywords(ctx context.Context, userID types.UserID, query string) ([]string, error) {
	records, err := s.repo.ListRecent(ctx, userID, s.config.FallbackScan)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list recent memories", goerr.V("userID", userID))
	}

	terms := map[string]struct{}{}
	for _, term := range wordSplit.Split(strings.ToLower(query), -1) {
		if len(term) >= 3 {
			terms[term] = struct{}{}
		}
	}
	if len(terms) == 0 {
		return nil, nil
	}

	type scored struct {
		record *model.MemoryRecord
		score  int
	}

	var candidates []scored
	for _, rec := range records {
		score := overlapCount(terms, rec.Input+" "+rec.Response)
		if score > 0 {
			candidates = append(candidates, scored{record: rec, score: score})
		}
	}

	// Insertion-order stability keeps newer records first on ties
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && candidates[j].score > candidates[j-1].score; j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}

	limit := s.config.RecallLimit
	if limit > len(candidates) {
		limit = len(candidates)
	}

	synopses := make([]string, 0, limit)
	for _, c := range candidates[:limit] {
		synopses = append(synopses, synopsis(c.record))
	}

	return synopses, nil
}

func overlapCount(terms map[string]struct{}, text string) int {
	count := 0
	seen := map[string]struct{}{}
	for _, word := range wordSplit.Split(strings.ToLower(text), -1) {
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		if _, ok := terms[word]; ok {
			count++
		}
	}
	return count
}
