package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/bizmate-ai/bizmate/pkg/domain/interfaces"
	"github.com/bizmate-ai/bizmate/pkg/domain/model"
	"github.com/bizmate-ai/bizmate/pkg/domain/types"
)

type memoryRecordRepository struct {
	mu      sync.RWMutex
	records map[types.UserID][]*model.MemoryRecord
}

func newMemoryRecordRepository() *memoryRecordRepository {
	return &memoryRecordRepository{
		records: make(map[types.UserID][]*model.MemoryRecord),
	}
}

func copyRecord(m *model.MemoryRecord) *model.MemoryRecord {
	copied := *m
	if m.Embedding != nil {
		copied.Embedding = make([]float32, len(m.Embedding))
		copy(copied.Embedding, m.Embedding)
	}
	if m.Tags != nil {
		copied.Tags = append([]string(nil), m.Tags...)
	}
	if m.KPI != nil {
		kpi := *m.KPI
		copied.KPI = &kpi
	}
	return &copied
}

func (r *memoryRecordRepository) Create(ctx context.Context, record *model.MemoryRecord) (*model.MemoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyRecord(record)
	if created.ID == "" {
		created.ID = types.NewMemoryID()
	}
	created.CreatedAt = time.Now().UTC()

	r.records[created.UserID] = append(r.records[created.UserID], created)
	return copyRecord(created), nil
}

func (r *memoryRecordRepository) Search(ctx context.Context, userID types.UserID, embedding []float32, opt interfaces.MemorySearchOption) ([]*model.MemoryHit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var hits []*model.MemoryHit
	for _, rec := range r.records[userID] {
		if len(rec.Embedding) == 0 {
			continue
		}
		if len(opt.Tags) > 0 && !hasAnyTag(rec, opt.Tags) {
			continue
		}
		score := cosineSimilarity(embedding, rec.Embedding)
		if score < opt.MinScore {
			continue
		}
		hits = append(hits, &model.MemoryHit{Record: copyRecord(rec), Score: score})
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if opt.Limit > 0 && len(hits) > opt.Limit {
		hits = hits[:opt.Limit]
	}

	return hits, nil
}

func (r *memoryRecordRepository) ListRecent(ctx context.Context, userID types.UserID, limit int) ([]*model.MemoryRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.records[userID]
	result := make([]*model.MemoryRecord, 0, len(stored))
	for _, rec := range stored {
		result = append(result, copyRecord(rec))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

func hasAnyTag(rec *model.MemoryRecord, tags []string) bool {
	for _, tag := range tags {
		if rec.HasTag(tag) {
			return true
		}
	}
	return false
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}

	return dot / denom
}
