package model

import (
	"time"

	"github.com/bizmate-ai/bizmate/pkg/domain/types"
)

// EmbeddingDimension is the vector size used for all embeddings
const EmbeddingDimension = 768

// MemoryRecord is a stored exchange retrievable by similarity search.
// Records are created once per qualifying turn and never mutated.
type MemoryRecord struct {
	ID        types.MemoryID
	UserID    types.UserID
	Embedding []float32
	Input     string
	Response  string
	Tags      []string
	KPI       *KPIDigest // compact KPI snapshot at the time of the turn
	CreatedAt time.Time
}

// KPIDigest is a lightweight KPI snapshot attached to a memory record
type KPIDigest struct {
	Period   string
	Revenue  float64
	Expenses float64
	Profit   float64
}

// MemoryHit is a similarity-search result
type MemoryHit struct {
	Record *MemoryRecord
	Score  float64 // cosine similarity, higher is more relevant
}

// HasTag reports whether the record carries the given tag
func (m *MemoryRecord) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
