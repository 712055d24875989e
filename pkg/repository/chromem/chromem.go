// Package chromem provides a persistent local vector index for memory
// records, backed by the embedded chromem-go database. It is used by the
// "local" repository backend where Firestore is not available.
package chromem

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	chromemgo "github.com/philippgille/chromem-go"

	"github.com/m-mizutani/goerr/v2"

	"github.com/bizmate-ai/bizmate/pkg/domain/interfaces"
	"github.com/bizmate-ai/bizmate/pkg/domain/model"
	"github.com/bizmate-ai/bizmate/pkg/domain/types"
	"github.com/bizmate-ai/bizmate/pkg/repository/memory"
)

// Local is the local repository backend: in-memory storage for threads,
// messages, usage and business data, with memory records persisted in a
// chromem-go vector index.
type Local struct {
	base    *memory.Memory
	memBank *memoryRecordRepository
}

var _ interfaces.Repository = &Local{}

// NewLocal opens (or creates) a chromem index at path and wraps it with
// the in-memory backend.
func NewLocal(path string) (*Local, error) {
	db, err := chromemgo.NewPersistentDB(path, false)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open chromem database", goerr.V("path", path))
	}

	return &Local{
		base:    memory.New(),
		memBank: newMemoryRecordRepository(db),
	}, nil
}

func (l *Local) Thread() interfaces.ThreadRepository {
	return l.base.Thread()
}

func (l *Local) Message() interfaces.MessageRepository {
	return l.base.Message()
}

// Memory serves records from the chromem index rather than the in-memory
// backend.
func (l *Local) Memory() interfaces.MemoryRepository {
	return l.memBank
}

func (l *Local) Usage() interfaces.UsageRepository {
	return l.base.Usage()
}

func (l *Local) Business() interfaces.BusinessRepository {
	return l.base.Business()
}

func (l *Local) Close() error {
	return l.base.Close()
}

type memoryRecordRepository struct {
	db *chromemgo.DB

	// recent is a write-through index serving ListRecent; chromem exposes
	// no listing API. It only covers records written by this process.
	mu     sync.RWMutex
	recent map[types.UserID][]*model.MemoryRecord
}

func newMemoryRecordRepository(db *chromemgo.DB) *memoryRecordRepository {
	return &memoryRecordRepository{
		db:     db,
		recent: make(map[types.UserID][]*model.MemoryRecord),
	}
}

// collection returns the per-user collection for namespace isolation
func (r *memoryRecordRepository) collection(userID types.UserID) (*chromemgo.Collection, error) {
	name := fmt.Sprintf("user_%s", userID)
	col, err := r.db.GetOrCreateCollection(name, nil, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get chromem collection", goerr.V("userID", userID))
	}
	return col, nil
}

// storedRecord is the JSON document body kept in chromem
type storedRecord struct {
	ID        types.MemoryID   `json:"id"`
	UserID    types.UserID     `json:"user_id"`
	Input     string           `json:"input"`
	Response  string           `json:"response"`
	Tags      []string         `json:"tags,omitempty"`
	KPI       *model.KPIDigest `json:"kpi,omitempty"`
	CreatedAt string           `json:"created_at"`
}

func (r *memoryRecordRepository) Create(ctx context.Context, record *model.MemoryRecord) (*model.MemoryRecord, error) {
	col, err := r.collection(record.UserID)
	if err != nil {
		return nil, err
	}

	created := *record
	if created.ID == "" {
		created.ID = types.NewMemoryID()
	}
	created.CreatedAt = nowUTC()

	body, err := json.Marshal(&storedRecord{
		ID:        created.ID,
		UserID:    created.UserID,
		Input:     created.Input,
		Response:  created.Response,
		Tags:      created.Tags,
		KPI:       created.KPI,
		CreatedAt: created.CreatedAt.Format(timeLayout),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal memory record")
	}

	doc := chromemgo.Document{
		ID:        string(created.ID),
		Content:   string(body),
		Embedding: created.Embedding,
		Metadata:  map[string]string{"user_id": string(created.UserID)},
	}
	if err := col.AddDocument(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to add chromem document", goerr.V("memoryID", created.ID))
	}

	r.mu.Lock()
	r.recent[created.UserID] = append(r.recent[created.UserID], &created)
	r.mu.Unlock()

	return &created, nil
}

func (r *memoryRecordRepository) Search(ctx context.Context, userID types.UserID, embedding []float32, opt interfaces.MemorySearchOption) ([]*model.MemoryHit, error) {
	col, err := r.collection(userID)
	if err != nil {
		return nil, err
	}

	limit := opt.Limit
	if limit <= 0 {
		limit = 10
	}
	// chromem rejects nResults larger than the collection size
	if count := col.Count(); count < limit {
		limit = count
	}
	if limit == 0 {
		return []*model.MemoryHit{}, nil
	}

	results, err := col.QueryEmbedding(ctx, embedding, limit, nil, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query chromem", goerr.V("userID", userID))
	}

	hits := make([]*model.MemoryHit, 0, len(results))
	for _, res := range results {
		score := float64(res.Similarity)
		if score < opt.MinScore {
			continue
		}

		var stored storedRecord
		if err := json.Unmarshal([]byte(res.Content), &stored); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal memory record", goerr.V("id", res.ID))
		}

		rec := stored.toModel(res.Embedding)
		if len(opt.Tags) > 0 && !hasAnyTag(rec, opt.Tags) {
			continue
		}

		hits = append(hits, &model.MemoryHit{Record: rec, Score: score})
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	return hits, nil
}

func (r *memoryRecordRepository) ListRecent(ctx context.Context, userID types.UserID, limit int) ([]*model.MemoryRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.recent[userID]
	result := make([]*model.MemoryRecord, 0, len(stored))
	for _, rec := range stored {
		copied := *rec
		result = append(result, &copied)
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
