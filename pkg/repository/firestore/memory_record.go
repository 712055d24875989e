package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"

	"github.com/bizmate-ai/bizmate/pkg/domain/interfaces"
	"github.com/bizmate-ai/bizmate/pkg/domain/model"
	"github.com/bizmate-ai/bizmate/pkg/domain/types"
)

// distanceField receives the cosine distance of each FindNearest hit
const distanceField = "VectorDistance"

// memoryDoc is the Firestore document representation of
// model.MemoryRecord. Embedding is stored as firestore.Vector32 for
// FindNearest vector search.
type memoryDoc struct {
	ID        types.MemoryID     `firestore:"ID"`
	UserID    types.UserID       `firestore:"UserID"`
	Embedding firestore.Vector32 `firestore:"Embedding,omitempty"`
	Input     string             `firestore:"Input"`
	Response  string             `firestore:"Response"`
	Tags      []string           `firestore:"Tags"`
	KPI       *kpiDigestDoc      `firestore:"KPI,omitempty"`
	CreatedAt time.Time          `firestore:"CreatedAt"`
}

type kpiDigestDoc struct {
	Period   string  `firestore:"Period"`
	Revenue  float64 `firestore:"Revenue"`
	Expenses float64 `firestore:"Expenses"`
	Profit   float64 `firestore:"Profit"`
}

func toMemoryDoc(m *model.MemoryRecord) *memoryDoc {
	doc := &memoryDoc{
		ID:        m.ID,
		UserID:    m.UserID,
		Input:     m.Input,
		Response:  m.Response,
		Tags:      m.Tags,
		CreatedAt: m.CreatedAt,
	}
	if len(m.Embedding) > 0 {
		doc.Embedding = firestore.Vector32(m.Embedding)
	}
	if m.KPI != nil {
		doc.KPI = &kpiDigestDoc{
			Period:   m.KPI.Period,
			Revenue:  m.KPI.Revenue,
			Expenses: m.KPI.Expenses,
			Profit:   m.KPI.Profit,
		}
	}
	return doc
}

func fromMemoryDoc(d *memoryDoc) *model.MemoryRecord {
	m := &model.MemoryRecord{
		ID:        d.ID,
		UserID:    d.UserID,
		Input:     d.Input,
		Response:  d.Response,
		Tags:      d.Tags,
		CreatedAt: d.CreatedAt,
	}
	if len(d.Embedding) > 0 {
		m.Embedding = []float32(d.Embedding)
	}
	if d.KPI != nil {
		m.KPI = &model.KPIDigest{
			Period:   d.KPI.Period,
			Revenue:  d.KPI.Revenue,
			Expenses: d.KPI.Expenses,
			Profit:   d.KPI.Profit,
		}
	}
	return m
}

type memoryRecordRepository struct {
	client *firestore.Client
}

func newMemoryRecordRepository(client *firestore.Client) *memoryRecordRepository {
	return &memoryRecordRepository{client: client}
}

// memoriesCollection returns the subcollection path:
// users/{userID}/memories
func (r *memoryRecordRepository) memoriesCollection(userID types.UserID) *firestore.CollectionRef {
	return r.client.Collection("users").Doc(string(userID)).Collection("memories")
}

func (r *memoryRecordRepository) Create(ctx context.Context, record *model.MemoryRecord) (*model.MemoryRecord, error) {
	created := *record
	if created.ID == "" {
		created.ID = types.NewMemoryID()
	}
	created.CreatedAt = time.Now().UTC()

	docRef := r.memoriesCollection(created.UserID).Doc(string(created.ID))
	if _, err := docRef.Set(ctx, toMemoryDoc(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create memory record",
			goerr.V("userID", created.UserID),
		)
	}

	return &created, nil
}

func (r *memoryRecordRepository) Search(ctx context.Context, userID types.UserID, embedding []float32, opt interfaces.MemorySearchOption) ([]*model.MemoryHit, error) {
	query := r.memoriesCollection(userID).Query
	if len(opt.Tags) > 0 {
		query = query.Where("Tags", "array-contains-any", opt.Tags)
	}

	limit := opt.Limit
	if limit <= 0 {
		limit = 10
	}

	vq := query.FindNearest("Embedding", firestore.Vector32(embedding), limit,
		firestore.DistanceMeasureCosine,
		&firestore.FindNearestOptions{DistanceResultField: distanceField},
	)

	iter := vq.Documents(ctx)
	defer iter.Stop()

	hits := make([]*model.MemoryHit, 0, limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate memory vector search results",
				goerr.V("userID", userID),
			)
		}

		var d memoryDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal memory record from vector search")
		}

		// Cosine distance → similarity
		score := 1.0
		if dist, ok := doc.Data()[distanceField].(float64); ok {
			score = 1.0 - dist
		}
		if score < opt.MinScore {
			continue
		}

		hits = append(hits, &model.MemoryHit{Record: fromMemoryDoc(&d), Score: score})
	}

	return hits, nil
}

func (r *memoryRecordRepository) ListRecent(ctx context.Context, userID types.UserID, limit int) ([]*model.MemoryRecord, error) {
	query := r.memoriesCollection(userID).
		OrderBy("CreatedAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	records := make([]*model.MemoryRecord, 0, limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate memory records", goerr.V("userID", userID))
		}

		var d memoryDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal memory record")
		}

		records = append(records, fromMemoryDoc(&d))
	}

	return records, nil
}
