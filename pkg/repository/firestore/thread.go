package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bizmate-ai/bizmate/pkg/domain/model"
	"github.com/bizmate-ai/bizmate/pkg/domain/types"
)

// threadDoc is the Firestore document representation of model.Thread
type threadDoc struct {
	ID            types.ThreadID   `firestore:"ID"`
	UserID        types.UserID     `firestore:"UserID"`
	BusinessID    types.BusinessID `firestore:"BusinessID"`
	Title         string           `firestore:"Title"`
	Intent        types.Intent     `firestore:"Intent"`
	Module        string           `firestore:"Module"`
	Pinned        bool             `firestore:"Pinned"`
	Archived      bool             `firestore:"Archived"`
	LastExcerpt   string           `firestore:"LastExcerpt"`
	LastMessageAt time.Time        `firestore:"LastMessageAt"`
	CreatedAt     time.Time        `firestore:"CreatedAt"`
}

func toThreadDoc(t *model.Thread) *threadDoc {
	return &threadDoc{
		ID:            t.ID,
		UserID:        t.UserID,
		BusinessID:    t.BusinessID,
		Title:         t.Title,
		Intent:        t.Intent,
		Module:        t.Module,
		Pinned:        t.Pinned,
		Archived:      t.Archived,
		LastExcerpt:   t.LastExcerpt,
		LastMessageAt: t.LastMessageAt,
		CreatedAt:     t.CreatedAt,
	}
}

func fromThreadDoc(d *threadDoc) *model.Thread {
	return &model.Thread{
		ID:            d.ID,
		UserID:        d.UserID,
		BusinessID:    d.BusinessID,
		Title:         d.Title,
		Intent:        d.Intent,
		Module:        d.Module,
		Pinned:        d.Pinned,
		Archived:      d.Archived,
		LastExcerpt:   d.LastExcerpt,
		LastMessageAt: d.LastMessageAt,
		CreatedAt:     d.CreatedAt,
	}
}

type threadRepository struct {
	client *firestore.Client
}

func newThreadRepository(client *firestore.Client) *threadRepository {
	return &threadRepository{client: client}
}

func (r *threadRepository) threadsCollection() *firestore.CollectionRef {
	return r.client.Collection("threads")
}

func (r *threadRepository) Create(ctx context.Context, thread *model.Thread) (*model.Thread, error) {
	created := *thread
	if created.ID == "" {
		created.ID = types.NewThreadID()
	}
	created.CreatedAt = time.Now().UTC()

	docRef := r.threadsCollection().Doc(string(created.ID))
	if _, err := docRef.Set(ctx, toThreadDoc(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create thread", goerr.V("threadID", created.ID))
	}

	return &created, nil
}

func (r *threadRepository) Get(ctx context.Context, threadID types.ThreadID) (*model.Thread, error) {
	doc, err := r.threadsCollection().Doc(string(threadID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "thread not found", goerr.V("threadID", threadID))
		}
		return nil, goerr.Wrap(err, "failed to get thread", goerr.V("threadID", threadID))
	}

	var d threadDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal thread")
	}

	return fromThreadDoc(&d), nil
}

func (r *threadRepository) Update(ctx context.Context, thread *model.Thread) error {
	docRef := r.threadsCollection().Doc(string(thread.ID))

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "thread not found", goerr.V("threadID", thread.ID))
		}
		return goerr.Wrap(err, "failed to get thread", goerr.V("threadID", thread.ID))
	}

	if _, err := docRef.Set(ctx, toThreadDoc(thread)); err != nil {
		return goerr.Wrap(err, "failed to update thread", goerr.V("threadID", thread.ID))
	}

	return nil
}
