package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"

	"github.com/bizmate-ai/bizmate/pkg/domain/model"
	"github.com/bizmate-ai/bizmate/pkg/domain/types"
)

// messageDoc is the Firestore document representation of model.Message.
// Embedding is stored as firestore.Vector32; it stays empty when
// embedding generation failed.
type messageDoc struct {
	ID        types.MessageID    `firestore:"ID"`
	ThreadID  types.ThreadID     `firestore:"ThreadID"`
	Role      types.Role         `firestore:"Role"`
	Content   string             `firestore:"Content"`
	Embedding firestore.Vector32 `firestore:"Embedding,omitempty"`
	CreatedAt time.Time          `firestore:"CreatedAt"`
}

func toMessageDoc(m *model.Message) *messageDoc {
	doc := &messageDoc{
		ID:        m.ID,
		ThreadID:  m.ThreadID,
		Role:      m.Role,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
	if len(m.Embedding) > 0 {
		doc.Embedding = firestore.Vector32(m.Embedding)
	}
	return doc
}

func fromMessageDoc(d *messageDoc) *model.Message {
	m := &model.Message{
		ID:        d.ID,
		ThreadID:  d.ThreadID,
		Role:      d.Role,
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
	}
	if len(d.Embedding) > 0 {
		m.Embedding = []float32(d.Embedding)
	}
	return m
}

type messageRepository struct {
	client *firestore.Client
}

func newMessageRepository(client *firestore.Client) *messageRepository {
	return &messageRepository{client: client}
}

// messagesCollection returns the subcollection path:
// threads/{threadID}/messages
func (r *messageRepository) messagesCollection(threadID types.ThreadID) *firestore.CollectionRef {
	return r.client.Collection("threads").Doc(string(threadID)).Collection("messages")
}

func (r *messageRepository) Insert(ctx context.Context, messages ...*model.Message) error {
	for _, m := range messages {
		stored := *m
		if stored.ID == "" {
			stored.ID = types.NewMessageID()
		}

		docRef := r.messagesCollection(stored.ThreadID).Doc(string(stored.ID))
		if _, err := docRef.Set(ctx, toMessageDoc(&stored)); err != nil {
			return goerr.Wrap(err, "failed to insert message",
				goerr.V("threadID", stored.ThreadID),
				goerr.V("messageID", stored.ID),
			)
		}
	}

	return nil
}

func (r *messageRepository) ListRecent(ctx context.Context, threadID types.ThreadID, limit int) ([]*model.Message, error) {
	query := r.messagesCollection(threadID).
		OrderBy("CreatedAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	messages := make([]*model.Message, 0, limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate messages", goerr.V("threadID", threadID))
		}

		var d messageDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal message")
		}

		messages = append(messages, fromMessageDoc(&d))
	}

	return messages, nil
}
