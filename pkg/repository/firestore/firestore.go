package firestore

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"

	"github.com/bizmate-ai/bizmate/pkg/domain/interfaces"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// Firestore is the Firestore-backed repository
type Firestore struct {
	client   *firestore.Client
	thread   *threadRepository
	message  *messageRepository
	memBank  *memoryRecordRepository
	usage    *usageRepository
	business *businessRepository
}

var _ interfaces.Repository = &Firestore{}

func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.V("projectID", projectID))
	}

	return &Firestore{
		client:   client,
		thread:   newThreadRepository(client),
		message:  newMessageRepository(client),
		memBank:  newMemoryRecordRepository(client),
		usage:    newUsageRepository(client),
		business: newBusinessRepository(client),
	}, nil
}

func (f *Firestore) Thread() interfaces.ThreadRepository {
	return f.thread
}

func (f *Firestore) Message() interfaces.MessageRepository {
	return f.message
}

func (f *Firestore) Memory() interfaces.MemoryRepository {
	return f.memBank
}

func (f *Firestore) Usage() interfaces.UsageRepository {
	return f.usage
}

func (f *Firestore) Business() interfaces.BusinessRepository {
	return f.business
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
