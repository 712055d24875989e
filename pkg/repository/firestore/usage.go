package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bizmate-ai/bizmate/pkg/domain/model"
	"github.com/bizmate-ai/bizmate/pkg/domain/types"
)

// usageDoc is the Firestore document representation of model.UsageCounter
type usageDoc struct {
	UserID     types.UserID   `firestore:"UserID"`
	Month      types.MonthKey `firestore:"Month"`
	Queries    int            `firestore:"Queries"`
	WebLookups int            `firestore:"WebLookups"`
	UpdatedAt  time.Time      `firestore:"UpdatedAt"`
}

type usageRepository struct {
	client *firestore.Client
}

func newUsageRepository(client *firestore.Client) *usageRepository {
	return &usageRepository{client: client}
}

func (r *usageRepository) usageCollection() *firestore.CollectionRef {
	return r.client.Collection("usage")
}

func usageDocID(userID types.UserID, month types.MonthKey) string {
	return fmt.Sprintf("%s_%s", userID, month)
}

func (r *usageRepository) Get(ctx context.Context, userID types.UserID, month types.MonthKey) (*model.UsageCounter, error) {
	doc, err := r.usageCollection().Doc(usageDocID(userID, month)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return model.NewUsageCounter(userID, month), nil
		}
		return nil, goerr.Wrap(err, "failed to get usage counter",
			goerr.V("userID", userID),
			goerr.V("month", month),
		)
	}

	var d usageDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal usage counter")
	}

	return &model.UsageCounter{
		UserID:     d.UserID,
		Month:      d.Month,
		Queries:    d.Queries,
		WebLookups: d.WebLookups,
		UpdatedAt:  d.UpdatedAt,
	}, nil
}

func (r *usageRepository) Put(ctx context.Context, counter *model.UsageCounter) error {
	doc := &usageDoc{
		UserID:     counter.UserID,
		Month:      counter.Month,
		Queries:    counter.Queries,
		WebLookups: counter.WebLookups,
		UpdatedAt:  time.Now().UTC(),
	}

	docRef := r.usageCollection().Doc(usageDocID(counter.UserID, counter.Month))
	if _, err := docRef.Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to put usage counter",
			goerr.V("userID", counter.UserID),
			goerr.V("month", counter.Month),
		)
	}

	return nil
}
