package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bizmate-ai/bizmate/pkg/domain/model"
	"github.com/bizmate-ai/bizmate/pkg/domain/types"
)

// businessDoc is the Firestore document representation of
// model.BusinessProfile
type businessDoc struct {
	ID                  types.BusinessID `firestore:"ID"`
	OwnerID             types.UserID     `firestore:"OwnerID"`
	Name                string           `firestore:"Name"`
	Industry            string           `firestore:"Industry"`
	Description         string           `firestore:"Description"`
	Demo                bool             `firestore:"Demo"`
	AccountingConnected bool             `firestore:"AccountingConnected"`
	OnboardingComplete  bool             `firestore:"OnboardingComplete"`
	CreatedAt           time.Time        `firestore:"CreatedAt"`
}

func fromBusinessDoc(d *businessDoc) *model.BusinessProfile {
	return &model.BusinessProfile{
		ID:                  d.ID,
		OwnerID:             d.OwnerID,
		Name:                d.Name,
		Industry:            d.Industry,
		Description:         d.Description,
		Demo:                d.Demo,
		AccountingConnected: d.AccountingConnected,
		OnboardingComplete:  d.OnboardingComplete,
		CreatedAt:           d.CreatedAt,
	}
}

type kpiSnapshotDoc struct {
	BusinessID types.BusinessID `firestore:"BusinessID"`
	Period     string           `firestore:"Period"`
	Revenue    float64          `firestore:"Revenue"`
	Expenses   float64          `firestore:"Expenses"`
	Profit     float64          `firestore:"Profit"`
	JobsBooked int              `firestore:"JobsBooked"`
	TakenAt    time.Time        `firestore:"TakenAt"`
}

type forecastPointDoc struct {
	BusinessID types.BusinessID `firestore:"BusinessID"`
	Period     string           `firestore:"Period"`
	Revenue    float64          `firestore:"Revenue"`
	Confidence float64          `firestore:"Confidence"`
}

type suggestedMoveDoc struct {
	BusinessID types.BusinessID `firestore:"BusinessID"`
	Title      string           `firestore:"Title"`
	Rationale  string           `firestore:"Rationale"`
	Priority   int              `firestore:"Priority"`
	CreatedAt  time.Time        `firestore:"CreatedAt"`
}

type businessRepository struct {
	client *firestore.Client
}

func newBusinessRepository(client *firestore.Client) *businessRepository {
	return &businessRepository{client: client}
}

func (r *businessRepository) businessesCollection() *firestore.CollectionRef {
	return r.client.Collection("businesses")
}

func (r *businessRepository) GetProfile(ctx context.Context, businessID types.BusinessID) (*model.BusinessProfile, error) {
	doc, err := r.businessesCollection().Doc(string(businessID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "business not found", goerr.V("businessID", businessID))
		}
		return nil, goerr.Wrap(err, "failed to get business", goerr.V("businessID", businessID))
	}

	var d businessDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal business")
	}

	return fromBusinessDoc(&d), nil
}

func (r *businessRepository) GetProfileByUser(ctx context.Context, userID types.UserID) (*model.BusinessProfile, error) {
	iter := r.businessesCollection().
		Where("OwnerID", "==", string(userID)).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(ErrNotFound, "no business for user", goerr.V("userID", userID))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query business by user", goerr.V("userID", userID))
	}

	var d businessDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal business")
	}

	return fromBusinessDoc(&d), nil
}

func (r *businessRepository) ListKPISnapshots(ctx context.Context, businessID types.BusinessID, limit int) ([]*model.KPISnapshot, error) {
	query := r.businessesCollection().Doc(string(businessID)).
		Collection("kpis").
		OrderBy("TakenAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	snapshots := make([]*model.KPISnapshot, 0, limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate KPI snapshots", goerr.V("businessID", businessID))
		}

		var d kpiSnapshotDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal KPI snapshot")
		}

		snapshots = append(snapshots, &model.KPISnapshot{
			BusinessID: d.BusinessID,
			Period:     d.Period,
			Revenue:    d.Revenue,
			Expenses:   d.Expenses,
			Profit:     d.Profit,
			JobsBooked: d.JobsBooked,
			TakenAt:    d.TakenAt,
		})
	}

	return snapshots, nil
}

func (r *businessRepository) ListForecast(ctx context.Context, businessID types.BusinessID, limit int) ([]*model.ForecastPoint, error) {
	query := r.businessesCollection().Doc(string(businessID)).
		Collection("forecast").
		OrderBy("Period", firestore.Asc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	points := make([]*model.ForecastPoint, 0, limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate forecast points", goerr.V("businessID", businessID))
		}

		var d forecastPointDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal forecast point")
		}

		points = append(points, &model.ForecastPoint{
			BusinessID: d.BusinessID,
			Period:     d.Period,
			Revenue:    d.Revenue,
			Confidence: d.Confidence,
		})
	}

	return points, nil
}

func (r *businessRepository) ListSuggestedMoves(ctx context.Context, businessID types.BusinessID, limit int) ([]*model.SuggestedMove, error) {
	query := r.businessesCollection().Doc(string(businessID)).
		Collection("moves").
		OrderBy("Priority", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	moves := make([]*model.SuggestedMove, 0, limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate suggested moves", goerr.V("businessID", businessID))
		}

		var d suggestedMoveDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal suggested move")
		}

		moves = append(moves, &model.SuggestedMove{
			BusinessID: d.BusinessID,
			Title:      d.Title,
			Rationale:  d.Rationale,
			Priority:   d.Priority,
			CreatedAt:  d.CreatedAt,
		})
	}

	return moves, nil
}
