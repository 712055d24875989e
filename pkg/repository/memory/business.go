package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/bizmate-ai/bizmate/pkg/domain/model"
	"github.com/bizmate-ai/bizmate/pkg/domain/types"
)

type businessRepository struct {
	mu        sync.RWMutex
	profiles  map[types.BusinessID]*model.BusinessProfile
	kpis      map[types.BusinessID][]*model.KPISnapshot
	forecasts map[types.BusinessID][]*model.ForecastPoint
	moves     map[types.BusinessID][]*model.SuggestedMove
}

func newBusinessRepository() *businessRepository {
	return &businessRepository{
		profiles:  make(map[types.BusinessID]*model.BusinessProfile),
		kpis:      make(map[types.BusinessID][]*model.KPISnapshot),
		forecasts: make(map[types.BusinessID][]*model.ForecastPoint),
		moves:     make(map[types.BusinessID][]*model.SuggestedMove),
	}
}

// PutProfile seeds a business profile. Not part of
// interfaces.BusinessRepository; the ingestion side of business data is
// owned by other parts of the platform.
func (r *businessRepository) PutProfile(profile *model.BusinessProfile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *profile
	r.profiles[profile.ID] = &copied
}

// PutKPISnapshot seeds a KPI snapshot
func (r *businessRepository) PutKPISnapshot(snapshot *model.KPISnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *snapshot
	r.kpis[snapshot.BusinessID] = append(r.kpis[snapshot.BusinessID], &copied)
}

// PutForecastPoint seeds a forecast point
func (r *businessRepository) PutForecastPoint(point *model.ForecastPoint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *point
	r.forecasts[point.BusinessID] = append(r.forecasts[point.BusinessID], &copied)
}

// PutSuggestedMove seeds a suggested move
func (r *businessRepository) PutSuggestedMove(move *model.SuggestedMove) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *move
	r.moves[move.BusinessID] = append(r.moves[move.BusinessID], &copied)
}

func (r *businessRepository) GetProfile(ctx context.Context, businessID types.BusinessID) (*model.BusinessProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, exists := r.profiles[businessID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "business not found", goerr.V("businessID", businessID))
	}

	copied := *profile
	return &copied, nil
}

func (r *businessRepository) GetProfileByUser(ctx context.Context, userID types.UserID) (*model.BusinessProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, profile := range r.profiles {
		if profile.OwnerID == userID {
			copied := *profile
			return &copied, nil
		}
	}

	return nil, goerr.Wrap(ErrNotFound, "no business for user", goerr.V("userID", userID))
}

func (r *businessRepository) ListKPISnapshots(ctx context.Context, businessID types.BusinessID, limit int) ([]*model.KPISnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.kpis[businessID]
	result := make([]*model.KPISnapshot, 0, len(stored))
	for _, k := range stored {
		copied := *k
		result = append(result, &copied)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TakenAt.After(result[j].TakenAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

func (r *businessRepository) ListForecast(ctx context.Context, businessID types.BusinessID, limit int) ([]*model.ForecastPoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.forecasts[businessID]
	result := make([]*model.ForecastPoint, 0, len(stored))
	for _, f := range stored {
		copied := *f
		result = append(result, &copied)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Period < result[j].Period
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

func (r *businessRepository) ListSuggestedMoves(ctx context.Context, businessID types.BusinessID, limit int) ([]*model.SuggestedMove, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.moves[businessID]
	result := make([]*model.SuggestedMove, 0, len(stored))
	for _, m := range stored {
		copied := *m
		result = append(result, &copied)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Priority > result[j].Priority
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}
