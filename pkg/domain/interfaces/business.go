package interfaces

import (
	"context"

	"github.com/bizmate-ai/bizmate/pkg/domain/model"
	"github.com/bizmate-ai/bizmate/pkg/domain/types"
)

// BusinessRepository defines read access to business context data
type BusinessRepository interface {
	// GetProfile retrieves a business profile by ID
	GetProfile(ctx context.Context, businessID types.BusinessID) (*model.BusinessProfile, error)

	// GetProfileByUser retrieves the business profile owned by the user
	GetProfileByUser(ctx context.Context, userID types.UserID) (*model.BusinessProfile, error)

	// ListKPISnapshots returns up to limit KPI snapshots, newest first
	ListKPISnapshots(ctx context.Context, businessID types.BusinessID, limit int) ([]*model.KPISnapshot, error)

	// ListForecast returns up to limit forward forecast points, nearest
	// period first
	ListForecast(ctx context.Context, businessID types.BusinessID, limit int) ([]*model.ForecastPoint, error)

	// ListSuggestedMoves returns up to limit standing suggested actions,
	// highest priority first
	ListSuggestedMoves(ctx context.Context, businessID types.BusinessID, limit int) ([]*model.SuggestedMove, error)
}
