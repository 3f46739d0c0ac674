package repositories

import (
	"context"

	"github.com/careseeker/careseeker-backend/internal/domain/entities"
)

// ReferenceRepository provides read access to the lookup entities the
// discovery engine filters against. The engine never creates them.
type ReferenceRepository interface {
	// ListCareTypes retrieves active care types ordered by sort order
	ListCareTypes(ctx context.Context) ([]*entities.CareType, error)

	// ListFacilities retrieves active facilities ordered by sort order
	ListFacilities(ctx context.Context) ([]*entities.Facility, error)
}
