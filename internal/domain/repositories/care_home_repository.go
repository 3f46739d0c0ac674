package repositories

import (
	"context"

	"github.com/careseeker/careseeker-backend/internal/domain/entities"
)

// CareHomeRepository defines the interface for care home data operations
type CareHomeRepository interface {
	// Create creates a new care home
	Create(ctx context.Context, home *entities.CareHome) error

	// GetByID retrieves a care home by ID
	GetByID(ctx context.Context, id string) (*entities.CareHome, error)

	// Update updates a care home. Rating and review count are owned by
	// the rating aggregator and are never written by this method.
	Update(ctx context.Context, home *entities.CareHome) error

	// Delete soft-deletes a care home
	Delete(ctx context.Context, id string) error

	// List executes a composed discovery query and returns the page
	// slice together with the total matching count.
	List(ctx context.Context, query CareHomeQuery) (*ListResult, error)

	// Nearby returns active care homes within radiusKm of the given
	// point, nearest first, capped at limit.
	Nearby(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]*entities.CareHomeWithDistance, error)
}

// CareHomeQuery is the caller-supplied discovery query. Absent fields
// contribute no predicate: empty strings, nil pointers and nil slices
// all mean "don't care", never "match the zero value".
type CareHomeQuery struct {
	Search   string
	City     string
	Region   string
	Postcode string
	Country  string

	CareTypeID      string
	FacilityIDs     []string
	Specializations []string

	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64

	// HasAvailableBeds only ever narrows: true requires available beds,
	// false is identical to absent.
	HasAvailableBeds bool

	IsVerified            *bool
	IsFeatured            *bool
	AcceptingNewResidents *bool

	CQCRating      string
	AgeRestriction *int

	Latitude    *float64
	Longitude   *float64
	RadiusMiles *float64

	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// ListResult is the listing executor's response: one page of items plus
// the pre-pagination total so callers can compute page counts.
type ListResult struct {
	Items []*entities.CareHome
	Total int
	Page  int
	Limit int
}
