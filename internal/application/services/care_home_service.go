package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/careseeker/careseeker-backend/internal/domain/entities"
	"github.com/careseeker/careseeker-backend/internal/domain/repositories"
	"github.com/careseeker/careseeker-backend/pkg/config"
	apperrors "github.com/careseeker/careseeker-backend/pkg/errors"
	"github.com/careseeker/careseeker-backend/pkg/geo"
)

// CareHomeService handles business logic for care home discovery and
// management.
type CareHomeService struct {
	repo repositories.CareHomeRepository
	cfg  config.DiscoveryConfig
}

// NewCareHomeService creates a new care home service
func NewCareHomeService(repo repositories.CareHomeRepository, cfg config.DiscoveryConfig) *CareHomeService {
	return &CareHomeService{
		repo: repo,
		cfg:  cfg,
	}
}

// Find executes a discovery query after normalizing pagination and
// validating the geo parameters. An unmatched filter value yields an
// empty result, never an error.
func (s *CareHomeService) Find(ctx context.Context, query repositories.CareHomeQuery) (*repositories.ListResult, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = s.cfg.DefaultPageSize
	}

	if query.Latitude != nil || query.Longitude != nil || query.RadiusMiles != nil {
		if query.Latitude == nil || query.Longitude == nil {
			return nil, apperrors.NewValidationError("geo filter requires both latitude and longitude")
		}
		if err := validateCoordinates(*query.Latitude, *query.Longitude); err != nil {
			return nil, err
		}
		if query.RadiusMiles == nil {
			radius := s.cfg.DefaultRadiusMiles
			query.RadiusMiles = &radius
		}
		if *query.RadiusMiles <= 0 {
			return nil, apperrors.NewValidationError("radius must be greater than zero")
		}
	}

	return s.repo.List(ctx, query)
}

// GetByID retrieves a care home by ID
func (s *CareHomeService) GetByID(ctx context.Context, id string) (*entities.CareHome, error) {
	return s.repo.GetByID(ctx, id)
}

// Nearby returns the closest active care homes to a point, nearest
// first, capped by configuration. The caller's radius is in miles.
func (s *CareHomeService) Nearby(ctx context.Context, lat, lon float64, radiusMiles *float64) ([]*entities.CareHomeWithDistance, error) {
	if err := validateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	radius := s.cfg.DefaultRadiusMiles
	if radiusMiles != nil {
		radius = *radiusMiles
	}
	if radius <= 0 {
		return nil, apperrors.NewValidationError("radius must be greater than zero")
	}

	return s.repo.Nearby(ctx, lat, lon, geo.MilesToKm(radius), s.cfg.NearbyMaxResults)
}

// Create validates and persists a new care home. The derived rating
// fields always start at zero.
func (s *CareHomeService) Create(ctx context.Context, home *entities.CareHome) error {
	if err := validateCareHome(home); err != nil {
		return err
	}

	if home.ID == "" {
		home.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if home.CreatedAt.IsZero() {
		home.CreatedAt = now
	}
	home.UpdatedAt = now
	home.IsActive = true
	home.Rating = 0
	home.ReviewCount = 0

	return s.repo.Create(ctx, home)
}

// Update validates and persists changes to a care home
func (s *CareHomeService) Update(ctx context.Context, home *entities.CareHome) error {
	if err := validateCareHome(home); err != nil {
		return err
	}
	return s.repo.Update(ctx, home)
}

// Delete soft-deletes a care home
func (s *CareHomeService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// validateCareHome enforces the write-time invariants the discovery
// engine relies on: bed counts cannot be contradictory and stored
// coordinates must be real-world.
func validateCareHome(home *entities.CareHome) error {
	if home.Name == "" {
		return apperrors.NewValidationError("name is required")
	}
	if home.CareTypeID == "" {
		return apperrors.NewValidationError("care type is required")
	}
	if home.TotalBeds < 0 || home.AvailableBeds < 0 {
		return apperrors.NewValidationError("bed counts cannot be negative")
	}
	if home.AvailableBeds > home.TotalBeds {
		return apperrors.NewValidationError("available beds cannot exceed total beds")
	}
	if home.WeeklyPrice != nil && *home.WeeklyPrice < 0 {
		return apperrors.NewValidationError("weekly price cannot be negative")
	}
	if home.Location != nil {
		if err := validateCoordinates(home.Location.Latitude, home.Location.Longitude); err != nil {
			return err
		}
	}
	return nil
}

func validateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return apperrors.NewValidationError("latitude must be between -90 and 90")
	}
	if lon < -180 || lon > 180 {
		return apperrors.NewValidationError("longitude must be between -180 and 180")
	}
	return nil
}
