package services

import (
	"context"

	"github.com/careseeker/careseeker-backend/internal/domain/entities"
	"github.com/careseeker/careseeker-backend/internal/domain/repositories"
)

// ReferenceService serves the lookup data consumed by search filters.
type ReferenceService struct {
	repo repositories.ReferenceRepository
}

// NewReferenceService creates a new reference service
func NewReferenceService(repo repositories.ReferenceRepository) *ReferenceService {
	return &ReferenceService{repo: repo}
}

// ListCareTypes retrieves active care types
func (s *ReferenceService) ListCareTypes(ctx context.Context) ([]*entities.CareType, error) {
	return s.repo.ListCareTypes(ctx)
}

// ListFacilities retrieves active facilities
func (s *ReferenceService) ListFacilities(ctx context.Context) ([]*entities.Facility, error) {
	return s.repo.ListFacilities(ctx)
}
