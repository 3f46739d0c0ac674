package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/careseeker/careseeker-backend/internal/application/services"
	"github.com/careseeker/careseeker-backend/internal/domain/entities"
	"github.com/careseeker/careseeker-backend/internal/domain/repositories"
	"github.com/careseeker/careseeker-backend/pkg/config"
	apperrors "github.com/careseeker/careseeker-backend/pkg/errors"
)

type MockCareHomeRepository struct {
	mock.Mock
}

func (m *MockCareHomeRepository) Create(ctx context.Context, home *entities.CareHome) error {
	args := m.Called(ctx, home)
	return args.Error(0)
}

func (m *MockCareHomeRepository) GetByID(ctx context.Context, id string) (*entities.CareHome, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CareHome), args.Error(1)
}

func (m *MockCareHomeRepository) Update(ctx context.Context, home *entities.CareHome) error {
	args := m.Called(ctx, home)
	return args.Error(0)
}

func (m *MockCareHomeRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCareHomeRepository) List(ctx context.Context, query repositories.CareHomeQuery) (*repositories.ListResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.ListResult), args.Error(1)
}

func (m *MockCareHomeRepository) Nearby(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]*entities.CareHomeWithDistance, error) {
	args := m.Called(ctx, lat, lon, radiusKm, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.CareHomeWithDistance), args.Error(1)
}

func discoveryConfig() config.DiscoveryConfig {
	return config.DiscoveryConfig{
		DefaultRadiusMiles: 10,
		NearbyMaxResults:   20,
		DefaultPageSize:    10,
	}
}

func TestCareHomeService_Find_NormalizesPagination(t *testing.T) {
	repo := new(MockCareHomeRepository)
	service := services.NewCareHomeService(repo, discoveryConfig())

	repo.On("List", mock.Anything, mock.MatchedBy(func(q repositories.CareHomeQuery) bool {
		return q.Page == 1 && q.Limit == 10
	})).Return(&repositories.ListResult{Items: []*entities.CareHome{}, Page: 1, Limit: 10}, nil)

	result, err := service.Find(context.Background(), repositories.CareHomeQuery{Page: -3, Limit: 0})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	repo.AssertExpectations(t)
}

func TestCareHomeService_Find_GeoRequiresBothCoordinates(t *testing.T) {
	repo := new(MockCareHomeRepository)
	service := services.NewCareHomeService(repo, discoveryConfig())

	lat := 51.5
	_, err := service.Find(context.Background(), repositories.CareHomeQuery{Latitude: &lat})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	repo.AssertNotCalled(t, "List")
}

func TestCareHomeService_Find_GeoDefaultsRadius(t *testing.T) {
	repo := new(MockCareHomeRepository)
	service := services.NewCareHomeService(repo, discoveryConfig())

	lat, lon := 51.5, -0.12
	repo.On("List", mock.Anything, mock.MatchedBy(func(q repositories.CareHomeQuery) bool {
		return q.RadiusMiles != nil && *q.RadiusMiles == 10
	})).Return(&repositories.ListResult{}, nil)

	_, err := service.Find(context.Background(), repositories.CareHomeQuery{Latitude: &lat, Longitude: &lon})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCareHomeService_Find_RejectsOutOfRangeCoordinates(t *testing.T) {
	repo := new(MockCareHomeRepository)
	service := services.NewCareHomeService(repo, discoveryConfig())

	lat, lon := 91.0, -0.12
	_, err := service.Find(context.Background(), repositories.CareHomeQuery{Latitude: &lat, Longitude: &lon})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestCareHomeService_Nearby_ConvertsMilesToKilometers(t *testing.T) {
	repo := new(MockCareHomeRepository)
	service := services.NewCareHomeService(repo, discoveryConfig())

	radius := 5.0
	repo.On("Nearby", mock.Anything, 51.5, -0.12, 5*1.60934, 20).
		Return([]*entities.CareHomeWithDistance{}, nil)

	_, err := service.Nearby(context.Background(), 51.5, -0.12, &radius)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCareHomeService_Nearby_RejectsNonPositiveRadius(t *testing.T) {
	repo := new(MockCareHomeRepository)
	service := services.NewCareHomeService(repo, discoveryConfig())

	radius := 0.0
	_, err := service.Nearby(context.Background(), 51.5, -0.12, &radius)

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	repo.AssertNotCalled(t, "Nearby")
}

func TestCareHomeService_Create_ForcesDerivedFields(t *testing.T) {
	repo := new(MockCareHomeRepository)
	service := services.NewCareHomeService(repo, discoveryConfig())

	repo.On("Create", mock.Anything, mock.MatchedBy(func(h *entities.CareHome) bool {
		return h.ID != "" && h.IsActive && h.Rating == 0 && h.ReviewCount == 0
	})).Return(nil)

	home := &entities.CareHome{
		Name:        "Willowbrook Manor",
		CareTypeID:  "ct-1",
		TotalBeds:   40,
		Rating:      4.9, // caller-supplied aggregates are discarded
		ReviewCount: 12,
	}

	err := service.Create(context.Background(), home)

	require.NoError(t, err)
	assert.Equal(t, 0.0, home.Rating)
	repo.AssertExpectations(t)
}

func TestCareHomeService_Create_RejectsContradictoryBedCounts(t *testing.T) {
	repo := new(MockCareHomeRepository)
	service := services.NewCareHomeService(repo, discoveryConfig())

	err := service.Create(context.Background(), &entities.CareHome{
		Name:          "Elm Grove Lodge",
		CareTypeID:    "ct-1",
		TotalBeds:     10,
		AvailableBeds: 11,
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	repo.AssertNotCalled(t, "Create")
}

func TestCareHomeService_Create_RejectsImpossibleCoordinates(t *testing.T) {
	repo := new(MockCareHomeRepository)
	service := services.NewCareHomeService(repo, discoveryConfig())

	err := service.Create(context.Background(), &entities.CareHome{
		Name:       "Harbour View House",
		CareTypeID: "ct-1",
		Location:   &entities.Location{Latitude: 50.8, Longitude: 181},
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}
