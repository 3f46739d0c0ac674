package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/careseeker/careseeker-backend/internal/api/handlers"
	"github.com/careseeker/careseeker-backend/internal/domain/entities"
	"github.com/careseeker/careseeker-backend/internal/domain/repositories"
	apperrors "github.com/careseeker/careseeker-backend/pkg/errors"
)

type MockCareHomeService struct {
	mock.Mock
}

func (m *MockCareHomeService) Find(ctx context.Context, query repositories.CareHomeQuery) (*repositories.ListResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.ListResult), args.Error(1)
}

func (m *MockCareHomeService) GetByID(ctx context.Context, id string) (*entities.CareHome, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CareHome), args.Error(1)
}

func (m *MockCareHomeService) Nearby(ctx context.Context, lat, lon float64, radiusMiles *float64) ([]*entities.CareHomeWithDistance, error) {
	args := m.Called(ctx, lat, lon, radiusMiles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.CareHomeWithDistance), args.Error(1)
}

func (m *MockCareHomeService) Create(ctx context.Context, home *entities.CareHome) error {
	args := m.Called(ctx, home)
	return args.Error(0)
}

func (m *MockCareHomeService) Update(ctx context.Context, home *entities.CareHome) error {
	args := m.Called(ctx, home)
	return args.Error(0)
}

func (m *MockCareHomeService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func jsonBody(t *testing.T, payload interface{}) *bytes.Buffer {
	t.Helper()
	body := &bytes.Buffer{}
	require.NoError(t, json.NewEncoder(body).Encode(payload))
	return body
}

type listCareHomesResponse struct {
	Data  []*entities.CareHome `json:"data"`
	Total int                  `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

func TestCareHomeHandler_ListCareHomes_ParsesFacetsIntoQuery(t *testing.T) {
	mockService := new(MockCareHomeService)
	handler := handlers.NewCareHomeHandler(mockService)

	expected := &repositories.ListResult{
		Items: []*entities.CareHome{{ID: "home-1", Name: "Willowbrook Manor"}},
		Total: 1,
		Page:  2,
		Limit: 5,
	}

	mockService.On("Find", mock.Anything, mock.MatchedBy(func(q repositories.CareHomeQuery) bool {
		return q.Search == "manor" &&
			q.City == "London" &&
			q.CareTypeID == "ct-1" &&
			len(q.FacilityIDs) == 2 &&
			q.MinPrice != nil && *q.MinPrice == 800 &&
			q.MaxPrice != nil && *q.MaxPrice == 1500 &&
			q.MinRating != nil && *q.MinRating == 4 &&
			q.HasAvailableBeds &&
			q.IsVerified != nil && *q.IsVerified &&
			q.Page == 2 && q.Limit == 5 &&
			q.SortBy == "weeklyPrice" && q.SortOrder == "asc"
	})).Return(expected, nil)

	req := httptest.NewRequest("GET",
		"/api/care-homes?search=manor&city=London&careTypeId=ct-1&facilityIds=f-1,f-2"+
			"&minPrice=800&maxPrice=1500&minRating=4&hasAvailableBeds=true&isVerified=true"+
			"&page=2&limit=5&sortBy=weeklyPrice&sortOrder=asc", nil)
	w := httptest.NewRecorder()

	handler.ListCareHomes(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp listCareHomesResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, 2, resp.Page)
}

func TestCareHomeHandler_ListCareHomes_RepeatedListParamsAccumulate(t *testing.T) {
	mockService := new(MockCareHomeService)
	handler := handlers.NewCareHomeHandler(mockService)

	mockService.On("Find", mock.Anything, mock.MatchedBy(func(q repositories.CareHomeQuery) bool {
		return assert.ObjectsAreEqual([]string{"f-1", "f-2", "f-3"}, q.FacilityIDs) &&
			assert.ObjectsAreEqual([]string{"dementia", "respite"}, q.Specializations)
	})).Return(&repositories.ListResult{Items: []*entities.CareHome{}, Page: 1, Limit: 10}, nil)

	req := httptest.NewRequest("GET",
		"/api/care-homes?facilityIds=f-1&facilityIds=f-2,f-3"+
			"&specializations=dementia&specializations=respite", nil)
	w := httptest.NewRecorder()

	handler.ListCareHomes(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestCareHomeHandler_ListCareHomes_EmptyResultIsStillOK(t *testing.T) {
	mockService := new(MockCareHomeService)
	handler := handlers.NewCareHomeHandler(mockService)

	mockService.On("Find", mock.Anything, mock.Anything).
		Return(&repositories.ListResult{Items: []*entities.CareHome{}, Total: 0, Page: 1, Limit: 10}, nil)

	req := httptest.NewRequest("GET", "/api/care-homes?city=Atlantis", nil)
	w := httptest.NewRecorder()

	handler.ListCareHomes(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp listCareHomesResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Empty(t, resp.Data)
	assert.Equal(t, 0, resp.Total)
}

func TestCareHomeHandler_ListCareHomes_MalformedNumberIsBadRequest(t *testing.T) {
	mockService := new(MockCareHomeService)
	handler := handlers.NewCareHomeHandler(mockService)

	req := httptest.NewRequest("GET", "/api/care-homes?minPrice=cheap", nil)
	w := httptest.NewRecorder()

	handler.ListCareHomes(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Find")
}

func TestCareHomeHandler_ListCareHomes_MalformedBoolIsBadRequest(t *testing.T) {
	mockService := new(MockCareHomeService)
	handler := handlers.NewCareHomeHandler(mockService)

	req := httptest.NewRequest("GET", "/api/care-homes?isVerified=maybe", nil)
	w := httptest.NewRecorder()

	handler.ListCareHomes(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Find")
}

func TestCareHomeHandler_GetCareHome_NotFoundMapsTo404(t *testing.T) {
	mockService := new(MockCareHomeService)
	handler := handlers.NewCareHomeHandler(mockService)

	mockService.On("GetByID", mock.Anything, "ghost").
		Return(nil, apperrors.NewNotFoundError("care home with id ghost not found"))

	req := httptest.NewRequest("GET", "/api/care-homes/ghost", nil)
	req.SetPathValue("id", "ghost")
	w := httptest.NewRecorder()

	handler.GetCareHome(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCareHomeHandler_GetCareHome_ReturnsHome(t *testing.T) {
	mockService := new(MockCareHomeService)
	handler := handlers.NewCareHomeHandler(mockService)

	mockService.On("GetByID", mock.Anything, "home-1").
		Return(&entities.CareHome{ID: "home-1", Name: "Rosewood Court", Rating: 4.5, ReviewCount: 12}, nil)

	req := httptest.NewRequest("GET", "/api/care-homes/home-1", nil)
	req.SetPathValue("id", "home-1")
	w := httptest.NewRecorder()

	handler.GetCareHome(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var home entities.CareHome
	require.NoError(t, json.NewDecoder(w.Body).Decode(&home))
	assert.Equal(t, "Rosewood Court", home.Name)
	assert.Equal(t, 4.5, home.Rating)
}

func TestCareHomeHandler_NearbyCareHomes_RequiresCoordinates(t *testing.T) {
	mockService := new(MockCareHomeService)
	handler := handlers.NewCareHomeHandler(mockService)

	req := httptest.NewRequest("GET", "/api/care-homes/nearby?latitude=51.5", nil)
	w := httptest.NewRecorder()

	handler.NearbyCareHomes(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Nearby")
}

func TestCareHomeHandler_NearbyCareHomes_ReturnsDistances(t *testing.T) {
	mockService := new(MockCareHomeService)
	handler := handlers.NewCareHomeHandler(mockService)

	expected := []*entities.CareHomeWithDistance{
		{CareHome: entities.CareHome{ID: "home-1", Name: "Willowbrook Manor"}, DistanceKm: 1.2},
		{CareHome: entities.CareHome{ID: "home-2", Name: "Rosewood Court"}, DistanceKm: 3.7},
	}

	mockService.On("Nearby", mock.Anything, 51.5, -0.12, mock.MatchedBy(func(r *float64) bool {
		return r != nil && *r == 5
	})).Return(expected, nil)

	req := httptest.NewRequest("GET", "/api/care-homes/nearby?latitude=51.5&longitude=-0.12&radius=5", nil)
	w := httptest.NewRecorder()

	handler.NearbyCareHomes(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data  []*entities.CareHomeWithDistance `json:"data"`
		Count int                              `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, 1.2, resp.Data[0].DistanceKm)
}

func TestCareHomeHandler_CreateCareHome_ValidationMapsTo400(t *testing.T) {
	mockService := new(MockCareHomeService)
	handler := handlers.NewCareHomeHandler(mockService)

	mockService.On("Create", mock.Anything, mock.Anything).
		Return(apperrors.NewValidationError("name is required"))

	req := httptest.NewRequest("POST", "/api/care-homes", jsonBody(t, map[string]interface{}{
		"care_type_id": "ct-1",
	}))
	w := httptest.NewRecorder()

	handler.CreateCareHome(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCareHomeHandler_CreateCareHome_Returns201(t *testing.T) {
	mockService := new(MockCareHomeService)
	handler := handlers.NewCareHomeHandler(mockService)

	mockService.On("Create", mock.Anything, mock.MatchedBy(func(h *entities.CareHome) bool {
		return h.Name == "Harbour View House" && h.CareTypeID == "ct-3"
	})).Return(nil)

	req := httptest.NewRequest("POST", "/api/care-homes", jsonBody(t, map[string]interface{}{
		"name":         "Harbour View House",
		"care_type_id": "ct-3",
		"total_beds":   30,
	}))
	w := httptest.NewRecorder()

	handler.CreateCareHome(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCareHomeHandler_DeleteCareHome_Returns204(t *testing.T) {
	mockService := new(MockCareHomeService)
	handler := handlers.NewCareHomeHandler(mockService)

	mockService.On("Delete", mock.Anything, "home-1").Return(nil)

	req := httptest.NewRequest("DELETE", "/api/care-homes/home-1", nil)
	req.SetPathValue("id", "home-1")
	w := httptest.NewRecorder()

	handler.DeleteCareHome(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockService.AssertExpectations(t)
}
