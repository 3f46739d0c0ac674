package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/careseeker/careseeker-backend/internal/domain/entities"
	"github.com/careseeker/careseeker-backend/internal/domain/repositories"
	apperrors "github.com/careseeker/careseeker-backend/pkg/errors"
)

// CareHomeService is the discovery surface the handler depends on.
type CareHomeService interface {
	Find(ctx context.Context, query repositories.CareHomeQuery) (*repositories.ListResult, error)
	GetByID(ctx context.Context, id string) (*entities.CareHome, error)
	Nearby(ctx context.Context, lat, lon float64, radiusMiles *float64) ([]*entities.CareHomeWithDistance, error)
	Create(ctx context.Context, home *entities.CareHome) error
	Update(ctx context.Context, home *entities.CareHome) error
	Delete(ctx context.Context, id string) error
}

// CareHomeHandler handles care home HTTP requests
type CareHomeHandler struct {
	service CareHomeService
}

// NewCareHomeHandler creates a new care home handler
func NewCareHomeHandler(service CareHomeService) *CareHomeHandler {
	return &CareHomeHandler{service: service}
}

// ListCareHomes handles GET /api/care-homes
func (h *CareHomeHandler) ListCareHomes(w http.ResponseWriter, r *http.Request) {
	query, err := parseCareHomeQuery(r)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	result, err := h.service.Find(r.Context(), query)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"data":  result.Items,
		"total": result.Total,
		"page":  result.Page,
		"limit": result.Limit,
	})
}

// GetCareHome handles GET /api/care-homes/{id}
func (h *CareHomeHandler) GetCareHome(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "care home ID is required")
		return
	}

	home, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, home)
}

// NearbyCareHomes handles GET /api/care-homes/nearby
func (h *CareHomeHandler) NearbyCareHomes(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()

	lat, err := parseFloatParam(values, "latitude")
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	lon, err := parseFloatParam(values, "longitude")
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if lat == nil || lon == nil {
		respondWithAppError(w, apperrors.NewValidationError("latitude and longitude are required"))
		return
	}

	radius, err := parseFloatParam(values, "radius")
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	results, err := h.service.Nearby(r.Context(), *lat, *lon, radius)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"data":  results,
		"count": len(results),
	})
}

// CreateCareHome handles POST /api/care-homes
func (h *CareHomeHandler) CreateCareHome(w http.ResponseWriter, r *http.Request) {
	var home entities.CareHome
	if err := json.NewDecoder(r.Body).Decode(&home); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.Create(r.Context(), &home); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, home)
}

// UpdateCareHome handles PATCH /api/care-homes/{id}
func (h *CareHomeHandler) UpdateCareHome(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "care home ID is required")
		return
	}

	existing, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	if err := json.NewDecoder(r.Body).Decode(existing); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	existing.ID = id

	if err := h.service.Update(r.Context(), existing); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, existing)
}

// DeleteCareHome handles DELETE /api/care-homes/{id}
func (h *CareHomeHandler) DeleteCareHome(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "care home ID is required")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseCareHomeQuery coerces the request parameters into a typed
// discovery query. Absent parameters stay absent; malformed ones fail
// validation rather than filtering on a guessed value.
func parseCareHomeQuery(r *http.Request) (repositories.CareHomeQuery, error) {
	values := r.URL.Query()

	query := repositories.CareHomeQuery{
		Search:          values.Get("search"),
		City:            values.Get("city"),
		Region:          values.Get("region"),
		Postcode:        values.Get("postcode"),
		Country:         values.Get("country"),
		CareTypeID:      values.Get("careTypeId"),
		CQCRating:       values.Get("cqcRating"),
		FacilityIDs:     parseListParam(values, "facilityIds"),
		Specializations: parseListParam(values, "specializations"),
		SortBy:          values.Get("sortBy"),
		SortOrder:       values.Get("sortOrder"),
	}

	var err error
	if query.MinPrice, err = parseFloatParam(values, "minPrice"); err != nil {
		return query, err
	}
	if query.MaxPrice, err = parseFloatParam(values, "maxPrice"); err != nil {
		return query, err
	}
	if query.MinRating, err = parseFloatParam(values, "minRating"); err != nil {
		return query, err
	}
	if query.AgeRestriction, err = parseIntParam(values, "ageRestriction"); err != nil {
		return query, err
	}

	hasBeds, err := parseBoolParam(values, "hasAvailableBeds")
	if err != nil {
		return query, err
	}
	query.HasAvailableBeds = hasBeds != nil && *hasBeds

	if query.IsVerified, err = parseBoolParam(values, "isVerified"); err != nil {
		return query, err
	}
	if query.IsFeatured, err = parseBoolParam(values, "isFeatured"); err != nil {
		return query, err
	}
	if query.AcceptingNewResidents, err = parseBoolParam(values, "acceptingNewResidents"); err != nil {
		return query, err
	}

	if query.Latitude, err = parseFloatParam(values, "latitude"); err != nil {
		return query, err
	}
	if query.Longitude, err = parseFloatParam(values, "longitude"); err != nil {
		return query, err
	}
	if query.RadiusMiles, err = parseFloatParam(values, "radius"); err != nil {
		return query, err
	}

	page, err := parseIntParam(values, "page")
	if err != nil {
		return query, err
	}
	if page != nil {
		query.Page = *page
	}

	limit, err := parseIntParam(values, "limit")
	if err != nil {
		return query, err
	}
	if limit != nil {
		query.Limit = *limit
	}

	return query, nil
}
