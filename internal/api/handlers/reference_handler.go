package handlers

import (
	"context"
	"net/http"

	"github.com/careseeker/careseeker-backend/internal/domain/entities"
)

// ReferenceService serves the lookup tables backing the filter facets.
type ReferenceService interface {
	ListCareTypes(ctx context.Context) ([]*entities.CareType, error)
	ListFacilities(ctx context.Context) ([]*entities.Facility, error)
}

// ReferenceHandler handles reference data HTTP requests
type ReferenceHandler struct {
	service ReferenceService
}

// NewReferenceHandler creates a new reference handler
func NewReferenceHandler(service ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{service: service}
}

// ListCareTypes handles GET /api/care-types
func (h *ReferenceHandler) ListCareTypes(w http.ResponseWriter, r *http.Request) {
	careTypes, err := h.service.ListCareTypes(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"data": careTypes,
	})
}

// ListFacilities handles GET /api/facilities
func (h *ReferenceHandler) ListFacilities(w http.ResponseWriter, r *http.Request) {
	facilities, err := h.service.ListFacilities(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"data": facilities,
	})
}
