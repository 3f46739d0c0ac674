package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/careseeker/careseeker-backend/internal/domain/entities"
)

// ReviewService is the review surface the handler depends on.
type ReviewService interface {
	AddReview(ctx context.Context, careHomeID string, review *entities.Review) (*entities.Review, error)
	ListReviews(ctx context.Context, careHomeID string, page, limit int) ([]*entities.Review, error)
}

// ReviewHandler handles review HTTP requests
type ReviewHandler struct {
	service ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(service ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// CreateReview handles POST /api/care-homes/{id}/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	careHomeID := r.PathValue("id")
	if careHomeID == "" {
		respondWithError(w, http.StatusBadRequest, "care home ID is required")
		return
	}

	var review entities.Review
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.service.AddReview(r.Context(), careHomeID, &review)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

// ListReviews handles GET /api/care-homes/{id}/reviews
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	careHomeID := r.PathValue("id")
	if careHomeID == "" {
		respondWithError(w, http.StatusBadRequest, "care home ID is required")
		return
	}

	values := r.URL.Query()
	page, err := parseIntParam(values, "page")
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	limit, err := parseIntParam(values, "limit")
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	pageVal, limitVal := 0, 0
	if page != nil {
		pageVal = *page
	}
	if limit != nil {
		limitVal = *limit
	}

	reviews, err := h.service.ListReviews(r.Context(), careHomeID, pageVal, limitVal)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"data":  reviews,
		"count": len(reviews),
	})
}
