package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/careseeker/careseeker-backend/internal/domain/entities"
	"github.com/careseeker/careseeker-backend/internal/domain/repositories"
	apperrors "github.com/careseeker/careseeker-backend/pkg/errors"
)

// ReviewService handles the review write path. Every accepted review
// triggers one rating aggregation run for its care home.
type ReviewService struct {
	careHomes repositories.CareHomeRepository
	reviews   repositories.ReviewRepository
}

// NewReviewService creates a new review service
func NewReviewService(careHomes repositories.CareHomeRepository, reviews repositories.ReviewRepository) *ReviewService {
	return &ReviewService{
		careHomes: careHomes,
		reviews:   reviews,
	}
}

// AddReview validates and persists a review against an existing care
// home. The repository commits the review together with the home's
// recomputed aggregates; an aggregation failure fails the whole call.
func (s *ReviewService) AddReview(ctx context.Context, careHomeID string, review *entities.Review) (*entities.Review, error) {
	if review.Comment == "" {
		return nil, apperrors.NewValidationError("comment is required")
	}
	if review.Rating < 1 || review.Rating > 5 {
		return nil, apperrors.NewValidationError("rating must be an integer between 1 and 5")
	}

	if _, err := s.careHomes.GetByID(ctx, careHomeID); err != nil {
		return nil, err
	}

	review.CareHomeID = careHomeID
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}
	if review.IsAnonymous {
		review.UserID = nil
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

// ListReviews retrieves a page of reviews for a care home, newest
// first. An unknown care home id yields an empty page.
func (s *ReviewService) ListReviews(ctx context.Context, careHomeID string, page, limit int) ([]*entities.Review, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	return s.reviews.ListByCareHome(ctx, careHomeID, limit, (page-1)*limit)
}
