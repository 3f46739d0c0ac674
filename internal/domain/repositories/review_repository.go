package repositories

import (
	"context"

	"github.com/careseeker/careseeker-backend/internal/domain/entities"
)

// ReviewRepository defines the interface for review persistence and
// rating aggregation.
type ReviewRepository interface {
	// Create persists a review and recomputes the owning care home's
	// aggregate fields in the same transaction. The review row is
	// committed together with the updated aggregates or not at all.
	Create(ctx context.Context, review *entities.Review) error

	// Recompute rereads the verified review set for a care home and
	// rewrites its rating and review count. Idempotent.
	Recompute(ctx context.Context, careHomeID string) error

	// ListByCareHome retrieves reviews for a care home, newest first.
	ListByCareHome(ctx context.Context, careHomeID string, limit, offset int) ([]*entities.Review, error)
}
