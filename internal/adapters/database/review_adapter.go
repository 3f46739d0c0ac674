package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/careseeker/careseeker-backend/internal/domain/entities"
	"github.com/careseeker/careseeker-backend/internal/domain/repositories"
	"github.com/careseeker/careseeker-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/careseeker/careseeker-backend/pkg/errors"
)

const (
	lockCareHomeSQL    = `SELECT id FROM care_homes WHERE id = $1 FOR UPDATE`
	verifiedRatingsSQL = `SELECT rating FROM reviews WHERE care_home_id = $1 AND is_verified = true`
	updateAggregateSQL = `UPDATE care_homes SET rating = $1, review_count = $2, updated_at = $3 WHERE id = $4`
)

// ReviewAdapter implements review persistence and the rating
// aggregation protocol on Postgres.
type ReviewAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReviewAdapter creates a new review adapter
func NewReviewAdapter(client *postgres.Client) repositories.ReviewRepository {
	return &ReviewAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts the review and recomputes the owning care home's
// aggregates in one transaction. The insert happens first so the
// recompute sees the new row; the row lock on the care home serializes
// concurrent writes to the same home.
func (a *ReviewAdapter) Create(ctx context.Context, review *entities.Review) error {
	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin review transaction", err)
	}
	defer tx.Rollback()

	record := goqu.Record{
		"id":           review.ID,
		"care_home_id": review.CareHomeID,
		"user_id":      nullString(review.UserID),
		"comment":      review.Comment,
		"rating":       review.Rating,
		"is_verified":  review.IsVerified,
		"is_anonymous": review.IsAnonymous,
		"metadata":     nullMetadata(review.Metadata),
		"created_at":   review.CreatedAt,
	}

	query, args, err := a.db.Insert("reviews").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build review insert query", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create review", err)
	}

	if err := recomputeInTx(ctx, tx, review.CareHomeID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit review transaction", err)
	}

	return nil
}

// Recompute rereads the verified review set and rewrites the aggregate
// pair. Safe to call repeatedly; the result depends only on the stored
// reviews.
func (a *ReviewAdapter) Recompute(ctx context.Context, careHomeID string) error {
	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin recompute transaction", err)
	}
	defer tx.Rollback()

	if err := recomputeInTx(ctx, tx, careHomeID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit recompute transaction", err)
	}

	return nil
}

// ListByCareHome retrieves reviews for a care home, newest first.
func (a *ReviewAdapter) ListByCareHome(ctx context.Context, careHomeID string, limit, offset int) ([]*entities.Review, error) {
	ds := a.db.Select(
		"id", "care_home_id", "user_id", "comment", "rating",
		"is_verified", "is_anonymous", "metadata", "created_at",
	).From("reviews").
		Where(goqu.Ex{"care_home_id": careHomeID}).
		Order(goqu.I("created_at").Desc())

	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}
	if offset > 0 {
		ds = ds.Offset(uint(offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build review list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list reviews", err)
	}
	defer rows.Close()

	reviews := []*entities.Review{}
	for rows.Next() {
		review := &entities.Review{}
		var userID sql.NullString
		var metadata []byte

		if err := rows.Scan(
			&review.ID,
			&review.CareHomeID,
			&userID,
			&review.Comment,
			&review.Rating,
			&review.IsVerified,
			&review.IsAnonymous,
			&metadata,
			&review.CreatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan review", err)
		}

		if userID.Valid {
			review.UserID = &userID.String
		}
		if len(metadata) > 0 {
			review.Metadata = metadata
		}

		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating reviews", err)
	}

	return reviews, nil
}

// recomputeInTx is the rating aggregator. It locks the care home row,
// reads every verified rating, aggregates in process, and writes the
// pair back. Any failure aborts the surrounding transaction so a
// review can never commit alongside stale aggregates.
func recomputeInTx(ctx context.Context, tx *sql.Tx, careHomeID string) error {
	var lockedID string
	err := tx.QueryRowContext(ctx, lockCareHomeSQL, careHomeID).Scan(&lockedID)
	if err == sql.ErrNoRows {
		return apperrors.NewNotFoundError(fmt.Sprintf("care home with id %s not found", careHomeID))
	}
	if err != nil {
		return apperrors.NewInternalError("failed to lock care home for aggregation", err)
	}

	rows, err := tx.QueryContext(ctx, verifiedRatingsSQL, careHomeID)
	if err != nil {
		return apperrors.NewInternalError("failed to read verified reviews", err)
	}
	defer rows.Close()

	var ratings []int
	for rows.Next() {
		var rating int
		if err := rows.Scan(&rating); err != nil {
			return apperrors.NewInternalError("failed to scan review rating", err)
		}
		ratings = append(ratings, rating)
	}
	if err := rows.Err(); err != nil {
		return apperrors.NewInternalError("error iterating review ratings", err)
	}

	rating, count := entities.AggregateRatings(ratings)

	if _, err := tx.ExecContext(ctx, updateAggregateSQL, rating, count, time.Now().UTC(), careHomeID); err != nil {
		return apperrors.NewInternalError("failed to write care home aggregates", err)
	}

	return nil
}

func nullMetadata(metadata []byte) interface{} {
	if len(metadata) == 0 {
		return nil
	}
	return []byte(metadata)
}
