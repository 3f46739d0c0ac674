package database_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careseeker/careseeker-backend/internal/adapters/database"
	"github.com/careseeker/careseeker-backend/internal/domain/entities"
	"github.com/careseeker/careseeker-backend/internal/domain/repositories"
	"github.com/careseeker/careseeker-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/careseeker/careseeker-backend/pkg/errors"
)

const (
	lockPattern      = `SELECT id FROM care_homes WHERE id = \$1 FOR UPDATE`
	ratingsPattern   = `SELECT rating FROM reviews WHERE care_home_id = \$1 AND is_verified = true`
	aggregatePattern = `UPDATE care_homes SET rating = \$1, review_count = \$2, updated_at = \$3 WHERE id = \$4`
)

func newReviewAdapter(t *testing.T) (sqlmock.Sqlmock, repositories.ReviewRepository) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	return mock, database.NewReviewAdapter(postgres.NewClientFromDB(db))
}

func TestReviewAdapter_Create_CommitsInsertAndAggregatesTogether(t *testing.T) {
	mock, adapter := newReviewAdapter(t)

	careHomeID := "home-1"

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "reviews"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(lockPattern).
		WithArgs(careHomeID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(careHomeID))
	mock.ExpectQuery(ratingsPattern).
		WithArgs(careHomeID).
		WillReturnRows(sqlmock.NewRows([]string{"rating"}).AddRow(5).AddRow(4).AddRow(3))
	mock.ExpectExec(aggregatePattern).
		WithArgs(4.0, 3, sqlmock.AnyArg(), careHomeID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := adapter.Create(context.Background(), &entities.Review{
		ID:         "rev-1",
		CareHomeID: careHomeID,
		Comment:    "Kind staff, lovely gardens.",
		Rating:     5,
		IsVerified: true,
		CreatedAt:  time.Now().UTC(),
	})

	assert.NoError(t, err)
}

func TestReviewAdapter_Create_RollsBackWhenCareHomeMissing(t *testing.T) {
	mock, adapter := newReviewAdapter(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "reviews"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(lockPattern).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := adapter.Create(context.Background(), &entities.Review{
		ID:         "rev-1",
		CareHomeID: "ghost",
		Comment:    "never persisted",
		Rating:     4,
		CreatedAt:  time.Now().UTC(),
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestReviewAdapter_Recompute_EmptyVerifiedSetResetsAggregates(t *testing.T) {
	mock, adapter := newReviewAdapter(t)

	careHomeID := "home-2"

	mock.ExpectBegin()
	mock.ExpectQuery(lockPattern).
		WithArgs(careHomeID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(careHomeID))
	mock.ExpectQuery(ratingsPattern).
		WithArgs(careHomeID).
		WillReturnRows(sqlmock.NewRows([]string{"rating"}))
	mock.ExpectExec(aggregatePattern).
		WithArgs(0.0, 0, sqlmock.AnyArg(), careHomeID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := adapter.Recompute(context.Background(), careHomeID)

	assert.NoError(t, err)
}

func TestReviewAdapter_ListByCareHome_NewestFirst(t *testing.T) {
	mock, adapter := newReviewAdapter(t)

	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	userID := "user-7"

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY "created_at" DESC`)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "care_home_id", "user_id", "comment", "rating",
			"is_verified", "is_anonymous", "metadata", "created_at",
		}).
			AddRow("rev-2", "home-1", userID, "Second visit, still great.", 5, true, false, nil, now).
			AddRow("rev-1", "home-1", nil, "Helpful tour.", 4, false, true, []byte(`{"source":"web"}`), now.Add(-time.Hour)))

	reviews, err := adapter.ListByCareHome(context.Background(), "home-1", 10, 0)

	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "rev-2", reviews[0].ID)
	require.NotNil(t, reviews[0].UserID)
	assert.Equal(t, userID, *reviews[0].UserID)
	assert.Nil(t, reviews[1].UserID)
	assert.True(t, reviews[1].IsAnonymous)
	assert.JSONEq(t, `{"source":"web"}`, string(reviews[1].Metadata))
}
