package entities_test

import (
	"testing"

	"github.com/careseeker/careseeker-backend/internal/domain/entities"
	"github.com/stretchr/testify/assert"
)

func TestAggregateRatings_EmptySetYieldsZeroes(t *testing.T) {
	rating, count := entities.AggregateRatings(nil)

	assert.Equal(t, 0.0, rating)
	assert.Equal(t, 0, count)
}

func TestAggregateRatings_SingleRating(t *testing.T) {
	rating, count := entities.AggregateRatings([]int{3})

	assert.Equal(t, 3.0, rating)
	assert.Equal(t, 1, count)
}

func TestAggregateRatings_MeanRoundedToTwoDecimals(t *testing.T) {
	rating, count := entities.AggregateRatings([]int{5, 4, 3})

	assert.Equal(t, 4.0, rating)
	assert.Equal(t, 3, count)

	// 1+2 over 3 reviews: 5/3 = 1.666... rounds to 1.67
	rating, count = entities.AggregateRatings([]int{1, 2, 2})
	assert.Equal(t, 1.67, rating)
	assert.Equal(t, 3, count)
}

func TestAggregateRatings_CountMatchesInputLength(t *testing.T) {
	ratings := []int{5, 5, 4, 4, 3, 2, 1}

	_, count := entities.AggregateRatings(ratings)

	assert.Equal(t, len(ratings), count)
}
