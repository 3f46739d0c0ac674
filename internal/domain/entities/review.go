package entities

import (
	"encoding/json"
	"math"
	"time"
)

// Review belongs to exactly one care home, optionally attributed to a
// user. Reviews are immutable after creation; only verified reviews
// count toward the care home's displayed rating.
type Review struct {
	ID          string          `json:"id" db:"id"`
	CareHomeID  string          `json:"care_home_id" db:"care_home_id"`
	UserID      *string         `json:"user_id,omitempty" db:"user_id"`
	Comment     string          `json:"comment" db:"comment"`
	Rating      int             `json:"rating" db:"rating"`
	IsVerified  bool            `json:"is_verified" db:"is_verified"`
	IsAnonymous bool            `json:"is_anonymous" db:"is_anonymous"`
	Metadata    json.RawMessage `json:"metadata,omitempty" db:"metadata"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// AggregateRatings computes the displayed rating pair from a set of
// verified review ratings: the mean rounded to 2 decimal places and
// the count. An empty set yields (0, 0), never NaN. Recomputing from
// the same set always yields the same pair.
func AggregateRatings(ratings []int) (float64, int) {
	if len(ratings) == 0 {
		return 0, 0
	}

	sum := 0
	for _, r := range ratings {
		sum += r
	}

	mean := float64(sum) / float64(len(ratings))
	return math.Round(mean*100) / 100, len(ratings)
}
