package entities

import (
	"time"
)

// CareHome represents a listed residential-care facility, the central
// searchable entity of the discovery engine.
type CareHome struct {
	ID                    string    `json:"id" db:"id"`
	Name                  string    `json:"name" db:"name"`
	Description           string    `json:"description" db:"description"`
	Address               Address   `json:"address" db:"-"`
	Location              *Location `json:"location,omitempty" db:"-"`
	WeeklyPrice           *float64  `json:"weekly_price,omitempty" db:"weekly_price"`
	MonthlyPrice          *float64  `json:"monthly_price,omitempty" db:"monthly_price"`
	TotalBeds             int       `json:"total_beds" db:"total_beds"`
	AvailableBeds         int       `json:"available_beds" db:"available_beds"`
	IsActive              bool      `json:"is_active" db:"is_active"`
	IsVerified            bool      `json:"is_verified" db:"is_verified"`
	IsFeatured            bool      `json:"is_featured" db:"is_featured"`
	AcceptingNewResidents bool      `json:"accepting_new_residents" db:"accepting_new_residents"`

	// Rating and ReviewCount are derived from the verified review set.
	// No write path other than the rating aggregator may set them.
	Rating      float64 `json:"rating" db:"rating"`
	ReviewCount int     `json:"review_count" db:"review_count"`

	CareTypeID      string    `json:"care_type_id" db:"care_type_id"`
	CareType        *CareType `json:"care_type,omitempty" db:"-"`
	Facilities      []Facility `json:"facilities" db:"-"`
	Specializations []string  `json:"specializations" db:"-"`
	Images          []string  `json:"images" db:"-"`

	CQCRating      *string `json:"cqc_rating,omitempty" db:"cqc_rating"`
	AgeRestriction *int    `json:"age_restriction,omitempty" db:"age_restriction"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Address represents a physical address
type Address struct {
	Line1    string `json:"line1" db:"address_line1"`
	Line2    string `json:"line2,omitempty" db:"address_line2"`
	City     string `json:"city" db:"city"`
	Region   string `json:"region" db:"region"`
	Postcode string `json:"postcode" db:"postcode"`
	Country  string `json:"country" db:"country"`
}

// Location represents geographical coordinates. A nil *Location on a
// care home means the coordinates are unknown; such homes can never
// satisfy a geo-radius filter.
type Location struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// CareHomeWithDistance is a care home annotated with its distance from
// a search origin, used by the nearby retrieval mode.
type CareHomeWithDistance struct {
	CareHome
	DistanceKm float64 `json:"distance_km"`
}
