package database

import (
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/lib/pq"

	"github.com/careseeker/careseeker-backend/internal/domain/repositories"
)

var pgDialect = goqu.Dialect("postgres")

// haversineSQL computes great-circle distance in kilometers from the
// bound point to the care home row (2R*asin form, R = 6371 km).
// Placeholders bind as (lat, lat, lon).
const haversineSQL = `(2 * 6371 * asin(sqrt(` +
	`power(sin(radians(ch.latitude - ?) / 2), 2) + ` +
	`cos(radians(?)) * cos(radians(ch.latitude)) * ` +
	`power(sin(radians(ch.longitude - ?) / 2), 2))))`

// sortColumns whitelists caller-facing sort fields. Anything else
// falls back to createdAt.
var sortColumns = map[string]string{
	"name":        "ch.name",
	"weeklyPrice": "ch.weekly_price",
	"rating":      "ch.rating",
	"reviewCount": "ch.review_count",
	"createdAt":   "ch.created_at",
}

// composeFilters translates a discovery query into a conjunction of
// independent predicates. Absent fields contribute nothing; the
// is_active base predicate is always injected first and cannot be
// overridden by callers.
func composeFilters(q repositories.CareHomeQuery) []exp.Expression {
	filters := []exp.Expression{
		goqu.I("ch.is_active").Eq(true),
	}

	if q.Search != "" {
		pattern := containsPattern(q.Search)
		filters = append(filters, goqu.Or(
			goqu.I("ch.name").ILike(pattern),
			goqu.I("ch.description").ILike(pattern),
			goqu.I("ch.city").ILike(pattern),
			goqu.I("ch.address_line1").ILike(pattern),
		))
	}

	if q.City != "" {
		filters = append(filters, goqu.I("ch.city").ILike(containsPattern(q.City)))
	}
	if q.Region != "" {
		filters = append(filters, goqu.I("ch.region").ILike(containsPattern(q.Region)))
	}
	if q.Postcode != "" {
		filters = append(filters, goqu.I("ch.postcode").ILike(containsPattern(q.Postcode)))
	}
	if q.Country != "" {
		filters = append(filters, goqu.I("ch.country").ILike(containsPattern(q.Country)))
	}

	if q.CareTypeID != "" {
		filters = append(filters, goqu.I("ch.care_type_id").Eq(q.CareTypeID))
	}

	if len(q.FacilityIDs) > 0 {
		// Membership, not subset: one matching facility is enough.
		filters = append(filters, goqu.I("ch.id").In(
			pgDialect.From("care_home_facilities").
				Select("care_home_id").
				Where(goqu.C("facility_id").In(q.FacilityIDs)),
		))
	}

	if len(q.Specializations) > 0 {
		filters = append(filters, goqu.L("ch.specializations && ?", pq.Array(q.Specializations)))
	}

	// Weekly price bounds compare against NULL as SQL does: a home
	// without a price is excluded once either bound is set.
	if q.MinPrice != nil {
		filters = append(filters, goqu.I("ch.weekly_price").Gte(*q.MinPrice))
	}
	if q.MaxPrice != nil {
		filters = append(filters, goqu.I("ch.weekly_price").Lte(*q.MaxPrice))
	}

	if q.MinRating != nil {
		filters = append(filters, goqu.I("ch.rating").Gte(*q.MinRating))
	}

	if q.HasAvailableBeds {
		filters = append(filters, goqu.I("ch.available_beds").Gt(0))
	}

	if q.IsVerified != nil {
		filters = append(filters, goqu.I("ch.is_verified").Eq(*q.IsVerified))
	}
	if q.IsFeatured != nil {
		filters = append(filters, goqu.I("ch.is_featured").Eq(*q.IsFeatured))
	}
	if q.AcceptingNewResidents != nil {
		filters = append(filters, goqu.I("ch.accepting_new_residents").Eq(*q.AcceptingNewResidents))
	}

	if q.CQCRating != "" {
		filters = append(filters, goqu.I("ch.cqc_rating").Eq(q.CQCRating))
	}
	if q.AgeRestriction != nil {
		filters = append(filters, goqu.I("ch.age_restriction").Eq(*q.AgeRestriction))
	}

	return filters
}

// geoPredicate admits rows within radiusKm of the given point. Rows
// without coordinates can never match, so they are excluded before the
// distance expression evaluates.
func geoPredicate(lat, lon, radiusKm float64) exp.Expression {
	return goqu.And(
		goqu.I("ch.latitude").IsNotNull(),
		goqu.I("ch.longitude").IsNotNull(),
		goqu.L(haversineSQL+" <= ?", lat, lat, lon, radiusKm),
	)
}

// distanceExpression is the select-list form of the geo distance,
// aliased for scanning and ordering.
func distanceExpression(lat, lon float64) exp.Expression {
	return goqu.L(haversineSQL, lat, lat, lon).As("distance")
}

// sortExpression maps the caller's sort field and direction onto a
// whitelisted column order. Single key only; ties are left to storage
// order.
func sortExpression(sortBy, sortOrder string) exp.OrderedExpression {
	column, ok := sortColumns[sortBy]
	if !ok {
		column = sortColumns["createdAt"]
	}

	if strings.EqualFold(sortOrder, "ASC") {
		return goqu.I(column).Asc()
	}
	return goqu.I(column).Desc()
}

func containsPattern(term string) string {
	return fmt.Sprintf("%%%s%%", term)
}
