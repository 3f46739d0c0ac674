package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/careseeker/careseeker-backend/internal/domain/entities"
	"github.com/careseeker/careseeker-backend/internal/domain/repositories"
	"github.com/careseeker/careseeker-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/careseeker/careseeker-backend/pkg/errors"
	"github.com/careseeker/careseeker-backend/pkg/geo"
)

// careHomeColumns is the scan order shared by every care home query.
var careHomeColumns = []interface{}{
	"ch.id", "ch.name", "ch.description",
	"ch.address_line1", "ch.address_line2", "ch.city", "ch.region", "ch.postcode", "ch.country",
	"ch.latitude", "ch.longitude",
	"ch.weekly_price", "ch.monthly_price",
	"ch.total_beds", "ch.available_beds",
	"ch.is_active", "ch.is_verified", "ch.is_featured", "ch.accepting_new_residents",
	"ch.rating", "ch.review_count",
	"ch.care_type_id", "ch.specializations", "ch.images",
	"ch.cqc_rating", "ch.age_restriction",
	"ch.created_at", "ch.updated_at",
	goqu.I("ct.name").As("care_type_name"),
}

// CareHomeAdapter implements the CareHomeRepository interface on
// Postgres, composing discovery queries with goqu.
type CareHomeAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCareHomeAdapter creates a new care home adapter
func NewCareHomeAdapter(client *postgres.Client) repositories.CareHomeRepository {
	return &CareHomeAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new care home. Aggregate fields start at zero no
// matter what the caller put on the entity.
func (a *CareHomeAdapter) Create(ctx context.Context, home *entities.CareHome) error {
	record := goqu.Record{
		"id":                      home.ID,
		"name":                    home.Name,
		"description":             home.Description,
		"address_line1":           home.Address.Line1,
		"address_line2":           home.Address.Line2,
		"city":                    home.Address.City,
		"region":                  home.Address.Region,
		"postcode":                home.Address.Postcode,
		"country":                 home.Address.Country,
		"latitude":                nullLatitude(home.Location),
		"longitude":               nullLongitude(home.Location),
		"weekly_price":            nullFloat(home.WeeklyPrice),
		"monthly_price":           nullFloat(home.MonthlyPrice),
		"total_beds":              home.TotalBeds,
		"available_beds":          home.AvailableBeds,
		"is_active":               home.IsActive,
		"is_verified":             home.IsVerified,
		"is_featured":             home.IsFeatured,
		"accepting_new_residents": home.AcceptingNewResidents,
		"rating":                  0,
		"review_count":            0,
		"care_type_id":            home.CareTypeID,
		"specializations":         pq.Array(home.Specializations),
		"images":                  pq.Array(home.Images),
		"cqc_rating":              nullString(home.CQCRating),
		"age_restriction":         nullInt(home.AgeRestriction),
		"created_at":              home.CreatedAt,
		"updated_at":              home.UpdatedAt,
	}

	query, args, err := a.db.Insert("care_homes").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build care home insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create care home", err)
	}

	if len(home.Facilities) > 0 {
		if err := a.replaceFacilities(ctx, home.ID, home.Facilities); err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves an active care home by ID
func (a *CareHomeAdapter) GetByID(ctx context.Context, id string) (*entities.CareHome, error) {
	query, args, err := a.baseSelect().
		Where(goqu.I("ch.id").Eq(id), goqu.I("ch.is_active").Eq(true)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build care home query", err)
	}

	row := a.client.DB().QueryRowContext(ctx, query, args...)
	home, err := scanCareHome(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("care home with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get care home", err)
	}

	if err := a.loadFacilities(ctx, []*entities.CareHome{home}); err != nil {
		return nil, err
	}

	return home, nil
}

// Update updates a care home. The rating and review_count columns are
// deliberately absent from the record: they belong to the rating
// aggregator.
func (a *CareHomeAdapter) Update(ctx context.Context, home *entities.CareHome) error {
	home.UpdatedAt = time.Now().UTC()

	record := goqu.Record{
		"name":                    home.Name,
		"description":             home.Description,
		"address_line1":           home.Address.Line1,
		"address_line2":           home.Address.Line2,
		"city":                    home.Address.City,
		"region":                  home.Address.Region,
		"postcode":                home.Address.Postcode,
		"country":                 home.Address.Country,
		"latitude":                nullLatitude(home.Location),
		"longitude":               nullLongitude(home.Location),
		"weekly_price":            nullFloat(home.WeeklyPrice),
		"monthly_price":           nullFloat(home.MonthlyPrice),
		"total_beds":              home.TotalBeds,
		"available_beds":          home.AvailableBeds,
		"is_verified":             home.IsVerified,
		"is_featured":             home.IsFeatured,
		"accepting_new_residents": home.AcceptingNewResidents,
		"care_type_id":            home.CareTypeID,
		"specializations":         pq.Array(home.Specializations),
		"images":                  pq.Array(home.Images),
		"cqc_rating":              nullString(home.CQCRating),
		"age_restriction":         nullInt(home.AgeRestriction),
		"updated_at":              home.UpdatedAt,
	}

	query, args, err := a.db.Update("care_homes").
		Set(record).
		Where(goqu.Ex{"id": home.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build care home update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update care home", err)
	}

	if err := requireRowsAffected(result, home.ID); err != nil {
		return err
	}

	if home.Facilities != nil {
		return a.replaceFacilities(ctx, home.ID, home.Facilities)
	}

	return nil
}

// Delete soft-deletes a care home
func (a *CareHomeAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Update("care_homes").
		Set(goqu.Record{"is_active": false, "updated_at": time.Now().UTC()}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build care home delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete care home", err)
	}

	return requireRowsAffected(result, id)
}

// List executes a composed discovery query: every present filter is
// applied conjunctively, the total is counted before pagination, and
// one sort key orders the page window.
func (a *CareHomeAdapter) List(ctx context.Context, query repositories.CareHomeQuery) (*repositories.ListResult, error) {
	filtered := pgDialect.From(goqu.T("care_homes").As("ch")).
		Where(composeFilters(query)...)

	if query.Latitude != nil && query.Longitude != nil && query.RadiusMiles != nil {
		radiusKm := geo.MilesToKm(*query.RadiusMiles)
		filtered = filtered.Where(geoPredicate(*query.Latitude, *query.Longitude, radiusKm))
	}

	// Total count of the filtered set, before LIMIT/OFFSET.
	countSQL, countArgs, err := filtered.Select(goqu.COUNT("*")).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build count query", err)
	}

	var total int
	if err := a.client.DB().QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, apperrors.NewInternalError("failed to count care homes", err)
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit <= 0 {
		limit = 10
	}

	ds := filtered.
		LeftJoin(goqu.T("care_types").As("ct"), goqu.On(goqu.I("ch.care_type_id").Eq(goqu.I("ct.id")))).
		Select(careHomeColumns...).
		Order(sortExpression(query.SortBy, query.SortOrder)).
		Limit(uint(limit)).
		Offset(uint((page - 1) * limit))

	listSQL, listArgs, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list care homes", err)
	}
	defer rows.Close()

	homes := []*entities.CareHome{}
	for rows.Next() {
		home, err := scanCareHome(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan care home", err)
		}
		homes = append(homes, home)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating care homes", err)
	}

	if err := a.loadFacilities(ctx, homes); err != nil {
		return nil, err
	}

	return &repositories.ListResult{
		Items: homes,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// Nearby returns active care homes within radiusKm of the point,
// nearest first. Homes without coordinates are excluded by the
// predicate, never folded into NaN distances.
func (a *CareHomeAdapter) Nearby(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]*entities.CareHomeWithDistance, error) {
	columns := append([]interface{}{}, careHomeColumns...)
	columns = append(columns, distanceExpression(lat, lon))

	ds := pgDialect.From(goqu.T("care_homes").As("ch")).
		LeftJoin(goqu.T("care_types").As("ct"), goqu.On(goqu.I("ch.care_type_id").Eq(goqu.I("ct.id")))).
		Select(columns...).
		Where(
			goqu.I("ch.is_active").Eq(true),
			geoPredicate(lat, lon, radiusKm),
		).
		Order(goqu.I("distance").Asc()).
		Limit(uint(limit))

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build nearby query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to search nearby care homes", err)
	}
	defer rows.Close()

	results := []*entities.CareHomeWithDistance{}
	for rows.Next() {
		item := &entities.CareHomeWithDistance{}
		if err := scanCareHomeInto(rows, &item.CareHome, &item.DistanceKm); err != nil {
			return nil, apperrors.NewInternalError("failed to scan nearby care home", err)
		}
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating nearby care homes", err)
	}

	return results, nil
}

func (a *CareHomeAdapter) baseSelect() *goqu.SelectDataset {
	return pgDialect.From(goqu.T("care_homes").As("ch")).
		LeftJoin(goqu.T("care_types").As("ct"), goqu.On(goqu.I("ch.care_type_id").Eq(goqu.I("ct.id")))).
		Select(careHomeColumns...)
}

// replaceFacilities rewrites the facility join rows for a care home.
func (a *CareHomeAdapter) replaceFacilities(ctx context.Context, careHomeID string, facilities []entities.Facility) error {
	delSQL, delArgs, err := a.db.Delete("care_home_facilities").
		Where(goqu.Ex{"care_home_id": careHomeID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build facility unlink query", err)
	}
	if _, err := a.client.DB().ExecContext(ctx, delSQL, delArgs...); err != nil {
		return apperrors.NewInternalError("failed to unlink care home facilities", err)
	}

	if len(facilities) == 0 {
		return nil
	}

	records := make([]interface{}, 0, len(facilities))
	for _, f := range facilities {
		records = append(records, goqu.Record{
			"care_home_id": careHomeID,
			"facility_id":  f.ID,
		})
	}

	insSQL, insArgs, err := a.db.Insert("care_home_facilities").Rows(records...).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build facility link query", err)
	}
	if _, err := a.client.DB().ExecContext(ctx, insSQL, insArgs...); err != nil {
		return apperrors.NewInternalError("failed to link care home facilities", err)
	}

	return nil
}

// loadFacilities attaches the facility lists for a page of care homes
// in one query over the join table.
func (a *CareHomeAdapter) loadFacilities(ctx context.Context, homes []*entities.CareHome) error {
	if len(homes) == 0 {
		return nil
	}

	ids := make([]string, 0, len(homes))
	byID := make(map[string]*entities.CareHome, len(homes))
	for _, home := range homes {
		home.Facilities = []entities.Facility{}
		ids = append(ids, home.ID)
		byID[home.ID] = home
	}

	query, args, err := a.db.Select(
		goqu.I("chf.care_home_id"),
		goqu.I("f.id"), goqu.I("f.name"), goqu.I("f.icon"),
		goqu.I("f.is_active"), goqu.I("f.sort_order"), goqu.I("f.created_at"),
	).
		From(goqu.T("care_home_facilities").As("chf")).
		Join(goqu.T("facilities").As("f"), goqu.On(goqu.I("chf.facility_id").Eq(goqu.I("f.id")))).
		Where(goqu.I("chf.care_home_id").In(ids)).
		Order(goqu.I("f.sort_order").Asc()).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build facility load query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to load care home facilities", err)
	}
	defer rows.Close()

	for rows.Next() {
		var careHomeID string
		var facility entities.Facility
		if err := rows.Scan(
			&careHomeID,
			&facility.ID, &facility.Name, &facility.Icon,
			&facility.IsActive, &facility.SortOrder, &facility.CreatedAt,
		); err != nil {
			return apperrors.NewInternalError("failed to scan care home facility", err)
		}
		if home, ok := byID[careHomeID]; ok {
			home.Facilities = append(home.Facilities, facility)
		}
	}

	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCareHome(row rowScanner) (*entities.CareHome, error) {
	home := &entities.CareHome{}
	if err := scanCareHomeInto(row, home); err != nil {
		return nil, err
	}
	return home, nil
}

// scanCareHomeInto scans the careHomeColumns select list, plus any
// trailing extras, into a care home.
func scanCareHomeInto(row rowScanner, home *entities.CareHome, extras ...interface{}) error {
	var (
		latitude, longitude       sql.NullFloat64
		weeklyPrice, monthlyPrice sql.NullFloat64
		cqcRating, careTypeName   sql.NullString
		ageRestriction            sql.NullInt64
	)

	dest := []interface{}{
		&home.ID, &home.Name, &home.Description,
		&home.Address.Line1, &home.Address.Line2, &home.Address.City,
		&home.Address.Region, &home.Address.Postcode, &home.Address.Country,
		&latitude, &longitude,
		&weeklyPrice, &monthlyPrice,
		&home.TotalBeds, &home.AvailableBeds,
		&home.IsActive, &home.IsVerified, &home.IsFeatured, &home.AcceptingNewResidents,
		&home.Rating, &home.ReviewCount,
		&home.CareTypeID, pq.Array(&home.Specializations), pq.Array(&home.Images),
		&cqcRating, &ageRestriction,
		&home.CreatedAt, &home.UpdatedAt,
		&careTypeName,
	}
	dest = append(dest, extras...)

	if err := row.Scan(dest...); err != nil {
		return err
	}

	if latitude.Valid && longitude.Valid {
		home.Location = &entities.Location{
			Latitude:  latitude.Float64,
			Longitude: longitude.Float64,
		}
	}
	if weeklyPrice.Valid {
		home.WeeklyPrice = &weeklyPrice.Float64
	}
	if monthlyPrice.Valid {
		home.MonthlyPrice = &monthlyPrice.Float64
	}
	if cqcRating.Valid {
		home.CQCRating = &cqcRating.String
	}
	if ageRestriction.Valid {
		age := int(ageRestriction.Int64)
		home.AgeRestriction = &age
	}
	if careTypeName.Valid {
		home.CareType = &entities.CareType{ID: home.CareTypeID, Name: careTypeName.String}
	}

	return nil
}

func requireRowsAffected(result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("care home with id %s not found", id))
	}
	return nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullLatitude(loc *entities.Location) sql.NullFloat64 {
	if loc == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: loc.Latitude, Valid: true}
}

func nullLongitude(loc *entities.Location) sql.NullFloat64 {
	if loc == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: loc.Longitude, Valid: true}
}
