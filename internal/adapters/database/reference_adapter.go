package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/careseeker/careseeker-backend/internal/domain/entities"
	"github.com/careseeker/careseeker-backend/internal/domain/repositories"
	"github.com/careseeker/careseeker-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/careseeker/careseeker-backend/pkg/errors"
)

// ReferenceAdapter reads the lookup tables the discovery engine
// filters against.
type ReferenceAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReferenceAdapter creates a new reference data adapter
func NewReferenceAdapter(client *postgres.Client) repositories.ReferenceRepository {
	return &ReferenceAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// ListCareTypes retrieves active care types ordered by sort order
func (a *ReferenceAdapter) ListCareTypes(ctx context.Context) ([]*entities.CareType, error) {
	query, args, err := a.db.Select(
		"id", "name", "description", "is_active", "sort_order", "created_at",
	).From("care_types").
		Where(goqu.Ex{"is_active": true}).
		Order(goqu.I("sort_order").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build care type query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list care types", err)
	}
	defer rows.Close()

	careTypes := []*entities.CareType{}
	for rows.Next() {
		ct := &entities.CareType{}
		if err := rows.Scan(&ct.ID, &ct.Name, &ct.Description, &ct.IsActive, &ct.SortOrder, &ct.CreatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan care type", err)
		}
		careTypes = append(careTypes, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating care types", err)
	}

	return careTypes, nil
}

// ListFacilities retrieves active facilities ordered by sort order
func (a *ReferenceAdapter) ListFacilities(ctx context.Context) ([]*entities.Facility, error) {
	query, args, err := a.db.Select(
		"id", "name", "icon", "is_active", "sort_order", "created_at",
	).From("facilities").
		Where(goqu.Ex{"is_active": true}).
		Order(goqu.I("sort_order").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build facility query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list facilities", err)
	}
	defer rows.Close()

	facilities := []*entities.Facility{}
	for rows.Next() {
		f := &entities.Facility{}
		if err := rows.Scan(&f.ID, &f.Name, &f.Icon, &f.IsActive, &f.SortOrder, &f.CreatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan facility", err)
		}
		facilities = append(facilities, f)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating facilities", err)
	}

	return facilities, nil
}
