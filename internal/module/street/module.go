// Package street is the street resource. Streets belong to a zone and carry
// the polyline drawn on the map.
package street

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/simp-lee/parkadmin/internal/domain"
	"github.com/simp-lee/parkadmin/internal/geo"
	"github.com/simp-lee/parkadmin/internal/lookup"
	"github.com/simp-lee/parkadmin/internal/module/zone"
	"github.com/simp-lee/parkadmin/internal/resource"
)

const listTemplate = "streets/list.html"

// Module is the wired street resource.
type Module = resource.Module[domain.Street, Form]

// New wires the street resource over db. mapCentre centres the overview
// map when no street has a path.
func New(db *gorm.DB, deps resource.Deps, mapCentre geo.LatLng) *Module {
	svc := resource.NewService("street", Repository(db), resource.Hooks[domain.Street]{
		Normalize: func(s *domain.Street) { s.Name = strings.TrimSpace(s.Name) },
		Validate: func(ctx context.Context, s *domain.Street) error {
			return zoneExists(ctx, db, s.ZoneID)
		},
		BeforeDelete: func(ctx context.Context, tx *gorm.DB, id uint) error {
			var n int64
			if err := tx.WithContext(ctx).Model(&domain.ParkingSpace{}).Where("street_id = ?", id).Count(&n).Error; err != nil {
				return domain.NewAppError(domain.CodeInternal, "database error", err)
			}
			if n > 0 {
				return domain.NewAppError(domain.CodeInUse, "Street still has parking spaces.", nil)
			}
			return nil
		},
		Changed: resource.Invalidator(deps.Lookups, lookup.Streets),
	})

	def := Definition(db)
	def.ListData = listData(mapCentre)
	return resource.NewModule(def, svc, deps)
}

// Repository returns the street repository.
func Repository(db *gorm.DB) *resource.Repository[domain.Street] {
	return resource.NewRepository[domain.Street](db, resource.Query{
		SortFields:   []string{"id", "name", "zone_id", "is_active", "created_at"},
		FilterFields: []string{"zone_id", "name__like", "is_active"},
		Preloads:     []string{"Zone"},
		OrderBy:      "name",
	})
}

// Options lists streets as "Street (Zone)" for select inputs.
func Options(db *gorm.DB) lookup.Loader {
	return resource.Options(Repository(db), func(s domain.Street) string {
		if s.Zone == nil {
			return s.Name
		}
		return s.Name + " (" + s.Zone.Name + ")"
	})
}

// Definition describes the street screens.
func Definition(db *gorm.DB) *resource.Definition[domain.Street, Form] {
	return &resource.Definition[domain.Street, Form]{
		Name:         "streets",
		Noun:         "street",
		Title:        "Streets",
		Columns:      Columns,
		SearchKey:    "name",
		Toggle:       true,
		EmptyMessage: "No streets found.",
		Fields: []resource.FieldSpec{
			{Name: "name", Label: "Name", Type: resource.FieldText, Required: true},
			{Name: "zone_id", Label: "Zone", Type: resource.FieldSelect, Required: true, Lookup: lookup.Zones},
			{Name: "path", Label: "Path", Type: resource.FieldPath, Help: "Click the map to trace the street, or paste [[lat, lng], ...]."},
			{Name: "is_active", Label: "Active", Type: resource.FieldCheckbox},
		},
		Lookups: map[string]lookup.Loader{lookup.Zones: zone.Options(db)},
		Apply: func(_ context.Context, f *Form, s *domain.Street) error {
			path, err := geo.NormalizePath(f.Path)
			if err != nil {
				return domain.NewFieldError("path", message(err))
			}
			s.Name = f.Name
			s.ZoneID = f.ZoneID
			s.Zone = nil
			s.Path = path
			s.IsActive = f.IsActive
			return nil
		},
		Form: func(s *domain.Street) Form {
			return Form{Name: s.Name, ZoneID: s.ZoneID, Path: s.Path, IsActive: s.IsActive}
		},
		Defaults:     func() Form { return Form{IsActive: true} },
		ListTemplate: listTemplate,
	}
}

func zoneExists(ctx context.Context, db *gorm.DB, id uint) error {
	var n int64
	if err := db.WithContext(ctx).Model(&domain.Zone{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return domain.NewAppError(domain.CodeInternal, "database error", err)
	}
	if n == 0 {
		return domain.NewFieldError("zone_id", "Select an existing zone.")
	}
	return nil
}

func message(err error) string {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
