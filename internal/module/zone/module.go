// Package zone is the parking zone resource.
package zone

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/simp-lee/parkadmin/internal/domain"
	"github.com/simp-lee/parkadmin/internal/lookup"
	"github.com/simp-lee/parkadmin/internal/resource"
)

// Module is the wired zone resource.
type Module = resource.Module[domain.Zone, Form]

// New wires the zone resource over db.
func New(db *gorm.DB, deps resource.Deps) *Module {
	svc := resource.NewService("zone", Repository(db), resource.Hooks[domain.Zone]{
		Normalize: normalize,
		BeforeDelete: func(ctx context.Context, tx *gorm.DB, id uint) error {
			return ensureUnused(ctx, tx, id)
		},
		Changed: resource.Invalidator(deps.Lookups, lookup.Zones, lookup.Streets),
	})
	return resource.NewModule(Definition(), svc, deps)
}

// Repository returns the zone repository.
func Repository(db *gorm.DB) *resource.Repository[domain.Zone] {
	return resource.NewRepository[domain.Zone](db, resource.Query{
		SortFields:   []string{"id", "name", "code", "is_active", "created_at"},
		FilterFields: []string{"code", "name__like", "is_active"},
		OrderBy:      "name",
	})
}

// Options lists zones for select inputs.
func Options(db *gorm.DB) lookup.Loader {
	return resource.Options(Repository(db), func(z domain.Zone) string { return z.Name })
}

// Definition describes the zone screens.
func Definition() *resource.Definition[domain.Zone, Form] {
	return &resource.Definition[domain.Zone, Form]{
		Name:         "zones",
		Noun:         "zone",
		Title:        "Zones",
		Columns:      Columns,
		SearchKey:    "name",
		Toggle:       true,
		EmptyMessage: "No zones found.",
		Fields: []resource.FieldSpec{
			{Name: "name", Label: "Name", Type: resource.FieldText, Required: true},
			{Name: "code", Label: "Code", Type: resource.FieldText, Required: true, Help: "Short unique code, e.g. Z-01."},
			{Name: "description", Label: "Description", Type: resource.FieldTextarea},
			{Name: "is_active", Label: "Active", Type: resource.FieldCheckbox},
		},
		Apply: func(_ context.Context, f *Form, z *domain.Zone) error {
			z.Name = f.Name
			z.Code = f.Code
			z.Description = f.Description
			z.IsActive = f.IsActive
			return nil
		},
		Form: func(z *domain.Zone) Form {
			return Form{Name: z.Name, Code: z.Code, Description: z.Description, IsActive: z.IsActive}
		},
		Defaults: func() Form { return Form{IsActive: true} },
	}
}

func normalize(z *domain.Zone) {
	z.Name = strings.TrimSpace(z.Name)
	z.Code = strings.ToUpper(strings.TrimSpace(z.Code))
	z.Description = strings.TrimSpace(z.Description)
}

// ensureUnused rejects deleting a zone that streets or rates still reference.
func ensureUnused(ctx context.Context, tx *gorm.DB, id uint) error {
	for _, model := range []any{&domain.Street{}, &domain.ParkingRate{}} {
		var n int64
		if err := tx.WithContext(ctx).Model(model).Where("zone_id = ?", id).Count(&n).Error; err != nil {
			return domain.NewAppError(domain.CodeInternal, "database error", err)
		}
		if n > 0 {
			return domain.NewAppError(domain.CodeInUse, "Zone is still used by streets or rates.", nil)
		}
	}
	return nil
}
