// Package category is the vehicle category resource. Categories key the
// parking, towing and clamping tariffs.
package category

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/simp-lee/parkadmin/internal/datatable"
	"github.com/simp-lee/parkadmin/internal/domain"
	"github.com/simp-lee/parkadmin/internal/lookup"
	"github.com/simp-lee/parkadmin/internal/resource"
)

// Form is the vehicle category input.
type Form struct {
	Name        string `json:"name" form:"name" binding:"required,min=2,max=100"`
	Description string `json:"description" form:"description" binding:"max=500"`
}

// Module is the wired vehicle category resource.
type Module = resource.Module[domain.VehicleCategory, Form]

// Columns returns the vehicle category table columns.
func Columns(actions datatable.RowActions) []datatable.Column[domain.VehicleCategory] {
	return []datatable.Column[domain.VehicleCategory]{
		datatable.Text("name", "Name", func(c domain.VehicleCategory) any { return c.Name }).Sortable(),
		datatable.Text("description", "Description", func(c domain.VehicleCategory) any { return c.Description }),
		datatable.CRUDActions[domain.VehicleCategory](actions),
	}
}

// New wires the vehicle category resource over db.
func New(db *gorm.DB, deps resource.Deps) *Module {
	svc := resource.NewService("vehicle category", Repository(db), resource.Hooks[domain.VehicleCategory]{
		Normalize: func(c *domain.VehicleCategory) {
			c.Name = strings.TrimSpace(c.Name)
			c.Description = strings.TrimSpace(c.Description)
		},
		BeforeDelete: ensureUnused,
		Changed:      resource.Invalidator(deps.Lookups, lookup.VehicleCategories),
	})
	return resource.NewModule(Definition(), svc, deps)
}

// Repository returns the vehicle category repository.
func Repository(db *gorm.DB) *resource.Repository[domain.VehicleCategory] {
	return resource.NewRepository[domain.VehicleCategory](db, resource.Query{
		SortFields:   []string{"id", "name", "created_at"},
		FilterFields: []string{"name__like"},
		OrderBy:      "name",
	})
}

// Options lists vehicle categories for select inputs.
func Options(db *gorm.DB) lookup.Loader {
	return resource.Options(Repository(db), func(c domain.VehicleCategory) string { return c.Name })
}

// Definition describes the vehicle category screens.
func Definition() *resource.Definition[domain.VehicleCategory, Form] {
	return &resource.Definition[domain.VehicleCategory, Form]{
		Name:         "categories",
		Noun:         "vehicle category",
		Title:        "Vehicle categories",
		Columns:      Columns,
		SearchKey:    "name",
		EmptyMessage: "No vehicle categories found.",
		Fields: []resource.FieldSpec{
			{Name: "name", Label: "Name", Type: resource.FieldText, Required: true},
			{Name: "description", Label: "Description", Type: resource.FieldTextarea},
		},
		Apply: func(_ context.Context, f *Form, c *domain.VehicleCategory) error {
			c.Name = f.Name
			c.Description = f.Description
			return nil
		},
		Form: func(c *domain.VehicleCategory) Form {
			return Form{Name: c.Name, Description: c.Description}
		},
	}
}

// ensureUnused rejects deleting a category that vehicles or tariffs use.
func ensureUnused(ctx context.Context, tx *gorm.DB, id uint) error {
	models := []any{&domain.Vehicle{}, &domain.ParkingRate{}, &domain.TowingRate{}, &domain.ClampingRate{}}
	for _, model := range models {
		var n int64
		if err := tx.WithContext(ctx).Model(model).Where("vehicle_category_id = ?", id).Count(&n).Error; err != nil {
			return domain.NewAppError(domain.CodeInternal, "database error", err)
		}
		if n > 0 {
			return domain.NewAppError(domain.CodeInUse, "Vehicle category is still used by vehicles or rates.", nil)
		}
	}
	return nil
}
