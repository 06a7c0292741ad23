// Package vehicle is the registered vehicle resource.
package vehicle

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/simp-lee/parkadmin/internal/datatable"
	"github.com/simp-lee/parkadmin/internal/domain"
	"github.com/simp-lee/parkadmin/internal/lookup"
	"github.com/simp-lee/parkadmin/internal/module/category"
	"github.com/simp-lee/parkadmin/internal/module/driver"
	"github.com/simp-lee/parkadmin/internal/resource"
)

// Form is the vehicle input. A zero DriverID leaves the vehicle unassigned.
type Form struct {
	Plate             string `json:"plate" form:"plate" binding:"required,min=2,max=20"`
	Make              string `json:"make" form:"make" binding:"max=80"`
	Model             string `json:"model" form:"model" binding:"max=80"`
	Color             string `json:"color" form:"color" binding:"max=40"`
	VehicleCategoryID uint   `json:"vehicle_category_id" form:"vehicle_category_id" binding:"required"`
	DriverID          uint   `json:"driver_id" form:"driver_id"`
}

// Module is the wired vehicle resource.
type Module = resource.Module[domain.Vehicle, Form]

// Columns returns the vehicle table columns.
func Columns(actions datatable.RowActions) []datatable.Column[domain.Vehicle] {
	return []datatable.Column[domain.Vehicle]{
		datatable.Text("plate", "Plate", func(v domain.Vehicle) any { return v.Plate }).Sortable(),
		datatable.Text("make", "Make", func(v domain.Vehicle) any { return strings.TrimSpace(v.Make + " " + v.Model) }).Sortable(),
		datatable.Text("color", "Color", func(v domain.Vehicle) any { return v.Color }),
		datatable.RelationText[domain.Vehicle]("vehicle_category.name", "Category").Sortable(),
		datatable.RelationText[domain.Vehicle]("driver.name", "Driver").Sortable(),
		datatable.CRUDActions[domain.Vehicle](actions),
	}
}

// New wires the vehicle resource over db.
func New(db *gorm.DB, deps resource.Deps) *Module {
	svc := resource.NewService("vehicle", Repository(db), resource.Hooks[domain.Vehicle]{
		Normalize: func(v *domain.Vehicle) {
			v.Plate = strings.ToUpper(strings.Join(strings.Fields(v.Plate), ""))
			v.Make = strings.TrimSpace(v.Make)
			v.Model = strings.TrimSpace(v.Model)
			v.Color = strings.TrimSpace(v.Color)
		},
		Validate: func(ctx context.Context, v *domain.Vehicle) error {
			return validateRefs(ctx, db, v)
		},
	})
	return resource.NewModule(Definition(db), svc, deps)
}

// Repository returns the vehicle repository.
func Repository(db *gorm.DB) *resource.Repository[domain.Vehicle] {
	return resource.NewRepository[domain.Vehicle](db, resource.Query{
		SortFields:   []string{"id", "plate", "make", "vehicle_category_id", "driver_id", "created_at"},
		FilterFields: []string{"plate__like", "vehicle_category_id", "driver_id"},
		Preloads:     []string{"VehicleCategory", "Driver"},
		OrderBy:      "plate",
	})
}

// Definition describes the vehicle screens.
func Definition(db *gorm.DB) *resource.Definition[domain.Vehicle, Form] {
	return &resource.Definition[domain.Vehicle, Form]{
		Name:         "vehicles",
		Noun:         "vehicle",
		Title:        "Vehicles",
		Columns:      Columns,
		SearchKey:    "plate",
		EmptyMessage: "No vehicles found.",
		Fields: []resource.FieldSpec{
			{Name: "plate", Label: "Plate", Type: resource.FieldText, Required: true},
			{Name: "make", Label: "Make", Type: resource.FieldText},
			{Name: "model", Label: "Model", Type: resource.FieldText},
			{Name: "color", Label: "Color", Type: resource.FieldText},
			{Name: "vehicle_category_id", Label: "Category", Type: resource.FieldSelect, Required: true, Lookup: lookup.VehicleCategories},
			{Name: "driver_id", Label: "Driver", Type: resource.FieldSelect, Lookup: lookup.Drivers, Help: "Leave empty for an unassigned vehicle."},
		},
		Lookups: map[string]lookup.Loader{
			lookup.VehicleCategories: category.Options(db),
			lookup.Drivers:           driver.Options(db),
		},
		Apply: func(_ context.Context, f *Form, v *domain.Vehicle) error {
			v.Plate = f.Plate
			v.Make = f.Make
			v.Model = f.Model
			v.Color = f.Color
			v.VehicleCategoryID = f.VehicleCategoryID
			v.VehicleCategory = nil
			v.Driver = nil
			v.DriverID = nil
			if f.DriverID != 0 {
				id := f.DriverID
				v.DriverID = &id
			}
			return nil
		},
		Form: func(v *domain.Vehicle) Form {
			f := Form{
				Plate:             v.Plate,
				Make:              v.Make,
				Model:             v.Model,
				Color:             v.Color,
				VehicleCategoryID: v.VehicleCategoryID,
			}
			if v.DriverID != nil {
				f.DriverID = *v.DriverID
			}
			return f
		},
	}
}

func validateRefs(ctx context.Context, db *gorm.DB, v *domain.Vehicle) error {
	if ok, err := exists(ctx, db, &domain.VehicleCategory{}, v.VehicleCategoryID); err != nil {
		return err
	} else if !ok {
		return domain.NewFieldError("vehicle_category_id", "Select an existing category.")
	}
	if v.DriverID == nil {
		return nil
	}
	if ok, err := exists(ctx, db, &domain.Driver{}, *v.DriverID); err != nil {
		return err
	} else if !ok {
		return domain.NewFieldError("driver_id", "Select an existing driver.")
	}
	return nil
}

func exists(ctx context.Context, db *gorm.DB, model any, id uint) (bool, error) {
	var n int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, domain.NewAppError(domain.CodeInternal, "database error", err)
	}
	return n > 0, nil
}
