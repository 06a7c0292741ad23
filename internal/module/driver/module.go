// Package driver is the registered driver resource.
package driver

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/simp-lee/parkadmin/internal/datatable"
	"github.com/simp-lee/parkadmin/internal/domain"
	"github.com/simp-lee/parkadmin/internal/lookup"
	"github.com/simp-lee/parkadmin/internal/resource"
)

// Form is the driver input.
type Form struct {
	Name          string `json:"name" form:"name" binding:"required,min=2,max=150"`
	LicenseNumber string `json:"license_number" form:"license_number" binding:"required,min=3,max=50"`
	Phone         string `json:"phone" form:"phone" binding:"max=30"`
	Email         string `json:"email" form:"email" binding:"omitempty,email,max=255"`
	IsActive      bool   `json:"is_active" form:"is_active"`
}

// Module is the wired driver resource.
type Module = resource.Module[domain.Driver, Form]

// Columns returns the driver table columns.
func Columns(actions datatable.RowActions) []datatable.Column[domain.Driver] {
	return []datatable.Column[domain.Driver]{
		datatable.Text("name", "Name", func(d domain.Driver) any { return d.Name }).Sortable(),
		datatable.Text("license_number", "License", func(d domain.Driver) any { return d.LicenseNumber }).Sortable(),
		datatable.Text("phone", "Phone", func(d domain.Driver) any { return d.Phone }),
		datatable.Text("email", "Email", func(d domain.Driver) any { return d.Email }),
		datatable.StatusBadge("is_active", "Status", func(d domain.Driver) bool { return d.IsActive }).Sortable(),
		datatable.CRUDActions[domain.Driver](actions),
	}
}

// New wires the driver resource over db. Deleting a driver unlinks their
// vehicles.
func New(db *gorm.DB, deps resource.Deps) *Module {
	svc := resource.NewService("driver", Repository(db), resource.Hooks[domain.Driver]{
		Normalize: func(d *domain.Driver) {
			d.Name = strings.TrimSpace(d.Name)
			d.LicenseNumber = strings.ToUpper(strings.TrimSpace(d.LicenseNumber))
			d.Phone = strings.TrimSpace(d.Phone)
			d.Email = strings.ToLower(strings.TrimSpace(d.Email))
		},
		BeforeDelete: func(ctx context.Context, tx *gorm.DB, id uint) error {
			err := tx.WithContext(ctx).Model(&domain.Vehicle{}).Where("driver_id = ?", id).Update("driver_id", nil).Error
			if err != nil {
				return domain.NewAppError(domain.CodeInternal, "database error", err)
			}
			return nil
		},
		Changed: resource.Invalidator(deps.Lookups, lookup.Drivers),
	})
	return resource.NewModule(Definition(), svc, deps)
}

// Repository returns the driver repository.
func Repository(db *gorm.DB) *resource.Repository[domain.Driver] {
	return resource.NewRepository[domain.Driver](db, resource.Query{
		SortFields:   []string{"id", "name", "license_number", "is_active", "created_at"},
		FilterFields: []string{"license_number", "name__like", "is_active"},
		OrderBy:      "name",
	})
}

// Options lists drivers as "Name (license)" for select inputs.
func Options(db *gorm.DB) lookup.Loader {
	return resource.Options(Repository(db), func(d domain.Driver) string {
		return d.Name + " (" + d.LicenseNumber + ")"
	})
}

// Definition describes the driver screens.
func Definition() *resource.Definition[domain.Driver, Form] {
	return &resource.Definition[domain.Driver, Form]{
		Name:         "drivers",
		Noun:         "driver",
		Title:        "Drivers",
		Columns:      Columns,
		SearchKey:    "name",
		Toggle:       true,
		EmptyMessage: "No drivers found.",
		Fields: []resource.FieldSpec{
			{Name: "name", Label: "Name", Type: resource.FieldText, Required: true},
			{Name: "license_number", Label: "License number", Type: resource.FieldText, Required: true},
			{Name: "phone", Label: "Phone", Type: resource.FieldText},
			{Name: "email", Label: "Email", Type: resource.FieldEmail},
			{Name: "is_active", Label: "Active", Type: resource.FieldCheckbox},
		},
		Apply: func(_ context.Context, f *Form, d *domain.Driver) error {
			d.Name = f.Name
			d.LicenseNumber = f.LicenseNumber
			d.Phone = f.Phone
			d.Email = f.Email
			d.IsActive = f.IsActive
			return nil
		},
		Form: func(d *domain.Driver) Form {
			return Form{Name: d.Name, LicenseNumber: d.LicenseNumber, Phone: d.Phone, Email: d.Email, IsActive: d.IsActive}
		},
		Defaults: func() Form { return Form{IsActive: true} },
	}
}
