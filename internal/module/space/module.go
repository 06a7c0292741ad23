// Package space is the parking space resource. Its list can be shown as a
// table, a map or cards; the chosen mode is remembered per browser.
package space

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/parkadmin/internal/domain"
	"github.com/simp-lee/parkadmin/internal/geo"
	"github.com/simp-lee/parkadmin/internal/lookup"
	"github.com/simp-lee/parkadmin/internal/module/street"
	"github.com/simp-lee/parkadmin/internal/preference"
	"github.com/simp-lee/parkadmin/internal/resource"
)

const listTemplate = "spaces/list.html"

// Module is the wired parking space resource.
type Module = resource.Module[domain.ParkingSpace, Form]

// Options configures the list views.
type Options struct {
	// MapCentre centres the map view when no space has coordinates.
	MapCentre geo.LatLng
	// Preferences returns the store holding the view mode; defaults to the
	// request cookies.
	Preferences func(c *gin.Context) preference.Store
}

// New wires the parking space resource over db.
func New(db *gorm.DB, deps resource.Deps, opts Options) *Module {
	if opts.Preferences == nil {
		opts.Preferences = func(c *gin.Context) preference.Store { return preference.Cookies(c) }
	}
	svc := resource.NewService("parking space", Repository(db), resource.Hooks[domain.ParkingSpace]{
		Normalize: func(s *domain.ParkingSpace) {
			s.Code = strings.ToUpper(strings.TrimSpace(s.Code))
			if s.State == "" {
				s.State = domain.SpaceAvailable
			}
		},
		Validate: func(ctx context.Context, s *domain.ParkingSpace) error {
			return streetExists(ctx, db, s.StreetID)
		},
	})

	def := Definition(db)
	def.ListData = listData(opts.MapCentre, opts.Preferences)
	return resource.NewModule(def, svc, deps)
}

// Repository returns the parking space repository.
func Repository(db *gorm.DB) *resource.Repository[domain.ParkingSpace] {
	return resource.NewRepository[domain.ParkingSpace](db, resource.Query{
		SortFields:   []string{"id", "code", "state", "street_id", "is_active", "created_at"},
		FilterFields: []string{"street_id", "state", "disabled", "is_active"},
		Preloads:     []string{"Street", "Street.Zone"},
		OrderBy:      "code",
	})
}

// Definition describes the parking space screens.
func Definition(db *gorm.DB) *resource.Definition[domain.ParkingSpace, Form] {
	states := make([]lookup.Option, 0, len(domain.SpaceStates))
	for _, s := range domain.SpaceStates {
		states = append(states, lookup.Option{Value: s, Label: StateBadge(domain.ParkingSpace{State: s}).Label})
	}

	return &resource.Definition[domain.ParkingSpace, Form]{
		Name:         "spaces",
		Noun:         "parking space",
		Title:        "Parking spaces",
		Columns:      Columns,
		SearchKey:    "code",
		Toggle:       true,
		EmptyMessage: "No parking spaces found.",
		Fields: []resource.FieldSpec{
			{Name: "code", Label: "Code", Type: resource.FieldText, Required: true},
			{Name: "street_id", Label: "Street", Type: resource.FieldSelect, Required: true, Lookup: lookup.Streets},
			{Name: "latitude", Label: "Latitude", Type: resource.FieldNumber, Step: "0.000001"},
			{Name: "longitude", Label: "Longitude", Type: resource.FieldNumber, Step: "0.000001"},
			{Name: "state", Label: "State", Type: resource.FieldSelect, Required: true, Options: states},
			{Name: "disabled", Label: "Accessible bay", Type: resource.FieldCheckbox},
			{Name: "is_active", Label: "Active", Type: resource.FieldCheckbox},
		},
		Lookups: map[string]lookup.Loader{lookup.Streets: street.Options(db)},
		Apply: func(_ context.Context, f *Form, s *domain.ParkingSpace) error {
			s.Code = f.Code
			s.StreetID = f.StreetID
			s.Street = nil
			s.Latitude = f.Latitude
			s.Longitude = f.Longitude
			s.State = f.State
			s.Disabled = f.Disabled
			s.IsActive = f.IsActive
			return nil
		},
		Form: func(s *domain.ParkingSpace) Form {
			return Form{
				Code:      s.Code,
				StreetID:  s.StreetID,
				Latitude:  s.Latitude,
				Longitude: s.Longitude,
				State:     s.State,
				Disabled:  s.Disabled,
				IsActive:  s.IsActive,
			}
		},
		Defaults:     func() Form { return Form{State: domain.SpaceAvailable, IsActive: true} },
		ListTemplate: listTemplate,
	}
}

func streetExists(ctx context.Context, db *gorm.DB, id uint) error {
	var n int64
	if err := db.WithContext(ctx).Model(&domain.Street{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return domain.NewAppError(domain.CodeInternal, "database error", err)
	}
	if n == 0 {
		return domain.NewFieldError("street_id", "Select an existing street.")
	}
	return nil
}
