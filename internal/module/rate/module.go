// Package rate holds the four tariff resources: parking, fine, towing and
// wheel-clamp rates. Money is stored in currency units rounded to cents.
package rate

import (
	"context"
	"math"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/parkadmin/internal/domain"
	"github.com/simp-lee/parkadmin/internal/lookup"
	"github.com/simp-lee/parkadmin/internal/module/category"
	"github.com/simp-lee/parkadmin/internal/module/zone"
	"github.com/simp-lee/parkadmin/internal/resource"
)

// Modules groups the tariff resources.
type Modules struct {
	Parking  *resource.Module[domain.ParkingRate, ParkingForm]
	Fine     *resource.Module[domain.FineRate, FineForm]
	Towing   *resource.Module[domain.TowingRate, TowingForm]
	Clamping *resource.Module[domain.ClampingRate, ClampingForm]
}

// New wires every tariff resource over db.
func New(db *gorm.DB, deps resource.Deps) *Modules {
	categories := map[string]lookup.Loader{lookup.VehicleCategories: category.Options(db)}
	return &Modules{
		Parking:  newParking(db, deps),
		Fine:     newFine(db, deps),
		Towing:   newTowing(db, deps, categories),
		Clamping: newClamping(db, deps, categories),
	}
}

// RegisterRoutes registers the routes of every tariff resource.
func (m *Modules) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	m.Parking.RegisterRoutes(api, pages)
	m.Fine.RegisterRoutes(api, pages)
	m.Towing.RegisterRoutes(api, pages)
	m.Clamping.RegisterRoutes(api, pages)
}

var (
	zoneField     = resource.FieldSpec{Name: "zone_id", Label: "Zone", Type: resource.FieldSelect, Required: true, Lookup: lookup.Zones}
	categoryField = resource.FieldSpec{Name: "vehicle_category_id", Label: "Vehicle category", Type: resource.FieldSelect, Required: true, Lookup: lookup.VehicleCategories}
	activeField   = resource.FieldSpec{Name: "is_active", Label: "Active", Type: resource.FieldCheckbox}
)

func money(name, label string) resource.FieldSpec {
	return resource.FieldSpec{Name: name, Label: label, Type: resource.FieldNumber, Step: "0.01"}
}

func newParking(db *gorm.DB, deps resource.Deps) *resource.Module[domain.ParkingRate, ParkingForm] {
	repo := resource.NewRepository[domain.ParkingRate](db, resource.Query{
		SortFields:   []string{"id", "zone_id", "vehicle_category_id", "hourly_rate", "daily_max", "is_active"},
		FilterFields: []string{"zone_id", "vehicle_category_id", "is_active"},
		Preloads:     []string{"Zone", "VehicleCategory"},
	})
	svc := resource.NewService("parking rate", repo, resource.Hooks[domain.ParkingRate]{
		Normalize: func(r *domain.ParkingRate) {
			r.HourlyRate = cents(r.HourlyRate)
			r.DailyMax = cents(r.DailyMax)
		},
		Validate: func(ctx context.Context, r *domain.ParkingRate) error {
			if r.DailyMax != 0 && r.DailyMax < r.HourlyRate {
				return domain.NewFieldError("daily_max", "Daily max cannot be below the hourly rate.")
			}
			if err := referenced(ctx, db, &domain.Zone{}, r.ZoneID, "zone_id", "Select an existing zone."); err != nil {
				return err
			}
			if err := referenced(ctx, db, &domain.VehicleCategory{}, r.VehicleCategoryID, "vehicle_category_id", "Select an existing category."); err != nil {
				return err
			}
			return unique(ctx, db, &domain.ParkingRate{}, r.ID, "vehicle_category_id",
				"A rate for this zone and category already exists.",
				"zone_id = ? AND vehicle_category_id = ?", r.ZoneID, r.VehicleCategoryID)
		},
	})

	def := &resource.Definition[domain.ParkingRate, ParkingForm]{
		Name:         "parking-rates",
		Noun:         "parking rate",
		Title:        "Parking rates",
		Columns:      ParkingColumns,
		Toggle:       true,
		EmptyMessage: "No parking rates found.",
		Fields:       []resource.FieldSpec{zoneField, categoryField, money("hourly_rate", "Hourly rate"), money("daily_max", "Daily max"), activeField},
		Lookups: map[string]lookup.Loader{
			lookup.Zones:             zone.Options(db),
			lookup.VehicleCategories: category.Options(db),
		},
		Apply: func(_ context.Context, f *ParkingForm, r *domain.ParkingRate) error {
			r.ZoneID, r.Zone = f.ZoneID, nil
			r.VehicleCategoryID, r.VehicleCategory = f.VehicleCategoryID, nil
			r.HourlyRate = f.HourlyRate
			r.DailyMax = f.DailyMax
			r.IsActive = f.IsActive
			return nil
		},
		Form: func(r *domain.ParkingRate) ParkingForm {
			return ParkingForm{ZoneID: r.ZoneID, VehicleCategoryID: r.VehicleCategoryID, HourlyRate: r.HourlyRate, DailyMax: r.DailyMax, IsActive: r.IsActive}
		},
		Defaults: func() ParkingForm { return ParkingForm{IsActive: true} },
	}
	return resource.NewModule(def, svc, deps)
}

func newFine(db *gorm.DB, deps resource.Deps) *resource.Module[domain.FineRate, FineForm] {
	repo := resource.NewRepository[domain.FineRate](db, resource.Query{
		SortFields:   []string{"id", "name", "amount", "is_active"},
		FilterFields: []string{"name__like", "is_active"},
		OrderBy:      "name",
	})
	svc := resource.NewService("fine rate", repo, resource.Hooks[domain.FineRate]{
		Normalize: func(r *domain.FineRate) {
			r.Name = strings.TrimSpace(r.Name)
			r.Description = strings.TrimSpace(r.Description)
			r.Amount = cents(r.Amount)
		},
	})

	def := &resource.Definition[domain.FineRate, FineForm]{
		Name:         "fine-rates",
		Noun:         "fine",
		Title:        "Fines",
		Columns:      FineColumns,
		SearchKey:    "name",
		Toggle:       true,
		EmptyMessage: "No fines found.",
		Fields: []resource.FieldSpec{
			{Name: "name", Label: "Violation", Type: resource.FieldText, Required: true},
			{Name: "description", Label: "Description", Type: resource.FieldTextarea},
			money("amount", "Amount"),
			activeField,
		},
		Apply: func(_ context.Context, f *FineForm, r *domain.FineRate) error {
			r.Name = f.Name
			r.Description = f.Description
			r.Amount = f.Amount
			r.IsActive = f.IsActive
			return nil
		},
		Form: func(r *domain.FineRate) FineForm {
			return FineForm{Name: r.Name, Description: r.Description, Amount: r.Amount, IsActive: r.IsActive}
		},
		Defaults: func() FineForm { return FineForm{IsActive: true} },
	}
	return resource.NewModule(def, svc, deps)
}

func newTowing(db *gorm.DB, deps resource.Deps, lookups map[string]lookup.Loader) *resource.Module[domain.TowingRate, TowingForm] {
	repo := resource.NewRepository[domain.TowingRate](db, resource.Query{
		SortFields:   []string{"id", "vehicle_category_id", "base_fee", "per_km_fee", "storage_daily_fee", "is_active"},
		FilterFields: []string{"vehicle_category_id", "is_active"},
		Preloads:     []string{"VehicleCategory"},
	})
	svc := resource.NewService("towing rate", repo, resource.Hooks[domain.TowingRate]{
		Normalize: func(r *domain.TowingRate) {
			r.BaseFee = cents(r.BaseFee)
			r.PerKmFee = cents(r.PerKmFee)
			r.StorageDailyFee = cents(r.StorageDailyFee)
		},
		Validate: func(ctx context.Context, r *domain.TowingRate) error {
			if err := referenced(ctx, db, &domain.VehicleCategory{}, r.VehicleCategoryID, "vehicle_category_id", "Select an existing category."); err != nil {
				return err
			}
			return unique(ctx, db, &domain.TowingRate{}, r.ID, "vehicle_category_id",
				"A towing rate for this category already exists.", "vehicle_category_id = ?", r.VehicleCategoryID)
		},
	})

	def := &resource.Definition[domain.TowingRate, TowingForm]{
		Name:         "towing-rates",
		Noun:         "towing rate",
		Title:        "Towing rates",
		Columns:      TowingColumns,
		Toggle:       true,
		EmptyMessage: "No towing rates found.",
		Fields: []resource.FieldSpec{
			categoryField,
			money("base_fee", "Base fee"),
			money("per_km_fee", "Per km"),
			money("storage_daily_fee", "Storage per day"),
			activeField,
		},
		Lookups: lookups,
		Apply: func(_ context.Context, f *TowingForm, r *domain.TowingRate) error {
			r.VehicleCategoryID, r.VehicleCategory = f.VehicleCategoryID, nil
			r.BaseFee = f.BaseFee
			r.PerKmFee = f.PerKmFee
			r.StorageDailyFee = f.StorageDailyFee
			r.IsActive = f.IsActive
			return nil
		},
		Form: func(r *domain.TowingRate) TowingForm {
			return TowingForm{VehicleCategoryID: r.VehicleCategoryID, BaseFee: r.BaseFee, PerKmFee: r.PerKmFee, StorageDailyFee: r.StorageDailyFee, IsActive: r.IsActive}
		},
		Defaults: func() TowingForm { return TowingForm{IsActive: true} },
	}
	return resource.NewModule(def, svc, deps)
}

func newClamping(db *gorm.DB, deps resource.Deps, lookups map[string]lookup.Loader) *resource.Module[domain.ClampingRate, ClampingForm] {
	repo := resource.NewRepository[domain.ClampingRate](db, resource.Query{
		SortFields:   []string{"id", "vehicle_category_id", "clamp_fee", "release_fee", "is_active"},
		FilterFields: []string{"vehicle_category_id", "is_active"},
		Preloads:     []string{"VehicleCategory"},
	})
	svc := resource.NewService("clamping rate", repo, resource.Hooks[domain.ClampingRate]{
		Normalize: func(r *domain.ClampingRate) {
			r.ClampFee = cents(r.ClampFee)
			r.ReleaseFee = cents(r.ReleaseFee)
		},
		Validate: func(ctx context.Context, r *domain.ClampingRate) error {
			if err := referenced(ctx, db, &domain.VehicleCategory{}, r.VehicleCategoryID, "vehicle_category_id", "Select an existing category."); err != nil {
				return err
			}
			return unique(ctx, db, &domain.ClampingRate{}, r.ID, "vehicle_category_id",
				"A clamping rate for this category already exists.", "vehicle_category_id = ?", r.VehicleCategoryID)
		},
	})

	def := &resource.Definition[domain.ClampingRate, ClampingForm]{
		Name:         "clamping-rates",
		Noun:         "clamping rate",
		Title:        "Clamping rates",
		Columns:      ClampingColumns,
		Toggle:       true,
		EmptyMessage: "No clamping rates found.",
		Fields: []resource.FieldSpec{
			categoryField,
			money("clamp_fee", "Clamp fee"),
			money("release_fee", "Release fee"),
			activeField,
		},
		Lookups: lookups,
		Apply: func(_ context.Context, f *ClampingForm, r *domain.ClampingRate) error {
			r.VehicleCategoryID, r.VehicleCategory = f.VehicleCategoryID, nil
			r.ClampFee = f.ClampFee
			r.ReleaseFee = f.ReleaseFee
			r.IsActive = f.IsActive
			return nil
		},
		Form: func(r *domain.ClampingRate) ClampingForm {
			return ClampingForm{VehicleCategoryID: r.VehicleCategoryID, ClampFee: r.ClampFee, ReleaseFee: r.ReleaseFee, IsActive: r.IsActive}
		},
		Defaults: func() ClampingForm { return ClampingForm{IsActive: true} },
	}
	return resource.NewModule(def, svc, deps)
}

// cents rounds an amount to two decimals.
func cents(v float64) float64 {
	return math.Round(v*100) / 100
}

func referenced(ctx context.Context, db *gorm.DB, model any, id uint, field, msg string) error {
	var n int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return domain.NewAppError(domain.CodeInternal, "database error", err)
	}
	if n == 0 {
		return domain.NewFieldError(field, msg)
	}
	return nil
}

// unique rejects a second row matching where, other than the row being
// edited.
func unique(ctx context.Context, db *gorm.DB, model any, self uint, field, msg, where string, args ...any) error {
	var n int64
	if err := db.WithContext(ctx).Model(model).Where(where, args...).Where("id <> ?", self).Count(&n).Error; err != nil {
		return domain.NewAppError(domain.CodeInternal, "database error", err)
	}
	if n > 0 {
		return domain.NewFieldError(field, msg)
	}
	return nil
}
