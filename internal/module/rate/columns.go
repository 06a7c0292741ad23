package rate

import (
	"github.com/simp-lee/parkadmin/internal/datatable"
	"github.com/simp-lee/parkadmin/internal/domain"
)

// ParkingColumns returns the parking tariff table columns.
func ParkingColumns(actions datatable.RowActions) []datatable.Column[domain.ParkingRate] {
	return []datatable.Column[domain.ParkingRate]{
		datatable.RelationText[domain.ParkingRate]("zone.name", "Zone").Sortable(),
		datatable.RelationText[domain.ParkingRate]("vehicle_category.name", "Category").Sortable(),
		datatable.Currency("hourly_rate", "Hourly rate", func(r domain.ParkingRate) float64 { return r.HourlyRate }).Sortable(),
		datatable.Currency("daily_max", "Daily max", func(r domain.ParkingRate) float64 { return r.DailyMax }).Sortable(),
		datatable.StatusBadge("is_active", "Status", func(r domain.ParkingRate) bool { return r.IsActive }),
		datatable.CRUDActions[domain.ParkingRate](actions),
	}
}

// FineColumns returns the fine table columns.
func FineColumns(actions datatable.RowActions) []datatable.Column[domain.FineRate] {
	return []datatable.Column[domain.FineRate]{
		datatable.Text("name", "Violation", func(r domain.FineRate) any { return r.Name }).Sortable(),
		datatable.Text("description", "Description", func(r domain.FineRate) any { return r.Description }),
		datatable.Currency("amount", "Amount", func(r domain.FineRate) float64 { return r.Amount }).Sortable(),
		datatable.StatusBadge("is_active", "Status", func(r domain.FineRate) bool { return r.IsActive }),
		datatable.CRUDActions[domain.FineRate](actions),
	}
}

// TowingColumns returns the towing tariff table columns.
func TowingColumns(actions datatable.RowActions) []datatable.Column[domain.TowingRate] {
	return []datatable.Column[domain.TowingRate]{
		datatable.RelationText[domain.TowingRate]("vehicle_category.name", "Category").Sortable(),
		datatable.Currency("base_fee", "Base fee", func(r domain.TowingRate) float64 { return r.BaseFee }).Sortable(),
		datatable.Currency("per_km_fee", "Per km", func(r domain.TowingRate) float64 { return r.PerKmFee }).Sortable(),
		datatable.Currency("storage_daily_fee", "Storage per day", func(r domain.TowingRate) float64 { return r.StorageDailyFee }).Sortable(),
		datatable.StatusBadge("is_active", "Status", func(r domain.TowingRate) bool { return r.IsActive }),
		datatable.CRUDActions[domain.TowingRate](actions),
	}
}

// ClampingColumns returns the wheel-clamp tariff table columns.
func ClampingColumns(actions datatable.RowActions) []datatable.Column[domain.ClampingRate] {
	return []datatable.Column[domain.ClampingRate]{
		datatable.RelationText[domain.ClampingRate]("vehicle_category.name", "Category").Sortable(),
		datatable.Currency("clamp_fee", "Clamp fee", func(r domain.ClampingRate) float64 { return r.ClampFee }).Sortable(),
		datatable.Currency("release_fee", "Release fee", func(r domain.ClampingRate) float64 { return r.ReleaseFee }).Sortable(),
		datatable.StatusBadge("is_active", "Status", func(r domain.ClampingRate) bool { return r.IsActive }),
		datatable.CRUDActions[domain.ClampingRate](actions),
	}
}
