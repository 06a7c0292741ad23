package domain

// ParkingRate is the hourly tariff for a vehicle category inside a zone.
type ParkingRate struct {
	BaseModel
	Status
	ZoneID            uint             `gorm:"not null;index" json:"zone_id"`
	Zone              *Zone            `json:"zone,omitempty"`
	VehicleCategoryID uint             `gorm:"not null;index" json:"vehicle_category_id"`
	VehicleCategory   *VehicleCategory `json:"vehicle_category,omitempty"`
	HourlyRate        float64          `gorm:"not null" json:"hourly_rate"`
	DailyMax          float64          `json:"daily_max"`
}

// FineRate is the amount charged for a parking violation.
type FineRate struct {
	BaseModel
	Status
	Name        string  `gorm:"size:150;uniqueIndex;not null" json:"name"`
	Description string  `gorm:"size:500" json:"description"`
	Amount      float64 `gorm:"not null" json:"amount"`
}

// TowingRate is the towing tariff for a vehicle category.
type TowingRate struct {
	BaseModel
	Status
	VehicleCategoryID uint             `gorm:"not null;index" json:"vehicle_category_id"`
	VehicleCategory   *VehicleCategory `json:"vehicle_category,omitempty"`
	BaseFee           float64          `gorm:"not null" json:"base_fee"`
	PerKmFee          float64          `json:"per_km_fee"`
	StorageDailyFee   float64          `json:"storage_daily_fee"`
}

// ClampingRate is the wheel-clamp tariff for a vehicle category.
type ClampingRate struct {
	BaseModel
	Status
	VehicleCategoryID uint             `gorm:"not null;index" json:"vehicle_category_id"`
	VehicleCategory   *VehicleCategory `json:"vehicle_category,omitempty"`
	ClampFee          float64          `gorm:"not null" json:"clamp_fee"`
	ReleaseFee        float64          `json:"release_fee"`
}
