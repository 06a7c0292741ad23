package rate

// ParkingForm is the parking tariff input.
type ParkingForm struct {
	ZoneID            uint    `json:"zone_id" form:"zone_id" binding:"required"`
	VehicleCategoryID uint    `json:"vehicle_category_id" form:"vehicle_category_id" binding:"required"`
	HourlyRate        float64 `json:"hourly_rate" form:"hourly_rate" binding:"gte=0"`
	DailyMax          float64 `json:"daily_max" form:"daily_max" binding:"gte=0"`
	IsActive          bool    `json:"is_active" form:"is_active"`
}

// FineForm is the violation fine input.
type FineForm struct {
	Name        string  `json:"name" form:"name" binding:"required,min=2,max=150"`
	Description string  `json:"description" form:"description" binding:"max=500"`
	Amount      float64 `json:"amount" form:"amount" binding:"gt=0"`
	IsActive    bool    `json:"is_active" form:"is_active"`
}

// TowingForm is the towing tariff input.
type TowingForm struct {
	VehicleCategoryID uint    `json:"vehicle_category_id" form:"vehicle_category_id" binding:"required"`
	BaseFee           float64 `json:"base_fee" form:"base_fee" binding:"gte=0"`
	PerKmFee          float64 `json:"per_km_fee" form:"per_km_fee" binding:"gte=0"`
	StorageDailyFee   float64 `json:"storage_daily_fee" form:"storage_daily_fee" binding:"gte=0"`
	IsActive          bool    `json:"is_active" form:"is_active"`
}

// ClampingForm is the wheel-clamp tariff input.
type ClampingForm struct {
	VehicleCategoryID uint    `json:"vehicle_category_id" form:"vehicle_category_id" binding:"required"`
	ClampFee          float64 `json:"clamp_fee" form:"clamp_fee" binding:"gte=0"`
	ReleaseFee        float64 `json:"release_fee" form:"release_fee" binding:"gte=0"`
	IsActive          bool    `json:"is_active" form:"is_active"`
}
