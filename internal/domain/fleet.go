package domain

// VehicleCategory groups vehicles for rate lookup (car, motorcycle, truck...).
type VehicleCategory struct {
	BaseModel
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`
}

// Driver is a registered vehicle driver.
type Driver struct {
	BaseModel
	Status
	Name          string `gorm:"size:150;not null" json:"name"`
	LicenseNumber string `gorm:"size:50;uniqueIndex;not null" json:"license_number"`
	Phone         string `gorm:"size:30" json:"phone"`
	Email         string `gorm:"size:255" json:"email"`
}

// Vehicle is a registered vehicle, optionally linked to a driver.
type Vehicle struct {
	BaseModel
	Plate             string           `gorm:"size:20;uniqueIndex;not null" json:"plate"`
	Make              string           `gorm:"size:80" json:"make"`
	Model             string           `gorm:"size:80" json:"model"`
	Color             string           `gorm:"size:40" json:"color"`
	VehicleCategoryID uint             `gorm:"not null;index" json:"vehicle_category_id"`
	VehicleCategory   *VehicleCategory `json:"vehicle_category,omitempty"`
	DriverID          *uint            `gorm:"index" json:"driver_id"`
	Driver            *Driver          `json:"driver,omitempty"`
}
