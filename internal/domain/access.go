package domain

// User is an administrator account. Roles are displayed and edited here but
// never enforced by this application.
type User struct {
	BaseModel
	Status
	Name         string  `gorm:"size:100;not null" json:"name"`
	Email        string  `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string  `gorm:"size:255" json:"-"`
	Roles        []*Role `gorm:"many2many:user_roles" json:"roles,omitempty"`
}

// Role is a named group of permissions.
type Role struct {
	BaseModel
	Name        string        `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string        `gorm:"size:255" json:"description"`
	Permissions []*Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
}

// Permission is a granular right in resource.action form (e.g. "zone.create").
type Permission struct {
	BaseModel
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Resource    string `gorm:"size:100;not null" json:"resource"`
	Action      string `gorm:"size:50;not null" json:"action"`
	Description string `gorm:"size:255" json:"description"`
}

// Models lists every persisted model, in migration order.
func Models() []any {
	return []any{
		&Zone{}, &Street{}, &ParkingSpace{},
		&VehicleCategory{}, &Driver{}, &Vehicle{},
		&ParkingRate{}, &FineRate{}, &TowingRate{}, &ClampingRate{},
		&Permission{}, &Role{}, &User{},
	}
}
