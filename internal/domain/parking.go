package domain

// Zone is an administrative parking zone. Streets belong to a zone.
type Zone struct {
	BaseModel
	Status
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Code        string `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Description string `gorm:"size:500" json:"description"`
}

// Street is a street segment inside a zone. Path holds the traced polyline
// as canonical JSON ([{"lat":..,"lng":..}, ...]).
type Street struct {
	BaseModel
	Status
	Name   string `gorm:"size:150;not null" json:"name"`
	ZoneID uint   `gorm:"not null;index" json:"zone_id"`
	Zone   *Zone  `json:"zone,omitempty"`
	Path   string `gorm:"type:text" json:"path"`
}

// Parking space occupancy states.
const (
	SpaceAvailable   = "available"
	SpaceOccupied    = "occupied"
	SpaceReserved    = "reserved"
	SpaceMaintenance = "maintenance"
)

// SpaceStates lists every valid ParkingSpace.State in display order.
var SpaceStates = []string{SpaceAvailable, SpaceOccupied, SpaceReserved, SpaceMaintenance}

// ParkingSpace is a single marked bay placed on a street.
type ParkingSpace struct {
	BaseModel
	Status
	Code      string  `gorm:"size:30;uniqueIndex;not null" json:"code"`
	StreetID  uint    `gorm:"not null;index" json:"street_id"`
	Street    *Street `json:"street,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	State     string  `gorm:"size:20;not null;default:available" json:"state"`
	Disabled  bool    `gorm:"not null;default:false" json:"disabled"`
}
