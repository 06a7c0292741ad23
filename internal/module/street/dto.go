package street

// Form is the street input. Path is the JSON polyline traced on the map.
type Form struct {
	Name     string `json:"name" form:"name" binding:"required,min=2,max=150"`
	ZoneID   uint   `json:"zone_id" form:"zone_id" binding:"required"`
	Path     string `json:"path" form:"path"`
	IsActive bool   `json:"is_active" form:"is_active"`
}
