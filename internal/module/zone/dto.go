package zone

// Form is the zone input accepted by both the HTML form and the JSON API.
type Form struct {
	Name        string `json:"name" form:"name" binding:"required,min=2,max=100"`
	Code        string `json:"code" form:"code" binding:"required,min=2,max=20"`
	Description string `json:"description" form:"description" binding:"max=500"`
	IsActive    bool   `json:"is_active" form:"is_active"`
}
