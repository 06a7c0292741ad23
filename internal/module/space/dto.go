package space

// Form is the parking space input.
type Form struct {
	Code      string  `json:"code" form:"code" binding:"required,min=1,max=30"`
	StreetID  uint    `json:"street_id" form:"street_id" binding:"required"`
	Latitude  float64 `json:"latitude" form:"latitude" binding:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" form:"longitude" binding:"gte=-180,lte=180"`
	State     string  `json:"state" form:"state" binding:"required,oneof=available occupied reserved maintenance"`
	Disabled  bool    `json:"disabled" form:"disabled"`
	IsActive  bool    `json:"is_active" form:"is_active"`
}
