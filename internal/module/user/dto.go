package user

// Form is the user input. Password is required when creating a user and
// optional on update, where an empty value keeps the current password.
type Form struct {
	Name     string `json:"name" form:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"omitempty,min=8,max=72"`
	RoleIDs  []uint `json:"role_ids" form:"role_ids"`
	IsActive bool   `json:"is_active" form:"is_active"`
}
