package domain

import "time"

// BaseModel is the common base struct for all domain models.
// It replaces gorm.Model to avoid the implicit soft delete behavior of DeletedAt.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RowID returns the primary key. Every entity embeds BaseModel, so this is
// how tables, processing sets and route builders identify a row.
func (m BaseModel) RowID() uint {
	return m.ID
}

// Entity is implemented by every persisted model.
type Entity interface {
	RowID() uint
}

// Toggleable is implemented by entities that carry an active/inactive status.
type Toggleable interface {
	Entity
	Active() bool
	SetActive(active bool)
}

// Status is the embeddable active flag shared by toggle-able entities. It
// carries no column default: GORM would replace an explicit false on insert.
type Status struct {
	IsActive bool `gorm:"not null" json:"is_active"`
}

// Active reports whether the entity is active.
func (s Status) Active() bool { return s.IsActive }

// SetActive sets the active flag.
func (s *Status) SetActive(active bool) { s.IsActive = active }

// Label returns the human label used by status badges and filters.
func (s Status) Label() string {
	if s.IsActive {
		return StatusActive
	}
	return StatusInactive
}

// Human status labels. Status filters translate these to the boolean column.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// PageRequest holds pagination, sorting, and filtering parameters.
type PageRequest struct {
	Page     int
	PageSize int
	Sort     string
	Filter   map[string]string
}
