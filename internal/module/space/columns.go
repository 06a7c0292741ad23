package space

import (
	"strings"

	"github.com/simp-lee/parkadmin/internal/datatable"
	"github.com/simp-lee/parkadmin/internal/domain"
)

// Columns returns the parking space table columns.
func Columns(actions datatable.RowActions) []datatable.Column[domain.ParkingSpace] {
	return []datatable.Column[domain.ParkingSpace]{
		datatable.Text("code", "Code", func(s domain.ParkingSpace) any { return s.Code }).Sortable(),
		datatable.RelationText[domain.ParkingSpace]("street.name", "Street").Sortable(),
		datatable.RelationText[domain.ParkingSpace]("street.zone.name", "Zone").Sortable(),
		datatable.BadgeOf("state", "State", func(s domain.ParkingSpace) any { return s.State }, StateBadge).Sortable(),
		datatable.Text("disabled", "Accessible", func(s domain.ParkingSpace) any {
			if s.Disabled {
				return "Yes"
			}
			return "No"
		}),
		datatable.StatusBadge("is_active", "Status", func(s domain.ParkingSpace) bool { return s.IsActive }),
		datatable.CRUDActions[domain.ParkingSpace](actions),
	}
}

// StateBadge colours a space by occupancy state.
func StateBadge(s domain.ParkingSpace) datatable.Badge {
	label := s.State
	if label != "" {
		label = strings.ToUpper(label[:1]) + label[1:]
	}
	switch s.State {
	case domain.SpaceAvailable:
		return datatable.Badge{Label: label, Variant: "success"}
	case domain.SpaceOccupied:
		return datatable.Badge{Label: label, Variant: "danger"}
	case domain.SpaceReserved:
		return datatable.Badge{Label: label, Variant: "info"}
	case domain.SpaceMaintenance:
		return datatable.Badge{Label: label, Variant: "warning"}
	default:
		return datatable.Badge{Label: "Unknown", Variant: "secondary"}
	}
}
