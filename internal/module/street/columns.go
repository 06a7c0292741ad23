package street

import (
	"github.com/simp-lee/parkadmin/internal/datatable"
	"github.com/simp-lee/parkadmin/internal/domain"
	"github.com/simp-lee/parkadmin/internal/geo"
)

// Columns returns the street table columns.
func Columns(actions datatable.RowActions) []datatable.Column[domain.Street] {
	return []datatable.Column[domain.Street]{
		datatable.Text("name", "Name", func(s domain.Street) any { return s.Name }).Sortable(),
		datatable.RelationText[domain.Street]("zone.name", "Zone").Sortable(),
		datatable.Text("points", "Points", func(s domain.Street) any { return pointCount(s.Path) }).Sortable(),
		datatable.StatusBadge("is_active", "Status", func(s domain.Street) bool { return s.IsActive }),
		datatable.CRUDActions[domain.Street](actions),
	}
}

func pointCount(path string) int {
	points, err := geo.ParsePath(path)
	if err != nil {
		return 0
	}
	return len(points)
}
