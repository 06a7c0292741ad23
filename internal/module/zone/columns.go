package zone

import (
	"github.com/simp-lee/parkadmin/internal/datatable"
	"github.com/simp-lee/parkadmin/internal/domain"
)

// Columns returns the zone table columns.
func Columns(actions datatable.RowActions) []datatable.Column[domain.Zone] {
	return []datatable.Column[domain.Zone]{
		datatable.Text("name", "Name", func(z domain.Zone) any { return z.Name }).Sortable(),
		datatable.Text("code", "Code", func(z domain.Zone) any { return z.Code }).Sortable(),
		datatable.Text("description", "Description", func(z domain.Zone) any { return z.Description }),
		datatable.StatusBadge("is_active", "Status", func(z domain.Zone) bool { return z.IsActive }).Sortable(),
		datatable.CRUDActions[domain.Zone](actions),
	}
}
