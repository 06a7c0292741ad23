package datatable

import (
	"fmt"
	"net/http"
	"strings"
)

// RowActions configures the standard edit / toggle / delete affordances of a
// resource table. Processing reports whether a mutation for the row is still
// in flight; while it does, toggle and delete render disabled.
type RowActions struct {
	BasePath   string
	Noun       string
	Toggle     bool
	Processing func(id uint) bool
}

// CRUDActions builds the trailing actions column for RowActions.
func CRUDActions[T Row](ra RowActions) Column[T] {
	base := strings.TrimRight(ra.BasePath, "/")
	noun := ra.Noun
	if noun == "" {
		noun = "record"
	}

	return Actions(func(row T) []Action {
		id := row.RowID()
		busy := ra.Processing != nil && ra.Processing(id)

		actions := []Action{{
			Label:   "Edit",
			Method:  http.MethodGet,
			URL:     fmt.Sprintf("%s/%d/edit", base, id),
			Variant: "secondary",
		}}

		if ra.Toggle {
			label := "Activate"
			if a, ok := any(row).(interface{ Active() bool }); ok && a.Active() {
				label = "Deactivate"
			}
			actions = append(actions, Action{
				Label:    label,
				Method:   http.MethodPatch,
				URL:      fmt.Sprintf("%s/%d/toggle", base, id),
				Variant:  "warning",
				Disabled: busy,
			})
		}

		return append(actions, Action{
			Label:    "Delete",
			Method:   http.MethodDelete,
			URL:      fmt.Sprintf("%s/%d", base, id),
			Confirm:  fmt.Sprintf("Delete this %s?", noun),
			Variant:  "danger",
			Disabled: busy,
		})
	})
}
