package resource

import (
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/simp-lee/parkadmin/internal/datatable"
	"github.com/simp-lee/parkadmin/internal/domain"
	"github.com/simp-lee/parkadmin/internal/pkg"
)

// listScopes pushes the table's search and status filters down to the
// database so totals and links describe the filtered collection. The table
// engine applies the same filters again to the page it receives, which is a
// no-op on already filtered rows.
func (d *Definition[T, F]) listScopes(state datatable.State) []Scope {
	var scopes []Scope
	if d.SearchKey != "" && state.Search != "" {
		column, pattern := d.SearchKey, pkg.ContainsPattern(state.Search)
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("LOWER("+column+") LIKE ? ESCAPE '\\'", pattern)
		})
	}
	if d.Toggle {
		if active, ok := parseStatus(state.Status); ok {
			scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
				return db.Where("is_active = ?", active)
			})
		}
	}
	return scopes
}

// parseStatus maps a status filter value to the active flag. Empty and "all"
// mean no filter.
func parseStatus(v string) (active bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case strings.ToLower(domain.StatusActive), "true", "1":
		return true, true
	case strings.ToLower(domain.StatusInactive), "false", "0":
		return false, true
	default:
		return false, false
	}
}

// parseID extracts and validates the "id" URL parameter.
func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id: %s", raw)
	}
	if id > uint64(^uint(0)) {
		return 0, fmt.Errorf("invalid id: %s", raw)
	}
	return uint(id), nil
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
