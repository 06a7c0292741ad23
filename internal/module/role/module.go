// Package role is the role resource. Saving a role replaces its granted
// permissions in the same transaction.
package role

import (
	"context"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/simp-lee/parkadmin/internal/datatable"
	"github.com/simp-lee/parkadmin/internal/domain"
	"github.com/simp-lee/parkadmin/internal/lookup"
	"github.com/simp-lee/parkadmin/internal/module/permission"
	"github.com/simp-lee/parkadmin/internal/resource"
)

// Form is the role input.
type Form struct {
	Name          string `json:"name" form:"name" binding:"required,min=2,max=100"`
	Description   string `json:"description" form:"description" binding:"max=255"`
	PermissionIDs []uint `json:"permission_ids" form:"permission_ids"`
}

// Module is the wired role resource.
type Module = resource.Module[domain.Role, Form]

// Columns returns the role table columns.
func Columns(actions datatable.RowActions) []datatable.Column[domain.Role] {
	return []datatable.Column[domain.Role]{
		datatable.Text("name", "Name", func(r domain.Role) any { return r.Name }).Sortable(),
		datatable.Text("description", "Description", func(r domain.Role) any { return r.Description }),
		datatable.Text("permissions", "Permissions", func(r domain.Role) any { return len(r.Permissions) }).Sortable(),
		datatable.CRUDActions[domain.Role](actions),
	}
}

// New wires the role resource over db.
func New(db *gorm.DB, deps resource.Deps) *Module {
	svc := resource.NewService("role", Repository(db), resource.Hooks[domain.Role]{
		Normalize: func(r *domain.Role) {
			r.Name = strings.TrimSpace(r.Name)
			r.Description = strings.TrimSpace(r.Description)
		},
		AfterWrite: syncPermissions,
		BeforeDelete: func(ctx context.Context, tx *gorm.DB, id uint) error {
			role := &domain.Role{BaseModel: domain.BaseModel{ID: id}}
			if err := tx.WithContext(ctx).Model(role).Association("Permissions").Clear(); err != nil {
				return domain.NewAppError(domain.CodeInternal, "database error", err)
			}
			if err := tx.WithContext(ctx).Exec("DELETE FROM user_roles WHERE role_id = ?", id).Error; err != nil {
				return domain.NewAppError(domain.CodeInternal, "database error", err)
			}
			return nil
		},
		Changed: resource.Invalidator(deps.Lookups, lookup.Roles),
	})
	return resource.NewModule(Definition(db), svc, deps)
}

// Repository returns the role repository.
func Repository(db *gorm.DB) *resource.Repository[domain.Role] {
	return resource.NewRepository[domain.Role](db, resource.Query{
		SortFields:   []string{"id", "name", "created_at"},
		FilterFields: []string{"name__like"},
		Preloads:     []string{"Permissions"},
		OrderBy:      "name",
	})
}

// Options lists roles for select inputs.
func Options(db *gorm.DB) lookup.Loader {
	return resource.Options(resource.NewRepository[domain.Role](db, resource.Query{OrderBy: "name"}),
		func(r domain.Role) string { return r.Name })
}

// Definition describes the role screens.
func Definition(db *gorm.DB) *resource.Definition[domain.Role, Form] {
	return &resource.Definition[domain.Role, Form]{
		Name:         "roles",
		Noun:         "role",
		Title:        "Roles",
		Columns:      Columns,
		SearchKey:    "name",
		EmptyMessage: "No roles found.",
		Fields: []resource.FieldSpec{
			{Name: "name", Label: "Name", Type: resource.FieldText, Required: true},
			{Name: "description", Label: "Description", Type: resource.FieldText},
			{Name: "permission_ids", Label: "Permissions", Type: resource.FieldMultiSelect, Lookup: lookup.Permissions},
		},
		Lookups: map[string]lookup.Loader{lookup.Permissions: permission.Options(db)},
		Apply: func(_ context.Context, f *Form, r *domain.Role) error {
			r.Name = f.Name
			r.Description = f.Description
			r.Permissions = stubs(f.PermissionIDs)
			return nil
		},
		Form: func(r *domain.Role) Form {
			f := Form{Name: r.Name, Description: r.Description}
			for _, p := range r.Permissions {
				f.PermissionIDs = append(f.PermissionIDs, p.ID)
			}
			return f
		},
	}
}

func stubs(ids []uint) []*domain.Permission {
	out := make([]*domain.Permission, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, &domain.Permission{BaseModel: domain.BaseModel{ID: id}})
	}
	return out
}

// syncPermissions replaces the role's grants with the permissions it holds
// by id. Unknown ids fail the whole write.
func syncPermissions(ctx context.Context, tx *gorm.DB, r *domain.Role) error {
	ids := make([]uint, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		ids = append(ids, p.ID)
	}

	assoc := tx.WithContext(ctx).Model(r).Association("Permissions")
	if len(ids) == 0 {
		if err := assoc.Clear(); err != nil {
			return domain.NewAppError(domain.CodeInternal, "database error", err)
		}
		r.Permissions = nil
		return nil
	}

	var perms []*domain.Permission
	if err := tx.WithContext(ctx).Where("id IN ?", ids).Order("resource, action").Find(&perms).Error; err != nil {
		return domain.NewAppError(domain.CodeInternal, "database error", err)
	}
	if len(perms) != len(ids) {
		return domain.NewFieldError("permission_ids", "Select existing permissions only ("+strconv.Itoa(len(ids)-len(perms))+" unknown).")
	}
	if err := assoc.Replace(perms); err != nil {
		return domain.NewAppError(domain.CodeInternal, "database error", err)
	}
	r.Permissions = perms
	return nil
}
