// Package permission is the permission catalogue. Permissions are granted
// to roles; they are displayed and edited but never enforced.
package permission

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/simp-lee/parkadmin/internal/datatable"
	"github.com/simp-lee/parkadmin/internal/domain"
	"github.com/simp-lee/parkadmin/internal/lookup"
	"github.com/simp-lee/parkadmin/internal/resource"
)

// Form is the permission input.
type Form struct {
	Name        string `json:"name" form:"name" binding:"required,min=2,max=100"`
	Resource    string `json:"resource" form:"resource" binding:"required,max=100"`
	Action      string `json:"action" form:"action" binding:"required,oneof=view create update delete manage"`
	Description string `json:"description" form:"description" binding:"max=255"`
}

// Actions a permission may grant.
var Actions = []string{"view", "create", "update", "delete", "manage"}

// Module is the wired permission resource.
type Module = resource.Module[domain.Permission, Form]

// Columns returns the permission table columns.
func Columns(actions datatable.RowActions) []datatable.Column[domain.Permission] {
	return []datatable.Column[domain.Permission]{
		datatable.Text("name", "Name", func(p domain.Permission) any { return p.Name }).Sortable(),
		datatable.Text("resource", "Resource", func(p domain.Permission) any { return p.Resource }).Sortable(),
		datatable.Text("action", "Action", func(p domain.Permission) any { return p.Action }).Sortable(),
		datatable.Text("description", "Description", func(p domain.Permission) any { return p.Description }),
		datatable.CRUDActions[domain.Permission](actions),
	}
}

// New wires the permission resource over db.
func New(db *gorm.DB, deps resource.Deps) *Module {
	svc := resource.NewService("permission", Repository(db), resource.Hooks[domain.Permission]{
		Normalize: func(p *domain.Permission) {
			p.Resource = strings.ToLower(strings.TrimSpace(p.Resource))
			p.Action = strings.ToLower(strings.TrimSpace(p.Action))
			p.Name = strings.TrimSpace(p.Name)
			if p.Name == "" {
				p.Name = p.Resource + "." + p.Action
			}
		},
		BeforeDelete: func(ctx context.Context, tx *gorm.DB, id uint) error {
			if err := tx.WithContext(ctx).Exec("DELETE FROM role_permissions WHERE permission_id = ?", id).Error; err != nil {
				return domain.NewAppError(domain.CodeInternal, "database error", err)
			}
			return nil
		},
		Changed: resource.Invalidator(deps.Lookups, lookup.Permissions),
	})
	return resource.NewModule(Definition(), svc, deps)
}

// Repository returns the permission repository.
func Repository(db *gorm.DB) *resource.Repository[domain.Permission] {
	return resource.NewRepository[domain.Permission](db, resource.Query{
		SortFields:   []string{"id", "name", "resource", "action"},
		FilterFields: []string{"resource", "action"},
		OrderBy:      "resource, action",
	})
}

// Options lists permissions for select inputs.
func Options(db *gorm.DB) lookup.Loader {
	return resource.Options(Repository(db), func(p domain.Permission) string { return p.Name })
}

// Definition describes the permission screens.
func Definition() *resource.Definition[domain.Permission, Form] {
	actions := make([]lookup.Option, 0, len(Actions))
	for _, a := range Actions {
		actions = append(actions, lookup.Option{Value: a, Label: a})
	}
	return &resource.Definition[domain.Permission, Form]{
		Name:         "permissions",
		Noun:         "permission",
		Title:        "Permissions",
		Columns:      Columns,
		SearchKey:    "name",
		EmptyMessage: "No permissions found.",
		Fields: []resource.FieldSpec{
			{Name: "name", Label: "Name", Type: resource.FieldText, Required: true, Help: "Conventionally resource.action, e.g. zones.update."},
			{Name: "resource", Label: "Resource", Type: resource.FieldText, Required: true},
			{Name: "action", Label: "Action", Type: resource.FieldSelect, Required: true, Options: actions},
			{Name: "description", Label: "Description", Type: resource.FieldText},
		},
		Apply: func(_ context.Context, f *Form, p *domain.Permission) error {
			p.Name = f.Name
			p.Resource = f.Resource
			p.Action = f.Action
			p.Description = f.Description
			return nil
		},
		Form: func(p *domain.Permission) Form {
			return Form{Name: p.Name, Resource: p.Resource, Action: p.Action, Description: p.Description}
		},
		Defaults: func() Form { return Form{Action: "view"} },
	}
}
