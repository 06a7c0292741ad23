// Package user is the admin user resource. Passwords are stored as bcrypt
// hashes; roles are assigned but not enforced.
package user

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/simp-lee/parkadmin/internal/datatable"
	"github.com/simp-lee/parkadmin/internal/domain"
	"github.com/simp-lee/parkadmin/internal/lookup"
	"github.com/simp-lee/parkadmin/internal/module/role"
	"github.com/simp-lee/parkadmin/internal/resource"
)

// Module is the wired user resource.
type Module = resource.Module[domain.User, Form]

// Columns returns the user table columns.
func Columns(actions datatable.RowActions) []datatable.Column[domain.User] {
	return []datatable.Column[domain.User]{
		datatable.Text("name", "Name", func(u domain.User) any { return u.Name }).Sortable(),
		datatable.Text("email", "Email", func(u domain.User) any { return u.Email }).Sortable(),
		datatable.Text("roles", "Roles", func(u domain.User) any { return roleNames(u) }),
		datatable.StatusBadge("is_active", "Status", func(u domain.User) bool { return u.IsActive }).Sortable(),
		datatable.CRUDActions[domain.User](actions),
	}
}

func roleNames(u domain.User) string {
	if len(u.Roles) == 0 {
		return "N/A"
	}
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return strings.Join(names, ", ")
}

// New wires the user resource over db.
func New(db *gorm.DB, deps resource.Deps) *Module {
	svc := resource.NewService("user", Repository(db), resource.Hooks[domain.User]{
		Normalize:  normalize,
		Validate:   validateNameEmail,
		AfterWrite: syncRoles,
		BeforeDelete: func(ctx context.Context, tx *gorm.DB, id uint) error {
			u := &domain.User{BaseModel: domain.BaseModel{ID: id}}
			if err := tx.WithContext(ctx).Model(u).Association("Roles").Clear(); err != nil {
				return domain.NewAppError(domain.CodeInternal, "database error", err)
			}
			return nil
		},
	})
	return resource.NewModule(Definition(db), svc, deps)
}

// Repository returns the user repository.
func Repository(db *gorm.DB) *resource.Repository[domain.User] {
	return resource.NewRepository[domain.User](db, resource.Query{
		SortFields:   []string{"id", "name", "email", "is_active", "created_at", "updated_at"},
		FilterFields: []string{"name", "email", "name__like", "email__like", "is_active"},
		Preloads:     []string{"Roles"},
		OrderBy:      "name",
	})
}

// Definition describes the user screens.
func Definition(db *gorm.DB) *resource.Definition[domain.User, Form] {
	return &resource.Definition[domain.User, Form]{
		Name:         "users",
		Noun:         "user",
		Title:        "Users",
		Columns:      Columns,
		SearchKey:    "name",
		Toggle:       true,
		EmptyMessage: "No users found.",
		Fields: []resource.FieldSpec{
			{Name: "name", Label: "Name", Type: resource.FieldText, Required: true},
			{Name: "email", Label: "Email", Type: resource.FieldEmail, Required: true},
			{Name: "password", Label: "Password", Type: resource.FieldPassword, Help: "At least 8 characters. Leave empty to keep the current password."},
			{Name: "role_ids", Label: "Roles", Type: resource.FieldMultiSelect, Lookup: lookup.Roles},
			{Name: "is_active", Label: "Active", Type: resource.FieldCheckbox},
		},
		Lookups: map[string]lookup.Loader{lookup.Roles: role.Options(db)},
		Apply: func(_ context.Context, f *Form, u *domain.User) error {
			return apply(f, u)
		},
		Form: func(u *domain.User) Form {
			f := Form{Name: u.Name, Email: u.Email, IsActive: u.IsActive}
			for _, r := range u.Roles {
				f.RoleIDs = append(f.RoleIDs, r.ID)
			}
			return f
		},
		Defaults: func() Form { return Form{IsActive: true} },
	}
}
