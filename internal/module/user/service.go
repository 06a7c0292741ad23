package user

import (
	"context"
	"net/mail"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/simp-lee/parkadmin/internal/domain"
)

// apply copies a bound form onto u. A non-empty password is hashed; an empty
// one keeps the stored hash and is rejected for new users.
func apply(f *Form, u *domain.User) error {
	u.Name = f.Name
	u.Email = f.Email
	u.IsActive = f.IsActive
	u.Roles = roleStubs(f.RoleIDs)

	switch {
	case f.Password != "":
		hash, err := bcrypt.GenerateFromPassword([]byte(f.Password), bcrypt.DefaultCost)
		if err != nil {
			return domain.NewAppError(domain.CodeInternal, "failed to hash password", err)
		}
		u.PasswordHash = string(hash)
	case u.ID == 0:
		return domain.NewFieldError("password", "A password is required for new users.")
	}
	return nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(u *domain.User, password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func normalize(u *domain.User) {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
}

// validateNameEmail checks name length and email syntax for writes that did
// not pass through form binding.
func validateNameEmail(_ context.Context, u *domain.User) error {
	n := utf8.RuneCountInString(u.Name)
	if n < 2 || n > 100 {
		return domain.NewFieldError("name", "Name must be between 2 and 100 characters.")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return domain.NewFieldError("email", "Enter a valid email address.")
	}
	return nil
}

func roleStubs(ids []uint) []*domain.Role {
	out := make([]*domain.Role, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, &domain.Role{BaseModel: domain.BaseModel{ID: id}})
	}
	return out
}

// syncRoles replaces the user's roles with the ones it holds by id.
func syncRoles(ctx context.Context, tx *gorm.DB, u *domain.User) error {
	ids := make([]uint, 0, len(u.Roles))
	for _, r := range u.Roles {
		ids = append(ids, r.ID)
	}

	assoc := tx.WithContext(ctx).Model(u).Association("Roles")
	if len(ids) == 0 {
		if err := assoc.Clear(); err != nil {
			return domain.NewAppError(domain.CodeInternal, "database error", err)
		}
		u.Roles = nil
		return nil
	}

	var roles []*domain.Role
	if err := tx.WithContext(ctx).Where("id IN ?", ids).Order("name").Find(&roles).Error; err != nil {
		return domain.NewAppError(domain.CodeInternal, "database error", err)
	}
	if len(roles) != len(ids) {
		return domain.NewFieldError("role_ids", "Select existing roles only ("+strconv.Itoa(len(ids)-len(roles))+" unknown).")
	}
	if err := assoc.Replace(roles); err != nil {
		return domain.NewAppError(domain.CodeInternal, "database error", err)
	}
	u.Roles = roles
	return nil
}
