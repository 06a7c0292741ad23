package resource

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"github.com/simp-lee/parkadmin/internal/domain"
	"github.com/simp-lee/parkadmin/internal/pkg"
)

// Hooks customise a Service. Every hook is optional.
type Hooks[T any] struct {
	// Normalize runs before Validate on create and update.
	Normalize func(entity *T)
	// Validate enforces invariants the form binding cannot express.
	Validate func(ctx context.Context, entity *T) error
	// AfterWrite runs in the create/update transaction, after the row is
	// saved. It is where many-to-many associations are synced.
	AfterWrite func(ctx context.Context, tx *gorm.DB, entity *T) error
	// BeforeDelete runs in the delete transaction.
	BeforeDelete func(ctx context.Context, tx *gorm.DB, id uint) error
	// Changed runs after any successful write, e.g. to drop cached lookups.
	Changed func()
}

// Service implements the CRUD use cases for one entity type.
type Service[T any] struct {
	name  string
	repo  *Repository[T]
	hooks Hooks[T]
}

// NewService creates a service named name (used in logs) over repo.
func NewService[T any](name string, repo *Repository[T], hooks Hooks[T]) *Service[T] {
	return &Service[T]{name: name, repo: repo, hooks: hooks}
}

// Repository returns the underlying repository.
func (s *Service[T]) Repository() *Repository[T] { return s.repo }

// Create validates and persists entity.
func (s *Service[T]) Create(ctx context.Context, entity *T) error {
	if err := s.prepare(ctx, entity); err != nil {
		return err
	}
	err := pkg.WithTxContext(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.WithDB(tx).Create(ctx, entity); err != nil {
			return err
		}
		return s.afterWrite(ctx, tx, entity)
	})
	if err != nil {
		return err
	}
	s.changed("create", entity)
	return nil
}

// Get retrieves an entity by ID.
func (s *Service[T]) Get(ctx context.Context, id uint) (*T, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns one page of entities. Links are not filled in here.
func (s *Service[T]) List(ctx context.Context, req domain.PageRequest, scopes ...Scope) (*domain.Page[T], error) {
	items, total, err := s.repo.List(ctx, req, scopes...)
	if err != nil {
		return nil, err
	}
	return pkg.NewPage(items, total, req), nil
}

// All returns every entity.
func (s *Service[T]) All(ctx context.Context) ([]T, error) {
	return s.repo.All(ctx)
}

// Update loads the entity, lets apply change it, then validates and saves.
func (s *Service[T]) Update(ctx context.Context, id uint, apply func(entity *T) error) (*T, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(entity); err != nil {
		return nil, err
	}
	if err := s.prepare(ctx, entity); err != nil {
		return nil, err
	}

	err = pkg.WithTxContext(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.WithDB(tx).Update(ctx, entity); err != nil {
			return err
		}
		return s.afterWrite(ctx, tx, entity)
	})
	if err != nil {
		return nil, err
	}
	s.changed("update", entity)
	return entity, nil
}

// Delete removes an entity by ID.
func (s *Service[T]) Delete(ctx context.Context, id uint) error {
	err := pkg.WithTxContext(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if s.hooks.BeforeDelete != nil {
			if err := s.hooks.BeforeDelete(ctx, tx, id); err != nil {
				return err
			}
		}
		return s.repo.WithDB(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, s.name+" deleted", "id", id)
	if s.hooks.Changed != nil {
		s.hooks.Changed()
	}
	return nil
}

// Toggle flips the active flag of a toggle-able entity.
func (s *Service[T]) Toggle(ctx context.Context, id uint) (*T, error) {
	return s.Update(ctx, id, func(entity *T) error {
		t, ok := any(entity).(domain.Toggleable)
		if !ok {
			return domain.NewAppError(domain.CodeValidation, s.name+" has no status", nil)
		}
		t.SetActive(!t.Active())
		return nil
	})
}

func (s *Service[T]) prepare(ctx context.Context, entity *T) error {
	if s.hooks.Normalize != nil {
		s.hooks.Normalize(entity)
	}
	if s.hooks.Validate != nil {
		return s.hooks.Validate(ctx, entity)
	}
	return nil
}

func (s *Service[T]) afterWrite(ctx context.Context, tx *gorm.DB, entity *T) error {
	if s.hooks.AfterWrite == nil {
		return nil
	}
	return s.hooks.AfterWrite(ctx, tx, entity)
}

func (s *Service[T]) changed(op string, entity *T) {
	if e, ok := any(entity).(domain.Entity); ok {
		slog.Info(s.name+" "+op+"d", "id", e.RowID())
	}
	if s.hooks.Changed != nil {
		s.hooks.Changed()
	}
}
