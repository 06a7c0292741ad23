package resource

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/simp-lee/parkadmin/internal/domain"
	"github.com/simp-lee/parkadmin/internal/pkg"
)

// Scope is an extra GORM condition applied to List.
type Scope = func(*gorm.DB) *gorm.DB

// Query configures what a Repository is allowed to sort and filter by and
// which relations it loads with every read.
type Query struct {
	SortFields   []string
	FilterFields []string
	Preloads     []string
	// OrderBy orders All; defaults to "id".
	OrderBy string
}

// Repository is the GORM-backed store for one entity type.
type Repository[T any] struct {
	db *gorm.DB
	q  Query
}

// NewRepository creates a repository for T.
func NewRepository[T any](db *gorm.DB, q Query) *Repository[T] {
	if q.OrderBy == "" {
		q.OrderBy = "id"
	}
	return &Repository[T]{db: db, q: q}
}

// WithDB returns a copy bound to db, typically a transaction.
func (r *Repository[T]) WithDB(db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db, q: r.q}
}

// DB returns the underlying handle.
func (r *Repository[T]) DB() *gorm.DB { return r.db }

func (r *Repository[T]) preload(db *gorm.DB) *gorm.DB {
	for _, p := range r.q.Preloads {
		db = db.Preload(p)
	}
	return db
}

// Create inserts entity. Associations are written by service hooks, never
// implicitly.
func (r *Repository[T]) Create(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(entity).Error; err != nil {
		return mapError(err)
	}
	return nil
}

// GetByID loads one entity with its preloads.
func (r *Repository[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	var entity T
	if err := r.preload(r.db.WithContext(ctx)).First(&entity, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &entity, nil
}

// List returns one page of entities and the total matching count.
func (r *Repository[T]) List(ctx context.Context, req domain.PageRequest, scopes ...Scope) ([]T, int64, error) {
	var total int64
	base := r.db.WithContext(ctx).Model(new(T)).
		Scopes(pkg.Filter(req, r.q.FilterFields)).
		Scopes(scopes...)

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, mapError(err)
	}

	var items []T
	if err := r.preload(base).Scopes(
		pkg.Paginate(req),
		pkg.Sort(req, r.q.SortFields),
	).Find(&items).Error; err != nil {
		return nil, 0, mapError(err)
	}
	return items, total, nil
}

// All returns every entity, for reference lists.
func (r *Repository[T]) All(ctx context.Context) ([]T, error) {
	var items []T
	if err := r.preload(r.db.WithContext(ctx)).Order(r.q.OrderBy).Find(&items).Error; err != nil {
		return nil, mapError(err)
	}
	return items, nil
}

// Count returns the number of stored entities matching scopes.
func (r *Repository[T]) Count(ctx context.Context, scopes ...Scope) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(new(T)).Scopes(scopes...).Count(&n).Error; err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

// Update saves all columns of entity, leaving associations to hooks.
func (r *Repository[T]) Update(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(entity).Error; err != nil {
		return mapError(err)
	}
	return nil
}

// Delete removes an entity by ID.
func (r *Repository[T]) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// mapError converts GORM errors to domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateKeyError(err) {
		return domain.NewAppError(domain.CodeAlreadyExists, "already exists", err)
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) || isForeignKeyError(err) {
		return domain.NewAppError(domain.CodeInUse, domain.ErrInUse.Message, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return domain.NewAppError(domain.CodeInternal, "request cancelled", err)
	}
	return domain.NewAppError(domain.CodeInternal, "database error", err)
}

// isDuplicateKeyError detects unique constraint violations by examining the
// error message. This is needed because not all GORM dialectors translate
// driver-level errors to gorm.ErrDuplicatedKey (e.g. the pure-Go SQLite driver).
func isDuplicateKeyError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}

func isForeignKeyError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key constraint") ||
		strings.Contains(msg, "violates foreign key")
}
