package resource

import (
	"context"

	"github.com/simp-lee/parkadmin/internal/datatable"
	"github.com/simp-lee/parkadmin/internal/lookup"
)

// Options returns a Loader listing every entity of repo as a select option,
// valued by id and labelled by label.
func Options[T datatable.Row](repo *Repository[T], label func(T) string) lookup.Loader {
	return func(ctx context.Context) ([]lookup.Option, error) {
		items, err := repo.All(ctx)
		if err != nil {
			return nil, err
		}
		opts := make([]lookup.Option, 0, len(items))
		for _, item := range items {
			opts = append(opts, lookup.Option{Value: formatID(item.RowID()), Label: label(item)})
		}
		return opts, nil
	}
}

// Invalidator returns a Changed hook dropping keys from lists.
func Invalidator(lists *lookup.Cache, keys ...string) func() {
	return func() { lists.Invalidate(keys...) }
}
