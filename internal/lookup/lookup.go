// Package lookup caches the reference lists that feed form selects (zones,
// streets, vehicle categories, drivers, roles, permissions).
package lookup

import (
	"context"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
)

// Reference list keys. A resource invalidates its own key on every write.
const (
	Zones             = "zones"
	Streets           = "streets"
	VehicleCategories = "vehicle_categories"
	Drivers           = "drivers"
	Roles             = "roles"
	Permissions       = "permissions"
)

// Option is one entry of a select input.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Loader fetches a reference list from its source of truth.
type Loader func(ctx context.Context) ([]Option, error)

// Cache memoises reference lists for a fixed TTL. Writes to the owning
// resource call Invalidate so edits show up immediately.
type Cache struct {
	store *cache.Cache
}

// New returns a cache whose entries expire after ttl. A non-positive ttl
// disables caching.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		return &Cache{}
	}
	return &Cache{store: cache.New(ttl, 2*ttl)}
}

// Options returns the list under key, calling load on a miss. Load errors are
// returned and never cached.
func (c *Cache) Options(ctx context.Context, key string, load Loader) ([]Option, error) {
	if c != nil && c.store != nil {
		if cached, found := c.store.Get(key); found {
			return cached.([]Option), nil
		}
	}

	opts, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if c != nil && c.store != nil {
		c.store.Set(key, opts, cache.DefaultExpiration)
	}
	return opts, nil
}

// Invalidate drops the given keys.
func (c *Cache) Invalidate(keys ...string) {
	if c == nil || c.store == nil {
		return
	}
	for _, k := range keys {
		c.store.Delete(k)
	}
	slog.Debug("lookup cache invalidated", "keys", keys)
}

// Len reports the number of cached lists.
func (c *Cache) Len() int {
	if c == nil || c.store == nil {
		return 0
	}
	return c.store.ItemCount()
}
