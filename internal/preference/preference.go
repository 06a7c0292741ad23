// Package preference persists small per-browser UI choices (list view mode,
// sidebar state) behind an injected key-value store.
package preference

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Store reads and writes string preferences.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// Fixed storage keys.
const (
	KeySpacesViewMode = "parking_spaces_view_mode"
	KeySidebarOpen    = "sidebar_open"
)

// ViewMode is how the parking-space list is displayed.
type ViewMode string

const (
	ViewTable ViewMode = "table"
	ViewMap   ViewMode = "map"
	ViewCards ViewMode = "cards"
)

// ViewModes lists the valid modes in menu order.
var ViewModes = []ViewMode{ViewTable, ViewMap, ViewCards}

// ParseViewMode returns the mode named by s, or false if s is not one.
func ParseViewMode(s string) (ViewMode, bool) {
	for _, m := range ViewModes {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// LoadViewMode restores the stored mode under key, defaulting to table when
// absent or invalid.
func LoadViewMode(s Store, key string) ViewMode {
	if raw, ok := s.Get(key); ok {
		if m, ok := ParseViewMode(raw); ok {
			return m
		}
	}
	return ViewTable
}

// SaveViewMode stores m under key. Invalid modes are ignored.
func SaveViewMode(s Store, key string, m ViewMode) {
	if _, ok := ParseViewMode(string(m)); ok {
		s.Set(key, string(m))
	}
}

// SidebarOpen restores the sidebar state, defaulting to open.
func SidebarOpen(s Store) bool {
	raw, ok := s.Get(KeySidebarOpen)
	if !ok {
		return true
	}
	open, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return open
}

// SetSidebarOpen stores the sidebar state.
func SetSidebarOpen(s Store, open bool) {
	s.Set(KeySidebarOpen, strconv.FormatBool(open))
}

// cookieMaxAge keeps preferences for a year.
const cookieMaxAge = int(365 * 24 * time.Hour / time.Second)

// writtenKeyPrefix namespaces values written during the request in the
// gin.Context, so every CookieStore bound to the same request sees them.
const writtenKeyPrefix = "preference."

// CookieStore keeps preferences in browser cookies for one request. Values
// set during the request win over the cookies the request arrived with.
type CookieStore struct {
	c      *gin.Context
	secure bool
}

// Cookies returns a Store bound to the request. Cookies are marked Secure in
// release mode.
func Cookies(c *gin.Context) *CookieStore {
	return &CookieStore{c: c, secure: gin.Mode() == gin.ReleaseMode}
}

// Get reads a preference, preferring a value set earlier in the request.
func (s *CookieStore) Get(key string) (string, bool) {
	if v, ok := s.c.Get(writtenKeyPrefix + key); ok {
		return v.(string), true
	}
	v, err := s.c.Cookie(key)
	if err != nil {
		return "", false
	}
	return v, true
}

// Set writes a preference cookie readable by the page scripts.
func (s *CookieStore) Set(key, value string) {
	s.c.Set(writtenKeyPrefix+key, value)
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(key, value, cookieMaxAge, "/", "", s.secure, false)
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}
