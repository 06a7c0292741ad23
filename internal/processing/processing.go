// Package processing tracks rows that have a mutation in flight so a second
// destructive request for the same row is inert until the first finishes.
package processing

import "sync"

// Set is a concurrency-safe set of row ids. The zero value is ready to use.
// Each resource owns its own Set, so ids never collide across resources.
type Set struct {
	mu  sync.Mutex
	ids map[uint]struct{}
}

// New returns an empty Set.
func New() *Set {
	return &Set{ids: make(map[uint]struct{})}
}

// TryBegin admits id if it is not already processing and reports whether the
// caller now owns it. A caller that got true must call Done.
func (s *Set) TryBegin(id uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ids == nil {
		s.ids = make(map[uint]struct{})
	}
	if _, busy := s.ids[id]; busy {
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Done releases id.
func (s *Set) Done(id uint) {
	s.mu.Lock()
	delete(s.ids, id)
	s.mu.Unlock()
}

// Has reports whether id is processing.
func (s *Set) Has(id uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of rows in flight.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}
