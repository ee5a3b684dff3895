package catalog

import "sync/atomic"

// Store holds the current catalog. Readers take a snapshot with Current;
// Replace swaps in a whole new catalog and never mutates the old one.
type Store struct {
	current atomic.Pointer[Catalog]
}

// NewStore creates a store holding an empty catalog.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(Empty())
	return s
}

// Current returns the catalog in effect.
func (s *Store) Current() *Catalog {
	return s.current.Load()
}

// Replace atomically installs c as the current catalog and returns the previous one.
// A nil catalog is stored as empty.
func (s *Store) Replace(c *Catalog) *Catalog {
	if c == nil {
		c = Empty()
	}
	return s.current.Swap(c)
}
