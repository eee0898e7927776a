package dashboard

import (
	"sync"
	"time"

	"shipment-dashboard/internal/shipment"
)

// Session holds the most recently fetched shipment collection. Loads may
// overlap; whichever fetch resolves last replaces the collection, even when
// it was started first.
type Session struct {
	mu         sync.RWMutex
	collection shipment.Collection
	loadedAt   time.Time
	loaded     bool
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{}
}

// Replace stores a freshly fetched collection.
func (s *Session) Replace(c shipment.Collection, at time.Time) {
	c.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.collection = c
	s.loadedAt = at
	s.loaded = true
}

// Snapshot returns a copy of the stored collection and whether anything has
// been loaded yet.
func (s *Session) Snapshot() (shipment.Collection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return shipment.Collection{Aktif: []shipment.Record{}, History: []shipment.Record{}}, false
	}
	return s.collection.Clone(), true
}

// LoadedAt returns when the stored collection was fetched.
func (s *Session) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Apply runs fn against the stored collection under the write lock. It is a
// no-op before the first load.
func (s *Session) Apply(fn func(*shipment.Collection) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return false
	}
	return fn(&s.collection)
}
