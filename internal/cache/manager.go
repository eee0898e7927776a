package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"shipment-dashboard/internal/api"
)

// cleanupInterval is how often expired entries are swept.
const cleanupInterval = time.Minute

// CachedResult is a tracking lookup with its expiry
type CachedResult struct {
	Result    *api.TrackingResult
	ExpiresAt time.Time
}

// IsExpired checks if the cached result has expired at now
func (c *CachedResult) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Manager keeps recent tracking lookups in memory, keyed by tracking number.
// A zero TTL disables caching.
type Manager struct {
	memory sync.Map // map[string]*CachedResult
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewManager creates a cache manager and starts its cleanup loop.
func NewManager(ttl time.Duration, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())

	m := &Manager{
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}

	if m.IsEnabled() {
		go m.cleanupLoop()
	}

	return m
}

// Get returns a cached lookup, or nil on a miss.
func (m *Manager) Get(resi string) *api.TrackingResult {
	if !m.IsEnabled() {
		return nil
	}

	value, ok := m.memory.Load(resi)
	if !ok {
		return nil
	}
	cached := value.(*CachedResult)
	if cached.IsExpired(m.now()) {
		m.memory.Delete(resi)
		return nil
	}
	return cached.Result
}

// Set stores a lookup result.
func (m *Manager) Set(resi string, result *api.TrackingResult) {
	if !m.IsEnabled() || result == nil {
		return
	}
	m.memory.Store(resi, &CachedResult{
		Result:    result,
		ExpiresAt: m.now().Add(m.ttl),
	})
}

// Delete drops a cached lookup so the next one goes to the backend.
func (m *Manager) Delete(resi string) {
	m.memory.Delete(resi)
}

// IsEnabled returns true if caching is enabled
func (m *Manager) IsEnabled() bool {
	return m.ttl > 0
}

func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.cleanup()
		}
	}
}

// cleanup removes expired entries
func (m *Manager) cleanup() int {
	now := m.now()
	removed := 0
	m.memory.Range(func(key, value any) bool {
		if value.(*CachedResult).IsExpired(now) {
			m.memory.Delete(key)
			removed++
		}
		return true
	})

	if removed > 0 {
		m.logger.Debug("cleaned up expired tracking lookups", "count", removed)
	}
	return removed
}

// Stats returns cache statistics
func (m *Manager) Stats() Stats {
	stats := Stats{Enabled: m.IsEnabled(), TTL: m.ttl.String()}

	now := m.now()
	m.memory.Range(func(key, value any) bool {
		stats.Total++
		if value.(*CachedResult).IsExpired(now) {
			stats.Expired++
		}
		return true
	})
	return stats
}

// Close stops the cleanup goroutine
func (m *Manager) Close() {
	if m.cancel != nil {
		m.cancel()
	}
}

// Stats describes the cache contents
type Stats struct {
	Enabled bool   `json:"enabled"`
	TTL     string `json:"ttl"`
	Total   int    `json:"total"`
	Expired int    `json:"expired"`
}
