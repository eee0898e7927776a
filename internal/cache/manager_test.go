package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"shipment-dashboard/internal/api"
)

func newTestManager(t *testing.T, ttl time.Duration) (*Manager, *time.Time) {
	t.Helper()
	now := time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)
	m := NewManager(ttl, nil)
	m.now = func() time.Time { return now }
	t.Cleanup(m.Close)
	return m, &now
}

func TestManager(t *testing.T) {
	result := &api.TrackingResult{NoResi: "RESI001", Status: "Kurir mengirim paket"}

	t.Run("hit before expiry", func(t *testing.T) {
		m, _ := newTestManager(t, time.Minute)

		assert.Nil(t, m.Get("RESI001"))
		m.Set("RESI001", result)
		assert.Same(t, result, m.Get("RESI001"))
	})

	t.Run("miss after expiry", func(t *testing.T) {
		m, now := newTestManager(t, time.Minute)

		m.Set("RESI001", result)
		*now = now.Add(2 * time.Minute)
		assert.Nil(t, m.Get("RESI001"))
		assert.Equal(t, 0, m.Stats().Total)
	})

	t.Run("delete", func(t *testing.T) {
		m, _ := newTestManager(t, time.Minute)

		m.Set("RESI001", result)
		m.Delete("RESI001")
		assert.Nil(t, m.Get("RESI001"))
	})

	t.Run("disabled", func(t *testing.T) {
		m, _ := newTestManager(t, 0)

		m.Set("RESI001", result)
		assert.Nil(t, m.Get("RESI001"))
		assert.False(t, m.Stats().Enabled)
	})

	t.Run("cleanup sweeps expired entries", func(t *testing.T) {
		m, now := newTestManager(t, time.Minute)

		m.Set("RESI001", result)
		m.Set("RESI002", &api.TrackingResult{NoResi: "RESI002"})
		*now = now.Add(30 * time.Second)
		m.Set("RESI003", &api.TrackingResult{NoResi: "RESI003"})
		*now = now.Add(45 * time.Second)

		stats := m.Stats()
		assert.Equal(t, 3, stats.Total)
		assert.Equal(t, 2, stats.Expired)

		assert.Equal(t, 2, m.cleanup())
		assert.NotNil(t, m.Get("RESI003"))
	})
}
