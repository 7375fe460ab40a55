package cache

import (
	"log/slog"
	"sync"
	"time"
)

// Cleaner is implemented by caches the manager sweeps for expired entries.
type Cleaner interface {
	CleanExpired() int
}

// Manager owns the periodic expiry sweep shared by the server's caches.
type Manager struct {
	caches      []Cleaner
	stopCleanup chan struct{}
	cleanupDone chan struct{}
	started     bool
	stopOnce    sync.Once
}

// NewManager creates a manager with no registered caches.
func NewManager() *Manager {
	return &Manager{
		stopCleanup: make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}
}

// Register adds a cache to the sweep. Call before StartCleanup.
func (m *Manager) Register(cache Cleaner) {
	m.caches = append(m.caches, cache)
}

// StartCleanup launches the periodic sweep goroutine.
func (m *Manager) StartCleanup(interval time.Duration) {
	m.started = true
	go m.cleanup(interval)
}

func (m *Manager) cleanup(interval time.Duration) {
	defer close(m.cleanupDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := m.sweep(); cleaned > 0 {
				slog.Debug("expired cache entries removed", "count", cleaned)
			}
		case <-m.stopCleanup:
			return
		}
	}
}

// sweep drops expired entries from every registered cache and returns how
// many were removed.
func (m *Manager) sweep() int {
	total := 0
	for _, cache := range m.caches {
		total += cache.CleanExpired()
	}
	return total
}

// Stop halts the sweep goroutine and waits for it to exit. Safe to call more
// than once, and a no-op when StartCleanup never ran.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCleanup)
		if m.started {
			<-m.cleanupDone
		}
	})
}
