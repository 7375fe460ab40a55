package cache

import (
	"testing"
	"time"
)

func TestManagerSweepCleansRegisteredCaches(t *testing.T) {
	a := NewLRUCache[int](4, 5*time.Millisecond)
	b := NewLRUCache[string](4, 5*time.Millisecond)
	a.Set("x", 1)
	a.Set("y", 2)
	b.Set("z", "three")

	m := NewManager()
	m.Register(a)
	m.Register(b)

	time.Sleep(10 * time.Millisecond)
	if cleaned := m.sweep(); cleaned != 3 {
		t.Fatalf("sweep removed %d entries, want 3", cleaned)
	}
	if a.Size() != 0 || b.Size() != 0 {
		t.Fatalf("caches not emptied: %d, %d", a.Size(), b.Size())
	}
}

func TestManagerStopIsIdempotent(t *testing.T) {
	m := NewManager()
	m.StartCleanup(time.Minute)
	m.Stop()
	m.Stop() // second call must not panic or block
}

func TestManagerStopWithoutStart(t *testing.T) {
	m := NewManager()
	m.Stop() // nothing running, must return immediately
}
