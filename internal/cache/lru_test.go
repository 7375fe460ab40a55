package cache

import (
	"testing"
	"time"
)

func TestGetSet(t *testing.T) {
	c := NewLRUCache[int](4, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("Get on empty cache returned ok")
	}

	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", v, ok)
	}

	c.Set("a", 2)
	if v, _ := c.Get("a"); v != 2 {
		t.Errorf("overwrite: Get(a) = %d, want 2", v)
	}
	if c.Size() != 1 {
		t.Errorf("Size = %d, want 1", c.Size())
	}
}

func TestEviction(t *testing.T) {
	c := NewLRUCache[string](2, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a") // a is now most recently used
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Error("least recently used key survived eviction")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("recently used key was evicted")
	}
	if c.Size() != 2 {
		t.Errorf("Size = %d, want 2", c.Size())
	}
}

func TestExpiry(t *testing.T) {
	c := NewLRUCache[int](4, 10*time.Millisecond)

	c.Set("a", 1)
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("a"); ok {
		t.Error("expired entry still returned")
	}
}

func TestDeletePrefix(t *testing.T) {
	c := NewLRUCache[int](8, time.Minute)

	c.Set("u1|2025-01", 1)
	c.Set("u1|2025-02", 2)
	c.Set("u1|2025-02|chart", 3)
	c.Set("u2|2025-01", 4)

	if n := c.DeletePrefix("u1|"); n != 3 {
		t.Fatalf("DeletePrefix removed %d, want 3", n)
	}
	if _, ok := c.Get("u1|2025-02"); ok {
		t.Error("prefixed key survived DeletePrefix")
	}
	if _, ok := c.Get("u2|2025-01"); !ok {
		t.Error("unrelated key was removed")
	}
	if n := c.DeletePrefix("u1|"); n != 0 {
		t.Errorf("second DeletePrefix removed %d, want 0", n)
	}
}

func TestCleanExpired(t *testing.T) {
	c := NewLRUCache[int](8, 10*time.Millisecond)

	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(20 * time.Millisecond)

	if n := c.CleanExpired(); n != 2 {
		t.Errorf("CleanExpired = %d, want 2", n)
	}
	if c.Size() != 0 {
		t.Errorf("Size after cleanup = %d, want 0", c.Size())
	}
}
