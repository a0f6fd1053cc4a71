package cache

import (
	"testing"
	"time"
)

func TestTTLStoreGetSet(t *testing.T) {
	c := NewTTLStore[int](time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Fatal("empty store should miss")
	}
	c.Set("a", 42)
	v, ok := c.Get("a")
	if !ok || v != 42 {
		t.Fatalf("Get(a) = %d, %v", v, ok)
	}
	if c.Size() != 1 {
		t.Fatalf("Size = %d", c.Size())
	}
}

func TestTTLStoreExpiry(t *testing.T) {
	c := NewTTLStore[string](50 * time.Millisecond)
	c.Set("k", "v")
	if _, ok := c.Get("k"); !ok {
		t.Fatal("entry should be fresh")
	}
	time.Sleep(80 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatal("entry should have expired")
	}
	if c.Size() != 0 {
		t.Fatalf("expired read should drop entry, size=%d", c.Size())
	}
}

func TestTTLStorePurge(t *testing.T) {
	c := NewTTLStore[int](time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Purge()
	if c.Size() != 0 {
		t.Fatalf("Purge left %d entries", c.Size())
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal("purged key still readable")
	}
}

func TestTTLStoreCleanExpired(t *testing.T) {
	c := NewTTLStore[int](30 * time.Millisecond)
	c.Set("old", 1)
	time.Sleep(50 * time.Millisecond)
	c.Set("fresh", 2)
	if n := c.CleanExpired(); n != 1 {
		t.Fatalf("CleanExpired removed %d, want 1", n)
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Fatal("fresh entry removed by cleanup")
	}
}

func TestManagerCleanup(t *testing.T) {
	c := NewTTLStore[int](10 * time.Millisecond)
	c.Set("k", 1)

	m := NewManager()
	m.Register(c)
	m.StartCleanup(20 * time.Millisecond)
	defer m.Stop()

	time.Sleep(60 * time.Millisecond)
	if c.Size() != 0 {
		t.Fatalf("manager did not clean expired entries, size=%d", c.Size())
	}
}
