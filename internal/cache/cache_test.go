package cache

import (
	"strings"
	"testing"
	"time"
)

func TestCacheKey_StableAndPrefixed(t *testing.T) {
	k1 := CacheKey("unemployment fell sharply this month")
	k2 := CacheKey("unemployment fell sharply this month")
	k3 := CacheKey("a different claim")

	if k1 != k2 {
		t.Error("same claim must produce the same key")
	}
	if k1 == k3 {
		t.Error("different claims must produce different keys")
	}
	if !strings.HasPrefix(k1, "verifact:v1:") {
		t.Errorf("unexpected key prefix: %s", k1)
	}
}

func TestMemoryCache_SetGetDelete(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("expected miss for unknown key")
	}

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, found := c.Get("k")
	if !found || string(val) != "v" {
		t.Errorf("expected hit with v, got %q found=%v", val, found)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("expected miss after delete")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	if err := c.Set("k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, found := c.Get("k"); found {
		t.Error("expected entry to expire")
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	_ = c.Set("a", []byte("1"), time.Minute)
	_ = c.Set("b", []byte("2"), time.Minute)
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, found := c.Get("a"); found {
		t.Error("expected miss after clear")
	}
}
