package engine

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestCacheKey(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		k1 := CacheKey("resume_extract", "John Doe resume text")
		k2 := CacheKey("resume_extract", "John Doe resume text")
		if k1 != k2 {
			t.Errorf("CacheKey not deterministic: %q != %q", k1, k2)
		}
	})

	t.Run("different inputs differ", func(t *testing.T) {
		k1 := CacheKey("resume_extract", "resume A")
		k2 := CacheKey("resume_extract", "resume B")
		if k1 == k2 {
			t.Errorf("different inputs produced same key: %q", k1)
		}
	})

	t.Run("has prefix", func(t *testing.T) {
		k := CacheKey("test")
		if k[:3] != "gr:" {
			t.Errorf("expected gr: prefix, got %q", k[:3])
		}
	})
}

func TestCacheGetSet(t *testing.T) {
	// No Redis: L1 only.
	InitCache("", 1*time.Minute, 100, 5*time.Minute)

	ctx := context.Background()
	key := CacheKey("test", "round-trip")

	if _, ok := CacheGet(ctx, key); ok {
		t.Error("expected cache miss on empty cache")
	}

	CacheSet(ctx, key, []byte(`{"entities":3}`))

	got, ok := CacheGet(ctx, key)
	if !ok {
		t.Fatal("expected cache hit after set")
	}
	if string(got) != `{"entities":3}` {
		t.Errorf("got %q, want %q", got, `{"entities":3}`)
	}
}

func TestCacheDisabled(t *testing.T) {
	InitCache("", 0, 100, 5*time.Minute)

	ctx := context.Background()
	key := CacheKey("test", "disabled")
	CacheSet(ctx, key, []byte("value"))
	if _, ok := CacheGet(ctx, key); ok {
		t.Error("expected miss when cache is disabled")
	}
}

func TestCacheEviction(t *testing.T) {
	InitCache("", 1*time.Minute, 10, 5*time.Minute)

	ctx := context.Background()
	for i := 0; i < 25; i++ {
		CacheSet(ctx, CacheKey("evict", fmt.Sprint(i)), []byte("v"))
	}

	count := 0
	resultCache.l1.Range(func(_, _ any) bool {
		count++
		return true
	})
	if count > 10 {
		t.Errorf("L1 holds %d entries, want <= 10", count)
	}
}
