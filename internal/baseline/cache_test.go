package baseline

import (
	"path/filepath"
	"reflect"
	"testing"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("failed to open cache: %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestCacheRoundTrip(t *testing.T) {
	cache := openTestCache(t)

	key := cacheKey("a/b.go", "HEAD", "deadbeef")
	lines := []string{"one", "two", ""}
	if err := cache.Put(key, lines); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, ok := cache.Get(key)
	if !ok {
		t.Fatal("expected a hit")
	}
	if !reflect.DeepEqual(got, lines) {
		t.Fatalf("got %#v, want %#v", got, lines)
	}
}

func TestCacheMiss(t *testing.T) {
	cache := openTestCache(t)
	if _, ok := cache.Get(cacheKey("x", "HEAD", "0")); ok {
		t.Fatal("expected a miss")
	}
}

func TestCacheEmptyContent(t *testing.T) {
	cache := openTestCache(t)

	key := cacheKey("empty.go", "HEAD", "c0ffee")
	if err := cache.Put(key, []string{}); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	got, ok := cache.Get(key)
	if !ok {
		t.Fatal("expected a hit")
	}
	if len(got) != 0 {
		t.Fatalf("got %#v, want an empty sequence", got)
	}
}

func TestCacheOverwrite(t *testing.T) {
	cache := openTestCache(t)

	key := cacheKey("a.go", "HEAD", "1111")
	if err := cache.Put(key, []string{"old"}); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := cache.Put(key, []string{"new", "content"}); err != nil {
		t.Fatalf("second put failed: %v", err)
	}

	got, _ := cache.Get(key)
	if !reflect.DeepEqual(got, []string{"new", "content"}) {
		t.Fatalf("got %#v after overwrite", got)
	}
}

func TestCacheKeyDistinguishesRevisions(t *testing.T) {
	a := cacheKey("a.go", "HEAD", "1111")
	b := cacheKey("a.go", "HEAD~1", "2222")
	if a == b {
		t.Fatal("different revisions must produce different keys")
	}
}
