package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewCacheHelper(client, "test:"), mr
}

type cachedRecord struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func TestCacheHelper_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	helper, _ := newTestCache(t)

	record := cachedRecord{ID: 1, Title: "Things Fall Apart"}
	if err := helper.Set(ctx, "record:1", record, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var got cachedRecord
	if err := helper.Get(ctx, "record:1", &got); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != record {
		t.Errorf("Got %+v, want %+v", got, record)
	}

	if err := helper.Delete(ctx, "record:1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := helper.Get(ctx, "record:1", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("Expected ErrCacheNotFound after delete, got %v", err)
	}
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	ctx := context.Background()
	helper, _ := newTestCache(t)

	fetches := 0
	fetch := func() (interface{}, error) {
		fetches++
		return cachedRecord{ID: 2, Title: "Arrow of God"}, nil
	}

	var got cachedRecord
	if err := helper.CacheOrExecute(ctx, "record:2", &got, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}
	if fetches != 1 {
		t.Fatalf("Expected 1 fetch on miss, got %d", fetches)
	}
	if got.Title != "Arrow of God" {
		t.Errorf("Got %+v", got)
	}

	// Pre-seed the key so the hit path is deterministic; the miss path writes
	// back asynchronously.
	if err := helper.Set(ctx, "record:2", got, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := helper.CacheOrExecute(ctx, "record:2", &got, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}
	if fetches != 1 {
		t.Errorf("Cached value should skip the fetch, got %d fetches", fetches)
	}
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	ctx := context.Background()
	helper, _ := newTestCache(t)

	for _, key := range []string{"ebook:list:all", "ebook:list:approved", "ebook:id:1"} {
		if err := helper.Set(ctx, key, "x", time.Minute); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	if err := helper.InvalidatePattern(ctx, "ebook:list:*"); err != nil {
		t.Fatalf("InvalidatePattern failed: %v", err)
	}

	var got string
	if err := helper.Get(ctx, "ebook:list:all", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("List keys should be gone, got %v", err)
	}
	if err := helper.Get(ctx, "ebook:id:1", &got); err != nil {
		t.Errorf("Detail key should survive, got %v", err)
	}
}

func TestCacheHelper_NilClient(t *testing.T) {
	ctx := context.Background()
	helper := NewCacheHelper(nil, "test:")

	var got string
	if err := helper.Get(ctx, "k", &got); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("Expected ErrCacheNotAvailable, got %v", err)
	}
	if err := helper.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Errorf("Set on nil client should be a no-op, got %v", err)
	}
	if err := helper.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete on nil client should be a no-op, got %v", err)
	}

	// The fetch path still works without a cache backend.
	if err := helper.CacheOrExecute(ctx, "k", &got, time.Minute, func() (interface{}, error) {
		return "fetched", nil
	}); err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}
	if got != "fetched" {
		t.Errorf("Got %q", got)
	}
}
