package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type cachedEvent struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func newTestHelper(t *testing.T) *CacheHelper {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheHelper(client, "event:")
}

func TestCacheSetGet(t *testing.T) {
	helper := newTestHelper(t)
	ctx := context.Background()

	stored := cachedEvent{ID: 1, Title: "Tech Talk"}
	if err := helper.Set(ctx, "id:1", stored, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var loaded cachedEvent
	if err := helper.Get(ctx, "id:1", &loaded); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if loaded != stored {
		t.Errorf("loaded = %+v, want %+v", loaded, stored)
	}
}

func TestCacheMiss(t *testing.T) {
	helper := newTestHelper(t)

	var loaded cachedEvent
	err := helper.Get(context.Background(), "id:missing", &loaded)
	if !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("err = %v, want ErrCacheNotFound", err)
	}
}

func TestCacheDelete(t *testing.T) {
	helper := newTestHelper(t)
	ctx := context.Background()

	if err := helper.Set(ctx, "id:1", cachedEvent{ID: 1}, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := helper.Delete(ctx, "id:1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var loaded cachedEvent
	if err := helper.Get(ctx, "id:1", &loaded); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("err after delete = %v, want ErrCacheNotFound", err)
	}
}

func TestCacheOrExecuteFetchesOnMiss(t *testing.T) {
	helper := newTestHelper(t)
	ctx := context.Background()

	calls := 0
	var loaded cachedEvent
	err := helper.CacheOrExecute(ctx, "id:1", &loaded, time.Minute, func() (interface{}, error) {
		calls++
		return &cachedEvent{ID: 1, Title: "Tech Talk"}, nil
	})
	if err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("fetch calls = %d, want 1", calls)
	}
	if loaded.Title != "Tech Talk" {
		t.Errorf("title = %s, want Tech Talk", loaded.Title)
	}
}

func TestCacheOrExecuteServesCached(t *testing.T) {
	helper := newTestHelper(t)
	ctx := context.Background()

	if err := helper.Set(ctx, "id:1", cachedEvent{ID: 1, Title: "Cached"}, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var loaded cachedEvent
	err := helper.CacheOrExecute(ctx, "id:1", &loaded, time.Minute, func() (interface{}, error) {
		t.Fatal("fetch called despite cached value")
		return nil, nil
	})
	if err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}
	if loaded.Title != "Cached" {
		t.Errorf("title = %s, want Cached", loaded.Title)
	}
}

func TestInvalidatePattern(t *testing.T) {
	helper := newTestHelper(t)
	ctx := context.Background()

	for _, key := range []string{"list:1", "list:2", "id:1"} {
		if err := helper.Set(ctx, key, cachedEvent{ID: 1}, time.Minute); err != nil {
			t.Fatalf("Set %s failed: %v", key, err)
		}
	}

	if err := helper.InvalidatePattern(ctx, "list:*"); err != nil {
		t.Fatalf("InvalidatePattern failed: %v", err)
	}

	var loaded cachedEvent
	if err := helper.Get(ctx, "list:1", &loaded); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("list:1 survived invalidation: %v", err)
	}
	if err := helper.Get(ctx, "id:1", &loaded); err != nil {
		t.Errorf("id:1 was invalidated by a list pattern: %v", err)
	}
}

// A nil client must degrade to a pass-through, not an error path.
func TestNilClientDegrades(t *testing.T) {
	helper := NewCacheHelper(nil, "event:")
	ctx := context.Background()

	if err := helper.Set(ctx, "id:1", cachedEvent{}, time.Minute); err != nil {
		t.Errorf("Set with nil client: %v", err)
	}

	var loaded cachedEvent
	if err := helper.Get(ctx, "id:1", &loaded); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("Get with nil client: err = %v, want ErrCacheNotAvailable", err)
	}

	calls := 0
	err := helper.CacheOrExecute(ctx, "id:1", &loaded, time.Minute, func() (interface{}, error) {
		calls++
		return &cachedEvent{ID: 2, Title: "Fetched"}, nil
	})
	if err != nil {
		t.Fatalf("CacheOrExecute with nil client failed: %v", err)
	}
	if calls != 1 || loaded.ID != 2 {
		t.Errorf("fetch not used: calls=%d loaded=%+v", calls, loaded)
	}
}

func TestCacheManagerHealthCheck(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	manager := NewCacheManager(client)
	if err := manager.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck failed: %v", err)
	}

	offline := NewCacheManager(nil)
	if err := offline.HealthCheck(context.Background()); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("nil client HealthCheck: err = %v, want ErrCacheNotAvailable", err)
	}
}
