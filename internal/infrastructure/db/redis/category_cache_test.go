package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/blogsphere/blog-api/internal/core/domain"
)

type fakeStore struct {
	data   map[string]string
	ttl    time.Duration
	getErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Get(_ context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeStore) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.data[key] = string(value.([]byte))
	f.ttl = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeStore) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestCategoryCache_MissSetHitInvalidate(t *testing.T) {
	st := newFakeStore()
	cache := newCategoryCache(st, time.Minute)
	ctx := context.Background()

	if _, ok, err := cache.Get(ctx); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	want := []domain.CategorySummary{
		{Category: "tech", Count: 2, BlogIDs: []string{"b1", "b2"}},
		{Category: "life", Count: 1, BlogIDs: []string{"b3"}},
	}
	if err := cache.Set(ctx, want); err != nil {
		t.Fatalf("set: %v", err)
	}
	if st.ttl != time.Minute {
		t.Fatalf("expected ttl 1m, got %s", st.ttl)
	}

	got, ok, err := cache.Get(ctx)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if len(got) != 2 || got[0].Category != "tech" || got[0].Count != 2 || got[1].BlogIDs[0] != "b3" {
		t.Fatalf("unexpected cached value: %+v", got)
	}

	if err := cache.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, ok, _ := cache.Get(ctx); ok {
		t.Fatalf("expected miss after invalidate")
	}
}

func TestCategoryCache_Errors(t *testing.T) {
	st := newFakeStore()
	cache := newCategoryCache(st, time.Minute)

	st.getErr = errors.New("connection refused")
	if _, ok, err := cache.Get(context.Background()); err == nil || ok {
		t.Fatalf("expected error, got ok=%v err=%v", ok, err)
	}

	st.getErr = nil
	st.data[categoriesKey] = "{not json"
	if _, _, err := cache.Get(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}
