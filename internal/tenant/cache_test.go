package tenant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type countingProvider struct {
	calls int
	cfg   Config
	err   error
}

func (c *countingProvider) Fetch(context.Context, Key) (Config, error) {
	c.calls++
	return c.cfg, c.err
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestCachedProviderHitsStoreOnce(t *testing.T) {
	mr, rdb := newRedis(t)
	cfg, _ := fullConfig().Validate()
	next := &countingProvider{cfg: cfg}
	c := NewCachedProvider(next, rdb, time.Minute)
	key := Key{ClientID: "clientA", JobName: "vintedLambda"}

	for i := 0; i < 3; i++ {
		got, err := c.Fetch(context.Background(), key)
		if err != nil {
			t.Fatalf("Fetch error: %v", err)
		}
		if got != cfg {
			t.Fatalf("unexpected config: %+v", got)
		}
	}
	if next.calls != 1 {
		t.Fatalf("expected one store call, got %d", next.calls)
	}
	if !mr.Exists("vinted-listing:tenant:clientA:vintedLambda") {
		t.Fatalf("expected cache entry")
	}
	if ttl := mr.TTL("vinted-listing:tenant:clientA:vintedLambda"); ttl != time.Minute {
		t.Fatalf("unexpected ttl: %s", ttl)
	}

	if err := c.Invalidate(context.Background(), key); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Fetch(context.Background(), key); err != nil {
		t.Fatal(err)
	}
	if next.calls != 2 {
		t.Fatalf("expected refetch after invalidate, got %d", next.calls)
	}
}

func TestCachedProviderDoesNotCacheErrors(t *testing.T) {
	mr, rdb := newRedis(t)
	next := &countingProvider{err: ErrNotFound}
	c := NewCachedProvider(next, rdb, 0)
	if _, err := c.Fetch(context.Background(), Key{ClientID: "a", JobName: "b"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(mr.Keys()) != 0 {
		t.Fatalf("errors must not be cached: %v", mr.Keys())
	}
}

func TestCachedProviderFallsThroughWhenRedisDown(t *testing.T) {
	mr, rdb := newRedis(t)
	mr.Close()
	cfg, _ := fullConfig().Validate()
	next := &countingProvider{cfg: cfg}
	got, err := NewCachedProvider(next, rdb, time.Minute).Fetch(context.Background(), Key{ClientID: "a", JobName: "b"})
	if err != nil || got != cfg {
		t.Fatalf("expected store result when cache is down: cfg=%+v err=%v", got, err)
	}
}

func TestCachedProviderIgnoresCorruptEntry(t *testing.T) {
	mr, rdb := newRedis(t)
	if err := mr.Set("vinted-listing:tenant:a:b", "{not json"); err != nil {
		t.Fatal(err)
	}
	cfg, _ := fullConfig().Validate()
	next := &countingProvider{cfg: cfg}
	if _, err := NewCachedProvider(next, rdb, time.Minute).Fetch(context.Background(), Key{ClientID: "a", JobName: "b"}); err != nil {
		t.Fatal(err)
	}
	if next.calls != 1 {
		t.Fatalf("expected store fetch on corrupt cache entry")
	}
}
