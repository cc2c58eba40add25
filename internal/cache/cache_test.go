package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	srv, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(srv.Close)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, zap.NewNop()), srv
}

func TestKey(t *testing.T) {
	if got := Key("property"); got != "property" {
		t.Fatalf("Key() = %q", got)
	}
	if got := Key("property", "list", "0", "10"); got != "property:list:0:10" {
		t.Fatalf("Key() = %q", got)
	}
}

func TestGetOrCompute_ComputesOncePerKey(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	calls := 0
	compute := func(context.Context) (string, error) {
		calls++
		return "value", nil
	}

	for i := 0; i < 3; i++ {
		got, err := GetOrCompute(ctx, c, "k1", time.Minute, compute)
		if err != nil {
			t.Fatalf("get or compute: %v", err)
		}
		if got != "value" {
			t.Fatalf("got %q", got)
		}
	}
	if calls != 1 {
		t.Fatalf("expected a single compute, got %d", calls)
	}
}

func TestGetOrCompute_ErrorIsNotCached(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	calls := 0
	fail := errors.New("db down")
	compute := func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, fail
		}
		return 42, nil
	}

	if _, err := GetOrCompute(ctx, c, "k1", time.Minute, compute); !errors.Is(err, fail) {
		t.Fatalf("expected compute error, got %v", err)
	}
	got, err := GetOrCompute(ctx, c, "k1", time.Minute, compute)
	if err != nil {
		t.Fatalf("second attempt: %v", err)
	}
	if got != 42 || calls != 2 {
		t.Fatalf("failed compute must not be cached: got %d, calls %d", got, calls)
	}
}

func TestGetOrCompute_ExpiredEntryRecomputes(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()

	calls := 0
	compute := func(context.Context) (string, error) {
		calls++
		return "value", nil
	}

	if _, err := GetOrCompute(ctx, c, "k1", time.Minute, compute); err != nil {
		t.Fatalf("first: %v", err)
	}
	srv.FastForward(2 * time.Minute)
	if _, err := GetOrCompute(ctx, c, "k1", time.Minute, compute); err != nil {
		t.Fatalf("second: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected recompute after expiry, got %d calls", calls)
	}
}

func TestGetOrCompute_DisabledCachePassesThrough(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	calls := 0
	compute := func(context.Context) (string, error) {
		calls++
		return "value", nil
	}

	for i := 0; i < 2; i++ {
		if _, err := GetOrCompute(ctx, c, "k1", time.Minute, compute); err != nil {
			t.Fatalf("get or compute: %v", err)
		}
	}
	if calls != 2 {
		t.Fatalf("disabled cache must always compute, got %d calls", calls)
	}
}

func TestInvalidatePattern(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	for _, key := range []string{"property:1", "property:list:0:10", "category:all"} {
		if err := c.Set(ctx, key, "x", time.Minute); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}

	if err := c.InvalidatePattern(ctx, "property:*"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	var out string
	if hit, _ := c.Get(ctx, "property:1", &out); hit {
		t.Fatalf("property:1 should be gone")
	}
	if hit, _ := c.Get(ctx, "category:all", &out); !hit {
		t.Fatalf("category:all should survive")
	}

	// Sin claves que matcheen no hay error.
	if err := c.InvalidatePattern(ctx, "property:*"); err != nil {
		t.Fatalf("invalidate empty: %v", err)
	}
}

func TestSetAndGetRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	type payload struct {
		ID    string `json:"id"`
		Total int    `json:"total"`
	}
	in := payload{ID: "p1", Total: 7}
	if err := c.Set(ctx, "k1", in, 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out payload
	hit, err := c.Get(ctx, "k1", &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !hit || out != in {
		t.Fatalf("round trip lost data: hit=%v out=%+v", hit, out)
	}
}
