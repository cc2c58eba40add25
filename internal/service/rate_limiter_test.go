package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMailRateLimiter_AllowsUpToMax(t *testing.T) {
	limiter := NewMailRateLimiter(time.Minute, 2)

	if !limiter.Allow("a@b.com") || !limiter.Allow("a@b.com") {
		t.Fatalf("first two sends must pass")
	}
	if limiter.Allow("a@b.com") {
		t.Fatalf("third send within the window must be rejected")
	}
	// Cada clave tiene su propia ventana.
	if !limiter.Allow("other@b.com") {
		t.Fatalf("another key must not be affected")
	}
}

func TestRedisMailRateLimiter_Allow(t *testing.T) {
	srv, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer srv.Close()
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer client.Close()

	limiter := NewRedisMailRateLimiter(client, time.Minute, 2)

	if !limiter.Allow("A@B.com ") || !limiter.Allow("a@b.com") {
		t.Fatalf("first two sends must pass")
	}
	if limiter.Allow("a@b.com") {
		t.Fatalf("third send within the window must be rejected")
	}

	srv.FastForward(2 * time.Minute)
	if !limiter.Allow("a@b.com") {
		t.Fatalf("window expiry must reset the counter")
	}
}

func TestRedisMailRateLimiter_EmptyKey(t *testing.T) {
	limiter := &redisMailRateLimiter{client: failingEvaler{}, window: time.Minute, max: 1, prefix: "mail:rl:"}
	if limiter.Allow("   ") {
		t.Fatalf("blank key must be rejected")
	}
}

type failingEvaler struct{}

func (failingEvaler) Eval(ctx context.Context, _ string, _ []string, _ ...interface{}) *redis.Cmd {
	cmd := redis.NewCmd(ctx)
	cmd.SetErr(errors.New("redis down"))
	return cmd
}

func TestRedisMailRateLimiter_FailsOpen(t *testing.T) {
	limiter := &redisMailRateLimiter{client: failingEvaler{}, window: time.Minute, max: 1, prefix: "mail:rl:"}
	if !limiter.Allow("a@b.com") {
		t.Fatalf("redis errors must not block mail delivery")
	}
}
