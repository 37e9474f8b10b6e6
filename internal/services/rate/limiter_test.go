package rate

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	redrepo "github.com/kpramod0/SkillLinkr-sub000/internal/repo/redis"
)

func TestAllowLikeBlocksAfterMinuteLimit(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	limiter := NewLimiter(redrepo.NewRateRepo(client), 3, 0)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, allowed, err := limiter.AllowLike(ctx, "alice@x")
		if err != nil {
			t.Fatalf("unexpected error on attempt %d: %v", i+1, err)
		}
		if !allowed {
			t.Fatalf("expected attempt %d to be allowed", i+1)
		}
	}

	retryAfter, allowed, err := limiter.AllowLike(ctx, "alice@x")
	if err != nil {
		t.Fatalf("unexpected error on blocked attempt: %v", err)
	}
	if allowed {
		t.Fatal("expected 4th like to be blocked")
	}
	if retryAfter <= 0 {
		t.Fatalf("expected positive retry_after, got %d", retryAfter)
	}
}

func TestAllowLikeIsolatesActors(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	limiter := NewLimiter(redrepo.NewRateRepo(client), 1, 0)
	ctx := context.Background()

	if _, allowed, err := limiter.AllowLike(ctx, "alice@x"); err != nil || !allowed {
		t.Fatalf("expected first like for alice to pass, allowed=%v err=%v", allowed, err)
	}
	if _, allowed, err := limiter.AllowLike(ctx, "bob@y"); err != nil || !allowed {
		t.Fatalf("expected first like for bob to pass, allowed=%v err=%v", allowed, err)
	}
	if _, allowed, _ := limiter.AllowLike(ctx, "alice@x"); allowed {
		t.Fatal("expected second like for alice to be blocked")
	}
}

func TestAllowLikeWithZeroLimitsAlwaysPasses(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	limiter := NewLimiter(redrepo.NewRateRepo(client), 0, 0)

	for i := 0; i < 10; i++ {
		if _, allowed, err := limiter.AllowLike(context.Background(), "alice@x"); err != nil || !allowed {
			t.Fatalf("expected unlimited likes, allowed=%v err=%v", allowed, err)
		}
	}
}

func newMiniRedisClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{
		Addr: mr.Addr(),
	})

	return mr, client
}
