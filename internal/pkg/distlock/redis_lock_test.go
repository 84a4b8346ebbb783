package distlock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedisLock_SecondAcquirerIsRefused(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()

	first := NewRedisLock(client, RunLockKey, time.Minute)
	second := NewRedisLock(client, RunLockKey, time.Minute)

	ok, err := first.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}
	ok, err = second.Acquire(ctx)
	if err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if ok {
		t.Error("two runs must not hold the lock at once")
	}
}

func TestRedisLock_ReleaseFreesTheLock(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()

	first := NewRedisLock(client, RunLockKey, time.Minute)
	second := NewRedisLock(client, RunLockKey, time.Minute)

	if ok, _ := first.Acquire(ctx); !ok {
		t.Fatal("first acquire failed")
	}
	if err := first.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if ok, _ := second.Acquire(ctx); !ok {
		t.Error("released lock must be acquirable")
	}
}

func TestRedisLock_ReleaseOnlyByOwner(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()

	owner := NewRedisLock(client, RunLockKey, time.Minute)
	intruder := NewRedisLock(client, RunLockKey, time.Minute)

	if ok, _ := owner.Acquire(ctx); !ok {
		t.Fatal("acquire failed")
	}
	if err := intruder.Release(ctx); err != nil {
		t.Fatalf("intruder release: %v", err)
	}
	// The owner's value is still there, so a new acquirer is refused.
	if ok, _ := intruder.Acquire(ctx); ok {
		t.Error("release by a non-owner must not free the lock")
	}
}

func TestAcquireRun_SecondRunRefused(t *testing.T) {
	mr := miniredis.RunT(t)
	url := "redis://" + mr.Addr()
	ctx := context.Background()

	_, release, err := AcquireRun(ctx, url, "", time.Minute)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, _, err := AcquireRun(ctx, url, "", time.Minute); !errors.Is(err, ErrRunInProgress) {
		t.Fatalf("second run: want ErrRunInProgress, got %v", err)
	}

	release()
	_, release2, err := AcquireRun(ctx, url, "", time.Minute)
	if err != nil {
		t.Fatalf("after release: %v", err)
	}
	release2()
}
