package locker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const warmupKey = "warmup:scheduler:lock"

func newRedisLockers(t *testing.T, n int) ([]*RedisLocker, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	lockers := make([]*RedisLocker, n)
	for i := range lockers {
		lockers[i] = NewRedisLocker(client, zap.NewNop())
	}

	return lockers, mr
}

func TestRedisLocker_SecondInstanceIsRefused(t *testing.T) {
	lockers, _ := newRedisLockers(t, 2)
	ctx := context.Background()

	acquired, err := lockers[0].Acquire(ctx, warmupKey, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, acquired)

	acquired, err = lockers[1].Acquire(ctx, warmupKey, 5*time.Second)
	require.NoError(t, err)
	assert.False(t, acquired)
}

func TestRedisLocker_ReleaseAllowsReacquire(t *testing.T) {
	lockers, _ := newRedisLockers(t, 2)
	ctx := context.Background()

	acquired, err := lockers[0].Acquire(ctx, warmupKey, 5*time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	require.NoError(t, lockers[0].Release(ctx, warmupKey))

	acquired, err = lockers[1].Acquire(ctx, warmupKey, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestRedisLocker_ReleaseNotOwnedIsNoop(t *testing.T) {
	lockers, _ := newRedisLockers(t, 2)
	ctx := context.Background()

	acquired, err := lockers[0].Acquire(ctx, warmupKey, 5*time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	require.NoError(t, lockers[1].Release(ctx, warmupKey))

	// still held by the first locker
	acquired, err = lockers[1].Acquire(ctx, warmupKey, 5*time.Second)
	require.NoError(t, err)
	assert.False(t, acquired)
}

func TestRedisLocker_ExpiresAfterCooldown(t *testing.T) {
	lockers, mr := newRedisLockers(t, 2)
	ctx := context.Background()

	acquired, err := lockers[0].Acquire(ctx, warmupKey, 5*time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	mr.FastForward(6 * time.Second)

	acquired, err = lockers[1].Acquire(ctx, warmupKey, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestRedisLocker_ConcurrentInstances(t *testing.T) {
	lockers, _ := newRedisLockers(t, 5)
	ctx := context.Background()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for _, l := range lockers {
		wg.Add(1)
		go func(l *RedisLocker) {
			defer wg.Done()
			if acquired, _ := l.Acquire(ctx, warmupKey, 2*time.Second); acquired {
				wins.Add(1)
			}
		}(l)
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestRedisLocker_CanceledContext(t *testing.T) {
	lockers, _ := newRedisLockers(t, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	acquired, err := lockers[0].Acquire(ctx, warmupKey, 5*time.Second)
	assert.Error(t, err)
	assert.False(t, acquired)
}

func TestLocalLocker(t *testing.T) {
	l := NewLocalLocker()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	acquired, err := l.Acquire(ctx, warmupKey, time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)

	acquired, _ = l.Acquire(ctx, warmupKey, time.Minute)
	assert.False(t, acquired, "held")

	now = now.Add(time.Minute)
	acquired, _ = l.Acquire(ctx, warmupKey, time.Minute)
	assert.True(t, acquired, "expired")

	require.NoError(t, l.Release(ctx, warmupKey))
	acquired, _ = l.Acquire(ctx, warmupKey, time.Minute)
	assert.True(t, acquired, "released")
}
