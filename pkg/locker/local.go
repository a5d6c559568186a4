package locker

import (
	"context"
	"sync"
	"time"
)

// LocalLocker implements DistributedLocker within one process. It is used
// when no Redis is configured and only a single instance runs.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]time.Time
	now   func() time.Time
}

// NewLocalLocker creates an in-process locker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{
		locks: make(map[string]time.Time),
		now:   time.Now,
	}
}

// Acquire takes the lock unless it is held and not yet expired.
func (l *LocalLocker) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if expiresAt, held := l.locks[key]; held && now.Before(expiresAt) {
		return false, nil
	}
	l.locks[key] = now.Add(ttl)

	return true, nil
}

// Release drops the lock.
func (l *LocalLocker) Release(_ context.Context, key string) error {
	l.mu.Lock()
	delete(l.locks, key)
	l.mu.Unlock()

	return nil
}
