// Package locker coordinates periodic work across service instances.
package locker

import (
	"context"
	"time"
)

// DistributedLocker grants at most one holder per key at a time.
// Implementations must be safe for concurrent use.
//
// Typical usage:
//
//	acquired, err := l.Acquire(ctx, "warmup", 5*time.Minute)
//	if err != nil || !acquired {
//	    return err
//	}
//	defer l.Release(ctx, "warmup")
type DistributedLocker interface {
	// Acquire tries once to take the lock. It returns false, nil when
	// someone else holds it. The lock expires after ttl unless released.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release gives the lock back. Releasing a lock this holder does not
	// own is a no-op.
	Release(ctx context.Context, key string) error
}
