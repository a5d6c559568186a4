// Package job provides background job schedulers.
package job

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"media-search-service/internal/app/service"
	"media-search-service/pkg/locker"
)

// lockKey guards warm-up runs across instances.
const lockKey = "warmup:scheduler:lock"

// WarmupRunner warms the result cache.
type WarmupRunner interface {
	WarmAll(ctx context.Context) []service.WarmupResult
}

// WarmupConfig holds warm-up scheduler configuration.
type WarmupConfig struct {
	Interval  time.Duration
	Timeout   time.Duration
	OnStartup bool
}

// WarmupScheduler periodically warms the result cache. A distributed lock
// ensures only one instance warms per interval.
type WarmupScheduler struct {
	runner    WarmupRunner
	interval  time.Duration
	timeout   time.Duration
	onStartup bool
	logger    *zap.Logger
	locker    locker.DistributedLocker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWarmupScheduler creates a new WarmupScheduler.
func NewWarmupScheduler(
	runner WarmupRunner,
	cfg WarmupConfig,
	logger *zap.Logger,
	locker locker.DistributedLocker,
) *WarmupScheduler {
	return &WarmupScheduler{
		runner:    runner,
		interval:  cfg.Interval,
		timeout:   cfg.Timeout,
		onStartup: cfg.OnStartup,
		logger:    logger,
		locker:    locker,
	}
}

// Start begins the background warm-up loop, running once immediately when
// OnStartup is set.
func (s *WarmupScheduler) Start() {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Info("starting warm-up scheduler",
		zap.Duration("interval", s.interval),
		zap.Bool("run_on_startup", s.onStartup),
	)

	s.wg.Add(1)
	go s.run()
}

// Stop gracefully stops the scheduler.
func (s *WarmupScheduler) Stop() {
	if s.cancel == nil {
		return
	}

	s.logger.Info("stopping warm-up scheduler")
	s.cancel()
	s.wg.Wait()
	s.logger.Info("warm-up scheduler stopped")
}

// RunNow performs a single warm-up outside the ticker. It reports false
// when a run is in progress or a scheduled run's cooldown is still active.
// The lock is released afterwards, so manual runs leave no cooldown behind.
func (s *WarmupScheduler) RunNow(ctx context.Context) ([]service.WarmupResult, bool, error) {
	return s.execute(ctx, false)
}

func (s *WarmupScheduler) run() {
	defer s.wg.Done()

	if s.onStartup {
		s.tick()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *WarmupScheduler) tick() {
	if _, _, err := s.execute(s.ctx, true); err != nil {
		s.logger.Error("failed to acquire distributed lock", zap.Error(err))
	}
}

// execute warms the cache while holding the lock.
//
// Locking behavior:
//   - Lock TTL = interval (cooldown model), never shorter than the run timeout
//   - Scheduled success: lock held for the full interval so no other instance repeats the work
//   - Failure or manual run: lock released immediately
func (s *WarmupScheduler) execute(parent context.Context, cooldown bool) ([]service.WarmupResult, bool, error) {
	ttl := max(s.interval, s.timeout)

	acquired, err := s.locker.Acquire(parent, lockKey, ttl)
	if err != nil {
		return nil, false, err
	}
	if !acquired {
		s.logger.Debug("another instance is warming the cache, skipping execution")

		return nil, false, nil
	}

	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	results := s.runner.WarmAll(ctx)

	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
		}
	}

	switch {
	case failed > 0:
		if err := s.locker.Release(parent, lockKey); err != nil {
			s.logger.Error("failed to release lock after warm-up error", zap.Error(err))
		}
		s.logger.Info("warm-up completed with errors, lock released for retry",
			zap.Int("terms_failed", failed),
		)
	case !cooldown:
		if err := s.locker.Release(parent, lockKey); err != nil {
			s.logger.Error("failed to release lock after manual warm-up", zap.Error(err))
		}
		s.logger.Info("manual warm-up completed, lock released",
			zap.Int("terms_warmed", len(results)),
		)
	default:
		s.logger.Info("warm-up completed successfully, lock held for cooldown",
			zap.Int("terms_warmed", len(results)),
			zap.Duration("cooldown", s.interval),
		)
	}

	return results, true, nil
}
