package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Warmer pre-fetches a search term into the result cache.
type Warmer interface {
	Warm(ctx context.Context, searchTerm string) error
}

// WarmupService pre-fetches a fixed list of popular search terms.
type WarmupService struct {
	warmer Warmer
	terms  []string
	logger *zap.Logger
}

// NewWarmupService creates a new WarmupService.
func NewWarmupService(warmer Warmer, terms []string, logger *zap.Logger) *WarmupService {
	return &WarmupService{
		warmer: warmer,
		terms:  terms,
		logger: logger,
	}
}

// WarmupResult holds the outcome of warming a single term.
type WarmupResult struct {
	SearchTerm string        `json:"search_term"`
	Duration   time.Duration `json:"duration"`
	Error      error         `json:"-"`
}

// WarmAll warms every configured term concurrently.
// Partial failures are allowed.
func (s *WarmupService) WarmAll(ctx context.Context) []WarmupResult {
	results := make([]WarmupResult, len(s.terms))
	var wg sync.WaitGroup

	s.logger.Info("starting cache warm-up", zap.Int("term_count", len(s.terms)))

	for i, term := range s.terms {
		wg.Add(1)
		go func(idx int, t string) {
			defer wg.Done()
			results[idx] = s.warmTerm(ctx, t)
		}(i, term)
	}

	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
		}
	}

	s.logger.Info("cache warm-up completed",
		zap.Int("terms_warmed", len(results)-failed),
		zap.Int("terms_failed", failed),
	)

	return results
}

func (s *WarmupService) warmTerm(ctx context.Context, term string) WarmupResult {
	start := time.Now()
	result := WarmupResult{SearchTerm: term}

	if err := s.warmer.Warm(ctx, term); err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		s.logger.Warn("warm-up failed",
			zap.String("search_term", term),
			zap.Error(err),
		)

		return result
	}

	result.Duration = time.Since(start)
	s.logger.Debug("term warmed",
		zap.String("search_term", term),
		zap.Duration("duration", result.Duration),
	)

	return result
}
