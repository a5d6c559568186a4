// Package sampler selects bounded random subsets of result lists.
package sampler

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/samber/lo"
)

// DefaultMax is the number of items returned when callers have no preference.
const DefaultMax = 3

// ErrNegativeMax is returned when a negative sample size is requested.
var ErrNegativeMax = errors.New("maximum must not be negative")

// Sampler draws uniform samples without replacement from an injectable
// random source. Safe for concurrent use.
type Sampler struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New creates a Sampler using rnd as its random source.
// A nil rnd is replaced by a time-seeded PCG source.
func New(rnd *rand.Rand) *Sampler {
	if rnd == nil {
		now := uint64(time.Now().UnixNano())
		rnd = rand.New(rand.NewPCG(now, now>>1|1))
	}

	return &Sampler{rnd: rnd}
}

// NewSeeded creates a Sampler whose selections are reproducible for a given seed.
func NewSeeded(seed uint64) *Sampler {
	return New(rand.New(rand.NewPCG(seed, seed)))
}

// Sample returns min(limit, number of distinct items) distinct items chosen
// uniformly at random. An empty input yields an empty result; a negative
// limit yields ErrNegativeMax.
func Sample[T comparable](s *Sampler, items []T, limit int) ([]T, error) {
	if limit < 0 {
		return nil, ErrNegativeMax
	}

	distinct := lo.Uniq(items)
	if len(distinct) == 0 || limit == 0 {
		return []T{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return lo.SamplesBy(distinct, limit, s.rnd.IntN), nil
}
