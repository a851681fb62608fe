package weather

import (
	"math/rand"
	"sync"
)

// Jitter supplies the bounded variance folded into each base score.
type Jitter interface {
	// Next returns a value in [0, max).
	Next(max float64) float64
}

// RandomJitter draws uniform values from a seeded source. It is safe for concurrent use.
type RandomJitter struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomJitter builds a jitter source from seed.
func NewRandomJitter(seed int64) *RandomJitter {
	return &RandomJitter{rng: rand.New(rand.NewSource(seed))}
}

func (j *RandomJitter) Next(max float64) float64 {
	if max <= 0 {
		return 0
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.rng.Float64() * max
}

// ZeroJitter makes synthesis deterministic.
type ZeroJitter struct{}

func (ZeroJitter) Next(float64) float64 { return 0 }

var (
	_ Jitter = (*RandomJitter)(nil)
	_ Jitter = ZeroJitter{}
)
