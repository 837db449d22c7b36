package env

// SimpleRNG is a deterministic pseudo-random number generator.
// Uses a simple LCG (Linear Congruential Generator).
type SimpleRNG struct {
	state uint64
}

// NewSimpleRNG creates a new RNG with the given seed.
// Seed 0 is mapped to 1.
func NewSimpleRNG(seed int64) *SimpleRNG {
	s := uint64(seed) //#nosec G115 -- intentional conversion for RNG seeding
	if s == 0 {
		s = 1
	}
	return &SimpleRNG{state: s}
}

// Next generates the next random uint64.
func (r *SimpleRNG) Next() uint64 {
	r.state = r.state*6364136223846793005 + 1442695040888963407
	return r.state
}

// Intn returns a random int in [0, n).
// The low bits of an LCG have short periods, so only the high word is used.
func (r *SimpleRNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int((r.Next() >> 32) % uint64(n)) //#nosec G115 -- n is always positive
}

// Float64 returns a random float64 in [0, 1).
func (r *SimpleRNG) Float64() float64 {
	return float64(r.Next()>>11) / float64(1<<53)
}

// State returns the raw generator state.
func (r *SimpleRNG) State() uint64 {
	return r.state
}

// SetState restores a state previously returned by State.
func (r *SimpleRNG) SetState(s uint64) {
	r.state = s
}

// Sampler draws fruit types from integer weights indexed by type.
type Sampler struct {
	rng     *SimpleRNG
	weights []int
	total   int
}

// NewSampler creates a sampler over weights. Weights must be
// non-negative with a positive sum; config validation guarantees that.
func NewSampler(rng *SimpleRNG, weights []int) *Sampler {
	total := 0
	for _, w := range weights {
		total += w
	}
	return &Sampler{
		rng:     rng,
		weights: append([]int(nil), weights...),
		total:   total,
	}
}

// Next selects a random type based on weights.
func (s *Sampler) Next() int {
	if s.total <= 0 {
		return 0
	}

	roll := s.rng.Intn(s.total)
	cumulative := 0
	for t, w := range s.weights {
		cumulative += w
		if roll < cumulative {
			return t
		}
	}
	return 0
}
