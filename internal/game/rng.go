package game

// RNG is a 32-bit linear congruential generator owned by a single match.
// Reseeding with the same value reproduces the identical sequence, which is
// what makes shuffles and coin flips replayable. No global RNG exists; two
// concurrent matches never share state.
type RNG struct {
	seed uint32
}

// NewRNG creates a generator from a 32-bit seed.
func NewRNG(seed uint32) *RNG {
	return &RNG{seed: seed}
}

// Next advances the generator and returns a float in [0, 1).
func (r *RNG) Next() float64 {
	r.seed = r.seed*1664525 + 1013904223
	return float64(r.seed) / (1 << 32)
}

// Intn returns a value in [0, n).
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() * float64(n))
}

// CoinFlip returns true for heads.
func (r *RNG) CoinFlip() bool {
	return r.Next() < 0.5
}

// Seed returns the current generator state.
func (r *RNG) Seed() uint32 {
	return r.seed
}

// Shuffle performs an in-place Fisher-Yates shuffle of the cards.
func (r *RNG) Shuffle(cards []*CardInstance) {
	for i := len(cards) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}
