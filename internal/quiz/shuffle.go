package quiz

import (
	"math/rand/v2"
	"time"
)

// Rand is the random source used for shuffling. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// NewRand returns a seeded source. A zero seed picks one from the clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Shuffle returns a uniformly permuted copy of items using Fisher-Yates:
// i walks from the last index down to 1 and swaps with j drawn from [0, i].
// The input slice is not modified.
func Shuffle[T any](items []T, r Rand) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
