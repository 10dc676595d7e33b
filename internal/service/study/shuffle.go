package study

import "math/rand"

// Shuffle returns a shuffled copy of items using a Fisher-Yates walk from
// the last index down. The input slice is never mutated. Determinism comes
// only from the caller's rng seed; production callers seed from the clock.
func Shuffle[T any](items []T, rng *rand.Rand) []T {
	out := make([]T, len(items))
	copy(out, items)

	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}

	return out
}

func (s *Service) newRand() *rand.Rand {
	return rand.New(rand.NewSource(s.clock.Now().UnixNano()))
}
