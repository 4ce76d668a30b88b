// Package rng holds the random helpers shared by the task engine.
//
// Every helper draws from a Source passed in by the caller so that a whole
// engine invocation can be replayed from a single seed.
package rng

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// Source is the capability the engine needs from a random generator.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	// IntN returns a uniform value in [0, n). n must be > 0.
	IntN(n int) int
}

// New returns a deterministic PCG-backed generator for seed.
func New(seed int64) *rand.Rand {
	// #nosec G404
	return rand.New(rand.NewPCG(seedWord(seed, "hi"), seedWord(seed, "lo")))
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}

// Range returns a uniform integer in [min, max], inclusive on both ends.
// Bounds given in the wrong order are swapped.
func Range(r Source, min, max int) int {
	if max < min {
		min, max = max, min
	}
	return min + r.IntN(max-min+1)
}

// Coin returns true half of the time.
func Coin(r Source) bool {
	return r.IntN(2) == 1
}

// FromList returns a uniformly chosen element of list, or the zero value
// when list is empty.
func FromList[T any](r Source, list []T) T {
	var zero T
	if len(list) == 0 {
		return zero
	}
	return list[r.IntN(len(list))]
}

// RandomizeNumber returns a value near base. A spread is first drawn from
// [minDelta, maxDelta], then the offset from [-spread, spread], which keeps
// the result inside [base-maxDelta, base+maxDelta] and weights it towards base.
func RandomizeNumber(r Source, base, maxDelta, minDelta int) int {
	if maxDelta < 0 {
		maxDelta = -maxDelta
	}
	if minDelta < 0 {
		minDelta = 0
	}
	if minDelta > maxDelta {
		minDelta = maxDelta
	}
	spread := Range(r, minDelta, maxDelta)
	return base + Range(r, -spread, spread)
}
