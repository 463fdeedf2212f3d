package generate

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"
)

// partition derives the RNG of a single case
// from the seed and the case identity.
// Derivation: seed XOR fnv1a64("distribution/index").
func partition(seed int64, distribution string, index int) *rand.Rand {
	name := fmt.Sprintf("%s/%d", distribution, index)
	return rand.New(rand.NewSource(seed ^ fnv1a64(name)))
}

// resolveSeed maps the zero seed to a time based one.
func resolveSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64()) //nolint:gosec // bits are reinterpreted.
}
