package cachehits

import (
	"fmt"
	"slices"
)

type (
	// Key identifies a cached item.
	// Simulators only compare keys for equality,
	// with the exception of the documented [Optimal] tie-break.
	Key = int64
	// Simulator replays an access sequence against
	// an empty cache of the given capacity and returns
	// how many of the accesses were hits.
	//
	// Implementations hold no state between calls,
	// so a single value may be shared between goroutines.
	Simulator interface {
		Simulate(accesses []Key, capacity int) (hits int, err error)
	}
	// Policy names a [Simulator] registered with this package.
	Policy string
)

// MinimumCapacity defines the lowest capacity accepted by any [Simulator].
const MinimumCapacity = 1

const (
	PolicyOptimal Policy = "belady"
	PolicyLFU     Policy = "lfu"
	PolicyLFUDA   Policy = "lfuda"
	PolicyLRU     Policy = "lru"
	PolicyARC     Policy = "arc"
)

var simulators = map[Policy]Simulator{
	PolicyOptimal: Optimal{},
	PolicyLFU:     LFU{},
	PolicyLFUDA:   LFUDA{},
	PolicyLRU:     LRU{},
	PolicyARC:     ARC{},
}

// Lookup returns the [Simulator] registered for policy.
func Lookup(policy Policy) (Simulator, error) {
	if simulator, ok := simulators[policy]; ok {
		return simulator, nil
	}
	return nil, fmt.Errorf(
		"%w: %q (expected one of %v)",
		ErrUnknownPolicy, policy, Policies())
}

// Policies returns the registered policy names in lexical order.
func Policies() []Policy {
	policies := make([]Policy, 0, len(simulators))
	for policy := range simulators {
		policies = append(policies, policy)
	}
	slices.Sort(policies)
	return policies
}

func checkCapacity(capacity int) error {
	if capacity < MinimumCapacity {
		return minCapacityError(capacity)
	}
	return nil
}

// indexHint sizes the per-call indexes of a simulation.
// Residency never exceeds the smaller of capacity and sequence length.
func indexHint(capacity, length int) uint32 {
	const maxHint = 1 << 20
	//nolint:gosec // bounded by maxHint.
	return uint32(max(min(capacity, length, maxHint), 0))
}
