package cachehits_test

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/djdv/go-cachehits"
)

type scenario struct {
	name     string
	accesses []cachehits.Key
	capacity int
	want     map[cachehits.Policy]int
}

func TestSimulators(t *testing.T) {
	t.Run("invalid capacity", invalidCapacity)
	t.Run("empty sequence", emptySequence)
	t.Run("single slot", singleSlot)
	t.Run("scenarios", scenarios)
	t.Run("lookup", lookup)
	t.Run("lookup unknown", lookupUnknown)
}

func TestProperties(t *testing.T) {
	t.Run("hit bounds", hitBounds)
	t.Run("no eviction", noEviction)
	t.Run("deterministic", deterministic)
	t.Run("optimal bound", optimalBound)
	t.Run("arc oversized", arcOversized)
	t.Run("shared simulator", sharedSimulator)
}

func invalidCapacity(t *testing.T) {
	for _, policy := range cachehits.Policies() {
		for _, capacity := range []int{-1, 0} {
			t.Run(fmt.Sprintf("%s/%d", policy, capacity), func(t *testing.T) {
				t.Parallel()
				simulator := lookupSimulator(t, policy)
				hits, err := simulator.Simulate([]cachehits.Key{1, 2, 1}, capacity)
				if !errors.Is(err, cachehits.ErrInvalidCapacity) {
					t.Fatalf(
						"expected error %v for capacity %d but got: %v",
						cachehits.ErrInvalidCapacity, capacity, err)
				}
				if hits != 0 {
					t.Fatalf("expected no hits on failure but got: %d", hits)
				}
			})
		}
	}
}

func emptySequence(t *testing.T) {
	for _, policy := range cachehits.Policies() {
		t.Run(string(policy), func(t *testing.T) {
			t.Parallel()
			checkHits(t, policy, nil, 4, 0)
			checkHits(t, policy, []cachehits.Key{}, 1, 0)
		})
	}
}

func singleSlot(t *testing.T) {
	for _, policy := range cachehits.Policies() {
		t.Run(string(policy), func(t *testing.T) {
			t.Parallel()
			checkHits(t, policy, []cachehits.Key{1, 1, 1}, 1, 2)
		})
	}
}

func scenarios(t *testing.T) {
	for _, test := range []scenario{
		{
			name:     "furthest reuse",
			accesses: []cachehits.Key{1, 2, 3, 1, 2, 4},
			capacity: 2,
			want: map[cachehits.Policy]int{
				cachehits.PolicyOptimal: 1,
				cachehits.PolicyLFU:     0,
				cachehits.PolicyLFUDA:   0,
				cachehits.PolicyLRU:     0,
			},
		},
		{
			name:     "frequent key survives",
			accesses: []cachehits.Key{5, 5, 5, 6, 6, 7},
			capacity: 2,
			want: map[cachehits.Policy]int{
				cachehits.PolicyOptimal: 3,
				cachehits.PolicyLFU:     3,
				cachehits.PolicyLFUDA:   3,
				cachehits.PolicyLRU:     3,
			},
		},
		{
			// 1 and 2 both reach frequency 2; 2 was promoted first,
			// so it is the tail of the group and gets evicted for 3.
			name:     "recency tie-break",
			accesses: []cachehits.Key{1, 2, 2, 1, 3, 1},
			capacity: 2,
			want: map[cachehits.Policy]int{
				cachehits.PolicyOptimal: 3,
				cachehits.PolicyLFU:     3,
				cachehits.PolicyLFUDA:   3,
				cachehits.PolicyLRU:     3,
			},
		},
		{
			// LFU keeps the stale frequent key 1 forever.
			// LFU-DA ages the cache until 1 is evicted.
			name:     "aging",
			accesses: []cachehits.Key{1, 1, 1, 2, 3, 2, 3, 1},
			capacity: 2,
			want: map[cachehits.Policy]int{
				cachehits.PolicyOptimal: 4,
				cachehits.PolicyLFU:     3,
				cachehits.PolicyLFUDA:   2,
				cachehits.PolicyLRU:     4,
			},
		},
		{
			name:     "never reused",
			accesses: []cachehits.Key{1, 2, 3, 4, 1, 2},
			capacity: 3,
			want: map[cachehits.Policy]int{
				cachehits.PolicyOptimal: 2,
				cachehits.PolicyLFU:     0,
				cachehits.PolicyLFUDA:   0,
				cachehits.PolicyLRU:     0,
			},
		},
		{
			name:     "negative keys",
			accesses: []cachehits.Key{-1, -2, -1, -3, -2, -1},
			capacity: 2,
			want: map[cachehits.Policy]int{
				cachehits.PolicyOptimal: 2,
				cachehits.PolicyLFU:     2,
				cachehits.PolicyLFUDA:   1,
				cachehits.PolicyLRU:     1,
			},
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			for policy, want := range test.want {
				checkHits(t, policy, test.accesses, test.capacity, want)
			}
		})
	}
}

func lookup(t *testing.T) {
	t.Parallel()
	for _, policy := range []cachehits.Policy{
		cachehits.PolicyOptimal,
		cachehits.PolicyLFU,
		cachehits.PolicyLFUDA,
		cachehits.PolicyLRU,
		cachehits.PolicyARC,
	} {
		lookupSimulator(t, policy)
	}
	if got := len(cachehits.Policies()); got != 5 {
		t.Fatalf("expected 5 registered policies but got %d", got)
	}
}

func lookupUnknown(t *testing.T) {
	t.Parallel()
	simulator, err := cachehits.Lookup("fifo")
	if simulator != nil || !errors.Is(err, cachehits.ErrUnknownPolicy) {
		t.Fatalf(
			"expected %v for unregistered policy but got: %v %v",
			cachehits.ErrUnknownPolicy, simulator, err)
	}
}

func hitBounds(t *testing.T) {
	t.Parallel()
	forRandomTraces(t, func(tb testing.TB, accesses []cachehits.Key, capacity int) {
		for _, policy := range cachehits.Policies() {
			hits := mustSimulate(tb, policy, accesses, capacity)
			if hits < 0 || hits > len(accesses) {
				tb.Fatalf(
					"%s hit count out of bounds"+
						"\n\tgot: %d"+
						"\n\twant: [0, %d]",
					policy, hits, len(accesses))
			}
		}
	})
}

func noEviction(t *testing.T) {
	t.Parallel()
	forRandomTraces(t, func(tb testing.TB, accesses []cachehits.Key, _ int) {
		var (
			distinct = countDistinct(accesses)
			want     = len(accesses) - distinct
		)
		for _, capacity := range []int{max(distinct, 1), distinct + 3} {
			for _, policy := range cachehits.Policies() {
				if got := mustSimulate(tb, policy, accesses, capacity); got != want {
					tb.Fatalf(
						"%s with capacity %d >= %d distinct keys should only cold miss"+
							"\n\tgot: %d"+
							"\n\twant: %d",
						policy, capacity, distinct, got, want)
				}
			}
		}
	})
}

func deterministic(t *testing.T) {
	t.Parallel()
	forRandomTraces(t, func(tb testing.TB, accesses []cachehits.Key, capacity int) {
		for _, policy := range cachehits.Policies() {
			var (
				first  = mustSimulate(tb, policy, accesses, capacity)
				second = mustSimulate(tb, policy, accesses, capacity)
			)
			if first != second {
				tb.Fatalf(
					"%s is not deterministic: %d != %d",
					policy, first, second)
			}
		}
	})
}

func optimalBound(t *testing.T) {
	t.Parallel()
	forRandomTraces(t, func(tb testing.TB, accesses []cachehits.Key, capacity int) {
		bound := mustSimulate(tb, cachehits.PolicyOptimal, accesses, capacity)
		for _, policy := range cachehits.Policies() {
			if policy == cachehits.PolicyARC {
				continue // Resident set may exceed capacity.
			}
			if got := mustSimulate(tb, policy, accesses, capacity); got > bound {
				tb.Fatalf(
					"%s out-performed the optimal policy"+
						"\n\tgot: %d"+
						"\n\tbound: %d"+
						"\n\tcapacity: %d"+
						"\n\taccesses: %v",
					policy, got, bound, capacity, accesses)
			}
		}
	})
}

func arcOversized(t *testing.T) {
	t.Parallel()
	const capacity = 1
	accesses := []cachehits.Key{0, 5, 4, 9, 0, 8, 9, 8, 9, 1, 5, 4}
	checkHits(t, cachehits.PolicyOptimal, accesses, capacity, 0)
	checkHits(t, cachehits.PolicyARC, accesses, capacity, 1)
}

func sharedSimulator(t *testing.T) {
	const capacity = 64
	var (
		rng      = newReproducibleRNG()
		accesses = toKeys(makeRandomSequence(rng, capacity*4, 1<<12))
	)
	for _, policy := range cachehits.Policies() {
		var (
			simulator = lookupSimulator(t, policy)
			want      = mustSimulate(t, policy, accesses, capacity)
		)
		t.Run(string(policy), func(t *testing.T) {
			for i := range 4 {
				t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
					t.Parallel()
					got, err := simulator.Simulate(accesses, capacity)
					if err != nil {
						t.Fatal(err)
					}
					if got != want {
						t.Fatalf(
							"concurrent simulation diverged"+
								"\n\tgot: %d"+
								"\n\twant: %d",
							got, want)
					}
				})
			}
		})
	}
}

// forRandomTraces calls check with short random sequences
// over small key universes, so that evictions and ties are frequent.
func forRandomTraces(t *testing.T, check func(tb testing.TB, accesses []cachehits.Key, capacity int)) {
	t.Helper()
	const trials = 300
	rng := newReproducibleRNG()
	for trial := range trials {
		var (
			universe = 1 + rng.Intn(12)
			length   = rng.Intn(64)
			capacity = 1 + rng.Intn(6)
			accesses = toKeys(makeRandomSequence(rng, universe, length))
		)
		t.Run(fmt.Sprintf("trial%d", trial), func(t *testing.T) {
			check(t, accesses, capacity)
		})
	}
}

func lookupSimulator(tb testing.TB, policy cachehits.Policy) cachehits.Simulator {
	tb.Helper()
	simulator, err := cachehits.Lookup(policy)
	if err != nil {
		tb.Fatal(err)
	}
	return simulator
}

func mustSimulate(
	tb testing.TB, policy cachehits.Policy,
	accesses []cachehits.Key, capacity int,
) int {
	tb.Helper()
	hits, err := lookupSimulator(tb, policy).Simulate(accesses, capacity)
	if err != nil {
		tb.Fatalf("%s: %v", policy, err)
	}
	return hits
}

func checkHits(
	tb testing.TB, policy cachehits.Policy,
	accesses []cachehits.Key, capacity, want int,
) {
	tb.Helper()
	got := mustSimulate(tb, policy, accesses, capacity)
	if got == want {
		return
	}
	tb.Fatalf(
		"unexpected %s hit count for %v (capacity %d)"+
			"\n\tgot: %d"+
			"\n\twant: %d",
		policy, accesses, capacity, got, want)
}

func countDistinct(accesses []cachehits.Key) int {
	seen := make(map[cachehits.Key]struct{}, len(accesses))
	for _, key := range accesses {
		seen[key] = struct{}{}
	}
	return len(seen)
}

func toKeys(sequence []int) []cachehits.Key {
	keys := make([]cachehits.Key, len(sequence))
	for i, key := range sequence {
		keys[i] = cachehits.Key(key)
	}
	return keys
}

func newReproducibleRNG() *rand.Rand {
	return rand.New(rand.NewSource(rngSeed))
}
