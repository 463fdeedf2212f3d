package cachehits_test

import (
	"fmt"

	cachehits "github.com/djdv/go-cachehits"
)

func ExampleOptimal() {
	const capacity = 2
	accesses := []cachehits.Key{1, 1, 1, 2, 3, 2, 3, 1}
	hits, err := cachehits.Optimal{}.Simulate(accesses, capacity)
	if err != nil {
		panic(err) // TODO(Anyone): Handle error.
	}
	fmt.Println("hits:", hits)
	// Output:
	// hits: 4
}

func ExampleLookup() {
	const capacity = 2
	accesses := []cachehits.Key{1, 1, 1, 2, 3, 2, 3, 1}
	for _, policy := range []cachehits.Policy{
		cachehits.PolicyLFU,
		cachehits.PolicyLFUDA,
	} {
		simulator, err := cachehits.Lookup(policy)
		if err != nil {
			panic(err) // TODO(Anyone): Handle error.
		}
		hits, err := simulator.Simulate(accesses, capacity)
		if err != nil {
			panic(err) // TODO(Anyone): Handle error.
		}
		fmt.Printf("%s: %d\n", policy, hits)
	}
	// Output:
	// lfu: 3
	// lfuda: 2
}
