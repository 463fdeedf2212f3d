package cachehits

import (
	"fmt"

	"github.com/hashicorp/golang-lru/arc/v2"
	"github.com/hashicorp/golang-lru/v2/simplelru"
)

type (
	// LRU simulates least-recently-used replacement
	// using hashicorp/golang-lru as the reference implementation.
	LRU struct{}
	// ARC simulates the adaptive replacement cache
	// using hashicorp/golang-lru as the reference implementation.
	// Its recent and frequent lists are each bounded by capacity,
	// so up to 2*capacity keys may be resident and ARC may
	// exceed the [Optimal] hit count.
	ARC struct{}

	referenceCache interface {
		Get(Key) (struct{}, bool)
		Set(Key)
	}
	lruAdapter struct {
		*simplelru.LRU[Key, struct{}]
	}
	arcAdapter struct {
		*arc.ARCCache[Key, struct{}]
	}
)

func (la lruAdapter) Set(key Key) { la.Add(key, struct{}{}) }
func (aa arcAdapter) Set(key Key) { aa.Add(key, struct{}{}) }

// Simulate implements [Simulator].
func (LRU) Simulate(accesses []Key, capacity int) (int, error) {
	if err := checkCapacity(capacity); err != nil {
		return 0, err
	}
	cache, err := simplelru.NewLRU[Key, struct{}](capacity, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidCapacity, err)
	}
	return replay(lruAdapter{LRU: cache}, accesses), nil
}

// Simulate implements [Simulator].
func (ARC) Simulate(accesses []Key, capacity int) (int, error) {
	if err := checkCapacity(capacity); err != nil {
		return 0, err
	}
	cache, err := arc.NewARC[Key, struct{}](capacity)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidCapacity, err)
	}
	return replay(arcAdapter{ARCCache: cache}, accesses), nil
}

func replay(cache referenceCache, accesses []Key) (hits int) {
	for _, key := range accesses {
		if _, ok := cache.Get(key); ok {
			hits++
			continue
		}
		cache.Set(key)
	}
	return hits
}
