package cachehits

import (
	"container/heap"

	"github.com/dolthub/swiss"

	"github.com/djdv/go-cachehits/internal/ring"
)

type (
	// LFUDA simulates least-frequently-used replacement with dynamic aging.
	//
	// Every resident carries a weight of age+frequency, computed
	// when it is inserted or promoted. On an eviction miss, the tail
	// of the lowest weight group is evicted and the cache age is
	// raised to the evicted weight, so that long idle residents with
	// a high frequency eventually become eviction candidates.
	LFUDA struct{}

	lfudaResident struct {
		key       Key
		frequency uint64
		weight    uint64
	}
	lfudaNode   = ring.Ring[lfudaResident]
	weightGroup struct {
		residents ring.Ring[lfudaResident] // Sentinel.
		weight    uint64
		index     int // Position in [lightestFirst].
	}
	// lightestFirst is a min-heap of weight groups.
	lightestFirst []*weightGroup
	lfudaCache    struct {
		index    *swiss.Map[Key, *lfudaNode]
		groups   *swiss.Map[uint64, *weightGroup]
		order    lightestFirst
		capacity int
		age      uint64
	}
)

// Simulate implements [Simulator].
func (LFUDA) Simulate(accesses []Key, capacity int) (int, error) {
	if err := checkCapacity(capacity); err != nil {
		return 0, err
	}
	var (
		cache = newLFUDACache(capacity, len(accesses))
		hits  int
	)
	for position, key := range accesses {
		hit, ok := cache.access(key)
		if !ok {
			return 0, emptyCacheError(PolicyLFUDA, position)
		}
		if hit {
			hits++
		}
	}
	return hits, nil
}

func newLFUDACache(capacity, length int) *lfudaCache {
	hint := indexHint(capacity, length)
	return &lfudaCache{
		index:    swiss.NewMap[Key, *lfudaNode](hint),
		groups:   swiss.NewMap[uint64, *weightGroup](hint),
		capacity: capacity,
	}
}

// access records a reference to key and reports whether it was a hit.
// ok is false only if an eviction was required but not possible.
func (c *lfudaCache) access(key Key) (hit, ok bool) {
	if node, resident := c.index.Get(key); resident {
		c.promote(node)
		return true, true
	}
	if c.index.Count() == c.capacity {
		if !c.evict() {
			return false, false
		}
	}
	c.insert(key)
	if debugging {
		assertf(c.index.Count() <= c.capacity,
			"%d residents exceed capacity %d", c.index.Count(), c.capacity)
	}
	return false, true
}

func (c *lfudaCache) promote(node *lfudaNode) {
	previous, _ := c.groups.Get(node.Value.weight)
	node.Remove()
	node.Value.frequency++
	node.Value.weight = c.age + node.Value.frequency
	c.group(node.Value.weight).residents.Link(node)
	c.dropIfEmpty(previous)
}

func (c *lfudaCache) insert(key Key) {
	const initialFrequency = 1
	node := &lfudaNode{
		Value: lfudaResident{
			key:       key,
			frequency: initialFrequency,
			weight:    c.age + initialFrequency,
		},
	}
	c.group(node.Value.weight).residents.Link(node)
	c.index.Put(key, node)
}

// evict removes the least recently promoted resident
// of the lowest weight group, and ages the cache to its weight.
func (c *lfudaCache) evict() bool {
	if len(c.order) == 0 {
		return false
	}
	lightest := c.order[0]
	if debugging {
		assertf(!lightest.residents.Alone(),
			"empty weight group %d was retained", lightest.weight)
		assertf(lightest.weight >= c.age,
			"weight %d is below the cache age %d", lightest.weight, c.age)
	}
	victim := lightest.residents.Prev().Remove()
	c.index.Delete(victim.Value.key)
	c.age = victim.Value.weight
	c.dropIfEmpty(lightest)
	return true
}

// group returns the group for weight, creating it if needed.
func (c *lfudaCache) group(weight uint64) *weightGroup {
	if group, ok := c.groups.Get(weight); ok {
		return group
	}
	group := &weightGroup{weight: weight}
	heap.Push(&c.order, group)
	c.groups.Put(weight, group)
	return group
}

func (c *lfudaCache) dropIfEmpty(group *weightGroup) {
	if group.residents.Alone() {
		heap.Remove(&c.order, group.index)
		c.groups.Delete(group.weight)
	}
}

func (h lightestFirst) Len() int           { return len(h) }
func (h lightestFirst) Less(i, j int) bool { return h[i].weight < h[j].weight }

func (h lightestFirst) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *lightestFirst) Push(x any) {
	group := x.(*weightGroup)
	group.index = len(*h)
	*h = append(*h, group)
}

func (h *lightestFirst) Pop() any {
	var (
		old   = *h
		n     = len(old)
		group = old[n-1]
	)
	old[n-1] = nil
	group.index = -1
	*h = old[:n-1]
	return group
}
