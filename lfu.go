package cachehits

import (
	"github.com/dolthub/swiss"

	"github.com/djdv/go-cachehits/internal/ring"
)

type (
	// LFU simulates least-frequently-used replacement.
	//
	// Residents are grouped by access frequency.
	// Within a group, the most recently promoted resident is at the head.
	// On an eviction miss, the tail of the lowest frequency group is evicted
	// and the new key enters the frequency 1 group at its head.
	LFU struct{}

	lfuResident struct {
		group *ring.Ring[frequencyGroup]
		key   Key
	}
	lfuNode        = ring.Ring[lfuResident]
	frequencyGroup struct {
		residents ring.Ring[lfuResident] // Sentinel.
		frequency uint64
	}
	frequencyNode = ring.Ring[frequencyGroup]
	lfuCache      struct {
		index    *swiss.Map[Key, *lfuNode]
		groups   frequencyNode // Sentinel; ascending frequency from groups.Next().
		capacity int
	}
)

// Simulate implements [Simulator].
func (LFU) Simulate(accesses []Key, capacity int) (int, error) {
	if err := checkCapacity(capacity); err != nil {
		return 0, err
	}
	var (
		cache = newLFUCache(capacity, len(accesses))
		hits  int
	)
	for position, key := range accesses {
		hit, ok := cache.access(key)
		if !ok {
			return 0, emptyCacheError(PolicyLFU, position)
		}
		if hit {
			hits++
		}
	}
	return hits, nil
}

func newLFUCache(capacity, length int) *lfuCache {
	return &lfuCache{
		index:    swiss.NewMap[Key, *lfuNode](indexHint(capacity, length)),
		capacity: capacity,
	}
}

// access records a reference to key and reports whether it was a hit.
// ok is false only if an eviction was required but not possible.
func (c *lfuCache) access(key Key) (hit, ok bool) {
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

func (c *lfuCache) promote(node *lfuNode) {
	var (
		current = node.Value.group
		next    = c.groupAfter(current, current.Value.frequency+1)
	)
	next.Value.residents.Link(node.Remove())
	node.Value.group = next
	c.dropIfEmpty(current)
}

func (c *lfuCache) insert(key Key) {
	const initialFrequency = 1
	var (
		group = c.groupAfter(&c.groups, initialFrequency)
		node  = &lfuNode{
			Value: lfuResident{
				group: group,
				key:   key,
			},
		}
	)
	group.Value.residents.Link(node)
	c.index.Put(key, node)
}

// evict removes the least recently promoted resident
// of the lowest frequency group.
func (c *lfuCache) evict() bool {
	least := c.groups.Next()
	if least == &c.groups {
		return false
	}
	if debugging {
		assertf(!least.Value.residents.Alone(),
			"empty frequency group %d was retained", least.Value.frequency)
	}
	victim := least.Value.residents.Prev().Remove()
	c.index.Delete(victim.Value.key)
	c.dropIfEmpty(least)
	return true
}

// groupAfter returns the group following previous if it
// has the requested frequency, otherwise it links and returns
// a new group for that frequency directly after previous.
func (c *lfuCache) groupAfter(previous *frequencyNode, frequency uint64) *frequencyNode {
	if next := previous.Next(); next != &c.groups &&
		next.Value.frequency == frequency {
		return next
	}
	group := &frequencyNode{
		Value: frequencyGroup{frequency: frequency},
	}
	previous.Link(group)
	return group
}

func (c *lfuCache) dropIfEmpty(group *frequencyNode) {
	if group.Value.residents.Alone() {
		group.Remove()
	}
}
