package cachehits

import (
	"container/heap"

	"github.com/dolthub/swiss"
	"github.com/gammazero/deque"
)

type (
	// Optimal simulates Belady's clairvoyant replacement policy.
	//
	// On an eviction miss, the resident whose next access lies
	// furthest in the future is evicted. Residents that are never
	// accessed again are evicted before any other; among those,
	// the smallest key is evicted first.
	// Hits do not change residency.
	//
	// The hit count is the upper bound for every other policy
	// over the same sequence and capacity.
	Optimal struct{}

	// occurrences maps each key to the ascending
	// positions at which it is still to be accessed.
	occurrences struct {
		positions *swiss.Map[Key, *deque.Deque[int]]
		horizon   int
	}
	clairvoyant struct {
		key         Key
		next, index int
	}
	// furthestFirst is a max-heap of residents
	// ordered by their next access.
	furthestFirst []*clairvoyant
)

// Simulate implements [Simulator].
func (Optimal) Simulate(accesses []Key, capacity int) (int, error) {
	if err := checkCapacity(capacity); err != nil {
		return 0, err
	}
	var (
		upcoming = newOccurrences(accesses)
		hint     = indexHint(capacity, len(accesses))
		resident = swiss.NewMap[Key, *clairvoyant](hint)
		victims  = make(furthestFirst, 0, hint)
		hits     int
	)
	for position, key := range accesses {
		next := upcoming.advance(key)
		if entry, ok := resident.Get(key); ok {
			hits++
			entry.next = next
			heap.Fix(&victims, entry.index)
			continue
		}
		if resident.Count() == capacity {
			if victims.Len() == 0 {
				return 0, emptyCacheError(PolicyOptimal, position)
			}
			victim := heap.Pop(&victims).(*clairvoyant)
			resident.Delete(victim.key)
		}
		entry := &clairvoyant{key: key, next: next}
		heap.Push(&victims, entry)
		resident.Put(key, entry)
		if debugging {
			assertf(resident.Count() == victims.Len(),
				"%d residents but %d eviction candidates at access %d",
				resident.Count(), victims.Len(), position)
			assertf(resident.Count() <= capacity,
				"%d residents exceed capacity %d", resident.Count(), capacity)
		}
	}
	return hits, nil
}

func newOccurrences(accesses []Key) occurrences {
	upcoming := occurrences{
		positions: swiss.NewMap[Key, *deque.Deque[int]](indexHint(len(accesses), len(accesses))),
		horizon:   len(accesses),
	}
	for position, key := range accesses {
		queue, ok := upcoming.positions.Get(key)
		if !ok {
			queue = deque.New[int]()
			upcoming.positions.Put(key, queue)
		}
		queue.PushBack(position)
	}
	return upcoming
}

// advance consumes the current access of key and returns
// the position of its next access, or the horizon
// (one past the last position) if there is none.
func (o occurrences) advance(key Key) int {
	queue, _ := o.positions.Get(key)
	queue.PopFront()
	if queue.Len() == 0 {
		return o.horizon
	}
	return queue.Front()
}

func (h furthestFirst) Len() int { return len(h) }

func (h furthestFirst) Less(i, j int) bool {
	if h[i].next != h[j].next {
		return h[i].next > h[j].next
	}
	return h[i].key < h[j].key
}

func (h furthestFirst) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *furthestFirst) Push(x any) {
	entry := x.(*clairvoyant)
	entry.index = len(*h)
	*h = append(*h, entry)
}

func (h *furthestFirst) Pop() any {
	var (
		old   = *h
		n     = len(old)
		entry = old[n-1]
	)
	old[n-1] = nil
	entry.index = -1
	*h = old[:n-1]
	return entry
}
