// Package ring is a generic adaption of `container/ring`
// used to keep ordered groups of cache residents.
//
// A group is a ring headed by a sentinel element.
// The element after the sentinel is the head of the group
// (most recently promoted) and the element before it is the tail
// (the eviction candidate).
package ring

import "iter"

// A Ring is an element of a circular list, or ring.
// A pointer to any element serves as reference to the entire ring.
// The zero value for a Ring is a one-element ring with a zero Value,
// which makes it usable as an empty group sentinel without initialization.
type Ring[Value any] struct {
	next, prev *Ring[Value]
	Value      Value
}

func (r *Ring[Value]) init() *Ring[Value] {
	r.next = r
	r.prev = r
	return r
}

// Next returns the next ring element.
func (r *Ring[Value]) Next() *Ring[Value] {
	if r.next == nil {
		return r.init()
	}
	return r.next
}

// Prev returns the previous ring element.
func (r *Ring[Value]) Prev() *Ring[Value] {
	if r.next == nil {
		return r.init()
	}
	return r.prev
}

// Move moves n % r.Len() elements backward (n < 0) or forward (n >= 0)
// in the ring and returns that ring element.
func (r *Ring[Value]) Move(n int) *Ring[Value] {
	if r.next == nil {
		return r.init()
	}
	switch {
	case n < 0:
		for ; n < 0; n++ {
			r = r.prev
		}
	case n > 0:
		for ; n > 0; n-- {
			r = r.next
		}
	}
	return r
}

// Link connects ring r with ring s such that r.Next()
// becomes s and returns the original value for r.Next().
//
// Linking a one-element ring s to a sentinel r
// makes s the new head of the group r.
//
// If r and s point to the same ring, linking
// them removes the elements between r and s from the ring.
// The removed elements form a subring and the result is a
// reference to that subring.
func (r *Ring[Value]) Link(s *Ring[Value]) *Ring[Value] {
	n := r.Next()
	if s != nil {
		p := s.Prev()
		// Note: Cannot use multiple assignment because
		// evaluation order of LHS is not specified.
		r.next = s
		s.prev = r
		n.prev = p
		p.next = n
	}
	return n
}

// Unlink removes n % r.Len() elements from the ring r, starting
// at r.Next(). If n % r.Len() == 0, r remains unchanged.
// The result is the removed subring.
func (r *Ring[Value]) Unlink(n int) *Ring[Value] {
	if n <= 0 {
		return nil
	}
	return r.Link(r.Move(n + 1))
}

// Remove takes r out of whatever ring it is part of
// and returns it as a one-element ring.
func (r *Ring[Value]) Remove() *Ring[Value] {
	return r.Prev().Unlink(1)
}

// Alone reports whether r is the only element of its ring.
// For a sentinel, this means the group it heads is empty.
func (r *Ring[Value]) Alone() bool {
	return r.next == nil || r.next == r
}

// Len computes the number of elements in ring r.
// It executes in time proportional to the number of elements.
func (r *Ring[Value]) Len() int {
	n := 0
	if r != nil {
		n = 1
		for p := r.Next(); p != r; p = p.next {
			n++
		}
	}
	return n
}

// Members returns an iterator over the elements following the sentinel r,
// head first, excluding r itself.
func (r *Ring[Value]) Members() iter.Seq[*Ring[Value]] {
	return func(yield func(*Ring[Value]) bool) {
		for p := r.Next(); p != r; p = p.next {
			if !yield(p) {
				return
			}
		}
	}
}
