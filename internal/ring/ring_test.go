package ring_test

import (
	"slices"
	"testing"

	"github.com/djdv/go-cachehits/internal/ring"
)

func TestRing(t *testing.T) {
	t.Run("zero sentinel", zeroSentinel)
	t.Run("head insert", headInsert)
	t.Run("remove", remove)
	t.Run("remove only member", removeOnly)
	t.Run("move", move)
}

func zeroSentinel(t *testing.T) {
	t.Parallel()
	var sentinel ring.Ring[int]
	if !sentinel.Alone() {
		t.Fatal("zero value sentinel should be alone")
	}
	if got := sentinel.Len(); got != 1 {
		t.Fatalf("expected sentinel length 1, got %d", got)
	}
	checkMembers(t, &sentinel, nil)
}

func headInsert(t *testing.T) {
	t.Parallel()
	sentinel := pushAll(1, 2, 3)
	// Last pushed is the head.
	checkMembers(t, sentinel, []int{3, 2, 1})
	if tail := sentinel.Prev().Value; tail != 1 {
		t.Fatalf("expected tail 1, got %d", tail)
	}
	if got := sentinel.Len(); got != 4 {
		t.Fatalf("expected ring length 4, got %d", got)
	}
}

func remove(t *testing.T) {
	t.Parallel()
	sentinel := pushAll(1, 2, 3)
	middle := sentinel.Next().Next()
	removed := middle.Remove()
	if removed != middle {
		t.Fatal("Remove should return the removed element")
	}
	if !removed.Alone() {
		t.Fatal("removed element should be a one-element ring")
	}
	checkMembers(t, sentinel, []int{3, 1})
	// Reinsert at the head of another group.
	var other ring.Ring[int]
	other.Link(removed)
	checkMembers(t, &other, []int{2})
	checkMembers(t, sentinel, []int{3, 1})
}

func removeOnly(t *testing.T) {
	t.Parallel()
	sentinel := pushAll(7)
	sentinel.Prev().Remove()
	if !sentinel.Alone() {
		t.Fatal("sentinel should be alone after removing its only member")
	}
}

func move(t *testing.T) {
	t.Parallel()
	sentinel := pushAll(1, 2, 3)
	if got := sentinel.Move(1).Value; got != 3 {
		t.Fatalf("expected head 3, got %d", got)
	}
	if got := sentinel.Move(-1).Value; got != 1 {
		t.Fatalf("expected tail 1, got %d", got)
	}
	if got := sentinel.Move(4); got != sentinel {
		t.Fatal("moving a full lap should return to the sentinel")
	}
}

func pushAll(values ...int) *ring.Ring[int] {
	sentinel := new(ring.Ring[int])
	for _, value := range values {
		sentinel.Link(&ring.Ring[int]{Value: value})
	}
	return sentinel
}

func checkMembers(tb testing.TB, sentinel *ring.Ring[int], want []int) {
	tb.Helper()
	var got []int
	for member := range sentinel.Members() {
		got = append(got, member.Value)
	}
	if !slices.Equal(got, want) {
		tb.Fatalf(
			"unexpected members"+
				"\n\tgot: %v"+
				"\n\twant: %v",
			got, want)
	}
}
