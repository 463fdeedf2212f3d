package cachehits

import "fmt"

type constError string

const (
	// ErrInvalidCapacity is returned by every [Simulator]
	// when the requested capacity is not positive.
	ErrInvalidCapacity = constError("invalid capacity")
	// ErrEmptyCache signals an internal bookkeeping defect:
	// an eviction was required but no resident could be chosen.
	ErrEmptyCache = constError("eviction from an empty cache")
	// ErrMalformedSequence is returned when an access sequence
	// cannot be represented as a sequence of [Key].
	ErrMalformedSequence = constError("malformed access sequence")
	// ErrUnknownPolicy is returned from [Lookup].
	ErrUnknownPolicy = constError("unknown policy")
)

func (errStr constError) Error() string { return string(errStr) }

func minCapacityError(capacity int) error {
	return fmt.Errorf(
		"%w: must be >=%d but %d was requested",
		ErrInvalidCapacity, MinimumCapacity, capacity)
}

func emptyCacheError(policy Policy, position int) error {
	return fmt.Errorf(
		"%w: %s found no eviction candidate at access %d",
		ErrEmptyCache, policy, position)
}
