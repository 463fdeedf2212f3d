// Package cachehits computes exact hit counts for cache replacement policies.
//
// Each [Simulator] replays a sequence of [Key] accesses against an initially
// empty cache of fixed capacity and reports how many accesses hit.
// The results are used as ground-truth answers for replacement policy
// exercises, so every tie-break below is part of the contract.
//
// Glossary and invariants:
//
//   - Residency set
//
//     The keys currently held by the cache.
//     Never larger than the capacity; always exactly the capacity once filled.
//     Evicted keys leave no metadata behind.
//
//   - Cold miss
//
//     A miss while the cache still has room. Nothing is evicted.
//
//   - Eviction miss
//
//     A miss on a full cache. One resident is evicted before the key is inserted.
//
//   - Group
//
//     The residents sharing a frequency ([LFU]) or weight ([LFUDA]),
//     ordered by recency of promotion; the head is the most recently promoted
//     and the tail is the eviction candidate.
//
//   - Age
//
//     The [LFUDA] baseline. Starts at 0 and is raised to the weight of every
//     evicted resident, so it never decreases and never exceeds a resident weight.
//
// Policies:
//
//   - [Optimal]
//
//     Belady's offline policy: evicts the resident accessed furthest in the future.
//     Residents never accessed again go first, smallest key first among them.
//
//   - [LFU]
//
//     Evicts the tail of the lowest frequency group.
//     New keys enter at the head of the frequency 1 group.
//
//   - [LFUDA]
//
//     Evicts the tail of the lowest weight group and ages the cache to that weight.
//     New keys enter with weight age+1; hits recompute weight as age+frequency.
//
//   - [LRU], [ARC]
//
//     Production policies backed by hashicorp/golang-lru,
//     used only to compare against the policies above.
//     ARC may hold up to twice the capacity.
//
// Simulators hold no state between calls and every call owns its own
// residency set, so independent simulations may run concurrently.
// For any sequence and capacity, the [Optimal] hit count is an upper bound
// for every policy except [ARC]. If the capacity is at least the number
// of distinct keys, every policy hits on all but the first access of each key.
//
// Internal invariants are asserted (by panicking) when built with the
// `cachehits_debug` tag.
package cachehits
