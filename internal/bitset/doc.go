// Package bitset provides a fixed-capacity lock-free bitset for concurrent access.
//
// Architecture:
//   - Flat array of atomic.Uint64 words sized once at construction
//   - Lock-free: single-bit updates are atomic OR / AND on one word
//   - Ordered scans: NextSetBit walks words from a start index
//
// Used internally for:
//   - Dirty-state tracking of the reachability work queue
package bitset
