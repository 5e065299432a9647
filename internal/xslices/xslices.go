// Package xslices layers a couple of small, repo-specific helpers over
// golang.org/x/exp/slices, the way spec.md §5's ordering guarantee
// requires: any place this codec turns a Go map into a slice for
// traversal must sort it first, or the traversal order (and therefore
// the emitted bitstream) is not reproducible across runs.
package xslices

import "golang.org/x/exp/slices"

// SortedKeysInt32 returns m's keys as an ascending, deduplicated slice.
// Go map iteration order is randomized per-process; every codec path
// that walks a label set (neighbor sets, active-region sets) needs a
// fixed order to satisfy the bit-for-bit reproducibility spec.md §5
// demands, so this is the one place that randomness is laundered out.
func SortedKeysInt32(m map[int32]struct{}) []int32 {
	out := make([]int32, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// DedupSortedInt32 sorts s ascending in place and removes adjacent
// duplicates, returning the deduplicated prefix.
func DedupSortedInt32(s []int32) []int32 {
	slices.Sort(s)
	return slices.Compact(s)
}
