// Package optimizer implements the greedy single-region-merge optimizer
// and its grid-parallel variant from spec.md §4.8/§4.9: repeatedly merge
// the adjacent region pair with the largest weighted cost reduction
// until no positive-gain merge remains.
package optimizer

import "github.com/cocosip/multicut-codec/cost"

// RebuildInterval is how often the heap is rebuilt to drop entries
// made stale by later joins, rather than letting them accumulate until
// popped (spec.md §4.8 step 6). Run counts every candidate move it
// evaluates toward this interval, including those not pushed because
// their gain was not positive.
const RebuildInterval = 25000

// Move is one candidate region join: its cost delta, the weighted
// scalar the heap orders by, and the ages its endpoints had when the
// move was computed (so a later join elsewhere can be detected as
// having staled this move without rescanning the whole heap).
type Move struct {
	A, B       int32
	Gain       cost.Result
	GainVal    float64
	AgeA, AgeB int
}

// moveHeap is a max-heap on GainVal, the largest weighted gain always
// at the root (container/heap's interface expects Less to define "higher
// priority", which here is "larger gain").
type moveHeap []Move

func (h moveHeap) Len() int            { return len(h) }
func (h moveHeap) Less(i, j int) bool  { return h[i].GainVal > h[j].GainVal }
func (h moveHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *moveHeap) Push(x interface{}) { *h = append(*h, x.(Move)) }
func (h *moveHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
