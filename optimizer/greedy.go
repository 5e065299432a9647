package optimizer

import (
	"container/heap"
	"math/rand"

	"github.com/cocosip/multicut-codec/cost"
	"github.com/cocosip/multicut-codec/partition"
	"github.com/cocosip/multicut-codec/region"
)

// PerfectJoinSeed is the fixed RNG seed spec.md §5 requires for the
// perfect-joins pass, so repeated runs over the same input are
// bit-for-bit identical.
const PerfectJoinSeed = 33

// Config parameterizes one greedy optimizer run.
type Config struct {
	// WeightBits and WeightErr combine a cost.Result into the scalar the
	// move heap orders by (spec.md §4.8: gain_val = w_bits*gain.bits +
	// w_err*gain.err).
	WeightBits, WeightErr float64
	// InitPerfectJoins runs the cheap weakly-dominating-neighbor
	// absorption pass before building the move heap.
	InitPerfectJoins bool
	// Observer, if set, is notified of every committed merge. Optional;
	// callers that don't care about per-merge diagnostics leave it nil.
	Observer Observer
}

// Observer lets a caller watch merge events without this package
// depending on any concrete logging library (spec.md §9's diagnostics
// design note, generalized into an always-available no-op interface
// seam rather than a compile-time flag).
type Observer interface {
	OnMerge(a, b int32, gain cost.Result)
}

// Run executes the greedy optimizer (spec.md §4.8) over img starting
// from mask, using codec (which is mutated in place to hold the final
// region statistics) to evaluate join costs. Returns the optimized
// mask; mask itself is not mutated (Multicut clones it internally).
func Run(img region.Image, mask *region.Mask, codec partition.Codec, cfg Config) (*region.Mask, error) {
	mc := region.NewMulticut(mask)
	if err := codec.NotifyInit(img, mc); err != nil {
		return nil, err
	}

	if cfg.InitPerfectJoins {
		applyPerfectJoins(mc, codec)
	}

	h := &moveHeap{}
	heap.Init(h)
	pushed := 0
	for _, a := range mc.ActiveLabels() {
		for _, b := range mc.Neighbors(a) {
			if b <= a {
				continue
			}
			pushMoveIfPositive(h, mc, codec, cfg, a, b)
			pushed++
		}
	}

	for h.Len() > 0 {
		top := heap.Pop(h).(Move)
		if !mc.ValidJoin(top.A, top.AgeA, top.B, top.AgeB) {
			continue
		}

		codec.NotifyJoin(top.A, top.B)
		survivor := mc.Join(top.A, top.B)
		if cfg.Observer != nil {
			cfg.Observer.OnMerge(top.A, top.B, top.Gain)
		}

		for _, n := range mc.Neighbors(survivor) {
			a, b := survivor, n
			if b < a {
				a, b = b, a
			}
			pushMoveIfPositive(h, mc, codec, cfg, a, b)
			pushed++
			if pushed%RebuildInterval == 0 {
				rebuild(h, mc)
			}
		}
	}

	return mc.Mask(), nil
}

// pushMoveIfPositive computes the weighted gain of joining a and b and
// pushes it onto h iff positive (spec.md §4.8 step 5/main loop: a move
// with gain_val <= 0 is never worth proposing).
func pushMoveIfPositive(h *moveHeap, mc *region.Multicut, codec partition.Codec, cfg Config, a, b int32) {
	current := codec.TestEncoding(a).Add(codec.TestEncoding(b))
	joint := codec.TestJoinEncoding(a, b)
	gain := current.Sub(joint)
	gainVal := gain.Weighted(cfg.WeightBits, cfg.WeightErr)
	if gainVal <= 0 {
		return
	}
	heap.Push(h, Move{A: a, B: b, Gain: gain, GainVal: gainVal, AgeA: mc.Age(a), AgeB: mc.Age(b)})
}

// rebuild drops every move the heap holds whose endpoints have since
// been joined elsewhere (spec.md §4.8 step 6).
func rebuild(h *moveHeap, mc *region.Multicut) {
	fresh := (*h)[:0]
	for _, m := range *h {
		if mc.ValidJoin(m.A, m.AgeA, m.B, m.AgeB) {
			fresh = append(fresh, m)
		}
	}
	*h = fresh
	heap.Init(h)
}

// applyPerfectJoins absorbs, for each region in a fixed-seed random
// order, any neighbor whose joint encoding weakly dominates the sum of
// the two regions encoded separately (spec.md §4.8 step 4): bits and
// error both no worse merged than apart, so the merge is free or
// strictly beneficial, and worth taking before the main gain-ordered
// loop even looks at it.
func applyPerfectJoins(mc *region.Multicut, codec partition.Codec) {
	order := mc.ActiveLabels()
	rand.New(rand.NewSource(PerfectJoinSeed)).Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	for _, start := range order {
		a := start
		if !mc.Active(a) {
			continue
		}
		for {
			merged := false
			for _, b := range mc.Neighbors(a) {
				if weaklyDominates(codec, a, b) {
					codec.NotifyJoin(a, b)
					a = mc.Join(a, b)
					merged = true
					break
				}
			}
			if !merged {
				break
			}
		}
	}
}

func weaklyDominates(codec partition.Codec, a, b int32) bool {
	current := codec.TestEncoding(a).Add(codec.TestEncoding(b))
	joint := codec.TestJoinEncoding(a, b)
	return joint.Bits <= current.Bits && joint.Err <= current.Err
}

// Total sums every active region's current encoding cost, the
// "total.cost(w_bits, w_err)" quantity spec.md §4.8 guarantees is
// monotone non-increasing across the main loop.
func Total(mc *region.Multicut, codec partition.Codec) cost.Result {
	var total cost.Result
	for _, k := range mc.ActiveLabels() {
		total = total.Add(codec.TestEncoding(k))
	}
	return total
}
