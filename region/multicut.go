package region

import "github.com/cocosip/multicut-codec/internal/xslices"

// Point is a pixel coordinate (row, col).
type Point struct {
	R, C int
}

// regionData is one label's arena slot: its point list, monotone age,
// neighbor-label set, and whether the slot is still an active (i.e. not
// yet absorbed) region. Per spec.md §9, this is stored as a parallel
// array indexed by label rather than a graph of pointers, so a join
// only ever rewrites array entries.
type regionData struct {
	Points    []Point
	Age       int
	Neighbors map[int32]struct{}
	Active    bool
}

// Multicut is the region-adjacency structure derived from a Mask: an
// ordered point list and neighbor-label set per region, plus a
// monotone age used by the optimizer's staleness check.
type Multicut struct {
	mask    *Mask
	regions []regionData
}

// NewMulticut builds a Multicut from m in one scan, canonicalizing a
// private working copy of m first if it is not already canonical.
func NewMulticut(m *Mask) *Multicut {
	working := m.Clone()
	k := working.Canonicalize()
	return buildMulticut(working, k)
}

// NewMulticutWithoutRelabel builds a Multicut assuming m is already
// canonical, using one past the maximum label as the region count
// without performing the canonicalization scan.
func NewMulticutWithoutRelabel(m *Mask) *Multicut {
	working := m.Clone()
	maxLabel := int32(-1)
	for r := 0; r < working.Rows(); r++ {
		for c := 0; c < working.Cols(); c++ {
			if l := working.At(r, c); l > maxLabel {
				maxLabel = l
			}
		}
	}
	return buildMulticut(working, int(maxLabel+1))
}

func buildMulticut(m *Mask, k int) *Multicut {
	mc := &Multicut{mask: m, regions: make([]regionData, k)}
	rows, cols := m.Rows(), m.Cols()

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			lbl := m.At(r, c)
			reg := &mc.regions[lbl]
			reg.Active = true
			reg.Points = append(reg.Points, Point{R: r, C: c})

			if c+1 < cols {
				mc.linkIfDistinct(lbl, m.At(r, c+1))
			}
			if r+1 < rows {
				mc.linkIfDistinct(lbl, m.At(r+1, c))
			}
		}
	}
	return mc
}

func (mc *Multicut) linkIfDistinct(a, b int32) {
	if a == b {
		return
	}
	mc.link(a, b)
	mc.link(b, a)
}

func (mc *Multicut) link(from, to int32) {
	reg := &mc.regions[from]
	if reg.Neighbors == nil {
		reg.Neighbors = make(map[int32]struct{})
	}
	reg.Neighbors[to] = struct{}{}
}

// NumLabels returns the arena size (including absorbed, inactive slots).
func (mc *Multicut) NumLabels() int { return len(mc.regions) }

// Mask returns the live mask backing this Multicut; join mutates it.
func (mc *Multicut) Mask() *Mask { return mc.mask }

// Active reports whether label k has not yet been absorbed by a join.
func (mc *Multicut) Active(k int32) bool { return mc.regions[k].Active }

// Age returns region k's join counter.
func (mc *Multicut) Age(k int32) int { return mc.regions[k].Age }

// Points returns region k's point list (do not mutate).
func (mc *Multicut) Points(k int32) []Point { return mc.regions[k].Points }

// Neighbors returns the labels adjacent to region k, in ascending
// order. The underlying set is a map (insertion order is not
// meaningful), so the order is fixed here rather than left to Go's
// randomized map iteration, which would otherwise make the optimizer's
// move-push order — and so tie-breaking in its gain-ordered heap — vary
// from run to run of the same input.
func (mc *Multicut) Neighbors(k int32) []int32 {
	return xslices.SortedKeysInt32(mc.regions[k].Neighbors)
}

// ActiveLabels returns every label that has not been absorbed, in
// ascending order. Because a join always absorbs the larger-numbered
// label into the smaller, this ascending order matches the order a
// final Mask.Canonicalize() pass over the same mask would assign, so
// codecs can enumerate regions here and stay in lock-step with the
// mask's eventual canonical labeling.
func (mc *Multicut) ActiveLabels() []int32 {
	out := make([]int32, 0, len(mc.regions))
	for k := int32(0); k < int32(len(mc.regions)); k++ {
		if mc.regions[k].Active {
			out = append(out, k)
		}
	}
	return out
}

// ValidJoin is the optimizer's cheap staleness check: true iff neither
// region's age has changed since the snapshot (ageA, ageB) was taken.
func (mc *Multicut) ValidJoin(a int32, ageA int, b int32, ageB int) bool {
	return mc.regions[a].Age == ageA && mc.regions[b].Age == ageB
}

// Join merges regions a and b: the larger-numbered label is absorbed
// into the smaller, both ages are bumped, the absorbed region's points
// are appended to the survivor's and relabeled in the mask, and the
// neighbor graph is rewired so every former neighbor of the absorbed
// region now points at the survivor. Returns the surviving label.
func (mc *Multicut) Join(a, b int32) int32 {
	survivor, absorbed := a, b
	if absorbed < survivor {
		survivor, absorbed = absorbed, survivor
	}

	sReg := &mc.regions[survivor]
	aReg := &mc.regions[absorbed]
	sReg.Age++
	aReg.Age++

	sReg.Points = append(sReg.Points, aReg.Points...)
	for _, p := range aReg.Points {
		mc.mask.Set(p.R, p.C, survivor)
	}
	aReg.Points = nil

	if sReg.Neighbors == nil {
		sReg.Neighbors = make(map[int32]struct{})
	}
	for nb := range aReg.Neighbors {
		if nb == survivor {
			continue
		}
		if mc.regions[nb].Neighbors != nil {
			delete(mc.regions[nb].Neighbors, absorbed)
			mc.regions[nb].Neighbors[survivor] = struct{}{}
		}
		sReg.Neighbors[nb] = struct{}{}
	}
	delete(sReg.Neighbors, absorbed)
	delete(sReg.Neighbors, survivor)

	aReg.Neighbors = nil
	aReg.Active = false

	return survivor
}
