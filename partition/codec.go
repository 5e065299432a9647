// Package partition implements the mean-color partition (color) codec
// from spec.md §4.6: per-region mean color with an incrementally
// maintained squared-error metric whose join cost is computable from
// current region means alone, no pixel rescan required.
package partition

import (
	"github.com/cocosip/multicut-codec/bitstream"
	"github.com/cocosip/multicut-codec/cost"
	"github.com/cocosip/multicut-codec/region"
)

// BitsPerRegion is the fixed per-region color cost: three 8-bit
// channels (spec.md §4.6 "24 bits per region").
const BitsPerRegion = 24

// Codec is the uniform operation set spec.md §9 calls for: a partition
// codec must be clonable (the grid optimizer spawns per-tile copies),
// support the greedy optimizer's test/commit protocol, and serialize to
// and deserialize from a BitStream.
type Codec interface {
	// Clone returns a deep copy suitable for an independent optimizer run.
	Clone() Codec

	// NotifyInit computes initial per-region statistics from img over
	// every active region of mc.
	NotifyInit(img region.Image, mc *region.Multicut) error

	// TestEncoding returns region k's current encoding cost.
	TestEncoding(k int32) cost.Result

	// TestJoinEncoding predicts the cost of joining a and b without
	// mutating any state.
	TestJoinEncoding(a, b int32) cost.Result

	// NotifyJoin commits the join's statistics update into both a and
	// b's slots (whichever survives keeps the merged values).
	NotifyJoin(a, b int32)

	// WriteEncoding serializes every active region of mc, in
	// mc.ActiveLabels() order, onto bs.
	WriteEncoding(bs *bitstream.BitStream, mc *region.Multicut) error

	// Decode reconstructs img's pixels from mask using a stream
	// produced by WriteEncoding, given mask has numRegions canonical
	// labels 0..numRegions-1.
	Decode(r *bitstream.BitReader, mask *region.Mask, numRegions int, img region.Image) error
}
