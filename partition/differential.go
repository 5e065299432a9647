package partition

import (
	"github.com/cocosip/multicut-codec/bitstream"
	"github.com/cocosip/multicut-codec/cost"
	"github.com/cocosip/multicut-codec/entropy"
	"github.com/cocosip/multicut-codec/entropy/arith"
	"github.com/cocosip/multicut-codec/region"
)

// DiffPrecision is the quantized frequency-table precision shared with
// the block context encoder's clamp rule (spec.md §4.3/§4.6).
const DiffPrecision = 16

// diffAlphabet is the symbol count for an inter-region difference in
// [-255,255], offset by diffOffset to a nonnegative table index.
const diffAlphabet = 511
const diffOffset = 255

// DifferentialMeanCodec is the mean-color codec variant from spec.md
// §4.6: instead of raw 8-bit-per-channel tuples, it streams three
// arithmetic-coded difference sequences in canonical label order —
// channel 0 against the previous region's channel 0, channels 1 and 2
// against the same region's own preceding channel — rather than three
// independent per-channel inter-region streams (see regionDiffs).
// Region statistics (mean, error, join cost) are identical to MeanCodec;
// only WriteEncoding/Decode differ.
type DifferentialMeanCodec struct {
	inner *MeanCodec
}

// NewDifferentialMeanCodec creates an uninitialized differential-mean codec.
func NewDifferentialMeanCodec() *DifferentialMeanCodec {
	return &DifferentialMeanCodec{inner: NewMeanCodec()}
}

var _ Codec = (*DifferentialMeanCodec)(nil)

func (c *DifferentialMeanCodec) Clone() Codec {
	return &DifferentialMeanCodec{inner: c.inner.Clone().(*MeanCodec)}
}

func (c *DifferentialMeanCodec) NotifyInit(img region.Image, mc *region.Multicut) error {
	return c.inner.NotifyInit(img, mc)
}

func (c *DifferentialMeanCodec) TestEncoding(k int32) cost.Result {
	return c.inner.TestEncoding(k)
}

func (c *DifferentialMeanCodec) TestJoinEncoding(a, b int32) cost.Result {
	return c.inner.TestJoinEncoding(a, b)
}

func (c *DifferentialMeanCodec) NotifyJoin(a, b int32) {
	c.inner.NotifyJoin(a, b)
}

// regionDiffs returns the three difference streams mean_codec.h's
// DifferentialMeanCodec actually codes: channel 0 against the previous
// region's channel 0 (inter-region; the first region diffs against
// zero), then channel 1 against this same region's own channel 0, then
// channel 2 against this same region's own channel 1 — two of the three
// streams are intra-region, chained across channels rather than across
// regions. Each difference lies in [-255,255], offset to [0,diffAlphabet)
// for table indexing.
func (c *DifferentialMeanCodec) regionDiffs(mc *region.Multicut) (d0, d1, d2 []int) {
	labels := mc.ActiveLabels()
	d0 = make([]int, len(labels))
	d1 = make([]int, len(labels))
	d2 = make([]int, len(labels))
	prev0 := 0
	for i, k := range labels {
		s := c.inner.stats[k]
		v0 := int(clampByte(s.mean[0]))
		v1 := int(clampByte(s.mean[1]))
		v2 := int(clampByte(s.mean[2]))
		d0[i] = (v0 - prev0) + diffOffset
		d1[i] = (v1 - v0) + diffOffset
		d2[i] = (v2 - v1) + diffOffset
		prev0 = v0
	}
	return d0, d1, d2
}

func writeFreqTable(bs *bitstream.BitStream, quantized []uint64) error {
	for _, q := range quantized {
		if err := bs.Append(q, DiffPrecision); err != nil {
			return err
		}
	}
	return nil
}

func readFreqTable(r *bitstream.BitReader, n int) ([]uint64, error) {
	out := make([]uint64, n)
	for i := range out {
		v, err := r.Read(DiffPrecision)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// WriteEncoding streams three arithmetic-coded difference streams (d0,
// d1, d2 from regionDiffs), each preceded by its own quantized frequency
// table.
func (c *DifferentialMeanCodec) WriteEncoding(bs *bitstream.BitStream, mc *region.Multicut) error {
	d0, d1, d2 := c.regionDiffs(mc)
	for _, symbols := range [][]int{d0, d1, d2} {
		counts := make([]uint64, diffAlphabet)
		for _, s := range symbols {
			counts[s]++
		}
		quantized := entropy.QuantizeCounts(counts, DiffPrecision)
		if err := writeFreqTable(bs, quantized); err != nil {
			return err
		}
		table := entropy.NewFrequencyTable(quantized)
		if err := arith.WriteFramed(bs, table, symbols); err != nil {
			return err
		}
	}
	return nil
}

// Decode reverses WriteEncoding and repaints img from mask.
func (c *DifferentialMeanCodec) Decode(r *bitstream.BitReader, mask *region.Mask, numRegions int, img region.Image) error {
	var channels [3][]int
	for ch := 0; ch < 3; ch++ {
		quantized, err := readFreqTable(r, diffAlphabet)
		if err != nil {
			return err
		}
		table := entropy.NewFrequencyTable(quantized)
		symbols, err := arith.ReadFramed(r, table, numRegions)
		if err != nil {
			return err
		}
		channels[ch] = symbols
	}

	// Undo regionDiffs: channel 0 chains across regions, channels 1 and 2
	// chain across channels within the region just reconstructed.
	colors := make([]region.Pixel, numRegions)
	prev0 := 0
	for k := 0; k < numRegions; k++ {
		v0 := prev0 + (channels[0][k] - diffOffset)
		v1 := v0 + (channels[1][k] - diffOffset)
		v2 := v1 + (channels[2][k] - diffOffset)
		colors[k] = region.Pixel{byte(v0), byte(v1), byte(v2)}
		prev0 = v0
	}

	for rr := 0; rr < mask.Rows(); rr++ {
		for cc := 0; cc < mask.Cols(); cc++ {
			img.Set(rr, cc, colors[mask.At(rr, cc)])
		}
	}
	return nil
}
