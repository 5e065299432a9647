package partition

import (
	"github.com/cocosip/multicut-codec/bitstream"
	"github.com/cocosip/multicut-codec/cost"
	"github.com/cocosip/multicut-codec/region"
)

// regionStats is one region's incrementally-maintained mean color and
// accumulated squared error, arena-indexed the same way region.Multicut
// indexes its own per-label slots.
type regionStats struct {
	mean  [3]float64
	err   float64
	count int
}

// MeanCodec is spec.md §4.6's mean-color partition codec: E_k is the
// summed squared distance from every pixel in region k to k's mean
// color, maintained without ever rescanning pixels after NotifyInit.
type MeanCodec struct {
	stats []regionStats
}

// NewMeanCodec creates an uninitialized mean-color codec.
func NewMeanCodec() *MeanCodec { return &MeanCodec{} }

var _ Codec = (*MeanCodec)(nil)

// Clone returns an independent deep copy for a grid-optimizer tile.
func (c *MeanCodec) Clone() Codec {
	return &MeanCodec{stats: append([]regionStats(nil), c.stats...)}
}

// NotifyInit computes (mean, E) for every active region by scanning its
// pixels exactly once; all later updates are incremental.
func (c *MeanCodec) NotifyInit(img region.Image, mc *region.Multicut) error {
	c.stats = make([]regionStats, mc.NumLabels())
	for _, k := range mc.ActiveLabels() {
		pts := mc.Points(k)
		n := len(pts)

		var sum [3]float64
		for _, p := range pts {
			px := img.At(p.R, p.C)
			for ch := 0; ch < 3; ch++ {
				sum[ch] += float64(px[ch])
			}
		}
		var mean [3]float64
		for ch := 0; ch < 3; ch++ {
			mean[ch] = sum[ch] / float64(n)
		}

		var errSum float64
		for _, p := range pts {
			px := img.At(p.R, p.C)
			for ch := 0; ch < 3; ch++ {
				d := mean[ch] - float64(px[ch])
				errSum += d * d
			}
		}
		c.stats[k] = regionStats{mean: mean, err: errSum, count: n}
	}
	return nil
}

// TestEncoding returns (24, E_k) per spec.md §4.6.
func (c *MeanCodec) TestEncoding(k int32) cost.Result {
	return cost.Result{Bits: BitsPerRegion, Err: c.stats[k].err}
}

// mergedStats applies the parallel-axis identity to predict the
// post-merge (mean, E, count) of a and b without touching pixels.
func mergedStats(a, b regionStats) regionStats {
	na, nb := float64(a.count), float64(b.count)
	n := na + nb

	var merged [3]float64
	for ch := 0; ch < 3; ch++ {
		merged[ch] = (na*a.mean[ch] + nb*b.mean[ch]) / n
	}

	var da2, db2 float64
	for ch := 0; ch < 3; ch++ {
		da := a.mean[ch] - merged[ch]
		db := b.mean[ch] - merged[ch]
		da2 += da * da
		db2 += db * db
	}

	return regionStats{
		mean:  merged,
		err:   a.err + b.err + na*da2 + nb*db2,
		count: int(n),
	}
}

// TestJoinEncoding predicts the post-merge cost via the parallel-axis
// identity, without touching pixel data (spec.md §4.6).
func (c *MeanCodec) TestJoinEncoding(a, b int32) cost.Result {
	merged := mergedStats(c.stats[a], c.stats[b])
	return cost.Result{Bits: BitsPerRegion, Err: merged.err}
}

// NotifyJoin commits the merge into both a and b's slots.
func (c *MeanCodec) NotifyJoin(a, b int32) {
	merged := mergedStats(c.stats[a], c.stats[b])
	c.stats[a] = merged
	c.stats[b] = merged
}

func clampByte(v float64) byte {
	r := int(v + 0.5)
	if r < 0 {
		r = 0
	}
	if r > 255 {
		r = 255
	}
	return byte(r)
}

// WriteEncoding streams each canonical region's 8-bit BGR mean color.
func (c *MeanCodec) WriteEncoding(bs *bitstream.BitStream, mc *region.Multicut) error {
	for _, k := range mc.ActiveLabels() {
		s := c.stats[k]
		for ch := 0; ch < 3; ch++ {
			if err := bs.Append(uint64(clampByte(s.mean[ch])), 8); err != nil {
				return err
			}
		}
	}
	return nil
}

// Decode reads numRegions BGR triples in canonical label order and
// fills img from mask.
func (c *MeanCodec) Decode(r *bitstream.BitReader, mask *region.Mask, numRegions int, img region.Image) error {
	colors := make([]region.Pixel, numRegions)
	for k := 0; k < numRegions; k++ {
		var px region.Pixel
		for ch := 0; ch < 3; ch++ {
			v, err := r.Read(8)
			if err != nil {
				return err
			}
			px[ch] = byte(v)
		}
		colors[k] = px
	}
	for rr := 0; rr < mask.Rows(); rr++ {
		for cc := 0; cc < mask.Cols(); cc++ {
			img.Set(rr, cc, colors[mask.At(rr, cc)])
		}
	}
	return nil
}
