package partition

import (
	"math"
	"testing"

	"github.com/cocosip/multicut-codec/bitstream"
	"github.com/cocosip/multicut-codec/region"
)

func checkerboardImage() *region.DenseImage {
	img := region.NewDenseImage(2, 2)
	img.Set(0, 0, region.Pixel{10, 20, 30})
	img.Set(0, 1, region.Pixel{10, 20, 30})
	img.Set(1, 0, region.Pixel{200, 150, 90})
	img.Set(1, 1, region.Pixel{210, 140, 100})
	return img
}

func checkerboardMask() *region.Mask {
	m, _ := region.NewMask(2, 2)
	m.Set(0, 0, 0)
	m.Set(0, 1, 0)
	m.Set(1, 0, 1)
	m.Set(1, 1, 1)
	return m
}

func TestMeanCodecRoundTrip(t *testing.T) {
	img := checkerboardImage()
	mc := region.NewMulticut(checkerboardMask())

	enc := NewMeanCodec()
	if err := enc.NotifyInit(img, mc); err != nil {
		t.Fatal(err)
	}

	bs := bitstream.New()
	if err := enc.WriteEncoding(bs, mc); err != nil {
		t.Fatal(err)
	}

	out := region.NewDenseImage(2, 2)
	dec := NewMeanCodec()
	r := bitstream.NewReader(bs)
	if err := dec.Decode(r, mc.Mask(), mc.NumLabels(), out); err != nil {
		t.Fatal(err)
	}

	if out.At(0, 0) != (region.Pixel{10, 20, 30}) {
		t.Fatalf("region 0 color mismatch: %v", out.At(0, 0))
	}
	want1 := region.Pixel{205, 145, 95}
	if out.At(1, 0) != want1 || out.At(1, 1) != want1 {
		t.Fatalf("region 1 color mismatch: %v %v, want %v", out.At(1, 0), out.At(1, 1), want1)
	}
}

func TestDifferentialMeanCodecRoundTrip(t *testing.T) {
	img := checkerboardImage()
	mc := region.NewMulticut(checkerboardMask())

	enc := NewDifferentialMeanCodec()
	if err := enc.NotifyInit(img, mc); err != nil {
		t.Fatal(err)
	}

	bs := bitstream.New()
	if err := enc.WriteEncoding(bs, mc); err != nil {
		t.Fatal(err)
	}

	out := region.NewDenseImage(2, 2)
	dec := NewDifferentialMeanCodec()
	r := bitstream.NewReader(bs)
	if err := dec.Decode(r, mc.Mask(), mc.NumLabels(), out); err != nil {
		t.Fatal(err)
	}

	if out.At(0, 0) != (region.Pixel{10, 20, 30}) {
		t.Fatalf("region 0 color mismatch: %v", out.At(0, 0))
	}
	want1 := region.Pixel{205, 145, 95}
	if out.At(1, 0) != want1 || out.At(1, 1) != want1 {
		t.Fatalf("region 1 color mismatch: %v %v, want %v", out.At(1, 0), out.At(1, 1), want1)
	}
}

// recomputeError computes E over pts the slow way: sum of squared
// distance from each pixel to the mean of pts.
func recomputeError(img region.Image, pts []region.Point) float64 {
	if len(pts) == 0 {
		return 0
	}
	var sum [3]float64
	for _, p := range pts {
		px := img.At(p.R, p.C)
		for ch := 0; ch < 3; ch++ {
			sum[ch] += float64(px[ch])
		}
	}
	var mean [3]float64
	for ch := 0; ch < 3; ch++ {
		mean[ch] = sum[ch] / float64(len(pts))
	}
	var errSum float64
	for _, p := range pts {
		px := img.At(p.R, p.C)
		for ch := 0; ch < 3; ch++ {
			d := mean[ch] - float64(px[ch])
			errSum += d * d
		}
	}
	return errSum
}

// TestIncrementalErrorMatchesRecompute is spec.md §4.6's testable
// property: after notify_init followed by any sequence of notify_join,
// E_k equals a full recompute over the merged pixel set.
func TestIncrementalErrorMatchesRecompute(t *testing.T) {
	img := region.NewDenseImage(2, 3)
	colors := []region.Pixel{
		{10, 20, 30}, {12, 18, 28}, {200, 5, 5},
		{201, 6, 4}, {5, 5, 5}, {100, 100, 100},
	}
	i := 0
	for r := 0; r < 2; r++ {
		for c := 0; c < 3; c++ {
			img.Set(r, c, colors[i])
			i++
		}
	}

	mask, _ := region.NewSingletonMask(2, 3)
	mc := region.NewMulticut(mask)

	codec := NewMeanCodec()
	if err := codec.NotifyInit(img, mc); err != nil {
		t.Fatal(err)
	}

	joins := [][2]int32{{0, 1}, {3, 4}, {0, 2}, {0, 3}}
	for _, j := range joins {
		a, b := j[0], j[1]
		predicted := codec.TestJoinEncoding(a, b)
		codec.NotifyJoin(a, b)
		survivor := mc.Join(a, b)

		got := codec.TestEncoding(survivor).Err
		want := recomputeError(img, mc.Points(survivor))
		if math.Abs(got-want) > 1e-6 {
			t.Fatalf("after join(%d,%d): incremental err %v, recomputed %v", a, b, got, want)
		}
		if math.Abs(predicted.Err-got) > 1e-6 {
			t.Fatalf("after join(%d,%d): predicted err %v != committed err %v", a, b, predicted.Err, got)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	img := checkerboardImage()
	mc := region.NewMulticut(checkerboardMask())

	codec := NewMeanCodec()
	if err := codec.NotifyInit(img, mc); err != nil {
		t.Fatal(err)
	}
	clone := codec.Clone().(*MeanCodec)
	codec.NotifyJoin(0, 1)

	if clone.stats[0].count != 2 {
		t.Fatalf("clone observed the original's join: count %d, want 2", clone.stats[0].count)
	}
	if codec.stats[0].count != 4 {
		t.Fatalf("original did not merge: count %d, want 4", codec.stats[0].count)
	}
}
