package optimizer

import (
	"math/rand"
	"testing"

	"github.com/cocosip/multicut-codec/multicut"
	"github.com/cocosip/multicut-codec/partition"
	"github.com/cocosip/multicut-codec/region"
)

func fillUniform(img *region.DenseImage, p region.Pixel) {
	for r := 0; r < img.Rows(); r++ {
		for c := 0; c < img.Cols(); c++ {
			img.Set(r, c, p)
		}
	}
}

// TestGreedyMonotoneCost is spec.md §8's testable property 5: the
// optimizer's weighted total cost never increases in going from the
// singleton starting mask to the result of a full run.
func TestGreedyMonotoneCost(t *testing.T) {
	rows, cols := 6, 6
	img := region.NewDenseImage(rows, cols)
	rng := rand.New(rand.NewSource(7))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			img.Set(r, c, region.Pixel{byte(rng.Intn(256)), byte(rng.Intn(256)), byte(rng.Intn(256))})
		}
	}

	singleton, err := region.NewSingletonMask(rows, cols)
	if err != nil {
		t.Fatalf("NewSingletonMask: %v", err)
	}
	startMC := region.NewMulticutWithoutRelabel(singleton.Clone())
	startCodec := partition.NewMeanCodec()
	if err := startCodec.NotifyInit(img, startMC); err != nil {
		t.Fatalf("NotifyInit: %v", err)
	}
	startTotal := Total(startMC, startCodec).Weighted(1, 1)

	cfg := Config{WeightBits: 1, WeightErr: 1, InitPerfectJoins: true}
	result, err := Run(img, singleton, partition.NewMeanCodec(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	endMC := region.NewMulticutWithoutRelabel(result.Clone())
	endCodec := partition.NewMeanCodec()
	if err := endCodec.NotifyInit(img, endMC); err != nil {
		t.Fatalf("NotifyInit end: %v", err)
	}
	endTotal := Total(endMC, endCodec).Weighted(1, 1)

	if endTotal > startTotal+1e-9 {
		t.Fatalf("optimizer increased total cost: start=%v end=%v", startTotal, endTotal)
	}
}

// TestGreedyUniformImageOneRegion is spec.md's S2: a uniform-color
// image collapses to exactly one region, and the mean codec spends
// exactly BitsPerRegion bits describing it.
func TestGreedyUniformImageOneRegion(t *testing.T) {
	rows, cols := 4, 4
	img := region.NewDenseImage(rows, cols)
	fillUniform(img, region.Pixel{10, 20, 30})

	singleton, err := region.NewSingletonMask(rows, cols)
	if err != nil {
		t.Fatalf("NewSingletonMask: %v", err)
	}
	cfg := Config{WeightBits: 1, WeightErr: 1, InitPerfectJoins: true}
	result, err := Run(img, singleton, partition.NewMeanCodec(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	mc := region.NewMulticutWithoutRelabel(result.Clone())
	active := mc.ActiveLabels()
	if len(active) != 1 {
		t.Fatalf("expected 1 region for a uniform image, got %d", len(active))
	}

	codec := partition.NewMeanCodec()
	if err := codec.NotifyInit(img, mc); err != nil {
		t.Fatalf("NotifyInit: %v", err)
	}
	if bits := codec.TestEncoding(active[0]).Bits; bits != partition.BitsPerRegion {
		t.Fatalf("expected %d bits for the sole region, got %d", partition.BitsPerRegion, bits)
	}

	e := multicut.EdgesFromMask(result)
	for _, v := range e.RowEdges {
		if !v {
			t.Fatal("expected every row edge joined in a one-region mask")
		}
	}
	for _, v := range e.ColEdges {
		if !v {
			t.Fatal("expected every col edge joined in a one-region mask")
		}
	}
}

// TestGreedyZeroErrorWeightCollapses is spec.md's S4: with w_err = 0,
// bits alone drive every decision, and joining any two regions never
// costs more bits than coding them apart (shared per-region overhead),
// so a random-color image collapses to a single region.
func TestGreedyZeroErrorWeightCollapses(t *testing.T) {
	rows, cols := 16, 16
	img := region.NewDenseImage(rows, cols)
	rng := rand.New(rand.NewSource(99))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			img.Set(r, c, region.Pixel{byte(rng.Intn(256)), byte(rng.Intn(256)), byte(rng.Intn(256))})
		}
	}

	singleton, err := region.NewSingletonMask(rows, cols)
	if err != nil {
		t.Fatalf("NewSingletonMask: %v", err)
	}
	cfg := Config{WeightBits: 1, WeightErr: 0, InitPerfectJoins: true}
	result, err := Run(img, singleton, partition.NewMeanCodec(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	mc := region.NewMulticutWithoutRelabel(result.Clone())
	if got := len(mc.ActiveLabels()); got != 1 {
		t.Fatalf("expected a single region with w_err=0, got %d", got)
	}
}

func TestGridOptimizerProducesValidMask(t *testing.T) {
	rows, cols := 10, 10
	img := region.NewDenseImage(rows, cols)
	rng := rand.New(rand.NewSource(42))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			img.Set(r, c, region.Pixel{byte(rng.Intn(256)), byte(rng.Intn(256)), byte(rng.Intn(256))})
		}
	}

	cfg := GridConfig{CellSize: 4, Config: Config{WeightBits: 1, WeightErr: 1}}
	mask, err := RunGrid(img, partition.NewMeanCodec(), cfg)
	if err != nil {
		t.Fatalf("RunGrid: %v", err)
	}
	if mask.Rows() != rows || mask.Cols() != cols {
		t.Fatalf("grid result has wrong dimensions: %dx%d", mask.Rows(), mask.Cols())
	}
}
