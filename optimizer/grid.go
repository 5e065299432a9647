package optimizer

import (
	"sync"

	"github.com/cocosip/multicut-codec/partition"
	"github.com/cocosip/multicut-codec/region"
)

// GridConfig parameterizes the grid-parallel optimizer: the tile size
// and the weight configuration applied to both the per-tile and final
// global passes.
type GridConfig struct {
	CellSize int
	Config   Config
}

// tileImage is a read/write rectangular view into a larger Image,
// letting the per-tile greedy pass operate in place without copying
// pixel data.
type tileImage struct {
	base             region.Image
	originR, originC int
	rows, cols       int
}

func (t *tileImage) Rows() int { return t.rows }
func (t *tileImage) Cols() int { return t.cols }
func (t *tileImage) At(r, c int) region.Pixel {
	return t.base.At(t.originR+r, t.originC+c)
}
func (t *tileImage) Set(r, c int, v region.Pixel) {
	t.base.Set(t.originR+r, t.originC+c, v)
}

// RunGrid executes the grid-parallel optimizer (spec.md §4.9): tile the
// image into cellSize x cellSize cells (the last row/column of tiles
// truncated to fit), run the greedy optimizer per tile independently
// and in parallel from a one-region-per-pixel start, offset each tile's
// labels by tile_index*cellSize^2 to keep them globally unique, then
// run the greedy optimizer once more over the whole image — without
// perfect joins, since each tile already ran that pass locally — to
// merge regions across tile seams. Per-tile work shares no mutable
// state (each goroutine owns its own Multicut, codec clone, and move
// heap), so the fork-join has no synchronization beyond the barrier.
func RunGrid(img region.Image, codecProto partition.Codec, cfg GridConfig) (*region.Mask, error) {
	rows, cols := img.Rows(), img.Cols()
	cellSize := cfg.CellSize
	tileRows := (rows + cellSize - 1) / cellSize
	tileCols := (cols + cellSize - 1) / cellSize

	type tileResult struct {
		mask             *region.Mask
		originR, originC int
		err              error
	}

	results := make([]tileResult, tileRows*tileCols)
	var wg sync.WaitGroup
	for ti := 0; ti < tileRows; ti++ {
		for tj := 0; tj < tileCols; tj++ {
			idx := ti*tileCols + tj
			originR, originC := ti*cellSize, tj*cellSize
			h := minInt(cellSize, rows-originR)
			w := minInt(cellSize, cols-originC)

			wg.Add(1)
			go func(idx, originR, originC, h, w int) {
				defer wg.Done()
				sub := &tileImage{base: img, originR: originR, originC: originC, rows: h, cols: w}
				singleton, err := region.NewSingletonMask(h, w)
				if err != nil {
					results[idx] = tileResult{err: err}
					return
				}
				tileCfg := cfg.Config
				tileCfg.InitPerfectJoins = true
				mask, err := Run(sub, singleton, codecProto.Clone(), tileCfg)
				results[idx] = tileResult{mask: mask, originR: originR, originC: originC, err: err}
			}(idx, originR, originC, h, w)
		}
	}
	wg.Wait()

	global, err := region.NewMask(rows, cols)
	if err != nil {
		return nil, err
	}
	for idx, res := range results {
		if res.err != nil {
			return nil, res.err
		}
		offset := int32(idx) * int32(cellSize*cellSize)
		for r := 0; r < res.mask.Rows(); r++ {
			for c := 0; c < res.mask.Cols(); c++ {
				global.Set(res.originR+r, res.originC+c, res.mask.At(r, c)+offset)
			}
		}
	}

	globalCfg := cfg.Config
	globalCfg.InitPerfectJoins = false
	return Run(img, global, codecProto.Clone(), globalCfg)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
