// Package region implements the Mask and Multicut data model from
// spec.md §3/§4.5: a labeled image partition, its derived per-region
// point lists and neighbor graph, and the join operation the greedy
// optimizer drives.
package region

import "github.com/pkg/errors"

// Pixel is a 3-channel 8-bit color, channels treated as opaque bytes
// (BGR by convention, per spec.md §3).
type Pixel [3]byte

// Image is the OpenCV-style external pixel buffer interface spec.md §1
// assumes exists; this package only depends on it through this
// interface, never a concrete image library.
type Image interface {
	Rows() int
	Cols() int
	At(r, c int) Pixel
	Set(r, c int, v Pixel)
}

// DenseImage is a simple row-major slice-backed Image, used by tests and
// by any caller without its own pixel buffer type.
type DenseImage struct {
	rows, cols int
	pixels     []Pixel
}

// NewDenseImage allocates a rows x cols image, all pixels zeroed.
func NewDenseImage(rows, cols int) *DenseImage {
	return &DenseImage{rows: rows, cols: cols, pixels: make([]Pixel, rows*cols)}
}

func (d *DenseImage) Rows() int { return d.rows }
func (d *DenseImage) Cols() int { return d.cols }
func (d *DenseImage) At(r, c int) Pixel {
	return d.pixels[r*d.cols+c]
}
func (d *DenseImage) Set(r, c int, v Pixel) {
	d.pixels[r*d.cols+c] = v
}

// Mask is a row-major 2-D array of signed 32-bit region labels, one per
// pixel. Dimensions are bounded to <= 2^16-1 per axis (spec.md §5).
type Mask struct {
	rows, cols int
	labels     []int32
}

// MaxDimension is the resource ceiling on rows/cols (spec.md §5).
const MaxDimension = (1 << 16) - 1

// NewMask allocates a rows x cols mask, all labels zeroed.
func NewMask(rows, cols int) (*Mask, error) {
	if rows <= 0 || cols <= 0 || rows > MaxDimension || cols > MaxDimension {
		return nil, errors.Errorf("region: invalid mask dimensions %dx%d", rows, cols)
	}
	return &Mask{rows: rows, cols: cols, labels: make([]int32, rows*cols)}, nil
}

// NewSingletonMask returns a mask with one region per pixel, labeled in
// raster order; this is the default initial mask for the optimizer.
func NewSingletonMask(rows, cols int) (*Mask, error) {
	m, err := NewMask(rows, cols)
	if err != nil {
		return nil, err
	}
	for i := range m.labels {
		m.labels[i] = int32(i)
	}
	return m, nil
}

// NewBlockMask returns a mask tiled into blockSize x blockSize blocks
// (the last row/column of blocks clipped to fit), each block its own
// label assigned in raster order. An alternative, coarser starting
// point for the optimizer than NewSingletonMask — fewer initial regions
// means fewer join candidates to test before convergence, at the cost
// of being unable to recover a boundary that cuts through a block's
// interior.
func NewBlockMask(rows, cols, blockSize int) (*Mask, error) {
	m, err := NewMask(rows, cols)
	if err != nil {
		return nil, err
	}
	if blockSize <= 0 {
		return nil, errors.Errorf("region: invalid block size %d", blockSize)
	}
	label := int32(0)
	for br := 0; br < rows; br += blockSize {
		for bc := 0; bc < cols; bc += blockSize {
			maxR := br + blockSize
			if maxR > rows {
				maxR = rows
			}
			maxC := bc + blockSize
			if maxC > cols {
				maxC = cols
			}
			for r := br; r < maxR; r++ {
				for c := bc; c < maxC; c++ {
					m.Set(r, c, label)
				}
			}
			label++
		}
	}
	return m, nil
}

func (m *Mask) Rows() int { return m.rows }
func (m *Mask) Cols() int { return m.cols }

func (m *Mask) At(r, c int) int32 {
	return m.labels[r*m.cols+c]
}

func (m *Mask) Set(r, c int, label int32) {
	m.labels[r*m.cols+c] = label
}

// Clone returns a deep copy of m.
func (m *Mask) Clone() *Mask {
	out := &Mask{rows: m.rows, cols: m.cols, labels: append([]int32(nil), m.labels...)}
	return out
}

// Canonicalize relabels m in place so labels are dense integers 0..K-1
// assigned in raster-scan order of first appearance, and returns K.
// Re-applying Canonicalize to an already canonical mask is a no-op
// (spec.md §8 property 7).
func (m *Mask) Canonicalize() int {
	remap := make(map[int32]int32)
	next := int32(0)
	for i, old := range m.labels {
		nl, ok := remap[old]
		if !ok {
			nl = next
			remap[old] = nl
			next++
		}
		m.labels[i] = nl
	}
	return int(next)
}

// IsCanonical reports whether m's labels are already dense 0..K-1 in
// raster first-appearance order.
func (m *Mask) IsCanonical() bool {
	seenMax := int32(-1)
	seen := make(map[int32]bool)
	for _, l := range m.labels {
		if seen[l] {
			continue
		}
		seen[l] = true
		if l != seenMax+1 {
			return false
		}
		seenMax = l
	}
	return true
}
