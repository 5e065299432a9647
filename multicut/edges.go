// Package multicut implements the four boundary (multicut) codecs from
// spec.md §4.7: each serializes the edge set of a region mask onto a
// BitStream and reconstructs a canonical mask from one. All four
// variants produce masks identical up to canonical relabeling; they
// differ only in how the edge set is serialized and compressed.
package multicut

import "github.com/cocosip/multicut-codec/region"

// EdgeSet is the row/col adjacency-bit representation every codec here
// shares: row edges connect (r,c)-(r,c+1) within a row; column edges
// connect (r,c)-(r+1,c) within a column. A bit is true iff the two
// endpoints are joined (share a label).
type EdgeSet struct {
	Rows, Cols int
	RowEdges   []bool // len = Rows*(Cols-1)
	ColEdges   []bool // len = (Rows-1)*Cols
}

// NewEdgeSet allocates an all-cut (false) edge set for a rows x cols mask.
func NewEdgeSet(rows, cols int) *EdgeSet {
	rowLen := 0
	if cols > 1 {
		rowLen = rows * (cols - 1)
	}
	colLen := 0
	if rows > 1 {
		colLen = (rows - 1) * cols
	}
	return &EdgeSet{Rows: rows, Cols: cols, RowEdges: make([]bool, rowLen), ColEdges: make([]bool, colLen)}
}

func (e *EdgeSet) rowIndex(r, c int) int { return r*(e.Cols-1) + c }
func (e *EdgeSet) colIndex(r, c int) int { return r*e.Cols + c }

// RowEdge reports whether (r,c) and (r,c+1) are joined.
func (e *EdgeSet) RowEdge(r, c int) bool { return e.RowEdges[e.rowIndex(r, c)] }

// SetRowEdge sets the joined status of (r,c)-(r,c+1).
func (e *EdgeSet) SetRowEdge(r, c int, v bool) { e.RowEdges[e.rowIndex(r, c)] = v }

// ColEdge reports whether (r,c) and (r+1,c) are joined.
func (e *EdgeSet) ColEdge(r, c int) bool { return e.ColEdges[e.colIndex(r, c)] }

// SetColEdge sets the joined status of (r,c)-(r+1,c).
func (e *EdgeSet) SetColEdge(r, c int, v bool) { e.ColEdges[e.colIndex(r, c)] = v }

// EdgesFromMask derives the joined/cut status of every edge from m.
func EdgesFromMask(m *region.Mask) *EdgeSet {
	rows, cols := m.Rows(), m.Cols()
	e := NewEdgeSet(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols-1; c++ {
			e.SetRowEdge(r, c, m.At(r, c) == m.At(r, c+1))
		}
	}
	for r := 0; r < rows-1; r++ {
		for c := 0; c < cols; c++ {
			e.SetColEdge(r, c, m.At(r, c) == m.At(r+1, c))
		}
	}
	return e
}

// MaskFromEdges reconstructs a canonical mask from e via an iterative,
// explicit-stack 4-connected flood fill across joined edges only
// (spec.md §4.7.5 and §9's open question: a stack rather than recursion
// so large images don't blow the call stack). Pixels are discovered in
// raster order, so the first unlabeled pixel of each component always
// gets the next label — the result is canonical by construction.
func MaskFromEdges(e *EdgeSet) (*region.Mask, error) {
	m, err := region.NewMask(e.Rows, e.Cols)
	if err != nil {
		return nil, err
	}
	labeled := make([]bool, e.Rows*e.Cols)
	idx := func(r, c int) int { return r*e.Cols + c }

	var stack []region.Point
	next := int32(0)
	for r := 0; r < e.Rows; r++ {
		for c := 0; c < e.Cols; c++ {
			if labeled[idx(r, c)] {
				continue
			}
			label := next
			next++
			labeled[idx(r, c)] = true
			m.Set(r, c, label)
			stack = append(stack[:0], region.Point{R: r, C: c})

			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]

				if p.C > 0 && e.RowEdge(p.R, p.C-1) && !labeled[idx(p.R, p.C-1)] {
					labeled[idx(p.R, p.C-1)] = true
					m.Set(p.R, p.C-1, label)
					stack = append(stack, region.Point{R: p.R, C: p.C - 1})
				}
				if p.C < e.Cols-1 && e.RowEdge(p.R, p.C) && !labeled[idx(p.R, p.C+1)] {
					labeled[idx(p.R, p.C+1)] = true
					m.Set(p.R, p.C+1, label)
					stack = append(stack, region.Point{R: p.R, C: p.C + 1})
				}
				if p.R > 0 && e.ColEdge(p.R-1, p.C) && !labeled[idx(p.R-1, p.C)] {
					labeled[idx(p.R-1, p.C)] = true
					m.Set(p.R-1, p.C, label)
					stack = append(stack, region.Point{R: p.R - 1, C: p.C})
				}
				if p.R < e.Rows-1 && e.ColEdge(p.R, p.C) && !labeled[idx(p.R+1, p.C)] {
					labeled[idx(p.R+1, p.C)] = true
					m.Set(p.R+1, p.C, label)
					stack = append(stack, region.Point{R: p.R + 1, C: p.C})
				}
			}
		}
	}
	return m, nil
}
