package multicut

import (
	"sort"

	"github.com/cocosip/multicut-codec/bitstream"
	"github.com/cocosip/multicut-codec/entropy"
	"github.com/cocosip/multicut-codec/entropy/arith"
	"github.com/cocosip/multicut-codec/region"
	"github.com/pkg/errors"
)

// BorderSymbolPrecision is the per-length frequency table precision
// used by BorderCodec (spec.md §4.7.4).
const BorderSymbolPrecision = 10

// cornerDeltas is the fixed neighbor-probe order every corner-walk step
// uses: right, down, left, up. Encode and decode must agree on this
// order since it determines which bit of a multi-edge symbol belongs to
// which candidate edge.
var cornerDeltas = [4]region.Point{{R: 0, C: 1}, {R: 1, C: 0}, {R: 0, C: -1}, {R: -1, C: 0}}

// BorderCodec is spec.md §4.7.4: rather than DefaultCodec's raster walk
// over pixels, it walks the dual graph of pixel-grid corners. A corner
// is a point of the (rows+1) x (cols+1) grid where up to four pixels
// meet; the codec starts a stack-based walk from every corner that still
// touches an unexplored cut edge ("root") and follows cut edges only,
// emitting one variable-length symbol per visited corner (one bit per
// still-unexplored candidate edge, 1 where that edge is cut, 1-4 bits), coded
// against a per-symbol-length arithmetic frequency table. Because real
// boundaries are sparse and locally correlated, this usually costs much
// less than one symbol per pixel.
//
// EncodeJoinEdges swaps which polarity ("cut" vs "joined") both the walk
// and its emitted bits track, matching the original's ENCODE_JOIN_EDGES
// constructor flag. The zero value follows cut edges, the original's
// default.
type BorderCodec struct {
	EncodeJoinEdges bool
}

// NewBorderCodec creates a corner-walk boundary codec that follows cut
// edges.
func NewBorderCodec() *BorderCodec { return &BorderCodec{} }

func (c *BorderCodec) Clone() Codec { return &BorderCodec{EncodeJoinEdges: c.EncodeJoinEdges} }

// cornerValid reports whether p is a strictly interior corner of the
// (rows+1) x (cols+1) corner grid. The outer ring is never a walk
// anchor by itself, only a dead end reached from an interior corner.
func cornerValid(rows, cols int, p region.Point) bool {
	return p.R > 0 && p.C > 0 && p.R < rows && p.C < cols
}

// cornerEdgeKey is a canonical, order-independent identity for the
// segment between two corners: the mask comparison a segment encodes is
// symmetric in its endpoints, so a sorted pair is enough to key the
// "already explored" set.
type cornerEdgeKey struct{ ar, ac, br, bc int }

func canonicalCornerEdge(a, b region.Point) cornerEdgeKey {
	if a.R > b.R || (a.R == b.R && a.C > b.C) {
		a, b = b, a
	}
	return cornerEdgeKey{a.R, a.C, b.R, b.C}
}

// cornerNeighbors returns, in cornerDeltas order, the neighbors of p
// whose connecting segment is not yet in known and is not a segment
// joining two outer-ring corners (which carries no mask information).
func cornerNeighbors(rows, cols int, known map[cornerEdgeKey]bool, p region.Point) []region.Point {
	var out []region.Point
	for _, d := range cornerDeltas {
		nb := region.Point{R: p.R + d.R, C: p.C + d.C}
		if !cornerValid(rows, cols, nb) && !cornerValid(rows, cols, p) {
			continue
		}
		if _, ok := known[canonicalCornerEdge(p, nb)]; ok {
			continue
		}
		out = append(out, nb)
	}
	return out
}

// cornerEdgeJoined reports whether the two pixel cells that straddle
// corner segment (a,b) carry the same label in e. Every segment
// cornerNeighbors can produce is axis-aligned, so exactly one branch
// applies; cornerNeighbors never admits a segment whose straddling
// pixels would fall outside e, since it requires at least one endpoint
// to be a strictly interior corner, and a,b always share one coordinate,
// so that shared coordinate is always in range.
func cornerEdgeJoined(e *EdgeSet, a, b region.Point) bool {
	if a.R == b.R {
		col := a.C
		if b.C < col {
			col = b.C
		}
		return e.ColEdge(a.R-1, col)
	}
	row := a.R
	if b.R < row {
		row = b.R
	}
	return e.RowEdge(row, a.C-1)
}

// edgeBit is the value the walk records and, when true, continues
// through: cornerEdgeJoined under EncodeJoinEdges's polarity.
func (c *BorderCodec) edgeBit(e *EdgeSet, a, b region.Point) bool {
	return cornerEdgeJoined(e, a, b) == c.EncodeJoinEdges
}

// walkBorderCorners replays one stack-based traversal from start: at
// each popped corner with unexplored candidate edges, it calls step with
// those candidates (in cornerDeltas order) and records the bits step
// returns into known, pushing every neighbor whose bit was true so the
// walk continues along connected cut edges only. A popped corner with no
// candidates left is simply skipped, not a reason to stop the walk.
func walkBorderCorners(rows, cols int, known map[cornerEdgeKey]bool, start region.Point, step func(p region.Point, nbs []region.Point) []bool) {
	stack := []region.Point{start}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		nbs := cornerNeighbors(rows, cols, known, p)
		if len(nbs) == 0 {
			continue
		}
		bits := step(p, nbs)
		for i, nb := range nbs {
			known[canonicalCornerEdge(p, nb)] = bits[i]
			if bits[i] {
				stack = append(stack, nb)
			}
		}
	}
}

// bitsToInt packs bits MSB-first into a single symbol value, matching
// the original's sequential data = (data<<1)|b accumulation.
func bitsToInt(bits []bool) int {
	v := 0
	for _, b := range bits {
		v <<= 1
		if b {
			v |= 1
		}
	}
	return v
}

// intToBits is bitsToInt's inverse for a known bit count k.
func intToBits(v, k int) []bool {
	bits := make([]bool, k)
	for i := k - 1; i >= 0; i-- {
		bits[i] = v&1 == 1
		v >>= 1
	}
	return bits
}

type borderSymbol struct {
	bits []bool
}

func (c *BorderCodec) WriteEncoding(bs *bitstream.BitStream, mc *region.Multicut) error {
	e := EdgesFromMask(mc.Mask())
	rows, cols := e.Rows, e.Cols

	var syms []borderSymbol
	var roots []region.Point
	known := make(map[cornerEdgeKey]bool)

	// Roots: scan every corner in raster order; any corner that still
	// touches an unexplored cut edge anchors a new walk over the
	// connected component of cut edges reachable from it. Most corners
	// are visited as a side effect of an earlier root's walk and are
	// skipped here once their edges are all known.
	for r := 0; r <= rows; r++ {
		for cc := 0; cc <= cols; cc++ {
			p := region.Point{R: r, C: cc}
			nbs := cornerNeighbors(rows, cols, known, p)
			if len(nbs) == 0 {
				continue
			}
			anyCut := false
			for _, nb := range nbs {
				if c.edgeBit(e, p, nb) {
					anyCut = true
					break
				}
			}
			if !anyCut {
				continue
			}
			roots = append(roots, p)
			walkBorderCorners(rows, cols, known, p, func(pp region.Point, nbs []region.Point) []bool {
				bits := make([]bool, len(nbs))
				for i, nb := range nbs {
					bits[i] = c.edgeBit(e, pp, nb)
				}
				syms = append(syms, borderSymbol{bits: bits})
				return bits
			})
		}
	}

	if err := bs.Append(uint64(len(roots)), 16); err != nil {
		return err
	}
	for _, p := range roots {
		if err := bs.Append(uint64(p.R), 16); err != nil {
			return err
		}
		if err := bs.Append(uint64(p.C), 16); err != nil {
			return err
		}
	}

	// Bucket every symbol by its bit length (1-4, however many candidate
	// edges remained at the step that emitted it) and build one
	// frequency table per length actually used.
	counts := make(map[int][]uint64)
	values := make([]int, len(syms))
	for i, s := range syms {
		k := len(s.bits)
		if counts[k] == nil {
			counts[k] = make([]uint64, 1<<uint(k))
		}
		v := bitsToInt(s.bits)
		values[i] = v
		counts[k][v]++
	}

	lengths := make([]int, 0, len(counts))
	for k := range counts {
		lengths = append(lengths, k)
	}
	sort.Ints(lengths)

	if err := bs.Append(uint64(len(lengths)), 8); err != nil {
		return err
	}
	tables := make(map[int]*entropy.FrequencyTable, len(lengths))
	for _, k := range lengths {
		if err := bs.Append(uint64(k), 8); err != nil {
			return err
		}
		quant := entropy.QuantizeCounts(counts[k], BorderSymbolPrecision)
		for _, q := range quant {
			if err := bs.Append(q, BorderSymbolPrecision); err != nil {
				return err
			}
		}
		tables[k] = entropy.NewFrequencyTable(quant)
	}

	enc := arith.NewEncoder()
	for i, s := range syms {
		if err := enc.EncodeSymbol(tables[len(s.bits)], values[i]); err != nil {
			return err
		}
	}
	payload := enc.Finish()
	if err := bs.Append(uint64(len(payload)*8), 32); err != nil {
		return err
	}
	return bs.AppendBytes(payload)
}

func (c *BorderCodec) Decode(r *bitstream.BitReader, rows, cols int) (*region.Mask, error) {
	nRoots, err := r.Read(16)
	if err != nil {
		return nil, errors.Wrap(err, "multicut: read border root count")
	}
	roots := make([]region.Point, nRoots)
	for i := range roots {
		rr, err := r.Read(16)
		if err != nil {
			return nil, errors.Wrap(err, "multicut: read border root row")
		}
		cc, err := r.Read(16)
		if err != nil {
			return nil, errors.Wrap(err, "multicut: read border root col")
		}
		roots[i] = region.Point{R: int(rr), C: int(cc)}
	}

	nLengths, err := r.Read(8)
	if err != nil {
		return nil, errors.Wrap(err, "multicut: read border table count")
	}
	tables := make(map[int]*entropy.FrequencyTable, nLengths)
	for i := uint64(0); i < nLengths; i++ {
		kBits, err := r.Read(8)
		if err != nil {
			return nil, errors.Wrap(err, "multicut: read border symbol length")
		}
		k := int(kBits)
		quant := make([]uint64, 1<<uint(k))
		for j := range quant {
			v, err := r.Read(BorderSymbolPrecision)
			if err != nil {
				return nil, err
			}
			quant[j] = v
		}
		tables[k] = entropy.NewFrequencyTable(quant)
	}

	lengthBits, err := r.Read(32)
	if err != nil {
		return nil, errors.Wrap(err, "multicut: read border substream length")
	}
	if int(lengthBits) > r.Remaining() {
		return nil, errors.Wrapf(arith.ErrFrameLengthMismatch, "declared %d bits, have %d", lengthBits, r.Remaining())
	}
	sub, err := r.ReadSubstream(int(lengthBits))
	if err != nil {
		return nil, err
	}
	payload := make([]byte, lengthBits/8)
	subReader := bitstream.NewReader(sub)
	for i := range payload {
		b, err := subReader.Read(8)
		if err != nil {
			return nil, err
		}
		payload[i] = byte(b)
	}
	dec := arith.NewDecoder(payload)

	known := make(map[cornerEdgeKey]bool)
	var decErr error
	for _, root := range roots {
		if decErr != nil {
			break
		}
		walkBorderCorners(rows, cols, known, root, func(p region.Point, nbs []region.Point) []bool {
			if decErr != nil {
				return make([]bool, len(nbs))
			}
			k := len(nbs)
			tab, ok := tables[k]
			if !ok {
				decErr = errors.Errorf("multicut: no border symbol table for length %d", k)
				return make([]bool, len(nbs))
			}
			v, err := dec.DecodeSymbol(tab)
			if err != nil {
				decErr = err
				return make([]bool, len(nbs))
			}
			return intToBits(v, k)
		})
	}
	if decErr != nil {
		return nil, decErr
	}

	// Reconstruct the full pixel-adjacency edge set: every explored
	// corner segment resolves directly, anything the walk never reached
	// defaults to joined (not cut), matching BorderCodec's sparse,
	// cut-only representation.
	e := NewEdgeSet(rows, cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols-1; col++ {
			a := region.Point{R: row, C: col + 1}
			b := region.Point{R: row + 1, C: col + 1}
			joined := !c.EncodeJoinEdges
			if v, ok := known[canonicalCornerEdge(a, b)]; ok {
				joined = v == c.EncodeJoinEdges
			}
			e.SetRowEdge(row, col, joined)
		}
	}
	for row := 0; row < rows-1; row++ {
		for col := 0; col < cols; col++ {
			a := region.Point{R: row + 1, C: col}
			b := region.Point{R: row + 1, C: col + 1}
			joined := !c.EncodeJoinEdges
			if v, ok := known[canonicalCornerEdge(a, b)]; ok {
				joined = v == c.EncodeJoinEdges
			}
			e.SetColEdge(row, col, joined)
		}
	}
	return MaskFromEdges(e)
}
