package multicut

import (
	"github.com/cocosip/multicut-codec/bitstream"
	"github.com/cocosip/multicut-codec/entropy"
	"github.com/cocosip/multicut-codec/entropy/huffman"
	"github.com/cocosip/multicut-codec/region"
)

// HuffmanBlockPrecision is the frequency-table precision spec.md
// §4.7.2 uses (10-bit, clamp nonzero to [1,1023]).
const HuffmanBlockPrecision = 10

// HuffmanBlockCodec is spec.md §4.7.2: tile the edge grid in 2x2 pixel
// blocks, pack each block's up-to-eight enclosed edges into one byte,
// then Huffman-code the resulting byte stream against a 256-entry,
// dynamically built frequency table.
type HuffmanBlockCodec struct{}

// NewHuffmanBlockCodec creates a 2x2-block dynamic Huffman multicut codec.
func NewHuffmanBlockCodec() *HuffmanBlockCodec { return &HuffmanBlockCodec{} }

func (c *HuffmanBlockCodec) Clone() Codec { return &HuffmanBlockCodec{} }

func rowEdgeAt(e *EdgeSet, r, c int) bool {
	if r < 0 || r >= e.Rows || c < 0 || c >= e.Cols-1 {
		return false
	}
	return e.RowEdge(r, c)
}

func colEdgeAt(e *EdgeSet, r, c int) bool {
	if r < 0 || r >= e.Rows-1 || c < 0 || c >= e.Cols {
		return false
	}
	return e.ColEdge(r, c)
}

// blockByte packs the eight edge bits enclosed by the 2x2 pixel block
// whose top-left pixel is (r,c): row-edges at columns c,c+1 for rows
// r,r+1 first, then col-edges at rows r,r+1 for columns c,c+1,
// edges outside the image filled false (spec.md §4.7.2's fixed order).
func blockByte(e *EdgeSet, r, c int) byte {
	bits := [8]bool{
		rowEdgeAt(e, r, c), rowEdgeAt(e, r, c+1),
		rowEdgeAt(e, r+1, c), rowEdgeAt(e, r+1, c+1),
		colEdgeAt(e, r, c), colEdgeAt(e, r+1, c),
		colEdgeAt(e, r, c+1), colEdgeAt(e, r+1, c+1),
	}
	var b byte
	for _, v := range bits {
		b <<= 1
		if v {
			b |= 1
		}
	}
	return b
}

func unpackBlockByte(e *EdgeSet, r, c int, b byte) {
	var bits [8]bool
	for i := 7; i >= 0; i-- {
		bits[i] = (b & 1) == 1
		b >>= 1
	}
	if r < e.Rows && c < e.Cols-1 {
		e.SetRowEdge(r, c, bits[0])
	}
	if r < e.Rows && c+1 < e.Cols-1 {
		e.SetRowEdge(r, c+1, bits[1])
	}
	if r+1 < e.Rows && c < e.Cols-1 {
		e.SetRowEdge(r+1, c, bits[2])
	}
	if r+1 < e.Rows && c+1 < e.Cols-1 {
		e.SetRowEdge(r+1, c+1, bits[3])
	}
	if r < e.Rows-1 && c < e.Cols {
		e.SetColEdge(r, c, bits[4])
	}
	if r+1 < e.Rows-1 && c < e.Cols {
		e.SetColEdge(r+1, c, bits[5])
	}
	if r < e.Rows-1 && c+1 < e.Cols {
		e.SetColEdge(r, c+1, bits[6])
	}
	if r+1 < e.Rows-1 && c+1 < e.Cols {
		e.SetColEdge(r+1, c+1, bits[7])
	}
}

func blockBytes(e *EdgeSet) []byte {
	var out []byte
	for r := 0; r < e.Rows; r += 2 {
		for c := 0; c < e.Cols; c += 2 {
			out = append(out, blockByte(e, r, c))
		}
	}
	return out
}

func (c *HuffmanBlockCodec) WriteEncoding(bs *bitstream.BitStream, mc *region.Multicut) error {
	e := EdgesFromMask(mc.Mask())
	payload := blockBytes(e)

	counts := make([]uint64, 256)
	for _, b := range payload {
		counts[b]++
	}
	quant := entropy.QuantizeCounts(counts, HuffmanBlockPrecision)
	for _, q := range quant {
		if err := bs.Append(q, HuffmanBlockPrecision); err != nil {
			return err
		}
	}

	table, err := huffman.Build(quant, -1)
	if err != nil {
		return err
	}
	for _, b := range payload {
		code, err := table.Encode(int(b))
		if err != nil {
			return err
		}
		if err := bs.Append(uint64(code.Bits), code.Length); err != nil {
			return err
		}
	}
	return nil
}

func (c *HuffmanBlockCodec) Decode(r *bitstream.BitReader, rows, cols int) (*region.Mask, error) {
	quant := make([]uint64, 256)
	for i := range quant {
		v, err := r.Read(HuffmanBlockPrecision)
		if err != nil {
			return nil, err
		}
		quant[i] = v
	}
	table, err := huffman.Build(quant, -1)
	if err != nil {
		return nil, err
	}
	dec := huffman.NewDecoder(table)

	e := NewEdgeSet(rows, cols)
	blockRows := (rows + 1) / 2
	blockCols := (cols + 1) / 2
	for br := 0; br < blockRows; br++ {
		for bc := 0; bc < blockCols; bc++ {
			w := dec.NewWalker()
			var sym int
			for {
				bit, err := r.Read(1)
				if err != nil {
					return nil, err
				}
				s, ok, err := w.Step(int(bit))
				if err != nil {
					return nil, err
				}
				if ok {
					sym = s
					break
				}
			}
			unpackBlockByte(e, br*2, bc*2, byte(sym))
		}
	}
	return MaskFromEdges(e)
}
