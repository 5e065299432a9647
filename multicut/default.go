package multicut

import (
	"github.com/cocosip/multicut-codec/bitstream"
	"github.com/cocosip/multicut-codec/region"
)

// DefaultCodec is spec.md §4.7.1: one raw bit per edge, row edges in
// raster order, then column edges column by column.
type DefaultCodec struct{}

// NewDefaultCodec creates a default multicut codec.
func NewDefaultCodec() *DefaultCodec { return &DefaultCodec{} }

func (c *DefaultCodec) Clone() Codec { return &DefaultCodec{} }

func writeBit(bs *bitstream.BitStream, v bool) error {
	var b uint64
	if v {
		b = 1
	}
	return bs.Append(b, 1)
}

func (c *DefaultCodec) WriteEncoding(bs *bitstream.BitStream, mc *region.Multicut) error {
	e := EdgesFromMask(mc.Mask())
	for r := 0; r < e.Rows; r++ {
		for col := 0; col < e.Cols-1; col++ {
			if err := writeBit(bs, e.RowEdge(r, col)); err != nil {
				return err
			}
		}
	}
	for col := 0; col < e.Cols; col++ {
		for r := 0; r < e.Rows-1; r++ {
			if err := writeBit(bs, e.ColEdge(r, col)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *DefaultCodec) Decode(r *bitstream.BitReader, rows, cols int) (*region.Mask, error) {
	e := NewEdgeSet(rows, cols)
	for rr := 0; rr < rows; rr++ {
		for cc := 0; cc < cols-1; cc++ {
			v, err := r.Read(1)
			if err != nil {
				return nil, err
			}
			e.SetRowEdge(rr, cc, v == 1)
		}
	}
	for cc := 0; cc < cols; cc++ {
		for rr := 0; rr < rows-1; rr++ {
			v, err := r.Read(1)
			if err != nil {
				return nil, err
			}
			e.SetColEdge(rr, cc, v == 1)
		}
	}
	return MaskFromEdges(e)
}
