package multicut

import (
	"github.com/cocosip/multicut-codec/bitstream"
	"github.com/cocosip/multicut-codec/entropy/context"
	"github.com/cocosip/multicut-codec/region"
	"github.com/cocosip/multicut-codec/unionfind"
)

// AwareWindow and AwareOrder are the Adaptive(W,O) context-encoder
// parameters the multicut-aware codec uses for both its row and column
// edge streams (spec.md §4.7.3 leaves the exact context width as an
// implementation choice; a modest window keeps adaptation local to a
// boundary's recent turns without costing much state).
const (
	AwareWindow = 64
	AwareOrder  = 4
)

// AwareCodec is spec.md §4.7.3: walk candidate edges in the same row-
// then-column raster order as DefaultCodec, but consult a union-find
// over pixels before coding each one. An edge already implied joined
// by transitivity (its endpoints are already in the same class) or
// implied cut by a previously recorded disjointness is never coded at
// all — only edges whose status isn't already implied cost a bit, coded
// through one of two independent adaptive context encoders (row edges
// and column edges keep separate statistics, since their local
// correlation structure differs).
type AwareCodec struct{}

// NewAwareCodec creates a union-find-skipping multicut-aware codec.
func NewAwareCodec() *AwareCodec { return &AwareCodec{} }

func (c *AwareCodec) Clone() Codec { return &AwareCodec{} }

func pixelID(cols, r, col int) int { return r*cols + col }

func (c *AwareCodec) WriteEncoding(bs *bitstream.BitStream, mc *region.Multicut) error {
	mask := mc.Mask()
	rows, cols := mask.Rows(), mask.Cols()
	uf := unionfind.New(rows * cols)

	rowEnc := context.NewAdaptiveEncoder(bs, AwareWindow, AwareOrder)
	for r := 0; r < rows; r++ {
		for col := 0; col < cols-1; col++ {
			a, b := pixelID(cols, r, col), pixelID(cols, r, col+1)
			if uf.IsUnion(a, b) || uf.IsDisjoint(a, b) {
				continue
			}
			joined := mask.At(r, col) == mask.At(r, col+1)
			bit := 0
			if joined {
				bit = 1
			}
			if err := rowEnc.EncodeBit(bit, nil); err != nil {
				return err
			}
			if joined {
				uf.MakeUnion(a, b)
			} else {
				uf.MakeDisjoint(a, b)
			}
		}
	}
	if err := rowEnc.Finalize(); err != nil {
		return err
	}

	colEnc := context.NewAdaptiveEncoder(bs, AwareWindow, AwareOrder)
	for col := 0; col < cols; col++ {
		for r := 0; r < rows-1; r++ {
			a, b := pixelID(cols, r, col), pixelID(cols, r+1, col)
			if uf.IsUnion(a, b) || uf.IsDisjoint(a, b) {
				continue
			}
			joined := mask.At(r, col) == mask.At(r+1, col)
			bit := 0
			if joined {
				bit = 1
			}
			if err := colEnc.EncodeBit(bit, nil); err != nil {
				return err
			}
			if joined {
				uf.MakeUnion(a, b)
			} else {
				uf.MakeDisjoint(a, b)
			}
		}
	}
	return colEnc.Finalize()
}

func (c *AwareCodec) Decode(r *bitstream.BitReader, rows, cols int) (*region.Mask, error) {
	uf := unionfind.New(rows * cols)
	e := NewEdgeSet(rows, cols)

	rowDec := context.NewAdaptiveDecoder(r, AwareWindow, AwareOrder)
	if err := rowDec.Initialize(); err != nil {
		return nil, err
	}
	for rr := 0; rr < rows; rr++ {
		for col := 0; col < cols-1; col++ {
			a, b := pixelID(cols, rr, col), pixelID(cols, rr, col+1)
			if uf.IsUnion(a, b) {
				e.SetRowEdge(rr, col, true)
				continue
			}
			if uf.IsDisjoint(a, b) {
				e.SetRowEdge(rr, col, false)
				continue
			}
			bit, err := rowDec.DecodeBit(nil)
			if err != nil {
				return nil, err
			}
			joined := bit == 1
			e.SetRowEdge(rr, col, joined)
			if joined {
				uf.MakeUnion(a, b)
			} else {
				uf.MakeDisjoint(a, b)
			}
		}
	}

	colDec := context.NewAdaptiveDecoder(r, AwareWindow, AwareOrder)
	if err := colDec.Initialize(); err != nil {
		return nil, err
	}
	for col := 0; col < cols; col++ {
		for rr := 0; rr < rows-1; rr++ {
			a, b := pixelID(cols, rr, col), pixelID(cols, rr+1, col)
			if uf.IsUnion(a, b) {
				e.SetColEdge(rr, col, true)
				continue
			}
			if uf.IsDisjoint(a, b) {
				e.SetColEdge(rr, col, false)
				continue
			}
			bit, err := colDec.DecodeBit(nil)
			if err != nil {
				return nil, err
			}
			joined := bit == 1
			e.SetColEdge(rr, col, joined)
			if joined {
				uf.MakeUnion(a, b)
			} else {
				uf.MakeDisjoint(a, b)
			}
		}
	}

	return MaskFromEdges(e)
}
