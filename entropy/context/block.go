package context

import (
	"github.com/cocosip/multicut-codec/bitstream"
	"github.com/cocosip/multicut-codec/entropy"
	"github.com/cocosip/multicut-codec/entropy/arith"
	"github.com/pkg/errors"
)

// MaxBlockBits and MaxBlockPrecision are the resource ceilings from
// spec.md §4.3 ("k <= 16, f <= 32").
const (
	MaxBlockBits      = 16
	MaxBlockPrecision = 32
)

// BlockEncoder buffers k input bits into a symbol of 2^k values; on
// Finalize it pads the tail with zeros, measures empirical symbol
// frequencies, quantizes them to f bits, writes the 2^k-entry frequency
// table, then arithmetic-codes all symbols.
type BlockEncoder struct {
	k, f int
	bs   *bitstream.BitStream
	bits []int
}

// NewBlockEncoder creates a Block(k,f) encoder writing onto bs.
func NewBlockEncoder(bs *bitstream.BitStream, k, f int) (*BlockEncoder, error) {
	if k <= 0 || k > MaxBlockBits || f <= 0 || f > MaxBlockPrecision {
		return nil, errors.Errorf("context: block(k=%d,f=%d) out of range", k, f)
	}
	return &BlockEncoder{k: k, f: f, bs: bs}, nil
}

func (e *BlockEncoder) Initialize() error { return nil }

func (e *BlockEncoder) EncodeBit(bit int, ctx []int) error {
	e.bits = append(e.bits, bit&1)
	return nil
}

// Finalize pads, quantizes frequencies, and arithmetic-codes the buffered
// bits as described in spec.md §4.3 Block(k,f).
func (e *BlockEncoder) Finalize() error {
	k := e.k
	alphabet := 1 << uint(k)

	padded := len(e.bits)
	if rem := padded % k; rem != 0 {
		padded += k - rem
	}
	bits := e.bits
	for len(bits) < padded {
		bits = append(bits, 0)
	}

	numSymbols := padded / k
	symbols := make([]int, numSymbols)
	for i := 0; i < numSymbols; i++ {
		v := 0
		for j := 0; j < k; j++ {
			v = (v << 1) | bits[i*k+j]
		}
		symbols[i] = v
	}

	counts := make([]uint64, alphabet)
	for _, s := range symbols {
		counts[s]++
	}
	quant := entropy.QuantizeCounts(counts, e.f)
	for _, q := range quant {
		if err := e.bs.Append(q, e.f); err != nil {
			return err
		}
	}

	table := entropy.NewFrequencyTable(quant)
	return arith.WriteFramed(e.bs, table, symbols)
}

// BlockDecoder is the symmetric read side; it needs to know how many
// original bits were encoded (expectedBits), since the encoder side
// zero-pads the final partial symbol.
type BlockDecoder struct {
	k, f, expectedBits int
	r                  *bitstream.BitReader
	decoded            []int
	pos                int
}

// NewBlockDecoder creates a Block(k,f) decoder expecting expectedBits
// total original bits from r.
func NewBlockDecoder(r *bitstream.BitReader, k, f, expectedBits int) (*BlockDecoder, error) {
	if k <= 0 || k > MaxBlockBits || f <= 0 || f > MaxBlockPrecision {
		return nil, errors.Errorf("context: block(k=%d,f=%d) out of range", k, f)
	}
	return &BlockDecoder{k: k, f: f, expectedBits: expectedBits, r: r}, nil
}

func (d *BlockDecoder) Initialize() error {
	k := d.k
	alphabet := 1 << uint(k)
	quant := make([]uint64, alphabet)
	for i := range quant {
		v, err := d.r.Read(d.f)
		if err != nil {
			return err
		}
		quant[i] = v
	}

	padded := d.expectedBits
	if rem := padded % k; rem != 0 {
		padded += k - rem
	}
	numSymbols := padded / k

	allZero := true
	for _, q := range quant {
		if q != 0 {
			allZero = false
			break
		}
	}
	if allZero && numSymbols > 0 {
		return errors.New("entropy: block frequency table all-zero for observed symbols")
	}

	table := entropy.NewFrequencyTable(quant)
	symbols, err := arith.ReadFramed(d.r, table, numSymbols)
	if err != nil {
		return err
	}

	bits := make([]int, 0, padded)
	for _, s := range symbols {
		for j := k - 1; j >= 0; j-- {
			bits = append(bits, (s>>uint(j))&1)
		}
	}
	d.decoded = bits[:d.expectedBits]
	return nil
}

func (d *BlockDecoder) DecodeBit(ctx []int) (int, error) {
	if d.pos >= len(d.decoded) {
		return 0, errors.New("context: block decoder exhausted")
	}
	v := d.decoded[d.pos]
	d.pos++
	return v, nil
}
