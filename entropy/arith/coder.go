// Package arith implements the standard 32-bit carry-resolved range coder
// (ISO/IEC common "Subbotin" family) used by every arithmetic-coded path
// in the codec, plus the length-prefixed substream framer that lets a
// decoder skip a foreign segment without decoding it.
//
// This mirrors the teacher's jpeg2000/mqc MQ coder in spirit — a
// renormalizing arithmetic coder driven by a table of per-context
// probabilities — but codes against an explicit entropy.FrequencyTable
// (cumulative-sum symbol ranges) instead of a per-bit MPS/LPS state
// machine, matching spec.md §4.2's "standard range coder over a
// FrequencyTable" rather than the MQ coder's binary contexts.
package arith

import (
	"github.com/cocosip/multicut-codec/bitstream"
	"github.com/cocosip/multicut-codec/entropy"
	"github.com/pkg/errors"
)

const topValue = uint32(1) << 24

// Encoder is a carry-propagating range encoder emitting bytes.
type Encoder struct {
	low       uint64
	rng       uint32
	cache     byte
	cacheSize uint64
	out       []byte
	started   bool
}

// NewEncoder creates an encoder ready to code symbols.
func NewEncoder() *Encoder {
	return &Encoder{rng: 0xFFFFFFFF, cacheSize: 1, cache: 0xFF}
}

// EncodeSymbol codes symbol s against table.
func (e *Encoder) EncodeSymbol(table *entropy.FrequencyTable, s int) error {
	if err := table.EncodeCheck(s); err != nil {
		return err
	}
	total := table.Total()
	if total == 0 || total > 0xFFFFFFFF {
		return errors.New("arith: frequency total out of range")
	}
	low, high := table.Range(s)
	r := e.rng / uint32(total)
	e.low += uint64(r) * low
	e.rng = r * uint32(high-low)
	for e.rng < topValue {
		e.shiftLow()
		e.rng <<= 8
	}
	return nil
}

func (e *Encoder) shiftLow() {
	if uint32(e.low>>32) != 0 || e.low < 0xFF000000 {
		temp := e.cache
		for {
			e.out = append(e.out, temp+byte(e.low>>32))
			temp = 0xFF
			e.cacheSize--
			if e.cacheSize == 0 {
				break
			}
		}
		e.cache = byte(e.low >> 24)
	}
	e.cacheSize++
	e.low = (e.low << 8) & 0xFFFFFFFF
}

// Finish flushes the remaining state and returns the coded bytes.
func (e *Encoder) Finish() []byte {
	for i := 0; i < 5; i++ {
		e.shiftLow()
	}
	return e.out
}

// byteSource abstracts where a Decoder pulls its next input byte from:
// a fixed slice (batch decode of a framed substream) or a live
// bitstream.BitReader (incremental decode interleaved with external
// control flow, as the multicut-aware codec needs).
type byteSource interface {
	nextByte() byte
}

type sliceSource struct {
	data []byte
	pos  int
}

func (s *sliceSource) nextByte() byte {
	if s.pos >= len(s.data) {
		s.pos++
		return 0
	}
	b := s.data[s.pos]
	s.pos++
	return b
}

type streamSource struct {
	r *bitstream.BitReader
}

func (s *streamSource) nextByte() byte {
	if s.r.Remaining() < 8 {
		return 0
	}
	v, _ := s.r.Read(8)
	return byte(v)
}

// Decoder is the matching range decoder, reading bytes on demand.
type Decoder struct {
	code uint32
	rng  uint32
	src  byteSource
}

// NewDecoder creates a batch decoder over data, a byte slice produced by
// Encoder.Finish.
func NewDecoder(data []byte) *Decoder {
	return newDecoder(&sliceSource{data: data})
}

// NewStreamDecoder creates an incremental decoder pulling bytes lazily
// from r as renormalization demands them, so the caller may interleave
// an arbitrary number of DecodeSymbol calls with other decode logic
// without knowing the symbol count in advance.
func NewStreamDecoder(r *bitstream.BitReader) *Decoder {
	return newDecoder(&streamSource{r: r})
}

func newDecoder(src byteSource) *Decoder {
	d := &Decoder{rng: 0xFFFFFFFF, src: src}
	for i := 0; i < 5; i++ {
		d.code = (d.code << 8) | uint32(d.src.nextByte())
	}
	return d
}

// DecodeSymbol decodes the next symbol against table.
func (d *Decoder) DecodeSymbol(table *entropy.FrequencyTable) (int, error) {
	total := table.Total()
	if total == 0 || total > 0xFFFFFFFF {
		return 0, errors.New("arith: frequency total out of range")
	}
	d.rng /= uint32(total)
	target := uint64(d.code) / uint64(d.rng)
	if target >= total {
		target = total - 1
	}
	s, err := table.Find(target)
	if err != nil {
		return 0, err
	}
	low, high := table.Range(s)
	d.code -= uint32(low) * d.rng
	d.rng *= uint32(high - low)
	for d.rng < topValue {
		d.code = (d.code << 8) | uint32(d.src.nextByte())
		d.rng <<= 8
	}
	return s, nil
}

// EncodeSymbols arithmetic-codes the whole symbol sequence against table
// and returns the coded byte payload.
func EncodeSymbols(table *entropy.FrequencyTable, symbols []int) ([]byte, error) {
	enc := NewEncoder()
	for _, s := range symbols {
		if err := enc.EncodeSymbol(table, s); err != nil {
			return nil, err
		}
	}
	return enc.Finish(), nil
}

// DecodeSymbols decodes exactly n symbols from data against table.
func DecodeSymbols(table *entropy.FrequencyTable, data []byte, n int) ([]int, error) {
	dec := NewDecoder(data)
	out := make([]int, n)
	for i := 0; i < n; i++ {
		s, err := dec.DecodeSymbol(table)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// ErrFrameLengthMismatch is a data error: a framed substream declared a
// bit length longer than the bits remaining in the stream.
var ErrFrameLengthMismatch = errors.New("arith: framed substream shorter than declared length")

// WriteFramed arithmetic-codes symbols against table and appends them to
// bs as a length-prefixed substream: u32 length_in_bits | payload_bits.
func WriteFramed(bs *bitstream.BitStream, table *entropy.FrequencyTable, symbols []int) error {
	payload, err := EncodeSymbols(table, symbols)
	if err != nil {
		return err
	}
	if err := bs.Append(uint64(len(payload)*8), 32); err != nil {
		return err
	}
	return bs.AppendBytes(payload)
}

// ReadFramed reads a length-prefixed arithmetic substream written by
// WriteFramed and decodes n symbols from it against table.
func ReadFramed(r *bitstream.BitReader, table *entropy.FrequencyTable, n int) ([]int, error) {
	lengthBits, err := r.Read(32)
	if err != nil {
		return nil, errors.Wrap(err, "arith: read frame length")
	}
	if int(lengthBits) > r.Remaining() {
		return nil, errors.Wrapf(ErrFrameLengthMismatch, "declared %d bits, have %d", lengthBits, r.Remaining())
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
	return DecodeSymbols(table, payload, n)
}
