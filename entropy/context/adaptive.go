package context

import (
	"github.com/cocosip/multicut-codec/bitstream"
	"github.com/cocosip/multicut-codec/entropy"
	"github.com/cocosip/multicut-codec/entropy/arith"
	"github.com/pkg/errors"
)

// DefaultWeight is the Laplace-like smoothing weight used when exactly
// one of a context's two bit counts is still zero (spec.md §4.3).
const DefaultWeight = 10

// ringEntry is one slot of the sliding window: the context a bit was
// coded under, and the bit itself, so eviction can decrement the right
// (context, bit) count in O(1).
type ringEntry struct {
	context, bit int
}

// ring is a fixed-capacity circular buffer of ringEntry.
type ring struct {
	buf   []ringEntry
	head  int
	count int
}

func newRing(capacity int) *ring {
	return &ring{buf: make([]ringEntry, capacity)}
}

// push inserts e; if the ring was already full, the evicted entry is
// returned with ok=true.
func (r *ring) push(e ringEntry) (evicted ringEntry, ok bool) {
	capacity := len(r.buf)
	if capacity == 0 {
		return ringEntry{}, false
	}
	if r.count == capacity {
		evicted = r.buf[r.head]
		ok = true
		r.buf[r.head] = e
		r.head = (r.head + 1) % capacity
		return
	}
	idx := (r.head + r.count) % capacity
	r.buf[idx] = e
	r.count++
	return ringEntry{}, false
}

func smoothedTable(counts [2]uint64) *entropy.FrequencyTable {
	c0, c1 := counts[0], counts[1]
	switch {
	case c0 == 0 && c1 == 0:
		return entropy.NewFrequencyTable([]uint64{1, 1})
	case c0 == 0:
		return entropy.NewFrequencyTable([]uint64{1, DefaultWeight})
	case c1 == 0:
		return entropy.NewFrequencyTable([]uint64{DefaultWeight, 1})
	default:
		return entropy.NewFrequencyTable([]uint64{c0, c1})
	}
}

// AdaptiveEncoder maintains a sliding window of the last W coded bits
// and, for each of 2^O possible O-bit preceding contexts, a (count0,
// count1) frequency pair, used to arithmetic-code the current bit.
type AdaptiveEncoder struct {
	w, o       int
	contextMax int
	bs         *bitstream.BitStream
	enc        *arith.Encoder
	freq       [][2]uint64
	window     *ring
	curContext int
}

// NewAdaptiveEncoder creates an Adaptive(W,O) encoder. The coded output
// is a length-prefixed arithmetic substream appended to bs on Finalize.
func NewAdaptiveEncoder(bs *bitstream.BitStream, w, o int) *AdaptiveEncoder {
	numContexts := 1 << uint(o)
	return &AdaptiveEncoder{
		w: w, o: o, contextMax: numContexts - 1,
		bs:     bs,
		enc:    arith.NewEncoder(),
		freq:   make([][2]uint64, numContexts),
		window: newRing(w),
	}
}

func (e *AdaptiveEncoder) Initialize() error { return nil }

func (e *AdaptiveEncoder) EncodeBit(bit int, ctx []int) error {
	bit &= 1
	context := e.curContext
	table := smoothedTable(e.freq[context])
	if err := e.enc.EncodeSymbol(table, bit); err != nil {
		return err
	}

	e.freq[context][bit]++
	if evicted, ok := e.window.push(ringEntry{context: context, bit: bit}); ok {
		e.freq[evicted.context][evicted.bit]--
	}
	e.curContext = ((context << 1) | bit) & e.contextMax
	return nil
}

// Finalize flushes the arithmetic coder and appends a length-prefixed
// substream (u32 length_in_bits | payload_bits) onto bs.
func (e *AdaptiveEncoder) Finalize() error {
	payload := e.enc.Finish()
	if err := e.bs.Append(uint64(len(payload)*8), 32); err != nil {
		return err
	}
	return e.bs.AppendBytes(payload)
}

// AdaptiveDecoder is the symmetric read side. It decodes bits
// incrementally: callers may interleave an arbitrary number of
// DecodeBit calls with other control flow (e.g. a union-find walk)
// without knowing the total bit count in advance.
type AdaptiveDecoder struct {
	w, o       int
	contextMax int
	r          *bitstream.BitReader
	dec        *arith.Decoder
	freq       [][2]uint64
	window     *ring
	curContext int
}

// NewAdaptiveDecoder creates an Adaptive(W,O) decoder reading from r.
func NewAdaptiveDecoder(r *bitstream.BitReader, w, o int) *AdaptiveDecoder {
	numContexts := 1 << uint(o)
	return &AdaptiveDecoder{
		w: w, o: o, contextMax: numContexts - 1,
		r:      r,
		freq:   make([][2]uint64, numContexts),
		window: newRing(w),
	}
}

// Initialize reads the length-prefixed substream header and positions
// the internal range decoder at the start of the payload.
func (d *AdaptiveDecoder) Initialize() error {
	lengthBits, err := d.r.Read(32)
	if err != nil {
		return errors.Wrap(err, "context: read adaptive substream length")
	}
	if int(lengthBits) > d.r.Remaining() {
		return errors.Wrapf(arith.ErrFrameLengthMismatch, "declared %d bits, have %d", lengthBits, d.r.Remaining())
	}
	sub, err := d.r.ReadSubstream(int(lengthBits))
	if err != nil {
		return err
	}
	d.dec = arith.NewStreamDecoder(bitstream.NewReader(sub))
	return nil
}

func (d *AdaptiveDecoder) DecodeBit(ctx []int) (int, error) {
	if d.dec == nil {
		return 0, errors.New("context: adaptive decoder not initialized")
	}
	context := d.curContext
	table := smoothedTable(d.freq[context])
	bit, err := d.dec.DecodeSymbol(table)
	if err != nil {
		return 0, err
	}

	d.freq[context][bit]++
	if evicted, ok := d.window.push(ringEntry{context: context, bit: bit}); ok {
		d.freq[evicted.context][evicted.bit]--
	}
	d.curContext = ((context << 1) | bit) & d.contextMax
	return bit, nil
}
