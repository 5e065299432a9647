package context

import "github.com/cocosip/multicut-codec/bitstream"

// NaiveEncoder writes one raw bit per call; the context vector is ignored.
type NaiveEncoder struct {
	bs *bitstream.BitStream
}

// NewNaiveEncoder wraps bs for raw bit appends.
func NewNaiveEncoder(bs *bitstream.BitStream) *NaiveEncoder {
	return &NaiveEncoder{bs: bs}
}

func (e *NaiveEncoder) Initialize() error { return nil }

func (e *NaiveEncoder) EncodeBit(bit int, ctx []int) error {
	return e.bs.Append(uint64(bit&1), 1)
}

func (e *NaiveEncoder) Finalize() error { return nil }

// NaiveDecoder is the symmetric reader.
type NaiveDecoder struct {
	r *bitstream.BitReader
}

// NewNaiveDecoder wraps r for raw bit reads.
func NewNaiveDecoder(r *bitstream.BitReader) *NaiveDecoder {
	return &NaiveDecoder{r: r}
}

func (d *NaiveDecoder) Initialize() error { return nil }

func (d *NaiveDecoder) DecodeBit(ctx []int) (int, error) {
	v, err := d.r.Read(1)
	return int(v), err
}
