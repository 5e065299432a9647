package multicut

import (
	"github.com/cocosip/multicut-codec/bitstream"
	"github.com/cocosip/multicut-codec/region"
)

// Codec is the uniform operation set every multicut (boundary) codec
// variant implements: serialize the edge set of a mask onto a
// BitStream, and reconstruct a canonical mask from one.
type Codec interface {
	// Clone returns an independent copy (the façade never mutates a
	// codec across calls, but cloning keeps the shape uniform with
	// partition.Codec for callers that hold both by interface).
	Clone() Codec

	// WriteEncoding serializes mc's mask onto bs.
	WriteEncoding(bs *bitstream.BitStream, mc *region.Multicut) error

	// Decode reconstructs a canonical rows x cols mask from r.
	Decode(r *bitstream.BitReader, rows, cols int) (*region.Mask, error)
}
