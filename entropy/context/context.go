// Package context implements the three context-encoder variants from
// spec.md §4.3 behind one uniform interface: a stream of bits with an
// optional, advisory per-bit context vector.
package context

// Encoder codes a bit stream onto a BitStream. The context vector is
// advisory; Naive ignores it entirely, Block buffers k bits into
// symbols before coding, and Adaptive keys per-context frequency
// statistics off the immediately-preceding bits (not the caller's
// context vector, which remains available for callers wiring a richer
// predictor in the future).
type Encoder interface {
	// Initialize prepares the encoder for a fresh pass.
	Initialize() error
	// EncodeBit codes one bit with an advisory context vector.
	EncodeBit(bit int, ctx []int) error
	// Finalize flushes any buffered state to the underlying BitStream.
	Finalize() error
}

// Decoder is the symmetric read side of Encoder.
type Decoder interface {
	Initialize() error
	DecodeBit(ctx []int) (int, error)
}

// Callers select a variant directly (NewNaiveEncoder, NewBlockEncoder,
// NewAdaptiveEncoder) rather than through a registry, mirroring the
// teacher's codec.Codec pattern of one small concrete type per strategy.
