// Package codec assembles the multicut/partition/optimizer packages into
// a single encode/decode façade over a serialized bitstream format.
package codec

import "errors"

// Sentinel errors, grouped by spec.md §7's error taxonomy: input errors
// are caller mistakes and fail fast; data errors mean a stream is
// malformed and get wrapped with context at the point of discovery via
// github.com/pkg/errors.Wrap; resource errors simply propagate from
// whatever package raised them (entropy/arith, bitstream, ...).
var (
	// ErrCodecNotFound is returned when a named preset is not registered.
	ErrCodecNotFound = errors.New("codec: preset not found")

	// ErrInvalidParameter indicates a Config field is out of range.
	ErrInvalidParameter = errors.New("codec: invalid parameter")

	// ErrUnsupportedFormat indicates a stream's preamble byte doesn't
	// match what this package knows how to read.
	ErrUnsupportedFormat = errors.New("codec: unsupported stream format")

	// ErrMalformedStream indicates a stream ended, or held a value, that
	// could not have come from this package's own Encode.
	ErrMalformedStream = errors.New("codec: malformed stream")

	// ErrClassifierOutOfRange indicates a Classifier returned a class
	// label outside the ensemble codec's two known branches.
	ErrClassifierOutOfRange = errors.New("codec: classifier returned out-of-range class")
)
