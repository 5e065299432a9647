package codec

import "github.com/pkg/errors"

// MulticutCodecKind selects which boundary codec the façade wires in.
// A small integer enum with an array-backed String(), not runtime type
// inspection (spec.md §9 open question: replace a reflection-based
// `make_key` helper with a variant-tag-to-string map).
type MulticutCodecKind int

const (
	MulticutHuffman MulticutCodecKind = iota
	MulticutBorder
	MulticutAware
	MulticutEnsemble
)

var multicutCodecNames = [...]string{"HUFFMAN", "BORDER", "MULTICUT_AWARE", "ENSEMBLE"}

func (k MulticutCodecKind) String() string {
	if k < 0 || int(k) >= len(multicutCodecNames) {
		return "UNKNOWN"
	}
	return multicutCodecNames[k]
}

// PartitionCodecKind selects which color (partition) codec the façade
// wires in.
type PartitionCodecKind int

const (
	PartitionMean PartitionCodecKind = iota
	PartitionDifferential
)

var partitionCodecNames = [...]string{"MEAN", "DIFFERENTIAL"}

func (k PartitionCodecKind) String() string {
	if k < 0 || int(k) >= len(partitionCodecNames) {
		return "UNKNOWN"
	}
	return partitionCodecNames[k]
}

// OptimizerKind selects which segmentation strategy the façade runs
// before coding.
type OptimizerKind int

const (
	OptimizerLossless OptimizerKind = iota
	OptimizerGreedy
	OptimizerGreedyGrid
)

var optimizerKindNames = [...]string{"LOSSLESS", "GREEDY", "GREEDY_GRID"}

func (k OptimizerKind) String() string {
	if k < 0 || int(k) >= len(optimizerKindNames) {
		return "UNKNOWN"
	}
	return optimizerKindNames[k]
}

// DefaultCellSize is the grid optimizer's tile size when Config.CellSize
// is left at zero (spec.md §6: "cell_size: int | tile size for grid
// optimizer (default 128)").
const DefaultCellSize = 128

// Config is the façade's configuration surface (spec.md §6), mirroring
// the teacher's BaseOptions in shape: a plain struct with its own
// Validate method, checked once up front rather than scattered through
// the encode path.
type Config struct {
	MulticutCodec       MulticutCodecKind
	PartitionCodec      PartitionCodecKind
	Optimizer           OptimizerKind
	CompressionStrength float64 // w_err; larger merges more aggressively
	CellSize            int     // tile size for OptimizerGreedyGrid; 0 = DefaultCellSize
	EntropyCompress     bool    // toggles the outer deflate wrap

	// InitialBlockSize seeds the optimizer from region.NewBlockMask
	// instead of region.NewSingletonMask, grounded on
	// original_source/include/core/multicut_image.h's
	// get_default_mask(img, block_size): a coarser starting partition
	// trades the ability to recover a boundary through a block's
	// interior for fewer initial regions to test joins over. 0 (the
	// default) keeps the singleton-per-pixel start. OptimizerGreedyGrid
	// ignores this field.
	InitialBlockSize int
}

// Validate checks that every enum field is in range and every numeric
// field is sane, failing fast the way spec.md §7 requires of an input
// error (a caller bug, not a data error).
func (c Config) Validate() error {
	if c.MulticutCodec < 0 || int(c.MulticutCodec) >= len(multicutCodecNames) {
		return errors.Wrapf(ErrInvalidParameter, "multicut codec kind %d", c.MulticutCodec)
	}
	if c.PartitionCodec < 0 || int(c.PartitionCodec) >= len(partitionCodecNames) {
		return errors.Wrapf(ErrInvalidParameter, "partition codec kind %d", c.PartitionCodec)
	}
	if c.Optimizer < 0 || int(c.Optimizer) >= len(optimizerKindNames) {
		return errors.Wrapf(ErrInvalidParameter, "optimizer kind %d", c.Optimizer)
	}
	if c.CompressionStrength < 0 {
		return errors.Wrap(ErrInvalidParameter, "compression_strength must be >= 0")
	}
	if c.CellSize < 0 {
		return errors.Wrap(ErrInvalidParameter, "cell_size must be >= 0")
	}
	if c.InitialBlockSize < 0 {
		return errors.Wrap(ErrInvalidParameter, "initial_block_size must be >= 0")
	}
	return nil
}

func (c Config) cellSize() int {
	if c.CellSize <= 0 {
		return DefaultCellSize
	}
	return c.CellSize
}
