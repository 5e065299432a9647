package codec

import (
	"bytes"
	"compress/flate"
	"io"
	"time"

	"github.com/cocosip/multicut-codec/bitstream"
	"github.com/cocosip/multicut-codec/cost"
	"github.com/cocosip/multicut-codec/internal/timing"
	"github.com/cocosip/multicut-codec/multicut"
	"github.com/cocosip/multicut-codec/optimizer"
	"github.com/cocosip/multicut-codec/partition"
	"github.com/cocosip/multicut-codec/region"
	"github.com/pkg/errors"
)

// preamble is the header's format marker (spec.md §6).
const preamble = 0xFF

// Observer lets a caller watch the façade's progress — per-merge
// diagnostics from the optimizer and the ensemble codec's per-call
// branch choice — without this package depending on any concrete
// logging library. Embeds optimizer.Observer so an Encode caller can
// pass one value through both layers.
type Observer interface {
	optimizer.Observer
	// OnCodecSelected is called once per ensemble WriteEncoding/Decode
	// call with the chosen branch (0 = border, 1 = multicut-aware).
	OnCodecSelected(tag int)
	// OnPhaseTiming reports how long an Encode/Decode phase took,
	// grounded on original_source/include/core/timing.h's tic/toc/toctic
	// instrumentation around MulticutImage::encode's stages.
	OnPhaseTiming(phase string, elapsed time.Duration)
	// OnPayloadBits reports the bit length of an encoded sub-stream,
	// grounded on original_source/include/core/diagnostics.h's
	// DIAGNOSTICS_MESSAGE calls (e.g. "multicut_bits",
	// "multicut_image_encoded_bits" in multicut_image.h).
	OnPayloadBits(label string, bits int)
}

// noopObserver is the default when a caller passes nil.
type noopObserver struct{}

func (noopObserver) OnMerge(a, b int32, gain cost.Result)              {}
func (noopObserver) OnCodecSelected(tag int)                           {}
func (noopObserver) OnPhaseTiming(phase string, elapsed time.Duration) {}
func (noopObserver) OnPayloadBits(label string, bits int)              {}

// Encode runs the configured optimizer over img, then the configured
// partition and multicut codecs, and serializes the result per spec.md
// §6's file format. classifier is only consulted when cfg.MulticutCodec
// is MulticutEnsemble; obs may be nil.
func Encode(img region.Image, cfg Config, classifier Classifier, obs Observer) ([]byte, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if obs == nil {
		obs = noopObserver{}
	}

	rows, cols := img.Rows(), img.Cols()
	if rows <= 0 || cols <= 0 || rows > 0xFFFF || cols > 0xFFFF {
		return nil, errors.Wrapf(ErrInvalidParameter, "dimensions %dx%d out of range", rows, cols)
	}

	clock := timing.New()
	clock.Tic("encode")

	mcCodec, err := newMulticutCodec(cfg.MulticutCodec, classifier, obs, cfg.CompressionStrength)
	if err != nil {
		return nil, err
	}

	partCodec := newPartitionCodec(cfg.PartitionCodec)
	clock.Tic("optimize")
	mask, err := runOptimizer(img, partCodec, cfg, obs)
	if err != nil {
		return nil, errors.Wrap(err, "codec: optimizer run")
	}
	obs.OnPhaseTiming("optimize", clock.Toc("optimize"))
	mask.Canonicalize()

	mc := region.NewMulticutWithoutRelabel(mask)
	if err := partCodec.NotifyInit(img, mc); err != nil {
		return nil, errors.Wrap(err, "codec: partition re-init after optimize")
	}

	bs := bitstream.New()
	if err := bs.Append(preamble, 8); err != nil {
		return nil, err
	}
	if err := bs.Append(uint64(rows), 16); err != nil {
		return nil, err
	}
	if err := bs.Append(uint64(cols), 16); err != nil {
		return nil, err
	}

	bitsBefore := bs.Size()
	if err := mcCodec.WriteEncoding(bs, mc); err != nil {
		return nil, errors.Wrap(err, "codec: multicut payload")
	}
	obs.OnPayloadBits("multicut_bits", bs.Size()-bitsBefore)

	bitsBefore = bs.Size()
	if err := partCodec.WriteEncoding(bs, mc); err != nil {
		return nil, errors.Wrap(err, "codec: partition payload")
	}
	obs.OnPayloadBits("partition_bits", bs.Size()-bitsBefore)
	obs.OnPayloadBits("multicut_image_encoded_bits", bs.Size())

	var inner bytes.Buffer
	if err := bs.WriteFile(&inner); err != nil {
		return nil, errors.Wrap(err, "codec: serialize bitstream")
	}

	if !cfg.EntropyCompress {
		obs.OnPhaseTiming("encode", clock.Toc("encode"))
		return inner.Bytes(), nil
	}
	out, err := deflateWrap(inner.Bytes())
	obs.OnPhaseTiming("encode", clock.Toc("encode"))
	return out, err
}

// Decode reverses Encode: it reads the header, dispatches the same
// codec kinds cfg names, and reconstructs a dense image.
func Decode(data []byte, cfg Config, classifier Classifier, obs Observer) (*region.DenseImage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if obs == nil {
		obs = noopObserver{}
	}
	clock := timing.New()
	clock.Tic("decode")
	defer func() { obs.OnPhaseTiming("decode", clock.Toc("decode")) }()

	raw := data
	if cfg.EntropyCompress {
		unwrapped, err := deflateUnwrap(data)
		if err != nil {
			return nil, err
		}
		raw = unwrapped
	}

	bs, err := bitstream.ReadFile(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(err, "codec: deserialize bitstream")
	}
	r := bitstream.NewReader(bs)

	got, err := r.Read(8)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedStream, "codec: read preamble")
	}
	if got != preamble {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "preamble mismatch: got %#x want %#x", got, preamble)
	}
	rowsBits, err := r.Read(16)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedStream, "codec: read rows")
	}
	colsBits, err := r.Read(16)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedStream, "codec: read cols")
	}
	rows, cols := int(rowsBits), int(colsBits)

	mcCodec, err := newMulticutCodec(cfg.MulticutCodec, classifier, obs, cfg.CompressionStrength)
	if err != nil {
		return nil, err
	}
	mask, err := mcCodec.Decode(r, rows, cols)
	if err != nil {
		return nil, errors.Wrap(err, "codec: multicut payload")
	}

	numRegions := mask.Canonicalize()
	img := region.NewDenseImage(rows, cols)
	partCodec := newPartitionCodec(cfg.PartitionCodec)
	if err := partCodec.Decode(r, mask, numRegions, img); err != nil {
		return nil, errors.Wrap(err, "codec: partition payload")
	}
	return img, nil
}

// runOptimizer dispatches cfg.Optimizer to the matching optimizer
// package entry point, starting from a singleton mask unless
// cfg.InitialBlockSize asks for a coarser block-tiled start. The grid
// optimizer ignores InitialBlockSize and starts every tile from one
// region per pixel.
func runOptimizer(img region.Image, partCodec partition.Codec, cfg Config, obs Observer) (*region.Mask, error) {
	rows, cols := img.Rows(), img.Cols()
	var (
		singleton *region.Mask
		err       error
	)
	if cfg.InitialBlockSize > 0 {
		singleton, err = region.NewBlockMask(rows, cols, cfg.InitialBlockSize)
	} else {
		singleton, err = region.NewSingletonMask(rows, cols)
	}
	if err != nil {
		return nil, err
	}

	optCfg := optimizer.Config{
		WeightBits:       1,
		WeightErr:        cfg.CompressionStrength,
		InitPerfectJoins: true,
		Observer:         obs,
	}

	switch cfg.Optimizer {
	case OptimizerLossless:
		// With no weight on bits, a merge's weighted gain is its error
		// gain, which is never positive, so only the zero-error perfect
		// joins (neighbors of identical color) are taken.
		optCfg.WeightBits = 0
		optCfg.WeightErr = 1
		return optimizer.Run(img, singleton, partCodec, optCfg)
	case OptimizerGreedy:
		return optimizer.Run(img, singleton, partCodec, optCfg)
	case OptimizerGreedyGrid:
		gridCfg := optimizer.GridConfig{CellSize: cfg.cellSize(), Config: optCfg}
		return optimizer.RunGrid(img, partCodec, gridCfg)
	default:
		return nil, errors.Wrapf(ErrInvalidParameter, "optimizer kind %d", cfg.Optimizer)
	}
}

// newPartitionCodec constructs the color codec cfg names.
func newPartitionCodec(kind PartitionCodecKind) partition.Codec {
	switch kind {
	case PartitionDifferential:
		return partition.NewDifferentialMeanCodec()
	default:
		return partition.NewMeanCodec()
	}
}

// newMulticutCodec constructs the boundary codec cfg names, wiring the
// classifier and observer through when the ensemble is selected.
func newMulticutCodec(kind MulticutCodecKind, classifier Classifier, obs Observer, optimizationLevel float64) (multicut.Codec, error) {
	switch kind {
	case MulticutHuffman:
		return multicut.NewHuffmanBlockCodec(), nil
	case MulticutBorder:
		return multicut.NewBorderCodec(), nil
	case MulticutAware:
		return multicut.NewAwareCodec(), nil
	case MulticutEnsemble:
		if classifier == nil {
			return nil, errors.Wrap(ErrInvalidParameter, "ensemble codec requires a non-nil classifier")
		}
		return newEnsembleCodec(classifier, obs, optimizationLevel), nil
	default:
		return nil, errors.Wrapf(ErrInvalidParameter, "multicut codec kind %d", kind)
	}
}

// deflateWrap prepends a u32 uncompressed byte count (MSB-first, per
// spec.md §6) and DEFLATE-compresses payload.
func deflateWrap(payload []byte) ([]byte, error) {
	var out bytes.Buffer
	header := []byte{
		byte(len(payload) >> 24), byte(len(payload) >> 16),
		byte(len(payload) >> 8), byte(len(payload)),
	}
	out.Write(header)

	fw, err := flate.NewWriter(&out, flate.BestCompression)
	if err != nil {
		return nil, errors.Wrap(err, "codec: create deflate writer")
	}
	if _, err := fw.Write(payload); err != nil {
		return nil, errors.Wrap(err, "codec: deflate payload")
	}
	if err := fw.Close(); err != nil {
		return nil, errors.Wrap(err, "codec: close deflate writer")
	}
	return out.Bytes(), nil
}

// deflateUnwrap reverses deflateWrap.
func deflateUnwrap(data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, errors.Wrap(ErrMalformedStream, "codec: truncated deflate header")
	}
	want := int(data[0])<<24 | int(data[1])<<16 | int(data[2])<<8 | int(data[3])

	fr := flate.NewReader(bytes.NewReader(data[4:]))
	defer fr.Close()
	out, err := io.ReadAll(fr)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedStream, "codec: inflate payload")
	}
	if len(out) != want {
		return nil, errors.Wrapf(ErrMalformedStream, "inflated length %d != declared %d", len(out), want)
	}
	return out, nil
}
