package codec

import (
	"github.com/cocosip/multicut-codec/bitstream"
	"github.com/cocosip/multicut-codec/multicut"
	"github.com/cocosip/multicut-codec/region"
)

// ensembleCodec is the MulticutCodec spec.md §4.10 describes: it picks
// between two underlying multicut codecs per call, based on a feature
// vector and an external Classifier, and records its choice as a single
// leading tag bit so Decode can mirror the same choice without
// re-running the classifier.
type ensembleCodec struct {
	classifier        Classifier
	border            multicut.Codec
	aware             multicut.Codec
	observer          Observer
	optimizationLevel float64
}

func newEnsembleCodec(classifier Classifier, observer Observer, optimizationLevel float64) *ensembleCodec {
	return &ensembleCodec{
		classifier:        classifier,
		border:            multicut.NewBorderCodec(),
		aware:             multicut.NewAwareCodec(),
		observer:          observer,
		optimizationLevel: optimizationLevel,
	}
}

// Clone returns an independent ensemble codec sharing the same
// classifier and observer (both stateless from this codec's point of
// view) but fresh underlying codec instances.
func (e *ensembleCodec) Clone() multicut.Codec {
	return &ensembleCodec{
		classifier:        e.classifier,
		border:            e.border.Clone(),
		aware:             e.aware.Clone(),
		observer:          e.observer,
		optimizationLevel: e.optimizationLevel,
	}
}

// featureVector computes spec.md §4.10's (avg_partition_size,
// pixel_count, optimization_level) triple from mc's current partition.
func (e *ensembleCodec) featureVector(mc *region.Multicut) [3]float64 {
	mask := mc.Mask()
	pixelCount := float64(mask.Rows() * mask.Cols())
	numRegions := float64(len(mc.ActiveLabels()))
	avgPartitionSize := pixelCount
	if numRegions > 0 {
		avgPartitionSize = pixelCount / numRegions
	}
	return [3]float64{avgPartitionSize, pixelCount, e.optimizationLevel}
}

// WriteEncoding computes the feature vector, classifies it, writes the
// resulting 1-bit tag, then delegates to the chosen branch.
func (e *ensembleCodec) WriteEncoding(bs *bitstream.BitStream, mc *region.Multicut) error {
	class, err := e.classifier.Classify(e.featureVector(mc))
	if err != nil {
		return err
	}
	if err := validateClass(class); err != nil {
		return err
	}

	if err := bs.Append(uint64(class), 1); err != nil {
		return err
	}
	if e.observer != nil {
		e.observer.OnCodecSelected(class)
	}
	if class == 1 {
		return e.aware.WriteEncoding(bs, mc)
	}
	return e.border.WriteEncoding(bs, mc)
}

// Decode reads the tag bit and delegates to the matching branch.
func (e *ensembleCodec) Decode(r *bitstream.BitReader, rows, cols int) (*region.Mask, error) {
	class, err := r.Read(1)
	if err != nil {
		return nil, err
	}
	if e.observer != nil {
		e.observer.OnCodecSelected(int(class))
	}
	if class == 1 {
		return e.aware.Decode(r, rows, cols)
	}
	return e.border.Decode(r, rows, cols)
}
