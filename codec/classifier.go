package codec

import "github.com/pkg/errors"

// Classifier is the external decision-tree codec-selector spec.md §1
// treats as an assumed collaborator: it maps an ensemble feature vector
// to one of two multicut codec branches. The façade never trains or
// inspects one; it only calls Classify.
type Classifier interface {
	// Classify returns 0 or 1, selecting the border or multicut-aware
	// branch of the ensemble codec respectively. Any other value is an
	// out-of-range classifier error (spec.md §7).
	Classify(features [3]float64) (int, error)
}

// ThresholdClassifier is a minimal, deterministic stand-in for the
// pre-trained classifier spec.md §1 assumes exists: it picks the
// multicut-aware branch once average partition size falls to or below
// a threshold (small, jagged partitions favor the aware codec's
// adaptive per-edge coding; large, simple partitions favor the border
// codec's corner-walk coding), and serves tests and callers that have
// not wired in a real trained model.
type ThresholdClassifier struct {
	// AvgPartitionSizeThreshold selects branch 1 (multicut-aware) when
	// features[0] (avg_partition_size) is at or below it.
	AvgPartitionSizeThreshold float64
}

// Classify implements Classifier.
func (c ThresholdClassifier) Classify(features [3]float64) (int, error) {
	if features[0] <= c.AvgPartitionSizeThreshold {
		return 1, nil
	}
	return 0, nil
}

func validateClass(class int) error {
	if class != 0 && class != 1 {
		return errors.Wrapf(ErrClassifierOutOfRange, "class %d", class)
	}
	return nil
}
