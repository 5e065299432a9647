// Package entropy holds the FrequencyTable shared by the arithmetic and
// Huffman backends, plus the quantization rule used by every sub-codec
// that must serialize an empirical distribution (block context encoder,
// differential-mean codec, the 2x2 Huffman multicut codec, the border
// codec's symbol table).
package entropy

import "github.com/pkg/errors"

// ErrZeroFrequency is a programmer error: a symbol with zero weight was
// asked to be coded.
var ErrZeroFrequency = errors.New("entropy: symbol has zero frequency")

// FrequencyTable maps symbols 0..N-1 to positive integer weights and
// derives cumulative sums for range coding.
type FrequencyTable struct {
	freq []uint64
	cum  []uint64 // cum[i] = sum(freq[0:i]); cum[N] = total
}

// NewFrequencyTable builds a table from raw per-symbol weights. Weights
// may be zero (symbol absent from the alphabet actually used).
func NewFrequencyTable(weights []uint64) *FrequencyTable {
	t := &FrequencyTable{
		freq: append([]uint64(nil), weights...),
		cum:  make([]uint64, len(weights)+1),
	}
	t.rebuild()
	return t
}

func (t *FrequencyTable) rebuild() {
	var sum uint64
	for i, f := range t.freq {
		t.cum[i] = sum
		sum += f
	}
	t.cum[len(t.freq)] = sum
}

// Size returns the alphabet size N.
func (t *FrequencyTable) Size() int { return len(t.freq) }

// Freq returns the weight of symbol s.
func (t *FrequencyTable) Freq(s int) uint64 { return t.freq[s] }

// Total returns the sum of all weights.
func (t *FrequencyTable) Total() uint64 { return t.cum[len(t.freq)] }

// CumFreq returns the cumulative weight of symbols below s.
func (t *FrequencyTable) CumFreq(s int) uint64 { return t.cum[s] }

// Range returns [low, high) for symbol s, i.e. CumFreq(s), CumFreq(s)+Freq(s).
func (t *FrequencyTable) Range(s int) (low, high uint64) {
	return t.cum[s], t.cum[s] + t.freq[s]
}

// Find returns the symbol whose [low,high) range contains target, where
// target < Total(). Linear scan; alphabets here are small (<= 2^16).
func (t *FrequencyTable) Find(target uint64) (int, error) {
	for s := 0; s < len(t.freq); s++ {
		if target >= t.cum[s] && target < t.cum[s]+t.freq[s] {
			return s, nil
		}
	}
	return 0, errors.New("entropy: cumulative target out of range")
}

// EncodeCheck validates that symbol s is codable (nonzero frequency).
func (t *FrequencyTable) EncodeCheck(s int) error {
	if t.freq[s] == 0 {
		return ErrZeroFrequency
	}
	return nil
}

// QuantizeCounts normalizes raw empirical counts into a frequency table
// of `precision` bits: nonzero counts are clamped into [1, 2^precision-1]
// proportional to their share of the total, zero counts stay zero. This
// is the clamp rule spec.md §4.3/§4.6/§4.7.2 all share.
func QuantizeCounts(counts []uint64, precision int) []uint64 {
	max := (uint64(1) << uint(precision)) - 1
	var total uint64
	for _, c := range counts {
		total += c
	}
	out := make([]uint64, len(counts))
	if total == 0 {
		return out
	}
	for i, c := range counts {
		if c == 0 {
			continue
		}
		q := c * max / total
		if q < 1 {
			q = 1
		}
		if q > max {
			q = max
		}
		out[i] = q
	}
	return out
}
