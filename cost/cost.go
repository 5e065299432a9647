// Package cost implements EncodingResult (spec.md §3): the pair of a
// bit cost and a reconstruction-error cost, with additive arithmetic and
// a weighted scalar combination used throughout the optimizer and the
// partition/multicut codecs.
package cost

// Result carries both a cost (bits_used, encoding_error) and the
// outcome of a hypothetical action (e.g. "if these two regions joined").
type Result struct {
	Bits int
	Err  float64
}

// Add returns the componentwise sum of r and o.
func (r Result) Add(o Result) Result {
	return Result{Bits: r.Bits + o.Bits, Err: r.Err + o.Err}
}

// Sub returns the componentwise difference r - o.
func (r Result) Sub(o Result) Result {
	return Result{Bits: r.Bits - o.Bits, Err: r.Err - o.Err}
}

// Weighted collapses r into a single scalar cost w_bits*Bits + w_err*Err.
func (r Result) Weighted(wBits, wErr float64) float64 {
	return wBits*float64(r.Bits) + wErr*r.Err
}
