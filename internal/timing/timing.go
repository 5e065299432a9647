// Package timing is a marker-keyed stopwatch, grounded on
// original_source/include/core/timing.h's global tic/toc/toctic: instead
// of a package-level map keyed by an int marker, it is an instantiable
// Clock keyed by string label, so concurrent Encode/Decode calls never
// share state.
package timing

import "time"

// Clock records a start time per label and reports elapsed durations
// against it, mirroring tic (start/restart a marker) and toc/toctic
// (report elapsed, optionally restarting) from timing.h.
type Clock struct {
	starts map[string]time.Time
	now    func() time.Time
}

// New returns a Clock using wall-clock time.
func New() *Clock {
	return &Clock{starts: make(map[string]time.Time), now: time.Now}
}

// Tic starts (or restarts) the stopwatch for label.
func (c *Clock) Tic(label string) {
	c.starts[label] = c.now()
}

// Toc returns the elapsed time since the last Tic for label. It returns
// 0 if Tic was never called for label, rather than timing.h's stderr
// warning, since a silent library has no console to warn on.
func (c *Clock) Toc(label string) time.Duration {
	start, ok := c.starts[label]
	if !ok {
		return 0
	}
	return c.now().Sub(start)
}

// TocTic reports the elapsed time since the last Tic for label, then
// immediately restarts it, for chaining timed phases back to back.
func (c *Clock) TocTic(label string) time.Duration {
	elapsed := c.Toc(label)
	c.Tic(label)
	return elapsed
}
