// Package kernel implements the scheduler engine: process control blocks,
// the ready queue, the CFS run queue and its red-black tree, and the
// single- and dual-CPU scheduling loops that drive simulated processes
// to completion.
package kernel

import (
	"time"
)

// Clock is a monotonic millisecond clock zeroed at engine start. It has no
// state beyond its origin timestamp and supplies NowMillis to every other
// component.
type Clock struct {
	origin time.Time
}

// NewClock returns a Clock zeroed at the current instant.
func NewClock() *Clock {
	return &Clock{origin: time.Now()}
}

// NowMillis returns the number of milliseconds elapsed since the clock's
// origin.
func (c *Clock) NowMillis() int64 {
	return time.Since(c.origin).Milliseconds()
}

// Reset rebases the clock's origin to the current instant. It exists for
// tests that need a fresh zero point without constructing a new engine.
func (c *Clock) Reset() {
	c.origin = time.Now()
}

// iterationBudget is a circuit-breaker shared by every scheduler loop: a
// deliberate fail-safe guaranteeing termination on malformed input, not a
// semantic limit (spec.md §5, §9). It is generous enough that no correctly
// terminating workload (N <= 100 processes) ever approaches it.
const iterationBudget = 100_000

// budget tracks remaining iterations for one scheduler loop invocation.
type budget struct {
	remaining int64
}

func newBudget() *budget {
	return &budget{remaining: iterationBudget}
}

// tick consumes one iteration and reports whether the budget is exhausted.
// Callers own a *budget exclusively within a single scheduler loop goroutine.
func (b *budget) tick() bool {
	b.remaining--
	return b.remaining <= 0
}

// sleepMillis blocks the calling goroutine for the given number of
// simulated milliseconds; one simulated millisecond is one real
// millisecond.
func sleepMillis(ms int64) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

// sleepMicros blocks for the given number of simulated microseconds, used
// by the scheduler loops' polling pacing (spec.md §4.4, §4.5).
func sleepMicros(us int64) {
	time.Sleep(time.Duration(us) * time.Microsecond)
}
