package rod

import "time"

// idleBudget tracks how long a connected session has sat unused. It is a
// pure value type so the keep-warm policy is testable without a browser:
// Touch resets the accumulated idle time, Tick adds one interval and
// reports whether the ceiling was reached.
type idleBudget struct {
	interval time.Duration
	ceiling  time.Duration
	elapsed  time.Duration
}

func newIdleBudget(interval, ceiling time.Duration) idleBudget {
	return idleBudget{interval: interval, ceiling: ceiling}
}

// Touch resets the idle clock. Called on every successful use of the
// session.
func (b idleBudget) Touch() idleBudget {
	b.elapsed = 0
	return b
}

// Tick advances the idle clock by one interval. The second return value is
// true once accumulated idle time reaches the ceiling, at which point the
// caller releases the session; the returned budget is reset so a relaunched
// session starts fresh.
func (b idleBudget) Tick() (idleBudget, bool) {
	b.elapsed += b.interval
	if b.elapsed >= b.ceiling {
		b.elapsed = 0
		return b, true
	}
	return b, false
}
