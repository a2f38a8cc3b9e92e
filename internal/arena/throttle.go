package arena

import "time"

// Throttle lets an action through at most once per interval of simulation time.
type Throttle struct {
	interval time.Duration
	last     time.Duration
	primed   bool
}

// NewThrottle creates a throttle. A non-positive interval allows every call.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{interval: interval}
}

// Allow reports whether the action may run at now, and records it if so.
func (t *Throttle) Allow(now time.Duration) bool {
	if t.primed && now-t.last < t.interval {
		return false
	}
	t.primed = true
	t.last = now
	return true
}

// Reset makes the next Allow succeed immediately.
func (t *Throttle) Reset() {
	t.primed = false
}
