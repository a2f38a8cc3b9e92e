package arena

import (
	"sync"
	"time"
)

// TimeProvider supplies wall-clock time to a Clock.
type TimeProvider interface {
	Now() time.Time
}

// SystemTime reads time.Now.
type SystemTime struct{}

// Now returns the current wall-clock time.
func (SystemTime) Now() time.Time { return time.Now() }

// ManualTime is a TimeProvider that only moves when told to.
// Used by tests and by headless scenario runs.
type ManualTime struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualTime creates a manual time source starting at start.
func NewManualTime(start time.Time) *ManualTime {
	return &ManualTime{now: start}
}

// Now returns the current manual time.
func (m *ManualTime) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the manual time forward by d.
func (m *ManualTime) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// Clock turns wall-clock readings into per-frame deltas. Deltas are never
// negative and never exceed maxDelta, so a suspended terminal or a slow frame
// does not teleport the simulation forward.
type Clock struct {
	src      TimeProvider
	maxDelta time.Duration
	last     time.Time
	started  bool
	elapsed  time.Duration
}

// NewClock creates a clock over src. A non-positive maxDelta disables clamping.
func NewClock(src TimeProvider, maxDelta time.Duration) *Clock {
	if src == nil {
		src = SystemTime{}
	}
	return &Clock{src: src, maxDelta: maxDelta}
}

// Tick returns the delta since the previous Tick. The first call returns 0.
func (c *Clock) Tick() time.Duration {
	now := c.src.Now()
	if !c.started {
		c.started = true
		c.last = now
		return 0
	}

	dt := now.Sub(c.last)
	c.last = now
	if dt < 0 {
		dt = 0
	}
	if c.maxDelta > 0 && dt > c.maxDelta {
		dt = c.maxDelta
	}
	c.elapsed += dt
	return dt
}

// Elapsed returns the sum of all deltas handed out so far.
func (c *Clock) Elapsed() time.Duration {
	return c.elapsed
}
