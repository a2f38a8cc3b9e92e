package arena

import (
	"context"
	"reflect"
	"time"
)

// Ticker is anything driven by a frame delta.
type Ticker interface {
	Tick(dt time.Duration)
}

// Renderer draws after each tick. Loops skip a nil Renderer, including a
// typed nil pointer.
type Renderer interface {
	Render()
}

// Loop drives a Ticker at a fixed rate from a Clock until its context ends.
type Loop struct {
	Target   Ticker
	Clock    *Clock
	Interval time.Duration
	Renderer Renderer
}

// Run ticks until ctx is cancelled and returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	interval := l.Interval
	if interval <= 0 {
		interval = time.Second / 60
	}
	clock := l.Clock
	if clock == nil {
		clock = NewClock(SystemTime{}, 0)
	}
	clock.Tick()
	renderer := l.Renderer
	if isNil(renderer) {
		renderer = nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Target.Tick(clock.Tick())
			if renderer != nil {
				renderer.Render()
			}
		}
	}
}

func isNil(r Renderer) bool {
	if r == nil {
		return true
	}
	v := reflect.ValueOf(r)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Chan, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// Step advances t by n fixed ticks of dt. Used by tests and headless runs.
func Step(t Ticker, dt time.Duration, n int) {
	for i := 0; i < n; i++ {
		t.Tick(dt)
	}
}
