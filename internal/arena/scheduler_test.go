package arena

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type countingTicker struct {
	mu    sync.Mutex
	ticks int
	total time.Duration
}

func (c *countingTicker) Tick(dt time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks++
	c.total += dt
}

func (c *countingTicker) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks
}

type countingRenderer struct {
	mu     sync.Mutex
	frames int
}

func (r *countingRenderer) Render() {
	r.mu.Lock()
	r.frames++
	r.mu.Unlock()
}

func TestStep(t *testing.T) {
	c := &countingTicker{}
	Step(c, 16*time.Millisecond, 5)

	if c.ticks != 5 || c.total != 80*time.Millisecond {
		t.Errorf("Step ran %d ticks totalling %v, expected 5 and 80ms", c.ticks, c.total)
	}
}

func TestLoopRunsUntilCancelled(t *testing.T) {
	c := &countingTicker{}
	r := &countingRenderer{}
	loop := &Loop{Target: c, Interval: time.Millisecond, Renderer: r}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for c.count() < 3 {
		select {
		case <-deadline:
			t.Fatal("loop did not tick")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, expected context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop after cancel")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frames < 3 {
		t.Errorf("rendered %d frames, expected one per tick", r.frames)
	}
}

func TestLoopUsesClock(t *testing.T) {
	src := NewManualTime(time.Unix(0, 0))
	c := &countingTicker{}
	loop := &Loop{Target: c, Clock: NewClock(src, 0), Interval: time.Millisecond}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	loop.Run(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.total != 0 {
		t.Errorf("frozen clock produced %v of deltas", c.total)
	}
}

func TestLoopSkipsTypedNilRenderer(t *testing.T) {
	c := &countingTicker{}
	var r *countingRenderer
	loop := &Loop{Target: c, Interval: time.Millisecond, Renderer: r}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if err := loop.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() = %v, expected context.DeadlineExceeded", err)
	}
	if c.count() == 0 {
		t.Error("loop did not tick")
	}
}
