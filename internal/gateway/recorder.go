package gateway

import (
	"sync"

	"github.com/vovakirdan/tui-arena/internal/protocol"
)

// Recorder is an in-memory emitter used by headless runs and tests.
type Recorder struct {
	mu     sync.Mutex
	events []protocol.Outbound
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Emit stores the event.
func (r *Recorder) Emit(evt protocol.Outbound) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

// Events returns a copy of everything emitted so far.
func (r *Recorder) Events() []protocol.Outbound {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]protocol.Outbound, len(r.events))
	copy(out, r.events)
	return out
}

// Count returns how many events of the given type were emitted.
func (r *Recorder) Count(eventType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, evt := range r.events {
		if evt.EventType() == eventType {
			n++
		}
	}
	return n
}

// Counts groups emitted events by type.
func (r *Recorder) Counts() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int)
	for _, evt := range r.events {
		counts[evt.EventType()]++
	}
	return counts
}

// Reset discards recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
