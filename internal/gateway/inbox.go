package gateway

import (
	"sync"

	"github.com/vovakirdan/tui-arena/internal/protocol"
)

// DefaultInboxSize is used when a non-positive buffer size is requested.
const DefaultInboxSize = 64

// Inbox buffers inbound events between the network reader and the tick driver.
// It implements arena.Source.
//
// Snapshots replace world state wholesale, so when the inbox is full the
// oldest queued snapshot is evicted first. Discrete events (hits, kills,
// respawns) are only lost when nothing but discrete events is queued.
type Inbox struct {
	mu       sync.Mutex
	events   []protocol.Inbound
	size     int
	done     chan struct{}
	doneOnce sync.Once
}

// NewInbox creates an inbox holding at most size events.
func NewInbox(size int) *Inbox {
	if size < 1 {
		size = DefaultInboxSize
	}
	return &Inbox{
		events: make([]protocol.Inbound, 0, size),
		size:   size,
		done:   make(chan struct{}),
	}
}

// Push queues an event without blocking. It reports false when an event was
// discarded to make room, or evt itself was refused.
func (b *Inbox) Push(evt protocol.Inbound) bool {
	select {
	case <-b.done:
		return false
	default:
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.events) < b.size {
		b.events = append(b.events, evt)
		return true
	}

	for i, queued := range b.events {
		if _, ok := queued.(protocol.GameState); ok {
			b.events = append(b.events[:i], b.events[i+1:]...)
			b.events = append(b.events, evt)
			return false
		}
	}
	return false
}

// Drain returns every queued event in arrival order.
func (b *Inbox) Drain() []protocol.Inbound {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.events) == 0 {
		return nil
	}
	out := b.events
	b.events = make([]protocol.Inbound, 0, b.size)
	return out
}

// Len reports how many events are queued.
func (b *Inbox) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

// Done returns a channel that closes once the inbox is closed.
func (b *Inbox) Done() <-chan struct{} {
	return b.done
}

// Close stops accepting events. Queued events can still be drained.
// Safe to call multiple times.
func (b *Inbox) Close() {
	b.doneOnce.Do(func() {
		close(b.done)
	})
}
