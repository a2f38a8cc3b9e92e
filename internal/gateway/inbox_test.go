package gateway

import (
	"testing"

	"github.com/vovakirdan/tui-arena/internal/protocol"
)

func TestInboxDrainPreservesOrder(t *testing.T) {
	b := NewInbox(4)
	b.Push(protocol.PlayerRespawn{X: 1})
	b.Push(protocol.PlayerKill{})
	b.Push(protocol.PlayerRespawn{X: 2})

	got := b.Drain()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if r := got[0].(protocol.PlayerRespawn); r.X != 1 {
		t.Errorf("first = %v", r)
	}
	if got[1].EventType() != protocol.TypePlayerKill {
		t.Errorf("second = %s", got[1].EventType())
	}
	if len(b.Drain()) != 0 {
		t.Error("second drain should be empty")
	}
}

func TestInboxEvictsSnapshotsFirst(t *testing.T) {
	b := NewInbox(4)
	b.Push(protocol.PlayerRespawn{X: 1})
	b.Push(protocol.PlayerKill{})
	for i := range 4 {
		snap := protocol.GameState{Scores: map[string]int{"me": i}}
		if ok := b.Push(snap); ok != (i < 2) {
			t.Errorf("push snapshot %d = %v, expected %v", i, ok, i < 2)
		}
	}

	got := b.Drain()
	types := make([]string, len(got))
	for i, evt := range got {
		types[i] = evt.EventType()
	}
	want := []string{protocol.TypePlayerRespawn, protocol.TypePlayerKill, protocol.TypeGameState, protocol.TypeGameState}
	if len(types) != len(want) {
		t.Fatalf("drained %v, expected %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("drained %v, expected %v", types, want)
		}
	}
	if s := got[2].(protocol.GameState).Scores["me"]; s != 2 {
		t.Errorf("first kept snapshot = %d, expected 2", s)
	}
	if s := got[3].(protocol.GameState).Scores["me"]; s != 3 {
		t.Errorf("last kept snapshot = %d, expected 3", s)
	}
}

func TestInboxDiscreteEventEvictsSnapshot(t *testing.T) {
	b := NewInbox(2)
	b.Push(protocol.GameState{})
	b.Push(protocol.PlayerKill{})
	if b.Push(protocol.PlayerRespawn{X: 7}) {
		t.Error("evicting a snapshot should be reported")
	}

	got := b.Drain()
	if len(got) != 2 || got[0].EventType() != protocol.TypePlayerKill || got[1].EventType() != protocol.TypePlayerRespawn {
		t.Errorf("got %v, expected kill then respawn", got)
	}
}

func TestInboxRefusesWhenOnlyDiscreteQueued(t *testing.T) {
	b := NewInbox(2)
	if !b.Push(protocol.PlayerRespawn{X: 1}) || !b.Push(protocol.PlayerRespawn{X: 2}) {
		t.Fatal("pushes within capacity should not drop")
	}
	if b.Push(protocol.GameState{}) {
		t.Error("push into a full inbox should report a drop")
	}

	got := b.Drain()
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].(protocol.PlayerRespawn).X != 1 || got[1].(protocol.PlayerRespawn).X != 2 {
		t.Errorf("got %v, want respawns 1 and 2", got)
	}
}

func TestInboxClose(t *testing.T) {
	b := NewInbox(0)
	b.Push(protocol.PlayerKill{})
	b.Close()
	b.Close()

	if b.Push(protocol.PlayerKill{}) {
		t.Error("push after close should be rejected")
	}
	if n := len(b.Drain()); n != 1 {
		t.Errorf("drain after close = %d events, want 1", n)
	}
	select {
	case <-b.Done():
	default:
		t.Error("Done not closed")
	}
}

func TestRecorderCounts(t *testing.T) {
	r := NewRecorder()
	r.Emit(protocol.PlayerShoot{Damage: 10})
	r.Emit(protocol.PlayerShoot{Damage: 10})
	r.Emit(protocol.PlayerDied{})

	if n := r.Count(protocol.TypePlayerShoot); n != 2 {
		t.Errorf("shoot count = %d, want 2", n)
	}
	if c := r.Counts(); c[protocol.TypePlayerDied] != 1 {
		t.Errorf("counts = %v", c)
	}
	r.Reset()
	if len(r.Events()) != 0 {
		t.Error("Reset should discard events")
	}
}
