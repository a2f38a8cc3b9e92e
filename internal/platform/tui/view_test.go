package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-arena/internal/arena"
	"github.com/vovakirdan/tui-arena/internal/config"
	"github.com/vovakirdan/tui-arena/internal/core"
	"github.com/vovakirdan/tui-arena/internal/protocol"
)

// newViewSim builds a sim centred in the world with the camera snapped to a
// full 80x24 terminal.
func newViewSim(t *testing.T) (*arena.Sim, *ArenaView) {
	t.Helper()

	cfg := config.Default()
	sim, err := arena.New(cfg,
		arena.WithPlayer("me", "me"),
		arena.WithSeed(1),
		arena.WithSpawn(core.Vec{X: 1000, Y: 1000}),
	)
	if err != nil {
		t.Fatalf("arena.New() error = %v", err)
	}

	view := NewArenaView(core.DefaultConfig())
	sim.SetViewport(view.Viewport(80, 24))
	sim.Camera().Snap(sim.Player().Center())
	return sim, view
}

func TestArenaViewDrawsSelfAtCentre(t *testing.T) {
	sim, view := newViewSim(t)
	screen := core.NewScreen(80, 23)

	view.Draw(screen, sim, false)

	// Viewport is 1280x704 world units; the player centre lands in cell (40, 11) of the field.
	if got := screen.Get(40, 12); got != '@' {
		t.Errorf("self glyph = %q, want '@'", got)
	}
	if got := screen.Get(41, 12); got != '→' {
		t.Errorf("facing glyph = %q, want '→'", got)
	}
}

func TestArenaViewHUD(t *testing.T) {
	sim, view := newViewSim(t)
	screen := core.NewScreen(80, 23)

	view.Draw(screen, sim, false)
	hud := screen.Row(0)

	for _, want := range []string{"HP ", "100", "pistol 30/30", "K 0", "offline"} {
		if !strings.Contains(hud, want) {
			t.Errorf("HUD %q missing %q", hud, want)
		}
	}

	view.Draw(screen, sim, true)
	if hud := screen.Row(0); !strings.Contains(hud, "online") {
		t.Errorf("HUD %q should report online status", hud)
	}
}

func TestArenaViewDeathOverlay(t *testing.T) {
	sim, view := newViewSim(t)
	screen := core.NewScreen(80, 23)

	sim.Player().Health = 0
	view.Draw(screen, sim, false)

	if !strings.Contains(screen.String(), "YOU DIED") {
		t.Error("dead player should see the death overlay")
	}
	if got := screen.Get(41, 12); got == '→' {
		t.Error("dead player should not show a facing arrow")
	}
}

func TestArenaViewDrawsRemotes(t *testing.T) {
	sim, view := newViewSim(t)
	screen := core.NewScreen(80, 23)

	// Top-left 160 units east of ours puts the remote 10 cells to the right.
	p := sim.Player().Pos
	sim.Apply(protocol.GameState{Players: map[string]protocol.PlayerRecord{
		"bob": {ID: "bob", Username: "bob", X: p.X + 160, Y: p.Y, Health: 100},
	}})
	view.Draw(screen, sim, true)

	if got := screen.Get(50, 12); got != 'b' {
		t.Errorf("remote glyph = %q, want 'b'", got)
	}
	if !strings.Contains(screen.Row(11), "bob") {
		t.Errorf("row above remote %q should carry its name", screen.Row(11))
	}
}

func TestCellToWorldRoundTrip(t *testing.T) {
	sim, view := newViewSim(t)

	for _, cell := range [][2]int{{0, 1}, {40, 12}, {79, 22}} {
		world := view.CellToWorld(sim, cell[0], cell[1])
		x, y := view.worldToCell(sim, world)
		if x != cell[0] || y != cell[1] {
			t.Errorf("cell %v -> %v -> (%d, %d)", cell, world, x, y)
		}
	}
}

func TestFieldRows(t *testing.T) {
	if got := FieldRows(24); got != 22 {
		t.Errorf("FieldRows(24) = %d, want 22", got)
	}
	if got := FieldRows(1); got != 1 {
		t.Errorf("FieldRows(1) = %d, want 1", got)
	}
}
