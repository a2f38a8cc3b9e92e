package scenarios

import (
	"github.com/vovakirdan/tui-arena/internal/arena"
	"github.com/vovakirdan/tui-arena/internal/config"
	"github.com/vovakirdan/tui-arena/internal/core"
	"github.com/vovakirdan/tui-arena/internal/protocol"
	"github.com/vovakirdan/tui-arena/internal/registry"
)

func init() {
	registry.Register("pistol-burst", func() registry.Scenario {
		return &burst{id: "pistol-burst", title: "Hold the trigger with the pistol for one second", slot: core.ActionSlot1, ticks: 60}
	})
	registry.Register("shotgun-spread", func() registry.Scenario {
		return &burst{id: "shotgun-spread", title: "Fire the shotgun and watch the pellets fan out", slot: core.ActionSlot2, ticks: 60}
	})
	registry.Register("knife-swing", func() registry.Scenario {
		return &burst{id: "knife-swing", title: "Swing the knife for one second", slot: core.ActionSlot4, ticks: 60}
	})
}

// burst selects a weapon slot on the first tick and holds the trigger after it,
// aiming east.
type burst struct {
	id    string
	title string
	slot  core.Action
	ticks int
}

func (b *burst) ID() string    { return b.id }
func (b *burst) Title() string { return b.title }
func (b *burst) Ticks() int    { return b.ticks }

func (b *burst) Setup(*config.ArenaConfig) []arena.Option { return nil }

func (b *burst) Drive(tick int, sim *arena.Sim) []protocol.Inbound {
	in := sim.Input()
	if tick == 0 {
		in.Tap(b.slot, sim.Now())
		in.PointAt(sim.Player().Center().Add(core.Vec{X: 300}))
		return nil
	}
	in.Hold(core.ActionFire)
	return nil
}
