package scenarios

import (
	"github.com/vovakirdan/tui-arena/internal/arena"
	"github.com/vovakirdan/tui-arena/internal/config"
	"github.com/vovakirdan/tui-arena/internal/core"
	"github.com/vovakirdan/tui-arena/internal/protocol"
	"github.com/vovakirdan/tui-arena/internal/registry"
)

func init() {
	registry.Register("strafe", func() registry.Scenario { return &strafe{} })
	registry.Register("zone-squeeze", func() registry.Scenario { return &zoneSqueeze{} })
}

// strafe sprints east for one second, then walks diagonally north-west.
type strafe struct{}

func (strafe) ID() string    { return "strafe" }
func (strafe) Title() string { return "Sprint east, then walk diagonally" }
func (strafe) Ticks() int    { return 120 }

func (strafe) Setup(*config.ArenaConfig) []arena.Option { return nil }

func (strafe) Drive(tick int, sim *arena.Sim) []protocol.Inbound {
	in := sim.Input()
	switch tick {
	case 0:
		in.Hold(core.ActionMoveRight)
		in.Hold(core.ActionSprint)
	case 60:
		in.ReleaseAll()
		in.Hold(core.ActionMoveUp)
		in.Hold(core.ActionMoveLeft)
	}
	return nil
}

// zoneSqueeze parks the player outside a shrinking safe zone. The server
// narrows the zone halfway through.
type zoneSqueeze struct{}

func (zoneSqueeze) ID() string    { return "zone-squeeze" }
func (zoneSqueeze) Title() string { return "Stand outside the royale zone and take damage" }
func (zoneSqueeze) Ticks() int    { return 180 }

func (zoneSqueeze) Setup(cfg *config.ArenaConfig) []arena.Option {
	_ = config.ApplyMode(cfg, config.ModeRoyale)
	cfg.Zone.CenterX = cfg.World.Width / 2
	cfg.Zone.CenterY = cfg.World.Height / 2
	cfg.Zone.Radius = 400
	cfg.Zone.TargetRadius = 100
	return []arena.Option{
		arena.WithSpawn(core.Vec{X: cfg.Zone.CenterX + 600, Y: cfg.Zone.CenterY}),
	}
}

func (zoneSqueeze) Drive(tick int, sim *arena.Sim) []protocol.Inbound {
	if tick != 90 {
		return nil
	}
	z := sim.Zone()
	return []protocol.Inbound{protocol.GameState{
		Players: map[string]protocol.PlayerRecord{},
		Zone: &protocol.ZoneRecord{
			X:             z.Center.X,
			Y:             z.Center.Y,
			Radius:        z.Radius / 2,
			TargetRadius:  z.TargetRadius / 2,
			ShrinkPerTick: z.ShrinkPerTick,
			DamagePerTick: z.DamagePerTick * 2,
		},
	}}
}
