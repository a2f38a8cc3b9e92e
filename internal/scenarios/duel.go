package scenarios

import (
	"github.com/vovakirdan/tui-arena/internal/arena"
	"github.com/vovakirdan/tui-arena/internal/config"
	"github.com/vovakirdan/tui-arena/internal/core"
	"github.com/vovakirdan/tui-arena/internal/protocol"
	"github.com/vovakirdan/tui-arena/internal/registry"
)

const (
	duelBotID        = "bot"
	duelDistance     = 200
	duelSnapshotRate = 6 // ticks between snapshots (10 Hz at 60 fps)
	duelHitRate      = 30
	duelHitDamage    = 25
	duelKillTick     = 100
	duelRespawnTick  = 200
)

func init() {
	registry.Register("duel", func() registry.Scenario { return &duel{} })
}

// duel pits the player against a stationary bot. The scripted server sends
// snapshots, lands a hit every half second until the player dies, credits a
// kill and finally respawns the player.
type duel struct {
	botPos core.Vec
}

func (*duel) ID() string    { return "duel" }
func (*duel) Title() string { return "Trade fire with a stationary bot until death and respawn" }
func (*duel) Ticks() int    { return 240 }

func (*duel) Setup(*config.ArenaConfig) []arena.Option { return nil }

func (d *duel) Drive(tick int, sim *arena.Sim) []protocol.Inbound {
	p := sim.Player()
	in := sim.Input()
	if tick == 0 {
		d.botPos = p.Pos.Add(core.Vec{X: duelDistance})
	}

	var events []protocol.Inbound
	if tick%duelSnapshotRate == 0 {
		events = append(events, d.snapshot(sim))
	}
	if tick > 0 && tick < duelRespawnTick && tick%duelHitRate == 0 && p.Alive() {
		events = append(events, protocol.PlayerHit{
			Damage:   duelHitDamage,
			Shooter:  duelBotID,
			TargetID: p.ID,
			Weapon:   "pistol",
		})
	}
	switch tick {
	case duelKillTick:
		events = append(events, protocol.PlayerKill{Victim: duelBotID})
	case duelRespawnTick:
		events = append(events, protocol.PlayerRespawn{X: p.Pos.X - duelDistance, Y: p.Pos.Y})
	}

	if p.Alive() {
		in.PointAt(d.botPos.Add(core.Vec{X: p.Size / 2, Y: p.Size / 2}))
		in.Hold(core.ActionFire)
	}
	return events
}

func (d *duel) snapshot(sim *arena.Sim) protocol.GameState {
	health := sim.Config().Player.MaxHealth
	if bot, ok := sim.Store().Remote(duelBotID); ok {
		health = bot.Health
	}
	return protocol.GameState{
		Players: map[string]protocol.PlayerRecord{
			duelBotID: {
				ID:       duelBotID,
				Username: "bot",
				X:        d.botPos.X,
				Y:        d.botPos.Y,
				Rotation: 3.14159,
				Health:   health,
				Weapon:   "pistol",
			},
		},
		Scores: map[string]int{
			duelBotID: 0,
			LocalID:   sim.Player().Score,
		},
	}
}
