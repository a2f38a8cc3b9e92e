// Package scenarios contains scripted headless runs of the client simulation.
// Each scenario registers itself with the registry in init().
package scenarios

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-arena/internal/arena"
	"github.com/vovakirdan/tui-arena/internal/config"
	"github.com/vovakirdan/tui-arena/internal/core"
	"github.com/vovakirdan/tui-arena/internal/gateway"
	"github.com/vovakirdan/tui-arena/internal/registry"
)

// LocalID is the player id every scenario runs as.
const LocalID = "local"

// RunOptions configure a headless run.
type RunOptions struct {
	Config config.ArenaConfig
	Mode   config.ModePreset
	Seed   int64
	Logger *log.Logger
}

// Result summarises a finished run.
type Result struct {
	ID       string
	Title    string
	Ticks    int
	Stats    arena.Stats
	Events   map[string]int
	Health   float64
	Position core.Vec
	Remotes  int
	Weapon   string
	Ammo     string
	Dropped  int // inbound events dropped by a full inbox
}

// Run creates the scenario registered under id and runs it.
func Run(id string, opts RunOptions) (*Result, error) {
	sc, err := registry.Create(id)
	if err != nil {
		return nil, err
	}
	return RunScenario(sc, opts)
}

// RunScenario steps sc for its full length with fixed ticks and a recording gateway.
func RunScenario(sc registry.Scenario, opts RunOptions) (*Result, error) {
	cfg := opts.Config
	if err := config.ApplyMode(&cfg, opts.Mode); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	extra := sc.Setup(&cfg)

	rec := gateway.NewRecorder()
	inbox := gateway.NewInbox(cfg.Network.InboxSize)
	base := []arena.Option{
		arena.WithLogger(logger.With("scenario", sc.ID())),
		arena.WithEmitter(rec),
		arena.WithSource(inbox),
		arena.WithSeed(opts.Seed),
		arena.WithPlayer(LocalID, "scenario"),
		arena.WithSpawn(core.Vec{X: cfg.World.Width / 2, Y: cfg.World.Height / 2}),
	}
	sim, err := arena.New(cfg, append(base, extra...)...)
	if err != nil {
		return nil, fmt.Errorf("scenarios: %s: %w", sc.ID(), err)
	}

	dt := cfg.Timing.TickInterval()
	dropped := 0
	for tick := 0; tick < sc.Ticks(); tick++ {
		for _, evt := range sc.Drive(tick, sim) {
			if !inbox.Push(evt) {
				dropped++
			}
		}
		sim.Tick(dt)
	}

	p := sim.Player()
	current := p.Weapons.Current()
	res := &Result{
		ID:       sc.ID(),
		Title:    sc.Title(),
		Ticks:    sc.Ticks(),
		Stats:    sim.Stats(),
		Events:   rec.Counts(),
		Health:   p.Health,
		Position: p.Pos,
		Remotes:  len(sim.Store().Remotes()),
		Weapon:   current.Weapon.Def().Name,
		Ammo:     current.AmmoLabel(),
		Dropped:  dropped,
	}
	logger.Debug("scenario finished", "id", res.ID, "ticks", res.Ticks, "elapsed", res.Stats.Elapsed)
	return res, nil
}

// Elapsed returns the simulated time covered by the run.
func (r *Result) Elapsed() time.Duration {
	return r.Stats.Elapsed
}
