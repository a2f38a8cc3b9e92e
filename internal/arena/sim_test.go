package arena

import (
	"fmt"
	"testing"
	"time"

	"github.com/vovakirdan/tui-arena/internal/config"
	"github.com/vovakirdan/tui-arena/internal/core"
	"github.com/vovakirdan/tui-arena/internal/protocol"
)

type recorder struct {
	events []protocol.Outbound
}

func (r *recorder) Emit(evt protocol.Outbound) {
	r.events = append(r.events, evt)
}

func (r *recorder) count(typ string) int {
	n := 0
	for _, e := range r.events {
		if e.EventType() == typ {
			n++
		}
	}
	return n
}

type queue []protocol.Inbound

func (q *queue) Drain() []protocol.Inbound {
	out := *q
	*q = nil
	return out
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("shot-%d", n)
	}
}

func newTestSim(t *testing.T, opts ...Option) (*Sim, *recorder) {
	t.Helper()
	rec := &recorder{}
	base := []Option{
		WithEmitter(rec),
		WithSeed(7),
		WithPlayer("me", "tester"),
		WithSpawn(core.Vec{X: 1000, Y: 1000}),
		WithIDs(sequentialIDs()),
	}
	s, err := New(config.DefaultArenaConfig(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, rec
}

func TestLocalHitAppliesImmediately(t *testing.T) {
	s, rec := newTestSim(t)
	c := s.Player().Center()

	s.Apply(protocol.GameState{Bullets: []protocol.ProjectileRecord{
		{ID: "b1", X: c.X + 5, Y: c.Y, Damage: 15, Shooter: "bot", Weapon: "pistol"},
	}})
	s.Update(refFrame)

	if got := s.Player().Health; got != 85 {
		t.Errorf("Health = %f, expected 85", got)
	}
	if n := rec.count(protocol.TypePlayerHit); n != 1 {
		t.Fatalf("player_hit emitted %d times, expected 1", n)
	}

	for _, e := range rec.events {
		if hit, ok := e.(protocol.PlayerHit); ok {
			if hit.Shooter != "bot" || hit.TargetID != "me" || hit.Damage != 15 || hit.Weapon != "pistol" {
				t.Errorf("hit = %+v", hit)
			}
		}
	}

	s.Update(refFrame)
	if got := s.Player().Health; got != 85 {
		t.Errorf("a retired projectile hit again: Health = %f", got)
	}
}

func TestSnapshotOverwritesLocalHealth(t *testing.T) {
	s, _ := newTestSim(t)
	s.Player().TakeDamage(40, 0)

	s.Apply(protocol.GameState{Players: map[string]protocol.PlayerRecord{
		"me": {ID: "me", X: 5, Y: 5, Health: 90, Kills: 4, Score: 400},
	}})

	p := s.Player()
	if p.Health != 90 || p.Kills != 4 || p.Score != 400 {
		t.Errorf("player = health %f kills %d score %d", p.Health, p.Kills, p.Score)
	}
	if p.Pos != (core.Vec{X: 1000, Y: 1000}) {
		t.Errorf("local position should stay locally owned, got %v", p.Pos)
	}
}

func TestRemoteDamagePrediction(t *testing.T) {
	for _, predict := range []bool{true, false} {
		t.Run(fmt.Sprint(predict), func(t *testing.T) {
			cfg := config.DefaultArenaConfig()
			cfg.Reconciliation.PredictRemoteDamage = predict
			s, err := New(cfg, WithPlayer("me", ""), WithSpawn(core.Vec{X: 100, Y: 100}), WithSeed(1))
			if err != nil {
				t.Fatal(err)
			}
			s.Apply(protocol.GameState{
				Players: map[string]protocol.PlayerRecord{"bot": {ID: "bot", X: 500, Y: 500, Health: 100}},
				Bullets: []protocol.ProjectileRecord{{ID: "x", X: 516, Y: 516, Damage: 10, Shooter: "other"}},
			})
			s.Update(refFrame)

			r, _ := s.Store().Remote("bot")
			want := 100.0
			if predict {
				want = 90
			}
			if r.Health != want {
				t.Errorf("remote Health = %f, expected %f", r.Health, want)
			}
		})
	}
}

func TestPlayerStaysInBounds(t *testing.T) {
	s, _ := newTestSim(t, WithSpawn(core.Vec{X: 5, Y: 1990}))
	in := s.Input()
	world := s.World()
	size := s.Config().Player.Size

	moves := [][]core.Action{
		{core.ActionMoveLeft, core.ActionMoveDown, core.ActionSprint},
		{core.ActionMoveRight, core.ActionMoveUp, core.ActionSprint},
		{core.ActionMoveLeft},
	}
	for _, actions := range moves {
		in.ApplyFrame(core.NewInputFrame(actions...))
		for i := 0; i < 600; i++ {
			s.Update(100 * time.Millisecond)
			p := s.Player().Pos
			if p.X < 0 || p.Y < 0 || p.X > world.W-size || p.Y > world.H-size {
				t.Fatalf("position %v left [0, %f]x[0, %f]", p, world.W-size, world.H-size)
			}
		}
	}
}

func TestMovementSpeed(t *testing.T) {
	s, _ := newTestSim(t)
	s.Input().Hold(core.ActionMoveRight)
	s.Update(refFrame)
	if got := s.Player().Pos.X; got != 1005 {
		t.Errorf("X = %f, expected 1005 after one reference frame", got)
	}

	s.Input().Hold(core.ActionSprint)
	s.Update(refFrame)
	if got := s.Player().Pos.X; got != 1012.5 {
		t.Errorf("X = %f, expected 1012.5 with sprint", got)
	}
}

func TestFireSpawnsPredictedProjectiles(t *testing.T) {
	s, rec := newTestSim(t)
	s.Input().Hold(core.ActionSlot2)
	s.Input().Hold(core.ActionFire)
	s.Update(refFrame)

	if n := rec.count(protocol.TypePlayerShoot); n != 5 {
		t.Errorf("player_shoot emitted %d times, expected one per pellet (5)", n)
	}
	if n := len(s.Predicted()); n != 5 {
		t.Errorf("predicted projectiles = %d, expected 5", n)
	}
	st, _ := s.Player().Weapons.Get("shotgun")
	if st.Ammo != 9 {
		t.Errorf("shotgun ammo = %d, expected 9", st.Ammo)
	}
	if s.Player().Health != 100 {
		t.Error("own projectiles must not hit the shooter")
	}

	s.Update(refFrame)
	if n := rec.count(protocol.TypePlayerShoot); n != 5 {
		t.Errorf("fire inside cooldown emitted more shots: %d", n)
	}
	if got := s.Stats().ShotsFired; got != 5 {
		t.Errorf("Stats().ShotsFired = %d, expected 5", got)
	}
}

func TestMeleeEmitsSwing(t *testing.T) {
	s, rec := newTestSim(t)
	s.Input().ApplyFrame(core.NewInputFrame(core.ActionSlot4, core.ActionFire))
	s.Update(refFrame)

	if n := rec.count(protocol.TypePlayerMelee); n != 1 {
		t.Fatalf("player_melee emitted %d times, expected 1", n)
	}
	if len(s.Predicted()) != 0 {
		t.Error("melee should not spawn projectiles")
	}
}

func TestUpdateThrottled(t *testing.T) {
	s, rec := newTestSim(t)
	for i := 0; i < 60; i++ {
		s.Update(refFrame)
	}
	n := rec.count(protocol.TypePlayerUpdate)
	if n < 19 || n > 21 {
		t.Errorf("player_update emitted %d times in ~1s, expected about 20", n)
	}
}

func TestDeathEmittedOnce(t *testing.T) {
	s, rec := newTestSim(t)
	s.Apply(protocol.PlayerHit{Damage: 150, Shooter: "bot", TargetID: "me"})

	if s.Player().Health != 0 {
		t.Errorf("Health = %f, expected clamp at 0", s.Player().Health)
	}
	for i := 0; i < 10; i++ {
		s.Update(refFrame)
	}
	if n := rec.count(protocol.TypePlayerDied); n != 1 {
		t.Errorf("player_died emitted %d times, expected 1", n)
	}

	s.Input().Hold(core.ActionFire)
	s.Update(refFrame)
	if rec.count(protocol.TypePlayerShoot) != 0 {
		t.Error("dead players cannot fire")
	}

	s.Apply(protocol.PlayerRespawn{X: 300, Y: 400})
	p := s.Player()
	if p.Health != 100 || p.Pos != (core.Vec{X: 300, Y: 400}) {
		t.Errorf("after respawn health %f pos %v", p.Health, p.Pos)
	}

	s.Apply(protocol.PlayerHit{Damage: 100, Shooter: "bot", TargetID: "me"})
	s.Update(refFrame)
	if n := rec.count(protocol.TypePlayerDied); n != 2 {
		t.Errorf("player_died emitted %d times after a second death, expected 2", n)
	}
}

func TestHitForSomeoneElseIgnored(t *testing.T) {
	s, _ := newTestSim(t)
	s.Apply(protocol.PlayerHit{Damage: 50, Shooter: "bot", TargetID: "alice"})
	if s.Player().Health != 100 {
		t.Errorf("Health = %f, expected 100", s.Player().Health)
	}
}

func TestKillAndStatus(t *testing.T) {
	s, _ := newTestSim(t)
	s.Apply(protocol.PlayerKill{Victim: "bot"})
	if p := s.Player(); p.Kills != 1 || p.Score != 100 {
		t.Errorf("kills %d score %d, expected 1 and 100", p.Kills, p.Score)
	}

	s.Apply(protocol.PlayerStatus{InvulnerableMS: 500, SpeedMult: 2, SpeedMS: 500})
	c := s.Player().Center()
	s.Apply(protocol.GameState{Bullets: []protocol.ProjectileRecord{
		{ID: "b", X: c.X, Y: c.Y, Damage: 15, Shooter: "bot"},
	}})
	s.Input().Hold(core.ActionMoveRight)
	s.Update(refFrame)

	if s.Player().Health != 100 {
		t.Error("invulnerable player should not be hit")
	}
	if len(s.Store().Projectiles()) != 1 {
		t.Error("projectile should survive when the only target is invulnerable")
	}
	if got := s.Player().Pos.X; got != 1010 {
		t.Errorf("X = %f, expected 1010 with double speed", got)
	}

	s.Update(time.Second)
	s.Input().Release(core.ActionMoveRight)
	if s.Player().SpeedMultiplier(s.Now()) != 1 {
		t.Error("speed modifier should expire")
	}
}

func TestTickDrainsSource(t *testing.T) {
	q := &queue{protocol.PlayerKill{}, protocol.PlayerJoined{Username: "bob"}}
	s, _ := newTestSim(t, WithSource(q))
	s.Tick(refFrame)

	if s.Player().Kills != 1 {
		t.Errorf("Kills = %d, expected inbound events applied before the tick", s.Player().Kills)
	}
	if s.Ticks() != 1 {
		t.Errorf("Ticks() = %d, expected 1", s.Ticks())
	}
	if len(*q) != 0 {
		t.Error("source should be drained")
	}
}

func TestMissingCollaboratorsTolerated(t *testing.T) {
	s, err := New(config.DefaultArenaConfig())
	if err != nil {
		t.Fatal(err)
	}
	s.Input().Hold(core.ActionFire)
	Step(s, refFrame, 30)
	s.Apply(protocol.PlayerHit{Damage: 200, TargetID: s.Player().ID})
	s.Update(refFrame)

	p := s.Player().Pos
	w := s.World()
	if p.X < 0 || p.Y < 0 || p.X > w.W-32 || p.Y > w.H-32 {
		t.Errorf("random spawn %v outside the world", p)
	}
}

func TestZoneDamage(t *testing.T) {
	cfg := config.DefaultArenaConfig()
	cfg.Zone = config.ZoneConfig{Enabled: true, CenterX: 1000, CenterY: 1000, Radius: 100, TargetRadius: 50, ShrinkPerTick: 10, DamagePerTick: 1}
	s, err := New(cfg, WithSpawn(core.Vec{X: 0, Y: 0}))
	if err != nil {
		t.Fatal(err)
	}

	last := s.Zone().Radius
	for i := 0; i < 10; i++ {
		s.Update(refFrame)
		if r := s.Zone().Radius; r > last || r < 50 {
			t.Fatalf("zone radius went from %f to %f", last, r)
		}
		last = s.Zone().Radius
	}
	if last != 50 {
		t.Errorf("Radius = %f, expected target 50", last)
	}
	if got := s.Player().Health; got != 90 {
		t.Errorf("Health = %f, expected 90 after 10 ticks outside", got)
	}

	s.Apply(protocol.GameState{Zone: &protocol.ZoneRecord{X: 1000, Y: 1000, Radius: 900}})
	if s.Zone().Radius != 50 {
		t.Errorf("server zone should not grow the radius, got %f", s.Zone().Radius)
	}
}

func TestDeterministicWithSeed(t *testing.T) {
	run := func() []float64 {
		s, rec := newTestSim(t)
		s.Input().ApplyFrame(core.NewInputFrame(core.ActionSlot3, core.ActionFire))
		Step(s, refFrame, 120)
		var angles []float64
		for _, e := range rec.events {
			if shot, ok := e.(protocol.PlayerShoot); ok {
				angles = append(angles, shot.Angle)
			}
		}
		return angles
	}

	a, b := run(), run()
	if len(a) == 0 || len(a) != len(b) {
		t.Fatalf("shot counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("shot %d angle %f != %f", i, a[i], b[i])
		}
	}
}

func TestKilledTargetAbsorbsNothingMore(t *testing.T) {
	bullets := func(c core.Vec) []protocol.ProjectileRecord {
		return []protocol.ProjectileRecord{
			{ID: "b1", X: c.X, Y: c.Y, Damage: 15, Shooter: "other"},
			{ID: "b2", X: c.X, Y: c.Y, Damage: 15, Shooter: "other"},
			{ID: "b3", X: c.X, Y: c.Y, Damage: 15, Shooter: "other"},
		}
	}

	t.Run("local", func(t *testing.T) {
		s, rec := newTestSim(t)
		s.Player().Health = 10
		s.Apply(protocol.GameState{Bullets: bullets(s.Player().Center())})
		s.Update(refFrame)

		if n := rec.count(protocol.TypePlayerHit); n != 1 {
			t.Errorf("player_hit emitted %d times, expected 1", n)
		}
		if got := len(s.Store().Projectiles()); got != 2 {
			t.Errorf("live authoritative projectiles = %d, expected 2", got)
		}
		if s.Player().Alive() {
			t.Error("player should be dead")
		}
	})

	t.Run("remote", func(t *testing.T) {
		s, rec := newTestSim(t)
		s.Apply(protocol.GameState{
			Players: map[string]protocol.PlayerRecord{"bot": {ID: "bot", X: 500, Y: 500, Health: 10}},
			Bullets: bullets(core.Vec{X: 516, Y: 516}),
		})
		s.Update(refFrame)

		if n := rec.count(protocol.TypePlayerHit); n != 1 {
			t.Errorf("player_hit emitted %d times, expected 1", n)
		}
		if got := len(s.Store().Projectiles()); got != 2 {
			t.Errorf("live authoritative projectiles = %d, expected 2", got)
		}
	})
}

func TestUnhittableRemotesSkipped(t *testing.T) {
	tests := []struct {
		name   string
		record protocol.PlayerRecord
	}{
		{"dead flag", protocol.PlayerRecord{ID: "bot", X: 500, Y: 500, Health: 100, Dead: true}},
		{"no health", protocol.PlayerRecord{ID: "bot", X: 500, Y: 500, Health: 0}},
		{"invulnerable", protocol.PlayerRecord{ID: "bot", X: 500, Y: 500, Health: 100, Invulnerable: true}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, rec := newTestSim(t)
			s.Apply(protocol.GameState{
				Players: map[string]protocol.PlayerRecord{"bot": tc.record},
				Bullets: []protocol.ProjectileRecord{{ID: "b1", X: 516, Y: 516, Damage: 15, Shooter: "other"}},
			})
			s.Update(refFrame)

			if n := rec.count(protocol.TypePlayerHit); n != 0 {
				t.Errorf("player_hit emitted %d times, expected none", n)
			}
			if got := len(s.Store().Projectiles()); got != 1 {
				t.Errorf("live authoritative projectiles = %d, expected 1", got)
			}
			r, _ := s.Store().Remote("bot")
			if r.Health != tc.record.Health {
				t.Errorf("remote Health = %f, expected %f", r.Health, tc.record.Health)
			}
		})
	}
}
