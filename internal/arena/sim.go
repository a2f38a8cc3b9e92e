// Package arena is the client-side simulation core of the arena shooter. It
// predicts local movement and projectiles, reconciles them with server
// snapshots, resolves hits, and drives the camera. All state lives in a Sim;
// the package holds no mutable globals.
package arena

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-arena/internal/config"
	"github.com/vovakirdan/tui-arena/internal/core"
	"github.com/vovakirdan/tui-arena/internal/protocol"
)

// Emitter accepts outbound events. Implementations must not block.
type Emitter interface {
	Emit(evt protocol.Outbound)
}

// Source yields inbound events received since the last call.
type Source interface {
	Drain() []protocol.Inbound
}

// Stats are the session counters kept for persistence.
type Stats struct {
	ShotsFired   int
	MeleeSwings  int
	HitsReported int
	HitsTaken    int
	Kills        int
	Deaths       int
	Score        int
	Snapshots    int
	Elapsed      time.Duration
}

// Option configures a Sim.
type Option func(*Sim)

// WithLogger sets the logger. Nil discards output.
func WithLogger(l *log.Logger) Option {
	return func(s *Sim) { s.log = l }
}

// WithEmitter sets where outbound events go. Nil drops them.
func WithEmitter(e Emitter) Option {
	return func(s *Sim) { s.emitter = e }
}

// WithSource sets where Tick pulls inbound events from. Nil means none.
func WithSource(src Source) Option {
	return func(s *Sim) { s.source = src }
}

// WithSeed seeds the spread and spawn random source.
func WithSeed(seed int64) Option {
	return func(s *Sim) { s.rng = rand.New(rand.NewSource(seed)) }
}

// WithPlayer sets the local player's id and display name.
func WithPlayer(id, name string) Option {
	return func(s *Sim) {
		s.playerID = id
		s.playerName = name
	}
}

// WithSpawn places the local player at pos instead of a random position.
func WithSpawn(pos core.Vec) Option {
	return func(s *Sim) {
		s.spawn = pos
		s.hasSpawn = true
	}
}

// WithIDs replaces the projectile id generator.
func WithIDs(next func() string) Option {
	return func(s *Sim) { s.newID = next }
}

// Sim is the simulation context. It is not safe for concurrent use: one
// goroutine calls Apply and Update (or Tick).
type Sim struct {
	cfg      config.ArenaConfig
	world    core.Rect
	refFrame time.Duration
	lifetime time.Duration

	log     *log.Logger
	emitter Emitter
	source  Source
	rng     *rand.Rand
	newID   func() string

	playerID   string
	playerName string
	spawn      core.Vec
	hasSpawn   bool

	now   time.Duration
	ticks uint64

	player      *Player
	input       *InputState
	projectiles *ProjectileSim
	store       *Store
	resolver    CollisionResolver
	camera      *Camera
	throttle    *Throttle
	zone        *Zone

	deathSent bool
	lastHits  []HitEvent
	stats     Stats
}

// New builds a simulation context from cfg.
func New(cfg config.ArenaConfig, opts ...Option) (*Sim, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	weapons, err := ArsenalFromConfig(cfg.Weapons)
	if err != nil {
		return nil, err
	}

	s := &Sim{
		cfg:      cfg,
		world:    core.NewRect(0, 0, cfg.World.Width, cfg.World.Height),
		refFrame: cfg.Timing.ReferenceFrame(),
		lifetime: cfg.Projectile.Lifetime(),
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = log.New(io.Discard)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.playerID == "" {
		s.playerID = s.newID()
	}
	if s.playerName == "" {
		s.playerName = "player"
	}

	s.player = &Player{
		ID:        s.playerID,
		Name:      s.playerName,
		Size:      cfg.Player.Size,
		MaxHealth: cfg.Player.MaxHealth,
		Health:    cfg.Player.MaxHealth,
		Weapons:   weapons,
	}
	if s.hasSpawn {
		s.player.Pos = s.clampPosition(s.spawn)
	} else {
		s.player.Pos = s.randomSpawn()
	}

	s.input = NewInputState(cfg.Input)
	s.projectiles = NewProjectileSim(s.world, s.lifetime, s.refFrame)
	s.store = NewStore(s.playerID, cfg.Player.Size, s.lifetime)
	s.resolver = CollisionResolver{Radius: cfg.Projectile.HitboxRadius}
	s.camera = NewCamera(s.world, cfg.Camera.ViewportWidth, cfg.Camera.ViewportHeight, cfg.Camera.Smoothing)
	s.camera.Snap(s.player.Center())
	s.throttle = NewThrottle(cfg.Timing.UpdateInterval())
	s.zone = NewZone(cfg.Zone)

	s.log.Debug("simulation ready", "player", s.playerID, "x", s.player.Pos.X, "y", s.player.Pos.Y)
	return s, nil
}

func (s *Sim) randomSpawn() core.Vec {
	return core.Vec{
		X: s.rng.Float64() * (s.world.W - s.cfg.Player.Size),
		Y: s.rng.Float64() * (s.world.H - s.cfg.Player.Size),
	}
}

func (s *Sim) clampPosition(p core.Vec) core.Vec {
	return core.Vec{
		X: core.ClampF(p.X, 0, s.world.W-s.cfg.Player.Size),
		Y: core.ClampF(p.Y, 0, s.world.H-s.cfg.Player.Size),
	}
}

func (s *Sim) emit(evt protocol.Outbound) {
	if s.emitter == nil {
		return
	}
	s.emitter.Emit(evt)
}

// Tick drains the inbound source, applies every event, then advances one frame.
func (s *Sim) Tick(dt time.Duration) {
	if s.source != nil {
		for _, evt := range s.source.Drain() {
			s.Apply(evt)
		}
	}
	s.Update(dt)
}

// Update advances the simulation by dt.
func (s *Sim) Update(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	s.now += dt
	s.ticks++
	s.stats.Elapsed = s.now
	p := s.player

	s.handleRequests()
	p.ExpireModifiers(s.now)

	var move core.Vec
	if p.Alive() {
		move = s.input.Movement(s.now)
		speed := s.cfg.Player.Speed * p.SpeedMultiplier(s.now)
		if s.input.Sprinting(s.now) {
			speed *= s.cfg.Player.SprintMult
		}
		p.Vel = move.Scale(speed)
		frames := float64(dt) / float64(s.refFrame)
		p.Pos = s.clampPosition(p.Pos.Add(p.Vel.Scale(frames)))
		p.Rotation = s.input.Facing(p.Center(), p.Rotation, move)
	} else {
		p.Vel = core.Vec{}
	}

	s.projectiles.Step(s.now, dt)
	s.store.Expire(s.now)

	s.resolveCollisions()

	if p.Alive() && s.input.Firing(s.now) {
		s.fire()
	}

	s.stepZone()

	if !p.Alive() && !s.deathSent {
		s.deathSent = true
		p.Deaths++
		s.log.Info("player died", "player", p.ID, "deaths", p.Deaths)
		s.emit(protocol.PlayerDied{})
	}

	if s.throttle.Allow(s.now) {
		s.emit(protocol.PlayerUpdate{
			X:        p.Pos.X,
			Y:        p.Pos.Y,
			Rotation: p.Rotation,
			Health:   p.Health,
			Weapon:   p.Weapons.Current().Weapon.Def().Name,
		})
	}

	s.camera.Follow(p.Center())
}

func (s *Sim) handleRequests() {
	w := s.player.Weapons
	for _, a := range s.input.TakeRequests() {
		switch a {
		case core.ActionReload:
			if w.Reload() {
				s.log.Debug("reloaded", "weapon", w.Current().Weapon.Def().Name)
			}
		case core.ActionNextWeapon:
			w.Next()
		default:
			if slot := a.SlotIndex(); slot >= 0 {
				w.SwitchSlot(slot)
			}
		}
	}
}

// targets lists hittable bodies in resolution order: the local player, then
// remote players by ascending id. Liveness is re-read per projectile.
func (s *Sim) targets() []Target {
	p := s.player
	out := make([]Target, 0, 1+len(s.store.order))
	if p.Alive() && !p.Invulnerable(s.now) {
		out = append(out, Target{ID: p.ID, Center: p.Center(), Local: true, Hittable: p.Alive})
	}
	for _, r := range s.store.Remotes() {
		if r.Alive() && !r.Invulnerable {
			out = append(out, Target{ID: r.ID, Center: s.store.RemoteCenter(r), Hittable: r.Alive})
		}
	}
	return out
}

func (s *Sim) resolveCollisions() {
	merged := s.store.Merge(s.projectiles.Live())
	s.lastHits = s.resolver.Resolve(merged, s.targets(), s.applyHit)
}

// applyHit pre-applies a detected hit and reports it upstream.
func (s *Sim) applyHit(h HitEvent) {
	if h.Local {
		s.player.TakeDamage(h.Damage, s.now)
		s.stats.HitsTaken++
	} else if s.cfg.Reconciliation.PredictRemoteDamage {
		if r, ok := s.store.Remote(h.TargetID); ok {
			r.Health = max(0, r.Health-h.Damage)
		}
	}
	s.stats.HitsReported++
	s.emit(protocol.PlayerHit{
		Damage:   h.Damage,
		Shooter:  h.ShooterID,
		TargetID: h.TargetID,
		Weapon:   h.Weapon,
	})
}

func (s *Sim) fire() {
	p := s.player
	muzzle := Muzzle{Center: p.Center(), Offset: p.Size}
	res := p.Weapons.Fire(s.now, muzzle, p.Rotation, p.DamageMultiplier(s.now), s.rng)

	for _, shot := range res.Shots {
		proj := &Projectile{
			ID:        s.newID(),
			Pos:       shot.Origin,
			Angle:     shot.Angle,
			Speed:     s.cfg.Projectile.Speed,
			Damage:    shot.Damage,
			OwnerID:   p.ID,
			Weapon:    shot.Weapon,
			CreatedAt: s.now,
		}
		s.projectiles.Spawn(proj)
		s.stats.ShotsFired++
		s.emit(protocol.PlayerShoot{
			ID:     proj.ID,
			X:      shot.Origin.X,
			Y:      shot.Origin.Y,
			Angle:  shot.Angle,
			Damage: shot.Damage,
			Weapon: shot.Weapon,
		})
	}

	if m := res.Melee; m != nil {
		s.stats.MeleeSwings++
		s.emit(protocol.PlayerMelee{
			X:        m.Origin.X,
			Y:        m.Origin.Y,
			Rotation: m.Facing,
			Range:    m.Range,
			Damage:   m.Damage,
		})
	}
}

func (s *Sim) stepZone() {
	z := s.zone
	if !z.Enabled {
		return
	}
	z.Step()
	p := s.player
	if p.Alive() && !p.Invulnerable(s.now) && !z.Contains(p.Center()) {
		p.TakeDamage(z.DamagePerTick, s.now)
	}
}

// Apply applies one inbound event. Call it between ticks.
func (s *Sim) Apply(evt protocol.Inbound) {
	p := s.player
	switch e := evt.(type) {
	case protocol.GameState:
		self := s.store.ApplySnapshot(e, s.now)
		s.stats.Snapshots = s.store.Snapshots()
		if self != nil {
			p.SetHealth(self.Health)
			p.Kills = self.Kills
			p.Deaths = self.Deaths
			p.Score = self.Score
			if p.Alive() && !self.Dead {
				s.deathSent = false
			}
		}
		if e.Zone != nil {
			s.zone.Override(*e.Zone)
		}

	case protocol.PlayerHit:
		if e.TargetID != p.ID || p.Invulnerable(s.now) {
			return
		}
		p.TakeDamage(e.Damage, s.now)
		s.stats.HitsTaken++

	case protocol.PlayerRespawn:
		p.Respawn(s.clampPosition(core.Vec{X: e.X, Y: e.Y}))
		if grace := s.cfg.Player.RespawnInvulnerabilityMS; grace > 0 {
			p.GrantInvulnerability(s.now, time.Duration(grace)*time.Millisecond)
		}
		s.deathSent = false
		s.input.ReleaseAll()
		s.camera.Snap(p.Center())
		s.throttle.Reset()
		s.log.Info("respawned", "player", p.ID, "x", p.Pos.X, "y", p.Pos.Y)

	case protocol.PlayerKill:
		p.Kills++
		p.Score += s.cfg.Player.KillScore
		s.log.Info("kill", "player", p.ID, "victim", e.Victim, "kills", p.Kills)

	case protocol.PlayerStatus:
		if e.SpeedMS > 0 {
			p.GrantSpeed(e.SpeedMult, s.now, time.Duration(e.SpeedMS)*time.Millisecond)
		}
		if e.DamageMS > 0 {
			p.GrantDamage(e.DamageMult, s.now, time.Duration(e.DamageMS)*time.Millisecond)
		}
		if e.InvulnerableMS > 0 {
			p.GrantInvulnerability(s.now, time.Duration(e.InvulnerableMS)*time.Millisecond)
		}

	case protocol.PlayerJoined:
		s.log.Info("player joined", "id", e.ID, "username", e.Username)

	case protocol.PlayerLeft:
		s.log.Info("player left", "id", e.ID, "username", e.Username)

	default:
		s.log.Warn("ignoring inbound event", "type", evt.EventType())
	}
}

// SetViewport resizes the camera viewport in world units.
func (s *Sim) SetViewport(w, h float64) {
	s.camera.SetViewport(w, h)
}

// Config returns the configuration the simulation was built with.
func (s *Sim) Config() config.ArenaConfig { return s.cfg }

// World returns the world rectangle.
func (s *Sim) World() core.Rect { return s.world }

// Now returns the simulation time.
func (s *Sim) Now() time.Duration { return s.now }

// Ticks returns the number of updates run.
func (s *Sim) Ticks() uint64 { return s.ticks }

// Player returns the local player.
func (s *Sim) Player() *Player { return s.player }

// Input returns the input state front-ends write to.
func (s *Sim) Input() *InputState { return s.input }

// Camera returns the camera.
func (s *Sim) Camera() *Camera { return s.camera }

// Zone returns the safe zone.
func (s *Sim) Zone() *Zone { return s.zone }

// Store returns the authoritative entity tier.
func (s *Sim) Store() *Store { return s.store }

// Predicted returns the live locally predicted projectiles.
func (s *Sim) Predicted() []*Projectile { return s.projectiles.Live() }

// Projectiles returns every live projectile, predicted first.
func (s *Sim) Projectiles() []*Projectile {
	return s.store.Merge(s.projectiles.Live())
}

// LastHits returns the hits resolved during the most recent update.
func (s *Sim) LastHits() []HitEvent { return s.lastHits }

// Stats returns the session counters.
func (s *Sim) Stats() Stats {
	st := s.stats
	st.Kills = s.player.Kills
	st.Deaths = s.player.Deaths
	st.Score = s.player.Score
	return st
}
