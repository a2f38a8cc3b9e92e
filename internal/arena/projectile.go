package arena

import (
	"time"

	"github.com/vovakirdan/tui-arena/internal/core"
)

// Provenance records who owns a projectile.
type Provenance int

const (
	// Predicted projectiles are spawned locally the instant a shot fires.
	Predicted Provenance = iota
	// Authoritative projectiles come from server snapshots only.
	Authoritative
)

func (p Provenance) String() string {
	if p == Authoritative {
		return "authoritative"
	}
	return "predicted"
}

// Projectile is a straight-flying bullet.
type Projectile struct {
	ID         string
	Pos        core.Vec
	Angle      float64
	Speed      float64 // World units per reference frame
	Damage     float64
	OwnerID    string
	Weapon     string
	CreatedAt  time.Duration
	Provenance Provenance

	dead bool
}

// Alive reports whether the projectile is still in play.
func (p *Projectile) Alive() bool {
	return !p.dead
}

// Retire takes the projectile out of play. Retirement is permanent.
func (p *Projectile) Retire() {
	p.dead = true
}

// Expired reports whether the projectile has outlived lifetime at now.
func (p *Projectile) Expired(now, lifetime time.Duration) bool {
	return now-p.CreatedAt > lifetime
}

// ProjectileSim advances the locally predicted projectiles. It never sees
// authoritative projectiles.
type ProjectileSim struct {
	world    core.Rect
	lifetime time.Duration
	refFrame time.Duration
	live     []*Projectile
}

// NewProjectileSim creates a simulator for the given world and timing.
func NewProjectileSim(world core.Rect, lifetime, refFrame time.Duration) *ProjectileSim {
	if refFrame <= 0 {
		refFrame = time.Second / 60
	}
	return &ProjectileSim{world: world, lifetime: lifetime, refFrame: refFrame}
}

// Spawn adds a predicted projectile.
func (ps *ProjectileSim) Spawn(p *Projectile) {
	p.Provenance = Predicted
	ps.live = append(ps.live, p)
}

// Step retires expired projectiles, moves the rest by speed*dt/refFrame along
// their angle, retires those that left the world, and drops retired ones.
func (ps *ProjectileSim) Step(now, dt time.Duration) {
	frames := float64(dt) / float64(ps.refFrame)
	kept := ps.live[:0]
	for _, p := range ps.live {
		if p.Alive() && p.Expired(now, ps.lifetime) {
			p.Retire()
		}
		if p.Alive() {
			p.Pos = p.Pos.Add(core.FromAngle(p.Angle).Scale(p.Speed * frames))
			if !ps.world.Contains(p.Pos) {
				p.Retire()
			}
		}
		if p.Alive() {
			kept = append(kept, p)
		}
	}
	clear(ps.live[len(kept):])
	ps.live = kept
}

// Live returns the projectiles still in play.
func (ps *ProjectileSim) Live() []*Projectile {
	out := make([]*Projectile, 0, len(ps.live))
	for _, p := range ps.live {
		if p.Alive() {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of tracked projectiles, including ones retired
// since the last Step.
func (ps *ProjectileSim) Len() int {
	return len(ps.live)
}
