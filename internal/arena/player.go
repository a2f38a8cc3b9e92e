package arena

import (
	"time"

	"github.com/vovakirdan/tui-arena/internal/core"
)

// modifier is a timed multiplier. It applies while now < until.
type modifier struct {
	value float64
	until time.Duration
}

func (m modifier) at(now time.Duration) float64 {
	if m.value <= 0 || now >= m.until {
		return 1
	}
	return m.value
}

// Player is the locally owned player. Its position is the top-left corner of
// a square of side Size.
type Player struct {
	ID       string
	Name     string
	Pos      core.Vec
	Vel      core.Vec
	Rotation float64
	Size     float64

	Health    float64
	MaxHealth float64

	Kills  int
	Deaths int
	Score  int

	Weapons *Arsenal

	// HurtAt is the simulation time of the last damage taken, for hit flashes.
	HurtAt time.Duration

	speed       modifier
	damage      modifier
	invulnUntil time.Duration
}

// Center returns the centre of the player's body.
func (p *Player) Center() core.Vec {
	return core.Vec{X: p.Pos.X + p.Size/2, Y: p.Pos.Y + p.Size/2}
}

// Alive reports whether the player has health left.
func (p *Player) Alive() bool {
	return p.Health > 0
}

// Invulnerable reports whether damage is currently ignored.
func (p *Player) Invulnerable(now time.Duration) bool {
	return now < p.invulnUntil
}

// SpeedMultiplier returns the active speed modifier.
func (p *Player) SpeedMultiplier(now time.Duration) float64 {
	return p.speed.at(now)
}

// DamageMultiplier returns the active damage modifier.
func (p *Player) DamageMultiplier(now time.Duration) float64 {
	return p.damage.at(now)
}

// GrantSpeed applies a speed multiplier until now+d.
func (p *Player) GrantSpeed(mult float64, now, d time.Duration) {
	p.speed = modifier{value: mult, until: now + d}
}

// GrantDamage applies a damage multiplier until now+d.
func (p *Player) GrantDamage(mult float64, now, d time.Duration) {
	p.damage = modifier{value: mult, until: now + d}
}

// GrantInvulnerability ignores damage until now+d.
func (p *Player) GrantInvulnerability(now, d time.Duration) {
	if until := now + d; until > p.invulnUntil {
		p.invulnUntil = until
	}
}

// ExpireModifiers drops modifiers whose time has passed.
func (p *Player) ExpireModifiers(now time.Duration) {
	if now >= p.speed.until {
		p.speed = modifier{}
	}
	if now >= p.damage.until {
		p.damage = modifier{}
	}
}

// TakeDamage subtracts d from health, clamping at zero.
func (p *Player) TakeDamage(d float64, now time.Duration) {
	if d <= 0 {
		return
	}
	p.Health = core.ClampF(p.Health-d, 0, p.MaxHealth)
	p.HurtAt = now
}

// SetHealth overwrites health, clamped to [0, MaxHealth].
func (p *Player) SetHealth(h float64) {
	p.Health = core.ClampF(h, 0, p.MaxHealth)
}

// Respawn restores full health at pos.
func (p *Player) Respawn(pos core.Vec) {
	p.Pos = pos
	p.Vel = core.Vec{}
	p.Health = p.MaxHealth
}
