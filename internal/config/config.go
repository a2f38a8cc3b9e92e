// Package config provides YAML-based configuration loading and mode presets
// for the arena client.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalid is wrapped by every validation failure returned from Validate.
var ErrInvalid = errors.New("invalid config")

// ArenaConfig contains all tunables of the client simulation.
type ArenaConfig struct {
	World          WorldConfig          `yaml:"world"`
	Player         PlayerConfig         `yaml:"player"`
	Projectile     ProjectileConfig     `yaml:"projectile"`
	Timing         TimingConfig         `yaml:"timing"`
	Camera         CameraConfig         `yaml:"camera"`
	Input          InputConfig          `yaml:"input"`
	Weapons        []WeaponConfig       `yaml:"weapons"`
	Zone           ZoneConfig           `yaml:"zone"`
	Network        NetworkConfig        `yaml:"network"`
	Reconciliation ReconciliationConfig `yaml:"reconciliation"`
}

// WorldConfig defines the rectangular world bounds.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PlayerConfig defines the local player body and movement.
type PlayerConfig struct {
	Size       float64 `yaml:"size"`        // Side of the square hitbox; x,y is its top-left
	Speed      float64 `yaml:"speed"`       // World units per reference frame
	SprintMult float64 `yaml:"sprint_mult"` // Speed multiplier while sprinting
	MaxHealth  float64 `yaml:"max_health"`
	KillScore  int     `yaml:"kill_score"` // Score added per player_kill

	// Grace period after a respawn during which the player is invulnerable.
	RespawnInvulnerabilityMS int `yaml:"respawn_invulnerability_ms"`
}

// ProjectileConfig defines projectile flight and hit detection.
type ProjectileConfig struct {
	Speed        float64 `yaml:"speed"`
	LifetimeMS   int     `yaml:"lifetime_ms"`
	HitboxRadius float64 `yaml:"hitbox_radius"`
}

// TimingConfig defines the tick model.
type TimingConfig struct {
	TickRate         int     `yaml:"tick_rate"`          // Ticks per second of the driver
	ReferenceFrameMS float64 `yaml:"reference_frame_ms"` // Speeds are expressed per reference frame
	MaxDeltaMS       int     `yaml:"max_delta_ms"`       // Clock deltas are clamped to this
	UpdateIntervalMS int     `yaml:"update_interval_ms"` // Minimum gap between player_update emits
}

// CameraConfig defines viewport follow behaviour.
type CameraConfig struct {
	Smoothing      float64 `yaml:"smoothing"`
	ViewportWidth  float64 `yaml:"viewport_width"`
	ViewportHeight float64 `yaml:"viewport_height"`
}

// InputConfig defines input normalisation.
type InputConfig struct {
	JoystickRadius float64 `yaml:"joystick_radius"`
	DiagonalFactor float64 `yaml:"diagonal_factor"` // Applied to keyboard movement when two axes are held
	HoldTimeoutMS  int     `yaml:"hold_timeout_ms"` // Terminal keys are released after this long without repeat
	AimStep        float64 `yaml:"aim_step"`        // Radians per aim key press
}

// WeaponKind selects the weapon variant.
type WeaponKind string

const (
	WeaponRanged WeaponKind = "ranged"
	WeaponMelee  WeaponKind = "melee"
)

// WeaponConfig is a static weapon definition. Ranged weapons use Spread,
// Pellets and MaxAmmo; melee weapons use Range.
type WeaponConfig struct {
	Name       string     `yaml:"name"`
	Kind       WeaponKind `yaml:"kind"`
	Damage     float64    `yaml:"damage"`
	FireRateMS int        `yaml:"fire_rate_ms"`
	Spread     float64    `yaml:"spread"`
	Pellets    int        `yaml:"pellets"`
	MaxAmmo    int        `yaml:"max_ammo"`
	Range      float64    `yaml:"range"`
}

// ZoneConfig defines the optional shrinking safe zone.
type ZoneConfig struct {
	Enabled       bool    `yaml:"enabled"`
	CenterX       float64 `yaml:"center_x"`
	CenterY       float64 `yaml:"center_y"`
	Radius        float64 `yaml:"radius"`
	TargetRadius  float64 `yaml:"target_radius"`
	ShrinkPerTick float64 `yaml:"shrink_per_tick"`
	DamagePerTick float64 `yaml:"damage_per_tick"`
}

// NetworkConfig defines the gateway connection.
type NetworkConfig struct {
	URL           string `yaml:"url"`
	Codec         string `yaml:"codec"` // "json" or "msgpack"
	InboxSize     int    `yaml:"inbox_size"`
	OutboxSize    int    `yaml:"outbox_size"`
	DialTimeoutMS int    `yaml:"dial_timeout_ms"`
}

// ReconciliationConfig defines how predictions interact with snapshots.
type ReconciliationConfig struct {
	PredictRemoteDamage bool `yaml:"predict_remote_damage"`
}

// Lifetime returns the projectile lifetime as a duration.
func (c ProjectileConfig) Lifetime() time.Duration {
	return time.Duration(c.LifetimeMS) * time.Millisecond
}

// ReferenceFrame returns the reference frame as a duration.
func (c TimingConfig) ReferenceFrame() time.Duration {
	return time.Duration(c.ReferenceFrameMS * float64(time.Millisecond))
}

// MaxDelta returns the clock clamp as a duration.
func (c TimingConfig) MaxDelta() time.Duration {
	return time.Duration(c.MaxDeltaMS) * time.Millisecond
}

// UpdateInterval returns the player_update throttle interval.
func (c TimingConfig) UpdateInterval() time.Duration {
	return time.Duration(c.UpdateIntervalMS) * time.Millisecond
}

// TickInterval returns the driver tick period.
func (c TimingConfig) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TickRate)
}

// FireRate returns the weapon cooldown as a duration.
func (w WeaponConfig) FireRate() time.Duration {
	return time.Duration(w.FireRateMS) * time.Millisecond
}

// Weapon returns the weapon definition with the given name.
func (c ArenaConfig) Weapon(name string) (WeaponConfig, bool) {
	for _, w := range c.Weapons {
		if w.Name == name {
			return w, true
		}
	}
	return WeaponConfig{}, false
}

// Validate checks the configuration for values the simulation cannot run with.
func (c ArenaConfig) Validate() error {
	switch {
	case c.World.Width <= 0 || c.World.Height <= 0:
		return fmt.Errorf("%w: world must have positive size", ErrInvalid)
	case c.Player.Size <= 0:
		return fmt.Errorf("%w: player.size must be positive", ErrInvalid)
	case c.Player.MaxHealth <= 0:
		return fmt.Errorf("%w: player.max_health must be positive", ErrInvalid)
	case c.Projectile.LifetimeMS <= 0:
		return fmt.Errorf("%w: projectile.lifetime_ms must be positive", ErrInvalid)
	case c.Timing.ReferenceFrameMS <= 0:
		return fmt.Errorf("%w: timing.reference_frame_ms must be positive", ErrInvalid)
	case c.Camera.Smoothing < 0 || c.Camera.Smoothing > 1:
		return fmt.Errorf("%w: camera.smoothing must be within [0, 1]", ErrInvalid)
	case len(c.Weapons) == 0:
		return fmt.Errorf("%w: at least one weapon is required", ErrInvalid)
	}

	seen := make(map[string]bool, len(c.Weapons))
	for _, w := range c.Weapons {
		if w.Name == "" {
			return fmt.Errorf("%w: weapon without a name", ErrInvalid)
		}
		if seen[w.Name] {
			return fmt.Errorf("%w: duplicate weapon %q", ErrInvalid, w.Name)
		}
		seen[w.Name] = true

		switch w.Kind {
		case WeaponRanged:
			if w.Pellets < 1 || w.MaxAmmo < 1 {
				return fmt.Errorf("%w: weapon %q needs pellets and max_ammo >= 1", ErrInvalid, w.Name)
			}
		case WeaponMelee:
			if w.Range <= 0 {
				return fmt.Errorf("%w: weapon %q needs a positive range", ErrInvalid, w.Name)
			}
		default:
			return fmt.Errorf("%w: weapon %q has unknown kind %q", ErrInvalid, w.Name, w.Kind)
		}
	}

	switch c.Network.Codec {
	case "", "json", "msgpack":
	default:
		return fmt.Errorf("%w: unknown network.codec %q", ErrInvalid, c.Network.Codec)
	}
	return nil
}
