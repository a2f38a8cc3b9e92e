package config

import (
	_ "embed"
)

//go:embed defaults/arena.yaml
var defaultArenaYAML []byte

// DefaultArenaConfig returns the hard-coded default configuration. It matches
// defaults/arena.yaml and is used when the embedded file cannot be parsed.
func DefaultArenaConfig() ArenaConfig {
	return ArenaConfig{
		World: WorldConfig{
			Width:  2000,
			Height: 2000,
		},
		Player: PlayerConfig{
			Size:       32,
			Speed:      5,
			SprintMult: 1.5,
			MaxHealth:  100,
			KillScore:  100,
		},
		Projectile: ProjectileConfig{
			Speed:        15,
			LifetimeMS:   2000,
			HitboxRadius: 20,
		},
		Timing: TimingConfig{
			TickRate:         60,
			ReferenceFrameMS: 16.67,
			MaxDeltaMS:       100,
			UpdateIntervalMS: 50,
		},
		Camera: CameraConfig{
			Smoothing:      0.1,
			ViewportWidth:  800,
			ViewportHeight: 600,
		},
		Input: InputConfig{
			JoystickRadius: 60,
			DiagonalFactor: 0.707,
			HoldTimeoutMS:  150,
			AimStep:        0.2617994, // 15 degrees
		},
		Weapons: []WeaponConfig{
			{Name: "pistol", Kind: WeaponRanged, Damage: 15, FireRateMS: 400, Spread: 0.1, Pellets: 1, MaxAmmo: 30},
			{Name: "shotgun", Kind: WeaponRanged, Damage: 8, FireRateMS: 800, Spread: 0.3, Pellets: 5, MaxAmmo: 10},
			{Name: "smg", Kind: WeaponRanged, Damage: 10, FireRateMS: 150, Spread: 0.15, Pellets: 1, MaxAmmo: 45},
			{Name: "knife", Kind: WeaponMelee, Damage: 35, FireRateMS: 500, Range: 50},
		},
		Zone: ZoneConfig{
			Enabled:       false,
			CenterX:       1000,
			CenterY:       1000,
			Radius:        1400,
			TargetRadius:  200,
			ShrinkPerTick: 0.5,
			DamagePerTick: 0.2,
		},
		Network: NetworkConfig{
			Codec:         "json",
			InboxSize:     64,
			OutboxSize:    256,
			DialTimeoutMS: 5000,
		},
		Reconciliation: ReconciliationConfig{
			PredictRemoteDamage: true,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultArenaYAML
}
