package config

import "fmt"

// ModePreset represents a named game-mode variant applied on top of a loaded config.
type ModePreset string

const (
	ModeClassic  ModePreset = "classic"
	ModeRoyale   ModePreset = "royale"
	ModeHardcore ModePreset = "hardcore"
	ModeTraining ModePreset = "training"
)

// Modes lists the known presets in display order.
func Modes() []ModePreset {
	return []ModePreset{ModeClassic, ModeRoyale, ModeHardcore, ModeTraining}
}

// ApplyMode modifies the config for a mode preset. An empty preset is classic.
func ApplyMode(cfg *ArenaConfig, preset ModePreset) error {
	switch preset {
	case "", ModeClassic:
	case ModeRoyale:
		cfg.Zone.Enabled = true
	case ModeHardcore:
		cfg.Player.MaxHealth = 50
		cfg.Reconciliation.PredictRemoteDamage = false
		cfg.Player.RespawnInvulnerabilityMS = 0
	case ModeTraining:
		cfg.Player.RespawnInvulnerabilityMS = 3000
		cfg.Zone.Enabled = false
	default:
		return fmt.Errorf("config: unknown mode %q", preset)
	}
	return nil
}
