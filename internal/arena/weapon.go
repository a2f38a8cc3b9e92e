package arena

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-arena/internal/config"
	"github.com/vovakirdan/tui-arena/internal/core"
)

// Weapon is a static weapon definition: either Ranged or Melee.
type Weapon interface {
	Def() WeaponDef
	isWeapon()
}

// WeaponDef holds the fields every weapon has.
type WeaponDef struct {
	Name     string
	Damage   float64
	FireRate time.Duration
}

// Ranged fires Pellets projectiles per shot and consumes one round of ammo.
type Ranged struct {
	WeaponDef
	Spread  float64 // Total cone width in radians
	Pellets int
	MaxAmmo int
}

// Melee swings at Range and is resolved by the server.
type Melee struct {
	WeaponDef
	Range float64
}

func (w Ranged) Def() WeaponDef { return w.WeaponDef }
func (w Melee) Def() WeaponDef  { return w.WeaponDef }

func (Ranged) isWeapon() {}
func (Melee) isWeapon()  {}

// WeaponFromConfig builds a weapon from its YAML definition.
func WeaponFromConfig(c config.WeaponConfig) (Weapon, error) {
	def := WeaponDef{Name: c.Name, Damage: c.Damage, FireRate: c.FireRate()}
	switch c.Kind {
	case config.WeaponRanged:
		pellets := c.Pellets
		if pellets < 1 {
			pellets = 1
		}
		return Ranged{WeaponDef: def, Spread: c.Spread, Pellets: pellets, MaxAmmo: c.MaxAmmo}, nil
	case config.WeaponMelee:
		return Melee{WeaponDef: def, Range: c.Range}, nil
	default:
		return nil, fmt.Errorf("arena: weapon %q: unknown kind %q", c.Name, c.Kind)
	}
}

// ShotIntent is one pellet leaving the muzzle.
type ShotIntent struct {
	Origin core.Vec
	Angle  float64
	Damage float64
	Weapon string
}

// MeleeIntent is a swing for the server to resolve.
type MeleeIntent struct {
	Origin core.Vec
	Facing float64
	Range  float64
	Damage float64
	Weapon string
}

// FireResult is what one fire attempt produced. A zero FireResult means the
// attempt was ignored.
type FireResult struct {
	Shots []ShotIntent
	Melee *MeleeIntent
}

// Fired reports whether the attempt produced anything.
func (r FireResult) Fired() bool {
	return len(r.Shots) > 0 || r.Melee != nil
}

// Muzzle describes where shots leave the shooter: Offset units from Center
// along the emission angle.
type Muzzle struct {
	Center core.Vec
	Offset float64
}

// WeaponState is the ammo and cooldown state of one weapon.
type WeaponState struct {
	Weapon Weapon
	Ammo   int

	lastShot time.Duration
	fired    bool
}

// NewWeaponState creates a full, ready weapon.
func NewWeaponState(w Weapon) *WeaponState {
	st := &WeaponState{Weapon: w}
	if r, ok := w.(Ranged); ok {
		st.Ammo = r.MaxAmmo
	}
	return st
}

// Cooling reports whether the weapon is still inside its fire-rate window.
func (s *WeaponState) Cooling(now time.Duration) bool {
	return s.fired && now < s.lastShot+s.Weapon.Def().FireRate
}

// Ready reports whether a fire attempt at now would succeed.
func (s *WeaponState) Ready(now time.Duration) bool {
	if s.Cooling(now) {
		return false
	}
	if _, ok := s.Weapon.(Ranged); ok {
		return s.Ammo > 0
	}
	return true
}

// Fire attempts to fire at aim. Cooling or empty weapons return a zero result.
func (s *WeaponState) Fire(now time.Duration, muzzle Muzzle, aim, damageMult float64, rng *rand.Rand) FireResult {
	if !s.Ready(now) {
		return FireResult{}
	}
	s.lastShot = now
	s.fired = true

	if damageMult <= 0 {
		damageMult = 1
	}

	switch w := s.Weapon.(type) {
	case Melee:
		return FireResult{Melee: &MeleeIntent{
			Origin: muzzle.Center,
			Facing: aim,
			Range:  w.Range,
			Damage: w.Damage * damageMult,
			Weapon: w.Name,
		}}
	case Ranged:
		s.Ammo--
		shots := make([]ShotIntent, 0, w.Pellets)
		for i := 0; i < w.Pellets; i++ {
			angle := aim + (rng.Float64()-0.5)*w.Spread
			shots = append(shots, ShotIntent{
				Origin: muzzle.Center.Add(core.FromAngle(angle).Scale(muzzle.Offset)),
				Angle:  angle,
				Damage: w.Damage * damageMult,
				Weapon: w.Name,
			})
		}
		return FireResult{Shots: shots}
	}
	return FireResult{}
}

// Reload refills a ranged weapon. It reports whether anything changed.
func (s *WeaponState) Reload() bool {
	r, ok := s.Weapon.(Ranged)
	if !ok || s.Ammo >= r.MaxAmmo {
		return false
	}
	s.Ammo = r.MaxAmmo
	return true
}

// AmmoLabel renders the ammo counter for the HUD.
func (s *WeaponState) AmmoLabel() string {
	r, ok := s.Weapon.(Ranged)
	if !ok {
		return "∞"
	}
	return fmt.Sprintf("%d/%d", s.Ammo, r.MaxAmmo)
}

// Arsenal is the ordered loadout of a player with one active weapon.
type Arsenal struct {
	states  []*WeaponState
	current int
}

// NewArsenal creates an arsenal from weapon definitions. The first weapon is active.
func NewArsenal(weapons []Weapon) *Arsenal {
	a := &Arsenal{states: make([]*WeaponState, 0, len(weapons))}
	for _, w := range weapons {
		a.states = append(a.states, NewWeaponState(w))
	}
	return a
}

// ArsenalFromConfig builds the loadout described by cfg.
func ArsenalFromConfig(cfg []config.WeaponConfig) (*Arsenal, error) {
	weapons := make([]Weapon, 0, len(cfg))
	for _, c := range cfg {
		w, err := WeaponFromConfig(c)
		if err != nil {
			return nil, err
		}
		weapons = append(weapons, w)
	}
	if len(weapons) == 0 {
		return nil, fmt.Errorf("arena: empty loadout")
	}
	return NewArsenal(weapons), nil
}

// Current returns the active weapon state.
func (a *Arsenal) Current() *WeaponState {
	return a.states[a.current]
}

// States returns all weapon states in slot order.
func (a *Arsenal) States() []*WeaponState {
	return a.states
}

// Index returns the active slot.
func (a *Arsenal) Index() int {
	return a.current
}

// Get returns the state of the named weapon.
func (a *Arsenal) Get(name string) (*WeaponState, bool) {
	for _, st := range a.states {
		if st.Weapon.Def().Name == name {
			return st, true
		}
	}
	return nil, false
}

// Switch activates the named weapon. Unknown names are ignored.
func (a *Arsenal) Switch(name string) bool {
	for i, st := range a.states {
		if st.Weapon.Def().Name == name {
			a.current = i
			return true
		}
	}
	return false
}

// SwitchSlot activates the weapon in slot i. Out-of-range slots are ignored.
func (a *Arsenal) SwitchSlot(i int) bool {
	if i < 0 || i >= len(a.states) {
		return false
	}
	a.current = i
	return true
}

// Next activates the following weapon, wrapping around.
func (a *Arsenal) Next() {
	a.current = (a.current + 1) % len(a.states)
}

// Fire fires the active weapon.
func (a *Arsenal) Fire(now time.Duration, muzzle Muzzle, aim, damageMult float64, rng *rand.Rand) FireResult {
	return a.Current().Fire(now, muzzle, aim, damageMult, rng)
}

// Reload refills the active weapon.
func (a *Arsenal) Reload() bool {
	return a.Current().Reload()
}
