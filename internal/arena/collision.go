package arena

import (
	"github.com/vovakirdan/tui-arena/internal/core"
)

// Target is a body a projectile can hit.
type Target struct {
	ID     string
	Center core.Vec
	Local  bool
	// Hittable is checked before every projectile; nil means always.
	// Damage applied earlier in the same pass can make it false.
	Hittable func() bool
}

// HitEvent reports one projectile hitting one target.
type HitEvent struct {
	Damage    float64
	ShooterID string
	TargetID  string
	Weapon    string
	Local     bool // Target is the local player
	At        core.Vec
}

// CollisionResolver finds projectile/player overlaps by centre distance.
type CollisionResolver struct {
	Radius float64
}

// Resolve checks every live projectile against targets in the given order.
// A projectile hits the first hittable target, other than its owner, whose
// centre is closer than Radius; it is then retired and yields exactly one
// HitEvent. apply, when non-nil, runs for each hit before the next projectile
// is checked, so a target it kills absorbs nothing further.
func (r CollisionResolver) Resolve(projectiles []*Projectile, targets []Target, apply func(HitEvent)) []HitEvent {
	var hits []HitEvent
	for _, p := range projectiles {
		if !p.Alive() {
			continue
		}
		for _, t := range targets {
			if t.ID == p.OwnerID {
				continue
			}
			if t.Hittable != nil && !t.Hittable() {
				continue
			}
			if core.Dist(p.Pos, t.Center) < r.Radius {
				p.Retire()
				h := HitEvent{
					Damage:    p.Damage,
					ShooterID: p.OwnerID,
					TargetID:  t.ID,
					Weapon:    p.Weapon,
					Local:     t.Local,
					At:        p.Pos,
				}
				hits = append(hits, h)
				if apply != nil {
					apply(h)
				}
				break
			}
		}
	}
	return hits
}
