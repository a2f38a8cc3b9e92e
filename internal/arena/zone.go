package arena

import (
	"github.com/vovakirdan/tui-arena/internal/config"
	"github.com/vovakirdan/tui-arena/internal/core"
	"github.com/vovakirdan/tui-arena/internal/protocol"
)

// Zone is a shrinking safe circle. The radius never grows.
type Zone struct {
	Enabled       bool
	Center        core.Vec
	Radius        float64
	TargetRadius  float64
	ShrinkPerTick float64
	DamagePerTick float64
}

// NewZone creates a zone from configuration.
func NewZone(cfg config.ZoneConfig) *Zone {
	z := &Zone{
		Enabled:       cfg.Enabled,
		Center:        core.Vec{X: cfg.CenterX, Y: cfg.CenterY},
		Radius:        cfg.Radius,
		TargetRadius:  cfg.TargetRadius,
		ShrinkPerTick: cfg.ShrinkPerTick,
		DamagePerTick: cfg.DamagePerTick,
	}
	if z.TargetRadius > z.Radius {
		z.TargetRadius = z.Radius
	}
	return z
}

// Step shrinks the radius one tick toward the target.
func (z *Zone) Step() {
	if !z.Enabled || z.ShrinkPerTick <= 0 {
		return
	}
	z.Radius = max(z.TargetRadius, z.Radius-z.ShrinkPerTick)
}

// Contains reports whether p is inside the safe circle. A disabled zone
// contains everything.
func (z *Zone) Contains(p core.Vec) bool {
	if !z.Enabled {
		return true
	}
	return core.Dist(p, z.Center) <= z.Radius
}

// Override applies server zone parameters. A disabled zone takes the record
// as is; an enabled one only ever adopts a smaller radius.
func (z *Zone) Override(rec protocol.ZoneRecord) {
	radius := rec.Radius
	if z.Enabled {
		radius = min(z.Radius, rec.Radius)
	}
	z.Enabled = true
	z.Center = core.Vec{X: rec.X, Y: rec.Y}
	z.Radius = radius
	z.TargetRadius = min(rec.TargetRadius, radius)
	z.ShrinkPerTick = rec.ShrinkPerTick
	z.DamagePerTick = rec.DamagePerTick
}
