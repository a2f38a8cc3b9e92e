package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/vovakirdan/tui-arena/internal/arena"
	"github.com/vovakirdan/tui-arena/internal/core"
)

const (
	gridSpacing = 128.0 // world units between floor dots
	hpBarCells  = 10
	hurtFlash   = 200 * time.Millisecond
)

// facingRunes are arrows for the eight compass octants, starting east and
// turning clockwise (screen y grows downward).
var facingRunes = []rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

// ArenaView draws simulation state into a screen buffer. The top row holds
// the HUD and the bottom row is left to the caller for help text.
type ArenaView struct {
	cfg core.RuntimeConfig
}

// NewArenaView creates a view using cfg's cell scale.
func NewArenaView(cfg core.RuntimeConfig) *ArenaView {
	if cfg.CellW <= 0 || cfg.CellH <= 0 {
		def := core.DefaultConfig()
		cfg.CellW, cfg.CellH = def.CellW, def.CellH
	}
	return &ArenaView{cfg: cfg}
}

// FieldRows is the number of screen rows used for the playing field.
func FieldRows(screenH int) int {
	return max(screenH-2, 1)
}

// Viewport returns the world-space size shown on a screen of cols x rows.
func (v *ArenaView) Viewport(cols, rows int) (float64, float64) {
	return v.cfg.ViewportSize(cols, FieldRows(rows))
}

// CellToWorld converts a screen cell (in full-screen coordinates) to the world
// point at the cell centre.
func (v *ArenaView) CellToWorld(sim *arena.Sim, x, y int) core.Vec {
	o := sim.Camera().Origin()
	return core.Vec{
		X: o.X + (float64(x)+0.5)*v.cfg.CellW,
		Y: o.Y + (float64(y-1)+0.5)*v.cfg.CellH,
	}
}

// worldToCell converts a world point to a screen cell, accounting for the HUD row.
func (v *ArenaView) worldToCell(sim *arena.Sim, p core.Vec) (int, int) {
	rel := sim.Camera().WorldToScreen(p)
	return int(math.Floor(rel.X / v.cfg.CellW)), int(math.Floor(rel.Y/v.cfg.CellH)) + 1
}

// Draw renders the field and HUD. online reports whether a server is connected.
func (v *ArenaView) Draw(dst *core.Screen, sim *arena.Sim, online bool) {
	dst.Clear()
	v.drawField(dst, sim)
	v.drawProjectiles(dst, sim)
	v.drawRemotes(dst, sim)
	v.drawSelf(dst, sim)
	v.drawHUD(dst, sim, online)

	if !sim.Player().Alive() {
		mid := 1 + FieldRows(dst.Height())/2
		dst.DrawTextCentered(mid, " YOU DIED ", core.ColorWarn)
		dst.DrawTextCentered(mid+1, " waiting for respawn ", core.ColorMuted)
	}
}

func (v *ArenaView) drawField(dst *core.Screen, sim *arena.Sim) {
	world := sim.World()
	zone := sim.Zone()
	rows := FieldRows(dst.Height())

	for y := 1; y <= rows; y++ {
		for x := 0; x < dst.Width(); x++ {
			p := v.CellToWorld(sim, x, y)
			switch {
			case !world.Contains(p):
				dst.Set(x, y, '▒', core.ColorWall)
			case zone.Enabled && !zone.Contains(p):
				dst.Set(x, y, '░', core.ColorZone)
			case onGrid(p.X, v.cfg.CellW) && onGrid(p.Y, v.cfg.CellH):
				dst.Set(x, y, '·', core.ColorFloor)
			}
		}
	}
}

// onGrid reports whether the cell centred on c spans a grid line.
func onGrid(c, cell float64) bool {
	return math.Mod(c-cell/2, gridSpacing) < cell
}

func (v *ArenaView) drawProjectiles(dst *core.Screen, sim *arena.Sim) {
	self := sim.Player().ID
	for _, p := range sim.Projectiles() {
		x, y := v.worldToCell(sim, p.Pos)
		if y < 1 || y > FieldRows(dst.Height()) {
			continue
		}
		if p.OwnerID == self {
			dst.Set(x, y, '•', core.ColorBullet)
		} else {
			dst.Set(x, y, '∗', core.ColorEnemyBullet)
		}
	}
}

func (v *ArenaView) drawRemotes(dst *core.Screen, sim *arena.Sim) {
	store := sim.Store()
	for _, r := range store.Remotes() {
		x, y := v.worldToCell(sim, store.RemoteCenter(r))
		if y < 1 || y > FieldRows(dst.Height()) {
			continue
		}
		glyph, color := '@', core.ColorRemote
		if name := []rune(r.Username); len(name) > 0 {
			glyph = name[0]
		}
		if !r.Alive() {
			glyph, color = 'x', core.ColorDead
		}
		dst.Set(x, y, glyph, color)
		if y > 1 && r.Username != "" {
			label := r.Username
			if len(label) > 12 {
				label = label[:12]
			}
			dst.DrawText(x-len(label)/2, y-1, label, core.ColorMuted)
		}
	}
}

func (v *ArenaView) drawSelf(dst *core.Screen, sim *arena.Sim) {
	p := sim.Player()
	x, y := v.worldToCell(sim, p.Center())
	if !p.Alive() {
		dst.Set(x, y, 'x', core.ColorDead)
		return
	}
	color := core.ColorSelf
	if p.HurtAt > 0 && sim.Now()-p.HurtAt < hurtFlash {
		color = core.ColorHurt
	}
	dst.Set(x, y, '@', color)

	octant := int(math.Round(p.Rotation/(math.Pi/4))) & 7
	dir := core.FromAngle(p.Rotation)
	fx, fy := x+int(math.Round(dir.X)), y+int(math.Round(dir.Y))
	if fy >= 1 && fy <= FieldRows(dst.Height()) {
		dst.Set(fx, fy, facingRunes[octant], color)
	}
}

func (v *ArenaView) drawHUD(dst *core.Screen, sim *arena.Sim, online bool) {
	p := sim.Player()
	ws := p.Weapons.Current()

	filled := 0
	if p.MaxHealth > 0 {
		filled = int(math.Ceil(p.Health / p.MaxHealth * hpBarCells))
	}
	filled = core.Clamp(filled, 0, hpBarCells)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", hpBarCells-filled)

	hpColor := core.ColorSelf
	if p.Health <= p.MaxHealth/4 {
		hpColor = core.ColorWarn
	}

	x := 0
	x = drawSegment(dst, x, "HP ", core.ColorHUD)
	x = drawSegment(dst, x, bar, hpColor)
	x = drawSegment(dst, x, fmt.Sprintf(" %3.0f  ", p.Health), core.ColorHUD)

	weapon := fmt.Sprintf("%s %s", ws.Weapon.Def().Name, ws.AmmoLabel())
	if ws.Cooling(sim.Now()) {
		x = drawSegment(dst, x, weapon, core.ColorMuted)
	} else {
		x = drawSegment(dst, x, weapon, core.ColorHUD)
	}
	x = drawSegment(dst, x, fmt.Sprintf("  K %d  D %d  Score %d", p.Kills, p.Deaths, p.Score), core.ColorHUD)

	if z := sim.Zone(); z.Enabled && !z.Contains(p.Center()) {
		x = drawSegment(dst, x, "  OUTSIDE ZONE", core.ColorWarn)
	}

	status, color := "offline", core.ColorMuted
	if online {
		status, color = fmt.Sprintf("online · %d players", len(sim.Store().Remotes())+1), core.ColorSelf
	}
	if start := dst.Width() - len([]rune(status)) - 1; start > x {
		dst.DrawText(start, 0, status, color)
	}
}

func drawSegment(dst *core.Screen, x int, text string, c core.Color) int {
	dst.DrawText(x, 0, text, c)
	return x + len([]rune(text))
}
