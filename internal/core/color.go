package core

// Color represents a foreground color role for a screen cell.
// The platform layer maps roles to terminal colors.
type Color uint8

// Color roles used by the arena renderer.
const (
	ColorDefault Color = iota
	ColorFloor
	ColorWall
	ColorSelf
	ColorRemote
	ColorHurt
	ColorDead
	ColorBullet
	ColorEnemyBullet
	ColorZone
	ColorHUD
	ColorWarn
	ColorMuted
)
