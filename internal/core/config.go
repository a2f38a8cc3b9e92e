package core

// RuntimeConfig contains front-end parameters passed to the simulation
// driver at start-up.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic spread; 0 means time-seeded

	// World units covered by one terminal cell. Cells are roughly twice as
	// tall as they are wide, so CellH is usually 2*CellW.
	CellW float64
	CellH float64
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0,
		CellW:    16,
		CellH:    32,
	}
}

// ViewportSize returns the world-space size covered by a screen area of
// cols x rows cells.
func (c RuntimeConfig) ViewportSize(cols, rows int) (float64, float64) {
	return float64(cols) * c.CellW, float64(rows) * c.CellH
}
