package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-arena/internal/core"
)

// colorStyles maps core color roles to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:     lipgloss.NewStyle(),
	core.ColorFloor:       lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	core.ColorWall:        lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	core.ColorSelf:        lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	core.ColorRemote:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
	core.ColorHurt:        lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	core.ColorDead:        lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	core.ColorBullet:      lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorEnemyBullet: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorZone:        lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorHUD:         lipgloss.NewStyle().Foreground(lipgloss.Color("229")),
	core.ColorWarn:        lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	core.ColorMuted:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			run.Reset()
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	n := lipgloss.Width(text)
	if n >= width {
		return text
	}
	return strings.Repeat(" ", (width-n)/2) + text
}
