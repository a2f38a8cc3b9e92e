package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-arena/internal/config"
	"github.com/vovakirdan/tui-arena/internal/core"
)

// Model is the Bubble Tea model for one arena session.
type Model struct {
	session    *Session
	view       *ArenaView
	screen     *core.Screen
	runtime    core.RuntimeConfig
	keys       KeyMap
	help       help.Model
	embedded   bool // esc returns to a parent menu instead of quitting
	showScores bool
	status     string
	quitting   bool
	backToMenu bool
}

// NewModel creates a model driving the given session.
func NewModel(session *Session, rt core.RuntimeConfig) Model {
	if rt.ScreenW <= 0 || rt.ScreenH <= 0 {
		def := core.DefaultConfig()
		rt.ScreenW, rt.ScreenH = def.ScreenW, def.ScreenH
	}
	if rt.TickRate <= 0 {
		rt.TickRate = session.Sim.Config().Timing.TickRate
	}

	m := Model{
		session: session,
		view:    NewArenaView(rt),
		screen:  core.NewScreen(rt.ScreenW, max(rt.ScreenH-1, 1)),
		runtime: rt,
		keys:    DefaultKeyMap(),
		help:    help.New(),
	}
	m.help.Width = rt.ScreenW
	session.Sim.SetViewport(m.view.Viewport(rt.ScreenW, rt.ScreenH))
	return m
}

// Init starts the tick loop and, when online, watches the connection.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.runtime.TickRate, m.session.ID), waitForDisconnect(m.session.Client, m.session.ID))
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		if msg.SessionID != m.session.ID {
			return m, nil
		}
		m.session.Step()
		return m, tickCmd(m.runtime.TickRate, m.session.ID)

	case DisconnectedMsg:
		if msg.SessionID != m.session.ID {
			return m, nil
		}
		m.status = "disconnected from server"
		if msg.Err != nil {
			m.status = fmt.Sprintf("disconnected: %v", msg.Err)
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "ctrl+s":
		m.saveScreenshot()
		return m, nil
	}
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	sim := m.session.Sim
	for _, a := range m.keys.MapKey(msg) {
		switch a {
		case core.ActionQuit:
			if m.embedded {
				m.backToMenu = true
				return m, nil
			}
			m.quitting = true
			return m, tea.Quit
		case core.ActionScoreboard:
			m.showScores = !m.showScores
		default:
			sim.Input().Tap(a, sim.Now())
		}
	}
	return m, nil
}

// handleMouse aims at the pointer and fires while the left button is down.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	sim := m.session.Sim
	in := sim.Input()

	if msg.Y >= 1 && msg.Y <= FieldRows(m.runtime.ScreenH) {
		in.PointAt(m.view.CellToWorld(sim, msg.X, msg.Y))
	}

	if msg.Button == tea.MouseButtonLeft {
		switch msg.Action {
		case tea.MouseActionPress:
			in.Hold(core.ActionFire)
		case tea.MouseActionRelease:
			in.Release(core.ActionFire)
		}
	}
	if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonNone {
		in.Release(core.ActionFire)
	}
	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.runtime.ScreenW = msg.Width
	m.runtime.ScreenH = msg.Height
	m.screen.Resize(msg.Width, max(msg.Height-1, 1))
	m.help.Width = msg.Width
	m.session.Sim.SetViewport(m.view.Viewport(msg.Width, msg.Height))
	return m, nil
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.view.Draw(m.screen, m.session.Sim, m.session.Online())

	dir := filepath.Join(config.DataDir(), "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("arena_%s.txt", timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
	m.status = "screenshot saved to " + path
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	w, h := m.runtime.ScreenW, m.runtime.ScreenH
	var body string
	switch {
	case m.help.ShowAll:
		body = lipgloss.Place(w, h-1, lipgloss.Center, lipgloss.Center,
			borderStyle.Render(titleStyle.Render("CONTROLS")+"\n\n"+m.help.View(m.keys)))
	case m.showScores:
		body = RenderScoreOverlay(m.session.Sim, w, h-1)
	default:
		m.view.Draw(m.screen, m.session.Sim, m.session.Online())
		body = RenderScreen(m.screen)
	}

	footer := m.help.View(m.keys)
	if m.status != "" {
		footer = m.status
	}
	return body + "\n" + helpStyle.Render(footer)
}

// Session returns the session this model drives.
func (m Model) Session() *Session {
	return m.session
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to the menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run opens a session, plays it in the terminal and persists it on exit.
func Run(ctx context.Context, opts SessionOptions, rt core.RuntimeConfig) error {
	session, err := NewSession(ctx, opts)
	if err != nil {
		return err
	}
	defer session.Close()

	p := tea.NewProgram(
		NewModel(session, rt),
		tea.WithContext(ctx),
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseAllMotion(), // Track the pointer for aiming
	)

	_, err = p.Run()
	return err
}
