package tui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-arena/internal/arena"
	"github.com/vovakirdan/tui-arena/internal/core"
	"github.com/vovakirdan/tui-arena/internal/storage"
)

// Scoreboard layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show player list sidebar
	sidebarWidth       = 24  // Width of player list sidebar
	maxLeaders         = 50  // Max players to load
	maxSessions        = 100 // Max sessions to load per player
)

var (
	borderStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func styledTable(columns []table.Column, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(height, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// scoreRow is one line of the in-arena scoreboard.
type scoreRow struct {
	name   string
	score  int
	kills  int
	deaths int
	health float64
	weapon string
	self   bool
}

// scoreRows collects the local player and every remote, ordered by score.
func scoreRows(sim *arena.Sim) []scoreRow {
	p := sim.Player()
	scores := sim.Store().Scores()

	rows := []scoreRow{{
		name:   p.Name,
		score:  p.Score,
		kills:  p.Kills,
		deaths: p.Deaths,
		health: p.Health,
		weapon: p.Weapons.Current().Weapon.Def().Name,
		self:   true,
	}}
	for _, r := range sim.Store().Remotes() {
		score := r.Score
		if s, ok := scores[r.ID]; ok {
			score = s
		}
		name := r.Username
		if name == "" {
			name = r.ID
		}
		rows = append(rows, scoreRow{
			name:   name,
			score:  score,
			kills:  r.Kills,
			deaths: r.Deaths,
			health: r.Health,
			weapon: r.Weapon,
		})
	}

	slices.SortStableFunc(rows, func(a, b scoreRow) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return cmp.Compare(a.name, b.name)
	})
	return rows
}

// RenderScoreOverlay renders the in-arena scoreboard table shown while Tab is toggled.
func RenderScoreOverlay(sim *arena.Sim, width, height int) string {
	rows := scoreRows(sim)
	t := styledTable([]table.Column{
		{Title: "#", Width: 3},
		{Title: "Player", Width: 16},
		{Title: "Score", Width: 7},
		{Title: "K", Width: 4},
		{Title: "D", Width: 4},
		{Title: "HP", Width: 5},
		{Title: "Weapon", Width: 8},
	}, min(len(rows)+1, height-6))

	trows := make([]table.Row, len(rows))
	selected := 0
	for i, r := range rows {
		name := r.name
		if r.self {
			name = "> " + name
			selected = i
		}
		trows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			name,
			fmt.Sprintf("%d", r.score),
			fmt.Sprintf("%d", r.kills),
			fmt.Sprintf("%d", r.deaths),
			fmt.Sprintf("%.0f", r.health),
			r.weapon,
		}
	}
	t.SetRows(trows)
	t.SetCursor(selected)

	box := borderStyle.Render(titleStyle.Render("SCOREBOARD") + "\n\n" + t.View())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// LeaderboardKeyMap defines the key bindings for the leaderboard.
type LeaderboardKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	NextPlayer key.Binding
	PrevPlayer key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k LeaderboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextPlayer, k.PrevPlayer, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k LeaderboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextPlayer, k.PrevPlayer},
		{k.Back, k.Quit},
	}
}

// DefaultLeaderboardKeyMap returns default key bindings.
func DefaultLeaderboardKeyMap() LeaderboardKeyMap {
	return LeaderboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextPlayer: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next player"),
		),
		PrevPlayer: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev player"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// LeaderboardModel shows per-player totals and the selected player's recent sessions.
type LeaderboardModel struct {
	leaders     []storage.PlayerTotals
	cursor      int
	store       *storage.Store
	sessions    []storage.SessionRecord
	table       table.Model
	help        help.Model
	keys        LeaderboardKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	standalone  bool // back exits the program
	showSidebar bool
	err         error
}

// NewLeaderboardModel creates a new leaderboard model.
func NewLeaderboardModel(store *storage.Store, width, height int) LeaderboardModel {
	h := help.New()
	h.ShowAll = false

	m := LeaderboardModel{
		store:       store,
		keys:        DefaultLeaderboardKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()

	if store != nil {
		m.leaders, m.err = store.Leaderboard(maxLeaders)
	}
	if len(m.leaders) > 0 {
		m.loadSessions(m.leaders[0].Player)
	}
	return m
}

func (m *LeaderboardModel) createTable() table.Model {
	tableWidth := m.width - 4
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3
	}
	modeWidth := core.Clamp(tableWidth-48, 8, 12)

	return styledTable([]table.Column{
		{Title: "Date", Width: 13},
		{Title: "Mode", Width: modeWidth},
		{Title: "Score", Width: 7},
		{Title: "K", Width: 4},
		{Title: "D", Width: 4},
		{Title: "Shots", Width: 6},
		{Title: "Time", Width: 6},
	}, m.height-8)
}

func (m *LeaderboardModel) loadSessions(player string) {
	m.sessions = nil
	if m.store != nil {
		sessions, err := m.store.RecentSessions(player, maxSessions)
		if err == nil {
			m.sessions = sessions
		}
	}

	rows := make([]table.Row, len(m.sessions))
	for i, s := range m.sessions {
		mode := s.Mode
		if mode == "" {
			mode = "classic"
		}
		if s.Server == "" {
			mode += "*"
		}
		rows[i] = table.Row{
			s.CreatedAt.Format("Jan 02 15:04"),
			mode,
			fmt.Sprintf("%d", s.Score),
			fmt.Sprintf("%d", s.Kills),
			fmt.Sprintf("%d", s.Deaths),
			fmt.Sprintf("%d", s.Shots),
			fmt.Sprintf("%dm%02ds", s.Duration/60, s.Duration%60),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the leaderboard model.
func (m LeaderboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the leaderboard.
func (m LeaderboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			if m.standalone {
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.NextPlayer):
			if len(m.leaders) > 0 {
				m.cursor = (m.cursor + 1) % len(m.leaders)
				m.loadSessions(m.leaders[m.cursor].Player)
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevPlayer):
			if len(m.leaders) > 0 {
				m.cursor = (m.cursor - 1 + len(m.leaders)) % len(m.leaders)
				m.loadSessions(m.leaders[m.cursor].Player)
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		if len(m.leaders) > 0 {
			m.loadSessions(m.leaders[m.cursor].Player)
		}
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the leaderboard.
func (m LeaderboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := "LEADERBOARD"
	if len(m.leaders) > 0 {
		p := m.leaders[m.cursor]
		title = fmt.Sprintf("LEADERBOARD - %s  (%d games, %d pts, K/D %.2f)",
			p.Player, p.GamesPlayed, p.TotalScore, p.KD())
	}
	b.WriteString(centerText(titleStyle.Render(title), m.width))
	b.WriteString("\n\n")

	content := m.renderTableContent()
	if m.showSidebar {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", borderStyle.Render(content)))
	} else {
		b.WriteString(centerText(borderStyle.Render(content), m.width))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m LeaderboardModel) renderSidebar() string {
	var sidebar strings.Builder
	sidebar.WriteString("Players\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, p := range m.leaders {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		line := fmt.Sprintf("%s%-10s %6d", cursor, truncate(p.Player, 10), p.TotalScore)
		sidebar.WriteString(style.Render(line))
		sidebar.WriteString("\n")
	}

	return borderStyle.Width(sidebarWidth).Render(sidebar.String())
}

func (m LeaderboardModel) renderTableContent() string {
	if m.err != nil {
		return helpStyle.Render("Could not load sessions: " + m.err.Error())
	}
	if len(m.sessions) == 0 {
		return helpStyle.Italic(true).Padding(2, 4).
			Render("No sessions recorded yet.\nPlay a round to get on the board!")
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to the menu.
func (m LeaderboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m LeaderboardModel) IsQuitting() bool {
	return m.quitting
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "."
}
