package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-arena/internal/core"
)

// KeyMap defines the in-arena key bindings.
// Terminals report presses only, so movement and fire keys latch for the
// input hold timeout and key repeat keeps them active.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	SprintUp    key.Binding
	SprintDown  key.Binding
	SprintLeft  key.Binding
	SprintRight key.Binding
	Sprint      key.Binding
	Fire        key.Binding
	Reload      key.Binding
	NextWeapon  key.Binding
	Slot1       key.Binding
	Slot2       key.Binding
	Slot3       key.Binding
	Slot4       key.Binding
	AimLeft     key.Binding
	AimRight    key.Binding
	Scoreboard  key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Fire, k.Reload, k.NextWeapon, k.Scoreboard, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Sprint},
		{k.Fire, k.AimLeft, k.AimRight, k.Reload},
		{k.NextWeapon, k.Slot1, k.Slot2, k.Slot3, k.Slot4},
		{k.Scoreboard, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("w", "up"),
			key.WithHelp("wasd/arrows", "move"),
		),

		Down:  key.NewBinding(key.WithKeys("s", "down")),
		Left:  key.NewBinding(key.WithKeys("a", "left")),
		Right: key.NewBinding(key.WithKeys("d", "right")),

		SprintUp:    key.NewBinding(key.WithKeys("W", "shift+up")),
		SprintDown:  key.NewBinding(key.WithKeys("S", "shift+down")),
		SprintLeft:  key.NewBinding(key.WithKeys("A", "shift+left")),
		SprintRight: key.NewBinding(key.WithKeys("D", "shift+right")),

		Sprint: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("shift/x", "sprint"),
		),

		Fire: key.NewBinding(
			key.WithKeys(" ", "f"),
			key.WithHelp("space/click", "fire"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		NextWeapon: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "next weapon"),
		),

		Slot1: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "pistol")),
		Slot2: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "shotgun")),
		Slot3: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "smg")),
		Slot4: key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "knife")),

		AimLeft: key.NewBinding(
			key.WithKeys(",", "j"),
			key.WithHelp(",/j", "aim left"),
		),
		AimRight: key.NewBinding(
			key.WithKeys(".", "l"),
			key.WithHelp("./l", "aim right"),
		),
		Scoreboard: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "scores"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// MapKey translates a key message to simulation actions.
// Sprint variants yield both the direction and ActionSprint.
func (k KeyMap) MapKey(msg tea.KeyMsg) []core.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return []core.Action{core.ActionQuit}
	case key.Matches(msg, k.Scoreboard):
		return []core.Action{core.ActionScoreboard}
	case key.Matches(msg, k.SprintUp):
		return []core.Action{core.ActionMoveUp, core.ActionSprint}
	case key.Matches(msg, k.SprintDown):
		return []core.Action{core.ActionMoveDown, core.ActionSprint}
	case key.Matches(msg, k.SprintLeft):
		return []core.Action{core.ActionMoveLeft, core.ActionSprint}
	case key.Matches(msg, k.SprintRight):
		return []core.Action{core.ActionMoveRight, core.ActionSprint}
	case key.Matches(msg, k.Up):
		return []core.Action{core.ActionMoveUp}
	case key.Matches(msg, k.Down):
		return []core.Action{core.ActionMoveDown}
	case key.Matches(msg, k.Left):
		return []core.Action{core.ActionMoveLeft}
	case key.Matches(msg, k.Right):
		return []core.Action{core.ActionMoveRight}
	case key.Matches(msg, k.Sprint):
		return []core.Action{core.ActionSprint}
	case key.Matches(msg, k.Fire):
		return []core.Action{core.ActionFire}
	case key.Matches(msg, k.Reload):
		return []core.Action{core.ActionReload}
	case key.Matches(msg, k.NextWeapon):
		return []core.Action{core.ActionNextWeapon}
	case key.Matches(msg, k.Slot1):
		return []core.Action{core.ActionSlot1}
	case key.Matches(msg, k.Slot2):
		return []core.Action{core.ActionSlot2}
	case key.Matches(msg, k.Slot3):
		return []core.Action{core.ActionSlot3}
	case key.Matches(msg, k.Slot4):
		return []core.Action{core.ActionSlot4}
	case key.Matches(msg, k.AimLeft):
		return []core.Action{core.ActionAimLeft}
	case key.Matches(msg, k.AimRight):
		return []core.Action{core.ActionAimRight}
	}
	return nil
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}

	return MenuActionNone
}
