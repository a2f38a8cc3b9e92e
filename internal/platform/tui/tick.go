// Package tui provides the Bubble Tea front-end for the arena client.
// It maps terminal input to simulation actions, drives the simulation from
// tick messages and renders the field, HUD and scoreboard.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-arena/internal/gateway"
)

// TickMsg is sent to trigger a simulation tick. SessionID ties the tick to
// the session that scheduled it so a stale chain dies with its game.
type TickMsg struct {
	At        time.Time
	SessionID string
}

// DisconnectedMsg reports that the server connection ended.
type DisconnectedMsg struct {
	Err       error
	SessionID string
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int, sessionID string) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{At: t, SessionID: sessionID}
	})
}

// waitForDisconnect blocks until the client's connection ends.
func waitForDisconnect(c *gateway.Client, sessionID string) tea.Cmd {
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		<-c.Done()
		return DisconnectedMsg{Err: c.Err(), SessionID: sessionID}
	}
}
