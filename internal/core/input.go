package core

// Action represents a semantic player action, abstracted from physical key presses.
// Front-ends translate keys, mouse buttons and scripts into actions; the
// simulation never sees raw input.
type Action int

const (
	ActionNone       Action = iota
	ActionMoveUp            // W, Up arrow
	ActionMoveDown          // S, Down arrow
	ActionMoveLeft          // A, Left arrow
	ActionMoveRight         // D, Right arrow
	ActionSprint            // Shift+direction or X
	ActionFire              // Space, left mouse button
	ActionReload            // R
	ActionNextWeapon        // Q
	ActionSlot1             // 1
	ActionSlot2             // 2
	ActionSlot3             // 3
	ActionSlot4             // 4
	ActionAimLeft           // , rotates aim counter-clockwise
	ActionAimRight          // . rotates aim clockwise
	ActionScoreboard        // Tab
	ActionQuit              // Ctrl+C, Esc
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionMoveUp:
		return "MoveUp"
	case ActionMoveDown:
		return "MoveDown"
	case ActionMoveLeft:
		return "MoveLeft"
	case ActionMoveRight:
		return "MoveRight"
	case ActionSprint:
		return "Sprint"
	case ActionFire:
		return "Fire"
	case ActionReload:
		return "Reload"
	case ActionNextWeapon:
		return "NextWeapon"
	case ActionSlot1, ActionSlot2, ActionSlot3, ActionSlot4:
		return "Slot"
	case ActionAimLeft:
		return "AimLeft"
	case ActionAimRight:
		return "AimRight"
	case ActionScoreboard:
		return "Scoreboard"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// SlotIndex returns the zero-based weapon slot for a slot action, or -1.
func (a Action) SlotIndex() int {
	switch a {
	case ActionSlot1:
		return 0
	case ActionSlot2:
		return 1
	case ActionSlot3:
		return 2
	case ActionSlot4:
		return 3
	default:
		return -1
	}
}

// InputFrame represents the set of actions held during one simulation tick.
type InputFrame struct {
	// Actions maps action types to whether they are held this frame.
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame(actions ...Action) InputFrame {
	f := InputFrame{Actions: make(map[Action]bool, len(actions))}
	for _, a := range actions {
		f.Actions[a] = true
	}
	return f
}

// Set marks an action as held for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action is held this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}
