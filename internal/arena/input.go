package arena

import (
	"maps"
	"math"
	"slices"
	"time"

	"github.com/vovakirdan/tui-arena/internal/config"
	"github.com/vovakirdan/tui-arena/internal/core"
)

// edgeActions fire once per press instead of while held.
var edgeActions = map[core.Action]bool{
	core.ActionReload:     true,
	core.ActionNextWeapon: true,
	core.ActionSlot1:      true,
	core.ActionSlot2:      true,
	core.ActionSlot3:      true,
	core.ActionSlot4:      true,
}

// InputState aggregates keyboard, pointer and joystick intent.
//
// Terminals report key presses but not releases, so Tap latches an action for
// a hold timeout that key auto-repeat keeps extending. Hold and Release give
// exact control to mouse buttons and scripts.
type InputState struct {
	cfg     config.InputConfig
	holdFor time.Duration

	held    map[core.Action]bool
	latched map[core.Action]time.Duration

	joystick       core.Vec
	joystickActive bool

	pointer    core.Vec
	hasPointer bool
	manualAim  bool
	aimDelta   float64

	requests []core.Action
}

// NewInputState creates an idle input state.
func NewInputState(cfg config.InputConfig) *InputState {
	return &InputState{
		cfg:     cfg,
		holdFor: time.Duration(cfg.HoldTimeoutMS) * time.Millisecond,
		held:    make(map[core.Action]bool),
		latched: make(map[core.Action]time.Duration),
	}
}

// Tap registers a key press at now.
func (in *InputState) Tap(a core.Action, now time.Duration) {
	switch {
	case edgeActions[a]:
		in.requests = append(in.requests, a)
	case a == core.ActionAimLeft:
		in.RotateAim(-in.cfg.AimStep)
	case a == core.ActionAimRight:
		in.RotateAim(in.cfg.AimStep)
	default:
		in.latched[a] = now + in.holdFor
	}
}

// Hold keeps an action active until Release.
func (in *InputState) Hold(a core.Action) {
	if edgeActions[a] {
		in.requests = append(in.requests, a)
		return
	}
	in.held[a] = true
}

// Release ends a Hold or a latched Tap.
func (in *InputState) Release(a core.Action) {
	delete(in.held, a)
	delete(in.latched, a)
}

// ReleaseAll drops every held and latched action.
func (in *InputState) ReleaseAll() {
	clear(in.held)
	clear(in.latched)
}

// ApplyFrame replaces the held set with the actions of frame. Edge actions in
// the frame are queued as requests.
func (in *InputState) ApplyFrame(frame core.InputFrame) {
	clear(in.held)
	for _, a := range slices.Sorted(maps.Keys(frame.Actions)) {
		if !frame.Actions[a] {
			continue
		}
		switch {
		case edgeActions[a]:
			in.requests = append(in.requests, a)
		case a == core.ActionAimLeft:
			in.RotateAim(-in.cfg.AimStep)
		case a == core.ActionAimRight:
			in.RotateAim(in.cfg.AimStep)
		default:
			in.held[a] = true
		}
	}
}

// Active reports whether a is held or latched at now.
func (in *InputState) Active(a core.Action, now time.Duration) bool {
	if in.held[a] {
		return true
	}
	until, ok := in.latched[a]
	if !ok {
		return false
	}
	if now >= until {
		delete(in.latched, a)
		return false
	}
	return true
}

// SetJoystick sets the touch joystick displacement from its base in pixels.
func (in *InputState) SetJoystick(dx, dy float64) {
	in.joystick = core.Vec{X: dx, Y: dy}
	in.joystickActive = true
}

// ReleaseJoystick returns the joystick to rest.
func (in *InputState) ReleaseJoystick() {
	in.joystick = core.Vec{}
	in.joystickActive = false
}

// PointAt aims at a world position.
func (in *InputState) PointAt(world core.Vec) {
	in.pointer = world
	in.hasPointer = true
	in.manualAim = false
}

// ClearPointer stops pointer aiming.
func (in *InputState) ClearPointer() {
	in.hasPointer = false
}

// RotateAim turns the facing by delta radians on the next tick.
func (in *InputState) RotateAim(delta float64) {
	in.aimDelta += delta
	in.manualAim = true
	in.hasPointer = false
}

// Movement returns the movement intent at now. Its length is at most 1:
// keyboard diagonals are scaled by the diagonal factor and the joystick
// scales with displacement up to its radius.
func (in *InputState) Movement(now time.Duration) core.Vec {
	if in.joystickActive {
		dist := in.joystick.Len()
		if dist == 0 || in.cfg.JoystickRadius <= 0 {
			return core.Vec{}
		}
		mag := math.Min(dist, in.cfg.JoystickRadius) / in.cfg.JoystickRadius
		return in.joystick.Scale(mag / dist)
	}

	var v core.Vec
	switch {
	case in.Active(core.ActionMoveUp, now):
		v.Y = -1
	case in.Active(core.ActionMoveDown, now):
		v.Y = 1
	}
	switch {
	case in.Active(core.ActionMoveLeft, now):
		v.X = -1
	case in.Active(core.ActionMoveRight, now):
		v.X = 1
	}
	if v.X != 0 && v.Y != 0 {
		v = v.Scale(in.cfg.DiagonalFactor)
	}
	return v
}

// Sprinting reports whether sprint is active.
func (in *InputState) Sprinting(now time.Duration) bool {
	return in.Active(core.ActionSprint, now)
}

// Firing reports whether the trigger is held.
func (in *InputState) Firing(now time.Duration) bool {
	return in.Active(core.ActionFire, now)
}

// Facing resolves the aim angle for a body centred at center. The pointer
// wins; otherwise manual aim rotations apply on top of current, and without
// manual aim the facing follows movement.
func (in *InputState) Facing(center core.Vec, current float64, move core.Vec) float64 {
	if in.hasPointer {
		d := in.pointer.Sub(center)
		if d.Len() == 0 {
			return current
		}
		return d.Angle()
	}
	angle := current
	if !in.manualAim && move.Len() > 0 {
		angle = move.Angle()
	}
	angle += in.aimDelta
	in.aimDelta = 0
	return math.Remainder(angle, 2*math.Pi)
}

// TakeRequests returns and clears queued edge actions.
func (in *InputState) TakeRequests() []core.Action {
	if len(in.requests) == 0 {
		return nil
	}
	out := in.requests
	in.requests = nil
	return out
}
