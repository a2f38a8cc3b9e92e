package arena

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/vovakirdan/tui-arena/internal/config"
	"github.com/vovakirdan/tui-arena/internal/core"
)

func newTestInput() *InputState {
	return NewInputState(config.DefaultArenaConfig().Input)
}

func TestKeyboardMovement(t *testing.T) {
	tests := []struct {
		name    string
		actions []core.Action
		want    core.Vec
	}{
		{"idle", nil, core.Vec{}},
		{"up", []core.Action{core.ActionMoveUp}, core.Vec{X: 0, Y: -1}},
		{"right", []core.Action{core.ActionMoveRight}, core.Vec{X: 1, Y: 0}},
		{"up wins over down", []core.Action{core.ActionMoveUp, core.ActionMoveDown}, core.Vec{X: 0, Y: -1}},
		{"diagonal", []core.Action{core.ActionMoveDown, core.ActionMoveLeft}, core.Vec{X: -0.707, Y: 0.707}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := newTestInput()
			in.ApplyFrame(core.NewInputFrame(tc.actions...))
			got := in.Movement(0)
			if core.Dist(got, tc.want) > 1e-9 {
				t.Errorf("Movement() = %v, expected %v", got, tc.want)
			}
		})
	}
}

func TestJoystickMovement(t *testing.T) {
	in := newTestInput()

	in.SetJoystick(30, 0)
	if got := in.Movement(0); core.Dist(got, core.Vec{X: 0.5}) > 1e-9 {
		t.Errorf("half deflection = %v, expected (0.5, 0)", got)
	}

	in.SetJoystick(0, 600)
	if got := in.Movement(0); core.Dist(got, core.Vec{Y: 1}) > 1e-9 {
		t.Errorf("over-deflection = %v, expected clamp to (0, 1)", got)
	}

	in.SetJoystick(0, 0)
	if got := in.Movement(0); got != (core.Vec{}) {
		t.Errorf("centred joystick = %v, expected zero", got)
	}

	in.ReleaseJoystick()
	in.Hold(core.ActionMoveLeft)
	if got := in.Movement(0); got != (core.Vec{X: -1}) {
		t.Errorf("keyboard after joystick release = %v", got)
	}
}

func TestTapLatchesUntilTimeout(t *testing.T) {
	in := newTestInput()
	in.Tap(core.ActionFire, 0)

	if !in.Firing(100 * time.Millisecond) {
		t.Error("tapped fire should be held within the hold timeout")
	}
	if in.Firing(150 * time.Millisecond) {
		t.Error("tapped fire should release after the hold timeout")
	}

	in.Tap(core.ActionSprint, 0)
	in.Tap(core.ActionSprint, 100*time.Millisecond)
	if !in.Sprinting(200 * time.Millisecond) {
		t.Error("key repeat should extend the latch")
	}
	in.Release(core.ActionSprint)
	if in.Sprinting(200 * time.Millisecond) {
		t.Error("Release should end a latch early")
	}
}

func TestEdgeActionsQueueOnce(t *testing.T) {
	in := newTestInput()
	in.Tap(core.ActionReload, 0)
	in.Hold(core.ActionSlot2)
	in.ApplyFrame(core.NewInputFrame(core.ActionNextWeapon, core.ActionMoveUp))

	want := []core.Action{core.ActionReload, core.ActionSlot2, core.ActionNextWeapon}
	if got := in.TakeRequests(); !reflect.DeepEqual(got, want) {
		t.Errorf("TakeRequests() = %v, expected %v", got, want)
	}
	if got := in.TakeRequests(); got != nil {
		t.Errorf("second TakeRequests() = %v, expected nil", got)
	}
	if in.Active(core.ActionReload, 0) {
		t.Error("edge actions should never be held")
	}
}

func TestFacing(t *testing.T) {
	in := newTestInput()
	center := core.Vec{X: 100, Y: 100}

	if got := in.Facing(center, 1, core.Vec{}); got != 1 {
		t.Errorf("idle facing = %f, expected unchanged 1", got)
	}
	if got := in.Facing(center, 0, core.Vec{Y: 1}); math.Abs(got-math.Pi/2) > 1e-9 {
		t.Errorf("facing while moving down = %f, expected pi/2", got)
	}

	in.PointAt(core.Vec{X: 100, Y: 0})
	if got := in.Facing(center, 0, core.Vec{X: 1}); math.Abs(got+math.Pi/2) > 1e-9 {
		t.Errorf("pointer facing = %f, expected -pi/2", got)
	}

	in.Tap(core.ActionAimRight, 0)
	step := config.DefaultArenaConfig().Input.AimStep
	if got := in.Facing(center, 0, core.Vec{X: 1}); math.Abs(got-step) > 1e-9 {
		t.Errorf("manual aim = %f, expected %f (movement ignored)", got, step)
	}
	if got := in.Facing(center, step, core.Vec{X: 1}); math.Abs(got-step) > 1e-9 {
		t.Errorf("aim delta should apply once, got %f", got)
	}
}
