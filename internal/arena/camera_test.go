package arena

import (
	"math"
	"testing"

	"github.com/vovakirdan/tui-arena/internal/core"
)

func TestCameraConverges(t *testing.T) {
	world := core.NewRect(0, 0, 2000, 2000)
	cam := NewCamera(world, 800, 600, 0.1)
	focus := core.Vec{X: 1016, Y: 916}

	for i := 0; i < 500; i++ {
		cam.Follow(focus)
	}

	want := core.Vec{X: focus.X - 400, Y: focus.Y - 300}
	if core.Dist(cam.Origin(), want) > 1e-6 {
		t.Errorf("Origin() = %v, expected %v", cam.Origin(), want)
	}
}

func TestCameraEasesByFactor(t *testing.T) {
	cam := NewCamera(core.NewRect(0, 0, 2000, 2000), 800, 600, 0.1)
	cam.Follow(core.Vec{X: 1400, Y: 1300})

	o := cam.Origin()
	if math.Abs(o.X-100) > 1e-9 || math.Abs(o.Y-100) > 1e-9 {
		t.Errorf("one Follow from origin = %v, expected (100, 100)", o)
	}
}

func TestCameraClampsToWorld(t *testing.T) {
	world := core.NewRect(0, 0, 2000, 2000)
	cam := NewCamera(world, 800, 600, 0.1)

	tests := []struct {
		name  string
		focus core.Vec
		want  core.Vec
	}{
		{"top-left corner", core.Vec{X: 10, Y: 10}, core.Vec{X: 0, Y: 0}},
		{"bottom-right corner", core.Vec{X: 1990, Y: 1990}, core.Vec{X: 1200, Y: 1400}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for i := 0; i < 500; i++ {
				cam.Follow(tc.focus)
				o := cam.Origin()
				if o.X < 0 || o.Y < 0 || o.X > 1200 || o.Y > 1400 {
					t.Fatalf("Origin() = %v left the world", o)
				}
			}
			if core.Dist(cam.Origin(), tc.want) > 1e-6 {
				t.Errorf("Origin() = %v, expected %v", cam.Origin(), tc.want)
			}
		})
	}
}

func TestCameraViewportLargerThanWorld(t *testing.T) {
	cam := NewCamera(core.NewRect(0, 0, 500, 400), 800, 600, 0.5)
	cam.Snap(core.Vec{X: 250, Y: 200})
	if cam.Origin() != (core.Vec{}) {
		t.Errorf("Origin() = %v, expected (0, 0)", cam.Origin())
	}
}

func TestCameraScreenToWorld(t *testing.T) {
	cam := NewCamera(core.NewRect(0, 0, 2000, 2000), 800, 600, 0.1)
	cam.Snap(core.Vec{X: 1000, Y: 1000})

	w := cam.ScreenToWorld(core.Vec{X: 400, Y: 300})
	if w != (core.Vec{X: 1000, Y: 1000}) {
		t.Errorf("ScreenToWorld(centre) = %v, expected (1000, 1000)", w)
	}
	if s := cam.WorldToScreen(w); s != (core.Vec{X: 400, Y: 300}) {
		t.Errorf("WorldToScreen round trip = %v", s)
	}
}
