package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 {
		t.Errorf("Width() = %d, expected 80", s.Width())
	}
	if s.Height() != 24 {
		t.Errorf("Height() = %d, expected 24", s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Get(x, y) != ' ' {
				t.Fatalf("New screen should be filled with spaces, got %q at (%d, %d)", s.Get(x, y), x, y)
			}
		}
	}
}

func TestScreenSetGetCell(t *testing.T) {
	s := NewScreen(10, 10)

	s.Set(5, 5, '@', ColorSelf)
	cell := s.GetCell(5, 5)
	if cell.Rune != '@' || cell.Color != ColorSelf {
		t.Errorf("GetCell(5, 5) = %+v, expected '@' with ColorSelf", cell)
	}

	s.Set(-1, 0, 'A', ColorWarn)
	s.Set(100, 0, 'A', ColorWarn)
	s.Set(0, -1, 'A', ColorWarn)

	if s.Get(-1, 0) != ' ' || s.Get(100, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
}

func TestScreenClearAndFill(t *testing.T) {
	s := NewScreen(5, 5)
	s.Fill('.', ColorFloor)

	if c := s.GetCell(2, 2); c.Rune != '.' || c.Color != ColorFloor {
		t.Errorf("After Fill, got %+v", c)
	}

	s.Clear()
	if c := s.GetCell(2, 2); c != (Cell{Rune: ' ', Color: ColorDefault}) {
		t.Errorf("After Clear, got %+v", c)
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawText(2, 1, "Hello", ColorHUD)

	for i, ch := range "Hello" {
		if s.Get(2+i, 1) != ch {
			t.Errorf("DrawText: expected %q at (%d, 1), got %q", ch, 2+i, s.Get(2+i, 1))
		}
	}

	s.DrawText(18, 0, "Hello", ColorHUD)
	if s.Get(18, 0) != 'H' || s.Get(19, 0) != 'e' {
		t.Error("Text should be clipped at right boundary")
	}

	s.DrawText(0, 3, "♥♥", ColorHurt)
	if s.Get(1, 3) != '♥' {
		t.Errorf("DrawText should advance one cell per rune, got %q", s.Get(1, 3))
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawTextCentered(2, "Hi", ColorWarn)

	x := (20 - 2) / 2
	if s.Get(x, 2) != 'H' || s.Get(x+1, 2) != 'i' {
		t.Errorf("DrawTextCentered failed, text not at expected position")
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawBox(1, 1, 5, 4, ColorWall)

	corners := map[[2]int]rune{
		{1, 1}: '┌',
		{5, 1}: '┐',
		{1, 4}: '└',
		{5, 4}: '┘',
	}
	for pos, want := range corners {
		if got := s.Get(pos[0], pos[1]); got != want {
			t.Errorf("corner at %v = %q, expected %q", pos, got, want)
		}
	}
	for x := 2; x < 5; x++ {
		if s.Get(x, 1) != '─' || s.Get(x, 4) != '─' {
			t.Errorf("horizontal edge missing at x=%d", x)
		}
	}
	for y := 2; y < 4; y++ {
		if s.Get(1, y) != '│' || s.Get(5, y) != '│' {
			t.Errorf("vertical edge missing at y=%d", y)
		}
	}
}

func TestScreenStringAndResize(t *testing.T) {
	s := NewScreen(3, 2)
	s.DrawHLine(0, 0, 3, '#', ColorWall)

	lines := strings.Split(s.String(), "\n")
	if len(lines) != 2 || lines[0] != "###" || lines[1] != "   " {
		t.Errorf("String() = %q", s.String())
	}

	s.Resize(4, 3)
	if s.Width() != 4 || s.Height() != 3 {
		t.Errorf("Resize: got %dx%d, expected 4x3", s.Width(), s.Height())
	}
	if s.Row(0) != "    " {
		t.Errorf("Resize should clear content, got %q", s.Row(0))
	}
}
