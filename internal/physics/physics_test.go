package physics

import (
	"testing"

	"github.com/vovakirdan/quiz-runner/internal/core"
	"github.com/vovakirdan/quiz-runner/internal/world"
)

// tileFunc adapts a function to TileQuery.
type tileFunc func(x, y float64) bool

func (f tileFunc) SolidAt(x, y float64) bool { return f(x, y) }

func floorAt(y0 float64) TileQuery {
	return tileFunc(func(_, y float64) bool { return y >= y0 })
}

const dt = 1.0 / 60

func TestBodyLandsOnFloor(t *testing.T) {
	w := NewWorld(DefaultParams(), floorAt(100))
	b := &Body{X: 10, Y: 20, W: 10, H: 10}

	for i := 0; i < 120; i++ {
		w.Step(b, dt)
	}
	if !b.OnGround {
		t.Fatal("body should be grounded")
	}
	if bottom := b.Y + b.H; bottom > 100 || bottom < 99 {
		t.Errorf("bottom = %v, want within a pixel of 100", bottom)
	}
	if b.VY < 0 || b.VY > DefaultParams().Gravity*dt {
		t.Errorf("VY = %v, want near rest", b.VY)
	}
}

func TestBodyStopsAtWall(t *testing.T) {
	tiles := tileFunc(func(x, y float64) bool { return y >= 100 || x >= 200 })
	w := NewWorld(DefaultParams(), tiles)
	b := &Body{X: 150, Y: 90, W: 10, H: 10}

	hit := false
	for i := 0; i < 60; i++ {
		b.VX = 300
		w.Step(b, dt)
		hit = hit || b.OnWallRight
		if b.X+b.W > 200 {
			t.Fatalf("body entered the wall: right edge %v", b.X+b.W)
		}
	}
	if !hit {
		t.Error("expected a wall contact")
	}
}

func TestJump(t *testing.T) {
	w := NewWorld(DefaultParams(), floorAt(100))
	b := &Body{X: 0, Y: 90, W: 10, H: 10}

	if w.Jump(b) {
		t.Fatal("jump before the first step should fail: not grounded yet")
	}
	w.Step(b, dt)
	if !w.Jump(b) {
		t.Fatal("grounded body should jump")
	}
	if b.VY != -DefaultParams().JumpSpeed {
		t.Errorf("VY = %v", b.VY)
	}
	y0 := b.Y
	w.Step(b, dt)
	if b.Y >= y0 {
		t.Error("body should rise after jumping")
	}
	if w.Jump(b) {
		t.Error("airborne body should not jump")
	}
}

func TestBoundsClamp(t *testing.T) {
	tests := []struct {
		name     string
		checks   world.Checks
		wantStop bool
	}{
		{"down enforced", world.Checks{Left: true, Right: true, Up: true, Down: true}, true},
		{"down released", world.Checks{Left: true, Right: true, Up: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorld(DefaultParams(), nil)
			w.SetPhysicsBounds(core.NewRectF(0, 0, 100, 100), tt.checks)
			b := &Body{X: -5, Y: 50, W: 10, H: 10}
			for i := 0; i < 120; i++ {
				w.Step(b, dt)
			}
			if b.X != 0 {
				t.Errorf("left clamp: X = %v", b.X)
			}
			stopped := b.Y+b.H == 100
			if stopped != tt.wantStop {
				t.Errorf("bottom = %v, stopped = %v, want %v", b.Y+b.H, stopped, tt.wantStop)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	b := &Body{X: 0, Y: 0, W: 10, H: 10}
	if !Overlaps(b, core.NewRectF(5, 5, 10, 10)) {
		t.Error("expected overlap")
	}
	if Overlaps(b, core.NewRectF(10, 0, 10, 10)) {
		t.Error("touching edges must not overlap")
	}
}
