package runner

import (
	"github.com/vovakirdan/quiz-runner/internal/core"
	"github.com/vovakirdan/quiz-runner/internal/physics"
	"github.com/vovakirdan/quiz-runner/internal/world"
)

// Camera is the horizontally scrolling view into the world.
type Camera struct {
	X      float64
	W, H   float64
	MinX   float64
	bounds core.RectF
}

// SetCameraBounds implements world.BoundsSink.
func (c *Camera) SetCameraBounds(r core.RectF) {
	c.bounds = r
	c.clamp()
}

// Bounds returns the scroll limits.
func (c *Camera) Bounds() core.RectF {
	return c.bounds
}

// Follow keeps x a third of the way into the view.
func (c *Camera) Follow(x float64) {
	c.X = x - c.W/3
	c.clamp()
}

func (c *Camera) clamp() {
	lo := c.bounds.X
	if c.MinX > lo {
		lo = c.MinX
	}
	hi := c.bounds.Right() - c.W
	if hi < lo {
		hi = lo
	}
	c.X = core.ClampF(c.X, lo, hi)
}

// View returns the visible world rectangle.
func (c *Camera) View() core.RectF {
	return core.NewRectF(c.X, 0, c.W, c.H)
}

// sink fans bounds out to the camera and the physics world.
type sink struct {
	camera  *Camera
	physics *physics.World
}

func (s sink) SetCameraBounds(r core.RectF) {
	s.camera.SetCameraBounds(r)
}

func (s sink) SetPhysicsBounds(r core.RectF, c world.Checks) {
	s.physics.SetPhysicsBounds(r, c)
}
