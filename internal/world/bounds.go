// Package world keeps the camera and physics bounds in step with the
// segments of a run and places answer markers inside them.
package world

import (
	"github.com/vovakirdan/quiz-runner/internal/core"
	"github.com/vovakirdan/quiz-runner/internal/level"
)

// Checks selects which physics bound edges stop the avatar.
type Checks struct {
	Left, Right, Up, Down bool
}

// Bounds is the camera window limit and the physics world limit.
type Bounds struct {
	Camera  core.RectF
	Physics core.RectF
	Checks  Checks
}

// BoundsFor returns the bounds for a world whose right edge is end. The
// physics box extends slack pixels below the screen; the bottom edge is
// only enforced outside transitions.
func BoundsFor(end, gameH, slack float64, transitioning bool) Bounds {
	return Bounds{
		Camera:  core.NewRectF(0, 0, end, gameH),
		Physics: core.NewRectF(0, 0, end, gameH+slack),
		Checks:  Checks{Left: true, Right: true, Up: true, Down: !transitioning},
	}
}

// ComputeBounds returns the bounds covering segments 0..index of equal
// width.
func ComputeBounds(index int, segmentWidth, gameH, slack float64, transitioning bool) Bounds {
	return BoundsFor(float64(index+1)*segmentWidth, gameH, slack, transitioning)
}

// BoundsSink receives bounds updates. The physics substrate and the camera
// implement it.
type BoundsSink interface {
	SetCameraBounds(r core.RectF)
	SetPhysicsBounds(r core.RectF, c Checks)
}

// Controller pushes bounds to a sink, skipping updates equal to the last
// applied one.
type Controller struct {
	sink   BoundsSink
	gameH  float64
	slack  float64
	last   Bounds
	active bool
}

// NewController creates a controller for a fixed screen height.
func NewController(sink BoundsSink, gameH, slack float64) *Controller {
	return &Controller{sink: sink, gameH: gameH, slack: slack}
}

// Apply pushes b when it differs from the last applied bounds and reports
// whether the sink was called.
func (c *Controller) Apply(b Bounds) bool {
	if c.active && c.last == b {
		return false
	}
	c.last = b
	c.active = true
	if c.sink != nil {
		c.sink.SetCameraBounds(b.Camera)
		c.sink.SetPhysicsBounds(b.Physics, b.Checks)
	}
	return true
}

// Provisional widens the bounds to include seg while the avatar walks into
// it. The bottom edge is released.
func (c *Controller) Provisional(seg *level.Segment) Bounds {
	b := BoundsFor(seg.End(), c.gameH, c.slack, true)
	c.Apply(b)
	return b
}

// Stabilize fixes the bounds once the avatar has arrived in seg.
func (c *Controller) Stabilize(seg *level.Segment) Bounds {
	b := BoundsFor(seg.End(), c.gameH, c.slack, false)
	c.Apply(b)
	return b
}

// Current returns the last applied bounds.
func (c *Controller) Current() Bounds {
	return c.last
}

// Reset forgets the last applied bounds so the next Apply always reaches
// the sink.
func (c *Controller) Reset() {
	c.last = Bounds{}
	c.active = false
}
