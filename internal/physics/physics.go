// Package physics is a small arcade physics substrate: gravity, jumping and
// axis-separated movement against a tile query, clamped to world bounds.
package physics

import (
	"math"

	"github.com/vovakirdan/quiz-runner/internal/core"
	"github.com/vovakirdan/quiz-runner/internal/world"
)

// TileQuery reports whether a world point is inside a solid tile.
type TileQuery interface {
	SolidAt(x, y float64) bool
}

// Params holds the tunables of the simulation, in world pixels and seconds.
type Params struct {
	Gravity   float64
	MaxFall   float64
	JumpSpeed float64
	// Probe is the spacing of the collision sample points. It must be
	// smaller than the smallest tile.
	Probe float64
}

// DefaultParams returns values tuned for a 360px tall screen.
func DefaultParams() Params {
	return Params{Gravity: 900, MaxFall: 600, JumpSpeed: 420, Probe: 6}
}

// Body is an axis-aligned moving box.
type Body struct {
	X, Y   float64
	W, H   float64
	VX, VY float64

	OnGround    bool
	OnCeiling   bool
	OnWallLeft  bool
	OnWallRight bool
}

// Rect returns the body box.
func (b *Body) Rect() core.RectF {
	return core.NewRectF(b.X, b.Y, b.W, b.H)
}

// World steps bodies against tiles and bounds.
type World struct {
	params Params
	tiles  TileQuery

	bounds    core.RectF
	checks    world.Checks
	hasBounds bool
}

// NewWorld creates a physics world. tiles may be nil for open space.
func NewWorld(p Params, tiles TileQuery) *World {
	if p.Probe <= 0 {
		p.Probe = DefaultParams().Probe
	}
	return &World{params: p, tiles: tiles}
}

// SetTiles swaps the tile query.
func (w *World) SetTiles(t TileQuery) {
	w.tiles = t
}

// SetPhysicsBounds sets the world limits and which edges are enforced.
func (w *World) SetPhysicsBounds(r core.RectF, c world.Checks) {
	w.bounds = r
	w.checks = c
	w.hasBounds = true
}

// Bounds returns the current limits.
func (w *World) Bounds() (core.RectF, world.Checks) {
	return w.bounds, w.checks
}

// Jump starts a jump when b stands on something.
func (w *World) Jump(b *Body) bool {
	if !b.OnGround {
		return false
	}
	b.VY = -w.params.JumpSpeed
	b.OnGround = false
	return true
}

// Step advances b by dt seconds.
func (w *World) Step(b *Body, dt float64) {
	b.VY += w.params.Gravity * dt
	if w.params.MaxFall > 0 && b.VY > w.params.MaxFall {
		b.VY = w.params.MaxFall
	}

	b.OnGround = false
	b.OnCeiling = false
	b.OnWallLeft = false
	b.OnWallRight = false

	w.moveX(b, b.VX*dt)
	w.moveY(b, b.VY*dt)
	w.clamp(b)

	// Standing still on a surface still counts as grounded.
	if !b.OnGround && b.VY >= 0 && w.solidRect(core.NewRectF(b.X, b.Y+1, b.W, b.H)) {
		b.OnGround = true
	}
}

// moveX moves in steps of at most one pixel and stops at the first wall.
func (w *World) moveX(b *Body, dx float64) {
	for dx != 0 {
		step := math.Copysign(math.Min(1, math.Abs(dx)), dx)
		if w.solidRect(core.NewRectF(b.X+step, b.Y, b.W, b.H)) {
			b.VX = 0
			if step > 0 {
				b.OnWallRight = true
			} else {
				b.OnWallLeft = true
			}
			return
		}
		b.X += step
		dx -= step
	}
}

func (w *World) moveY(b *Body, dy float64) {
	for dy != 0 {
		step := math.Copysign(math.Min(1, math.Abs(dy)), dy)
		if w.solidRect(core.NewRectF(b.X, b.Y+step, b.W, b.H)) {
			b.VY = 0
			if step > 0 {
				b.OnGround = true
			} else {
				b.OnCeiling = true
			}
			return
		}
		b.Y += step
		dy -= step
	}
}

func (w *World) clamp(b *Body) {
	if !w.hasBounds {
		return
	}
	r, c := w.bounds, w.checks
	if c.Left && b.X < r.X {
		b.X = r.X
		b.VX = 0
		b.OnWallLeft = true
	}
	if c.Right && b.X+b.W > r.Right() {
		b.X = r.Right() - b.W
		b.VX = 0
		b.OnWallRight = true
	}
	if c.Up && b.Y < r.Y {
		b.Y = r.Y
		b.VY = 0
		b.OnCeiling = true
	}
	if c.Down && b.Y+b.H > r.Bottom() {
		b.Y = r.Bottom() - b.H
		b.VY = 0
		b.OnGround = true
	}
}

// solidRect samples r on a lattice no coarser than Probe, edges included.
func (w *World) solidRect(r core.RectF) bool {
	if w.tiles == nil {
		return false
	}
	const eps = 1e-6
	nx := int(math.Ceil(r.W/w.params.Probe)) + 1
	ny := int(math.Ceil(r.H/w.params.Probe)) + 1
	for iy := 0; iy < ny; iy++ {
		y := r.Y + math.Min(float64(iy)*w.params.Probe, r.H-eps)
		for ix := 0; ix < nx; ix++ {
			x := r.X + math.Min(float64(ix)*w.params.Probe, r.W-eps)
			if w.tiles.SolidAt(x, y) {
				return true
			}
		}
	}
	return false
}

// Overlaps reports whether b intersects r.
func Overlaps(b *Body, r core.RectF) bool {
	return b.Rect().Intersects(r)
}
