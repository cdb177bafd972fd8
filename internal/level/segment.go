package level

import (
	"errors"
	"math"

	"github.com/vovakirdan/quiz-runner/internal/core"
	"github.com/vovakirdan/quiz-runner/internal/quiz"
)

var (
	// ErrInsufficientSlots is returned when a segment offers fewer answer
	// slots than the question has answers.
	ErrInsufficientSlots = errors.New("level: not enough answer slots for question")
	// ErrUnknownLayer is returned when a required layer is missing.
	ErrUnknownLayer = errors.New("level: required layer missing")
)

// Layer names shared by both assembly strategies.
const (
	LayerBackground = "Background"
	LayerClouds     = "Clouds"
	LayerLandscape  = "Landscape"
	LayerForeground = "Foreground"
	LayerObjects    = "Objects"
)

// Layer is a tile grid placed in the world. TileW/TileH are world pixels
// per tile, already scaled.
type Layer struct {
	Name    string
	Grid    *Grid
	OriginX float64
	TileW   float64
	TileH   float64

	collidable func(code int) bool
}

// NewLayer creates a layer; collidable may be nil for decorative layers.
func NewLayer(name string, g *Grid, originX, tileW, tileH float64, collidable func(code int) bool) Layer {
	return Layer{Name: name, Grid: g, OriginX: originX, TileW: tileW, TileH: tileH, collidable: collidable}
}

// PixelWidth returns the layer width in world pixels.
func (l Layer) PixelWidth() float64 {
	return float64(l.Grid.Width()) * l.TileW
}

// CellAt maps a world point to (row, col); ok is false outside the layer.
func (l Layer) CellAt(x, y float64) (row, col int, ok bool) {
	if l.Grid == nil || l.TileW <= 0 || l.TileH <= 0 {
		return 0, 0, false
	}
	col = int(math.Floor((x - l.OriginX) / l.TileW))
	row = int(math.Floor(y / l.TileH))
	if row < 0 || row >= l.Grid.Rows() || col < 0 || col >= l.Grid.Width() {
		return row, col, false
	}
	return row, col, true
}

// TileAt returns the code under a world point, or Empty.
func (l Layer) TileAt(x, y float64) int {
	row, col, ok := l.CellAt(x, y)
	if !ok {
		return Empty
	}
	return l.Grid.At(row, col)
}

// Collidable reports whether code blocks movement on this layer.
func (l Layer) Collidable(code int) bool {
	if code == Empty || l.collidable == nil {
		return false
	}
	return l.collidable(code)
}

// SolidAt reports whether the tile under a world point is collidable.
func (l Layer) SolidAt(x, y float64) bool {
	return l.Collidable(l.TileAt(x, y))
}

// TileRect returns the world rectangle of cell (row, col).
func (l Layer) TileRect(row, col int) core.RectF {
	return core.NewRectF(l.OriginX+float64(col)*l.TileW, float64(row)*l.TileH, l.TileW, l.TileH)
}

// Hazard is a non-quiz obstacle. It lives as long as its segment.
type Hazard struct {
	Rect core.RectF
	Code int
}

// Slot is a candidate position for an answer marker.
type Slot struct {
	Rect core.RectF
}

// Anchor is an answer marker bound to one answer of the current question.
// A struck wrong anchor stays as a revealed collider until the question is
// answered.
type Anchor struct {
	ID       int
	Rect     core.RectF
	Correct  bool
	Answer   int // index into the question's answers
	Text     string
	Revealed bool
}

// Segment is the world portion for one quiz question.
type Segment struct {
	Index   int
	Name    string
	Offset  float64
	Width   float64
	Height  float64
	Layers  []Layer
	Hazards []Hazard
	Slots   []Slot
	// StartX is the world x the avatar must pass to begin playing here.
	StartX float64
}

// End returns the right edge of the segment in world pixels.
func (s *Segment) End() float64 {
	return s.Offset + s.Width
}

// Layer returns the named layer.
func (s *Segment) Layer(name string) (Layer, bool) {
	for _, l := range s.Layers {
		if l.Name == name {
			return l, true
		}
	}
	return Layer{}, false
}

// SolidAt reports whether any collidable layer blocks the world point.
func (s *Segment) SolidAt(x, y float64) bool {
	for _, l := range s.Layers {
		if l.SolidAt(x, y) {
			return true
		}
	}
	return false
}

// Assembler builds segments. Implementations are selected by configuration
// through the registry.
type Assembler interface {
	// Assemble builds the segment for question q at the given index.
	// Segments are requested in increasing index order after Reset.
	Assemble(index int, q quiz.Question) (*Segment, error)
	// Reset discards all generated state and reseeds randomness.
	Reset(seed int64)
}
