package level

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/vovakirdan/quiz-runner/internal/core"
	"github.com/vovakirdan/quiz-runner/internal/level/formats"
	"github.com/vovakirdan/quiz-runner/internal/quiz"
)

// ErrMapNotFound is returned when no file matches a map name.
var ErrMapNotFound = errors.New("level: map not found")

// AuthoredOptions configures the Authored assembler.
type AuthoredOptions struct {
	GameH float64
	// Maps are cycled by segment index.
	Maps []string
	FS   fs.FS
	// Solid lists collidable landscape codes. Empty means every non-empty
	// landscape tile is solid.
	Solid      []int
	StartInset float64
}

// Authored assembles segments from prebuilt maps laid end to end.
type Authored struct {
	opts  AuthoredOptions
	solid map[int]bool

	mu    sync.Mutex
	cache map[string]*formats.Map

	offsets []float64
	widths  []float64
}

// NewAuthored creates an authored assembler. Maps are loaded lazily.
func NewAuthored(opts AuthoredOptions) (*Authored, error) {
	if len(opts.Maps) == 0 {
		return nil, fmt.Errorf("level: authored assembler needs at least one map")
	}
	if opts.FS == nil {
		return nil, fmt.Errorf("level: authored assembler needs a filesystem")
	}
	if opts.GameH <= 0 {
		return nil, fmt.Errorf("level: invalid game height %v", opts.GameH)
	}
	a := &Authored{opts: opts, cache: make(map[string]*formats.Map)}
	if len(opts.Solid) > 0 {
		a.solid = make(map[int]bool, len(opts.Solid))
		for _, c := range opts.Solid {
			a.solid[c] = true
		}
	}
	return a, nil
}

// Reset implements Assembler. Authored maps carry no randomness, so the
// seed is unused; decoded maps stay cached.
func (a *Authored) Reset(int64) {
	a.offsets = a.offsets[:0]
	a.widths = a.widths[:0]
}

// Load returns the decoded map for name, trying every known extension.
func (a *Authored) Load(name string) (*formats.Map, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if m, ok := a.cache[name]; ok {
		return m, nil
	}
	for _, ext := range formats.Extensions {
		data, err := fs.ReadFile(a.opts.FS, name+ext)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("level: cannot read map %q: %w", name, err)
		}
		m, err := formats.Parse(name+ext, data)
		if err != nil {
			return nil, fmt.Errorf("level: map %q: %w", name, err)
		}
		if _, ok := m.Layer(LayerLandscape); !ok {
			return nil, fmt.Errorf("level: map %q: %w: %s", name, ErrUnknownLayer, LayerLandscape)
		}
		a.cache[name] = m
		return m, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrMapNotFound, name)
}

func (a *Authored) mapFor(index int) string {
	return a.opts.Maps[index%len(a.opts.Maps)]
}

func (a *Authored) scale(m *formats.Map) float64 {
	_, h := m.PixelSize()
	if h <= 0 {
		return 1
	}
	return a.opts.GameH / h
}

// layout makes sure offsets are known up to index.
func (a *Authored) layout(index int) error {
	for len(a.offsets) <= index {
		i := len(a.offsets)
		m, err := a.Load(a.mapFor(i))
		if err != nil {
			return err
		}
		w, _ := m.PixelSize()
		off := 0.0
		if i > 0 {
			off = a.offsets[i-1] + a.widths[i-1]
		}
		a.offsets = append(a.offsets, off)
		a.widths = append(a.widths, w*a.scale(m))
	}
	return nil
}

func (a *Authored) collidable(code int) bool {
	if a.solid == nil {
		return code != Empty
	}
	return a.solid[code]
}

// Assemble implements Assembler.
func (a *Authored) Assemble(index int, q quiz.Question) (*Segment, error) {
	if err := a.layout(index); err != nil {
		return nil, err
	}
	name := a.mapFor(index)
	m, err := a.Load(name)
	if err != nil {
		return nil, err
	}
	scale := a.scale(m)
	off := a.offsets[index]
	tileW := float64(m.TileW) * scale
	tileH := float64(m.TileH) * scale

	seg := &Segment{
		Index:  index,
		Name:   name,
		Offset: off,
		Width:  a.widths[index],
		Height: a.opts.GameH,
		StartX: off + a.opts.StartInset,
	}
	for _, tl := range m.Layers {
		g, err := NewGrid(tl.Rows)
		if err != nil {
			return nil, fmt.Errorf("level: map %q layer %q: %w", name, tl.Name, err)
		}
		var coll func(int) bool
		if tl.Name == LayerLandscape {
			coll = a.collidable
		}
		seg.Layers = append(seg.Layers, NewLayer(tl.Name, g, off, tileW, tileH, coll))
	}
	for _, o := range m.Objects {
		r := core.NewRectF(off+o.X*scale, o.Y*scale, o.W*scale, o.H*scale)
		switch o.Type {
		case formats.ObjectHazard:
			seg.Hazards = append(seg.Hazards, Hazard{Rect: r, Code: o.Code})
		case formats.ObjectAnswer:
			seg.Slots = append(seg.Slots, Slot{Rect: r})
		case formats.ObjectStart:
			seg.StartX = r.X
		}
	}
	if len(seg.Slots) < len(q.Answers) {
		return nil, fmt.Errorf("level: map %q has %d slots for %d answers: %w", name, len(seg.Slots), len(q.Answers), ErrInsufficientSlots)
	}
	return seg, nil
}
