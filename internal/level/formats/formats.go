// Package formats decodes authored level maps. Two encodings are accepted:
// Tiled JSON exports and a compact YAML layout with explicit rows.
package formats

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// Empty mirrors level.Empty for decoded tile codes.
const Empty = -1

// Object types recognised in the Objects layer.
const (
	ObjectHazard = "hazard"
	ObjectAnswer = "answer"
	ObjectStart  = "start"
)

var (
	// ErrUnsupportedFormat is returned for unknown file extensions.
	ErrUnsupportedFormat = errors.New("formats: unsupported map format")
	// ErrBadLayer is returned when a tile layer has the wrong cell count.
	ErrBadLayer = errors.New("formats: tile layer size mismatch")
)

// TileLayer is a decoded tile layer with tile codes, Empty for no tile.
type TileLayer struct {
	Name string
	Rows [][]int
}

// Object is a positioned rectangle in map pixels.
type Object struct {
	Type string
	Name string
	Code int
	X, Y float64
	W, H float64
}

// Map is a decoded level map.
type Map struct {
	Width, Height int // in tiles
	TileW, TileH  int
	Layers        []TileLayer
	Objects       []Object
}

// PixelSize returns the unscaled map size.
func (m *Map) PixelSize() (w, h float64) {
	return float64(m.Width * m.TileW), float64(m.Height * m.TileH)
}

// Layer returns the named tile layer.
func (m *Map) Layer(name string) (TileLayer, bool) {
	for _, l := range m.Layers {
		if l.Name == name {
			return l, true
		}
	}
	return TileLayer{}, false
}

// Parse decodes data according to the extension of name.
func Parse(name string, data []byte) (*Map, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".json", ".tmj":
		return ParseTiled(data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

func normalizeType(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

// Extensions lists the file extensions tried when resolving a map name.
var Extensions = []string{".json", ".yaml", ".yml"}
