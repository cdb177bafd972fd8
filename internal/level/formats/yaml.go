package formats

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type yamlMap struct {
	TileWidth  int          `yaml:"tile_width"`
	TileHeight int          `yaml:"tile_height"`
	Layers     []yamlLayer  `yaml:"layers"`
	Objects    []yamlObject `yaml:"objects"`
}

type yamlLayer struct {
	Name string  `yaml:"name"`
	Rows [][]int `yaml:"rows"`
}

type yamlObject struct {
	Type   string  `yaml:"type"`
	Name   string  `yaml:"name"`
	Code   *int    `yaml:"code"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// ParseYAML decodes the compact YAML layout. Rows hold tile codes directly,
// -1 for empty; all layers must share the same dimensions.
func ParseYAML(data []byte) (*Map, error) {
	var raw yamlMap
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("formats: cannot decode yaml map: %w", err)
	}
	m := &Map{TileW: raw.TileWidth, TileH: raw.TileHeight}
	for i, l := range raw.Layers {
		w := 0
		if len(l.Rows) > 0 {
			w = len(l.Rows[0])
		}
		for r, row := range l.Rows {
			if len(row) != w {
				return nil, fmt.Errorf("%w: layer %q row %d has %d cells, want %d", ErrBadLayer, l.Name, r, len(row), w)
			}
		}
		if i == 0 {
			m.Width, m.Height = w, len(l.Rows)
		} else if w != m.Width || len(l.Rows) != m.Height {
			return nil, fmt.Errorf("%w: layer %q is %dx%d, map is %dx%d", ErrBadLayer, l.Name, w, len(l.Rows), m.Width, m.Height)
		}
		m.Layers = append(m.Layers, TileLayer{Name: l.Name, Rows: l.Rows})
	}
	for _, o := range raw.Objects {
		obj := Object{Type: normalizeType(o.Type), Name: o.Name, Code: Empty, X: o.X, Y: o.Y, W: o.Width, H: o.Height}
		if o.Code != nil {
			obj.Code = *o.Code
		}
		m.Objects = append(m.Objects, obj)
	}
	return m, nil
}
