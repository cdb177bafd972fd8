package formats

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Tiled stores flip flags in the top bits of every gid.
const gidMask = 0x1FFFFFFF

type tiledMap struct {
	Width      int            `yaml:"width"`
	Height     int            `yaml:"height"`
	TileWidth  int            `yaml:"tilewidth"`
	TileHeight int            `yaml:"tileheight"`
	Layers     []tiledLayer   `yaml:"layers"`
	Tilesets   []tiledTileset `yaml:"tilesets"`
}

type tiledTileset struct {
	FirstGID int `yaml:"firstgid"`
}

type tiledLayer struct {
	Name    string        `yaml:"name"`
	Type    string        `yaml:"type"`
	Width   int           `yaml:"width"`
	Height  int           `yaml:"height"`
	Data    []uint32      `yaml:"data"`
	Objects []tiledObject `yaml:"objects"`
}

type tiledObject struct {
	Name   string  `yaml:"name"`
	Type   string  `yaml:"type"`
	Class  string  `yaml:"class"`
	GID    uint32  `yaml:"gid"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// ParseTiled decodes a Tiled JSON export. JSON is valid YAML, so the yaml
// decoder is used for both formats.
func ParseTiled(data []byte) (*Map, error) {
	var raw tiledMap
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("formats: cannot decode tiled map: %w", err)
	}
	first := 1
	if len(raw.Tilesets) > 0 && raw.Tilesets[0].FirstGID > 0 {
		first = raw.Tilesets[0].FirstGID
	}
	code := func(gid uint32) int {
		gid &= gidMask
		if gid == 0 {
			return Empty
		}
		return int(gid) - first
	}

	m := &Map{Width: raw.Width, Height: raw.Height, TileW: raw.TileWidth, TileH: raw.TileHeight}
	for _, l := range raw.Layers {
		switch l.Type {
		case "tilelayer":
			w, h := l.Width, l.Height
			if w == 0 {
				w = raw.Width
			}
			if h == 0 {
				h = raw.Height
			}
			if len(l.Data) != w*h {
				return nil, fmt.Errorf("%w: layer %q has %d cells, want %dx%d", ErrBadLayer, l.Name, len(l.Data), w, h)
			}
			rows := make([][]int, h)
			for r := range rows {
				rows[r] = make([]int, w)
				for c := range rows[r] {
					rows[r][c] = code(l.Data[r*w+c])
				}
			}
			m.Layers = append(m.Layers, TileLayer{Name: l.Name, Rows: rows})
		case "objectgroup":
			for _, o := range l.Objects {
				t := o.Type
				if t == "" {
					t = o.Class
				}
				obj := Object{
					Type: normalizeType(t),
					Name: o.Name,
					Code: Empty,
					X:    o.X,
					Y:    o.Y,
					W:    o.Width,
					H:    o.Height,
				}
				// Tile objects are anchored at their bottom-left corner.
				if o.GID != 0 {
					obj.Code = code(o.GID)
					obj.Y -= o.Height
				}
				m.Objects = append(m.Objects, obj)
			}
		}
	}
	return m, nil
}
