package formats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tiledJSON = `{
  "width": 2, "height": 2, "tilewidth": 16, "tileheight": 16,
  "tilesets": [{"firstgid": 1, "source": "tiles.tsx"}],
  "layers": [
    {"name": "Landscape", "type": "tilelayer", "width": 2, "height": 2, "data": [0, 3, 1, 2147483650]},
    {"name": "Objects", "type": "objectgroup", "objects": [
      {"name": "a1", "type": "Answer", "x": 0, "y": 0, "width": 16, "height": 16},
      {"name": "spike", "class": "hazard", "gid": 5, "x": 16, "y": 32, "width": 16, "height": 16}
    ]}
  ]
}`

func TestParseTiled(t *testing.T) {
	m, err := Parse("level.json", []byte(tiledJSON))
	require.NoError(t, err)

	assert.Equal(t, 2, m.Width)
	assert.Equal(t, 16, m.TileH)
	l, ok := m.Layer("Landscape")
	require.True(t, ok)
	// gid 0 is empty, flip flags are stripped.
	assert.Equal(t, [][]int{{Empty, 2}, {0, 1}}, l.Rows)

	require.Len(t, m.Objects, 2)
	assert.Equal(t, ObjectAnswer, m.Objects[0].Type)
	assert.Equal(t, Empty, m.Objects[0].Code)
	hz := m.Objects[1]
	assert.Equal(t, ObjectHazard, hz.Type)
	assert.Equal(t, 4, hz.Code)
	assert.Equal(t, 16.0, hz.Y)
}

func TestParseTiledSizeMismatch(t *testing.T) {
	_, err := ParseTiled([]byte(`{"width": 2, "height": 2, "layers": [{"name": "L", "type": "tilelayer", "data": [1]}]}`))
	require.ErrorIs(t, err, ErrBadLayer)
}

func TestParseYAML(t *testing.T) {
	m, err := Parse("level.yml", []byte(`
tile_width: 8
tile_height: 8
layers:
  - name: Landscape
    rows:
      - [-1, 4]
      - [2, 2]
  - name: Clouds
    rows:
      - [-1, -1]
      - [-1, -1]
objects:
  - {type: " HAZARD ", x: 8, y: 0, width: 8, height: 8, code: 0}
`))
	require.NoError(t, err)
	assert.Equal(t, 2, m.Width)
	assert.Equal(t, 2, m.Height)
	w, h := m.PixelSize()
	assert.Equal(t, 16.0, w)
	assert.Equal(t, 16.0, h)
	require.Len(t, m.Objects, 1)
	assert.Equal(t, ObjectHazard, m.Objects[0].Type)
	assert.Equal(t, 0, m.Objects[0].Code)
}

func TestParseYAMLRejectsMismatchedLayers(t *testing.T) {
	_, err := ParseYAML([]byte(`
layers:
  - name: A
    rows: [[1, 2]]
  - name: B
    rows: [[1]]
`))
	require.ErrorIs(t, err, ErrBadLayer)

	_, err = ParseYAML([]byte(`
layers:
  - name: A
    rows: [[1, 2], [3]]
`))
	require.ErrorIs(t, err, ErrBadLayer)
}

func TestParseUnsupported(t *testing.T) {
	_, err := Parse("level.tmx", nil)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}
