// Package level builds the tile world the runner plays on: tile grids, the
// column generators that extend them, and the assemblers that produce one
// Segment per quiz question.
package level

import (
	"errors"
	"fmt"
)

// Empty is the tile code of an empty cell.
const Empty = -1

// ErrRaggedGrid is returned when grid rows have different lengths.
var ErrRaggedGrid = errors.New("level: grid rows have inconsistent lengths")

// Grid is a rectangular tile map stored row-major. All rows always have the
// same length; columns are only ever appended.
type Grid struct {
	rows [][]int
}

// NewGrid copies rows into a new grid. It fails with ErrRaggedGrid when the
// rows differ in length.
func NewGrid(rows [][]int) (*Grid, error) {
	g := &Grid{rows: make([][]int, len(rows))}
	for i, r := range rows {
		if i > 0 && len(r) != len(rows[0]) {
			return nil, fmt.Errorf("%w: row %d has %d columns, row 0 has %d", ErrRaggedGrid, i, len(r), len(rows[0]))
		}
		g.rows[i] = append([]int(nil), r...)
	}
	return g, nil
}

// MustGrid is NewGrid for hand-authored seeds; it panics on ragged rows.
func MustGrid(rows [][]int) *Grid {
	g, err := NewGrid(rows)
	if err != nil {
		panic(err)
	}
	return g
}

// Rows returns the number of rows.
func (g *Grid) Rows() int {
	return len(g.rows)
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	if len(g.rows) == 0 {
		return 0
	}
	return len(g.rows[0])
}

// At returns the tile code at (row, col), or Empty when out of range.
func (g *Grid) At(row, col int) int {
	if row < 0 || row >= len(g.rows) || col < 0 || col >= len(g.rows[row]) {
		return Empty
	}
	return g.rows[row][col]
}

// Set overwrites an existing cell. Out-of-range writes are ignored.
func (g *Grid) Set(row, col, code int) {
	if row < 0 || row >= len(g.rows) || col < 0 || col >= len(g.rows[row]) {
		return
	}
	g.rows[row][col] = code
}

// Row returns a copy of row r.
func (g *Grid) Row(r int) []int {
	return append([]int(nil), g.rows[r]...)
}

// Data returns a copy of all rows.
func (g *Grid) Data() [][]int {
	out := make([][]int, len(g.rows))
	for i := range g.rows {
		out[i] = g.Row(i)
	}
	return out
}

// Append adds one column. A column of the wrong height is a programming
// error and panics.
func (g *Grid) Append(col []int) {
	if len(col) != len(g.rows) {
		panic(fmt.Sprintf("level: column has %d cells, grid has %d rows", len(col), len(g.rows)))
	}
	for i, code := range col {
		g.rows[i] = append(g.rows[i], code)
	}
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	return &Grid{rows: g.Data()}
}
