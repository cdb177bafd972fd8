package level

import (
	"math"
	"math/rand"
)

// ColumnGenerator produces the next column of a layer. col is the index the
// column will occupy once appended. Implementations draw all randomness
// from their injected source so a fixed seed yields a fixed grid.
type ColumnGenerator interface {
	Next(rows int, col int) []int
}

// ColumnsNeeded returns how many columns of tileSize*scale pixels cover
// screens screen-widths of travel. It rounds up so the player never reaches
// ungenerated territory.
func ColumnsNeeded(screens, screenW, tileSize, scale float64) int {
	colW := tileSize * scale
	if colW <= 0 || screens <= 0 || screenW <= 0 {
		return 0
	}
	return int(math.Ceil(screens * screenW / colW))
}

// TileScale returns the scale that makes rows tiles of tileSize fill gameH.
func TileScale(gameH, tileSize float64, rows int) float64 {
	if tileSize <= 0 || rows <= 0 {
		return 1
	}
	return gameH / (tileSize * float64(rows))
}

// Extend appends n generated columns to g.
func Extend(g *Grid, gen ColumnGenerator, n int) {
	for i := 0; i < n; i++ {
		g.Append(gen.Next(g.Rows(), g.Width()))
	}
}

func emptyColumn(rows int) []int {
	col := make([]int, rows)
	for i := range col {
		col[i] = Empty
	}
	return col
}

// LandscapeColumns generates the playable layer: solid ground on the bottom
// row and occasional hazard tiles just above it.
type LandscapeColumns struct {
	GroundCode   int
	HazardCodes  []int
	HazardChance float64
	rng          *rand.Rand
}

// NewLandscapeColumns creates a landscape generator drawing from rng.
func NewLandscapeColumns(rng *rand.Rand, ground int, hazards []int, chance float64) *LandscapeColumns {
	return &LandscapeColumns{
		GroundCode:   ground,
		HazardCodes:  hazards,
		HazardChance: chance,
		rng:          rng,
	}
}

// Next implements ColumnGenerator.
func (l *LandscapeColumns) Next(rows int, _ int) []int {
	col := emptyColumn(rows)
	if rows == 0 {
		return col
	}
	col[rows-1] = l.GroundCode
	if rows < 2 {
		return col
	}
	// Always consume one roll per column so the stream stays aligned
	// regardless of the alphabet.
	roll := l.rng.Float64()
	if roll < l.HazardChance && len(l.HazardCodes) > 0 {
		col[rows-2] = l.HazardCodes[l.rng.Intn(len(l.HazardCodes))]
	}
	return col
}

// BackgroundColumns repeats a fixed code per row.
type BackgroundColumns struct {
	Stripe []int
}

// Next implements ColumnGenerator.
func (b BackgroundColumns) Next(rows int, _ int) []int {
	col := emptyColumn(rows)
	for i := 0; i < rows && i < len(b.Stripe); i++ {
		col[i] = b.Stripe[i]
	}
	return col
}

type cloudState int

const (
	cloudIdle cloudState = iota
	cloudRun
)

// CloudColumns emits intermittent runs of a fixed cloud motif on one row.
// While idle it emits empty columns and may start a run for the next
// column; while running it emits the motif tile by tile.
type CloudColumns struct {
	Row         int
	Motif       []int
	StartChance float64

	state cloudState
	pos   int
	rng   *rand.Rand
}

// NewCloudColumns creates a cloud generator drawing from rng.
func NewCloudColumns(rng *rand.Rand, row int, motif []int, chance float64) *CloudColumns {
	return &CloudColumns{Row: row, Motif: motif, StartChance: chance, rng: rng}
}

// Next implements ColumnGenerator.
func (c *CloudColumns) Next(rows int, _ int) []int {
	col := emptyColumn(rows)
	switch c.state {
	case cloudIdle:
		if len(c.Motif) > 0 && c.rng.Float64() < c.StartChance {
			c.state = cloudRun
			c.pos = 0
		}
	case cloudRun:
		if c.Row >= 0 && c.Row < rows {
			col[c.Row] = c.Motif[c.pos]
		}
		c.pos++
		if c.pos >= len(c.Motif) {
			c.state = cloudIdle
			c.pos = 0
		}
	}
	return col
}

// Running reports whether a cloud run is in progress.
func (c *CloudColumns) Running() bool {
	return c.state == cloudRun
}
