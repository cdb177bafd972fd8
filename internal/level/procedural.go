package level

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/vovakirdan/quiz-runner/internal/quiz"
)

// LandscapeOptions configures the playable layer.
type LandscapeOptions struct {
	Seed        [][]int
	TileSize    float64
	GroundCode  int
	HazardCodes []int
	// HazardChance returns the per-column hazard probability for a segment.
	HazardChance func(segment int) float64
	// SafeColumns at the start of every segment never get hazards. They
	// must cover the start line so a transition never ends on a hazard.
	SafeColumns int
}

// StripeOptions configures the background layer.
type StripeOptions struct {
	Seed     [][]int
	TileSize float64
	Stripe   []int
}

// CloudOptions configures the cloud layer.
type CloudOptions struct {
	Rows        int
	TileSize    float64
	Row         int
	Motif       []int
	StartChance float64
}

// ProceduralOptions configures the Procedural assembler.
type ProceduralOptions struct {
	GameW, GameH float64
	SegmentWidth float64
	// Lookahead is how many segment widths are generated past the current one.
	Lookahead  int
	StartInset float64
	Landscape  LandscapeOptions
	Background StripeOptions
	Clouds     CloudOptions
}

// DefaultProceduralOptions returns the classic layout: a 10-row landscape of
// 18px tiles, a 3-row striped background of 24px tiles and a cloud layer.
func DefaultProceduralOptions(gameW, gameH float64) ProceduralOptions {
	return ProceduralOptions{
		GameW:        gameW,
		GameH:        gameH,
		SegmentWidth: gameW,
		Lookahead:    1,
		StartInset:   gameW / 3,
		Landscape: LandscapeOptions{
			Seed: [][]int{
				{-1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
				{-1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
				{-1, -1, -1, -1, 146, -1, -1, -1, -1, -1},
				{-1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
				{-1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
				{-1, -1, -1, -1, -1, -1, -1, 146, -1, -1},
				{-1, -1, -1, -1, -1, -1, -1, -1, -1, 146},
				{-1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
				{-1, 88, -1, 107, 126, -1, -1, -1, 108, -1},
				{2, 2, 2, 2, 2, 2, 2, 2, 2, 2},
			},
			TileSize:     18,
			GroundCode:   2,
			HazardCodes:  []int{107, 108, 128, 127},
			HazardChance: func(int) float64 { return 0.2 },
			SafeColumns:  8,
		},
		Background: StripeOptions{
			Seed: [][]int{
				{6, 7, 6},
				{14, 15, 14},
				{23, 23, 23},
			},
			TileSize: 24,
			Stripe:   []int{6, 14, 23},
		},
		Clouds: CloudOptions{
			Rows:        10,
			TileSize:    18,
			Row:         1,
			Motif:       []int{153, 154, 155},
			StartChance: 0.15,
		},
	}
}

// Procedural assembles segments by extending cumulative layer grids column
// by column. Every segment shares the same grids; the grids only grow.
type Procedural struct {
	opts ProceduralOptions
	rng  *rand.Rand

	landscape  *Grid
	background *Grid
	clouds     *Grid

	landGen  *LandscapeColumns
	cloudGen *CloudColumns
	bgGen    BackgroundColumns

	hazardCodes map[int]bool
	hazards     []Hazard
	scanned     int
}

// NewProcedural validates the seed grids and builds an assembler.
func NewProcedural(opts ProceduralOptions, seed int64) (*Procedural, error) {
	if opts.SegmentWidth <= 0 {
		opts.SegmentWidth = opts.GameW
	}
	if opts.SegmentWidth <= 0 || opts.GameH <= 0 {
		return nil, fmt.Errorf("level: invalid game size %vx%v", opts.GameW, opts.GameH)
	}
	if opts.Landscape.HazardChance == nil {
		opts.Landscape.HazardChance = func(int) float64 { return 0 }
	}
	for name, seedRows := range map[string][][]int{
		LayerLandscape:  opts.Landscape.Seed,
		LayerBackground: opts.Background.Seed,
	} {
		if len(seedRows) == 0 {
			return nil, fmt.Errorf("level: %s seed grid is empty: %w", name, ErrUnknownLayer)
		}
		if _, err := NewGrid(seedRows); err != nil {
			return nil, fmt.Errorf("level: %s seed: %w", name, err)
		}
	}

	p := &Procedural{
		opts:        opts,
		hazardCodes: make(map[int]bool, len(opts.Landscape.HazardCodes)),
	}
	for _, c := range opts.Landscape.HazardCodes {
		p.hazardCodes[c] = true
	}
	p.Reset(seed)
	return p, nil
}

// Reset implements Assembler.
func (p *Procedural) Reset(seed int64) {
	p.rng = rand.New(rand.NewSource(seed))
	p.landscape = MustGrid(p.opts.Landscape.Seed)
	p.background = MustGrid(p.opts.Background.Seed)
	p.clouds = MustGrid(make([][]int, p.opts.Clouds.Rows))

	p.landGen = NewLandscapeColumns(p.rng, p.opts.Landscape.GroundCode, p.opts.Landscape.HazardCodes, 0)
	p.cloudGen = NewCloudColumns(p.rng, p.opts.Clouds.Row, p.opts.Clouds.Motif, p.opts.Clouds.StartChance)
	p.bgGen = BackgroundColumns{Stripe: p.opts.Background.Stripe}

	p.hazards = p.hazards[:0]
	p.scanned = 0
	p.scanHazards()
}

func (p *Procedural) landTile() float64 {
	return p.opts.Landscape.TileSize * TileScale(p.opts.GameH, p.opts.Landscape.TileSize, p.landscape.Rows())
}

func (p *Procedural) bgTile() float64 {
	return p.opts.Background.TileSize * TileScale(p.opts.GameH, p.opts.Background.TileSize, p.background.Rows())
}

func (p *Procedural) cloudTile() float64 {
	if p.clouds.Rows() == 0 {
		return 0
	}
	return p.opts.Clouds.TileSize * TileScale(p.opts.GameH, p.opts.Clouds.TileSize, p.clouds.Rows())
}

// Assemble implements Assembler. The grids are extended until they cover
// the requested segment plus the lookahead.
func (p *Procedural) Assemble(index int, _ quiz.Question) (*Segment, error) {
	segW := p.opts.SegmentWidth
	offset := float64(index) * segW
	screens := float64(index+1+p.opts.Lookahead) * segW / p.opts.GameW

	p.landGen.HazardChance = p.opts.Landscape.HazardChance(index)
	scale := TileScale(p.opts.GameH, p.opts.Landscape.TileSize, p.landscape.Rows())
	need := ColumnsNeeded(screens, p.opts.GameW, p.opts.Landscape.TileSize, scale)
	for p.landscape.Width() < need {
		col := p.landGen.Next(p.landscape.Rows(), p.landscape.Width())
		p.clearSafeZone(col, p.landscape.Width())
		p.landscape.Append(col)
	}
	p.scanHazards()

	bgScale := TileScale(p.opts.GameH, p.opts.Background.TileSize, p.background.Rows())
	if n := ColumnsNeeded(screens, p.opts.GameW, p.opts.Background.TileSize, bgScale) - p.background.Width(); n > 0 {
		Extend(p.background, p.bgGen, n)
	}
	if p.clouds.Rows() > 0 {
		cloudScale := TileScale(p.opts.GameH, p.opts.Clouds.TileSize, p.clouds.Rows())
		if n := ColumnsNeeded(screens, p.opts.GameW, p.opts.Clouds.TileSize, cloudScale) - p.clouds.Width(); n > 0 {
			Extend(p.clouds, p.cloudGen, n)
		}
	}

	seg := &Segment{
		Index:  index,
		Name:   fmt.Sprintf("procedural-%d", index),
		Offset: offset,
		Width:  segW,
		Height: p.opts.GameH,
		StartX: offset + p.opts.StartInset,
		Layers: []Layer{
			NewLayer(LayerBackground, p.background, 0, p.bgTile(), p.bgTile(), nil),
			NewLayer(LayerClouds, p.clouds, 0, p.cloudTile(), p.cloudTile(), nil),
			NewLayer(LayerLandscape, p.landscape, 0, p.landTile(), p.landTile(), p.solid),
		},
	}
	for _, h := range p.hazards {
		if h.Rect.X >= offset && h.Rect.X < seg.End() {
			seg.Hazards = append(seg.Hazards, h)
		}
	}
	return seg, nil
}

func (p *Procedural) solid(code int) bool {
	return code != Empty && !p.hazardCodes[code]
}

// clearSafeZone removes hazards from the first SafeColumns of a segment.
func (p *Procedural) clearSafeZone(col []int, index int) {
	rows := len(col)
	if rows < 2 || p.opts.Landscape.SafeColumns <= 0 {
		return
	}
	tile := p.landTile()
	x := float64(index) * tile
	segStart := math.Floor(x/p.opts.SegmentWidth) * p.opts.SegmentWidth
	if x < segStart+float64(p.opts.Landscape.SafeColumns)*tile {
		col[rows-2] = Empty
	}
}

// scanHazards records hazard cells in columns not yet scanned.
func (p *Procedural) scanHazards() {
	layer := NewLayer(LayerLandscape, p.landscape, 0, p.landTile(), p.landTile(), nil)
	for col := p.scanned; col < p.landscape.Width(); col++ {
		for row := 0; row < p.landscape.Rows(); row++ {
			code := p.landscape.At(row, col)
			if p.hazardCodes[code] {
				p.hazards = append(p.hazards, Hazard{Rect: layer.TileRect(row, col), Code: code})
			}
		}
	}
	p.scanned = p.landscape.Width()
}

// Landscape returns the cumulative landscape grid.
func (p *Procedural) Landscape() *Grid {
	return p.landscape
}

// Background returns the cumulative background grid.
func (p *Procedural) Background() *Grid {
	return p.background
}

// Clouds returns the cumulative cloud grid.
func (p *Procedural) Clouds() *Grid {
	return p.clouds
}
