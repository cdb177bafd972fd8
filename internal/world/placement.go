package world

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/vovakirdan/quiz-runner/internal/core"
	"github.com/vovakirdan/quiz-runner/internal/level"
	"github.com/vovakirdan/quiz-runner/internal/quiz"
)

// Resolver places answer markers by rejection sampling: a candidate whose x
// lies within Radius of an accepted marker, or that Accept refuses, is
// discarded.
type Resolver struct {
	Radius      float64
	MaxAttempts int
	rng         *rand.Rand
}

// NewResolver creates a resolver drawing from rng.
func NewResolver(rng *rand.Rand, radius float64, maxAttempts int) *Resolver {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Resolver{Radius: radius, MaxAttempts: maxAttempts, rng: rng}
}

// Accept reports whether a candidate marker box may be used. A nil Accept
// takes every candidate.
type Accept func(r core.RectF) bool

// Placement is the output of Place.
type Placement struct {
	Slots []level.Slot
	// Radius is the exclusion radius actually applied. It is capped so that
	// n markers can share the view.
	Radius float64
	// Fallback is set when at least one slot exhausted its attempts and was
	// put at a deterministic position instead.
	Fallback bool
	Attempts int
}

// Place returns n square slots of size box inside view. Each slot draws at
// most MaxAttempts candidates; a slot that runs out goes to the position
// farthest from the slots already placed, preferring accepted ones.
func (r *Resolver) Place(view core.RectF, n int, box float64, accept Accept) Placement {
	if n <= 0 {
		return Placement{}
	}
	if accept == nil {
		accept = func(core.RectF) bool { return true }
	}
	spanX := math.Max(view.W-box, 0)
	spanY := math.Max(view.H-box, 0)

	p := Placement{
		Slots:  make([]level.Slot, 0, n),
		Radius: math.Min(r.Radius, view.W/float64(n)),
	}
	for k := 0; k < n; k++ {
		placed := false
		for a := 0; a < r.MaxAttempts; a++ {
			p.Attempts++
			rect := core.NewRectF(view.X+r.rng.Float64()*spanX, view.Y+r.rng.Float64()*spanY, box, box)
			if minGap(p.Slots, rect.X) >= p.Radius && accept(rect) {
				p.Slots = append(p.Slots, level.Slot{Rect: rect})
				placed = true
				break
			}
		}
		if !placed {
			p.Slots = append(p.Slots, level.Slot{Rect: fallback(view, n, k, box, p.Slots, accept)})
			p.Fallback = true
		}
	}
	return p
}

// minGap returns the smallest x distance from x to any slot.
func minGap(slots []level.Slot, x float64) float64 {
	gap := math.Inf(1)
	for _, s := range slots {
		gap = math.Min(gap, math.Abs(s.Rect.X-x))
	}
	return gap
}

// fallback scans the view at a fixed step and returns the candidate with
// the widest gap to the placed slots. Ties go to the even position of slot
// k. Accepted candidates win over rejected ones.
func fallback(view core.RectF, n, k int, box float64, placed []level.Slot, accept Accept) core.RectF {
	even := Even(view, n, box)
	spanX := math.Max(view.W-box, 0)
	spanY := math.Max(view.H-box, 0)

	cands := []core.RectF{even[k].Rect}
	const step = 4.0
	for _, y := range []float64{view.Y + spanY/2, view.Y, view.Y + spanY} {
		for x := 0.0; ; x += step {
			x = math.Min(x, spanX)
			cands = append(cands, core.NewRectF(view.X+x, y, box, box))
			if x >= spanX {
				break
			}
		}
	}

	best, bestOK, bestGap := cands[0], accept(cands[0]), minGap(placed, cands[0].X)
	for _, c := range cands[1:] {
		gap := minGap(placed, c.X)
		if bestOK && gap <= bestGap {
			continue
		}
		ok := accept(c)
		if (ok && !bestOK) || (ok == bestOK && gap > bestGap) {
			best, bestOK, bestGap = c, ok, gap
		}
	}
	return best
}

// Even lays n slots out at evenly spaced x centres, vertically centred in
// view.
func Even(view core.RectF, n int, box float64) []level.Slot {
	slots := make([]level.Slot, n)
	step := view.W / float64(n)
	y := view.Y + math.Max(view.H-box, 0)/2
	for k := range slots {
		cx := view.X + (float64(k)+0.5)*step
		slots[k] = level.Slot{Rect: core.NewRectF(cx-box/2, y, box, box)}
	}
	return slots
}

// BindAnswers assigns answer k of q to slot k. Extra slots are ignored.
func BindAnswers(slots []level.Slot, q quiz.Question) ([]level.Anchor, error) {
	if len(slots) < len(q.Answers) {
		return nil, fmt.Errorf("world: %d slots for %d answers: %w", len(slots), len(q.Answers), level.ErrInsufficientSlots)
	}
	anchors := make([]level.Anchor, len(q.Answers))
	for k, a := range q.Answers {
		anchors[k] = level.Anchor{
			ID:      k,
			Rect:    slots[k].Rect,
			Correct: a.Correct,
			Answer:  k,
			Text:    a.Text,
		}
	}
	return anchors, nil
}
