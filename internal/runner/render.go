package runner

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/quiz-runner/internal/core"
	"github.com/vovakirdan/quiz-runner/internal/level"
	"github.com/vovakirdan/quiz-runner/internal/quiz"
)

// Glyphs used by Render.
const (
	GlyphGround   = '█'
	GlyphPlatform = '▓'
	GlyphDecor    = '·'
	GlyphCloud    = '~'
	GlyphHazard   = '▲'
	GlyphMarker   = '▒'
	GlyphRevealed = '×'
	GlyphAvatar   = '@'
)

// Render draws the visible world, the answer markers, the avatar and the
// quiz overlay into scr.
func (s *Session) Render(scr *core.Screen) {
	scr.Clear()
	w, h := scr.Width(), scr.Height()
	if w == 0 || h == 0 || len(s.segments) == 0 {
		return
	}
	view := s.camera.View()
	cw := view.W / float64(w)
	ch := view.H / float64(h)

	for cy := 0; cy < h; cy++ {
		y := (float64(cy) + 0.5) * ch
		for cx := 0; cx < w; cx++ {
			x := view.X + (float64(cx)+0.5)*cw
			if r, c, ok := s.glyphAt(x, y); ok {
				scr.SetColored(cx, cy, r, c)
			}
		}
	}

	cells := func(r core.RectF) core.Rect {
		x0 := int(math.Floor((r.X - view.X) / cw))
		y0 := int(math.Floor(r.Y / ch))
		x1 := int(math.Ceil((r.Right() - view.X) / cw))
		y1 := int(math.Ceil(r.Bottom() / ch))
		return core.NewRect(x0, y0, core.Max(x1-x0, 1), core.Max(y1-y0, 1))
	}
	fill := func(r core.Rect, g rune, c core.Color) {
		for y := r.Y; y < r.Bottom(); y++ {
			for x := r.X; x < r.Right(); x++ {
				scr.SetColored(x, y, g, c)
			}
		}
	}

	for _, hz := range s.Hazards() {
		if hz.Rect.Right() < view.X || hz.Rect.X > view.Right() {
			continue
		}
		fill(cells(hz.Rect.Inset(hz.Rect.H/4)), GlyphHazard, core.ColorRed)
	}
	for _, a := range s.anchors {
		r := cells(a.Rect)
		if a.Revealed {
			fill(r, GlyphRevealed, core.ColorGray)
			continue
		}
		fill(r, GlyphMarker, core.ColorYellow)
		scr.SetColored(r.X+r.W/2, r.Y+r.H/2, []rune(quiz.Letter(a.Answer))[0], core.ColorBrightWhite)
	}
	fill(cells(s.avatar.Rect()), GlyphAvatar, core.ColorCyan)

	s.drawOverlay(scr)
}

// glyphAt picks the top-most non-empty tile under a world point.
func (s *Session) glyphAt(x, y float64) (rune, core.Color, bool) {
	var seg *level.Segment
	for i := len(s.segments) - 1; i >= 0; i-- {
		if x >= s.segments[i].Offset && x < s.segments[i].End() {
			seg = s.segments[i]
			break
		}
	}
	if seg == nil {
		return 0, 0, false
	}
	for i := len(seg.Layers) - 1; i >= 0; i-- {
		l := seg.Layers[i]
		row, col, ok := l.CellAt(x, y)
		if !ok {
			continue
		}
		code := l.Grid.At(row, col)
		if code == level.Empty {
			continue
		}
		switch l.Name {
		case level.LayerLandscape:
			switch {
			case !l.Collidable(code):
				continue
			case row == l.Grid.Rows()-1:
				return GlyphGround, core.ColorGreen, true
			default:
				return GlyphPlatform, core.ColorOrange, true
			}
		case level.LayerClouds:
			return GlyphCloud, core.ColorWhite, true
		case level.LayerBackground:
			if row == l.Grid.Rows()-1 {
				return GlyphDecor, core.ColorGray, true
			}
		default:
			return GlyphDecor, core.ColorGray, true
		}
	}
	return 0, 0, false
}

func (s *Session) drawOverlay(scr *core.Screen) {
	p := s.machine.Progress()
	hud := fmt.Sprintf(" Question %d/%d   Points %d   Lives %s", s.shown+1, p.QuizLength, p.Points, strings.Repeat("♥", p.Lives))
	if left := s.machine.TimeLeft(); left >= 0 {
		rate := max(s.cfg.TickRate, 1)
		hud += fmt.Sprintf("   Time %ds", (left+rate-1)/rate)
	}
	scr.DrawTextColored(0, 0, hud, core.ColorBrightWhite)

	q := s.Question()
	switch s.machine.Phase() {
	case PhaseTransitioning:
		scr.DrawTextColored(1, 1, fmt.Sprintf("Correct! On to question %d...", p.QuizIndex+1), core.ColorBrightGreen)
	case PhasePlaying:
		scr.DrawTextColored(1, 1, q.Question, core.ColorWhite)
		var parts []string
		for i, a := range q.Answers {
			parts = append(parts, fmt.Sprintf("%s) %s", quiz.Letter(i), a.Text))
		}
		scr.DrawTextColored(1, 2, strings.Join(parts, "   "), core.ColorYellow)
	}

	if s.paused {
		scr.DrawTextCentered(scr.Height()/2, "PAUSED")
	}
	if s.err != nil || s.machine.Phase().Terminal() {
		s.drawSummary(scr)
	}
}

func (s *Session) drawSummary(scr *core.Screen) {
	sum := s.Summary()
	title := "QUIZ COMPLETE"
	switch {
	case s.err != nil:
		title = "LEVEL ERROR"
	case sum.TimedOut:
		title = "TIME UP"
	case !sum.Completed:
		title = "OUT OF LIVES"
	}
	lines := []string{
		title,
		"",
		fmt.Sprintf("Points: %d", sum.Points),
		fmt.Sprintf("Answered: %d/%d", sum.Answered, sum.Total),
		"",
		"r: play again   q: quit",
	}
	if s.err != nil {
		lines[1] = s.err.Error()
	}

	boxW := 0
	for _, l := range lines {
		boxW = core.Max(boxW, len([]rune(l)))
	}
	boxW += 4
	boxH := len(lines) + 2
	x := (scr.Width() - boxW) / 2
	y := (scr.Height() - boxH) / 2
	scr.DrawRect(core.NewRect(x, y, boxW, boxH), ' ')
	scr.DrawBox(core.NewRect(x, y, boxW, boxH))
	for i, l := range lines {
		scr.DrawTextCentered(y+1+i, l)
	}
}
