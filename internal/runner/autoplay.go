package runner

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/quiz-runner/internal/core"
	"github.com/vovakirdan/quiz-runner/internal/level"
	"github.com/vovakirdan/quiz-runner/internal/physics"
	"github.com/vovakirdan/quiz-runner/internal/quiz"
)

// Chooser picks the answer an Autoplayer aims for.
type Chooser func(q quiz.Question, index int) int

// ChooseCorrect always aims for the correct answer.
func ChooseCorrect(q quiz.Question, _ int) int {
	return q.CorrectIndex()
}

// ChooseFirst aims for the first answer, right or wrong.
func ChooseFirst(quiz.Question, int) int {
	return 0
}

// ChooseRandom aims for an answer drawn from rng.
func ChooseRandom(rng *rand.Rand) Chooser {
	return func(q quiz.Question, _ int) int {
		if len(q.Answers) == 0 {
			return 0
		}
		return rng.Intn(len(q.Answers))
	}
}

// Autoplayer produces input for headless runs: it walks to the chosen
// marker and jumps into it, hopping over hazards and walls on the way.
// Once its pick is revealed as wrong it aims for the correct answer.
// A hazard hop that would cross another marker is skipped and the hazard
// taken instead, since hazards cost points but never lives.
type Autoplayer struct {
	Choose Chooser
	// Lookahead is how far ahead, in world pixels, hazards trigger a jump.
	Lookahead float64

	lastX   float64
	still   int
	jumping bool
}

// NewAutoplayer creates an autoplayer with the given chooser.
func NewAutoplayer(choose Chooser) *Autoplayer {
	if choose == nil {
		choose = ChooseCorrect
	}
	return &Autoplayer{Choose: choose, Lookahead: 24}
}

// Input returns the frame for the next tick of s.
func (a *Autoplayer) Input(s *Session) core.InputFrame {
	if s.Phase() != PhasePlaying {
		a.still = 0
		a.jumping = false
		return core.NewInputFrame()
	}
	target, ok := a.target(s)
	if !ok {
		return core.NewInputFrame(core.ActionRight)
	}

	av := s.Avatar()
	if av.OnGround {
		a.jumping = false
	} else if !a.jumping {
		// Falling without a jump of its own, as on spawn: drop straight.
		a.still = 0
		return core.NewInputFrame()
	}
	in := a.steer(s, av, target)
	if av.OnGround && in.Has(core.ActionJump) {
		a.jumping = true
	}
	return in
}

func (a *Autoplayer) steer(s *Session, av physics.Body, target level.Anchor) core.InputFrame {
	in := core.NewInputFrame()
	dx := target.Rect.CenterX() - (av.X + av.W/2)
	dir := 1.0
	if dx < 0 {
		dir = -1
	}

	if a.stalled(s, av.X) {
		// A marker the straight jump cannot reach gets a running jump.
		in.Set(core.ActionJump)
		in.Set(direction(dir))
		return in
	}

	if math.Abs(dx) <= target.Rect.W/2 {
		in.Set(core.ActionJump)
		return in
	}
	in.Set(direction(dir))
	if (dir > 0 && av.OnWallRight) || (dir < 0 && av.OnWallLeft) {
		in.Set(core.ActionJump)
	} else if av.OnGround && a.hazardAhead(s, av.X, av.X+av.W, dir > 0) && !a.hopCrosses(s, dir, target) {
		in.Set(core.ActionJump)
	}
	return in
}

func direction(dir float64) core.Action {
	if dir < 0 {
		return core.ActionLeft
	}
	return core.ActionRight
}

// stalled counts ticks without horizontal progress and reports once the
// avatar has been stuck for a second.
func (a *Autoplayer) stalled(s *Session, x float64) bool {
	if math.Abs(x-a.lastX) < 0.5 {
		a.still++
	} else {
		a.still = 0
	}
	a.lastX = x
	if a.still < max(s.Config().TickRate, 1) {
		return false
	}
	a.still = 0
	return true
}

func (a *Autoplayer) target(s *Session) (level.Anchor, bool) {
	anchors := s.Anchors()
	q := s.Question()
	want := a.Choose(q, s.QuestionIndex())
	for _, an := range anchors {
		if an.Answer == want && !an.Revealed {
			return an, true
		}
	}
	for _, an := range anchors {
		if an.Correct {
			return an, true
		}
	}
	return level.Anchor{}, false
}

func (a *Autoplayer) hazardAhead(s *Session, left, right float64, forward bool) bool {
	for _, h := range s.Hazards() {
		if forward && h.Rect.X >= right && h.Rect.X-right < a.Lookahead {
			return true
		}
		if !forward && h.Rect.Right() <= left && left-h.Rect.Right() < a.Lookahead {
			return true
		}
	}
	return false
}

// hopCrosses reports whether a walking jump in direction dir would touch
// any marker other than target. Each step of the arc is swept down to the
// take-off height, which covers a jump cut short by a ceiling.
func (a *Autoplayer) hopCrosses(s *Session, dir float64, target level.Anchor) bool {
	cfg := s.Config()
	av := s.Avatar()
	dt := cfg.TickSeconds()
	x, y, vy := av.X, av.Y, -cfg.Physics.JumpSpeed
	for i := 0; i < 4*max(cfg.TickRate, 1); i++ {
		vy += cfg.Physics.Gravity * dt
		x += dir * cfg.WalkSpeed * dt
		y += vy * dt
		if y > av.Y {
			return false
		}
		swept := core.NewRectF(x, y, av.W, av.Y-y+av.H)
		for _, an := range s.Anchors() {
			if an.ID != target.ID && swept.Intersects(an.Rect) {
				return true
			}
		}
	}
	return true
}
