package runner

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/quiz-runner/internal/config"
	"github.com/vovakirdan/quiz-runner/internal/core"
	"github.com/vovakirdan/quiz-runner/internal/level"
	"github.com/vovakirdan/quiz-runner/internal/quiz"
)

// flatAssembler builds segments with flat ground and slots at fixed local
// positions.
type flatAssembler struct {
	width, height float64
	slotXs        []float64
	slotY         float64
	hazardXs      []float64
	assembled     int
}

func newFlat(slotY float64, slotXs ...float64) *flatAssembler {
	return &flatAssembler{width: 640, height: 360, slotXs: slotXs, slotY: slotY}
}

func (f *flatAssembler) Reset(int64) {
	f.assembled = 0
}

func (f *flatAssembler) Assemble(index int, _ quiz.Question) (*level.Segment, error) {
	f.assembled++
	const rows = 10
	tile := f.height / rows
	cols := int(math.Ceil(f.width / tile))
	data := make([][]int, rows)
	for r := range data {
		data[r] = make([]int, cols)
		for c := range data[r] {
			data[r][c] = level.Empty
			if r == rows-1 {
				data[r][c] = 2
			}
		}
	}
	off := float64(index) * f.width
	seg := &level.Segment{
		Index:  index,
		Offset: off,
		Width:  f.width,
		Height: f.height,
		StartX: off + 100,
		Layers: []level.Layer{
			level.NewLayer(level.LayerLandscape, level.MustGrid(data), off, tile, tile, func(c int) bool { return c == 2 }),
		},
	}
	for _, x := range f.slotXs {
		seg.Slots = append(seg.Slots, level.Slot{Rect: core.NewRectF(off+x, f.slotY, 32, 32)})
	}
	for _, x := range f.hazardXs {
		seg.Hazards = append(seg.Hazards, level.Hazard{Rect: core.NewRectF(off+x, f.height-2*tile, tile, tile), Code: 107})
	}
	return seg, nil
}

// groundSlot puts markers where a walking avatar runs into them.
const groundSlot = 290

func question(correct int, n int) quiz.Question {
	q := quiz.Question{Question: "q"}
	for i := 0; i < n; i++ {
		q.Answers = append(q.Answers, quiz.Answer{Text: quiz.Letter(i), Correct: i == correct})
	}
	return q
}

func newQuiz(qs ...quiz.Question) *quiz.Quiz {
	return &quiz.Quiz{ID: "test", Questions: qs}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Seed = 1
	return cfg
}

// walkUntil holds right until cond holds or the step budget runs out.
func walkUntil(t *testing.T, s *Session, cond func() bool) {
	t.Helper()
	right := core.NewInputFrame(core.ActionRight)
	for i := 0; i < 2000; i++ {
		if cond() {
			return
		}
		s.Step(right)
	}
	t.Fatalf("condition not reached; avatar at %.1f, phase %s", s.Avatar().X, s.Phase())
}

func TestNewRejectsEmptyQuiz(t *testing.T) {
	_, err := New(testConfig(), &quiz.Quiz{}, newFlat(groundSlot, 300))
	require.ErrorIs(t, err, quiz.ErrEmptyQuiz)

	_, err = New(testConfig(), nil, newFlat(groundSlot, 300))
	require.ErrorIs(t, err, quiz.ErrEmptyQuiz)
}

func TestNewRejectsInsufficientSlots(t *testing.T) {
	_, err := New(testConfig(), newQuiz(question(0, 4)), newFlat(groundSlot, 300, 400, 500))
	require.ErrorIs(t, err, level.ErrInsufficientSlots)
}

func TestSessionFreshState(t *testing.T) {
	s, err := New(testConfig(), newQuiz(question(0, 3), question(1, 3)), newFlat(groundSlot, 300, 400, 500))
	require.NoError(t, err)

	assert.Equal(t, Progress{QuizLength: 2, Lives: 3}, s.Progress())
	assert.Equal(t, PhasePlaying, s.Phase())
	assert.Len(t, s.Segments(), 1)
	assert.Len(t, s.Anchors(), 3)
	assert.Equal(t, 100.0, s.Avatar().X)

	b := s.Bounds()
	assert.Equal(t, 640.0, b.Camera.W)
	assert.True(t, b.Checks.Down)
}

func TestSingleQuestionFinishes(t *testing.T) {
	asm := newFlat(groundSlot, 300, 400, 500)
	s, err := New(testConfig(), newQuiz(question(0, 3)), asm)
	require.NoError(t, err)

	walkUntil(t, s, func() bool { return s.Phase() != PhasePlaying })

	assert.Equal(t, PhaseFinished, s.Phase())
	p := s.Progress()
	assert.Equal(t, 5, p.Points)
	assert.Equal(t, 1, p.QuizIndex)
	assert.False(t, p.Transitioning)
	assert.Equal(t, 1, asm.assembled, "no segment after the last question")
	assert.Empty(t, s.Anchors())

	res := s.Step(core.NewInputFrame(core.ActionRight))
	assert.True(t, res.State.GameOver)
	assert.Equal(t, 5, res.State.Score)

	sum := s.Summary()
	assert.True(t, sum.Completed)
	assert.Equal(t, 1, sum.Answered)
	assert.Equal(t, "test", sum.QuizID)
}

func TestTwoWrongAnswersKeepPlaying(t *testing.T) {
	s, err := New(testConfig(), newQuiz(question(2, 3), question(0, 3)), newFlat(groundSlot, 300, 400, 500))
	require.NoError(t, err)

	walkUntil(t, s, func() bool { return s.Avatar().X >= 445 })

	p := s.Progress()
	assert.Equal(t, 1, p.Lives)
	assert.Equal(t, 0, p.QuizIndex)
	assert.Equal(t, -2, p.Points)
	assert.Equal(t, PhasePlaying, s.Phase())

	anchors := s.Anchors()
	require.Len(t, anchors, 3)
	assert.True(t, anchors[0].Revealed)
	assert.True(t, anchors[1].Revealed)
	assert.False(t, anchors[2].Revealed)
}

func TestWrongThenCorrectTransitions(t *testing.T) {
	s, err := New(testConfig(), newQuiz(question(1, 3), question(0, 2)), newFlat(groundSlot, 300, 400, 500))
	require.NoError(t, err)

	walkUntil(t, s, func() bool { return s.Phase() != PhasePlaying })

	require.Equal(t, PhaseTransitioning, s.Phase())
	p := s.Progress()
	assert.Equal(t, 2, p.Lives)
	assert.Equal(t, 1, p.QuizIndex)
	assert.Equal(t, 4, p.Points)
	assert.True(t, p.Transitioning)
	assert.Empty(t, s.Anchors())
	assert.Len(t, s.Segments(), 2)
	assert.Equal(t, 0, s.QuestionIndex(), "overlay keeps the answered question until arrival")

	b := s.Bounds()
	assert.Equal(t, 1280.0, b.Camera.W)
	assert.False(t, b.Checks.Down)

	t.Run("autopilot reaches the next start line", func(t *testing.T) {
		x0 := s.Avatar().X
		left := core.NewInputFrame(core.ActionLeft)
		for i := 0; i < 600 && s.Phase() == PhaseTransitioning; i++ {
			s.Step(left)
			if s.Phase() == PhaseTransitioning {
				assert.Greater(t, s.Avatar().X, x0, "left input is ignored during a transition")
			}
			x0 = s.Avatar().X
		}
		require.Equal(t, PhasePlaying, s.Phase())
		// Input is restored on the arrival tick, so the avatar took one step left.
		assert.GreaterOrEqual(t, s.Avatar().X, 737.0)
		assert.True(t, s.Bounds().Checks.Down)
		assert.Equal(t, 1, s.QuestionIndex())
		assert.Len(t, s.Anchors(), 2)
		assert.GreaterOrEqual(t, s.Camera().X, 640.0)
	})
}

func TestLivesExhaustedFails(t *testing.T) {
	cfg := testConfig()
	cfg.Rules.Lives = 1
	s, err := New(cfg, newQuiz(question(2, 3), question(0, 3), question(0, 3)), newFlat(groundSlot, 300, 400, 500))
	require.NoError(t, err)

	walkUntil(t, s, func() bool { return s.Phase() != PhasePlaying })

	assert.Equal(t, PhaseFailed, s.Phase())
	assert.Equal(t, 0, s.Progress().Lives)
	assert.Equal(t, 0, s.Progress().QuizIndex)
	assert.False(t, s.Summary().Completed)
}

func TestHazardPenaltyRespectsCooldown(t *testing.T) {
	asm := newFlat(groundSlot, 500, 540, 580)
	asm.hazardXs = []float64{200}
	s, err := New(testConfig(), newQuiz(question(0, 3)), asm)
	require.NoError(t, err)
	require.Len(t, s.Hazards(), 1)

	walkUntil(t, s, func() bool { return s.Avatar().X >= 260 })

	assert.Equal(t, -1, s.Progress().Points)
	assert.Equal(t, 3, s.Progress().Lives)
}

func TestResetReproducesFreshSession(t *testing.T) {
	asm := newFlat(groundSlot, 300, 400, 500)
	s, err := New(testConfig(), newQuiz(question(0, 3)), asm)
	require.NoError(t, err)
	want := s.Progress()

	walkUntil(t, s, func() bool { return s.Phase() == PhaseFinished })
	s.Step(core.NewInputFrame(core.ActionRestart))

	assert.Equal(t, want, s.Progress())
	assert.Equal(t, Progress{QuizLength: 1, Lives: 3}, s.Progress())
	assert.Equal(t, PhasePlaying, s.Phase())
	assert.Len(t, s.Segments(), 1)
	assert.Len(t, s.Anchors(), 3)
	assert.Equal(t, 0, s.Ticks())
}

func TestPause(t *testing.T) {
	s, err := New(testConfig(), newQuiz(question(0, 3)), newFlat(groundSlot, 300, 400, 500))
	require.NoError(t, err)

	res := s.Step(core.NewInputFrame(core.ActionPause))
	assert.True(t, res.State.Paused)
	before := s.Avatar()
	s.Step(core.NewInputFrame(core.ActionRight))
	assert.Equal(t, before, s.Avatar())

	res = s.Step(core.NewInputFrame(core.ActionPause))
	assert.False(t, res.State.Paused)
}

func TestTimeLimitEndsRun(t *testing.T) {
	qc := config.DefaultQuizRunConfig()
	qc.Scoring.TimeLimit = 0.5
	cfg := FromConfig(qc, 1)
	require.Equal(t, 30, cfg.Rules.TimeLimitTicks)
	assert.Zero(t, FromConfig(config.DefaultQuizRunConfig(), 1).Rules.TimeLimitTicks)

	s, err := New(cfg, newQuiz(question(0, 2)), newFlat(230, 300, 400))
	require.NoError(t, err)
	scr := core.NewScreen(80, 24)
	s.Render(scr)
	assert.Contains(t, scr.Row(0), "Time 1s")

	idle := core.NewInputFrame()
	for i := 0; i < 29; i++ {
		s.Step(idle)
	}
	require.Equal(t, PhasePlaying, s.Phase())

	res := s.Step(idle)
	assert.True(t, res.State.GameOver)
	assert.Equal(t, PhaseFailed, s.Phase())
	sum := s.Summary()
	assert.True(t, sum.TimedOut)
	assert.False(t, sum.Completed)
	assert.Equal(t, 3, sum.Lives)

	scr = core.NewScreen(80, 24)
	s.Render(scr)
	assert.Contains(t, scr.String(), "TIME UP")

	require.NoError(t, s.Reset())
	assert.Equal(t, PhasePlaying, s.Phase())
	assert.False(t, s.Summary().TimedOut)
}

func TestAutoplayerFinishesAirborneMarkers(t *testing.T) {
	s, err := New(testConfig(), newQuiz(question(2, 3), question(1, 3)), newFlat(230, 250, 350, 450))
	require.NoError(t, err)

	ap := NewAutoplayer(ChooseCorrect)
	for i := 0; i < 3000 && !s.Phase().Terminal(); i++ {
		s.Step(ap.Input(s))
	}
	require.Equal(t, PhaseFinished, s.Phase())
	assert.Equal(t, 10, s.Progress().Points)
	assert.Equal(t, 3, s.Progress().Lives)
}

func TestProceduralSessionIsDeterministic(t *testing.T) {
	run := func() (Progress, []level.Anchor, string) {
		cfg := testConfig()
		cfg.Seed = 99
		asm, err := level.NewProcedural(level.DefaultProceduralOptions(cfg.Width, cfg.Height), cfg.Seed)
		require.NoError(t, err)
		s, err := New(cfg, newQuiz(question(0, 4), question(3, 4)), asm)
		require.NoError(t, err)
		ap := NewAutoplayer(ChooseFirst)
		for i := 0; i < 400; i++ {
			s.Step(ap.Input(s))
		}
		scr := core.NewScreen(80, 24)
		s.Render(scr)
		return s.Progress(), s.Anchors(), scr.String()
	}

	p1, a1, f1 := run()
	p2, a2, f2 := run()
	assert.Equal(t, p1, p2)
	assert.Equal(t, a1, a2)
	assert.Equal(t, f1, f2)
}

func TestRender(t *testing.T) {
	s, err := New(testConfig(), newQuiz(quiz.Question{
		Question: "Largest planet?",
		Answers: []quiz.Answer{
			{Text: "Jupiter", Correct: true},
			{Text: "Mars"},
		},
	}), newFlat(groundSlot, 300, 400))
	require.NoError(t, err)

	for i := 0; i < 60; i++ {
		s.Step(core.NewInputFrame())
	}
	scr := core.NewScreen(80, 24)
	s.Render(scr)

	assert.Contains(t, scr.Row(0), "Question 1/1")
	assert.Contains(t, scr.Row(0), "Lives ♥♥♥")
	assert.Contains(t, scr.Row(1), "Largest planet?")
	assert.Contains(t, scr.Row(2), "a) Jupiter")
	assert.Contains(t, scr.Row(2), "b) Mars")
	assert.Equal(t, string(GlyphGround), string(scr.Get(0, 23)))
	assert.True(t, strings.ContainsRune(scr.String(), GlyphAvatar))
	assert.True(t, strings.ContainsRune(scr.String(), GlyphMarker))

	walkUntil(t, s, func() bool { return s.Phase() == PhaseFinished })
	s.Render(scr)
	assert.Contains(t, scr.String(), "QUIZ COMPLETE")
	assert.Contains(t, scr.String(), "Points: 5")
}
