package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/quiz-runner/internal/config"
	"github.com/vovakirdan/quiz-runner/internal/core"
	"github.com/vovakirdan/quiz-runner/internal/level/strategy"
	"github.com/vovakirdan/quiz-runner/internal/quiz"
	"github.com/vovakirdan/quiz-runner/internal/registry"
)

// shippedSession builds a session the way the CLI does with the default
// configuration file.
func shippedSession(t *testing.T, id string, seed int64, q *quiz.Quiz) *Session {
	t.Helper()
	qc := config.DefaultQuizRunConfig()
	asm, err := registry.Create(id, registry.Env{Config: qc, Seed: seed})
	require.NoError(t, err)
	s, err := New(FromConfig(qc, seed), q, asm)
	require.NoError(t, err)
	return s
}

func fourAnswerQuiz(n int) *quiz.Quiz {
	qs := make([]quiz.Question, n)
	for i := range qs {
		qs[i] = question(i%4, 4)
	}
	return newQuiz(qs...)
}

func TestFreePlacementWithDefaults(t *testing.T) {
	leftFirst, rightFirst := 0, 0
	for seed := int64(1); seed <= 60; seed++ {
		s := shippedSession(t, strategy.Procedural, seed, fourAnswerQuiz(1))
		cfg := s.Config()
		seg := s.Segments()[0]
		cam := s.Camera()
		view := cam.View()
		anchors := s.Anchors()
		require.Len(t, anchors, 4)

		for i, a := range anchors {
			r := a.Rect
			assert.GreaterOrEqual(t, r.X, seg.StartX+cfg.MarkerSize, "seed %d", seed)
			assert.LessOrEqual(t, r.Right(), view.Right()-cfg.MarkerSize, "seed %d", seed)
			assert.GreaterOrEqual(t, r.Y, cfg.Height*cfg.MarkerTop, "seed %d", seed)
			assert.LessOrEqual(t, r.Bottom(), cfg.Height*(cfg.MarkerTop+cfg.MarkerBand), "seed %d", seed)
			assert.True(t, s.reachable(r), "seed %d marker %d", seed, i)
			for j := i + 1; j < len(anchors); j++ {
				assert.False(t, r.Intersects(anchors[j].Rect), "seed %d markers %d and %d overlap", seed, i, j)
			}
		}
		if anchors[0].Rect.X < anchors[1].Rect.X {
			leftFirst++
		} else {
			rightFirst++
		}
	}
	assert.Positive(t, leftFirst)
	assert.Positive(t, rightFirst, "markers always appear in answer order")
}

func TestFreePlacementAvoidsSolidTiles(t *testing.T) {
	for seed := int64(1); seed <= 200; seed++ {
		s := shippedSession(t, strategy.Procedural, seed, fourAnswerQuiz(1))
		seg := s.Segments()[0]
		for _, a := range s.Anchors() {
			r := a.Rect
			for y := r.Y; y < r.Bottom(); y += 2 {
				for x := r.X; x < r.Right(); x += 2 {
					require.False(t, seg.SolidAt(x, y), "seed %d: marker at (%.0f,%.0f) covers a tile at (%.0f,%.0f)", seed, r.X, r.Y, x, y)
				}
			}
		}
	}
}

func TestReachable(t *testing.T) {
	// Flat ground at y=324, no platforms.
	s, err := New(testConfig(), newQuiz(question(0, 2)), newFlat(groundSlot, 300, 400))
	require.NoError(t, err)

	assert.True(t, s.reachable(core.NewRectF(300, 230, 32, 32)))
	assert.False(t, s.reachable(core.NewRectF(300, 310, 32, 32)), "inside the ground")
	assert.False(t, s.reachable(core.NewRectF(300, 270, 32, 32)), "no room to stand under it")
	assert.False(t, s.reachable(core.NewRectF(300, 20, 32, 32)), "above the jump")
}

func TestAutoplayerFinishesShippedLevels(t *testing.T) {
	for _, id := range []string{strategy.Procedural, strategy.Authored} {
		t.Run(id, func(t *testing.T) {
			for seed := int64(1); seed <= 40; seed++ {
				s := shippedSession(t, id, seed, fourAnswerQuiz(5))
				ap := NewAutoplayer(ChooseCorrect)
				for i := 0; i < 20000 && !s.Phase().Terminal(); i++ {
					s.Step(ap.Input(s))
				}
				require.NoError(t, s.Err(), "seed %d", seed)
				require.Equal(t, PhaseFinished, s.Phase(), "seed %d: avatar at %.0f", seed, s.Avatar().X)
				assert.Equal(t, 3, s.Progress().Lives, "seed %d: a wrong marker was struck", seed)
			}
		})
	}
}

func TestAutoplayerDropsStraightOnSpawn(t *testing.T) {
	s, err := New(testConfig(), newQuiz(question(1, 2)), newFlat(230, 150, 300))
	require.NoError(t, err)
	ap := NewAutoplayer(ChooseCorrect)
	startX := s.Avatar().X

	for i := 0; i < 200 && !s.Avatar().OnGround; i++ {
		s.Step(ap.Input(s))
	}
	require.True(t, s.Avatar().OnGround)
	assert.Equal(t, startX, s.Avatar().X)
}

func TestAutoplayerSkipsHopThroughMarkers(t *testing.T) {
	// A hazard just ahead of the avatar with a wrong marker over it: hopping
	// would strike the marker, so the hazard is walked through instead.
	flat := newFlat(230, 160, 420)
	flat.hazardXs = []float64{140}
	s, err := New(testConfig(), newQuiz(question(1, 2)), flat)
	require.NoError(t, err)

	ap := NewAutoplayer(ChooseCorrect)
	for i := 0; i < 3000 && !s.Phase().Terminal(); i++ {
		s.Step(ap.Input(s))
	}
	require.Equal(t, PhaseFinished, s.Phase())
	assert.Equal(t, 3, s.Progress().Lives)
	assert.Equal(t, 4, s.Progress().Points, "one hazard point, the correct answer reward")
}
