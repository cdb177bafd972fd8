package strategy

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/quiz-runner/internal/config"
	"github.com/vovakirdan/quiz-runner/internal/level"
	"github.com/vovakirdan/quiz-runner/internal/quiz"
	"github.com/vovakirdan/quiz-runner/internal/registry"
	"github.com/vovakirdan/quiz-runner/levels"
)

func fourAnswers() quiz.Question {
	return quiz.Question{
		Question: "Which is a prime?",
		Answers: []quiz.Answer{
			{Text: "4"}, {Text: "6"}, {Text: "7", Correct: true}, {Text: "9"},
		},
	}
}

func TestRegistered(t *testing.T) {
	assert.True(t, registry.Exists(Procedural))
	assert.True(t, registry.Exists(Authored))

	ids := make([]string, 0)
	for _, info := range registry.List() {
		ids = append(ids, info.ID)
		assert.NotEmpty(t, info.Description)
	}
	assert.Equal(t, []string{Authored, Procedural}, ids)
}

func TestProceduralFromConfig(t *testing.T) {
	cfg := config.DefaultQuizRunConfig()
	asm, err := registry.Create(Procedural, registry.Env{Config: cfg, Seed: 7})
	require.NoError(t, err)

	seg, err := asm.Assemble(0, fourAnswers())
	require.NoError(t, err)
	assert.Equal(t, 0.0, seg.Offset)
	assert.Equal(t, cfg.Screen.Width, seg.Width)
	assert.Equal(t, cfg.Screen.Width/3, seg.StartX)

	next, err := asm.Assemble(1, fourAnswers())
	require.NoError(t, err)
	assert.Equal(t, cfg.Screen.Width, next.Offset)
}

func TestProceduralHazardsFollowDifficulty(t *testing.T) {
	cfg := config.DefaultQuizRunConfig()
	cfg.Level.HazardChance = 0
	cfg.Difficulty.Enabled = false
	asm, err := registry.Create(Procedural, registry.Env{Config: cfg, Seed: 3})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		seg, err := asm.Assemble(i, fourAnswers())
		require.NoError(t, err)
		for _, h := range seg.Hazards {
			// Only the seed grid may carry hazards when the chance is zero.
			assert.Less(t, h.Rect.X, cfg.Screen.Width)
		}
	}
}

func TestAuthoredShippedMaps(t *testing.T) {
	cfg := config.DefaultQuizRunConfig()
	cfg.Level.Strategy = Authored
	asm, err := registry.Create(Authored, registry.Env{Config: cfg, Maps: levels.FS})
	require.NoError(t, err)

	var end float64
	for i := 0; i < len(cfg.Level.Maps)*2; i++ {
		seg, err := asm.Assemble(i, fourAnswers())
		require.NoError(t, err, "segment %d", i)
		assert.Equal(t, end, seg.Offset, "segments are contiguous")
		assert.Len(t, seg.Slots, 4)
		_, ok := seg.Layer(level.LayerLandscape)
		assert.True(t, ok)
		end = seg.End()
	}
}

func TestAuthoredUnknownMap(t *testing.T) {
	cfg := config.DefaultQuizRunConfig()
	cfg.Level.Maps = []string{"nowhere"}
	asm, err := registry.Create(Authored, registry.Env{Config: cfg, Maps: fstest.MapFS{}})
	require.NoError(t, err)

	_, err = asm.Assemble(0, fourAnswers())
	assert.ErrorIs(t, err, level.ErrMapNotFound)
}

func TestMapsFS(t *testing.T) {
	explicit := fstest.MapFS{"a.yaml": {Data: []byte("x")}}
	assert.Equal(t, fs.FS(explicit), MapsFS(explicit, "levels"))
	assert.Equal(t, fs.FS(levels.FS), MapsFS(nil, t.TempDir()+"/missing"))

	dir := t.TempDir()
	_, ok := MapsFS(nil, dir).(fs.StatFS)
	assert.True(t, ok)
}
