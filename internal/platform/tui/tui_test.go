package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/quiz-runner/internal/core"
	"github.com/vovakirdan/quiz-runner/internal/level"
	"github.com/vovakirdan/quiz-runner/internal/quiz"
	"github.com/vovakirdan/quiz-runner/internal/runner"
	"github.com/vovakirdan/quiz-runner/internal/storage"
	"github.com/vovakirdan/quiz-runner/quizzes"
)

type fakeStore struct {
	saved   []storage.Result
	err     error
	results map[string][]storage.Result
}

func (f *fakeStore) SaveResult(r storage.Result) (int64, error) {
	f.saved = append(f.saved, r)
	return int64(len(f.saved)), f.err
}

func (f *fakeStore) TopResults(quizID string, _ int) ([]storage.Result, error) {
	return f.results[quizID], nil
}

func (f *fakeStore) GetAllQuizStats() (map[string]*storage.QuizStats, error) {
	out := make(map[string]*storage.QuizStats)
	for id, rs := range f.results {
		out[id] = &storage.QuizStats{QuizID: id, Runs: len(rs)}
	}
	return out, nil
}

func newSession(t *testing.T) *runner.Session {
	t.Helper()
	q, err := quiz.FSSource{FS: quizzes.FS, Name: quizzes.Demo}.Load(context.Background())
	require.NoError(t, err)
	asm, err := level.NewProcedural(level.DefaultProceduralOptions(640, 360), 1)
	require.NoError(t, err)
	s, err := runner.New(runner.DefaultConfig(), q, asm)
	require.NoError(t, err)
	return s
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyMapActions(t *testing.T) {
	keys := DefaultKeyMap()
	tests := []struct {
		msg  tea.KeyMsg
		want core.Action
	}{
		{tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft},
		{keyRunes("a"), core.ActionLeft},
		{tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight},
		{keyRunes("d"), core.ActionRight},
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionJump},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionJump},
		{keyRunes("p"), core.ActionPause},
		{keyRunes("r"), core.ActionRestart},
		{keyRunes("q"), core.ActionQuit},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{keyRunes("z"), core.ActionNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, keys.Action(tt.msg), tt.msg.String())
	}
}

func TestHeldInput(t *testing.T) {
	h := NewHeldInput(3)

	h.Press(core.ActionRight)
	h.Press(core.ActionJump)
	f := h.Frame()
	assert.True(t, f.Has(core.ActionRight))
	assert.True(t, f.Has(core.ActionJump))

	h.Advance()
	f = h.Frame()
	assert.True(t, f.Has(core.ActionRight), "direction stays held")
	assert.False(t, f.Has(core.ActionJump), "jump lasts one frame")

	h.Advance()
	h.Advance()
	assert.False(t, h.Frame().Has(core.ActionRight), "released after the hold window")

	h.Press(core.ActionRight)
	h.Press(core.ActionLeft)
	f = h.Frame()
	assert.True(t, f.Has(core.ActionLeft))
	assert.False(t, f.Has(core.ActionRight), "opposite direction cancels")

	h.Press(core.ActionPause)
	h.Release()
	assert.Empty(t, h.Frame().Actions)
}

func TestModelTicksAndRenders(t *testing.T) {
	m := NewModel(newSession(t), 60, Options{Width: 80, Height: 24})
	assert.NotNil(t, m.Init())

	next, cmd := m.Update(TickMsg{})
	assert.NotNil(t, cmd, "tick loop continues")
	m = next.(Model)

	view := m.View()
	assert.Contains(t, view, "Question 1/")
	assert.Contains(t, view, "quit")
	assert.Len(t, strings.Split(view, "\n"), 24)
}

func TestModelTooSmall(t *testing.T) {
	m := NewModel(newSession(t), 60, Options{Width: 80, Height: 24})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 6})
	assert.Contains(t, next.(Model).View(), "Terminal too small")
}

func TestModelQuit(t *testing.T) {
	m := NewModel(newSession(t), 60, Options{})
	next, cmd := m.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, next.(Model).View())
}

func TestModelMovesAvatar(t *testing.T) {
	s := newSession(t)
	m := NewModel(s, 60, Options{Width: 80, Height: 24})
	for i := 0; i < 60; i++ {
		next, _ := m.Update(TickMsg{})
		m = next.(Model)
	}
	startX := s.Avatar().X

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(Model)
	for i := 0; i < 10; i++ {
		next, _ = m.Update(TickMsg{})
		m = next.(Model)
	}
	assert.Greater(t, s.Avatar().X, startX)
}

func TestModelRestartIgnoredWhilePlaying(t *testing.T) {
	s := newSession(t)
	m := NewModel(s, 60, Options{})
	for i := 0; i < 30; i++ {
		next, _ := m.Update(TickMsg{})
		m = next.(Model)
	}
	ticks := s.Ticks()

	next, _ := m.Update(keyRunes("r"))
	m = next.(Model)
	m.Update(TickMsg{})
	assert.Equal(t, ticks+1, s.Ticks(), "restart only applies after the run ends")
}

func TestModelRecordsOnce(t *testing.T) {
	store := &fakeStore{}
	m := NewModel(newSession(t), 60, Options{Store: store, Player: "ann"})

	m.record(core.GameState{})
	assert.Empty(t, store.saved)

	m.record(core.GameState{GameOver: true})
	m.record(core.GameState{GameOver: true})
	require.Len(t, store.saved, 1)
	assert.Equal(t, "demo", store.saved[0].QuizID)
	assert.Equal(t, "ann", store.saved[0].Player)
	assert.True(t, m.Saved())
}

func TestModelRecordSurvivesStoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("read-only")}
	m := NewModel(newSession(t), 60, Options{Store: store})
	m.record(core.GameState{GameOver: true})
	assert.True(t, m.Saved())
}

func TestResultsModel(t *testing.T) {
	store := &fakeStore{results: map[string][]storage.Result{
		"demo":     {{QuizID: "demo", Points: 15, Answered: 3, Total: 3, Completed: true, Player: "ann"}},
		"capitals": {{QuizID: "capitals", Points: 5, Answered: 1, Total: 2}},
	}}

	m := NewResultsModel(store, "demo", 100, 30)
	assert.Equal(t, []string{"capitals", "demo"}, m.Quizzes())
	assert.Equal(t, "demo", m.Selected())
	view := m.View()
	assert.Contains(t, view, "RESULTS - demo")
	assert.Contains(t, view, "complete")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ResultsModel)
	assert.Equal(t, "capitals", m.Selected())

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, "demo", next.(ResultsModel).Selected())
}

func TestResultsModelEmpty(t *testing.T) {
	m := NewResultsModel(nil, "", 60, 20)
	assert.Equal(t, "", m.Selected())
	assert.Contains(t, m.View(), "No runs recorded yet")
}
