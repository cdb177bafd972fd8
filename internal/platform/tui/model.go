package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/quiz-runner/internal/core"
	"github.com/vovakirdan/quiz-runner/internal/runner"
	"github.com/vovakirdan/quiz-runner/internal/storage"
)

// Minimum terminal size for a readable frame.
const (
	minWidth  = 40
	minHeight = 12
)

// ResultSaver persists finished runs.
type ResultSaver interface {
	SaveResult(r storage.Result) (int64, error)
}

// Options configures a play model.
type Options struct {
	// Store records the summary once per finished run. May be nil.
	Store ResultSaver
	// Player is stored with results, e.g. the SSH user.
	Player string
	// Autoplay drives the avatar instead of the keyboard.
	Autoplay *runner.Autoplayer
	Logger   *log.Logger
	Width    int
	Height   int
}

// Model is the Bubble Tea model for playing one quiz session.
type Model struct {
	session  *runner.Session
	screen   *core.Screen
	opts     Options
	keys     KeyMap
	help     help.Model
	input    *HeldInput
	tickRate int
	width    int
	height   int
	quitting bool
	saved    bool // Whether the current run has been recorded
}

// NewModel creates a play model around a session.
func NewModel(session *runner.Session, tickRate int, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		cfg := core.DefaultConfig()
		opts.Width, opts.Height = cfg.ScreenW, cfg.ScreenH
	}
	if tickRate <= 0 {
		tickRate = 60
	}
	m := Model{
		session:  session,
		opts:     opts,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		input:    NewHeldInput(tickRate / 4),
		tickRate: tickRate,
	}
	m.screen = core.NewScreen(1, 1)
	m.resize(opts.Width, opts.Height)
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.tickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// resize fits the world view into the terminal, keeping a line for help.
func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width
	m.screen.Resize(core.Max(width, 1), core.Max(height-1, 1))
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	}

	action := m.keys.Action(msg)
	if action == core.ActionRestart && !m.gameOver() {
		return m, nil
	}
	if m.opts.Autoplay != nil && action != core.ActionRestart && action != core.ActionPause {
		return m, nil
	}
	m.input.Press(action)
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	frame := m.input.Frame()
	if m.opts.Autoplay != nil && !frame.Has(core.ActionRestart) && !frame.Has(core.ActionPause) {
		frame = m.opts.Autoplay.Input(m.session)
	}

	restarting := frame.Has(core.ActionRestart)
	result := m.session.Step(frame)
	if restarting {
		m.saved = false
		m.input.Release()
	} else {
		m.input.Advance()
	}

	m.record(result.State)
	return m, tickCmd(m.tickRate)
}

// record saves the run summary the first time the session is over.
func (m *Model) record(state core.GameState) {
	if !state.GameOver || m.saved {
		return
	}
	m.saved = true

	sum := m.session.Summary()
	m.opts.Logger.Info("run finished",
		"quiz", sum.QuizID,
		"points", sum.Points,
		"answered", sum.Answered,
		"total", sum.Total,
		"completed", sum.Completed,
	)
	if m.opts.Store == nil {
		return
	}
	if _, err := m.opts.Store.SaveResult(storage.Result{
		QuizID:    sum.QuizID,
		Player:    m.opts.Player,
		Points:    sum.Points,
		Lives:     sum.Lives,
		Answered:  sum.Answered,
		Total:     sum.Total,
		Completed: sum.Completed,
		Ticks:     sum.Ticks,
	}); err != nil {
		m.opts.Logger.Warn("could not save result", "err", err)
	}
}

func (m Model) gameOver() bool {
	return m.session.Err() != nil || m.session.Phase().Terminal()
}

// saveScreenshot writes the current frame as plain text.
func (m *Model) saveScreenshot() {
	m.session.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".quizrun", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	name := fmt.Sprintf("%s_%s.txt", m.session.Quiz().ID, time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, name), []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width < minWidth || m.height < minHeight {
		return renderTooSmall(m.width, m.height)
	}

	m.session.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// Saved reports whether the current run has been recorded.
func (m Model) Saved() bool {
	return m.saved
}

// Run starts the Bubble Tea program for a session.
func Run(session *runner.Session, tickRate int, opts Options) error {
	model := NewModel(session, tickRate, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
