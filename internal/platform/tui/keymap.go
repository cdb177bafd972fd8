package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/quiz-runner/internal/core"
)

// KeyMap defines the key bindings of the play view.
type KeyMap struct {
	Left       key.Binding
	Right      key.Binding
	Jump       key.Binding
	Pause      key.Binding
	Restart    key.Binding
	Screenshot key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Jump, k.Pause, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Jump},
		{k.Pause, k.Restart, k.Screenshot},
		{k.Help, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "a", "h"),
			key.WithHelp("←/a", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d", "l"),
			key.WithHelp("→/d", "right"),
		),
		Jump: key.NewBinding(
			key.WithKeys(" ", "up", "w", "k"),
			key.WithHelp("space/↑", "jump"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", "esc"),
			key.WithHelp("p", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "play again"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Action maps a key to a game action, or ActionNone.
func (k KeyMap) Action(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	case key.Matches(msg, k.Left):
		return core.ActionLeft
	case key.Matches(msg, k.Right):
		return core.ActionRight
	case key.Matches(msg, k.Jump):
		return core.ActionJump
	case key.Matches(msg, k.Pause):
		return core.ActionPause
	case key.Matches(msg, k.Restart):
		return core.ActionRestart
	}
	return core.ActionNone
}

// HeldInput turns key presses into per-tick input frames. Terminals report
// presses but not releases, so a direction stays held for a number of ticks
// after its last press. Key repeat keeps it held while the key is down.
// Other actions last one frame.
type HeldInput struct {
	hold int
	held map[core.Action]int
	once core.InputFrame
}

// NewHeldInput creates a held input with the given hold window in ticks.
func NewHeldInput(holdTicks int) *HeldInput {
	if holdTicks < 1 {
		holdTicks = 1
	}
	return &HeldInput{
		hold: holdTicks,
		held: make(map[core.Action]int),
		once: core.NewInputFrame(),
	}
}

// Press records a key press.
func (h *HeldInput) Press(a core.Action) {
	switch a {
	case core.ActionNone:
	case core.ActionLeft:
		h.held[core.ActionLeft] = h.hold
		delete(h.held, core.ActionRight)
	case core.ActionRight:
		h.held[core.ActionRight] = h.hold
		delete(h.held, core.ActionLeft)
	default:
		h.once.Set(a)
	}
}

// Frame returns the input for the current tick.
func (h *HeldInput) Frame() core.InputFrame {
	f := core.NewInputFrame()
	for a, n := range h.held {
		if n > 0 {
			f.Set(a)
		}
	}
	for a, on := range h.once.Actions {
		if on {
			f.Set(a)
		}
	}
	return f
}

// Advance ages held directions and drops one-frame actions.
func (h *HeldInput) Advance() {
	for a, n := range h.held {
		if n <= 1 {
			delete(h.held, a)
			continue
		}
		h.held[a] = n - 1
	}
	h.once.Clear()
}

// Release drops everything, e.g. after a restart.
func (h *HeldInput) Release() {
	for a := range h.held {
		delete(h.held, a)
	}
	h.once.Clear()
}
