// Package runner drives a quiz run: the progression state machine and the
// session that composes assembly, bounds, placement and physics per tick.
package runner

// Phase is the progression state of a run.
type Phase int

const (
	PhasePlaying Phase = iota
	PhaseTransitioning
	PhaseFinished
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhaseTransitioning:
		return "transitioning"
	case PhaseFinished:
		return "finished"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions are possible.
func (p Phase) Terminal() bool {
	return p == PhaseFinished || p == PhaseFailed
}

// Progress is the scoring state shown to the player.
type Progress struct {
	QuizIndex     int
	QuizLength    int
	Points        int
	Lives         int
	Transitioning bool
	// TimedOut is set when the run failed on the time limit.
	TimedOut bool
}

// Rules are the scoring constants.
type Rules struct {
	Lives           int
	CorrectReward   int
	WrongLifeCost   int
	WrongPointCost  int
	HazardPointCost int
	CooldownTicks   int
	// TimeLimitTicks ends the run as failed once that many ticks have
	// passed. Zero means no limit.
	TimeLimitTicks int
}

// DefaultRules returns the standard scoring: three lives, +5 for a correct
// answer, one life and one point for a wrong one, one point for a hazard,
// and a one second penalty cooldown at 60 ticks per second.
func DefaultRules() Rules {
	return Rules{
		Lives:           3,
		CorrectReward:   5,
		WrongLifeCost:   1,
		WrongPointCost:  1,
		HazardPointCost: 1,
		CooldownTicks:   60,
	}
}

// EventKind identifies what a strike did.
type EventKind int

const (
	// EventIgnored means the strike had no effect.
	EventIgnored EventKind = iota
	EventCorrect
	EventFinished
	EventWrong
	EventFailed
	EventHazard
	EventArrived
	EventTimeUp
)

func (k EventKind) String() string {
	switch k {
	case EventIgnored:
		return "ignored"
	case EventCorrect:
		return "correct"
	case EventFinished:
		return "finished"
	case EventWrong:
		return "wrong"
	case EventFailed:
		return "failed"
	case EventHazard:
		return "hazard"
	case EventArrived:
		return "arrived"
	case EventTimeUp:
		return "time up"
	default:
		return "unknown"
	}
}

// Event is the outcome of one machine input with the resulting progress.
type Event struct {
	Kind     EventKind
	Phase    Phase
	Progress Progress
}

// Machine is the progression state machine. It owns Progress; nothing else
// writes it.
type Machine struct {
	rules    Rules
	phase    Phase
	progress Progress
	cooldown int
	elapsed  int
}

// NewMachine creates a machine for a quiz of length n.
func NewMachine(rules Rules, n int) *Machine {
	m := &Machine{rules: rules}
	m.Reset(n)
	return m
}

// Reset returns to the fresh state for a quiz of length n.
func (m *Machine) Reset(n int) {
	m.phase = PhasePlaying
	m.progress = Progress{QuizLength: n, Lives: m.rules.Lives}
	m.cooldown = 0
	m.elapsed = 0
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	return m.phase
}

// Progress returns a copy of the progress.
func (m *Machine) Progress() Progress {
	return m.progress
}

// InputLocked reports whether player input is overridden by autopilot.
func (m *Machine) InputLocked() bool {
	return m.phase == PhaseTransitioning
}

// Cooling reports whether the penalty cooldown is running.
func (m *Machine) Cooling() bool {
	return m.cooldown > 0
}

// Tick advances the cooldown and the run clock by one tick.
func (m *Machine) Tick() Event {
	if m.cooldown > 0 {
		m.cooldown--
	}
	if m.phase.Terminal() {
		return m.event(EventIgnored)
	}
	m.elapsed++
	if m.rules.TimeLimitTicks > 0 && m.elapsed >= m.rules.TimeLimitTicks {
		m.phase = PhaseFailed
		m.progress.Transitioning = false
		m.progress.TimedOut = true
		return m.event(EventTimeUp)
	}
	return m.event(EventIgnored)
}

// TimeLeft returns the ticks left before the time limit, or -1 when the
// run is untimed.
func (m *Machine) TimeLeft() int {
	if m.rules.TimeLimitTicks <= 0 {
		return -1
	}
	return max(m.rules.TimeLimitTicks-m.elapsed, 0)
}

func (m *Machine) event(k EventKind) Event {
	return Event{Kind: k, Phase: m.phase, Progress: m.progress}
}

// StrikeCorrect handles the avatar touching the correct anchor. The last
// question finishes the run, any other starts a transition.
func (m *Machine) StrikeCorrect() Event {
	if m.phase != PhasePlaying {
		return m.event(EventIgnored)
	}
	m.progress.Points += m.rules.CorrectReward
	m.progress.QuizIndex++
	if m.progress.QuizIndex >= m.progress.QuizLength {
		m.phase = PhaseFinished
		return m.event(EventFinished)
	}
	m.phase = PhaseTransitioning
	m.progress.Transitioning = true
	return m.event(EventCorrect)
}

// StrikeWrong handles the avatar touching a wrong anchor. A fresh anchor
// always costs a life; touching an already revealed one costs points only
// and only outside the cooldown.
func (m *Machine) StrikeWrong(fresh bool) Event {
	if m.phase != PhasePlaying {
		return m.event(EventIgnored)
	}
	if !fresh {
		if m.cooldown > 0 {
			return m.event(EventIgnored)
		}
		m.progress.Points -= m.rules.WrongPointCost
		m.cooldown = m.rules.CooldownTicks
		return m.event(EventWrong)
	}
	m.progress.Lives -= m.rules.WrongLifeCost
	m.progress.Points -= m.rules.WrongPointCost
	m.cooldown = m.rules.CooldownTicks
	if m.progress.Lives <= 0 {
		m.progress.Lives = 0
		m.phase = PhaseFailed
		return m.event(EventFailed)
	}
	return m.event(EventWrong)
}

// StrikeHazard handles the avatar touching a hazard.
func (m *Machine) StrikeHazard() Event {
	if m.phase != PhasePlaying || m.cooldown > 0 {
		return m.event(EventIgnored)
	}
	m.progress.Points -= m.rules.HazardPointCost
	m.cooldown = m.rules.CooldownTicks
	return m.event(EventHazard)
}

// Arrive ends a transition once the avatar crossed the new start line.
func (m *Machine) Arrive() Event {
	if m.phase != PhaseTransitioning {
		return m.event(EventIgnored)
	}
	m.phase = PhasePlaying
	m.progress.Transitioning = false
	return m.event(EventArrived)
}
