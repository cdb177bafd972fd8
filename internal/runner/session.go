package runner

import (
	"fmt"
	"io"
	"math"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/quiz-runner/internal/config"
	"github.com/vovakirdan/quiz-runner/internal/core"
	"github.com/vovakirdan/quiz-runner/internal/level"
	"github.com/vovakirdan/quiz-runner/internal/physics"
	"github.com/vovakirdan/quiz-runner/internal/quiz"
	"github.com/vovakirdan/quiz-runner/internal/world"
)

// Config holds the world settings of a session. Distances are world pixels
// and speeds pixels per second.
type Config struct {
	Width, Height float64
	TickRate      int
	Seed          int64

	Rules   Rules
	Physics physics.Params

	WalkSpeed      float64
	AutopilotSpeed float64
	AvatarW        float64
	AvatarH        float64
	// BottomSlack is the room below the screen inside the physics bounds.
	BottomSlack float64

	MarkerSize        float64
	PlacementRadius   float64
	PlacementAttempts int
	// MarkerTop and MarkerBand are fractions of Height delimiting the band
	// where free placement puts answer markers.
	MarkerTop  float64
	MarkerBand float64
}

// DefaultConfig returns the settings for a 640x360 world at 60 ticks.
func DefaultConfig() Config {
	return Config{
		Width:             640,
		Height:            360,
		TickRate:          60,
		Rules:             DefaultRules(),
		Physics:           physics.DefaultParams(),
		WalkSpeed:         160,
		AutopilotSpeed:    200,
		AvatarW:           20,
		AvatarH:           28,
		BottomSlack:       36,
		MarkerSize:        32,
		PlacementRadius:   96,
		PlacementAttempts: 32,
		MarkerTop:         0.5,
		MarkerBand:        0.3,
	}
}

// FromConfig maps a loaded run configuration onto session settings.
// Zero values in c keep the defaults.
func FromConfig(c config.QuizRunConfig, seed int64) Config {
	cfg := DefaultConfig()
	cfg.Seed = seed
	setF(&cfg.Width, c.Screen.Width)
	setF(&cfg.Height, c.Screen.Height)
	setI(&cfg.TickRate, c.Screen.TickRate)

	setI(&cfg.Rules.Lives, c.Scoring.Lives)
	setI(&cfg.Rules.CorrectReward, c.Scoring.CorrectReward)
	setI(&cfg.Rules.WrongLifeCost, c.Scoring.WrongLifeCost)
	setI(&cfg.Rules.WrongPointCost, c.Scoring.WrongPointCost)
	setI(&cfg.Rules.HazardPointCost, c.Scoring.HazardPointCost)
	setI(&cfg.Rules.CooldownTicks, c.Scoring.CooldownTicks)
	if c.Scoring.TimeLimit > 0 {
		cfg.Rules.TimeLimitTicks = int(math.Round(c.Scoring.TimeLimit * float64(cfg.TickRate)))
	}

	setF(&cfg.Physics.Gravity, c.Physics.Gravity)
	setF(&cfg.Physics.MaxFall, c.Physics.MaxFallSpeed)
	setF(&cfg.Physics.JumpSpeed, c.Physics.JumpSpeed)
	setF(&cfg.WalkSpeed, c.Physics.WalkSpeed)
	setF(&cfg.AutopilotSpeed, c.Physics.AutopilotSpeed)
	setF(&cfg.AvatarW, c.Physics.AvatarWidth)
	setF(&cfg.AvatarH, c.Physics.AvatarHeight)

	setF(&cfg.MarkerSize, c.Placement.MarkerSize)
	setF(&cfg.PlacementRadius, c.Placement.Radius)
	setI(&cfg.PlacementAttempts, c.Placement.MaxAttempts)
	setF(&cfg.MarkerTop, c.Placement.BandTop)
	setF(&cfg.MarkerBand, c.Placement.BandHeight)

	// One tile of room below the screen, scaled with the height.
	cfg.BottomSlack = cfg.Height / 10
	return cfg
}

func setF(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}

func setI(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

// TickSeconds returns the duration of one step.
func (c Config) TickSeconds() float64 {
	return core.RuntimeConfig{TickRate: c.TickRate}.TickSeconds()
}

// Summary is the end-of-run report.
type Summary struct {
	QuizID    string
	Points    int
	Lives     int
	Answered  int
	Total     int
	Completed bool
	TimedOut  bool
	Ticks     int
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// Session is one run of a quiz. It is not safe for concurrent use; each
// player owns one.
type Session struct {
	cfg    Config
	quiz   *quiz.Quiz
	asm    level.Assembler
	logger *log.Logger

	machine  *Machine
	phys     *physics.World
	bounds   *world.Controller
	camera   Camera
	resolver *world.Resolver

	avatar   physics.Body
	segments []*level.Segment
	anchors  []level.Anchor
	shown    int
	ticks    int
	paused   bool
	err      error
}

// New creates a session and assembles the first segment. An empty quiz
// never enters gameplay.
func New(cfg Config, q *quiz.Quiz, asm level.Assembler, opts ...Option) (*Session, error) {
	if q.Len() == 0 {
		return nil, quiz.ErrEmptyQuiz
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if asm == nil {
		return nil, fmt.Errorf("runner: no level assembler")
	}
	s := &Session{
		cfg:    cfg,
		quiz:   q,
		asm:    asm,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.machine = NewMachine(cfg.Rules, q.Len())
	s.phys = physics.NewWorld(cfg.Physics, tileQuery(s.solidAt))
	s.camera = Camera{W: cfg.Width, H: cfg.Height}
	s.bounds = world.NewController(sink{camera: &s.camera, physics: s.phys}, cfg.Height, cfg.BottomSlack)
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

type tileQuery func(x, y float64) bool

func (f tileQuery) SolidAt(x, y float64) bool { return f(x, y) }

// Reset discards the run and assembles again from segment 0.
func (s *Session) Reset() error {
	s.asm.Reset(s.cfg.Seed)
	s.resolver = world.NewResolver(rand.New(rand.NewSource(s.cfg.Seed)), s.cfg.PlacementRadius, s.cfg.PlacementAttempts)
	s.machine.Reset(s.quiz.Len())
	s.segments = s.segments[:0]
	s.anchors = nil
	s.shown = 0
	s.ticks = 0
	s.paused = false
	s.err = nil

	seg, err := s.assemble(0)
	if err != nil {
		s.err = err
		return err
	}
	s.bounds.Reset()
	s.camera.X = 0
	s.camera.MinX = 0
	s.bounds.Stabilize(seg)
	s.avatar = physics.Body{X: seg.StartX, Y: 0, W: s.cfg.AvatarW, H: s.cfg.AvatarH}
	if err := s.bindAnchors(seg, s.quiz.At(0)); err != nil {
		s.err = err
		return err
	}
	s.logger.Debug("session reset", "quiz", s.quiz.ID, "questions", s.quiz.Len(), "seed", s.cfg.Seed)
	return nil
}

func (s *Session) assemble(index int) (*level.Segment, error) {
	seg, err := s.asm.Assemble(index, s.quiz.At(index))
	if err != nil {
		return nil, fmt.Errorf("runner: assemble segment %d: %w", index, err)
	}
	s.segments = append(s.segments, seg)
	s.logger.Debug("segment assembled", "index", index, "name", seg.Name, "offset", seg.Offset, "width", seg.Width, "hazards", len(seg.Hazards))
	return seg, nil
}

// bindAnchors places the markers for q inside seg. Authored slots are used
// as is; otherwise the resolver places them freely in the visible part of
// the segment ahead of the start line.
func (s *Session) bindAnchors(seg *level.Segment, q quiz.Question) error {
	slots := seg.Slots
	if len(slots) == 0 {
		slots = s.placeFree(seg, len(q.Answers)).Slots
	}
	anchors, err := world.BindAnswers(slots, q)
	if err != nil {
		return fmt.Errorf("runner: segment %d: %w", seg.Index, err)
	}
	s.anchors = anchors
	return nil
}

func (s *Session) placeFree(seg *level.Segment, n int) world.Placement {
	margin := s.cfg.MarkerSize
	cam := s.camera.View()
	left := math.Max(cam.X, seg.StartX) + margin
	right := math.Min(cam.Right(), seg.End()) - margin
	view := core.NewRectF(left, s.cfg.Height*s.cfg.MarkerTop, math.Max(right-left, 0), s.cfg.Height*s.cfg.MarkerBand)
	p := s.resolver.Place(view, n, s.cfg.MarkerSize, s.reachable)
	if p.Fallback {
		s.logger.Debug("placement fell back", "segment", seg.Index, "attempts", p.Attempts, "radius", p.Radius)
	}
	return p
}

// reachable reports whether a standing avatar can jump straight into a
// marker at r: no tile inside or just under the box, and a floor below
// close enough for the jump to reach. The scan is widened by half an
// avatar on each side.
func (s *Session) reachable(r core.RectF) bool {
	left := r.X - s.cfg.AvatarW/2
	right := r.Right() + s.cfg.AvatarW/2
	limit := s.cfg.Height + s.cfg.BottomSlack

	floor := math.Inf(1)
	for y := r.Y; y < limit; y++ {
		if s.solidRow(y, left, right) {
			floor = y
			break
		}
	}
	if floor-r.Bottom() < s.cfg.AvatarH+2 {
		return false
	}
	return floor-s.cfg.AvatarH-s.jumpReach() < r.Bottom()
}

func (s *Session) solidRow(y, left, right float64) bool {
	step := math.Max(s.cfg.Physics.Probe, 1)
	for x := left; ; x += step {
		x = math.Min(x, right)
		if s.solidAt(x, y) {
			return true
		}
		if x >= right {
			return false
		}
	}
}

// jumpReach is how far the avatar's top rises in a standing jump. Fixed
// steps fall a little short of the analytic apex.
func (s *Session) jumpReach() float64 {
	g := s.cfg.Physics.Gravity
	if g <= 0 {
		return math.Inf(1)
	}
	v := s.cfg.Physics.JumpSpeed
	return 0.9 * v * v / (2 * g)
}

func (s *Session) current() *level.Segment {
	return s.segments[len(s.segments)-1]
}

func (s *Session) solidAt(x, y float64) bool {
	for i := len(s.segments) - 1; i >= 0; i-- {
		seg := s.segments[i]
		if x >= seg.Offset && x < seg.End() {
			return seg.SolidAt(x, y)
		}
	}
	return false
}

// Step advances the session by one tick.
func (s *Session) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionRestart) {
		if err := s.Reset(); err != nil {
			s.logger.Error("restart failed", "err", err)
		}
		return s.result()
	}
	if s.err != nil || s.machine.Phase().Terminal() {
		return s.result()
	}
	if in.Has(core.ActionPause) {
		s.paused = !s.paused
	}
	if s.paused {
		return s.result()
	}

	if ev := s.machine.Tick(); ev.Kind == EventTimeUp {
		s.logger.Info("time up", "points", ev.Progress.Points, "answered", ev.Progress.QuizIndex)
		return s.result()
	}
	s.checkArrival()
	s.move(in)
	s.phys.Step(&s.avatar, s.cfg.TickSeconds())
	s.keepInView()
	s.camera.Follow(s.avatar.X + s.avatar.W/2)
	s.resolveOverlaps()
	s.ticks++
	return s.result()
}

func (s *Session) checkArrival() {
	if s.machine.Phase() != PhaseTransitioning {
		return
	}
	seg := s.current()
	if s.avatar.X < seg.StartX {
		return
	}
	ev := s.machine.Arrive()
	s.avatar.VX = 0
	s.bounds.Stabilize(seg)
	s.camera.MinX = seg.Offset
	s.camera.Follow(s.avatar.X + s.avatar.W/2)
	s.shown = ev.Progress.QuizIndex
	if err := s.bindAnchors(seg, s.quiz.At(s.shown)); err != nil {
		s.fail(err)
		return
	}
	s.logger.Info("arrived", "segment", seg.Index, "question", s.shown+1)
}

func (s *Session) move(in core.InputFrame) {
	if s.machine.InputLocked() {
		s.avatar.VX = s.cfg.AutopilotSpeed
		if s.avatar.OnWallRight {
			s.phys.Jump(&s.avatar)
		}
		return
	}
	s.avatar.VX = 0
	if in.Has(core.ActionLeft) {
		s.avatar.VX -= s.cfg.WalkSpeed
	}
	if in.Has(core.ActionRight) {
		s.avatar.VX += s.cfg.WalkSpeed
	}
	if in.Has(core.ActionJump) {
		s.phys.Jump(&s.avatar)
	}
}

// keepInView stops the avatar at the left screen edge and bounces it back
// up when it sinks below the screen.
func (s *Session) keepInView() {
	if s.avatar.X < s.camera.X {
		s.avatar.X = s.camera.X
		if s.avatar.VX < 0 {
			s.avatar.VX = 0
		}
	}
	if s.avatar.Y+s.avatar.H > s.cfg.Height {
		s.avatar.VY = -s.cfg.Physics.JumpSpeed / 2
	}
}

func (s *Session) resolveOverlaps() {
	r := s.avatar.Rect()
	for i := range s.anchors {
		a := &s.anchors[i]
		if !r.Intersects(a.Rect) {
			continue
		}
		if a.Correct {
			s.onCorrect(s.machine.StrikeCorrect())
			return
		}
		fresh := !a.Revealed
		a.Revealed = true
		ev := s.machine.StrikeWrong(fresh)
		if ev.Kind != EventIgnored {
			s.logger.Debug("wrong answer", "answer", a.Text, "fresh", fresh, "lives", ev.Progress.Lives, "points", ev.Progress.Points)
		}
		if ev.Kind == EventFailed {
			s.logger.Info("run failed", "points", ev.Progress.Points, "answered", ev.Progress.QuizIndex)
			return
		}
	}
	for _, seg := range s.segments {
		for _, h := range seg.Hazards {
			if r.Intersects(h.Rect) {
				if ev := s.machine.StrikeHazard(); ev.Kind == EventHazard {
					s.logger.Debug("hazard hit", "code", h.Code, "points", ev.Progress.Points)
				}
				return
			}
		}
	}
}

func (s *Session) onCorrect(ev Event) {
	s.anchors = nil
	switch ev.Kind {
	case EventFinished:
		s.logger.Info("quiz finished", "points", ev.Progress.Points, "lives", ev.Progress.Lives)
	case EventCorrect:
		seg, err := s.assemble(ev.Progress.QuizIndex)
		if err != nil {
			s.fail(err)
			return
		}
		s.bounds.Provisional(seg)
		s.logger.Debug("transition started", "to", seg.Index, "startX", seg.StartX)
	}
}

func (s *Session) fail(err error) {
	s.err = err
	s.logger.Error("session halted", "err", err)
}

func (s *Session) result() core.StepResult {
	p := s.machine.Progress()
	return core.StepResult{State: core.GameState{
		Score:    p.Points,
		Lives:    p.Lives,
		GameOver: s.err != nil || s.machine.Phase().Terminal(),
		Paused:   s.paused,
	}}
}

// Err returns the error that halted the session, if any.
func (s *Session) Err() error {
	return s.err
}

// Phase returns the progression phase.
func (s *Session) Phase() Phase {
	return s.machine.Phase()
}

// Progress returns the scoring state.
func (s *Session) Progress() Progress {
	return s.machine.Progress()
}

// Paused reports whether the session is paused.
func (s *Session) Paused() bool {
	return s.paused
}

// Segments returns the assembled segments in order.
func (s *Session) Segments() []*level.Segment {
	return append([]*level.Segment(nil), s.segments...)
}

// Anchors returns a copy of the live anchors.
func (s *Session) Anchors() []level.Anchor {
	return append([]level.Anchor(nil), s.anchors...)
}

// Hazards returns the hazards of every assembled segment.
func (s *Session) Hazards() []level.Hazard {
	var out []level.Hazard
	for _, seg := range s.segments {
		out = append(out, seg.Hazards...)
	}
	return out
}

// Avatar returns the avatar body.
func (s *Session) Avatar() physics.Body {
	return s.avatar
}

// Camera returns the camera.
func (s *Session) Camera() Camera {
	return s.camera
}

// Bounds returns the last applied world bounds.
func (s *Session) Bounds() world.Bounds {
	return s.bounds.Current()
}

// Question returns the question shown to the player. During a transition
// it is still the one just answered.
func (s *Session) Question() quiz.Question {
	return s.quiz.At(s.shown)
}

// QuestionIndex returns the index of Question.
func (s *Session) QuestionIndex() int {
	return s.shown
}

// Quiz returns the quiz being played.
func (s *Session) Quiz() *quiz.Quiz {
	return s.quiz
}

// Config returns the session settings.
func (s *Session) Config() Config {
	return s.cfg
}

// Ticks returns the number of simulated ticks since the last reset.
func (s *Session) Ticks() int {
	return s.ticks
}

// Summary returns the end-of-run report.
func (s *Session) Summary() Summary {
	p := s.machine.Progress()
	return Summary{
		QuizID:    s.quiz.ID,
		Points:    p.Points,
		Lives:     p.Lives,
		Answered:  p.QuizIndex,
		Total:     p.QuizLength,
		Completed: s.machine.Phase() == PhaseFinished,
		TimedOut:  p.TimedOut,
		Ticks:     s.ticks,
	}
}
