package game

import (
	"fmt"
	"log/slog"
	"time"

	"central-snake/game/entity"
	"central-snake/game/manager"
	"central-snake/game/types"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"
)

// State is the session lifecycle state.
type State int

const (
	Alive State = iota
	GameOver
)

func (s State) String() string {
	if s == GameOver {
		return "over"
	}
	return "alive"
}

// ScoreKeeper persists the high score and finished sessions.
type ScoreKeeper interface {
	LoadHighScore() int
	RecordScore(score int) bool
	AddSession(rec manager.SessionRecord)
	Summary() manager.Summary
}

// Options configure a Session. Zero values pick the defaults.
type Options struct {
	Grid   types.Grid
	Rules  *Rules
	Drain  DrainPolicy
	Rand   *rand.Rand
	Logger *slog.Logger
	Now    func() time.Time
}

// Session owns one world at a time and moves it between Alive and GameOver.
// It is not safe for concurrent use.
type Session struct {
	sim    *Simulator
	clock  *Clock
	scores ScoreKeeper
	logger *slog.Logger
	now    func() time.Time

	world     *entity.World
	state     State
	highScore int
	id        string
	startedAt time.Time
	lastCause manager.CollisionType
}

// NewSession builds a session and resets it into its first world.
func NewSession(opts Options, scores ScoreKeeper) (*Session, error) {
	if opts.Grid.Width <= 0 || opts.Grid.Height <= 0 {
		return nil, fmt.Errorf("invalid grid %dx%d", opts.Grid.Width, opts.Grid.Height)
	}
	rules := DefaultRules()
	if opts.Rules != nil {
		rules = *opts.Rules
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Session{
		sim:    NewSimulator(opts.Grid, rules, rng, logger),
		clock:  NewClock(opts.Drain),
		scores: scores,
		logger: logger,
		now:    now,
	}
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset discards the current world and starts a new one.
func (s *Session) Reset() error {
	w, err := s.sim.NewWorld()
	if err != nil {
		return fmt.Errorf("failed to lay out world: %w", err)
	}
	s.world = w
	s.state = Alive
	s.lastCause = manager.NoCollision
	s.highScore = s.scores.LoadHighScore()
	s.id = uuid.NewString()
	s.startedAt = s.now()
	s.clock.Reset()

	s.logger.Info("session started",
		"session", s.id,
		"grid", fmt.Sprintf("%dx%d", w.Grid.Width, w.Grid.Height),
		"obstacles", w.Obstacles.Len(),
		"high_score", s.highScore)
	return nil
}

// Turn queues a direction change for the next step. It is ignored once the
// session is over, for non-cardinal vectors, and for exact reversals of the
// committed direction.
func (s *Session) Turn(dir types.Point) bool {
	if s.state != Alive {
		return false
	}
	return s.world.Snake.SetDirection(dir)
}

// Restart starts a new world. It is only accepted while the session is over.
func (s *Session) Restart() (bool, error) {
	if s.state != GameOver {
		return false, nil
	}
	if err := s.Reset(); err != nil {
		return false, err
	}
	return true, nil
}

// Apply feeds one frame of input: every direction request in order, then the
// restart signal.
func (s *Session) Apply(cmd Command) error {
	for _, d := range cmd.Dirs {
		s.Turn(d)
	}
	if cmd.Restart {
		if _, err := s.Restart(); err != nil {
			return err
		}
	}
	return nil
}

// Advance hands elapsed frame time to the clock and runs any steps that are
// due. It does nothing while the session is over.
func (s *Session) Advance(dt time.Duration) StepResult {
	var res StepResult
	if s.state != Alive {
		return res
	}
	s.clock.Advance(dt, s.world, func() bool {
		res = res.merge(s.step())
		return s.state == Alive
	})
	return res
}

// Step runs exactly one step regardless of the clock.
func (s *Session) Step() StepResult {
	if s.state != Alive {
		return StepResult{}
	}
	return s.step()
}

func (s *Session) step() StepResult {
	res := s.sim.Step(s.world)
	if res.Over() {
		s.onCollision(res.Collision)
	}
	return res
}

func (s *Session) onCollision(cause manager.CollisionType) {
	s.state = GameOver
	s.lastCause = cause
	score := s.world.Score

	if s.scores.RecordScore(score) {
		s.logger.Info("new high score", "session", s.id, "score", score, "previous", s.highScore)
	}
	if score > s.highScore {
		s.highScore = score
	}

	end := s.now()
	s.scores.AddSession(manager.SessionRecord{
		ID:        s.id,
		StartTime: s.startedAt,
		EndTime:   end,
		Score:     score,
	})
	s.logger.Info("session over",
		"session", s.id,
		"cause", cause.String(),
		"score", score,
		"length", s.world.Snake.Len(),
		"steps", s.world.Steps,
		"duration", end.Sub(s.startedAt).Round(time.Millisecond))
}

func (s *Session) State() State {
	return s.state
}

// Cause is the collision that ended the last session, if any.
func (s *Session) Cause() manager.CollisionType {
	return s.lastCause
}

func (s *Session) HighScore() int {
	return s.highScore
}

func (s *Session) ID() string {
	return s.id
}

// World returns the live world. Callers outside the simulation must treat it
// as read-only.
func (s *Session) World() *entity.World {
	return s.world
}

// Simulator returns the simulator driving this session.
func (s *Session) Simulator() *Simulator {
	return s.sim
}
