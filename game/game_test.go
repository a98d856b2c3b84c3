package game

import (
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"central-snake/game/entity"
	"central-snake/game/manager"
	"central-snake/game/types"

	"golang.org/x/exp/rand"
)

var testGrid = types.Grid{Width: 30, Height: 20}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixedRules turns off the random speed-up and obstacle rolls.
func fixedRules() Rules {
	r := DefaultRules()
	r.SpeedUpChance = 0
	r.ObstacleGrowthChance = 0
	return r
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func newTestSession(t *testing.T, rules Rules, store manager.Store) (*Session, *manager.StateManager) {
	t.Helper()
	if store == nil {
		store = manager.NewMemoryStore()
	}
	scores := manager.NewStateManager(store, "", quietLogger())
	t.Cleanup(scores.Close)

	clock := &testClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	s, err := NewSession(Options{
		Grid:   testGrid,
		Rules:  &rules,
		Rand:   rand.New(rand.NewSource(42)),
		Logger: quietLogger(),
		Now:    clock.Now,
	}, scores)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s, scores
}

// clearWorld removes obstacles and takes every pickup off the grid so a test
// can place exactly what it needs.
func clearWorld(w *entity.World) {
	w.Obstacles = entity.NewObstacleSet()
	w.Food = entity.Unplaced
	w.Boost = entity.Unplaced
	for i := range w.PowerUps {
		w.PowerUps[i].Pos = entity.Unplaced
	}
}

// dumpState renders the board as ASCII for failure messages.
func dumpState(w *entity.World) string {
	var b strings.Builder
	for y := 0; y < w.Grid.Height; y++ {
		for x := 0; x < w.Grid.Width; x++ {
			p := types.Point{X: x, Y: y}
			ch := '.'
			switch {
			case p == w.Snake.GetHead():
				ch = 'H'
			case w.Snake.Contains(p, 1):
				ch = 's'
			case w.Obstacles.Contains(p):
				ch = '#'
			case p == w.Food:
				ch = 'F'
			case p == w.Boost:
				ch = 'B'
			}
			for _, pu := range w.PowerUps {
				if p == pu.Pos {
					ch = rune(pu.Kind.String()[0])
				}
			}
			b.WriteRune(ch)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func TestScenarioFirstFood(t *testing.T) {
	s, _ := newTestSession(t, fixedRules(), nil)
	w := s.World()
	if w.Snake.GetHead() != (types.Point{X: 15, Y: 10}) || w.Snake.Direction != types.Right || w.Snake.Len() != 1 {
		t.Fatalf("start head=%v dir=%v len=%d", w.Snake.GetHead(), w.Snake.Direction, w.Snake.Len())
	}
	clearWorld(w)
	w.Food = types.Point{X: 16, Y: 10}

	res := s.Step()
	if !res.Ate || res.Points != 1 {
		t.Fatalf("ate=%v points=%d\n%s", res.Ate, res.Points, dumpState(w))
	}
	if w.Score != 1 || w.Snake.Len() != 2 {
		t.Fatalf("score=%d len=%d want=1,2\n%s", w.Score, w.Snake.Len(), dumpState(w))
	}
	if !testGrid.InBounds(w.Food) || w.Snake.Contains(w.Food, 0) {
		t.Fatalf("food relocated to %v\n%s", w.Food, dumpState(w))
	}
}

func TestDoublePoints(t *testing.T) {
	s, _ := newTestSession(t, fixedRules(), nil)
	w := s.World()
	clearWorld(w)
	w.Food = types.Point{X: 16, Y: 10}
	w.Timers.DoublePoints = 5

	res := s.Step()
	if res.Points != 2 || w.Score != 2 {
		t.Fatalf("points=%d score=%d want=2,2", res.Points, w.Score)
	}
}

func TestLengthInvariant(t *testing.T) {
	s, _ := newTestSession(t, DefaultRules(), nil)
	pilot := NewAutopilot(s, nil)
	w := s.World()

	for i := 0; i < 500 && s.State() == Alive; i++ {
		s.Turn(pilot.Choose())
		before := w.Snake.Len()
		res := s.Step()
		want := before
		if res.Ate {
			want++
		}
		if w.Snake.Len() != want {
			t.Fatalf("step %d: len=%d want=%d ate=%v\n%s", i, w.Snake.Len(), want, res.Ate, dumpState(w))
		}
	}
}

func TestTimersDecrementOncePerStep(t *testing.T) {
	s, _ := newTestSession(t, fixedRules(), nil)
	w := s.World()
	clearWorld(w)
	w.Timers = entity.Timers{Pivot: 10, Slow: 3, DoublePoints: 0, Boost: 1}

	s.Step()
	want := entity.Timers{Pivot: 9, Slow: 2, DoublePoints: 0, Boost: 0}
	if w.Timers != want {
		t.Fatalf("timers=%+v want=%+v", w.Timers, want)
	}
}

func TestPickupsArmTimers(t *testing.T) {
	rules := fixedRules()
	s, _ := newTestSession(t, rules, nil)
	w := s.World()
	clearWorld(w)
	w.PowerUp(entity.Pivot).Pos = types.Point{X: 16, Y: 10}
	w.Boost = types.Point{X: 16, Y: 10}

	res := s.Step()
	if !res.Boosted || len(res.PoweredUp) != 1 || res.PoweredUp[0] != entity.Pivot {
		t.Fatalf("result=%+v", res)
	}
	if w.Timers.Pivot != rules.PowerUpTicks-1 || w.Timers.Boost != rules.BoostTicks-1 {
		t.Fatalf("timers=%+v", w.Timers)
	}
	if w.PowerUp(entity.Pivot).Pos == (types.Point{X: 16, Y: 10}) || w.Boost == (types.Point{X: 16, Y: 10}) {
		t.Fatalf("pickups not relocated\n%s", dumpState(w))
	}
	if w.Snake.Len() != 1 {
		t.Fatalf("len=%d want=1", w.Snake.Len())
	}
}

func TestWallEndsSessionWithoutPivot(t *testing.T) {
	s, _ := newTestSession(t, fixedRules(), nil)
	w := s.World()
	clearWorld(w)
	w.Snake.Body = []types.Point{{X: 29, Y: 10}}

	res := s.Step()
	if res.Collision != manager.WallCollision || s.State() != GameOver || s.Cause() != manager.WallCollision {
		t.Fatalf("collision=%v state=%v", res.Collision, s.State())
	}
	if w.Snake.GetHead() != (types.Point{X: 29, Y: 10}) || w.Steps != 0 {
		t.Fatalf("world moved on collision\n%s", dumpState(w))
	}
}

func TestPivotWrapsAtWall(t *testing.T) {
	s, _ := newTestSession(t, fixedRules(), nil)
	w := s.World()
	clearWorld(w)
	w.Snake.Body = []types.Point{{X: 29, Y: 10}}
	w.Timers.Pivot = 5

	res := s.Step()
	if res.Over() || w.Snake.GetHead() != (types.Point{X: 0, Y: 10}) {
		t.Fatalf("collision=%v head=%v want none (0,10)", res.Collision, w.Snake.GetHead())
	}
}

func TestTightLoopDoesNotSelfCollide(t *testing.T) {
	s, _ := newTestSession(t, fixedRules(), nil)
	w := s.World()
	clearWorld(w)
	w.Snake.Body = []types.Point{{X: 10, Y: 10}, {X: 10, Y: 11}, {X: 11, Y: 11}, {X: 11, Y: 10}}
	w.Snake.Direction = types.Up
	w.Snake.NextDirection = types.Up

	if !s.Turn(types.Right) {
		t.Fatalf("turn rejected")
	}
	res := s.Step()
	if res.Over() {
		t.Fatalf("tight turn onto the tail ended the session\n%s", dumpState(w))
	}
	if w.Snake.GetHead() != (types.Point{X: 11, Y: 10}) {
		t.Fatalf("head=%v want=(11,10)", w.Snake.GetHead())
	}
}

func TestSelfCollisionPastNeck(t *testing.T) {
	s, _ := newTestSession(t, fixedRules(), nil)
	w := s.World()
	clearWorld(w)
	w.Snake.Body = []types.Point{
		{X: 10, Y: 10}, {X: 9, Y: 10}, {X: 9, Y: 11}, {X: 10, Y: 11},
		{X: 11, Y: 11}, {X: 12, Y: 11}, {X: 12, Y: 10}, {X: 11, Y: 10}, {X: 11, Y: 9},
	}
	w.Snake.Direction = types.Right
	w.Snake.NextDirection = types.Right

	res := s.Step()
	if res.Collision != manager.SelfCollision {
		t.Fatalf("collision=%v want=self\n%s", res.Collision, dumpState(w))
	}
}

func TestSpeedCapped(t *testing.T) {
	rules := fixedRules()
	rules.SpeedUpChance = 1
	s, _ := newTestSession(t, rules, nil)
	w := s.World()
	clearWorld(w)
	w.Speed = 3.45

	for i := 1; i <= 3; i++ {
		w.Food = w.Snake.GetHead().Add(types.Right)
		res := s.Step()
		if !res.Ate {
			t.Fatalf("step %d missed the food\n%s", i, dumpState(w))
		}
		if w.Speed > MaxSpeed+1e-9 {
			t.Fatalf("speed=%v over cap", w.Speed)
		}
	}
	if math.Abs(w.Speed-MaxSpeed) > 1e-9 {
		t.Fatalf("speed=%v want=%v", w.Speed, MaxSpeed)
	}
}

func TestObstaclesNeverShrinkOrPassCap(t *testing.T) {
	rules := fixedRules()
	rules.ObstacleGrowthChance = 1
	sim := NewSimulator(testGrid, rules, rand.New(rand.NewSource(3)), quietLogger())
	w, err := sim.NewWorld()
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	limit := 72 // 12% of 30x20

	prev := w.Obstacles.Len()
	for i := 0; i < 200; i++ {
		w.Timers.Pivot = 10
		if sim.Step(w).Over() {
			break
		}
		n := w.Obstacles.Len()
		if n < prev || n > limit {
			t.Fatalf("step %d: obstacles=%d prev=%d cap=%d", i, n, prev, limit)
		}
		prev = n
	}
}

func TestTicksFor(t *testing.T) {
	if got := TicksFor(BoostDuration, BaseInterval); got != 50 {
		t.Fatalf("boost ticks=%d want=50", got)
	}
	if got := TicksFor(PowerUpDuration, BaseInterval); got != 58 {
		t.Fatalf("power-up ticks=%d want=58", got)
	}
	if got := TicksFor(time.Second, 0); got != 0 {
		t.Fatalf("zero interval ticks=%d want=0", got)
	}
}

func TestInterval(t *testing.T) {
	cases := []struct {
		name   string
		speed  float64
		timers entity.Timers
		want   time.Duration
	}{
		{"base", 1, entity.Timers{}, 140 * time.Millisecond},
		{"slow", 1, entity.Timers{Slow: 1}, 224 * time.Millisecond},
		{"boost", 1, entity.Timers{Boost: 1}, 98 * time.Millisecond},
		{"slow and boost", 1, entity.Timers{Slow: 1, Boost: 1}, 156800 * time.Microsecond},
		{"speed 2", 2, entity.Timers{}, 91854 * time.Microsecond},
	}
	for _, c := range cases {
		w := entity.NewWorld(testGrid, testGrid.Center(), types.Right)
		w.Speed = c.speed
		w.Timers = c.timers
		got := Interval(w)
		if diff := got - c.want; diff < -time.Microsecond || diff > time.Microsecond {
			t.Fatalf("%s: interval=%v want=%v", c.name, got, c.want)
		}
	}
}

func TestClockDrainOne(t *testing.T) {
	w := entity.NewWorld(testGrid, testGrid.Center(), types.Right)
	c := NewClock(DrainOne)
	calls := 0
	step := func() bool { calls++; return true }

	if n := c.Advance(100*time.Millisecond, w, step); n != 0 {
		t.Fatalf("steps=%d want=0", n)
	}
	if n := c.Advance(400*time.Millisecond, w, step); n != 1 || calls != 1 {
		t.Fatalf("steps=%d calls=%d want=1", n, calls)
	}
	if c.Pending() != 80*time.Millisecond {
		t.Fatalf("pending=%v want=80ms", c.Pending())
	}
}

func TestClockDrainAll(t *testing.T) {
	w := entity.NewWorld(testGrid, testGrid.Center(), types.Right)
	c := NewClock(DrainAll)
	step := func() bool { return true }

	if n := c.Advance(500*time.Millisecond, w, step); n != 3 {
		t.Fatalf("steps=%d want=3", n)
	}
	if c.Pending() != 80*time.Millisecond {
		t.Fatalf("pending=%v want=80ms", c.Pending())
	}
	if n := c.Advance(10*time.Second, w, step); n != MaxCatchUpSteps {
		t.Fatalf("steps=%d want=%d", n, MaxCatchUpSteps)
	}
	if c.Pending() >= BaseInterval {
		t.Fatalf("pending=%v not trimmed after catch-up", c.Pending())
	}
}

func TestClockStopsOnGameOver(t *testing.T) {
	w := entity.NewWorld(testGrid, testGrid.Center(), types.Right)
	c := NewClock(DrainAll)
	calls := 0
	n := c.Advance(time.Second, w, func() bool { calls++; return false })
	if n != 1 || calls != 1 || c.Pending() != 0 {
		t.Fatalf("steps=%d calls=%d pending=%v", n, calls, c.Pending())
	}
}

func TestParseDrainPolicy(t *testing.T) {
	for in, want := range map[string]DrainPolicy{"": DrainOne, "one": DrainOne, "all": DrainAll} {
		got, err := ParseDrainPolicy(in)
		if err != nil || got != want {
			t.Fatalf("ParseDrainPolicy(%q)=%v,%v want=%v", in, got, err, want)
		}
	}
	if _, err := ParseDrainPolicy("some"); err == nil {
		t.Fatalf("unknown policy accepted")
	}
}

func TestSessionAdvanceUsesClock(t *testing.T) {
	s, _ := newTestSession(t, fixedRules(), nil)
	w := s.World()
	clearWorld(w)

	if res := s.Advance(100 * time.Millisecond); res.Steps != 0 {
		t.Fatalf("stepped early: %+v", res)
	}
	if res := s.Advance(40 * time.Millisecond); res.Steps != 1 || w.Steps != 1 {
		t.Fatalf("steps=%d world steps=%d want=1", res.Steps, w.Steps)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s, _ := newTestSession(t, fixedRules(), nil)
	firstID := s.ID()

	if ok, err := s.Restart(); ok || err != nil {
		t.Fatalf("restart while alive: ok=%v err=%v", ok, err)
	}
	if s.Turn(types.Left) {
		t.Fatalf("reversal accepted")
	}

	w := s.World()
	clearWorld(w)
	w.Snake.Body = []types.Point{{X: 29, Y: 10}}
	s.Step()
	if s.State() != GameOver {
		t.Fatalf("state=%v want=over", s.State())
	}

	if s.Turn(types.Up) {
		t.Fatalf("turn accepted while over")
	}
	if res := s.Advance(time.Second); res.Steps != 0 {
		t.Fatalf("advanced while over: %+v", res)
	}
	if res := s.Step(); res.Steps != 0 {
		t.Fatalf("stepped while over: %+v", res)
	}

	if err := s.Apply(Command{Restart: true}); err != nil {
		t.Fatalf("Apply restart: %v", err)
	}
	if s.State() != Alive || s.ID() == firstID || s.World() == w {
		t.Fatalf("restart did not build a new world")
	}
	if s.World().Score != 0 || s.World().Snake.Len() != 1 {
		t.Fatalf("new world score=%d len=%d", s.World().Score, s.World().Snake.Len())
	}
}

func TestApplyChecksReversalAtRequestTime(t *testing.T) {
	s, _ := newTestSession(t, fixedRules(), nil)
	if err := s.Apply(Command{Dirs: []types.Point{types.Up, types.Left}}); err != nil {
		t.Fatal(err)
	}
	// Left reverses the committed direction, so Up stays queued.
	if got := s.World().Snake.NextDirection; got != types.Up {
		t.Fatalf("queued=%v want=up", got)
	}
}

func TestHighScorePersistence(t *testing.T) {
	cases := []struct {
		score, stored, want int
	}{
		{42, 30, 42},
		{10, 30, 30},
	}
	for _, c := range cases {
		store := manager.NewMemoryStore()
		store.Save(manager.HighScoreKey, c.stored)
		s, scores := newTestSession(t, fixedRules(), store)
		if s.HighScore() != c.stored {
			t.Fatalf("loaded high score=%d want=%d", s.HighScore(), c.stored)
		}

		w := s.World()
		clearWorld(w)
		w.Score = c.score
		w.Snake.Body = []types.Point{{X: 29, Y: 10}}
		s.Step()
		scores.Close()

		if got, _ := store.Load(manager.HighScoreKey); got != c.want {
			t.Fatalf("score %d over %d: stored=%d want=%d", c.score, c.stored, got, c.want)
		}
		if s.HighScore() != c.want {
			t.Fatalf("session high score=%d want=%d", s.HighScore(), c.want)
		}
		if scores.Summary().GamesPlayed != 1 {
			t.Fatalf("session not added to history")
		}
	}
}

func TestModeLabelPrecedence(t *testing.T) {
	cases := []struct {
		timers entity.Timers
		want   string
	}{
		{entity.Timers{}, ModeClassic},
		{entity.Timers{Boost: 3}, ModeBoost},
		{entity.Timers{Boost: 3, DoublePoints: 1}, ModeDouble},
		{entity.Timers{Boost: 3, DoublePoints: 1, Slow: 2}, ModeSlow},
		{entity.Timers{Boost: 3, DoublePoints: 1, Slow: 2, Pivot: 9}, ModePivot},
	}
	for _, c := range cases {
		if got := ModeLabel(c.timers); got != c.want {
			t.Fatalf("ModeLabel(%+v)=%q want=%q", c.timers, got, c.want)
		}
	}
}

func TestBadges(t *testing.T) {
	got := Badges(entity.Timers{Pivot: 50, DoublePoints: 57, Boost: 1})
	want := []Badge{{ModePivot, 7}, {ModeDouble, 8}, {"Boost", 1}}
	if len(got) != len(want) {
		t.Fatalf("badges=%v want=%v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("badge %d=%v want=%v", i, got[i], want[i])
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s, _ := newTestSession(t, fixedRules(), nil)
	snap := s.Snapshot()
	snap.Snake[0] = types.Point{X: 0, Y: 0}
	if s.World().Snake.GetHead() == (types.Point{X: 0, Y: 0}) {
		t.Fatalf("snapshot shares the snake body")
	}
	if snap.State != Alive || snap.Mode != ModeClassic || snap.SessionID != s.ID() {
		t.Fatalf("snapshot=%+v", snap)
	}
	if len(snap.Obstacles) != s.World().Obstacles.Len() {
		t.Fatalf("obstacles=%d want=%d", len(snap.Obstacles), s.World().Obstacles.Len())
	}
}

func TestAutopilotAvoidsDanger(t *testing.T) {
	s, _ := newTestSession(t, fixedRules(), nil)
	w := s.World()
	clearWorld(w)
	w.Obstacles.Add(types.Point{X: 16, Y: 10})
	w.Food = types.Point{X: 20, Y: 10}

	got := NewAutopilot(s, nil).Choose()
	if got == types.Right {
		t.Fatalf("autopilot drove into an obstacle\n%s", dumpState(w))
	}
}

func TestAutopilotHeadsForFood(t *testing.T) {
	s, _ := newTestSession(t, fixedRules(), nil)
	w := s.World()
	clearWorld(w)
	w.Snake.Body = []types.Point{{X: 29, Y: 10}}
	w.Food = types.Point{X: 29, Y: 0}

	if got := NewAutopilot(s, nil).Choose(); got != types.Up {
		t.Fatalf("choice=%v want=up\n%s", got, dumpState(w))
	}
}

func TestAutopilotRestartsAfterDelay(t *testing.T) {
	s, _ := newTestSession(t, fixedRules(), nil)
	clock := &testClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	pilot := NewAutopilot(s, clock.Now)

	w := s.World()
	clearWorld(w)
	w.Snake.Body = []types.Point{{X: 29, Y: 10}}
	s.Step()

	if cmd := pilot.Poll(); cmd.Restart {
		t.Fatalf("restarted immediately")
	}
	clock.now = clock.now.Add(AutopilotRestartDelay)
	cmd := pilot.Poll()
	if !cmd.Restart {
		t.Fatalf("no restart after %v", AutopilotRestartDelay)
	}
	if err := s.Apply(cmd); err != nil || s.State() != Alive {
		t.Fatalf("restart failed: %v", err)
	}
	if cmd := pilot.Poll(); len(cmd.Dirs) != 1 {
		t.Fatalf("autopilot did not steer after restart: %+v", cmd)
	}
}

func TestCommandMerge(t *testing.T) {
	a := Command{Dirs: []types.Point{types.Up}}
	b := Command{Dirs: []types.Point{types.Left}, Restart: true}
	m := a.Merge(b)
	if len(m.Dirs) != 2 || m.Dirs[1] != types.Left || !m.Restart || m.Quit {
		t.Fatalf("merged=%+v", m)
	}
	if !(Command{}).Empty() || m.Empty() {
		t.Fatalf("Empty wrong")
	}
}
