package game

import (
	"time"

	"central-snake/game/types"
)

// AutopilotRestartDelay is how long the autopilot waits on the game-over
// screen before restarting.
const AutopilotRestartDelay = 2 * time.Second

// Autopilot plays the session on its own: it heads for the food along the
// shortest distance and never picks a move that collides immediately.
type Autopilot struct {
	session *Session
	now     func() time.Time
	overAt  time.Time
}

func NewAutopilot(session *Session, now func() time.Time) *Autopilot {
	if now == nil {
		now = time.Now
	}
	return &Autopilot{session: session, now: now}
}

// Poll implements InputSource.
func (a *Autopilot) Poll() Command {
	if a.session.State() == GameOver {
		if a.overAt.IsZero() {
			a.overAt = a.now()
		}
		if a.now().Sub(a.overAt) >= AutopilotRestartDelay {
			a.overAt = time.Time{}
			return Command{Restart: true}
		}
		return Command{}
	}
	a.overAt = time.Time{}
	return Command{Dirs: []types.Point{a.Choose()}}
}

// Choose evaluates going straight, turning left and turning right relative to
// the committed direction and returns the safe move closest to the food.
// Straight wins ties. With no safe move it keeps going straight.
func (a *Autopilot) Choose() types.Point {
	w := a.session.World()
	cm := a.session.Simulator().CollisionManager()
	wrap := w.Timers.Pivot > 0
	head := w.Snake.GetHead()
	current := w.Snake.Direction

	best := current
	bestDist := -1
	for _, dir := range []types.Point{current, current.TurnLeft(), current.TurnRight()} {
		if cm.IsDanger(w, dir) {
			continue
		}
		next := head.Add(dir)
		if wrap {
			next = w.Grid.Wrap(next)
		}
		d := manhattanDistance(next, w.Food, w.Grid, wrap)
		if bestDist < 0 || d < bestDist {
			best, bestDist = dir, d
		}
	}
	return best
}

// manhattanDistance measures the grid distance between two cells, taking the
// short way around the edges when wrap is set.
func manhattanDistance(p1, p2 types.Point, grid types.Grid, wrap bool) int {
	dx := abs(p2.X - p1.X)
	dy := abs(p2.Y - p1.Y)

	if wrap {
		if dx > grid.Width/2 {
			dx = grid.Width - dx
		}
		if dy > grid.Height/2 {
			dy = grid.Height - dy
		}
	}

	return dx + dy
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
