package game

import (
	"math"

	"central-snake/game/entity"
	"central-snake/game/manager"
	"central-snake/game/types"
)

// Mode labels, highest precedence first.
const (
	ModePivot   = "Pivot"
	ModeSlow    = "Slow"
	ModeDouble  = "Double Points"
	ModeBoost   = "Speed Boost"
	ModeClassic = "Classic"
)

// Badge is an active modifier with the whole seconds it has left.
type Badge struct {
	Label   string
	Seconds int
}

// Snapshot is a copy of everything a renderer needs for one frame.
type Snapshot struct {
	Grid      types.Grid
	Snake     []types.Point
	Direction types.Point
	Obstacles []types.Point
	Food      types.Point
	Boost     types.Point
	PowerUps  [3]entity.PowerUp
	Timers    entity.Timers
	Score     int
	HighScore int
	Speed     float64
	State     State
	Cause     manager.CollisionType
	Mode      string
	Badges    []Badge
	Stats     manager.Summary
	SessionID string
}

// Snapshot copies the current world so it can be rendered without touching
// simulation state.
func (s *Session) Snapshot() Snapshot {
	w := s.world
	body := make([]types.Point, len(w.Snake.Body))
	copy(body, w.Snake.Body)

	return Snapshot{
		Grid:      w.Grid,
		Snake:     body,
		Direction: w.Snake.Direction,
		Obstacles: w.Obstacles.Cells(),
		Food:      w.Food,
		Boost:     w.Boost,
		PowerUps:  w.PowerUps,
		Timers:    w.Timers,
		Score:     w.Score,
		HighScore: s.highScore,
		Speed:     w.Speed,
		State:     s.state,
		Cause:     s.lastCause,
		Mode:      ModeLabel(w.Timers),
		Badges:    Badges(w.Timers),
		Stats:     s.scores.Summary(),
		SessionID: s.id,
	}
}

// ModeLabel names the dominant active modifier.
func ModeLabel(t entity.Timers) string {
	switch {
	case t.Pivot > 0:
		return ModePivot
	case t.Slow > 0:
		return ModeSlow
	case t.DoublePoints > 0:
		return ModeDouble
	case t.Boost > 0:
		return ModeBoost
	default:
		return ModeClassic
	}
}

// Badges lists every active modifier in precedence order.
func Badges(t entity.Timers) []Badge {
	var out []Badge
	add := func(label string, ticks int) {
		if ticks > 0 {
			out = append(out, Badge{Label: label, Seconds: secondsLeft(ticks)})
		}
	}
	add(ModePivot, t.Pivot)
	add(ModeSlow, t.Slow)
	add(ModeDouble, t.DoublePoints)
	add("Boost", t.Boost)
	return out
}

// secondsLeft rounds the remaining steps at BaseInterval up to whole seconds.
func secondsLeft(ticks int) int {
	return int(math.Ceil((float64(ticks) * BaseInterval.Seconds()) - 1e-9))
}

// SpeedLabel rounds the speed level to one decimal for display.
func (s Snapshot) SpeedLabel() float64 {
	return math.Round(s.Speed*10) / 10
}

// OnGrid reports whether p should be drawn.
func (s Snapshot) OnGrid(p types.Point) bool {
	return s.Grid.InBounds(p)
}
