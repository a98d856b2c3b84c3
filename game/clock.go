package game

import (
	"fmt"
	"math"
	"time"

	"central-snake/game/entity"
)

// DrainPolicy decides how many elapsed intervals become steps in one frame.
type DrainPolicy int

const (
	// DrainOne runs at most one step per frame and drops any further backlog,
	// so the game slows down instead of bursting after a frame drop.
	DrainOne DrainPolicy = iota
	// DrainAll runs one step per elapsed interval, up to MaxCatchUpSteps.
	DrainAll
)

// MaxCatchUpSteps bounds DrainAll after a long stall.
const MaxCatchUpSteps = 8

func (p DrainPolicy) String() string {
	switch p {
	case DrainOne:
		return "one"
	case DrainAll:
		return "all"
	default:
		return "unknown"
	}
}

// ParseDrainPolicy accepts "one" or "all".
func ParseDrainPolicy(s string) (DrainPolicy, error) {
	switch s {
	case "one", "":
		return DrainOne, nil
	case "all":
		return DrainAll, nil
	}
	return DrainOne, fmt.Errorf("unknown drain policy %q", s)
}

// Interval is the current step interval for w: faster with speed level and
// boost, slower with Slow. Slow and boost stack multiplicatively.
func Interval(w *entity.World) time.Duration {
	f := math.Pow(SpeedStepFactor, (w.Speed-1)*4)
	if w.Timers.Slow > 0 {
		f *= SlowFactor
	}
	if w.Timers.Boost > 0 {
		f *= BoostFactor
	}
	return time.Duration(float64(BaseInterval) * f)
}

// Clock accumulates frame time and converts it into simulation steps.
type Clock struct {
	policy DrainPolicy
	acc    time.Duration
}

func NewClock(policy DrainPolicy) *Clock {
	return &Clock{policy: policy}
}

func (c *Clock) Policy() DrainPolicy {
	return c.policy
}

// Pending is the time accumulated towards the next step.
func (c *Clock) Pending() time.Duration {
	return c.acc
}

func (c *Clock) Reset() {
	c.acc = 0
}

// Advance adds dt and runs step for every interval that elapsed, as allowed by
// the drain policy. step returns false once the session has ended, which stops
// the drain and clears the accumulator. Advance returns the number of steps run.
func (c *Clock) Advance(dt time.Duration, w *entity.World, step func() bool) int {
	if dt > 0 {
		c.acc += dt
	}

	steps := 0
	for {
		interval := Interval(w)
		if interval <= 0 || c.acc < interval {
			return steps
		}
		if c.policy == DrainAll && steps == MaxCatchUpSteps {
			c.acc %= interval
			return steps
		}

		c.acc -= interval
		if c.policy == DrainOne {
			c.acc %= interval
		}

		steps++
		if !step() {
			c.acc = 0
			return steps
		}
		if c.policy == DrainOne {
			return steps
		}
	}
}
