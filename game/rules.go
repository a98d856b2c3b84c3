package game

import (
	"time"
)

// Timing and balance constants.
const (
	BaseInterval    = 140 * time.Millisecond // Step interval at speed 1 with no modifiers
	SpeedStepFactor = 0.9                    // Interval multiplier per quarter speed level
	SlowFactor      = 1.6                    // Interval multiplier while Slow is active
	BoostFactor     = 0.7                    // Interval multiplier while the speed boost is active

	StartSpeed     = 1.0
	MaxSpeed       = 3.5
	SpeedIncrement = 0.1

	BoostDuration   = 7 * time.Second
	PowerUpDuration = 8 * time.Second
)

// Rules holds the tunable parts of the simulation.
type Rules struct {
	BoostTicks           int     // Steps a speed boost lasts
	PowerUpTicks         int     // Steps a power-up lasts
	SpeedUpChance        float64 // Chance that eating raises the speed level
	ObstacleGrowthChance float64 // Chance per step of a new obstacle
	FoodPoints           int
	DoubleFoodPoints     int
}

// DefaultRules expresses pickup durations in steps at BaseInterval.
func DefaultRules() Rules {
	return Rules{
		BoostTicks:           TicksFor(BoostDuration, BaseInterval),
		PowerUpTicks:         TicksFor(PowerUpDuration, BaseInterval),
		SpeedUpChance:        0.25,
		ObstacleGrowthChance: 0.03,
		FoodPoints:           1,
		DoubleFoodPoints:     2,
	}
}

// TicksFor converts a duration into whole steps of the given interval,
// rounding up.
func TicksFor(d, interval time.Duration) int {
	if interval <= 0 {
		return 0
	}
	return int((d + interval - 1) / interval)
}
