package entity

import (
	"central-snake/game/types"
)

// PowerKind identifies a timed power-up.
type PowerKind int

const (
	Pivot PowerKind = iota
	Slow
	DoublePoints
)

// PowerKinds lists every power-up kind in display order.
var PowerKinds = [3]PowerKind{Pivot, Slow, DoublePoints}

func (k PowerKind) String() string {
	switch k {
	case Pivot:
		return "Pivot"
	case Slow:
		return "Slow"
	case DoublePoints:
		return "Double Points"
	default:
		return "Unknown"
	}
}

// PowerUp is a pickup of a given kind sitting on the grid.
type PowerUp struct {
	Kind PowerKind
	Pos  types.Point
}

// Timers are the four modifier countdowns, in steps.
type Timers struct {
	Pivot        int
	Slow         int
	DoublePoints int
	Boost        int
}

// Set arms the timer belonging to a power-up kind.
func (t *Timers) Set(k PowerKind, ticks int) {
	switch k {
	case Pivot:
		t.Pivot = ticks
	case Slow:
		t.Slow = ticks
	case DoublePoints:
		t.DoublePoints = ticks
	}
}

// Get returns the timer belonging to a power-up kind.
func (t Timers) Get(k PowerKind) int {
	switch k {
	case Pivot:
		return t.Pivot
	case Slow:
		return t.Slow
	case DoublePoints:
		return t.DoublePoints
	}
	return 0
}

// Decay decrements every running timer by one.
func (t *Timers) Decay() {
	for _, v := range []*int{&t.Pivot, &t.Slow, &t.DoublePoints, &t.Boost} {
		if *v > 0 {
			*v--
		}
	}
}

// ObstacleSet keeps obstacles in insertion order with constant-time lookup.
type ObstacleSet struct {
	cells []types.Point
	index map[types.Point]struct{}
}

func NewObstacleSet() *ObstacleSet {
	return &ObstacleSet{index: make(map[types.Point]struct{})}
}

// Add inserts p and reports whether it was new.
func (o *ObstacleSet) Add(p types.Point) bool {
	if _, ok := o.index[p]; ok {
		return false
	}
	o.index[p] = struct{}{}
	o.cells = append(o.cells, p)
	return true
}

func (o *ObstacleSet) Contains(p types.Point) bool {
	_, ok := o.index[p]
	return ok
}

func (o *ObstacleSet) Len() int {
	return len(o.cells)
}

// Cells returns a copy of the obstacle cells in insertion order.
func (o *ObstacleSet) Cells() []types.Point {
	out := make([]types.Point, len(o.cells))
	copy(out, o.cells)
	return out
}

// World is the mutable aggregate advanced by the simulation step.
type World struct {
	Grid      types.Grid
	Snake     *Snake
	Obstacles *ObstacleSet
	Food      types.Point
	Boost     types.Point
	PowerUps  [3]PowerUp
	Timers    Timers
	Score     int
	Speed     float64
	Steps     int
}

// Unplaced marks a pickup that has not been put on the grid yet. It lies off
// the grid so it never matches a sampled cell.
var Unplaced = types.Point{X: -1, Y: -1}

// NewWorld returns a world with a length-one snake at start and every pickup
// Unplaced. Pickups are placed by the spawn manager.
func NewWorld(grid types.Grid, start, dir types.Point) *World {
	w := &World{
		Grid:      grid,
		Snake:     NewSnake(start, dir),
		Obstacles: NewObstacleSet(),
		Food:      Unplaced,
		Boost:     Unplaced,
		Speed:     1,
	}
	for i, k := range PowerKinds {
		w.PowerUps[i] = PowerUp{Kind: k, Pos: Unplaced}
	}
	return w
}

// PowerUp returns the pickup of kind k.
func (w *World) PowerUp(k PowerKind) *PowerUp {
	for i := range w.PowerUps {
		if w.PowerUps[i].Kind == k {
			return &w.PowerUps[i]
		}
	}
	return nil
}
