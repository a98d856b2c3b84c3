// Package game advances the snake world one step at a time and drives it from
// a host frame loop.
package game

import (
	"errors"
	"log/slog"
	"math"

	"central-snake/game/entity"
	"central-snake/game/manager"
	"central-snake/game/types"

	"golang.org/x/exp/rand"
)

// StepResult reports what happened during one step.
type StepResult struct {
	Collision     manager.CollisionType
	Ate           bool
	Points        int
	SpeedUp       bool
	Boosted       bool
	PoweredUp     []entity.PowerKind
	ObstacleAdded bool
	Steps         int
}

// Over reports whether the step ended the session.
func (r StepResult) Over() bool {
	return r.Collision != manager.NoCollision
}

// merge folds a later step into r.
func (r StepResult) merge(next StepResult) StepResult {
	r.Collision = next.Collision
	r.Ate = r.Ate || next.Ate
	r.Points += next.Points
	r.SpeedUp = r.SpeedUp || next.SpeedUp
	r.Boosted = r.Boosted || next.Boosted
	r.PoweredUp = append(r.PoweredUp, next.PoweredUp...)
	r.ObstacleAdded = r.ObstacleAdded || next.ObstacleAdded
	r.Steps += next.Steps
	return r
}

// Simulator applies the rules to a world. It holds no world state itself, so
// one simulator can advance any number of worlds on the same grid.
type Simulator struct {
	grid         types.Grid
	rules        Rules
	rng          *rand.Rand
	collisionMgr *manager.CollisionManager
	spawnMgr     *manager.SpawnManager
	logger       *slog.Logger
}

func NewSimulator(grid types.Grid, rules Rules, rng *rand.Rand, logger *slog.Logger) *Simulator {
	if logger == nil {
		logger = slog.Default()
	}
	collisionMgr := manager.NewCollisionManager(grid)
	return &Simulator{
		grid:         grid,
		rules:        rules,
		rng:          rng,
		collisionMgr: collisionMgr,
		spawnMgr:     manager.NewSpawnManager(grid, collisionMgr, rng, logger),
		logger:       logger,
	}
}

// NewWorld builds the starting layout: a one-cell snake in the middle of the
// grid heading right, obstacles, and every pickup on a free cell.
func (s *Simulator) NewWorld() (*entity.World, error) {
	w := entity.NewWorld(s.grid, s.grid.Center(), types.Right)
	if err := s.spawnMgr.Populate(w); err != nil {
		return nil, err
	}
	return w, nil
}

// CollisionManager exposes the occupancy and collision checks used by Step.
func (s *Simulator) CollisionManager() *manager.CollisionManager {
	return s.collisionMgr
}

// Step advances w by exactly one tick. A collision leaves the body, pickups,
// timers and obstacles untouched and is reported in the result.
func (s *Simulator) Step(w *entity.World) StepResult {
	res := StepResult{Steps: 1}

	dir := w.Snake.CommitDirection()
	head := w.Snake.GetHead().Add(dir)

	head, res.Collision = s.collisionMgr.ResolveHead(head, w, w.Timers.Pivot > 0)
	if res.Collision != manager.NoCollision {
		return res
	}

	w.Snake.Move(head)
	w.Steps++

	if head == w.Food {
		res.Ate = true
		res.Points = s.rules.FoodPoints
		if w.Timers.DoublePoints > 0 {
			res.Points = s.rules.DoubleFoodPoints
		}
		w.Score += res.Points
		s.relocate(w, &w.Food, "food")
		if s.rng.Float64() < s.rules.SpeedUpChance {
			w.Speed = math.Min(MaxSpeed, w.Speed+SpeedIncrement)
			res.SpeedUp = true
		}
	}

	if head == w.Boost {
		res.Boosted = true
		w.Timers.Boost = s.rules.BoostTicks
		s.relocate(w, &w.Boost, "boost")
	}

	for i := range w.PowerUps {
		p := &w.PowerUps[i]
		if head == p.Pos {
			res.PoweredUp = append(res.PoweredUp, p.Kind)
			w.Timers.Set(p.Kind, s.rules.PowerUpTicks)
			s.relocate(w, &p.Pos, p.Kind.String())
		}
	}

	if !res.Ate {
		w.Snake.RemoveTail()
	}

	w.Timers.Decay()

	if s.rng.Float64() < s.rules.ObstacleGrowthChance {
		_, res.ObstacleAdded = s.spawnMgr.AddObstacle(w)
	}

	return res
}

// relocate moves a consumed pickup to a free cell. On a full grid the pickup
// stays where it is.
func (s *Simulator) relocate(w *entity.World, pos *types.Point, name string) {
	cell, err := s.spawnMgr.RandomFreeCell(w)
	if err != nil {
		if errors.Is(err, manager.ErrNoFreeCell) {
			s.logger.Warn("grid full, pickup not relocated", "pickup", name)
		}
		return
	}
	*pos = cell
}
