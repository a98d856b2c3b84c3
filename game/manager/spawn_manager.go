package manager

import (
	"errors"
	"log/slog"

	"central-snake/game/entity"
	"central-snake/game/types"

	"golang.org/x/exp/rand"
)

const (
	MaxPlacementAttempts = 256  // Random samples before falling back to a full scan
	ObstacleDensity      = 0.12 // Obstacles never cover more than this share of the grid
	RingInset            = 2    // Distance of the obstacle ring from the edge
	InteriorObstacles    = 18   // Random obstacles added by the initial layout
)

// ErrNoFreeCell is returned when every cell on the grid is occupied.
var ErrNoFreeCell = errors.New("no free cell on grid")

type SpawnManager struct {
	grid         types.Grid
	collisionMgr *CollisionManager
	rng          *rand.Rand
	logger       *slog.Logger
}

func NewSpawnManager(grid types.Grid, collisionMgr *CollisionManager, rng *rand.Rand, logger *slog.Logger) *SpawnManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &SpawnManager{
		grid:         grid,
		collisionMgr: collisionMgr,
		rng:          rng,
		logger:       logger,
	}
}

// RandomFreeCell samples cells uniformly until one is free. After
// MaxPlacementAttempts misses it scans the grid and picks uniformly among the
// free cells that remain.
func (sm *SpawnManager) RandomFreeCell(w *entity.World) (types.Point, error) {
	for attempts := 0; attempts < MaxPlacementAttempts; attempts++ {
		cell := types.Point{
			X: sm.rng.Intn(sm.grid.Width),
			Y: sm.rng.Intn(sm.grid.Height),
		}
		if !sm.collisionMgr.IsOccupied(cell, w) {
			return cell, nil
		}
	}

	free := sm.FreeCells(w)
	sm.logger.Debug("placement fell back to scan", "free", len(free), "attempts", MaxPlacementAttempts)
	if len(free) == 0 {
		return types.Point{}, ErrNoFreeCell
	}
	return free[sm.rng.Intn(len(free))], nil
}

// FreeCells lists every unoccupied cell in row-major order.
func (sm *SpawnManager) FreeCells(w *entity.World) []types.Point {
	free := make([]types.Point, 0, sm.grid.Cells())
	for y := 0; y < sm.grid.Height; y++ {
		for x := 0; x < sm.grid.Width; x++ {
			p := types.Point{X: x, Y: y}
			if !sm.collisionMgr.IsOccupied(p, w) {
				free = append(free, p)
			}
		}
	}
	return free
}

// ObstacleCap is the largest obstacle count allowed on this grid.
func (sm *SpawnManager) ObstacleCap() int {
	return int(ObstacleDensity*float64(sm.grid.Cells()) + 1e-9)
}

// AddObstacle places one obstacle on a free cell if the cap allows it.
func (sm *SpawnManager) AddObstacle(w *entity.World) (types.Point, bool) {
	if w.Obstacles.Len() >= sm.ObstacleCap() {
		return types.Point{}, false
	}
	cell, err := sm.RandomFreeCell(w)
	if err != nil {
		return types.Point{}, false
	}
	return cell, w.Obstacles.Add(cell)
}

// Populate lays out a fresh world: a ring of alternating obstacles inset from
// the edges, random interior obstacles, then the food, the boost and one
// power-up of each kind. Nothing overlaps and the obstacle cap is respected.
func (sm *SpawnManager) Populate(w *entity.World) error {
	for _, p := range sm.ring() {
		if w.Obstacles.Len() >= sm.ObstacleCap() {
			break
		}
		if w.Snake.Contains(p, 0) {
			continue
		}
		w.Obstacles.Add(p)
	}

	for i := 0; i < InteriorObstacles; i++ {
		if _, ok := sm.AddObstacle(w); !ok {
			break
		}
	}

	var err error
	if w.Food, err = sm.RandomFreeCell(w); err != nil {
		return err
	}
	if w.Boost, err = sm.RandomFreeCell(w); err != nil {
		return err
	}
	for i := range w.PowerUps {
		if w.PowerUps[i].Pos, err = sm.RandomFreeCell(w); err != nil {
			return err
		}
	}
	return nil
}

// ring returns the sparse wall-adjacent obstacle cells: every other cell of
// the rows and columns RingInset cells in from each edge.
func (sm *SpawnManager) ring() []types.Point {
	w, h := sm.grid.Width, sm.grid.Height
	cells := make([]types.Point, 0, w+h)
	for x := 0; x < w; x++ {
		if x%2 == 0 {
			cells = append(cells, types.Point{X: x, Y: RingInset}, types.Point{X: x, Y: h - RingInset - 1})
		}
	}
	for y := RingInset; y < h-RingInset; y++ {
		if y%2 == 0 {
			cells = append(cells, types.Point{X: RingInset, Y: y}, types.Point{X: w - RingInset - 1, Y: y})
		}
	}
	out := cells[:0]
	for _, c := range cells {
		if sm.grid.InBounds(c) {
			out = append(out, c)
		}
	}
	return out
}
