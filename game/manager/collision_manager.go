package manager

import (
	"central-snake/game/entity"
	"central-snake/game/types"
)

// CollisionType represents the type of collision
type CollisionType int

const (
	NoCollision CollisionType = iota
	WallCollision
	SelfCollision
	ObstacleCollision
)

func (c CollisionType) String() string {
	switch c {
	case NoCollision:
		return "none"
	case WallCollision:
		return "wall"
	case SelfCollision:
		return "self"
	case ObstacleCollision:
		return "obstacle"
	default:
		return "unknown"
	}
}

// NeckSlack is the highest body index the head may land on without dying.
// Segments 0..NeckSlack are ignored by the self-collision check.
const NeckSlack = 4

type CollisionManager struct {
	grid types.Grid
}

func NewCollisionManager(grid types.Grid) *CollisionManager {
	return &CollisionManager{
		grid: grid,
	}
}

// IsOccupied reports whether pos is taken by the snake, an obstacle, the food,
// the boost or any power-up.
func (cm *CollisionManager) IsOccupied(pos types.Point, w *entity.World) bool {
	if w.Snake.Contains(pos, 0) || w.Obstacles.Contains(pos) {
		return true
	}
	if pos == w.Food || pos == w.Boost {
		return true
	}
	for _, p := range w.PowerUps {
		if pos == p.Pos {
			return true
		}
	}
	return false
}

// ResolveHead applies wall handling to a projected head and classifies the
// move. With wrap set the head is folded back onto the grid instead of
// hitting the wall. The returned point is only meaningful for NoCollision.
func (cm *CollisionManager) ResolveHead(head types.Point, w *entity.World, wrap bool) (types.Point, CollisionType) {
	if wrap {
		head = cm.grid.Wrap(head)
	} else if cm.isWallCollision(head) {
		return head, WallCollision
	}

	if w.Snake.Contains(head, NeckSlack+1) {
		return head, SelfCollision
	}

	if w.Obstacles.Contains(head) {
		return head, ObstacleCollision
	}

	return head, NoCollision
}

// isWallCollision checks if a position collides with walls
func (cm *CollisionManager) isWallCollision(pos types.Point) bool {
	return !cm.grid.InBounds(pos)
}

// IsDanger reports whether moving the head one step in dir would end the
// session right now.
func (cm *CollisionManager) IsDanger(w *entity.World, dir types.Point) bool {
	head := w.Snake.GetHead().Add(dir)
	_, c := cm.ResolveHead(head, w, w.Timers.Pivot > 0)
	return c != NoCollision
}
