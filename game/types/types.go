package types

import "strconv"

// Grid represents the game grid dimensions
type Grid struct {
	Width  int
	Height int
}

// Point is a cell on the grid, or a unit step when used as a direction.
type Point struct {
	X, Y int
}

// Cardinal directions. Y grows downwards.
var (
	Up    = Point{X: 0, Y: -1}
	Down  = Point{X: 0, Y: 1}
	Left  = Point{X: -1, Y: 0}
	Right = Point{X: 1, Y: 0}
)

// Directions lists the four cardinal directions in a fixed order.
var Directions = [4]Point{Up, Right, Down, Left}

// Cells returns the number of cells on the grid.
func (g Grid) Cells() int {
	return g.Width * g.Height
}

// Center returns the middle cell, rounding down.
func (g Grid) Center() Point {
	return Point{X: g.Width / 2, Y: g.Height / 2}
}

// InBounds reports whether p lies on the grid.
func (g Grid) InBounds(p Point) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// Wrap maps p back onto the grid, treating both axes as toroidal.
func (g Grid) Wrap(p Point) Point {
	return Point{X: wrap(p.X, g.Width), Y: wrap(p.Y, g.Height)}
}

func wrap(v, n int) int {
	return ((v % n) + n) % n
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// IsOpposite reports whether q is the exact negation of p. The zero vector
// has no opposite.
func (p Point) IsOpposite(q Point) bool {
	if p == (Point{}) {
		return false
	}
	return p.X == -q.X && p.Y == -q.Y
}

// IsDirection reports whether p is one of the four cardinal unit vectors.
func (p Point) IsDirection() bool {
	return p == Up || p == Down || p == Left || p == Right
}

// TurnLeft rotates a direction 90° counter-clockwise on screen.
func (p Point) TurnLeft() Point {
	return Point{X: p.Y, Y: -p.X}
}

// TurnRight rotates a direction 90° clockwise on screen.
func (p Point) TurnRight() Point {
	return Point{X: -p.Y, Y: p.X}
}

// String names cardinal directions and falls back to coordinates.
func (p Point) String() string {
	switch p {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "(" + strconv.Itoa(p.X) + "," + strconv.Itoa(p.Y) + ")"
}
