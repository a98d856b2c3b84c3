package entity

import (
	"central-snake/game/types"
)

// Snake is an ordered body, head first.
type Snake struct {
	Body []types.Point
	// Direction is the direction committed by the last step.
	Direction types.Point
	// NextDirection is the latest accepted request, committed on the next step.
	NextDirection types.Point
}

func NewSnake(startPos types.Point, dir types.Point) *Snake {
	return &Snake{
		Body:          []types.Point{startPos},
		Direction:     dir,
		NextDirection: dir,
	}
}

func (s *Snake) GetHead() types.Point {
	return s.Body[0]
}

func (s *Snake) Len() int {
	return len(s.Body)
}

// Move pushes newHead to the front of the body.
func (s *Snake) Move(newHead types.Point) {
	s.Body = append(s.Body, types.Point{})
	copy(s.Body[1:], s.Body)
	s.Body[0] = newHead
}

func (s *Snake) RemoveTail() {
	if len(s.Body) > 1 {
		s.Body = s.Body[:len(s.Body)-1]
	}
}

// SetDirection queues dir for the next step. Requests that exactly reverse the
// committed direction, or that are not a cardinal direction, are ignored.
func (s *Snake) SetDirection(dir types.Point) bool {
	if !dir.IsDirection() || s.Direction.IsOpposite(dir) {
		return false
	}
	s.NextDirection = dir
	return true
}

// CommitDirection makes the queued request the active direction.
func (s *Snake) CommitDirection() types.Point {
	s.Direction = s.NextDirection
	return s.Direction
}

// Contains reports whether any segment at index >= from equals p.
func (s *Snake) Contains(p types.Point, from int) bool {
	for i := from; i < len(s.Body); i++ {
		if s.Body[i] == p {
			return true
		}
	}
	return false
}

func (s *Snake) Clone() *Snake {
	body := make([]types.Point, len(s.Body))
	copy(body, s.Body)
	return &Snake{Body: body, Direction: s.Direction, NextDirection: s.NextDirection}
}
