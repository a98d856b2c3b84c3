package game

import (
	"central-snake/game/types"
)

// Command is one frame worth of player input.
type Command struct {
	Dirs    []types.Point // Requested directions, oldest first
	Restart bool
	Quit    bool
}

// Empty reports whether the command carries no input.
func (c Command) Empty() bool {
	return len(c.Dirs) == 0 && !c.Restart && !c.Quit
}

// Merge appends other's requests after c's.
func (c Command) Merge(other Command) Command {
	c.Dirs = append(c.Dirs, other.Dirs...)
	c.Restart = c.Restart || other.Restart
	c.Quit = c.Quit || other.Quit
	return c
}

// InputSource produces player input once per frame.
type InputSource interface {
	Poll() Command
}
