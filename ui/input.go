package ui

import (
	"central-snake/game"
	"central-snake/game/types"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// keyBindings maps raylib key codes to directions. Arrows and WASD both work.
var keyBindings = map[int32]types.Point{
	rl.KeyUp:    types.Up,
	rl.KeyDown:  types.Down,
	rl.KeyLeft:  types.Left,
	rl.KeyRight: types.Right,
	rl.KeyW:     types.Up,
	rl.KeyS:     types.Down,
	rl.KeyA:     types.Left,
	rl.KeyD:     types.Right,
}

// DirectionForKey resolves a key code to a direction.
func DirectionForKey(key int32) (types.Point, bool) {
	d, ok := keyBindings[key]
	return d, ok
}

// DirectionForGesture resolves a swipe to a direction.
func DirectionForGesture(g rl.Gestures) (types.Point, bool) {
	switch g {
	case rl.GestureSwipeUp:
		return types.Up, true
	case rl.GestureSwipeDown:
		return types.Down, true
	case rl.GestureSwipeLeft:
		return types.Left, true
	case rl.GestureSwipeRight:
		return types.Right, true
	}
	return types.Point{}, false
}

// Input reads the raylib keyboard and touch gestures.
type Input struct{}

func NewInput() *Input {
	rl.SetGesturesEnabled(uint32(rl.GestureSwipeUp | rl.GestureSwipeDown |
		rl.GestureSwipeLeft | rl.GestureSwipeRight | rl.GestureDoubletap))
	return &Input{}
}

// Poll drains the key queue for this frame in press order. Space or a double
// tap asks for a restart; Q quits. Other keys are ignored.
func (in *Input) Poll() game.Command {
	var cmd game.Command
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		if d, ok := DirectionForKey(key); ok {
			cmd.Dirs = append(cmd.Dirs, d)
			continue
		}
		switch key {
		case rl.KeySpace:
			cmd.Restart = true
		case rl.KeyQ:
			cmd.Quit = true
		}
	}

	switch g := rl.GetGestureDetected(); g {
	case rl.GestureDoubletap:
		cmd.Restart = true
	default:
		if d, ok := DirectionForGesture(g); ok {
			cmd.Dirs = append(cmd.Dirs, d)
		}
	}

	if rl.WindowShouldClose() {
		cmd.Quit = true
	}
	return cmd
}
