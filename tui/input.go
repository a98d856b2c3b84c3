package tui

import (
	"central-snake/game"
	"central-snake/game/types"

	"github.com/gdamore/tcell/v2"
)

// eventBuffer bounds the events queued between two frames.
const eventBuffer = 100

// Input pumps tcell events from a goroutine and turns them into commands once
// per frame.
type Input struct {
	events chan tcell.Event
	resize bool
}

// NewInput starts the event pump. It stops when the screen is finalized and
// PollEvent returns nil.
func NewInput(screen tcell.Screen) *Input {
	in := &Input{events: make(chan tcell.Event, eventBuffer)}
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(in.events)
				return
			}
			in.events <- ev
		}
	}()
	return in
}

// Poll drains every queued event without blocking.
func (in *Input) Poll() game.Command {
	var cmd game.Command
	for {
		select {
		case ev, ok := <-in.events:
			if !ok {
				cmd.Quit = true
				return cmd
			}
			cmd = cmd.Merge(in.translate(ev))
		default:
			return cmd
		}
	}
}

// Resized reports, and clears, whether the terminal was resized since the
// last call.
func (in *Input) Resized() bool {
	r := in.resize
	in.resize = false
	return r
}

func (in *Input) translate(ev tcell.Event) game.Command {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return CommandForKey(ev)
	case *tcell.EventResize:
		in.resize = true
	}
	return game.Command{}
}

// CommandForKey maps a key press to a command. Unknown keys yield an empty
// command.
func CommandForKey(ev *tcell.EventKey) game.Command {
	switch ev.Key() {
	case tcell.KeyUp:
		return dir(types.Up)
	case tcell.KeyDown:
		return dir(types.Down)
	case tcell.KeyLeft:
		return dir(types.Left)
	case tcell.KeyRight:
		return dir(types.Right)
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return game.Command{Quit: true}
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'W':
			return dir(types.Up)
		case 's', 'S':
			return dir(types.Down)
		case 'a', 'A':
			return dir(types.Left)
		case 'd', 'D':
			return dir(types.Right)
		case ' ':
			return game.Command{Restart: true}
		case 'q', 'Q':
			return game.Command{Quit: true}
		}
	}
	return game.Command{}
}

func dir(d types.Point) game.Command {
	return game.Command{Dirs: []types.Point{d}}
}
