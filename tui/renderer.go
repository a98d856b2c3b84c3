// Package tui renders the game in a terminal and reads keyboard input through
// tcell. Each grid cell is two terminal columns wide so cells look square.
package tui

import (
	"fmt"

	"central-snake/game"
	"central-snake/game/entity"
	"central-snake/game/types"

	"github.com/gdamore/tcell/v2"
)

const (
	cellWidth = 2 // Terminal columns per grid cell
	hudRows   = 1 // Status line above the board
)

var (
	styleDefault  = tcell.StyleDefault.Background(tcell.NewHexColor(0x0b1220)).Foreground(tcell.NewHexColor(0xe5e7eb))
	styleBorder   = styleDefault.Foreground(tcell.ColorGray)
	styleSnake    = styleDefault.Foreground(tcell.NewHexColor(0x34d399))
	styleHead     = styleDefault.Foreground(tcell.NewHexColor(0x10b981)).Bold(true)
	styleFood     = styleDefault.Foreground(tcell.NewHexColor(0xf59e0b))
	styleObstacle = styleDefault.Foreground(tcell.NewHexColor(0xf97316))
	styleBoost    = styleDefault.Foreground(tcell.NewHexColor(0x22d3ee))
	styleOverlay  = styleDefault.Foreground(tcell.ColorWhite).Bold(true).Reverse(true)
)

func powerStyle(k entity.PowerKind) tcell.Style {
	switch k {
	case entity.Pivot:
		return styleDefault.Foreground(tcell.NewHexColor(0x60a5fa)).Bold(true)
	case entity.Slow:
		return styleDefault.Foreground(tcell.NewHexColor(0xa78bfa)).Bold(true)
	default:
		return styleDefault.Foreground(tcell.NewHexColor(0xf472b6)).Bold(true)
	}
}

// Glyphs drawn for each entity, two columns per cell.
var (
	glyphSnake    = [cellWidth]rune{'█', '█'}
	glyphFood     = [cellWidth]rune{'(', ')'}
	glyphObstacle = [cellWidth]rune{'▓', '▓'}
	glyphBoost    = [cellWidth]rune{'>', '>'}
)

func powerGlyph(k entity.PowerKind) [cellWidth]rune {
	switch k {
	case entity.Pivot:
		return [cellWidth]rune{'[', 'P'}
	case entity.Slow:
		return [cellWidth]rune{'[', 'S'}
	default:
		return [cellWidth]rune{'[', '2'}
	}
}

func headGlyph(dir types.Point) [cellWidth]rune {
	switch dir {
	case types.Up:
		return [cellWidth]rune{'▲', ' '}
	case types.Down:
		return [cellWidth]rune{'▼', ' '}
	case types.Left:
		return [cellWidth]rune{'◀', ' '}
	default:
		return [cellWidth]rune{'▶', ' '}
	}
}

// Renderer draws snapshots onto a tcell screen.
type Renderer struct {
	screen tcell.Screen
}

func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Draw renders one frame of snap. A board that does not fit the terminal is
// replaced by a resize hint.
func (r *Renderer) Draw(snap game.Snapshot) {
	r.screen.Clear()
	r.screen.Fill(' ', styleDefault)

	width, height := r.screen.Size()
	needW, needH := BoardSize(snap.Grid)
	if width < needW || height < needH {
		r.drawText(0, 0, fmt.Sprintf("terminal too small: need %dx%d", needW, needH), styleDefault)
		r.screen.Show()
		return
	}

	r.drawText(0, 0, HUDLine(snap), styleDefault)
	r.drawBorder(snap.Grid)

	for _, o := range snap.Obstacles {
		r.drawCell(o, glyphObstacle, styleObstacle)
	}
	if snap.OnGrid(snap.Food) {
		r.drawCell(snap.Food, glyphFood, styleFood)
	}
	if snap.OnGrid(snap.Boost) {
		r.drawCell(snap.Boost, glyphBoost, styleBoost)
	}
	for _, p := range snap.PowerUps {
		if snap.OnGrid(p.Pos) {
			r.drawCell(p.Pos, powerGlyph(p.Kind), powerStyle(p.Kind))
		}
	}
	for i := len(snap.Snake) - 1; i >= 1; i-- {
		r.drawCell(snap.Snake[i], glyphSnake, styleSnake)
	}
	if len(snap.Snake) > 0 {
		r.drawCell(snap.Snake[0], headGlyph(snap.Direction), styleHead)
	}

	r.drawText(0, hudRows+snap.Grid.Height+2, BadgeLine(snap.Badges), styleBoost)

	if snap.State == game.GameOver {
		msg := " Game Over - press Space to restart "
		x := (needW - len([]rune(msg))) / 2
		r.drawText(max(x, 0), hudRows+1+snap.Grid.Height/2, msg, styleOverlay)
	}

	r.screen.Show()
}

// BoardSize is the terminal area needed for grid, HUD and badges.
func BoardSize(grid types.Grid) (int, int) {
	return grid.Width*cellWidth + 2, grid.Height + hudRows + 3
}

// CellPosition maps a grid cell to the terminal column and row of its left half.
func CellPosition(p types.Point) (int, int) {
	return 1 + p.X*cellWidth, hudRows + 1 + p.Y
}

func (r *Renderer) drawCell(p types.Point, glyph [cellWidth]rune, style tcell.Style) {
	x, y := CellPosition(p)
	for i, ch := range glyph {
		r.screen.SetContent(x+i, y, ch, nil, style)
	}
}

func (r *Renderer) drawBorder(grid types.Grid) {
	top := hudRows
	bottom := hudRows + grid.Height + 1
	right := grid.Width*cellWidth + 1
	for x := 1; x < right; x++ {
		r.screen.SetContent(x, top, '─', nil, styleBorder)
		r.screen.SetContent(x, bottom, '─', nil, styleBorder)
	}
	for y := top + 1; y < bottom; y++ {
		r.screen.SetContent(0, y, '│', nil, styleBorder)
		r.screen.SetContent(right, y, '│', nil, styleBorder)
	}
	r.screen.SetContent(0, top, '┌', nil, styleBorder)
	r.screen.SetContent(right, top, '┐', nil, styleBorder)
	r.screen.SetContent(0, bottom, '└', nil, styleBorder)
	r.screen.SetContent(right, bottom, '┘', nil, styleBorder)
}

func (r *Renderer) drawText(x, y int, text string, style tcell.Style) {
	for _, ch := range text {
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}

// HUDLine is the status line above the board.
func HUDLine(snap game.Snapshot) string {
	return fmt.Sprintf("Score %d | Hi %d | Speed %.1fx | %s | Games %d",
		snap.Score, snap.HighScore, snap.SpeedLabel(), snap.Mode, snap.Stats.GamesPlayed)
}

// BadgeLine lists active modifiers, e.g. "[Pivot 7s] [Boost 3s]".
func BadgeLine(badges []game.Badge) string {
	line := ""
	for i, b := range badges {
		if i > 0 {
			line += " "
		}
		line += fmt.Sprintf("[%s %ds]", b.Label, b.Seconds)
	}
	return line
}
