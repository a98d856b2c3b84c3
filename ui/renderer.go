package ui

import (
	"fmt"

	"central-snake/game"
	"central-snake/game/entity"
	"central-snake/game/types"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	borderPadding = 10 // Padding around game area
	hudHeight     = 28 // Score line above the grid
	badgeHeight   = 24 // Active modifier row below the grid
)

// Palette colours.
var (
	colorBackground = rl.NewColor(0x0b, 0x12, 0x20, 255)
	colorGrid       = rl.NewColor(0x0f, 0x17, 0x2a, 255)
	colorSnake      = rl.NewColor(0x34, 0xd3, 0x99, 255)
	colorSnakeHead  = rl.NewColor(0x10, 0xb9, 0x81, 255)
	colorFood       = rl.NewColor(0xf5, 0x9e, 0x0b, 255)
	colorObstacle   = rl.NewColor(0xf9, 0x73, 0x16, 255)
	colorText       = rl.NewColor(0xe5, 0xe7, 0xeb, 255)
	colorBoost      = rl.NewColor(0x22, 0xd3, 0xee, 255)
)

// PowerColor is the fill colour of a power-up kind.
func PowerColor(k entity.PowerKind) rl.Color {
	switch k {
	case entity.Pivot:
		return rl.NewColor(0x60, 0xa5, 0xfa, 255)
	case entity.Slow:
		return rl.NewColor(0xa7, 0x8b, 0xfa, 255)
	case entity.DoublePoints:
		return rl.NewColor(0xf4, 0x72, 0xb6, 255)
	default:
		return rl.Gray
	}
}

// PowerGlyph is the letter drawn on a power-up of kind k.
func PowerGlyph(k entity.PowerKind) string {
	switch k {
	case entity.Pivot:
		return "P"
	case entity.Slow:
		return "S"
	case entity.DoublePoints:
		return "2"
	default:
		return "?"
	}
}

// Layout places the grid inside the window.
type Layout struct {
	CellSize int32
	OffsetX  int32
	OffsetY  int32
	Width    int32
	Height   int32
}

// ComputeLayout fits a grid into a screen, keeping cells square and leaving
// room for the HUD and badge rows.
func ComputeLayout(screenWidth, screenHeight int32, grid types.Grid) Layout {
	availableWidth := screenWidth - borderPadding*2
	availableHeight := screenHeight - borderPadding*2 - hudHeight - badgeHeight

	cellW := availableWidth / int32(grid.Width)
	cellH := availableHeight / int32(grid.Height)
	cell := min(cellW, cellH)
	if cell < 1 {
		cell = 1
	}

	l := Layout{
		CellSize: cell,
		Width:    cell * int32(grid.Width),
		Height:   cell * int32(grid.Height),
	}
	l.OffsetX = (screenWidth - l.Width) / 2
	l.OffsetY = borderPadding + hudHeight
	return l
}

// WindowSize is the window that fits grid at the given cell size.
func WindowSize(grid types.Grid, cellSize int) (int32, int32) {
	w := int32(grid.Width*cellSize) + borderPadding*2
	h := int32(grid.Height*cellSize) + borderPadding*2 + hudHeight + badgeHeight
	return w, h
}

// CellOrigin is the top-left pixel of a cell.
func (l Layout) CellOrigin(p types.Point) (int32, int32) {
	return l.OffsetX + int32(p.X)*l.CellSize, l.OffsetY + int32(p.Y)*l.CellSize
}

type Renderer struct {
	screenWidth  int32
	screenHeight int32
	layout       Layout
}

func NewRenderer() *Renderer {
	r := &Renderer{}
	r.UpdateDimensions()
	return r
}

func (r *Renderer) UpdateDimensions() {
	r.screenWidth = int32(rl.GetScreenWidth())
	r.screenHeight = int32(rl.GetScreenHeight())
}

// Draw renders one frame of snap.
func (r *Renderer) Draw(snap game.Snapshot) {
	r.UpdateDimensions()
	r.layout = ComputeLayout(r.screenWidth, r.screenHeight, snap.Grid)

	rl.BeginDrawing()
	rl.ClearBackground(colorBackground)

	r.drawGrid(snap.Grid)

	for _, o := range snap.Obstacles {
		r.drawCell(o, colorObstacle, 2)
	}
	if snap.OnGrid(snap.Food) {
		r.drawFood(snap.Food)
	}
	if snap.OnGrid(snap.Boost) {
		r.drawBoost(snap.Boost)
	}
	for _, p := range snap.PowerUps {
		if snap.OnGrid(p.Pos) {
			r.drawPowerUp(p)
		}
	}
	r.drawSnake(snap.Snake, snap.Direction)

	r.drawHUD(snap)
	r.drawBadges(snap.Badges)
	if snap.State == game.GameOver {
		r.drawGameOver(snap)
	}

	rl.EndDrawing()
}

func (r *Renderer) drawGrid(grid types.Grid) {
	l := r.layout
	rl.DrawRectangle(l.OffsetX-1, l.OffsetY-1, l.Width+2, l.Height+2, rl.DarkGray)
	rl.DrawRectangle(l.OffsetX, l.OffsetY, l.Width, l.Height, colorBackground)
	for x := 0; x <= grid.Width; x++ {
		px := l.OffsetX + int32(x)*l.CellSize
		rl.DrawLine(px, l.OffsetY, px, l.OffsetY+l.Height, colorGrid)
	}
	for y := 0; y <= grid.Height; y++ {
		py := l.OffsetY + int32(y)*l.CellSize
		rl.DrawLine(l.OffsetX, py, l.OffsetX+l.Width, py, colorGrid)
	}
}

// drawCell fills a cell leaving an inset border.
func (r *Renderer) drawCell(p types.Point, color rl.Color, inset int32) {
	x, y := r.layout.CellOrigin(p)
	size := r.layout.CellSize - inset*2
	if size < 1 {
		size = 1
	}
	rl.DrawRectangle(x+inset, y+inset, size, size, color)
}

func (r *Renderer) drawFood(p types.Point) {
	x, y := r.layout.CellOrigin(p)
	half := float32(r.layout.CellSize) / 2
	rl.DrawCircle(x+int32(half), y+int32(half), half*0.7, colorFood)
}

func (r *Renderer) drawBoost(p types.Point) {
	x, y := r.layout.CellOrigin(p)
	c := float32(r.layout.CellSize)
	fx, fy := float32(x), float32(y)
	rl.DrawTriangle(
		rl.Vector2{X: fx + c*0.2, Y: fy + c*0.15},
		rl.Vector2{X: fx + c*0.2, Y: fy + c*0.85},
		rl.Vector2{X: fx + c*0.85, Y: fy + c*0.5},
		colorBoost)
}

func (r *Renderer) drawPowerUp(p entity.PowerUp) {
	r.drawCell(p.Pos, PowerColor(p.Kind), 2)
	x, y := r.layout.CellOrigin(p.Pos)
	fontSize := r.layout.CellSize * 3 / 4
	glyph := PowerGlyph(p.Kind)
	tw := rl.MeasureText(glyph, fontSize)
	rl.DrawText(glyph, x+(r.layout.CellSize-tw)/2, y+(r.layout.CellSize-fontSize)/2, fontSize, colorBackground)
}

func (r *Renderer) drawSnake(body []types.Point, direction types.Point) {
	// Tail first so the head is drawn on top.
	for i := len(body) - 1; i >= 0; i-- {
		color := colorSnake
		if i == 0 {
			color = colorSnakeHead
		}
		r.drawCell(body[i], color, 2)
	}
	if len(body) > 0 {
		r.drawHeadMarker(body[0], direction)
	}
}

// drawHeadMarker points a small triangle in the direction of travel.
func (r *Renderer) drawHeadMarker(head, direction types.Point) {
	x, y := r.layout.CellOrigin(head)
	c := float32(r.layout.CellSize)
	fx, fy := float32(x), float32(y)
	half := c / 2
	var a, b, tip rl.Vector2
	switch direction {
	case types.Right:
		tip = rl.Vector2{X: fx + c, Y: fy + half}
		a = rl.Vector2{X: fx + half, Y: fy + c*0.25}
		b = rl.Vector2{X: fx + half, Y: fy + c*0.75}
	case types.Left:
		tip = rl.Vector2{X: fx, Y: fy + half}
		a = rl.Vector2{X: fx + half, Y: fy + c*0.75}
		b = rl.Vector2{X: fx + half, Y: fy + c*0.25}
	case types.Down:
		tip = rl.Vector2{X: fx + half, Y: fy + c}
		a = rl.Vector2{X: fx + c*0.75, Y: fy + half}
		b = rl.Vector2{X: fx + c*0.25, Y: fy + half}
	default:
		tip = rl.Vector2{X: fx + half, Y: fy}
		a = rl.Vector2{X: fx + c*0.25, Y: fy + half}
		b = rl.Vector2{X: fx + c*0.75, Y: fy + half}
	}
	// raylib wants counter-clockwise vertex order.
	rl.DrawTriangle(tip, a, b, rl.Yellow)
}

func (r *Renderer) drawHUD(snap game.Snapshot) {
	fontSize := int32(16)
	y := int32(borderPadding + 4)
	rl.DrawText(HUDLine(snap), r.layout.OffsetX, y, fontSize, colorText)

	stats := StatsLine(snap)
	tw := rl.MeasureText(stats, fontSize)
	rl.DrawText(stats, r.layout.OffsetX+r.layout.Width-tw, y, fontSize, rl.Gray)
}

func (r *Renderer) drawBadges(badges []game.Badge) {
	fontSize := int32(14)
	x := r.layout.OffsetX
	y := r.layout.OffsetY + r.layout.Height + 6
	for _, b := range badges {
		label := BadgeLabel(b)
		tw := rl.MeasureText(label, fontSize)
		rl.DrawRectangle(x, y, tw+12, fontSize+6, rl.Fade(colorBoost, 0.25))
		rl.DrawText(label, x+6, y+3, fontSize, colorText)
		x += tw + 20
	}
}

func (r *Renderer) drawGameOver(snap game.Snapshot) {
	l := r.layout
	rl.DrawRectangle(0, 0, r.screenWidth, r.screenHeight, rl.Fade(rl.Black, 0.5))

	fontSize := int32(24)
	text := "Game Over - press Space to restart"
	tw := rl.MeasureText(text, fontSize)
	cy := l.OffsetY + l.Height/2
	rl.DrawText(text, l.OffsetX+(l.Width-tw)/2, cy-fontSize, fontSize, rl.White)

	detail := fmt.Sprintf("Score %d | Best %d", snap.Score, snap.HighScore)
	dw := rl.MeasureText(detail, 18)
	rl.DrawText(detail, l.OffsetX+(l.Width-dw)/2, cy+8, 18, colorText)
}

// HUDLine is the status text shown above the grid.
func HUDLine(snap game.Snapshot) string {
	return fmt.Sprintf("Score %d | Hi %d | Speed %.1fx | %s",
		snap.Score, snap.HighScore, snap.SpeedLabel(), snap.Mode)
}

// StatsLine summarises past sessions.
func StatsLine(snap game.Snapshot) string {
	return fmt.Sprintf("Games %d | Avg %.1f | Med %.1f", snap.Stats.GamesPlayed, snap.Stats.AverageScore, snap.Stats.MedianScore)
}

// BadgeLabel formats a modifier badge, e.g. "Pivot 7s".
func BadgeLabel(b game.Badge) string {
	return fmt.Sprintf("%s %ds", b.Label, b.Seconds)
}
