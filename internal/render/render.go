// Package render draws environment observations into a core.Screen.
// It only reads observations, so any driver (human play, replays, SSH
// sessions) can share it.
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/fruitdrop/internal/config"
	"github.com/vovakirdan/fruitdrop/internal/core"
	"github.com/vovakirdan/fruitdrop/internal/env"
)

// Minimum screen size that still shows a usable board.
const (
	MinWidth  = 30
	MinHeight = 14
)

// cellAspect is the height/width ratio of a terminal cell.
const cellAspect = 2.0

// Box-drawing and fill characters.
const (
	WallVert    = '│'
	FloorHoriz  = '─'
	CornerLeft  = '└'
	CornerRight = '┘'
	LoseLine    = '┄'
	DropGuide   = '┆'
	FruitFill   = '█'
	PreviewFill = '░'
)

// Frame is everything needed to draw one picture.
type Frame struct {
	Obs       env.Observation
	Done      bool
	Reason    string
	Paused    bool
	HighScore int
	Hint      string // Bottom line; empty hides it
}

// Renderer maps container coordinates onto a screen.
type Renderer struct {
	cfg config.Config
}

// New creates a renderer for environments built from cfg.
func New(cfg config.Config) *Renderer {
	return &Renderer{cfg: cfg}
}

// viewport maps world pixels to screen cells.
type viewport struct {
	x0, y0     int
	cols, rows int
	sx, sy     float64 // pixels per cell
}

func (r *Renderer) viewport(w, h int) viewport {
	worldW := r.cfg.InnerWidth()
	worldH := r.cfg.InnerHeight()

	rows := h - 3 // HUD, floor, hint
	cols := int(math.Round(worldW / worldH * float64(rows) * cellAspect))
	if maxCols := w - 2; cols > maxCols {
		cols = maxCols
		rows = int(math.Round(float64(cols) * worldH / worldW / cellAspect))
	}
	cols = core.Max(cols, 1)
	rows = core.Max(rows, 1)

	return viewport{
		x0:   (w - cols) / 2,
		y0:   1,
		cols: cols,
		rows: rows,
		sx:   worldW / float64(cols),
		sy:   worldH / float64(rows),
	}
}

func (v viewport) col(xn float64) int {
	return v.x0 + int(math.Floor(xn*float64(v.cols)))
}

func (v viewport) row(yn float64) int {
	return v.y0 + int(math.Floor(yn*float64(v.rows)))
}

// Render draws a frame, clearing dst first.
func (r *Renderer) Render(dst *core.Screen, f Frame) {
	dst.Clear()

	if dst.Width() < MinWidth || dst.Height() < MinHeight {
		dst.DrawTextCentered(dst.Height()/2-1, "Window too small")
		dst.DrawTextCentered(dst.Height()/2+1, fmt.Sprintf("Need %dx%d", MinWidth, MinHeight))
		return
	}

	v := r.viewport(dst.Width(), dst.Height())

	r.renderHUD(dst, f)
	r.renderContainer(dst, v)
	r.renderCursor(dst, v, f.Obs)
	r.renderFruits(dst, v, f.Obs)

	if f.Hint != "" {
		dst.DrawTextColored(1, dst.Height()-1, f.Hint, core.ColorGray)
	}

	r.renderOverlay(dst, f)
}

// renderHUD draws score, next type, fruit count and merges on row 0.
func (r *Renderer) renderHUD(dst *core.Screen, f Frame) {
	obs := f.Obs
	dst.DrawText(1, 0, fmt.Sprintf("Score: %d", obs.Score))

	next := fmt.Sprintf("Next: %c", TypeGlyph(obs.Next))
	dst.DrawTextColored((dst.Width()-len(next))/2, 0, next, core.FruitColor(obs.Next))

	right := fmt.Sprintf("Fruits: %d/%d  Merges: %d", obs.NFruits, r.cfg.Limits.MaxFruits, obs.LastMerges)
	if f.HighScore > 0 {
		right = fmt.Sprintf("Best: %d  %s", f.HighScore, right)
	}
	dst.DrawText(dst.Width()-len(right)-1, 0, right)
}

// renderContainer draws walls, floor and the lose line.
func (r *Renderer) renderContainer(dst *core.Screen, v viewport) {
	left := v.x0 - 1
	right := v.x0 + v.cols
	floor := v.y0 + v.rows

	dst.DrawVLine(left, v.y0, v.rows, WallVert, core.ColorGray)
	dst.DrawVLine(right, v.y0, v.rows, WallVert, core.ColorGray)
	dst.DrawHLine(v.x0, floor, v.cols, FloorHoriz, core.ColorGray)
	dst.SetColored(left, floor, CornerLeft, core.ColorGray)
	dst.SetColored(right, floor, CornerRight, core.ColorGray)

	dst.DrawHLine(v.x0, v.y0, v.cols, LoseLine, core.ColorRed)
}

// renderCursor draws the drop guide and a preview of the next fruit.
func (r *Renderer) renderCursor(dst *core.Screen, v viewport, obs env.Observation) {
	cx := v.col(obs.CursorX)
	spawnYn := (r.cfg.Container.SpawnY - r.cfg.Container.LoseLineY) / r.cfg.InnerHeight()
	spawnRow := v.row(spawnYn)

	for y := spawnRow + 1; y < v.y0+v.rows; y++ {
		dst.SetColored(cx, y, DropGuide, core.ColorGray)
	}

	preview := env.FruitObs{
		Type: obs.Next,
		X:    obs.CursorX,
		Y:    spawnYn,
		R:    r.cfg.Radius(obs.Next) / r.cfg.InnerWidth(),
	}
	r.drawDisc(dst, v, preview, PreviewFill)
}

func (r *Renderer) renderFruits(dst *core.Screen, v viewport, obs env.Observation) {
	for _, f := range obs.Fruits {
		r.drawDisc(dst, v, f, FruitFill)
	}
}

// drawDisc fills every cell whose center lies inside the fruit, and always
// marks the center cell with the type glyph so small fruits stay visible.
func (r *Renderer) drawDisc(dst *core.Screen, v viewport, f env.FruitObs, fill rune) {
	w := r.cfg.InnerWidth()
	h := r.cfg.InnerHeight()
	// Back to pixels relative to the container's top-left corner.
	px := f.X * w
	py := f.Y * h
	pr := f.R * w
	color := core.FruitColor(f.Type)

	c0 := int(math.Floor((px - pr) / v.sx))
	c1 := int(math.Floor((px + pr) / v.sx))
	r0 := int(math.Floor((py - pr) / v.sy))
	r1 := int(math.Floor((py + pr) / v.sy))

	for row := r0; row <= r1; row++ {
		if row < 0 || row >= v.rows {
			continue
		}
		cy := (float64(row) + 0.5) * v.sy
		for col := c0; col <= c1; col++ {
			if col < 0 || col >= v.cols {
				continue
			}
			cx := (float64(col) + 0.5) * v.sx
			if (cx-px)*(cx-px)+(cy-py)*(cy-py) <= pr*pr {
				dst.SetColored(v.x0+col, v.y0+row, fill, color)
			}
		}
	}

	col := core.Clamp(int(math.Floor(px/v.sx)), 0, v.cols-1)
	row := int(math.Floor(py / v.sy))
	if row >= 0 && row < v.rows {
		dst.SetColored(v.x0+col, v.y0+row, TypeGlyph(f.Type), color)
	}
}

// renderOverlay draws the pause or game-over box.
func (r *Renderer) renderOverlay(dst *core.Screen, f Frame) {
	switch {
	case f.Done:
		subtitle := fmt.Sprintf("Score: %d  |  Press R to restart", f.Obs.Score)
		title := "GAME OVER"
		if f.Reason != "" {
			title = fmt.Sprintf("GAME OVER (%s)", strings.ReplaceAll(f.Reason, "_", " "))
		}
		drawCenteredBox(dst, title, subtitle)
	case f.Paused:
		drawCenteredBox(dst, "PAUSED", "Press P to resume")
	}
}

// drawCenteredBox draws a centered message box.
func drawCenteredBox(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := core.Min(core.Max(len(title), len(subtitle))+4, w)
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	dst.DrawTextColored(boxX+(boxW-len(title))/2, boxY+1, title, core.ColorBrightRed)
	dst.DrawText(boxX+(boxW-len(subtitle))/2, boxY+3, subtitle)
}

// TypeGlyph returns the single character used to label a fruit type:
// 0-9, then A-Z.
func TypeGlyph(t int) rune {
	switch {
	case t < 0:
		return '?'
	case t < 10:
		return rune('0' + t)
	case t < 36:
		return rune('A' + t - 10)
	default:
		return '*'
	}
}
