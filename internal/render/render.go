// Package render draws board positions as PNG images, matching the
// neon look of the original assets: dark background, cyan grid, red X,
// green O, yellow win strike.
package render

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"titan-tictactoe/internal/game"
)

const (
	Size     = 900
	cellSize = Size / 3
)

var (
	background = color.RGBA{25, 25, 30, 255}
	gridColor  = color.RGBA{0, 255, 255, 255}
	xColor     = color.RGBA{255, 50, 50, 255}
	oColor     = color.RGBA{50, 255, 50, 255}
	winColor   = color.RGBA{255, 255, 0, 255}
)

// Draw composes the full board image. line, when present, is the
// winning triple to strike through.
func Draw(b game.Board, line []int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Size, Size))
	fillRect(img, 0, 0, Size, Size, background)

	// Outer border.
	strokeRect(img, 10, 10, 890, 890, 15, gridColor)
	// Grid lines.
	for _, xy := range []int{300, 600} {
		fillRect(img, xy-7, 20, xy+8, 880, gridColor)
		fillRect(img, 20, xy-7, 880, xy+8, gridColor)
	}

	for i, c := range b {
		ox := (i % 3) * cellSize
		oy := (i / 3) * cellSize
		switch c {
		case game.X:
			drawLine(img, ox+50, oy+50, ox+250, oy+250, 12, xColor)
			drawLine(img, ox+250, oy+50, ox+50, oy+250, 12, xColor)
		case game.O:
			drawCircle(img, ox+150, oy+150, 100, 12, oColor)
		}
	}

	if len(line) == 3 {
		x0, y0 := cellCenter(line[0])
		x1, y1 := cellCenter(line[2])
		drawLine(img, x0, y0, x1, y1, 12, winColor)
	}
	return img
}

// PNG writes the rendered position to w.
func PNG(w io.Writer, b game.Board, line []int) error {
	return png.Encode(w, Draw(b, line))
}

func cellCenter(i int) (int, int) {
	return (i%3)*cellSize + cellSize/2, (i/3)*cellSize + cellSize/2
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func strokeRect(img *image.RGBA, x0, y0, x1, y1, width int, c color.RGBA) {
	fillRect(img, x0, y0, x1, y0+width, c)
	fillRect(img, x0, y1-width, x1, y1, c)
	fillRect(img, x0, y0, x0+width, y1, c)
	fillRect(img, x1-width, y0, x1, y1, c)
}

// drawLine stamps a square brush along the segment, which is enough for
// the diagonal strokes this board needs.
func drawLine(img *image.RGBA, x0, y0, x1, y1, radius int, c color.RGBA) {
	dx, dy := x1-x0, y1-y0
	steps := abs(dx)
	if abs(dy) > steps {
		steps = abs(dy)
	}
	if steps == 0 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		x := x0 + dx*i/steps
		y := y0 + dy*i/steps
		fillRect(img, x-radius, y-radius, x+radius, y+radius, c)
	}
}

func drawCircle(img *image.RGBA, cx, cy, radius, width int, c color.RGBA) {
	outer := radius * radius
	inner := (radius - width) * (radius - width)
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			d := (x-cx)*(x-cx) + (y-cy)*(y-cy)
			if d <= outer && d >= inner {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
