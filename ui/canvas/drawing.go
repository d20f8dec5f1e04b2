// Package canvas provides drawing primitives for the plan canvas.
package canvas

import (
	"image"
	"image/color"
)

// glyphs contains 3x5 pixel patterns for the characters measurement labels
// use. Each glyph is 5 rows of 3 bits.
var glyphs = map[rune][5]uint8{
	'0': {0b111, 0b101, 0b101, 0b101, 0b111},
	'1': {0b010, 0b110, 0b010, 0b010, 0b111},
	'2': {0b111, 0b001, 0b111, 0b100, 0b111},
	'3': {0b111, 0b001, 0b111, 0b001, 0b111},
	'4': {0b101, 0b101, 0b111, 0b001, 0b001},
	'5': {0b111, 0b100, 0b111, 0b001, 0b111},
	'6': {0b111, 0b100, 0b111, 0b101, 0b111},
	'7': {0b111, 0b001, 0b001, 0b001, 0b001},
	'8': {0b111, 0b101, 0b111, 0b101, 0b111},
	'9': {0b111, 0b101, 0b111, 0b001, 0b111},
	'.': {0b000, 0b000, 0b000, 0b000, 0b010},
	'-': {0b000, 0b000, 0b111, 0b000, 0b000},
	' ': {0b000, 0b000, 0b000, 0b000, 0b000},
	'm': {0b000, 0b000, 0b111, 0b111, 0b101},
	'c': {0b000, 0b011, 0b100, 0b100, 0b011},
	'f': {0b011, 0b010, 0b111, 0b010, 0b010},
	't': {0b010, 0b111, 0b010, 0b010, 0b001},
	// superscript two for area labels
	'²': {0b110, 0b010, 0b100, 0b110, 0b000},
}

// drawLine draws a line between two points using Bresenham's algorithm.
// Dashed lines skip every other run of four pixels.
func (pc *PlanCanvas) drawLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	pc.drawLineStyle(output, x1, y1, x2, y2, col, thickness, false)
}

func (pc *PlanCanvas) drawLineStyle(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int, dashed bool) {
	bounds := output.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	step := 0

	for {
		if !dashed || step/4%2 == 0 {
			for t := -thickness / 2; t <= thickness/2; t++ {
				for s := -thickness / 2; s <= thickness/2; s++ {
					px, py := x1+s, y1+t
					if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
						output.SetRGBA(px, py, col)
					}
				}
			}
		}
		step++

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawOverlay renders an overlay's world-space items onto the output.
func (pc *PlanCanvas) drawOverlay(output *image.RGBA, overlay *Overlay) {
	col := overlay.Color
	if col.A == 0 {
		col = color.RGBA{R: 200, G: 60, B: 40, A: 255}
	}

	for _, line := range overlay.Lines {
		x1, y1 := pc.worldToScreen(line.A)
		x2, y2 := pc.worldToScreen(line.B)
		pc.drawLineStyle(output, x1, y1, x2, y2, col, 1, line.Dashed)
	}

	for _, poly := range overlay.Polygons {
		n := len(poly.Points)
		for i := 0; i+1 < n; i++ {
			x1, y1 := pc.worldToScreen(poly.Points[i])
			x2, y2 := pc.worldToScreen(poly.Points[i+1])
			pc.drawLine(output, x1, y1, x2, y2, col, 1)
		}
		if poly.Closed && n > 2 {
			x1, y1 := pc.worldToScreen(poly.Points[n-1])
			x2, y2 := pc.worldToScreen(poly.Points[0])
			pc.drawLine(output, x1, y1, x2, y2, col, 1)
		}
	}

	for _, marker := range overlay.Markers {
		x, y := pc.worldToScreen(marker.At)
		pc.drawMarkerAt(output, x, y, marker.Shape, col)
	}

	for _, label := range overlay.Labels {
		x, y := pc.worldToScreen(label.At)
		drawText(output, label.Text, x, y-8, col)
	}
}

const markerRadius = 4

// drawMarkerAt draws a marker glyph centered at pixel coordinates.
func (pc *PlanCanvas) drawMarkerAt(output *image.RGBA, x, y int, shape MarkerShape, col color.RGBA) {
	r := markerRadius
	switch shape {
	case MarkerDot:
		setPixel(output, x, y, col)
		setPixel(output, x+1, y, col)
		setPixel(output, x, y+1, col)
		setPixel(output, x+1, y+1, col)
	case MarkerSquare:
		pc.drawLine(output, x-r, y-r, x+r, y-r, col, 1)
		pc.drawLine(output, x+r, y-r, x+r, y+r, col, 1)
		pc.drawLine(output, x+r, y+r, x-r, y+r, col, 1)
		pc.drawLine(output, x-r, y+r, x-r, y-r, col, 1)
	case MarkerDiamond:
		pc.drawLine(output, x, y-r, x+r, y, col, 1)
		pc.drawLine(output, x+r, y, x, y+r, col, 1)
		pc.drawLine(output, x, y+r, x-r, y, col, 1)
		pc.drawLine(output, x-r, y, x, y-r, col, 1)
	case MarkerCross:
		pc.drawLine(output, x-r, y, x+r, y, col, 1)
		pc.drawLine(output, x, y-r, x, y+r, col, 1)
	}
}

func setPixel(output *image.RGBA, x, y int, col color.RGBA) {
	bounds := output.Bounds()
	if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
		output.SetRGBA(x, y, col)
	}
}

const (
	glyphScale   = 2
	glyphAdvance = 4 * glyphScale
)

// drawText renders a label centered horizontally at (cx, cy) using the
// built-in 3x5 glyph set. Unknown characters render as blanks.
func drawText(output *image.RGBA, text string, cx, cy int, col color.RGBA) {
	runes := []rune(text)
	x := cx - len(runes)*glyphAdvance/2
	y := cy - 5*glyphScale/2

	for _, ch := range runes {
		pattern, ok := glyphs[ch]
		if ok {
			drawGlyph(output, pattern, x, y, col)
		}
		x += glyphAdvance
	}
}

func drawGlyph(output *image.RGBA, pattern [5]uint8, x, y int, col color.RGBA) {
	for row := 0; row < 5; row++ {
		for bit := 0; bit < 3; bit++ {
			if pattern[row]&(1<<(2-bit)) == 0 {
				continue
			}
			for dy := 0; dy < glyphScale; dy++ {
				for dx := 0; dx < glyphScale; dx++ {
					setPixel(output, x+bit*glyphScale+dx, y+row*glyphScale+dy, col)
				}
			}
		}
	}
}
