package main

import (
	"fmt"
	"image"
	"image/color"
	"strings"
)

const (
	halfBlock  = "▀"
	colorReset = "\x1b[0m"
)

// renderHalfBlocks samples img onto a cols×rows cell grid. Each cell shows
// two vertically stacked pixels: the foreground paints the upper half and
// the background the lower half.
func renderHalfBlocks(img image.Image, cols, rows int) []string {
	lines := make([]string, 0, rows)
	if cols <= 0 || rows <= 0 {
		return lines
	}
	for row := 0; row < rows; row++ {
		var line strings.Builder
		var lastTop, lastBottom color.RGBA
		first := true
		for col := 0; col < cols; col++ {
			top := samplePixel(img, col, row*2, cols, rows*2)
			bottom := samplePixel(img, col, row*2+1, cols, rows*2)
			if first || top != lastTop {
				fmt.Fprintf(&line, "\x1b[38;2;%d;%d;%dm", top.R, top.G, top.B)
			}
			if first || bottom != lastBottom {
				fmt.Fprintf(&line, "\x1b[48;2;%d;%d;%dm", bottom.R, bottom.G, bottom.B)
			}
			line.WriteString(halfBlock)
			lastTop, lastBottom, first = top, bottom, false
		}
		line.WriteString(colorReset)
		lines = append(lines, line.String())
	}
	return lines
}

// samplePixel picks the pixel at the center of grid cell (gx, gy) of a
// gw×gh grid laid over img.
func samplePixel(img image.Image, gx, gy, gw, gh int) color.RGBA {
	b := img.Bounds()
	x := b.Min.X + (2*gx+1)*b.Dx()/(2*gw)
	y := b.Min.Y + (2*gy+1)*b.Dy()/(2*gh)
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

// cellToCanvas returns the canvas pixel under the center of a terminal cell.
func cellToCanvas(col, row, cols, rows int, width, height float64) Vec {
	return Vec{
		X: (float64(col) + 0.5) * width / float64(cols),
		Y: (float64(row) + 0.5) * height / float64(rows),
	}
}

// canvasCells is the terminal area given to the canvas: everything left of
// the side panel, above the status and help lines.
func (m *model) canvasCells() (int, int) {
	cols := m.width - panelWidth - 1
	rows := m.height - 2
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}
