package main

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

// Surface is a fixed-size 2D drawing target with a transform stack.
type Surface interface {
	Clear()
	Push()
	Pop()
	Translate(x, y float64)
	Scale(sx, sy float64)
	FillCircle(x, y, r float64, c color.Color)
	StrokeCircle(x, y, r, lineWidth float64, c color.Color)
}

// ggSurface draws onto an in-memory raster.
type ggSurface struct {
	dc         *gg.Context
	background color.Color
}

func newGGSurface(width, height int) *ggSurface {
	s := &ggSurface{
		dc:         gg.NewContext(width, height),
		background: color.White,
	}
	s.Clear()
	return s
}

func (s *ggSurface) Clear() {
	s.dc.SetColor(s.background)
	s.dc.Clear()
}

func (s *ggSurface) Push() {
	s.dc.Push()
}

func (s *ggSurface) Pop() {
	s.dc.Pop()
}

func (s *ggSurface) Translate(x, y float64) {
	s.dc.Translate(x, y)
}

func (s *ggSurface) Scale(sx, sy float64) {
	s.dc.Scale(sx, sy)
}

func (s *ggSurface) FillCircle(x, y, r float64, c color.Color) {
	s.dc.SetColor(c)
	s.dc.DrawCircle(x, y, r)
	s.dc.Fill()
}

func (s *ggSurface) StrokeCircle(x, y, r, lineWidth float64, c color.Color) {
	// gg strokes in device pixels, so the width has to follow the matrix
	// the same way the circle geometry does.
	x0, y0 := s.dc.TransformPoint(0, 0)
	x1, y1 := s.dc.TransformPoint(1, 0)
	s.dc.SetColor(c)
	s.dc.SetLineWidth(lineWidth * math.Hypot(x1-x0, y1-y0))
	s.dc.DrawCircle(x, y, r)
	s.dc.Stroke()
}

func (s *ggSurface) Image() image.Image {
	return s.dc.Image()
}

func (s *ggSurface) Size() (int, int) {
	return s.dc.Width(), s.dc.Height()
}
