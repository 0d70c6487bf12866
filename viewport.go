package main

import "math"

const (
	zoomFactor  = 1.1
	defaultZoom = 1.0
)

// Vec is a 2D coordinate, in data space or screen space depending on use.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Viewport holds the pan/zoom state of the canvas. Data points are offset
// first, then scaled around the canvas center.
type Viewport struct {
	Width   float64
	Height  float64
	Zoom    float64
	OffsetX float64
	OffsetY float64
}

func NewViewport(width, height float64) *Viewport {
	return &Viewport{
		Width:  width,
		Height: height,
		Zoom:   defaultZoom,
	}
}

func (v *Viewport) center() Vec {
	return Vec{X: v.Width / 2, Y: v.Height / 2}
}

// ToScreen maps a data-space point to canvas pixels.
func (v *Viewport) ToScreen(p Vec) Vec {
	c := v.center()
	return Vec{
		X: (p.X+v.OffsetX-c.X)*v.Zoom + c.X,
		Y: (p.Y+v.OffsetY-c.Y)*v.Zoom + c.Y,
	}
}

// ToData is the inverse of ToScreen: undo the center-relative scaling,
// then remove the offset.
func (v *Viewport) ToData(s Vec) Vec {
	c := v.center()
	return Vec{
		X: (s.X-c.X)/v.Zoom + c.X - v.OffsetX,
		Y: (s.Y-c.Y)/v.Zoom + c.Y - v.OffsetY,
	}
}

// Apply pushes the viewport transform onto the surface's current matrix.
// Callers own the surrounding Push/Pop.
func (v *Viewport) Apply(s Surface) {
	c := v.center()
	s.Translate(c.X, c.Y)
	s.Scale(v.Zoom, v.Zoom)
	s.Translate(-c.X, -c.Y)
	s.Translate(v.OffsetX, v.OffsetY)
}

func (v *Viewport) ZoomIn() {
	v.Zoom *= zoomFactor
}

func (v *Viewport) ZoomOut() {
	v.Zoom /= zoomFactor
}

// SetZoom ignores non-positive and non-finite levels.
func (v *Viewport) SetZoom(zoom float64) {
	if zoom <= 0 || math.IsInf(zoom, 0) || math.IsNaN(zoom) {
		return
	}
	v.Zoom = zoom
}

// PanStep scales a screen-space step into data space so panning moves the
// view by the same number of pixels at every zoom level.
func (v *Viewport) PanStep(base float64) float64 {
	return base / v.Zoom
}

func (v *Viewport) Pan(dx, dy float64) {
	v.OffsetX += dx
	v.OffsetY += dy
}

// RecenterOn sets the offsets so (x, y) lands exactly on the canvas center.
func (v *Viewport) RecenterOn(x, y float64) {
	c := v.center()
	v.OffsetX = c.X - x
	v.OffsetY = c.Y - y
}

func (v *Viewport) RecenterOnMassCenter(points []Point) {
	center, ok := massCenter(points)
	if !ok {
		return
	}
	v.RecenterOn(center.X, center.Y)
}

func (v *Viewport) RecenterOnRefPoints(p *Proximity) {
	if p == nil {
		return
	}
	first, second := p.RefPoints[0], p.RefPoints[1]
	v.RecenterOn((first.X+second.X)/2, (first.Y+second.Y)/2)
}

func (v *Viewport) Reset() {
	v.Zoom = defaultZoom
	v.OffsetX = 0
	v.OffsetY = 0
}
