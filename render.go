package main

import (
	"log/slog"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	emphasisScale = 1.5
	markerScale   = 2.0
	strokeDivisor = 4.0
)

var (
	mergeFirstColor  = colorful.Color{R: 1}
	mergeSecondColor = colorful.Color{B: 1}
	refMarkerColor   = colorful.Color{G: 1}
	selectionColor   = colorful.Color{R: 1}
)

// Renderer redraws a whole frame from AppState on every call.
type Renderer struct {
	surface Surface
	logger  *slog.Logger
}

func NewRenderer(surface Surface, logger *slog.Logger) *Renderer {
	return &Renderer{surface: surface, logger: logger}
}

// Blank clears the surface without drawing anything.
func (r *Renderer) Blank() {
	r.surface.Clear()
}

// RenderFrame draws the current frame. Without frame data it leaves the
// surface blank, records a diagnostic on the panel and returns
// ErrMissingFrameData.
func (r *Renderer) RenderFrame(st *AppState) error {
	r.surface.Clear()
	r.surface.Push()
	defer r.surface.Pop()
	st.Viewport.Apply(r.surface)

	ds := st.Dataset
	if ds != nil {
		st.PointRadius = ds.PointRadius / st.Viewport.Zoom
	}
	radius := st.PointRadius

	prox, err := ds.FrameAt(st.Frame)
	if err != nil {
		st.Panel.Diagnostic = err.Error()
		r.logger.Warn("render aborted", "frame", st.Frame, "err", err)
		return err
	}
	st.Panel.Diagnostic = ""

	merging := prox.MergingClusters
	for i := range ds.Points {
		p := &ds.Points[i]
		label := p.Frames[st.Frame].Label
		switch {
		case label == merging.First:
			r.surface.FillCircle(p.X, p.Y, emphasisScale*radius, mergeFirstColor)
		case label == merging.Second:
			r.surface.FillCircle(p.X, p.Y, emphasisScale*radius, mergeSecondColor)
		case st.Selection.HasCluster && label == st.Selection.Cluster:
			r.surface.FillCircle(p.X, p.Y, emphasisScale*radius, st.Palette.ColorFor(label))
		default:
			r.surface.FillCircle(p.X, p.Y, radius, st.Palette.ColorFor(label))
		}
	}

	lineWidth := radius / strokeDivisor
	for _, ref := range prox.RefPoints {
		r.surface.StrokeCircle(ref.X, ref.Y, markerScale*radius, lineWidth, refMarkerColor)
	}

	st.Panel.Info = prox.Info
	if p, ok := st.Selection.Point(ds); ok {
		r.surface.StrokeCircle(p.X, p.Y, markerScale*radius, lineWidth, selectionColor)
		if st.Selection.Info != nil {
			st.Panel.Info += st.Selection.Info.Info
		}
	}

	if prox.TestResult.Passed() {
		st.Panel.Status = StatusPass
	} else {
		st.Panel.Status = StatusFail
	}
	return nil
}
