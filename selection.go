package main

import "math"

const hitRadiusScale = 2.0

// Selection tracks the selected point and, separately, the selected
// cluster. PointIndex is only meaningful for the dataset it was made
// against; callers Clear it whenever the dataset changes.
type Selection struct {
	PointIndex int
	Cluster    ClusterID
	HasCluster bool
	// Info is the selected point's label entry at the current frame.
	Info *FrameLabel
}

func NewSelection() *Selection {
	return &Selection{PointIndex: -1}
}

func (s *Selection) Active() bool {
	return s.PointIndex >= 0
}

// HitRadius is the default click tolerance for a given point radius.
func HitRadius(pointRadius float64) float64 {
	return hitRadiusScale * pointRadius
}

// SelectAt selects the first point, in dataset order, within hitRadius of
// at. The first match wins even if a later point is closer. A hit with the
// modifier held also selects that point's cluster at frame; a miss clears
// both the point and the cluster.
func (s *Selection) SelectAt(ds *Dataset, at Vec, frame int, hitRadius float64, modifier bool) bool {
	idx := firstHit(ds, at, hitRadius)
	if idx < 0 {
		s.Clear()
		return false
	}
	s.PointIndex = idx
	s.Info = ds.labelAt(idx, frame)
	if modifier && s.Info != nil {
		s.Cluster = s.Info.Label
		s.HasCluster = true
	}
	return true
}

func firstHit(ds *Dataset, at Vec, radius float64) int {
	if ds == nil {
		return -1
	}
	for i, p := range ds.Points {
		if math.Hypot(p.X-at.X, p.Y-at.Y) <= radius {
			return i
		}
	}
	return -1
}

// Refresh re-reads the selected point's entry for a new frame. The
// selected cluster is left alone.
func (s *Selection) Refresh(ds *Dataset, frame int) {
	if !s.Active() {
		s.Info = nil
		return
	}
	s.Info = ds.labelAt(s.PointIndex, frame)
}

func (s *Selection) Point(ds *Dataset) (Point, bool) {
	if ds == nil || s.PointIndex < 0 || s.PointIndex >= len(ds.Points) {
		return Point{}, false
	}
	return ds.Points[s.PointIndex], true
}

func (s *Selection) Clear() {
	s.PointIndex = -1
	s.Cluster = ClusterID{}
	s.HasCluster = false
	s.Info = nil
}
