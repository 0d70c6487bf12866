package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
)

const twoFrameDataset = `{
  "canvas_size": 100,
  "point_radius": 3,
  "points": [
    {"x": 0, "y": 0, "frames": [{"label": 1, "info": "a"}, {"label": 1, "info": "<b>a1</b>"}]},
    {"x": 10, "y": 0, "frames": [{"label": 2}, {"label": 1, "density": 0.5}]},
    {"x": 10, "y": 10, "frames": [{"label": "3"}, {"label": 3}]}
  ],
  "frame_data": [
    {"proximity": {
      "ref_points": [{"x": 0, "y": 0}, {"x": 10, "y": 0}],
      "merging_clusters": {"first_cluster_id": 1, "second_cluster_id": 2},
      "info": "frame zero",
      "test_result": 1}},
    {"proximity": {
      "ref_points": [{"x": 10, "y": 0}, {"x": 10, "y": 10}],
      "merging_clusters": {"first_cluster_id": 1, "second_cluster_id": 3},
      "info": "frame one",
      "test_result": false}}
  ]
}`

func TestParseDataset(t *testing.T) {
	ds, err := ParseDataset([]byte(twoFrameDataset))
	if err != nil {
		t.Fatal(err)
	}
	if ds.CanvasSize != 100 || ds.PointRadius != 3 {
		t.Errorf("canvas/radius = %v/%v", ds.CanvasSize, ds.PointRadius)
	}
	if ds.PointCount() != 3 || ds.FrameCount() != 2 || ds.MaxFrame() != 1 {
		t.Errorf("counts = %d points, %d frames, max %d", ds.PointCount(), ds.FrameCount(), ds.MaxFrame())
	}

	f0, err := ds.FrameAt(0)
	if err != nil {
		t.Fatal(err)
	}
	if f0.MergingClusters.First != NumericID(1) || f0.MergingClusters.Second != NumericID(2) {
		t.Errorf("merging = %+v", f0.MergingClusters)
	}
	if !f0.TestResult.Passed() || f0.Info != "frame zero" {
		t.Errorf("frame 0 = %+v", f0)
	}
	f1, _ := ds.FrameAt(1)
	if f1.TestResult.Passed() {
		t.Error("frame 1 test_result false reported as passed")
	}
	if f1.RefPoints[1] != (Vec{10, 10}) {
		t.Errorf("frame 1 ref points = %v", f1.RefPoints)
	}

	l, ok := ds.LabelOf(1, 1)
	if !ok || l != NumericID(1) {
		t.Errorf("LabelOf(1, 1) = %v, %v", l, ok)
	}
	if got := ds.labelAt(1, 1).Attrs["density"]; got != 0.5 {
		t.Errorf("density attr = %v", got)
	}
	if got := ds.labelAt(0, 1).Info; got != "<b>a1</b>" {
		t.Errorf("info = %q", got)
	}
}

func TestParseDatasetNumberVsString(t *testing.T) {
	ds, err := ParseDataset([]byte(twoFrameDataset))
	if err != nil {
		t.Fatal(err)
	}
	str, _ := ds.LabelOf(2, 0)
	num, _ := ds.LabelOf(2, 1)
	if str == num {
		t.Errorf("label \"3\" equals label 3")
	}
	if str != StringID("3") || num != NumericID(3) {
		t.Errorf("labels = %v, %v", str, num)
	}
}

func TestParseDatasetDefaultRadius(t *testing.T) {
	in := `{"points": [], "frame_data": []}`
	ds, err := ParseDataset([]byte(in))
	if err != nil {
		t.Fatal(err)
	}
	if ds.PointRadius != defaultPointRadius {
		t.Errorf("PointRadius = %v, want %v", ds.PointRadius, defaultPointRadius)
	}
	if ds.MaxFrame() != -1 {
		t.Errorf("MaxFrame of empty dataset = %d", ds.MaxFrame())
	}
}

func TestParseDatasetInvalid(t *testing.T) {
	frame := `{"proximity": {"ref_points": [{"x":0,"y":0},{"x":1,"y":1}], "merging_clusters": {"first_cluster_id": 1, "second_cluster_id": 2}}}`
	tests := []struct {
		name string
		in   string
	}{
		{"not json", `{"points": [`},
		{"missing points", `{"frame_data": []}`},
		{"missing frame_data", `{"points": []}`},
		{"null proximity", `{"points": [], "frame_data": [{"proximity": null}]}`},
		{"one ref point", `{"points": [], "frame_data": [{"proximity": {"ref_points": [{"x":0,"y":0}], "merging_clusters": {"first_cluster_id": 1, "second_cluster_id": 2}}}]}`},
		{"same merging ids", `{"points": [], "frame_data": [{"proximity": {"ref_points": [{"x":0,"y":0},{"x":1,"y":1}], "merging_clusters": {"first_cluster_id": 4, "second_cluster_id": 4}}}]}`},
		{"missing merging id", `{"points": [], "frame_data": [{"proximity": {"ref_points": [{"x":0,"y":0},{"x":1,"y":1}], "merging_clusters": {"first_cluster_id": 4}}}]}`},
		{"short frames", `{"points": [{"x":0,"y":0,"frames":[]}], "frame_data": [` + frame + `]}`},
		{"bad label", `{"points": [{"x":0,"y":0,"frames":[{"label": [1]}]}], "frame_data": [` + frame + `]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDataset([]byte(tt.in))
			if !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("err = %v, want ErrInvalidFormat", err)
			}
		})
	}
}

func TestParseDatasetZstd(t *testing.T) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	compressed := enc.EncodeAll([]byte(twoFrameDataset), nil)
	enc.Close()

	ds, err := ReadDataset(strings.NewReader(string(compressed)))
	if err != nil {
		t.Fatal(err)
	}
	if ds.PointCount() != 3 {
		t.Errorf("PointCount = %d", ds.PointCount())
	}
}

func TestFrameAtOutOfRange(t *testing.T) {
	ds, err := ParseDataset([]byte(twoFrameDataset))
	if err != nil {
		t.Fatal(err)
	}
	for _, i := range []int{-1, 2} {
		if _, err := ds.FrameAt(i); !errors.Is(err, ErrMissingFrameData) {
			t.Errorf("FrameAt(%d) err = %v", i, err)
		}
	}
	var none *Dataset
	if _, err := none.FrameAt(0); !errors.Is(err, ErrMissingFrameData) {
		t.Errorf("nil dataset FrameAt err = %v", err)
	}
}

func TestMassCenter(t *testing.T) {
	ds, err := ParseDataset([]byte(twoFrameDataset))
	if err != nil {
		t.Fatal(err)
	}
	c, ok := ds.MassCenter()
	if !ok || !approx(c.X, 20.0/3) || !approx(c.Y, 10.0/3) {
		t.Errorf("MassCenter = %v, %v", c, ok)
	}
}
