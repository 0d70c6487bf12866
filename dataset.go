package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"math"
	"strconv"

	"github.com/klauspost/compress/zstd"
	"gonum.org/v1/gonum/stat"
)

const defaultPointRadius = 4.0

var (
	ErrInvalidFormat    = errors.New("invalid dataset format")
	ErrMissingFrameData = errors.New("missing frame data")
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// ClusterID is a cluster label as it appeared in the dataset: a JSON
// number or a JSON string. A number never equals a string, even when
// they print the same.
type ClusterID struct {
	text    string
	num     float64
	numeric bool
	set     bool
}

func NumericID(v float64) ClusterID {
	if v == 0 {
		v = 0 // fold -0
	}
	return ClusterID{text: strconv.FormatFloat(v, 'g', -1, 64), num: v, numeric: true, set: true}
}

func StringID(s string) ClusterID {
	return ClusterID{text: s, set: true}
}

func (id ClusterID) String() string {
	if !id.set {
		return "none"
	}
	if id.numeric {
		return id.text
	}
	return strconv.Quote(id.text)
}

// IsZero reports whether the label was missing or null.
func (id ClusterID) IsZero() bool {
	return !id.set
}

// paletteKey is the integer fed to the hashed palette policy. Integral
// numbers use their value, everything else an FNV-1a hash of its text.
func (id ClusterID) paletteKey() int64 {
	if id.numeric && id.num == math.Trunc(id.num) && math.Abs(id.num) < 1<<53 {
		return int64(id.num)
	}
	h := fnv.New32a()
	h.Write([]byte(id.text))
	return int64(h.Sum32())
}

func (id *ClusterID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return errors.New("empty cluster id")
	}
	switch b[0] {
	case 'n':
		*id = ClusterID{}
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = StringID(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("cluster id must be a number or a string, got %s", b)
	}
	*id = NumericID(f)
	return nil
}

// FrameLabel is one point's cluster membership at one frame.
type FrameLabel struct {
	Label ClusterID
	Info  string
	Attrs map[string]float64
}

func (l *FrameLabel) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	raw, ok := fields["label"]
	if !ok {
		return errors.New("frame entry has no label")
	}
	if err := json.Unmarshal(raw, &l.Label); err != nil {
		return fmt.Errorf("label: %w", err)
	}
	if raw, ok := fields["info"]; ok {
		if err := json.Unmarshal(raw, &l.Info); err != nil {
			l.Info = string(raw)
		}
	}
	for k, raw := range fields {
		if k == "label" || k == "info" {
			continue
		}
		var f float64
		if json.Unmarshal(raw, &f) != nil {
			continue
		}
		if l.Attrs == nil {
			l.Attrs = make(map[string]float64)
		}
		l.Attrs[k] = f
	}
	return nil
}

type Point struct {
	X      float64      `json:"x"`
	Y      float64      `json:"y"`
	Frames []FrameLabel `json:"frames"`
}

type MergingClusters struct {
	First  ClusterID `json:"first_cluster_id"`
	Second ClusterID `json:"second_cluster_id"`
}

// TestResult accepts 0/1 style numbers or booleans.
type TestResult float64

func (t *TestResult) UnmarshalJSON(b []byte) error {
	switch string(bytes.TrimSpace(b)) {
	case "true":
		*t = 1
		return nil
	case "false", "null":
		*t = 0
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("test_result: %w", err)
	}
	*t = TestResult(f)
	return nil
}

func (t TestResult) Passed() bool {
	return t != 0
}

// Proximity is the per-frame focus metadata.
type Proximity struct {
	RefPoints       [2]Vec
	MergingClusters MergingClusters
	Info            string
	TestResult      TestResult
}

type rawProximity struct {
	RefPoints       []Vec           `json:"ref_points"`
	MergingClusters MergingClusters `json:"merging_clusters"`
	Info            string          `json:"info"`
	TestResult      TestResult      `json:"test_result"`
}

type rawFrame struct {
	Proximity *rawProximity `json:"proximity"`
}

type rawDataset struct {
	CanvasSize  float64     `json:"canvas_size"`
	PointRadius *float64    `json:"point_radius"`
	Points      *[]Point    `json:"points"`
	FrameData   *[]rawFrame `json:"frame_data"`
}

// Dataset is an imported point/frame file. It is never mutated after
// ParseDataset returns it.
type Dataset struct {
	CanvasSize  float64
	PointRadius float64
	Points      []Point
	Frames      []Proximity
}

// ReadDataset reads a whole dataset, plain or zstd-compressed.
func ReadDataset(r io.Reader) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseDataset(data)
}

func ParseDataset(data []byte) (*Dataset, error) {
	if bytes.HasPrefix(data, zstdMagic) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		data, err = dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", ErrInvalidFormat, err)
		}
	}

	var raw rawDataset
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if raw.Points == nil {
		return nil, fmt.Errorf("%w: missing points", ErrInvalidFormat)
	}
	if raw.FrameData == nil {
		return nil, fmt.Errorf("%w: missing frame_data", ErrInvalidFormat)
	}

	ds := &Dataset{
		CanvasSize:  raw.CanvasSize,
		PointRadius: defaultPointRadius,
		Points:      *raw.Points,
		Frames:      make([]Proximity, len(*raw.FrameData)),
	}
	if raw.PointRadius != nil {
		ds.PointRadius = *raw.PointRadius
	}

	for i, frame := range *raw.FrameData {
		p := frame.Proximity
		if p == nil {
			return nil, fmt.Errorf("%w: frame %d has no proximity", ErrInvalidFormat, i)
		}
		if len(p.RefPoints) != 2 {
			return nil, fmt.Errorf("%w: frame %d has %d ref_points, want 2", ErrInvalidFormat, i, len(p.RefPoints))
		}
		mc := p.MergingClusters
		if mc.First.IsZero() || mc.Second.IsZero() || mc.First == mc.Second {
			return nil, fmt.Errorf("%w: frame %d merging_clusters must name two distinct ids", ErrInvalidFormat, i)
		}
		ds.Frames[i] = Proximity{
			RefPoints:       [2]Vec{p.RefPoints[0], p.RefPoints[1]},
			MergingClusters: mc,
			Info:            p.Info,
			TestResult:      p.TestResult,
		}
	}

	for i, pt := range ds.Points {
		if len(pt.Frames) != len(ds.Frames) {
			return nil, fmt.Errorf("%w: point %d has %d frames, frame_data has %d",
				ErrInvalidFormat, i, len(pt.Frames), len(ds.Frames))
		}
	}
	return ds, nil
}

func (d *Dataset) FrameCount() int {
	return len(d.Frames)
}

func (d *Dataset) PointCount() int {
	return len(d.Points)
}

// MaxFrame is the last valid frame index, -1 for a dataset without frames.
func (d *Dataset) MaxFrame() int {
	return len(d.Frames) - 1
}

func (d *Dataset) FrameAt(i int) (*Proximity, error) {
	if d == nil || i < 0 || i >= len(d.Frames) {
		return nil, fmt.Errorf("%w: frame %d", ErrMissingFrameData, i)
	}
	return &d.Frames[i], nil
}

func (d *Dataset) LabelOf(point, frame int) (ClusterID, bool) {
	l := d.labelAt(point, frame)
	if l == nil {
		return ClusterID{}, false
	}
	return l.Label, true
}

func (d *Dataset) labelAt(point, frame int) *FrameLabel {
	if d == nil || point < 0 || point >= len(d.Points) {
		return nil
	}
	frames := d.Points[point].Frames
	if frame < 0 || frame >= len(frames) {
		return nil
	}
	return &frames[frame]
}

func (d *Dataset) MassCenter() (Vec, bool) {
	return massCenter(d.Points)
}

func massCenter(points []Point) (Vec, bool) {
	if len(points) == 0 {
		return Vec{}, false
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
	}
	return Vec{X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil)}, true
}
