package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	defaultPanStep        = 20.0
	defaultRepeatInterval = 200 * time.Millisecond
)

const (
	KeyLeft  = "left"
	KeyRight = "right"
)

var ErrStaleImport = errors.New("import superseded")

type PointerEvent struct {
	X, Y     float64
	Modifier bool
	Button   int
}

type WheelEvent struct {
	DeltaY float64
}

type KeyEvent struct {
	Key string
}

// RepeatRequest asks the host to call RepeatTick with Token after Interval.
type RepeatRequest struct {
	Token    uint64
	Interval time.Duration
}

type ControllerOptions struct {
	PanStep        float64
	RepeatInterval time.Duration
}

// Controller turns input events into state changes and re-renders after
// each one. It must only be used from one goroutine.
type Controller struct {
	state    *AppState
	renderer *Renderer
	logger   *slog.Logger
	opts     ControllerOptions

	repeatDir   int
	repeatToken uint64
	importToken uint64
}

func NewController(state *AppState, renderer *Renderer, opts ControllerOptions, logger *slog.Logger) *Controller {
	if opts.PanStep <= 0 {
		opts.PanStep = defaultPanStep
	}
	if opts.RepeatInterval <= 0 {
		opts.RepeatInterval = defaultRepeatInterval
	}
	return &Controller{
		state:    state,
		renderer: renderer,
		logger:   logger,
		opts:     opts,
	}
}

func (c *Controller) State() *AppState {
	return c.state
}

func (c *Controller) render() {
	_ = c.renderer.RenderFrame(c.state)
}

func (c *Controller) PointerDown(ev PointerEvent) {
	st := c.state
	at := st.Viewport.ToData(Vec{X: ev.X, Y: ev.Y})
	st.Selection.SelectAt(st.Dataset, at, st.Frame, HitRadius(st.PointRadius), ev.Modifier)
	c.updateGeneralInfo()
	c.render()
}

// Wheel zooms in for upward scrolls and out otherwise. The event is always
// consumed.
func (c *Controller) Wheel(ev WheelEvent) bool {
	if ev.DeltaY < 0 {
		c.state.Viewport.ZoomIn()
	} else {
		c.state.Viewport.ZoomOut()
	}
	c.render()
	return true
}

// KeyDown reports whether the key was handled. Unhandled keys change
// nothing and do not re-render.
func (c *Controller) KeyDown(ev KeyEvent) (bool, *RepeatRequest) {
	switch ev.Key {
	case KeyLeft, KeyRight:
		dir := 1
		if ev.Key == KeyLeft {
			dir = -1
		}
		c.cancelRepeat()
		c.step(dir)
		c.repeatDir = dir
		return true, &RepeatRequest{Token: c.repeatToken, Interval: c.opts.RepeatInterval}
	}

	vp := c.state.Viewport
	step := vp.PanStep(c.opts.PanStep)
	switch strings.ToLower(ev.Key) {
	case "w":
		vp.Pan(0, step)
	case "a":
		vp.Pan(step, 0)
	case "s":
		vp.Pan(0, -step)
	case "d":
		vp.Pan(-step, 0)
	default:
		return false, nil
	}
	c.render()
	return true, nil
}

func (c *Controller) KeyUp(ev KeyEvent) {
	if ev.Key == KeyLeft || ev.Key == KeyRight {
		c.cancelRepeat()
	}
}

// RepeatTick steps again for a held arrow key. It reports whether the host
// should schedule another tick; stale tokens are ignored.
func (c *Controller) RepeatTick(token uint64) bool {
	if token != c.repeatToken || c.repeatDir == 0 {
		return false
	}
	c.step(c.repeatDir)
	return true
}

func (c *Controller) Repeating() bool {
	return c.repeatDir != 0
}

func (c *Controller) cancelRepeat() {
	c.repeatDir = 0
	c.repeatToken++
}

// SetGotoInput clamps the goto field as it is typed and returns the text
// the field should show.
func (c *Controller) SetGotoInput(text string) string {
	text = strings.TrimSpace(text)
	if text == "" || text == "-" {
		return text
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return strconv.Itoa(c.state.GotoValue)
	}
	c.state.GotoValue = clampFrame(n, c.state.MaxFrame)
	return strconv.Itoa(c.state.GotoValue)
}

func (c *Controller) Goto() {
	c.gotoFrame(c.state.GotoValue)
}

func (c *Controller) Prev() {
	c.step(-1)
}

func (c *Controller) Next() {
	c.step(1)
}

func (c *Controller) step(delta int) {
	c.gotoFrame(c.state.Frame + delta)
}

func (c *Controller) gotoFrame(frame int) {
	st := c.state
	st.Frame = clampFrame(frame, st.MaxFrame)
	st.GotoValue = st.Frame
	if prox, err := st.Dataset.FrameAt(st.Frame); err == nil {
		st.Viewport.RecenterOnRefPoints(prox)
	}
	st.Selection.Refresh(st.Dataset, st.Frame)
	c.updateGeneralInfo()
	c.render()
}

func clampFrame(frame, maxFrame int) int {
	if frame > maxFrame {
		frame = maxFrame
	}
	if frame < 0 {
		frame = 0
	}
	return frame
}

// Clear drops the dataset and every piece of derived state, disarms the
// repeat timer and invalidates any import still in flight.
func (c *Controller) Clear() {
	st := c.state
	c.cancelRepeat()
	c.importToken++
	st.Dataset = nil
	st.Selection.Clear()
	st.Viewport.Reset()
	st.Palette.Reset()
	st.Frame = 0
	st.MaxFrame = 0
	st.GotoValue = 0
	st.PointRadius = defaultPointRadius
	st.Panel = Panel{}
	c.renderer.Blank()
	c.logger.Debug("state cleared")
}

// BeginImport clears state and returns the token the matching
// CompleteImport must present.
func (c *Controller) BeginImport() uint64 {
	c.Clear()
	return c.importToken
}

// CompleteImport commits a finished read. Results for anything but the
// latest BeginImport are dropped with ErrStaleImport.
func (c *Controller) CompleteImport(token uint64, data []byte, readErr error) error {
	if token != c.importToken {
		c.logger.Debug("dropping stale import", "token", token, "latest", c.importToken)
		return ErrStaleImport
	}
	if readErr != nil {
		return c.importFailed(readErr)
	}
	ds, err := ParseDataset(data)
	if err != nil {
		return c.importFailed(err)
	}
	c.load(ds)
	return nil
}

func (c *Controller) importFailed(err error) error {
	c.state.Panel.Diagnostic = fmt.Sprintf("import failed: %v", err)
	c.logger.Error("import failed", "err", err)
	return err
}

func (c *Controller) load(ds *Dataset) {
	st := c.state
	st.Dataset = ds
	st.Palette.Reset()
	st.Selection.Clear()
	st.MaxFrame = ds.MaxFrame()
	st.Frame = 0
	st.GotoValue = 0
	st.Viewport.RecenterOnMassCenter(ds.Points)
	if ds.CanvasSize > 0 {
		st.Viewport.SetZoom(st.Viewport.Width / ds.CanvasSize)
	}
	c.updateGeneralInfo()
	c.logger.Info("dataset loaded",
		"points", ds.PointCount(),
		"frames", ds.FrameCount(),
		"zoom", st.Viewport.Zoom)
	c.render()
}

// SetPalette installs a palette that finished loading after start-up.
func (c *Controller) SetPalette(colors []colorful.Color) {
	c.state.Palette.SetColors(colors)
	c.logger.Info("palette loaded", "colors", len(colors))
}

func (c *Controller) updateGeneralInfo() {
	st := c.state
	st.Panel.Loaded = st.Dataset != nil
	if st.Dataset != nil {
		st.Panel.TotalFrames = st.Dataset.FrameCount()
		st.Panel.TotalPoints = st.Dataset.PointCount()
	}
	st.Panel.Selected = nil
	if p, ok := st.Selection.Point(st.Dataset); ok {
		st.Panel.Selected = &Vec{X: p.X, Y: p.Y}
	}
}
