package main

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel(t *testing.T) *model {
	t.Helper()
	config := defaultConfig()
	config.CanvasWidth, config.CanvasHeight = 200, 200
	m := newModel(config, discardLogger())
	m.width, m.height = 100+panelWidth+1, 52
	importInto(t, m.ctrl, cornersJSON(10))
	return &m
}

func TestHeldArrowSteps(t *testing.T) {
	m := newTestModel(t)
	st := m.ctrl.State()
	t0 := time.Now()

	if cmd := m.handleArrow("right", t0); cmd == nil {
		t.Fatal("first press did not schedule a repeat")
	}
	if st.Frame != 1 {
		t.Fatalf("frame after press = %d", st.Frame)
	}

	// terminal auto-repeat
	if cmd := m.handleArrow("right", t0.Add(100*time.Millisecond)); cmd != nil {
		t.Error("auto-repeat press scheduled a second timer")
	}
	if st.Frame != 1 {
		t.Errorf("auto-repeat press stepped directly to %d", st.Frame)
	}

	tick := repeatMsg{token: m.repeatToken}
	if cmd := m.handleRepeat(tick, t0.Add(200*time.Millisecond)); cmd == nil {
		t.Fatal("repeat stopped while key held")
	}
	if st.Frame != 2 {
		t.Errorf("frame after tick = %d, want 2", st.Frame)
	}

	// no press since the last tick: wait without stepping
	if cmd := m.handleRepeat(tick, t0.Add(400*time.Millisecond)); cmd == nil {
		t.Fatal("repeat stopped inside the grace window")
	}
	if st.Frame != 2 {
		t.Errorf("frame moved to %d without a press", st.Frame)
	}

	if cmd := m.handleRepeat(tick, t0.Add(800*time.Millisecond)); cmd != nil {
		t.Error("repeat continued after release")
	}
	if m.heldArrow != "" || m.ctrl.Repeating() {
		t.Error("arrow still held after grace window")
	}
}

func TestArrowSwitchDirection(t *testing.T) {
	m := newTestModel(t)
	st := m.ctrl.State()
	t0 := time.Now()

	m.handleArrow("right", t0)
	m.handleArrow("right", t0.Add(700*time.Millisecond))
	if st.Frame != 2 {
		t.Fatalf("press after release = frame %d, want 2", st.Frame)
	}
	old := m.repeatToken
	m.handleArrow("left", t0.Add(750*time.Millisecond))
	if st.Frame != 1 || m.heldArrow != "left" {
		t.Errorf("left press: frame %d held %q", st.Frame, m.heldArrow)
	}
	if cmd := m.handleRepeat(repeatMsg{token: old}, t0.Add(800*time.Millisecond)); cmd != nil {
		t.Error("stale repeat token rescheduled")
	}
}

func TestHandleMouse(t *testing.T) {
	m := newTestModel(t)
	st := m.ctrl.State()

	// 100x50 cells over a 200x200 canvas: cell (0, 0) covers canvas (1, 2),
	// which is data point 0 at zoom 2.
	m.handleMouse(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft, Shift: true})
	if st.Selection.PointIndex != 0 || !st.Selection.HasCluster {
		t.Errorf("selection = %+v", st.Selection)
	}

	z := st.Viewport.Zoom
	m.handleMouse(tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	if st.Viewport.Zoom <= z {
		t.Errorf("wheel up did not zoom in")
	}

	// on the side panel
	z = st.Viewport.Zoom
	m.handleMouse(tea.MouseMsg{X: 100 + 2, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	if st.Viewport.Zoom != z {
		t.Error("wheel over the panel zoomed the canvas")
	}
}

func TestUpdateGotoInputClamps(t *testing.T) {
	m := newTestModel(t)
	m.mode = ModeGotoInput
	m.gotoInput.Focus()
	m.gotoInput.SetValue("")

	next, _ := m.updateGotoInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("42")})
	mm := next.(model)
	if mm.gotoInput.Value() != "9" {
		t.Errorf("goto field = %q, want 9", mm.gotoInput.Value())
	}
	next, _ = mm.updateGotoInput(tea.KeyMsg{Type: tea.KeyEnter})
	mm = next.(model)
	if mm.mode != ModeNormal || mm.ctrl.State().Frame != 9 {
		t.Errorf("after enter: mode %v frame %d", mm.mode, mm.ctrl.State().Frame)
	}
}
