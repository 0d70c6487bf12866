package main

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Pan    key.Binding
	Prev   key.Binding
	Next   key.Binding
	Step   key.Binding
	Goto   key.Binding
	Import key.Binding
	Clear  key.Binding
	Export key.Binding
	Copy   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Pan:    key.NewBinding(key.WithKeys("w", "a", "s", "d", "W", "A", "S", "D"), key.WithHelp("wasd", "pan")),
	Prev:   key.NewBinding(key.WithKeys(","), key.WithHelp(",", "prev frame")),
	Next:   key.NewBinding(key.WithKeys("."), key.WithHelp(".", "next frame")),
	Step:   key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "step (hold to play)")),
	Goto:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "goto frame")),
	Import: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "import")),
	Clear:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
	Export: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "export png")),
	Copy:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy selection")),
	Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Step, k.Pan, k.Goto, k.Import, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Step, k.Prev, k.Next, k.Goto},
		{k.Pan, k.Import, k.Clear},
		{k.Export, k.Copy, k.Help, k.Quit},
	}
}

// handleArrow feeds an arrow press to the controller. Auto-repeat presses
// of an arrow that is already held only refresh the hold.
func (m *model) handleArrow(name string, now time.Time) tea.Cmd {
	if m.heldArrow == name && now.Sub(m.lastArrow) < arrowReleaseGrace {
		m.lastArrow = now
		return nil
	}
	if m.heldArrow != "" && m.heldArrow != name {
		m.ctrl.KeyUp(KeyEvent{Key: m.heldArrow})
	}
	_, req := m.ctrl.KeyDown(KeyEvent{Key: name})
	m.heldArrow = name
	m.lastArrow = now
	m.lastTick = now
	if req == nil {
		return nil
	}
	m.repeatToken = req.Token
	return repeatAfter(req.Token, req.Interval)
}

// handleRepeat steps a held arrow once per tick, but only when the
// terminal has reported the key again since the previous tick.
func (m *model) handleRepeat(msg repeatMsg, now time.Time) tea.Cmd {
	if msg.token != m.repeatToken || m.heldArrow == "" {
		return nil
	}
	if now.Sub(m.lastArrow) >= arrowReleaseGrace {
		m.releaseArrow()
		return nil
	}
	held := m.lastArrow.After(m.lastTick)
	m.lastTick = now
	if held && !m.ctrl.RepeatTick(msg.token) {
		return nil
	}
	return repeatAfter(msg.token, m.config.repeatInterval())
}

func (m *model) releaseArrow() {
	if m.heldArrow == "" {
		return
	}
	m.ctrl.KeyUp(KeyEvent{Key: m.heldArrow})
	m.heldArrow = ""
}

func repeatAfter(token uint64, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return repeatMsg{token: token}
	})
}

// handleMouse maps terminal cells onto canvas pixels and forwards clicks
// and wheel turns. Events outside the canvas area are ignored.
func (m *model) handleMouse(msg tea.MouseMsg) {
	cols, rows := m.canvasCells()
	if msg.X < 0 || msg.Y < 0 || msg.X >= cols || msg.Y >= rows {
		return
	}
	if msg.Action != tea.MouseActionPress {
		return
	}
	switch msg.Button {
	case tea.MouseButtonLeft:
		w, h := m.surface.Size()
		at := cellToCanvas(msg.X, msg.Y, cols, rows, float64(w), float64(h))
		m.ctrl.PointerDown(PointerEvent{X: at.X, Y: at.Y, Modifier: msg.Shift, Button: int(msg.Button)})
	case tea.MouseButtonWheelUp:
		m.ctrl.Wheel(WheelEvent{DeltaY: -1})
	case tea.MouseButtonWheelDown:
		m.ctrl.Wheel(WheelEvent{DeltaY: 1})
	}
}
